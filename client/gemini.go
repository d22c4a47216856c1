// Copyright 2024-2025 NetCracker Technology Corporation
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package client

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
)

const defaultGeminiModel = "gemini-1.5-flash"

func newGeminiProvider(ctx context.Context, apiKey string, model string) (completionProvider, error) {
	if model == "" {
		model = defaultGeminiModel
	}
	llm, err := googleai.New(ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("gemini: failed to create client: %w", err)
	}
	return &geminiProviderImpl{llm: llm, model: model}, nil
}

type geminiProviderImpl struct {
	llm   llms.Model
	model string
}

func (g geminiProviderImpl) Name() string {
	return string(AIProviderGemini)
}

func (g geminiProviderImpl) Model() string {
	return g.model
}

func (g geminiProviderImpl) Complete(ctx context.Context, prompt string) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, g.llm, prompt)
}
