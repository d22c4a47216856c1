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
	"errors"
	"net/http"

	"github.com/Netcracker/qubership-code-review-service/view"
	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const defaultOpenaiModel = "gpt-4.1"

func newOpenaiProvider(apiKey string, model string, proxy string) (completionProvider, error) {
	var opts []option.RequestOption
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	} else {
		return nil, errors.New("openai: api key is required")
	}

	if proxy != "" {
		opts = append(opts, option.WithBaseURL(proxy))
	}

	var openAIModel openai.ChatModel
	if model != "" {
		openAIModel = model
	} else {
		openAIModel = defaultOpenaiModel
	}

	opts = append(opts, option.WithHTTPClient(&http.Client{}))

	return &openaiProviderImpl{
		client: openai.NewClient(opts...),
		model:  openAIModel,
	}, nil
}

type openaiProviderImpl struct {
	client openai.Client
	model  openai.ChatModel
}

var AIReviewResponseSchema = GenerateSchema[view.AIReviewSchema]()

func (o openaiProviderImpl) Name() string {
	return string(AIProviderOpenAI)
}

func (o openaiProviderImpl) Model() string {
	return o.model
}

func (o openaiProviderImpl) Complete(ctx context.Context, prompt string) (string, error) {
	schemaParam := openai.ResponseFormatJSONSchemaJSONSchemaParam{
		Name:   "code_review_result",
		Schema: AIReviewResponseSchema,
		Strict: openai.Bool(true),
	}

	chat, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{JSONSchema: schemaParam},
		},
		Model: o.model,
	})
	if err != nil {
		return "", err
	}
	if len(chat.Choices) == 0 {
		return "", errors.New("openai: response has no choices")
	}
	return chat.Choices[0].Message.Content, nil
}

func GenerateSchema[T any]() interface{} {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	schema := reflector.Reflect(v)
	return schema
}
