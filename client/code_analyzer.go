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
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/Netcracker/qubership-code-review-service/exception"
	"github.com/Netcracker/qubership-code-review-service/view"
	log "github.com/sirupsen/logrus"
)

type CodeAnalyzer interface {
	// CheckAvailable returns the configuration error of an analyzer that cannot serve requests.
	CheckAvailable() error
	AnalyzeCode(ctx context.Context, code string, language string) (*view.CodeAnalysis, error)
	GetModel() string
}

// completionProvider sends one prompt to a generative text service and returns the raw answer.
type completionProvider interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Name() string
	Model() string
}

type AIProvider string

const (
	AIProviderGemini    AIProvider = "gemini"
	AIProviderOpenAI    AIProvider = "openai"
	AIProviderAnthropic AIProvider = "anthropic"
)

type AIConfig struct {
	Provider AIProvider
	ApiKey   string
	Model    string
	ProxyUrl string
}

// ApiKeyEnv is the environment variable expected to hold the key of the provider.
func (p AIProvider) ApiKeyEnv() string {
	switch p {
	case AIProviderOpenAI:
		return "OPENAI_API_KEY"
	case AIProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	default:
		return "GEMINI_API_KEY"
	}
}

// NewCodeAnalyzer fails with a 503 CustomError when the provider key is absent.
func NewCodeAnalyzer(ctx context.Context, cfg AIConfig) (CodeAnalyzer, error) {
	if cfg.Provider == "" {
		cfg.Provider = AIProviderGemini
	}
	if cfg.ApiKey == "" {
		return nil, exception.NotConfigured(exception.AIServiceNotConfigured, exception.AIServiceNotConfiguredMsg,
			map[string]interface{}{"key": cfg.Provider.ApiKeyEnv()})
	}

	var provider completionProvider
	var err error
	switch cfg.Provider {
	case AIProviderGemini:
		provider, err = newGeminiProvider(ctx, cfg.ApiKey, cfg.Model)
	case AIProviderOpenAI:
		provider, err = newOpenaiProvider(cfg.ApiKey, cfg.Model, cfg.ProxyUrl)
	case AIProviderAnthropic:
		provider, err = newAnthropicProvider(cfg.ApiKey, cfg.Model)
	default:
		return nil, fmt.Errorf("unknown AI provider %q, supported: gemini, openai, anthropic", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}
	log.Infof("AI analysis uses %s provider with model %s", provider.Name(), provider.Model())
	return newCodeAnalyzer(provider), nil
}

func newCodeAnalyzer(provider completionProvider) CodeAnalyzer {
	return &codeAnalyzerImpl{provider: provider}
}

type codeAnalyzerImpl struct {
	provider completionProvider
}

// NewUnavailableCodeAnalyzer returns an analyzer failing every call with cause.
func NewUnavailableCodeAnalyzer(cause error) CodeAnalyzer {
	return unavailableCodeAnalyzerImpl{cause: cause}
}

type unavailableCodeAnalyzerImpl struct {
	cause error
}

func (u unavailableCodeAnalyzerImpl) CheckAvailable() error {
	return u.cause
}

func (u unavailableCodeAnalyzerImpl) AnalyzeCode(context.Context, string, string) (*view.CodeAnalysis, error) {
	return nil, u.cause
}

func (u unavailableCodeAnalyzerImpl) GetModel() string {
	return ""
}

const reviewPromptTemplate = `You are a code review expert. Review the following %[1]s code for security, performance, maintainability, and style.
Provide a score from 0 to 100. Provide a detailed list of issues with line numbers and specific suggestions.
Provide a concise summary of the review.

IMPORTANT: Return ONLY valid JSON. No markdown, no explanations, no code blocks.

Required JSON format:
{
  "score": 85,
  "summary": "Brief summary of the review",
  "issues": [
    {
      "line": 12,
      "severity": "high",
      "message": "Possible SQL injection risk"
    }
  ],
  "suggestions": [
    "Use parameterized queries",
    "Refactor large functions"
  ]
}

Code:
%[3]s%[1]s
%[2]s
%[3]s

Return only the JSON object, nothing else.`

const codeFence = "```"

func buildReviewPrompt(code string, language string) string {
	return fmt.Sprintf(reviewPromptTemplate, language, code, codeFence)
}

func (c codeAnalyzerImpl) CheckAvailable() error {
	return nil
}

func (c codeAnalyzerImpl) GetModel() string {
	return c.provider.Model()
}

func (c codeAnalyzerImpl) AnalyzeCode(ctx context.Context, code string, language string) (*view.CodeAnalysis, error) {
	start := time.Now()
	log.Debugf("run code analysis with %s (language %s, %d bytes)", c.provider.Name(), language, len(code))

	raw, err := c.provider.Complete(ctx, buildReviewPrompt(code, language))
	log.Debugf("finished code analysis with %s, it took %dms", c.provider.Name(), time.Since(start).Milliseconds())
	if err != nil {
		log.Errorf("AI analysis failed: %v", err)
		return nil, analysisFailed(err)
	}

	analysis, err := ParseAnalysis(raw)
	if err != nil {
		log.Errorf("AI analysis returned unparseable response: %v", err)
		return nil, analysisFailed(err)
	}
	analysis.Model = c.provider.Model()
	return analysis, nil
}

func analysisFailed(cause error) error {
	return &exception.CustomError{
		Status:  http.StatusInternalServerError,
		Code:    exception.AIAnalysisFailed,
		Message: exception.AIAnalysisFailedMsg,
		Debug:   cause.Error(),
	}
}

const maxIssueLine = math.MaxInt32

const (
	defaultSummary      = "No summary provided."
	defaultIssueMessage = "Issue found"
)

// ParseAnalysis decodes a model answer, optionally wrapped in a markdown code fence,
// and fills every missing field with its default.
func ParseAnalysis(raw string) (*view.CodeAnalysis, error) {
	text := stripCodeFence(raw)
	if text == "" {
		return nil, fmt.Errorf("empty response")
	}
	var out view.AIReviewOutput
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return nil, fmt.Errorf("parse response as JSON: %w", err)
	}
	return normalizeAnalysis(out), nil
}

func stripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, codeFence) {
		return text
	}
	text = strings.TrimPrefix(text, codeFence)
	if nl := strings.IndexByte(text, '\n'); nl >= 0 && !strings.ContainsAny(text[:nl], "{[") {
		// drop the info string, e.g. "json"
		text = text[nl+1:]
	} else {
		text = strings.TrimPrefix(text, "json")
	}
	if idx := strings.LastIndex(text, codeFence); idx >= 0 {
		text = text[:idx]
	}
	return strings.TrimSpace(text)
}

func normalizeAnalysis(out view.AIReviewOutput) *view.CodeAnalysis {
	result := &view.CodeAnalysis{
		Score:       0,
		Summary:     defaultSummary,
		Issues:      make([]view.Issue, 0, len(out.Issues)),
		Suggestions: make([]string, 0, len(out.Suggestions)),
	}
	if out.Score != nil {
		result.Score = roundNumber(*out.Score, 0, 100)
	}
	if out.Summary != nil && strings.TrimSpace(*out.Summary) != "" {
		result.Summary = *out.Summary
	}
	for _, issue := range out.Issues {
		result.Issues = append(result.Issues, normalizeIssue(issue))
	}
	for _, s := range out.Suggestions {
		if strings.TrimSpace(s) != "" {
			result.Suggestions = append(result.Suggestions, s)
		}
	}
	return result
}

func normalizeIssue(issue view.AIReviewIssue) view.Issue {
	result := view.Issue{
		Line:     0,
		Severity: view.SeverityLow,
		Message:  defaultIssueMessage,
	}
	if issue.Line != nil {
		result.Line = roundNumber(*issue.Line, 0, maxIssueLine)
	}
	if issue.Severity != nil {
		severity := view.Severity(strings.ToLower(strings.TrimSpace(*issue.Severity)))
		if severity.Valid() {
			result.Severity = severity
		}
	}
	if issue.Message != nil && *issue.Message != "" {
		result.Message = *issue.Message
	} else if issue.Description != nil && *issue.Description != "" {
		result.Message = *issue.Description
	}
	return result
}

// roundNumber clamps f to [lo, hi] before rounding, so out of range values never overflow int.
func roundNumber(f float64, lo, hi int) int {
	if math.IsNaN(f) {
		return lo
	}
	f = math.Max(float64(lo), math.Min(float64(hi), f))
	return int(math.Round(f))
}
