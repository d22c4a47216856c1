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

package view

// CodeAnalysis is a normalized AI verdict: score in [0,100], sequences never nil.
type CodeAnalysis struct {
	Score       int      `json:"score"`
	Summary     string   `json:"summary"`
	Issues      []Issue  `json:"issues"`
	Suggestions []string `json:"suggestions"`
	Model       string   `json:"-"`
}

// AIReviewOutput is the raw model answer. Every field is optional.
type AIReviewOutput struct {
	Score       *float64        `json:"score"`
	Summary     *string         `json:"summary"`
	Issues      []AIReviewIssue `json:"issues"`
	Suggestions []string        `json:"suggestions"`
}

type AIReviewIssue struct {
	Line        *float64 `json:"line"`
	Severity    *string  `json:"severity"`
	Message     *string  `json:"message"`
	Description *string  `json:"description"`
}

// AIReviewSchema describes the expected answer for providers supporting structured output.
type AIReviewSchema struct {
	Score       int                   `json:"score" jsonschema:"minimum=0,maximum=100"`
	Summary     string                `json:"summary"`
	Issues      []AIReviewSchemaIssue `json:"issues"`
	Suggestions []string              `json:"suggestions"`
}

type AIReviewSchemaIssue struct {
	Line     int    `json:"line"`
	Severity string `json:"severity" jsonschema:"enum=low,enum=medium,enum=high"`
	Message  string `json:"message"`
}
