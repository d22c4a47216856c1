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

import "time"

type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

func (s Severity) Valid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh:
		return true
	}
	return false
}

type Issue struct {
	Line     int      `json:"line"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

type Review struct {
	Id            string    `json:"id"`
	UserId        string    `json:"userId"`
	Language      string    `json:"language"`
	Code          string    `json:"code,omitempty"`
	Score         int       `json:"score"`
	Summary       string    `json:"summary"`
	Issues        []Issue   `json:"issues"`
	Suggestions   []string  `json:"suggestions"`
	AIModel       string    `json:"aiModel,omitempty"`
	PromptVersion string    `json:"promptVersion,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type CreateReviewReq struct {
	Code     string `json:"code"`
	Language string `json:"language"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
