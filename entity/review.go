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

package entity

import (
	"time"

	"github.com/Netcracker/qubership-code-review-service/view"
)

const CurrentPromptVersion = "v1"

type Review struct {
	tableName struct{} `pg:"code_review"`

	Id            string       `pg:"id,pk,type:varchar"`
	UserId        string       `pg:"user_id,type:varchar,notnull"`
	Language      string       `pg:"language,type:varchar,notnull"`
	Code          string       `pg:"code,type:text"`
	Score         int          `pg:"score,type:integer,use_zero"`
	Summary       string       `pg:"summary,type:varchar"`
	Issues        []view.Issue `pg:"issues,type:jsonb"`
	Suggestions   []string     `pg:"suggestions,type:jsonb"`
	AIModel       string       `pg:"ai_model,type:varchar"`
	PromptVersion string       `pg:"prompt_version,type:varchar"`
	CreatedAt     time.Time    `pg:"created_at,type:timestamp without time zone,notnull"`
	UpdatedAt     time.Time    `pg:"updated_at,type:timestamp without time zone,notnull"`
}

func MakeReviewView(ent Review) view.Review {
	issues := ent.Issues
	if issues == nil {
		issues = make([]view.Issue, 0)
	}
	suggestions := ent.Suggestions
	if suggestions == nil {
		suggestions = make([]string, 0)
	}
	return view.Review{
		Id:            ent.Id,
		UserId:        ent.UserId,
		Language:      ent.Language,
		Code:          ent.Code,
		Score:         ent.Score,
		Summary:       ent.Summary,
		Issues:        issues,
		Suggestions:   suggestions,
		AIModel:       ent.AIModel,
		PromptVersion: ent.PromptVersion,
		CreatedAt:     ent.CreatedAt,
		UpdatedAt:     ent.UpdatedAt,
	}
}

func MakeReviewEntity(id, userId, language, code string, analysis view.CodeAnalysis, now time.Time) Review {
	return Review{
		Id:            id,
		UserId:        userId,
		Language:      language,
		Code:          code,
		Score:         analysis.Score,
		Summary:       analysis.Summary,
		Issues:        analysis.Issues,
		Suggestions:   analysis.Suggestions,
		AIModel:       analysis.Model,
		PromptVersion: CurrentPromptVersion,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}
