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

import "encoding/json"

type ScanRepositoryReq struct {
	Owner string `json:"owner"`
	Repo  string `json:"repo"`
}

type ScanReport struct {
	Owner         string        `json:"owner"`
	Repo          string        `json:"repo"`
	TotalFiles    int           `json:"totalFiles"`
	AnalyzedFiles int           `json:"analyzedFiles"`
	OverallScore  int           `json:"overallScore"`
	Files         []ScannedFile `json:"files"`
}

// ScannedFile holds either a successful analysis or an Error, never both.
type ScannedFile struct {
	Path        string   `json:"path"`
	Language    string   `json:"language,omitempty"`
	Score       *int     `json:"score,omitempty"`
	Issues      []Issue  `json:"issues"`
	Suggestions []string `json:"suggestions"`
	Error       string   `json:"error,omitempty"`
}

func (f ScannedFile) Failed() bool {
	return f.Error != ""
}

type scannedFileFailure struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// MarshalJSON writes a failed entry as {path, error}; a successful one always carries issues and suggestions arrays.
func (f ScannedFile) MarshalJSON() ([]byte, error) {
	if f.Failed() {
		return json.Marshal(scannedFileFailure{Path: f.Path, Error: f.Error})
	}
	type plain ScannedFile
	out := plain(f)
	if out.Issues == nil {
		out.Issues = []Issue{}
	}
	if out.Suggestions == nil {
		out.Suggestions = []string{}
	}
	return json.Marshal(out)
}

type RepositoryFileType string

const (
	RepositoryFileTypeFile RepositoryFileType = "file"
	RepositoryFileTypeDir  RepositoryFileType = "dir"
)

// RepositoryFile is one entry of a GitHub contents listing.
type RepositoryFile struct {
	Name string             `json:"name"`
	Path string             `json:"path"`
	Sha  string             `json:"sha"`
	Size int64              `json:"size"`
	Type RepositoryFileType `json:"type"`
}
