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

package service

import (
	"context"
	"errors"
	"sync"

	"github.com/Netcracker/qubership-code-review-service/view"
)

type fakeAnalyzer struct {
	mu          sync.Mutex
	scores      map[string]int
	failOn      map[string]bool
	clean       map[string]bool
	unavailable error
	calls       []string
}

func (f *fakeAnalyzer) CheckAvailable() error {
	return f.unavailable
}

func (f *fakeAnalyzer) AnalyzeCode(_ context.Context, code string, language string) (*view.CodeAnalysis, error) {
	f.mu.Lock()
	f.calls = append(f.calls, language+":"+code)
	f.mu.Unlock()
	if f.unavailable != nil {
		return nil, f.unavailable
	}
	if f.failOn[code] {
		return nil, errors.New("model is overloaded")
	}
	score, ok := f.scores[code]
	if !ok {
		score = 90
	}
	if f.clean[code] {
		return &view.CodeAnalysis{Score: score, Summary: "summary of " + code, Model: "fake-model"}, nil
	}
	return &view.CodeAnalysis{
		Score:       score,
		Summary:     "summary of " + code,
		Issues:      []view.Issue{{Line: 1, Severity: view.SeverityMedium, Message: "m"}},
		Suggestions: []string{"s"},
		Model:       "fake-model",
	}, nil
}

func (f *fakeAnalyzer) GetModel() string {
	return "fake-model"
}

type fakeContentClient struct {
	files    []view.RepositoryFile
	contents map[string]string
	listErr  error
	listed   int
	fetched  []string
}

func (f *fakeContentClient) ListFiles(_ context.Context, _, _, _ string) ([]view.RepositoryFile, error) {
	f.listed++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.files, nil
}

func (f *fakeContentClient) GetContent(_ context.Context, _, _, path, _ string) (string, error) {
	f.fetched = append(f.fetched, path)
	content, ok := f.contents[path]
	if !ok {
		return "", errors.New("Failed to fetch file content: " + path)
	}
	return content, nil
}

func repoFile(path string, size int64) view.RepositoryFile {
	return view.RepositoryFile{Name: path, Path: path, Size: size, Type: view.RepositoryFileTypeFile}
}
