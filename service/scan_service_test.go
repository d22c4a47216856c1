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
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/Netcracker/qubership-code-review-service/exception"
	"github.com/Netcracker/qubership-code-review-service/secctx"
	"github.com/Netcracker/qubership-code-review-service/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func userCtx() context.Context {
	return secctx.WithUser(context.Background(), "u1", "octo", "gho_token")
}

func TestScan_InvalidNamesRejectedBeforeNetwork(t *testing.T) {
	contents := &fakeContentClient{}
	svc := NewScanService(contents, &fakeAnalyzer{}, DefaultScanLimits)

	for _, req := range []view.ScanRepositoryReq{
		{Owner: "octo", Repo: "../etc"},
		{Owner: "../etc", Repo: "demo"},
		{Owner: "-octo", Repo: "demo"},
		{Owner: "octo", Repo: "demo."},
		{Owner: "", Repo: "demo"},
		{Owner: "octo", Repo: ""},
	} {
		_, err := svc.ScanRepository(userCtx(), req)
		require.Error(t, err, req)
		assert.True(t, exception.HasStatus(err, http.StatusBadRequest), req)
	}
	assert.Zero(t, contents.listed)
}

func TestScan_ValidNames(t *testing.T) {
	svc := NewScanService(&fakeContentClient{}, &fakeAnalyzer{}, DefaultScanLimits)
	for _, req := range []view.ScanRepositoryReq{
		{Owner: "a", Repo: "b"},
		{Owner: "my-org", Repo: "my.repo_name-2"},
	} {
		_, err := svc.ScanRepository(userCtx(), req)
		assert.NoError(t, err, req)
	}
}

func TestScan_RequiresProviderToken(t *testing.T) {
	contents := &fakeContentClient{}
	svc := NewScanService(contents, &fakeAnalyzer{}, DefaultScanLimits)

	ctx := secctx.WithUser(context.Background(), "u1", "octo", "")
	_, err := svc.ScanRepository(ctx, view.ScanRepositoryReq{Owner: "octo", Repo: "demo"})
	require.Error(t, err)
	assert.True(t, exception.HasStatus(err, http.StatusUnauthorized))
	assert.Zero(t, contents.listed)
}

func TestScan_AnalyzerNotConfigured(t *testing.T) {
	contents := &fakeContentClient{}
	notConfigured := exception.NotConfigured(exception.AIServiceNotConfigured, exception.AIServiceNotConfiguredMsg, nil)
	svc := NewScanService(contents, &fakeAnalyzer{unavailable: notConfigured}, DefaultScanLimits)

	_, err := svc.ScanRepository(userCtx(), view.ScanRepositoryReq{Owner: "octo", Repo: "demo"})
	assert.True(t, exception.HasStatus(err, http.StatusServiceUnavailable))
	assert.Zero(t, contents.listed)
}

func TestScan_ListingErrorPropagates(t *testing.T) {
	forbidden := &exception.CustomError{Status: http.StatusForbidden, Code: exception.RepositoryForbidden}
	svc := NewScanService(&fakeContentClient{listErr: forbidden}, &fakeAnalyzer{}, DefaultScanLimits)

	_, err := svc.ScanRepository(userCtx(), view.ScanRepositoryReq{Owner: "octo", Repo: "demo"})
	assert.True(t, exception.HasStatus(err, http.StatusForbidden))
}

func TestScan_SizeCapFailureNextToSuccess(t *testing.T) {
	contents := &fakeContentClient{
		files: []view.RepositoryFile{
			repoFile("big.js", 2000000),
			repoFile("small.py", 100),
		},
		contents: map[string]string{"big.js": "x", "small.py": "print(1)"},
	}
	analyzer := &fakeAnalyzer{scores: map[string]int{"print(1)": 77}}
	svc := NewScanService(contents, analyzer, DefaultScanLimits)

	report, err := svc.ScanRepository(userCtx(), view.ScanRepositoryReq{Owner: "octo", Repo: "demo"})
	require.NoError(t, err)
	require.Len(t, report.Files, 2)

	assert.Equal(t, "big.js", report.Files[0].Path)
	assert.Equal(t, "File too large to analyze (>1MB)", report.Files[0].Error)
	assert.Nil(t, report.Files[0].Score)

	assert.False(t, report.Files[1].Failed())
	assert.Equal(t, "python", report.Files[1].Language)
	require.NotNil(t, report.Files[1].Score)
	assert.Equal(t, 77, *report.Files[1].Score)

	assert.Equal(t, 77, report.OverallScore)
	assert.Equal(t, []string{"small.py"}, contents.fetched)
}

func TestScan_ReportJSONShapes(t *testing.T) {
	contents := &fakeContentClient{
		files: []view.RepositoryFile{
			repoFile("big.js", 2000000),
			repoFile("clean.go", 100),
		},
		contents: map[string]string{"clean.go": "package main"},
	}
	analyzer := &fakeAnalyzer{
		scores: map[string]int{"package main": 100},
		clean:  map[string]bool{"package main": true},
	}
	svc := NewScanService(contents, analyzer, DefaultScanLimits)

	report, err := svc.ScanRepository(userCtx(), view.ScanRepositoryReq{Owner: "octo", Repo: "demo"})
	require.NoError(t, err)
	require.Len(t, report.Files, 2)

	failed, err := json.Marshal(report.Files[0])
	require.NoError(t, err)
	assert.JSONEq(t, `{"path":"big.js","error":"File too large to analyze (>1MB)"}`, string(failed))

	clean, err := json.Marshal(report.Files[1])
	require.NoError(t, err)
	assert.JSONEq(t, `{"path":"clean.go","language":"go","score":100,"issues":[],"suggestions":[]}`, string(clean))

	whole, err := json.Marshal(report)
	require.NoError(t, err)
	assert.Contains(t, string(whole), `"issues":[],"suggestions":[]`)
}

func TestScan_ContentCapCountsCharacters(t *testing.T) {
	limits := DefaultScanLimits
	limits.MaxContentLength = 5
	contents := &fakeContentClient{
		files:    []view.RepositoryFile{repoFile("long.go", 10), repoFile("runes.go", 10)},
		contents: map[string]string{"long.go": "abcdef", "runes.go": "äöüßé"},
	}
	svc := NewScanService(contents, &fakeAnalyzer{}, limits)

	report, err := svc.ScanRepository(userCtx(), view.ScanRepositoryReq{Owner: "octo", Repo: "demo"})
	require.NoError(t, err)
	assert.Equal(t, FileContentTooLargeMsg, report.Files[0].Error)
	assert.False(t, report.Files[1].Failed())
}

func TestScan_OverallScoreIsRoundedMeanOfSuccesses(t *testing.T) {
	contents := &fakeContentClient{
		files:    []view.RepositoryFile{repoFile("a.go", 1), repoFile("b.go", 1), repoFile("c.go", 1)},
		contents: map[string]string{"a.go": "a", "b.go": "b", "c.go": "c"},
	}
	analyzer := &fakeAnalyzer{
		scores: map[string]int{"a": 80, "b": 60},
		failOn: map[string]bool{"c": true},
	}
	svc := NewScanService(contents, analyzer, DefaultScanLimits)

	report, err := svc.ScanRepository(userCtx(), view.ScanRepositoryReq{Owner: "octo", Repo: "demo"})
	require.NoError(t, err)
	assert.Equal(t, 70, report.OverallScore)
	assert.Equal(t, 3, report.AnalyzedFiles)
	assert.True(t, report.Files[2].Failed())
	assert.Equal(t, "model is overloaded", report.Files[2].Error)
}

func TestScan_AllFailedScoresZero(t *testing.T) {
	contents := &fakeContentClient{files: []view.RepositoryFile{repoFile("missing.rb", 1)}}
	svc := NewScanService(contents, &fakeAnalyzer{}, DefaultScanLimits)

	report, err := svc.ScanRepository(userCtx(), view.ScanRepositoryReq{Owner: "octo", Repo: "demo"})
	require.NoError(t, err)
	assert.Equal(t, 0, report.OverallScore)
	assert.Equal(t, "Failed to fetch file content: missing.rb", report.Files[0].Error)
}

func TestScan_FiltersAndCaps(t *testing.T) {
	var files []view.RepositoryFile
	contents := map[string]string{}
	for i := 0; i < 60; i++ {
		p := fmt.Sprintf("src/f%02d.ts", i)
		files = append(files, repoFile(p, 10))
		contents[p] = p
	}
	files = append(files, repoFile("README.md", 10), repoFile("Makefile", 10), repoFile("logo.png", 10))
	client := &fakeContentClient{files: files, contents: contents}
	analyzer := &fakeAnalyzer{}
	svc := NewScanService(client, analyzer, DefaultScanLimits)

	report, err := svc.ScanRepository(userCtx(), view.ScanRepositoryReq{Owner: "octo", Repo: "demo"})
	require.NoError(t, err)
	assert.Equal(t, 60, report.TotalFiles)
	assert.Equal(t, 50, report.AnalyzedFiles)
	assert.Len(t, report.Files, 50)
	assert.Equal(t, "src/f00.ts", report.Files[0].Path)
	assert.Equal(t, "src/f49.ts", report.Files[49].Path)
	for _, call := range analyzer.calls {
		assert.True(t, strings.HasPrefix(call, "typescript:"), call)
	}
}

func TestScan_CancelledContextStops(t *testing.T) {
	contents := &fakeContentClient{
		files:    []view.RepositoryFile{repoFile("a.go", 1)},
		contents: map[string]string{"a.go": "a"},
	}
	svc := NewScanService(contents, &fakeAnalyzer{}, DefaultScanLimits)

	ctx, cancel := context.WithCancel(userCtx())
	cancel()
	_, err := svc.ScanRepository(ctx, view.ScanRepositoryReq{Owner: "octo", Repo: "demo"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLanguageForFile(t *testing.T) {
	cases := map[string]string{
		"a.JS":          "javascript",
		"x/y/comp.tsx":  "typescript",
		"lib.rs":        "rust",
		"main.kt":       "kotlin",
		"unknown.scala": "javascript",
	}
	for path, lang := range cases {
		assert.Equal(t, lang, LanguageForFile(path), path)
	}
	assert.True(t, IsSupportedFile("dir.v2/app.PY"))
	assert.False(t, IsSupportedFile("dir.go/README"))
	assert.False(t, IsSupportedFile("styles.css"))
}
