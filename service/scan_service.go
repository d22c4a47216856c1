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
	"fmt"
	"math"
	"net/http"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Netcracker/qubership-code-review-service/client"
	"github.com/Netcracker/qubership-code-review-service/exception"
	"github.com/Netcracker/qubership-code-review-service/secctx"
	"github.com/Netcracker/qubership-code-review-service/view"
	log "github.com/sirupsen/logrus"
)

var ownerPattern = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9-]*[a-zA-Z0-9])?$`)
var repoPattern = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9._-]*[a-zA-Z0-9])?$`)

const FileContentTooLargeMsg = "File content too large to analyze"

type ScanService interface {
	ScanRepository(ctx context.Context, req view.ScanRepositoryReq) (*view.ScanReport, error)
}

func NewScanService(contentClient client.GithubContentClient, analyzer client.CodeAnalyzer, limits ScanLimits) ScanService {
	return &scanServiceImpl{contentClient: contentClient, analyzer: analyzer, limits: limits}
}

type scanServiceImpl struct {
	contentClient client.GithubContentClient
	analyzer      client.CodeAnalyzer
	limits        ScanLimits
}

func (s scanServiceImpl) ScanRepository(ctx context.Context, req view.ScanRepositoryReq) (*view.ScanReport, error) {
	if err := validateScanRequest(req); err != nil {
		return nil, err
	}
	token := secctx.GetProviderToken(ctx)
	if token == "" {
		return nil, &exception.CustomError{
			Status:  http.StatusUnauthorized,
			Code:    exception.NoProviderAccessToken,
			Message: exception.NoProviderAccessTokenMsg,
		}
	}
	if err := s.analyzer.CheckAvailable(); err != nil {
		return nil, err
	}

	start := time.Now()
	allFiles, err := s.contentClient.ListFiles(ctx, req.Owner, req.Repo, token)
	if err != nil {
		return nil, err
	}
	files := make([]view.RepositoryFile, 0)
	for _, f := range allFiles {
		if IsSupportedFile(f.Path) {
			files = append(files, f)
		}
	}
	totalFiles := len(files)
	if totalFiles > s.limits.MaxFiles {
		log.Infof("Repository %s/%s has %d supported files, only first %d will be analyzed", req.Owner, req.Repo, totalFiles, s.limits.MaxFiles)
		files = files[:s.limits.MaxFiles]
	}

	report := &view.ScanReport{
		Owner:         req.Owner,
		Repo:          req.Repo,
		TotalFiles:    totalFiles,
		AnalyzedFiles: len(files),
		Files:         make([]view.ScannedFile, 0, len(files)),
	}
	scoreSum, scored := 0, 0
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result := s.scanFile(ctx, req, f, token)
		if result.Score != nil {
			scoreSum += *result.Score
			scored++
		}
		report.Files = append(report.Files, result)
	}
	if scored > 0 {
		report.OverallScore = int(math.Round(float64(scoreSum) / float64(scored)))
	}
	log.Infof("Scan of %s/%s finished: %d of %d files analyzed successfully, overall score %d, it took %dms",
		req.Owner, req.Repo, scored, len(files), report.OverallScore, time.Since(start).Milliseconds())
	return report, nil
}

func (s scanServiceImpl) scanFile(ctx context.Context, req view.ScanRepositoryReq, f view.RepositoryFile, token string) view.ScannedFile {
	if f.Size > s.limits.MaxFileSize {
		return view.ScannedFile{Path: f.Path, Error: fmt.Sprintf("File too large to analyze (>%s)", formatSize(s.limits.MaxFileSize))}
	}
	content, err := s.contentClient.GetContent(ctx, req.Owner, req.Repo, f.Path, token)
	if err != nil {
		log.Debugf("Failed to fetch %s: %v", f.Path, err)
		return view.ScannedFile{Path: f.Path, Error: err.Error()}
	}
	if utf8.RuneCountInString(content) > s.limits.MaxContentLength {
		return view.ScannedFile{Path: f.Path, Error: FileContentTooLargeMsg}
	}
	language := LanguageForFile(f.Path)
	analysis, err := s.analyzer.AnalyzeCode(ctx, content, language)
	if err != nil {
		log.Debugf("Failed to analyze %s: %v", f.Path, err)
		return view.ScannedFile{Path: f.Path, Error: err.Error()}
	}
	score := analysis.Score
	return view.ScannedFile{
		Path:        f.Path,
		Language:    language,
		Score:       &score,
		Issues:      analysis.Issues,
		Suggestions: analysis.Suggestions,
	}
}

func validateScanRequest(req view.ScanRepositoryReq) error {
	var missing []string
	if strings.TrimSpace(req.Owner) == "" {
		missing = append(missing, "owner")
	}
	if strings.TrimSpace(req.Repo) == "" {
		missing = append(missing, "repo")
	}
	if len(missing) > 0 {
		return &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.RequiredParamsMissing,
			Message: exception.RequiredParamsMissingMsg,
			Params:  map[string]interface{}{"params": strings.Join(missing, ", ")},
		}
	}
	if !ownerPattern.MatchString(req.Owner) {
		return &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.InvalidOwnerFormat,
			Message: exception.InvalidOwnerFormatMsg,
			Params:  map[string]interface{}{"owner": req.Owner},
		}
	}
	if !repoPattern.MatchString(req.Repo) {
		return &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.InvalidRepoFormat,
			Message: exception.InvalidRepoFormatMsg,
			Params:  map[string]interface{}{"repo": req.Repo},
		}
	}
	return nil
}

func formatSize(bytes int64) string {
	switch {
	case bytes >= 1000000 && bytes%1000000 == 0:
		return fmt.Sprintf("%dMB", bytes/1000000)
	case bytes >= 1000 && bytes%1000 == 0:
		return fmt.Sprintf("%dKB", bytes/1000)
	default:
		return fmt.Sprintf("%d bytes", bytes)
	}
}
