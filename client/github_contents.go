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
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Netcracker/qubership-code-review-service/exception"
	"github.com/Netcracker/qubership-code-review-service/view"
	log "github.com/sirupsen/logrus"
	"gopkg.in/resty.v1"
)

const DefaultGithubApiUrl = "https://api.github.com"

// IgnoredDirectories are never descended into, at any depth.
var IgnoredDirectories = map[string]struct{}{
	"node_modules": {},
	"dist":         {},
	"build":        {},
	".git":         {},
	"vendor":       {},
	"__pycache__":  {},
}

type GithubContentClient interface {
	// ListFiles returns every file of the repository outside ignored directories, depth-first in listing order.
	ListFiles(ctx context.Context, owner, repo, token string) ([]view.RepositoryFile, error)
	GetContent(ctx context.Context, owner, repo, path, token string) (string, error)
}

func NewGithubContentClient(apiUrl string) GithubContentClient {
	if apiUrl == "" {
		apiUrl = DefaultGithubApiUrl
	}
	client := resty.NewWithClient(newUpstreamHttpClient())
	return &githubContentClientImpl{apiUrl: strings.TrimRight(apiUrl, "/"), client: client}
}

// newUpstreamHttpClient builds the client for GitHub calls. Requests are bounded by the caller context and the transport defaults only.
func newUpstreamHttpClient() *http.Client {
	return &http.Client{Transport: http.DefaultTransport}
}

type githubContentClientImpl struct {
	apiUrl string
	client *resty.Client
}

type listingFrame struct {
	entries []view.RepositoryFile
	next    int
}

func (g githubContentClientImpl) ListFiles(ctx context.Context, owner, repo, token string) ([]view.RepositoryFile, error) {
	start := time.Now()
	root, err := g.listDirectory(ctx, owner, repo, "", token)
	if err != nil {
		return nil, err
	}
	dirCount := 1
	files := make([]view.RepositoryFile, 0)
	stack := []*listingFrame{{entries: root}}
	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		top := stack[len(stack)-1]
		if top.next >= len(top.entries) {
			stack = stack[:len(stack)-1]
			continue
		}
		entry := top.entries[top.next]
		top.next++

		switch entry.Type {
		case view.RepositoryFileTypeFile:
			files = append(files, entry)
		case view.RepositoryFileTypeDir:
			if _, ignored := IgnoredDirectories[entry.Name]; ignored {
				continue
			}
			children, err := g.listDirectory(ctx, owner, repo, entry.Path, token)
			if err != nil {
				return nil, err
			}
			dirCount++
			stack = append(stack, &listingFrame{entries: children})
		}
	}
	log.Debugf("Listed %d files in %d directories of %s/%s, it took %dms", len(files), dirCount, owner, repo, time.Since(start).Milliseconds())
	return files, nil
}

func (g githubContentClientImpl) listDirectory(ctx context.Context, owner, repo, path, token string) ([]view.RepositoryFile, error) {
	req := g.makeRequest(ctx, token)
	req.SetHeader("Accept", "application/vnd.github.v3+json")
	resp, err := req.Get(g.contentsUrl(owner, repo, path))
	if err != nil {
		log.Errorf("Error fetching repository files: %v", err)
		return nil, repositoryFetchFailed(err.Error())
	}
	if resp.StatusCode() != http.StatusOK {
		log.Errorf("Error fetching repository files: status code %d %s", resp.StatusCode(), string(resp.Body()))
		return nil, listingError(resp)
	}
	var entries []view.RepositoryFile
	if err := json.Unmarshal(resp.Body(), &entries); err != nil {
		return nil, repositoryFetchFailed(fmt.Sprintf("unexpected listing for path '%s': %s", path, err.Error()))
	}
	return entries, nil
}

func (g githubContentClientImpl) GetContent(ctx context.Context, owner, repo, path, token string) (string, error) {
	req := g.makeRequest(ctx, token)
	req.SetHeader("Accept", "application/vnd.github.v3.raw")
	resp, err := req.Get(g.contentsUrl(owner, repo, path))
	if err != nil {
		log.Errorf("Error fetching file %s: %v", path, err)
		return "", contentError(http.StatusInternalServerError, path, err.Error())
	}
	if resp.StatusCode() != http.StatusOK {
		log.Errorf("Error fetching file %s: status code %d", path, resp.StatusCode())
		status := resp.StatusCode()
		if status != http.StatusNotFound && status != http.StatusForbidden {
			status = http.StatusInternalServerError
		}
		return "", contentError(status, path, fmt.Sprintf("status code %d %s", resp.StatusCode(), string(resp.Body())))
	}
	return string(resp.Body()), nil
}

func (g githubContentClientImpl) contentsUrl(owner, repo, path string) string {
	return fmt.Sprintf("%s/repos/%s/%s/contents/%s", g.apiUrl, url.PathEscape(owner), url.PathEscape(repo), escapePath(path))
}

func (g githubContentClientImpl) makeRequest(ctx context.Context, token string) *resty.Request {
	req := g.client.R()
	req.SetContext(ctx)
	if token != "" {
		req.SetHeader("Authorization", fmt.Sprintf("Bearer %s", token))
	}
	return req
}

func escapePath(path string) string {
	if path == "" {
		return ""
	}
	segments := strings.Split(path, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}

func listingError(resp *resty.Response) error {
	switch resp.StatusCode() {
	case http.StatusNotFound:
		return &exception.CustomError{
			Status:  http.StatusNotFound,
			Code:    exception.RepositoryNotFound,
			Message: exception.RepositoryNotFoundMsg,
			Debug:   string(resp.Body()),
		}
	case http.StatusForbidden:
		return &exception.CustomError{
			Status:  http.StatusForbidden,
			Code:    exception.RepositoryForbidden,
			Message: exception.RepositoryForbiddenMsg,
			Debug:   string(resp.Body()),
		}
	default:
		return repositoryFetchFailed(fmt.Sprintf("status code %d %s", resp.StatusCode(), string(resp.Body())))
	}
}

func repositoryFetchFailed(debug string) error {
	return &exception.CustomError{
		Status:  http.StatusInternalServerError,
		Code:    exception.RepositoryFetchFailed,
		Message: exception.RepositoryFetchFailedMsg,
		Debug:   debug,
	}
}

func contentError(status int, path string, debug string) error {
	return &exception.CustomError{
		Status:  status,
		Code:    exception.FileContentFetchFailed,
		Message: exception.FileContentFetchFailedMsg,
		Params:  map[string]interface{}{"path": path},
		Debug:   debug,
	}
}
