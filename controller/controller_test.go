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

package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/Netcracker/qubership-code-review-service/client"
	"github.com/Netcracker/qubership-code-review-service/exception"
	"github.com/Netcracker/qubership-code-review-service/repository"
	"github.com/Netcracker/qubership-code-review-service/secctx"
	"github.com/Netcracker/qubership-code-review-service/service"
	"github.com/Netcracker/qubership-code-review-service/view"
	"github.com/gorilla/mux"
	"github.com/shaj13/go-guardian/v2/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAnalyzer struct{}

func (stubAnalyzer) CheckAvailable() error { return nil }
func (stubAnalyzer) GetModel() string      { return "stub" }
func (stubAnalyzer) AnalyzeCode(_ context.Context, _ string, _ string) (*view.CodeAnalysis, error) {
	return &view.CodeAnalysis{Score: 88, Summary: "ok", Issues: []view.Issue{}, Suggestions: []string{}, Model: "stub"}, nil
}

func asUser(r *http.Request, userId string, providerToken string) *http.Request {
	ext := auth.Extensions{}
	ext.Set(secctx.ProviderTokenExt, providerToken)
	return auth.RequestWithUser(auth.NewDefaultUser(userId, userId, []string{}, ext), r)
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, target interface{}) {
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), target), rec.Body.String())
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHealthController().GetHealth(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","message":"Server is running"}`, rec.Body.String())
}

func TestReady(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHealthController(func(context.Context) error { return errors.New("db down") }).Ready(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = httptest.NewRecorder()
	NewHealthController(func(context.Context) error { return nil }).Ready(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReviewLifecycle(t *testing.T) {
	ctl := NewReviewController(service.NewReviewService(repository.NewMemoryReviewRepository(), stubAnalyzer{}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/review", strings.NewReader(`{"code":"x = 1","language":"python"}`))
	ctl.CreateReview(rec, asUser(req, "alice", ""))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created view.Review
	decode(t, rec, &created)
	assert.Equal(t, 88, created.Score)
	assert.Equal(t, "x = 1", created.Code)

	rec = httptest.NewRecorder()
	req = mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/api/review/"+created.Id, nil), map[string]string{"id": created.Id})
	ctl.GetReview(rec, asUser(req, "bob", ""))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	var notFound exception.CustomError
	decode(t, rec, &notFound)
	assert.Equal(t, "Review not found", notFound.Message)

	rec = httptest.NewRecorder()
	ctl.GetReviews(rec, asUser(httptest.NewRequest(http.MethodGet, "/api/review", nil), "alice", ""))
	assert.Equal(t, http.StatusOK, rec.Code)
	var list []map[string]interface{}
	decode(t, rec, &list)
	require.Len(t, list, 1)
	_, hasCode := list[0]["code"]
	assert.False(t, hasCode)

	rec = httptest.NewRecorder()
	req = mux.SetURLVars(httptest.NewRequest(http.MethodDelete, "/api/review/"+created.Id, nil), map[string]string{"id": created.Id})
	ctl.DeleteReview(rec, asUser(req, "alice", ""))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Review deleted successfully"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	req = mux.SetURLVars(httptest.NewRequest(http.MethodDelete, "/api/review/"+created.Id, nil), map[string]string{"id": created.Id})
	ctl.DeleteReview(rec, asUser(req, "alice", ""))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateReview_BadInput(t *testing.T) {
	ctl := NewReviewController(service.NewReviewService(repository.NewMemoryReviewRepository(), stubAnalyzer{}))
	for _, body := range []string{"", "{not json", `{"code":"x"}`} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/review", strings.NewReader(body))
		ctl.CreateReview(rec, asUser(req, "alice", ""))
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
}

func TestCreateReview_AINotConfigured(t *testing.T) {
	_, cause := client.NewCodeAnalyzer(context.Background(), client.AIConfig{})
	ctl := NewReviewController(service.NewReviewService(repository.NewMemoryReviewRepository(), client.NewUnavailableCodeAnalyzer(cause)))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/review", strings.NewReader(`{"code":"x","language":"go"}`))
	ctl.CreateReview(rec, asUser(req, "alice", ""))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "GEMINI_API_KEY")
}

func TestScan_InvalidOwner(t *testing.T) {
	contents := client.NewGithubContentClient("http://127.0.0.1:1")
	ctl := NewScanController(service.NewScanService(contents, stubAnalyzer{}, service.DefaultScanLimits))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/repo/scan", strings.NewReader(`{"owner":"../etc","repo":"x"}`))
	ctl.ScanRepository(rec, asUser(req, "alice", "gho"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid owner format")
}

func TestScan_NoProviderToken(t *testing.T) {
	contents := client.NewGithubContentClient("http://127.0.0.1:1")
	ctl := NewScanController(service.NewScanService(contents, stubAnalyzer{}, service.DefaultScanLimits))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/repo/scan", strings.NewReader(`{"owner":"octo","repo":"demo"}`))
	ctl.ScanRepository(rec, asUser(req, "alice", ""))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "GitHub access token not available")
}

func TestRespondWithError_RedactsOutsideDevelopment(t *testing.T) {
	defer SetProductionMode(true)

	SetProductionMode(true)
	rec := httptest.NewRecorder()
	respondWithError(rec, "Failed to get reviews", errors.New("pq: connection refused"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection refused")
	assert.NotContains(t, rec.Body.String(), "Failed to get reviews")

	SetProductionMode(false)
	rec = httptest.NewRecorder()
	respondWithError(rec, "Failed to get reviews", errors.New("pq: connection refused"))
	assert.Contains(t, rec.Body.String(), "connection refused")
	assert.Contains(t, rec.Body.String(), "Failed to get reviews")
}

func TestRespondWithCustomError_SubstitutesParams(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondWithCustomError(rec, &exception.CustomError{
		Status:  http.StatusNotFound,
		Code:    exception.FileContentFetchFailed,
		Message: exception.FileContentFetchFailedMsg,
		Params:  map[string]interface{}{"path": "a.go"},
	})
	var body exception.CustomError
	decode(t, rec, &body)
	assert.Equal(t, "Failed to fetch file content: a.go", body.Message)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

type stubOAuthClient struct{}

func (stubOAuthClient) AuthCodeURL(state string) string {
	return "https://github.com/login/oauth/authorize?state=" + url.QueryEscape(state)
}
func (stubOAuthClient) Exchange(context.Context, string) (string, error) { return "gho_1", nil }
func (stubOAuthClient) GetProfile(context.Context, string) (*view.GithubProfile, error) {
	return &view.GithubProfile{Id: "1", Username: "octo"}, nil
}

func newAuthController(oauth client.GithubOAuthClient) AuthController {
	issuer := func(user view.User) (string, error) { return "jwt-" + user.Username, nil }
	authService := service.NewAuthService(oauth, client.NewLocalOAuthStateStore(), repository.NewMemoryUserRepository(), issuer)
	return NewAuthController(authService, "http://localhost:5173/", time.Hour)
}

func TestAuth_NotConfigured(t *testing.T) {
	ctl := newAuthController(nil)

	rec := httptest.NewRecorder()
	ctl.StartGithubLogin(rec, httptest.NewRequest(http.MethodGet, "/api/auth/github", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "GITHUB_CLIENT_ID")

	rec = httptest.NewRecorder()
	ctl.GithubCallback(rec, httptest.NewRequest(http.MethodGet, "/api/auth/github/callback?code=c&state=s", nil))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "http://localhost:5173/login?error=oauth_not_configured", rec.Header().Get("Location"))
}

func TestAuth_LoginRoundTrip(t *testing.T) {
	ctl := newAuthController(stubOAuthClient{})

	rec := httptest.NewRecorder()
	ctl.StartGithubLogin(rec, httptest.NewRequest(http.MethodGet, "/api/auth/github", nil))
	require.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	location, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	state := location.Query().Get("state")
	require.NotEmpty(t, state)

	rec = httptest.NewRecorder()
	ctl.GithubCallback(rec, httptest.NewRequest(http.MethodGet, "/api/auth/github/callback?code=c&state="+state, nil))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "http://localhost:5173/auth/callback?token=jwt-octo", rec.Header().Get("Location"))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, view.AccessTokenCookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	rec = httptest.NewRecorder()
	ctl.GithubCallback(rec, httptest.NewRequest(http.MethodGet, "/api/auth/github/callback?code=c&state="+state, nil))
	assert.Equal(t, "http://localhost:5173/login?error=auth_failed", rec.Header().Get("Location"))
}

func TestAuth_ProviderError(t *testing.T) {
	ctl := newAuthController(stubOAuthClient{})
	rec := httptest.NewRecorder()
	ctl.GithubCallback(rec, httptest.NewRequest(http.MethodGet, "/api/auth/github/callback?error=access_denied", nil))
	assert.Equal(t, "http://localhost:5173/login?error=auth_failed", rec.Header().Get("Location"))
}
