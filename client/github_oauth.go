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
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Netcracker/qubership-code-review-service/view"
	"github.com/google/go-github/v68/github"
	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	githubOAuth "golang.org/x/oauth2/github"
)

const GithubOAuthScope = "user:email"

type GithubOAuthConfig struct {
	ClientId     string
	ClientSecret string
	RedirectUrl  string
	ApiUrl       string
}

type GithubOAuthClient interface {
	AuthCodeURL(state string) string
	// Exchange trades an authorization code for a GitHub access token.
	Exchange(ctx context.Context, code string) (string, error)
	GetProfile(ctx context.Context, accessToken string) (*view.GithubProfile, error)
}

// NewGithubOAuthClient returns nil if client id or secret are not set.
func NewGithubOAuthClient(cfg GithubOAuthConfig) (GithubOAuthClient, error) {
	if cfg.ClientId == "" || cfg.ClientSecret == "" {
		return nil, nil
	}
	apiUrl := cfg.ApiUrl
	if apiUrl == "" {
		apiUrl = DefaultGithubApiUrl
	}
	baseUrl, err := url.Parse(strings.TrimRight(apiUrl, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("incorrect GitHub API url '%s': %w", apiUrl, err)
	}
	return &githubOAuthClientImpl{
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.ClientId,
			ClientSecret: cfg.ClientSecret,
			Endpoint:     githubOAuth.Endpoint,
			RedirectURL:  cfg.RedirectUrl,
			Scopes:       []string{GithubOAuthScope},
		},
		baseUrl:    baseUrl,
		httpClient: newUpstreamHttpClient(),
	}, nil
}

type githubOAuthClientImpl struct {
	oauthConfig *oauth2.Config
	baseUrl     *url.URL
	httpClient  *http.Client
}

func (g githubOAuthClientImpl) AuthCodeURL(state string) string {
	return g.oauthConfig.AuthCodeURL(state)
}

func (g githubOAuthClientImpl) Exchange(ctx context.Context, code string) (string, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, g.httpClient)
	tok, err := g.oauthConfig.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("failed to exchange OAuth code: %w", err)
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("GitHub returned empty access token")
	}
	return tok.AccessToken, nil
}

func (g githubOAuthClientImpl) GetProfile(ctx context.Context, accessToken string) (*view.GithubProfile, error) {
	gh := github.NewClient(g.httpClient).WithAuthToken(accessToken)
	gh.BaseURL = g.baseUrl

	user, _, err := gh.Users.Get(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to get GitHub user: %w", err)
	}
	if user.GetID() == 0 {
		return nil, fmt.Errorf("GitHub user has no id")
	}
	profile := &view.GithubProfile{
		Id:       strconv.FormatInt(user.GetID(), 10),
		Username: user.GetLogin(),
		Email:    user.GetEmail(),
		Avatar:   user.GetAvatarURL(),
	}
	if profile.Email == "" {
		profile.Email = g.getPrimaryEmail(ctx, gh)
	}
	return profile, nil
}

func (g githubOAuthClientImpl) getPrimaryEmail(ctx context.Context, gh *github.Client) string {
	emails, _, err := gh.Users.ListEmails(ctx, &github.ListOptions{PerPage: 100})
	if err != nil {
		log.Debugf("Failed to list GitHub user emails: %v", err)
		return ""
	}
	fallback := ""
	for _, e := range emails {
		if e.GetPrimary() && e.GetVerified() {
			return e.GetEmail()
		}
		if fallback == "" && e.GetVerified() {
			fallback = e.GetEmail()
		}
	}
	return fallback
}
