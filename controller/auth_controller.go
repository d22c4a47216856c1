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
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Netcracker/qubership-code-review-service/exception"
	"github.com/Netcracker/qubership-code-review-service/secctx"
	"github.com/Netcracker/qubership-code-review-service/service"
	"github.com/Netcracker/qubership-code-review-service/view"
	log "github.com/sirupsen/logrus"
)

const (
	loginErrorAuthFailed         = "auth_failed"
	loginErrorOAuthNotConfigured = "oauth_not_configured"
)

type AuthController interface {
	StartGithubLogin(w http.ResponseWriter, r *http.Request)
	GithubCallback(w http.ResponseWriter, r *http.Request)
	GetCurrentUser(w http.ResponseWriter, r *http.Request)
}

func NewAuthController(authService service.AuthService, frontendUrl string, tokenTTL time.Duration) AuthController {
	return &authControllerImpl{
		authService: authService,
		frontendUrl: strings.TrimRight(frontendUrl, "/"),
		tokenTTL:    tokenTTL,
	}
}

type authControllerImpl struct {
	authService service.AuthService
	frontendUrl string
	tokenTTL    time.Duration
}

func (a authControllerImpl) StartGithubLogin(w http.ResponseWriter, r *http.Request) {
	authUrl, err := a.authService.GetAuthUrl(r.Context())
	if err != nil {
		respondWithError(w, "Failed to start GitHub login", err)
		return
	}
	http.Redirect(w, r, authUrl, http.StatusTemporaryRedirect)
}

func (a authControllerImpl) GithubCallback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	if providerErr := query.Get("error"); providerErr != "" {
		log.Warnf("GitHub OAuth returned error: %s %s", providerErr, query.Get("error_description"))
		a.redirectLoginError(w, r, loginErrorAuthFailed)
		return
	}

	token, err := a.authService.HandleCallback(r.Context(), query.Get("code"), query.Get("state"))
	if err != nil {
		if ce, ok := exception.AsCustomError(err); ok && ce.Code == exception.OAuthNotConfigured {
			a.redirectLoginError(w, r, loginErrorOAuthNotConfigured)
			return
		}
		log.Errorf("GitHub OAuth callback failed: %v", err)
		if ce, ok := exception.AsCustomError(err); ok && ce.Debug != "" {
			log.Debugf("GitHub OAuth callback failure details: %s", ce.Debug)
		}
		a.redirectLoginError(w, r, loginErrorAuthFailed)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     view.AccessTokenCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(a.tokenTTL.Seconds()),
		HttpOnly: true,
		Secure:   strings.HasPrefix(a.frontendUrl, "https://"),
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, a.frontendUrl+"/auth/callback?token="+url.QueryEscape(token), http.StatusFound)
}

func (a authControllerImpl) redirectLoginError(w http.ResponseWriter, r *http.Request, reason string) {
	http.Redirect(w, r, a.frontendUrl+"/login?error="+reason, http.StatusFound)
}

func (a authControllerImpl) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	ctx := secctx.MakeUserContext(r)
	user, err := a.authService.GetCurrentUser(ctx)
	if err != nil {
		respondWithError(w, "Failed to get current user", err)
		return
	}
	respondWithJson(w, http.StatusOK, user)
}
