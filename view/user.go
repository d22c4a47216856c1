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

// User is the principal as exposed over the API. The provider access token never leaves the server.
type User struct {
	Id        string    `json:"id"`
	GithubId  string    `json:"githubId"`
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	Avatar    string    `json:"avatar,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type GithubProfile struct {
	Id       string
	Username string
	Email    string
	Avatar   string
}

// AccessTokenCookieName is the cookie carrying the bearer token for browser sessions.
const AccessTokenCookieName = "code_review_token"
