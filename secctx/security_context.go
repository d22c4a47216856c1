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

package secctx

import (
	"context"
	"net/http"

	"github.com/shaj13/go-guardian/v2/auth"
)

// ProviderTokenExt is the auth.Info extension holding the user's GitHub access token.
const ProviderTokenExt = "providerToken"

type secCtxKey struct{}

func MakeUserContext(r *http.Request) context.Context {
	user := auth.User(r)
	if user == nil {
		return r.Context()
	}
	return WithUser(r.Context(), user.GetID(), user.GetUserName(), user.GetExtensions().Get(ProviderTokenExt))
}

func WithUser(ctx context.Context, userId string, userName string, providerToken string) context.Context {
	return context.WithValue(ctx, secCtxKey{}, securityContextImpl{
		userId:        userId,
		userName:      userName,
		providerToken: providerToken,
	})
}

type securityContextImpl struct {
	userId        string
	userName      string
	providerToken string
}

func get(ctx context.Context) (securityContextImpl, bool) {
	val, ok := ctx.Value(secCtxKey{}).(securityContextImpl)
	return val, ok
}

func GetUserId(ctx context.Context) string {
	val, _ := get(ctx)
	return val.userId
}

func GetUserName(ctx context.Context) string {
	val, _ := get(ctx)
	return val.userName
}

func GetProviderToken(ctx context.Context) string {
	val, _ := get(ctx)
	return val.providerToken
}
