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

package security

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/Netcracker/qubership-code-review-service/repository"
	"github.com/Netcracker/qubership-code-review-service/view"
	"github.com/shaj13/go-guardian/v2/auth"
	"github.com/shaj13/go-guardian/v2/auth/strategies/jwt"
	"github.com/shaj13/go-guardian/v2/auth/strategies/union"
	"github.com/shaj13/libcache"
	_ "github.com/shaj13/libcache/lru"
	log "github.com/sirupsen/logrus"
)

var strategy union.Union
var keeper jwt.SecretsKeeper
var tokenTTL time.Duration
var userRepository repository.UserRepository

const DefaultTokenTTL = time.Hour * 24 * 7

func SetupGoGuardian(secret []byte, ttl time.Duration, userRepo repository.UserRepository) error {
	if userRepo == nil {
		return fmt.Errorf("userRepo is nil")
	}
	if len(secret) == 0 {
		log.Warn("JWT_SECRET is not set, generating random secret. Issued tokens will not survive restart")
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return fmt.Errorf("failed to generate jwt secret: %w", err)
		}
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	keeper = jwt.StaticSecret{
		ID:        "secret-id",
		Secret:    secret,
		Algorithm: jwt.HS256,
	}
	tokenTTL = ttl
	userRepository = userRepo

	cache := libcache.LRU.New(1000)
	cache.SetTTL(time.Minute * 60)
	cache.RegisterOnExpired(func(key, _ interface{}) {
		cache.Delete(key)
	})

	jwtStrategy := jwt.New(cache, keeper)
	cookieTokenStrategy := NewCookieTokenStrategy(cache, keeper)
	strategy = union.New(jwtStrategy, cookieTokenStrategy)
	return nil
}

// IssueToken signs a bearer token for the user, valid for the configured ttl.
func IssueToken(user view.User) (string, error) {
	if keeper == nil {
		return "", fmt.Errorf("security is not initialized")
	}
	info := auth.NewDefaultUser(user.Username, user.Id, []string{}, auth.Extensions{})
	return jwt.IssueAccessToken(info, keeper, jwt.SetExpDuration(tokenTTL))
}

func TokenTTL() time.Duration {
	return tokenTTL
}
