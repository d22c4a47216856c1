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
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Netcracker/qubership-code-review-service/client"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const (
	LISTEN_ADDRESS          = "LISTEN_ADDRESS"
	ORIGIN_ALLOWED          = "ORIGIN_ALLOWED"
	LOG_LEVEL               = "LOG_LEVEL"
	PRODUCTION_MODE         = "PRODUCTION_MODE"
	FRONTEND_URL            = "FRONTEND_URL"
	BACKEND_URL             = "BACKEND_URL"
	GITHUB_CLIENT_ID        = "GITHUB_CLIENT_ID"
	GITHUB_CLIENT_SECRET    = "GITHUB_CLIENT_SECRET"
	GITHUB_API_URL          = "GITHUB_API_URL"
	JWT_SECRET              = "JWT_SECRET"
	JWT_TTL                 = "JWT_TTL"
	AI_PROVIDER             = "AI_PROVIDER"
	AI_MODEL                = "AI_MODEL"
	OPENAI_PROXY_URL        = "OPENAI_PROXY_URL"
	DATABASE_URL            = "DATABASE_URL"
	SCAN_MAX_FILES          = "SCAN_MAX_FILES"
	SCAN_MAX_FILE_SIZE      = "SCAN_MAX_FILE_SIZE"
	SCAN_MAX_CONTENT_LENGTH = "SCAN_MAX_CONTENT_LENGTH"
	OAUTH_STATE_STORE       = "OAUTH_STATE_STORE"
	OLRIC_DISCOVERY_MODE    = "OLRIC_DISCOVERY_MODE"
	OLRIC_REPLICA_COUNT     = "OLRIC_REPLICA_COUNT"
	OLRIC_PEERS             = "OLRIC_PEERS"
	NAMESPACE               = "NAMESPACE"
	STATIC_DIR              = "STATIC_DIR"
	CONFIG_FILE             = "CONFIG_FILE"
)

const (
	OAuthStateStoreLocal = "local"
	OAuthStateStoreOlric = "olric"
)

type ScanLimits struct {
	MaxFiles         int
	MaxFileSize      int64
	MaxContentLength int
}

var DefaultScanLimits = ScanLimits{
	MaxFiles:         50,
	MaxFileSize:      1000000,
	MaxContentLength: 100000,
}

type SystemInfoService interface {
	Init() error
	GetListenAddress() string
	GetOriginAllowed() string
	GetLogLevel() string
	IsProductionMode() bool
	GetFrontendUrl() string
	GetBackendUrl() string
	GetGithubOAuthConfig() client.GithubOAuthConfig
	GetGithubApiUrl() string
	GetJwtSecret() []byte
	GetJwtTTL() time.Duration
	GetAIConfig() client.AIConfig
	GetDatabaseUrl() string
	GetScanLimits() ScanLimits
	GetOAuthStateStore() string
	GetOlricConfig() client.OlricConfig
	GetStaticDir() string
}

func NewSystemInfoService() (SystemInfoService, error) {
	v := viper.New()
	v.AutomaticEnv()
	if err := readConfigFile(v); err != nil {
		log.Error("Failed to read config file: " + err.Error())
		return nil, err
	}
	return NewSystemInfoServiceFromViper(v)
}

// NewSystemInfoServiceFromViper builds the service on top of an already populated viper instance.
func NewSystemInfoServiceFromViper(v *viper.Viper) (SystemInfoService, error) {
	setDefaults(v)
	s := &systemInfoServiceImpl{v: v}
	if err := s.Init(); err != nil {
		log.Error("Failed to read system info: " + err.Error())
		return nil, err
	}
	return s, nil
}

func readConfigFile(v *viper.Viper) error {
	path := os.Getenv(CONFIG_FILE)
	explicit := path != ""
	if !explicit {
		path = ".env"
	}
	if _, err := os.Stat(path); err != nil {
		if explicit {
			return fmt.Errorf("config file %s is not available: %w", path, err)
		}
		return nil
	}
	v.SetConfigFile(path)
	if !strings.HasSuffix(path, ".yaml") && !strings.HasSuffix(path, ".yml") && !strings.HasSuffix(path, ".json") {
		v.SetConfigType("env")
	}
	if err := v.ReadInConfig(); err != nil {
		return err
	}
	log.Infof("Configuration loaded from %s", path)
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(LISTEN_ADDRESS, ":5000")
	v.SetDefault(ORIGIN_ALLOWED, "")
	v.SetDefault(LOG_LEVEL, "INFO")
	v.SetDefault(PRODUCTION_MODE, false)
	v.SetDefault(FRONTEND_URL, "http://localhost:5173")
	v.SetDefault(BACKEND_URL, "http://localhost:5000")
	v.SetDefault(GITHUB_API_URL, client.DefaultGithubApiUrl)
	v.SetDefault(JWT_TTL, "168h")
	v.SetDefault(AI_PROVIDER, string(client.AIProviderGemini))
	v.SetDefault(SCAN_MAX_FILES, DefaultScanLimits.MaxFiles)
	v.SetDefault(SCAN_MAX_FILE_SIZE, DefaultScanLimits.MaxFileSize)
	v.SetDefault(SCAN_MAX_CONTENT_LENGTH, DefaultScanLimits.MaxContentLength)
	v.SetDefault(OAUTH_STATE_STORE, OAuthStateStoreLocal)
	v.SetDefault(OLRIC_DISCOVERY_MODE, "local")
	v.SetDefault(OLRIC_REPLICA_COUNT, 1)
}

type systemInfoServiceImpl struct {
	v *viper.Viper
}

func (g systemInfoServiceImpl) Init() error {
	if err := g.validateDuration(JWT_TTL); err != nil {
		return err
	}
	provider := client.AIProvider(strings.ToLower(g.v.GetString(AI_PROVIDER)))
	switch provider {
	case client.AIProviderGemini, client.AIProviderOpenAI, client.AIProviderAnthropic:
	default:
		return fmt.Errorf("%s has unsupported value '%s', expected one of gemini, openai, anthropic", AI_PROVIDER, provider)
	}
	store := g.GetOAuthStateStore()
	if store != OAuthStateStoreLocal && store != OAuthStateStoreOlric {
		return fmt.Errorf("%s has unsupported value '%s', expected local or olric", OAUTH_STATE_STORE, store)
	}
	limits := g.GetScanLimits()
	if limits.MaxFiles <= 0 || limits.MaxFileSize <= 0 || limits.MaxContentLength <= 0 {
		return fmt.Errorf("scan limits must be positive, got %+v", limits)
	}
	return nil
}

func (g systemInfoServiceImpl) validateDuration(key string) error {
	raw := g.v.GetString(key)
	if _, err := time.ParseDuration(raw); err != nil {
		return fmt.Errorf("%s has incorrect duration '%s': %w", key, raw, err)
	}
	return nil
}

func (g systemInfoServiceImpl) GetListenAddress() string {
	return g.v.GetString(LISTEN_ADDRESS)
}

func (g systemInfoServiceImpl) GetOriginAllowed() string {
	return g.v.GetString(ORIGIN_ALLOWED)
}

func (g systemInfoServiceImpl) GetLogLevel() string {
	return g.v.GetString(LOG_LEVEL)
}

func (g systemInfoServiceImpl) IsProductionMode() bool {
	return g.v.GetBool(PRODUCTION_MODE)
}

func (g systemInfoServiceImpl) GetFrontendUrl() string {
	return strings.TrimRight(g.v.GetString(FRONTEND_URL), "/")
}

func (g systemInfoServiceImpl) GetBackendUrl() string {
	return strings.TrimRight(g.v.GetString(BACKEND_URL), "/")
}

func (g systemInfoServiceImpl) GetGithubOAuthConfig() client.GithubOAuthConfig {
	return client.GithubOAuthConfig{
		ClientId:     g.v.GetString(GITHUB_CLIENT_ID),
		ClientSecret: g.v.GetString(GITHUB_CLIENT_SECRET),
		RedirectUrl:  g.GetBackendUrl() + "/api/auth/github/callback",
		ApiUrl:       g.GetGithubApiUrl(),
	}
}

func (g systemInfoServiceImpl) GetGithubApiUrl() string {
	return g.v.GetString(GITHUB_API_URL)
}

func (g systemInfoServiceImpl) GetJwtSecret() []byte {
	return []byte(g.v.GetString(JWT_SECRET))
}

func (g systemInfoServiceImpl) GetJwtTTL() time.Duration {
	return g.v.GetDuration(JWT_TTL)
}

func (g systemInfoServiceImpl) GetAIConfig() client.AIConfig {
	provider := client.AIProvider(strings.ToLower(g.v.GetString(AI_PROVIDER)))
	return client.AIConfig{
		Provider: provider,
		ApiKey:   g.v.GetString(provider.ApiKeyEnv()),
		Model:    g.v.GetString(AI_MODEL),
		ProxyUrl: g.v.GetString(OPENAI_PROXY_URL),
	}
}

func (g systemInfoServiceImpl) GetDatabaseUrl() string {
	return g.v.GetString(DATABASE_URL)
}

func (g systemInfoServiceImpl) GetScanLimits() ScanLimits {
	return ScanLimits{
		MaxFiles:         g.v.GetInt(SCAN_MAX_FILES),
		MaxFileSize:      g.v.GetInt64(SCAN_MAX_FILE_SIZE),
		MaxContentLength: g.v.GetInt(SCAN_MAX_CONTENT_LENGTH),
	}
}

func (g systemInfoServiceImpl) GetOAuthStateStore() string {
	return strings.ToLower(g.v.GetString(OAUTH_STATE_STORE))
}

func (g systemInfoServiceImpl) GetOlricConfig() client.OlricConfig {
	var peers []string
	for _, p := range strings.Split(g.v.GetString(OLRIC_PEERS), ",") {
		if p = strings.TrimSpace(p); p != "" {
			peers = append(peers, p)
		}
	}
	return client.OlricConfig{
		DiscoveryMode: g.v.GetString(OLRIC_DISCOVERY_MODE),
		ReplicaCount:  g.v.GetInt(OLRIC_REPLICA_COUNT),
		Namespace:     g.v.GetString(NAMESPACE),
		Peers:         peers,
	}
}

func (g systemInfoServiceImpl) GetStaticDir() string {
	return g.v.GetString(STATIC_DIR)
}
