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

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/Netcracker/qubership-code-review-service/client"
	"github.com/Netcracker/qubership-code-review-service/controller"
	"github.com/Netcracker/qubership-code-review-service/db"
	"github.com/Netcracker/qubership-code-review-service/exception"
	"github.com/Netcracker/qubership-code-review-service/repository"
	"github.com/Netcracker/qubership-code-review-service/security"
	"github.com/Netcracker/qubership-code-review-service/service"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "code-review-service",
		Short:         "AI code review backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}
	rootCmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start HTTP server (default)",
		RunE:  runServe,
	})
	rootCmd.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Create database tables and indexes",
		RunE:  runMigrate,
	})
	return rootCmd
}

func initSystem() (service.SystemInfoService, error) {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	systemInfoService, err := service.NewSystemInfoService()
	if err != nil {
		return nil, err
	}
	level, err := log.ParseLevel(systemInfoService.GetLogLevel())
	if err != nil {
		log.Warnf("Incorrect log level '%s', INFO will be used", systemInfoService.GetLogLevel())
		level = log.InfoLevel
	}
	log.SetLevel(level)
	return systemInfoService, nil
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	systemInfoService, err := initSystem()
	if err != nil {
		return err
	}
	if systemInfoService.GetDatabaseUrl() == "" {
		return fmt.Errorf("%s is not set", service.DATABASE_URL)
	}
	cp, err := db.NewConnectionProvider(cmd.Context(), systemInfoService.GetDatabaseUrl())
	if err != nil {
		return err
	}
	defer cp.Close()
	if err := db.Migrate(cmd.Context(), cp); err != nil {
		return err
	}
	log.Info("Database migration finished")
	return nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	systemInfoService, err := initSystem()
	if err != nil {
		return err
	}
	controller.SetProductionMode(systemInfoService.IsProductionMode())

	var reviewRepository repository.ReviewRepository
	var userRepository repository.UserRepository
	var readinessChecks []controller.ReadinessCheck
	if databaseUrl := systemInfoService.GetDatabaseUrl(); databaseUrl != "" {
		cp, err := db.NewConnectionProvider(ctx, databaseUrl)
		if err != nil {
			return err
		}
		defer cp.Close()
		if err := db.Migrate(ctx, cp); err != nil {
			return err
		}
		reviewRepository = repository.NewReviewRepository(cp)
		userRepository = repository.NewUserRepository(cp)
		readinessChecks = append(readinessChecks, func(ctx context.Context) error {
			return cp.GetConnection().Ping(ctx)
		})
	} else {
		log.Warnf("%s is not set, reviews and users are kept in memory and will be lost on restart", service.DATABASE_URL)
		reviewRepository = repository.NewMemoryReviewRepository()
		userRepository = repository.NewMemoryUserRepository()
	}

	analyzer, err := client.NewCodeAnalyzer(ctx, systemInfoService.GetAIConfig())
	if err != nil {
		if !exception.HasStatus(err, http.StatusServiceUnavailable) {
			return err
		}
		log.Warnf("%s. Review and scan endpoints will respond with 503", err.Error())
		analyzer = client.NewUnavailableCodeAnalyzer(err)
	}

	stateStore, err := makeOAuthStateStore(systemInfoService)
	if err != nil {
		return err
	}

	if err := security.SetupGoGuardian(systemInfoService.GetJwtSecret(), systemInfoService.GetJwtTTL(), userRepository); err != nil {
		return err
	}

	oauthClient, err := client.NewGithubOAuthClient(systemInfoService.GetGithubOAuthConfig())
	if err != nil {
		return err
	}
	if oauthClient == nil {
		log.Warnf("%s or %s is not set, GitHub login is disabled", service.GITHUB_CLIENT_ID, service.GITHUB_CLIENT_SECRET)
	}
	contentClient := client.NewGithubContentClient(systemInfoService.GetGithubApiUrl())

	authService := service.NewAuthService(oauthClient, stateStore, userRepository, security.IssueToken)
	reviewService := service.NewReviewService(reviewRepository, analyzer)
	scanService := service.NewScanService(contentClient, analyzer, systemInfoService.GetScanLimits())

	authController := controller.NewAuthController(authService, systemInfoService.GetFrontendUrl(), security.TokenTTL())
	reviewController := controller.NewReviewController(reviewService)
	scanController := controller.NewScanController(scanService)
	healthController := controller.NewHealthController(readinessChecks...)

	router := mux.NewRouter()
	router.HandleFunc("/api/health", security.NoSecure(healthController.GetHealth)).Methods(http.MethodGet)

	router.HandleFunc("/api/auth/github", security.NoSecure(authController.StartGithubLogin)).Methods(http.MethodGet)
	router.HandleFunc("/api/auth/github/callback", security.NoSecure(authController.GithubCallback)).Methods(http.MethodGet)
	router.HandleFunc("/api/auth/me", security.Secure(authController.GetCurrentUser)).Methods(http.MethodGet)

	router.HandleFunc("/api/review", security.Secure(reviewController.CreateReview)).Methods(http.MethodPost)
	router.HandleFunc("/api/review", security.Secure(reviewController.GetReviews)).Methods(http.MethodGet)
	router.HandleFunc("/api/review/{id}", security.Secure(reviewController.GetReview)).Methods(http.MethodGet)
	router.HandleFunc("/api/review/{id}", security.Secure(reviewController.DeleteReview)).Methods(http.MethodDelete)

	router.HandleFunc("/api/repo/scan", security.Secure(scanController.ScanRepository)).Methods(http.MethodPost)

	router.HandleFunc("/live", healthController.Live).Methods(http.MethodGet)
	router.HandleFunc("/ready", healthController.Ready).Methods(http.MethodGet)

	if staticDir := systemInfoService.GetStaticDir(); staticDir != "" {
		log.Infof("Serving dashboard from %s", staticDir)
		staticController := controller.NewStaticController(staticDir)
		router.PathPrefix("/").HandlerFunc(security.NoSecure(staticController.ServeDashboard)).Methods(http.MethodGet)
	}

	debug.SetGCPercent(30)

	srv := makeServer(systemInfoService, router)
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		log.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func makeOAuthStateStore(systemInfoService service.SystemInfoService) (client.OAuthStateStore, error) {
	if systemInfoService.GetOAuthStateStore() != service.OAuthStateStoreOlric {
		return client.NewLocalOAuthStateStore(), nil
	}
	op, err := client.NewOlricProvider(systemInfoService.GetOlricConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to start olric node: %w", err)
	}
	return client.NewOlricOAuthStateStore(op), nil
}

func makeServer(systemInfoService service.SystemInfoService, r *mux.Router) *http.Server {
	listenAddr := systemInfoService.GetListenAddress()

	log.Infof("Listen addr = %s", listenAddr)

	var corsOptions []handlers.CORSOption

	corsOptions = append(corsOptions, handlers.AllowedHeaders([]string{"Connection", "Accept-Encoding", "Content-Encoding", "X-Requested-With", "Content-Type", "Authorization"}))

	allowedOrigin := systemInfoService.GetOriginAllowed()
	if allowedOrigin != "" {
		corsOptions = append(corsOptions, handlers.AllowedOrigins([]string{allowedOrigin}), handlers.AllowCredentials())
	}
	corsOptions = append(corsOptions, handlers.AllowedMethods([]string{"GET", "HEAD", "POST", "PUT", "DELETE", "OPTIONS"}))

	return &http.Server{
		Handler:      handlers.CompressHandler(handlers.CORS(corsOptions...)(r)),
		Addr:         listenAddr,
		WriteTimeout: 600 * time.Second,
		ReadTimeout:  60 * time.Second,
	}
}
