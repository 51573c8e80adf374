package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	v1alpha1 "github.com/gamelearn/escape-api/internal/handlers/api/v1alpha1"
	"github.com/gamelearn/escape-api/internal/messaging"
	"github.com/gamelearn/escape-api/internal/orchestrators/escapegame"
	"github.com/gamelearn/escape-api/internal/pkg/clock"
	"github.com/gamelearn/escape-api/internal/pkg/idgen"
	"github.com/gamelearn/escape-api/internal/redis"
	escaperoomrepo "github.com/gamelearn/escape-api/internal/repositories/escaperoom"
	sessionrepo "github.com/gamelearn/escape-api/internal/repositories/gamesession"

	gameengine "github.com/gamelearn/escape-api/internal/engine"
)

var (
	httpPort  int
	redisAddr string
	natsURL   string
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the HTTP server",
	Long:  `Start the escape-api HTTP server with all configured services.`,
	RunE:  runServer,
}

func init() {
	serverCmd.Flags().IntVar(&httpPort, "port", envInt("PORT", 8080), "HTTP server port")
	serverCmd.Flags().StringVar(&redisAddr, "redis-addr", envString("REDIS_ADDR", "localhost:6379"), "Redis address")
	serverCmd.Flags().StringVar(&natsURL, "nats-url", envString("NATS_URL", ""), "NATS URL for event fan-out (empty disables publishing)")
}

func runServer(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("received shutdown signal, gracefully stopping")
		cancel()
	}()

	service, closePublisher, err := buildService()
	if err != nil {
		return err
	}
	defer closePublisher()

	handler, err := v1alpha1.NewHandler(&v1alpha1.Config{Service: service})
	if err != nil {
		return fmt.Errorf("failed to create handler: %w", err)
	}

	mux := http.NewServeMux()
	handler.Register(mux)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", httpPort),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server starting", "port", httpPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("failed to serve: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down HTTP server")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Warn("graceful shutdown failed, closing", "error", err.Error())
			return srv.Close()
		}
		slog.Info("server stopped gracefully")
		return nil
	case err := <-errChan:
		return err
	}
}

// buildService wires repositories, engine, and publisher into the
// orchestrator. The returned close function drains the publisher.
func buildService() (escapegame.Service, func(), error) {
	redisClient, err := redis.NewClient(redisAddr, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create redis client: %w", err)
	}

	escapeRoomRepo, err := escaperoomrepo.NewRedis(&escaperoomrepo.RedisConfig{Client: redisClient})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create escape room repository: %w", err)
	}
	sessionRepo, err := sessionrepo.NewRedis(&sessionrepo.RedisConfig{Client: redisClient})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create session repository: %w", err)
	}

	engine, err := gameengine.New(&gameengine.Config{Clock: clock.New()})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create engine: %w", err)
	}

	var publisher messaging.Publisher
	closePublisher := func() {}
	if natsURL != "" {
		natsPublisher, err := messaging.NewNatsPublisher(natsURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create NATS publisher: %w", err)
		}
		publisher = natsPublisher
		closePublisher = natsPublisher.Close
		slog.Info("event publishing enabled", "nats_url", natsURL)
	}

	service, err := escapegame.NewOrchestrator(&escapegame.Config{
		EscapeRoomRepo: escapeRoomRepo,
		SessionRepo:    sessionRepo,
		Engine:         engine,
		Publisher:      publisher,
		IDGenerator:    idgen.NewUUID(""),
	})
	if err != nil {
		closePublisher()
		return nil, nil, fmt.Errorf("failed to create orchestrator: %w", err)
	}

	return service, closePublisher, nil
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var n int
	if _, err := fmt.Sscanf(v, "%d", &n); err != nil {
		return fallback
	}
	return n
}
