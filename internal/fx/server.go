package fx

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/amityadav/newsdigest/internal/config"
	"github.com/amityadav/newsdigest/internal/core"
	"github.com/amityadav/newsdigest/internal/notifications"
	"github.com/amityadav/newsdigest/internal/server"
	log "github.com/sirupsen/logrus"
	"go.uber.org/fx"
)

// WorkerModule provides the scheduled digest worker
var WorkerModule = fx.Module("worker",
	fx.Provide(NewDigestWorker),
	fx.Invoke(StartDigestWorker),
)

// ServerModule starts the trigger and health HTTP server
var ServerModule = fx.Module("server",
	fx.Invoke(StartServer),
)

// NewDigestWorker creates the cron worker for the configured schedule
func NewDigestWorker(cfg config.Config, dc *core.DigestCore) (*notifications.Worker, error) {
	worker, err := notifications.NewWorker(dc, cfg.Schedule)
	if err != nil {
		return nil, err
	}
	log.Info("[FX] DigestWorker initialized")
	return worker, nil
}

// StartDigestWorker starts the worker with the application lifecycle
func StartDigestWorker(lc fx.Lifecycle, worker *notifications.Worker, cfg config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			worker.Start()
			log.Infof("[FX] DigestWorker started (%s UTC)", cfg.Schedule)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			worker.Stop()
			return nil
		},
	})
}

// StartServer starts the HTTP server with lifecycle management
func StartServer(lc fx.Lifecycle, worker *notifications.Worker, cfg config.Config) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: server.CreateHTTPHandler(worker, cfg.DigestAPIKey),
	}
	if cfg.DigestAPIKey == "" {
		log.Warn("[FX] DIGEST_API_KEY not set, manual trigger disabled")
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			lis, err := net.Listen("tcp", cfg.HTTPAddr)
			if err != nil {
				return err
			}

			go func() {
				log.Infof("[FX] HTTP Server listening on %s", cfg.HTTPAddr)
				if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Errorf("[FX] HTTP Server error: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("[FX] Shutting down HTTP server...")
			return srv.Shutdown(ctx)
		},
	})
}
