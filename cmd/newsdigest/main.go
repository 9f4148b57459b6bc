package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/amityadav/newsdigest/internal/core"
	appfx "github.com/amityadav/newsdigest/internal/fx"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
)

func main() {
	daemon := flag.Bool("daemon", false, "run on the DIGEST_SCHEDULE cron and serve the trigger API")
	flag.Parse()

	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found, using environment variables")
	}

	if *daemon {
		runDaemon()
		return
	}
	os.Exit(runOnce())
}

func options() []fx.Option {
	return []fx.Option{
		appfx.ConfigModule, // Provides: config.Config
		appfx.SearchModule, // Provides: search.SessionOpener, search.Provider
		appfx.MailModule,   // Provides: mail.Provider
		appfx.RenderModule, // Provides: *render.Renderer
		appfx.CoreModule,   // Provides: *core.DigestCore

		fx.WithLogger(func() fxevent.Logger {
			return &fxevent.ConsoleLogger{W: log.StandardLogger().Writer()}
		}),
	}
}

// runDaemon blocks until SIGINT/SIGTERM
func runDaemon() {
	opts := append(options(),
		appfx.WorkerModule, // Provides: *notifications.Worker
		appfx.ServerModule, // Starts the trigger/health HTTP server
	)
	fx.New(opts...).Run()
}

// runOnce performs a single digest run and returns the process exit code
func runOnce() int {
	var dc *core.DigestCore
	app := fx.New(append(options(), fx.Populate(&dc))...)
	if err := app.Err(); err != nil {
		log.Errorf("Startup failed: %v", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := dc.Run(ctx)
	if err != nil {
		log.Errorf("Digest run failed: %v", err)
		return 1
	}

	log.Infof("Digest sent to recipient: %d articles, subject %q", result.Found, result.Subject)
	return 0
}
