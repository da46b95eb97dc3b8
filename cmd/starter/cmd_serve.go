package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	prof "github.com/go-while/go-cpu-mem-profiler"
	"github.com/spf13/cobra"

	"github.com/go-while/go-starters/internal/telemetry"
	"github.com/go-while/go-starters/internal/web"
)

const shutdownTimeout = 10 * time.Second

func init() {
	RootCmd.AddCommand(
		sampleCmd(web.SampleRendered, "Serve the server-rendered sample (GET / renders the index view)"),
		sampleCmd(web.SampleREST, "Serve the REST sample (GET / greets, POST / echoes the body)"),
		sampleCmd(web.SampleHybrid, "Serve the hybrid sample (JSON API under /api/, single-page app for everything else)"),
	)
}

func sampleCmd(sample web.Sample, short string) *cobra.Command {
	return &cobra.Command{
		Use:   string(sample),
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd, sample)
		},
	}
}

func serve(cmd *cobra.Command, sample web.Sample) error {
	mainConfig, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log.Printf("Starting go-starters %s sample (version: %s)", sample, mainConfig.AppVersion)

	if mainConfig.PprofAddr != "" {
		profiler := prof.NewProf()
		go profiler.PprofWeb(mainConfig.PprofAddr)
		log.Printf("[WEB]: pprof listening on %s", mainConfig.PprofAddr)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	shutdownTelemetry, err := telemetry.Setup(ctx, mainConfig.Telemetry)
	if err != nil {
		return err
	}

	server, err := web.NewServer(mainConfig.Web, sample)
	if err != nil {
		return err
	}

	// Start web server in goroutine to make it non-blocking
	webServerErrChan := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			webServerErrChan <- err
		}
	}()
	log.Printf("[WEB]: Server started successfully. Press Ctrl+C to gracefully shutdown...")

	var serveErr error
	select {
	case <-ctx.Done():
		log.Printf("[WEB]: Received shutdown signal, initiating graceful shutdown...")
	case serveErr = <-webServerErrChan:
		log.Printf("[WEB]: Web server failed: %v", serveErr)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("[WEB]: Error during shutdown: %v", err)
	}
	if err := shutdownTelemetry(shutdownCtx); err != nil {
		log.Printf("[OTEL]: Error flushing telemetry: %v", err)
	}

	log.Printf("[WEB]: Graceful shutdown completed")
	return serveErr
}
