package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mbtanearby/backend-go/internal/api"
	"github.com/mbtanearby/backend-go/internal/config"
	"github.com/mbtanearby/backend-go/internal/nearby"
	"github.com/mbtanearby/backend-go/internal/server"
	"github.com/rs/zerolog/log"
)

const shutdownTimeout = 10 * time.Second

func main() {
	place := flag.String("place", "", "look up a single place, print the result as JSON and exit")
	flag.Parse()

	config.LoadDotEnv()
	cfg := config.LoadFromEnv()
	cfg.InitializeLogging()

	svc, err := (&nearby.DefaultServiceFactory{}).NewService(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize service")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *place != "" {
		if err := runOnce(ctx, svc, *place, os.Stdout); err != nil {
			log.Fatal().Err(err).Str("place_name", *place).Msg("Lookup failed")
		}
		return
	}

	if err := serve(ctx, ":"+cfg.Port, server.New(cfg, svc)); err != nil {
		log.Fatal().Err(err).Msg("Server error")
	}
}

// runOnce validates placeName, runs one lookup and writes the result to out
func runOnce(ctx context.Context, finder nearby.Finder, placeName string, out io.Writer) error {
	validated, err := api.ValidatePlaceName(placeName)
	if err != nil {
		return err
	}

	result, err := finder.FindStopsNear(ctx, validated)
	if err != nil {
		return fmt.Errorf("finding stops near %q: %w", validated, err)
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// serve runs the HTTP server until ctx is cancelled, then drains open requests
func serve(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("Listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
