package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/zhouzirui/genz-chat/backend/internal/config"
	"github.com/zhouzirui/genz-chat/backend/internal/handler"
	"github.com/zhouzirui/genz-chat/backend/internal/logging"
	"github.com/zhouzirui/genz-chat/backend/internal/model/personality"
	"github.com/zhouzirui/genz-chat/backend/internal/service/relay"
	"github.com/zhouzirui/genz-chat/backend/internal/service/session"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		addr     string
		provider string
		logLevel string
	)

	cmd := &cobra.Command{
		Use:           "genz-chat",
		Short:         "Gen Z personality chat relay",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			envErr := godotenv.Load()

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				if cfg.Server.Addr, err = config.ParseAddr(addr); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("provider") {
				cfg.LLM.Provider = provider
			}
			if cmd.Flags().Changed("log-level") {
				cfg.Log.Level = logLevel
			}

			if err := logging.Init(cfg.Log.Level); err != nil {
				return err
			}
			if envErr != nil {
				log.Warn().Err(envErr).Msg("no .env file loaded, using process environment only")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := run(ctx, cfg); err != nil {
				log.Error().Err(err).Msg("server exited")
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address or port (overrides PORT)")
	cmd.Flags().StringVar(&provider, "provider", "", "completion provider: groq, openai or ark (overrides LLM_PROVIDER)")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "log level (overrides LOG_LEVEL)")

	return cmd
}

func run(ctx context.Context, cfg *config.Config) error {
	provider, err := cfg.LLM.NewProvider(ctx)
	if err != nil {
		return err
	}

	registry := personality.NewMemoryRegistry(personality.Seed())
	store := session.NewStore(registry)
	relaySvc := relay.NewService(store, registry, provider)

	router := handler.NewRouter(handler.Deps{
		Personalities:  registry,
		Store:          store,
		Relay:          relaySvc,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Info().
		Str("addr", srv.Addr).
		Str("provider", provider.Name()).
		Int("personalities", len(registry.List())).
		Msg("genz chat backend listening")

	return runServer(ctx, srv)
}

func runServer(ctx context.Context, srv *http.Server) error {
	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	eg.Go(func() error {
		<-egCtx.Done()
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}
