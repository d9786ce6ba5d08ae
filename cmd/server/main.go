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

	"github.com/common-nighthawk/go-figure"
	"github.com/rs/zerolog/log"

	"github.com/cataloghq/catalog-api/googleauth"
	"github.com/cataloghq/catalog-api/internal/config"
	"github.com/cataloghq/catalog-api/server"
	"github.com/cataloghq/catalog-api/sessions"
	"github.com/cataloghq/catalog-api/storage"
	"github.com/cataloghq/catalog-api/token"
	"github.com/cataloghq/catalog-api/users"
)

const sweepInterval = 1 * time.Hour

func main() {
	for {
		if err := run(); err != nil {
			log.Fatal().Err(err).Msg("error running server")
			time.Sleep(1 * time.Second)
		} else {
			break
		}
	}
	log.Info().Msg("server stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("recovered from panic")
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	cfg, err := config.New()
	if err != nil {
		return fmt.Errorf("config.New %w", err)
	}
	displayAppname(cfg.GetAppName())

	db, err := storage.Open(cfg.GetDatabasePath())
	if err != nil {
		return fmt.Errorf("storage.Open %w", err)
	}
	defer db.Close()

	googleClient, err := googleauth.NewClient(context.Background(), cfg)
	if err != nil {
		return fmt.Errorf("googleauth.NewClient %w", err)
	}

	resolver, err := users.NewResolver(storage.NewUserRepo(db), cfg.GetAdminEmails())
	if err != nil {
		return fmt.Errorf("users.NewResolver %w", err)
	}

	sessionStore, err := sessions.NewStore(storage.NewSessionRepo(db), cfg.GetSessionTTL())
	if err != nil {
		return fmt.Errorf("sessions.NewStore %w", err)
	}

	issuer, err := token.NewIssuer(storage.NewUserRepo(db), cfg)
	if err != nil {
		return fmt.Errorf("token.NewIssuer %w", err)
	}

	verifier, err := token.NewVerifier(cfg)
	if err != nil {
		return fmt.Errorf("token.NewVerifier %w", err)
	}

	srv, err := server.New(cfg, server.Services{
		Google:   googleClient,
		Resolver: resolver,
		Sessions: sessionStore,
		Tokens:   issuer,
		Verifier: verifier,
	}, server.WithHealthCheck(db.PingContext))
	if err != nil {
		return fmt.Errorf("server.New %w", err)
	}

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go sweepExpiredSessions(sweepCtx, sessionStore)

	httpServer := &http.Server{Addr: cfg.GetPort(), Handler: srv}
	go listenAndServe(httpServer)
	waitForStopSignal()
	returnError = shutdown(httpServer)
	return returnError
}

// sweepExpiredSessions is storage hygiene; request-path correctness
// never depends on it.
func sweepExpiredSessions(ctx context.Context, store *sessions.Store) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := store.SweepExpired(ctx)
			if err != nil {
				log.Error().Err(err).Msg("session sweep failed")
				continue
			}
			if deleted > 0 {
				log.Info().Int64("deleted", deleted).Msg("swept expired sessions")
			}
		}
	}
}

func listenAndServe(httpServer *http.Server) error {
	log.Info().Str("addr", httpServer.Addr).Msg("server listening")
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(httpServer *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
