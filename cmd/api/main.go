package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/Lion-ishimwe/rightseat-sub001/internal/audit"
	"github.com/Lion-ishimwe/rightseat-sub001/internal/auth"
	"github.com/Lion-ishimwe/rightseat-sub001/internal/feed"
	"github.com/Lion-ishimwe/rightseat-sub001/internal/httpapi"
	"github.com/Lion-ishimwe/rightseat-sub001/internal/obs"
	"github.com/Lion-ishimwe/rightseat-sub001/internal/portal"
	"github.com/Lion-ishimwe/rightseat-sub001/internal/store/pg"
)

// Overridable at build time via -ldflags "-X main.version=... -X main.commit=...".
var (
	version = "0.3.0"
	commit  = "unknown"
)

func main() {
	obs.Init()
	obs.InitBuildInfo(version, commit)

	// Fail at boot, not on the first login, when the token secret is absent.
	if err := auth.EnsureSecret(); err != nil {
		log.Fatalf("auth secret: %v", err)
	}

	dsn := os.Getenv("RIGHTSEAT_PG_DSN")
	if dsn == "" {
		log.Fatal("missing RIGHTSEAT_PG_DSN")
	}
	store, err := pg.Open(dsn)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer store.Close()

	svc, err := portal.NewService(store)
	if err != nil {
		log.Fatalf("portal service: %v", err)
	}

	api, err := httpapi.New(httpapi.Options{
		Portal:        svc,
		Recorder:      audit.NewRecorder(audit.NewPGSink(store.DB())),
		Feed:          feed.New(),
		ReadyProbe:    httpapi.ReadyProbe{DB: store.DB()},
		Version:       version,
		RateBurst:     envInt("RIGHTSEAT_RATE_BURST", 20),
		RatePerSecond: envInt("RIGHTSEAT_RATE_PER_SECOND", 10),
	})
	if err != nil {
		log.Fatalf("api: %v", err)
	}

	addr := os.Getenv("RIGHTSEAT_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		// No WriteTimeout: /v1/feed holds a long-lived event stream.
		IdleTimeout: 60 * time.Second,
	}

	log.Printf("Starting rightseat-api %s on %s", version, srv.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(ctx)
	log.Println("Stopped")
}

func envInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		log.Fatalf("%s: invalid value %q", key, raw)
	}
	return n
}
