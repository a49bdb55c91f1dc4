package main

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"ghostjob-engine/internal/app"
	"ghostjob-engine/internal/config"
	"ghostjob-engine/internal/dedupe"
	"ghostjob-engine/internal/events"
	"ghostjob-engine/internal/fetch"
	"ghostjob-engine/internal/ghost"
	"ghostjob-engine/internal/httpapi"
	"ghostjob-engine/internal/learn"
	"ghostjob-engine/internal/parse"
	"ghostjob-engine/internal/parse/platform"
	"ghostjob-engine/internal/scheduler"
	"ghostjob-engine/internal/secrets"
	"ghostjob-engine/internal/store"
	"ghostjob-engine/internal/textutil"
	"ghostjob-engine/internal/verify"
)

func main() {
	// .env is optional; real config lives in the data dir.
	_ = godotenv.Load()

	dataDir := os.Getenv("GHOSTJOB_DATA_DIR")
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		log.Fatal(err)
	}

	// One engine per data dir; a second instance would fight over sqlite.
	lock := flock.New(filepath.Join(dataDir, "engine.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		log.Fatalf("data dir lock failed: %v", err)
	}
	if !locked {
		log.Fatalf("another engine instance already owns %s", dataDir)
	}
	defer func() { _ = lock.Unlock() }()

	defaultCfgPath := filepath.Join("config", "config.yml")
	userCfgPath, err := config.EnsureUserConfig(dataDir, defaultCfgPath)
	if err != nil {
		log.Fatalf("config bootstrap failed: %v", err)
	}

	var cfgVal atomic.Value // stores config.Config
	loadCfg := func() (config.Config, error) {
		return config.Load(userCfgPath)
	}
	cfg, err := loadCfg()
	if err != nil {
		log.Fatalf("config load failed (%s): %v", userCfgPath, err)
	}
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("config invalid (%s): %v", userCfgPath, err)
	}
	cfgVal.Store(cfg)

	dbPath := filepath.Join(dataDir, "ghostjob.db")
	db, err := store.Open(dbPath)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()
	if err := store.Migrate(db.Pool); err != nil {
		log.Fatal(err)
	}

	learnStore := learn.NewStore(db.Pool)

	// Validator chain: local Ollama when enabled and up, remote as fallback.
	var local, remote verify.Backend
	if cfg.Validator.Local.Enabled {
		l, err := verify.NewLocal(cfg.Validator.Local.ServerURL, cfg.Validator.Local.Model)
		if err != nil {
			log.Printf("[main] local validator disabled: %v", err)
		} else {
			local = l
		}
	}
	if cfg.Validator.Remote.Endpoint != "" {
		apiKey, err := secrets.ValidatorAPIKey()
		if err != nil {
			log.Printf("[main] validator key lookup failed: %v", err)
		}
		remote = verify.NewRemote(
			cfg.Validator.Remote.Endpoint,
			apiKey,
			textutil.NewHostLimiter(cfg.Validator.Remote.RequestsPerSecond, 1),
		)
	}
	var verifier parse.Verifier
	if local != nil || remote != nil {
		verifier = verify.NewChain(local, remote)
	}

	profiles := platform.Defaults()
	if cfg.ParsersFile != "" {
		extra, err := platform.LoadOverlay(cfg.ParsersFile)
		if err != nil {
			log.Fatalf("parser overlay invalid (%s): %v", cfg.ParsersFile, err)
		}
		profiles = append(profiles, extra...)
	}

	pipeline := parse.NewCoordinator(profiles, learnStore, verifier, parse.Options{
		PatternTTL: time.Duration(cfg.Learning.PatternTTLSeconds) * time.Second,
	})

	hub := events.NewHub()
	analyzer := &app.Analyzer{
		DB:          db.Pool,
		Fetcher:     fetch.New(textutil.NewHostLimiter(cfg.Fetch.RequestsPerSecond, cfg.Fetch.Burst)),
		Pipeline:    pipeline,
		Scorer:      ghost.Scorer{Cfg: cfg.Ghost},
		Detector:    dedupe.Detector{},
		Hub:         hub,
		RecentLimit: cfg.History.RecentLimit,
	}

	router := httpapi.NewRouter(httpapi.Deps{
		DB:          db.Pool,
		Hub:         hub,
		Analyzer:    analyzer,
		Learn:       learnStore,
		CfgVal:      &cfgVal,
		UserCfgPath: userCfgPath,
		LoadCfg:     loadCfg,
	})

	addr := net.JoinHostPort("127.0.0.1", strconv.Itoa(cfg.App.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		log.Fatal(err)
	}

	srv := &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	token, err := randomToken(16)
	if err != nil {
		log.Fatal(err)
	}
	router.Post("/shutdown", shutdownHandler(&token, srv))
	log.Printf("engine listening on http://%s (db=%s shutdown_token=%s)", addr, dbPath, token)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		scheduler.Every(ctx, 24*time.Hour, "cleanup", func(ctx context.Context) error {
			n, err := store.CleanupOldAnalyses(ctx, db.Pool)
			if err != nil {
				return err
			}
			if n > 0 {
				log.Printf("[cleanup] removed %d stale analyses", n)
			}
			return nil
		})
		return nil
	})
	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shCtx)
	})
	if err := g.Wait(); err != nil {
		log.Fatal(err)
	}
}

func randomToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// shutdownHandler lets the desktop shell stop the engine cleanly: local
// callers only, guarded by a per-run token.
func shutdownHandler(token *string, srv *http.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			host = r.RemoteAddr
		}
		if host != "127.0.0.1" && host != "::1" && host != "localhost" {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		got := r.Header.Get("X-Shutdown-Token")
		if got == "" || subtle.ConstantTimeCompare([]byte(got), []byte(*token)) != 1 {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("shutting down\n"))

		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(ctx)
		}()
	}
}
