package main

import (
	"database/sql"
	"log"
	"net/http"
	"os"
	"time"

	apihttp "energy-backtest/internal/api/http"
	"energy-backtest/internal/audit"
	"energy-backtest/internal/auth"
	backtestapp "energy-backtest/internal/backtest/application"
	"energy-backtest/internal/observability/metrics"
	uploadapp "energy-backtest/internal/upload/application"
	uploaddisk "energy-backtest/internal/upload/infrastructure/disk"
	uploadrepo "energy-backtest/internal/upload/infrastructure/postgres"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := loadConfig()
	logger := log.New(os.Stdout, "", log.LstdFlags)

	metrics.Init()

	var db *sql.DB
	if cfg.DatabaseURL != "" {
		var err error
		db, err = sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			logger.Fatalf("db open error: %v", err)
		}
		defer db.Close()
		if err := db.Ping(); err != nil {
			logger.Fatalf("db ping error: %v", err)
		}
	}

	rawStore, err := uploaddisk.NewStore(cfg.UploadDir)
	if err != nil {
		logger.Fatalf("raw store error: %v", err)
	}
	uploadService, err := uploadapp.NewService(rawStore, cfg.Timezone)
	if err != nil {
		logger.Fatalf("upload service error: %v", err)
	}

	pricingCfg, err := backtestapp.LoadConfig()
	if err != nil {
		logger.Fatalf("pricing config error: %v", err)
	}
	backtestService, err := backtestapp.NewService(pricingCfg)
	if err != nil {
		logger.Fatalf("backtest service error: %v", err)
	}

	opts := []apihttp.Option{apihttp.WithDefaultReferencePrice(pricingCfg.ReferencePrice)}
	if db != nil {
		opts = append(opts,
			apihttp.WithRepository(uploadrepo.NewRepository(db)),
			apihttp.WithAuditLogger(audit.NewRepository(db)),
		)
	}
	uploadHandler, err := apihttp.NewUploadHandler(uploadService, backtestService, logger, opts...)
	if err != nil {
		logger.Fatalf("upload handler error: %v", err)
	}

	authMiddleware := auth.NewMiddleware([]byte(cfg.JWTSecret), []string{"/healthz", "/metrics"})

	mux := http.NewServeMux()
	mux.Handle("/api/upload", uploadHandler)
	mux.Handle("/api/upload/export", uploadHandler)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	server := &http.Server{Addr: cfg.HTTPAddr, Handler: loggingMiddleware(authMiddleware.Wrap(mux), logger)}
	logger.Printf("http listening on %s", cfg.HTTPAddr)
	logger.Fatal(server.ListenAndServe())
}

type config struct {
	HTTPAddr    string
	DatabaseURL string
	UploadDir   string
	Timezone    string
	JWTSecret   string
}

func loadConfig() config {
	return config{
		HTTPAddr:    getenvDefault("HTTP_ADDR", ":8080"),
		DatabaseURL: getenvDefault("DATABASE_URL", getenvDefault("PG_DSN", "")),
		UploadDir:   getenvDefault("UPLOAD_DIR", "data/uploads/raw"),
		Timezone:    getenvDefault("UPLOAD_TIMEZONE", "Europe/Brussels"),
		JWTSecret:   getenvDefault("AUTH_JWT_SECRET", getenvDefault("JWT_SECRET", "")),
	}
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func loggingMiddleware(next http.Handler, logger *log.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		resp := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(resp, r)
		logger.Printf("http %s %s %d %s", r.Method, r.URL.Path, resp.status, time.Since(start))
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
