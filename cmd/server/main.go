package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"path"
	"runtime"
	"strings"

	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/joho/godotenv/autoload"
	"golang.org/x/time/rate"

	"library/internal/logger"
	"library/internal/response"
	"library/internal/server"
	"library/internal/storage/authors"
	"library/internal/storage/books"
	"library/internal/storage/genres"
	"library/internal/storage/instances"
)

func getEnvOrDefault(key, default_ string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}

	return default_
}

var (
	logLevel  = strings.ToLower(getEnvOrDefault("LOG_LEVEL", "debug"))
	dbConnStr = os.Getenv("DATABASE_URL")
	bindAddr  = getEnvOrDefault("BIND_ADDR", ":8000")
)

func main() {
	_, thisFile, _, _ := runtime.Caller(0)

	var lvl slog.Level
	err := lvl.UnmarshalText([]byte(logLevel))
	if err != nil {
		lvl = slog.LevelDebug
	}
	logger.SetupSLog(lvl, path.Dir(path.Dir(path.Dir(thisFile))), middleware.RequestIDKey)

	if err != nil {
		slog.Error("Invalid log level specified in LOG_LEVEL, one of debug, info, warn or error expected")
		os.Exit(1)
	}

	cfg, err := pgxpool.ParseConfig(dbConnStr)
	if err != nil {
		slog.Error("Failed to parse DATABASE_URL: " + err.Error())
		os.Exit(1)
	}

	cfg.ConnConfig.Tracer = logger.NewPGXTracer()

	pg, err := pgxpool.NewWithConfig(context.Background(), cfg)
	if err != nil {
		slog.Error("failed to create postgres pool: " + err.Error())
		os.Exit(1)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(server.RateLimit(rate.Limit(2), 4))

	r.Mount("/", server.Handler(
		authors.NewPGXRepository(pg, slog.Default()),
		books.NewPGXRepository(pg, slog.Default()),
		genres.NewPGXRepository(pg, slog.Default()),
		instances.NewPGXRepository(pg, slog.Default()),
		&response.Responder{},
	))

	slog.Info("Server listening on " + bindAddr)
	slog.Error("aborting: " + http.ListenAndServe(bindAddr, r).Error())
	os.Exit(1)
}
