package main

import (
	"context"
	"log/slog"
	"os"
	"path"
	"runtime"

	"github.com/jackc/pgx/v5"

	"library/internal/logger"
)

// Irreversibly drops every catalog table. Pass the connection string of the
// database to wipe as the first argument.
func main() {
	_, thisFile, _, _ := runtime.Caller(0)
	logger.SetupSLog(slog.LevelInfo, path.Dir(path.Dir(path.Dir(thisFile))), struct{}{})

	if len(os.Args) < 2 {
		slog.Error("Usage: wipedb <connection string>")
		os.Exit(1)
	}

	ctx := context.Background()

	conn, err := pgx.Connect(ctx, os.Args[1])
	if err != nil {
		slog.Error("failed to connect: " + err.Error())
		os.Exit(1)
	}
	defer conn.Close(ctx)

	slog.Info("Processing ...")

	for _, table := range []string{"book_instance", "book_genre", "book", "genre", "author"} {
		if _, err := conn.Exec(ctx, "drop table if exists "+table+" cascade"); err != nil {
			slog.Error("failed to drop " + table + ": " + err.Error())
			os.Exit(1)
		}
	}

	slog.Info("Database cleared")
}
