package logger

import (
	"context"
	"go/build"
	"log/slog"
	"os"
	"runtime"
	"strings"
)

func getEnvOrDefault(key, default_ string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return default_
}

var (
	logFormat = getEnvOrDefault("LOG_FORMAT", "text")
)

// SetupSLog installs the default slog handler with format controlled by the
// LOG_FORMAT environment var. Source file paths are logged relative to the
// repository root (rootPath param), and the request id is attached to every
// record whose context carries one under requestIdKey.
func SetupSLog(lvl slog.Level, rootPath string, requestIdKey any) {
	ho := slog.HandlerOptions{
		Level: lvl,
	}

	var base slog.Handler
	switch logFormat {
	case "json":
		base = slog.NewJSONHandler(os.Stderr, &ho)
	case "text":
		base = slog.NewTextHandler(os.Stderr, &ho)
	default:
		slog.Error("LOG_FORMAT must be json or text")
		os.Exit(1)
	}

	gopath := os.Getenv("GOPATH")
	if gopath == "" {
		gopath = build.Default.GOPATH
	}

	slog.SetDefault(slog.New(&sourceHandler{
		base:         base,
		rootPath:     strings.TrimSuffix(rootPath, "/") + "/",
		goPath:       strings.TrimSuffix(gopath, "/") + "/",
		requestIdKey: requestIdKey,
	}))
}

type sourceHandler struct {
	base         slog.Handler
	rootPath     string
	goPath       string
	requestIdKey any
}

func (h *sourceHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.base.Enabled(ctx, level)
}

func (h *sourceHandler) Handle(ctx context.Context, record slog.Record) error {
	record = record.Clone()

	fs := runtime.CallersFrames([]uintptr{record.PC})
	f, _ := fs.Next()
	file := f.File
	if strings.HasPrefix(file, h.rootPath) {
		file = file[len(h.rootPath):]
	} else if strings.HasPrefix(file, h.goPath) {
		file = file[len(h.goPath):]
	}
	record.AddAttrs(slog.Any(slog.SourceKey, &slog.Source{
		Function: f.Function,
		File:     file,
		Line:     f.Line,
	}))

	if requestId := ctx.Value(h.requestIdKey); requestId != nil {
		record.AddAttrs(slog.String("request_id", requestId.(string)))
	}

	return h.base.Handle(ctx, record)
}

func (h *sourceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &sourceHandler{
		base:         h.base.WithAttrs(attrs),
		rootPath:     h.rootPath,
		goPath:       h.goPath,
		requestIdKey: h.requestIdKey,
	}
}

func (h *sourceHandler) WithGroup(name string) slog.Handler {
	return &sourceHandler{
		base:         h.base.WithGroup(name),
		rootPath:     h.rootPath,
		goPath:       h.goPath,
		requestIdKey: h.requestIdKey,
	}
}
