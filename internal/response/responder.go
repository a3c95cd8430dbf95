package response

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"runtime"
	"time"

	"github.com/google/uuid"
)

// Responder writes the exact response bodies this API promises: JSON for
// data, fixed literal text for degraded and error paths.
type Responder struct{}

func (rr *Responder) SendJson(w http.ResponseWriter, ctx context.Context, data any) {
	bs, err := json.Marshal(data)
	if err != nil {
		rr.RespondAndLogError(w, ctx, http.StatusInternalServerError, "unknown error", err)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_, _ = io.Copy(w, bytes.NewReader(bs))
}

func (rr *Responder) SendText(w http.ResponseWriter, ctx context.Context, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, body)
}

func (rr *Responder) SendHtml(w http.ResponseWriter, ctx context.Context, body string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, body)
}

// RespondAndLogError logs err under a fresh error id and responds with the
// given status and literal body. The body is part of the API contract and is
// sent as-is, never the raw error.
func (rr *Responder) RespondAndLogError(w http.ResponseWriter, ctx context.Context, status int, body string, err error) {
	log(ctx, slog.LevelError, err.Error(), slog.String("err_id", uuid.NewString()))

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

// SendTextAndLogError logs err under a fresh error id and still responds
// 200 with the literal body. List endpoints degrade to their empty-result
// text instead of surfacing store failures.
func (rr *Responder) SendTextAndLogError(w http.ResponseWriter, ctx context.Context, body string, err error) {
	log(ctx, slog.LevelError, err.Error(), slog.String("err_id", uuid.NewString()))
	rr.SendText(w, ctx, body)
}

// RespondNotFound responds 404 with the literal body, without logging: a
// missing document is an expected outcome, not a failure.
func (rr *Responder) RespondNotFound(w http.ResponseWriter, ctx context.Context, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	_, _ = io.WriteString(w, body)
}

// Needed because it skips one more frame item than the slog.Log
func log(ctx context.Context, level slog.Level, msg string, attrs ...slog.Attr) {
	l := slog.Default()

	if !l.Enabled(ctx, level) {
		return
	}

	var pc uintptr
	var pcs [1]uintptr
	// skip [runtime.Callers, this function, this function's caller]
	runtime.Callers(3, pcs[:])
	pc = pcs[0]

	r := slog.NewRecord(time.Now(), level, msg, pc)
	r.AddAttrs(attrs...)
	_ = l.Handler().Handle(ctx, r)
}
