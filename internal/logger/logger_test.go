package logger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHTTPRequest(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, slog.LevelInfo, "text")
	defer Initialize("info", "text")

	ctx := NewContext(context.Background(), Get().With("request_id", "req-1"))
	HTTPRequest(ctx, "GET", "/api/v1/plans", 200, 5*time.Millisecond)
	assert.Contains(t, buf.String(), "level=INFO")
	assert.Contains(t, buf.String(), "request_id=req-1")
	assert.Contains(t, buf.String(), "route=/api/v1/plans")

	buf.Reset()
	HTTPRequest(context.Background(), "POST", "/api/v1/applications", 500, time.Millisecond)
	assert.Contains(t, buf.String(), "level=ERROR")
	assert.NotContains(t, buf.String(), "request_id")
}

func TestSideEffectFailed(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, slog.LevelDebug, "json")
	defer Initialize("info", "text")

	SideEffectFailed("notify.approved", errors.New("smtp down"), "applicationID", "a1")
	out := buf.String()
	assert.Contains(t, out, `"level":"WARN"`)
	assert.Contains(t, out, `"operation":"notify.approved"`)
	assert.Contains(t, out, `"error":"smtp down"`)
	assert.Contains(t, out, `"applicationID":"a1"`)
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	Initialize("info", "text")
	assert.Same(t, Get(), FromContext(context.Background()))
}
