package ctxlog

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestFromContext(t *testing.T) {
	if FromContext(context.Background()) != slog.Default() {
		t.Fatalf("expected the default logger without an attached one")
	}

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	ctx := WithLogger(context.Background(), logger)
	FromContext(ctx).Info("hello", "k", "v")

	if !strings.Contains(buf.String(), "k=v") {
		t.Fatalf("expected attached logger to be used, got %q", buf.String())
	}
	if WithLogger(ctx, nil) != ctx {
		t.Fatalf("nil logger must leave the context untouched")
	}
}
