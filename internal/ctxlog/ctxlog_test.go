package ctxlog

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromContextFallsBackToDefault(t *testing.T) {
	assert.Same(t, slog.Default(), FromContext(context.Background()))
}

func TestWithAddsAttributes(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewTextHandler(&buf, nil))
	ctx := WithLogger(context.Background(), base)

	ctx, logger := With(ctx, "package", "hello")
	logger.Info("Staging files.")
	FromContext(ctx).Info("Writing manifest.")

	out := buf.String()
	assert.Contains(t, out, `msg="Staging files." package=hello`)
	assert.Contains(t, out, `msg="Writing manifest." package=hello`)
}
