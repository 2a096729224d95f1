package logging

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNew_LevelAndFormat(t *testing.T) {
	logger := New(Config{Level: zerolog.DebugLevel, Format: "json"})
	assert.Equal(t, zerolog.DebugLevel, logger.GetLevel())

	logger = New(DefaultConfig())
	assert.Equal(t, zerolog.InfoLevel, logger.GetLevel())
}

func TestContextRoundTrip(t *testing.T) {
	logger := New(Config{Level: zerolog.WarnLevel, Format: "json"})

	ctx := WithContext(context.Background(), logger)
	got := FromContext(ctx)
	assert.Equal(t, zerolog.WarnLevel, got.GetLevel())
}

func TestFromContext_MissingLogger(t *testing.T) {
	got := FromContext(context.Background())
	// zerolog.Ctx returns a disabled logger when none is attached
	assert.Equal(t, zerolog.Disabled, got.GetLevel())
}
