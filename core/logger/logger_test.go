package logger

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		lvl  zapcore.Level
	}{
		{"Debug Console", Config{Level: "debug", Format: "console"}, zapcore.DebugLevel},
		{"Info JSON", Config{Level: "info", Format: "json"}, zapcore.InfoLevel},
		{"Warn JSON", Config{Level: "warn", Format: "json"}, zapcore.WarnLevel},
		{"Unknown Level Falls Back To Info", Config{Level: "loud"}, zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(&tt.cfg)
			require.NoError(t, err)
			assert.True(t, l.Core().Enabled(tt.lvl))
			assert.False(t, l.Core().Enabled(tt.lvl-1))
		})
	}
}

func TestWithRayID(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	base := zap.New(core)

	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		c.Locals("ray_id", "abc-123")
		WithRayID(base, c).Info("hello")
		return c.SendStatus(fiber.StatusNoContent)
	})

	_, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "abc-123", logs.All()[0].ContextMap()["ray_id"])
}

func TestWithRun(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	base := zap.New(core)

	WithRun(base, "run-1").Info("tagged")
	WithRun(base, "").Info("untagged")

	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "run-1", logs.All()[0].ContextMap()["run_id"])
	_, ok := logs.All()[1].ContextMap()["run_id"]
	assert.False(t, ok)
}
