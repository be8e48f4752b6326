package logger

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func fixedClock() time.Time {
	return time.Date(2026, 1, 2, 3, 4, 5, 6_000_000, time.UTC)
}

func TestLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, false, false)
	log.now = fixedClock

	log.Debug("hidden")
	log.Info("scanning %s", "/srv")
	log.Warn("careful")

	assert.Equal(t, "[03:04:05.006 INFO] scanning /srv\n[03:04:05.006 WARN] careful\n", buf.String())
}

func TestLogger_Verbose(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, true, false)
	log.now = fixedClock

	assert.True(t, log.DebugEnabled())
	log.Debug("x=%d", 1)

	assert.Equal(t, "[03:04:05.006 DEBUG] x=1\n", buf.String())
}

func TestLogger_SetLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, true, false)

	log.SetLevel("error")
	log.Warn("dropped")
	assert.Empty(t, buf.String())

	log.SetLevel("off")
	log.Error("dropped too")
	assert.Empty(t, buf.String())
	assert.Equal(t, LevelNone, log.Level())
}

func TestParseLevel(t *testing.T) {
	tests := map[string]LogLevel{
		"debug":   LevelDebug,
		"DEBUG":   LevelDebug,
		" info ":  LevelInfo,
		"warning": LevelWarn,
		"warn":    LevelWarn,
		"error":   LevelError,
		"none":    LevelNone,
		"quiet":   LevelNone,
		"bogus":   LevelInfo,
		"":        LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}
