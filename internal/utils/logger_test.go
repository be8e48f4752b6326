package utils

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

type lines []string

func (l *lines) Debug(format string, args ...interface{}) { *l = append(*l, "D "+fmt.Sprintf(format, args...)) }
func (l *lines) Info(format string, args ...interface{})  { *l = append(*l, "I "+fmt.Sprintf(format, args...)) }
func (l *lines) Warn(format string, args ...interface{})  { *l = append(*l, "W "+fmt.Sprintf(format, args...)) }
func (l *lines) Error(format string, args ...interface{}) { *l = append(*l, "E "+fmt.Sprintf(format, args...)) }

func TestWithPrefix(t *testing.T) {
	var out lines
	log := WithPrefix(&out, "policy")

	log.Debug("loaded %d", 3)
	log.Info("ok")
	log.Warn("odd %s", "entry")
	log.Error("failed")

	assert.Equal(t, lines{"D policy: loaded 3", "I policy: ok", "W policy: odd entry", "E policy: failed"}, out)
}

func TestOrNoop(t *testing.T) {
	assert.Equal(t, NoopLogger{}, OrNoop(nil))

	var out lines
	assert.Same(t, &out, OrNoop(&out))

	// must not panic
	WithPrefix(nil, "x").Info("dropped")
}
