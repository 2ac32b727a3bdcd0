package logger

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupLogger(t *testing.T, level LogLevel) (*Logger, *bytes.Buffer) {
	t.Helper()

	var buf bytes.Buffer
	return New(Config{Level: level, Output: &buf}), &buf
}

func TestLogger_FiltersByLevel(t *testing.T) {
	l, buf := setupLogger(t, WARN)

	l.Debugf("debug %d", 1)
	l.Infof("info %d", 2)
	l.Warnf("warn %d", 3)
	l.Errorf("error %d", 4)

	out := buf.String()
	assert.NotContains(t, out, "debug 1")
	assert.NotContains(t, out, "info 2")
	assert.Contains(t, out, "[WARN] warn 3")
	assert.Contains(t, out, "[ERROR] error 4")
}

func TestLogger_PlainMessageKeepsPercent(t *testing.T) {
	l, buf := setupLogger(t, DEBUG)
	l.Info("100% bunny")
	assert.Contains(t, buf.String(), "100% bunny")
}

func TestLogger_Named(t *testing.T) {
	l, buf := setupLogger(t, INFO)

	child := l.Named("catalog").Named("toml")
	child.Infof("loaded %d buns", 16)
	assert.Contains(t, buf.String(), "[INFO] [catalog] [toml] loaded 16 buns")

	// children follow the parent's level
	l.SetLevel(ERROR)
	buf.Reset()
	child.Warnf("quiet")
	assert.Empty(t, buf.String())
}

func TestLogger_Colorize(t *testing.T) {
	l, buf := setupLogger(t, INFO)
	l.SetColorize(true)
	l.Errorf("boom")
	assert.Contains(t, buf.String(), colorRed+"[ERROR]"+colorReset)
}

func TestLogger_ShowCaller(t *testing.T) {
	l, buf := setupLogger(t, INFO)
	l.SetShowCaller(true)
	l.Infof("where")
	assert.Contains(t, buf.String(), "logger_test.go:")
}

func TestLogger_FatalExits(t *testing.T) {
	code := -1
	exit = func(c int) { code = c }
	t.Cleanup(func() { exit = os.Exit })

	l, buf := setupLogger(t, INFO)
	l.Fatalf("cannot start: %s", "no buns")
	assert.Equal(t, 1, code)
	assert.Contains(t, buf.String(), "[FATAL] cannot start: no buns")
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]LogLevel{
		"debug":   DEBUG,
		"INFO":    INFO,
		"Warning": WARN,
		" error ": ERROR,
		"fatal":   FATAL,
	} {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	lvl, err := ParseLevel("loud")
	assert.Error(t, err)
	assert.Equal(t, INFO, lvl)
}

func TestLogger_NoTime(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: INFO, Output: &buf, ShowTime: false})
	l.Infof("hi")
	assert.True(t, strings.HasPrefix(buf.String(), "[INFO] hi"))
}
