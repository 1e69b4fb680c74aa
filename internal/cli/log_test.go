package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info level", log.InfoLevel, func(l *log.Logger) { l.Info("test") }, true},
		{"debug at info level", log.InfoLevel, func(l *log.Logger) { l.Debug("test") }, false},
		{"debug at debug level", log.DebugLevel, func(l *log.Logger) { l.Debug("test") }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))
			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("got log output = %v, want %v", got, tt.wantLog)
			}
		})
	}
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	newProgress(newLogger(&buf, log.InfoLevel)).done("layout updated")
	if !strings.Contains(buf.String(), "layout updated (") {
		t.Errorf("progress output = %q", buf.String())
	}
}

func TestContextValues(t *testing.T) {
	ctx := context.Background()
	if loggerFromContext(ctx) == nil {
		t.Error("loggerFromContext should fall back to the default logger")
	}
	if c := configFromContext(ctx); c.Canvas.Width != DefaultConfig().Canvas.Width {
		t.Errorf("configFromContext default = %+v", c)
	}

	logger := newLogger(&bytes.Buffer{}, log.InfoLevel)
	cfg := DefaultConfig()
	cfg.Canvas.Width = 2000
	ctx = withConfig(withLogger(ctx, logger), cfg)
	if loggerFromContext(ctx) != logger {
		t.Error("loggerFromContext should return the attached logger")
	}
	if configFromContext(ctx) != cfg {
		t.Error("configFromContext should return the attached config")
	}
}
