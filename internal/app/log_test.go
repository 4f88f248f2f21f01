package app

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLineHandler(t *testing.T) {
	ts := time.Date(2024, 6, 15, 14, 30, 45, 0, time.UTC)

	tests := []struct {
		name string
		log  func(*slog.Logger)
		want string
	}{
		{
			name: "message only",
			log:  func(l *slog.Logger) { l.Info("trip started") },
			want: "2024-06-15T14:30:45Z\tINFO\top-1\ttrip started\n",
		},
		{
			name: "record attrs",
			log:  func(l *slog.Logger) { l.Debug("trip ended", "trip", "t1", "distance", 42) },
			want: "2024-06-15T14:30:45Z\tDEBUG\top-1\ttrip ended\ttrip=t1\tdistance=42\n",
		},
		{
			name: "logger attrs come first",
			log:  func(l *slog.Logger) { l.With("component", "store").Warn("stale session", "driver", "d1") },
			want: "2024-06-15T14:30:45Z\tWARN\top-1\tstale session\tcomponent=store\tdriver=d1\n",
		},
		{
			name: "groups prefix keys",
			log: func(l *slog.Logger) {
				l.WithGroup("vault").Info("stored", slog.Group("snapshot", "version", 3), "fleet", "f1")
			},
			want: "2024-06-15T14:30:45Z\tINFO\top-1\tstored\tvault.snapshot.version=3\tvault.fleet=f1\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.log(slog.New(fixedTime{newLineHandler(&buf, "op-1", slog.LevelDebug), ts}))
			if got := buf.String(); got != tt.want {
				t.Errorf("output =\n%q\nwant\n%q", got, tt.want)
			}
		})
	}
}

// fixedTime stamps every record with t.
type fixedTime struct {
	slog.Handler
	t time.Time
}

func (h fixedTime) Handle(ctx context.Context, r slog.Record) error {
	r.Time = h.t
	return h.Handler.Handle(ctx, r)
}

func (h fixedTime) WithAttrs(attrs []slog.Attr) slog.Handler {
	return fixedTime{h.Handler.WithAttrs(attrs), h.t}
}

func (h fixedTime) WithGroup(name string) slog.Handler {
	return fixedTime{h.Handler.WithGroup(name), h.t}
}

func TestLineHandler_WithAttrsKeepsParent(t *testing.T) {
	var buf bytes.Buffer
	parent := slog.New(newLineHandler(&buf, "op-1", slog.LevelInfo))
	parent.With("a", 1).Info("child")
	parent.Info("parent")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if strings.Contains(lines[1], "a=1") {
		t.Errorf("parent line carries child attr: %q", lines[1])
	}
}

func TestFanout(t *testing.T) {
	var file, console bytes.Buffer
	logger := slog.New(fanout{
		newLineHandler(&file, "op-1", slog.LevelDebug),
		newLineHandler(&console, "op-1", slog.LevelWarn),
	})

	logger.Debug("vehicle added", "vehicle", "v1")
	logger.Warn("plate restricted today", "plate", "ABC1D21")

	if got := strings.Count(file.String(), "\n"); got != 2 {
		t.Errorf("file lines = %d, want 2: %q", got, file.String())
	}
	if strings.Contains(console.String(), "vehicle added") {
		t.Errorf("debug reached console: %q", console.String())
	}
	if !strings.Contains(console.String(), "\tplate=ABC1D21\n") {
		t.Errorf("warning missing from console: %q", console.String())
	}
	if logger.Enabled(context.Background(), slog.LevelDebug-1) {
		t.Error("fanout enabled below every handler's level")
	}
}

func TestNewLogger(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "log")

	logger, f, err := newLogger(dir, "20240115T103000Z")
	if err != nil {
		t.Fatalf("newLogger() error = %v", err)
	}
	logger.Debug("trip started", "trip", "t1")
	f.Close()

	data, err := os.ReadFile(filepath.Join(dir, "fleet.log"))
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), "\t20240115T103000Z\ttrip started\ttrip=t1\n") {
		t.Errorf("log file = %q", data)
	}
}
