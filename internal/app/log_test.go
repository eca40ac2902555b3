package app

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

func newTestHandler(w, console io.Writer, sessionID string) *gtHandler {
	return &gtHandler{
		mu:           &sync.Mutex{},
		w:            w,
		console:      console,
		consoleLevel: slog.LevelWarn,
		sessionID:    sessionID,
	}
}

func TestGtHandler_Handle(t *testing.T) {
	ts := time.Date(2024, 6, 15, 14, 30, 45, 0, time.UTC)

	tests := []struct {
		name        string
		level       slog.Level
		message     string
		attrs       []slog.Attr
		want        string
		wantConsole bool
	}{
		{
			name:    "info message",
			level:   slog.LevelInfo,
			message: "plants loaded",
			want:    "2024-06-15T14:30:45Z\tINFO\tab12cd34\tplants loaded\n",
		},
		{
			name:    "with record attrs",
			level:   slog.LevelInfo,
			message: "plant added",
			attrs:   []slog.Attr{slog.String("name", "Fern"), slog.Int("water_interval", 3)},
			want:    "2024-06-15T14:30:45Z\tINFO\tab12cd34\tplant added\tname=Fern\twater_interval=3\n",
		},
		{
			name:        "warning reaches console",
			level:       slog.LevelWarn,
			message:     "data file not loaded",
			want:        "2024-06-15T14:30:45Z\tWARN\tab12cd34\tdata file not loaded\n",
			wantConsole: true,
		},
		{
			name:        "error reaches console",
			level:       slog.LevelError,
			message:     "save failed",
			attrs:       []slog.Attr{slog.String("locator", "/tmp/plants.json")},
			want:        "2024-06-15T14:30:45Z\tERROR\tab12cd34\tsave failed\tlocator=/tmp/plants.json\n",
			wantConsole: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var file, console bytes.Buffer
			h := newTestHandler(&file, &console, "ab12cd34")

			r := slog.NewRecord(ts, tt.level, tt.message, 0)
			r.AddAttrs(tt.attrs...)

			if err := h.Handle(context.Background(), r); err != nil {
				t.Fatalf("Handle() error = %v", err)
			}

			if got := file.String(); got != tt.want {
				t.Errorf("log file output =\n%q\nwant:\n%q", got, tt.want)
			}

			wantConsole := ""
			if tt.wantConsole {
				wantConsole = tt.want
			}
			if got := console.String(); got != wantConsole {
				t.Errorf("console output = %q, want %q", got, wantConsole)
			}
		})
	}
}

func TestGtHandler_WithAttrs(t *testing.T) {
	var file bytes.Buffer
	h := newTestHandler(&file, nil, "s-1")
	h.attrs = []slog.Attr{slog.String("a", "1")}

	h2 := h.WithAttrs([]slog.Attr{slog.String("command", "add")}).(*gtHandler)
	if len(h.attrs) != 1 {
		t.Errorf("original handler attrs modified: got %d, want 1", len(h.attrs))
	}

	r := slog.NewRecord(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), slog.LevelInfo, "plant added", 0)
	r.AddAttrs(slog.String("name", "Basil"))
	if err := h2.Handle(context.Background(), r); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	got := file.String()
	for _, want := range []string{"a=1", "command=add", "name=Basil"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %s in output, got: %q", want, got)
		}
	}
}

func TestGtHandler_Enabled(t *testing.T) {
	h := &gtHandler{}
	for _, level := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError} {
		if !h.Enabled(context.Background(), level) {
			t.Errorf("Enabled(%v) = false, want true", level)
		}
	}
}

func TestNewLogger(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "log")

	logger, f, err := newLogger(dir, "test-session")
	if err != nil {
		t.Fatalf("newLogger() error = %v", err)
	}
	logger.Info("plants loaded", "count", 2)
	f.Close()

	data, err := os.ReadFile(filepath.Join(dir, "gt.log"))
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), "\ttest-session\tplants loaded\tcount=2\n") {
		t.Errorf("log file = %q, want the plants loaded record", data)
	}
}

func TestNewSessionID(t *testing.T) {
	a, b := newSessionID(), newSessionID()
	if len(a) != 8 {
		t.Errorf("newSessionID() length = %d, want 8", len(a))
	}
	if a == b {
		t.Errorf("newSessionID() returned %q twice", a)
	}
}
