package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func record(level slog.Level, msg string, attrs ...slog.Attr) slog.Record {
	r := slog.NewRecord(time.Time{}, level, msg, 0)
	r.AddAttrs(attrs...)
	return r
}

func TestHandler_Line(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	var buf bytes.Buffer
	h := NewHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})

	r := record(slog.LevelDebug, "section absent",
		slog.String("path", "/repo/pyproject.toml"),
		slog.Int("depth", 2))
	if err := h.Handle(t.Context(), r); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	want := "DEBUG section absent path=/repo/pyproject.toml depth=2\n"
	if got := buf.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestHandler_TimePrefix(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	var buf bytes.Buffer
	h := NewHandler(&buf, nil)

	ts := time.Date(2026, 1, 2, 15, 4, 0, 0, time.UTC)
	if err := h.Handle(t.Context(), slog.NewRecord(ts, slog.LevelInfo, "resolved", 0)); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "3:04PM INFO  resolved\n" {
		t.Errorf("output = %q", got)
	}
}

func TestHandler_TraceLevel(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	tests := []struct {
		level slog.Level
		want  string
	}{
		{LevelTrace, "TRACE"},
		{LevelTrace - 1, "TRACE"},
		{LevelTrace + 1, "DEBUG-3"},
		{slog.LevelDebug, "DEBUG"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			var buf bytes.Buffer
			h := NewHandler(&buf, &slog.HandlerOptions{Level: LevelTrace - 4})
			if err := h.Handle(t.Context(), record(tt.level, "checking dir")); err != nil {
				t.Fatal(err)
			}
			if !strings.HasPrefix(buf.String(), tt.want+" ") {
				t.Errorf("output = %q, want level %s", buf.String(), tt.want)
			}
		})
	}
}

func TestHandler_LevelVar(t *testing.T) {
	var buf bytes.Buffer
	level := new(slog.LevelVar)
	level.Set(slog.LevelWarn)
	h := NewHandler(&buf, &slog.HandlerOptions{Level: level})

	if h.Enabled(t.Context(), LevelTrace) {
		t.Fatal("trace should be disabled at warn level")
	}
	level.Set(LevelTrace)
	if !h.Enabled(t.Context(), LevelTrace) {
		t.Error("lowering the LevelVar should enable trace on an existing handler")
	}
}

func TestHandler_GroupsAsDottedKeys(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	var buf bytes.Buffer
	h := NewHandler(&buf, nil).
		WithAttrs([]slog.Attr{slog.String("root", "/repo")}).
		WithGroup("config").
		WithGroup("")

	if err := h.Handle(t.Context(), record(slog.LevelInfo, "loaded", slog.Int("options", 3))); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	if !strings.Contains(out, " config.options=3") {
		t.Errorf("output = %q, want grouped key config.options", out)
	}
	if !strings.Contains(out, " root=/repo") {
		t.Errorf("output = %q, want ungrouped attr added before the group", out)
	}
}

func TestHandler_WithAttrsDoesNotShare(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	var buf bytes.Buffer
	base := NewHandler(&buf, nil).WithAttrs([]slog.Attr{slog.String("cmd", "collect")})
	a := base.WithAttrs([]slog.Attr{slog.String("path", "a")})
	b := base.WithAttrs([]slog.Attr{slog.String("path", "b")})

	if err := a.Handle(t.Context(), record(slog.LevelInfo, "x")); err != nil {
		t.Fatal(err)
	}
	if err := b.Handle(t.Context(), record(slog.LevelInfo, "x")); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 || !strings.HasSuffix(lines[0], "path=a") || !strings.HasSuffix(lines[1], "path=b") {
		t.Errorf("derived handlers share attrs: %q", buf.String())
	}
}
