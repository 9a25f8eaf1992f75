package log

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newBufferLogger(buf *bytes.Buffer, component string) *Logger {
	return New(Config{Level: slog.LevelDebug, Component: component, Output: buf})
}

func TestWithComponentReplacesTag(t *testing.T) {
	var buf bytes.Buffer
	l := newBufferLogger(&buf, ComponentApp).With("k", "v").WithComponent(ComponentChat)
	l.Info("hello")

	out := buf.String()
	if strings.Count(out, "component=") != 1 {
		t.Fatalf("expected a single component attribute, got %q", out)
	}
	if !strings.Contains(out, "component=chat") || !strings.Contains(out, "k=v") {
		t.Fatalf("unexpected output %q", out)
	}
	if l.Component() != ComponentChat {
		t.Fatalf("Component() = %q", l.Component())
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	New(Config{Level: slog.LevelInfo, Format: "json", Output: &buf}).Info("hello")
	if !strings.HasPrefix(strings.TrimSpace(buf.String()), "{") {
		t.Fatalf("expected JSON output, got %q", buf.String())
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]string{"": "text", "TEXT": "text", "json": "json"} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("expected error for xml")
	}
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	if FromContext(context.Background()) == nil {
		t.Fatal("expected a logger")
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	var buf bytes.Buffer
	root := newBufferLogger(&buf, ComponentHTTP)

	h := Middleware(root)(RequestIDMiddleware(func(*http.Request) string { return "req-1" })(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			FromContext(r.Context()).Info("inside")
		})))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if !strings.Contains(buf.String(), "request_id=req-1") {
		t.Fatalf("request id missing: %q", buf.String())
	}
}

func TestStructuredLogger(t *testing.T) {
	var buf bytes.Buffer
	sl := NewStructuredLogger(newBufferLogger(&buf, ComponentChat))
	req := httptest.NewRequest(http.MethodPost, "/api/chat", nil)

	sl.LogHTTPEnd(context.Background(), req, http.StatusInternalServerError, 12, "10.0.0.1", "req-2")
	if !strings.Contains(buf.String(), "level=ERROR") {
		t.Errorf("5xx should log at error level: %q", buf.String())
	}
	buf.Reset()

	sl.LogChatReplied(context.Background(), "", "default", false, 5)
	out := buf.String()
	for _, want := range []string{"user_id=anonymous", "rule=default", "message_length=5", "operation=reply"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in %q", want, out)
		}
	}
	buf.Reset()

	sl.LogError(context.Background(), "boom", errors.New("bad"), OpRead, nil)
	if !strings.Contains(buf.String(), "error=bad") {
		t.Errorf("missing error field: %q", buf.String())
	}
}
