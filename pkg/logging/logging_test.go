package logging

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		verbosity string
		count     int
		want      slog.Level
	}{
		{"", 0, slog.LevelInfo},
		{"", 1, slog.LevelDebug},
		{"", 3, LevelTrace},
		{"warn", 2, slog.LevelWarn},
		{"ERROR", 0, slog.LevelError},
		{"trace", 0, LevelTrace},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.verbosity, tt.count)
		if err != nil {
			t.Fatalf("ParseLevel(%q, %d) error = %v", tt.verbosity, tt.count, err)
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q, %d) = %v, want %v", tt.verbosity, tt.count, got, tt.want)
		}
	}
	if _, err := ParseLevel("loud", 0); err == nil {
		t.Error("expected error for unknown verbosity")
	}
}

func TestCompactHandler(t *testing.T) {
	var buf bytes.Buffer
	h := NewCompactHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	log := slog.New(h).With("glycan", "H5N4").WithGroup("trait")

	log.Info("evaluated", "name", "CS", "value", 0.25, "note", "two words")
	log.Log(context.Background(), LevelTrace, "hidden")

	out := buf.String()
	for _, want := range []string{"evaluated |", "glycan=H5N4", "trait.name=CS", "trait.value=0.25", `trait.note="two words"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
	if strings.Contains(out, "trait.glycan") {
		t.Error("attrs added before WithGroup must not be grouped")
	}
	if strings.Contains(out, "hidden") {
		t.Error("trace record should be filtered at debug level")
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	var seen string
	h := RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if seen == "" || rec.Header().Get(RequestIDHeader) != seen {
		t.Errorf("request id %q not propagated to header %q", seen, rec.Header().Get(RequestIDHeader))
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if seen != "abc" {
		t.Errorf("incoming request id not kept: %q", seen)
	}
	if rec.Code != http.StatusTeapot {
		t.Errorf("status = %d", rec.Code)
	}
}
