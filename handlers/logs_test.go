package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/spf13/afero"
)

func writeLog(t *testing.T, fs afero.Fs, lines int) {
	t.Helper()
	var b strings.Builder
	for i := 1; i <= lines; i++ {
		fmt.Fprintf(&b, "line %d\n", i)
	}
	if err := afero.WriteFile(fs, "/logs/hotlist.log", []byte(b.String()), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}
}

func TestLogsHandler_TailReturnsLastLines(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeLog(t, fs, 10)
	handler := NewLogsHandler(fs, "/logs/hotlist.log")

	rec := httptest.NewRecorder()
	handler.Tail(rec, httptest.NewRequest(http.MethodGet, "/api/logs?lines=3", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Body.String(); got != "line 8\nline 9\nline 10" {
		t.Fatalf("unexpected tail %q", got)
	}
}

func TestLogsHandler_TailWholeFileWhenShort(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeLog(t, fs, 2)
	handler := NewLogsHandler(fs, "/logs/hotlist.log")

	rec := httptest.NewRecorder()
	handler.Tail(rec, httptest.NewRequest(http.MethodGet, "/api/logs", nil))

	if got := rec.Body.String(); got != "line 1\nline 2" {
		t.Fatalf("unexpected tail %q", got)
	}
}

func TestLogsHandler_Errors(t *testing.T) {
	fs := afero.NewMemMapFs()

	rec := httptest.NewRecorder()
	NewLogsHandler(fs, "").Tail(rec, httptest.NewRequest(http.MethodGet, "/api/logs", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 without log file, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	NewLogsHandler(fs, "/missing.log").Tail(rec, httptest.NewRequest(http.MethodGet, "/api/logs", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing file, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	NewLogsHandler(fs, "/missing.log").Tail(rec, httptest.NewRequest(http.MethodGet, "/api/logs?lines=abc", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad lines, got %d", rec.Code)
	}
}

func TestVersionHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	NewVersionHandler().GetVersion(rec, httptest.NewRequest(http.MethodGet, "/api/version", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"version"`) {
		t.Fatalf("unexpected response %d %s", rec.Code, rec.Body.String())
	}
}
