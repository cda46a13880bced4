package handlers

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"studyvault/media-hub/importer"
	"studyvault/media-hub/markers"
	"studyvault/media-hub/models"
	"studyvault/media-hub/storage"
	"studyvault/media-hub/transcript"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// newTestApp wires a Fiber app over temp stores, mirroring the route table
// in main.go for the pieces under test.
func newTestApp(t *testing.T) (*fiber.App, *ApplicationHandler) {
	t.Helper()
	log := quietLogger()
	library, err := storage.NewFileLibrary(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	markerStore, err := storage.NewFileMarkerStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	sessions := markers.NewRegistry(markerStore, transcript.DurationCanonical, nil)
	imp := importer.New(library, log)
	h := NewApplicationHandler(log, library, markerStore, sessions, imp, nil, t.TempDir())

	app := fiber.New()
	app.Get("/media/:key", h.ServeMedia)
	app.Get("/api/v1/library", h.ListLibrary)
	app.Get("/api/v1/items/:key/transcript", h.GetTranscript)
	app.Get("/api/v1/items/:key/markers", h.GetMarkers)
	app.Post("/api/v1/items/:key/markers/in", h.MarkIn)
	app.Post("/api/v1/items/:key/markers/out", h.MarkOut)
	app.Post("/api/v1/items/:key/markers/:slot/select", h.SelectSlot)
	app.Delete("/api/v1/items/:key/markers/:slot", h.ClearSlot)
	app.Get("/api/v1/items/:key/markers/:slot/copy", h.CopySlot)
	return app, h
}

func putMedia(t *testing.T, h *ApplicationHandler, key, content string) *models.MediaItem {
	t.Helper()
	path := filepath.Join(t.TempDir(), "media.mp3")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	item := &models.MediaItem{
		Key:        key,
		Name:       "media.mp3",
		MediaPath:  path,
		Size:       int64(len(content)),
		Transcript: "First part. Second part. Third part.",
		Duration:   36,
	}
	if err := h.Library.Put(item); err != nil {
		t.Fatal(err)
	}
	return item
}

func TestParseRange(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		size       int64
		start, end int64
		ok         bool
	}{
		{"closed range", "bytes=0-99", 1000, 0, 99, true},
		{"open-ended", "bytes=100-", 1000, 100, 999, true},
		{"end clamped to size", "bytes=0-5000", 1000, 0, 999, true},
		{"single byte", "bytes=42-42", 1000, 42, 42, true},
		{"start at last byte", "bytes=999-", 1000, 999, 999, true},
		{"start past end", "bytes=1000-", 1000, 0, 0, false},
		{"inverted", "bytes=50-10", 1000, 0, 0, false},
		{"missing prefix", "0-99", 1000, 0, 0, false},
		{"suffix form unsupported", "bytes=-100", 1000, 0, 0, false},
		{"garbage", "bytes=abc-def", 1000, 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, ok := parseRange(tt.header, tt.size)
			if ok != tt.ok {
				t.Fatalf("parseRange(%q) ok = %v, want %v", tt.header, ok, tt.ok)
			}
			if ok && (start != tt.start || end != tt.end) {
				t.Errorf("parseRange(%q) = [%d, %d], want [%d, %d]",
					tt.header, start, end, tt.start, tt.end)
			}
		})
	}
}

func TestServeMediaFullBody(t *testing.T) {
	app, h := newTestApp(t)
	putMedia(t, h, "lesson one", "0123456789")

	req := httptest.NewRequest(http.MethodGet, "/media/lesson%20one", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if got := resp.Header.Get("Accept-Ranges"); got != "bytes" {
		t.Errorf("Accept-Ranges = %q", got)
	}
	if got := resp.Header.Get("Content-Type"); got != "audio/mpeg" {
		t.Errorf("Content-Type = %q", got)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "0123456789" {
		t.Errorf("body = %q", body)
	}
}

func TestServeMediaPartialContent(t *testing.T) {
	app, h := newTestApp(t)
	putMedia(t, h, "lesson one", "0123456789")

	req := httptest.NewRequest(http.MethodGet, "/media/lesson%20one", nil)
	req.Header.Set("Range", "bytes=2-5")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusPartialContent {
		t.Fatalf("status = %d, want 206", resp.StatusCode)
	}
	if got := resp.Header.Get("Content-Range"); got != "bytes 2-5/10" {
		t.Errorf("Content-Range = %q", got)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "2345" {
		t.Errorf("body = %q", body)
	}
}

func TestServeMediaOpenEndedRange(t *testing.T) {
	app, h := newTestApp(t)
	putMedia(t, h, "lesson one", "0123456789")

	req := httptest.NewRequest(http.MethodGet, "/media/lesson%20one", nil)
	req.Header.Set("Range", "bytes=7-")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusPartialContent {
		t.Fatalf("status = %d, want 206", resp.StatusCode)
	}
	if got := resp.Header.Get("Content-Range"); got != "bytes 7-9/10" {
		t.Errorf("Content-Range = %q", got)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "789" {
		t.Errorf("body = %q", body)
	}
}

func TestServeMediaMalformedRange(t *testing.T) {
	app, h := newTestApp(t)
	putMedia(t, h, "lesson one", "0123456789")

	req := httptest.NewRequest(http.MethodGet, "/media/lesson%20one", nil)
	req.Header.Set("Range", "bytes=9-2")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusRequestedRangeNotSatisfiable {
		t.Errorf("status = %d, want 416", resp.StatusCode)
	}
}

func TestServeMediaUnknownItem(t *testing.T) {
	app, _ := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/media/nope", nil))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestServeMediaMissingBinary(t *testing.T) {
	app, h := newTestApp(t)
	item := putMedia(t, h, "lesson one", "0123456789")
	os.Remove(item.MediaPath)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/media/lesson%20one", nil))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}
