package handlers

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"studyvault/media-hub/storage"
	"studyvault/media-hub/utils"
)

var rangePattern = regexp.MustCompile(`^bytes=(\d+)-(\d*)$`)

var mimeTypes = map[string]string{
	".mp4":  "video/mp4",
	".m4v":  "video/mp4",
	".webm": "video/webm",
	".mkv":  "video/x-matroska",
	".avi":  "video/x-msvideo",
	".mov":  "video/quicktime",
	".m4a":  "audio/mp4",
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".ogg":  "audio/ogg",
	".aac":  "audio/aac",
	".flac": "audio/flac",
}

func mimeTypeFor(name string) string {
	if mt, ok := mimeTypes[strings.ToLower(filepath.Ext(name))]; ok {
		return mt
	}
	return "audio/mpeg"
}

// parseRange interprets a "bytes=start-[end]" header against the file size.
// ok is false when the header is malformed or the range unsatisfiable.
func parseRange(header string, size int64) (start, end int64, ok bool) {
	m := rangePattern.FindStringSubmatch(header)
	if m == nil {
		return 0, 0, false
	}
	start, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil || start >= size {
		return 0, 0, false
	}
	end = size - 1
	if m[2] != "" {
		end, err = strconv.ParseInt(m[2], 10, 64)
		if err != nil {
			return 0, 0, false
		}
		if end > size-1 {
			end = size - 1
		}
	}
	if end < start {
		return 0, 0, false
	}
	return start, end, true
}

// fileSection streams a byte range of an open file and closes it when the
// response body is drained.
type fileSection struct {
	io.Reader
	file *os.File
}

func (s *fileSection) Close() error {
	return s.file.Close()
}

// ServeMedia serves an item's media binary with HTTP range-request
// semantics: 200 with the whole body when no Range header is present, 206
// with Content-Range for a satisfiable range, 416 for a malformed or
// unsatisfiable one, 404 when the item or its binary is gone.
func (h *ApplicationHandler) ServeMedia(c *fiber.Ctx) error {
	key := itemKey(c)
	item, err := h.Library.Get(key)
	if errors.Is(err, storage.ErrNotFound) {
		return utils.RespondWithError(c, fiber.StatusNotFound, fmt.Sprintf("Item %q not found", key))
	}
	if err != nil {
		h.Logger.Errorf("Error fetching item %q: %v", key, err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Could not fetch item")
	}

	file, err := os.Open(item.MediaPath)
	if err != nil {
		h.Logger.Warnf("Media binary missing for %q: %v", key, err)
		return utils.RespondWithError(c, fiber.StatusNotFound, "Media binary not found")
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		h.Logger.Errorf("Error statting media for %q: %v", key, err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Could not read media")
	}
	size := info.Size()

	c.Set(fiber.HeaderContentType, mimeTypeFor(item.Name))
	c.Set(fiber.HeaderAcceptRanges, "bytes")
	c.Set("X-Content-Type-Options", "nosniff")
	c.Set(fiber.HeaderCacheControl, "no-cache, no-store, must-revalidate")

	rangeHeader := c.Get(fiber.HeaderRange)
	if rangeHeader == "" {
		c.Status(fiber.StatusOK)
		return c.SendStream(file, int(size))
	}

	start, end, ok := parseRange(rangeHeader, size)
	if !ok {
		file.Close()
		return utils.RespondWithError(c, fiber.StatusRequestedRangeNotSatisfiable, "Invalid range")
	}
	if _, err := file.Seek(start, io.SeekStart); err != nil {
		file.Close()
		h.Logger.Errorf("Error seeking media for %q: %v", key, err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Could not read media")
	}

	length := end - start + 1
	c.Set(fiber.HeaderContentRange, fmt.Sprintf("bytes %d-%d/%d", start, end, size))
	c.Status(fiber.StatusPartialContent)
	return c.SendStream(&fileSection{Reader: io.LimitReader(file, length), file: file}, int(length))
}
