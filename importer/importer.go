package importer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"

	"studyvault/media-hub/models"
	"studyvault/media-hub/storage"
)

// mediaExtensions mirrors the player's supported container list.
var mediaExtensions = map[string]bool{
	"mp3": true, "wav": true, "ogg": true, "m4a": true, "aac": true, "flac": true,
	"mp4": true, "webm": true, "mkv": true, "avi": true, "mov": true, "m4v": true,
}

var (
	transcribedSuffix = regexp.MustCompile(`(?i)\(transcribed\)$`)
	separatorRuns     = regexp.MustCompile(`[_\s]+`)
)

// FileKey normalizes a file name into the pairing key shared by a media file
// and its transcript: basename without extension, a trailing "(transcribed)"
// tag dropped, lowercased, with underscore and whitespace runs collapsed to
// single spaces.
func FileKey(name string) string {
	base := filepath.Base(name)
	if dot := strings.LastIndex(base, "."); dot > 0 {
		base = base[:dot]
	}
	base = transcribedSuffix.ReplaceAllString(base, "")
	base = strings.ToLower(base)
	base = separatorRuns.ReplaceAllString(base, " ")
	return strings.TrimSpace(base)
}

// IsMediaFile reports whether the file name carries a playable extension.
func IsMediaFile(name string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	return mediaExtensions[ext]
}

// Result summarizes one import pass.
type Result struct {
	Imported []string `json:"imported"` // keys added this pass
	Skipped  int      `json:"skipped"`  // media files without a transcript or already present
}

// Importer runs the strict pairing flow: a media file enters the library only
// when a transcript file normalizing to the same key sits next to it.
type Importer struct {
	library storage.LibraryStore
	log     *logrus.Logger
}

// New creates an Importer writing into library.
func New(library storage.LibraryStore, log *logrus.Logger) *Importer {
	return &Importer{library: library, log: log}
}

// ScanDir walks dir (non-recursive), pairs media files with same-key .txt
// transcripts and imports every new pair. Unpaired media and already-known
// keys are skipped, not errors.
func (im *Importer) ScanDir(dir string) (*Result, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read import dir: %w", err)
	}

	transcripts := map[string]string{} // key -> path
	var mediaFiles []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		switch {
		case strings.EqualFold(filepath.Ext(name), ".txt"):
			transcripts[FileKey(name)] = filepath.Join(dir, name)
		case IsMediaFile(name):
			mediaFiles = append(mediaFiles, filepath.Join(dir, name))
		}
	}

	result := &Result{}
	for _, mediaPath := range mediaFiles {
		key := FileKey(mediaPath)
		transcriptPath, ok := transcripts[key]
		if !ok {
			im.log.WithField("media", mediaPath).Debug("No matching transcript, skipping")
			result.Skipped++
			continue
		}
		if _, err := im.library.Get(key); err == nil {
			result.Skipped++
			continue
		} else if !errors.Is(err, storage.ErrNotFound) {
			return nil, err
		}

		item, err := im.ImportPair(mediaPath, transcriptPath)
		if err != nil {
			im.log.WithError(err).WithField("media", mediaPath).Error("Import failed")
			result.Skipped++
			continue
		}
		result.Imported = append(result.Imported, item.Key)
	}

	im.log.WithFields(logrus.Fields{
		"dir":      dir,
		"imported": len(result.Imported),
		"skipped":  result.Skipped,
	}).Info("Import pass finished")
	return result, nil
}

// ImportPair reads one media/transcript pair into the library and returns
// the stored item.
func (im *Importer) ImportPair(mediaPath, transcriptPath string) (*models.MediaItem, error) {
	text, err := os.ReadFile(transcriptPath)
	if err != nil {
		return nil, fmt.Errorf("read transcript: %w", err)
	}
	info, err := os.Stat(mediaPath)
	if err != nil {
		return nil, fmt.Errorf("stat media: %w", err)
	}

	item := &models.MediaItem{
		Key:        FileKey(mediaPath),
		Name:       filepath.Base(mediaPath),
		MediaPath:  mediaPath,
		Size:       info.Size(),
		Date:       info.ModTime().UnixMilli(),
		Transcript: string(text),
	}
	if err := im.library.Put(item); err != nil {
		return nil, fmt.Errorf("store item: %w", err)
	}
	return item, nil
}
