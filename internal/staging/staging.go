// Package staging persists uploaded photos to a temporary location for the
// duration of recognition processing.
package staging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Stager writes uploads under a temp directory with collision-free names.
type Stager struct {
	dir    string
	logger *slog.Logger
}

// New creates the staging directory if needed and returns a Stager.
func New(dir string, logger *slog.Logger) (*Stager, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create staging dir %s: %w", dir, err)
	}
	return &Stager{dir: dir, logger: logger}, nil
}

// Handle identifies a staged artifact. Callers must arrange for Remove on
// every exit path once staging has succeeded.
type Handle struct {
	Filename string
	Path     string

	logger *slog.Logger
}

// Stage writes the upload to `{timestamp}_{disambiguator}_{sanitizedName}`.
// The random disambiguator keeps concurrent uploads of the same filename
// within the same second from colliding.
func (s *Stager) Stage(ctx context.Context, r io.Reader, originalName string, timestamp int64) (*Handle, error) {
	name := fmt.Sprintf("%d_%s_%s", timestamp, uuid.New().String()[:8], SanitizeFilename(originalName))
	path := filepath.Join(s.dir, name)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, fmt.Errorf("create staged file: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return nil, fmt.Errorf("write staged file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("close staged file: %w", err)
	}

	return &Handle{Filename: name, Path: path, logger: s.logger}, nil
}

// Remove deletes the staged artifact. Best-effort: a failed removal is
// logged and never escalated, since the response is already determined.
func (h *Handle) Remove() {
	if err := os.Remove(h.Path); err != nil && !os.IsNotExist(err) {
		h.logger.Warn("failed to remove staged file", "path", h.Path, "error", err)
	}
}

// SanitizeFilename reduces an untrusted filename to a safe basename:
// path components are dropped and anything outside [A-Za-z0-9._-] becomes
// an underscore. An empty result falls back to "upload".
func SanitizeFilename(name string) string {
	// Strip directory components from both path conventions.
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}

	// Leading dots would produce hidden files on unix filesystems.
	cleaned := strings.TrimLeft(b.String(), ".")
	if cleaned == "" {
		return "upload"
	}
	return cleaned
}
