package storage

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

var ErrOutputNotFound = errors.New("output file not found")

// StagedFile is an uploaded file written to the holding area under a
// random name. It belongs to exactly one conversion request and is removed
// once that request finishes with it.
type StagedFile struct {
	OriginalName string
	Path         string
	Size         int64
}

// Store owns the uploads and output directories.
type Store struct {
	uploadDir string
	outputDir string
	logger    *zap.Logger
}

func New(uploadDir, outputDir string, logger *zap.Logger) (*Store, error) {
	for _, dir := range []string{uploadDir, outputDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create %s: %w", dir, err)
		}
	}

	return &Store{
		uploadDir: uploadDir,
		outputDir: outputDir,
		logger:    logger,
	}, nil
}

// NewToken returns a 16-byte cryptographically random hex token used for
// staged-file, script, and output naming. Tokens are unguessable and
// collision-resistant; collisions are not defended against.
func NewToken() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms
		panic(fmt.Sprintf("storage: read random: %v", err))
	}
	return hex.EncodeToString(buf)
}

// Stage copies an uploaded part into the holding area under a fresh random
// name, keeping only the caller-supplied extension.
func (s *Store) Stage(src multipart.File, originalName string) (StagedFile, error) {
	name := NewToken() + strings.ToLower(filepath.Ext(filepath.Base(originalName)))
	path := filepath.Join(s.uploadDir, name)

	dst, err := os.Create(path)
	if err != nil {
		return StagedFile{}, fmt.Errorf("create staged file: %w", err)
	}

	written, err := io.Copy(dst, src)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		s.Discard(path)
		return StagedFile{}, fmt.Errorf("write staged file: %w", err)
	}

	return StagedFile{
		OriginalName: originalName,
		Path:         path,
		Size:         written,
	}, nil
}

// ScriptPath returns the attempt-unique override-script location for a
// conversion token. Scripts share the holding area with staged inputs.
func (s *Store) ScriptPath(token string) string {
	return filepath.Join(s.uploadDir, token+".ps")
}

// OutputPath returns the on-disk location for a converted output name.
func (s *Store) OutputPath(name string) string {
	return filepath.Join(s.outputDir, name)
}

// Discard removes a temporary file. Failures are logged and swallowed so
// cleanup never masks the primary result.
func (s *Store) Discard(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		s.logger.Warn("Failed to remove temp file",
			zap.String("path", path),
			zap.Error(err),
		)
	}
}

// OpenOutput opens a converted output for streaming. Names with path
// separators or traversal elements are treated as absent.
func (s *Store) OpenOutput(name string) (*os.File, os.FileInfo, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return nil, nil, ErrOutputNotFound
	}

	file, err := os.Open(s.OutputPath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, ErrOutputNotFound
		}
		return nil, nil, err
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, nil, err
	}

	return file, info, nil
}
