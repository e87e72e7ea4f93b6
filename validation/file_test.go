package validation

import (
	"errors"
	"io"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"testing"
)

func createPartFile(t *testing.T, content []byte) *os.File {
	t.Helper()

	path := filepath.Join(t.TempDir(), "part")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("Failed to write part file: %v", err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("Failed to open part file: %v", err)
	}
	t.Cleanup(func() { file.Close() })

	return file
}

func pdfHeader(filename, contentType string, size int64) *multipart.FileHeader {
	return &multipart.FileHeader{
		Filename: filename,
		Size:     size,
		Header: textproto.MIMEHeader{
			"Content-Type": []string{contentType},
		},
	}
}

func TestCheckPDF_Valid(t *testing.T) {
	content := []byte("%PDF-1.4\n1 0 obj\nendobj\n")
	file := createPartFile(t, content)
	header := pdfHeader("doc.pdf", "application/pdf", int64(len(content)))

	if err := CheckPDF(header, file); err != nil {
		t.Fatalf("CheckPDF failed: %v", err)
	}

	// read offset must be restored for staging
	rest, err := io.ReadAll(file)
	if err != nil {
		t.Fatalf("Failed to re-read file: %v", err)
	}
	if len(rest) != len(content) {
		t.Errorf("Expected offset reset to 0, re-read %d of %d bytes", len(rest), len(content))
	}
}

func TestCheckPDF_RejectsDeclaredType(t *testing.T) {
	content := []byte("%PDF-1.4\n")
	file := createPartFile(t, content)
	header := pdfHeader("image.png", "image/png", int64(len(content)))

	err := CheckPDF(header, file)
	if !errors.Is(err, ErrNotPDF) {
		t.Errorf("Expected ErrNotPDF, got %v", err)
	}
}

func TestCheckPDF_RejectsMissingContentType(t *testing.T) {
	content := []byte("%PDF-1.4\n")
	file := createPartFile(t, content)
	header := &multipart.FileHeader{
		Filename: "doc.pdf",
		Size:     int64(len(content)),
		Header:   textproto.MIMEHeader{},
	}

	err := CheckPDF(header, file)
	if !errors.Is(err, ErrNotPDF) {
		t.Errorf("Expected ErrNotPDF, got %v", err)
	}
}

func TestCheckPDF_RejectsSpoofedContent(t *testing.T) {
	// PNG magic behind an application/pdf declaration
	content := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
	file := createPartFile(t, content)
	header := pdfHeader("doc.pdf", "application/pdf", int64(len(content)))

	err := CheckPDF(header, file)
	if !errors.Is(err, ErrContentMismatch) {
		t.Errorf("Expected ErrContentMismatch, got %v", err)
	}
}

func TestCheckPDF_RejectsOversized(t *testing.T) {
	content := []byte("%PDF-1.4\n")
	file := createPartFile(t, content)
	header := pdfHeader("doc.pdf", "application/pdf", MaxFileSize+1)

	err := CheckPDF(header, file)
	if !errors.Is(err, ErrFileTooLarge) {
		t.Errorf("Expected ErrFileTooLarge, got %v", err)
	}
}
