package validation

import (
	"bytes"
	"io"
	"mime"
	"mime/multipart"
)

const (
	// MaxFileSize is the per-file upload ceiling.
	MaxFileSize = 50 * 1024 * 1024

	pdfMIMEType = "application/pdf"
)

// %PDF
var pdfMagic = []byte{0x25, 0x50, 0x44, 0x46}

// CheckPDF validates a single uploaded part: size ceiling, declared MIME
// type, and a magic-byte sniff of the content. The file's read offset is
// restored to the start before returning.
func CheckPDF(header *multipart.FileHeader, file multipart.File) error {
	if header.Size > MaxFileSize {
		return ErrFileTooLarge
	}

	declared := header.Header.Get("Content-Type")
	mediaType, _, err := mime.ParseMediaType(declared)
	if err != nil || mediaType != pdfMIMEType {
		return ErrNotPDF
	}

	return sniffPDF(file)
}

func sniffPDF(file multipart.File) error {
	buffer := make([]byte, 512)
	n, err := file.Read(buffer)
	if err != nil && err != io.EOF {
		return err
	}

	if _, err := file.Seek(0, 0); err != nil {
		return err
	}

	if !bytes.HasPrefix(buffer[:n], pdfMagic) {
		return ErrContentMismatch
	}

	return nil
}
