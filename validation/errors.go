package validation

import "errors"

var (
	ErrNotPDF          = errors.New("only PDF files are accepted")
	ErrFileTooLarge    = errors.New("file size exceeds 50MB limit")
	ErrContentMismatch = errors.New("file content is not a valid PDF")
)
