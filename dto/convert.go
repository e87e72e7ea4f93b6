package dto

import "errors"

var (
	ErrNoFiles    = errors.New("no files uploaded")
	ErrInvalidDPI = errors.New("dpi must be an integer between 72 and 2400")
)

type ConvertedFile struct {
	OriginalName string `json:"originalName"`
	Name         string `json:"name"`
	URL          string `json:"url"`
	DPI          int    `json:"dpi"`
}

type ConvertResponse struct {
	Message string          `json:"message"`
	Files   []ConvertedFile `json:"files"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
	TraceID string `json:"trace_id,omitempty"`
}
