package models

import (
	"time"
)

type ConversionStatus string

const (
	StatusPending   ConversionStatus = "pending"
	StatusCompleted ConversionStatus = "completed"
	StatusFailed    ConversionStatus = "failed"
)

type Conversion struct {
	ID               string
	TraceID          string
	OriginalFilename string
	OutputName       string
	DPI              int
	Status           ConversionStatus
	ErrorMessage     string
	CreatedAt        time.Time
	UpdatedAt        time.Time
	CompletedAt      *time.Time
}
