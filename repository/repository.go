package repository

import (
	"context"
	"errors"

	"pdfNormalizer/models"
)

var ErrConversionNotFound = errors.New("conversion not found")

// Repository persists the audit trail of conversion attempts.
type Repository interface {
	CreateConversion(ctx context.Context, conv *models.Conversion) error
	UpdateConversionStatus(ctx context.Context, id string, status models.ConversionStatus, errorMessage string) error
}
