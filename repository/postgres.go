package repository

import (
	"context"

	"pdfNormalizer/database"
	"pdfNormalizer/models"
)

type PostgresRepo struct {
	db *database.DB
}

func NewPostgresRepo(db *database.DB) Repository {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) CreateConversion(ctx context.Context, conv *models.Conversion) error {
	query := `
		INSERT INTO conversions (trace_id, original_filename, output_name, dpi, status, error_message)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		conv.TraceID,
		conv.OriginalFilename,
		conv.OutputName,
		conv.DPI,
		conv.Status,
		conv.ErrorMessage,
	).Scan(&conv.ID, &conv.CreatedAt, &conv.UpdatedAt)

	return err
}

func (r *PostgresRepo) UpdateConversionStatus(ctx context.Context, id string, status models.ConversionStatus, errorMessage string) error {
	query := `
		UPDATE conversions
		SET status = $1, error_message = $2, updated_at = NOW()
	`

	if status == models.StatusCompleted || status == models.StatusFailed {
		query += `, completed_at = NOW()`
	}

	query += ` WHERE id = $3`

	result, err := r.db.Pool.Exec(ctx, query, status, errorMessage, id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return ErrConversionNotFound
	}

	return nil
}
