package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"pdfNormalizer/cache"
	"pdfNormalizer/converter"
	"pdfNormalizer/dto"
	"pdfNormalizer/kafka"
	"pdfNormalizer/models"
	"pdfNormalizer/repository"
	"pdfNormalizer/storage"
)

// FileConverter runs a single conversion attempt.
type FileConverter interface {
	ConvertFile(ctx context.Context, file storage.StagedFile, token string, dpi int) (converter.Result, error)
}

// ConvertService orchestrates one batch: files are processed strictly in
// order, one engine invocation at a time, and the first failure aborts the
// rest of the batch. Audit records, the status cache, and conversion
// events are best-effort side channels; their outages never change the
// outcome of a request.
type ConvertService struct {
	converter FileConverter
	store     *storage.Store
	repo      repository.Repository
	cache     *cache.StatusCache
	producer  kafka.Producer
	topic     string
	logger    *zap.Logger
}

func NewConvertService(
	conv FileConverter,
	store *storage.Store,
	repo repository.Repository,
	statusCache *cache.StatusCache,
	producer kafka.Producer,
	topic string,
	logger *zap.Logger,
) *ConvertService {
	return &ConvertService{
		converter: conv,
		store:     store,
		repo:      repo,
		cache:     statusCache,
		producer:  producer,
		topic:     topic,
		logger:    logger,
	}
}

// Convert processes the staged batch sequentially. On the first failure the
// remaining staged inputs are discarded and a single error is returned;
// outputs already produced stay on disk but are not referenced in the
// response.
func (s *ConvertService) Convert(ctx context.Context, traceID string, files []storage.StagedFile, dpi int) ([]dto.ConvertedFile, error) {
	results := make([]dto.ConvertedFile, 0, len(files))

	for i, file := range files {
		token := storage.NewToken()

		conv := &models.Conversion{
			TraceID:          traceID,
			OriginalFilename: file.OriginalName,
			OutputName:       token + ".pdf",
			DPI:              dpi,
			Status:           models.StatusPending,
		}
		s.recordCreate(ctx, conv)

		res, err := s.converter.ConvertFile(ctx, file, token, dpi)
		if err != nil {
			s.recordStatus(ctx, conv, models.StatusFailed, err.Error())
			s.publishEvent(ctx, traceID, conv, models.StatusFailed, err.Error())

			for _, rest := range files[i+1:] {
				s.store.Discard(rest.Path)
			}

			return nil, err
		}

		s.recordStatus(ctx, conv, models.StatusCompleted, "")
		s.publishEvent(ctx, traceID, conv, models.StatusCompleted, "")

		results = append(results, dto.ConvertedFile{
			OriginalName: res.OriginalName,
			Name:         res.OutputName,
			URL:          "/output/" + res.OutputName,
			DPI:          res.DPI,
		})
	}

	return results, nil
}

func (s *ConvertService) recordCreate(ctx context.Context, conv *models.Conversion) {
	if s.repo == nil {
		return
	}
	if err := s.repo.CreateConversion(ctx, conv); err != nil {
		s.logger.Warn("Failed to record conversion",
			zap.String("trace_id", conv.TraceID),
			zap.String("output", conv.OutputName),
			zap.Error(err),
		)
	}
}

func (s *ConvertService) recordStatus(ctx context.Context, conv *models.Conversion, status models.ConversionStatus, errMsg string) {
	if s.repo != nil && conv.ID != "" {
		if err := s.repo.UpdateConversionStatus(ctx, conv.ID, status, errMsg); err != nil {
			s.logger.Warn("Failed to update conversion record",
				zap.String("conversion_id", conv.ID),
				zap.Error(err),
			)
		}
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, conv.OutputName, status); err != nil {
			s.logger.Warn("Failed to cache conversion status",
				zap.String("output", conv.OutputName),
				zap.Error(err),
			)
		}
	}
}

func (s *ConvertService) publishEvent(ctx context.Context, traceID string, conv *models.Conversion, status models.ConversionStatus, errMsg string) {
	if s.producer == nil {
		return
	}

	event := &kafka.ConversionEvent{
		TraceID:      traceID,
		OriginalName: conv.OriginalFilename,
		OutputName:   conv.OutputName,
		DPI:          conv.DPI,
		Status:       string(status),
		Error:        errMsg,
		OccurredAt:   time.Now().UTC().Format(time.RFC3339),
	}

	if err := s.producer.SendConversionEvent(ctx, s.topic, event); err != nil {
		s.logger.Warn("Failed to publish conversion event",
			zap.String("trace_id", traceID),
			zap.String("output", conv.OutputName),
			zap.Error(err),
		)
	}
}
