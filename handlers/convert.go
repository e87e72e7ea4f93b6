package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"pdfNormalizer/converter"
	"pdfNormalizer/dto"
	"pdfNormalizer/middleware"
	"pdfNormalizer/storage"
	"pdfNormalizer/validation"
)

// ConvertService runs a staged batch through the conversion pipeline.
type ConvertService interface {
	Convert(ctx context.Context, traceID string, files []storage.StagedFile, dpi int) ([]dto.ConvertedFile, error)
}

type ConvertHandler struct {
	service ConvertService
	store   *storage.Store
	logger  *zap.Logger
}

func NewConvertHandler(service ConvertService, store *storage.Store, logger *zap.Logger) *ConvertHandler {
	return &ConvertHandler{
		service: service,
		store:   store,
		logger:  logger,
	}
}

// Convert handles POST /convert: validates the DPI parameter and every
// file part before anything runs, stages accepted files, then hands the
// batch to the service. A rejected request leaves nothing staged.
func (h *ConvertHandler) Convert(w http.ResponseWriter, r *http.Request) {
	traceID := middleware.GetTraceID(r.Context())

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		h.handleError(w, "Failed to parse form", err, traceID, http.StatusBadRequest)
		return
	}

	dpi, err := parseDPI(r.FormValue("dpi"))
	if err != nil {
		h.handleError(w, "DPI must be an integer between 72 and 2400", err, traceID, http.StatusBadRequest)
		return
	}

	var headers []*multipart.FileHeader
	if r.MultipartForm != nil {
		headers = r.MultipartForm.File["files"]
	}
	if len(headers) == 0 {
		h.handleError(w, "No files uploaded", dto.ErrNoFiles, traceID, http.StatusBadRequest)
		return
	}

	staged, err := h.stageAll(headers)
	if err != nil {
		if isValidationError(err) {
			h.handleError(w, "Invalid file: "+err.Error(), err, traceID, http.StatusBadRequest)
		} else {
			h.handleError(w, "Failed to save file", err, traceID, http.StatusInternalServerError)
		}
		return
	}

	results, err := h.service.Convert(r.Context(), traceID, staged, dpi)
	if err != nil {
		h.handleError(w, "Conversion failed", err, traceID, http.StatusInternalServerError)
		return
	}

	h.logger.Info("Batch converted",
		zap.String("trace_id", traceID),
		zap.Int("files", len(results)),
		zap.Int("dpi", dpi),
	)

	h.respondJSON(w, http.StatusOK, dto.ConvertResponse{
		Message: "Files converted successfully",
		Files:   results,
	})
}

// Download handles GET /output/: streams a converted file by its token
// name; anything absent or not a plain filename is a 404.
func (h *ConvertHandler) Download(w http.ResponseWriter, r *http.Request) {
	traceID := middleware.GetTraceID(r.Context())

	name := strings.TrimPrefix(r.URL.Path, "/output/")

	file, info, err := h.store.OpenOutput(name)
	if err != nil {
		if errors.Is(err, storage.ErrOutputNotFound) {
			h.handleError(w, "File not found", err, traceID, http.StatusNotFound)
			return
		}
		h.handleError(w, "Failed to open file", err, traceID, http.StatusInternalServerError)
		return
	}
	defer file.Close()

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	http.ServeContent(w, r, name, info.ModTime(), file)
}

// stageAll validates and stages every part; on any failure the files
// staged so far are discarded so a rejected batch leaves no residue.
func (h *ConvertHandler) stageAll(headers []*multipart.FileHeader) ([]storage.StagedFile, error) {
	staged := make([]storage.StagedFile, 0, len(headers))

	discard := func() {
		for _, f := range staged {
			h.store.Discard(f.Path)
		}
	}

	for _, header := range headers {
		file, err := header.Open()
		if err != nil {
			discard()
			return nil, err
		}

		if err := validation.CheckPDF(header, file); err != nil {
			file.Close()
			discard()
			return nil, err
		}

		sf, err := h.store.Stage(file, header.Filename)
		file.Close()
		if err != nil {
			discard()
			return nil, err
		}

		staged = append(staged, sf)
	}

	return staged, nil
}

func parseDPI(raw string) (int, error) {
	if raw == "" {
		return converter.DefaultDPI, nil
	}

	dpi, err := strconv.Atoi(raw)
	if err != nil {
		return converter.DefaultDPI, nil
	}

	if dpi < converter.MinDPI || dpi > converter.MaxDPI {
		return 0, dto.ErrInvalidDPI
	}

	return dpi, nil
}

func isValidationError(err error) bool {
	return errors.Is(err, validation.ErrNotPDF) ||
		errors.Is(err, validation.ErrFileTooLarge) ||
		errors.Is(err, validation.ErrContentMismatch)
}

func (h *ConvertHandler) handleError(w http.ResponseWriter, message string, err error, traceID string, status int) {
	h.logger.Error(message,
		zap.String("trace_id", traceID),
		zap.Error(err),
	)

	resp := dto.ErrorResponse{
		Error:   message,
		TraceID: traceID,
	}
	if status == http.StatusInternalServerError && err != nil {
		resp.Details = err.Error()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}

func (h *ConvertHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
