package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vanshika/creditlens/backend/internal/repository"
	"github.com/vanshika/creditlens/backend/internal/service"
)

const (
	uploadField = "file"
	// multipartOverhead is allowed on top of the document limit for boundaries and headers.
	multipartOverhead = 1 << 20
)

// APIHandlers exposes HTTP handlers for the REST API.
type APIHandlers struct {
	logger  *slog.Logger
	service *service.ReportService
}

// NewAPIHandlers constructs an APIHandlers instance.
func NewAPIHandlers(logger *slog.Logger, svc *service.ReportService) *APIHandlers {
	return &APIHandlers{
		logger:  logger,
		service: svc,
	}
}

type uploadResponse struct {
	Message  string `json:"message"`
	ReportID string `json:"reportId"`
}

func (h *APIHandlers) handleUpload(w http.ResponseWriter, r *http.Request) {
	maxBytes := h.service.MaxBytes()
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+multipartOverhead)

	if err := r.ParseMultipartForm(maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			writeError(w, http.StatusRequestEntityTooLarge, service.ErrFileTooLarge.Error())
		case errors.Is(err, http.ErrNotMultipart), errors.Is(err, http.ErrMissingBoundary):
			writeError(w, http.StatusBadRequest, service.ErrNoFile.Error())
		default:
			writeError(w, http.StatusBadRequest, "invalid multipart form")
		}
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile(uploadField)
	if err != nil {
		writeError(w, http.StatusBadRequest, service.ErrNoFile.Error())
		return
	}
	defer file.Close()

	stored, err := h.service.Upload(r.Context(), header.Filename, file)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnsupportedFileType),
			errors.Is(err, service.ErrNoFile),
			errors.Is(err, service.ErrInvalidReport):
			h.logger.Warn("upload rejected", "file", header.Filename, "error", err)
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrFileTooLarge):
			writeError(w, http.StatusRequestEntityTooLarge, err.Error())
		default:
			h.logger.Error("failed to store report", "file", header.Filename, "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to process XML file")
		}
		return
	}

	h.logger.Info("report uploaded",
		"reportId", stored.ID,
		"file", header.Filename,
		"accounts", len(stored.CreditAccounts),
	)
	respondJSON(w, http.StatusOK, uploadResponse{
		Message:  "File uploaded and processed successfully",
		ReportID: stored.ID,
	})
}

func (h *APIHandlers) handleListReports(w http.ResponseWriter, r *http.Request) {
	reports, err := h.service.ListReports(r.Context())
	if err != nil {
		h.logger.Error("failed to list reports", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to retrieve reports")
		return
	}
	respondJSON(w, http.StatusOK, reports)
}

func (h *APIHandlers) handleGetReport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	report, err := h.service.GetReport(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrReportNotFound) || errors.Is(err, service.ErrMissingReportID) {
			writeError(w, http.StatusNotFound, "Report not found")
			return
		}
		h.logger.Error("failed to fetch report", "error", err, "reportId", id)
		writeError(w, http.StatusInternalServerError, "Failed to retrieve report")
		return
	}
	respondJSON(w, http.StatusOK, report)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{
		"message": msg,
	})
}
