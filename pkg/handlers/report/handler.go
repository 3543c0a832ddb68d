package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/de-tools/pulse-atlas/pkg/adapters"
	"github.com/de-tools/pulse-atlas/pkg/handlers"
	"github.com/de-tools/pulse-atlas/pkg/models/api"
	"github.com/de-tools/pulse-atlas/pkg/models/domain"
	"github.com/de-tools/pulse-atlas/pkg/services/report"
	"github.com/de-tools/pulse-atlas/pkg/store/artifacts"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Service is the report builder as seen by the HTTP layer
type Service interface {
	Templates() []domain.ReportTemplate
	Generate(ctx context.Context, templateName string, opts report.GenerateOptions) (*domain.Report, error)
	Get(id string) (*domain.Report, bool)
	GetAll() []*domain.Report
	Delete(id string)
	Export(id string, format domain.ExportFormat) (*domain.Artifact, error)
	ScheduleReport(templateName, frequency string, opts report.GenerateOptions) domain.Schedule
}

type Handler struct {
	service Service
	sink    artifacts.Sink
}

// NewHandler creates the report handler. sink may be nil, in which case
// artifacts can only be downloaded.
func NewHandler(service Service, sink artifacts.Sink) *Handler {
	return &Handler{
		service: service,
		sink:    sink,
	}
}

func (h *Handler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	templates := h.service.Templates()
	resp := make([]api.Template, 0, len(templates))
	for _, t := range templates {
		resp = append(resp, adapters.MapTemplateDomainToApi(t))
	}
	handlers.JSON(w, r, http.StatusOK, resp)
}

func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var req api.GenerateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.Error(w, r, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	rep, err := h.service.Generate(r.Context(), req.Template, report.GenerateOptions{
		Period:      req.Period,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		GeneratedBy: req.GeneratedBy,
	})
	if err != nil {
		if errors.Is(err, domain.ErrUnknownTemplate) {
			handlers.Error(w, r, http.StatusBadRequest, err)
			return
		}
		handlers.Error(w, r, http.StatusInternalServerError, err)
		return
	}
	handlers.JSON(w, r, http.StatusCreated, rep)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	reports := h.service.GetAll()
	resp := make([]api.ReportListItem, 0, len(reports))
	for _, rep := range reports {
		resp = append(resp, adapters.MapReportDomainToApiListItem(rep))
	}
	handlers.JSON(w, r, http.StatusOK, resp)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rep, ok := h.service.Get(id)
	if !ok {
		handlers.Error(w, r, http.StatusNotFound, fmt.Errorf("%w: %s", domain.ErrReportNotFound, id))
		return
	}
	handlers.JSON(w, r, http.StatusOK, rep)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	h.service.Delete(chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	artifact, ok := h.export(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", artifact.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", artifact.FileName))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifact.Data)
}

// Save exports a report and hands the artifact to the configured sink
func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	if h.sink == nil {
		handlers.Error(w, r, http.StatusNotImplemented, errors.New("no export destination configured"))
		return
	}

	artifact, ok := h.export(w, r)
	if !ok {
		return
	}

	location, err := h.sink.Put(r.Context(), artifact)
	if err != nil {
		handlers.Error(w, r, http.StatusBadGateway, err)
		return
	}
	zerolog.Ctx(r.Context()).Info().
		Str("report", chi.URLParam(r, "id")).
		Str("location", location).
		Msg("report saved")

	handlers.JSON(w, r, http.StatusCreated, api.ArtifactResponse{
		FileName: artifact.FileName,
		Location: location,
	})
}

func (h *Handler) export(w http.ResponseWriter, r *http.Request) (*domain.Artifact, bool) {
	format := domain.ExportJSON
	if f := r.URL.Query().Get("format"); f != "" {
		parsed, err := domain.ParseExportFormat(f)
		if err != nil {
			handlers.Error(w, r, http.StatusBadRequest, err)
			return nil, false
		}
		format = parsed
	}

	artifact, err := h.service.Export(chi.URLParam(r, "id"), format)
	switch {
	case errors.Is(err, domain.ErrReportNotFound):
		handlers.Error(w, r, http.StatusNotFound, err)
		return nil, false
	case errors.Is(err, domain.ErrUnsupportedFormat):
		handlers.Error(w, r, http.StatusBadRequest, err)
		return nil, false
	case err != nil:
		handlers.Error(w, r, http.StatusInternalServerError, err)
		return nil, false
	}
	return artifact, true
}

func (h *Handler) Schedule(w http.ResponseWriter, r *http.Request) {
	var req api.ScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.Error(w, r, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if req.Template == "" {
		handlers.Error(w, r, http.StatusBadRequest, errors.New("template is required"))
		return
	}

	schedule := h.service.ScheduleReport(req.Template, req.Frequency, report.GenerateOptions{
		Period:      req.Options["period"],
		StartDate:   req.Options["startDate"],
		EndDate:     req.Options["endDate"],
		GeneratedBy: req.Options["generatedBy"],
	})
	handlers.JSON(w, r, http.StatusCreated, schedule)
}
