package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/de-tools/pulse-atlas/pkg/handlers"
	"github.com/de-tools/pulse-atlas/pkg/models/api"
	"github.com/de-tools/pulse-atlas/pkg/models/domain"
	"github.com/de-tools/pulse-atlas/pkg/services/report"
	"github.com/go-chi/chi/v5"
)

// Engine is the part of the metrics engine the handler uses
type Engine interface {
	Snapshot() *domain.Snapshot
	MetricByName(name string) (any, error)
}

// Refresher reloads the collections and recomputes the snapshot
type Refresher func(ctx context.Context) (*domain.Snapshot, error)

type Handler struct {
	engine  Engine
	refresh Refresher
}

func NewHandler(engine Engine, refresh Refresher) *Handler {
	return &Handler{
		engine:  engine,
		refresh: refresh,
	}
}

func (h *Handler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	handlers.JSON(w, r, http.StatusOK, h.engine.Snapshot())
}

func (h *Handler) GetMetric(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "domain")

	metric, err := h.engine.MetricByName(name)
	if err != nil {
		handlers.Error(w, r, http.StatusNotFound, err)
		return
	}
	if metric == nil {
		handlers.Error(w, r, http.StatusNotFound, fmt.Errorf("metrics for %s have not been computed", name))
		return
	}
	handlers.JSON(w, r, http.StatusOK, metric)
}

func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.refresh(r.Context())

	var warnings []string
	if err != nil {
		var sourceErr *domain.DataSourceError
		if !errors.As(err, &sourceErr) {
			handlers.Error(w, r, http.StatusInternalServerError, err)
			return
		}
		warnings = flatten(err)
	}

	handlers.JSON(w, r, http.StatusOK, api.RefreshResponse{
		Snapshot: snapshot,
		Warnings: warnings,
	})
}

func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	format := domain.ExportJSON
	if f := r.URL.Query().Get("format"); f != "" {
		parsed, err := domain.ParseExportFormat(f)
		if err != nil {
			handlers.Error(w, r, http.StatusBadRequest, err)
			return
		}
		format = parsed
	}

	data, err := report.ExportMetrics(h.engine.Snapshot(), format)
	if err != nil {
		if errors.Is(err, domain.ErrUnsupportedFormat) {
			handlers.Error(w, r, http.StatusBadRequest, err)
			return
		}
		handlers.Error(w, r, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", contentType(format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func contentType(format domain.ExportFormat) string {
	switch format {
	case domain.ExportCSV:
		return "text/csv"
	case domain.ExportYAML:
		return "application/yaml"
	default:
		return "application/json"
	}
}

// flatten lists the messages of a possibly joined error
func flatten(err error) []string {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var messages []string
		for _, e := range joined.Unwrap() {
			messages = append(messages, flatten(e)...)
		}
		return messages
	}
	return []string{err.Error()}
}
