package mirror

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/de-tools/pulse-atlas/pkg/adapters"
	"github.com/de-tools/pulse-atlas/pkg/handlers"
	"github.com/de-tools/pulse-atlas/pkg/models/api"
	"github.com/de-tools/pulse-atlas/pkg/models/domain"
)

const defaultHistoryLimit = 20

type Syncer interface {
	Sync(ctx context.Context) (*domain.SyncRun, error)
	History(ctx context.Context, limit int) ([]domain.SyncRun, error)
}

// SyncHook is called after every sync that stored documents
type SyncHook func(ctx context.Context, run *domain.SyncRun)

type Handler struct {
	syncer Syncer
	onSync SyncHook
}

func NewHandler(syncer Syncer, onSync SyncHook) *Handler {
	return &Handler{
		syncer: syncer,
		onSync: onSync,
	}
}

func (h *Handler) Sync(w http.ResponseWriter, r *http.Request) {
	run, err := h.syncer.Sync(r.Context())
	if err != nil {
		handlers.Error(w, r, http.StatusBadGateway, err)
		return
	}
	if h.onSync != nil {
		h.onSync(r.Context(), run)
	}
	handlers.JSON(w, r, http.StatusOK, adapters.MapSyncRunDomainToApi(*run))
}

func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	limit := defaultHistoryLimit
	if l := r.URL.Query().Get("limit"); l != "" {
		parsed, err := strconv.Atoi(l)
		if err != nil || parsed <= 0 {
			handlers.Error(w, r, http.StatusBadRequest, fmt.Errorf("invalid limit %q", l))
			return
		}
		limit = parsed
	}

	runs, err := h.syncer.History(r.Context(), limit)
	if err != nil {
		handlers.Error(w, r, http.StatusInternalServerError, err)
		return
	}
	resp := make([]api.SyncRun, 0, len(runs))
	for _, run := range runs {
		resp = append(resp, adapters.MapSyncRunDomainToApi(run))
	}
	handlers.JSON(w, r, http.StatusOK, resp)
}
