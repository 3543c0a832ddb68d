package mirror

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/de-tools/pulse-atlas/pkg/models/api"
	"github.com/de-tools/pulse-atlas/pkg/models/domain"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var startedAt = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

type mockSyncer struct {
	mock.Mock
}

func (m *mockSyncer) Sync(ctx context.Context) (*domain.SyncRun, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SyncRun), args.Error(1)
}

func (m *mockSyncer) History(ctx context.Context, limit int) ([]domain.SyncRun, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SyncRun), args.Error(1)
}

func setupRouter(h *Handler) *chi.Mux {
	router := chi.NewRouter()
	router.Post("/sync", h.Sync)
	router.Get("/sync/runs", h.ListRuns)
	return router
}

func partialRun() *domain.SyncRun {
	return &domain.SyncRun{
		Source:     "pocketbase",
		Status:     domain.SyncStatusPartial,
		StartedAt:  startedAt,
		FinishedAt: startedAt.Add(time.Second),
		Documents:  map[domain.Collection]int{domain.CollectionUsers: 3},
		Errors:     map[domain.Collection]string{domain.CollectionSessions: "forbidden"},
	}
}

func TestHandler_Sync(t *testing.T) {
	t.Run("runs hook", func(t *testing.T) {
		syncer := &mockSyncer{}
		syncer.On("Sync", mock.Anything).Return(partialRun(), nil)

		var hooked *domain.SyncRun
		h := NewHandler(syncer, func(_ context.Context, run *domain.SyncRun) { hooked = run })

		rec := httptest.NewRecorder()
		setupRouter(h).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/sync", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		var resp api.SyncRun
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "partial", resp.Status)
		assert.Equal(t, map[string]int{"users": 3}, resp.Documents)
		assert.Equal(t, map[string]string{"sessions": "forbidden"}, resp.Errors)
		require.NotNil(t, hooked)
		assert.Equal(t, domain.SyncStatusPartial, hooked.Status)
	})

	t.Run("failed", func(t *testing.T) {
		syncer := &mockSyncer{}
		syncer.On("Sync", mock.Anything).Return(&domain.SyncRun{Status: domain.SyncStatusFailed}, errors.New("every collection failed"))

		called := false
		h := NewHandler(syncer, func(context.Context, *domain.SyncRun) { called = true })

		rec := httptest.NewRecorder()
		setupRouter(h).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/sync", nil))

		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.False(t, called)
	})
}

func TestHandler_ListRuns(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		setupMock      func(*mockSyncer)
		expectedStatus int
		expectedRuns   int
	}{
		{
			name:  "default limit",
			query: "",
			setupMock: func(m *mockSyncer) {
				m.On("History", mock.Anything, defaultHistoryLimit).Return([]domain.SyncRun{*partialRun()}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedRuns:   1,
		},
		{
			name:  "explicit limit",
			query: "?limit=5",
			setupMock: func(m *mockSyncer) {
				m.On("History", mock.Anything, 5).Return([]domain.SyncRun{}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "invalid limit",
			query:          "?limit=-1",
			setupMock:      func(m *mockSyncer) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:  "store failure",
			query: "",
			setupMock: func(m *mockSyncer) {
				m.On("History", mock.Anything, defaultHistoryLimit).Return(nil, errors.New("db closed"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			syncer := &mockSyncer{}
			tt.setupMock(syncer)

			rec := httptest.NewRecorder()
			setupRouter(NewHandler(syncer, nil)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sync/runs"+tt.query, nil))

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedStatus == http.StatusOK {
				var resp []api.SyncRun
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.Len(t, resp, tt.expectedRuns)
			}
			syncer.AssertExpectations(t)
		})
	}
}
