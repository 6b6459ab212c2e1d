package httpapi

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"

	jsoniter "github.com/json-iterator/go"

	"github.com/riskibarqy/match-forecast/internal/usecase"
)

const (
	maxJobBodyBytes  = 1 << 16
	defaultWarmLimit = 50
)

type warmPredictionsRequest struct {
	Limit int `json:"limit" validate:"required,min=1,max=500"`
}

func (h *Handler) RunSyncHistoryJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSyncHistoryJob")
	defer span.End()

	if h.historySyncService == nil {
		writeError(ctx, w, fmt.Errorf("%w: history sync is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	summary, err := h.historySyncService.Sync(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "run history sync job failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, toHistorySyncDTO(summary))
}

func (h *Handler) RunSyncFixturesJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSyncFixturesJob")
	defer span.End()

	if h.fixtureSyncService == nil {
		writeError(ctx, w, fmt.Errorf("%w: fixture sync is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	summary, err := h.fixtureSyncService.Sync(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "run fixture sync job failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, fixtureSyncDTO{
		Upcoming:  summary.Upcoming,
		Results:   summary.Results,
		Inserted:  summary.Inserted,
		Updated:   summary.Updated,
		Skipped:   summary.Skipped,
		Annotated: summary.Annotated,
	})
}

func (h *Handler) RunWarmPredictionsJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunWarmPredictionsJob")
	defer span.End()

	if h.predictionService == nil {
		writeError(ctx, w, fmt.Errorf("%w: prediction service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	req, err := decodeWarmPredictionsRequest(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	summary, err := h.predictionService.WarmUpcoming(ctx, req.Limit)
	if err != nil {
		h.logger.WarnContext(ctx, "run warm predictions job failed", "limit", req.Limit, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, warmUpDTO{
		Fixtures: summary.Fixtures,
		Created:  summary.Created,
		Existing: summary.Existing,
		Failed:   summary.Failed,
	})
}

func decodeWarmPredictionsRequest(r *http.Request) (warmPredictionsRequest, error) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxJobBodyBytes))
	if err != nil {
		if errors.Is(err, io.EOF) {
			return warmPredictionsRequest{Limit: defaultWarmLimit}, nil
		}
		return warmPredictionsRequest{}, fmt.Errorf("%w: read payload: %v", usecase.ErrInvalidInput, err)
	}
	if len(raw) == 0 {
		return warmPredictionsRequest{Limit: defaultWarmLimit}, nil
	}

	var req warmPredictionsRequest
	decoder := jsoniter.NewDecoder(bytes.NewReader(raw))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		return warmPredictionsRequest{}, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return req, nil
}
