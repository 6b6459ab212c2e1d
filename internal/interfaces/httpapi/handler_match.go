package httpapi

import (
	"fmt"
	"net/http"

	"github.com/riskibarqy/match-forecast/internal/usecase"
)

func (h *Handler) ListUpcomingMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListUpcomingMatches")
	defer span.End()

	if h.matchService == nil {
		writeError(ctx, w, fmt.Errorf("%w: match service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	limit, err := parseLimit(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.matchService.ListUpcoming(ctx, limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "list upcoming matches failed", "limit", limit, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, toMatchDTOs(items))
}

func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatch")
	defer span.End()

	if h.matchService == nil {
		writeError(ctx, w, fmt.Errorf("%w: match service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	matchID := r.PathValue("matchID")
	item, err := h.matchService.Get(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "get match failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, toMatchDTO(item))
}

func (h *Handler) GetMatchPrediction(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatchPrediction")
	defer span.End()

	if h.predictionService == nil {
		writeError(ctx, w, fmt.Errorf("%w: prediction service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	matchID := r.PathValue("matchID")
	item, err := h.predictionService.Predict(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "predict match failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, toPredictionDTO(item))
}

func (h *Handler) GetPredictionAccuracy(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPredictionAccuracy")
	defer span.End()

	if h.predictionService == nil {
		writeError(ctx, w, fmt.Errorf("%w: prediction service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	acc, err := h.predictionService.Accuracy(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "get prediction accuracy failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, toAccuracyDTO(acc))
}
