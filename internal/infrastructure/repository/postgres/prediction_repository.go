package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/match-forecast/internal/domain/forecast"
	"github.com/riskibarqy/match-forecast/internal/domain/prediction"
	qb "github.com/riskibarqy/match-forecast/internal/platform/querybuilder"
)

const matchPredictionsTable = "match_predictions"

type PredictionRepository struct {
	db *sqlx.DB
}

func NewPredictionRepository(db *sqlx.DB) *PredictionRepository {
	return &PredictionRepository{db: db}
}

func (r *PredictionRepository) GetByMatchID(ctx context.Context, matchID, modelVersion string) (prediction.Prediction, bool, error) {
	query, args, err := qb.Select("*").From(matchPredictionsTable).
		Where(
			qb.Eq("match_external_id", matchID),
			qb.Eq("model_version", modelVersion),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return prediction.Prediction{}, false, fmt.Errorf("build select prediction by match query: %w", err)
	}

	var row predictionTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return prediction.Prediction{}, false, nil
		}
		return prediction.Prediction{}, false, fmt.Errorf("select prediction by match: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *PredictionRepository) CreateIfAbsent(ctx context.Context, item prediction.Prediction) (prediction.Prediction, bool, error) {
	insertModel, err := newPredictionInsertModel(item)
	if err != nil {
		return prediction.Prediction{}, false, err
	}

	query, args, err := qb.InsertModel(matchPredictionsTable, insertModel, "ON CONFLICT (match_external_id, model_version) DO NOTHING")
	if err != nil {
		return prediction.Prediction{}, false, fmt.Errorf("build insert prediction query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return prediction.Prediction{}, false, fmt.Errorf("insert prediction match=%s: %w", item.MatchID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return prediction.Prediction{}, false, fmt.Errorf("read affected rows prediction match=%s: %w", item.MatchID, err)
	}

	stored, found, err := r.GetByMatchID(ctx, item.MatchID, item.ModelVersion)
	if err != nil {
		return prediction.Prediction{}, false, err
	}
	if !found {
		return prediction.Prediction{}, false, fmt.Errorf("prediction match=%s version=%s missing after insert", item.MatchID, item.ModelVersion)
	}
	return stored, affected > 0, nil
}

func (r *PredictionRepository) Annotate(ctx context.Context, matchID, modelVersion string, actual forecast.Outcome) (prediction.Prediction, bool, error) {
	query, args, err := qb.Update(matchPredictionsTable).
		Set("actual_result", string(actual)).
		SetExpr("is_correct", "(most_likely = ?)", string(actual)).
		SetExpr("annotated_at", "NOW()").
		Where(
			qb.Eq("match_external_id", matchID),
			qb.Eq("model_version", modelVersion),
			qb.IsNull("actual_result"),
		).
		ToSQL()
	if err != nil {
		return prediction.Prediction{}, false, fmt.Errorf("build annotate prediction query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return prediction.Prediction{}, false, fmt.Errorf("annotate prediction match=%s: %w", matchID, err)
	}
	return r.GetByMatchID(ctx, matchID, modelVersion)
}

func (r *PredictionRepository) Accuracy(ctx context.Context, modelVersion string) (prediction.Accuracy, error) {
	query, args, err := qb.Select(
		"COUNT(*) AS annotated",
		"COALESCE(SUM(CASE WHEN is_correct THEN 1 ELSE 0 END), 0) AS correct",
	).From(matchPredictionsTable).
		Where(
			qb.Eq("model_version", modelVersion),
			qb.IsNotNull("actual_result"),
		).
		ToSQL()
	if err != nil {
		return prediction.Accuracy{}, fmt.Errorf("build select prediction accuracy query: %w", err)
	}

	var row predictionAccuracyRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return prediction.Accuracy{}, fmt.Errorf("select prediction accuracy: %w", err)
	}
	return prediction.Accuracy{
		ModelVersion: modelVersion,
		Annotated:    row.Annotated,
		Correct:      row.Correct,
	}, nil
}

func (r *PredictionRepository) ListUnannotated(ctx context.Context, modelVersion string, limit int) ([]string, error) {
	builder := qb.Select("match_external_id").From(matchPredictionsTable).
		Where(
			qb.Eq("model_version", modelVersion),
			qb.IsNull("actual_result"),
		).
		OrderBy("kickoff_at ASC", "match_external_id ASC")
	if limit > 0 {
		builder = builder.Limit(limit)
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select unannotated predictions query: %w", err)
	}

	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query, args...); err != nil {
		return nil, fmt.Errorf("select unannotated predictions: %w", err)
	}
	return ids, nil
}
