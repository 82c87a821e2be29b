package postgres

import (
	"context"
	"fmt"

	sonic "github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"
	"github.com/propdesk/prop-grading/internal/domain/formula"
	"github.com/propdesk/prop-grading/internal/domain/prop"
	qb "github.com/propdesk/prop-grading/internal/platform/querybuilder"
)

type PropRepository struct {
	db *sqlx.DB
}

func NewPropRepository(db *sqlx.DB) *PropRepository {
	return &PropRepository{db: db}
}

func (r *PropRepository) GetByID(ctx context.Context, propID string) (prop.Prop, bool, error) {
	query, args, err := qb.Select("*").From("props").
		Where(
			qb.Eq("public_id", propID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return prop.Prop{}, false, fmt.Errorf("build get prop by id query: %w", err)
	}

	var row propTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return prop.Prop{}, false, nil
		}
		return prop.Prop{}, false, fmt.Errorf("get prop by id: %w", err)
	}

	item, err := propFromRow(row)
	if err != nil {
		return prop.Prop{}, false, err
	}
	return item, true, nil
}

func (r *PropRepository) ListByPack(ctx context.Context, packID string) ([]prop.Prop, error) {
	query, args, err := qb.Select("*").From("props").
		Where(
			qb.Eq("pack_id", packID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list props by pack query: %w", err)
	}

	var rows []propTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list props by pack: %w", err)
	}

	out := make([]prop.Prop, 0, len(rows))
	for _, row := range rows {
		item, err := propFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func (r *PropRepository) UpdateOutcome(ctx context.Context, propID, status, result string) error {
	query, args, err := qb.Update("props").
		Set("status", status).
		Set("result", result).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("public_id", propID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update prop outcome query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update prop outcome: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update prop outcome rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("prop %s not found", propID)
	}
	return nil
}

func propFromRow(row propTableModel) (prop.Prop, error) {
	params := formula.Bag{}
	if len(row.FormulaParams) > 0 {
		if err := sonic.Unmarshal(row.FormulaParams, &params); err != nil {
			return prop.Prop{}, fmt.Errorf("decode formula params for prop %s: %w", row.PublicID, err)
		}
	}

	return prop.Prop{
		ID:            row.PublicID,
		AirtableID:    row.AirtableID,
		PackID:        row.PackID,
		FormulaKey:    row.FormulaKey,
		FormulaParams: params,
		Status:        nullStringToString(row.Status),
		Result:        nullStringToString(row.Result),
		Event: prop.EventLink{
			ESPNGameID:   nullStringToString(row.ESPNGameID),
			League:       nullStringToString(row.League),
			EventTime:    nullTimeToTime(row.EventTime),
			HomeTeamCode: nullStringToString(row.HomeTeamCode),
			AwayTeamCode: nullStringToString(row.AwayTeamCode),
		},
	}, nil
}
