package postgres

import (
	"context"
	"fmt"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"
	"github.com/propdesk/prop-grading/internal/domain/readout"
	qb "github.com/propdesk/prop-grading/internal/platform/querybuilder"
)

type ReadoutRepository struct {
	db *sqlx.DB
}

func NewReadoutRepository(db *sqlx.DB) *ReadoutRepository {
	return &ReadoutRepository{db: db}
}

func (r *ReadoutRepository) Save(ctx context.Context, snapshot readout.Snapshot) error {
	games, err := sonic.Marshal(snapshot.Games)
	if err != nil {
		return fmt.Errorf("encode readout games: %w", err)
	}

	fetchedAt := snapshot.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = time.Now().UTC()
	}

	query, args, err := qb.InsertModel("readout_snapshots", readoutSnapshotInsertModel{
		PublicID:  snapshot.ID,
		League:    snapshot.League,
		Scope:     snapshot.Scope,
		Games:     games,
		FetchedAt: fetchedAt,
	}, "")
	if err != nil {
		return fmt.Errorf("build insert readout snapshot query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert readout snapshot: %w", err)
	}
	return nil
}

func (r *ReadoutRepository) LatestByScope(ctx context.Context, league, scope string) (readout.Snapshot, bool, error) {
	query, args, err := qb.Select("*").From("readout_snapshots").
		Where(
			qb.Eq("league", league),
			qb.Eq("scope", scope),
		).
		OrderBy("fetched_at DESC", "id DESC").
		Limit(1).
		ToSQL()
	if err != nil {
		return readout.Snapshot{}, false, fmt.Errorf("build latest readout snapshot query: %w", err)
	}

	var row readoutSnapshotTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return readout.Snapshot{}, false, nil
		}
		return readout.Snapshot{}, false, fmt.Errorf("get latest readout snapshot: %w", err)
	}

	var games []readout.Game
	if len(row.Games) > 0 {
		if err := sonic.Unmarshal(row.Games, &games); err != nil {
			return readout.Snapshot{}, false, fmt.Errorf("decode readout games for snapshot %s: %w", row.PublicID, err)
		}
	}

	return readout.Snapshot{
		ID:        row.PublicID,
		League:    row.League,
		Scope:     row.Scope,
		Games:     games,
		FetchedAt: row.FetchedAt,
	}, true, nil
}
