package postgres

import (
	"database/sql"
	"time"
)

type propTableModel struct {
	ID            int64          `db:"id"`
	PublicID      string         `db:"public_id"`
	AirtableID    string         `db:"airtable_id"`
	PackID        string         `db:"pack_id"`
	FormulaKey    string         `db:"formula_key"`
	FormulaParams []byte         `db:"formula_params"`
	Status        sql.NullString `db:"status"`
	Result        sql.NullString `db:"result"`
	ESPNGameID    sql.NullString `db:"espn_game_id"`
	League        sql.NullString `db:"league"`
	EventTime     sql.NullTime   `db:"event_time"`
	HomeTeamCode  sql.NullString `db:"home_team_code"`
	AwayTeamCode  sql.NullString `db:"away_team_code"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
	DeletedAt     *time.Time     `db:"deleted_at"`
}

func nullStringToString(v sql.NullString) string {
	if !v.Valid {
		return ""
	}
	return v.String
}

func nullTimeToTime(v sql.NullTime) time.Time {
	if !v.Valid {
		return time.Time{}
	}
	return v.Time
}
