package postgres

import "time"

type readoutSnapshotTableModel struct {
	ID        int64     `db:"id"`
	PublicID  string    `db:"public_id"`
	League    string    `db:"league"`
	Scope     string    `db:"scope"`
	Games     []byte    `db:"games"`
	FetchedAt time.Time `db:"fetched_at"`
	CreatedAt time.Time `db:"created_at"`
}

type readoutSnapshotInsertModel struct {
	PublicID  string    `db:"public_id"`
	League    string    `db:"league"`
	Scope     string    `db:"scope"`
	Games     []byte    `db:"games"`
	FetchedAt time.Time `db:"fetched_at"`
}
