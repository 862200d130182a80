package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/coworkhub/space-reservation/internal/model"
)

// OccupancyRepo reads the occupancy log written by check-in and
// check-out.  Rows are append-only; the engine writes them inside the
// same transaction as the status change.
type OccupancyRepo struct {
	db *sql.DB
}

// NewOccupancyRepo returns a new OccupancyRepo bound to the given database.
func NewOccupancyRepo(db *sql.DB) *OccupancyRepo { return &OccupancyRepo{db: db} }

// ListBySpace returns a space's log entries within [from, to), oldest
// first.
func (r *OccupancyRepo) ListBySpace(ctx context.Context, spaceID uint64, from, to time.Time) ([]*model.OccupancyLog, error) {
	const q = `SELECT id, space_id, reservation_id, ts, occupied, notes
	           FROM occupancy_logs
	           WHERE space_id = ? AND ts >= ? AND ts < ?
	           ORDER BY ts`
	rows, err := r.db.QueryContext(ctx, q, spaceID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]*model.OccupancyLog, 0)
	for rows.Next() {
		var (
			l     model.OccupancyLog
			resID sql.NullInt64
		)
		if err := rows.Scan(&l.ID, &l.SpaceID, &resID, &l.Timestamp, &l.Occupied, &l.Notes); err != nil {
			return nil, err
		}
		if resID.Valid {
			id := uint64(resID.Int64)
			l.ReservationID = &id
		}
		out = append(out, &l)
	}
	return out, rows.Err()
}

// CurrentlyOccupied reports whether the latest log entry for a space
// marks it occupied.  A space with no entries is free.
func (r *OccupancyRepo) CurrentlyOccupied(ctx context.Context, spaceID uint64) (bool, error) {
	var occupied bool
	err := r.db.QueryRowContext(ctx,
		"SELECT occupied FROM occupancy_logs WHERE space_id = ? ORDER BY ts DESC, id DESC LIMIT 1",
		spaceID).Scan(&occupied)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return occupied, nil
}
