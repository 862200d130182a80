package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/coworkhub/space-reservation/internal/model"
)

// SpaceRepo provides CRUD operations for the space catalog.  Spaces
// are managed by admins and browsed by members; deactivated spaces
// stay in the table so historical reservations keep their reference.
type SpaceRepo struct {
	db *sql.DB
}

// NewSpaceRepo returns a new SpaceRepo bound to the given database.
func NewSpaceRepo(db *sql.DB) *SpaceRepo { return &SpaceRepo{db: db} }

const spaceCols = `id, name, description, type, capacity,
       hourly_rate_cents, daily_rate_cents, monthly_rate_cents,
       floor, has_wifi, has_projector, has_whiteboard, has_ac,
       active, created_at, updated_at`

// Create inserts a new space and populates the generated ID plus the
// database-assigned timestamps on the provided model.
func (r *SpaceRepo) Create(ctx context.Context, sp *model.Space) error {
	const q = `INSERT INTO spaces
	           (name, description, type, capacity,
	            hourly_rate_cents, daily_rate_cents, monthly_rate_cents,
	            floor, has_wifi, has_projector, has_whiteboard, has_ac, active)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, q,
		sp.Name, sp.Description, string(sp.Type), sp.Capacity,
		centsArg(sp.HourlyRateCents), centsArg(sp.DailyRateCents), centsArg(sp.MonthlyRateCents),
		sp.Floor, sp.HasWifi, sp.HasProjector, sp.HasWhiteboard, sp.HasAC, sp.Active)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	sp.ID = uint64(id)
	sel := `SELECT created_at, updated_at FROM spaces WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, sp.ID).Scan(&sp.CreatedAt, &sp.UpdatedAt)
}

// GetByID fetches a single space.  sql.ErrNoRows is returned when the
// space does not exist.
func (r *SpaceRepo) GetByID(ctx context.Context, id uint64) (*model.Space, error) {
	q := `SELECT ` + spaceCols + ` FROM spaces WHERE id = ?`
	return scanSpace(r.db.QueryRowContext(ctx, q, id))
}

// SpaceFilter narrows List results.  Zero values leave a criterion
// unapplied.
type SpaceFilter struct {
	Type        model.SpaceType
	MinCapacity int
	ActiveOnly  bool
}

// List returns spaces matching the filter, ordered by floor then name.
func (r *SpaceRepo) List(ctx context.Context, f SpaceFilter) ([]*model.Space, error) {
	q := `SELECT ` + spaceCols + ` FROM spaces`
	var (
		conds []string
		args  []interface{}
	)
	if f.Type != "" {
		conds = append(conds, "type = ?")
		args = append(args, string(f.Type))
	}
	if f.MinCapacity > 0 {
		conds = append(conds, "capacity >= ?")
		args = append(args, f.MinCapacity)
	}
	if f.ActiveOnly {
		conds = append(conds, "active = TRUE")
	}
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY floor, name"
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]*model.Space, 0)
	for rows.Next() {
		sp, err := scanSpace(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sp)
	}
	return out, rows.Err()
}

// Update rewrites every mutable column of a space.  Handlers load the
// current row first and apply partial changes before calling this.
func (r *SpaceRepo) Update(ctx context.Context, sp *model.Space) error {
	const q = `UPDATE spaces SET
	               name = ?, description = ?, type = ?, capacity = ?,
	               hourly_rate_cents = ?, daily_rate_cents = ?, monthly_rate_cents = ?,
	               floor = ?, has_wifi = ?, has_projector = ?, has_whiteboard = ?,
	               has_ac = ?, active = ?
	           WHERE id = ?`
	result, err := r.db.ExecContext(ctx, q,
		sp.Name, sp.Description, string(sp.Type), sp.Capacity,
		centsArg(sp.HourlyRateCents), centsArg(sp.DailyRateCents), centsArg(sp.MonthlyRateCents),
		sp.Floor, sp.HasWifi, sp.HasProjector, sp.HasWhiteboard, sp.HasAC, sp.Active,
		sp.ID)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a space that has no reservations on record.  It
// returns ErrConflict when any reservation, in whatever status, still
// references the space; such spaces should be deactivated instead.
func (r *SpaceRepo) Delete(ctx context.Context, id uint64) error {
	var n int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM reservations WHERE space_id = ?", id).Scan(&n)
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrConflict
	}
	result, err := r.db.ExecContext(ctx, "DELETE FROM spaces WHERE id = ?", id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func centsArg(v *int64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
