package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/coworkhub/space-reservation/internal/model"
	"github.com/coworkhub/space-reservation/internal/repository"
)

// SpaceHandler serves the space catalog: admin CRUD plus the browse
// and availability endpoints members use to pick a space.
type SpaceHandler struct {
	Spaces    *repository.SpaceRepo
	Occupancy *repository.OccupancyRepo
}

func NewSpaceHandler(spaces *repository.SpaceRepo, occupancy *repository.OccupancyRepo) *SpaceHandler {
	if spaces == nil || occupancy == nil {
		panic("nil repository passed to NewSpaceHandler")
	}
	return &SpaceHandler{Spaces: spaces, Occupancy: occupancy}
}

// spaceReq carries the mutable space fields.  Pointer fields
// distinguish "absent" from zero on partial updates.
type spaceReq struct {
	Name             *string `json:"name"`
	Description      *string `json:"description"`
	Type             *string `json:"type"`
	Capacity         *int    `json:"capacity"`
	HourlyRateCents  *int64  `json:"hourly_rate_cents"`
	DailyRateCents   *int64  `json:"daily_rate_cents"`
	MonthlyRateCents *int64  `json:"monthly_rate_cents"`
	Floor            *int    `json:"floor"`
	HasWifi          *bool   `json:"has_wifi"`
	HasProjector     *bool   `json:"has_projector"`
	HasWhiteboard    *bool   `json:"has_whiteboard"`
	HasAC            *bool   `json:"has_ac"`
	Active           *bool   `json:"active"`
}

func (r *spaceReq) apply(sp *model.Space) {
	if r.Name != nil {
		sp.Name = strings.TrimSpace(*r.Name)
	}
	if r.Description != nil {
		sp.Description = *r.Description
	}
	if r.Type != nil {
		sp.Type = model.SpaceType(strings.ToUpper(strings.TrimSpace(*r.Type)))
	}
	if r.Capacity != nil {
		sp.Capacity = *r.Capacity
	}
	if r.HourlyRateCents != nil {
		sp.HourlyRateCents = r.HourlyRateCents
	}
	if r.DailyRateCents != nil {
		sp.DailyRateCents = r.DailyRateCents
	}
	if r.MonthlyRateCents != nil {
		sp.MonthlyRateCents = r.MonthlyRateCents
	}
	if r.Floor != nil {
		sp.Floor = *r.Floor
	}
	if r.HasWifi != nil {
		sp.HasWifi = *r.HasWifi
	}
	if r.HasProjector != nil {
		sp.HasProjector = *r.HasProjector
	}
	if r.HasWhiteboard != nil {
		sp.HasWhiteboard = *r.HasWhiteboard
	}
	if r.HasAC != nil {
		sp.HasAC = *r.HasAC
	}
	if r.Active != nil {
		sp.Active = *r.Active
	}
}

func validateSpace(sp *model.Space) string {
	if sp.Name == "" {
		return "name required"
	}
	if !sp.Type.Valid() {
		return "invalid space type"
	}
	if sp.Capacity <= 0 {
		return "capacity must be positive"
	}
	for _, rate := range []*int64{sp.HourlyRateCents, sp.DailyRateCents, sp.MonthlyRateCents} {
		if rate != nil && *rate < 0 {
			return "rates must not be negative"
		}
	}
	return ""
}

// Create registers a new space.  Admin only.
func (h *SpaceHandler) Create(c echo.Context) error {
	var req spaceReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	sp := model.Space{Active: true}
	req.apply(&sp)
	if msg := validateSpace(&sp); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Spaces.Create(ctx, &sp); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create space failed"})
	}
	return c.JSON(http.StatusCreated, sp)
}

// List returns the catalog.  Members see only active spaces; admins
// see everything and may filter on type and capacity via query params.
func (h *SpaceHandler) List(c echo.Context) error {
	filter := repository.SpaceFilter{ActiveOnly: !isAdmin(c)}
	if t := strings.ToUpper(strings.TrimSpace(c.QueryParam("type"))); t != "" {
		if !model.SpaceType(t).Valid() {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid space type"})
		}
		filter.Type = model.SpaceType(t)
	}
	if capStr := c.QueryParam("min_capacity"); capStr != "" {
		n, err := strconv.Atoi(capStr)
		if err != nil || n < 1 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid min_capacity"})
		}
		filter.MinCapacity = n
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	spaces, err := h.Spaces.List(ctx, filter)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list spaces failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"spaces": spaces})
}

// Get returns a single space.  Inactive spaces are hidden from members.
func (h *SpaceHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	sp, err := h.Spaces.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "space not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load space failed"})
	}
	if !sp.Active && !isAdmin(c) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "space not found"})
	}
	return c.JSON(http.StatusOK, sp)
}

// Update applies a partial update to a space.  Admin only.
func (h *SpaceHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req spaceReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	sp, err := h.Spaces.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "space not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load space failed"})
	}
	req.apply(sp)
	if msg := validateSpace(sp); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	if err := h.Spaces.Update(ctx, sp); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update space failed"})
	}
	return c.JSON(http.StatusOK, sp)
}

// Delete removes a space with no reservation history.  Admin only.
// Spaces that have ever been booked return 409; deactivate them
// instead.
func (h *SpaceHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	switch err := h.Spaces.Delete(ctx, id); err {
	case nil:
		return c.NoContent(http.StatusNoContent)
	case sql.ErrNoRows:
		return c.JSON(http.StatusNotFound, echo.Map{"error": "space not found"})
	case repository.ErrConflict:
		return c.JSON(http.StatusConflict, echo.Map{"error": "space has reservations; deactivate it instead"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete space failed"})
	}
}

// OccupancyLog returns a space's check-in/check-out log for a day
// range.  Admin only.  Query params `from` and `to` take RFC3339
// timestamps; `to` defaults to now and `from` to 7 days before `to`.
func (h *SpaceHandler) OccupancyLog(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	to := time.Now().UTC()
	if s := c.QueryParam("to"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid to"})
		}
		to = t.UTC()
	}
	from := to.AddDate(0, 0, -7)
	if s := c.QueryParam("from"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid from"})
		}
		from = t.UTC()
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	logs, err := h.Occupancy.ListBySpace(ctx, id, from, to)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load occupancy failed"})
	}
	occupied, err := h.Occupancy.CurrentlyOccupied(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load occupancy failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"space_id":           id,
		"currently_occupied": occupied,
		"entries":            logs,
	})
}
