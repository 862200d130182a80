package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/coworkhub/space-reservation/internal/booking"
	"github.com/coworkhub/space-reservation/internal/model"
	"github.com/coworkhub/space-reservation/internal/queue"
	"github.com/coworkhub/space-reservation/internal/repository"
	queuepublisher "github.com/coworkhub/space-reservation/internal/service"
)

// ReservationHandler serves the reservation lifecycle.  Every state
// change goes through the booking engine; this layer only parses
// requests, enforces ownership and shapes responses.
type ReservationHandler struct {
	Engine       *booking.Service
	Reservations *repository.ReservationRepo
	Spaces       *repository.SpaceRepo
	Events       bool // publish broker events when true
}

func NewReservationHandler(engine *booking.Service, reservations *repository.ReservationRepo, spaces *repository.SpaceRepo, events bool) *ReservationHandler {
	if engine == nil || reservations == nil || spaces == nil {
		panic("nil dependency passed to NewReservationHandler")
	}
	return &ReservationHandler{Engine: engine, Reservations: reservations, Spaces: spaces, Events: events}
}

type createReservationReq struct {
	SpaceID   uint64    `json:"space_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Notes     string    `json:"notes"`
}

type updateReservationReq struct {
	StartTime *time.Time `json:"start_time"`
	EndTime   *time.Time `json:"end_time"`
	Status    *string    `json:"status"`
	Notes     *string    `json:"notes"`
}

// Create books a space for the authenticated member.  The response
// carries both the new reservation and its billing record.
func (h *ReservationHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createReservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.SpaceID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "space_id required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	res, bill, err := h.Engine.CreateReservation(ctx, booking.CreateReservationInput{
		UserID:    uid,
		SpaceID:   req.SpaceID,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Notes:     req.Notes,
	})
	if err != nil {
		return bookingError(c, err)
	}

	if h.Events {
		h.publishCreated(res, bill)
	}
	return c.JSON(http.StatusCreated, echo.Map{"reservation": res, "billing": bill})
}

// publishCreated emits the reservation.created event in the background
// so a slow or absent broker never delays the booking response.
func (h *ReservationHandler) publishCreated(res *model.Reservation, bill *model.Billing) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		sp, err := h.Spaces.GetByID(ctx, res.SpaceID)
		if err != nil {
			return
		}
		_ = queuepublisher.PublishReservationCreated(ctx, queue.ReservationCreatedEvent{
			ReservationID:   res.ID,
			UserID:          res.UserID,
			SpaceID:         res.SpaceID,
			SpaceName:       sp.Name,
			SpaceType:       string(sp.Type),
			StartTime:       res.StartTime.Format(time.RFC3339),
			EndTime:         res.EndTime.Format(time.RFC3339),
			TotalPriceCents: res.TotalPriceCents,
			BillingID:       bill.ID,
			DueDate:         bill.DueDate.Format("2006-01-02"),
			CreatedAt:       res.CreatedAt.UTC().Format(time.RFC3339),
		})
	}()
}

// List returns the caller's reservations.  Admins may pass ?space_id=
// to review a space's full schedule instead, or ?upcoming=true for the
// member view of what is still ahead.
func (h *ReservationHandler) List(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if spaceStr := c.QueryParam("space_id"); spaceStr != "" {
		if !isAdmin(c) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		spaceID, err := pathParamUint(spaceStr)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid space_id"})
		}
		list, err := h.Reservations.ListBySpace(ctx, spaceID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list reservations failed"})
		}
		return c.JSON(http.StatusOK, echo.Map{"reservations": list})
	}

	var list []*repository.ReservationDetail
	if strings.EqualFold(c.QueryParam("upcoming"), "true") {
		list, err = h.Reservations.ListUpcomingByUser(ctx, uid, time.Now().UTC())
	} else {
		list, err = h.Reservations.ListByUser(ctx, uid)
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list reservations failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"reservations": list})
}

// Get returns one reservation with space details.  Members only see
// their own.
func (h *ReservationHandler) Get(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	det, err := h.Reservations.GetByIDForUser(ctx, id, uid, isAdmin(c))
	if err != nil {
		switch err {
		case sql.ErrNoRows:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		case repository.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load reservation failed"})
	}
	return c.JSON(http.StatusOK, det)
}

// Update edits a reservation.  Members may move their own interval or
// edit notes; status changes such as confirmation are admin only.
func (h *ReservationHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req updateReservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Status != nil && !isAdmin(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "only admins change reservation status"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if err := h.requireOwner(ctx, c, id); err != nil {
		return err
	}

	in := booking.UpdateReservationInput{
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Notes:     req.Notes,
	}
	if req.Status != nil {
		st := model.ReservationStatus(strings.ToUpper(strings.TrimSpace(*req.Status)))
		if !st.Valid() {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
		}
		in.Status = &st
	}
	res, err := h.Engine.UpdateReservation(ctx, id, in)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

// Cancel cancels a reservation and its unpaid billing.
func (h *ReservationHandler) Cancel(c echo.Context) error {
	return h.lifecycle(c, h.Engine.CancelReservation)
}

// CheckIn marks the start of occupancy.  Allowed from fifteen minutes
// before the reservation start until its end.
func (h *ReservationHandler) CheckIn(c echo.Context) error {
	return h.lifecycle(c, h.Engine.CheckIn)
}

// CheckOut marks the end of occupancy and completes the reservation.
func (h *ReservationHandler) CheckOut(c echo.Context) error {
	return h.lifecycle(c, h.Engine.CheckOut)
}

// lifecycle runs a single-reservation engine transition after the
// ownership check.
func (h *ReservationHandler) lifecycle(c echo.Context, op func(context.Context, uint64) (*model.Reservation, error)) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if err := h.requireOwner(ctx, c, id); err != nil {
		return err
	}
	res, err := op(ctx, id)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

// Delete removes a cancelled reservation and its cancelled billing.
func (h *ReservationHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if err := h.requireOwner(ctx, c, id); err != nil {
		return err
	}
	if err := h.Engine.DeleteReservation(ctx, id); err != nil {
		return bookingError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// requireOwner rejects callers who neither own the reservation nor
// hold the ADMIN role.  A nil return means the caller may proceed.
func (h *ReservationHandler) requireOwner(ctx context.Context, c echo.Context, reservationID uint64) error {
	if isAdmin(c) {
		return nil
	}
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	owner, err := h.Reservations.OwnerID(ctx, reservationID)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load reservation failed"})
	}
	if owner != uid {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return nil
}
