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

// BillingHandler serves billing statements and the payment lifecycle.
// Amount and status changes go through the booking engine; the read
// endpoints query the billing repository directly.
type BillingHandler struct {
	Engine      *booking.Service
	Billings    *repository.BillingRepo
	DueSoonDays int
	Events      bool // publish broker events when true
}

func NewBillingHandler(engine *booking.Service, billings *repository.BillingRepo, dueSoonDays int, events bool) *BillingHandler {
	if engine == nil || billings == nil {
		panic("nil dependency passed to NewBillingHandler")
	}
	if dueSoonDays < 1 {
		dueSoonDays = 3
	}
	return &BillingHandler{Engine: engine, Billings: billings, DueSoonDays: dueSoonDays, Events: events}
}

// List returns the caller's billing records, or every payable one for
// admins filtering with ?view=overdue / ?view=due_soon.
func (h *BillingHandler) List(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	switch view := strings.ToLower(c.QueryParam("view")); view {
	case "", "all":
		list, err := h.Billings.ListByUser(ctx, uid)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list billings failed"})
		}
		return c.JSON(http.StatusOK, echo.Map{"billings": list})
	case "pending":
		list, err := h.Billings.ListPendingByUser(ctx, uid)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list billings failed"})
		}
		return c.JSON(http.StatusOK, echo.Map{"billings": list})
	case "overdue":
		if !isAdmin(c) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		list, err := h.Billings.ListOverdue(ctx)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list billings failed"})
		}
		return c.JSON(http.StatusOK, echo.Map{"billings": list})
	case "due_soon":
		if !isAdmin(c) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		today := time.Now().UTC().Truncate(24 * time.Hour)
		list, err := h.Billings.ListDueSoon(ctx, today, h.DueSoonDays)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list billings failed"})
		}
		return c.JSON(http.StatusOK, echo.Map{"billings": list})
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown view"})
	}
}

// Get returns one billing record.  Members only see their own.
func (h *BillingHandler) Get(c echo.Context) error {
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

	det, err := h.Billings.GetByIDForUser(ctx, id, uid, isAdmin(c))
	if err != nil {
		switch err {
		case sql.ErrNoRows:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "billing not found"})
		case repository.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load billing failed"})
	}
	return c.JSON(http.StatusOK, det)
}

// Outstanding returns the caller's unpaid and settled totals in cents.
func (h *BillingHandler) Outstanding(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	outstanding, err := h.Billings.OutstandingCents(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load totals failed"})
	}
	paid, err := h.Billings.PaidCents(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load totals failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"user_id":           uid,
		"outstanding_cents": outstanding,
		"paid_cents":        paid,
	})
}

// Revenue sums payments received in a date range.  Admin only.  Query
// params `from` and `to` take YYYY-MM-DD dates; `to` is exclusive and
// defaults to tomorrow, `from` to 30 days before `to`.
func (h *BillingHandler) Revenue(c echo.Context) error {
	to := time.Now().UTC().Truncate(24*time.Hour).AddDate(0, 0, 1)
	if s := c.QueryParam("to"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid to"})
		}
		to = t
	}
	from := to.AddDate(0, 0, -30)
	if s := c.QueryParam("from"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid from"})
		}
		from = t
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	total, err := h.Billings.PaidCentsBetween(ctx, from, to)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load totals failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"from":       from.Format("2006-01-02"),
		"to":         to.Format("2006-01-02"),
		"paid_cents": total,
	})
}

type payReq struct {
	PaymentMethod string `json:"payment_method"`
}

// Pay settles a billing record.  Members pay their own; admins may
// record a payment on anyone's behalf.
func (h *BillingHandler) Pay(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req payReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	method := strings.TrimSpace(req.PaymentMethod)
	if method == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "payment_method required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if err := h.requireOwner(ctx, c, id); err != nil {
		return err
	}
	bill, err := h.Engine.PayBilling(ctx, id, method)
	if err != nil {
		return bookingError(c, err)
	}
	if h.Events {
		h.publishPaid(bill)
	}
	return c.JSON(http.StatusOK, bill)
}

func (h *BillingHandler) publishPaid(bill *model.Billing) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		paidAt := ""
		if bill.PaidDate != nil {
			paidAt = bill.PaidDate.Format("2006-01-02")
		}
		_ = queuepublisher.PublishBillingPaid(ctx, queue.BillingPaidEvent{
			BillingID:     bill.ID,
			ReservationID: bill.ReservationID,
			UserID:        bill.UserID,
			AmountCents:   bill.AmountCents,
			PaymentMethod: bill.PaymentMethod,
			PaidAt:        paidAt,
		})
	}()
}

// MarkOverdue flags a pending billing past its due date.  Admin only;
// the sweeper does this in bulk.
func (h *BillingHandler) MarkOverdue(c echo.Context) error {
	return h.adminTransition(c, h.Engine.MarkBillingOverdue)
}

// Cancel voids an unpaid billing.  Admin only.
func (h *BillingHandler) Cancel(c echo.Context) error {
	return h.adminTransition(c, h.Engine.CancelBilling)
}

// Refund reverses a paid billing.  Admin only.
func (h *BillingHandler) Refund(c echo.Context) error {
	return h.adminTransition(c, h.Engine.RefundBilling)
}

func (h *BillingHandler) adminTransition(c echo.Context, op func(context.Context, uint64) (*model.Billing, error)) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	bill, err := op(ctx, id)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, bill)
}

// Delete removes a cancelled billing record.  Admin only.
func (h *BillingHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if err := h.Engine.DeleteBilling(ctx, id); err != nil {
		return bookingError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// requireOwner rejects callers who neither own the billing nor hold
// the ADMIN role.
func (h *BillingHandler) requireOwner(ctx context.Context, c echo.Context, billingID uint64) error {
	if isAdmin(c) {
		return nil
	}
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	_, err = h.Billings.GetByIDForUser(ctx, billingID, uid, false)
	if err != nil {
		switch err {
		case sql.ErrNoRows:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "billing not found"})
		case repository.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load billing failed"})
	}
	return nil
}
