package handler // handler defines http handlers

import (
	"errors"   // errors provides the sentinel used in getUserID
	"net/http" // status codes for error mapping
	"strconv"  // strconv converts strings to numeric types

	"github.com/labstack/echo/v4" // echo defines request context types

	"github.com/coworkhub/space-reservation/internal/booking"
)

// getUserID extracts the user_id from echo.Context and converts it to uint64.
// JWTAuth stores the subject claim under "user_id"; numeric claims decode as
// float64 and some clients encode them as strings.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// isAdmin reports whether the authenticated caller carries the ADMIN role.
func isAdmin(c echo.Context) bool {
	role, _ := c.Get("role").(string)
	return role == "ADMIN"
}

// pathID parses a numeric :id path parameter.
func pathID(c echo.Context, name string) (uint64, error) {
	return strconv.ParseUint(c.Param(name), 10, 64)
}

// pathParamUint parses a raw numeric parameter value.
func pathParamUint(s string) (uint64, error) {
	return strconv.ParseUint(s, 10, 64)
}

// bookingError translates a booking engine error into an HTTP response.
// Validation failures map to 400, missing records to 404, and both
// interval conflicts and lifecycle guard violations to 409.
func bookingError(c echo.Context, err error) error {
	msg := err.Error()
	var be *booking.Error
	if errors.As(err, &be) {
		msg = be.Reason
	}
	switch booking.KindOf(err) {
	case booking.KindValidation:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	case booking.KindNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"error": msg})
	case booking.KindConflict, booking.KindInvalidState:
		return c.JSON(http.StatusConflict, echo.Map{"error": msg})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}
