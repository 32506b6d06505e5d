package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/thetpaing-dev/grant_portal_app/internal/apperrors"
	"github.com/thetpaing-dev/grant_portal_app/internal/core/domain"
	portssvc "github.com/thetpaing-dev/grant_portal_app/internal/core/ports/services"
	"github.com/thetpaing-dev/grant_portal_app/internal/dto"
	"github.com/thetpaing-dev/grant_portal_app/internal/middleware"
)

// statusForError maps service sentinel errors onto HTTP statuses. Anything
// unmapped is a 500 with a generic message so internals never leak.
func statusForError(err error) (int, string) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, apperrors.ErrDuplicate):
		return http.StatusConflict, err.Error()
	case errors.Is(err, apperrors.ErrConcurrencyConflict):
		return http.StatusConflict, err.Error()
	case errors.Is(err, apperrors.ErrInvalidTransition),
		errors.Is(err, apperrors.ErrMissingPaymentDetails),
		errors.Is(err, apperrors.ErrInsufficientBudget),
		errors.Is(err, apperrors.ErrQueryAlreadyPending),
		errors.Is(err, apperrors.ErrAlreadyAnswered):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, apperrors.ErrValidation),
		errors.Is(err, apperrors.ErrInvalidAmount),
		errors.Is(err, apperrors.ErrEmptyQuery),
		errors.Is(err, apperrors.ErrEmptyAnswer),
		errors.Is(err, apperrors.ErrEmptyRemark):
		return http.StatusBadRequest, err.Error()
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// respondError writes the uniform failure envelope for a service error.
func respondError(c *gin.Context, err error) {
	status, message := statusForError(err)
	if status == http.StatusInternalServerError {
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		logger.Error("Unhandled service error", slog.String("error", err.Error()), slog.String("path", c.FullPath()))
	}
	c.JSON(status, dto.Fail(message))
}

// respondBindError writes a 400 for a request that failed binding.
func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, dto.Fail("invalid request: "+err.Error()))
}

// actorResolver resolves the authenticated caller into a domain.Actor by
// loading their user record. Handlers need the role, and the JWT only
// carries the user ID.
type actorResolver struct {
	userService portssvc.UserReaderSvc
}

// resolve returns the caller's Actor or writes a 401 and reports false.
func (r actorResolver) resolve(c *gin.Context) (domain.Actor, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.Fail("unauthorized"))
		return domain.Actor{}, false
	}
	user, err := r.userService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		logger.Warn("Authenticated user not resolvable", slog.String("user_id", userID), slog.String("error", err.Error()))
		c.JSON(http.StatusUnauthorized, dto.Fail("unauthorized"))
		return domain.Actor{}, false
	}
	return domain.Actor{UserID: user.UserID, Role: user.Role}, true
}
