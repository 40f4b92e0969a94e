package response

import (
	"errors"
	"net/http"

	"github.com/chub-app/chub-backend-go/internal/domain/attendance"
	"github.com/chub-app/chub-backend-go/internal/domain/auth"
	"github.com/chub-app/chub-backend-go/internal/domain/message"
	"github.com/chub-app/chub-backend-go/internal/domain/schedule"
	"github.com/chub-app/chub-backend-go/internal/domain/user"
	"github.com/chub-app/chub-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Auth domain errors
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrRefreshTokenRevoked):
		Unauthorized(w, "Refresh token revoked")
	case errors.Is(err, auth.ErrRefreshTokenCookieNotFound):
		Unauthorized(w, "Refresh token cookie not found")
	case errors.Is(err, auth.ErrRefreshTokenCookieEmpty):
		Unauthorized(w, "Refresh token cookie is empty")
	case errors.Is(err, auth.ErrAccountInactive):
		Forbidden(w, "Account is inactive")
	case errors.Is(err, auth.ErrEmailTaken):
		Conflict(w, "Email already registered")
	case errors.Is(err, auth.ErrUserNotFound):
		NotFound(w, "User not found")

	// User domain errors
	case errors.Is(err, user.ErrPermissionDenied):
		Forbidden(w, err.Error())
	case errors.Is(err, user.ErrAdminAccessRequired):
		Forbidden(w, err.Error())
	case errors.Is(err, user.ErrUserInactive):
		Forbidden(w, "User account is inactive")
	case errors.Is(err, user.ErrEmailExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrLinkExpired):
		Gone(w, "Attendance link has expired")
	case errors.Is(err, attendance.ErrLinkInactive):
		Gone(w, "Attendance link has been deactivated")
	case errors.Is(err, attendance.ErrLinkNotFound):
		NotFound(w, "Attendance link not found")
	case errors.Is(err, attendance.ErrRecordNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrTargetNotFound):
		NotFound(w, "Target member not found")
	case errors.Is(err, attendance.ErrInvalidServiceType):
		BadRequest(w, "Invalid service type", nil)
	case errors.Is(err, attendance.ErrNotOnlineService):
		BadRequest(w, "Service type is not an online service", nil)
	case errors.Is(err, attendance.ErrUnauthorized):
		Forbidden(w, err.Error())

	// Message domain errors
	case errors.Is(err, message.ErrMessageNotFound):
		NotFound(w, "Message not found")
	case errors.Is(err, message.ErrRecipientMissing):
		NotFound(w, "Recipient does not exist")
	case errors.Is(err, message.ErrNotRecipient):
		Forbidden(w, err.Error())
	case errors.Is(err, message.ErrUnknownTemplate):
		BadRequest(w, "Unknown follow-up template", nil)

	// Schedule domain errors
	case errors.Is(err, schedule.ErrScheduleNotFound):
		NotFound(w, "Service schedule not found")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
