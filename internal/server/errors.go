package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	authdomain "github.com/gokulraja-dev/infintree/internal/auth/domain"
	departmentdomain "github.com/gokulraja-dev/infintree/internal/department/domain"
	documentdomain "github.com/gokulraja-dev/infintree/internal/document/domain"
	groupdomain "github.com/gokulraja-dev/infintree/internal/group/domain"
	iamdomain "github.com/gokulraja-dev/infintree/internal/iam/domain"
	"github.com/gokulraja-dev/infintree/internal/token"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrInvalidRequest = errors.New("invalid_request")
)

// ErrorHandlingMiddleware converts the last gin error into a JSON error
// response after the handler chain runs. Handlers never write error bodies
// themselves.
func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	switch {
	// Credential and token failures stay undifferentiated on purpose.
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, token.ErrInvalidToken),
		errors.Is(err, authdomain.ErrInvalidCredentials):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: "unauthorized",
		}
	case errors.Is(err, authdomain.ErrMustChangePassword):
		return http.StatusPreconditionRequired, errorPayload{
			Type:    "password_change_required",
			Message: "default password must be changed before login",
		}
	case errors.Is(err, iamdomain.ErrPermissionDenied),
		errors.Is(err, authdomain.ErrPasswordChangeNotAllowed):
		return http.StatusForbidden, errorPayload{
			Type:    "forbidden",
			Message: "forbidden",
		}
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, iamdomain.ErrInvalidScope),
		errors.Is(err, documentdomain.ErrInvalidDepth),
		errors.Is(err, documentdomain.ErrCrossDepartmentParent),
		errors.Is(err, authdomain.ErrWeakPassword),
		errors.Is(err, authdomain.ErrPasswordReuse),
		errors.Is(err, authdomain.ErrPasswordConfirmation):
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: err.Error(),
		}
	case errors.Is(err, authdomain.ErrUserNotFound),
		errors.Is(err, iamdomain.ErrRoleNotFound),
		errors.Is(err, departmentdomain.ErrNotFound),
		errors.Is(err, groupdomain.ErrNotFound),
		errors.Is(err, documentdomain.ErrNotFound),
		errors.Is(err, documentdomain.ErrParentNotFound):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: err.Error(),
		}
	case errors.Is(err, authdomain.ErrUserExists),
		errors.Is(err, iamdomain.ErrGrantExists),
		errors.Is(err, departmentdomain.ErrNameTaken),
		errors.Is(err, groupdomain.ErrNameTaken),
		errors.Is(err, groupdomain.ErrAssociationExists):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: err.Error(),
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}
