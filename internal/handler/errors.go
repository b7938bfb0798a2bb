package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/eaglebank/ledger-service/shared/apperrors"
	"github.com/eaglebank/ledger-service/shared/middleware"
)

const internalErrorMessage = "Internal server error"

// respondWithServiceError maps the error taxonomy onto HTTP statuses.
// Internal error text is returned only when exposeInternal is set.
func respondWithServiceError(c *gin.Context, err error, exposeInternal bool) {
	var verr *apperrors.ValidationError
	switch {
	case errors.As(err, &verr):
		middleware.RespondWithError(c, http.StatusBadRequest, verr.Msg)
	case errors.Is(err, apperrors.ErrValidation):
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request data")
	case errors.Is(err, apperrors.ErrUnauthenticated):
		middleware.RespondWithError(c, http.StatusUnauthorized, "User not authenticated")
	case errors.Is(err, apperrors.ErrNotFound):
		middleware.RespondWithError(c, http.StatusNotFound, "Transaction not found or unauthorized")
	default:
		_ = c.Error(err)
		msg := internalErrorMessage
		if exposeInternal {
			msg = err.Error()
		}
		middleware.RespondWithError(c, http.StatusInternalServerError, msg)
	}
}
