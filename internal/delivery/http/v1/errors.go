package v1

import (
	"errors"
	"net/http"
	"strings"

	"caribay-backend/internal/domain"
	"caribay-backend/pkg/utils"
)

// writeDomainError maps usecase/repository sentinel errors onto HTTP
// statuses. Anything unrecognized is a 500 with a generic message so
// internal details never leak to the client.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		utils.WriteError(w, http.StatusBadRequest, validationMessage(err))
	case errors.Is(err, domain.ErrInvalidStatus):
		utils.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		utils.WriteError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrNotAdmin):
		utils.WriteError(w, http.StatusForbidden, "You do not have admin access")
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrNoPaymentProof):
		utils.WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrDuplicateRule),
		errors.Is(err, domain.ErrDuplicateCategory),
		errors.Is(err, domain.ErrDuplicateSKU),
		errors.Is(err, domain.ErrCategoryInUse),
		errors.Is(err, domain.ErrLastActiveAccount):
		utils.WriteError(w, http.StatusConflict, err.Error())
	default:
		utils.WriteError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func paginate(page, limit int, total int64) *domain.Pagination {
	pages := 0
	if limit > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	return &domain.Pagination{Page: page, Limit: limit, TotalItems: total, TotalPages: pages}
}

// validationMessage strips the "validation failed: " prefix so forms
// show just the human-readable part.
func validationMessage(err error) string {
	msg := err.Error()
	if idx := strings.Index(msg, ": "); idx >= 0 {
		return msg[idx+2:]
	}
	return msg
}
