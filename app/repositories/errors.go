package repositories

import (
	"github.com/shashiranjanraj/jwtpizza/pkg/apperr"
	"github.com/shashiranjanraj/jwtpizza/pkg/database"
)

// translate classifies a gorm error. what names the entity for messages.
func translate(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case database.IsNotFound(err):
		return apperr.NotFound(what + " not found")
	case database.IsUniqueViolation(err):
		return &apperr.Error{Kind: apperr.KindConflict, Message: what + " already exists", Err: err}
	default:
		return apperr.Upstream("database error", err)
	}
}
