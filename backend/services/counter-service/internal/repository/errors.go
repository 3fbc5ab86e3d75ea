package repository

import (
	"errors"

	"gorm.io/gorm"

	"bclub/backend/libs/apperr"
	libdb "bclub/backend/libs/db"
)

// translate maps storage errors onto the shared taxonomy. what names the record for messages.
func translate(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.NotFound("%s not found", what)
	case libdb.IsDuplicateKey(err):
		return apperr.Wrap(apperr.KindConflict, err, what+" already exists")
	default:
		return err
	}
}
