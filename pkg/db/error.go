package db

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// Driver messages that gorm does not always translate to ErrDuplicatedKey.
var duplicateKeyMarkers = []string{
	"duplicate key value violates unique constraint", // postgres 23505
	"Error 1062",               // mysql
	"UNIQUE constraint failed", // sqlite 2067
}

// IsDuplicateKeyErr reports whether err is a unique constraint violation on
// any of the supported dialects.
func IsDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	for _, marker := range duplicateKeyMarkers {
		if strings.Contains(err.Error(), marker) {
			return true
		}
	}
	return false
}
