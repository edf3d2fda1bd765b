package repository

import (
	"errors"
	"strings"
)

// ErrUniqueViolation reports an insert that broke a unique constraint,
// e.g. registering a username or email that is already taken.
var ErrUniqueViolation = errors.New("unique constraint violation")

// The pure-Go sqlite driver does not expose typed constraint errors,
// so we have to match on the message.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
