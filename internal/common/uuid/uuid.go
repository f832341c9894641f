package uuid

import (
	"errors"

	"github.com/google/uuid"
)

// ErrMalformed is returned by Parse for anything other than a canonical
// 36-character RFC 4122 string.
var ErrMalformed = errors.New("uuid: malformed identifier")

type UUID interface {
	NewUUID() string
}

// DefaultUUID implements the UUID interface using the uuid package
type DefaultUUID struct{}

func New() *DefaultUUID {
	return &DefaultUUID{}
}

// NewUUID returns a new random (version 4) UUID
func (d *DefaultUUID) NewUUID() string {
	return uuid.New().String()
}

// Parse validates raw and returns it in canonical lowercase form. The
// braced and urn: spellings accepted by uuid.Parse are rejected.
func Parse(raw string) (string, error) {
	if len(raw) != 36 {
		return "", ErrMalformed
	}
	u, err := uuid.Parse(raw)
	if err != nil {
		return "", ErrMalformed
	}
	return u.String(), nil
}
