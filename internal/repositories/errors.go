package repositories

import "errors"

// ErrRecordNotFound is returned by every FindByID when the row does not exist.
var ErrRecordNotFound = errors.New("record not found")
