package postgres

import "github.com/pkg/errors"

// ErrNotFound is returned when the requested row does not exist or is
// soft deleted.
var ErrNotFound = errors.New("not found")
