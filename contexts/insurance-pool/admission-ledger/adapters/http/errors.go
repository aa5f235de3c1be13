package httpadapter

import "errors"

var ErrMissingOperational = errors.New("operational field is required")
