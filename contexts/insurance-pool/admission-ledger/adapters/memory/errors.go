package memory

import "errors"

var errReadOnly = errors.New("memory store: write attempted inside Read")
