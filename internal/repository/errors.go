package repository

import "errors"

// ErrNotFound is returned when a conversation id is not in the store. The
// service layer translates it into app_errors.ErrNotFound.
var ErrNotFound = errors.New("repository: not found")
