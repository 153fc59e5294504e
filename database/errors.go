package database

import "errors"

// ErrInvalidDate is returned when a date parameter is not a valid YYYY-MM-DD day.
var ErrInvalidDate = errors.New("invalid date, expected YYYY-MM-DD")
