package repository

import "errors"

// Store-level error signals. Implementations translate backend failures
// (pgx.ErrNoRows, unique_violation) into these so callers never see a raw
// constraint error.
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)
