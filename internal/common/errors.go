package common

import "errors"

// Error kinds recognized at the request boundary. Components wrap one of
// these sentinels so handlers can map failures to HTTP statuses with
// errors.Is without depending on gorm or provider error types.
var (
	ErrValidation = errors.New("invalid request")
	ErrNotFound   = errors.New("not found")
	ErrStorage    = errors.New("storage failure")
	ErrUpstream   = errors.New("upstream failure")
)
