package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrBadRequest       = errors.New("invalid request body")
	ErrMethodNotAllowed = errors.New("method not allowed")
	ErrRouteNotFound    = errors.New("not found")
	ErrNoActiveBanners  = errors.New("no active banners")
)
