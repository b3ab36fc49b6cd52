// Package services defines the business logic for chat turns, history reads,
// and the faculty export views. This file centralizes common service-level
// error values so that they can be consistently returned by service methods
// and checked by callers.
//
// These errors are intended for internal use by the service layer and
// translation into user-facing messages or HTTP status codes should be
// performed at the handler layer.
package services

import "errors"

var (
	// ErrEmptyMessage is returned when a chat request contains an empty
	// message.
	ErrEmptyMessage = errors.New("message is empty")

	// ErrMessageTooLong is returned when a chat request exceeds the
	// maximum configured message length.
	ErrMessageTooLong = errors.New("message too long")

	// ErrInvalidRange is returned when an export request carries a
	// malformed or inverted date range.
	ErrInvalidRange = errors.New("invalid date range")
)
