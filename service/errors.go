package service

import "errors"

// Authorization and validation errors, checked at the coordinator boundary
// before any store mutation
var (
	ErrNotAuthorized      = errors.New("not authorized")
	ErrEmptyTitle         = errors.New("auction title must not be empty")
	ErrInvalidAmount      = errors.New("bid amount must be a positive number")
	ErrNoPendingSelection = errors.New("no auction selected")
	ErrInvalidMonths      = errors.New("report window must be a positive number of months")
)

// Store-level errors
var (
	ErrAuctionNotFound    = errors.New("auction not found")
	ErrAuctionNotActive   = errors.New("auction is not active")
	ErrSubscriberNotFound = errors.New("subscriber not found")
)
