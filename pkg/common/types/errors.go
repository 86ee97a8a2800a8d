package types

import "errors"

var (
	// ErrInsufficientFunds is returned when a debit exceeds the account balance.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrInvalidBetParameters is returned for a non-positive bet or malformed
	// game parameters, before any state is touched.
	ErrInvalidBetParameters = errors.New("invalid bet parameters")
	// ErrInvalidSeed is returned when a client seed rotation carries an empty seed.
	ErrInvalidSeed = errors.New("invalid client seed")
	// ErrAccountNotFound is returned for unknown account ids. It is never
	// silently treated as a fresh account.
	ErrAccountNotFound = errors.New("account not found")
	ErrAccountExists   = errors.New("account already exists")
	ErrSelfReferral    = errors.New("self referral is not allowed")
)
