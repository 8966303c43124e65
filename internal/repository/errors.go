package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrInsufficientFunds is returned when a balance adjustment would
	// take a customer or driver wallet below zero.
	ErrInsufficientFunds = errors.New("insufficient funds")
)
