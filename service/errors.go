package service

import "errors"

var (
	// ErrInvalidStake indicates a zero or negative stake.
	ErrInvalidStake = errors.New("stake must be greater than zero")

	// ErrInsufficientBalance indicates the account cannot cover the stake
	// or the settlement would drive the balance negative.
	ErrInsufficientBalance = errors.New("insufficient balance")
)
