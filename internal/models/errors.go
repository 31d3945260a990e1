package models

import "errors"

// Domain error taxonomy. Handlers map these to HTTP statuses with errors.Is;
// everything else is treated as an unexpected internal failure.
var (
	// ErrTokenFormat means the group customer / customer info token could not
	// be decoded into a phone number.
	ErrTokenFormat = errors.New("invalid customer token format")

	// ErrCustomerNotFound means no customer owns the resolved phone number.
	ErrCustomerNotFound = errors.New("customer not found")

	// ErrProductNotFound means the referenced savings product does not exist
	// or is no longer offered.
	ErrProductNotFound = errors.New("savings product not found")

	// ErrAccountNotFound means the referenced account number does not exist.
	ErrAccountNotFound = errors.New("account not found")

	// ErrAccountNumberCollision means account number generation kept hitting
	// existing numbers until the retry budget ran out.
	ErrAccountNumberCollision = errors.New("account number collision")

	// ErrInsufficientFunds means a withdrawal would drive the balance negative.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInvalidAmount means an amount was zero or negative where a positive
	// amount is required.
	ErrInvalidAmount = errors.New("amount must be greater than zero")

	// ErrFundingSourceRequired means an application amount was supplied
	// without a withdrawal account. The previous behavior of depositing
	// without a matching withdrawal created money out of thin air, so it is
	// rejected outright.
	ErrFundingSourceRequired = errors.New("withdrawal account required for funded application")

	// ErrNonZeroBalanceClose means an account with a remaining balance was
	// asked to close.
	ErrNonZeroBalanceClose = errors.New("account balance must be zero before closing")

	// ErrTransactionFailed wraps any failure inside the origination unit of
	// work after the happy path has started.
	ErrTransactionFailed = errors.New("savings origination transaction failed")

	// ErrInvalidCredentials covers both an unknown email and a wrong password
	// on the channel login, deliberately indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid email or password")
)
