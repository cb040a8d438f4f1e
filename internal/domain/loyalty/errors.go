package loyalty

import (
	"errors"
	"fmt"
)

// InsufficientFundsError is returned when a debit would drive a customer's
// balance below zero. It carries the balance observed at decision time and
// the amount the debit required, so callers can surface both to the client.
type InsufficientFundsError struct {
	Balance  int64
	Required int64
}

// Error implements the error interface
func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("Insufficient funds. Balance: %d, Required: %d", e.Balance, e.Required)
}

// IsInsufficientFunds reports whether err is an InsufficientFundsError
func IsInsufficientFunds(err error) bool {
	var target *InsufficientFundsError
	return errors.As(err, &target)
}
