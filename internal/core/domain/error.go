package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInternal = errors.New("internal error")

	// * Data errors.
	ErrDataNotFound    = errors.New("data not found")
	ErrNoUpdatedData   = errors.New("no data to update")
	ErrConflictingData = errors.New("data conflicts with existing data in unique column")

	// * Communication errors.
	ErrBadRequest = errors.New("error parsing request")

	// * Authority errors.
	ErrTokenCreation      = errors.New("error creating token")
	ErrExpiredToken       = errors.New("access token has expired")
	ErrInvalidToken       = errors.New("access token is invalid")
	ErrInvalidCredentials = errors.New("invalid login or password")
	ErrEmptySession       = errors.New("session token is not provided")
	ErrUnauthorized       = errors.New("user is unauthorized to access the resource")
	ErrForbidden          = errors.New("user is forbidden to access the resource")

	// * Business errors.
	ErrQuantityOutOfRange  = errors.New("quantity is out of allowed range")
	ErrAmountBelowMinimum  = errors.New("charge amount is below the provider minimum")
	ErrInvalidTransition   = errors.New("order status transition is not allowed")
	ErrOrderNotDeletable   = errors.New("paid or completed orders cannot be deleted")
	ErrMissingCardFields   = errors.New("card fields are required for credit card payment")
	ErrMissingEvidence     = errors.New("sell orders require both screenshot uploads")
	ErrUnsupportedMethod   = errors.New("payment method is not supported by the provider")
	ErrSellNotPayable      = errors.New("sell orders are not processed by online payment")
	ErrPackageNotAvailable = errors.New("coin package is not available")
	ErrWebhookSignature    = errors.New("webhook signature is missing or invalid")
)

// GatewayError wraps a payment provider failure, keeping the provider's
// own message for the caller. The order that triggered the charge is left
// in its prior state when this is returned.
type GatewayError struct {
	Provider string
	Message  string
	Err      error
}

func (e *GatewayError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Provider, e.Message)
	}
	return fmt.Sprintf("%s: gateway request failed", e.Provider)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}
