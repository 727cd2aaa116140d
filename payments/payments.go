// Package payments abstracts the third-party payment widget. The
// storefront never touches card data; it hands the provider a checkout
// description and waits for the widget's outcome.
package payments

import (
	"context"
	"errors"
)

// ErrWindowClosed means the customer dismissed the widget without paying.
// Distinct from a declined or failed payment.
var ErrWindowClosed = errors.New("payment window closed")

// Checkout is everything the provider's widget needs to collect money.
type Checkout struct {
	PublicKey   string `json:"public_key"`
	Email       string `json:"email"`
	AmountMinor int64  `json:"amount"` // minor currency unit, e.g. kobo
	Currency    string `json:"currency"`
	Reference   string `json:"reference"`
}

// Result is the widget's success callback payload.
type Result struct {
	Reference string `json:"reference"`
}

// Widget drives one payment attempt. Open blocks until the widget reports
// success (Result), the customer closes it (ErrWindowClosed), or ctx
// expires.
type Widget interface {
	Open(ctx context.Context, co Checkout) (Result, error)
}
