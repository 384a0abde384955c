package ports

import "context"

// PaymentProcessor creates payment intents with an external provider.
type PaymentProcessor interface {
	CreateIntent(ctx context.Context, amount int64, currency string) (clientSecret string, err error)
}
