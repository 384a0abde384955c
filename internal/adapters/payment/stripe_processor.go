package payment

import (
	"context"
	"errors"

	"github.com/AchilleasB/doctors-portal/booking-service/internal/config"
	"github.com/AchilleasB/doctors-portal/booking-service/internal/core/ports"
	"github.com/sony/gobreaker"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

var errNoClientSecret = errors.New("payment intent has no client secret")

// intentCreator is satisfied by the Stripe PaymentIntents client.
type intentCreator interface {
	New(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
}

// StripeProcessor creates card PaymentIntents through the Stripe API.
type StripeProcessor struct {
	intents intentCreator
	cb      *gobreaker.CircuitBreaker
}

var _ ports.PaymentProcessor = (*StripeProcessor)(nil)

func NewStripeProcessor(secretKey string) *StripeProcessor {
	sc := &client.API{}
	sc.Init(secretKey, nil)
	return newStripeProcessor(sc.PaymentIntents)
}

func newStripeProcessor(intents intentCreator) *StripeProcessor {
	return &StripeProcessor{
		intents: intents,
		cb:      config.NewCircuitBreaker(config.BreakerStripe),
	}
}

func (p *StripeProcessor) CreateIntent(ctx context.Context, amount int64, currency string) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(amount),
		Currency:           stripe.String(currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	params.Context = ctx

	res, err := p.cb.Execute(func() (interface{}, error) {
		return p.intents.New(params)
	})
	if err != nil {
		return "", err
	}

	pi := res.(*stripe.PaymentIntent)
	if pi == nil || pi.ClientSecret == "" {
		return "", errNoClientSecret
	}
	return pi.ClientSecret, nil
}
