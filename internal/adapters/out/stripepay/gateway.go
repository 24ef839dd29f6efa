// Package stripepay confirms card payments against Stripe PaymentIntents.
package stripepay

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"orderlifecycle/internal/core/ports"

	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/client"
)

type paymentIntentAPI interface {
	Get(id string, params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
}

// Gateway implements ports.PaymentGateway. A payment reference is the id of a
// PaymentIntent; it is confirmed when Stripe reports it succeeded.
type Gateway struct {
	intents paymentIntentAPI
}

// NewGateway builds a gateway on the Stripe API. backends may be nil.
func NewGateway(apiKey string, backends *stripe.Backends) (*Gateway, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("stripe: api key is required")
	}
	sc := client.New(apiKey, backends)
	return newGateway(sc.PaymentIntents), nil
}

func newGateway(intents paymentIntentAPI) *Gateway {
	return &Gateway{intents: intents}
}

func (g *Gateway) Confirm(ctx context.Context, reference string) (ports.PaymentResult, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return ports.PaymentResult{}, errors.New("stripe: payment reference is required")
	}

	params := &stripe.PaymentIntentParams{}
	params.Context = ctx
	intent, err := g.intents.Get(reference, params)
	if err != nil {
		return ports.PaymentResult{}, fmt.Errorf("stripe: get payment intent: %w", err)
	}

	return ports.PaymentResult{
		Succeeded: intent.Status == stripe.PaymentIntentStatusSucceeded,
		Status:    string(intent.Status),
	}, nil
}
