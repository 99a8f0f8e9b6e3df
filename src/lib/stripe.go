package lib

import (
	"github.com/Ryan-Shaik/TechWave/src/config"
	"github.com/stripe/stripe-go/v82"
)

var stripeClient *stripe.Client

// GetStripeClient returns nil when no secret key is configured.
func GetStripeClient() *stripe.Client {
	if stripeClient != nil {
		return stripeClient
	}
	apiKey := config.Get().Stripe.SecretKey
	if apiKey == "" {
		return nil
	}
	sc := stripe.NewClient(apiKey)
	stripeClient = sc

	return sc
}

func NewStripeClient(c *stripe.Client) {
	stripeClient = c
}
