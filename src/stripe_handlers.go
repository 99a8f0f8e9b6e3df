package main

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/Ryan-Shaik/TechWave/src/store"
	"github.com/Ryan-Shaik/TechWave/src/types"
	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

func stripeWebhookRoute(g *gin.RouterGroup, app *App) *gin.RouterGroup {
	g.POST("/webhooks/stripe", func(ctx *gin.Context) {
		payload, err := io.ReadAll(ctx.Request.Body)
		if err != nil {
			log.Printf("Error reading request body: %s\n", err.Error())
			ctx.Status(http.StatusServiceUnavailable)
			return
		}
		event, err := webhook.ConstructEventWithOptions(payload, ctx.GetHeader("Stripe-Signature"), app.Config.Stripe.WebhookSecret, webhook.ConstructEventOptions{
			IgnoreAPIVersionMismatch: true,
		})
		if err != nil {
			log.Printf("Error verifying webhook signature: %s\n", err.Error())
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Webhook signature verification failed"})
			return
		}
		log.Printf("[StripeEvent] %s\n", event.Type)

		var to types.PaymentStatus
		switch event.Type {
		case stripe.EventTypePaymentIntentSucceeded:
			to = types.PAYMENT_SUCCEEDED
		case stripe.EventTypePaymentIntentPaymentFailed:
			to = types.PAYMENT_FAILED
		default:
			ctx.JSON(http.StatusOK, gin.H{"received": true})
			return
		}

		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			log.Printf("[Stripe] Error parsing PaymentIntent: %s\n", err.Error())
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment intent payload"})
			return
		}
		p, changed, err := app.Workflow.Reconcile(ctx.Request.Context(), pi.ID, to, "stripe."+string(event.Type))
		switch {
		case errors.Is(err, store.ErrNotFound):
			log.Printf("[Stripe] No purchase for PaymentIntent %s\n", pi.ID)
		case err != nil:
			log.Printf("[Stripe] Error reconciling PaymentIntent %s: %s\n", pi.ID, err.Error())
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update purchase"})
			return
		case changed:
			log.Printf("[Stripe] Purchase %s is now %s\n", p.ID, to)
		}
		ctx.JSON(http.StatusOK, gin.H{"received": true})
	})
	return g
}
