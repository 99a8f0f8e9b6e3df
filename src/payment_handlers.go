package main

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/Ryan-Shaik/TechWave/src/checkout"
	"github.com/Ryan-Shaik/TechWave/src/models"
	"github.com/Ryan-Shaik/TechWave/src/payments"
	"github.com/Ryan-Shaik/TechWave/src/types"
	"github.com/gin-gonic/gin"
)

func paymentHandlers(g *gin.RouterGroup, app *App) *gin.RouterGroup {
	g.GET("/config", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{
			"publishableKey": app.Config.Stripe.PublishableKey,
			"currency":       app.Config.Payments.Currency,
		})
	})

	g.GET("/tiers", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, models.Tiers())
	})

	g.POST("/create-payment-intent", func(ctx *gin.Context) {
		var body types.CreatePaymentIntentRequestBody
		if err := ctx.ShouldBindJSON(&body); err != nil {
			log.Printf("Invalid payment intent request: %s\n", err.Error())
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "amount must be a positive number"})
			return
		}
		currency := body.Currency
		if currency == "" {
			currency = app.Config.Payments.Currency
		}
		if app.Intents == nil {
			log.Println("[Payments] No payment processor configured")
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Payment processor is not configured"})
			return
		}
		pi, err := app.Intents.CreateIntent(ctx.Request.Context(), payments.IntentParams{
			Amount:   body.Amount,
			Currency: currency,
		})
		if err != nil {
			log.Printf("[Payments] Error creating payment intent: %s\n", err.Error())
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusOK, pi)
	})

	g.POST("/checkout", func(ctx *gin.Context) {
		var body types.CheckoutRequestBody
		if err := ctx.ShouldBindJSON(&body); err != nil {
			log.Printf("Invalid checkout request: %s\n", err.Error())
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "quantity must be between 1 and 10"})
			return
		}
		key := strings.TrimSpace(ctx.GetHeader("Idempotency-Key"))
		if key == "" {
			key = strings.TrimSpace(body.CheckoutKey)
		}
		r, err := app.Initializer.Initialize(ctx.Request.Context(), key, body.Tier, body.Quantity)
		if err != nil {
			switch {
			case errors.Is(err, checkout.ErrAlreadyInitializing):
				ctx.JSON(http.StatusConflict, gin.H{"error": "Checkout is already being initialized"})
			case errors.Is(err, checkout.ErrInvalidQuantity):
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			default:
				log.Printf("[Checkout] Initialization failed: %s\n", err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "An unexpected error occurred"})
			}
			return
		}
		ctx.JSON(http.StatusOK, r)
	})

	return g
}
