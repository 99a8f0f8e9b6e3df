package main

import (
	"bytes"
	"errors"
	"log"
	"net/http"

	"github.com/Ryan-Shaik/TechWave/src/checkout"
	"github.com/Ryan-Shaik/TechWave/src/models"
	"github.com/Ryan-Shaik/TechWave/src/store"
	"github.com/Ryan-Shaik/TechWave/src/tickets"
	"github.com/Ryan-Shaik/TechWave/src/types"
	"github.com/gin-gonic/gin"
)

func outcomeStatus(o checkout.Outcome) int {
	switch {
	case errors.Is(o.Err, checkout.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(o.Err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(o.Err, checkout.ErrSubmissionInFlight), errors.Is(o.Err, models.ErrInvalidTransition):
		return http.StatusConflict
	case o.Step == checkout.StepConfirm:
		return http.StatusPaymentRequired
	}
	return http.StatusInternalServerError
}

func purchaseHandlers(g *gin.RouterGroup, app *App) *gin.RouterGroup {
	purchases := g.Group("/purchases")

	purchases.GET("/:id", func(ctx *gin.Context) {
		var params types.PurchaseURIParams
		if err := ctx.ShouldBindUri(&params); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		p, err := app.Store.Get(ctx.Request.Context(), params.ID)
		if errors.Is(err, store.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": checkout.NotFoundMessage})
			return
		}
		if err != nil {
			log.Printf("[Purchases] Error loading %s: %s\n", params.ID, err.Error())
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load purchase details"})
			return
		}
		ctx.JSON(http.StatusOK, p)
	})

	purchases.PUT("/:id/customer", func(ctx *gin.Context) {
		var params types.PurchaseURIParams
		if err := ctx.ShouldBindUri(&params); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		var body types.CustomerInfoRequestBody
		if err := ctx.ShouldBindJSON(&body); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": checkout.ValidationMessage})
			return
		}
		err := app.Workflow.CollectCustomerInfo(ctx.Request.Context(), params.ID, checkout.CustomerInfo{
			Name:  body.Name,
			Email: body.Email,
			Phone: body.Phone,
		})
		switch {
		case err == nil:
			ctx.JSON(http.StatusOK, gin.H{"purchase_id": params.ID})
		case errors.Is(err, checkout.ErrValidation):
			ctx.JSON(http.StatusBadRequest, gin.H{"error": checkout.ValidationMessage})
		case errors.Is(err, store.ErrNotFound):
			ctx.JSON(http.StatusNotFound, gin.H{"error": checkout.NotFoundMessage})
		case errors.Is(err, models.ErrInvalidTransition):
			ctx.JSON(http.StatusConflict, gin.H{"error": "Purchase is no longer pending"})
		default:
			log.Printf("[Purchases] Error saving customer info for %s: %s\n", params.ID, err.Error())
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "An unexpected error occurred"})
		}
	})

	purchases.POST("/:id/confirm", func(ctx *gin.Context) {
		var params types.PurchaseURIParams
		if err := ctx.ShouldBindUri(&params); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		var body types.ConfirmPaymentRequestBody
		if err := ctx.ShouldBindJSON(&body); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": checkout.ValidationMessage})
			return
		}
		o := app.Workflow.Submit(ctx.Request.Context(), checkout.Submission{
			PurchaseID: params.ID,
			Customer: checkout.CustomerInfo{
				Name:  body.Name,
				Email: body.Email,
				Phone: body.Phone,
			},
			PaymentMethod: body.PaymentMethod,
		})
		if !o.Succeeded() {
			ctx.JSON(outcomeStatus(o), gin.H{"error": o.Message, "step": o.Step})
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"purchase_id": o.PurchaseID, "status": o.Status})
	})

	purchases.GET("/:id/ticket", func(ctx *gin.Context) {
		var params types.PurchaseURIParams
		if err := ctx.ShouldBindUri(&params); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		p, err := app.Store.Get(ctx.Request.Context(), params.ID)
		if errors.Is(err, store.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": checkout.NotFoundMessage})
			return
		}
		if err != nil {
			log.Printf("[Purchases] Error loading %s: %s\n", params.ID, err.Error())
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load purchase details"})
			return
		}
		var buf bytes.Buffer
		if err := app.Passes.WriteQRCode(&buf, p); err != nil {
			if errors.Is(err, tickets.ErrNotPaid) {
				ctx.JSON(http.StatusConflict, gin.H{"error": "Ticket is available once payment succeeds"})
				return
			}
			log.Printf("[Tickets] Error generating pass for %s: %s\n", p.ID, err.Error())
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate ticket"})
			return
		}
		ctx.Data(http.StatusOK, "image/jpeg", buf.Bytes())
	})

	return purchases
}
