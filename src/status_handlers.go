package main

import (
	"net/http"
	"time"

	"github.com/Ryan-Shaik/TechWave/src/probe"
	"github.com/gin-gonic/gin"
)

func storeStatusJSON(ctx *gin.Context, app *App, s probe.Status) {
	ctx.JSON(http.StatusOK, gin.H{
		"store":  app.Store.Name(),
		"status": s,
		"text":   s.Text(),
	})
}

func statusHandlers(g *gin.RouterGroup, app *App) *gin.RouterGroup {
	g.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"stripe":    app.Config.Stripe.SecretKey != "",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	status := g.Group("/store/status")
	status.GET("", func(ctx *gin.Context) {
		if app.Prober == nil {
			storeStatusJSON(ctx, app, probe.Status{Backend: app.Store.Name(), State: probe.StateDisconnected, Error: "no remote store configured"})
			return
		}
		storeStatusJSON(ctx, app, app.Prober.Latest())
	})
	status.POST("", func(ctx *gin.Context) {
		if app.Prober == nil {
			storeStatusJSON(ctx, app, probe.Status{Backend: app.Store.Name(), State: probe.StateDisconnected, Error: "no remote store configured"})
			return
		}
		storeStatusJSON(ctx, app, app.Prober.Check(ctx.Request.Context()))
	})

	return g
}
