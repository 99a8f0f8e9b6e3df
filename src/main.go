package main

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path"
	"regexp"
	"syscall"
	"time"

	"github.com/Ryan-Shaik/TechWave/src/boot"
	"github.com/Ryan-Shaik/TechWave/src/checkout"
	"github.com/Ryan-Shaik/TechWave/src/config"
	"github.com/Ryan-Shaik/TechWave/src/lib"
	"github.com/Ryan-Shaik/TechWave/src/middlewares"
	"github.com/Ryan-Shaik/TechWave/src/models"
	"github.com/Ryan-Shaik/TechWave/src/payments"
	"github.com/Ryan-Shaik/TechWave/src/probe"
	"github.com/Ryan-Shaik/TechWave/src/store"
	"github.com/Ryan-Shaik/TechWave/src/tickets"
	"github.com/Ryan-Shaik/TechWave/src/types"
	"github.com/covalenthq/lumberjack"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const apiPrefix string = "/api"

// App holds the collaborators shared by all handlers.
type App struct {
	Config      *config.Config
	Store       store.PurchaseStore
	Prober      *probe.Prober
	// Intents serves the raw create-payment-intent route. It never falls
	// back to mock intents.
	Intents     payments.Processor
	Initializer *checkout.Initializer
	Workflow    *checkout.Workflow
	Passes      *tickets.PassIssuer
}

func NewApp(cfg *config.Config, s *boot.Services) *App {
	return &App{
		Config:  cfg,
		Store:   s.Store,
		Prober:  s.Prober,
		Intents: s.Primary,
		Initializer: &checkout.Initializer{
			Store:     s.Store,
			Processor: s.Processor,
			Guard:     s.Guard,
			Publisher: s.Publisher,
			Currency:  cfg.Payments.Currency,
		},
		Workflow: &checkout.Workflow{
			Store:     s.Store,
			Processor: s.Processor,
			Publisher: s.Publisher,
			AppHost:   cfg.AppHost,
		},
		Passes: tickets.NewPassIssuer(cfg.PassSecret, cfg.PassTTL),
	}
}

func ticketQuantityValidatorFunc(fl validator.FieldLevel) bool {
	q := fl.Field().Int()
	return q >= models.MinQuantity && q <= models.MaxQuantity
}

func registerValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("ticketqty", ticketQuantityValidatorFunc)
	}
}

func setupRouter() *gin.Engine {
	router := gin.Default()
	router.Use(middlewares.SecureHeaders)
	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, "ok")
	})
	return router
}

func maintenanceModeMiddleware(g *gin.Engine, enabled bool) *gin.Engine {
	g.Use(func(ctx *gin.Context) {
		if enabled {
			err := errors.New("server is under maintenance")
			log.Println(err.Error())
			ctx.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
	})
	return g
}

func corsMiddleware(g *gin.Engine, cfg *config.Config) *gin.Engine {
	if cfg.Env == string(types.Local) {
		g.Use(cors.Default())
		return g
	}
	cc := cors.DefaultConfig()
	cc.AllowMethods = append(cc.AllowMethods, "GET", "POST", "PUT", "HEAD")
	cc.AllowHeaders = append(cc.AllowHeaders, "Origin", "Idempotency-Key", "Stripe-Signature")
	allowed := append([]string{cfg.AppHost}, cfg.AllowedOrigins...)
	cc.AllowOriginFunc = func(origin string) bool {
		for _, a := range allowed {
			if a == "" {
				continue
			}
			if match, _ := regexp.MatchString("^"+regexp.QuoteMeta(a)+"$", origin); match {
				return true
			}
		}
		log.Printf("Origin rejected: %s\n", origin)
		return false
	}
	cc.AllowCredentials = true
	cc.AllowAllOrigins = false
	g.Use(cors.New(cc))
	return g
}

func apiGroup(g *gin.Engine) *gin.RouterGroup {
	return g.Group(apiPrefix)
}

func registerRoutes(router *gin.Engine, app *App) {
	api := apiGroup(router)
	paymentHandlers(api, app)
	purchaseHandlers(api, app)
	statusHandlers(api, app)
	stripeWebhookRoute(api, app)
}

func buildRouter(app *App) *gin.Engine {
	router := setupRouter()
	router = corsMiddleware(router, app.Config)
	registerValidations()
	router = maintenanceModeMiddleware(router, app.Config.MaintenanceMode)
	registerRoutes(router, app)
	return router
}

func initLogger(dir string) {
	cwd, _ := os.Getwd()
	logDir := path.Join(cwd, dir)
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		log.Printf("Could not create log directory %s: %s\n", logDir, err.Error())
		return
	}
	serverLogs := path.Join(logDir, "server.log")
	apiLogs := path.Join(logDir, "api.log")
	gin.ForceConsoleColor()

	gin.DefaultWriter = io.MultiWriter(&lumberjack.Logger{
		Filename:   apiLogs,
		MaxSize:    100,
		MaxBackups: 3,
		MaxAge:     30,
		Compress:   true,
	}, os.Stdout)
	log.SetOutput(&lumberjack.Logger{
		Filename:   serverLogs,
		MaxSize:    500,
		MaxBackups: 3,
		MaxAge:     30,
		Compress:   true,
	})
}

func main() {
	ctx := context.Background()
	boot.LoadSecrets(ctx)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading configuration: %s\n", err.Error())
	}
	config.Set(cfg)
	initLogger(cfg.LogDir)
	if cfg.IsProd() {
		gin.SetMode(gin.ReleaseMode)
	}

	if cfg.RemoteStore == config.RemoteFirestore && cfg.AWS.S3SecretsBucket != "" {
		if client, err := lib.AWSGetS3Client(ctx); err == nil {
			if err := boot.DownloadSDKFileFromS3(ctx, cfg, client); err != nil {
				log.Printf("[S3] Could not download credentials: %s\n", err.Error())
			}
		}
	}

	services := boot.Init(ctx, cfg)
	boot.InitScheduler(services.Prober, cfg.ProbeInterval)
	defer boot.StopScheduler()

	app := NewApp(cfg, services)

	router := buildRouter(app)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}
	go func() {
		log.Printf("Listening on %s\n", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %s\n", err.Error())
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %s\n", err.Error())
	}
}
