package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"staymarket/internal/infra/config"
	"staymarket/internal/infra/obs"
)

type PricingHTTP interface {
	Quote(c *gin.Context)
	Confirm(c *gin.Context)
}

type PromotionHTTP interface {
	List(c *gin.Context)
	ListSpecialPrices(c *gin.Context)
	Propose(c *gin.Context)
	ConfirmOverlap(c *gin.Context)
}

type CommissionHTTP interface {
	Create(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
	Toggle(c *gin.Context)
	List(c *gin.Context)
	GetByType(c *gin.Context)
	MissingTypes(c *gin.Context)
	GetSettings(c *gin.Context)
	UpsertSettings(c *gin.Context)
}

type Handlers struct {
	Pricing    PricingHTTP
	Promotion  PromotionHTTP
	Commission CommissionHTTP
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.LoggerMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"X-Request-ID",
		},
		MaxAge: 12 * time.Hour,
	}))

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	api := router.Group("/api/v1")
	if h.Pricing != nil {
		api.POST("/quotes", h.Pricing.Quote)
		api.POST("/bookings", h.Pricing.Confirm)
	}
	if h.Promotion != nil {
		api.GET("/products/:id/promotions", h.Promotion.List)
		api.GET("/products/:id/special-prices", h.Promotion.ListSpecialPrices)
		hostGroup := api.Group("/host/products/:id/promotions")
		hostGroup.POST("/propose", h.Promotion.Propose)
		hostGroup.POST("/confirm", h.Promotion.ConfirmOverlap)
	}
	if h.Commission != nil {
		adminGroup := api.Group("/admin/commissions")
		adminGroup.GET("", h.Commission.List)
		adminGroup.POST("", h.Commission.Create)
		adminGroup.GET("/settings", h.Commission.GetSettings)
		adminGroup.PUT("/settings", h.Commission.UpsertSettings)
		adminGroup.GET("/missing-types", h.Commission.MissingTypes)
		adminGroup.GET("/by-type/:typeId", h.Commission.GetByType)
		adminGroup.PUT("/:id", h.Commission.Update)
		adminGroup.DELETE("/:id", h.Commission.Delete)
		adminGroup.POST("/:id/toggle", h.Commission.Toggle)
	}

	return &http.Server{Addr: cfg.HTTPAddr, Handler: router}
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}

var (
	_ PricingHTTP    = PricingHandler{}
	_ PromotionHTTP  = PromotionHandler{}
	_ CommissionHTTP = CommissionHandler{}
)
