package routes

import (
	"context"
	"net/http"
	"time"

	"invoice_back_end/internal/handlers/account"
	"invoice_back_end/internal/handlers/order"
	"invoice_back_end/internal/handlers/product"
	"invoice_back_end/internal/handlers/templates"
	"invoice_back_end/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Pinger : dépendance dont /health vérifie la disponibilité
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Deps struct {
	Log            *logrus.Logger
	AllowedOrigins []string
	Sessions       *middleware.Sessions
	Limiter        *middleware.RateLimiter
	Database       Pinger

	Accounts  *account.Handler
	Orders    *order.Handler
	Templates *templates.Handler
	Products  *product.Handler
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	r.Use(middleware.RequestLogger(d.Log))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     d.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Disposition", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(d.Sessions.LoadIdentity())

	r.GET("/health", health(d.Database))

	// Account
	acc := r.Group("/Account")
	{
		acc.GET("/Register", d.Accounts.RegisterForm)
		acc.POST("/Register", d.Limiter.Register(), d.Accounts.Register)
		acc.GET("/Login", d.Accounts.LoginForm)
		acc.POST("/Login", d.Limiter.Login(), d.Accounts.Login)
		acc.GET("/Logout", d.Accounts.Logout)
	}

	// Catalogue (public)
	r.GET("/Product", d.Products.List)
	r.GET("/Product/Search", d.Products.Search)

	// Facture : accès anonyme selon INVOICE_REQUIRE_TOKEN
	r.GET("/Order/GenerateInvoice/:orderId", d.Orders.GenerateInvoice)

	orders := r.Group("/Order", d.Sessions.RequireSession())
	{
		orders.GET("", d.Orders.Index)
		orders.GET("/Create", d.Orders.CreateForm)
		orders.POST("/Create", d.Orders.Create)
		orders.GET("/Payment", d.Orders.PaymentForm)
		orders.POST("/Payment", d.Orders.Payment)
		orders.GET("/OrderPlaced/:orderId", d.Orders.OrderPlaced)
		orders.GET("/InvoiceLink/:orderId", d.Orders.InvoiceLink)
	}

	tpl := r.Group("/Template", d.Sessions.RequireSession(), middleware.RequireAdmin)
	{
		tpl.GET("", d.Templates.Index)
		tpl.GET("/Create", d.Templates.CreateForm)
		tpl.POST("/Create", d.Templates.Create)
		tpl.GET("/Edit/:id", d.Templates.EditForm)
		tpl.POST("/Edit/:id", d.Templates.Edit)
		tpl.GET("/Delete/:id", d.Templates.DeleteConfirm)
		tpl.POST("/Delete/:id", d.Templates.Delete)
	}
}

func health(db Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if db != nil {
			if err := db.PingContext(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "postgres": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
