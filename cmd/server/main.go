package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"invoice_back_end/internal/cache"
	"invoice_back_end/internal/config"
	"invoice_back_end/internal/database"
	"invoice_back_end/internal/handlers/account"
	"invoice_back_end/internal/handlers/order"
	"invoice_back_end/internal/handlers/product"
	"invoice_back_end/internal/handlers/templates"
	"invoice_back_end/internal/logger"
	"invoice_back_end/internal/middleware"
	"invoice_back_end/internal/routes"
	"invoice_back_end/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	boot := logger.New("info", os.Getenv("APP_ENV"))
	cfg := config.Load(boot)
	log := logger.New(cfg.LogLevel, cfg.AppEnv)

	if cfg.SessionSecret == "" {
		if cfg.IsProduction() {
			log.Fatal("❌ SESSION_SECRET manquant dans .env")
		}
		cfg.SessionSecret = "dev-session-secret-change-me"
		log.Warn("⚠️ SESSION_SECRET absent, secret de développement utilisé")
	}

	ctx := context.Background()
	conns, err := database.ConnectDatabases(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Fatal("❌ Connexion PostgreSQL impossible")
	}
	defer conns.Close()

	store := database.NewStore(conns.Postgres)
	if err := store.Migrate(ctx); err != nil {
		log.WithError(err).Fatal("❌ Migration du schéma échouée")
	}
	if err := store.Seed(ctx, log); err != nil {
		log.WithError(err).Fatal("❌ Seed des données échoué")
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	routes.RegisterRoutes(r, buildDeps(ctx, cfg, conns, store, log))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.Port).Info("🚀 Serveur de facturation lancé")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("❌ Serveur HTTP arrêté")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("🛑 Arrêt du serveur...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("❌ Arrêt forcé du serveur")
	}
}

func buildDeps(ctx context.Context, cfg config.Settings, conns *database.Connections, store *database.Store, log *logrus.Logger) routes.Deps {
	var audit services.Auditor = services.NopAuditor{}
	if conns.Scylla != nil {
		audit = services.NewScyllaAuditor(conns.Scylla, cfg.Scylla.Keyspace, log)
	}

	products := cache.NewProductCache(conns.Redis, store, log)

	var searcher services.ProductSearcher
	if conns.Elastic != nil {
		es := services.NewElasticSearcher(conns.Elastic, log)
		if all, err := store.ListProducts(ctx); err != nil {
			log.WithError(err).Warn("⚠️ Catalogue non indexé")
		} else if err := es.IndexProducts(ctx, all); err != nil {
			log.WithError(err).Warn("⚠️ Indexation Elasticsearch échouée")
		}
		searcher = es
	}

	var archive services.InvoiceArchive
	if conns.MinIO != nil {
		archive = services.NewMinioArchive(conns.MinIO, cfg.MinIO.Bucket)
	}

	gateways := services.NewGatewayRegistry(services.SimulatedGateway{})
	if cfg.StripeSecretKey != "" {
		gateways.Register("STRIPE", services.NewStripeGateway(cfg.StripeSecretKey, cfg.StripeCurrency, log))
		log.Info("✅ Stripe initialisé pour la méthode STRIPE")
	}

	if cfg.InvoiceRequireToken && cfg.JWTSecret == "" {
		log.Fatal("❌ INVOICE_REQUIRE_TOKEN actif mais JWT_SECRET manquant")
	}
	if !cfg.InvoiceRequireToken {
		log.Warn("⚠️ GenerateInvoice accessible sans authentification (INVOICE_REQUIRE_TOKEN=false)")
	}

	catalog := services.NewCatalogService(products, searcher, log)
	accounts := services.NewAccountService(store, audit, log)
	orders := services.NewOrderService(store, products, audit, log)
	invoices := services.NewInvoiceService(
		store, store, store, store,
		services.NewChromeRenderer(cfg.ChromeRemoteURL, cfg.PDFTimeout),
		services.NewSMTPMailer(cfg.Email, log),
		archive,
		audit,
		services.InvoiceOptions{
			CurrencySymbol: cfg.CurrencySymbol,
			SenderName:     cfg.Email.SenderName,
			BaseURL:        cfg.BaseURL,
			LinkSecret:     []byte(cfg.JWTSecret),
			CompanyName:    cfg.Company.Name,
			CompanyIBAN:    cfg.Company.IBAN,
			CompanyBIC:     cfg.Company.BIC,
		},
		log,
	)
	payments := services.NewPaymentService(store, store, gateways, invoices, audit, log)
	tpl := services.NewTemplateService(store, audit, log)

	sessions := middleware.NewSessions(cfg.SessionSecret, cfg.IsProduction(), log)

	return routes.Deps{
		Log:            log,
		AllowedOrigins: cfg.CORSOrigins,
		Sessions:       sessions,
		Limiter:        middleware.NewRateLimiter(conns.Redis, log),
		Database:       conns.Postgres,

		Accounts:  account.NewHandler(accounts, sessions, log),
		Orders:    order.NewHandler(orders, catalog, payments, invoices, cfg.InvoiceRequireToken, log),
		Templates: templates.NewHandler(tpl, log),
		Products:  product.NewHandler(catalog, log),
	}
}
