package main

import (
	"log/slog"
	"os"
	"strings"

	"bizledger-backend/internal/audit"
	"bizledger-backend/internal/auth"
	"bizledger-backend/internal/config"
	"bizledger-backend/internal/database"
	"bizledger-backend/internal/ledger"
	"bizledger-backend/internal/models"
	"bizledger-backend/internal/notification"
	"bizledger-backend/internal/payment"
	"bizledger-backend/internal/product"
	"bizledger-backend/internal/sale"
	"bizledger-backend/internal/user"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg := config.Load()
	database.Init(cfg)

	gateway := payment.NewRazorpayGateway(cfg.RazorpayKeyID, cfg.RazorpayKeySecret)
	svc := ledger.NewService(database.DB, gateway)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			slog.Error("unexpected error", "path", c.Path(), "err", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "internal server error",
			})
		},
	})

	app.Use(recover.New())
	app.Use(logger.New())

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register-admin", auth.RegisterAdminHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Gateway callback, authenticated by signature instead of JWT
	api.Post("/webhooks/razorpay", payment.WebhookHandler(svc, cfg.RazorpayWebhookSecret))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Ledger accounts
	protected.Post("/accounts", ledger.CreateAccountHandler(svc))
	protected.Get("/accounts", ledger.ListAccountsHandler(svc))
	protected.Get("/accounts/:id", ledger.GetAccountHandler(svc))
	protected.Put("/accounts/:id", ledger.UpdateAccountHandler(svc))
	protected.Delete("/accounts/:id", ledger.DeleteAccountHandler(svc))
	protected.Post("/accounts/:id/recompute-balance", ledger.RecomputeBalanceHandler(svc))
	protected.Get("/accounts/:id/dashboard", ledger.DashboardHandler(svc))
	protected.Get("/accounts/:id/combined-entries", ledger.CombinedEntriesHandler(svc))
	protected.Get("/accounts/:id/entries", ledger.ListEntriesHandler(svc))
	protected.Get("/accounts/:id/transactions", ledger.ListTransactionsHandler(svc))

	// Ledger entries
	protected.Post("/entries", ledger.CreateEntryHandler(svc))
	protected.Get("/entries/:id", ledger.GetEntryHandler(svc))
	protected.Put("/entries/:id", ledger.UpdateEntryHandler(svc))
	protected.Delete("/entries/:id", ledger.DeleteEntryHandler(svc))

	// Payment transactions
	protected.Post("/transactions", ledger.CreateTransactionHandler(svc))
	protected.Get("/transactions/:id", ledger.GetTransactionHandler(svc))
	protected.Put("/transactions/:id", ledger.UpdateTransactionHandler(svc))
	protected.Delete("/transactions/:id", ledger.DeleteTransactionHandler(svc))

	// Products
	protected.Post("/products", product.CreateProductHandler())
	protected.Get("/products", product.ListProductsHandler())
	protected.Get("/products/low-stock", product.LowStockHandler())
	protected.Get("/products/:id", product.GetProductHandler())
	protected.Put("/products/:id", product.UpdateProductHandler())

	// Sales
	protected.Post("/sales", sale.CreateSaleHandler())
	protected.Get("/sales", sale.ListSalesHandler())
	protected.Get("/sales/:id", sale.GetSaleHandler())

	// Gateway passthroughs
	protected.Post("/payments/orders", payment.CreateOrderHandler(gateway))
	protected.Post("/payments/capture", payment.CapturePaymentHandler(gateway))
	protected.Post("/payments/refund", payment.RefundPaymentHandler(gateway))
	protected.Post("/payments/invoices", payment.CreateInvoiceHandler(gateway))

	// Notifications
	protected.Get("/notifications", notification.ListNotificationsHandler())
	protected.Get("/notifications/stats", notification.NotificationStatsHandler())
	protected.Put("/notifications/read-all", notification.MarkAllReadHandler())
	protected.Put("/notifications/:id/read", notification.MarkReadHandler())
	protected.Delete("/notifications/:id", notification.DeleteNotificationHandler())

	// Audit logs
	protected.Get("/audit-logs", audit.ListAuditLogsHandler())

	// Admin routes
	adminRoutes := protected.Group("/admin")
	adminRoutes.Use(auth.RequireRole(models.RoleAdmin))

	adminRoutes.Post("/users", user.CreateUserHandler())
	adminRoutes.Get("/users", user.ListUsersHandler())
	adminRoutes.Get("/users/:id", user.GetUserHandler())
	adminRoutes.Put("/users/:id", user.UpdateUserHandler())
	adminRoutes.Put("/users/:id/password", user.ResetPasswordHandler())

	adminRoutes.Delete("/products/:id", product.DeleteProductHandler())
	adminRoutes.Delete("/sales/:id", sale.DeleteSaleHandler())
	adminRoutes.Post("/notifications", notification.CreateNotificationHandler())

	slog.Info("server listening", "port", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		slog.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
