package main

import (
	"log"
	"strings"

	"mps-backend/internal/audit"
	"mps-backend/internal/auth"
	"mps-backend/internal/catalog"
	"mps-backend/internal/config"
	"mps-backend/internal/database"
	"mps-backend/internal/models"
	"mps-backend/internal/planning"
	"mps-backend/internal/production"
	"mps-backend/internal/purchase"
	"mps-backend/internal/salesplan"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Println("Veritabanı kapatılamadı:", err)
		}
	}()
	log.Println("Veritabanı bağlantısı başarılı. Migration tamamlandı.")

	store := planning.NewStore(db)
	planSvc := planning.NewService(store, store, store)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Unexpected error:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Beklenmeyen sunucu hatası",
			})
		},
	})

	// CORS origins'i virgülle ayrılmış string'den array'e çevir
	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	// Ürün/hammadde görselleri
	app.Static("/images", cfg.ImagePath)

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register-admin", auth.RegisterAdminHandler(cfg, db))
	api.Post("/auth/login", auth.LoginHandler(cfg, db))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler(db))

	// Admin routes - tanım yönetimi
	adminRoutes := protected.Group("/admin")
	adminRoutes.Use(auth.RequireRole(models.RoleAdmin))

	adminRoutes.Post("/users", auth.CreateUserHandler(db))

	// Ürün yönetimi
	adminRoutes.Post("/products", catalog.CreateProductHandler(db))
	adminRoutes.Put("/products/:id", catalog.UpdateProductHandler(db))
	adminRoutes.Delete("/products/:id", catalog.DeleteProductHandler(db))

	// Hammadde yönetimi
	adminRoutes.Post("/materials", catalog.CreateMaterialHandler(db))
	adminRoutes.Put("/materials/:id", catalog.UpdateMaterialHandler(db))
	adminRoutes.Delete("/materials/:id", catalog.DeleteMaterialHandler(db))

	// Reçete yönetimi
	adminRoutes.Put("/products/:id/bom", catalog.ReplaceBomHandler(db))
	adminRoutes.Post("/products/:id/bom", catalog.CreateBomLineHandler(db))
	adminRoutes.Delete("/bom-lines/:id", catalog.DeleteBomLineHandler(db))

	// Ortak (auth gerektiren) route'lar

	// Tanım listeleri
	protected.Get("/products", catalog.ListProductsHandler(db))
	protected.Get("/products/:id", catalog.GetProductHandler(db))
	protected.Get("/products/:id/bom", catalog.ListBomLinesHandler(db))
	protected.Get("/materials", catalog.ListMaterialsHandler(db))
	protected.Get("/materials/:id", catalog.GetMaterialHandler(db))

	// Dönem başı bakiyeleri
	protected.Put("/opening-balances", planning.UpsertOpeningBalanceHandler(db, store))
	protected.Get("/opening-balances", planning.ListOpeningBalancesHandler(db))

	// Sevk planları
	protected.Get("/sales-plans", salesplan.ListSalesPlansHandler(db))
	protected.Post("/sales-plans/batch", salesplan.BatchUpsertHandler(db))
	protected.Post("/sales-plans/import", salesplan.ImportSalesPlansHandler(db))
	protected.Delete("/sales-plans/:id", salesplan.DeleteSalesPlanHandler(db))

	// Üretim emirleri
	protected.Get("/production-orders", production.ListProductionOrdersHandler(db))
	protected.Post("/production-orders", production.CreateProductionOrderHandler(db))
	protected.Put("/production-orders/:id", production.UpdateProductionOrderHandler(db))
	protected.Put("/production-orders/:id/status", production.UpdateProductionStatusHandler(db))
	protected.Delete("/production-orders/:id", production.DeleteProductionOrderHandler(db))

	// Satınalma siparişleri
	protected.Get("/purchase-orders", purchase.ListPurchaseOrdersHandler(db))
	protected.Get("/purchase-orders/:id", purchase.GetPurchaseOrderHandler(db))
	protected.Post("/purchase-orders", purchase.CreatePurchaseOrderHandler(db))
	protected.Put("/purchase-orders/:id", purchase.UpdatePurchaseOrderHandler(db))
	protected.Put("/purchase-orders/:id/status", purchase.UpdatePurchaseStatusHandler(db))
	protected.Delete("/purchase-orders/:id", purchase.DeletePurchaseOrderHandler(db))

	// Haftalık bakiye projeksiyonu
	protected.Get("/balances/products", planning.ProductBalancesHandler(planSvc))
	protected.Get("/balances/materials", planning.MaterialBalancesHandler(planSvc))

	// Audit logs
	protected.Get("/audit-logs", audit.ListAuditLogsHandler(db))

	log.Println("Server çalışıyor port:", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
