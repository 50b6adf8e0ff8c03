package router

import (
	"time"

	"github.com/kiwiiwik/snackshack-nz/internal/config"
	"github.com/kiwiiwik/snackshack-nz/internal/handler"
	"github.com/kiwiiwik/snackshack-nz/internal/middleware"
	"github.com/kiwiiwik/snackshack-nz/internal/repository"
	"github.com/kiwiiwik/snackshack-nz/internal/service"
	"github.com/kiwiiwik/snackshack-nz/internal/session"
	"github.com/kiwiiwik/snackshack-nz/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	quickItemRepo := repository.NewQuickItemRepository(db)
	wallpaperRepo := repository.NewWallpaperRepository(db)

	// ── Session store ────────────────────────────────────────────────────────
	sessions := session.NewStore(rdb, time.Duration(cfg.SessionTTLDays)*24*time.Hour)

	// ── Services ─────────────────────────────────────────────────────────────
	kioskSvc := service.NewKioskService(userRepo, productRepo, transactionRepo, quickItemRepo, wallpaperRepo, dispatcher, cfg.PINPepper)
	accountSvc := service.NewAccountService(userRepo, transactionRepo, dispatcher, cfg.PINPepper)
	catalogSvc := service.NewCatalogService(productRepo, quickItemRepo, wallpaperRepo)
	reportSvc := service.NewReportService(transactionRepo, dispatcher)
	tokenSvc := service.NewTokenService(userRepo, cfg)

	// ── Handlers ─────────────────────────────────────────────────────────────
	kioskH := handler.NewKioskHandler(kioskSvc, sessions)
	authH := handler.NewAuthHandler(tokenSvc)
	usersH := handler.NewUsersHandler(accountSvc)
	productsH := handler.NewProductsHandler(catalogSvc)
	quickItemsH := handler.NewQuickItemsHandler(catalogSvc)
	wallpapersH := handler.NewWallpapersHandler(catalogSvc)
	reportsH := handler.NewReportsHandler(reportSvc, accountSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Kiosk terminal — no tokens, identity lives in the session. Physical
	// access to the scanner is the trust boundary; the PIN gate covers the
	// accounts that opt in.
	kiosk := r.Group("/kiosk")
	{
		kiosk.GET("/state", kioskH.State)
		kiosk.POST("/scan", kioskH.Scan)
		kiosk.POST("/pin", middleware.LoginRateLimiter(), kioskH.PIN)
		kiosk.POST("/undo", kioskH.Undo)
		kiosk.POST("/logout", kioskH.Logout)
	}

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
	}

	// Management API — admin or superadmin token required
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	adminMW := middleware.RequireRole(middleware.RoleAdmin, middleware.RoleSuperAdmin)
	superMW := middleware.RequireRole(middleware.RoleSuperAdmin)
	admin := r.Group("/v1/admin", jwtMW, adminMW)
	{
		users := admin.Group("/users")
		{
			users.GET("", usersH.List)
			users.POST("", usersH.Create)
			users.GET("/:id", usersH.Get)
			users.PUT("/:id", usersH.Update)
			users.DELETE("/:id", usersH.Delete)
			users.POST("/:id/payments", usersH.Payment)
			users.GET("/:id/transactions", usersH.History)
			users.PUT("/:id/pin", usersH.SetPIN)
			users.DELETE("/:id/pin", usersH.ClearPIN)
		}

		products := admin.Group("/products")
		{
			products.GET("", productsH.List)
			products.POST("", productsH.Create)
			products.GET("/:upc", productsH.Get)
			products.PUT("/:upc", productsH.Update)
			products.DELETE("/:upc", productsH.Delete)
			products.POST("/:upc/audit", productsH.Audit)
		}

		quick := admin.Group("/quick-items")
		{
			quick.GET("", quickItemsH.List)
			quick.POST("", quickItemsH.Create)
			quick.PUT("/:id", quickItemsH.Update)
			quick.DELETE("/:id", quickItemsH.Delete)
		}

		wallpapers := admin.Group("/wallpapers")
		{
			wallpapers.GET("", wallpapersH.List)
			wallpapers.POST("", wallpapersH.Create)
			wallpapers.POST("/:id/activate", wallpapersH.Activate)
			wallpapers.DELETE("/:id", wallpapersH.Delete)
		}

		reports := admin.Group("/reports")
		{
			reports.GET("/monthly", reportsH.Monthly)
			reports.GET("/export.csv", reportsH.ExportCSV)
			reports.POST("/daily", reportsH.TriggerDaily)
		}

		// Destructive — superadmin only
		admin.DELETE("/transactions", superMW, reportsH.PurgeTransactions)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
