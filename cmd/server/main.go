package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/gridbase/backend/internal/application/services"
	"github.com/gridbase/backend/internal/bootstrap"
	"github.com/gridbase/backend/internal/infrastructure/database"
	"github.com/gridbase/backend/internal/interfaces/middleware"
	"github.com/gridbase/backend/internal/interfaces/rest"
	"github.com/gridbase/backend/pkg/constants"
)

func main() {
	if err := godotenv.Load(); err == nil {
		log.Println("📄 Loaded .env")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "3001"
	}

	db, err := database.GetInstance()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("✅ Database connection established")

	if err := bootstrap.InitializeSchema(db); err != nil {
		log.Fatalf("Failed to initialize schema: %v", err)
	}
	if err := bootstrap.SeedPermissions(db); err != nil {
		log.Fatalf("Failed to seed permissions: %v", err)
	}
	if err := bootstrap.SeedMasterUser(db); err != nil {
		log.Fatalf("Failed to seed master user: %v", err)
	}

	svcMgr := services.NewServiceManager(db)
	log.Println("🔧 Service manager initialized")

	if err := svcMgr.Retention.Start(); err != nil {
		log.Printf("⚠️ Trash retention sweeper failed to start: %v", err)
	}

	router := buildRouter(svcMgr)

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	go func() {
		log.Printf("🚀 Server listening on :%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("🛑 Shutting down...")

	svcMgr.Retention.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Forced shutdown: %v", err)
	}
	log.Println("👋 Server stopped")
}

func buildRouter(svcMgr *services.ServiceManager) *gin.Engine {
	router := gin.Default()
	router.Use(middleware.Cors())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	tableHandler := rest.NewTableHandler(svcMgr.Tables)
	fieldHandler := rest.NewFieldHandler(svcMgr.Fields)
	rowHandler := rest.NewRowHandler(svcMgr.Collections)
	menuHandler := rest.NewMenuHandler(svcMgr.Menus)
	authHandler := rest.NewAuthHandler(svcMgr.Auth)

	requireAuth := middleware.RequireAuth()
	optionalAuth := middleware.OptionalAuth()
	access := func(action constants.TableAction) gin.HandlerFunc {
		return middleware.TableAccess(svcMgr.Access, action)
	}

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.GET("/me", requireAuth, authHandler.Me)
		}

		// Table routes run behind the access decision. Read and create-row
		// routes take OptionalAuth so PUBLIC and FORM tables work anonymously.
		tables := api.Group("/tables")
		{
			tables.POST("", requireAuth, access(constants.ActionCreateTable), tableHandler.Create)
			tables.GET("/:slug", optionalAuth, access(constants.ActionViewTable), tableHandler.Get)
			tables.PATCH("/:slug", requireAuth, access(constants.ActionUpdateTable), tableHandler.Update)
			tables.DELETE("/:slug", requireAuth, access(constants.ActionRemoveTable), tableHandler.Delete)
			tables.PATCH("/:slug/restore", requireAuth, access(constants.ActionRestoreTable), tableHandler.Restore)

			tables.POST("/:slug/fields", requireAuth, access(constants.ActionCreateField), fieldHandler.Create)
			tables.PATCH("/:slug/fields/:id", requireAuth, access(constants.ActionUpdateField), fieldHandler.Update)
			tables.PATCH("/:slug/fields/:id/trash", requireAuth, access(constants.ActionRemoveField), fieldHandler.Trash)
			tables.POST("/:slug/fields/:id/category", requireAuth, access(constants.ActionUpdateField), fieldHandler.AddCategory)

			tables.GET("/:slug/rows", optionalAuth, access(constants.ActionViewRow), rowHandler.List)
			tables.GET("/:slug/rows/:id", optionalAuth, access(constants.ActionViewRow), rowHandler.Get)
			tables.POST("/:slug/rows", optionalAuth, access(constants.ActionCreateRow), rowHandler.Create)
			tables.PATCH("/:slug/rows/:id", requireAuth, access(constants.ActionUpdateRow), rowHandler.Update)
			tables.DELETE("/:slug/rows/:id", requireAuth, access(constants.ActionRemoveRow), rowHandler.Delete)
		}

		menus := api.Group("/menus")
		menus.Use(requireAuth)
		{
			menus.GET("", menuHandler.List)
			menus.POST("", menuHandler.Create)
			menus.PATCH("/:id", menuHandler.Update)
			menus.DELETE("/:id", menuHandler.Delete)
		}
	}

	return router
}
