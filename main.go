package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"stashbox/config"
	"stashbox/database"
	"stashbox/handlers"
	"stashbox/logger"
	"stashbox/middleware"
	"stashbox/models"
	"stashbox/repositories"
	"stashbox/services"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		logger.Fatalf("load config failed: %v", err)
	}
	logger.SetLevel(cfg.Log.Level)
	defer logger.Sync()
	logger.Infof("starting stashbox service")

	if err := database.InitMySQL(&cfg.Database); err != nil {
		logger.Fatalf("init mysql failed: %v", err)
	}

	if err := database.DB.AutoMigrate(
		&models.User{},
		&models.UserUsage{},
		&models.StoredFile{},
		&models.Item{},
		&models.ItemFile{},
		&models.Tag{},
		&models.ItemTag{},
		&models.Collection{},
		&models.CollectionItem{},
		&models.SharedLink{},
		&models.ShareAccessLog{},
	); err != nil {
		logger.Fatalf("database migration failed: %v", err)
	}
	logger.Infof("database migration completed")

	if err := database.InitRedis(&cfg.Redis); err != nil {
		logger.Fatalf("init redis failed: %v", err)
	}

	if err := os.MkdirAll(filepath.Join(cfg.Storage.BasePath, "files"), 0o755); err != nil {
		logger.Fatalf("create files dir failed: %v", err)
	}
	if err := os.MkdirAll(filepath.Join(cfg.Storage.BasePath, "thumbnails"), 0o755); err != nil {
		logger.Fatalf("create thumbnails dir failed: %v", err)
	}

	repoContainer := repositories.NewGormRepositories(database.DB, database.RedisClient).BuildContainer()
	serviceContainer := services.NewContainer(&repoContainer)
	handlers.SetServices(serviceContainer)

	serviceContainer.Cleanup.Start(context.Background())

	r := gin.Default()
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.RequestLogger())
	setupRoutes(r)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Infof("server listening on http://%s", addr)
	if err := r.Run(addr); err != nil {
		logger.Fatalf("server start failed: %v", err)
	}
}

func setupRoutes(r *gin.Engine) {
	api := r.Group("/api")

	api.GET("/health", handlers.HealthCheck)

	auth := api.Group("/auth")
	{
		auth.POST("/register", handlers.Register)
		auth.POST("/login", handlers.Login)
	}

	public := api.Group("/public")
	{
		public.POST("/shared-links/:token/access", handlers.AccessSharedLink)
		public.GET("/collections/:slug", handlers.GetPublicCollection)
	}

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.GET("/auth/profile", handlers.GetProfile)
		protected.GET("/user/usage", handlers.GetUsage)

		protected.GET("/items", handlers.ListItems)
		protected.POST("/items", handlers.CreateItem)
		protected.GET("/items/:id", handlers.GetItem)
		protected.PATCH("/items/:id", handlers.UpdateItem)
		protected.DELETE("/items/:id", handlers.DeleteItem)
		protected.POST("/items/:id/pin", handlers.TogglePinItem)
		protected.PUT("/items/:id/files/:fileId/primary", handlers.SetPrimaryItemFile)
		protected.PUT("/items/:id/file-order", handlers.ReorderItemFiles)

		protected.GET("/tags", handlers.ListTags)
		protected.POST("/tags", handlers.CreateTag)
		protected.GET("/tags/:id", handlers.GetTag)
		protected.PATCH("/tags/:id", handlers.UpdateTag)
		protected.DELETE("/tags/:id", handlers.DeleteTag)

		protected.GET("/collections", handlers.ListCollections)
		protected.POST("/collections", handlers.CreateCollection)
		protected.GET("/collections/:id", handlers.GetCollection)
		protected.PATCH("/collections/:id", handlers.UpdateCollection)
		protected.DELETE("/collections/:id", handlers.DeleteCollection)
		protected.PUT("/collections/:id/move", handlers.MoveCollection)
		protected.POST("/collections/:id/items", handlers.AddCollectionItems)
		protected.DELETE("/collections/:id/items", handlers.RemoveCollectionItems)

		protected.GET("/shared-links", handlers.ListSharedLinks)
		protected.POST("/shared-links", handlers.CreateSharedLink)
		protected.GET("/shared-links/:id", handlers.GetSharedLink)
		protected.POST("/shared-links/:id/revoke", handlers.RevokeSharedLink)
		protected.DELETE("/shared-links/:id", handlers.DeleteSharedLink)
	}
}
