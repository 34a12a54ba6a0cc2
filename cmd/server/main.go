package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sharebox/backend/internal/config"
	"github.com/sharebox/backend/internal/database"
	"github.com/sharebox/backend/internal/handlers"
	"github.com/sharebox/backend/internal/middleware"
	"github.com/sharebox/backend/internal/services"
	"github.com/sharebox/backend/internal/storage"
	"github.com/sharebox/backend/pkg/logger"
	"github.com/sharebox/backend/pkg/utils"
)

func main() {
	logger.Init()

	cfg := config.Load()
	utils.ConfigureJWT(cfg.JWT.Secret, cfg.JWT.ExpirationHours)

	db, err := database.Connect(cfg.DB, cfg.Admin)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}

	storageClient, err := storage.NewMinIOClient(cfg.MinIO)
	if err != nil {
		log.Fatalf("minio initialization failed: %v", err)
	}
	if err := storageClient.EnsureBucket(context.Background()); err != nil {
		log.Fatalf("failed ensuring minio bucket: %v", err)
	}

	accessService := services.NewAccessService(db)
	sharingService := services.NewSharingService(db)
	fileService := services.NewFileService(db, storageClient, accessService)
	adminService := services.NewAdminService(db, storageClient)

	authHandler := handlers.NewAuthHandler(db)
	filesHandler := handlers.NewFilesHandler(fileService, accessService)
	sharesHandler := handlers.NewSharesHandler(sharingService)
	adminHandler := handlers.NewAdminHandler(adminService, fileService)

	authMiddleware := middleware.NewAuthMiddleware(db)

	app := fiber.New(fiber.Config{BodyLimit: 100 * 1024 * 1024})
	app.Use(recover.New(recover.Config{EnableStackTrace: true}))
	app.Use(middleware.CORS())
	app.Use(middleware.RequestLogger())
	app.Use(middleware.SecurityLogger())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	authRoutes := api.Group("/auth")
	authRoutes.Post("/register", authHandler.Register)
	authRoutes.Post("/login", authHandler.Login)
	authRoutes.Get("/me", authMiddleware.RequireAuth, authHandler.Me)

	fileRoutes := api.Group("/files", authMiddleware.RequireAuth)
	fileRoutes.Post("/upload", filesHandler.Upload)
	fileRoutes.Get("/", filesHandler.List)
	fileRoutes.Get("/shared-with-me", sharesHandler.ListSharedWithMe)
	fileRoutes.Get("/:id/download", filesHandler.Download)
	fileRoutes.Post("/:id/share", sharesHandler.ShareFile)
	fileRoutes.Get("/:id/shares", sharesHandler.ListFileShares)
	fileRoutes.Delete("/:id", filesHandler.Delete)

	shareRoutes := api.Group("/shares", authMiddleware.RequireAuth)
	shareRoutes.Delete("/:id", sharesHandler.DeleteShare)

	adminRoutes := api.Group("/admin", authMiddleware.RequireAuth, middleware.AdminOnly)
	adminRoutes.Get("/users", adminHandler.ListUsers)
	adminRoutes.Delete("/users/:id", adminHandler.DeleteUser)
	adminRoutes.Put("/users/:id/admin", adminHandler.SetAdminFlag)
	adminRoutes.Delete("/files/:id", adminHandler.DeleteFile)

	listenAddr := fmt.Sprintf(":%s", cfg.Server.Port)

	logger.Info("server_starting", map[string]interface{}{
		"port":    cfg.Server.Port,
		"address": listenAddr,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(listenAddr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Printf("shutting down server due to signal: %s", sig)
		shutdownDone := make(chan struct{})
		go func() {
			_ = app.Shutdown()
			close(shutdownDone)
		}()
		select {
		case <-shutdownDone:
		case <-time.After(10 * time.Second):
			log.Print("forced shutdown timeout reached")
		}
	case err := <-errCh:
		if err != nil {
			log.Fatalf("server error: %v", err)
		}
	}
}
