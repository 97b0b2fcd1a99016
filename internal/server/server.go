package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"taskboard/internal/auth"
	"taskboard/internal/config"
	"taskboard/internal/handler"
	"taskboard/internal/middleware"
	"taskboard/internal/migration"
	"taskboard/internal/repository"
	"taskboard/internal/service"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Server struct {
	Engine *gin.Engine
	DB     *gorm.DB
	Config *config.Config
}

func Init(cfg *config.Config) (*Server, error) {
	// Setup GORM
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName,
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("❌ failed to connect to DB: %w", err)
	}
	log.Println("✅ Connected to database")

	// Apply pending migrations before serving traffic
	engine := migration.NewEngine(db, cfg.MigrationsDir)
	if err := engine.Run(context.Background()); err != nil {
		return nil, fmt.Errorf("❌ migrations failed: %w", err)
	}
	log.Println("✅ Migrations up to date")

	// Setup Gin
	r := gin.Default()

	expiryHours, err := strconv.Atoi(cfg.JWTExpiryHours)
	if err != nil {
		expiryHours = 24
	}
	tokens := auth.NewTokenManager(cfg.JWTSecret, expiryHours)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	boardRepo := repository.NewBoardRepository(db)
	permRepo := repository.NewPermissionRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	// Initialize services
	authz := service.NewAuthorizationService(boardRepo, userRepo, permRepo)
	queries := service.NewTaskQueryService(taskRepo)

	// Initialize handlers
	userHandler := handler.NewUserHandler(userRepo, tokens)
	boardHandler := handler.NewBoardHandler(boardRepo, authz)
	permHandler := handler.NewPermissionHandler(authz)
	taskHandler := handler.NewTaskHandler(taskRepo, authz, queries)

	// Public routes
	r.POST("/register", userHandler.Register)
	r.POST("/login", userHandler.Login)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Protected routes - require authentication
	authorized := r.Group("/")
	authorized.Use(middleware.JWTAuthMiddleware(tokens))
	{
		// Board routes
		authorized.POST("/boards", boardHandler.Create)
		authorized.GET("/boards", boardHandler.GetAll)
		authorized.GET("/boards/:id", boardHandler.GetByID)
		authorized.PUT("/boards/:id", boardHandler.Update)
		authorized.DELETE("/boards/:id", boardHandler.Delete)

		// Board sharing routes
		authorized.POST("/boards/:id/share", permHandler.Share)
		authorized.DELETE("/boards/:id/share/:user_id", permHandler.Revoke)
		authorized.GET("/boards/:id/share", permHandler.Members)

		// Task routes
		authorized.POST("/boards/:id/tasks", taskHandler.Create)
		authorized.GET("/boards/:id/tasks", taskHandler.List)
		authorized.DELETE("/boards/:id/tasks/completed", taskHandler.ClearCompleted)
		authorized.PUT("/tasks/:id", taskHandler.Update)
		authorized.DELETE("/tasks/:id", taskHandler.Delete)
	}

	return &Server{
		Engine: r,
		DB:     db,
		Config: cfg,
	}, nil
}

func (s *Server) Run() {
	srv := &http.Server{
		Addr:    ":" + s.Config.ServerPort,
		Handler: s.Engine,
	}

	go func() {
		log.Printf("🚀 Server running on port %s\n", s.Config.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Failed to listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %s", err)
	}

	log.Println("✅ Server exited properly")
}
