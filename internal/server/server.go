package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taskboard/internal/config"
	"taskboard/internal/handler"
	"taskboard/internal/middleware"
	"taskboard/internal/repository"
	"taskboard/internal/service"
	"taskboard/migrations"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"golang.org/x/crypto/bcrypt"
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

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("❌ failed to get DB handle: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("❌ DB health check failed: %w", err)
	}
	log.Println("✅ Connected to database")

	if err := runMigrations(sqlDB, cfg.DBName); err != nil {
		return nil, fmt.Errorf("❌ migrations failed: %w", err)
	}
	log.Println("✅ Migrations applied")

	adminHash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("❌ failed to hash admin password: %w", err)
	}

	// Setup Gin
	r := gin.Default()
	r.Use(middleware.RequestID())

	// Initialize repositories
	taskRepo := repository.NewTaskRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	kpiRepo := repository.NewKPIRepository(db)

	// Initialize services
	taskService := service.NewTaskService(taskRepo)
	employeeService := service.NewEmployeeService(employeeRepo)
	kpiService := service.NewKPIService(kpiRepo)

	// Initialize handlers
	taskHandler := handler.NewTaskHandler(taskService)
	employeeHandler := handler.NewEmployeeHandler(employeeService)
	kpiHandler := handler.NewKPIHandler(kpiService)
	authHandler := handler.NewAuthHandler(cfg.AdminUser, adminHash, cfg.JWTSecret)

	// Public routes
	r.GET("/health", healthCheck(db))
	r.POST("/login", authHandler.Login)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Protected routes - require authentication
	authorized := r.Group("/")
	authorized.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	{
		// Task routes
		authorized.GET("/tasks", taskHandler.List)
		authorized.GET("/tasks/:id", taskHandler.GetByID)
		authorized.POST("/tasks", taskHandler.Create)
		authorized.PUT("/tasks/:id", taskHandler.Update)
		authorized.PATCH("/tasks/:id/status", taskHandler.SetStatus)
		authorized.DELETE("/tasks/:id", taskHandler.Delete)

		// Employee routes
		authorized.GET("/employees", employeeHandler.List)
		authorized.POST("/employees", employeeHandler.Create)
		authorized.DELETE("/employees/:id", employeeHandler.Delete)

		// KPI dashboard
		authorized.GET("/kpi", kpiHandler.Report)
	}

	return &Server{
		Engine: r,
		DB:     db,
		Config: cfg,
	}, nil
}

// runMigrations applies the embedded schema on top of the live store
// handle. An already up-to-date schema is not an error.
func runMigrations(sqlDB *sql.DB, dbName string) error {
	driver, err := migratepg.WithInstance(sqlDB, &migratepg.Config{})
	if err != nil {
		return err
	}

	src, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return err
	}

	m, err := migrate.NewWithInstance("iofs", src, dbName, driver)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// healthCheck pings the store handle so load balancers see a dead DB
// as an unhealthy instance.
func healthCheck(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC().Format(time.RFC3339)})
	}
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

	if sqlDB, err := s.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("⚠️  Failed to close DB: %s", err)
		}
	}

	log.Println("✅ Server exited properly")
}
