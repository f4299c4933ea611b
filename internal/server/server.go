package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taskhub/internal/config"
	"taskhub/internal/handler"
	"taskhub/internal/mailer"
	"taskhub/internal/middleware"
	"taskhub/internal/reminder"
	"taskhub/internal/repository"
	"taskhub/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Server struct {
	Engine   *gin.Engine
	DB       *gorm.DB
	Config   *config.Config
	Reminder *reminder.Worker
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

	if err := runMigrations(cfg); err != nil {
		return nil, fmt.Errorf("❌ failed to run migrations: %w", err)
	}
	log.Println("✅ Migrations applied")

	// Setup Gin
	r := gin.Default()
	r.Use(middleware.RequestID())

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	noticeRepo := repository.NewNoticeRepository(db)

	// Initialize services
	taskService := service.NewTaskService(taskRepo, activityRepo, noticeRepo, userRepo)

	// Initialize handlers
	userHandler := handler.NewUserHandler(userRepo, noticeRepo)
	taskHandler := handler.NewTaskHandler(taskService)

	smtpMailer := mailer.NewSMTPMailer(cfg)
	reminderWorker := reminder.NewWorker(taskService, smtpMailer, cfg.ReminderInterval)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": true, "message": "OK"})
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Public routes
	r.POST("/users/register", userHandler.Register)
	r.POST("/users/login", userHandler.Login)

	// Protected routes - require authentication
	authorized := r.Group("/")
	authorized.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	{
		// Task routes
		authorized.POST("/tasks/create", taskHandler.Create)
		authorized.GET("/tasks", taskHandler.List)
		authorized.GET("/tasks/dashboard", taskHandler.Dashboard)
		authorized.GET("/tasks/:id", taskHandler.GetByID)
		authorized.PUT("/tasks/update/:id", taskHandler.Update)
		authorized.PUT("/tasks/change-stage/:id", taskHandler.ChangeStage)
		authorized.PUT("/tasks/:id", taskHandler.Trash)
		authorized.DELETE("/tasks/delete-restore", taskHandler.DeleteRestore)
		authorized.DELETE("/tasks/delete-restore/:id", taskHandler.DeleteRestore)
		authorized.POST("/tasks/activity/:id", taskHandler.PostActivity)
		authorized.GET("/tasks/activities/:id", taskHandler.ListActivities)

		// User routes
		authorized.POST("/users/logout", userHandler.Logout)
		authorized.GET("/users/get-team", userHandler.GetTeamList)
		authorized.PUT("/users/profile", userHandler.UpdateProfile)
		authorized.PUT("/users/change-password", userHandler.ChangePassword)
		authorized.GET("/users/notifications", userHandler.GetNotifications)
		authorized.PUT("/users/read-notification", userHandler.MarkNotificationRead)

		// Admin-only routes
		admin := authorized.Group("/")
		admin.Use(middleware.AdminRequired())
		{
			admin.PUT("/users/activate/:id", userHandler.ActivateProfile)
			admin.DELETE("/users/:id", userHandler.DeleteProfile)
		}
	}

	return &Server{
		Engine:   r,
		DB:       db,
		Config:   cfg,
		Reminder: reminderWorker,
	}, nil
}

// runMigrations накатывает SQL-миграции из каталога migrations
func runMigrations(cfg *config.Config) error {
	dbURL := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName,
	)
	m, err := migrate.New("file://migrations", dbURL)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

func (s *Server) Run() {
	srv := &http.Server{
		Addr:    ":" + s.Config.ServerPort,
		Handler: s.Engine,
	}

	reminderCtx, stopReminder := context.WithCancel(context.Background())
	go s.Reminder.Start(reminderCtx)

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
	stopReminder()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %s", err)
	}

	log.Println("✅ Server exited properly")
}
