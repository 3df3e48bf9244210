package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"time"

	"github.com/phototrack/attendance-backend-go/internal/config"
	appHTTP "github.com/phototrack/attendance-backend-go/internal/handler/http"
	"github.com/phototrack/attendance-backend-go/internal/pkg/database"
	"github.com/phototrack/attendance-backend-go/internal/pkg/jwt"
	"github.com/phototrack/attendance-backend-go/internal/pkg/redis"
	"github.com/phototrack/attendance-backend-go/internal/pkg/storage"
	"github.com/phototrack/attendance-backend-go/internal/repository/mongodb"
	attendanceService "github.com/phototrack/attendance-backend-go/internal/service/attendance"
	authService "github.com/phototrack/attendance-backend-go/internal/service/auth"
	imageService "github.com/phototrack/attendance-backend-go/internal/service/image"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.NewMongo(ctx, cfg.Database.URI, cfg.Database.Name)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB: ", err)
	}
	defer db.Close(context.Background())

	redisClient := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if !redisClient.Healthy(ctx) {
		log.Fatal("Failed to connect to Redis at ", cfg.Redis.Addr)
	}

	fileStorage, err := storage.NewLocalStorage(cfg.Storage.BasePath)
	if err != nil {
		log.Fatal("Failed to initialize local storage: ", err)
	}

	blacklist := jwt.NewRedisBlacklist(redisClient)
	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, blacklist)

	attendanceRepo := mongodb.NewAttendanceRepository(db)
	adminRepo := mongodb.NewAdminRepository(db)

	images := imageService.NewService(fileStorage, cfg.Identity.SimilarityThreshold)
	attendanceSvc := attendanceService.NewService(attendanceRepo, images)
	authSvc := authService.NewService(adminRepo, jwtService)

	if err := authSvc.EnsureDefaultAdmin(ctx); err != nil {
		log.Fatal("Failed to seed default admin: ", err)
	}

	router := appHTTP.NewRouter(
		cfg,
		jwtService,
		appHTTP.NewAuthHandler(authSvc),
		appHTTP.NewAttendanceHandler(attendanceSvc),
		appHTTP.NewUploadHandler(fileStorage),
	)

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("Starting server", "addr", addr, "env", cfg.App.Env)
	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatal("Server stopped: ", err)
	}
}
