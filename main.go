package main

import (
	"context"
	"log"
	"time"

	"task-management-backend/app/repository"
	"task-management-backend/app/service"
	"task-management-backend/config"
	"task-management-backend/database"
	"task-management-backend/routes"
	"task-management-backend/storage"
	"task-management-backend/utils"
)

func main() {

	// =================================================================
	// LOAD CONFIG (.env + environment)
	// =================================================================
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Konfigurasi tidak valid: %v", err)
	}
	loc := utils.LoadLocation(cfg.TimeZone)

	// =================================================================
	// INIT DB (POSTGRES + MONGODB OPSIONAL)
	// =================================================================
	dbConn, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("❌ Gagal koneksi database: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		dbConn.Close(ctx)
	}()

	// =================================================================
	// SEED DATA (guru + siswa contoh)
	// =================================================================
	if cfg.SeedUsers {
		if err := database.SeedUsers(dbConn.Postgres); err != nil {
			log.Fatalf("❌ Gagal seeding user: %v", err)
		}
	}

	// =================================================================
	// STORAGE (PDF + FOTO)
	// =================================================================
	pdfStorage, err := storage.NewFileStorage(cfg.UploadDir, storage.PDFExtensions...)
	if err != nil {
		log.Fatalf("❌ Gagal menyiapkan folder upload: %v", err)
	}
	photoStorage, err := storage.NewFileStorage(cfg.PhotoDir, storage.ImageExtensions...)
	if err != nil {
		log.Fatalf("❌ Gagal menyiapkan folder foto: %v", err)
	}

	tokens, err := utils.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	// =================================================================
	// REPOSITORIES
	// =================================================================
	userRepo := repository.NewUserRepository(dbConn.Postgres)
	taskRepo := repository.NewTaskRepository(dbConn.Postgres)
	submissionRepo := repository.NewSubmissionRepository(dbConn.Postgres)
	activityRepo := repository.NewActivityRepository(dbConn.Mongo)

	// =================================================================
	// SERVICES
	// =================================================================
	authService := service.NewAuthService(userRepo, tokens, photoStorage)
	userService := service.NewUserService(userRepo, authService, photoStorage)
	taskService := service.NewTaskService(taskRepo, userRepo, activityRepo, pdfStorage)
	submissionService := service.NewSubmissionService(submissionRepo, activityRepo, pdfStorage)

	// =================================================================
	// ROUTER
	// =================================================================
	if err := routes.RegisterValidators(); err != nil {
		log.Fatalf("❌ Gagal mendaftarkan validator: %v", err)
	}

	r := routes.NewRouter(routes.Services{
		Auth:        authService,
		Users:       userService,
		Tasks:       taskService,
		Submissions: submissionService,
	}, routes.RouterConfig{
		UploadDir:   pdfStorage.Dir(),
		PhotoDir:    photoStorage.Dir(),
		CORSOrigins: cfg.CORSOrigins,
		Location:    loc,
	})

	// =================================================================
	// START SERVER
	// =================================================================
	log.Println("🚀 Server running at http://localhost:" + cfg.AppPort)

	if err := r.Run(":" + cfg.AppPort); err != nil {
		log.Fatalf("❌ Gagal menjalankan server: %v", err)
	}
}
