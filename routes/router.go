package routes

import (
	"net/http"
	"time"

	"task-management-backend/app/service"
	"task-management-backend/middleware"

	"github.com/gin-gonic/gin"
)

// Services dikumpulkan di main.go lalu dioper ke NewRouter.
type Services struct {
	Auth        service.AuthService
	Users       service.UserService
	Tasks       service.TaskService
	Submissions service.SubmissionService
}

// RouterConfig berisi pengaturan HTTP yang berasal dari config.
type RouterConfig struct {
	UploadDir   string
	PhotoDir    string
	CORSOrigins []string
	Location    *time.Location
}

// NewRouter menyusun gin.Engine lengkap: middleware, static file, dan semua endpoint.
func NewRouter(svc Services, cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(middleware.CORSMiddleware(cfg.CORSOrigins))

	// file upload bisa diakses langsung
	if cfg.UploadDir != "" {
		r.Static("/uploads", cfg.UploadDir)
	}
	if cfg.PhotoDir != "" {
		r.Static("/uploadFoto", cfg.PhotoDir)
	}

	NewAuthHandler(svc.Auth).SetupAuthRoutes(r)
	NewUserHandler(svc.Users).SetupUserRoutes(r, svc.Auth)
	NewTaskHandler(svc.Tasks, cfg.Location).SetupTaskRoutes(r, svc.Auth)
	NewSubmissionHandler(svc.Submissions).SetupSubmissionRoutes(r, svc.Auth)

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Task Management API RUNNING",
			"version": "1.0.0",
		})
	})

	return r
}
