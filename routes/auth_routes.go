package routes

import (
	"net/http"

	"task-management-backend/app/service"
	"task-management-backend/utils"

	"github.com/gin-gonic/gin"
)

// AuthHandler adalah pengelola request untuk fitur autentikasi.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler dipanggil di main.go untuk menyambungkan Service ke Handler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// SetupAuthRoutes mendaftarkan endpoint /api/auth.
func (h *AuthHandler) SetupAuthRoutes(r gin.IRouter) {
	authGroup := r.Group("/api/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
		authGroup.PUT("/update-password", h.UpdatePassword)
	}
}

// ==================================================================
// HANDLER
// ==================================================================

// registerForm dipakai register guru/siswa (multipart, foto opsional).
type registerForm struct {
	Name     string  `form:"name" json:"name" binding:"required"`
	NIP      string  `form:"nip" json:"nip" binding:"required"`
	Password string  `form:"password" json:"password" binding:"required"`
	Role     string  `form:"role" json:"role" binding:"required,role"`
	Jurusan  *string `form:"jurusan" json:"jurusan"`
	Kelas    *string `form:"kelas" json:"kelas"`
}

func (f registerForm) input() service.RegisterInput {
	return service.RegisterInput{
		Name:     f.Name,
		NIP:      f.NIP,
		Password: f.Password,
		Role:     f.Role,
		Jurusan:  f.Jurusan,
		Kelas:    f.Kelas,
	}
}

// Register membuat user baru dengan role eksplisit.
func (h *AuthHandler) Register(c *gin.Context) {
	var form registerForm
	if err := c.ShouldBind(&form); err != nil {
		respondError(c, bindError(err))
		return
	}

	photo, closer, err := formUpload(c, "foto")
	if err != nil {
		respondError(c, err)
		return
	}
	defer closeQuietly(closer)

	user, err := h.authService.Register(c.Request.Context(), form.input(), photo)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, utils.BuildResponseSuccess("User berhasil didaftarkan", user))
}

// Login memeriksa NIP + password lalu mengembalikan token.
func (h *AuthHandler) Login(c *gin.Context) {
	var input struct {
		NIP      string `json:"nip" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, bindError(err))
		return
	}

	result, err := h.authService.Login(c.Request.Context(), input.NIP, input.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.BuildResponseSuccess("Login berhasil", result))
}

// UpdatePassword mengganti password berdasarkan NIP.
func (h *AuthHandler) UpdatePassword(c *gin.Context) {
	var input struct {
		NIP         string `json:"nip"`
		NewPassword string `json:"newPassword"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, bindError(err))
		return
	}

	if err := h.authService.UpdatePasswordByNIP(c.Request.Context(), input.NIP, input.NewPassword); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.BuildResponseSuccess("Password berhasil diperbarui", nil))
}
