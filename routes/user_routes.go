package routes

import (
	"net/http"

	"task-management-backend/app/service"
	"task-management-backend/middleware"
	"task-management-backend/utils"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// SetupUserRoutes mendaftarkan endpoint /api/users. userRegister terbuka
// untuk pendaftaran mandiri siswa, sisanya wajib login.
func (h *UserHandler) SetupUserRoutes(r gin.IRouter, auth service.AuthService) {
	users := r.Group("/api/users")
	users.POST("/userRegister", h.RegisterStudent)

	protected := users.Group("")
	protected.Use(middleware.AuthMiddleware(auth))
	{
		protected.GET("", h.ListUsers)
		protected.GET("/:id", h.GetUser)
		protected.PUT("/userUpdate/:id", h.UpdateUser)
		protected.DELETE("/userDelete/:id", h.DeleteUser)
	}
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.BuildResponseSuccess("Daftar user", users))
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	user, err := h.userService.GetUser(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.BuildResponseSuccess("Detail user", user))
}

// RegisterStudent: pendaftaran mandiri, role selalu siswa.
func (h *UserHandler) RegisterStudent(c *gin.Context) {
	var form struct {
		Name     string  `form:"name" json:"name" binding:"required"`
		NIP      string  `form:"nip" json:"nip" binding:"required"`
		Password string  `form:"password" json:"password" binding:"required"`
		Jurusan  *string `form:"jurusan" json:"jurusan"`
		Kelas    *string `form:"kelas" json:"kelas"`
	}
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

	user, err := h.userService.RegisterStudent(c.Request.Context(), service.RegisterInput{
		Name:     form.Name,
		NIP:      form.NIP,
		Password: form.Password,
		Jurusan:  form.Jurusan,
		Kelas:    form.Kelas,
	}, photo)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, utils.BuildResponseSuccess("User berhasil ditambahkan", user))
}

func (h *UserHandler) UpdateUser(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	id, ok := paramID(c)
	if !ok {
		return
	}

	var form struct {
		Name     *string `form:"name" json:"name"`
		NIP      *string `form:"nip" json:"nip"`
		Password *string `form:"password" json:"password"`
		Jurusan  *string `form:"jurusan" json:"jurusan"`
		Kelas    *string `form:"kelas" json:"kelas"`
	}
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

	user, err := h.userService.UpdateUser(c.Request.Context(), actor, id, service.UpdateUserInput{
		Name:     form.Name,
		NIP:      form.NIP,
		Password: form.Password,
		Jurusan:  form.Jurusan,
		Kelas:    form.Kelas,
	}, photo)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.BuildResponseSuccess("User berhasil diperbarui", user))
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	id, ok := paramID(c)
	if !ok {
		return
	}

	if err := h.userService.DeleteUser(c.Request.Context(), actor, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.BuildResponseSuccess("User berhasil dihapus", nil))
}
