package routes

import (
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"task-management-backend/app/model"
	"task-management-backend/middleware"
	"task-management-backend/storage"
	"task-management-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// RegisterValidators mendaftarkan rule tambahan ke validator milik gin.
// Dipanggil sekali di main.go sebelum router dipakai.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("validator engine gin bukan go-playground/validator")
	}
	return v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		_, ok := model.NormalizeRole(fl.Field().String())
		return ok
	})
}

// respondError mengirim error domain dalam format APIResponse.
func respondError(c *gin.Context, err error) {
	status, resp := utils.BuildResponseFromError(err, gin.IsDebugging())
	if status >= http.StatusInternalServerError {
		log.Printf("[HTTP] %s %s: %v", c.Request.Method, c.FullPath(), err)
	}
	c.JSON(status, resp)
}

// bindError mengubah error binding gin menjadi BadRequest beserta daftar field.
func bindError(err error) error {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		fields := make([]utils.FieldError, 0, len(ve))
		for _, fe := range ve {
			fields = append(fields, utils.FieldError{
				Field: fieldName(fe),
				Error: fe.Tag(),
			})
		}
		return utils.BadRequest("Input tidak valid", err).WithFields(fields...)
	}
	return utils.BadRequest("Input tidak valid", err)
}

// fieldName: nama field Go ke snake_case sederhana (NewPassword -> new_password).
func fieldName(fe validator.FieldError) string {
	name := fe.Field()
	var b strings.Builder
	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 && !(name[i-1] >= 'A' && name[i-1] <= 'Z') {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

// paramID membaca :id sebagai UUID. Format salah langsung dijawab 400.
func paramID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, utils.BadRequest("ID tidak valid", err).
			WithFields(utils.FieldError{Field: "id", Error: "uuid"}))
		return uuid.Nil, false
	}
	return id, true
}

// actorOf mengambil actor dari context (diset AuthMiddleware).
func actorOf(c *gin.Context) (model.Actor, bool) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		respondError(c, utils.Unauthorized("Authorization token required"))
		return model.Actor{}, false
	}
	return actor, true
}

// formUpload membaca file multipart opsional. Tidak ada file -> nil tanpa error.
// Closer wajib ditutup pemanggil kalau tidak nil.
func formUpload(c *gin.Context, field string) (*storage.Upload, io.Closer, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil, nil
		}
		return nil, nil, utils.BadRequest("File upload tidak valid", err).
			WithFields(utils.FieldError{Field: field, Error: "invalid"})
	}
	return storage.FromFileHeader(fh)
}

func closeQuietly(cl io.Closer) {
	if cl != nil {
		cl.Close()
	}
}
