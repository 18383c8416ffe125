package middleware

import (
	"net/http"
	"strings"

	"task-management-backend/app/model"
	"task-management-backend/app/service"
	"task-management-backend/utils"

	"github.com/gin-gonic/gin"
)

// Key context yang diisi AuthMiddleware.
const (
	ContextActor  = "actor"
	ContextUserID = "userID"
	ContextRole   = "role"
)

// AuthMiddleware memvalidasi JWT dari header Authorization (Bearer token)
// dan menyimpan identitas pemanggil (actor, userID, role) ke dalam context.
func AuthMiddleware(auth service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				utils.BuildResponseFailed("Authorization token required", utils.KindUnauthorized.String(), nil))
			return
		}

		// Validasi token (signature + expired) tanpa query ke database
		actor, err := auth.Authenticate(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			status, resp := utils.BuildResponseFromError(err, gin.IsDebugging())
			c.AbortWithStatusJSON(status, resp)
			return
		}

		c.Set(ContextActor, actor)
		c.Set(ContextUserID, actor.ID)
		c.Set(ContextRole, actor.Role)

		c.Next()
	}
}

// CurrentActor mengambil identitas pemanggil yang diset AuthMiddleware.
func CurrentActor(c *gin.Context) (model.Actor, bool) {
	v, ok := c.Get(ContextActor)
	if !ok {
		return model.Actor{}, false
	}
	actor, ok := v.(model.Actor)
	return actor, ok
}
