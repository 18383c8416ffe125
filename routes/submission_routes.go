package routes

import (
	"net/http"

	"task-management-backend/app/service"
	"task-management-backend/middleware"
	"task-management-backend/utils"

	"github.com/gin-gonic/gin"
)

type SubmissionHandler struct {
	submissionService service.SubmissionService
}

func NewSubmissionHandler(submissionService service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{submissionService: submissionService}
}

// SetupSubmissionRoutes mendaftarkan endpoint /api/task-submissions.
// :id di sini adalah ID task, bukan ID submission.
func (h *SubmissionHandler) SetupSubmissionRoutes(r gin.IRouter, auth service.AuthService) {
	subs := r.Group("/api/task-submissions")
	subs.Use(middleware.AuthMiddleware(auth))
	{
		subs.PUT("/:id", h.Submit)
	}
}

// Submit: siswa mengupload PDF jawaban.
func (h *SubmissionHandler) Submit(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	taskID, ok := paramID(c)
	if !ok {
		return
	}

	file, closer, err := formUpload(c, "pdf_file")
	if err != nil {
		respondError(c, err)
		return
	}
	defer closeQuietly(closer)

	sub, err := h.submissionService.RecordSubmission(c.Request.Context(), actor, taskID, file)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.BuildResponseSuccess("Tugas berhasil dikumpulkan", sub))
}
