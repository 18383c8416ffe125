package routes

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"task-management-backend/app/service"
	"task-management-backend/middleware"
	"task-management-backend/utils"

	"github.com/gin-gonic/gin"
)

// TaskHandler melayani endpoint task. Semua endpoint wajib login.
type TaskHandler struct {
	taskService service.TaskService
	loc         *time.Location // zona waktu untuk due_date tanpa offset
}

func NewTaskHandler(taskService service.TaskService, loc *time.Location) *TaskHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &TaskHandler{taskService: taskService, loc: loc}
}

// SetupTaskRoutes mendaftarkan endpoint /api/tasks.
// /guru didaftarkan sebelum /:id.
func (h *TaskHandler) SetupTaskRoutes(r gin.IRouter, auth service.AuthService) {
	tasks := r.Group("/api/tasks")
	tasks.Use(middleware.AuthMiddleware(auth))
	{
		tasks.GET("", h.ListTasks)
		tasks.POST("", h.CreateTask)
		tasks.GET("/guru", h.ListTasksForTeacher)

		tasks.GET("/:id", h.GetTask)
		tasks.PUT("/:id", h.UpdateTask)
		tasks.DELETE("/:id", h.DeleteTask)
		tasks.GET("/:id/download", h.DownloadAttachment)
		tasks.GET("/:id/user", h.GetTaskForViewer)
		tasks.GET("/:id/activities", h.ListActivities)
	}
}

type taskForm struct {
	Title       *string `form:"title" json:"title"`
	Description *string `form:"description" json:"description"`
	DueDate     *string `form:"due_date" json:"due_date"`
	Completed   *bool   `form:"completed" json:"completed"`
}

// dueDate mengurai due_date. Kosong berarti tidak diisi.
func (h *TaskHandler) dueDate(raw *string) (*time.Time, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	t, err := utils.ParseDateTime(*raw, h.loc)
	if err != nil {
		return nil, utils.BadRequest("Format due_date tidak valid", err).
			WithFields(utils.FieldError{Field: "due_date", Error: "datetime"})
	}
	return &t, nil
}

func (h *TaskHandler) ListTasks(c *gin.Context) {
	tasks, err := h.taskService.ListTasks(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.BuildResponseSuccess("Daftar task", tasks))
}

// CreateTask: hanya guru. Membuat task + satu submission per siswa.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}

	var form taskForm
	if err := c.ShouldBind(&form); err != nil {
		respondError(c, bindError(err))
		return
	}
	due, err := h.dueDate(form.DueDate)
	if err != nil {
		respondError(c, err)
		return
	}

	attachment, closer, err := formUpload(c, "pdf_file")
	if err != nil {
		respondError(c, err)
		return
	}
	defer closeQuietly(closer)

	input := service.CreateTaskInput{Description: form.Description, DueDate: due}
	if form.Title != nil {
		input.Title = *form.Title
	}

	task, count, err := h.taskService.CreateTask(c.Request.Context(), actor, input, attachment)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, utils.BuildResponseSuccess(
		fmt.Sprintf("Task berhasil ditambahkan dengan %d submissions untuk siswa", count), task))
}

func (h *TaskHandler) GetTask(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	task, err := h.taskService.GetTask(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.BuildResponseSuccess("Detail task", task))
}

// UpdateTask: partial update. Task hanya di-finalize kalau form membawa
// completed=true; tanpa field completed status selesai tidak berubah.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	id, ok := paramID(c)
	if !ok {
		return
	}

	var form taskForm
	if err := c.ShouldBind(&form); err != nil {
		respondError(c, bindError(err))
		return
	}
	due, err := h.dueDate(form.DueDate)
	if err != nil {
		respondError(c, err)
		return
	}

	attachment, closer, err := formUpload(c, "pdf_file")
	if err != nil {
		respondError(c, err)
		return
	}
	defer closeQuietly(closer)

	result, err := h.taskService.UpdateTask(c.Request.Context(), actor, id, service.UpdateTaskInput{
		Title:       form.Title,
		Description: form.Description,
		DueDate:     due,
		Completed:   form.Completed,
	}, attachment)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.BuildResponseSuccess("Task berhasil diperbarui", result))
}

func (h *TaskHandler) DeleteTask(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.taskService.DeleteTask(c.Request.Context(), actor, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.BuildResponseSuccess("Task berhasil dihapus", nil))
}

// DownloadAttachment mengirim PDF lampiran task sebagai attachment.
func (h *TaskHandler) DownloadAttachment(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	path, filename, err := h.taskService.DownloadTaskAttachment(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.FileAttachment(path, filename)
}

// GetTaskForViewer: tampilan task sesuai role pemanggil.
func (h *TaskHandler) GetTaskForViewer(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	id, ok := paramID(c)
	if !ok {
		return
	}
	view, err := h.taskService.GetTaskForViewer(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.BuildResponseSuccess("Detail task", view))
}

// ListTasksForTeacher: task buatan guru yang login beserta statistiknya.
func (h *TaskHandler) ListTasksForTeacher(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	list, err := h.taskService.ListTasksForTeacher(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.BuildResponseSuccess("Tasks retrieved successfully", list))
}

func (h *TaskHandler) ListActivities(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	id, ok := paramID(c)
	if !ok {
		return
	}
	report, err := h.taskService.ListTaskActivities(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.BuildResponseSuccess("Riwayat aktivitas task", report))
}
