package service

import (
	"context"
	"log"
	"math"
	"strings"
	"time"

	"task-management-backend/app/model"
	"task-management-backend/app/repository"
	"task-management-backend/storage"
	"task-management-backend/utils"

	"github.com/google/uuid"
)

// CreateTaskInput adalah data task baru dari form guru.
type CreateTaskInput struct {
	Title       string
	Description *string
	DueDate     *time.Time
}

// UpdateTaskInput: field nil berarti tidak diubah. Completed true menandai
// task selesai (finalize), false membuka kembali task.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	DueDate     *time.Time
	Completed   *bool
}

// TaskUpdateResult dikembalikan setelah update. FinalizedStatus terisi
// kalau update ini menandai task selesai.
type TaskUpdateResult struct {
	Task            *model.Task `json:"task"`
	FinalizedStatus string      `json:"status_submission,omitempty"`
	Recomputed      int64       `json:"recomputed_submissions"`
}

// TaskService mengatur alur kerja task: pembuatan + fan-out submission,
// update / finalize, hapus, dan berbagai tampilan.
type TaskService interface {
	CreateTask(ctx context.Context, actor model.Actor, input CreateTaskInput, attachment *storage.Upload) (*model.Task, int, error)
	UpdateTask(ctx context.Context, actor model.Actor, id uuid.UUID, input UpdateTaskInput, attachment *storage.Upload) (*TaskUpdateResult, error)
	DeleteTask(ctx context.Context, actor model.Actor, id uuid.UUID) error
	ListTasks(ctx context.Context) ([]model.Task, error)
	GetTask(ctx context.Context, id uuid.UUID) (*model.Task, error)
	GetTaskForViewer(ctx context.Context, actor model.Actor, id uuid.UUID) (*model.TaskView, error)
	ListTasksForTeacher(ctx context.Context, actor model.Actor) (*model.TeacherTaskList, error)
	DownloadTaskAttachment(ctx context.Context, id uuid.UUID) (path string, filename string, err error)
	ListTaskActivities(ctx context.Context, actor model.Actor, id uuid.UUID) (*model.ActivityReport, error)
}

type taskService struct {
	tasks      repository.TaskRepository
	users      repository.UserRepository
	activities repository.ActivityRepository
	files      FileStore
	now        func() time.Time
}

// NewTaskService constructor
func NewTaskService(
	tasks repository.TaskRepository,
	users repository.UserRepository,
	activities repository.ActivityRepository,
	files FileStore,
) TaskService {
	return &taskService{
		tasks:      tasks,
		users:      users,
		activities: activities,
		files:      files,
		now:        time.Now,
	}
}

func (s *taskService) CreateTask(ctx context.Context, actor model.Actor, input CreateTaskInput, attachment *storage.Upload) (*model.Task, int, error) {
	if err := requireTeacher(actor, "Hanya guru yang dapat menambahkan task"); err != nil {
		return nil, 0, err
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, 0, utils.BadRequest("Judul task wajib diisi").
			WithFields(utils.FieldError{Field: "title", Error: "required"})
	}

	task := &model.Task{
		Title:       title,
		Description: emptyToNil(input.Description),
		DueDate:     input.DueDate,
		CreatedBy:   actor.ID,
	}

	if attachment != nil {
		name, err := s.files.Save(attachment.Content, attachment.Filename)
		if err != nil {
			return nil, 0, err
		}
		task.PDFFile = &name
	}

	created, err := s.tasks.CreateWithSubmissions(ctx, task)
	if err != nil {
		// transaksi gagal: file yang sudah tersimpan ikut dibuang
		if task.PDFFile != nil {
			s.files.Remove(*task.PDFFile)
		}
		return nil, 0, utils.FromDB(err, "Task tidak ditemukan")
	}

	log.Printf("[TASK] Task %s dibuat oleh %s dengan %d submissions", task.ID, actor.ID, created)
	recordActivity(ctx, s.activities, actor, task.ID, model.ActionTaskCreated, map[string]any{
		"title":       task.Title,
		"submissions": created,
	})
	return task, created, nil
}

func (s *taskService) UpdateTask(ctx context.Context, actor model.Actor, id uuid.UUID, input UpdateTaskInput, attachment *storage.Upload) (*TaskUpdateResult, error) {
	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, utils.FromDB(err, "Task tidak ditemukan")
	}
	if err := canMutateTask(actor, task); err != nil {
		return nil, err
	}

	// update kolom teks, field kosong tetap nilai lama
	if v := trimmed(input.Title); v != "" {
		task.Title = v
	}
	if v := trimmed(input.Description); v != "" {
		task.Description = &v
	}
	if input.DueDate != nil {
		task.DueDate = input.DueDate
	}

	var oldFile string
	if attachment != nil {
		name, err := s.files.Save(attachment.Content, attachment.Filename)
		if err != nil {
			return nil, err
		}
		if task.PDFFile != nil {
			oldFile = *task.PDFFile
		}
		task.PDFFile = &name
	}

	result := &TaskUpdateResult{Task: task}
	finalize := input.Completed != nil && *input.Completed

	if finalize {
		now := s.now()
		task.Completed = &now
		status := task.StatusAt(now)
		result.FinalizedStatus = status
		result.Recomputed, err = s.tasks.Finalize(ctx, task, status)
	} else {
		if input.Completed != nil {
			task.Completed = nil
		}
		err = s.tasks.Update(ctx, task)
	}
	if err != nil {
		if attachment != nil {
			s.files.Remove(*task.PDFFile)
		}
		return nil, utils.FromDB(err, "Task tidak ditemukan")
	}

	// file lama baru dihapus setelah nama baru tersimpan
	if oldFile != "" {
		s.files.Remove(oldFile)
	}

	action := model.ActionTaskUpdated
	detail := map[string]any{"title": task.Title}
	if finalize {
		action = model.ActionTaskFinalized
		detail["status"] = result.FinalizedStatus
		detail["recomputed"] = result.Recomputed
	}
	recordActivity(ctx, s.activities, actor, task.ID, action, detail)

	return result, nil
}

func (s *taskService) DeleteTask(ctx context.Context, actor model.Actor, id uuid.UUID) error {
	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return utils.FromDB(err, "Task tidak ditemukan")
	}
	if err := canMutateTask(actor, task); err != nil {
		return err
	}

	if err := s.tasks.DeleteWithSubmissions(ctx, id); err != nil {
		return utils.FromDB(err, "Task tidak ditemukan")
	}

	if task.PDFFile != nil {
		s.files.Remove(*task.PDFFile)
	}

	recordActivity(ctx, s.activities, actor, task.ID, model.ActionTaskDeleted, map[string]any{"title": task.Title})
	return nil
}

func (s *taskService) ListTasks(ctx context.Context) ([]model.Task, error) {
	tasks, err := s.tasks.FindAll(ctx)
	if err != nil {
		return nil, utils.FromDB(err, "")
	}
	return tasks, nil
}

func (s *taskService) GetTask(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	task, err := s.tasks.FindDetail(ctx, id)
	if err != nil {
		return nil, utils.FromDB(err, "Task tidak ditemukan")
	}
	return task, nil
}

// GetTaskForViewer: guru pemilik melihat semua submission, siswa hanya
// submission miliknya sendiri.
func (s *taskService) GetTaskForViewer(ctx context.Context, actor model.Actor, id uuid.UUID) (*model.TaskView, error) {
	task, err := s.tasks.FindDetail(ctx, id)
	if err != nil {
		return nil, utils.FromDB(err, "Task tidak ditemukan")
	}

	viewer, err := s.users.FindByID(ctx, actor.ID)
	if err != nil {
		return nil, utils.FromDB(err, "User tidak valid")
	}

	view := &model.TaskView{Task: task, CurrentUser: viewer}

	switch {
	case actor.IsTeacher():
		if err := canViewTaskAsOwner(actor, task); err != nil {
			return nil, err
		}
		summary := model.SubmissionSummary{Total: len(task.Submissions)}
		for i := range task.Submissions {
			if task.Submissions[i].HasSubmitted() {
				summary.Submitted++
			}
		}
		summary.Pending = summary.Total - summary.Submitted
		total := summary.Total
		view.TotalSubmissions = &total
		view.SubmissionSummary = &summary

	case actor.IsStudent():
		var own []model.TaskSubmission
		for _, sub := range task.Submissions {
			if sub.UserID != nil && *sub.UserID == actor.ID {
				own = append(own, sub)
			}
		}
		task.Submissions = own

		hasSubmitted := false
		view.UserSubmissionStatus = model.ViewerStatusNotSubmitted
		if len(own) > 0 {
			view.UserSubmission = &own[0]
			if own[0].HasSubmitted() {
				hasSubmitted = true
				view.UserSubmissionStatus = model.ViewerStatusSubmitted
			} else {
				view.UserSubmissionStatus = model.ViewerStatusPending
			}
		}
		view.UserHasSubmitted = &hasSubmitted

	default:
		return nil, utils.Forbidden("Role tidak dikenali")
	}

	return view, nil
}

func (s *taskService) ListTasksForTeacher(ctx context.Context, actor model.Actor) (*model.TeacherTaskList, error) {
	if err := requireTeacher(actor, "Akses ditolak. Hanya guru yang dapat mengakses endpoint ini"); err != nil {
		return nil, err
	}

	tasks, err := s.tasks.FindByCreator(ctx, actor.ID)
	if err != nil {
		return nil, utils.FromDB(err, "")
	}

	list := &model.TeacherTaskList{Tasks: make([]model.TaskSummary, 0, len(tasks))}
	for i := range tasks {
		summary := summarizeTask(&tasks[i])
		list.Tasks = append(list.Tasks, summary)
		if tasks[i].Completed != nil {
			list.Summary.CompletedTasks++
		} else {
			list.Summary.ActiveTasks++
		}
	}
	list.Total = len(list.Tasks)
	list.Summary.TotalTasks = list.Total
	return list, nil
}

// summarizeTask menghitung statistik submission satu task.
func summarizeTask(task *model.Task) model.TaskSummary {
	out := model.TaskSummary{
		ID:               task.ID,
		Title:            task.Title,
		Description:      task.Description,
		DueDate:          task.DueDate,
		Completed:        task.Completed,
		PDFFile:          task.PDFFile,
		CreatedAt:        task.CreatedAt,
		UpdatedAt:        task.UpdatedAt,
		Creator:          task.Creator,
		TotalStudents:    len(task.Submissions),
		TotalSubmissions: len(task.Submissions),
	}

	for i := range task.Submissions {
		sub := &task.Submissions[i]
		switch sub.Status {
		case model.StatusDone:
			out.DoneCount++
		case model.StatusLate:
			out.LateCount++
		}
		if sub.HasSubmitted() {
			out.SubmittedCount++
		}
		if sub.SubmittedAt != nil &&
			(out.LatestSubmission == nil || sub.SubmittedAt.After(*out.LatestSubmission.SubmittedAt)) {
			out.LatestSubmission = sub
		}
	}

	out.StatusSummary = model.StatusSummary{
		Done:         out.DoneCount,
		Late:         out.LateCount,
		NotSubmitted: out.TotalStudents - out.DoneCount - out.LateCount,
	}
	// finalize bisa membuat baris tanpa file berstatus done/late,
	// jadi persentase dihitung dari file yang benar-benar masuk
	out.CompletionPercentage = completionPercentage(out.SubmittedCount, out.TotalStudents)
	return out
}

func completionPercentage(submitted, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(submitted) / float64(total)))
}

func (s *taskService) DownloadTaskAttachment(ctx context.Context, id uuid.UUID) (string, string, error) {
	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return "", "", utils.FromDB(err, "Task tidak ditemukan")
	}
	if task.PDFFile == nil || *task.PDFFile == "" {
		return "", "", utils.NotFound("File PDF tidak tersedia untuk task ini")
	}
	if !s.files.Exists(*task.PDFFile) {
		return "", "", utils.NotFound("File PDF tidak ditemukan di server")
	}
	return s.files.Path(*task.PDFFile), *task.PDFFile, nil
}

// ListTaskActivities: riwayat aktivitas task, hanya untuk guru pembuatnya.
func (s *taskService) ListTaskActivities(ctx context.Context, actor model.Actor, id uuid.UUID) (*model.ActivityReport, error) {
	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, utils.FromDB(err, "Task tidak ditemukan")
	}
	if err := requireTeacher(actor, "Hanya guru yang dapat melihat riwayat task"); err != nil {
		return nil, err
	}
	if err := canViewTaskAsOwner(actor, task); err != nil {
		return nil, err
	}

	activities, err := s.activities.FindByTask(ctx, task.ID.String())
	if err != nil {
		return nil, utils.Internal("Gagal mengambil riwayat aktivitas", err)
	}
	counts, err := s.activities.CountByAction(ctx, task.ID.String())
	if err != nil {
		return nil, utils.Internal("Gagal menghitung riwayat aktivitas", err)
	}
	return &model.ActivityReport{Activities: activities, Counts: counts}, nil
}

// recordActivity mencatat aktivitas. Kegagalan hanya di-log.
func recordActivity(ctx context.Context, repo repository.ActivityRepository, actor model.Actor, taskID uuid.UUID, action string, detail map[string]any) {
	err := repo.Record(ctx, &model.Activity{
		TaskID:  taskID.String(),
		ActorID: actor.ID.String(),
		Action:  action,
		Detail:  detail,
	})
	if err != nil {
		log.Printf("[ACTIVITY] Gagal mencatat %s untuk task %s: %v", action, taskID, err)
	}
}
