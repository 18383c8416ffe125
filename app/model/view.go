package model

import (
	"time"

	"github.com/google/uuid"
)

// Actor adalah identitas pemanggil yang diambil dari JWT.
type Actor struct {
	ID   uuid.UUID `json:"id"`
	NIP  string    `json:"nip"`
	Role string    `json:"role"`
}

func (a Actor) IsTeacher() bool { return a.Role == RoleTeacher }
func (a Actor) IsStudent() bool { return a.Role == RoleStudent }

// Label status untuk siswa di GET /api/tasks/:id/user.
const (
	ViewerStatusNotSubmitted = "not_submitted"
	ViewerStatusPending      = "pending"
	ViewerStatusSubmitted    = "submitted"
)

// SubmissionSummary ringkasan untuk guru pemilik task.
type SubmissionSummary struct {
	Total     int `json:"total"`
	Submitted int `json:"submitted"`
	Pending   int `json:"pending"`
}

// TaskView adalah proyeksi task yang berbeda tergantung role viewer.
// Field guru dan field siswa saling eksklusif.
type TaskView struct {
	*Task
	CurrentUser *User `json:"current_user"`

	// guru
	TotalSubmissions  *int               `json:"total_submissions,omitempty"`
	SubmissionSummary *SubmissionSummary `json:"submission_summary,omitempty"`

	// siswa
	UserSubmissionStatus string          `json:"user_submission_status,omitempty"`
	UserHasSubmitted     *bool           `json:"user_has_submitted,omitempty"`
	UserSubmission       *TaskSubmission `json:"user_submission,omitempty"`
}

type StatusSummary struct {
	Done         int `json:"done"`
	Late         int `json:"late"`
	NotSubmitted int `json:"not_submitted"`
}

// TaskSummary adalah satu baris di GET /api/tasks/guru.
type TaskSummary struct {
	ID                   uuid.UUID       `json:"id"`
	Title                string          `json:"title"`
	Description          *string         `json:"description"`
	DueDate              *time.Time      `json:"due_date"`
	Completed            *time.Time      `json:"completed"`
	PDFFile              *string         `json:"pdf_file"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
	Creator              *User           `json:"creator"`
	TotalStudents        int             `json:"total_students"`
	TotalSubmissions     int             `json:"total_submissions"`
	SubmittedCount       int             `json:"submitted_count"` // baris yang punya file
	DoneCount            int             `json:"done_count"`
	LateCount            int             `json:"late_count"`
	StatusSummary        StatusSummary   `json:"status_summary"`
	CompletionPercentage int             `json:"completion_percentage"`
	LatestSubmission     *TaskSubmission `json:"latest_submission"`
}

type TeacherTaskStats struct {
	TotalTasks     int `json:"total_tasks"`
	ActiveTasks    int `json:"active_tasks"`
	CompletedTasks int `json:"completed_tasks"`
}

type TeacherTaskList struct {
	Tasks   []TaskSummary    `json:"tasks"`
	Total   int              `json:"total"`
	Summary TeacherTaskStats `json:"summary"`
}
