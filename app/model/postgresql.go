package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role user. Nilai lama dari aplikasi sebelumnya (siswa/guru) tetap diterima
// lewat NormalizeRole.
const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
)

// Status pengumpulan tugas per siswa.
const (
	StatusDone         = "done"
	StatusLate         = "late"
	StatusNotSubmitted = "not_submitted"
)

// NormalizeRole memetakan input role ke nilai kanonik.
func NormalizeRole(role string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case RoleStudent, "siswa":
		return RoleStudent, true
	case RoleTeacher, "guru":
		return RoleTeacher, true
	}
	return "", false
}

// User merepresentasikan akun guru maupun siswa.
// Password hash tidak pernah ikut diserialisasi ke JSON.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string    `gorm:"not null" json:"name"`
	NIP          string    `gorm:"column:nip;type:varchar(50);uniqueIndex;not null" json:"nip"`
	PasswordHash string    `gorm:"column:password;not null" json:"-"`
	Role         string    `gorm:"type:varchar(10);not null;check:role IN ('student','teacher')" json:"role"`
	Foto         *string   `json:"foto"`    // nama file di folder uploadFoto
	Jurusan      *string   `json:"jurusan"` // jurusan / peminatan
	Kelas        *string   `json:"kelas"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// Task adalah tugas yang dibuat guru. Completed terisi ketika guru
// menandai tugas selesai (finalize).
type Task struct {
	ID          uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string           `gorm:"not null" json:"title"`
	Description *string          `gorm:"type:text" json:"description"`
	DueDate     *time.Time       `json:"due_date"`
	Completed   *time.Time       `json:"completed"`
	PDFFile     *string          `gorm:"column:pdf_file" json:"pdf_file"`
	CreatedBy   uuid.UUID        `gorm:"type:uuid;not null;index" json:"created_by"`
	Creator     *User            `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
	Submissions []TaskSubmission `gorm:"foreignKey:TaskID" json:"submissions,omitempty"`
	CreatedAt   time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// StatusAt menghitung status pengumpulan untuk waktu at. Tepat di due date
// masih dianggap tepat waktu; task tanpa due date tidak pernah terlambat.
func (t *Task) StatusAt(at time.Time) string {
	if t.DueDate == nil || !at.After(*t.DueDate) {
		return StatusDone
	}
	return StatusLate
}

// TaskSubmission adalah hubungan satu siswa dengan satu task.
// UserID nullable mengikuti skema lama; setiap baris yang dibuat aplikasi
// ini selalu mengisinya.
type TaskSubmission struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	TaskID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"task_id"`
	Task        *Task      `gorm:"foreignKey:TaskID" json:"task,omitempty"`
	UserID      *uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	User        *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	PDFFile     *string    `gorm:"column:pdf_file" json:"pdf_file"`
	SubmittedAt *time.Time `json:"submitted_at"`
	Status      string     `gorm:"type:varchar(20);not null;default:'not_submitted';check:status IN ('done','late','not_submitted')" json:"status"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (s *TaskSubmission) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// HasSubmitted true kalau siswa sudah mengunggah file. Status saja tidak
// cukup: finalize mengubah baris tanpa file menjadi done/late.
func (s *TaskSubmission) HasSubmitted() bool {
	return s.PDFFile != nil && *s.PDFFile != "" && s.SubmittedAt != nil
}
