package repository

import (
	"context"
	"errors"

	"task-management-backend/app/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TaskRepository mendefinisikan operasi task beserta submission-nya.
type TaskRepository interface {
	// CreateWithSubmissions menyimpan task lalu membuat 1 submission
	// not_submitted untuk setiap siswa, dalam satu transaksi.
	// Mengembalikan jumlah submission yang dibuat.
	CreateWithSubmissions(ctx context.Context, task *model.Task) (int, error)

	FindByID(ctx context.Context, id uuid.UUID) (*model.Task, error)

	// FindDetail memuat task + creator + submissions (dengan user).
	FindDetail(ctx context.Context, id uuid.UUID) (*model.Task, error)

	// FindAll mengambil semua task terbaru dulu, lengkap dengan submissions.
	FindAll(ctx context.Context) ([]model.Task, error)

	// FindByCreator mengambil task milik 1 guru, terbaru dulu.
	FindByCreator(ctx context.Context, creatorID uuid.UUID) ([]model.Task, error)

	Update(ctx context.Context, task *model.Task) error

	// Finalize menyimpan task dan mengubah status semua submission yang
	// masih not_submitted menjadi status, dalam satu transaksi.
	Finalize(ctx context.Context, task *model.Task, status string) (int64, error)

	// DeleteWithSubmissions menghapus submissions lalu task-nya.
	DeleteWithSubmissions(ctx context.Context, id uuid.UUID) error
}

type taskRepository struct {
	db *gorm.DB
}

// NewTaskRepository membuat instance repository task.
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) CreateWithSubmissions(ctx context.Context, task *model.Task) (int, error) {
	if task == nil || task.CreatedBy == uuid.Nil {
		return 0, errors.New("CreatedBy harus di-set sebelum CreateWithSubmissions()")
	}

	created := 0
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Step 1: insert task
		if err := tx.Omit(clause.Associations).Create(task).Error; err != nil {
			return err
		}

		// Step 2: ambil semua siswa di dalam transaksi yang sama
		students, err := findStudents(tx)
		if err != nil {
			return err
		}
		if len(students) == 0 {
			return nil
		}

		// Step 3: fan-out submission
		subs := make([]model.TaskSubmission, 0, len(students))
		for i := range students {
			userID := students[i].ID
			subs = append(subs, model.TaskSubmission{
				TaskID: task.ID,
				UserID: &userID,
				Status: model.StatusNotSubmitted,
			})
		}
		if err := tx.Omit(clause.Associations).CreateInBatches(&subs, 200).Error; err != nil {
			return err
		}
		created = len(subs)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return created, nil
}

func (r *taskRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *taskRepository) FindDetail(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).
		Preload("Creator").
		Preload("Submissions", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Submissions.User").
		Where("id = ?", id).
		First(&task).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *taskRepository) FindAll(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Preload("Submissions").
		Preload("Submissions.User").
		Order("created_at DESC").
		Find(&tasks).Error
	return tasks, err
}

func (r *taskRepository) FindByCreator(ctx context.Context, creatorID uuid.UUID) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Preload("Creator").
		Preload("Submissions").
		Preload("Submissions.User").
		Where("created_by = ?", creatorID).
		Order("created_at DESC").
		Find(&tasks).Error
	return tasks, err
}

func (r *taskRepository) Update(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(task).Error
}

func (r *taskRepository) Finalize(ctx context.Context, task *model.Task, status string) (int64, error) {
	var affected int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(task).Error; err != nil {
			return err
		}

		// Submission yang sudah dikumpulkan siswa tidak ditimpa.
		res := tx.Model(&model.TaskSubmission{}).
			Where("task_id = ? AND status = ?", task.ID, model.StatusNotSubmitted).
			Update("status", status)
		if res.Error != nil {
			return res.Error
		}
		affected = res.RowsAffected
		return nil
	})
	return affected, err
}

func (r *taskRepository) DeleteWithSubmissions(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&model.TaskSubmission{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&model.Task{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
