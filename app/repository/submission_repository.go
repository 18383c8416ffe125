package repository

import (
	"context"

	"task-management-backend/app/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SubmissionRepository menangani tabel task_submissions.
type SubmissionRepository interface {
	// FindByTaskAndUser mencari submission milik siswa untuk task tertentu,
	// sekaligus memuat Task-nya (dibutuhkan untuk due date).
	FindByTaskAndUser(ctx context.Context, taskID, userID uuid.UUID) (*model.TaskSubmission, error)
	Update(ctx context.Context, sub *model.TaskSubmission) error
}

type submissionRepository struct {
	db *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db}
}

func (r *submissionRepository) FindByTaskAndUser(ctx context.Context, taskID, userID uuid.UUID) (*model.TaskSubmission, error) {
	var sub model.TaskSubmission
	err := r.db.WithContext(ctx).
		Preload("Task").
		Where("task_id = ? AND user_id = ?", taskID, userID).
		First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *submissionRepository) Update(ctx context.Context, sub *model.TaskSubmission) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(sub).Error
}
