package repository

import (
	"context"

	"task-management-backend/app/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRepository mendefinisikan kontrak operasi database untuk entity User.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindAll(ctx context.Context) ([]model.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindByNIP(ctx context.Context, nip string) (*model.User, error)
	FindStudents(ctx context.Context) ([]model.User, error)
	CountSubmissions(ctx context.Context, userID uuid.UUID) (int64, error)
	CountCreatedTasks(ctx context.Context, userID uuid.UUID) (int64, error)
}

// userRepository adalah implementasi konkret UserRepository berbasis GORM.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository membuat instance baru userRepository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db}
}

// Create menyimpan data user baru ke database.
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// Update menyimpan seluruh kolom user (partial update sudah diurus service).
func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(user).Error
}

func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.User{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// FindAll → list semua user, urut nama.
func (r *userRepository) FindAll(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).Order("name ASC").Find(&users).Error
	return users, err
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByNIP mencari user berdasarkan NIP (dipakai saat login dan reset password).
func (r *userRepository) FindByNIP(ctx context.Context, nip string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("nip = ?", nip).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindStudents mengambil semua user dengan role student.
func (r *userRepository) FindStudents(ctx context.Context) ([]model.User, error) {
	return findStudents(r.db.WithContext(ctx))
}

func findStudents(db *gorm.DB) ([]model.User, error) {
	var students []model.User
	err := db.Where("role = ?", model.RoleStudent).Order("name ASC").Find(&students).Error
	return students, err
}

// CountSubmissions menghitung submission yang masih mereferensikan user.
func (r *userRepository) CountSubmissions(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.TaskSubmission{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

func (r *userRepository) CountCreatedTasks(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("created_by = ?", userID).
		Count(&count).Error
	return count, err
}
