package service

import (
	"context"
	"errors"
	"log"
	"strings"

	"task-management-backend/app/model"
	"task-management-backend/app/repository"
	"task-management-backend/storage"
	"task-management-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UpdateUserInput: field nil berarti tidak diubah.
type UpdateUserInput struct {
	Name     *string
	NIP      *string
	Password *string
	Jurusan  *string
	Kelas    *string
}

type UserService interface {
	ListUsers(ctx context.Context) ([]model.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*model.User, error)
	RegisterStudent(ctx context.Context, input RegisterInput, photo *storage.Upload) (*model.User, error)
	UpdateUser(ctx context.Context, actor model.Actor, id uuid.UUID, input UpdateUserInput, photo *storage.Upload) (*model.User, error)
	DeleteUser(ctx context.Context, actor model.Actor, id uuid.UUID) error
}

type userService struct {
	repo   repository.UserRepository
	auth   AuthService
	photos FileStore
}

func NewUserService(repo repository.UserRepository, auth AuthService, photos FileStore) UserService {
	return &userService{repo: repo, auth: auth, photos: photos}
}

func (s *userService) ListUsers(ctx context.Context) ([]model.User, error) {
	users, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, utils.FromDB(err, "")
	}
	return users, nil
}

func (s *userService) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, utils.FromDB(err, "User tidak ditemukan")
	}
	return user, nil
}

// RegisterStudent: pendaftaran mandiri, role selalu student.
func (s *userService) RegisterStudent(ctx context.Context, input RegisterInput, photo *storage.Upload) (*model.User, error) {
	input.Role = model.RoleStudent
	return s.auth.Register(ctx, input, photo)
}

// UpdateUser melakukan partial update. Foto lama dihapus kalau diganti,
// sama seperti lampiran task.
func (s *userService) UpdateUser(ctx context.Context, actor model.Actor, id uuid.UUID, input UpdateUserInput, photo *storage.Upload) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, utils.FromDB(err, "User tidak ditemukan")
	}
	if err := canManageUser(actor, user); err != nil {
		return nil, err
	}

	if v := trimmed(input.Name); v != "" {
		user.Name = v
	}
	if v := trimmed(input.NIP); v != "" && v != user.NIP {
		existing, err := s.repo.FindByNIP(ctx, v)
		switch {
		case err == nil && existing.ID != user.ID:
			return nil, utils.Conflict("NIP sudah terdaftar").
				WithFields(utils.FieldError{Field: "nip", Error: "already exists"})
		case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, utils.FromDB(err, "")
		}
		user.NIP = v
	}
	if v := trimmed(input.Jurusan); v != "" {
		user.Jurusan = &v
	}
	if v := trimmed(input.Kelas); v != "" {
		user.Kelas = &v
	}

	// Password hanya di-hash ulang kalau diisi
	if input.Password != nil && *input.Password != "" {
		hashed, err := hashPassword(*input.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hashed
	}

	var oldFoto string
	if photo != nil {
		name, err := s.photos.Save(photo.Content, photo.Filename)
		if err != nil {
			return nil, err
		}
		if user.Foto != nil {
			oldFoto = *user.Foto
		}
		user.Foto = &name
	}

	if err := s.repo.Update(ctx, user); err != nil {
		if photo != nil {
			s.photos.Remove(*user.Foto)
		}
		return nil, utils.FromDB(err, "User tidak ditemukan")
	}

	if oldFoto != "" {
		s.photos.Remove(oldFoto)
	}
	return user, nil
}

// DeleteUser menolak penghapusan selama masih ada submission (atau task
// buatan user ini) yang mereferensikannya.
func (s *userService) DeleteUser(ctx context.Context, actor model.Actor, id uuid.UUID) error {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return utils.FromDB(err, "User tidak ditemukan")
	}
	if err := canManageUser(actor, user); err != nil {
		return err
	}

	subs, err := s.repo.CountSubmissions(ctx, id)
	if err != nil {
		return utils.FromDB(err, "")
	}
	if subs > 0 {
		return utils.Conflict("User tidak bisa dihapus karena masih memiliki task submissions terkait")
	}

	tasks, err := s.repo.CountCreatedTasks(ctx, id)
	if err != nil {
		return utils.FromDB(err, "")
	}
	if tasks > 0 {
		return utils.Conflict("User tidak bisa dihapus karena masih memiliki task yang dibuat")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return utils.FromDB(err, "User tidak ditemukan")
	}

	if user.Foto != nil {
		s.photos.Remove(*user.Foto)
	}
	log.Printf("[USER] User %s (%s) dihapus oleh %s", user.ID, user.NIP, actor.ID)
	return nil
}

func trimmed(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
