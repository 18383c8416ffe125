package service

import (
	"context"
	"errors"
	"io"
	"strings"

	"task-management-backend/app/model"
	"task-management-backend/app/repository"
	"task-management-backend/storage"
	"task-management-backend/utils"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// FileStore adalah kontrak penyimpanan file yang dipakai service.
// *storage.FileStorage memenuhi interface ini.
type FileStore interface {
	Save(r io.Reader, originalName string) (string, error)
	Remove(name string)
	Path(name string) string
	Exists(name string) bool
}

// RegisterInput adalah data pendaftaran user.
type RegisterInput struct {
	Name     string
	NIP      string
	Password string
	Role     string
	Jurusan  *string
	Kelas    *string
}

// LoginResult dikirim ke frontend setelah login berhasil.
type LoginResult struct {
	Token string `json:"token"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// AuthService mendefinisikan apa saja yang bisa dilakukan layanan autentikasi.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput, photo *storage.Upload) (*model.User, error)
	Login(ctx context.Context, nip, password string) (*LoginResult, error)
	Authenticate(token string) (model.Actor, error)
	UpdatePasswordByNIP(ctx context.Context, nip, newPassword string) error
}

type authService struct {
	userRepo repository.UserRepository
	tokens   *utils.TokenManager
	photos   FileStore
}

// NewAuthService menghubungkan Service dengan Repository, token manager,
// dan folder foto profil.
func NewAuthService(userRepo repository.UserRepository, tokens *utils.TokenManager, photos FileStore) AuthService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
		photos:   photos,
	}
}

// Register: mendaftarkan user baru (guru / siswa).
func (s *authService) Register(ctx context.Context, input RegisterInput, photo *storage.Upload) (*model.User, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.NIP = strings.TrimSpace(input.NIP)

	var missing []utils.FieldError
	if input.Name == "" {
		missing = append(missing, utils.FieldError{Field: "name", Error: "required"})
	}
	if input.NIP == "" {
		missing = append(missing, utils.FieldError{Field: "nip", Error: "required"})
	}
	if input.Password == "" {
		missing = append(missing, utils.FieldError{Field: "password", Error: "required"})
	}
	if len(missing) > 0 {
		return nil, utils.BadRequest("Nama, NIP, dan password wajib diisi").WithFields(missing...)
	}

	role, ok := model.NormalizeRole(input.Role)
	if !ok {
		return nil, utils.Validation("Role tidak valid",
			utils.FieldError{Field: "role", Error: "must be student or teacher"})
	}

	if err := s.ensureNIPAvailable(ctx, input.NIP); err != nil {
		return nil, err
	}

	// Hash password, plaintext tidak pernah disimpan.
	hashedPassword, err := hashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:         input.Name,
		NIP:          input.NIP,
		PasswordHash: hashedPassword,
		Role:         role,
		Jurusan:      emptyToNil(input.Jurusan),
		Kelas:        emptyToNil(input.Kelas),
	}

	if photo != nil {
		name, err := s.photos.Save(photo.Content, photo.Filename)
		if err != nil {
			return nil, err
		}
		user.Foto = &name
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if user.Foto != nil {
			s.photos.Remove(*user.Foto)
		}
		return nil, utils.FromDB(err, "User tidak ditemukan")
	}
	return user, nil
}

func (s *authService) ensureNIPAvailable(ctx context.Context, nip string) error {
	_, err := s.userRepo.FindByNIP(ctx, nip)
	switch {
	case err == nil:
		return utils.Conflict("NIP sudah terdaftar").
			WithFields(utils.FieldError{Field: "nip", Error: "already exists"})
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil
	default:
		return utils.FromDB(err, "")
	}
}

// Login: memeriksa apakah NIP dan password cocok lalu membuat token.
func (s *authService) Login(ctx context.Context, nip, password string) (*LoginResult, error) {
	user, err := s.userRepo.FindByNIP(ctx, strings.TrimSpace(nip))
	if err != nil {
		return nil, utils.FromDB(err, "User tidak ditemukan")
	}

	// Bandingkan password inputan dengan hash di database
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, utils.InvalidCredentials("Password salah")
	}

	token, err := s.tokens.GenerateToken(user.ID, user.NIP, user.Role)
	if err != nil {
		return nil, utils.Internal("Gagal membuat token", err)
	}

	return &LoginResult{Token: token, Name: user.Name, Role: user.Role}, nil
}

// Authenticate memvalidasi token dan mengembalikan identitas pemanggil.
// Tidak ada query ke database.
func (s *authService) Authenticate(token string) (model.Actor, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return model.Actor{}, utils.Unauthorized("Authorization token required")
	}

	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return model.Actor{}, utils.Unauthorized("Invalid or expired token", err)
	}

	return model.Actor{ID: claims.UserID, NIP: claims.NIP, Role: claims.Role}, nil
}

// UpdatePasswordByNIP mengganti password berdasarkan NIP.
func (s *authService) UpdatePasswordByNIP(ctx context.Context, nip, newPassword string) error {
	nip = strings.TrimSpace(nip)
	if nip == "" || newPassword == "" {
		return utils.BadRequest("NIP dan password baru wajib diisi")
	}

	user, err := s.userRepo.FindByNIP(ctx, nip)
	if err != nil {
		return utils.FromDB(err, "User dengan NIP tersebut tidak ditemukan")
	}

	hashed, err := hashPassword(newPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = hashed

	return utils.FromDB(s.userRepo.Update(ctx, user), "User dengan NIP tersebut tidak ditemukan")
}

// hashPassword membuat hash bcrypt. Password di atas 72 byte ditolak
// bcrypt dan dilaporkan sebagai input yang salah.
func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", utils.BadRequest("Password maksimal 72 byte", err).
			WithFields(utils.FieldError{Field: "password", Error: "max"})
	}
	if err != nil {
		return "", utils.Internal("Gagal memproses password", err)
	}
	return string(hashed), nil
}

func emptyToNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
