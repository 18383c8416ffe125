package storage

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"task-management-backend/utils"
)

// Ekstensi yang diterima per folder.
var (
	PDFExtensions   = []string{".pdf"}
	ImageExtensions = []string{".jpg", ".jpeg", ".png", ".webp"}
)

// Upload adalah file yang diterima dari request, sudah dilepas dari gin.
type Upload struct {
	Filename string
	Content  io.Reader
}

// FromFileHeader membuka file multipart. Pemanggil wajib menutup closer.
func FromFileHeader(fh *multipart.FileHeader) (*Upload, io.Closer, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, nil, err
	}
	return &Upload{Filename: fh.Filename, Content: f}, f, nil
}

// FileStorage menyimpan file upload di satu folder datar. Nama file selalu
// dibuat oleh server: <unix-millis>-<random><ext>.
type FileStorage struct {
	dir     string
	allowed map[string]bool
}

// NewFileStorage membuat folder kalau belum ada. allowedExt kosong berarti
// semua ekstensi diterima.
func NewFileStorage(dir string, allowedExt ...string) (*FileStorage, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("gagal membuat folder %s: %w", abs, err)
	}

	allowed := make(map[string]bool, len(allowedExt))
	for _, ext := range allowedExt {
		allowed[strings.ToLower(ext)] = true
	}
	return &FileStorage{dir: abs, allowed: allowed}, nil
}

// Dir mengembalikan path absolut folder penyimpanan.
func (s *FileStorage) Dir() string { return s.dir }

// Save menulis isi r ke file baru dan mengembalikan nama file yang disimpan.
func (s *FileStorage) Save(r io.Reader, originalName string) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if len(s.allowed) > 0 && !s.allowed[ext] {
		return "", utils.BadRequest(fmt.Sprintf("Tipe file %q tidak didukung", ext)).
			WithFields(utils.FieldError{Field: "file", Error: "extension not allowed"})
	}

	name := generateName(ext)
	dst, err := os.OpenFile(filepath.Join(s.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", utils.Internal("Gagal menyimpan file", err)
	}

	if _, err := io.Copy(dst, r); err != nil {
		dst.Close()
		os.Remove(dst.Name())
		return "", utils.Internal("Gagal menyimpan file", err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(dst.Name())
		return "", utils.Internal("Gagal menyimpan file", err)
	}
	return name, nil
}

// Remove menghapus file secara best-effort. File yang sudah tidak ada
// bukan error; kegagalan lain hanya di-log.
func (s *FileStorage) Remove(name string) {
	if name == "" {
		return
	}
	err := os.Remove(s.Path(name))
	switch {
	case err == nil:
		log.Printf("[STORAGE] File %s dihapus dari %s", name, s.dir)
	case errors.Is(err, fs.ErrNotExist):
		log.Printf("[STORAGE] File %s tidak ditemukan di %s, skip", name, s.dir)
	default:
		log.Printf("[STORAGE] Gagal menghapus file %s: %v", name, err)
	}
}

// Path mengembalikan path absolut. Komponen direktori dari nama dibuang.
func (s *FileStorage) Path(name string) string {
	return filepath.Join(s.dir, filepath.Base(filepath.Clean("/"+name)))
}

// Exists true kalau file ada dan bukan direktori.
func (s *FileStorage) Exists(name string) bool {
	if name == "" {
		return false
	}
	info, err := os.Stat(s.Path(name))
	return err == nil && !info.IsDir()
}

func generateName(ext string) string {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	return fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), suffix, ext)
}
