package routes_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-management-backend/app/repository"
	"task-management-backend/app/service"
	"task-management-backend/database/dbtest"
	"task-management-backend/routes"
	"task-management-backend/storage"
	"task-management-backend/utils"
)

type envelope struct {
	Status  bool               `json:"status"`
	Message string             `json:"message"`
	Data    json.RawMessage    `json:"data"`
	Errors  string             `json:"errors"`
	Details []utils.FieldError `json:"details"`
}

type server struct {
	t      *testing.T
	router *gin.Engine
}

func newServer(t *testing.T) *server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, routes.RegisterValidators())

	db := dbtest.Open(t)
	pdfs, err := storage.NewFileStorage(t.TempDir(), storage.PDFExtensions...)
	require.NoError(t, err)
	photos, err := storage.NewFileStorage(t.TempDir(), storage.ImageExtensions...)
	require.NoError(t, err)
	tokens, err := utils.NewTokenManager("rahasia-test", time.Hour)
	require.NoError(t, err)

	users := repository.NewUserRepository(db)
	activities := repository.NewActivityRepository(nil)
	auth := service.NewAuthService(users, tokens, photos)

	r := routes.NewRouter(routes.Services{
		Auth:        auth,
		Users:       service.NewUserService(users, auth, photos),
		Tasks:       service.NewTaskService(repository.NewTaskRepository(db), users, activities, pdfs),
		Submissions: service.NewSubmissionService(repository.NewSubmissionRepository(db), activities, pdfs),
	}, routes.RouterConfig{
		UploadDir:   pdfs.Dir(),
		PhotoDir:    photos.Dir(),
		CORSOrigins: []string{"*"},
		Location:    time.UTC,
	})
	return &server{t: t, router: r}
}

type filePart struct {
	field, name, content string
}

func multipartBody(t *testing.T, fields map[string]string, file *filePart) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if file != nil {
		fw, err := w.CreateFormFile(file.field, file.name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(file.content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func (s *server) do(method, path, token string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	s.t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *server) form(method, path, token string, fields map[string]string, file *filePart) *httptest.ResponseRecorder {
	body, ct := multipartBody(s.t, fields, file)
	return s.do(method, path, token, body, ct)
}

func (s *server) json(method, path, token string, payload any) *httptest.ResponseRecorder {
	b, err := json.Marshal(payload)
	require.NoError(s.t, err)
	return s.do(method, path, token, bytes.NewReader(b), "application/json")
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func (s *server) registerAndLogin(nip, role string) string {
	s.t.Helper()
	rec := s.form(http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "User " + nip, "nip": nip, "password": "123123", "role": role,
	}, nil)
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.json(http.MethodPost, "/api/auth/login", "", map[string]string{"nip": nip, "password": "123123"})
	require.Equal(s.t, http.StatusOK, rec.Code, rec.Body.String())

	var res service.LoginResult
	require.NoError(s.t, json.Unmarshal(decode(s.t, rec).Data, &res))
	require.NotEmpty(s.t, res.Token)
	return res.Token
}

func TestHealthBanner(t *testing.T) {
	s := newServer(t)
	rec := s.do(http.MethodGet, "/", "", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "RUNNING")
}

func TestAuthEndpoints(t *testing.T) {
	s := newServer(t)
	s.registerAndLogin("1001", "guru")

	rec := s.json(http.MethodPost, "/api/auth/login", "", map[string]string{"nip": "1001", "password": "salah"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_credentials", decode(t, rec).Errors)

	rec = s.json(http.MethodPost, "/api/auth/login", "", map[string]string{"nip": "404", "password": "123123"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.form(http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "X", "nip": "1001", "password": "x", "role": "student",
	}, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.form(http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "X", "nip": "1002", "password": "x", "role": "kepala_sekolah",
	}, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	env := decode(t, rec)
	require.Len(t, env.Details, 1)
	assert.Equal(t, utils.FieldError{Field: "role", Error: "role"}, env.Details[0])

	rec = s.form(http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "X", "nip": "1003", "password": strings.Repeat("x", 80), "role": "student",
	}, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "password", decode(t, rec).Details[0].Field)

	rec = s.json(http.MethodPut, "/api/auth/update-password", "", map[string]string{"nip": "1001", "newPassword": "baru"})
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = s.json(http.MethodPost, "/api/auth/login", "", map[string]string{"nip": "1001", "password": "baru"})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := newServer(t)

	rec := s.do(http.MethodGet, "/api/tasks", "", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(http.MethodGet, "/api/users", "bukan.token.valid", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "unauthorized", decode(t, rec).Errors)
}

func TestTaskLifecycleOverHTTP(t *testing.T) {
	s := newServer(t)
	guru := s.registerAndLogin("g1", "teacher")
	siswa := s.registerAndLogin("s1", "siswa")

	// siswa tidak boleh membuat task
	rec := s.form(http.MethodPost, "/api/tasks", siswa, map[string]string{"title": "x"}, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.form(http.MethodPost, "/api/tasks", guru, map[string]string{
		"title": "Laporan Praktikum", "description": "Bab 1", "due_date": "2999-01-10 23:59",
	}, &filePart{"pdf_file", "soal.pdf", "%PDF-1.4 soal"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	env := decode(t, rec)
	assert.Contains(t, env.Message, "1 submissions")

	var task struct {
		ID      string `json:"id"`
		PDFFile string `json:"pdf_file"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &task))
	require.NotEmpty(t, task.ID)

	rec = s.do(http.MethodGet, "/api/tasks/"+task.ID+"/download", siswa, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), task.PDFFile)
	assert.Equal(t, "%PDF-1.4 soal", rec.Body.String())

	rec = s.do(http.MethodGet, "/uploads/"+task.PDFFile, "", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/api/tasks/"+task.ID+"/user", siswa, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"user_submission_status":"pending"`)

	rec = s.form(http.MethodPut, "/api/task-submissions/"+task.ID, siswa, nil,
		&filePart{"pdf_file", "jawaban.pdf", "%PDF-1.4 jawaban"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"status":"done"`)

	rec = s.form(http.MethodPut, "/api/task-submissions/"+task.ID, siswa, nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodGet, "/api/tasks/guru", guru, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Total int `json:"total"`
		Tasks []struct {
			CompletionPercentage int `json:"completion_percentage"`
		} `json:"tasks"`
	}
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &list))
	require.Equal(t, 1, list.Total)
	assert.Equal(t, 100, list.Tasks[0].CompletionPercentage)

	rec = s.do(http.MethodGet, "/api/tasks/guru", siswa, nil, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.form(http.MethodPut, "/api/tasks/"+task.ID, guru, map[string]string{"title": "Revisi", "completed": "true"}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"status_submission":"done"`)

	rec = s.do(http.MethodGet, "/api/tasks/"+task.ID+"/activities", guru, nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodDelete, "/api/tasks/"+task.ID, siswa, nil, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = s.do(http.MethodDelete, "/api/tasks/"+task.ID, guru, nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = s.do(http.MethodGet, "/api/tasks/"+task.ID, guru, nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTaskValidationOverHTTP(t *testing.T) {
	s := newServer(t)
	guru := s.registerAndLogin("g1", "teacher")

	rec := s.do(http.MethodGet, "/api/tasks/bukan-uuid", guru, nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.form(http.MethodPost, "/api/tasks", guru, map[string]string{"title": "x", "due_date": "besok"}, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "due_date", decode(t, rec).Details[0].Field)

	rec = s.form(http.MethodPost, "/api/tasks", guru, map[string]string{"title": "x"},
		&filePart{"pdf_file", "soal.docx", "bukan pdf"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.form(http.MethodPost, "/api/tasks", guru, map[string]string{"description": "tanpa judul"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUserEndpoints(t *testing.T) {
	s := newServer(t)
	guru := s.registerAndLogin("g1", "teacher")

	rec := s.form(http.MethodPost, "/api/users/userRegister", "", map[string]string{
		"name": "Siswa Baru", "nip": "s9", "password": "123123", "kelas": "XII RPL 1",
	}, &filePart{"foto", "me.png", "png"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := rec.Body.String()
	assert.Contains(t, body, `"role":"student"`)
	assert.NotContains(t, body, "password")

	var user struct {
		ID   string `json:"id"`
		Foto string `json:"foto"`
	}
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &user))

	rec = s.do(http.MethodGet, "/uploadFoto/"+user.Foto, "", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/api/users", guru, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, strings.Count(rec.Body.String(), `"nip"`))

	rec = s.form(http.MethodPut, "/api/users/userUpdate/"+user.ID, guru, map[string]string{"jurusan": "TKJ"}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"jurusan":"TKJ"`)

	rec = s.do(http.MethodDelete, "/api/users/userDelete/"+user.ID, guru, nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = s.do(http.MethodGet, "/api/users/"+user.ID, guru, nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
