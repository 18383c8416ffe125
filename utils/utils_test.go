package utils

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestTokenRoundTrip(t *testing.T) {
	tm, err := NewTokenManager("rahasia", 0)
	require.NoError(t, err)

	id := uuid.New()
	token, err := tm.GenerateToken(id, "198701", "teacher")
	require.NoError(t, err)

	claims, err := tm.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, id, claims.UserID)
	assert.Equal(t, "198701", claims.NIP)
	assert.Equal(t, "teacher", claims.Role)
	assert.WithinDuration(t, time.Now().Add(DefaultTokenTTL), claims.ExpiresAt.Time, 5*time.Second)
}

func TestTokenRejected(t *testing.T) {
	tm, err := NewTokenManager("rahasia", time.Hour)
	require.NoError(t, err)
	other, err := NewTokenManager("lain", time.Hour)
	require.NoError(t, err)

	token, err := other.GenerateToken(uuid.New(), "1", "student")
	require.NoError(t, err)

	t.Run("wrong signature", func(t *testing.T) {
		_, err := tm.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := tm.ValidateToken("bukan.token")
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		tok, err := tm.GenerateToken(uuid.New(), "1", "student")
		require.NoError(t, err)
		tm.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		defer func() { tm.now = time.Now }()
		_, err = tm.ValidateToken(tok)
		assert.Error(t, err)
	})
}

func TestNewTokenManagerRequiresSecret(t *testing.T) {
	_, err := NewTokenManager("", time.Hour)
	assert.Error(t, err)
}

func TestFromDB(t *testing.T) {
	assert.NoError(t, FromDB(nil, "x"))
	assert.True(t, IsKind(FromDB(gorm.ErrRecordNotFound, "Task tidak ditemukan"), KindNotFound))
	assert.True(t, IsKind(FromDB(gorm.ErrDuplicatedKey, ""), KindConflict))
	assert.True(t, IsKind(FromDB(gorm.ErrCheckConstraintViolated, ""), KindValidation))
	assert.True(t, IsKind(FromDB(errors.New("boom"), ""), KindInternal))

	forbidden := Forbidden("tidak boleh")
	assert.Same(t, forbidden, FromDB(forbidden, "").(*AppError))
}

func TestBuildResponseFromError(t *testing.T) {
	err := BadRequest("Input tidak valid", errors.New("field title kosong")).
		WithFields(FieldError{Field: "title", Error: "required"})

	status, resp := BuildResponseFromError(err, false)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.False(t, resp.Status)
	assert.Equal(t, "bad_request", resp.Errors)
	assert.Len(t, resp.Details, 1)
	assert.Nil(t, resp.Debug)

	_, resp = BuildResponseFromError(err, true)
	assert.Equal(t, "field title kosong", resp.Debug)

	status, resp = BuildResponseFromError(errors.New("raw"), false)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "internal_error", resp.Errors)
}

func TestParseDateTime(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*3600)

	got, err := ParseDateTime("2025-01-10T00:00:00Z", jakarta)
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)))

	got, err = ParseDateTime("2025-01-10 07:00:00", jakarta)
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)))

	got, err = ParseDateTime("2025-01-10", jakarta)
	require.NoError(t, err)
	assert.Equal(t, 10, got.Day())

	_, err = ParseDateTime("besok", jakarta)
	assert.Error(t, err)
	_, err = ParseDateTime("  ", jakarta)
	assert.Error(t, err)
}
