package utils

import (
	"errors"
	"fmt"
	"net/http"

	"gorm.io/gorm"
)

// ErrorKind mengelompokkan error domain supaya handler bisa memetakan
// ke HTTP status tanpa mencocokkan string pesan.
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindNotFound
	KindForbidden
	KindUnauthorized
	KindBadRequest
	KindInvalidCredentials
	KindConflict
	KindValidation
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindForbidden:
		return "forbidden"
	case KindUnauthorized:
		return "unauthorized"
	case KindBadRequest:
		return "bad_request"
	case KindInvalidCredentials:
		return "invalid_credentials"
	case KindConflict:
		return "conflict"
	case KindValidation:
		return "validation_error"
	default:
		return "internal_error"
	}
}

// HTTPStatus mengembalikan status code untuk kind ini.
func (k ErrorKind) HTTPStatus() int {
	switch k {
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindBadRequest, KindInvalidCredentials:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindValidation:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// FieldError menunjuk satu field input yang bermasalah.
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// AppError adalah error domain yang dibawa dari service sampai ke handler.
// Message aman ditampilkan ke user, Err menyimpan penyebab teknis.
type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
	Fields  []FieldError
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error { return e.Err }

func newAppError(kind ErrorKind, msg string, cause []error) *AppError {
	e := &AppError{Kind: kind, Message: msg}
	if len(cause) > 0 {
		e.Err = cause[0]
	}
	return e
}

func NotFound(msg string, cause ...error) *AppError {
	return newAppError(KindNotFound, msg, cause)
}

func Forbidden(msg string, cause ...error) *AppError {
	return newAppError(KindForbidden, msg, cause)
}

func Unauthorized(msg string, cause ...error) *AppError {
	return newAppError(KindUnauthorized, msg, cause)
}

func BadRequest(msg string, cause ...error) *AppError {
	return newAppError(KindBadRequest, msg, cause)
}

func InvalidCredentials(msg string, cause ...error) *AppError {
	return newAppError(KindInvalidCredentials, msg, cause)
}

func Conflict(msg string, cause ...error) *AppError {
	return newAppError(KindConflict, msg, cause)
}

func Internal(msg string, cause ...error) *AppError {
	return newAppError(KindInternal, msg, cause)
}

// Validation membuat error validasi dengan daftar field yang salah.
func Validation(msg string, fields ...FieldError) *AppError {
	return &AppError{Kind: KindValidation, Message: msg, Fields: fields}
}

// WithFields menempelkan detail field ke error yang sudah ada.
func (e *AppError) WithFields(fields ...FieldError) *AppError {
	e.Fields = append(e.Fields, fields...)
	return e
}

// KindOf mencari AppError di rantai error. Error yang bukan AppError
// dianggap internal.
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// IsKind dipakai terutama di test.
func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindOf(err) == kind
}

// FromDB menerjemahkan error gorm menjadi AppError. notFoundMsg dipakai
// kalau record tidak ada.
func FromDB(err error, notFoundMsg string) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return err
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return NotFound(notFoundMsg, err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return Conflict("Data sudah ada", err)
	case errors.Is(err, gorm.ErrCheckConstraintViolated),
		errors.Is(err, gorm.ErrInvalidField),
		errors.Is(err, gorm.ErrForeignKeyViolated):
		return Validation("Data tidak memenuhi constraint database").WithCause(err)
	default:
		return Internal("Terjadi kesalahan pada database", err)
	}
}

// WithCause mengisi penyebab teknis.
func (e *AppError) WithCause(err error) *AppError {
	e.Err = err
	return e
}
