package utils

import "errors"

// APIResponse adalah format standar JSON yang akan diterima Frontend.
// Contoh sukses  : { "status": true,  "message": "Login berhasil", "data": { ... } }
// Contoh gagal   : { "status": false, "message": "Task tidak ditemukan", "errors": "not_found" }
type APIResponse struct {
	Status  bool         `json:"status"`
	Message string       `json:"message"`
	Data    interface{}  `json:"data,omitempty"`    // omitempty: kalau data nil/kosong, field ini tidak dimunculkan
	Errors  interface{}  `json:"errors,omitempty"`  // kode error singkat (not_found, forbidden, ...)
	Details []FieldError `json:"details,omitempty"` // daftar field yang salah saat validasi
	Debug   interface{}  `json:"debug,omitempty"`   // hanya diisi saat gin berjalan di debug mode
}

// BuildResponseSuccess digunakan saat request berhasil (HTTP 200/201).
// - message: deskripsi singkat keberhasilan (misal: "Login berhasil").
// - data   : payload utama yang ingin dikirim ke frontend.
func BuildResponseSuccess(message string, data interface{}) APIResponse {
	return APIResponse{
		Status:  true,
		Message: message,
		Data:    data,
	}
}

// BuildResponseFailed digunakan saat terjadi error (HTTP 400, 401, 500, dll).
// - message: pesan utama untuk user (misal: "Input tidak valid").
// - err    : detail error teknis (biasanya string, tapi bisa juga map jika mau lebih detail).
// - data   : data tambahan jika ada (biasanya nil).
func BuildResponseFailed(message string, err interface{}, data interface{}) APIResponse {
	return APIResponse{
		Status:  false,
		Message: message,
		Errors:  err,
		Data:    data,
	}
}

// BuildResponseFromError menyusun respons gagal dari error domain.
// Kalau debug true, penyebab teknis ikut dikirim di field debug.
func BuildResponseFromError(err error, debug bool) (int, APIResponse) {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		appErr = Internal("Terjadi kesalahan server", err)
	}

	resp := APIResponse{
		Status:  false,
		Message: appErr.Message,
		Errors:  appErr.Kind.String(),
		Details: appErr.Fields,
	}
	if debug && appErr.Err != nil {
		resp.Debug = appErr.Err.Error()
	}
	return appErr.Kind.HTTPStatus(), resp
}
