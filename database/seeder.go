package database

import (
	"log"

	"task-management-backend/app/model"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const seedPassword = "123123"

// SeedUsers menambahkan 2 user awal kalau tabel users masih kosong:
// - guru1  (teacher)
// - siswa1 (student)
// Dipanggil dari main.go hanya jika SEED_USERS=true.
func SeedUsers(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Println("[SEEDER] User sudah ada, skip seeding.")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	jurusan := "RPL"
	kelas := "XII RPL 1"

	users := []model.User{
		{
			Name:         "Guru Satu",
			NIP:          "guru1",
			PasswordHash: string(hash),
			Role:         model.RoleTeacher,
		},
		{
			Name:         "Siswa Satu",
			NIP:          "siswa1",
			PasswordHash: string(hash),
			Role:         model.RoleStudent,
			Jurusan:      &jurusan,
			Kelas:        &kelas,
		},
	}

	if err := db.Create(&users).Error; err != nil {
		return err
	}

	log.Printf("[SEEDER] Berhasil seed 2 user (guru1, siswa1), password: %s", seedPassword)
	return nil
}
