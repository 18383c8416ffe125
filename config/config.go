package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DBConfig berisi parameter koneksi PostgreSQL.
type DBConfig struct {
	Host     string
	User     string
	Password string
	Name     string
	Port     string
	SSLMode  string
	TimeZone string
}

// Config dibangun sekali saat startup lalu dioper ke constructor.
// Tidak ada package lain yang membaca environment setelah ini.
type Config struct {
	AppPort     string
	DB          DBConfig
	MongoURI    string
	MongoDBName string
	JWTSecret   string
	JWTTTL      time.Duration
	UploadDir   string
	PhotoDir    string
	TimeZone    string
	CORSOrigins []string
	SeedUsers   bool
}

// Load memuat .env (kalau ada) lalu membaca environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  .env tidak ditemukan, menggunakan environment default")
	}
	return FromEnv()
}

// FromEnv membaca konfigurasi dari environment proses saja.
func FromEnv() (*Config, error) {
	tz := GetEnv("APP_TIMEZONE", "Asia/Jakarta")

	cfg := &Config{
		AppPort: GetEnv("APP_PORT", "8080"),
		DB: DBConfig{
			Host:     GetEnv("DB_HOST", "localhost"),
			User:     GetEnv("DB_USER", "postgres"),
			Password: GetEnv("DB_PASSWORD"),
			Name:     GetEnv("DB_NAME", "task_management"),
			Port:     GetEnv("DB_PORT", "5432"),
			SSLMode:  GetEnv("DB_SSLMODE", "disable"),
			TimeZone: tz,
		},
		MongoURI:    GetEnv("MONGO_URI"),
		MongoDBName: GetEnv("MONGO_DB_NAME", "task_management"),
		JWTSecret:   GetEnv("JWT_SECRET"),
		UploadDir:   GetEnv("UPLOAD_DIR", "uploads"),
		PhotoDir:    GetEnv("PHOTO_DIR", "uploadFoto"),
		TimeZone:    tz,
		CORSOrigins: splitList(GetEnv("CORS_ORIGINS", "*")),
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET belum diset")
	}

	ttl, err := time.ParseDuration(GetEnv("JWT_TTL", "24h"))
	if err != nil {
		return nil, errors.New("JWT_TTL tidak valid: " + err.Error())
	}
	cfg.JWTTTL = ttl

	if v := GetEnv("SEED_USERS"); v != "" {
		seed, err := strconv.ParseBool(v)
		if err != nil {
			return nil, errors.New("SEED_USERS harus true/false")
		}
		cfg.SeedUsers = seed
	}

	return cfg, nil
}

// MongoEnabled true kalau activity log disimpan ke MongoDB.
func (c *Config) MongoEnabled() bool {
	return c.MongoURI != ""
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if (!exists || value == "") && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
