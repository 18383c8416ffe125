package database

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"task-management-backend/app/model"
	"task-management-backend/config"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

type Database struct {
	Postgres *gorm.DB
	Mongo    *mongo.Database // nil kalau MONGO_URI tidak diset
	mongoCli *mongo.Client
}

// GormConfig dipakai bersama oleh koneksi production dan test.
func GormConfig() *gorm.Config {
	return &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
		Logger: gormLogger.New(
			log.New(os.Stdout, "\r\n", log.LstdFlags),
			gormLogger.Config{
				SlowThreshold:             500 * time.Millisecond,
				LogLevel:                  gormLogger.Warn,
				IgnoreRecordNotFoundError: true,
			},
		),
	}
}

func InitDB(cfg *config.Config) (*Database, error) {
	// 1. Setup PostgreSQL
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		cfg.DB.Host,
		cfg.DB.User,
		cfg.DB.Password,
		cfg.DB.Name,
		cfg.DB.Port,
		cfg.DB.SSLMode,
		cfg.DB.TimeZone,
	)

	pgDB, err := gorm.Open(postgres.Open(dsn), GormConfig())
	if err != nil {
		return nil, fmt.Errorf("gagal koneksi ke postgres: %w", err)
	}

	log.Println("Menjalankan migrasi database PostgreSQL...")
	if err := Migrate(pgDB); err != nil {
		return nil, err
	}

	db := &Database{Postgres: pgDB}

	// 2. Setup MongoDB (opsional, hanya untuk activity log)
	if !cfg.MongoEnabled() {
		log.Println("MONGO_URI kosong, activity log tidak disimpan")
		return db, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("gagal koneksi ke mongo: %w", err)
	}
	if err := mongoClient.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("gagal ping mongo: %w", err)
	}

	db.mongoCli = mongoClient
	db.Mongo = mongoClient.Database(cfg.MongoDBName)

	log.Println("Berhasil terhubung ke PostgreSQL dan MongoDB!")
	return db, nil
}

// Migrate menjalankan AutoMigrate untuk seluruh tabel.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.User{},
		&model.Task{},
		&model.TaskSubmission{},
	)
	if err != nil {
		return fmt.Errorf("gagal migrasi database: %w", err)
	}
	return nil
}

// Close menutup koneksi Postgres dan Mongo.
func (d *Database) Close(ctx context.Context) {
	if sqlDB, err := d.Postgres.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("gagal menutup postgres: %v", err)
		}
	}
	if d.mongoCli != nil {
		if err := d.mongoCli.Disconnect(ctx); err != nil {
			log.Printf("gagal menutup mongo: %v", err)
		}
	}
}
