package repository

import (
	"context"
	"time"

	"task-management-backend/app/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const activityCollection = "activities"

// ActivityRepository menyimpan riwayat aktivitas task di MongoDB.
type ActivityRepository interface {
	Record(ctx context.Context, activity *model.Activity) error
	// FindByTask mengambil aktivitas satu task, terbaru dulu.
	FindByTask(ctx context.Context, taskID string) ([]model.Activity, error)
	// CountByAction menghitung jumlah aktivitas per action untuk satu task.
	CountByAction(ctx context.Context, taskID string) (map[string]int64, error)
}

type activityRepository struct {
	mongo *mongo.Database
}

// NewActivityRepository mengembalikan repository MongoDB, atau implementasi
// kosong kalau mongoDB nil (MONGO_URI tidak diset).
func NewActivityRepository(mongoDB *mongo.Database) ActivityRepository {
	if mongoDB == nil {
		return noopActivityRepository{}
	}
	return &activityRepository{mongo: mongoDB}
}

func (r *activityRepository) Record(ctx context.Context, activity *model.Activity) error {
	if activity.CreatedAt.IsZero() {
		activity.CreatedAt = time.Now()
	}
	_, err := r.mongo.Collection(activityCollection).InsertOne(ctx, activity)
	return err
}

func (r *activityRepository) FindByTask(ctx context.Context, taskID string) ([]model.Activity, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.mongo.Collection(activityCollection).Find(ctx, bson.M{"taskId": taskID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	activities := []model.Activity{}
	if err := cur.All(ctx, &activities); err != nil {
		return nil, err
	}
	return activities, nil
}

func (r *activityRepository) CountByAction(ctx context.Context, taskID string) (map[string]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"taskId": taskID}}},
		{{Key: "$group", Value: bson.M{
			"_id":   "$action",
			"count": bson.M{"$sum": 1},
		}}},
	}
	cur, err := r.mongo.Collection(activityCollection).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	counts := make(map[string]int64)
	for cur.Next(ctx) {
		var row struct {
			ID    string `bson:"_id"`
			Count int64  `bson:"count"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		counts[row.ID] = row.Count
	}
	return counts, cur.Err()
}

// noopActivityRepository dipakai ketika MongoDB tidak dikonfigurasi.
type noopActivityRepository struct{}

func (noopActivityRepository) Record(context.Context, *model.Activity) error { return nil }

func (noopActivityRepository) FindByTask(context.Context, string) ([]model.Activity, error) {
	return []model.Activity{}, nil
}

func (noopActivityRepository) CountByAction(context.Context, string) (map[string]int64, error) {
	return map[string]int64{}, nil
}
