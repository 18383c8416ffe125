package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Aksi yang dicatat di activity log.
const (
	ActionTaskCreated        = "task_created"
	ActionTaskUpdated        = "task_updated"
	ActionTaskFinalized      = "task_finalized"
	ActionTaskDeleted        = "task_deleted"
	ActionSubmissionRecorded = "submission_recorded"
)

// Activity merepresentasikan 1 dokumen riwayat aktivitas di MongoDB
// (collection: activities). ID task dan user disimpan sebagai string UUID.
type Activity struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TaskID    string             `bson:"taskId" json:"task_id"`
	ActorID   string             `bson:"actorId" json:"actor_id"`
	Action    string             `bson:"action" json:"action"`
	Detail    map[string]any     `bson:"detail,omitempty" json:"detail,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"created_at"`
}

// ActivityReport adalah hasil GET /api/tasks/:id/activities.
type ActivityReport struct {
	Activities []Activity       `json:"activities"`
	Counts     map[string]int64 `json:"counts"` // jumlah per action
}
