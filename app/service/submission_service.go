package service

import (
	"context"
	"log"
	"time"

	"task-management-backend/app/model"
	"task-management-backend/app/repository"
	"task-management-backend/storage"
	"task-management-backend/utils"

	"github.com/google/uuid"
)

// SubmissionService mencatat pengumpulan tugas oleh siswa.
type SubmissionService interface {
	RecordSubmission(ctx context.Context, actor model.Actor, taskID uuid.UUID, file *storage.Upload) (*model.TaskSubmission, error)
}

type submissionService struct {
	submissions repository.SubmissionRepository
	activities  repository.ActivityRepository
	files       FileStore
	now         func() time.Time
}

func NewSubmissionService(
	submissions repository.SubmissionRepository,
	activities repository.ActivityRepository,
	files FileStore,
) SubmissionService {
	return &submissionService{
		submissions: submissions,
		activities:  activities,
		files:       files,
		now:         time.Now,
	}
}

// RecordSubmission menyimpan file jawaban ke baris submission milik siswa.
// Status dihitung dari due date task: tepat di due date masih done.
func (s *submissionService) RecordSubmission(ctx context.Context, actor model.Actor, taskID uuid.UUID, file *storage.Upload) (*model.TaskSubmission, error) {
	if file == nil {
		return nil, utils.BadRequest("File PDF wajib diupload").
			WithFields(utils.FieldError{Field: "pdf_file", Error: "required"})
	}

	sub, err := s.submissions.FindByTaskAndUser(ctx, taskID, actor.ID)
	if err != nil {
		return nil, utils.FromDB(err, "Submission untuk task ini tidak ditemukan")
	}

	name, err := s.files.Save(file.Content, file.Filename)
	if err != nil {
		return nil, err
	}

	var oldFile string
	if sub.PDFFile != nil {
		oldFile = *sub.PDFFile
	}

	now := s.now()
	sub.PDFFile = &name
	sub.SubmittedAt = &now
	if sub.Task != nil {
		sub.Status = sub.Task.StatusAt(now)
	} else {
		sub.Status = model.StatusDone
	}

	if err := s.submissions.Update(ctx, sub); err != nil {
		s.files.Remove(name)
		return nil, utils.FromDB(err, "Submission untuk task ini tidak ditemukan")
	}

	if oldFile != "" && oldFile != name {
		s.files.Remove(oldFile)
	}

	log.Printf("[SUBMISSION] %s mengumpulkan task %s (%s)", actor.ID, taskID, sub.Status)
	recordActivity(ctx, s.activities, actor, taskID, model.ActionSubmissionRecorded, map[string]any{
		"submission_id": sub.ID.String(),
		"status":        sub.Status,
	})
	return sub, nil
}
