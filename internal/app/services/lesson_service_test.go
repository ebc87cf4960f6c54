package services

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/emre/lmsphere/internal/app/models"
	"github.com/emre/lmsphere/internal/app/models/dto"
	"github.com/emre/lmsphere/internal/pkg/apperrors"
)

func TestAddLessonOwnership(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.addUser(t, "Owner", "owner@example.com", models.RoleTeacher)
	other := env.addUser(t, "Other", "other@example.com", models.RoleTeacher)
	courseID := env.addCourse(t, "Algebra", owner)

	req := &dto.CreateLessonRequest{Title: "Intro"}

	if _, err := env.lessons.AddLesson(ctx, other, courseID, req, nil); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("non-owner err = %v, want ErrPermissionDenied", err)
	}
	if _, err := env.lessons.AddLesson(ctx, owner, 9999, req, nil); !errors.Is(err, apperrors.ErrCourseNotFound) {
		t.Errorf("missing course err = %v, want ErrCourseNotFound", err)
	}
}

func TestAddLessonWithoutFile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.addUser(t, "Owner", "owner@example.com", models.RoleTeacher)
	courseID := env.addCourse(t, "Algebra", owner)

	content := "Welcome to the course"
	lesson, err := env.lessons.AddLesson(ctx, owner, courseID, &dto.CreateLessonRequest{
		Title:   "Intro",
		Content: &content,
	}, nil)
	if err != nil {
		t.Fatalf("AddLesson: %v", err)
	}
	if lesson.Content == nil || *lesson.Content != content {
		t.Errorf("content = %v", lesson.Content)
	}
	if len(lesson.Files) != 0 {
		t.Errorf("files = %d, want 0", len(lesson.Files))
	}
}

func TestAddLessonWithFile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.addUser(t, "Owner", "owner@example.com", models.RoleTeacher)
	courseID := env.addCourse(t, "Algebra", owner)

	file := makeFileHeader(t, "notes.pdf", "pdf-bytes")
	lesson, err := env.lessons.AddLesson(ctx, owner, courseID, &dto.CreateLessonRequest{Title: "Intro"}, file)
	if err != nil {
		t.Fatalf("AddLesson: %v", err)
	}
	if len(lesson.Files) != 1 {
		t.Fatalf("files = %d, want 1", len(lesson.Files))
	}

	attached := lesson.Files[0]
	if attached.FileName != "notes.pdf" {
		t.Errorf("file name = %q, want notes.pdf", attached.FileName)
	}
	// Stored under a generated name so a second notes.pdf can never clobber it
	if attached.StoredName == "notes.pdf" || attached.StoredName == "" {
		t.Errorf("stored name = %q, want a generated name", attached.StoredName)
	}

	data, err := os.ReadFile(env.storage.GetFullPath(attached.StoredName))
	if err != nil {
		t.Fatalf("reading stored bytes: %v", err)
	}
	if string(data) != "pdf-bytes" {
		t.Errorf("stored bytes = %q", data)
	}
}

func TestAddLessonEmptyTitle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.addUser(t, "Owner", "owner@example.com", models.RoleTeacher)
	courseID := env.addCourse(t, "Algebra", owner)

	_, err := env.lessons.AddLesson(ctx, owner, courseID, &dto.CreateLessonRequest{Title: " "}, nil)
	if !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Errorf("err = %v, want ErrValidationFailed", err)
	}
}

func TestUpdateLessonKeepsAttachments(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.addUser(t, "Owner", "owner@example.com", models.RoleTeacher)
	other := env.addUser(t, "Other", "other@example.com", models.RoleTeacher)
	courseID := env.addCourse(t, "Algebra", owner)

	created, err := env.lessons.AddLesson(ctx, owner, courseID, &dto.CreateLessonRequest{Title: "Intro"},
		makeFileHeader(t, "notes.pdf", "pdf-bytes"))
	if err != nil {
		t.Fatalf("AddLesson: %v", err)
	}

	req := &dto.UpdateLessonRequest{Title: "Intro, revised"}

	if _, err := env.lessons.UpdateLesson(ctx, other, created.ID, req); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("non-owner err = %v, want ErrPermissionDenied", err)
	}

	updated, err := env.lessons.UpdateLesson(ctx, owner, created.ID, req)
	if err != nil {
		t.Fatalf("UpdateLesson: %v", err)
	}
	if updated.Title != "Intro, revised" {
		t.Errorf("title = %q", updated.Title)
	}
	if updated.Content != nil {
		t.Errorf("content = %v, want nil after overwrite", updated.Content)
	}
	if len(updated.Files) != 1 {
		t.Errorf("files = %d, attachments must survive an edit", len(updated.Files))
	}
}

func TestDeleteLessonRemovesBytes(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.addUser(t, "Owner", "owner@example.com", models.RoleTeacher)
	courseID := env.addCourse(t, "Algebra", owner)

	created, err := env.lessons.AddLesson(ctx, owner, courseID, &dto.CreateLessonRequest{Title: "Intro"},
		makeFileHeader(t, "notes.pdf", "pdf-bytes"))
	if err != nil {
		t.Fatalf("AddLesson: %v", err)
	}
	storedName := created.Files[0].StoredName

	// A second attachment whose bytes vanished must not abort the delete
	if _, err := env.fileRepo.Create(ctx, &models.LessonFile{FileName: "gone.pdf", StoredName: "missing-on-disk.pdf", LessonID: created.ID}); err != nil {
		t.Fatalf("file record: %v", err)
	}

	if err := env.lessons.DeleteLesson(ctx, owner, created.ID); err != nil {
		t.Fatalf("DeleteLesson: %v", err)
	}

	if _, err := os.Stat(env.storage.GetFullPath(storedName)); !os.IsNotExist(err) {
		t.Error("stored bytes should be removed from disk")
	}
	if len(env.store.files) != 0 {
		t.Errorf("file rows = %d, want 0", len(env.store.files))
	}
	if _, err := env.lessons.GetLesson(ctx, created.ID); !errors.Is(err, apperrors.ErrLessonNotFound) {
		t.Errorf("lesson should be gone, err = %v", err)
	}
}

func TestGetLessonNotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.lessons.GetLesson(context.Background(), 9999)
	if !errors.Is(err, apperrors.ErrLessonNotFound) {
		t.Errorf("err = %v, want ErrLessonNotFound", err)
	}
}
