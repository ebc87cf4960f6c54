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

func TestCreateCourseRequiresTeacher(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	studentID := env.addUser(t, "Student", "s@example.com", models.RoleStudent)

	_, err := env.courses.CreateCourse(ctx, studentID, &dto.CreateCourseRequest{Title: "Algebra"})
	if !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("err = %v, want ErrPermissionDenied", err)
	}
}

func TestCreateCourseEmptyTitle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	teacherID := env.addUser(t, "Teacher", "t@example.com", models.RoleTeacher)

	_, err := env.courses.CreateCourse(ctx, teacherID, &dto.CreateCourseRequest{Title: "   "})
	if !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Errorf("err = %v, want ErrValidationFailed", err)
	}
}

func TestUpdateCourseOwnership(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.addUser(t, "Owner", "owner@example.com", models.RoleTeacher)
	other := env.addUser(t, "Other", "other@example.com", models.RoleTeacher)
	courseID := env.addCourse(t, "Algebra", owner)

	req := &dto.UpdateCourseRequest{Title: "Algebra II", Description: "updated"}

	if _, err := env.courses.UpdateCourse(ctx, other, courseID, req); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("non-owner err = %v, want ErrPermissionDenied", err)
	}

	if _, err := env.courses.UpdateCourse(ctx, owner, 9999, req); !errors.Is(err, apperrors.ErrCourseNotFound) {
		t.Errorf("missing course err = %v, want ErrCourseNotFound", err)
	}

	updated, err := env.courses.UpdateCourse(ctx, owner, courseID, req)
	if err != nil {
		t.Fatalf("UpdateCourse: %v", err)
	}
	if updated.Title != "Algebra II" || updated.Description != "updated" {
		t.Errorf("updated = %+v", updated)
	}
}

func TestGetCourseDetailPerspectives(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.addUser(t, "Owner", "owner@example.com", models.RoleTeacher)
	otherTeacher := env.addUser(t, "Other", "other@example.com", models.RoleTeacher)
	student := env.addUser(t, "Student", "student@example.com", models.RoleStudent)
	courseID := env.addCourse(t, "Algebra", owner)
	env.addLesson(t, "Intro", courseID)

	if _, err := env.enrollRepo.Create(ctx, &models.Enrollment{StudentID: student, CourseID: courseID}); err != nil {
		t.Fatalf("enroll: %v", err)
	}

	// Student sees the enrollment flag, never the roster
	detail, err := env.courses.GetCourseDetail(ctx, student, courseID)
	if err != nil {
		t.Fatalf("student GetCourseDetail: %v", err)
	}
	if detail.Enrolled == nil || !*detail.Enrolled {
		t.Error("expected enrolled flag to be true for enrolled student")
	}
	if detail.Students != nil {
		t.Error("student must not see the roster")
	}
	if len(detail.Lessons) != 1 {
		t.Errorf("lessons = %d, want 1", len(detail.Lessons))
	}

	// Owning teacher sees the roster, no enrollment flag
	detail, err = env.courses.GetCourseDetail(ctx, owner, courseID)
	if err != nil {
		t.Fatalf("owner GetCourseDetail: %v", err)
	}
	if detail.Enrolled != nil {
		t.Error("teacher must not get an enrollment flag")
	}
	if len(detail.Students) != 1 || detail.Students[0].ID != student {
		t.Errorf("roster = %+v, want the enrolled student", detail.Students)
	}

	// A non-owning teacher can read the course but gets no roster
	detail, err = env.courses.GetCourseDetail(ctx, otherTeacher, courseID)
	if err != nil {
		t.Fatalf("other teacher GetCourseDetail: %v", err)
	}
	if detail.Students != nil {
		t.Error("non-owning teacher must not see the roster")
	}

	if _, err := env.courses.GetCourseDetail(ctx, student, 9999); !errors.Is(err, apperrors.ErrCourseNotFound) {
		t.Errorf("missing course err = %v, want ErrCourseNotFound", err)
	}
}

func TestDeleteCourseCascades(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.addUser(t, "Owner", "owner@example.com", models.RoleTeacher)
	student := env.addUser(t, "Student", "student@example.com", models.RoleStudent)
	courseID := env.addCourse(t, "Algebra", owner)
	lessonID := env.addLesson(t, "Intro", courseID)

	if _, err := env.enrollRepo.Create(ctx, &models.Enrollment{StudentID: student, CourseID: courseID}); err != nil {
		t.Fatalf("enroll: %v", err)
	}

	// One attachment with real bytes on disk, one whose bytes are already gone
	storedName, err := env.storage.SaveFile(makeFileHeader(t, "notes.pdf", "pdf-bytes"))
	if err != nil {
		t.Fatalf("SaveFile: %v", err)
	}
	if _, err := env.fileRepo.Create(ctx, &models.LessonFile{FileName: "notes.pdf", StoredName: storedName, LessonID: lessonID}); err != nil {
		t.Fatalf("file record: %v", err)
	}
	if _, err := env.fileRepo.Create(ctx, &models.LessonFile{FileName: "gone.pdf", StoredName: "missing-on-disk.pdf", LessonID: lessonID}); err != nil {
		t.Fatalf("file record: %v", err)
	}

	if err := env.courses.DeleteCourse(ctx, student, courseID); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("student delete err = %v, want ErrPermissionDenied", err)
	}

	if err := env.courses.DeleteCourse(ctx, owner, courseID); err != nil {
		t.Fatalf("DeleteCourse: %v", err)
	}

	if _, err := os.Stat(env.storage.GetFullPath(storedName)); !os.IsNotExist(err) {
		t.Error("stored bytes should be removed from disk")
	}
	if len(env.store.lessons) != 0 || len(env.store.files) != 0 || len(env.store.enrollments) != 0 {
		t.Errorf("leftovers after cascade: lessons=%d files=%d enrollments=%d",
			len(env.store.lessons), len(env.store.files), len(env.store.enrollments))
	}
	if _, err := env.courseRepo.GetByID(ctx, courseID); !errors.Is(err, apperrors.ErrCourseNotFound) {
		t.Errorf("course should be gone, err = %v", err)
	}
}

func TestGetCoursesByTeacher(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.addUser(t, "Owner", "owner@example.com", models.RoleTeacher)
	other := env.addUser(t, "Other", "other@example.com", models.RoleTeacher)
	env.addCourse(t, "Algebra", owner)
	env.addCourse(t, "Geometry", owner)
	env.addCourse(t, "History", other)

	mine, err := env.courses.GetCoursesByTeacher(ctx, owner)
	if err != nil {
		t.Fatalf("GetCoursesByTeacher: %v", err)
	}
	if len(mine.Courses) != 2 {
		t.Errorf("courses = %d, want 2", len(mine.Courses))
	}

	all, err := env.courses.GetAllCourses(ctx)
	if err != nil {
		t.Fatalf("GetAllCourses: %v", err)
	}
	if len(all.Courses) != 3 {
		t.Errorf("all courses = %d, want 3", len(all.Courses))
	}
}
