package services

import (
	"context"
	"errors"
	"testing"

	"github.com/emre/lmsphere/internal/app/models"
	"github.com/emre/lmsphere/internal/pkg/apperrors"
)

func TestEnrollIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	teacher := env.addUser(t, "Teacher", "t@example.com", models.RoleTeacher)
	student := env.addUser(t, "Student", "s@example.com", models.RoleStudent)
	courseID := env.addCourse(t, "Algebra", teacher)

	first, err := env.enrollments.Enroll(ctx, student, courseID)
	if err != nil {
		t.Fatalf("first Enroll: %v", err)
	}
	if first.AlreadyEnrolled {
		t.Error("first enroll reported AlreadyEnrolled")
	}

	second, err := env.enrollments.Enroll(ctx, student, courseID)
	if err != nil {
		t.Fatalf("second Enroll: %v", err)
	}
	if !second.AlreadyEnrolled {
		t.Error("second enroll should report AlreadyEnrolled")
	}

	if len(env.store.enrollments) != 1 {
		t.Errorf("enrollment rows = %d, want 1", len(env.store.enrollments))
	}
}

func TestEnrollValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	teacher := env.addUser(t, "Teacher", "t@example.com", models.RoleTeacher)
	student := env.addUser(t, "Student", "s@example.com", models.RoleStudent)
	courseID := env.addCourse(t, "Algebra", teacher)

	if _, err := env.enrollments.Enroll(ctx, teacher, courseID); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("teacher enroll err = %v, want ErrPermissionDenied", err)
	}

	if _, err := env.enrollments.Enroll(ctx, student, 9999); !errors.Is(err, apperrors.ErrCourseNotFound) {
		t.Errorf("missing course err = %v, want ErrCourseNotFound", err)
	}

	if _, err := env.enrollments.Enroll(ctx, 9999, courseID); !errors.Is(err, apperrors.ErrUserNotFound) {
		t.Errorf("missing user err = %v, want ErrUserNotFound", err)
	}
}

func TestUnenroll(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	teacher := env.addUser(t, "Teacher", "t@example.com", models.RoleTeacher)
	student := env.addUser(t, "Student", "s@example.com", models.RoleStudent)
	courseID := env.addCourse(t, "Algebra", teacher)

	if err := env.enrollments.Unenroll(ctx, student, courseID); !errors.Is(err, apperrors.ErrNotEnrolled) {
		t.Errorf("unenroll without enrollment err = %v, want ErrNotEnrolled", err)
	}

	if _, err := env.enrollments.Enroll(ctx, student, courseID); err != nil {
		t.Fatalf("Enroll: %v", err)
	}
	if err := env.enrollments.Unenroll(ctx, student, courseID); err != nil {
		t.Fatalf("Unenroll: %v", err)
	}
	if len(env.store.enrollments) != 0 {
		t.Errorf("enrollment rows = %d, want 0", len(env.store.enrollments))
	}
}

func TestGetEnrolledCourses(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	teacher := env.addUser(t, "Teacher", "t@example.com", models.RoleTeacher)
	student := env.addUser(t, "Student", "s@example.com", models.RoleStudent)
	algebra := env.addCourse(t, "Algebra", teacher)
	geometry := env.addCourse(t, "Geometry", teacher)
	env.addCourse(t, "History", teacher)

	for _, id := range []int64{algebra, geometry} {
		if _, err := env.enrollments.Enroll(ctx, student, id); err != nil {
			t.Fatalf("Enroll %d: %v", id, err)
		}
	}

	ids, err := env.enrollments.GetEnrolledCourseIDs(ctx, student)
	if err != nil {
		t.Fatalf("GetEnrolledCourseIDs: %v", err)
	}
	if len(ids.CourseIDs) != 2 || ids.CourseIDs[0] != algebra || ids.CourseIDs[1] != geometry {
		t.Errorf("course ids = %v, want [%d %d]", ids.CourseIDs, algebra, geometry)
	}

	courses, err := env.enrollments.GetEnrolledCourses(ctx, student)
	if err != nil {
		t.Fatalf("GetEnrolledCourses: %v", err)
	}
	if len(courses.Courses) != 2 {
		t.Errorf("courses = %d, want 2", len(courses.Courses))
	}

	if _, err := env.enrollments.GetEnrolledCourses(ctx, teacher); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("teacher listing err = %v, want ErrPermissionDenied", err)
	}
}

func TestGetCourseRosterOwnership(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.addUser(t, "Owner", "owner@example.com", models.RoleTeacher)
	other := env.addUser(t, "Other", "other@example.com", models.RoleTeacher)
	student := env.addUser(t, "Student", "s@example.com", models.RoleStudent)
	courseID := env.addCourse(t, "Algebra", owner)

	if _, err := env.enrollments.Enroll(ctx, student, courseID); err != nil {
		t.Fatalf("Enroll: %v", err)
	}

	roster, err := env.enrollments.GetCourseRoster(ctx, owner, courseID)
	if err != nil {
		t.Fatalf("GetCourseRoster: %v", err)
	}
	if len(roster.Students) != 1 || roster.Students[0].ID != student {
		t.Errorf("roster = %+v", roster.Students)
	}

	if _, err := env.enrollments.GetCourseRoster(ctx, other, courseID); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("non-owner roster err = %v, want ErrPermissionDenied", err)
	}
	if _, err := env.enrollments.GetCourseRoster(ctx, student, courseID); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("student roster err = %v, want ErrPermissionDenied", err)
	}
	if _, err := env.enrollments.GetCourseRoster(ctx, owner, 9999); !errors.Is(err, apperrors.ErrCourseNotFound) {
		t.Errorf("missing course roster err = %v, want ErrCourseNotFound", err)
	}
}
