package services

import (
	"context"
	"fmt"

	appauth "github.com/emre/lmsphere/internal/app/auth"
	"github.com/emre/lmsphere/internal/app/models"
	"github.com/emre/lmsphere/internal/app/models/dto"
	"github.com/emre/lmsphere/internal/pkg/logger"
)

// EnrollmentService defines the interface for the enrollment ledger
type EnrollmentService interface {
	Enroll(ctx context.Context, studentID, courseID int64) (*dto.EnrollmentResponse, error)
	Unenroll(ctx context.Context, studentID, courseID int64) error
	GetEnrolledCourseIDs(ctx context.Context, studentID int64) (*dto.EnrolledCourseIDsResponse, error)
	GetEnrolledCourses(ctx context.Context, studentID int64) (*dto.CourseListResponse, error)
	GetCourseRoster(ctx context.Context, callerID, courseID int64) (*dto.CourseRosterResponse, error)
}

// enrollmentServiceImpl implements EnrollmentService
type enrollmentServiceImpl struct {
	enrollmentRepo EnrollmentRepository
	courseRepo     CourseRepository
	authzService   *appauth.AuthorizationService
}

// NewEnrollmentService creates a new EnrollmentService
func NewEnrollmentService(
	enrollmentRepo EnrollmentRepository,
	courseRepo CourseRepository,
	authzService *appauth.AuthorizationService,
) EnrollmentService {
	return &enrollmentServiceImpl{
		enrollmentRepo: enrollmentRepo,
		courseRepo:     courseRepo,
		authzService:   authzService,
	}
}

// Enroll adds the student to the course. Enrolling twice is an idempotent
// success, not an error; the storage-layer unique constraint keeps concurrent
// duplicates out. The course must exist.
func (s *enrollmentServiceImpl) Enroll(ctx context.Context, studentID, courseID int64) (*dto.EnrollmentResponse, error) {
	if _, err := s.authzService.ValidateStudent(ctx, studentID); err != nil {
		return nil, err
	}

	if _, err := s.courseRepo.GetByID(ctx, courseID); err != nil {
		return nil, err
	}

	created, err := s.enrollmentRepo.Create(ctx, &models.Enrollment{
		StudentID: studentID,
		CourseID:  courseID,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating enrollment: %w", err)
	}

	if created {
		logger.Info().Int64("studentID", studentID).Int64("courseID", courseID).Msg("Student enrolled")
	}

	return &dto.EnrollmentResponse{
		CourseID:        courseID,
		AlreadyEnrolled: !created,
	}, nil
}

// Unenroll removes the student's enrollment. ErrNotEnrolled when there is
// nothing to remove.
func (s *enrollmentServiceImpl) Unenroll(ctx context.Context, studentID, courseID int64) error {
	if _, err := s.authzService.ValidateStudent(ctx, studentID); err != nil {
		return err
	}

	return s.enrollmentRepo.Delete(ctx, studentID, courseID)
}

// GetEnrolledCourseIDs returns the set of course ids the student is enrolled in
func (s *enrollmentServiceImpl) GetEnrolledCourseIDs(ctx context.Context, studentID int64) (*dto.EnrolledCourseIDsResponse, error) {
	if _, err := s.authzService.ValidateStudent(ctx, studentID); err != nil {
		return nil, err
	}

	ids, err := s.enrollmentRepo.ListCourseIDsByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("error listing enrolled course ids: %w", err)
	}

	return &dto.EnrolledCourseIDsResponse{CourseIDs: ids}, nil
}

// GetEnrolledCourses returns the full courses for the student dashboard
func (s *enrollmentServiceImpl) GetEnrolledCourses(ctx context.Context, studentID int64) (*dto.CourseListResponse, error) {
	if _, err := s.authzService.ValidateStudent(ctx, studentID); err != nil {
		return nil, err
	}

	courses, err := s.enrollmentRepo.ListCoursesByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("error listing enrolled courses: %w", err)
	}

	return toCourseListResponse(courses), nil
}

// GetCourseRoster returns the students enrolled in a course; only the owning
// teacher may see it
func (s *enrollmentServiceImpl) GetCourseRoster(ctx context.Context, callerID, courseID int64) (*dto.CourseRosterResponse, error) {
	if _, err := s.authzService.ValidateCourseOwnership(ctx, courseID, callerID); err != nil {
		return nil, err
	}

	students, err := s.enrollmentRepo.ListStudentsByCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("error listing students for course: %w", err)
	}

	return &dto.CourseRosterResponse{
		CourseID: courseID,
		Students: toUserResponses(students),
	}, nil
}
