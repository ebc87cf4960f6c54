package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/emre/lmsphere/internal/app/models"
	"github.com/emre/lmsphere/internal/pkg/apperrors"
	"github.com/emre/lmsphere/internal/pkg/logger"
)

// UserStore is the user lookup the authorization layer needs
type UserStore interface {
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
}

// CourseStore is the course lookup the authorization layer needs
type CourseStore interface {
	GetByID(ctx context.Context, id int64) (*models.Course, error)
}

// LessonStore is the lesson lookup the authorization layer needs
type LessonStore interface {
	GetByID(ctx context.Context, id int64) (*models.Lesson, error)
}

// AuthorizationService decides, given a caller and a target entity, whether an
// operation is permitted. It resolves ownership through the stores and returns
// apperrors sentinels; it never reaches into ambient state for identity.
type AuthorizationService struct {
	users   UserStore
	courses CourseStore
	lessons LessonStore
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(users UserStore, courses CourseStore, lessons LessonStore) *AuthorizationService {
	return &AuthorizationService{
		users:   users,
		courses: courses,
		lessons: lessons,
	}
}

// GetUser returns the caller's user record
func (s *AuthorizationService) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, err
		}
		logger.Error().Err(err).Int64("userID", userID).Msg("Error getting user for authorization")
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// ValidateTeacher checks that the caller carries the teacher role
func (s *AuthorizationService) ValidateTeacher(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsTeacher() {
		return nil, apperrors.ErrPermissionDenied
	}
	return user, nil
}

// ValidateStudent checks that the caller carries the student role
func (s *AuthorizationService) ValidateStudent(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsStudent() {
		return nil, apperrors.ErrPermissionDenied
	}
	return user, nil
}

// ValidateCourseOwnership checks that the caller is the teacher owning the
// course. Returns the course so callers don't have to fetch it again.
// ErrCourseNotFound when the course is absent, ErrPermissionDenied when the
// caller does not own it.
func (s *AuthorizationService) ValidateCourseOwnership(ctx context.Context, courseID, userID int64) (*models.Course, error) {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if course.TeacherID != userID {
		return nil, apperrors.ErrPermissionDenied
	}
	return course, nil
}

// ValidateLessonOwnership checks that the caller owns the lesson's parent
// course. Returns the lesson on success.
func (s *AuthorizationService) ValidateLessonOwnership(ctx context.Context, lessonID, userID int64) (*models.Lesson, error) {
	lesson, err := s.lessons.GetByID(ctx, lessonID)
	if err != nil {
		return nil, err
	}
	if _, err := s.ValidateCourseOwnership(ctx, lesson.CourseID, userID); err != nil {
		return nil, err
	}
	return lesson, nil
}
