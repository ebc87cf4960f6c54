package services

import (
	"context"
	"fmt"
	"strings"

	appauth "github.com/emre/lmsphere/internal/app/auth"
	"github.com/emre/lmsphere/internal/app/models"
	"github.com/emre/lmsphere/internal/app/models/dto"
	"github.com/emre/lmsphere/internal/pkg/apperrors"
	"github.com/emre/lmsphere/internal/pkg/filestorage"
	"github.com/emre/lmsphere/internal/pkg/logger"
)

// CourseService defines the interface for course catalog operations
type CourseService interface {
	CreateCourse(ctx context.Context, teacherID int64, req *dto.CreateCourseRequest) (*dto.CourseResponse, error)
	GetAllCourses(ctx context.Context) (*dto.CourseListResponse, error)
	GetCoursesByTeacher(ctx context.Context, teacherID int64) (*dto.CourseListResponse, error)
	GetCourseDetail(ctx context.Context, callerID, courseID int64) (*dto.CourseDetailResponse, error)
	UpdateCourse(ctx context.Context, callerID, courseID int64, req *dto.UpdateCourseRequest) (*dto.CourseResponse, error)
	DeleteCourse(ctx context.Context, callerID, courseID int64) error
}

// courseServiceImpl implements CourseService
type courseServiceImpl struct {
	courseRepo     CourseRepository
	lessonRepo     LessonRepository
	fileRepo       LessonFileRepository
	enrollmentRepo EnrollmentRepository
	authzService   *appauth.AuthorizationService
	storage        filestorage.FileStorage
}

// NewCourseService creates a new CourseService
func NewCourseService(
	courseRepo CourseRepository,
	lessonRepo LessonRepository,
	fileRepo LessonFileRepository,
	enrollmentRepo EnrollmentRepository,
	authzService *appauth.AuthorizationService,
	storage filestorage.FileStorage,
) CourseService {
	return &courseServiceImpl{
		courseRepo:     courseRepo,
		lessonRepo:     lessonRepo,
		fileRepo:       fileRepo,
		enrollmentRepo: enrollmentRepo,
		authzService:   authzService,
		storage:        storage,
	}
}

// CreateCourse creates a course owned by the calling teacher
func (s *courseServiceImpl) CreateCourse(ctx context.Context, teacherID int64, req *dto.CreateCourseRequest) (*dto.CourseResponse, error) {
	if _, err := s.authzService.ValidateTeacher(ctx, teacherID); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, apperrors.NewValidationError("title cannot be empty")
	}

	course := &models.Course{
		Title:       title,
		Description: req.Description,
		TeacherID:   teacherID,
	}

	id, err := s.courseRepo.Create(ctx, course)
	if err != nil {
		return nil, fmt.Errorf("error creating course: %w", err)
	}
	course.ID = id

	resp := toCourseResponse(course)
	return &resp, nil
}

// GetAllCourses returns every course, for student browsing
func (s *courseServiceImpl) GetAllCourses(ctx context.Context) (*dto.CourseListResponse, error) {
	courses, err := s.courseRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting courses: %w", err)
	}
	return toCourseListResponse(courses), nil
}

// GetCoursesByTeacher returns the courses owned by a teacher
func (s *courseServiceImpl) GetCoursesByTeacher(ctx context.Context, teacherID int64) (*dto.CourseListResponse, error) {
	courses, err := s.courseRepo.GetByTeacher(ctx, teacherID)
	if err != nil {
		return nil, fmt.Errorf("error getting courses for teacher: %w", err)
	}
	return toCourseListResponse(courses), nil
}

// GetCourseDetail returns the course with its lessons. A student caller also
// gets their enrollment flag; the owning teacher also gets the roster. The
// roster is never returned to students or to teachers who do not own the
// course. Read access itself is not gated by enrollment.
func (s *courseServiceImpl) GetCourseDetail(ctx context.Context, callerID, courseID int64) (*dto.CourseDetailResponse, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	caller, err := s.authzService.GetUser(ctx, callerID)
	if err != nil {
		return nil, err
	}

	lessons, err := s.lessonRepo.GetByCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("error getting lessons: %w", err)
	}

	lessonResponses := make([]dto.LessonResponse, 0, len(lessons))
	for _, lesson := range lessons {
		files, err := s.fileRepo.GetByLesson(ctx, lesson.ID)
		if err != nil {
			return nil, fmt.Errorf("error getting lesson files: %w", err)
		}
		lessonResponses = append(lessonResponses, toLessonResponse(&lesson, files))
	}

	detail := &dto.CourseDetailResponse{
		Course:  toCourseResponse(course),
		Lessons: lessonResponses,
	}

	if caller.IsStudent() {
		enrolled, err := s.enrollmentRepo.Exists(ctx, callerID, courseID)
		if err != nil {
			return nil, fmt.Errorf("error checking enrollment: %w", err)
		}
		detail.Enrolled = &enrolled
	}

	if caller.IsTeacher() && course.TeacherID == callerID {
		students, err := s.enrollmentRepo.ListStudentsByCourse(ctx, courseID)
		if err != nil {
			return nil, fmt.Errorf("error getting course roster: %w", err)
		}
		detail.Students = toUserResponses(students)
	}

	return detail, nil
}

// UpdateCourse overwrites title and description; only the owning teacher may
// call it
func (s *courseServiceImpl) UpdateCourse(ctx context.Context, callerID, courseID int64, req *dto.UpdateCourseRequest) (*dto.CourseResponse, error) {
	course, err := s.authzService.ValidateCourseOwnership(ctx, courseID, callerID)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, apperrors.NewValidationError("title cannot be empty")
	}

	course.Title = title
	course.Description = req.Description
	if err := s.courseRepo.Update(ctx, course); err != nil {
		return nil, fmt.Errorf("error updating course: %w", err)
	}

	resp := toCourseResponse(course)
	return &resp, nil
}

// DeleteCourse removes a course and everything hanging off it. Stored bytes
// for every attachment are deleted first, best effort, then lesson_files,
// lessons, enrollments and the course row go in one transaction. A byte that
// fails to delete is logged and skipped so the metadata cleanup still runs.
func (s *courseServiceImpl) DeleteCourse(ctx context.Context, callerID, courseID int64) error {
	if _, err := s.authzService.ValidateCourseOwnership(ctx, courseID, callerID); err != nil {
		return err
	}

	files, err := s.fileRepo.GetByCourse(ctx, courseID)
	if err != nil {
		return fmt.Errorf("error getting lesson files for course: %w", err)
	}
	for _, file := range files {
		if err := s.storage.DeleteFile(file.StoredName); err != nil {
			logger.Warn().Err(err).Str("storedName", file.StoredName).Msg("Failed to delete stored file, continuing")
		}
	}

	if err := s.courseRepo.DeleteCascade(ctx, courseID); err != nil {
		return fmt.Errorf("error deleting course: %w", err)
	}

	logger.Info().Int64("courseID", courseID).Int("files", len(files)).Msg("Course deleted")
	return nil
}

func toCourseResponse(course *models.Course) dto.CourseResponse {
	return dto.CourseResponse{
		ID:          course.ID,
		Title:       course.Title,
		Description: course.Description,
		TeacherID:   course.TeacherID,
	}
}

func toCourseListResponse(courses []models.Course) *dto.CourseListResponse {
	responses := make([]dto.CourseResponse, 0, len(courses))
	for i := range courses {
		responses = append(responses, toCourseResponse(&courses[i]))
	}
	return &dto.CourseListResponse{Courses: responses}
}

func toUserResponses(users []models.User) []dto.UserResponse {
	responses := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, toUserResponse(&users[i]))
	}
	return responses
}
