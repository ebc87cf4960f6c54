package services

import (
	"context"

	"github.com/emre/lmsphere/internal/app/models"
)

// Services defined in this package:
// - AuthService: registration, login, profile
// - CourseService: course catalog CRUD, course detail, delete cascade
// - EnrollmentService: enroll/unenroll, enrolled course listing, roster
// - LessonService: lessons and their file attachments
//
// Each service consumes the repository surface it needs through the small
// interfaces below; the pgx-backed repositories satisfy them.

// UserRepository is the user persistence surface consumed by services
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) (int64, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// CourseRepository is the course persistence surface consumed by services
type CourseRepository interface {
	Create(ctx context.Context, course *models.Course) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Course, error)
	GetAll(ctx context.Context) ([]models.Course, error)
	GetByTeacher(ctx context.Context, teacherID int64) ([]models.Course, error)
	Update(ctx context.Context, course *models.Course) error
	DeleteCascade(ctx context.Context, courseID int64) error
}

// LessonRepository is the lesson persistence surface consumed by services
type LessonRepository interface {
	Create(ctx context.Context, lesson *models.Lesson) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Lesson, error)
	GetByCourse(ctx context.Context, courseID int64) ([]models.Lesson, error)
	Update(ctx context.Context, lesson *models.Lesson) error
	DeleteWithFiles(ctx context.Context, lessonID int64) error
}

// LessonFileRepository is the attachment persistence surface consumed by services
type LessonFileRepository interface {
	Create(ctx context.Context, file *models.LessonFile) (int64, error)
	GetByLesson(ctx context.Context, lessonID int64) ([]models.LessonFile, error)
	GetByCourse(ctx context.Context, courseID int64) ([]models.LessonFile, error)
}

// EnrollmentRepository is the enrollment persistence surface consumed by services
type EnrollmentRepository interface {
	Create(ctx context.Context, enrollment *models.Enrollment) (created bool, err error)
	Exists(ctx context.Context, studentID, courseID int64) (bool, error)
	Delete(ctx context.Context, studentID, courseID int64) error
	ListCourseIDsByStudent(ctx context.Context, studentID int64) ([]int64, error)
	ListCoursesByStudent(ctx context.Context, studentID int64) ([]models.Course, error)
	ListStudentsByCourse(ctx context.Context, courseID int64) ([]models.User, error)
}
