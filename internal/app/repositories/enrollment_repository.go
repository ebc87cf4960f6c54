package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/emre/lmsphere/internal/app/models"
	"github.com/emre/lmsphere/internal/pkg/apperrors"
	"github.com/emre/lmsphere/internal/pkg/dberrors"
	"github.com/emre/lmsphere/internal/pkg/logger"
)

// EnrollmentRepository handles database operations for enrollments.
type EnrollmentRepository struct {
	db *pgxpool.Pool
}

// NewEnrollmentRepository creates a new EnrollmentRepository
func NewEnrollmentRepository(db *pgxpool.Pool) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// Create inserts an enrollment. The uq_enrollments_student_course constraint
// makes the duplicate path fail closed under concurrency; a unique violation
// is reported as created=false with no error, which callers treat as the
// idempotent no-op outcome.
func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) (created bool, err error) {
	sql, args, err := squirrel.Insert("enrollments").
		Columns("student_id", "course_id").
		Values(enrollment.StudentID, enrollment.CourseID).
		Suffix("RETURNING id").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("error building create enrollment SQL: %w", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "uq_enrollments_student_course") {
			return false, nil
		}
		logger.Error().Err(err).
			Int64("studentID", enrollment.StudentID).
			Int64("courseID", enrollment.CourseID).
			Msg("Error executing create enrollment query")
		return false, err
	}

	enrollment.ID = id
	return true, nil
}

// Exists checks whether the student is enrolled in the course
func (r *EnrollmentRepository) Exists(ctx context.Context, studentID, courseID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM enrollments WHERE student_id = $1 AND course_id = $2)",
		studentID, courseID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking enrollment existence: %w", err)
	}
	return exists, nil
}

// Delete removes the enrollment of a student in a course. Deleting a
// non-existent enrollment returns apperrors.ErrNotEnrolled.
func (r *EnrollmentRepository) Delete(ctx context.Context, studentID, courseID int64) error {
	result, err := r.db.Exec(ctx,
		"DELETE FROM enrollments WHERE student_id = $1 AND course_id = $2",
		studentID, courseID)
	if err != nil {
		logger.Error().Err(err).
			Int64("studentID", studentID).
			Int64("courseID", courseID).
			Msg("Error executing delete enrollment query")
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotEnrolled
	}

	return nil
}

// ListCourseIDsByStudent returns the ids of every course the student is
// enrolled in
func (r *EnrollmentRepository) ListCourseIDsByStudent(ctx context.Context, studentID int64) ([]int64, error) {
	rows, err := r.db.Query(ctx,
		"SELECT course_id FROM enrollments WHERE student_id = $1 ORDER BY course_id", studentID)
	if err != nil {
		return nil, fmt.Errorf("error listing enrolled course ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning course id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ListCoursesByStudent returns the full courses the student is enrolled in
func (r *EnrollmentRepository) ListCoursesByStudent(ctx context.Context, studentID int64) ([]models.Course, error) {
	sql := `SELECT c.id, c.title, c.description, c.teacher_id, c.created_at, c.updated_at
		FROM courses c
		JOIN enrollments e ON e.course_id = c.id
		WHERE e.student_id = $1
		ORDER BY c.id`

	rows, err := r.db.Query(ctx, sql, studentID)
	if err != nil {
		return nil, fmt.Errorf("error listing enrolled courses: %w", err)
	}
	return collectCourses(rows)
}

// ListStudentsByCourse returns every user enrolled in the course
func (r *EnrollmentRepository) ListStudentsByCourse(ctx context.Context, courseID int64) ([]models.User, error) {
	sql := `SELECT u.id, u.name, u.email, u.password, u.role, u.created_at, u.updated_at
		FROM users u
		JOIN enrollments e ON e.student_id = u.id
		WHERE e.course_id = $1
		ORDER BY u.id`

	rows, err := r.db.Query(ctx, sql, courseID)
	if err != nil {
		return nil, fmt.Errorf("error listing students for course: %w", err)
	}
	defer rows.Close()

	var students []models.User
	for rows.Next() {
		var user models.User
		if err := rows.Scan(
			&user.ID, &user.Name, &user.Email, &user.Password, &user.Role,
			&user.CreatedAt, &user.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning student row: %w", err)
		}
		students = append(students, user)
	}
	return students, rows.Err()
}
