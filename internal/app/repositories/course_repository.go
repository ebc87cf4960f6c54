package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/emre/lmsphere/internal/app/models"
	"github.com/emre/lmsphere/internal/pkg/apperrors"
	"github.com/emre/lmsphere/internal/pkg/logger"
)

// CourseRepository handles database operations for courses.
type CourseRepository struct {
	db *pgxpool.Pool
}

// NewCourseRepository creates a new CourseRepository
func NewCourseRepository(db *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{db: db}
}

func selectCourseQuery() squirrel.SelectBuilder {
	return squirrel.Select("id", "title", "description", "teacher_id", "created_at", "updated_at").
		From("courses").
		PlaceholderFormat(squirrel.Dollar)
}

func scanCourse(row pgx.Row) (*models.Course, error) {
	var course models.Course
	err := row.Scan(
		&course.ID, &course.Title, &course.Description, &course.TeacherID,
		&course.CreatedAt, &course.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		logger.Error().Err(err).Msg("Error scanning course row")
		return nil, err
	}
	return &course, nil
}

func collectCourses(rows pgx.Rows) ([]models.Course, error) {
	defer rows.Close()

	var courses []models.Course
	for rows.Next() {
		var course models.Course
		if err := rows.Scan(
			&course.ID, &course.Title, &course.Description, &course.TeacherID,
			&course.CreatedAt, &course.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning course row: %w", err)
		}
		courses = append(courses, course)
	}
	return courses, rows.Err()
}

// Create inserts a new course
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) (int64, error) {
	sql, args, err := squirrel.Insert("courses").
		Columns("title", "description", "teacher_id").
		Values(course.Title, course.Description, course.TeacherID).
		Suffix("RETURNING id").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building create course SQL: %w", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		logger.Error().Err(err).Int64("teacherID", course.TeacherID).Msg("Error executing create course query")
		return 0, err
	}

	return id, nil
}

// GetByID retrieves a course by id
func (r *CourseRepository) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	sql, args, err := selectCourseQuery().Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building get course SQL: %w", err)
	}

	return scanCourse(r.db.QueryRow(ctx, sql, args...))
}

// GetAll returns every course, for student browsing
func (r *CourseRepository) GetAll(ctx context.Context) ([]models.Course, error) {
	sql, args, err := selectCourseQuery().OrderBy("id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building list courses SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing courses: %w", err)
	}
	return collectCourses(rows)
}

// GetByTeacher returns every course owned by the given teacher
func (r *CourseRepository) GetByTeacher(ctx context.Context, teacherID int64) ([]models.Course, error) {
	sql, args, err := selectCourseQuery().
		Where(squirrel.Eq{"teacher_id": teacherID}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building list courses SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing courses for teacher: %w", err)
	}
	return collectCourses(rows)
}

// Update overwrites title and description of a course
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	sql, args, err := squirrel.Update("courses").
		Set("title", course.Title).
		Set("description", course.Description).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": course.ID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building update course SQL: %w", err)
	}

	result, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("courseID", course.ID).Msg("Error executing update course query")
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}

	return nil
}

// DeleteCascade removes a course and every row that references it, children
// first: lesson_files, lessons, enrollments, then the course itself. All four
// deletes run in one transaction. Stored bytes for the lesson files are NOT
// touched here; the caller must delete them before calling this.
func (r *CourseRepository) DeleteCascade(ctx context.Context, courseID int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`DELETE FROM lesson_files WHERE lesson_id IN (SELECT id FROM lessons WHERE course_id = $1)`,
		courseID); err != nil {
		return fmt.Errorf("error deleting lesson files for course: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM lessons WHERE course_id = $1`, courseID); err != nil {
		return fmt.Errorf("error deleting lessons for course: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM enrollments WHERE course_id = $1`, courseID); err != nil {
		return fmt.Errorf("error deleting enrollments for course: %w", err)
	}

	result, err := tx.Exec(ctx, `DELETE FROM courses WHERE id = $1`, courseID)
	if err != nil {
		return fmt.Errorf("error deleting course: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
