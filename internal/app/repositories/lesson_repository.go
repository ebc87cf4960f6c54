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

// LessonRepository handles database operations for lessons.
type LessonRepository struct {
	db *pgxpool.Pool
}

// NewLessonRepository creates a new LessonRepository
func NewLessonRepository(db *pgxpool.Pool) *LessonRepository {
	return &LessonRepository{db: db}
}

func selectLessonQuery() squirrel.SelectBuilder {
	return squirrel.Select("id", "title", "content", "course_id", "created_at", "updated_at").
		From("lessons").
		PlaceholderFormat(squirrel.Dollar)
}

func scanLesson(row pgx.Row) (*models.Lesson, error) {
	var lesson models.Lesson
	err := row.Scan(
		&lesson.ID, &lesson.Title, &lesson.Content, &lesson.CourseID,
		&lesson.CreatedAt, &lesson.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrLessonNotFound
		}
		logger.Error().Err(err).Msg("Error scanning lesson row")
		return nil, err
	}
	return &lesson, nil
}

// Create inserts a new lesson
func (r *LessonRepository) Create(ctx context.Context, lesson *models.Lesson) (int64, error) {
	sql, args, err := squirrel.Insert("lessons").
		Columns("title", "content", "course_id").
		Values(lesson.Title, lesson.Content, lesson.CourseID).
		Suffix("RETURNING id").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building create lesson SQL: %w", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		logger.Error().Err(err).Int64("courseID", lesson.CourseID).Msg("Error executing create lesson query")
		return 0, err
	}

	return id, nil
}

// GetByID retrieves a lesson by id
func (r *LessonRepository) GetByID(ctx context.Context, id int64) (*models.Lesson, error) {
	sql, args, err := selectLessonQuery().Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building get lesson SQL: %w", err)
	}

	return scanLesson(r.db.QueryRow(ctx, sql, args...))
}

// GetByCourse returns every lesson of a course
func (r *LessonRepository) GetByCourse(ctx context.Context, courseID int64) ([]models.Lesson, error) {
	sql, args, err := selectLessonQuery().
		Where(squirrel.Eq{"course_id": courseID}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building list lessons SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing lessons: %w", err)
	}
	defer rows.Close()

	var lessons []models.Lesson
	for rows.Next() {
		var lesson models.Lesson
		if err := rows.Scan(
			&lesson.ID, &lesson.Title, &lesson.Content, &lesson.CourseID,
			&lesson.CreatedAt, &lesson.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning lesson row: %w", err)
		}
		lessons = append(lessons, lesson)
	}
	return lessons, rows.Err()
}

// Update overwrites title and content of a lesson. Attachments are untouched.
func (r *LessonRepository) Update(ctx context.Context, lesson *models.Lesson) error {
	sql, args, err := squirrel.Update("lessons").
		Set("title", lesson.Title).
		Set("content", lesson.Content).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": lesson.ID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building update lesson SQL: %w", err)
	}

	result, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("lessonID", lesson.ID).Msg("Error executing update lesson query")
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrLessonNotFound
	}

	return nil
}

// DeleteWithFiles removes the lesson_files rows and the lesson row in one
// transaction, children first. Stored bytes are NOT touched here; the caller
// deletes them before calling this.
func (r *LessonRepository) DeleteWithFiles(ctx context.Context, lessonID int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM lesson_files WHERE lesson_id = $1`, lessonID); err != nil {
		return fmt.Errorf("error deleting lesson files: %w", err)
	}

	result, err := tx.Exec(ctx, `DELETE FROM lessons WHERE id = $1`, lessonID)
	if err != nil {
		return fmt.Errorf("error deleting lesson: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrLessonNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
