package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/emre/lmsphere/internal/app/models"
	"github.com/emre/lmsphere/internal/pkg/logger"
)

// LessonFileRepository handles database operations for lesson attachments.
type LessonFileRepository struct {
	db *pgxpool.Pool
}

// NewLessonFileRepository creates a new LessonFileRepository
func NewLessonFileRepository(db *pgxpool.Pool) *LessonFileRepository {
	return &LessonFileRepository{db: db}
}

func selectLessonFileQuery() squirrel.SelectBuilder {
	return squirrel.Select("id", "file_name", "stored_name", "file_size", "mime_type", "lesson_id", "created_at").
		From("lesson_files").
		PlaceholderFormat(squirrel.Dollar)
}

func collectLessonFiles(rows pgx.Rows) ([]models.LessonFile, error) {
	defer rows.Close()

	var files []models.LessonFile
	for rows.Next() {
		var file models.LessonFile
		if err := rows.Scan(
			&file.ID, &file.FileName, &file.StoredName, &file.FileSize,
			&file.MimeType, &file.LessonID, &file.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning lesson file row: %w", err)
		}
		files = append(files, file)
	}
	return files, rows.Err()
}

// Create inserts a new lesson file row
func (r *LessonFileRepository) Create(ctx context.Context, file *models.LessonFile) (int64, error) {
	sql, args, err := squirrel.Insert("lesson_files").
		Columns("file_name", "stored_name", "file_size", "mime_type", "lesson_id").
		Values(file.FileName, file.StoredName, file.FileSize, file.MimeType, file.LessonID).
		Suffix("RETURNING id").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building create lesson file SQL: %w", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		logger.Error().Err(err).Int64("lessonID", file.LessonID).Msg("Error executing create lesson file query")
		return 0, err
	}

	return id, nil
}

// GetByLesson returns every attachment of a lesson
func (r *LessonFileRepository) GetByLesson(ctx context.Context, lessonID int64) ([]models.LessonFile, error) {
	sql, args, err := selectLessonFileQuery().
		Where(squirrel.Eq{"lesson_id": lessonID}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building list lesson files SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing lesson files: %w", err)
	}
	return collectLessonFiles(rows)
}

// GetByCourse returns every attachment belonging to any lesson of a course.
// Used by the course delete cascade to find stored bytes to remove.
func (r *LessonFileRepository) GetByCourse(ctx context.Context, courseID int64) ([]models.LessonFile, error) {
	sql := `SELECT lf.id, lf.file_name, lf.stored_name, lf.file_size, lf.mime_type, lf.lesson_id, lf.created_at
		FROM lesson_files lf
		JOIN lessons l ON lf.lesson_id = l.id
		WHERE l.course_id = $1
		ORDER BY lf.id`

	rows, err := r.db.Query(ctx, sql, courseID)
	if err != nil {
		return nil, fmt.Errorf("error listing lesson files for course: %w", err)
	}
	return collectLessonFiles(rows)
}
