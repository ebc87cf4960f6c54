package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	appauth "github.com/emre/lmsphere/internal/app/auth"
	"github.com/emre/lmsphere/internal/app/models"
	"github.com/emre/lmsphere/internal/app/models/dto"
	"github.com/emre/lmsphere/internal/pkg/apperrors"
	"github.com/emre/lmsphere/internal/pkg/filestorage"
	"github.com/emre/lmsphere/internal/pkg/logger"
)

// LessonService defines the interface for lesson and attachment operations
type LessonService interface {
	AddLesson(ctx context.Context, callerID, courseID int64, req *dto.CreateLessonRequest, file *multipart.FileHeader) (*dto.LessonResponse, error)
	GetLesson(ctx context.Context, lessonID int64) (*dto.LessonResponse, error)
	UpdateLesson(ctx context.Context, callerID, lessonID int64, req *dto.UpdateLessonRequest) (*dto.LessonResponse, error)
	DeleteLesson(ctx context.Context, callerID, lessonID int64) error
}

// lessonServiceImpl implements LessonService
type lessonServiceImpl struct {
	lessonRepo   LessonRepository
	fileRepo     LessonFileRepository
	authzService *appauth.AuthorizationService
	storage      filestorage.FileStorage
}

// NewLessonService creates a new LessonService
func NewLessonService(
	lessonRepo LessonRepository,
	fileRepo LessonFileRepository,
	authzService *appauth.AuthorizationService,
	storage filestorage.FileStorage,
) LessonService {
	return &lessonServiceImpl{
		lessonRepo:   lessonRepo,
		fileRepo:     fileRepo,
		authzService: authzService,
		storage:      storage,
	}
}

// AddLesson creates a lesson in the caller's course. Content is optional; an
// optional upload is written to storage first and its metadata row created
// after the bytes have landed.
func (s *lessonServiceImpl) AddLesson(ctx context.Context, callerID, courseID int64, req *dto.CreateLessonRequest, file *multipart.FileHeader) (*dto.LessonResponse, error) {
	if _, err := s.authzService.ValidateCourseOwnership(ctx, courseID, callerID); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, apperrors.NewValidationError("title cannot be empty")
	}

	lesson := &models.Lesson{
		Title:    title,
		Content:  req.Content,
		CourseID: courseID,
	}

	id, err := s.lessonRepo.Create(ctx, lesson)
	if err != nil {
		return nil, fmt.Errorf("error creating lesson: %w", err)
	}
	lesson.ID = id

	var files []models.LessonFile
	if file != nil && file.Filename != "" {
		lessonFile, err := s.attachFile(ctx, lesson.ID, file)
		if err != nil {
			return nil, err
		}
		files = append(files, *lessonFile)
	}

	resp := toLessonResponse(lesson, files)
	return &resp, nil
}

func (s *lessonServiceImpl) attachFile(ctx context.Context, lessonID int64, file *multipart.FileHeader) (*models.LessonFile, error) {
	storedName, err := s.storage.SaveFile(file)
	if err != nil {
		return nil, fmt.Errorf("error storing uploaded file: %w", err)
	}

	lessonFile := &models.LessonFile{
		FileName:   filepath.Base(file.Filename),
		StoredName: storedName,
		FileSize:   file.Size,
		MimeType:   file.Header.Get("Content-Type"),
		LessonID:   lessonID,
	}

	id, err := s.fileRepo.Create(ctx, lessonFile)
	if err != nil {
		// Roll the bytes back so storage does not accumulate unreferenced files
		if delErr := s.storage.DeleteFile(storedName); delErr != nil {
			logger.Warn().Err(delErr).Str("storedName", storedName).Msg("Failed to clean up stored file after metadata failure")
		}
		return nil, fmt.Errorf("error creating lesson file record: %w", err)
	}
	lessonFile.ID = id

	return lessonFile, nil
}

// GetLesson returns a lesson with its attachments
func (s *lessonServiceImpl) GetLesson(ctx context.Context, lessonID int64) (*dto.LessonResponse, error) {
	lesson, err := s.lessonRepo.GetByID(ctx, lessonID)
	if err != nil {
		return nil, err
	}

	files, err := s.fileRepo.GetByLesson(ctx, lessonID)
	if err != nil {
		return nil, fmt.Errorf("error getting lesson files: %w", err)
	}

	resp := toLessonResponse(lesson, files)
	return &resp, nil
}

// UpdateLesson overwrites title and content; attachments are not altered.
// Only the teacher owning the parent course may call it.
func (s *lessonServiceImpl) UpdateLesson(ctx context.Context, callerID, lessonID int64, req *dto.UpdateLessonRequest) (*dto.LessonResponse, error) {
	lesson, err := s.authzService.ValidateLessonOwnership(ctx, lessonID, callerID)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, apperrors.NewValidationError("title cannot be empty")
	}

	lesson.Title = title
	lesson.Content = req.Content
	if err := s.lessonRepo.Update(ctx, lesson); err != nil {
		return nil, fmt.Errorf("error updating lesson: %w", err)
	}

	files, err := s.fileRepo.GetByLesson(ctx, lessonID)
	if err != nil {
		return nil, fmt.Errorf("error getting lesson files: %w", err)
	}

	resp := toLessonResponse(lesson, files)
	return &resp, nil
}

// DeleteLesson removes a lesson and its attachments. Stored bytes go first,
// one by one; a byte that fails to delete (already absent, for instance) is
// logged and skipped rather than aborting. The metadata rows and the lesson
// row are then removed in one transaction.
func (s *lessonServiceImpl) DeleteLesson(ctx context.Context, callerID, lessonID int64) error {
	if _, err := s.authzService.ValidateLessonOwnership(ctx, lessonID, callerID); err != nil {
		return err
	}

	files, err := s.fileRepo.GetByLesson(ctx, lessonID)
	if err != nil {
		return fmt.Errorf("error getting lesson files: %w", err)
	}
	for _, file := range files {
		if err := s.storage.DeleteFile(file.StoredName); err != nil {
			logger.Warn().Err(err).Str("storedName", file.StoredName).Msg("Failed to delete stored file, continuing")
		}
	}

	if err := s.lessonRepo.DeleteWithFiles(ctx, lessonID); err != nil {
		return fmt.Errorf("error deleting lesson: %w", err)
	}

	logger.Info().Int64("lessonID", lessonID).Int("files", len(files)).Msg("Lesson deleted")
	return nil
}

func toLessonResponse(lesson *models.Lesson, files []models.LessonFile) dto.LessonResponse {
	fileResponses := make([]dto.LessonFileResponse, 0, len(files))
	for _, file := range files {
		fileResponses = append(fileResponses, dto.LessonFileResponse{
			ID:         file.ID,
			FileName:   file.FileName,
			StoredName: file.StoredName,
			FileSize:   file.FileSize,
			MimeType:   file.MimeType,
		})
	}

	return dto.LessonResponse{
		ID:       lesson.ID,
		Title:    lesson.Title,
		Content:  lesson.Content,
		CourseID: lesson.CourseID,
		Files:    fileResponses,
	}
}
