package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emre/lmsphere/internal/app/models/dto"
	"github.com/emre/lmsphere/internal/app/services"
	"github.com/emre/lmsphere/internal/middleware"
)

// LessonController handles lesson and attachment operations
type LessonController struct {
	lessonService services.LessonService
}

// NewLessonController creates a new LessonController
func NewLessonController(lessonService services.LessonService) *LessonController {
	return &LessonController{lessonService: lessonService}
}

// AddLesson godoc
// @Summary Add a lesson to a course
// @Description Create a lesson with optional text content and optional file attachment; owning teacher only
// @Tags lessons
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param title formData string true "Lesson title"
// @Param content formData string false "Lesson text content"
// @Param file formData file false "Attachment"
// @Success 201 {object} dto.APIResponse{data=dto.LessonResponse}
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 403 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /courses/{id}/lessons [post]
func (c *LessonController) AddLesson(ctx *gin.Context) {
	caller, ok := callerID(ctx)
	if !ok {
		return
	}
	courseID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.CreateLessonRequest
	if err := ctx.ShouldBind(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid lesson data").WithDetails(err.Error()),
		})
		return
	}

	// The attachment is optional; a missing file field is not an error
	file, err := ctx.FormFile("file")
	if err != nil {
		file = nil
	}

	lesson, err := c.lessonService.AddLesson(ctx, caller, courseID, &req, file)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: lesson})
}

// GetLesson godoc
// @Summary Get a lesson
// @Tags lessons
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lesson ID"
// @Success 200 {object} dto.APIResponse{data=dto.LessonResponse}
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /lessons/{id} [get]
func (c *LessonController) GetLesson(ctx *gin.Context) {
	lessonID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	lesson, err := c.lessonService.GetLesson(ctx, lessonID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: lesson})
}

// UpdateLesson godoc
// @Summary Edit a lesson
// @Description Overwrite title and content; attachments are untouched; owning teacher only
// @Tags lessons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lesson ID"
// @Param request body dto.UpdateLessonRequest true "Lesson data"
// @Success 200 {object} dto.APIResponse{data=dto.LessonResponse}
// @Failure 403 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /lessons/{id} [put]
func (c *LessonController) UpdateLesson(ctx *gin.Context) {
	caller, ok := callerID(ctx)
	if !ok {
		return
	}
	lessonID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateLessonRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	lesson, err := c.lessonService.UpdateLesson(ctx, caller, lessonID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: lesson})
}

// DeleteLesson godoc
// @Summary Delete a lesson
// @Description Delete a lesson with its attachments, stored bytes first; owning teacher only
// @Tags lessons
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lesson ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 403 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /lessons/{id} [delete]
func (c *LessonController) DeleteLesson(ctx *gin.Context) {
	caller, ok := callerID(ctx)
	if !ok {
		return
	}
	lessonID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.lessonService.DeleteLesson(ctx, caller, lessonID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.SuccessResponse{Message: "Lesson deleted"}})
}
