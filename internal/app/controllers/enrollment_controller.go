package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emre/lmsphere/internal/app/models/dto"
	"github.com/emre/lmsphere/internal/app/services"
	"github.com/emre/lmsphere/internal/middleware"
)

// EnrollmentController handles the enrollment ledger operations
type EnrollmentController struct {
	enrollmentService services.EnrollmentService
}

// NewEnrollmentController creates a new EnrollmentController
func NewEnrollmentController(enrollmentService services.EnrollmentService) *EnrollmentController {
	return &EnrollmentController{enrollmentService: enrollmentService}
}

// Enroll godoc
// @Summary Enroll in a course
// @Description Enroll the calling student; enrolling twice is a no-op
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=dto.EnrollmentResponse}
// @Failure 403 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /courses/{id}/enroll [post]
func (c *EnrollmentController) Enroll(ctx *gin.Context) {
	caller, ok := callerID(ctx)
	if !ok {
		return
	}
	courseID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	result, err := c.enrollmentService.Enroll(ctx, caller, courseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: result})
}

// Unenroll godoc
// @Summary Unenroll from a course
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 403 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 409 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /courses/{id}/enroll [delete]
func (c *EnrollmentController) Unenroll(ctx *gin.Context) {
	caller, ok := callerID(ctx)
	if !ok {
		return
	}
	courseID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.enrollmentService.Unenroll(ctx, caller, courseID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.SuccessResponse{Message: "Unenrolled from course"}})
}

// GetEnrolledCourses godoc
// @Summary List enrolled courses
// @Description The courses the calling student is enrolled in
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.CourseListResponse}
// @Failure 403 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /courses/enrolled [get]
func (c *EnrollmentController) GetEnrolledCourses(ctx *gin.Context) {
	caller, ok := callerID(ctx)
	if !ok {
		return
	}

	courses, err := c.enrollmentService.GetEnrolledCourses(ctx, caller)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: courses})
}

// GetEnrolledCourseIDs godoc
// @Summary List enrolled course ids
// @Description The set of course ids the calling student is enrolled in
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.EnrolledCourseIDsResponse}
// @Failure 403 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /courses/enrolled/ids [get]
func (c *EnrollmentController) GetEnrolledCourseIDs(ctx *gin.Context) {
	caller, ok := callerID(ctx)
	if !ok {
		return
	}

	ids, err := c.enrollmentService.GetEnrolledCourseIDs(ctx, caller)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: ids})
}

// GetCourseRoster godoc
// @Summary List students of a course
// @Description The enrolled students; owning teacher only
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=dto.CourseRosterResponse}
// @Failure 403 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /courses/{id}/students [get]
func (c *EnrollmentController) GetCourseRoster(ctx *gin.Context) {
	caller, ok := callerID(ctx)
	if !ok {
		return
	}
	courseID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	roster, err := c.enrollmentService.GetCourseRoster(ctx, caller, courseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: roster})
}
