package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/emre/lmsphere/internal/app/controllers"
	"github.com/emre/lmsphere/internal/app/models"
	"github.com/emre/lmsphere/internal/app/models/dto"
	"github.com/emre/lmsphere/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	courseController *controllers.CourseController,
	enrollmentController *controllers.EnrollmentController,
	lessonController *controllers.LessonController,
	fileController *controllers.FileController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
	}

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.GET("/auth/profile", authController.GetProfile)

		// Files endpoint (any authenticated user may download)
		authenticated.GET("/files/:name", fileController.DownloadFile)

		// Course catalog routes
		courses := authenticated.Group("/courses")
		{
			courses.GET("", courseController.GetAllCourses)
			courses.GET("/:id", courseController.GetCourseDetail)
			courses.GET("/:id/students", enrollmentController.GetCourseRoster)

			// Teacher-only routes
			coursesTeacherProtected := courses.Group("")
			coursesTeacherProtected.Use(authMiddleware.RoleRequired(string(models.RoleTeacher)))
			{
				coursesTeacherProtected.POST("", courseController.CreateCourse)
				coursesTeacherProtected.GET("/mine", courseController.GetMyCourses)
				coursesTeacherProtected.PUT("/:id", courseController.UpdateCourse)
				coursesTeacherProtected.DELETE("/:id", courseController.DeleteCourse)

				coursesTeacherProtected.POST("/:id/lessons", lessonController.AddLesson)
			}

			// Student-only routes
			coursesStudentProtected := courses.Group("")
			coursesStudentProtected.Use(authMiddleware.RoleRequired(string(models.RoleStudent)))
			{
				coursesStudentProtected.GET("/enrolled", enrollmentController.GetEnrolledCourses)
				coursesStudentProtected.GET("/enrolled/ids", enrollmentController.GetEnrolledCourseIDs)
				coursesStudentProtected.POST("/:id/enroll", enrollmentController.Enroll)
				coursesStudentProtected.DELETE("/:id/enroll", enrollmentController.Unenroll)
			}
		}

		// Lesson routes
		lessons := authenticated.Group("/lessons")
		{
			lessons.GET("/:id", lessonController.GetLesson)

			lessonsTeacherProtected := lessons.Group("")
			lessonsTeacherProtected.Use(authMiddleware.RoleRequired(string(models.RoleTeacher)))
			{
				lessonsTeacherProtected.PUT("/:id", lessonController.UpdateLesson)
				lessonsTeacherProtected.DELETE("/:id", lessonController.DeleteLesson)
			}
		}
	}

	// Health check endpoint (public)
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(200, dto.APIResponse{
			Data: gin.H{"status": "ok"},
		})
	})

	// Swagger routes are set up in bootstrap.go already
}
