package dto

// CreateCourseRequest is the payload for creating a course
type CreateCourseRequest struct {
	Title       string `json:"title" binding:"required,min=1,max=150" example:"Algebra I"`
	Description string `json:"description" binding:"required" example:"Linear equations and friends"`
}

// UpdateCourseRequest is the payload for updating a course
type UpdateCourseRequest struct {
	Title       string `json:"title" binding:"required,min=1,max=150" example:"Algebra I"`
	Description string `json:"description" binding:"required" example:"Linear equations and friends"`
}

// CourseResponse is the public view of a course
type CourseResponse struct {
	ID          int64  `json:"id" example:"1"`
	Title       string `json:"title" example:"Algebra I"`
	Description string `json:"description" example:"Linear equations and friends"`
	TeacherID   int64  `json:"teacherId" example:"3"`
}

// CourseListResponse wraps a list of courses
type CourseListResponse struct {
	Courses []CourseResponse `json:"courses"`
}

// CourseDetailResponse is the course page view. Enrolled is only set for
// student callers; Students is only populated for the owning teacher.
type CourseDetailResponse struct {
	Course   CourseResponse   `json:"course"`
	Lessons  []LessonResponse `json:"lessons"`
	Enrolled *bool            `json:"enrolled,omitempty"`
	Students []UserResponse   `json:"students,omitempty"`
}
