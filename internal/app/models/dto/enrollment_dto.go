package dto

// EnrollmentResponse reports the outcome of an enroll call. AlreadyEnrolled
// distinguishes the idempotent no-op from a fresh enrollment.
type EnrollmentResponse struct {
	CourseID        int64 `json:"courseId" example:"1"`
	AlreadyEnrolled bool  `json:"alreadyEnrolled" example:"false"`
}

// EnrolledCourseIDsResponse is the set of course ids a student is enrolled in
type EnrolledCourseIDsResponse struct {
	CourseIDs []int64 `json:"courseIds"`
}

// CourseRosterResponse lists the students enrolled in a course
type CourseRosterResponse struct {
	CourseID int64          `json:"courseId" example:"1"`
	Students []UserResponse `json:"students"`
}
