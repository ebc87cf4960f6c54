package dto

// CreateLessonRequest is the multipart form payload for adding a lesson.
// Content is optional so a lesson can be file-only.
type CreateLessonRequest struct {
	Title   string  `form:"title" binding:"required,min=1,max=150" example:"Lesson 1"`
	Content *string `form:"content" example:"Today we cover..."`
}

// UpdateLessonRequest is the payload for editing a lesson. Attachments are
// not touched by an edit.
type UpdateLessonRequest struct {
	Title   string  `json:"title" binding:"required,min=1,max=150" example:"Lesson 1"`
	Content *string `json:"content" example:"Today we cover..."`
}

// LessonFileResponse is the public view of one attachment
type LessonFileResponse struct {
	ID         int64  `json:"id" example:"1"`
	FileName   string `json:"fileName" example:"syllabus.pdf"`
	StoredName string `json:"storedName" example:"0b7d3c2e-9f41-4a6e-8a3f-1c2d4e5f6a7b.pdf"`
	FileSize   int64  `json:"fileSize" example:"10240"`
	MimeType   string `json:"mimeType" example:"application/pdf"`
}

// LessonResponse is the public view of a lesson with its attachments
type LessonResponse struct {
	ID       int64                `json:"id" example:"1"`
	Title    string               `json:"title" example:"Lesson 1"`
	Content  *string              `json:"content,omitempty"`
	CourseID int64                `json:"courseId" example:"1"`
	Files    []LessonFileResponse `json:"files"`
}
