package models

import "time"

// Lesson belongs to a course. Content is optional so a lesson can consist of
// attachments only.
type Lesson struct {
	ID        int64     `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Content   *string   `json:"content,omitempty" db:"content"` // nullable
	CourseID  int64     `json:"courseId" db:"course_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	// Relations (populated when needed)
	Files []LessonFile `json:"files,omitempty"`
}

// LessonFile is the metadata row for one uploaded attachment. The bytes live
// in the storage collaborator under StoredName.
type LessonFile struct {
	ID         int64     `json:"id" db:"id"`
	FileName   string    `json:"fileName" db:"file_name"`     // original client filename
	StoredName string    `json:"storedName" db:"stored_name"` // unique name in storage
	FileSize   int64     `json:"fileSize" db:"file_size"`
	MimeType   string    `json:"mimeType" db:"mime_type"`
	LessonID   int64     `json:"lessonId" db:"lesson_id"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}
