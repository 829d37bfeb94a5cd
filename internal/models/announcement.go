package models

import "time"

// Announcement is a course-wide notice. Students only see posted announcements.
type Announcement struct {
	ID            uint      `json:"id"`
	CourseID      uint      `json:"course_id"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	CreatedBy     uint      `json:"created_by"`
	CreatedByName string    `json:"created_by_name,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	IsPosted      bool      `json:"is_posted"`
}
