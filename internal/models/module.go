package models

import "time"

// Module is a sequential unit of coursework. ModuleOrder is unique within a
// course and defines the gating sequence; students only ever see modules with
// IsPosted set. Once posted a module is immutable by policy (see authoring).
type Module struct {
	ID                uint       `json:"id"`
	CourseID          uint       `json:"course_id"`
	CourseName        string     `json:"course_name,omitempty"`
	ModuleName        string     `json:"module_name"`
	ModuleDescription string     `json:"module_description,omitempty"`
	YoutubeLink       string     `json:"youtube_link,omitempty"`
	ModuleOrder       int        `json:"module_order"`
	ScoreTotal        int        `json:"score_total"`
	IsPosted          bool       `json:"is_posted"`
	DueDate           *time.Time `json:"due_date,omitempty"`
}

// IsPastDue reports whether the module's due date has passed. Modules without
// a due date are never past due.
func (m Module) IsPastDue(now time.Time) bool {
	if m.DueDate == nil {
		return false
	}
	return now.After(*m.DueDate)
}
