package models

// Course groups an ordered sequence of modules for one enrolled cohort.
type Course struct {
	ID                uint   `json:"id"`
	CourseName        string `json:"course_name"`
	CourseDescription string `json:"course_description"`
	ZoomLink          string `json:"zoom_link,omitempty"`
	ScoreTotal        int    `json:"score_total"`
}
