package models

import "time"

// Grade is the score pair a teacher posts against one submission.
type Grade struct {
	Score     int  `json:"score"`
	Total     int  `json:"total"`
	IsOverdue bool `json:"is_overdue"`
}

// Submission is one answer to one question. At most one submission per
// (user, question) is authoritative for gating and review. The response field
// holds free text, a base64 data URI for audio, or a file reference for video.
type Submission struct {
	ID                 uint      `json:"id"`
	UserID             uint      `json:"user_id"`
	UserName           string    `json:"user_name,omitempty"`
	ModuleID           uint      `json:"module_id"`
	QuestionID         uint      `json:"question_id"`
	QuestionText       string    `json:"question_text,omitempty"`
	SubmissionType     string    `json:"submission_type"`
	SubmissionResponse string    `json:"submission_response"`
	TimeSubmitted      time.Time `json:"time_submitted"`
	Grade              *Grade    `json:"grade,omitempty"`
}

// IsGraded reports whether a teacher has posted a score for this submission.
func (s Submission) IsGraded() bool {
	return s.Grade != nil
}
