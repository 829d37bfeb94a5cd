package collabtest

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
)

// The records mirror the collaborator's storage, not the client models: the
// handlers render them into the wire shapes the client expects.

type userRecord struct {
	ID        uint   `gorm:"primaryKey"`
	Email     string `gorm:"uniqueIndex"`
	Password  string
	FirstName string
	LastName  string
	IsStudent bool
}

func (userRecord) TableName() string { return "users" }

func (u userRecord) wire() fiber.Map {
	return fiber.Map{
		"id":         u.ID,
		"email":      u.Email,
		"first_name": u.FirstName,
		"last_name":  u.LastName,
		"isStudent":  u.IsStudent,
	}
}

type courseRecord struct {
	ID                uint `gorm:"primaryKey"`
	CourseName        string
	CourseDescription string
	ZoomLink          string
	ScoreTotal        int
}

func (courseRecord) TableName() string { return "courses" }

func (c courseRecord) wire() fiber.Map {
	return fiber.Map{
		"id":                 c.ID,
		"course_name":        c.CourseName,
		"course_description": c.CourseDescription,
		"zoom_link":          c.ZoomLink,
		"score_total":        c.ScoreTotal,
	}
}

type enrollmentRecord struct {
	ID       uint `gorm:"primaryKey"`
	CourseID uint `gorm:"uniqueIndex:idx_enrollment"`
	UserID   uint `gorm:"uniqueIndex:idx_enrollment"`
}

func (enrollmentRecord) TableName() string { return "enrollments" }

type moduleRecord struct {
	ID                uint `gorm:"primaryKey"`
	CourseID          uint `gorm:"index"`
	ModuleName        string
	ModuleDescription string
	YoutubeLink       string
	ModuleOrder       int
	ScoreTotal        int
	IsPosted          bool
	DueDate           *time.Time
}

func (moduleRecord) TableName() string { return "modules" }

func (m moduleRecord) wire(courseName string) fiber.Map {
	payload := fiber.Map{
		"id":                 m.ID,
		"course_id":          m.CourseID,
		"module_name":        m.ModuleName,
		"module_description": m.ModuleDescription,
		"youtube_link":       m.YoutubeLink,
		"module_order":       m.ModuleOrder,
		"score_total":        m.ScoreTotal,
		"is_posted":          m.IsPosted,
	}
	if courseName != "" {
		payload["course_name"] = courseName
	}
	if m.DueDate != nil {
		payload["due_date"] = m.DueDate
	}
	return payload
}

type questionRecord struct {
	ID             uint `gorm:"primaryKey"`
	ModuleID       uint `gorm:"index"`
	QuestionText   string
	QuestionType   string
	MCQOptions     datatypes.JSON
	CorrectAnswers datatypes.JSON
	QuestionOrder  int
	ScoreTotal     int
}

func (questionRecord) TableName() string { return "questions" }

func (q questionRecord) wire() fiber.Map {
	payload := fiber.Map{
		"id":             q.ID,
		"module_id":      q.ModuleID,
		"question_text":  q.QuestionText,
		"question_type":  q.QuestionType,
		"question_order": q.QuestionOrder,
		"score_total":    q.ScoreTotal,
	}
	if options := decodeStrings(q.MCQOptions); len(options) > 0 {
		payload["mcq_options"] = options
	}
	if answers := decodeStrings(q.CorrectAnswers); len(answers) > 0 {
		payload["correct_answers"] = answers
	}
	return payload
}

func encodeStrings(values []string) datatypes.JSON {
	if len(values) == 0 {
		return nil
	}
	encoded, err := json.Marshal(values)
	if err != nil {
		return nil
	}
	return datatypes.JSON(encoded)
}

func decodeStrings(raw datatypes.JSON) []string {
	if len(raw) == 0 {
		return nil
	}
	var values []string
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil
	}
	return values
}

type submissionRecord struct {
	ID                 uint `gorm:"primaryKey"`
	UserID             uint `gorm:"uniqueIndex:idx_user_question"`
	QuestionID         uint `gorm:"uniqueIndex:idx_user_question"`
	ModuleID           uint `gorm:"index"`
	SubmissionType     string
	SubmissionResponse string
	TimeSubmitted      time.Time
	Graded             bool
	Score              int
	ScoreTotal         int
	IsOverdue          bool
}

func (submissionRecord) TableName() string { return "submissions" }

func (s submissionRecord) wire(userName, questionText string) fiber.Map {
	payload := fiber.Map{
		"id":                  s.ID,
		"user_id":             s.UserID,
		"module_id":           s.ModuleID,
		"question_id":         s.QuestionID,
		"submission_type":     s.SubmissionType,
		"submission_response": s.SubmissionResponse,
		"time_submitted":      s.TimeSubmitted,
	}
	if userName != "" {
		payload["user_name"] = userName
	}
	if questionText != "" {
		payload["question_text"] = questionText
	}
	if s.Graded {
		payload["grade"] = fiber.Map{
			"score":      s.Score,
			"total":      s.ScoreTotal,
			"is_overdue": s.IsOverdue,
		}
	}
	return payload
}

type announcementRecord struct {
	ID        uint `gorm:"primaryKey"`
	CourseID  uint `gorm:"index"`
	Title     string
	Content   string
	CreatedBy uint
	CreatedAt time.Time
	IsPosted  bool
}

func (announcementRecord) TableName() string { return "announcements" }

func (a announcementRecord) wire(createdByName string) fiber.Map {
	payload := fiber.Map{
		"id":         a.ID,
		"course_id":  a.CourseID,
		"title":      a.Title,
		"content":    a.Content,
		"created_by": a.CreatedBy,
		"created_at": a.CreatedAt,
		"is_posted":  a.IsPosted,
	}
	if createdByName != "" {
		payload["created_by_name"] = createdByName
	}
	return payload
}
