package collabtest

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

func (s *Server) handleListSubmissions(c *fiber.Ctx) error {
	query := s.db.Order("id asc")
	if questionID := c.QueryInt("question_id"); questionID > 0 {
		query = query.Where("question_id = ?", questionID)
	}
	if moduleID := c.QueryInt("module_id"); moduleID > 0 {
		query = query.Where("module_id = ?", moduleID)
	}

	var submissions []submissionRecord
	query.Find(&submissions)

	payload := make([]fiber.Map, 0, len(submissions))
	for _, submission := range submissions {
		payload = append(payload, submission.wire(s.userName(submission.UserID), s.questionText(submission.QuestionID)))
	}
	return c.JSON(payload)
}

func (s *Server) handleUserSubmission(c *fiber.Ctx) error {
	userID, err := parseUintParam(c, "userID")
	if err != nil {
		return sendError(c, fiber.StatusBadRequest, err.Error())
	}
	questionID, err := parseUintParam(c, "questionID")
	if err != nil {
		return sendError(c, fiber.StatusBadRequest, err.Error())
	}

	var submission submissionRecord
	if err := s.db.Where("user_id = ? AND question_id = ?", userID, questionID).First(&submission).Error; err != nil {
		return sendError(c, fiber.StatusNotFound, "submission not found")
	}

	return c.JSON(submission.wire(s.userName(submission.UserID), s.questionText(submission.QuestionID)))
}

type submissionBody struct {
	QuestionID     uint   `json:"question_id"`
	ModuleID       uint   `json:"module_id"`
	SubmissionType string `json:"submission_type"`
	Response       string `json:"response"`
}

func (s *Server) handleCreateSubmission(c *fiber.Ctx) error {
	user := currentUser(c)

	var body submissionBody
	if err := c.BodyParser(&body); err != nil {
		return sendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	var question questionRecord
	if err := s.db.First(&question, body.QuestionID).Error; err != nil {
		return sendError(c, fiber.StatusNotFound, "question not found")
	}

	var module moduleRecord
	if err := s.db.First(&module, question.ModuleID).Error; err != nil {
		return sendError(c, fiber.StatusNotFound, "module not found")
	}

	if user.IsStudent {
		if accessible, reason := s.moduleAccessible(user, module); !accessible {
			return sendError(c, fiber.StatusForbidden, reason)
		}
	}

	var existing int64
	s.db.Model(&submissionRecord{}).
		Where("user_id = ? AND question_id = ?", user.ID, body.QuestionID).
		Count(&existing)
	if existing > 0 {
		return sendError(c, fiber.StatusBadRequest, "You have already submitted an answer for this question.")
	}

	submission := submissionRecord{
		UserID:             user.ID,
		QuestionID:         body.QuestionID,
		ModuleID:           module.ID,
		SubmissionType:     body.SubmissionType,
		SubmissionResponse: body.Response,
		TimeSubmitted:      time.Now().UTC(),
	}
	if err := s.db.Create(&submission).Error; err != nil {
		return sendError(c, fiber.StatusInternalServerError, "failed to create submission")
	}

	return c.Status(fiber.StatusCreated).JSON(submission.wire(s.userName(user.ID), question.QuestionText))
}

func (s *Server) handleUpdateSubmission(c *fiber.Ctx) error {
	if !s.opts.AllowResubmission {
		return sendError(c, fiber.StatusForbidden, "Resubmission is not allowed.")
	}

	submissionID, err := c.ParamsInt("id")
	if err != nil {
		return sendError(c, fiber.StatusBadRequest, "invalid submission id")
	}

	var submission submissionRecord
	if err := s.db.First(&submission, submissionID).Error; err != nil {
		return sendError(c, fiber.StatusNotFound, "submission not found")
	}

	user := currentUser(c)
	if submission.UserID != user.ID {
		return sendError(c, fiber.StatusForbidden, "access denied")
	}

	var body submissionBody
	if err := c.BodyParser(&body); err != nil {
		return sendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	submission.SubmissionType = body.SubmissionType
	submission.SubmissionResponse = body.Response
	submission.TimeSubmitted = time.Now().UTC()
	s.db.Save(&submission)

	return c.JSON(submission.wire(s.userName(submission.UserID), s.questionText(submission.QuestionID)))
}

func (s *Server) handleGradeSubmission(c *fiber.Ctx) error {
	if currentUser(c).IsStudent {
		return sendError(c, fiber.StatusForbidden, "access denied")
	}

	submissionID, err := c.ParamsInt("id")
	if err != nil {
		return sendError(c, fiber.StatusBadRequest, "invalid submission id")
	}

	var submission submissionRecord
	if err := s.db.First(&submission, submissionID).Error; err != nil {
		return sendError(c, fiber.StatusNotFound, "submission not found")
	}

	var body struct {
		Score     int  `json:"score"`
		Total     int  `json:"total"`
		IsOverdue bool `json:"is_overdue"`
	}
	if err := c.BodyParser(&body); err != nil {
		return sendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	submission.Graded = true
	submission.Score = body.Score
	submission.ScoreTotal = body.Total
	submission.IsOverdue = body.IsOverdue
	s.db.Save(&submission)

	return c.JSON(submission.wire(s.userName(submission.UserID), s.questionText(submission.QuestionID)))
}

func (s *Server) handleListAnnouncements(c *fiber.Ctx) error {
	query := s.db.Order("created_at desc")
	if courseID := c.QueryInt("course_id"); courseID > 0 {
		query = query.Where("course_id = ?", courseID)
	}
	if currentUser(c).IsStudent {
		query = query.Where("is_posted = ?", true)
	}

	var announcements []announcementRecord
	query.Find(&announcements)

	payload := make([]fiber.Map, 0, len(announcements))
	for _, announcement := range announcements {
		payload = append(payload, announcement.wire(s.userName(announcement.CreatedBy)))
	}
	return c.JSON(payload)
}

type announcementBody struct {
	CourseID uint   `json:"course_id"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	IsPosted bool   `json:"is_posted"`
}

func (s *Server) handleCreateAnnouncement(c *fiber.Ctx) error {
	user := currentUser(c)
	if user.IsStudent {
		return sendError(c, fiber.StatusForbidden, "access denied")
	}

	var body announcementBody
	if err := c.BodyParser(&body); err != nil {
		return sendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	announcement := announcementRecord{
		CourseID:  body.CourseID,
		Title:     body.Title,
		Content:   body.Content,
		CreatedBy: user.ID,
		CreatedAt: time.Now().UTC(),
		IsPosted:  body.IsPosted,
	}
	if err := s.db.Create(&announcement).Error; err != nil {
		return sendError(c, fiber.StatusInternalServerError, "failed to create announcement")
	}

	return c.Status(fiber.StatusCreated).JSON(announcement.wire(s.userName(user.ID)))
}

func (s *Server) handleUpdateAnnouncement(c *fiber.Ctx) error {
	if currentUser(c).IsStudent {
		return sendError(c, fiber.StatusForbidden, "access denied")
	}

	announcementID, err := c.ParamsInt("id")
	if err != nil {
		return sendError(c, fiber.StatusBadRequest, "invalid announcement id")
	}

	var announcement announcementRecord
	if err := s.db.First(&announcement, announcementID).Error; err != nil {
		return sendError(c, fiber.StatusNotFound, "announcement not found")
	}

	var body announcementBody
	if err := c.BodyParser(&body); err != nil {
		return sendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	announcement.Title = body.Title
	announcement.Content = body.Content
	announcement.IsPosted = body.IsPosted
	s.db.Save(&announcement)

	return c.JSON(announcement.wire(s.userName(announcement.CreatedBy)))
}

func (s *Server) handleDeleteAnnouncement(c *fiber.Ctx) error {
	if currentUser(c).IsStudent {
		return sendError(c, fiber.StatusForbidden, "access denied")
	}

	announcementID, err := c.ParamsInt("id")
	if err != nil {
		return sendError(c, fiber.StatusBadRequest, "invalid announcement id")
	}

	s.db.Delete(&announcementRecord{}, announcementID)
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) userName(userID uint) string {
	var user userRecord
	if err := s.db.First(&user, userID).Error; err != nil {
		return ""
	}
	return user.FirstName + " " + user.LastName
}

func (s *Server) questionText(questionID uint) string {
	var question questionRecord
	if err := s.db.First(&question, questionID).Error; err != nil {
		return ""
	}
	return question.QuestionText
}
