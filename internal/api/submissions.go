package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dycedu/classroom-go/internal/models"
)

// SubmissionFilter narrows a submission listing.
type SubmissionFilter struct {
	QuestionID uint
	ModuleID   uint
}

// SubmitRequest is the payload for answering one question.
type SubmitRequest struct {
	QuestionID     uint   `json:"question_id" validate:"required"`
	ModuleID       uint   `json:"module_id" validate:"required"`
	SubmissionType string `json:"submission_type" validate:"required,oneof=multiple_choice audio written video"`
	Response       string `json:"response" validate:"required"`
}

// ListSubmissions lists submissions matching the filter. The payload may
// include other users' rows; the submission index filters per user.
func (c *Client) ListSubmissions(ctx context.Context, filter SubmissionFilter) ([]models.Submission, error) {
	path := "/submissions/"

	params := url.Values{}
	if filter.QuestionID != 0 {
		params.Set("question_id", strconv.FormatUint(uint64(filter.QuestionID), 10))
	}
	if filter.ModuleID != 0 {
		params.Set("module_id", strconv.FormatUint(uint64(filter.ModuleID), 10))
	}
	if encoded := params.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var submissions []models.Submission
	if err := c.do(ctx, http.MethodGet, path, nil, &submissions); err != nil {
		return nil, err
	}
	return submissions, nil
}

// GetUserSubmission fetches one user's submission for one question.
func (c *Client) GetUserSubmission(ctx context.Context, userID, questionID uint) (models.Submission, error) {
	var submission models.Submission
	path := fmt.Sprintf("/submissions/users/%d/questions/%d", userID, questionID)
	if err := c.do(ctx, http.MethodGet, path, nil, &submission); err != nil {
		return models.Submission{}, err
	}
	return submission, nil
}

// Submit creates a submission for a question.
func (c *Client) Submit(ctx context.Context, request SubmitRequest) (models.Submission, error) {
	if err := c.validate.Struct(request); err != nil {
		return models.Submission{}, err
	}

	var submission models.Submission
	if err := c.do(ctx, http.MethodPost, "/submissions/", request, &submission); err != nil {
		return models.Submission{}, err
	}
	return submission, nil
}

// UpdateSubmission replaces an existing submission's response. Only available
// when the deployment allows resubmission.
func (c *Client) UpdateSubmission(ctx context.Context, id uint, request SubmitRequest) (models.Submission, error) {
	if err := c.validate.Struct(request); err != nil {
		return models.Submission{}, err
	}

	var submission models.Submission
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/submissions/%d/", id), request, &submission); err != nil {
		return models.Submission{}, err
	}
	return submission, nil
}

// GradeSubmission posts a teacher's score for one submission.
func (c *Client) GradeSubmission(ctx context.Context, submissionID uint, grade models.Grade) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/submissions/%d/grade", submissionID), grade, nil)
}
