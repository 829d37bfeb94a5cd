package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dycedu/classroom-go/internal/models"
)

// CourseRequest is the authoring payload for creating or updating a course.
type CourseRequest struct {
	CourseName        string `json:"course_name" validate:"required"`
	CourseDescription string `json:"course_description"`
	ZoomLink          string `json:"zoom_link"`
	ScoreTotal        int    `json:"score_total" validate:"gte=0"`
}

// ListCourses returns every course visible to the caller.
func (c *Client) ListCourses(ctx context.Context) ([]models.Course, error) {
	var courses []models.Course
	if err := c.do(ctx, http.MethodGet, "/courses/", nil, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

// GetCourse fetches one course by ID.
func (c *Client) GetCourse(ctx context.Context, id uint) (models.Course, error) {
	var course models.Course
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/courses/%d/", id), nil, &course); err != nil {
		return models.Course{}, err
	}
	return course, nil
}

// EnrolledCourses returns the courses the user belongs to, as student or teacher.
func (c *Client) EnrolledCourses(ctx context.Context, userID uint) ([]models.Course, error) {
	var courses []models.Course
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/courses/userid=%d", userID), nil, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

// CreateCourse creates a course.
func (c *Client) CreateCourse(ctx context.Context, request CourseRequest) (models.Course, error) {
	if err := c.validate.Struct(request); err != nil {
		return models.Course{}, err
	}

	var course models.Course
	if err := c.do(ctx, http.MethodPost, "/courses/", request, &course); err != nil {
		return models.Course{}, err
	}
	return course, nil
}

// UpdateCourse replaces a course's fields.
func (c *Client) UpdateCourse(ctx context.Context, id uint, request CourseRequest) (models.Course, error) {
	if err := c.validate.Struct(request); err != nil {
		return models.Course{}, err
	}

	var course models.Course
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/courses/%d/", id), request, &course); err != nil {
		return models.Course{}, err
	}
	return course, nil
}

// AddCourseUser enrolls a user; the collaborator routes them to the student or
// teacher roster by their role.
func (c *Client) AddCourseUser(ctx context.Context, courseID, userID uint) error {
	body := map[string]uint{"user_id": userID}
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/courses/%d/users", courseID), body, nil)
}

// RemoveCourseUser drops a user from the course roster.
func (c *Client) RemoveCourseUser(ctx context.Context, courseID, userID uint) error {
	body := map[string]uint{"user_id": userID}
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/courses/%d/users", courseID), body, nil)
}

// UpdateZoomLink replaces the course's recurring meeting link.
func (c *Client) UpdateZoomLink(ctx context.Context, courseID uint, zoomLink string) (models.Course, error) {
	body := map[string]string{"zoom_link": zoomLink}

	var course models.Course
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/courses/%d/zoom", courseID), body, &course); err != nil {
		return models.Course{}, err
	}
	return course, nil
}

// CourseModules lists the modules of a course.
func (c *Client) CourseModules(ctx context.Context, courseID uint) ([]models.Module, error) {
	var modules []models.Module
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/courses/%d/modules/", courseID), nil, &modules); err != nil {
		return nil, err
	}
	return modules, nil
}
