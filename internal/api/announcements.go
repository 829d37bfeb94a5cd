package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dycedu/classroom-go/internal/models"
)

// AnnouncementRequest is the authoring payload for course announcements.
type AnnouncementRequest struct {
	CourseID uint   `json:"course_id" validate:"required"`
	Title    string `json:"title" validate:"required"`
	Content  string `json:"content" validate:"required"`
	IsPosted bool   `json:"is_posted"`
}

// ListAnnouncements lists announcements, optionally scoped to one course.
func (c *Client) ListAnnouncements(ctx context.Context, courseID uint) ([]models.Announcement, error) {
	path := "/announcements/"
	if courseID != 0 {
		path = fmt.Sprintf("/announcements/?course_id=%d", courseID)
	}

	var announcements []models.Announcement
	if err := c.do(ctx, http.MethodGet, path, nil, &announcements); err != nil {
		return nil, err
	}
	return announcements, nil
}

// CreateAnnouncement creates an announcement.
func (c *Client) CreateAnnouncement(ctx context.Context, request AnnouncementRequest) (models.Announcement, error) {
	if err := c.validate.Struct(request); err != nil {
		return models.Announcement{}, err
	}

	var announcement models.Announcement
	if err := c.do(ctx, http.MethodPost, "/announcements/", request, &announcement); err != nil {
		return models.Announcement{}, err
	}
	return announcement, nil
}

// UpdateAnnouncement replaces an announcement's fields.
func (c *Client) UpdateAnnouncement(ctx context.Context, id uint, request AnnouncementRequest) (models.Announcement, error) {
	if err := c.validate.Struct(request); err != nil {
		return models.Announcement{}, err
	}

	var announcement models.Announcement
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/announcements/%d/", id), request, &announcement); err != nil {
		return models.Announcement{}, err
	}
	return announcement, nil
}

// DeleteAnnouncement removes an announcement.
func (c *Client) DeleteAnnouncement(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/announcements/%d/", id), nil, nil)
}
