package view

import (
	"context"
	"time"
)

// Announcement is one sanitized feed entry.
type Announcement struct {
	ID            uint      `json:"id"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	CreatedByName string    `json:"created_by_name,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	IsPosted      bool      `json:"is_posted"`
}

// Announcements returns the course's announcement feed. Students only see
// posted announcements; teachers see drafts too. Announcement content is
// teacher-authored rich text and is sanitized before display.
func (s *Service) Announcements(ctx context.Context, courseID uint, isStudent bool) ([]Announcement, error) {
	raw, err := s.collaborator.ListAnnouncements(ctx, courseID)
	if err != nil {
		return nil, err
	}

	feed := make([]Announcement, 0, len(raw))
	for _, announcement := range raw {
		if isStudent && !announcement.IsPosted {
			continue
		}
		feed = append(feed, Announcement{
			ID:            announcement.ID,
			Title:         announcement.Title,
			Content:       s.sanitizer.Sanitize(announcement.Content),
			CreatedByName: announcement.CreatedByName,
			CreatedAt:     announcement.CreatedAt,
			IsPosted:      announcement.IsPosted,
		})
	}
	return feed, nil
}
