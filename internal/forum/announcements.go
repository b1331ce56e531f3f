package forum

import (
	"context"
	"fmt"
	"time"

	"github.com/devhive/devhive-client/internal/gateway"
)

// Announcement is a site-wide announcement.
type Announcement struct {
	ID          string    `json:"_id"`
	AuthorName  string    `json:"authorName"`
	AuthorImage string    `json:"authorImage"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateAnnouncementInput is the payload for creating an announcement.
type CreateAnnouncementInput struct {
	AuthorName  string `json:"authorName"`
	AuthorImage string `json:"authorImage"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// AnnouncementsService operates on announcements.
type AnnouncementsService struct {
	gw *gateway.Gateway
}

// List returns all announcements, newest first.
func (s *AnnouncementsService) List(ctx context.Context) ([]Announcement, error) {
	var announcements []Announcement
	if err := s.gw.GetJSON(ctx, "/announcement", &announcements); err != nil {
		return nil, fmt.Errorf("list announcements: %w", err)
	}
	return announcements, nil
}

// Create publishes an announcement (admin action).
func (s *AnnouncementsService) Create(ctx context.Context, in CreateAnnouncementInput) error {
	if err := s.gw.PostJSON(ctx, "/announcement", in, nil); err != nil {
		return fmt.Errorf("create announcement: %w", err)
	}
	return nil
}
