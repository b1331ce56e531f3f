package forum

import (
	"context"
	"fmt"

	"github.com/devhive/devhive-client/internal/gateway"
)

// Tag is a post tag.
type Tag struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

// TagsService operates on tags.
type TagsService struct {
	gw *gateway.Gateway
}

// List returns all tags.
func (s *TagsService) List(ctx context.Context) ([]Tag, error) {
	var tags []Tag
	if err := s.gw.GetJSON(ctx, "/tags", &tags); err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}

// Create adds a tag (admin action).
func (s *TagsService) Create(ctx context.Context, name string) error {
	body := map[string]string{"name": name}
	if err := s.gw.PostJSON(ctx, "/tags", body, nil); err != nil {
		return fmt.Errorf("create tag: %w", err)
	}
	return nil
}
