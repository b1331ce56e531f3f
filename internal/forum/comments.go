package forum

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/devhive/devhive-client/internal/gateway"
)

// Comment is a comment on a post.
type Comment struct {
	ID           string    `json:"_id"`
	PostID       string    `json:"postId"`
	AuthorEmail  string    `json:"authorEmail"`
	Text         string    `json:"text"`
	Reported     bool      `json:"reported"`
	ReportReason string    `json:"feedback"`
	CreatedAt    time.Time `json:"created_at"`
}

// AddCommentInput is the payload for adding a comment.
type AddCommentInput struct {
	PostID      string `json:"postId"`
	AuthorEmail string `json:"authorEmail"`
	Text        string `json:"text"`
}

// CommentsService operates on comments.
type CommentsService struct {
	gw *gateway.Gateway
}

// ListByPost returns all comments on a post.
func (s *CommentsService) ListByPost(ctx context.Context, postID string) ([]Comment, error) {
	var comments []Comment
	if err := s.gw.GetJSON(ctx, "/comments/"+url.PathEscape(postID), &comments); err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}

// Add posts a new comment.
func (s *CommentsService) Add(ctx context.Context, in AddCommentInput) (*Comment, error) {
	var comment Comment
	if err := s.gw.PostJSON(ctx, "/comments", in, &comment); err != nil {
		return nil, fmt.Errorf("add comment: %w", err)
	}
	return &comment, nil
}

// Report flags a comment for moderation with a feedback reason.
func (s *CommentsService) Report(ctx context.Context, commentID, feedback string) error {
	body := map[string]string{"feedback": feedback}
	if err := s.gw.PatchJSON(ctx, "/comments/report/"+url.PathEscape(commentID), body, nil); err != nil {
		return fmt.Errorf("report comment: %w", err)
	}
	return nil
}

// Reported returns all reported comments (admin view).
func (s *CommentsService) Reported(ctx context.Context) ([]Comment, error) {
	var comments []Comment
	if err := s.gw.GetJSON(ctx, "/comments/reported", &comments); err != nil {
		return nil, fmt.Errorf("list reported comments: %w", err)
	}
	return comments, nil
}

// Delete removes a comment (moderation action).
func (s *CommentsService) Delete(ctx context.Context, commentID string) error {
	if err := s.gw.Delete(ctx, "/comments/"+url.PathEscape(commentID)); err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return nil
}
