package forum

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/devhive/devhive-client/internal/gateway"
)

// Post is a forum post as returned by the backend.
type Post struct {
	ID          string    `json:"_id"`
	AuthorName  string    `json:"authorName"`
	AuthorEmail string    `json:"authorEmail"`
	AuthorImage string    `json:"authorImage"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Tag         string    `json:"tag"`
	UpVote      int       `json:"upVote"`
	DownVote    int       `json:"downVote"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreatePostInput is the payload for creating a post.
type CreatePostInput struct {
	AuthorName  string `json:"authorName"`
	AuthorEmail string `json:"authorEmail"`
	AuthorImage string `json:"authorImage"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Tag         string `json:"tag"`
}

// ListPostsQuery filters and pages the post list.
type ListPostsQuery struct {
	Page             int    // 1-based; zero means first page
	Tag              string // filter by tag when non-empty
	SortByPopularity bool   // sort by vote difference instead of recency
}

// PostsService operates on posts.
type PostsService struct {
	gw *gateway.Gateway
}

// List returns a page of posts.
func (s *PostsService) List(ctx context.Context, q ListPostsQuery) ([]Post, error) {
	values := url.Values{}
	if q.Page > 1 {
		values.Set("page", strconv.Itoa(q.Page))
	}
	if q.Tag != "" {
		values.Set("tag", q.Tag)
	}
	if q.SortByPopularity {
		values.Set("sort", "popularity")
	}
	path := "/posts"
	if encoded := values.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var posts []Post
	if err := s.gw.GetJSON(ctx, path, &posts); err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

// Get returns a single post by ID.
func (s *PostsService) Get(ctx context.Context, id string) (*Post, error) {
	var post Post
	if err := s.gw.GetJSON(ctx, "/posts/"+url.PathEscape(id), &post); err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}
	return &post, nil
}

// Create publishes a new post. Bronze users are capped server-side; use
// CountByAuthor to surface the remaining quota before submitting.
func (s *PostsService) Create(ctx context.Context, in CreatePostInput) (*Post, error) {
	var post Post
	if err := s.gw.PostJSON(ctx, "/posts", in, &post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return &post, nil
}

// Delete removes a post.
func (s *PostsService) Delete(ctx context.Context, id string) error {
	if err := s.gw.Delete(ctx, "/posts/"+url.PathEscape(id)); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}

// Upvote increments a post's up-vote count.
func (s *PostsService) Upvote(ctx context.Context, id string) error {
	if err := s.gw.PatchJSON(ctx, "/posts/upvote/"+url.PathEscape(id), struct{}{}, nil); err != nil {
		return fmt.Errorf("upvote post: %w", err)
	}
	return nil
}

// Downvote increments a post's down-vote count.
func (s *PostsService) Downvote(ctx context.Context, id string) error {
	if err := s.gw.PatchJSON(ctx, "/posts/downvote/"+url.PathEscape(id), struct{}{}, nil); err != nil {
		return fmt.Errorf("downvote post: %w", err)
	}
	return nil
}

// CountByAuthor returns the author's post count, used against the bronze
// posting cap.
func (s *PostsService) CountByAuthor(ctx context.Context, email string) (int, error) {
	var out struct {
		Count int `json:"count"`
	}
	if err := s.gw.GetJSON(ctx, "/posts/count?email="+url.QueryEscape(email), &out); err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}
	return out.Count, nil
}
