package forum

// Package forum is the typed client for the forum REST API. Every call is
// issued through the authenticated request gateway, so credential
// attachment and 401/403 handling are uniform regardless of caller.

import (
	"log/slog"

	"github.com/devhive/devhive-client/internal/gateway"
)

// Client groups the per-resource services of the forum API.
type Client struct {
	Posts         *PostsService
	Comments      *CommentsService
	Users         *UsersService
	Announcements *AnnouncementsService
	Tags          *TagsService
	Payments      *PaymentsService
}

// ClientOptions groups dependencies for Client.
type ClientOptions struct {
	Gateway *gateway.Gateway
	Logger  *slog.Logger
}

// NewClient constructs a forum API client over the given gateway.
func NewClient(opts ClientOptions) *Client {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		Posts:         &PostsService{gw: opts.Gateway},
		Comments:      &CommentsService{gw: opts.Gateway},
		Users:         &UsersService{gw: opts.Gateway, logger: logger},
		Announcements: &AnnouncementsService{gw: opts.Gateway},
		Tags:          &TagsService{gw: opts.Gateway},
		Payments:      &PaymentsService{gw: opts.Gateway},
	}
}
