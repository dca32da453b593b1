// Package community implements the shared feed: posts, edits and comments.
package community

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"

	"lifesync/internal/models"
	"lifesync/pkg/logger"
)

var (
	ErrEmptyContent = errors.New("content must not be empty")
	ErrForbidden    = errors.New("only the author can change this post")
)

const anonymous = "Anonymous"

type Store interface {
	ListPosts(ctx context.Context) ([]models.Post, error)
	GetPost(ctx context.Context, id string) (*models.Post, error)
	CreatePost(ctx context.Context, post *models.Post) error
	UpdatePostContent(ctx context.Context, id, content string) error
	DeletePost(ctx context.Context, id string) error
	UpdateComments(ctx context.Context, id string, comments []models.Comment) error
}

// Author identifies who is posting.
type Author struct {
	ID   string
	Name string
}

type Service struct {
	store  Store
	logger *logger.Logger
	policy *bluemonday.Policy
	now    func() time.Time
}

func NewService(store Store, l *logger.Logger) *Service {
	return &Service{
		store:  store,
		logger: l,
		policy: bluemonday.StrictPolicy(),
		now:    time.Now,
	}
}

// clean strips markup and surrounding space; posts are plain text.
func (s *Service) clean(content string) (string, error) {
	text := strings.TrimSpace(html.UnescapeString(s.policy.Sanitize(content)))
	if text == "" {
		return "", ErrEmptyContent
	}
	return text, nil
}

func authorName(a Author) string {
	if name := strings.TrimSpace(a.Name); name != "" {
		return name
	}
	return anonymous
}

// List returns every post, newest first.
func (s *Service) List(ctx context.Context) ([]models.Post, error) {
	posts, err := s.store.ListPosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, nil
}

func (s *Service) Create(ctx context.Context, author Author, content string) (*models.Post, error) {
	text, err := s.clean(content)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	post := &models.Post{
		ID:         uuid.NewString(),
		AuthorID:   author.ID,
		AuthorName: authorName(author),
		Content:    text,
		Likes:      0,
		Comments:   []models.Comment{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.store.CreatePost(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	s.logger.Infow("post created", "post_id", post.ID, "author_id", author.ID)
	return post, nil
}

// owned loads a post and checks that userID wrote it.
func (s *Service) owned(ctx context.Context, userID, postID string) (*models.Post, error) {
	post, err := s.store.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != userID {
		return nil, ErrForbidden
	}
	return post, nil
}

func (s *Service) Edit(ctx context.Context, userID, postID, content string) (*models.Post, error) {
	text, err := s.clean(content)
	if err != nil {
		return nil, err
	}
	post, err := s.owned(ctx, userID, postID)
	if err != nil {
		return nil, err
	}
	if err := s.store.UpdatePostContent(ctx, postID, text); err != nil {
		return nil, fmt.Errorf("failed to update post: %w", err)
	}
	post.Content = text
	return post, nil
}

func (s *Service) Delete(ctx context.Context, userID, postID string) error {
	if _, err := s.owned(ctx, userID, postID); err != nil {
		return err
	}
	if err := s.store.DeletePost(ctx, postID); err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	s.logger.Infow("post deleted", "post_id", postID, "author_id", userID)
	return nil
}

// AddComment appends a comment and writes the whole comment list back.
// Concurrent comments on the same post race; the last write wins.
func (s *Service) AddComment(ctx context.Context, author Author, postID, content string) (*models.Post, error) {
	text, err := s.clean(content)
	if err != nil {
		return nil, err
	}
	post, err := s.store.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	comments := make([]models.Comment, len(post.Comments), len(post.Comments)+1)
	copy(comments, post.Comments)
	comments = append(comments, models.Comment{
		AuthorID:   author.ID,
		AuthorName: authorName(author),
		Content:    text,
		CreatedAt:  s.now().UTC(),
	})

	if err := s.store.UpdateComments(ctx, postID, comments); err != nil {
		return nil, fmt.Errorf("failed to add comment: %w", err)
	}
	post.Comments = comments
	return post, nil
}
