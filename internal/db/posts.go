package db

import (
	"context"
	"encoding/json"
	"fmt"

	"lifesync/internal/models"
)

const postColumns = `id, author_id, author_name, content, likes, comments::text, created_at, updated_at`

func scanPost(row rowScanner) (*models.Post, error) {
	var (
		post     models.Post
		comments string
	)
	err := row.Scan(
		&post.ID, &post.AuthorID, &post.AuthorName, &post.Content,
		&post.Likes, &comments, &post.CreatedAt, &post.UpdatedAt,
	)
	if err != nil {
		return nil, translate(err)
	}
	if err := json.Unmarshal([]byte(comments), &post.Comments); err != nil {
		return nil, fmt.Errorf("failed to decode comments of post %s: %w", post.ID, err)
	}
	if post.Comments == nil {
		post.Comments = []models.Comment{}
	}
	return &post, nil
}

// ListPosts returns every post, newest first.
func (db *PostgresDB) ListPosts(ctx context.Context) ([]models.Post, error) {
	rows, err := db.pool.Query(ctx, `SELECT `+postColumns+` FROM posts ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	defer rows.Close()

	posts := []models.Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *post)
	}
	return posts, rows.Err()
}

func (db *PostgresDB) GetPost(ctx context.Context, id string) (*models.Post, error) {
	return scanPost(db.pool.QueryRow(ctx, `SELECT `+postColumns+` FROM posts WHERE id = $1`, id))
}

func (db *PostgresDB) CreatePost(ctx context.Context, post *models.Post) error {
	comments, err := marshalComments(post.Comments)
	if err != nil {
		return err
	}

	query := `
        INSERT INTO posts (id, author_id, author_name, content, likes, comments, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6::jsonb, $7, $8)
    `
	_, err = db.pool.Exec(ctx, query,
		post.ID, post.AuthorID, post.AuthorName, post.Content,
		post.Likes, comments, post.CreatedAt, post.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert post: %w", translate(err))
	}
	return nil
}

func (db *PostgresDB) UpdatePostContent(ctx context.Context, id, content string) error {
	tag, err := db.pool.Exec(ctx, `UPDATE posts SET content = $2, updated_at = NOW() WHERE id = $1`, id, content)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (db *PostgresDB) DeletePost(ctx context.Context, id string) error {
	tag, err := db.pool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// UpdateComments replaces the whole comments array of a post.
func (db *PostgresDB) UpdateComments(ctx context.Context, id string, comments []models.Comment) error {
	encoded, err := marshalComments(comments)
	if err != nil {
		return err
	}

	tag, err := db.pool.Exec(ctx, `UPDATE posts SET comments = $2::jsonb WHERE id = $1`, id, encoded)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func marshalComments(comments []models.Comment) (string, error) {
	if comments == nil {
		comments = []models.Comment{}
	}
	b, err := json.Marshal(comments)
	if err != nil {
		return "", fmt.Errorf("failed to encode comments: %w", err)
	}
	return string(b), nil
}
