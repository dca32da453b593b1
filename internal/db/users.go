package db

import (
	"context"
	"fmt"

	"lifesync/internal/models"
)

const userColumns = `id, email, display_name, photo_url, age, height_cm, weight_kg, fitness_goal, password_hash, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID, &user.Email, &user.DisplayName, &user.PhotoURL,
		&user.Age, &user.HeightCm, &user.WeightKg, &user.FitnessGoal,
		&user.PasswordHash, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (db *PostgresDB) CreateUser(ctx context.Context, user *models.User) error {
	query := `
        INSERT INTO users (id, email, display_name, photo_url, age, height_cm, weight_kg, fitness_goal, password_hash, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
    `

	_, err := db.pool.Exec(ctx, query,
		user.ID, user.Email, user.DisplayName, user.PhotoURL,
		user.Age, user.HeightCm, user.WeightKg, string(user.FitnessGoal),
		user.PasswordHash, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", translate(err))
	}
	return nil
}

func (db *PostgresDB) GetUser(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(db.pool.QueryRow(ctx, query, id))
}

func (db *PostgresDB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(db.pool.QueryRow(ctx, query, email))
}

// UpdateProfile writes the editable profile fields; last write wins.
func (db *PostgresDB) UpdateProfile(ctx context.Context, user *models.User) error {
	query := `
        UPDATE users
        SET display_name = $2, age = $3, height_cm = $4, weight_kg = $5, fitness_goal = $6, updated_at = $7
        WHERE id = $1
    `

	tag, err := db.pool.Exec(ctx, query,
		user.ID, user.DisplayName, user.Age, user.HeightCm, user.WeightKg,
		string(user.FitnessGoal), user.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (db *PostgresDB) UpdatePhotoURL(ctx context.Context, userID, url string) error {
	return db.updateUserField(ctx, `UPDATE users SET photo_url = $2, updated_at = NOW() WHERE id = $1`, userID, url)
}

func (db *PostgresDB) UpdatePasswordHash(ctx context.Context, userID, hash string) error {
	return db.updateUserField(ctx, `UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`, userID, hash)
}

func (db *PostgresDB) updateUserField(ctx context.Context, query, userID, value string) error {
	tag, err := db.pool.Exec(ctx, query, userID, value)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (db *PostgresDB) CreateSession(ctx context.Context, session *models.Session) error {
	query := `
        INSERT INTO sessions (id, user_id, created_at, expires_at)
        VALUES ($1, $2, $3, $4)
    `

	_, err := db.pool.Exec(ctx, query, session.ID, session.UserID, session.CreatedAt, session.ExpiresAt)
	return err
}

func (db *PostgresDB) GetSession(ctx context.Context, id string) (*models.Session, error) {
	query := `SELECT id, user_id, created_at, expires_at FROM sessions WHERE id = $1`

	var session models.Session
	err := db.pool.QueryRow(ctx, query, id).Scan(&session.ID, &session.UserID, &session.CreatedAt, &session.ExpiresAt)
	if err != nil {
		return nil, translate(err)
	}
	return &session, nil
}

func (db *PostgresDB) DeleteSession(ctx context.Context, id string) error {
	tag, err := db.pool.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
