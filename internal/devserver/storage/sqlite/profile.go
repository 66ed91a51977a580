package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"basekit/internal/devserver/storage"
	"basekit/internal/models"
)

// GetProfileByUserID retrieves the profile row owned by userID
func (s *Storage) GetProfileByUserID(ctx context.Context, userID string) (*models.UserProfile, error) {
	query := `
		SELECT id, user_id, username, display_name, bio, avatar_url, website, location, created_at, updated_at
		FROM profiles
		WHERE user_id = ?
	`

	profile := &models.UserProfile{}
	var username, displayName, bio, avatarURL, website, location sql.NullString

	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&profile.ID,
		&profile.UserID,
		&username,
		&displayName,
		&bio,
		&avatarURL,
		&website,
		&location,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	profile.Username = nullableStr(username)
	profile.DisplayName = nullableStr(displayName)
	profile.Bio = nullableStr(bio)
	profile.AvatarURL = nullableStr(avatarURL)
	profile.Website = nullableStr(website)
	profile.Location = nullableStr(location)

	return profile, nil
}

// InsertProfile creates the profile row
func (s *Storage) InsertProfile(ctx context.Context, profile *models.UserProfile) error {
	query := `
		INSERT INTO profiles (id, user_id, username, display_name, bio, avatar_url, website, location, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		profile.ID,
		profile.UserID,
		profile.Username,
		profile.DisplayName,
		profile.Bio,
		profile.AvatarURL,
		profile.Website,
		profile.Location,
		profile.CreatedAt,
		profile.UpdatedAt,
	)

	if err != nil {
		switch {
		case strings.Contains(err.Error(), "UNIQUE constraint failed: profiles.user_id"):
			return storage.ErrProfileExists
		case strings.Contains(err.Error(), "UNIQUE constraint failed: profiles.username"):
			return storage.ErrUsernameTaken
		}
		return fmt.Errorf("failed to insert profile: %w", err)
	}

	return nil
}

// UpdateProfile patches the row owned by userID with the non-nil fields
// and returns the updated row
func (s *Storage) UpdateProfile(ctx context.Context, userID string, fields models.ProfileFields) (*models.UserProfile, error) {
	set := []string{"updated_at = ?"}
	args := []any{time.Now().UTC()}

	appendField := func(column string, value *string) {
		if value != nil {
			set = append(set, column+" = ?")
			args = append(args, *value)
		}
	}
	appendField("username", fields.Username)
	appendField("display_name", fields.DisplayName)
	appendField("bio", fields.Bio)
	appendField("avatar_url", fields.AvatarURL)
	appendField("website", fields.Website)
	appendField("location", fields.Location)

	query := "UPDATE profiles SET " + strings.Join(set, ", ") + " WHERE user_id = ?"
	args = append(args, userID)

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: profiles.username") {
			return nil, storage.ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return nil, storage.ErrProfileNotFound
	}

	return s.GetProfileByUserID(ctx, userID)
}

func nullableStr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}
