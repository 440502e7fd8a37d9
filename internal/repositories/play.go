package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/desertthunder/lyrx/internal/models"
	"github.com/desertthunder/lyrx/internal/shared"
)

// ErrPlayNotFound is returned by [PlayRepository.Get] for unknown IDs.
var ErrPlayNotFound = errors.New("play not found")

const playColumns = "id, title, artist, item_type, status, api_path, blocks, played_at"

// PlayRepository persists [models.Play] rows in the plays table.
//
// It implements tasks.PlayRecorder.
type PlayRepository struct {
	db *sql.DB
}

// NewPlayRepository creates a new PlayRepository with the given database connection
func NewPlayRepository(db *sql.DB) *PlayRepository {
	return &PlayRepository{db: db}
}

// Create inserts a new [models.Play] with a generated ID
func (r *PlayRepository) Create(play *models.Play) error {
	if err := play.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	id := shared.GenerateID()

	query := `
		INSERT INTO plays (` + playColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		id,
		play.Title,
		play.Artist,
		play.ItemType,
		string(play.Status),
		play.APIPath,
		play.Blocks,
		play.PlayedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert play: %w", err)
	}

	play.ID = id
	return nil
}

// Get retrieves a play by ID
func (r *PlayRepository) Get(id string) (*models.Play, error) {
	query := `SELECT ` + playColumns + ` FROM plays WHERE id = ?`

	play, err := scanPlay(r.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrPlayNotFound, id)
	}
	return play, err
}

// Recent returns up to limit plays, newest first. A non-positive limit returns every play.
func (r *PlayRepository) Recent(limit int) ([]*models.Play, error) {
	return r.List(map[string]any{"limit": limit})
}

// List retrieves plays matching the given criteria, newest first.
//
// Supported criteria: "status" (models.PlayStatus or string), "artist" (string), "limit" (int).
func (r *PlayRepository) List(criteria map[string]any) ([]*models.Play, error) {
	query := `SELECT ` + playColumns + ` FROM plays WHERE 1 = 1`
	args := []any{}

	switch status := criteria["status"].(type) {
	case models.PlayStatus:
		if status != "" {
			query += " AND status = ?"
			args = append(args, string(status))
		}
	case string:
		if status != "" {
			query += " AND status = ?"
			args = append(args, status)
		}
	}

	if artist, ok := criteria["artist"].(string); ok && artist != "" {
		query += " AND artist = ?"
		args = append(args, shared.NormalizeArtist(artist))
	}

	query += " ORDER BY played_at DESC, rowid DESC"

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query plays: %w", err)
	}
	defer rows.Close()

	plays := []*models.Play{}
	for rows.Next() {
		play, err := scanPlay(rows)
		if err != nil {
			return nil, err
		}
		plays = append(plays, play)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return plays, nil
}

// Count returns the number of plays with the given status, or of all plays when status is empty.
func (r *PlayRepository) Count(status models.PlayStatus) (int, error) {
	query := "SELECT COUNT(*) FROM plays"
	args := []any{}
	if status != "" {
		query += " WHERE status = ?"
		args = append(args, string(status))
	}

	var n int
	if err := r.db.QueryRow(query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count plays: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

// scanPlay scans a single row from [sql.Row] or [sql.Rows] into a [models.Play]
func scanPlay(row scanner) (*models.Play, error) {
	var (
		play   models.Play
		status string
	)

	err := row.Scan(&play.ID, &play.Title, &play.Artist, &play.ItemType, &status, &play.APIPath, &play.Blocks, &play.PlayedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan play: %w", err)
	}

	play.Status = models.PlayStatus(status)
	return &play, nil
}
