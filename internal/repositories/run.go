package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Aanzil/youtube-music-playlist-merger/internal/models"
	"github.com/Aanzil/youtube-music-playlist-merger/internal/shared"
)

const runColumns = `id, sequence, destination_title, destination_id, privacy, status, tracks_total, tracks_added,
	error_message, playlist_url, started_at, completed_at, created_at, updated_at, deleted_at`

// RunRepository implements models.Repository[*models.MergeRun] for publish-run history.
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository creates a new RunRepository with the given database connection
func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Create inserts a run and its sources. A run without an id gets a generated one.
func (r *RunRepository) Create(run *models.MergeRun) error {
	if run.RunID == "" {
		run.RunID = shared.GenerateID()
	}
	if run.Status == "" {
		run.Status = models.RunPending
	}
	if run.Privacy == "" {
		run.Privacy = models.PrivacyPrivate
	}
	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	sequence, err := nextSequenceTx(tx, "merge_runs")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	now := time.Now()
	query := `
		INSERT INTO merge_runs (id, sequence, destination_title, destination_id, privacy, status, tracks_total, tracks_added,
			error_message, playlist_url, started_at, completed_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	if _, err := tx.Exec(query,
		run.RunID,
		sequence,
		run.DestinationTitle,
		nullString(run.DestinationID),
		string(run.Privacy),
		string(run.Status),
		run.TracksTotal,
		run.TracksAdded,
		nullString(run.ErrorMessage),
		nullString(run.PlaylistURL),
		run.StartedAt,
		run.CompletedAt,
		now,
		now,
	); err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	for i, src := range run.Sources {
		if _, err := tx.Exec(
			"INSERT INTO merge_run_sources (run_id, position, title, playlist_id, liked) VALUES (?, ?, ?, ?, ?)",
			run.RunID, i, src.Title, nullString(src.PlaylistID), src.IsLiked(),
		); err != nil {
			return fmt.Errorf("failed to insert run source: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}

	run.Sequence = sequence
	run.Created = now
	run.Updated = now
	return nil
}

// Get retrieves a run by ID with its sources, excluding soft-deleted runs
func (r *RunRepository) Get(id string) (*models.MergeRun, error) {
	query := "SELECT " + runColumns + " FROM merge_runs WHERE id = ? AND deleted_at IS NULL"

	run, err := scanRun(r.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", shared.ErrRunNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	if run.Sources, err = r.sources(run.RunID); err != nil {
		return nil, err
	}
	return run, nil
}

// Update rewrites the mutable fields of a run.
func (r *RunRepository) Update(run *models.MergeRun) error {
	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	query := `
		UPDATE merge_runs
		SET destination_id = ?, status = ?, tracks_total = ?, tracks_added = ?, error_message = ?, playlist_url = ?,
			started_at = ?, completed_at = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`
	result, err := r.db.Exec(query,
		nullString(run.DestinationID),
		string(run.Status),
		run.TracksTotal,
		run.TracksAdded,
		nullString(run.ErrorMessage),
		nullString(run.PlaylistURL),
		run.StartedAt,
		run.CompletedAt,
		now,
		run.RunID,
	)
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}
	if err := expectOne(result, run.RunID); err != nil {
		return err
	}

	run.Updated = now
	return nil
}

// UpdateProgress records the number of tracks committed so far.
func (r *RunRepository) UpdateProgress(id string, added int) error {
	result, err := r.db.Exec(`
		UPDATE merge_runs
		SET tracks_added = ?, status = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`, added, string(models.RunInProgress), time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update run progress: %w", err)
	}
	return expectOne(result, id)
}

// Delete soft-deletes a run by ID
func (r *RunRepository) Delete(id string) error {
	result, err := r.db.Exec(`
		UPDATE merge_runs
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	return expectOne(result, id)
}

// List retrieves runs newest first, excluding soft-deleted runs.
//
// Supported criteria: "status" (string), "destination_title" (string), "limit" (int).
func (r *RunRepository) List(criteria map[string]any) ([]*models.MergeRun, error) {
	query := "SELECT " + runColumns + " FROM merge_runs WHERE deleted_at IS NULL"
	args := []any{}

	if status, ok := criteria["status"].(string); ok && status != "" {
		query += " AND status = ?"
		args = append(args, status)
	}

	if title, ok := criteria["destination_title"].(string); ok && title != "" {
		query += " AND lower(trim(destination_title)) = ?"
		args = append(args, models.NormalizeTitle(title))
	}

	query += " ORDER BY sequence DESC"

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}

	var runs []*models.MergeRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	rows.Close()

	// sources are loaded after the cursor is closed; in-memory databases have a single connection
	for _, run := range runs {
		if run.Sources, err = r.sources(run.RunID); err != nil {
			return nil, err
		}
	}
	return runs, nil
}

func (r *RunRepository) sources(runID string) ([]models.SourceDescriptor, error) {
	rows, err := r.db.Query("SELECT title, playlist_id, liked FROM merge_run_sources WHERE run_id = ? ORDER BY position", runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query run sources: %w", err)
	}
	defer rows.Close()

	var sources []models.SourceDescriptor
	for rows.Next() {
		var (
			src        models.SourceDescriptor
			playlistID sql.NullString
		)
		if err := rows.Scan(&src.Title, &playlistID, &src.Liked); err != nil {
			return nil, fmt.Errorf("failed to scan run source: %w", err)
		}
		src.PlaylistID = playlistID.String
		sources = append(sources, src)
	}
	return sources, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

// scanRun scans a merge_runs row selected with runColumns.
func scanRun(s scanner) (*models.MergeRun, error) {
	var (
		run           models.MergeRun
		privacy       string
		status        string
		destinationID sql.NullString
		errorMessage  sql.NullString
		playlistURL   sql.NullString
		startedAt     sql.NullTime
		completedAt   sql.NullTime
		deletedAt     sql.NullTime
	)

	err := s.Scan(&run.RunID, &run.Sequence, &run.DestinationTitle, &destinationID, &privacy, &status,
		&run.TracksTotal, &run.TracksAdded, &errorMessage, &playlistURL, &startedAt, &completedAt,
		&run.Created, &run.Updated, &deletedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}

	run.Privacy = models.Privacy(privacy)
	run.Status = models.RunStatus(status)
	run.DestinationID = destinationID.String
	run.ErrorMessage = errorMessage.String
	run.PlaylistURL = playlistURL.String
	if startedAt.Valid {
		run.StartedAt = &startedAt.Time
	}
	if completedAt.Valid {
		run.CompletedAt = &completedAt.Time
	}
	if deletedAt.Valid {
		run.DeletedAt = &deletedAt.Time
	}
	return &run, nil
}

func expectOne(result sql.Result, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrRunNotFound, id)
	}
	return nil
}

var _ models.Repository[*models.MergeRun] = (*RunRepository)(nil)
