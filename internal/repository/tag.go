package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/deppfellow/askmate/internal/model"
	"github.com/deppfellow/askmate/internal/sqlerr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresTagRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresTagRepository(pool *pgxpool.Pool) *PostgresTagRepository {
	return &PostgresTagRepository{pool: pool}
}

func (r *PostgresTagRepository) ListTags(ctx context.Context) ([]model.Tag, error) {
	rows, err := r.pool.Query(ctx, "SELECT id, name FROM tag ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	return collectTags(rows)
}

func (r *PostgresTagRepository) TagsForQuestion(ctx context.Context, questionID int) ([]model.Tag, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT t.id, t.name
		FROM tag t
		JOIN question_tag qt ON qt.tag_id = t.id
		WHERE qt.question_id = $1
		ORDER BY t.id`, questionID)
	if err != nil {
		return nil, fmt.Errorf("listing tags of question %d: %w", questionID, err)
	}
	return collectTags(rows)
}

// AddTag attaches a tag to a question. Attaching it again is a no-op,
// the composite primary key makes this safe under concurrency.
func (r *PostgresTagRepository) AddTag(ctx context.Context, tagID, questionID int) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO question_tag (question_id, tag_id)
		VALUES ($1, $2)
		ON CONFLICT (question_id, tag_id) DO NOTHING`,
		questionID, tagID)
	if err != nil {
		if sqlerr.ErrCode(err) == sqlerr.ForeignKeyViolation {
			return fmt.Errorf("tag %d on question %d: %w", tagID, questionID, ErrNotFound)
		}
		return fmt.Errorf("attaching tag %d to question %d: %w", tagID, questionID, err)
	}
	return nil
}

// AddNewTag creates the tag or looks up the existing one with that name.
func (r *PostgresTagRepository) AddNewTag(ctx context.Context, name string) (int, error) {
	var id int
	err := r.pool.QueryRow(ctx, `
		INSERT INTO tag (name)
		VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id`, name,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("creating tag %q: %w", name, err)
	}
	return id, nil
}

func (r *PostgresTagRepository) IsTagAdded(ctx context.Context, tagID, questionID int) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM question_tag WHERE tag_id = $1 AND question_id = $2
		)`, tagID, questionID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking tag %d on question %d: %w", tagID, questionID, err)
	}
	return exists, nil
}

// TagIDByName returns 0 when no tag has that name.
func (r *PostgresTagRepository) TagIDByName(ctx context.Context, name string) (int, error) {
	var id int
	err := r.pool.QueryRow(ctx, "SELECT id FROM tag WHERE name = $1", name).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("looking up tag %q: %w", name, err)
	}
	return id, nil
}

func (r *PostgresTagRepository) RemoveTag(ctx context.Context, questionID, tagID int) error {
	_, err := r.pool.Exec(ctx,
		"DELETE FROM question_tag WHERE question_id = $1 AND tag_id = $2",
		questionID, tagID)
	if err != nil {
		return fmt.Errorf("detaching tag %d from question %d: %w", tagID, questionID, err)
	}
	return nil
}

func collectTags(rows pgx.Rows) ([]model.Tag, error) {
	tags, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Tag])
	if err != nil {
		return nil, fmt.Errorf("scanning tags: %w", err)
	}
	return tags, nil
}
