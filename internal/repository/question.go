package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/deppfellow/askmate/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const questionColumns = "id, submission_time, view_number, vote_number, title, message, image"

type PostgresQuestionRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresQuestionRepository(pool *pgxpool.Pool) *PostgresQuestionRepository {
	return &PostgresQuestionRepository{pool: pool}
}

func (r *PostgresQuestionRepository) ListQuestions(ctx context.Context, sort model.Sort) ([]model.Question, error) {
	// sort.OrderBy only renders allow-listed identifiers.
	query := "SELECT " + questionColumns + " FROM question ORDER BY " + sort.OrderBy()

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing questions: %w", err)
	}

	questions, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Question])
	if err != nil {
		return nil, fmt.Errorf("scanning questions: %w", err)
	}
	return questions, nil
}

func (r *PostgresQuestionRepository) LatestQuestions(ctx context.Context, n int) ([]model.Question, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+questionColumns+`
		FROM question
		ORDER BY submission_time DESC, id DESC
		LIMIT $1`, n)
	if err != nil {
		return nil, fmt.Errorf("listing latest questions: %w", err)
	}

	questions, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Question])
	if err != nil {
		return nil, fmt.Errorf("scanning latest questions: %w", err)
	}
	return questions, nil
}

func (r *PostgresQuestionRepository) GetQuestion(ctx context.Context, id int) (*model.Question, error) {
	rows, err := r.pool.Query(ctx, "SELECT "+questionColumns+" FROM question WHERE id = $1", id)
	if err != nil {
		return nil, fmt.Errorf("getting question %d: %w", id, err)
	}

	q, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[model.Question])
	if err != nil {
		return nil, notFound(err, "question", id)
	}
	return &q, nil
}

func (r *PostgresQuestionRepository) AddQuestion(ctx context.Context, title, message, image string) (int, error) {
	var id int
	err := r.pool.QueryRow(ctx, `
		INSERT INTO question (submission_time, view_number, vote_number, title, message, image)
		VALUES ($1, 0, 0, $2, $3, $4)
		RETURNING id`,
		time.Now().UTC(), title, message, image,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("inserting question: %w", err)
	}
	return id, nil
}

func (r *PostgresQuestionRepository) EditQuestion(ctx context.Context, id int, title, message string) error {
	tag, err := r.pool.Exec(ctx,
		"UPDATE question SET title = $2, message = $3 WHERE id = $1",
		id, title, message)
	if err != nil {
		return fmt.Errorf("updating question %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("question %d: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteQuestion removes, in order: tag associations, comments on the
// question's answers, comments on the question, answers, the question.
func (r *PostgresQuestionRepository) DeleteQuestion(ctx context.Context, id int) (string, error) {
	var image string

	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx,
			"SELECT image FROM question WHERE id = $1 FOR UPDATE", id,
		).Scan(&image); err != nil {
			return notFound(err, "question", id)
		}

		statements := []string{
			"DELETE FROM question_tag WHERE question_id = $1",
			"DELETE FROM comment WHERE answer_id IN (SELECT id FROM answer WHERE question_id = $1)",
			"DELETE FROM comment WHERE question_id = $1",
			"DELETE FROM answer WHERE question_id = $1",
			"DELETE FROM question WHERE id = $1",
		}
		for _, stmt := range statements {
			if _, err := tx.Exec(ctx, stmt, id); err != nil {
				return fmt.Errorf("deleting question %d: %w", id, err)
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	return image, nil
}

// VoteQuestion applies the vote in one statement so concurrent downvotes
// cannot push the count below zero.
func (r *PostgresQuestionRepository) VoteQuestion(ctx context.Context, id int, direction model.VoteDirection) (int, error) {
	var votes int
	err := r.pool.QueryRow(ctx, `
		UPDATE question
		SET vote_number = GREATEST(vote_number + $2, 0)
		WHERE id = $1
		RETURNING vote_number`,
		id, direction.Delta(),
	).Scan(&votes)
	if err != nil {
		return 0, notFound(err, "question", id)
	}
	return votes, nil
}

func (r *PostgresQuestionRepository) IncrementViews(ctx context.Context, id int) error {
	tag, err := r.pool.Exec(ctx, "UPDATE question SET view_number = view_number + 1 WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("incrementing views of question %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("question %d: %w", id, ErrNotFound)
	}
	return nil
}

func (r *PostgresQuestionRepository) GetImage(ctx context.Context, id int) (string, error) {
	var image string
	if err := r.pool.QueryRow(ctx, "SELECT image FROM question WHERE id = $1", id).Scan(&image); err != nil {
		return "", notFound(err, "question", id)
	}
	return image, nil
}

// Search matches the phrase case-insensitively against question titles,
// question messages and answer messages. Each question appears once.
func (r *PostgresQuestionRepository) Search(ctx context.Context, phrase string) ([]model.Question, error) {
	pattern := "%" + escapeLike(phrase) + "%"

	rows, err := r.pool.Query(ctx, `
		SELECT `+questionColumns+`
		FROM question q
		WHERE q.title ILIKE $1
		   OR q.message ILIKE $1
		   OR EXISTS (
				SELECT 1 FROM answer a
				WHERE a.question_id = q.id AND a.message ILIKE $1
		   )
		ORDER BY q.submission_time DESC, q.id DESC`, pattern)
	if err != nil {
		return nil, fmt.Errorf("searching questions: %w", err)
	}

	questions, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Question])
	if err != nil {
		return nil, fmt.Errorf("scanning search results: %w", err)
	}
	return questions, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes LIKE metacharacters match literally.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// notFound maps pgx.ErrNoRows onto ErrNotFound and wraps anything else.
func notFound(err error, entity string, id int) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s %d: %w", entity, id, ErrNotFound)
	}
	return fmt.Errorf("%s %d: %w", entity, id, err)
}
