package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/deppfellow/askmate/internal/model"
	"github.com/deppfellow/askmate/internal/sqlerr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const answerColumns = "id, submission_time, vote_number, question_id, message, image"

type PostgresAnswerRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresAnswerRepository(pool *pgxpool.Pool) *PostgresAnswerRepository {
	return &PostgresAnswerRepository{pool: pool}
}

// AnswersForQuestion returns the answers of a question, newest first.
func (r *PostgresAnswerRepository) AnswersForQuestion(ctx context.Context, questionID int) ([]model.Answer, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+answerColumns+`
		FROM answer
		WHERE question_id = $1
		ORDER BY submission_time DESC, id DESC`, questionID)
	if err != nil {
		return nil, fmt.Errorf("listing answers of question %d: %w", questionID, err)
	}

	answers, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Answer])
	if err != nil {
		return nil, fmt.Errorf("scanning answers: %w", err)
	}
	return answers, nil
}

func (r *PostgresAnswerRepository) GetAnswer(ctx context.Context, id int) (*model.Answer, error) {
	rows, err := r.pool.Query(ctx, "SELECT "+answerColumns+" FROM answer WHERE id = $1", id)
	if err != nil {
		return nil, fmt.Errorf("getting answer %d: %w", id, err)
	}

	a, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[model.Answer])
	if err != nil {
		return nil, notFound(err, "answer", id)
	}
	return &a, nil
}

func (r *PostgresAnswerRepository) AddAnswer(ctx context.Context, questionID int, message, image string) (int, error) {
	var id int
	err := r.pool.QueryRow(ctx, `
		INSERT INTO answer (submission_time, vote_number, question_id, message, image)
		VALUES ($1, 0, $2, $3, $4)
		RETURNING id`,
		time.Now().UTC(), questionID, message, image,
	).Scan(&id)
	if err != nil {
		if sqlerr.ErrCode(err) == sqlerr.ForeignKeyViolation {
			return 0, fmt.Errorf("question %d: %w", questionID, ErrNotFound)
		}
		return 0, fmt.Errorf("inserting answer: %w", err)
	}
	return id, nil
}

// EditAnswer replaces the message and refreshes the submission time.
func (r *PostgresAnswerRepository) EditAnswer(ctx context.Context, id int, message string) error {
	tag, err := r.pool.Exec(ctx,
		"UPDATE answer SET message = $2, submission_time = $3 WHERE id = $1",
		id, message, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("updating answer %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("answer %d: %w", id, ErrNotFound)
	}
	return nil
}

func (r *PostgresAnswerRepository) QuestionIDForAnswer(ctx context.Context, answerID int) (int, error) {
	var questionID int
	if err := r.pool.QueryRow(ctx,
		"SELECT question_id FROM answer WHERE id = $1", answerID,
	).Scan(&questionID); err != nil {
		return 0, notFound(err, "answer", answerID)
	}
	return questionID, nil
}

func (r *PostgresAnswerRepository) VoteAnswer(ctx context.Context, id int, direction model.VoteDirection) (int, error) {
	var votes int
	err := r.pool.QueryRow(ctx, `
		UPDATE answer
		SET vote_number = GREATEST(vote_number + $2, 0)
		WHERE id = $1
		RETURNING vote_number`,
		id, direction.Delta(),
	).Scan(&votes)
	if err != nil {
		return 0, notFound(err, "answer", id)
	}
	return votes, nil
}

// DeleteAnswer locks the answer, removes its comments and the answer itself,
// and returns the parent question id.
func (r *PostgresAnswerRepository) DeleteAnswer(ctx context.Context, id int) (int, error) {
	var questionID int

	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx,
			"SELECT question_id FROM answer WHERE id = $1 FOR UPDATE", id,
		).Scan(&questionID); err != nil {
			return notFound(err, "answer", id)
		}

		if _, err := tx.Exec(ctx, "DELETE FROM comment WHERE answer_id = $1", id); err != nil {
			return fmt.Errorf("deleting comments of answer %d: %w", id, err)
		}
		if _, err := tx.Exec(ctx, "DELETE FROM answer WHERE id = $1", id); err != nil {
			return fmt.Errorf("deleting answer %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return questionID, nil
}
