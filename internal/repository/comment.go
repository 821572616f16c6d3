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

const commentColumns = "id, question_id, answer_id, message, submission_time, edited_count"

type PostgresCommentRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresCommentRepository(pool *pgxpool.Pool) *PostgresCommentRepository {
	return &PostgresCommentRepository{pool: pool}
}

func (r *PostgresCommentRepository) CommentsForQuestion(ctx context.Context, questionID int) ([]model.Comment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+commentColumns+`
		FROM comment
		WHERE question_id = $1
		ORDER BY submission_time DESC, id DESC`, questionID)
	if err != nil {
		return nil, fmt.Errorf("listing comments of question %d: %w", questionID, err)
	}
	return collectComments(rows)
}

// CommentsForAnswers returns the comments on every answer of the question.
func (r *PostgresCommentRepository) CommentsForAnswers(ctx context.Context, questionID int) ([]model.Comment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT c.id, c.question_id, c.answer_id, c.message, c.submission_time, c.edited_count
		FROM comment c
		JOIN answer a ON a.id = c.answer_id
		WHERE a.question_id = $1
		ORDER BY c.submission_time DESC, c.id DESC`, questionID)
	if err != nil {
		return nil, fmt.Errorf("listing answer comments of question %d: %w", questionID, err)
	}
	return collectComments(rows)
}

func (r *PostgresCommentRepository) GetComment(ctx context.Context, id int) (*model.Comment, error) {
	rows, err := r.pool.Query(ctx, "SELECT "+commentColumns+" FROM comment WHERE id = $1", id)
	if err != nil {
		return nil, fmt.Errorf("getting comment %d: %w", id, err)
	}

	c, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[model.Comment])
	if err != nil {
		return nil, notFound(err, "comment", id)
	}
	return &c, nil
}

// AddCommentToQuestion returns the question id, which is where the caller redirects.
func (r *PostgresCommentRepository) AddCommentToQuestion(ctx context.Context, questionID int, message string) (int, error) {
	_, err := r.pool.Exec(ctx,
		"INSERT INTO comment (question_id, message, submission_time) VALUES ($1, $2, $3)",
		questionID, message, time.Now().UTC())
	if err != nil {
		if sqlerr.ErrCode(err) == sqlerr.ForeignKeyViolation {
			return 0, fmt.Errorf("question %d: %w", questionID, ErrNotFound)
		}
		return 0, fmt.Errorf("inserting question comment: %w", err)
	}
	return questionID, nil
}

// AddCommentToAnswer inserts the comment and resolves the answer's question id
// in the same transaction.
func (r *PostgresCommentRepository) AddCommentToAnswer(ctx context.Context, answerID int, message string) (int, error) {
	var questionID int

	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx,
			"SELECT question_id FROM answer WHERE id = $1 FOR SHARE", answerID,
		).Scan(&questionID); err != nil {
			return notFound(err, "answer", answerID)
		}

		if _, err := tx.Exec(ctx,
			"INSERT INTO comment (answer_id, message, submission_time) VALUES ($1, $2, $3)",
			answerID, message, time.Now().UTC(),
		); err != nil {
			return fmt.Errorf("inserting answer comment: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return questionID, nil
}

// EditComment counts edits in the same statement: NULL becomes 1, then 2, ...
func (r *PostgresCommentRepository) EditComment(ctx context.Context, id int, message string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE comment
		SET message = $2,
		    edited_count = COALESCE(edited_count, 0) + 1
		WHERE id = $1`,
		id, message)
	if err != nil {
		return fmt.Errorf("updating comment %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("comment %d: %w", id, ErrNotFound)
	}
	return nil
}

// QuestionIDForComment resolves the question a comment is shown under.
func (r *PostgresCommentRepository) QuestionIDForComment(ctx context.Context, id int) (int, error) {
	var questionID int
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(c.question_id, a.question_id)
		FROM comment c
		LEFT JOIN answer a ON a.id = c.answer_id
		WHERE c.id = $1`, id,
	).Scan(&questionID)
	if err != nil {
		return 0, notFound(err, "comment", id)
	}
	return questionID, nil
}

func (r *PostgresCommentRepository) DeleteComment(ctx context.Context, id int) (model.CommentParent, error) {
	var questionID, answerID *int
	err := r.pool.QueryRow(ctx,
		"DELETE FROM comment WHERE id = $1 RETURNING question_id, answer_id", id,
	).Scan(&questionID, &answerID)
	if err != nil {
		return model.CommentParent{}, notFound(err, "comment", id)
	}

	var parent model.CommentParent
	if questionID != nil {
		parent.QuestionID = *questionID
	}
	if answerID != nil {
		parent.AnswerID = *answerID
	}
	return parent, nil
}

func collectComments(rows pgx.Rows) ([]model.Comment, error) {
	comments, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Comment])
	if err != nil {
		return nil, fmt.Errorf("scanning comments: %w", err)
	}
	return comments, nil
}
