// Package repository handles all interactions with the database.
//
// It contains raw SQL queries and methods to fetch, persist,
// or update data, abstracting SQL logic away from the service layer.
// Each multi-statement operation runs in a single transaction.
//
// The interfaces below are implemented by the PostgreSQL repositories in
// this package and by the in-memory store in repository/memory.
package repository

import (
	"context"
	"errors"

	"github.com/deppfellow/askmate/internal/model"
)

var (
	// ErrNotFound is returned when the addressed row (or a row it references) does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a unique constraint rejects a write.
	ErrConflict = errors.New("conflict")
)

type QuestionRepository interface {
	ListQuestions(ctx context.Context, sort model.Sort) ([]model.Question, error)
	LatestQuestions(ctx context.Context, n int) ([]model.Question, error)
	GetQuestion(ctx context.Context, id int) (*model.Question, error)
	AddQuestion(ctx context.Context, title, message, image string) (int, error)
	EditQuestion(ctx context.Context, id int, title, message string) error
	// DeleteQuestion removes the question and all its dependents and
	// returns the stored image path.
	DeleteQuestion(ctx context.Context, id int) (string, error)
	VoteQuestion(ctx context.Context, id int, direction model.VoteDirection) (int, error)
	IncrementViews(ctx context.Context, id int) error
	GetImage(ctx context.Context, id int) (string, error)
	Search(ctx context.Context, phrase string) ([]model.Question, error)
}

type AnswerRepository interface {
	AnswersForQuestion(ctx context.Context, questionID int) ([]model.Answer, error)
	GetAnswer(ctx context.Context, id int) (*model.Answer, error)
	AddAnswer(ctx context.Context, questionID int, message, image string) (int, error)
	EditAnswer(ctx context.Context, id int, message string) error
	QuestionIDForAnswer(ctx context.Context, answerID int) (int, error)
	VoteAnswer(ctx context.Context, id int, direction model.VoteDirection) (int, error)
	// DeleteAnswer removes the answer and its comments and returns the parent question id.
	DeleteAnswer(ctx context.Context, id int) (int, error)
}

type CommentRepository interface {
	CommentsForQuestion(ctx context.Context, questionID int) ([]model.Comment, error)
	CommentsForAnswers(ctx context.Context, questionID int) ([]model.Comment, error)
	GetComment(ctx context.Context, id int) (*model.Comment, error)
	AddCommentToQuestion(ctx context.Context, questionID int, message string) (int, error)
	AddCommentToAnswer(ctx context.Context, answerID int, message string) (int, error)
	EditComment(ctx context.Context, id int, message string) error
	QuestionIDForComment(ctx context.Context, id int) (int, error)
	DeleteComment(ctx context.Context, id int) (model.CommentParent, error)
}

type TagRepository interface {
	ListTags(ctx context.Context) ([]model.Tag, error)
	TagsForQuestion(ctx context.Context, questionID int) ([]model.Tag, error)
	AddTag(ctx context.Context, tagID, questionID int) error
	AddNewTag(ctx context.Context, name string) (int, error)
	IsTagAdded(ctx context.Context, tagID, questionID int) (bool, error)
	TagIDByName(ctx context.Context, name string) (int, error)
	RemoveTag(ctx context.Context, questionID, tagID int) error
}

type UserRepository interface {
	RegisterUser(ctx context.Context, email, passwordHash string) (int, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUser(ctx context.Context, id int) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
}

// SessionStore maps opaque session tokens to user ids.
type SessionStore interface {
	Create(ctx context.Context, userID int) (string, error)
	Get(ctx context.Context, token string) (int, error)
	Delete(ctx context.Context, token string) error
}
