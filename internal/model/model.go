// Package model holds the forum entities shared by repositories, services and views.
package model

import "time"

// Question is a row of the question table.
type Question struct {
	ID             int       `json:"id" db:"id"`
	SubmissionTime time.Time `json:"submission_time" db:"submission_time"`
	ViewNumber     int       `json:"view_number" db:"view_number"`
	VoteNumber     int       `json:"vote_number" db:"vote_number"`
	Title          string    `json:"title" db:"title"`
	Message        string    `json:"message" db:"message"`
	Image          string    `json:"image" db:"image"`
}

// Answer is a row of the answer table.
type Answer struct {
	ID             int       `json:"id" db:"id"`
	SubmissionTime time.Time `json:"submission_time" db:"submission_time"`
	VoteNumber     int       `json:"vote_number" db:"vote_number"`
	QuestionID     int       `json:"question_id" db:"question_id"`
	Message        string    `json:"message" db:"message"`
	Image          string    `json:"image" db:"image"`
}

// Comment attaches to exactly one of a question or an answer.
// EditedCount stays nil until the first edit.
type Comment struct {
	ID             int       `json:"id" db:"id"`
	QuestionID     *int      `json:"question_id" db:"question_id"`
	AnswerID       *int      `json:"answer_id" db:"answer_id"`
	Message        string    `json:"message" db:"message"`
	SubmissionTime time.Time `json:"submission_time" db:"submission_time"`
	EditedCount    *int      `json:"edited_count" db:"edited_count"`
}

// CommentParent identifies the parent of a deleted comment.
// Exactly one of the ids is non-zero.
type CommentParent struct {
	QuestionID int
	AnswerID   int
}

// OnAnswer reports whether the comment belonged to an answer.
func (p CommentParent) OnAnswer() bool {
	return p.AnswerID != 0
}

// Tag is a row of the tag table. Names are unique and stored lower-cased.
type Tag struct {
	ID   int    `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// User is a registered account. PasswordHash holds a bcrypt hash.
type User struct {
	ID               int       `json:"id" db:"id"`
	Email            string    `json:"email" db:"email"`
	PasswordHash     string    `json:"-" db:"password"`
	RegistrationDate time.Time `json:"registration_date" db:"registration_date"`
}
