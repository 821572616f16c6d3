package service

import (
	"context"

	"github.com/deppfellow/askmate/internal/model"
	"github.com/deppfellow/askmate/internal/repository"
	"github.com/deppfellow/askmate/internal/server"
)

type CommentService struct {
	server   *server.Server
	comments repository.CommentRepository
	answers  repository.AnswerRepository
}

func NewCommentService(s *server.Server, repos *repository.Repositories) *CommentService {
	return &CommentService{
		server:   s,
		comments: repos.Comment,
		answers:  repos.Answer,
	}
}

// AddToQuestion returns the question id to redirect to.
func (s *CommentService) AddToQuestion(ctx context.Context, questionID int, message string) (int, error) {
	id, err := s.comments.AddCommentToQuestion(ctx, questionID, message)
	if err != nil {
		return 0, translate(err, "Question")
	}
	s.server.Metrics.CommentsCreated.Inc()
	return id, nil
}

// AddToAnswer returns the id of the question the answer belongs to.
func (s *CommentService) AddToAnswer(ctx context.Context, answerID int, message string) (int, error) {
	id, err := s.comments.AddCommentToAnswer(ctx, answerID, message)
	if err != nil {
		return 0, translate(err, "Answer")
	}
	s.server.Metrics.CommentsCreated.Inc()
	return id, nil
}

func (s *CommentService) Get(ctx context.Context, id int) (*model.Comment, error) {
	c, err := s.comments.GetComment(ctx, id)
	if err != nil {
		return nil, translate(err, "Comment")
	}
	return c, nil
}

// Edit bumps the edit counter and returns the question the comment is shown under.
func (s *CommentService) Edit(ctx context.Context, id int, message string) (int, error) {
	if err := s.comments.EditComment(ctx, id, message); err != nil {
		return 0, translate(err, "Comment")
	}

	questionID, err := s.comments.QuestionIDForComment(ctx, id)
	if err != nil {
		return 0, translate(err, "Comment")
	}
	return questionID, nil
}

// Delete removes the comment and resolves the question page to go back to.
func (s *CommentService) Delete(ctx context.Context, id int) (int, error) {
	parent, err := s.comments.DeleteComment(ctx, id)
	if err != nil {
		return 0, translate(err, "Comment")
	}

	if !parent.OnAnswer() {
		return parent.QuestionID, nil
	}

	questionID, err := s.answers.QuestionIDForAnswer(ctx, parent.AnswerID)
	if err != nil {
		return 0, translate(err, "Answer")
	}
	return questionID, nil
}
