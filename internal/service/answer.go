package service

import (
	"context"

	"github.com/deppfellow/askmate/internal/lib/storage"
	"github.com/deppfellow/askmate/internal/model"
	"github.com/deppfellow/askmate/internal/repository"
	"github.com/deppfellow/askmate/internal/server"
)

type AnswerService struct {
	server  *server.Server
	answers repository.AnswerRepository
	images  *storage.ImageStore
}

func NewAnswerService(s *server.Server, repos *repository.Repositories, images *storage.ImageStore) *AnswerService {
	return &AnswerService{
		server:  s,
		answers: repos.Answer,
		images:  images,
	}
}

// Add posts an answer to questionID and returns the new answer id.
func (s *AnswerService) Add(ctx context.Context, questionID int, message string, upload *ImageUpload) (int, error) {
	image, err := saveImage(s.images, upload)
	if err != nil {
		return 0, err
	}

	id, err := s.answers.AddAnswer(ctx, questionID, message, image)
	if err != nil {
		if rmErr := s.images.Remove(image); rmErr != nil {
			s.server.Logger.Warn().Err(rmErr).Str("image", image).Msg("failed to remove stored image")
		}
		return 0, translate(err, "Question")
	}

	s.server.Metrics.AnswersCreated.Inc()
	return id, nil
}

func (s *AnswerService) Get(ctx context.Context, id int) (*model.Answer, error) {
	a, err := s.answers.GetAnswer(ctx, id)
	if err != nil {
		return nil, translate(err, "Answer")
	}
	return a, nil
}

// Edit updates the message and returns the question the answer belongs to.
func (s *AnswerService) Edit(ctx context.Context, id int, message string) (int, error) {
	if err := s.answers.EditAnswer(ctx, id, message); err != nil {
		return 0, translate(err, "Answer")
	}

	questionID, err := s.answers.QuestionIDForAnswer(ctx, id)
	if err != nil {
		return 0, translate(err, "Answer")
	}
	return questionID, nil
}

// Delete removes the answer and its comments and returns the parent question id.
func (s *AnswerService) Delete(ctx context.Context, id int) (int, error) {
	a, err := s.answers.GetAnswer(ctx, id)
	if err != nil {
		return 0, translate(err, "Answer")
	}

	questionID, err := s.answers.DeleteAnswer(ctx, id)
	if err != nil {
		return 0, translate(err, "Answer")
	}

	if err := s.images.Remove(a.Image); err != nil {
		s.server.Logger.Warn().Err(err).Str("image", a.Image).Msg("failed to remove stored image")
	}
	return questionID, nil
}

// Vote applies the vote and returns the parent question id.
func (s *AnswerService) Vote(ctx context.Context, id int, direction model.VoteDirection) (int, error) {
	if _, err := s.answers.VoteAnswer(ctx, id, direction); err != nil {
		return 0, translate(err, "Answer")
	}
	s.server.Metrics.VotesCast.WithLabelValues("answer", string(direction)).Inc()

	questionID, err := s.answers.QuestionIDForAnswer(ctx, id)
	if err != nil {
		return 0, translate(err, "Answer")
	}
	return questionID, nil
}
