package memory

import (
	"context"
	"time"

	"github.com/deppfellow/askmate/internal/model"
)

func (s *Store) AnswersForQuestion(_ context.Context, questionID int) ([]model.Answer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []model.Answer{}
	for _, a := range s.answers {
		if a.QuestionID == questionID {
			out = append(out, *a)
		}
	}
	newestFirst(out, func(a model.Answer) (time.Time, int) { return a.SubmissionTime, a.ID })
	return out, nil
}

func (s *Store) GetAnswer(_ context.Context, id int) (*model.Answer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.answers[id]
	if !ok {
		return nil, notFound("answer", id)
	}
	cp := *a
	return &cp, nil
}

func (s *Store) AddAnswer(_ context.Context, questionID int, message, image string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.questions[questionID]; !ok {
		return 0, notFound("question", questionID)
	}

	id := s.id("answer")
	s.answers[id] = &model.Answer{
		ID:             id,
		SubmissionTime: s.now(),
		QuestionID:     questionID,
		Message:        message,
		Image:          image,
	}
	return id, nil
}

func (s *Store) EditAnswer(_ context.Context, id int, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.answers[id]
	if !ok {
		return notFound("answer", id)
	}
	a.Message = message
	a.SubmissionTime = s.now()
	return nil
}

func (s *Store) QuestionIDForAnswer(_ context.Context, answerID int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.answers[answerID]
	if !ok {
		return 0, notFound("answer", answerID)
	}
	return a.QuestionID, nil
}

func (s *Store) VoteAnswer(_ context.Context, id int, direction model.VoteDirection) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.answers[id]
	if !ok {
		return 0, notFound("answer", id)
	}
	a.VoteNumber = model.ApplyVote(a.VoteNumber, direction)
	return a.VoteNumber, nil
}

func (s *Store) DeleteAnswer(_ context.Context, id int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.answers[id]
	if !ok {
		return 0, notFound("answer", id)
	}
	s.deleteCommentsOnAnswer(id)
	delete(s.answers, id)
	return a.QuestionID, nil
}
