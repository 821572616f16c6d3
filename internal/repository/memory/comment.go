package memory

import (
	"context"
	"time"

	"github.com/deppfellow/askmate/internal/model"
)

func (s *Store) CommentsForQuestion(_ context.Context, questionID int) ([]model.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []model.Comment{}
	for _, c := range s.comments {
		if c.QuestionID != nil && *c.QuestionID == questionID {
			out = append(out, copyComment(c))
		}
	}
	newestFirst(out, commentTime)
	return out, nil
}

func (s *Store) CommentsForAnswers(_ context.Context, questionID int) ([]model.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []model.Comment{}
	for _, c := range s.comments {
		if c.AnswerID == nil {
			continue
		}
		if a, ok := s.answers[*c.AnswerID]; ok && a.QuestionID == questionID {
			out = append(out, copyComment(c))
		}
	}
	newestFirst(out, commentTime)
	return out, nil
}

func (s *Store) GetComment(_ context.Context, id int) (*model.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.comments[id]
	if !ok {
		return nil, notFound("comment", id)
	}
	cp := copyComment(c)
	return &cp, nil
}

func (s *Store) AddCommentToQuestion(_ context.Context, questionID int, message string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.questions[questionID]; !ok {
		return 0, notFound("question", questionID)
	}

	id := s.id("comment")
	s.comments[id] = &model.Comment{
		ID:             id,
		QuestionID:     intPtr(questionID),
		Message:        message,
		SubmissionTime: s.now(),
	}
	return questionID, nil
}

func (s *Store) AddCommentToAnswer(_ context.Context, answerID int, message string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.answers[answerID]
	if !ok {
		return 0, notFound("answer", answerID)
	}

	id := s.id("comment")
	s.comments[id] = &model.Comment{
		ID:             id,
		AnswerID:       intPtr(answerID),
		Message:        message,
		SubmissionTime: s.now(),
	}
	return a.QuestionID, nil
}

func (s *Store) EditComment(_ context.Context, id int, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.comments[id]
	if !ok {
		return notFound("comment", id)
	}

	edited := 1
	if c.EditedCount != nil {
		edited = *c.EditedCount + 1
	}
	c.Message = message
	c.EditedCount = &edited
	return nil
}

func (s *Store) QuestionIDForComment(_ context.Context, id int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.comments[id]
	if !ok {
		return 0, notFound("comment", id)
	}
	if c.QuestionID != nil {
		return *c.QuestionID, nil
	}
	a, ok := s.answers[*c.AnswerID]
	if !ok {
		return 0, notFound("answer", *c.AnswerID)
	}
	return a.QuestionID, nil
}

func (s *Store) DeleteComment(_ context.Context, id int) (model.CommentParent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.comments[id]
	if !ok {
		return model.CommentParent{}, notFound("comment", id)
	}
	delete(s.comments, id)

	var parent model.CommentParent
	if c.QuestionID != nil {
		parent.QuestionID = *c.QuestionID
	}
	if c.AnswerID != nil {
		parent.AnswerID = *c.AnswerID
	}
	return parent, nil
}

// deleteCommentsOnAnswer is called with s.mu held.
func (s *Store) deleteCommentsOnAnswer(answerID int) {
	for cid, c := range s.comments {
		if c.AnswerID != nil && *c.AnswerID == answerID {
			delete(s.comments, cid)
		}
	}
}

func copyComment(c *model.Comment) model.Comment {
	cp := *c
	if c.QuestionID != nil {
		cp.QuestionID = intPtr(*c.QuestionID)
	}
	if c.AnswerID != nil {
		cp.AnswerID = intPtr(*c.AnswerID)
	}
	if c.EditedCount != nil {
		cp.EditedCount = intPtr(*c.EditedCount)
	}
	return cp
}

func commentTime(c model.Comment) (time.Time, int) {
	return c.SubmissionTime, c.ID
}
