package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/deppfellow/askmate/internal/model"
)

func (s *Store) ListQuestions(_ context.Context, order model.Sort) ([]model.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := s.allQuestions()
	sort.Slice(out, func(i, j int) bool { return order.Less(out[i], out[j]) })
	return out, nil
}

func (s *Store) LatestQuestions(ctx context.Context, n int) ([]model.Question, error) {
	out, _ := s.ListQuestions(ctx, model.DefaultSort)
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out, nil
}

func (s *Store) GetQuestion(_ context.Context, id int) (*model.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.questions[id]
	if !ok {
		return nil, notFound("question", id)
	}
	cp := *q
	return &cp, nil
}

func (s *Store) AddQuestion(_ context.Context, title, message, image string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.id("question")
	s.questions[id] = &model.Question{
		ID:             id,
		SubmissionTime: s.now(),
		Title:          title,
		Message:        message,
		Image:          image,
	}
	return id, nil
}

func (s *Store) EditQuestion(_ context.Context, id int, title, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.questions[id]
	if !ok {
		return notFound("question", id)
	}
	q.Title = title
	q.Message = message
	return nil
}

func (s *Store) DeleteQuestion(_ context.Context, id int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.questions[id]
	if !ok {
		return "", notFound("question", id)
	}

	for key := range s.questionTags {
		if key.questionID == id {
			delete(s.questionTags, key)
		}
	}
	for aid, a := range s.answers {
		if a.QuestionID != id {
			continue
		}
		s.deleteCommentsOnAnswer(aid)
		delete(s.answers, aid)
	}
	for cid, c := range s.comments {
		if c.QuestionID != nil && *c.QuestionID == id {
			delete(s.comments, cid)
		}
	}
	delete(s.questions, id)

	return q.Image, nil
}

func (s *Store) VoteQuestion(_ context.Context, id int, direction model.VoteDirection) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.questions[id]
	if !ok {
		return 0, notFound("question", id)
	}
	q.VoteNumber = model.ApplyVote(q.VoteNumber, direction)
	return q.VoteNumber, nil
}

func (s *Store) IncrementViews(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.questions[id]
	if !ok {
		return notFound("question", id)
	}
	q.ViewNumber++
	return nil
}

func (s *Store) GetImage(_ context.Context, id int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.questions[id]
	if !ok {
		return "", notFound("question", id)
	}
	return q.Image, nil
}

func (s *Store) Search(_ context.Context, phrase string) ([]model.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	needle := strings.ToLower(phrase)
	contains := func(text string) bool {
		return strings.Contains(strings.ToLower(text), needle)
	}

	matched := make(map[int]bool)
	for id, q := range s.questions {
		if contains(q.Title) || contains(q.Message) {
			matched[id] = true
		}
	}
	for _, a := range s.answers {
		if contains(a.Message) {
			matched[a.QuestionID] = true
		}
	}

	out := make([]model.Question, 0, len(matched))
	for id := range matched {
		out = append(out, *s.questions[id])
	}
	newestFirst(out, func(q model.Question) (time.Time, int) { return q.SubmissionTime, q.ID })
	return out, nil
}

func (s *Store) allQuestions() []model.Question {
	out := make([]model.Question, 0, len(s.questions))
	for _, q := range s.questions {
		out = append(out, *q)
	}
	return out
}
