package memory

import (
	"context"
	"sort"

	"github.com/deppfellow/askmate/internal/model"
)

func (s *Store) ListTags(_ context.Context) ([]model.Tag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Tag, 0, len(s.tags))
	for _, t := range s.tags {
		out = append(out, *t)
	}
	sortTags(out)
	return out, nil
}

func (s *Store) TagsForQuestion(_ context.Context, questionID int) ([]model.Tag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []model.Tag{}
	for key := range s.questionTags {
		if key.questionID == questionID {
			out = append(out, *s.tags[key.tagID])
		}
	}
	sortTags(out)
	return out, nil
}

func (s *Store) AddTag(_ context.Context, tagID, questionID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.questions[questionID]; !ok {
		return notFound("question", questionID)
	}
	if _, ok := s.tags[tagID]; !ok {
		return notFound("tag", tagID)
	}
	s.questionTags[tagKey{questionID: questionID, tagID: tagID}] = struct{}{}
	return nil
}

func (s *Store) AddNewTag(_ context.Context, name string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id := s.tagIDByName(name); id != 0 {
		return id, nil
	}

	id := s.id("tag")
	s.tags[id] = &model.Tag{ID: id, Name: name}
	return id, nil
}

func (s *Store) IsTagAdded(_ context.Context, tagID, questionID int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.questionTags[tagKey{questionID: questionID, tagID: tagID}]
	return ok, nil
}

func (s *Store) TagIDByName(_ context.Context, name string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.tagIDByName(name), nil
}

func (s *Store) RemoveTag(_ context.Context, questionID, tagID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.questionTags, tagKey{questionID: questionID, tagID: tagID})
	return nil
}

func (s *Store) tagIDByName(name string) int {
	for _, t := range s.tags {
		if t.Name == name {
			return t.ID
		}
	}
	return 0
}

func sortTags(tags []model.Tag) {
	sort.Slice(tags, func(i, j int) bool { return tags[i].ID < tags[j].ID })
}
