// Package memory is an in-process implementation of the repository interfaces.
//
// It keeps the same invariants as the PostgreSQL repositories (cascading
// deletes, vote floor, idempotent tagging, unique emails) behind one mutex,
// and backs local runs with --storage memory as well as unit tests.
package memory

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/deppfellow/askmate/internal/model"
	"github.com/deppfellow/askmate/internal/repository"
)

type tagKey struct {
	questionID int
	tagID      int
}

// Store holds every table in maps keyed by id.
type Store struct {
	mu sync.Mutex

	questions    map[int]*model.Question
	answers      map[int]*model.Answer
	comments     map[int]*model.Comment
	tags         map[int]*model.Tag
	questionTags map[tagKey]struct{}
	users        map[int]*model.User

	nextID map[string]int
	now    func() time.Time
}

func NewStore() *Store {
	return &Store{
		questions:    make(map[int]*model.Question),
		answers:      make(map[int]*model.Answer),
		comments:     make(map[int]*model.Comment),
		tags:         make(map[int]*model.Tag),
		questionTags: make(map[tagKey]struct{}),
		users:        make(map[int]*model.User),
		nextID:       make(map[string]int),
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// NewRepositories wires one Store and a SessionStore into the repository container.
func NewRepositories(sessionTTL time.Duration) *repository.Repositories {
	st := NewStore()

	return &repository.Repositories{
		Question: st,
		Answer:   st,
		Comment:  st,
		Tag:      st,
		User:     st,
		Session:  NewSessionStore(sessionTTL),
	}
}

// id hands out serial ids per table, starting at 1. Callers hold s.mu.
func (s *Store) id(table string) int {
	s.nextID[table]++
	return s.nextID[table]
}

func notFound(entity string, id int) error {
	return fmt.Errorf("%s %d: %w", entity, id, repository.ErrNotFound)
}

// newestFirst orders by submission time, then id, both descending.
func newestFirst[T any](items []T, at func(T) (time.Time, int)) {
	sort.Slice(items, func(i, j int) bool {
		ti, ii := at(items[i])
		tj, ij := at(items[j])
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return ii > ij
	})
}

func intPtr(v int) *int {
	return &v
}

var (
	_ repository.QuestionRepository = (*Store)(nil)
	_ repository.AnswerRepository   = (*Store)(nil)
	_ repository.CommentRepository  = (*Store)(nil)
	_ repository.TagRepository      = (*Store)(nil)
	_ repository.UserRepository     = (*Store)(nil)
	_ repository.SessionStore       = (*SessionStore)(nil)
)
