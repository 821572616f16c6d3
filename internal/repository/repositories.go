package repository

import (
	"github.com/deppfellow/askmate/internal/server"
)

// Repositories is a container for all repository instances.
type Repositories struct {
	Question QuestionRepository
	Answer   AnswerRepository
	Comment  CommentRepository
	Tag      TagRepository
	User     UserRepository
	Session  SessionStore
}

// NewRepositories builds the PostgreSQL repositories and the Redis session store
// on top of the server's connections.
func NewRepositories(s *server.Server) *Repositories {
	pool := s.DB.Pool

	return &Repositories{
		Question: NewPostgresQuestionRepository(pool),
		Answer:   NewPostgresAnswerRepository(pool),
		Comment:  NewPostgresCommentRepository(pool),
		Tag:      NewPostgresTagRepository(pool),
		User:     NewPostgresUserRepository(pool),
		Session:  NewRedisSessionStore(s.Redis, s.Config.Auth.SessionTTL),
	}
}

var (
	_ QuestionRepository = (*PostgresQuestionRepository)(nil)
	_ AnswerRepository   = (*PostgresAnswerRepository)(nil)
	_ CommentRepository  = (*PostgresCommentRepository)(nil)
	_ TagRepository      = (*PostgresTagRepository)(nil)
	_ UserRepository     = (*PostgresUserRepository)(nil)
	_ SessionStore       = (*RedisSessionStore)(nil)
)
