package service

import (
	"github.com/deppfellow/askmate/internal/lib/storage"
	"github.com/deppfellow/askmate/internal/repository"
	"github.com/deppfellow/askmate/internal/server"
)

type Services struct {
	Question *QuestionService
	Answer   *AnswerService
	Comment  *CommentService
	Tag      *TagService
	Auth     *AuthService
}

func NewServices(s *server.Server, repos *repository.Repositories) *Services {
	images := storage.NewImageStore(s.Config.Uploads.Dir, s.Config.Uploads.MaxBytes)

	return &Services{
		Question: NewQuestionService(s, repos, images),
		Answer:   NewAnswerService(s, repos, images),
		Comment:  NewCommentService(s, repos),
		Tag:      NewTagService(s, repos),
		Auth:     NewAuthService(s, repos),
	}
}
