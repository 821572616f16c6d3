package handler

import (
	"github.com/deppfellow/askmate/internal/server"
	"github.com/deppfellow/askmate/internal/service"
)

type Handlers struct {
	Health   *HealthHandler
	Question *QuestionHandler
	Answer   *AnswerHandler
	Comment  *CommentHandler
	Tag      *TagHandler
	User     *UserHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:   NewHealthHandler(s),
		Question: NewQuestionHandler(s, services.Question),
		Answer:   NewAnswerHandler(s, services.Answer, services.Question),
		Comment:  NewCommentHandler(s, services.Comment, services.Question, services.Answer),
		Tag:      NewTagHandler(s, services.Tag, services.Question),
		User:     NewUserHandler(s, services.Auth),
	}
}
