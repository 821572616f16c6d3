package service

import (
	"context"
	"strings"

	"github.com/deppfellow/askmate/internal/errs"
	"github.com/deppfellow/askmate/internal/model"
	"github.com/deppfellow/askmate/internal/repository"
	"github.com/deppfellow/askmate/internal/server"
)

type TagService struct {
	server    *server.Server
	tags      repository.TagRepository
	questions repository.QuestionRepository
}

func NewTagService(s *server.Server, repos *repository.Repositories) *TagService {
	return &TagService{
		server:    s,
		tags:      repos.Tag,
		questions: repos.Question,
	}
}

func (s *TagService) List(ctx context.Context) ([]model.Tag, error) {
	return s.tags.ListTags(ctx)
}

// Attach links an existing tag to the question. Repeats are no-ops.
func (s *TagService) Attach(ctx context.Context, questionID, tagID int) error {
	return translate(s.tags.AddTag(ctx, tagID, questionID), "Question or tag")
}

// AttachNew creates the tag if needed and links it to the question.
func (s *TagService) AttachNew(ctx context.Context, questionID int, name string) (int, error) {
	name = NormalizeTagName(name)
	if name == "" {
		return 0, errs.NewBadRequestError("Tag name must not be empty", true, nil,
			[]errs.FieldError{{Field: "add_new_tag", Error: "must not be blank"}}, nil)
	}

	if _, err := s.questions.GetQuestion(ctx, questionID); err != nil {
		return 0, translate(err, "Question")
	}

	tagID, err := s.tags.AddNewTag(ctx, name)
	if err != nil {
		return 0, err
	}

	if err := s.tags.AddTag(ctx, tagID, questionID); err != nil {
		return 0, translate(err, "Question")
	}
	return tagID, nil
}

func (s *TagService) Remove(ctx context.Context, questionID, tagID int) error {
	return s.tags.RemoveTag(ctx, questionID, tagID)
}

// NormalizeTagName trims and lower-cases a tag name.
func NormalizeTagName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
