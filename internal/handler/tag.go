package handler

import (
	"strings"

	"github.com/deppfellow/askmate/internal/server"
	"github.com/deppfellow/askmate/internal/service"
	"github.com/deppfellow/askmate/internal/view"
	"github.com/labstack/echo/v4"
)

type TagHandler struct {
	Handler
	tags      *service.TagService
	questions *service.QuestionService
}

func NewTagHandler(s *server.Server, tags *service.TagService, questions *service.QuestionService) *TagHandler {
	return &TagHandler{
		Handler:   NewHandler(s),
		tags:      tags,
		questions: questions,
	}
}

func (h *TagHandler) NewForm(c echo.Context, req *QuestionIDRequest) (any, error) {
	ctx := c.Request().Context()

	if _, err := h.questions.Get(ctx, req.ID); err != nil {
		return nil, err
	}

	tags, err := h.tags.List(ctx)
	if err != nil {
		return nil, err
	}
	return view.TagForm{QuestionID: req.ID, Tags: tags}, nil
}

// Add attaches the typed new tag if one was given, else the selected one.
func (h *TagHandler) Add(c echo.Context, req *AddTagRequest) (string, error) {
	ctx := c.Request().Context()

	if strings.TrimSpace(req.NewTag) != "" {
		if _, err := h.tags.AttachNew(ctx, req.ID, req.NewTag); err != nil {
			return "", err
		}
		return questionURL(req.ID), nil
	}

	if err := h.tags.Attach(ctx, req.ID, req.TagID); err != nil {
		return "", err
	}
	return questionURL(req.ID), nil
}

func (h *TagHandler) Remove(c echo.Context, req *RemoveTagRequest) (string, error) {
	if err := h.tags.Remove(c.Request().Context(), req.ID, req.TagID); err != nil {
		return "", err
	}
	return questionURL(req.ID), nil
}
