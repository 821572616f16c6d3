package handler

import (
	"fmt"

	"github.com/deppfellow/askmate/internal/model"
	"github.com/deppfellow/askmate/internal/server"
	"github.com/deppfellow/askmate/internal/service"
	"github.com/deppfellow/askmate/internal/view"
	"github.com/labstack/echo/v4"
)

type AnswerHandler struct {
	Handler
	answers   *service.AnswerService
	questions *service.QuestionService
}

func NewAnswerHandler(s *server.Server, answers *service.AnswerService, questions *service.QuestionService) *AnswerHandler {
	return &AnswerHandler{
		Handler:   NewHandler(s),
		answers:   answers,
		questions: questions,
	}
}

func (h *AnswerHandler) NewForm(c echo.Context, req *QuestionIDRequest) (any, error) {
	if _, err := h.questions.Get(c.Request().Context(), req.ID); err != nil {
		return nil, err
	}
	return view.AnswerForm{Action: questionURL(req.ID) + "/new-answer", QuestionID: req.ID}, nil
}

// Add posts an answer to the question in the path.
func (h *AnswerHandler) Add(c echo.Context, req *MessageRequest) (string, error) {
	upload, closeUpload, err := imageUpload(c)
	if err != nil {
		return "", err
	}
	defer closeUpload()

	if _, err := h.answers.Add(c.Request().Context(), req.ID, req.Message, upload); err != nil {
		return "", err
	}
	return questionURL(req.ID), nil
}

func (h *AnswerHandler) EditForm(c echo.Context, req *AnswerIDRequest) (any, error) {
	a, err := h.answers.Get(c.Request().Context(), req.ID)
	if err != nil {
		return nil, err
	}
	return view.AnswerForm{
		Action:     fmt.Sprintf("/answer/%d/edit", a.ID),
		QuestionID: a.QuestionID,
		Answer:     a,
	}, nil
}

func (h *AnswerHandler) Edit(c echo.Context, req *MessageRequest) (string, error) {
	questionID, err := h.answers.Edit(c.Request().Context(), req.ID, req.Message)
	if err != nil {
		return "", err
	}
	return questionURL(questionID), nil
}

func (h *AnswerHandler) Delete(c echo.Context, req *AnswerIDRequest) (string, error) {
	questionID, err := h.answers.Delete(c.Request().Context(), req.ID)
	if err != nil {
		return "", err
	}
	return questionURL(questionID), nil
}

func (h *AnswerHandler) Vote(direction model.VoteDirection) RedirectFunc[*AnswerIDRequest] {
	return func(c echo.Context, req *AnswerIDRequest) (string, error) {
		questionID, err := h.answers.Vote(c.Request().Context(), req.ID, direction)
		if err != nil {
			return "", err
		}
		return questionURL(questionID), nil
	}
}
