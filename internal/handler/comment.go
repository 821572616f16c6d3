package handler

import (
	"fmt"

	"github.com/deppfellow/askmate/internal/server"
	"github.com/deppfellow/askmate/internal/service"
	"github.com/deppfellow/askmate/internal/view"
	"github.com/labstack/echo/v4"
)

type CommentHandler struct {
	Handler
	comments  *service.CommentService
	questions *service.QuestionService
	answers   *service.AnswerService
}

func NewCommentHandler(s *server.Server, comments *service.CommentService, questions *service.QuestionService, answers *service.AnswerService) *CommentHandler {
	return &CommentHandler{
		Handler:   NewHandler(s),
		comments:  comments,
		questions: questions,
		answers:   answers,
	}
}

func (h *CommentHandler) QuestionForm(c echo.Context, req *QuestionIDRequest) (any, error) {
	if _, err := h.questions.Get(c.Request().Context(), req.ID); err != nil {
		return nil, err
	}
	return view.CommentForm{
		Action:  questionURL(req.ID) + "/new-comment",
		Heading: "Comment on the question",
	}, nil
}

func (h *CommentHandler) AddToQuestion(c echo.Context, req *MessageRequest) (string, error) {
	questionID, err := h.comments.AddToQuestion(c.Request().Context(), req.ID, req.Message)
	if err != nil {
		return "", err
	}
	return questionURL(questionID), nil
}

func (h *CommentHandler) AnswerForm(c echo.Context, req *AnswerIDRequest) (any, error) {
	if _, err := h.answers.Get(c.Request().Context(), req.ID); err != nil {
		return nil, err
	}
	return view.CommentForm{
		Action:  fmt.Sprintf("/answer/%d/new-comment", req.ID),
		Heading: "Comment on the answer",
	}, nil
}

func (h *CommentHandler) AddToAnswer(c echo.Context, req *MessageRequest) (string, error) {
	questionID, err := h.comments.AddToAnswer(c.Request().Context(), req.ID, req.Message)
	if err != nil {
		return "", err
	}
	return questionURL(questionID), nil
}

func (h *CommentHandler) EditForm(c echo.Context, req *CommentIDRequest) (any, error) {
	comment, err := h.comments.Get(c.Request().Context(), req.ID)
	if err != nil {
		return nil, err
	}
	return view.CommentForm{
		Action:  fmt.Sprintf("/comment/%d/edit", comment.ID),
		Heading: "Edit comment",
		Comment: comment,
	}, nil
}

func (h *CommentHandler) Edit(c echo.Context, req *MessageRequest) (string, error) {
	questionID, err := h.comments.Edit(c.Request().Context(), req.ID, req.Message)
	if err != nil {
		return "", err
	}
	return questionURL(questionID), nil
}

func (h *CommentHandler) Delete(c echo.Context, req *CommentIDRequest) (string, error) {
	questionID, err := h.comments.Delete(c.Request().Context(), req.ID)
	if err != nil {
		return "", err
	}
	return questionURL(questionID), nil
}
