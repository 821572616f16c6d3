package handler

import (
	"fmt"

	"github.com/deppfellow/askmate/internal/model"
	"github.com/deppfellow/askmate/internal/server"
	"github.com/deppfellow/askmate/internal/service"
	"github.com/deppfellow/askmate/internal/view"
	"github.com/labstack/echo/v4"
)

type QuestionHandler struct {
	Handler
	questions *service.QuestionService
}

func NewQuestionHandler(s *server.Server, questions *service.QuestionService) *QuestionHandler {
	return &QuestionHandler{
		Handler:   NewHandler(s),
		questions: questions,
	}
}

func questionURL(id int) string {
	return fmt.Sprintf("/question/%d", id)
}

func (h *QuestionHandler) Index(c echo.Context, _ *EmptyRequest) (any, error) {
	return h.questions.Latest(c.Request().Context())
}

func (h *QuestionHandler) List(c echo.Context, req *ListQuestionsRequest) (any, error) {
	questions, sort, err := h.questions.List(c.Request().Context(), req.OrderBy, req.OrderDirection)
	if err != nil {
		return nil, err
	}
	return view.ListPage{Questions: questions, Sort: sort, Columns: model.SortColumns}, nil
}

func (h *QuestionHandler) Show(c echo.Context, req *QuestionIDRequest) (any, error) {
	return h.questions.Show(c.Request().Context(), req.ID)
}

func (h *QuestionHandler) Image(c echo.Context, req *QuestionIDRequest) (any, error) {
	image, err := h.questions.Image(c.Request().Context(), req.ID)
	if err != nil {
		return nil, err
	}
	return view.ImagePage{QuestionID: req.ID, Image: image}, nil
}

func (h *QuestionHandler) AddForm(c echo.Context, _ *EmptyRequest) (any, error) {
	return view.QuestionForm{Action: "/add_question"}, nil
}

func (h *QuestionHandler) Add(c echo.Context, req *AddQuestionRequest) (string, error) {
	upload, closeUpload, err := imageUpload(c)
	if err != nil {
		return "", err
	}
	defer closeUpload()

	id, err := h.questions.Add(c.Request().Context(), req.Title, req.Message, upload)
	if err != nil {
		return "", err
	}
	return questionURL(id), nil
}

func (h *QuestionHandler) EditForm(c echo.Context, req *QuestionIDRequest) (any, error) {
	q, err := h.questions.Get(c.Request().Context(), req.ID)
	if err != nil {
		return nil, err
	}
	return view.QuestionForm{Action: questionURL(q.ID) + "/edit", Question: q}, nil
}

func (h *QuestionHandler) Edit(c echo.Context, req *EditQuestionRequest) (string, error) {
	if err := h.questions.Edit(c.Request().Context(), req.ID, req.Title, req.Message); err != nil {
		return "", err
	}
	return questionURL(req.ID), nil
}

func (h *QuestionHandler) Delete(c echo.Context, req *QuestionIDRequest) (string, error) {
	if err := h.questions.Delete(c.Request().Context(), req.ID); err != nil {
		return "", err
	}
	return "/list", nil
}

// Vote returns the handler for one vote direction.
func (h *QuestionHandler) Vote(direction model.VoteDirection) RedirectFunc[*QuestionIDRequest] {
	return func(c echo.Context, req *QuestionIDRequest) (string, error) {
		if _, err := h.questions.Vote(c.Request().Context(), req.ID, direction); err != nil {
			return "", err
		}
		return "/list", nil
	}
}

// Search renders "No results" for a blank phrase.
func (h *QuestionHandler) Search(c echo.Context, req *SearchRequest) (any, error) {
	results, err := h.questions.Search(c.Request().Context(), req.Q)
	if err != nil {
		return nil, err
	}
	return view.SearchPage{Phrase: req.Q, Results: results}, nil
}
