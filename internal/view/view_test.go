package view

import (
	"bytes"
	"html/template"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/deppfellow/askmate/internal/middleware"
	"github.com/deppfellow/askmate/internal/model"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, r *Renderer, name string, data any, userID int) string {
	t.Helper()

	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	if userID != 0 {
		c.Set(middleware.UserIDKey, userID)
	}

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, name, data, c))
	return buf.String()
}

func TestNewRenderer_ParsesEveryPage(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	for _, name := range []string{
		IndexTemplate, ListTemplate, QuestionTemplate, QuestionFormTemplate,
		AnswerFormTemplate, CommentFormTemplate, TagFormTemplate, ImageTemplate,
		SearchTemplate, UsersTemplate, LoginTemplate, RegistrationTemplate,
		middleware.ErrorTemplate,
	} {
		assert.Contains(t, r.pages, name)
	}
}

func TestRender_QuestionPage(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	two := 2
	answerID := 11
	page := &model.QuestionPage{
		Question: model.Question{ID: 3, Title: "Why <Go>?", Message: "Because", Image: "images/x.png", SubmissionTime: time.Now()},
		Answers:  []model.Answer{{ID: answerID, QuestionID: 3, Message: "It is simple"}},
		AnswerComments: map[int][]model.Comment{
			answerID: {{ID: 5, AnswerID: &answerID, Message: "agreed", EditedCount: &two}},
		},
		Tags: []model.Tag{{ID: 1, Name: "golang"}},
	}

	anonymous := render(t, r, QuestionTemplate, page, 0)
	assert.Contains(t, anonymous, "Why &lt;Go&gt;?")
	assert.Contains(t, anonymous, `src="/static/images/x.png"`)
	assert.Contains(t, anonymous, "It is simple")
	assert.Contains(t, anonymous, "edited 2 times")
	assert.Contains(t, anonymous, "golang")
	assert.NotContains(t, anonymous, "/question/3/delete")

	loggedIn := render(t, r, QuestionTemplate, page, 9)
	assert.Contains(t, loggedIn, "/question/3/delete")
	assert.Contains(t, loggedIn, "/answer/11/vote-up")
	assert.Contains(t, loggedIn, "Log out")
}

func TestRender_SearchWithoutResults(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	out := render(t, r, SearchTemplate, SearchPage{Phrase: "nothing"}, 0)
	assert.Contains(t, out, "No results")
}

func TestRender_SearchKeepsHighlightMarkup(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	out := render(t, r, SearchTemplate, SearchPage{
		Phrase: "go",
		Results: []model.SearchResult{{
			Question: model.Question{ID: 1},
			Title:    template.HTML(`<mark class="search">Go</mark> rocks`),
		}},
	}, 0)
	assert.Contains(t, out, `<mark class="search">Go</mark> rocks`)
}

func TestRender_UnknownTemplate(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	assert.Error(t, r.Render(&bytes.Buffer{}, "nope.html", nil, c))
}

func TestImageURL(t *testing.T) {
	assert.Equal(t, "/static/images/a.png", ImageURL("images/a.png"))
	assert.Equal(t, "", ImageURL(""))
}
