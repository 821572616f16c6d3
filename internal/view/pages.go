package view

import "github.com/deppfellow/askmate/internal/model"

// Template names.
const (
	IndexTemplate        = "index.html"
	ListTemplate         = "list.html"
	QuestionTemplate     = "question.html"
	QuestionFormTemplate = "question_form.html"
	AnswerFormTemplate   = "answer_form.html"
	CommentFormTemplate  = "comment_form.html"
	TagFormTemplate      = "tag_form.html"
	ImageTemplate        = "image.html"
	SearchTemplate       = "search.html"
	UsersTemplate        = "users.html"
	LoginTemplate        = "login.html"
	RegistrationTemplate = "registration.html"
)

type ListPage struct {
	Questions []model.Question
	Sort      model.Sort
	Columns   []model.SortColumn
}

// QuestionForm serves both the add and the edit page; Question is nil when adding.
type QuestionForm struct {
	Action   string
	Question *model.Question
}

type AnswerForm struct {
	Action     string
	QuestionID int
	Answer     *model.Answer
}

type CommentForm struct {
	Action  string
	Heading string
	Comment *model.Comment
}

type TagForm struct {
	QuestionID int
	Tags       []model.Tag
}

type ImagePage struct {
	QuestionID int
	Image      string
}

type SearchPage struct {
	Phrase  string
	Results []model.SearchResult
}

type AuthForm struct {
	Email string
}
