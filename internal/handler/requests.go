package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/deppfellow/askmate/internal/errs"
	"github.com/deppfellow/askmate/internal/service"
	"github.com/deppfellow/askmate/internal/validation"
	"github.com/labstack/echo/v4"
)

// EmptyRequest is used by routes without parameters.
type EmptyRequest struct{}

func (r *EmptyRequest) Validate() error { return nil }

type QuestionIDRequest struct {
	ID int `param:"id" validate:"gt=0"`
}

func (r *QuestionIDRequest) Validate() error { return validation.Struct(r) }

type AnswerIDRequest struct {
	ID int `param:"id" validate:"gt=0"`
}

func (r *AnswerIDRequest) Validate() error { return validation.Struct(r) }

type CommentIDRequest struct {
	ID int `param:"id" validate:"gt=0"`
}

func (r *CommentIDRequest) Validate() error { return validation.Struct(r) }

type ListQuestionsRequest struct {
	OrderBy        string `query:"order_by"`
	OrderDirection string `query:"order_direction"`
}

func (r *ListQuestionsRequest) Validate() error { return nil }

type AddQuestionRequest struct {
	Title   string `form:"title" validate:"required,notblank,max=255"`
	Message string `form:"message" validate:"required,notblank"`
}

func (r *AddQuestionRequest) Validate() error { return validation.Struct(r) }

type EditQuestionRequest struct {
	ID      int    `param:"id" validate:"gt=0"`
	Title   string `form:"title" validate:"required,notblank,max=255"`
	Message string `form:"message" validate:"required,notblank"`
}

func (r *EditQuestionRequest) Validate() error { return validation.Struct(r) }

// MessageRequest carries the message of a new answer, a new comment or an
// edit of either; ID is the question, answer or comment from the path.
type MessageRequest struct {
	ID      int    `param:"id" validate:"gt=0"`
	Message string `form:"message" validate:"required,notblank"`
}

func (r *MessageRequest) Validate() error { return validation.Struct(r) }

type AddTagRequest struct {
	ID     int    `param:"id" validate:"gt=0"`
	TagID  int    `form:"tag_id" validate:"gte=0"`
	NewTag string `form:"add_new_tag" validate:"max=50"`
}

// Validate needs either an existing tag id or a new tag name.
func (r *AddTagRequest) Validate() error {
	if err := validation.Struct(r); err != nil {
		return err
	}
	if r.TagID == 0 && strings.TrimSpace(r.NewTag) == "" {
		return validation.CustomValidationErrors{
			{Field: "tag", Message: "choose an existing tag or enter a new one"},
		}
	}
	return nil
}

type RemoveTagRequest struct {
	ID    int `param:"id" validate:"gt=0"`
	TagID int `param:"tag_id" validate:"gt=0"`
}

func (r *RemoveTagRequest) Validate() error { return validation.Struct(r) }

type SearchRequest struct {
	Q string `query:"q" validate:"max=200"`
}

func (r *SearchRequest) Validate() error { return validation.Struct(r) }

type CredentialsRequest struct {
	Email    string `form:"email" validate:"required,email,max=255"`
	Password string `form:"password" validate:"required,min=8,max=72"`
}

func (r *CredentialsRequest) Validate() error { return validation.Struct(r) }

// imageUpload opens the optional "image" file of a multipart form. The
// returned close func is never nil.
func imageUpload(c echo.Context) (*service.ImageUpload, func(), error) {
	noop := func() {}

	fh, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, noop, nil
	}
	if err != nil {
		return nil, noop, errs.NewBadRequestError("Could not read the uploaded file", true, nil, nil, nil)
	}
	if fh.Filename == "" || fh.Size == 0 {
		return nil, noop, nil
	}

	f, err := fh.Open()
	if err != nil {
		return nil, noop, err
	}

	return &service.ImageUpload{Filename: fh.Filename, Content: f}, func() { _ = f.Close() }, nil
}
