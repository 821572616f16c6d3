package service

import (
	"context"
	"strings"

	"github.com/deppfellow/askmate/internal/errs"
	"github.com/deppfellow/askmate/internal/lib/storage"
	"github.com/deppfellow/askmate/internal/middleware"
	"github.com/deppfellow/askmate/internal/model"
	"github.com/deppfellow/askmate/internal/repository"
	"github.com/deppfellow/askmate/internal/server"
)

// LatestCount is how many questions the index page shows.
const LatestCount = 5

type QuestionService struct {
	server    *server.Server
	questions repository.QuestionRepository
	answers   repository.AnswerRepository
	comments  repository.CommentRepository
	tags      repository.TagRepository
	images    *storage.ImageStore
}

func NewQuestionService(s *server.Server, repos *repository.Repositories, images *storage.ImageStore) *QuestionService {
	return &QuestionService{
		server:    s,
		questions: repos.Question,
		answers:   repos.Answer,
		comments:  repos.Comment,
		tags:      repos.Tag,
		images:    images,
	}
}

// List returns every question in the requested order. Unknown columns or
// directions are rejected with a 400.
func (s *QuestionService) List(ctx context.Context, orderBy, direction string) ([]model.Question, model.Sort, error) {
	sort, err := model.ParseSort(orderBy, direction)
	if err != nil {
		return nil, model.Sort{}, errs.NewBadRequestError("Unsupported sort order", true, nil, nil, nil)
	}

	questions, err := s.questions.ListQuestions(ctx, sort)
	if err != nil {
		return nil, sort, err
	}
	return questions, sort, nil
}

func (s *QuestionService) Latest(ctx context.Context) ([]model.Question, error) {
	return s.questions.LatestQuestions(ctx, LatestCount)
}

func (s *QuestionService) Get(ctx context.Context, id int) (*model.Question, error) {
	q, err := s.questions.GetQuestion(ctx, id)
	if err != nil {
		return nil, translate(err, "Question")
	}
	return q, nil
}

// Show counts a view and loads everything the question page renders.
func (s *QuestionService) Show(ctx context.Context, id int) (*model.QuestionPage, error) {
	if err := s.questions.IncrementViews(ctx, id); err != nil {
		return nil, translate(err, "Question")
	}

	q, err := s.questions.GetQuestion(ctx, id)
	if err != nil {
		return nil, translate(err, "Question")
	}

	questionComments, err := s.comments.CommentsForQuestion(ctx, id)
	if err != nil {
		return nil, err
	}

	answers, err := s.answers.AnswersForQuestion(ctx, id)
	if err != nil {
		return nil, err
	}

	answerComments, err := s.comments.CommentsForAnswers(ctx, id)
	if err != nil {
		return nil, err
	}

	tags, err := s.tags.TagsForQuestion(ctx, id)
	if err != nil {
		return nil, err
	}

	page := &model.QuestionPage{
		Question:         *q,
		QuestionComments: questionComments,
		Answers:          answers,
		AnswerComments:   make(map[int][]model.Comment, len(answers)),
		Tags:             tags,
	}
	for _, c := range answerComments {
		if c.AnswerID != nil {
			page.AnswerComments[*c.AnswerID] = append(page.AnswerComments[*c.AnswerID], c)
		}
	}

	return page, nil
}

// Add stores the optional image first and then inserts the question.
func (s *QuestionService) Add(ctx context.Context, title, message string, upload *ImageUpload) (int, error) {
	image, err := saveImage(s.images, upload)
	if err != nil {
		return 0, err
	}

	id, err := s.questions.AddQuestion(ctx, title, message, image)
	if err != nil {
		s.removeImage(image)
		return 0, err
	}

	s.server.Metrics.QuestionsCreated.Inc()
	return id, nil
}

func (s *QuestionService) Edit(ctx context.Context, id int, title, message string) error {
	return translate(s.questions.EditQuestion(ctx, id, title, message), "Question")
}

// Delete removes the question with its answers, comments and tag links,
// then the image files of the question and its answers.
func (s *QuestionService) Delete(ctx context.Context, id int) error {
	answers, err := s.answers.AnswersForQuestion(ctx, id)
	if err != nil {
		return err
	}

	image, err := s.questions.DeleteQuestion(ctx, id)
	if err != nil {
		return translate(err, "Question")
	}

	middleware.LoggerFromContext(ctx).Info().
		Int("question_id", id).
		Int("user_id", middleware.UserIDFromContext(ctx)).
		Int("answers", len(answers)).
		Msg("question deleted")

	s.removeImage(image)
	for _, a := range answers {
		s.removeImage(a.Image)
	}
	return nil
}

// Vote returns the new vote count.
func (s *QuestionService) Vote(ctx context.Context, id int, direction model.VoteDirection) (int, error) {
	votes, err := s.questions.VoteQuestion(ctx, id, direction)
	if err != nil {
		return 0, translate(err, "Question")
	}

	s.server.Metrics.VotesCast.WithLabelValues("question", string(direction)).Inc()
	return votes, nil
}

// Image returns the stored image path; a question without one is a 404.
func (s *QuestionService) Image(ctx context.Context, id int) (string, error) {
	image, err := s.questions.GetImage(ctx, id)
	if err != nil {
		return "", translate(err, "Question")
	}
	if image == "" {
		return "", errs.NewNotFoundError("This question has no image", true, nil)
	}
	return image, nil
}

// Search returns the matching questions with the phrase highlighted.
// A blank phrase yields no results without querying storage.
func (s *QuestionService) Search(ctx context.Context, phrase string) ([]model.SearchResult, error) {
	phrase = strings.TrimSpace(phrase)
	if phrase == "" {
		return nil, nil
	}

	questions, err := s.questions.Search(ctx, phrase)
	if err != nil {
		return nil, err
	}

	results := make([]model.SearchResult, 0, len(questions))
	for _, q := range questions {
		results = append(results, model.SearchResult{
			Question: q,
			Title:    Highlight(q.Title, phrase),
			Message:  Highlight(q.Message, phrase),
		})
	}
	return results, nil
}

func (s *QuestionService) removeImage(image string) {
	if err := s.images.Remove(image); err != nil {
		s.server.Logger.Warn().Err(err).Str("image", image).Msg("failed to remove stored image")
	}
}
