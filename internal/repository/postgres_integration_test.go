//go:build integration

package repository_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/deppfellow/askmate/internal/database"
	"github.com/deppfellow/askmate/internal/model"
	"github.com/deppfellow/askmate/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupPool starts a PostgreSQL container, applies the migrations and
// returns a pool that is closed when the test ends.
func setupPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("askmate"),
		postgres.WithUsername("askmate"),
		postgres.WithPassword("askmate"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	logger := zerolog.Nop()
	require.NoError(t, database.MigrateDSN(ctx, &logger, dsn))

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return pool
}

type repos struct {
	questions *repository.PostgresQuestionRepository
	answers   *repository.PostgresAnswerRepository
	comments  *repository.PostgresCommentRepository
	tags      *repository.PostgresTagRepository
	users     *repository.PostgresUserRepository
}

func TestPostgresRepositories(t *testing.T) {
	pool := setupPool(t)
	r := repos{
		questions: repository.NewPostgresQuestionRepository(pool),
		answers:   repository.NewPostgresAnswerRepository(pool),
		comments:  repository.NewPostgresCommentRepository(pool),
		tags:      repository.NewPostgresTagRepository(pool),
		users:     repository.NewPostgresUserRepository(pool),
	}

	t.Run("add then get question", func(t *testing.T) { testAddGetQuestion(t, r) })
	t.Run("delete question cascades", func(t *testing.T) { testCascade(t, r) })
	t.Run("delete answer", func(t *testing.T) { testDeleteAnswer(t, r) })
	t.Run("votes floor at zero", func(t *testing.T) { testVotes(t, r) })
	t.Run("tags are idempotent", func(t *testing.T) { testTags(t, r) })
	t.Run("search", func(t *testing.T) { testSearch(t, r) })
	t.Run("comments", func(t *testing.T) { testComments(t, r) })
	t.Run("users", func(t *testing.T) { testUsers(t, r) })
	t.Run("sorting", func(t *testing.T) { testSorting(t, r) })
}

func testAddGetQuestion(t *testing.T, r repos) {
	ctx := context.Background()

	qid, err := r.questions.AddQuestion(ctx, "Round trip", "does it come back?", "")
	require.NoError(t, err)

	q, err := r.questions.GetQuestion(ctx, qid)
	require.NoError(t, err)
	assert.Equal(t, qid, q.ID)
	assert.Equal(t, "Round trip", q.Title)
	assert.Equal(t, "does it come back?", q.Message)
	assert.Zero(t, q.ViewNumber)
	assert.Zero(t, q.VoteNumber)
	assert.Empty(t, q.Image)
	assert.WithinDuration(t, time.Now(), q.SubmissionTime, time.Minute)
}

func testDeleteAnswer(t *testing.T, r repos) {
	ctx := context.Background()

	qid, err := r.questions.AddQuestion(ctx, "Answer delete", "body", "")
	require.NoError(t, err)
	aid, err := r.answers.AddAnswer(ctx, qid, "doomed", "")
	require.NoError(t, err)
	keep, err := r.answers.AddAnswer(ctx, qid, "survivor", "")
	require.NoError(t, err)
	for _, msg := range []string{"one", "two"} {
		_, err = r.comments.AddCommentToAnswer(ctx, aid, msg)
		require.NoError(t, err)
	}

	got, err := r.answers.DeleteAnswer(ctx, aid)
	require.NoError(t, err)
	assert.Equal(t, qid, got)

	_, err = r.answers.GetAnswer(ctx, aid)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	comments, err := r.comments.CommentsForAnswers(ctx, qid)
	require.NoError(t, err)
	assert.Empty(t, comments)

	answers, err := r.answers.AnswersForQuestion(ctx, qid)
	require.NoError(t, err)
	require.Len(t, answers, 1)
	assert.Equal(t, keep, answers[0].ID)

	_, err = r.answers.DeleteAnswer(ctx, aid)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func testCascade(t *testing.T, r repos) {
	ctx := context.Background()

	qid, err := r.questions.AddQuestion(ctx, "Cascade", "body", "images/q.png")
	require.NoError(t, err)
	aid, err := r.answers.AddAnswer(ctx, qid, "answer", "")
	require.NoError(t, err)
	_, err = r.comments.AddCommentToQuestion(ctx, qid, "q comment")
	require.NoError(t, err)
	_, err = r.comments.AddCommentToAnswer(ctx, aid, "a comment")
	require.NoError(t, err)
	tagID, err := r.tags.AddNewTag(ctx, "cascade")
	require.NoError(t, err)
	require.NoError(t, r.tags.AddTag(ctx, tagID, qid))

	image, err := r.questions.DeleteQuestion(ctx, qid)
	require.NoError(t, err)
	assert.Equal(t, "images/q.png", image)

	_, err = r.questions.GetQuestion(ctx, qid)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = r.answers.GetAnswer(ctx, aid)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	comments, err := r.comments.CommentsForQuestion(ctx, qid)
	require.NoError(t, err)
	assert.Empty(t, comments)

	comments, err = r.comments.CommentsForAnswers(ctx, qid)
	require.NoError(t, err)
	assert.Empty(t, comments)

	added, err := r.tags.IsTagAdded(ctx, tagID, qid)
	require.NoError(t, err)
	assert.False(t, added)

	_, err = r.questions.DeleteQuestion(ctx, qid)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = r.answers.AddAnswer(ctx, qid, "late", "")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func testVotes(t *testing.T, r repos) {
	ctx := context.Background()

	qid, err := r.questions.AddQuestion(ctx, "Votes", "body", "")
	require.NoError(t, err)
	aid, err := r.answers.AddAnswer(ctx, qid, "answer", "")
	require.NoError(t, err)

	votes, err := r.questions.VoteQuestion(ctx, qid, model.VoteUp)
	require.NoError(t, err)
	assert.Equal(t, 1, votes)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = r.questions.VoteQuestion(ctx, qid, model.VoteDown)
		}()
		go func() {
			defer wg.Done()
			_, _ = r.answers.VoteAnswer(ctx, aid, model.VoteDown)
		}()
	}
	wg.Wait()

	q, err := r.questions.GetQuestion(ctx, qid)
	require.NoError(t, err)
	assert.Equal(t, 0, q.VoteNumber)

	a, err := r.answers.GetAnswer(ctx, aid)
	require.NoError(t, err)
	assert.Equal(t, 0, a.VoteNumber)

	_, err = r.questions.VoteQuestion(ctx, 1<<30, model.VoteUp)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func testTags(t *testing.T, r repos) {
	ctx := context.Background()

	qid, err := r.questions.AddQuestion(ctx, "Tags", "body", "")
	require.NoError(t, err)

	ids := make(chan int, 10)
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := r.tags.AddNewTag(ctx, "postgres")
			if err == nil {
				ids <- id
				_ = r.tags.AddTag(ctx, id, qid)
			}
		}()
	}
	wg.Wait()
	close(ids)

	var first int
	for id := range ids {
		if first == 0 {
			first = id
		}
		assert.Equal(t, first, id)
	}
	require.NotZero(t, first)

	tags, err := r.tags.TagsForQuestion(ctx, qid)
	require.NoError(t, err)
	assert.Equal(t, []model.Tag{{ID: first, Name: "postgres"}}, tags)

	id, err := r.tags.TagIDByName(ctx, "postgres")
	require.NoError(t, err)
	assert.Equal(t, first, id)

	id, err = r.tags.TagIDByName(ctx, "does-not-exist")
	require.NoError(t, err)
	assert.Zero(t, id)

	assert.ErrorIs(t, r.tags.AddTag(ctx, 1<<30, qid), repository.ErrNotFound)

	require.NoError(t, r.tags.RemoveTag(ctx, qid, first))
	tags, err = r.tags.TagsForQuestion(ctx, qid)
	require.NoError(t, err)
	assert.Empty(t, tags)
}

func testSearch(t *testing.T, r repos) {
	ctx := context.Background()

	byTitle, err := r.questions.AddQuestion(ctx, "Zanzibar travel", "tips", "")
	require.NoError(t, err)
	byAnswer, err := r.questions.AddQuestion(ctx, "Islands", "where to go", "")
	require.NoError(t, err)
	_, err = r.answers.AddAnswer(ctx, byAnswer, "try ZANZIBAR", "")
	require.NoError(t, err)
	_, err = r.answers.AddAnswer(ctx, byTitle, "zanzibar again", "")
	require.NoError(t, err)

	found, err := r.questions.Search(ctx, "zanzibar")
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, byAnswer, found[0].ID)
	assert.Equal(t, byTitle, found[1].ID)

	found, err = r.questions.Search(ctx, "100%_literal")
	require.NoError(t, err)
	assert.Empty(t, found)
}

func testComments(t *testing.T, r repos) {
	ctx := context.Background()

	qid, err := r.questions.AddQuestion(ctx, "Comments", "body", "")
	require.NoError(t, err)
	aid, err := r.answers.AddAnswer(ctx, qid, "answer", "")
	require.NoError(t, err)

	got, err := r.comments.AddCommentToAnswer(ctx, aid, "first")
	require.NoError(t, err)
	assert.Equal(t, qid, got)

	comments, err := r.comments.CommentsForAnswers(ctx, qid)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	c := comments[0]
	assert.Nil(t, c.EditedCount)

	require.NoError(t, r.comments.EditComment(ctx, c.ID, "second"))
	require.NoError(t, r.comments.EditComment(ctx, c.ID, "third"))

	edited, err := r.comments.GetComment(ctx, c.ID)
	require.NoError(t, err)
	require.NotNil(t, edited.EditedCount)
	assert.Equal(t, 2, *edited.EditedCount)
	assert.Equal(t, "third", edited.Message)

	got, err = r.comments.QuestionIDForComment(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, qid, got)

	parent, err := r.comments.DeleteComment(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, model.CommentParent{AnswerID: aid}, parent)

	_, err = r.comments.DeleteComment(ctx, c.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = r.comments.AddCommentToQuestion(ctx, qid, "on the question")
	require.NoError(t, err)
	onQuestion, err := r.comments.CommentsForQuestion(ctx, qid)
	require.NoError(t, err)
	require.Len(t, onQuestion, 1)

	parent, err = r.comments.DeleteComment(ctx, onQuestion[0].ID)
	require.NoError(t, err)
	assert.Equal(t, model.CommentParent{QuestionID: qid}, parent)

	_, err = r.comments.AddCommentToQuestion(ctx, 1<<30, "orphan")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func testUsers(t *testing.T, r repos) {
	ctx := context.Background()

	id, err := r.users.RegisterUser(ctx, "pg@example.com", "hash")
	require.NoError(t, err)

	_, err = r.users.RegisterUser(ctx, "pg@example.com", "hash")
	assert.ErrorIs(t, err, repository.ErrConflict)

	u, err := r.users.GetUserByEmail(ctx, "pg@example.com")
	require.NoError(t, err)
	assert.Equal(t, id, u.ID)

	_, err = r.users.GetUser(ctx, 1<<30)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func testSorting(t *testing.T, r repos) {
	ctx := context.Background()

	for _, column := range model.SortColumns {
		for _, direction := range []string{"asc", "desc"} {
			sort, err := model.ParseSort(string(column), direction)
			require.NoError(t, err)

			questions, err := r.questions.ListQuestions(ctx, sort)
			require.NoError(t, err)
			for i := 1; i < len(questions); i++ {
				assert.False(t, sort.Less(questions[i], questions[i-1]),
					"%s %s: %d before %d", column, direction, questions[i-1].ID, questions[i].ID)
			}
		}
	}

	latest, err := r.questions.LatestQuestions(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, latest, 2)
}
