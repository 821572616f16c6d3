package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/deppfellow/askmate/internal/model"
	"github.com/deppfellow/askmate/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clock is a controllable time source for deterministic ordering.
type clock struct {
	t time.Time
}

func (c *clock) now() time.Time {
	c.t = c.t.Add(time.Minute)
	return c.t
}

func newTestStore() *Store {
	st := NewStore()
	c := &clock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	st.now = c.now
	return st
}

func TestDeleteQuestionCascades(t *testing.T) {
	ctx := context.Background()
	st := newTestStore()

	qid, err := st.AddQuestion(ctx, "Title", "Body", "q.png")
	require.NoError(t, err)
	other, err := st.AddQuestion(ctx, "Other", "Body", "")
	require.NoError(t, err)

	aid, err := st.AddAnswer(ctx, qid, "Answer", "")
	require.NoError(t, err)
	otherAnswer, err := st.AddAnswer(ctx, other, "Kept", "")
	require.NoError(t, err)

	_, err = st.AddCommentToQuestion(ctx, qid, "on question")
	require.NoError(t, err)
	_, err = st.AddCommentToAnswer(ctx, aid, "on answer")
	require.NoError(t, err)
	_, err = st.AddCommentToAnswer(ctx, otherAnswer, "survives")
	require.NoError(t, err)

	tagID, err := st.AddNewTag(ctx, "go")
	require.NoError(t, err)
	require.NoError(t, st.AddTag(ctx, tagID, qid))
	require.NoError(t, st.AddTag(ctx, tagID, other))

	image, err := st.DeleteQuestion(ctx, qid)
	require.NoError(t, err)
	assert.Equal(t, "q.png", image)

	_, err = st.GetQuestion(ctx, qid)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = st.GetAnswer(ctx, aid)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	assert.Len(t, st.comments, 1)
	assert.Len(t, st.questionTags, 1)

	tags, err := st.ListTags(ctx)
	require.NoError(t, err)
	assert.Len(t, tags, 1, "tags themselves are not deleted")

	_, err = st.DeleteQuestion(ctx, qid)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDeleteAnswerRemovesItsComments(t *testing.T) {
	ctx := context.Background()
	st := newTestStore()

	qid, _ := st.AddQuestion(ctx, "Title", "Body", "")
	aid, _ := st.AddAnswer(ctx, qid, "Answer", "")
	_, _ = st.AddCommentToAnswer(ctx, aid, "one")
	_, _ = st.AddCommentToQuestion(ctx, qid, "two")

	got, err := st.DeleteAnswer(ctx, aid)
	require.NoError(t, err)
	assert.Equal(t, qid, got)

	comments, err := st.CommentsForAnswers(ctx, qid)
	require.NoError(t, err)
	assert.Empty(t, comments)

	comments, err = st.CommentsForQuestion(ctx, qid)
	require.NoError(t, err)
	assert.Len(t, comments, 1)
}

func TestVotesNeverGoNegative(t *testing.T) {
	ctx := context.Background()
	st := newTestStore()

	qid, _ := st.AddQuestion(ctx, "Title", "Body", "")
	aid, _ := st.AddAnswer(ctx, qid, "Answer", "")

	votes, err := st.VoteQuestion(ctx, qid, model.VoteDown)
	require.NoError(t, err)
	assert.Equal(t, 0, votes)

	votes, err = st.VoteQuestion(ctx, qid, model.VoteUp)
	require.NoError(t, err)
	assert.Equal(t, 1, votes)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = st.VoteQuestion(ctx, qid, model.VoteDown)
		}()
		go func() {
			defer wg.Done()
			_, _ = st.VoteAnswer(ctx, aid, model.VoteDown)
		}()
	}
	wg.Wait()

	q, err := st.GetQuestion(ctx, qid)
	require.NoError(t, err)
	assert.Equal(t, 0, q.VoteNumber)

	a, err := st.GetAnswer(ctx, aid)
	require.NoError(t, err)
	assert.Equal(t, 0, a.VoteNumber)

	_, err = st.VoteAnswer(ctx, 999, model.VoteUp)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestTaggingIsIdempotent(t *testing.T) {
	ctx := context.Background()
	st := newTestStore()

	qid, _ := st.AddQuestion(ctx, "Title", "Body", "")

	first, err := st.AddNewTag(ctx, "python")
	require.NoError(t, err)
	second, err := st.AddNewTag(ctx, "python")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = st.AddTag(ctx, first, qid)
		}()
	}
	wg.Wait()

	tags, err := st.TagsForQuestion(ctx, qid)
	require.NoError(t, err)
	assert.Equal(t, []model.Tag{{ID: first, Name: "python"}}, tags)

	added, err := st.IsTagAdded(ctx, first, qid)
	require.NoError(t, err)
	assert.True(t, added)

	id, err := st.TagIDByName(ctx, "python")
	require.NoError(t, err)
	assert.Equal(t, first, id)

	id, err = st.TagIDByName(ctx, "rust")
	require.NoError(t, err)
	assert.Zero(t, id)

	require.NoError(t, st.RemoveTag(ctx, qid, first))
	require.NoError(t, st.RemoveTag(ctx, qid, first))
	tags, err = st.TagsForQuestion(ctx, qid)
	require.NoError(t, err)
	assert.Empty(t, tags)

	assert.ErrorIs(t, st.AddTag(ctx, first, 404), repository.ErrNotFound)
	assert.ErrorIs(t, st.AddTag(ctx, 404, qid), repository.ErrNotFound)
}

func TestSearch(t *testing.T) {
	ctx := context.Background()
	st := newTestStore()

	byTitle, _ := st.AddQuestion(ctx, "Goroutines leak", "help", "")
	byMessage, _ := st.AddQuestion(ctx, "Channels", "why do GOROUTINES block", "")
	byAnswer, _ := st.AddQuestion(ctx, "Unrelated", "nothing here", "")
	_, _ = st.AddQuestion(ctx, "Nope", "nothing", "")
	_, _ = st.AddAnswer(ctx, byAnswer, "use goroutines", "")
	_, _ = st.AddAnswer(ctx, byTitle, "another goroutines answer", "")

	found, err := st.Search(ctx, "goroutines")
	require.NoError(t, err)

	ids := make([]int, 0, len(found))
	for _, q := range found {
		ids = append(ids, q.ID)
	}
	assert.Equal(t, []int{byAnswer, byMessage, byTitle}, ids, "newest first, no duplicates")

	found, err = st.Search(ctx, "kubernetes")
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestListQuestionsSorts(t *testing.T) {
	ctx := context.Background()
	st := newTestStore()

	a, _ := st.AddQuestion(ctx, "banana", "x", "")
	b, _ := st.AddQuestion(ctx, "apple", "y", "")
	c, _ := st.AddQuestion(ctx, "cherry", "z", "")
	_, _ = st.VoteQuestion(ctx, c, model.VoteUp)
	_, _ = st.VoteQuestion(ctx, c, model.VoteUp)
	_, _ = st.VoteQuestion(ctx, a, model.VoteUp)

	ids := func(qs []model.Question) []int {
		out := make([]int, 0, len(qs))
		for _, q := range qs {
			out = append(out, q.ID)
		}
		return out
	}

	list, err := st.ListQuestions(ctx, model.DefaultSort)
	require.NoError(t, err)
	assert.Equal(t, []int{c, b, a}, ids(list))

	list, err = st.ListQuestions(ctx, model.Sort{Column: model.SortByTitle, Direction: model.SortAsc})
	require.NoError(t, err)
	assert.Equal(t, []int{b, a, c}, ids(list))

	list, err = st.ListQuestions(ctx, model.Sort{Column: model.SortByVoteNumber, Direction: model.SortDesc})
	require.NoError(t, err)
	assert.Equal(t, []int{c, a, b}, ids(list))

	latest, err := st.LatestQuestions(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{c, b}, ids(latest))
}

func TestEditComment(t *testing.T) {
	ctx := context.Background()
	st := newTestStore()

	qid, _ := st.AddQuestion(ctx, "Title", "Body", "")
	_, _ = st.AddCommentToQuestion(ctx, qid, "first")

	c, err := st.GetComment(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, c.EditedCount)
	submitted := c.SubmissionTime

	require.NoError(t, st.EditComment(ctx, 1, "second"))
	c, _ = st.GetComment(ctx, 1)
	require.NotNil(t, c.EditedCount)
	assert.Equal(t, 1, *c.EditedCount)

	require.NoError(t, st.EditComment(ctx, 1, "third"))
	c, _ = st.GetComment(ctx, 1)
	assert.Equal(t, 2, *c.EditedCount)
	assert.Equal(t, "third", c.Message)
	assert.Equal(t, submitted, c.SubmissionTime)

	assert.ErrorIs(t, st.EditComment(ctx, 99, "x"), repository.ErrNotFound)
}

func TestEditAnswerRefreshesTime(t *testing.T) {
	ctx := context.Background()
	st := newTestStore()

	qid, _ := st.AddQuestion(ctx, "Title", "Body", "")
	aid, _ := st.AddAnswer(ctx, qid, "old", "")
	before, _ := st.GetAnswer(ctx, aid)

	require.NoError(t, st.EditAnswer(ctx, aid, "new"))
	after, _ := st.GetAnswer(ctx, aid)
	assert.Equal(t, "new", after.Message)
	assert.True(t, after.SubmissionTime.After(before.SubmissionTime))
}

func TestCommentParents(t *testing.T) {
	ctx := context.Background()
	st := newTestStore()

	qid, _ := st.AddQuestion(ctx, "Title", "Body", "")
	aid, _ := st.AddAnswer(ctx, qid, "Answer", "")

	got, err := st.AddCommentToQuestion(ctx, qid, "on question")
	require.NoError(t, err)
	assert.Equal(t, qid, got)

	got, err = st.AddCommentToAnswer(ctx, aid, "on answer")
	require.NoError(t, err)
	assert.Equal(t, qid, got)

	got, err = st.QuestionIDForComment(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, qid, got)

	parent, err := st.DeleteComment(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, model.CommentParent{QuestionID: qid}, parent)
	assert.False(t, parent.OnAnswer())

	parent, err = st.DeleteComment(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, model.CommentParent{AnswerID: aid}, parent)
	assert.True(t, parent.OnAnswer())

	_, err = st.DeleteComment(ctx, 2)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = st.AddCommentToQuestion(ctx, 404, "orphan")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = st.AddCommentToAnswer(ctx, 404, "orphan")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestViewsAndImages(t *testing.T) {
	ctx := context.Background()
	st := newTestStore()

	qid, _ := st.AddQuestion(ctx, "Title", "Body", "pic.jpg")
	require.NoError(t, st.IncrementViews(ctx, qid))
	require.NoError(t, st.IncrementViews(ctx, qid))

	q, _ := st.GetQuestion(ctx, qid)
	assert.Equal(t, 2, q.ViewNumber)

	image, err := st.GetImage(ctx, qid)
	require.NoError(t, err)
	assert.Equal(t, "pic.jpg", image)

	assert.ErrorIs(t, st.IncrementViews(ctx, 404), repository.ErrNotFound)
}

func TestUsers(t *testing.T) {
	ctx := context.Background()
	st := newTestStore()

	id, err := st.RegisterUser(ctx, "a@example.com", "hash")
	require.NoError(t, err)

	_, err = st.RegisterUser(ctx, "a@example.com", "other")
	assert.ErrorIs(t, err, repository.ErrConflict)

	u, err := st.GetUserByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, id, u.ID)
	assert.Equal(t, "hash", u.PasswordHash)

	_, err = st.GetUserByEmail(ctx, "b@example.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	users, err := st.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestSessionExpiry(t *testing.T) {
	ctx := context.Background()
	sessions := NewSessionStore(time.Hour)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	sessions.now = func() time.Time { return now }

	token, err := sessions.Create(ctx, 7)
	require.NoError(t, err)

	userID, err := sessions.Get(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, 7, userID)

	now = now.Add(2 * time.Hour)
	_, err = sessions.Get(ctx, token)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	token, _ = sessions.Create(ctx, 8)
	require.NoError(t, sessions.Delete(ctx, token))
	_, err = sessions.Get(ctx, token)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
