package service

import (
	"context"
	"net/http"
	"os"
	"testing"

	"github.com/deppfellow/askmate/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnswerService(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := env.services

	qid, err := svc.Question.Add(ctx, "Title", "Body", nil)
	require.NoError(t, err)

	_, err = svc.Answer.Add(ctx, 404, "orphan", nil)
	requireHTTPError(t, err, http.StatusNotFound)

	aid, err := svc.Answer.Add(ctx, qid, "first", pngUpload("a.png"))
	require.NoError(t, err)

	got, err := svc.Answer.Edit(ctx, aid, "edited")
	require.NoError(t, err)
	assert.Equal(t, qid, got)

	a, err := svc.Answer.Get(ctx, aid)
	require.NoError(t, err)
	assert.Equal(t, "edited", a.Message)

	got, err = svc.Answer.Vote(ctx, aid, model.VoteUp)
	require.NoError(t, err)
	assert.Equal(t, qid, got)

	got, err = svc.Answer.Delete(ctx, aid)
	require.NoError(t, err)
	assert.Equal(t, qid, got)

	entries, err := os.ReadDir(env.dir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = svc.Answer.Delete(ctx, aid)
	requireHTTPError(t, err, http.StatusNotFound)
}
