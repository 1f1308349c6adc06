package controllers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cppla/qaboard/controllers"
	"github.com/cppla/qaboard/models"
	"github.com/cppla/qaboard/store"
	"github.com/cppla/qaboard/testutil"
)

func TestLiveness(t *testing.T) {
	r, _ := testutil.SetupRouter(t)

	rec := testutil.Do(r, http.MethodGet, "/test", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `"`+controllers.LivenessMessage+`"`, rec.Body.String())
}

func TestHealth(t *testing.T) {
	r, db := testutil.SetupRouter(t)

	rec := testutil.Do(r, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"OK","data":{"status":"ok"}}`, rec.Body.String())

	closeStore(t, db)
	rec = testutil.Do(r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestStats(t *testing.T) {
	r, db := testutil.SetupRouter(t)
	q := testutil.CreateQuestion(t, db, "t", "d", "c")
	testutil.CreateQuestion(t, db, "t2", "d", "c")
	a := testutil.CreateAnswer(t, db, q.ID, "a")
	require.NoError(t, db.Create(&models.QuestionVote{QuestionID: q.ID, Vote: models.Upvote}).Error)
	require.NoError(t, db.Create(&models.AnswerVote{AnswerID: a.ID, Vote: models.Downvote}).Error)
	require.NoError(t, db.Create(&models.AnswerVote{AnswerID: a.ID, Vote: models.Upvote}).Error)

	rec := testutil.Do(r, http.MethodGet, "/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var got store.Stats
	testutil.Decode(t, testutil.DecodeEnvelope(t, rec).Data, &got)
	assert.Equal(t, store.Stats{Questions: 2, Answers: 1, QuestionVotes: 1, AnswerVotes: 2}, got)
}
