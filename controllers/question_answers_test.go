package controllers_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cppla/qaboard/config"
	"github.com/cppla/qaboard/models"
	"github.com/cppla/qaboard/testutil"
)

func TestCreateAnswer(t *testing.T) {
	r, db := testutil.SetupRouter(t)
	q := testutil.CreateQuestion(t, db, "t", "d", "c")

	rec := testutil.Do(r, http.MethodPost, "/questions/"+itoa(q.ID)+"/answers", map[string]string{"content": "Use channels."})
	require.Equal(t, http.StatusOK, rec.Code)

	env := testutil.DecodeEnvelope(t, rec)
	assert.Equal(t, "Created: Answer created successfully.", env.Message)
	var a models.Answer
	testutil.Decode(t, env.Data, &a)
	assert.NotZero(t, a.ID)
	assert.Equal(t, q.ID, a.QuestionID)
	assert.Equal(t, "Use channels.", a.Content)
}

func TestCreateAnswerLengthCheckedFirst(t *testing.T) {
	r, db := testutil.SetupRouter(t)
	q := testutil.CreateQuestion(t, db, "t", "d", "c")
	path := "/questions/" + itoa(q.ID) + "/answers"

	tooLong := strings.Repeat("a", models.MaxAnswerLength+1)
	for _, body := range []interface{}{
		map[string]string{"content": tooLong},
		map[string]string{"content": tooLong, "extra": "field"},
	} {
		rec := testutil.Do(r, http.MethodPost, path, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Bad Request: Answer is Longer than 300!", testutil.DecodeEnvelope(t, rec).Message)
	}

	// length counts characters, not bytes
	rec := testutil.Do(r, http.MethodPost, path, map[string]string{"content": strings.Repeat("é", models.MaxAnswerLength)})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = testutil.Do(r, http.MethodPost, path, map[string]string{"content": strings.Repeat("a", models.MaxAnswerLength)})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCreateAnswerKeepsTextVerbatim(t *testing.T) {
	r, db := testutil.SetupRouter(t)
	q := testutil.CreateQuestion(t, db, "t", "d", "c")

	content := "<" + strings.Repeat("&", models.MaxAnswerLength-1)
	rec := testutil.Do(r, http.MethodPost, "/questions/"+itoa(q.ID)+"/answers", map[string]string{"content": content})
	require.Equal(t, http.StatusOK, rec.Code)

	var a models.Answer
	testutil.Decode(t, testutil.DecodeEnvelope(t, rec).Data, &a)
	assert.Equal(t, content, a.Content)

	var stored models.Answer
	require.NoError(t, db.First(&stored, a.ID).Error)
	assert.Equal(t, content, stored.Content)
	assert.Len(t, stored.Content, models.MaxAnswerLength)
}

func TestCreateAnswerValidation(t *testing.T) {
	r, db := testutil.SetupRouter(t)
	q := testutil.CreateQuestion(t, db, "t", "d", "c")
	path := "/questions/" + itoa(q.ID) + "/answers"

	tests := []struct {
		name string
		body interface{}
	}{
		{"extra field", map[string]string{"content": "ok", "author": "me"}},
		{"only extra field", map[string]string{"author": "me"}},
		{"missing content", map[string]string{}},
		{"empty content", map[string]string{"content": ""}},
		{"null content", `{"content": null}`},
		{"numeric content", `{"content": 12}`},
		{"array body", `["content"]`},
		{"malformed", `{"content": "a`},
		{"no body", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := testutil.Do(r, http.MethodPost, path, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "Bad Request: Missing or invalid request data", testutil.DecodeEnvelope(t, rec).Message)
		})
	}
	assert.Equal(t, int64(0), countRows(t, db, &models.Answer{}))
}

func TestCreateAnswerMissingQuestion(t *testing.T) {
	r, _ := testutil.SetupRouter(t)

	for _, id := range []string{"12345", "abc"} {
		rec := testutil.Do(r, http.MethodPost, "/questions/"+id+"/answers", map[string]string{"content": "hello"})
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Not Found Question not found.", testutil.DecodeEnvelope(t, rec).Message)
	}
}

func TestCreateAnswerStoreFailure(t *testing.T) {
	r, db := testutil.SetupRouter(t)
	closeStore(t, db)

	rec := testutil.Do(r, http.MethodPost, "/questions/1/answers", map[string]string{"content": "hello"})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Server could not connect because database connection", testutil.DecodeEnvelope(t, rec).Message)
}

func TestListAnswers(t *testing.T) {
	r, db := testutil.SetupRouter(t)
	q := testutil.CreateQuestion(t, db, "t", "d", "c")
	other := testutil.CreateQuestion(t, db, "t2", "d", "c")
	testutil.CreateAnswer(t, db, q.ID, "one")
	testutil.CreateAnswer(t, db, other.ID, "elsewhere")
	testutil.CreateAnswer(t, db, q.ID, "two")

	rec := testutil.Do(r, http.MethodGet, "/questions/"+itoa(q.ID)+"/answers", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	env := testutil.DecodeEnvelope(t, rec)
	assert.Equal(t, "OK: Successfully retrieved the answers.", env.Message)

	var got []models.Answer
	testutil.Decode(t, env.Data, &got)
	require.Len(t, got, 2)
	assert.Equal(t, "one", got[0].Content)
	assert.Equal(t, "two", got[1].Content)
	for _, a := range got {
		assert.Equal(t, q.ID, a.QuestionID)
	}
}

func TestListAnswersEmpty(t *testing.T) {
	t.Run("not found by default", func(t *testing.T) {
		r, db := testutil.SetupRouter(t)
		q := testutil.CreateQuestion(t, db, "t", "d", "c")

		rec := testutil.Do(r, http.MethodGet, "/questions/"+itoa(q.ID)+"/answers", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Not Found: Answers not found.", testutil.DecodeEnvelope(t, rec).Message)
	})

	t.Run("empty list when configured", func(t *testing.T) {
		r, db := testutil.SetupRouter(t, func(c *config.AppConfig) { c.EmptyAnswersAsNotFound = false })
		q := testutil.CreateQuestion(t, db, "t", "d", "c")

		rec := testutil.Do(r, http.MethodGet, "/questions/"+itoa(q.ID)+"/answers", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[]`, string(testutil.DecodeEnvelope(t, rec).Data))
	})
}

func TestListAnswersStoreFailure(t *testing.T) {
	r, db := testutil.SetupRouter(t)
	closeStore(t, db)

	rec := testutil.Do(r, http.MethodGet, "/questions/1/answers", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
