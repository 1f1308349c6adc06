package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"github.com/cppla/qaboard/models"
	"github.com/cppla/qaboard/store"
	"github.com/cppla/qaboard/utils"
)

const answerContentKey = "content"

const (
	msgAnswerTooLong    = "Bad Request: Answer is Longer than 300!"
	msgAnswerNoQuestion = "Not Found Question not found."
	msgAnswersNotFound  = "Not Found: Answers not found."
	msgAnswerCreated    = "Created: Answer created successfully."
	msgAnswersRetrieved = "OK: Successfully retrieved the answers."
)

// CreateAnswer handles POST /questions/:id/answers.
//
// The body must be an object holding only a non-empty string "content" of at
// most models.MaxAnswerLength characters. Length is checked before shape.
func (q *QuestionController) CreateAnswer(ctx *gin.Context) {
	raw, err := ctx.GetRawData()
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, msgInvalidRequest)
		return
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		utils.Error(ctx, http.StatusBadRequest, msgInvalidRequest)
		return
	}

	var content string
	contentErr := json.Unmarshal(fields[answerContentKey], &content)
	if contentErr == nil && utf8.RuneCountInString(content) > models.MaxAnswerLength {
		utils.Error(ctx, http.StatusBadRequest, msgAnswerTooLong)
		return
	}
	for key := range fields {
		if key != answerContentKey {
			utils.Error(ctx, http.StatusBadRequest, msgInvalidRequest)
			return
		}
	}
	if contentErr != nil || content == "" {
		utils.Error(ctx, http.StatusBadRequest, msgInvalidRequest)
		return
	}

	id, ok := parseID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusNotFound, msgAnswerNoQuestion)
		return
	}
	answer, err := q.store.CreateAnswer(ctx.Request.Context(), id, content)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.Error(ctx, http.StatusNotFound, msgAnswerNoQuestion)
			return
		}
		logStoreError(ctx, "create answer", err)
		utils.Error(ctx, http.StatusInternalServerError, msgConnectionErr)
		return
	}
	utils.Data(ctx, http.StatusOK, msgAnswerCreated, answer)
}

// ListAnswers handles GET /questions/:id/answers.
func (q *QuestionController) ListAnswers(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusNotFound, msgAnswersNotFound)
		return
	}
	answers, err := q.store.ListAnswers(ctx.Request.Context(), id)
	if err != nil {
		logStoreError(ctx, "list answers", err)
		utils.Error(ctx, http.StatusInternalServerError, msgConnectionErr)
		return
	}
	if len(answers) == 0 && q.emptyAnswersAsNotFound {
		utils.Error(ctx, http.StatusNotFound, msgAnswersNotFound)
		return
	}
	utils.Data(ctx, http.StatusOK, msgAnswersRetrieved, answers)
}
