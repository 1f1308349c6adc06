package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cppla/qaboard/store"
	"github.com/cppla/qaboard/utils"
)

const (
	msgInvalidRequest    = "Bad Request: Missing or invalid request data"
	msgInvalidQuery      = "Bad Request: Invalid query parameters."
	msgQuestionNotFound  = "Not Found: Question not found"
	msgCreateQuestionErr = "Server could not create questions because database connection"
	msgListQuestionsErr  = "Server could not get question because database connection"
	msgFindQuestionErr   = "Server could not found questions id because database connection"
	msgConnectionErr     = "Server could not connect because database connection"
)

// allowedQuestionFilters are the only query keys GET /questions accepts.
var allowedQuestionFilters = map[string]bool{"title": true, "category": true}

// QuestionController serves the /questions resource and its nested answers and votes.
type QuestionController struct {
	store *store.Store

	// emptyAnswersAsNotFound answers an empty answer list with 404.
	emptyAnswersAsNotFound bool
}

// NewQuestionController creates a new QuestionController instance.
func NewQuestionController(s *store.Store, emptyAnswersAsNotFound bool) *QuestionController {
	return &QuestionController{store: s, emptyAnswersAsNotFound: emptyAnswersAsNotFound}
}

type questionRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required"`
	Category    string `json:"category" binding:"required"`
}

// input validates the request body. ok is false when a 400 has already been
// written. Text is stored exactly as received.
func (q *QuestionController) input(ctx *gin.Context) (store.QuestionInput, bool) {
	var req questionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, msgInvalidRequest)
		return store.QuestionInput{}, false
	}
	return store.QuestionInput{Title: req.Title, Description: req.Description, Category: req.Category}, true
}

// CreateQuestion handles POST /questions.
func (q *QuestionController) CreateQuestion(ctx *gin.Context) {
	in, ok := q.input(ctx)
	if !ok {
		return
	}
	question, err := q.store.CreateQuestion(ctx.Request.Context(), in)
	if err != nil {
		logStoreError(ctx, "create question", err)
		utils.Error(ctx, http.StatusInternalServerError, msgCreateQuestionErr)
		return
	}
	utils.Body(ctx, http.StatusCreated, "Created: Question created successfully.", question)
}

// ListQuestions handles GET /questions with optional title and category filters.
func (q *QuestionController) ListQuestions(ctx *gin.Context) {
	for key := range ctx.Request.URL.Query() {
		if !allowedQuestionFilters[key] {
			utils.Error(ctx, http.StatusNotFound, msgInvalidQuery)
			return
		}
	}
	questions, err := q.store.ListQuestions(ctx.Request.Context(), store.QuestionFilter{
		Title:    ctx.Query("title"),
		Category: ctx.Query("category"),
	})
	if err != nil {
		logStoreError(ctx, "list questions", err)
		utils.Error(ctx, http.StatusInternalServerError, msgListQuestionsErr)
		return
	}
	utils.Data(ctx, http.StatusOK, "OK: Successfully retrieved the list of questions.", questions)
}

// GetQuestion handles GET /questions/:id.
func (q *QuestionController) GetQuestion(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusNotFound, msgQuestionNotFound)
		return
	}
	question, err := q.store.GetQuestion(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.Error(ctx, http.StatusNotFound, msgQuestionNotFound)
			return
		}
		logStoreError(ctx, "get question", err)
		utils.Error(ctx, http.StatusInternalServerError, msgFindQuestionErr)
		return
	}
	utils.Body(ctx, http.StatusOK, "OK: Successfully retrieved the question", question)
}

// UpdateQuestion handles PUT /questions/:id. Every field is replaced.
func (q *QuestionController) UpdateQuestion(ctx *gin.Context) {
	id, idOK := parseID(ctx)
	in, ok := q.input(ctx)
	if !ok {
		return
	}
	if !idOK {
		utils.Error(ctx, http.StatusNotFound, msgQuestionNotFound)
		return
	}
	question, err := q.store.UpdateQuestion(ctx.Request.Context(), id, in)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.Error(ctx, http.StatusNotFound, msgQuestionNotFound)
			return
		}
		logStoreError(ctx, "update question", err)
		utils.Error(ctx, http.StatusInternalServerError, msgFindQuestionErr)
		return
	}
	utils.Body(ctx, http.StatusOK, "OK: Successfully updated the question.", question)
}

// DeleteQuestion handles DELETE /questions/:id. Answers and votes cascade.
func (q *QuestionController) DeleteQuestion(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusNotFound, msgQuestionNotFound)
		return
	}
	if err := q.store.DeleteQuestion(ctx.Request.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.Error(ctx, http.StatusNotFound, msgQuestionNotFound)
			return
		}
		logStoreError(ctx, "delete question", err)
		utils.Error(ctx, http.StatusInternalServerError, msgConnectionErr)
		return
	}
	utils.Message(ctx, http.StatusOK, "OK: Successfully deleted the question")
}

// parseID reads the :id path segment. Non-numeric ids cannot match a row.
func parseID(ctx *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, strconv.IntSize)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func logStoreError(ctx *gin.Context, op string, err error) {
	utils.Logger.Error("store call failed",
		zap.String("op", op),
		zap.String(utils.RequestIDKey, ctx.GetString(utils.RequestIDKey)),
		zap.Error(err),
	)
}
