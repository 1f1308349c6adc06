package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cppla/qaboard/models"
	"github.com/cppla/qaboard/store"
	"github.com/cppla/qaboard/utils"
)

const msgAnswerNotFound = "Not Found: Answer not found."

// AnswerController serves votes on individual answers.
type AnswerController struct {
	store *store.Store

	// errorsAsNotFound reports every store failure as a missing answer,
	// which existing clients rely on.
	errorsAsNotFound bool
}

// NewAnswerController creates a new AnswerController instance.
func NewAnswerController(s *store.Store, errorsAsNotFound bool) *AnswerController {
	return &AnswerController{store: s, errorsAsNotFound: errorsAsNotFound}
}

// Upvote handles POST /answers/:id/upvote.
func (a *AnswerController) Upvote(ctx *gin.Context) {
	a.vote(ctx, models.Upvote, "OK: Successfully upvoted the answer.")
}

// Downvote handles POST /answers/:id/downvote.
func (a *AnswerController) Downvote(ctx *gin.Context) {
	a.vote(ctx, models.Downvote, "OK: Successfully downvoted the answer.")
}

func (a *AnswerController) vote(ctx *gin.Context, vote int, okMsg string) {
	if !bindVote(ctx, vote) {
		return
	}
	id, ok := parseID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusNotFound, msgAnswerNotFound)
		return
	}
	result, err := a.store.VoteAnswer(ctx.Request.Context(), id, vote)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			logStoreError(ctx, "vote answer", err)
		}
		if a.errorsAsNotFound || errors.Is(err, store.ErrNotFound) {
			utils.Error(ctx, http.StatusNotFound, msgAnswerNotFound)
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, msgConnectionErr)
		return
	}
	utils.Data(ctx, http.StatusOK, okMsg, result)
}
