package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cppla/qaboard/models"
	"github.com/cppla/qaboard/store"
	"github.com/cppla/qaboard/utils"
)

const (
	msgInvalidVote          = "Bad Request: Invalid body parameters."
	msgVoteQuestionNotFound = "Not Found: Question not found."
)

type voteRequest struct {
	Vote *float64 `json:"vote"`
}

// bindVote accepts only a body whose "vote" is the number want.
func bindVote(ctx *gin.Context, want int) bool {
	var req voteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil || req.Vote == nil || *req.Vote != float64(want) {
		utils.Error(ctx, http.StatusBadRequest, msgInvalidVote)
		return false
	}
	return true
}

// UpvoteQuestion handles POST /questions/:id/upvote.
func (q *QuestionController) UpvoteQuestion(ctx *gin.Context) {
	q.voteQuestion(ctx, models.Upvote, "OK: Successfully upvoted the question.")
}

// DownvoteQuestion handles POST /questions/:id/downvote.
func (q *QuestionController) DownvoteQuestion(ctx *gin.Context) {
	q.voteQuestion(ctx, models.Downvote, "OK: Successfully downvoted the question.")
}

func (q *QuestionController) voteQuestion(ctx *gin.Context, vote int, okMsg string) {
	if !bindVote(ctx, vote) {
		return
	}
	id, ok := parseID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusNotFound, msgVoteQuestionNotFound)
		return
	}
	result, err := q.store.VoteQuestion(ctx.Request.Context(), id, vote)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.Error(ctx, http.StatusNotFound, msgVoteQuestionNotFound)
			return
		}
		logStoreError(ctx, "vote question", err)
		utils.Error(ctx, http.StatusInternalServerError, msgConnectionErr)
		return
	}
	utils.Data(ctx, http.StatusOK, okMsg, result)
}
