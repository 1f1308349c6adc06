package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cppla/qaboard/config"
	"github.com/cppla/qaboard/controllers"
	"github.com/cppla/qaboard/docs"
	"github.com/cppla/qaboard/middleware"
	"github.com/cppla/qaboard/store"
	"github.com/cppla/qaboard/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.RequestID())
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.AccessLog(gl))
		r.Use(utils.Recovery(gl))
	} else {
		utils.Sugar.Warnf("gin logger unavailable, using default recovery: %v", err)
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Content-Type", middleware.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	s := store.New(db, time.Duration(cfg.QueryTimeoutSec)*time.Second)
	questionController := controllers.NewQuestionController(s, cfg.EmptyAnswersAsNotFound)
	answerController := controllers.NewAnswerController(s, cfg.AnswerVoteErrorsAsNotFound)
	statsController := controllers.NewStatsController(s)

	r.GET("/test", statsController.Liveness)
	r.GET("/health", statsController.Health)
	r.GET("/stats", statsController.GetStats)
	docs.Register(r)

	// one limiter shared by every write route
	limit := middleware.RateLimitMiddleware()

	questions := r.Group("/questions")
	questions.POST("", limit, questionController.CreateQuestion)
	questions.GET("", questionController.ListQuestions)
	questions.GET("/:id", questionController.GetQuestion)
	questions.PUT("/:id", limit, questionController.UpdateQuestion)
	questions.DELETE("/:id", limit, questionController.DeleteQuestion)
	questions.POST("/:id/answers", limit, questionController.CreateAnswer)
	questions.GET("/:id/answers", questionController.ListAnswers)
	questions.POST("/:id/upvote", limit, questionController.UpvoteQuestion)
	questions.POST("/:id/downvote", limit, questionController.DownvoteQuestion)

	answers := r.Group("/answers")
	answers.POST("/:id/upvote", limit, answerController.Upvote)
	answers.POST("/:id/downvote", limit, answerController.Downvote)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, "Not Found: route not found")
	})

	return r
}
