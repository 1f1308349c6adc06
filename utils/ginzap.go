package utils

import (
	"net/http"
	"os"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

// RequestIDKey is the gin context key holding the per-request id.
const RequestIDKey = "request_id"

// NewRollingFileLogger builds a dedicated zap logger writing JSON lines to a
// rotating file. An empty path yields a stdout logger.
func NewRollingFileLogger(path, level string, maxSizeMB, maxBackups, maxAgeDays int, compress bool) (*zap.Logger, error) {
	var ws zapcore.WriteSyncer
	if path == "" {
		ws = zapcore.AddSync(os.Stdout)
	} else {
		if dir := dirOf(path); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, err
			}
		}
		ws = zapcore.AddSync(&lumberjack.Logger{
			Filename:   path,
			MaxSize:    nz(maxSizeMB, 100),
			MaxBackups: nz(maxBackups, 3),
			MaxAge:     nz(maxAgeDays, 7),
			Compress:   compress,
		})
	}
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig()), ws, levelEnabler(parseLevel(level)))
	return zap.New(core), nil
}

// AccessLog logs one line per request, tagged with the request id.
func AccessLog(logger *zap.Logger) gin.HandlerFunc {
	return ginzap.GinzapWithConfig(logger, &ginzap.Config{
		TimeFormat: time.RFC3339,
		UTC:        true,
		Context: func(ctx *gin.Context) []zapcore.Field {
			if id := ctx.GetString(RequestIDKey); id != "" {
				return []zapcore.Field{zap.String(RequestIDKey, id)}
			}
			return nil
		},
	})
}

// Recovery logs panics with their stack and answers 500 in the response envelope.
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return ginzap.CustomRecoveryWithZap(logger, true, func(ctx *gin.Context, _ any) {
		ctx.AbortWithStatusJSON(http.StatusInternalServerError, JSONResponse{Message: "Internal Server Error"})
	})
}
