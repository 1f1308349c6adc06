package utils

import "github.com/gin-gonic/gin"

// JSONResponse is the envelope every endpoint answers with. Only one of Data and
// Body is set; errors carry the message alone.
type JSONResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Body    interface{} `json:"body,omitempty"`
}

// Respond writes resp with the given status code.
func Respond(ctx *gin.Context, status int, resp JSONResponse) {
	ctx.JSON(status, resp)
}

// Data answers with the payload under "data".
func Data(ctx *gin.Context, status int, message string, data interface{}) {
	Respond(ctx, status, JSONResponse{Message: message, Data: data})
}

// Body answers with the payload under "body".
func Body(ctx *gin.Context, status int, message string, body interface{}) {
	Respond(ctx, status, JSONResponse{Message: message, Body: body})
}

// Message answers with a message and no payload.
func Message(ctx *gin.Context, status int, message string) {
	Respond(ctx, status, JSONResponse{Message: message})
}

// Error answers with an error message and stops the handler chain.
func Error(ctx *gin.Context, status int, message string) {
	ctx.AbortWithStatusJSON(status, JSONResponse{Message: message})
}
