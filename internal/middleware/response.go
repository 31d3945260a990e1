package middleware

import "github.com/gin-gonic/gin"

// APIResponse is the uniform envelope every integration and channel endpoint
// returns, success or failure.
type APIResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// RespondSuccess writes the success envelope with the given payload.
func RespondSuccess(c *gin.Context, status int, message string, data any) {
	c.JSON(status, APIResponse{Success: true, Message: message, Data: data})
}

// RespondError writes the failure envelope. No structured error codes are
// exposed to clients; the message is the whole contract.
func RespondError(c *gin.Context, status int, message string) {
	c.JSON(status, APIResponse{Success: false, Message: message})
}
