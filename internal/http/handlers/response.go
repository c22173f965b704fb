package handlers

import "github.com/gin-gonic/gin"

// ErrorResponse is the JSON envelope for every non-2xx response.
type ErrorResponse struct {
	RequestID string `json:"request_id,omitempty"`
	Code      string `json:"code"`
	Message   string `json:"message"`
}

// fail aborts the request with a JSON error envelope, carrying the request
// ID when one was assigned upstream.
func fail(c *gin.Context, status int, code, message string) {
	rid, _ := c.Get("requestID")
	ridStr, _ := rid.(string)
	c.AbortWithStatusJSON(status, ErrorResponse{
		RequestID: ridStr,
		Code:      code,
		Message:   message,
	})
}

// NotFound is the NoRoute handler.
func NotFound(c *gin.Context) {
	fail(c, 404, ErrCodeNotFound, "resource not found")
}

// MethodNotAllowed is the NoMethod handler.
func MethodNotAllowed(c *gin.Context) {
	fail(c, 405, ErrCodeMethodNotAllowed, "method not allowed")
}
