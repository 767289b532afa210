package apierror

import "github.com/gin-gonic/gin"

type ErrorResponse struct {
	Error string `json:"error"`
} // @name ErrorResponse

// Abort writes {"error": msg} with the given status.
func Abort(c *gin.Context, status int, err error) {
	c.AbortWithStatusJSON(status, ErrorResponse{Error: err.Error()})
}
