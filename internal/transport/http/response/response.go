package response

import "github.com/gin-gonic/gin"

// Business codes carried alongside the HTTP status so clients can
// distinguish cases that share one status, e.g. missing document vs
// document with no extractable text.
const (
	CodeOK                  = 0
	CodeBadRequest          = 40000
	CodeNotFound            = 40400
	CodeNoContent           = 40401
	CodeInternalServer      = 50000
	CodeUpstreamUnavailable = 50300
	CodeTimeout             = 50400
)

type APIResponse struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func OK(c *gin.Context, data interface{}) {
	c.JSON(200, APIResponse{
		Code:    CodeOK,
		Message: "ok",
		Data:    data,
	})
}

func Error(c *gin.Context, httpStatus, code int, message string) {
	c.JSON(httpStatus, APIResponse{
		Code:    code,
		Message: message,
	})
}
