package response

import "github.com/gin-gonic/gin"

// Every response carries a success flag plus a message on the happy path or
// message/error on failure, with any payload fields merged alongside.

func OK(c *gin.Context, status int, message string, payload gin.H) {
	body := gin.H{
		"success": true,
		"message": message,
	}
	for key, value := range payload {
		body[key] = value
	}
	c.JSON(status, body)
}

func Fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"message": message,
		"error":   message,
	})
}

// FailWithError reports a generic message to the client with the underlying
// error attached for diagnostics.
func FailWithError(c *gin.Context, status int, message string, err error) {
	body := gin.H{
		"success": false,
		"message": message,
		"error":   message,
	}
	if err != nil {
		body["error"] = err.Error()
	}
	c.JSON(status, body)
}
