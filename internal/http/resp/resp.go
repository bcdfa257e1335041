package resp

import "github.com/gin-gonic/gin"

// Fail writes the error shape every endpoint shares.
func Fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}

// OK writes a success body with any extra payload fields merged in.
func OK(c *gin.Context, status int, extra gin.H) {
	body := gin.H{"success": true}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(status, body)
}
