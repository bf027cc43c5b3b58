package modules

import "github.com/gin-gonic/gin"

// chain returns pre followed by h in a fresh slice.
func chain(pre []gin.HandlerFunc, h gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(pre)+1)
	out = append(out, pre...)
	return append(out, h)
}
