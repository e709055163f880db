package router

import "github.com/gin-gonic/gin"

// Module is a self-contained route group (account, profile, system) that
// mounts its endpoints on the shared API group.
type Module interface {
	Register(rg *gin.RouterGroup)
}
