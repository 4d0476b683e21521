package router

import "github.com/gin-gonic/gin"

const apiBasePath = "/api"

// Registry collects route modules and mounts them under the API group.
type Registry struct {
	Engine *gin.Engine
	API    *gin.RouterGroup

	groupMW []gin.HandlerFunc
	modules []Module
}

func NewRegistry(engine *gin.Engine) *Registry {
	return &Registry{Engine: engine, API: engine.Group(apiBasePath)}
}

// Use appends middleware applied to every module route, in order.
func (r *Registry) Use(mw ...gin.HandlerFunc) {
	r.groupMW = append(r.groupMW, mw...)
}

func (r *Registry) Add(mod Module) {
	r.modules = append(r.modules, mod)
}

// RegisterAll attaches the group middleware and mounts each module's
// routes. Call once, after every module has been added.
func (r *Registry) RegisterAll() {
	if len(r.groupMW) > 0 {
		r.API.Use(r.groupMW...)
	}
	for _, mod := range r.modules {
		mod.Register(r.API)
	}
}
