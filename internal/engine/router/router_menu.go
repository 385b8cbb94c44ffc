// Copyright 2025 Compass Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package router

import (
	gerrors "errors"
	"strconv"

	"github.com/gin-gonic/gin"
	menumodel "github.com/go-compass/compass/internal/engine/model"
	"github.com/go-compass/compass/internal/engine/service"
	"github.com/go-compass/compass/pkg/httpx"
)

func (rt *Router) menuRouter(r *gin.RouterGroup) {
	menuGroup := r.Group("/menus")
	{
		menuGroup.POST("", rt.createMenuNode)              // POST /menus - create a node
		menuGroup.GET("/tree", rt.menuTree)                // GET /menus/tree?role= - role-filtered menu
		menuGroup.GET("/search", rt.menuSearch)            // GET /menus/search?q=&limit=
		menuGroup.GET("/export", rt.menuExport)            // GET /menus/export - flat records
		menuGroup.POST("/import", rt.menuImport)           // POST /menus/import?mode=replace|merge
		menuGroup.POST("/recalculate", rt.menuRecalculate) // POST /menus/recalculate - level repair pass
		menuGroup.POST("/load", rt.menuLoad)               // POST /menus/load?mode= - declarative skeleton
	}

	nodeGroup := r.Group("/menu")
	{
		nodeGroup.PUT("/:menuId", rt.updateMenuNode)          // PUT /menu/:menuId - partial update / reparent
		nodeGroup.DELETE("/:menuId", rt.deleteMenuNode)       // DELETE /menu/:menuId - cascade delete
		nodeGroup.GET("/:menuId/ancestors", rt.menuAncestors) // GET /menu/:menuId/ancestors - root-first chain
		nodeGroup.GET("/:menuId/subtree", rt.menuSubtree)     // GET /menu/:menuId/subtree - full subtree
		nodeGroup.GET("/:menuId/siblings", rt.menuSiblings)   // GET /menu/:menuId/siblings - peers with subtrees
	}
}

// createMenuNode creates a node; a missing parent degrades to root and is
// reported in the response detail.
func (rt *Router) createMenuNode(c *gin.Context) {
	var req menumodel.CreateMenuNodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.WithRepErrMsg(c, httpx.RequestParameterParsingFailed.Code, httpx.RequestParameterParsingFailed.Msg, c.Request.URL.Path)
		return
	}

	node, warning, err := rt.Services.Hierarchy.CreateNode(&req)
	if err != nil {
		httpx.WithRepErrMsg(c, httpx.Failed.Code, err.Error(), c.Request.URL.Path)
		return
	}

	detail := gin.H{"node": node}
	if warning != "" {
		detail["warning"] = warning
	}
	httpx.WithRepJSON(c, detail)
}

func (rt *Router) updateMenuNode(c *gin.Context) {
	menuId := c.Param("menuId")
	if menuId == "" {
		httpx.WithRepErrMsg(c, httpx.MenuIdIsEmpty.Code, httpx.MenuIdIsEmpty.Msg, c.Request.URL.Path)
		return
	}

	var req menumodel.UpdateMenuNodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.WithRepErrMsg(c, httpx.RequestParameterParsingFailed.Code, httpx.RequestParameterParsingFailed.Msg, c.Request.URL.Path)
		return
	}

	warning, err := rt.Services.Hierarchy.UpdateNode(menuId, &req)
	if err != nil {
		if gerrors.Is(err, service.ErrNodeNotFound) {
			httpx.WithRepErrMsg(c, httpx.MenuNodeNotExist.Code, httpx.MenuNodeNotExist.Msg, c.Request.URL.Path)
			return
		}
		httpx.WithRepErrMsg(c, httpx.Failed.Code, err.Error(), c.Request.URL.Path)
		return
	}

	if warning != "" {
		httpx.WithRepJSON(c, gin.H{"warning": warning})
		return
	}
	httpx.WithRepNotDetail(c)
}

// deleteMenuNode cascades over the subtree; deleting an unknown id is a
// success.
func (rt *Router) deleteMenuNode(c *gin.Context) {
	menuId := c.Param("menuId")
	if menuId == "" {
		httpx.WithRepErrMsg(c, httpx.MenuIdIsEmpty.Code, httpx.MenuIdIsEmpty.Msg, c.Request.URL.Path)
		return
	}

	if err := rt.Services.Hierarchy.DeleteNode(menuId); err != nil {
		httpx.WithRepErrMsg(c, httpx.Failed.Code, err.Error(), c.Request.URL.Path)
		return
	}
	httpx.WithRepNotDetail(c)
}

func (rt *Router) menuAncestors(c *gin.Context) {
	chain, err := rt.Services.Tree.Ancestors(c.Param("menuId"))
	if err != nil {
		httpx.WithRepErrMsg(c, httpx.Failed.Code, err.Error(), c.Request.URL.Path)
		return
	}
	httpx.WithRepJSON(c, gin.H{"ancestors": chain})
}

func (rt *Router) menuSubtree(c *gin.Context) {
	subtree, err := rt.Services.Tree.Subtree(c.Param("menuId"))
	if err != nil {
		if gerrors.Is(err, service.ErrNodeNotFound) {
			httpx.WithRepErrMsg(c, httpx.MenuNodeNotExist.Code, httpx.MenuNodeNotExist.Msg, c.Request.URL.Path)
			return
		}
		httpx.WithRepErrMsg(c, httpx.Failed.Code, err.Error(), c.Request.URL.Path)
		return
	}
	httpx.WithRepJSON(c, subtree)
}

func (rt *Router) menuSiblings(c *gin.Context) {
	siblings, err := rt.Services.Tree.Siblings(c.Param("menuId"))
	if err != nil {
		if gerrors.Is(err, service.ErrNodeNotFound) {
			httpx.WithRepErrMsg(c, httpx.MenuNodeNotExist.Code, httpx.MenuNodeNotExist.Msg, c.Request.URL.Path)
			return
		}
		httpx.WithRepErrMsg(c, httpx.Failed.Code, err.Error(), c.Request.URL.Path)
		return
	}
	httpx.WithRepJSON(c, gin.H{"siblings": siblings})
}

func (rt *Router) menuTree(c *gin.Context) {
	tree, err := rt.Services.Tree.RoleFilteredTree(c.Query("role"))
	if err != nil {
		httpx.WithRepErrMsg(c, httpx.Failed.Code, err.Error(), c.Request.URL.Path)
		return
	}
	httpx.WithRepJSON(c, gin.H{"menu": tree})
}

func (rt *Router) menuSearch(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	results, err := rt.Services.Search.Search(c.Query("q"), limit)
	if err != nil {
		httpx.WithRepErrMsg(c, httpx.Failed.Code, err.Error(), c.Request.URL.Path)
		return
	}
	httpx.WithRepJSON(c, gin.H{"results": results})
}

func (rt *Router) menuExport(c *gin.Context) {
	records, err := rt.Services.Codec.Export()
	if err != nil {
		httpx.WithRepErrMsg(c, httpx.Failed.Code, err.Error(), c.Request.URL.Path)
		return
	}
	httpx.WithRepJSON(c, gin.H{"records": records})
}

func (rt *Router) menuImport(c *gin.Context) {
	mode := menumodel.ImportMode(c.DefaultQuery("mode", string(menumodel.ImportModeMerge)))
	if mode != menumodel.ImportModeReplace && mode != menumodel.ImportModeMerge {
		httpx.WithRepErrMsg(c, httpx.InvalidImportMode.Code, httpx.InvalidImportMode.Msg, c.Request.URL.Path)
		return
	}

	var records []menumodel.ExportRecord
	if err := c.ShouldBindJSON(&records); err != nil {
		httpx.WithRepErrMsg(c, httpx.RequestParameterParsingFailed.Code, httpx.RequestParameterParsingFailed.Msg, c.Request.URL.Path)
		return
	}

	report, err := rt.Services.Codec.Import(records, mode)
	if err != nil {
		httpx.WithRepErrMsg(c, httpx.Failed.Code, err.Error(), c.Request.URL.Path)
		return
	}
	httpx.WithRepJSON(c, report)
}

func (rt *Router) menuRecalculate(c *gin.Context) {
	changed, err := rt.Services.Hierarchy.RecalculateAllLevels()
	if err != nil {
		httpx.WithRepErrMsg(c, httpx.Failed.Code, err.Error(), c.Request.URL.Path)
		return
	}
	httpx.WithRepJSON(c, gin.H{"changed": changed})
}

// menuLoad applies a declarative nested skeleton, typically on an explicit
// admin action after deployment.
func (rt *Router) menuLoad(c *gin.Context) {
	mode := menumodel.ImportMode(c.DefaultQuery("mode", string(menumodel.ImportModeMerge)))
	if mode != menumodel.ImportModeReplace && mode != menumodel.ImportModeMerge {
		httpx.WithRepErrMsg(c, httpx.InvalidImportMode.Code, httpx.InvalidImportMode.Msg, c.Request.URL.Path)
		return
	}

	var defs []menumodel.MenuDef
	if err := c.ShouldBindJSON(&defs); err != nil {
		httpx.WithRepErrMsg(c, httpx.RequestParameterParsingFailed.Code, httpx.RequestParameterParsingFailed.Msg, c.Request.URL.Path)
		return
	}

	report, err := rt.Services.Loader.Load(defs, mode)
	if err != nil {
		httpx.WithRepErrMsg(c, httpx.Failed.Code, err.Error(), c.Request.URL.Path)
		return
	}
	httpx.WithRepJSON(c, report)
}
