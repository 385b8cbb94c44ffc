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
	"fmt"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/go-compass/compass/internal/engine/conf"
	"github.com/go-compass/compass/internal/engine/repo"
	"github.com/go-compass/compass/internal/engine/service"
	"github.com/go-compass/compass/pkg/ctx"
	"github.com/go-compass/compass/pkg/database"
	"github.com/go-compass/compass/pkg/httpx"
	"github.com/go-compass/compass/pkg/metrics"
	"github.com/go-compass/compass/pkg/server"
	"github.com/go-compass/compass/pkg/version"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Services 聚合菜单树相关服务
type Services struct {
	Hierarchy *service.HierarchyService
	Tree      *service.TreeService
	Search    *service.SearchService
	Codec     *service.CodecService
	Loader    *service.LoaderService
}

type Router struct {
	Http     *server.Http
	Ctx      *ctx.Context
	Services Services
}

func NewRouter(httpConf *server.Http, appCtx *ctx.Context, menuConf conf.MenuConfig) *Router {
	menuRepo := repo.NewMenuRepo(database.NewGormDB(appCtx.MySQLIns))
	hierarchy := service.NewHierarchyService(menuRepo)
	codec := service.NewCodecService(menuRepo, hierarchy)

	return &Router{
		Http: httpConf,
		Ctx:  appCtx,
		Services: Services{
			Hierarchy: hierarchy,
			Tree:      service.NewTreeService(menuRepo).WithSuperRole(menuConf.SuperRole),
			Search:    service.NewSearchService(menuRepo),
			Codec:     codec,
			Loader:    service.NewLoaderService(codec),
		},
	}
}

func (rt *Router) Router() *gin.Engine {
	gin.SetMode(rt.Http.Mode)

	r := gin.New()

	gin.DebugPrintRouteFunc = func(httpMethod, absolutePath, handlerName string, nuHandlers int) {
		fmt.Printf("[Compass] %-6s %-25s --> %s (%d handlers) \n", httpMethod, absolutePath, handlerName, nuHandlers)
	}

	// panic recover
	r.Use(gin.Recovery())

	// cors
	r.Use(cors.Default())

	if rt.Http.AccessLog {
		r.Use(gin.LoggerWithFormatter(httpx.AccessLogFormat))
	}

	if rt.Http.PProf {
		pprof.Register(r, "/debug/pprof")
	}

	if rt.Http.ExposeMetrics {
		registry := metrics.NewRegistry()
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{
			EnableOpenMetrics: true,
		})))
	}

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	r.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, version.GetVersion())
	})

	core := r.Group(rt.Http.ContextPath)
	{
		rt.menuRouter(core)
	}

	return r
}
