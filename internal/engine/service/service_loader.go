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

package service

import (
	"strings"

	"github.com/go-compass/compass/internal/engine/model"
	"github.com/go-compass/compass/pkg/id"
)

// routeGroupPrefix 声明式定义中列表路由的固定前缀，
// 紧随其后的路径段作为分组节点的稳定 id。
const routeGroupPrefix = "/admin/"

// LoaderService 把代码内声明的嵌套菜单骨架转换为扁平存储记录并写入。
// 转换本身是纯函数，从不读存储。
type LoaderService struct {
	codec *CodecService
}

func NewLoaderService(codec *CodecService) *LoaderService {
	return &LoaderService{
		codec: codec,
	}
}

// Load flattens the declarative definitions and applies them through the
// codec under the given import mode.
func (ls *LoaderService) Load(defs []model.MenuDef, mode model.ImportMode) (*model.ImportReport, error) {
	return ls.codec.Import(FlattenMenuDefs(defs), mode)
}

// FlattenMenuDefs converts a nested definition into flat records. A node
// at nesting depth d gets level d; its parent is the enclosing node's id.
// Pure function of the structure, the store is never consulted.
func FlattenMenuDefs(defs []model.MenuDef) []model.ExportRecord {
	var records []model.ExportRecord
	flattenMenuDefs(defs, "", 0, &records)
	return records
}

func flattenMenuDefs(defs []model.MenuDef, parentId string, depth int, out *[]model.ExportRecord) {
	for i := range defs {
		def := &defs[i]
		menuId := def.MenuId
		if menuId == "" {
			menuId = GroupIdFromRoute(def.Route)
		}
		if menuId == "" {
			menuId = id.ShortId()
		}

		visible := true
		if def.IsVisible != nil {
			visible = *def.IsVisible
		}
		order := def.DisplayOrder
		if order == 0 {
			order = i
		}

		*out = append(*out, model.ExportRecord{
			MenuId:       menuId,
			ParentId:     parentId,
			Label:        def.Label,
			IndexLabel:   def.IndexLabel,
			Route:        def.Route,
			Icon:         def.Icon,
			DisplayOrder: order,
			Level:        depth,
			IsVisible:    visible,
			IsDynamic:    def.IsDynamic,
			AllowedRoles: def.AllowedRoles,
		})

		if len(def.Children) > 0 {
			flattenMenuDefs(def.Children, menuId, depth+1, out)
		}
	}
}

// GroupIdFromRoute derives a stable group id from a route: the path
// segment immediately after the fixed prefix. Empty when the route does
// not carry the prefix.
func GroupIdFromRoute(route string) string {
	rest, ok := strings.CutPrefix(route, routeGroupPrefix)
	if !ok || rest == "" {
		return ""
	}
	if idx := strings.IndexByte(rest, '/'); idx >= 0 {
		rest = rest[:idx]
	}
	return rest
}
