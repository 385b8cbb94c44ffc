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

package model

import (
	"github.com/go-compass/compass/pkg/datatype"
)

// MenuNode 导航菜单节点表
//
// ParentId 为空表示根节点，此时 Level 恒为 0；否则 Level 恒等于父节点
// Level + 1。Level 由引擎维护，外部写入不可信，可用重算修复。
type MenuNode struct {
	BaseModel
	MenuId       string        `gorm:"column:menu_id;not null;uniqueIndex" json:"menuId"`  // 菜单唯一标识
	ParentId     string        `gorm:"column:parent_id;index" json:"parentId"`             // 父菜单ID（为空表示根节点）
	Label        string        `gorm:"column:label;not null" json:"label"`                 // 显示名称（叶子节点）
	IndexLabel   string        `gorm:"column:index_label" json:"indexLabel"`               // 有子节点时优先使用的显示名称
	Route        string        `gorm:"column:route" json:"route"`                          // 路由路径（为空表示纯分组目录）
	Icon         string        `gorm:"column:icon" json:"icon"`                            // 图标名称
	DisplayOrder int           `gorm:"column:display_order;default:0" json:"displayOrder"` // 同级排序（数值越小越靠前）
	Level        int           `gorm:"column:level;default:0;index" json:"level"`          // 距根节点的层级，由引擎维护
	IsVisible    int           `gorm:"column:is_visible;default:1" json:"isVisible"`       // 是否可见：0-隐藏，1-显示
	IsDynamic    int           `gorm:"column:is_dynamic;default:0" json:"isDynamic"`       // 是否动态节点：动态节点不参与搜索与静态菜单
	AllowedRoles datatype.JSON `gorm:"column:allowed_roles;type:text" json:"allowedRoles"` // 可见角色列表（JSON，空表示所有角色可见）
}

func (MenuNode) TableName() string {
	return "t_menu_node"
}

// 菜单可见性常量
const (
	NodeVisible = 1 // 可见
	NodeHidden  = 0 // 不可见
)

// 动态节点常量
const (
	NodeStatic  = 0 // 静态节点
	NodeDynamic = 1 // 动态节点（仅运行时上下文出现）
)

// IsRoot reports whether the node is a root node.
func (n *MenuNode) IsRoot() bool {
	return n.ParentId == ""
}

// Roles decodes the allowed role list; empty means visible to all roles.
func (n *MenuNode) Roles() []string {
	roles, err := n.AllowedRoles.StringList()
	if err != nil {
		return nil
	}
	return roles
}

// CreateMenuNodeRequest 创建菜单节点请求
type CreateMenuNodeRequest struct {
	MenuId       string   `json:"menuId"` // 为空时自动生成
	ParentId     string   `json:"parentId"`
	Label        string   `json:"label"`
	IndexLabel   string   `json:"indexLabel"`
	Route        string   `json:"route"`
	Icon         string   `json:"icon"`
	DisplayOrder int      `json:"displayOrder"`
	IsVisible    *bool    `json:"isVisible"` // 缺省可见
	IsDynamic    bool     `json:"isDynamic"`
	AllowedRoles []string `json:"allowedRoles"`
}

// UpdateMenuNodeRequest 更新菜单节点请求，nil 字段表示不修改。
// ParentId 指向空串表示移动到根。
type UpdateMenuNodeRequest struct {
	ParentId     *string   `json:"parentId"`
	Label        *string   `json:"label"`
	IndexLabel   *string   `json:"indexLabel"`
	Route        *string   `json:"route"`
	Icon         *string   `json:"icon"`
	DisplayOrder *int      `json:"displayOrder"`
	IsVisible    *bool     `json:"isVisible"`
	IsDynamic    *bool     `json:"isDynamic"`
	AllowedRoles *[]string `json:"allowedRoles"`
}

// MenuProjection 菜单节点投影，子树/兄弟/祖先查询的输出形态
type MenuProjection struct {
	MenuId         string           `json:"menuId"`
	ParentId       string           `json:"parentId"`
	Label          string           `json:"label"`
	IndexLabel     string           `json:"indexLabel,omitempty"`
	DisplayName    string           `json:"displayName"`
	Route          string           `json:"route,omitempty"`
	Url            string           `json:"url,omitempty"`
	Icon           string           `json:"icon"`
	Level          int              `json:"level"`
	DisplayOrder   int              `json:"displayOrder"`
	IsVisible      bool             `json:"isVisible"`
	IsDynamic      bool             `json:"isDynamic"`
	HasChildren    bool             `json:"hasChildren"`
	DefaultChildId string           `json:"defaultChildId,omitempty"`
	Children       []MenuProjection `json:"children,omitempty"`
}

// MenuTreeNode 角色过滤后的渲染树节点
type MenuTreeNode struct {
	MenuId      string         `json:"menuId"`
	DisplayName string         `json:"displayName"`
	Url         string         `json:"url,omitempty"`
	Icon        string         `json:"icon"`
	Level       int            `json:"level"`
	Children    []MenuTreeNode `json:"children"`
}

// SearchResult 搜索结果，附带面包屑路径
type SearchResult struct {
	MenuId         string   `json:"menuId"`
	ParentId       string   `json:"parentId"`
	Label          string   `json:"label"`
	Route          string   `json:"route,omitempty"`
	Icon           string   `json:"icon"`
	Level          int      `json:"level"`
	IsVisible      bool     `json:"isVisible"`
	Breadcrumb     []string `json:"breadcrumb"`
	BreadcrumbText string   `json:"breadcrumbText"`
}

// ExportRecord 扁平导出记录，parent 引用方式描述整棵树
type ExportRecord struct {
	MenuId       string   `json:"menuId"`
	ParentId     string   `json:"parentId"`
	Label        string   `json:"label"`
	IndexLabel   string   `json:"indexLabel,omitempty"`
	Route        string   `json:"route,omitempty"`
	Icon         string   `json:"icon"`
	DisplayOrder int      `json:"displayOrder"`
	Level        int      `json:"level"`
	IsVisible    bool     `json:"isVisible"`
	IsDynamic    bool     `json:"isDynamic"`
	AllowedRoles []string `json:"allowedRoles,omitempty"`
}

// ImportReport 批量导入结果
type ImportReport struct {
	Imported int      `json:"imported"`
	Updated  int      `json:"updated"`
	Errors   []string `json:"errors"`
}

// 导入模式
type ImportMode string

const (
	ImportModeReplace ImportMode = "replace" // 清空后重建
	ImportModeMerge   ImportMode = "merge"   // 按 id upsert，保留未触及节点
)

// MenuDef 声明式菜单定义，Children 嵌套描述层级，
// parent/level 由加载器按嵌套位置推导。
type MenuDef struct {
	MenuId       string    `json:"menuId"`
	Label        string    `json:"label"`
	IndexLabel   string    `json:"indexLabel,omitempty"`
	Route        string    `json:"route,omitempty"`
	Icon         string    `json:"icon,omitempty"`
	DisplayOrder int       `json:"displayOrder"`
	IsVisible    *bool     `json:"isVisible,omitempty"`
	IsDynamic    bool      `json:"isDynamic,omitempty"`
	AllowedRoles []string  `json:"allowedRoles,omitempty"`
	Children     []MenuDef `json:"children,omitempty"`
}
