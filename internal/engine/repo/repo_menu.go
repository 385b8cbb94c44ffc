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

package repo

import (
	"github.com/go-compass/compass/internal/engine/model"
	"github.com/go-compass/compass/pkg/database"
)

// IMenuRepository 节点存储契约。引擎只依赖它：按 id 点查、按父 id 查
// 子节点（display_order 排序）、增删改、全量清空。
type IMenuRepository interface {
	GetNode(menuId string) (*model.MenuNode, error)
	GetChildren(parentId string) ([]model.MenuNode, error)
	GetRoots() ([]model.MenuNode, error)
	GetVisibleRoots() ([]model.MenuNode, error)
	GetAllNodes() ([]model.MenuNode, error)
	CountNodes() (int64, error)
	CreateNode(node *model.MenuNode) error
	UpdateNode(menuId string, fields map[string]any) error
	DeleteNode(menuId string) error
	DeleteAll() error
}

type MenuRepo struct {
	database.IDatabase
}

func NewMenuRepo(db database.IDatabase) IMenuRepository {
	return &MenuRepo{
		IDatabase: db,
	}
}

// GetNode 获取菜单节点
func (r *MenuRepo) GetNode(menuId string) (*model.MenuNode, error) {
	var node model.MenuNode
	err := r.Database().Where("menu_id = ?", menuId).First(&node).Error
	if err != nil {
		return nil, err
	}
	return &node, nil
}

// GetChildren 根据父节点ID获取子节点，按 display_order 排序
func (r *MenuRepo) GetChildren(parentId string) ([]model.MenuNode, error) {
	var nodes []model.MenuNode
	err := r.Database().Where("parent_id = ?", parentId).
		Order("display_order ASC, id ASC").Find(&nodes).Error
	return nodes, err
}

// GetRoots 获取所有根节点
func (r *MenuRepo) GetRoots() ([]model.MenuNode, error) {
	var nodes []model.MenuNode
	err := r.Database().Where("parent_id = ?", "").
		Order("display_order ASC, id ASC").Find(&nodes).Error
	return nodes, err
}

// GetVisibleRoots 获取所有可见根节点
func (r *MenuRepo) GetVisibleRoots() ([]model.MenuNode, error) {
	var nodes []model.MenuNode
	err := r.Database().Where("parent_id = ? AND is_visible = ?", "", model.NodeVisible).
		Order("display_order ASC, id ASC").Find(&nodes).Error
	return nodes, err
}

// GetAllNodes 获取所有节点，按层级与排序返回
func (r *MenuRepo) GetAllNodes() ([]model.MenuNode, error) {
	var nodes []model.MenuNode
	err := r.Database().
		Order("level ASC, parent_id ASC, display_order ASC, id ASC").Find(&nodes).Error
	return nodes, err
}

// CountNodes 节点总数
func (r *MenuRepo) CountNodes() (int64, error) {
	var count int64
	err := r.Database().Model(&model.MenuNode{}).Count(&count).Error
	return count, err
}

// CreateNode 插入菜单节点
func (r *MenuRepo) CreateNode(node *model.MenuNode) error {
	return r.Database().Create(node).Error
}

// UpdateNode 按字段更新菜单节点
func (r *MenuRepo) UpdateNode(menuId string, fields map[string]any) error {
	return r.Database().Model(&model.MenuNode{}).
		Where("menu_id = ?", menuId).Updates(fields).Error
}

// DeleteNode 删除单个节点（级联由引擎负责）
func (r *MenuRepo) DeleteNode(menuId string) error {
	return r.Database().Where("menu_id = ?", menuId).Delete(&model.MenuNode{}).Error
}

// DeleteAll 清空整棵树
func (r *MenuRepo) DeleteAll() error {
	return r.Database().Where("1 = 1").Delete(&model.MenuNode{}).Error
}
