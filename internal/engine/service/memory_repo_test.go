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
	"sort"

	"github.com/go-compass/compass/internal/engine/model"
	"github.com/go-compass/compass/pkg/datatype"
	"gorm.io/gorm"
)

// memoryMenuRepo 测试用内存存储，排序语义与 MySQL 实现保持一致。
type memoryMenuRepo struct {
	nodes    map[string]*model.MenuNode
	seq      uint64
	loadAlls int
}

func newMemoryMenuRepo() *memoryMenuRepo {
	return &memoryMenuRepo{
		nodes: map[string]*model.MenuNode{},
	}
}

func (m *memoryMenuRepo) GetNode(menuId string) (*model.MenuNode, error) {
	node, ok := m.nodes[menuId]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *node
	return &cp, nil
}

func (m *memoryMenuRepo) GetChildren(parentId string) ([]model.MenuNode, error) {
	return m.collect(func(n *model.MenuNode) bool { return n.ParentId == parentId }), nil
}

func (m *memoryMenuRepo) GetRoots() ([]model.MenuNode, error) {
	return m.collect(func(n *model.MenuNode) bool { return n.ParentId == "" }), nil
}

func (m *memoryMenuRepo) GetVisibleRoots() ([]model.MenuNode, error) {
	return m.collect(func(n *model.MenuNode) bool {
		return n.ParentId == "" && n.IsVisible == model.NodeVisible
	}), nil
}

func (m *memoryMenuRepo) GetAllNodes() ([]model.MenuNode, error) {
	m.loadAlls++
	out := make([]model.MenuNode, 0, len(m.nodes))
	for _, n := range m.nodes {
		out = append(out, *n)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Level != out[j].Level {
			return out[i].Level < out[j].Level
		}
		if out[i].ParentId != out[j].ParentId {
			return out[i].ParentId < out[j].ParentId
		}
		if out[i].DisplayOrder != out[j].DisplayOrder {
			return out[i].DisplayOrder < out[j].DisplayOrder
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *memoryMenuRepo) CountNodes() (int64, error) {
	return int64(len(m.nodes)), nil
}

func (m *memoryMenuRepo) CreateNode(node *model.MenuNode) error {
	if _, exists := m.nodes[node.MenuId]; exists {
		return gorm.ErrDuplicatedKey
	}
	m.seq++
	node.ID = m.seq
	cp := *node
	m.nodes[node.MenuId] = &cp
	return nil
}

func (m *memoryMenuRepo) UpdateNode(menuId string, fields map[string]any) error {
	node, ok := m.nodes[menuId]
	if !ok {
		return nil
	}
	for k, v := range fields {
		switch k {
		case "parent_id":
			node.ParentId = v.(string)
		case "label":
			node.Label = v.(string)
		case "index_label":
			node.IndexLabel = v.(string)
		case "route":
			node.Route = v.(string)
		case "icon":
			node.Icon = v.(string)
		case "display_order":
			node.DisplayOrder = v.(int)
		case "level":
			node.Level = v.(int)
		case "is_visible":
			node.IsVisible = v.(int)
		case "is_dynamic":
			node.IsDynamic = v.(int)
		case "allowed_roles":
			node.AllowedRoles = datatype.JSON(v.(string))
		}
	}
	return nil
}

func (m *memoryMenuRepo) DeleteNode(menuId string) error {
	delete(m.nodes, menuId)
	return nil
}

func (m *memoryMenuRepo) DeleteAll() error {
	m.nodes = map[string]*model.MenuNode{}
	return nil
}

func (m *memoryMenuRepo) collect(keep func(*model.MenuNode) bool) []model.MenuNode {
	var out []model.MenuNode
	for _, n := range m.nodes {
		if keep(n) {
			out = append(out, *n)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].DisplayOrder != out[j].DisplayOrder {
			return out[i].DisplayOrder < out[j].DisplayOrder
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// seedNode 直接写入存储，绕过引擎，用于构造包括损坏数据在内的任意形态。
func seedNode(repo *memoryMenuRepo, menuId, parentId, label string, level, order int) *model.MenuNode {
	node := &model.MenuNode{
		MenuId:       menuId,
		ParentId:     parentId,
		Label:        label,
		Level:        level,
		DisplayOrder: order,
		IsVisible:    model.NodeVisible,
		IsDynamic:    model.NodeStatic,
	}
	_ = repo.CreateNode(node)
	return repo.nodes[menuId]
}
