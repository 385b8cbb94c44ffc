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
	"fmt"

	gerrors "errors"

	"github.com/go-compass/compass/internal/engine/model"
	menurepo "github.com/go-compass/compass/internal/engine/repo"
	"github.com/go-compass/compass/pkg/datatype"
	"github.com/go-compass/compass/pkg/id"
	"github.com/go-compass/compass/pkg/log"
	"github.com/go-compass/compass/pkg/metrics"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// HierarchyService 维护菜单树的结构不变量：根节点 level 为 0，
// 其余节点 level 恒等于父节点 level + 1。
type HierarchyService struct {
	menuRepo menurepo.IMenuRepository
}

func NewHierarchyService(menuRepo menurepo.IMenuRepository) *HierarchyService {
	return &HierarchyService{
		menuRepo: menuRepo,
	}
}

// CreateNode inserts a new node. A missing parent degrades the node to root
// placement; the degradation is reported back as a warning, not an error.
func (hs *HierarchyService) CreateNode(req *model.CreateMenuNodeRequest) (*model.MenuNode, string, error) {
	if req.Label == "" {
		return nil, "", ErrLabelRequired
	}

	menuId := req.MenuId
	if menuId == "" {
		menuId = id.GetUUID()
	}

	level := 0
	parentId := req.ParentId
	var warning string
	if parentId != "" {
		parent, err := hs.menuRepo.GetNode(parentId)
		switch {
		case err == nil:
			level = parent.Level + 1
		case gerrors.Is(err, gorm.ErrRecordNotFound):
			// 父节点不存在，降级为根节点
			warning = fmt.Sprintf("parent %q not found, node %q placed at root", parentId, menuId)
			log.Warnw("parent node not found, degrading to root", "menuId", menuId, "parentId", parentId)
			parentId = ""
		default:
			metrics.MenuOperationsTotal.WithLabelValues("create", "error").Inc()
			return nil, "", errors.Wrap(err, "resolve parent")
		}
	}

	visible := model.NodeVisible
	if req.IsVisible != nil && !*req.IsVisible {
		visible = model.NodeHidden
	}
	dynamic := model.NodeStatic
	if req.IsDynamic {
		dynamic = model.NodeDynamic
	}
	roles, err := datatype.FromStringList(req.AllowedRoles)
	if err != nil {
		return nil, "", errors.Wrap(err, "encode allowed roles")
	}

	node := &model.MenuNode{
		MenuId:       menuId,
		ParentId:     parentId,
		Label:        req.Label,
		IndexLabel:   req.IndexLabel,
		Route:        req.Route,
		Icon:         req.Icon,
		DisplayOrder: req.DisplayOrder,
		Level:        level,
		IsVisible:    visible,
		IsDynamic:    dynamic,
		AllowedRoles: roles,
	}

	if err := hs.menuRepo.CreateNode(node); err != nil {
		metrics.MenuOperationsTotal.WithLabelValues("create", "error").Inc()
		return nil, "", errors.Wrap(err, "create menu node")
	}

	metrics.MenuOperationsTotal.WithLabelValues("create", "ok").Inc()
	log.Infow("menu node created", "menuId", node.MenuId, "parentId", node.ParentId, "level", node.Level)
	return node, warning, nil
}

// UpdateNode applies a partial update. Changing the parent recomputes the
// node's level and cascades the recomputation over its whole subtree.
func (hs *HierarchyService) UpdateNode(menuId string, req *model.UpdateMenuNodeRequest) (string, error) {
	node, err := hs.menuRepo.GetNode(menuId)
	if err != nil {
		if gerrors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNodeNotFound
		}
		return "", errors.Wrap(err, "load menu node")
	}

	fields := map[string]any{}
	if req.Label != nil {
		fields["label"] = *req.Label
	}
	if req.IndexLabel != nil {
		fields["index_label"] = *req.IndexLabel
	}
	if req.Route != nil {
		fields["route"] = *req.Route
	}
	if req.Icon != nil {
		fields["icon"] = *req.Icon
	}
	if req.DisplayOrder != nil {
		fields["display_order"] = *req.DisplayOrder
	}
	if req.IsVisible != nil {
		visible := model.NodeHidden
		if *req.IsVisible {
			visible = model.NodeVisible
		}
		fields["is_visible"] = visible
	}
	if req.IsDynamic != nil {
		dynamic := model.NodeStatic
		if *req.IsDynamic {
			dynamic = model.NodeDynamic
		}
		fields["is_dynamic"] = dynamic
	}
	if req.AllowedRoles != nil {
		roles, err := datatype.FromStringList(*req.AllowedRoles)
		if err != nil {
			return "", errors.Wrap(err, "encode allowed roles")
		}
		fields["allowed_roles"] = roles.String()
	}

	var warning string
	reparent := false
	newLevel := node.Level
	if req.ParentId != nil && *req.ParentId != node.ParentId {
		parentId := *req.ParentId
		switch {
		case parentId == "":
			newLevel = 0
		case parentId == menuId:
			return "", ErrInvalidParent
		default:
			parent, err := hs.menuRepo.GetNode(parentId)
			if gerrors.Is(err, gorm.ErrRecordNotFound) {
				// 父节点不存在，降级为根节点并向调用方报告
				warning = fmt.Sprintf("parent %q not found, node %q moved to root", parentId, menuId)
				log.Warnw("reparent target not found, degrading to root", "menuId", menuId, "parentId", parentId)
				parentId = ""
				newLevel = 0
			} else if err != nil {
				return "", errors.Wrap(err, "resolve parent")
			} else {
				// 防止把节点挂到自己的子树下
				if cyclic, err := hs.inSubtree(menuId, parent); err != nil {
					return "", err
				} else if cyclic {
					return "", ErrInvalidParent
				}
				newLevel = parent.Level + 1
			}
		}
		fields["parent_id"] = parentId
		fields["level"] = newLevel
		reparent = true
	}

	if len(fields) == 0 {
		return warning, nil
	}

	if err := hs.menuRepo.UpdateNode(menuId, fields); err != nil {
		metrics.MenuOperationsTotal.WithLabelValues("update", "error").Inc()
		return "", errors.Wrap(err, "update menu node")
	}

	if reparent {
		touched, err := hs.recomputeSubtreeLevels(menuId, newLevel)
		if err != nil {
			metrics.MenuOperationsTotal.WithLabelValues("update", "error").Inc()
			return "", err
		}
		metrics.MenuCascadeSize.WithLabelValues("reparent").Observe(float64(touched + 1))
		log.Infow("menu node reparented", "menuId", menuId, "level", newLevel, "descendants", touched)
	}

	metrics.MenuOperationsTotal.WithLabelValues("update", "ok").Inc()
	return warning, nil
}

// DeleteNode removes the node and its entire subtree. Deleting an unknown
// id is a no-op success.
func (hs *HierarchyService) DeleteNode(menuId string) error {
	_, err := hs.menuRepo.GetNode(menuId)
	if err != nil {
		if gerrors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return errors.Wrap(err, "load menu node")
	}

	deleted, err := hs.deleteSubtree(menuId)
	if err != nil {
		metrics.MenuOperationsTotal.WithLabelValues("delete", "error").Inc()
		return err
	}

	metrics.MenuOperationsTotal.WithLabelValues("delete", "ok").Inc()
	metrics.MenuCascadeSize.WithLabelValues("delete").Observe(float64(deleted))
	log.Infow("menu subtree deleted", "menuId", menuId, "nodes", deleted)
	return nil
}

// RecalculateAllLevels walks every node's parent chain (stored levels are
// not trusted) and rewrites levels that drifted. Safe to run at any time;
// a second run right after is a no-op.
func (hs *HierarchyService) RecalculateAllLevels() (int, error) {
	nodes, err := hs.menuRepo.GetAllNodes()
	if err != nil {
		return 0, errors.Wrap(err, "load all nodes")
	}

	byId := make(map[string]*model.MenuNode, len(nodes))
	for i := range nodes {
		byId[nodes[i].MenuId] = &nodes[i]
	}

	changed := 0
	for i := range nodes {
		level := chainLength(&nodes[i], byId)
		if level == nodes[i].Level {
			continue
		}
		if err := hs.menuRepo.UpdateNode(nodes[i].MenuId, map[string]any{"level": level}); err != nil {
			return changed, errors.Wrap(err, "write recalculated level")
		}
		changed++
	}

	metrics.MenuOperationsTotal.WithLabelValues("recalculate", "ok").Inc()
	metrics.MenuCascadeSize.WithLabelValues("recalculate").Observe(float64(changed))
	if changed > 0 {
		log.Infow("menu levels recalculated", "changed", changed, "total", len(nodes))
	}
	return changed, nil
}

// chainLength computes the distance to the chain's end. A dangling parent
// reference or a cycle terminates the walk instead of hanging the repair.
func chainLength(node *model.MenuNode, byId map[string]*model.MenuNode) int {
	level := 0
	seen := map[string]struct{}{node.MenuId: {}}
	cur := node
	for cur.ParentId != "" {
		parent, ok := byId[cur.ParentId]
		if !ok {
			break
		}
		if _, dup := seen[parent.MenuId]; dup {
			break
		}
		seen[parent.MenuId] = struct{}{}
		level++
		cur = parent
	}
	return level
}

// recomputeSubtreeLevels sets every descendant's level relative to the
// freshly written parent level. Returns the number of descendants touched.
func (hs *HierarchyService) recomputeSubtreeLevels(menuId string, parentLevel int) (int, error) {
	children, err := hs.menuRepo.GetChildren(menuId)
	if err != nil {
		return 0, errors.Wrap(err, "load children")
	}

	touched := 0
	for _, child := range children {
		childLevel := parentLevel + 1
		if child.Level != childLevel {
			if err := hs.menuRepo.UpdateNode(child.MenuId, map[string]any{"level": childLevel}); err != nil {
				return touched, errors.Wrap(err, "write child level")
			}
		}
		touched++
		below, err := hs.recomputeSubtreeLevels(child.MenuId, childLevel)
		if err != nil {
			return touched, err
		}
		touched += below
	}
	return touched, nil
}

// deleteSubtree removes descendants first, then the node itself.
func (hs *HierarchyService) deleteSubtree(menuId string) (int, error) {
	children, err := hs.menuRepo.GetChildren(menuId)
	if err != nil {
		return 0, errors.Wrap(err, "load children")
	}

	deleted := 0
	for _, child := range children {
		n, err := hs.deleteSubtree(child.MenuId)
		deleted += n
		if err != nil {
			return deleted, err
		}
	}

	if err := hs.menuRepo.DeleteNode(menuId); err != nil {
		return deleted, errors.Wrap(err, "delete menu node")
	}
	return deleted + 1, nil
}

// inSubtree reports whether candidate sits inside the subtree rooted at
// menuId, by walking candidate's parent chain upward.
func (hs *HierarchyService) inSubtree(menuId string, candidate *model.MenuNode) (bool, error) {
	cur := candidate
	for {
		if cur.MenuId == menuId {
			return true, nil
		}
		if cur.ParentId == "" {
			return false, nil
		}
		parent, err := hs.menuRepo.GetNode(cur.ParentId)
		if err != nil {
			if gerrors.Is(err, gorm.ErrRecordNotFound) {
				return false, nil
			}
			return false, errors.Wrap(err, "walk parent chain")
		}
		cur = parent
	}
}
