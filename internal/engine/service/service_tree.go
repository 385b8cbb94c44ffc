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
	gerrors "errors"
	"slices"

	"github.com/go-compass/compass/internal/engine/model"
	menurepo "github.com/go-compass/compass/internal/engine/repo"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// DefaultSuperRole 不受 allowed_roles 限制的特权角色
const DefaultSuperRole = "SUPERADMIN"

// TreeService 树的只读投影：祖先链、子树、兄弟节点、角色过滤菜单。
// 只读存储，从不修改。
type TreeService struct {
	menuRepo  menurepo.IMenuRepository
	superRole string
}

func NewTreeService(menuRepo menurepo.IMenuRepository) *TreeService {
	return &TreeService{
		menuRepo:  menuRepo,
		superRole: DefaultSuperRole,
	}
}

// WithSuperRole overrides the privileged role name.
func (ts *TreeService) WithSuperRole(role string) *TreeService {
	if role != "" {
		ts.superRole = role
	}
	return ts
}

// Ancestors returns the parent chain ordered root-first, ending with the
// node itself excluded. An unknown id yields an empty chain, not an error.
func (ts *TreeService) Ancestors(menuId string) ([]model.MenuProjection, error) {
	node, err := ts.menuRepo.GetNode(menuId)
	if err != nil {
		if gerrors.Is(err, gorm.ErrRecordNotFound) {
			return []model.MenuProjection{}, nil
		}
		return nil, errors.Wrap(err, "load menu node")
	}

	var chain []model.MenuProjection
	cur := node
	for cur.ParentId != "" {
		parent, err := ts.menuRepo.GetNode(cur.ParentId)
		if err != nil {
			if gerrors.Is(err, gorm.ErrRecordNotFound) {
				break
			}
			return nil, errors.Wrap(err, "walk parent chain")
		}
		p, err := ts.project(parent)
		if err != nil {
			return nil, err
		}
		chain = append(chain, p)
		cur = parent
	}

	slices.Reverse(chain)
	return chain, nil
}

// Subtree returns the node with all descendants, children ordered by
// display_order at every depth.
func (ts *TreeService) Subtree(menuId string) (*model.MenuProjection, error) {
	node, err := ts.menuRepo.GetNode(menuId)
	if err != nil {
		if gerrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNodeNotFound
		}
		return nil, errors.Wrap(err, "load menu node")
	}
	p, err := ts.expand(node)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Siblings returns the nodes sharing menuId's parent, excluding menuId
// itself, each expanded with its own full subtree.
func (ts *TreeService) Siblings(menuId string) ([]model.MenuProjection, error) {
	node, err := ts.menuRepo.GetNode(menuId)
	if err != nil {
		if gerrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNodeNotFound
		}
		return nil, errors.Wrap(err, "load menu node")
	}

	var peers []model.MenuNode
	if node.ParentId == "" {
		peers, err = ts.menuRepo.GetRoots()
	} else {
		peers, err = ts.menuRepo.GetChildren(node.ParentId)
	}
	if err != nil {
		return nil, errors.Wrap(err, "load siblings")
	}

	siblings := make([]model.MenuProjection, 0, len(peers))
	for i := range peers {
		if peers[i].MenuId == menuId {
			continue
		}
		p, err := ts.expand(&peers[i])
		if err != nil {
			return nil, err
		}
		siblings = append(siblings, p)
	}
	return siblings, nil
}

// RoleFilteredTree builds the rendered navigation tree for a role,
// starting from the visible roots. A node is included when the role is the
// super role, the node declares no allowed roles, or the role appears in
// the node's allowed list. The walk only descends into included nodes
// that are visible; dynamic nodes never appear in the static projection.
func (ts *TreeService) RoleFilteredTree(role string) ([]model.MenuTreeNode, error) {
	roots, err := ts.menuRepo.GetVisibleRoots()
	if err != nil {
		return nil, errors.Wrap(err, "load visible roots")
	}
	return ts.filterLevel(roots, role)
}

func (ts *TreeService) filterLevel(nodes []model.MenuNode, role string) ([]model.MenuTreeNode, error) {
	out := make([]model.MenuTreeNode, 0, len(nodes))
	for i := range nodes {
		node := &nodes[i]
		if node.IsDynamic == model.NodeDynamic {
			continue
		}
		if !ts.roleAllowed(node, role) {
			continue
		}

		var children []model.MenuTreeNode
		if node.IsVisible == model.NodeVisible {
			raw, err := ts.menuRepo.GetChildren(node.MenuId)
			if err != nil {
				return nil, errors.Wrap(err, "load children")
			}
			visible := raw[:0]
			for _, c := range raw {
				if c.IsVisible == model.NodeVisible {
					visible = append(visible, c)
				}
			}
			children, err = ts.filterLevel(visible, role)
			if err != nil {
				return nil, err
			}
		} else {
			children = []model.MenuTreeNode{}
		}

		out = append(out, model.MenuTreeNode{
			MenuId:      node.MenuId,
			DisplayName: displayName(node, len(children) > 0),
			Url:         nodeUrl(node, len(children) > 0),
			Icon:        node.Icon,
			Level:       node.Level,
			Children:    children,
		})
	}
	return out, nil
}

func (ts *TreeService) roleAllowed(node *model.MenuNode, role string) bool {
	if role == ts.superRole {
		return true
	}
	roles := node.Roles()
	if len(roles) == 0 {
		return true
	}
	return slices.Contains(roles, role)
}

// project builds the flat projection for a single node.
func (ts *TreeService) project(node *model.MenuNode) (model.MenuProjection, error) {
	children, err := ts.menuRepo.GetChildren(node.MenuId)
	if err != nil {
		return model.MenuProjection{}, errors.Wrap(err, "load children")
	}

	hasChildren := len(children) > 0
	defaultChildId := ""
	if hasChildren {
		defaultChildId = children[0].MenuId
	}

	return model.MenuProjection{
		MenuId:         node.MenuId,
		ParentId:       node.ParentId,
		Label:          node.Label,
		IndexLabel:     node.IndexLabel,
		DisplayName:    displayName(node, hasChildren),
		Route:          node.Route,
		Url:            nodeUrl(node, hasChildren),
		Icon:           node.Icon,
		Level:          node.Level,
		DisplayOrder:   node.DisplayOrder,
		IsVisible:      node.IsVisible == model.NodeVisible,
		IsDynamic:      node.IsDynamic == model.NodeDynamic,
		HasChildren:    hasChildren,
		DefaultChildId: defaultChildId,
	}, nil
}

// expand builds the projection for node and recurses into its children.
func (ts *TreeService) expand(node *model.MenuNode) (model.MenuProjection, error) {
	p, err := ts.project(node)
	if err != nil {
		return model.MenuProjection{}, err
	}

	children, err := ts.menuRepo.GetChildren(node.MenuId)
	if err != nil {
		return model.MenuProjection{}, errors.Wrap(err, "load children")
	}
	for i := range children {
		c, err := ts.expand(&children[i])
		if err != nil {
			return model.MenuProjection{}, err
		}
		p.Children = append(p.Children, c)
	}
	return p, nil
}

// displayName prefers the index label for folder nodes that declare one.
func displayName(node *model.MenuNode, hasChildren bool) string {
	if hasChildren && node.IndexLabel != "" {
		return node.IndexLabel
	}
	return node.Label
}

// nodeUrl is empty for folders: nodes with children or without a route.
func nodeUrl(node *model.MenuNode, hasChildren bool) string {
	if hasChildren || node.Route == "" {
		return ""
	}
	return node.Route
}
