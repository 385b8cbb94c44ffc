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
	"strings"

	"github.com/go-compass/compass/internal/engine/model"
	menurepo "github.com/go-compass/compass/internal/engine/repo"
	"github.com/go-compass/compass/pkg/metrics"
	"github.com/pkg/errors"
)

// DefaultBreadcrumbSeparator 面包屑拼接分隔符
const DefaultBreadcrumbSeparator = " / "

// DefaultSearchLimit 未指定 limit 时的默认返回上限
const DefaultSearchLimit = 20

// SearchService 对非动态节点做子串搜索，结果附带面包屑。
// 隐藏但静态的节点可被搜到，动态节点永远不会。
type SearchService struct {
	menuRepo  menurepo.IMenuRepository
	separator string
}

func NewSearchService(menuRepo menurepo.IMenuRepository) *SearchService {
	return &SearchService{
		menuRepo:  menuRepo,
		separator: DefaultBreadcrumbSeparator,
	}
}

// Search matches query case-insensitively against label and index_label.
// Results are ordered by level then display_order and capped at limit.
func (ss *SearchService) Search(query string, limit int) ([]model.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []model.SearchResult{}, nil
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	nodes, err := ss.menuRepo.GetAllNodes()
	if err != nil {
		metrics.MenuOperationsTotal.WithLabelValues("search", "error").Inc()
		return nil, errors.Wrap(err, "load all nodes")
	}

	needle := strings.ToLower(query)
	byId := make(map[string]*model.MenuNode, len(nodes))
	for i := range nodes {
		byId[nodes[i].MenuId] = &nodes[i]
	}

	var matched []*model.MenuNode
	for i := range nodes {
		node := &nodes[i]
		if node.IsDynamic == model.NodeDynamic {
			continue
		}
		if !strings.Contains(strings.ToLower(node.Label), needle) &&
			!strings.Contains(strings.ToLower(node.IndexLabel), needle) {
			continue
		}
		matched = append(matched, node)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].Level != matched[j].Level {
			return matched[i].Level < matched[j].Level
		}
		return matched[i].DisplayOrder < matched[j].DisplayOrder
	})
	if len(matched) > limit {
		matched = matched[:limit]
	}

	results := make([]model.SearchResult, 0, len(matched))
	for _, node := range matched {
		breadcrumb := ss.breadcrumb(node, byId)
		results = append(results, model.SearchResult{
			MenuId:         node.MenuId,
			ParentId:       node.ParentId,
			Label:          node.Label,
			Route:          node.Route,
			Icon:           node.Icon,
			Level:          node.Level,
			IsVisible:      node.IsVisible == model.NodeVisible,
			Breadcrumb:     breadcrumb,
			BreadcrumbText: strings.Join(breadcrumb, ss.separator),
		})
	}

	metrics.MenuOperationsTotal.WithLabelValues("search", "ok").Inc()
	return results, nil
}

// breadcrumb collects ancestor labels root-first, ending with the node's
// own label. Dangling parent references and cycles end the walk.
func (ss *SearchService) breadcrumb(node *model.MenuNode, byId map[string]*model.MenuNode) []string {
	var labels []string
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
		labels = append(labels, parent.Label)
		cur = parent
	}

	// 祖先从根到叶排列，最后是自身
	out := make([]string, 0, len(labels)+1)
	for i := len(labels) - 1; i >= 0; i-- {
		out = append(out, labels[i])
	}
	out = append(out, node.Label)
	return out
}
