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
	"fmt"

	"github.com/go-compass/compass/internal/engine/model"
	menurepo "github.com/go-compass/compass/internal/engine/repo"
	"github.com/go-compass/compass/pkg/datatype"
	"github.com/go-compass/compass/pkg/log"
	"github.com/go-compass/compass/pkg/metrics"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// CodecService 整树导入导出。导出为扁平 parent 引用列表；导入支持
// replace（清空重建）与 merge（按 id upsert）两种模式，结束后无条件
// 重算层级，保证导入数据不一致时树仍满足不变量。
type CodecService struct {
	menuRepo  menurepo.IMenuRepository
	hierarchy *HierarchyService
}

func NewCodecService(menuRepo menurepo.IMenuRepository, hierarchy *HierarchyService) *CodecService {
	return &CodecService{
		menuRepo:  menuRepo,
		hierarchy: hierarchy,
	}
}

// Export flattens the live tree ordered by level, parent-null-first, then
// display_order.
func (cs *CodecService) Export() ([]model.ExportRecord, error) {
	nodes, err := cs.menuRepo.GetAllNodes()
	if err != nil {
		metrics.MenuOperationsTotal.WithLabelValues("export", "error").Inc()
		return nil, errors.Wrap(err, "load all nodes")
	}

	records := make([]model.ExportRecord, 0, len(nodes))
	for i := range nodes {
		node := &nodes[i]
		records = append(records, model.ExportRecord{
			MenuId:       node.MenuId,
			ParentId:     node.ParentId,
			Label:        node.Label,
			IndexLabel:   node.IndexLabel,
			Route:        node.Route,
			Icon:         node.Icon,
			DisplayOrder: node.DisplayOrder,
			Level:        node.Level,
			IsVisible:    node.IsVisible == model.NodeVisible,
			IsDynamic:    node.IsDynamic == model.NodeDynamic,
			AllowedRoles: node.Roles(),
		})
	}

	metrics.MenuOperationsTotal.WithLabelValues("export", "ok").Inc()
	return records, nil
}

// Import restores a tree from flat records. Per-record validation failures
// are collected into the report and never abort the batch; only a store
// failure does.
func (cs *CodecService) Import(records []model.ExportRecord, mode model.ImportMode) (*model.ImportReport, error) {
	report := &model.ImportReport{Errors: []string{}}

	if mode != model.ImportModeReplace && mode != model.ImportModeMerge {
		return nil, fmt.Errorf("unknown import mode %q", mode)
	}

	if mode == model.ImportModeReplace {
		if err := cs.menuRepo.DeleteAll(); err != nil {
			metrics.MenuOperationsTotal.WithLabelValues("import", "error").Inc()
			return nil, errors.Wrap(err, "wipe existing tree")
		}
	}

	for i, record := range records {
		if err := cs.importRecord(&record, mode, report); err != nil {
			metrics.MenuOperationsTotal.WithLabelValues("import", "error").Inc()
			return nil, errors.Wrapf(err, "import record %d", i)
		}
	}

	// 无论导入数据是否自洽，结束时统一重算层级
	if _, err := cs.hierarchy.RecalculateAllLevels(); err != nil {
		metrics.MenuOperationsTotal.WithLabelValues("import", "error").Inc()
		return nil, err
	}

	metrics.MenuOperationsTotal.WithLabelValues("import", "ok").Inc()
	metrics.MenuImportRecords.WithLabelValues("inserted").Add(float64(report.Imported))
	metrics.MenuImportRecords.WithLabelValues("updated").Add(float64(report.Updated))
	metrics.MenuImportRecords.WithLabelValues("failed").Add(float64(len(report.Errors)))
	log.Infow("menu import finished", "mode", mode,
		"imported", report.Imported, "updated", report.Updated, "failed", len(report.Errors))
	return report, nil
}

// importRecord applies a single record; validation problems land in the
// report, store errors propagate.
func (cs *CodecService) importRecord(record *model.ExportRecord, mode model.ImportMode, report *model.ImportReport) error {
	if record.MenuId == "" {
		report.Errors = append(report.Errors, "record missing menuId")
		return nil
	}
	if record.Label == "" {
		report.Errors = append(report.Errors, fmt.Sprintf("record %q missing label", record.MenuId))
		return nil
	}

	roles, err := datatype.FromStringList(record.AllowedRoles)
	if err != nil {
		report.Errors = append(report.Errors, fmt.Sprintf("record %q invalid roles: %v", record.MenuId, err))
		return nil
	}

	if mode == model.ImportModeMerge {
		_, err := cs.menuRepo.GetNode(record.MenuId)
		if err == nil {
			fields := map[string]any{
				"parent_id":     record.ParentId,
				"label":         record.Label,
				"index_label":   record.IndexLabel,
				"route":         record.Route,
				"icon":          record.Icon,
				"display_order": record.DisplayOrder,
				"level":         record.Level,
				"is_visible":    boolToFlag(record.IsVisible),
				"is_dynamic":    boolToFlag(record.IsDynamic),
				"allowed_roles": roles.String(),
			}
			if err := cs.menuRepo.UpdateNode(record.MenuId, fields); err != nil {
				return errors.Wrap(err, "update existing node")
			}
			report.Updated++
			return nil
		}
		if !gerrors.Is(err, gorm.ErrRecordNotFound) {
			return errors.Wrap(err, "probe existing node")
		}
	}

	// 未知 parent 也按声明值插入，由结束时的层级重算兜底
	node := &model.MenuNode{
		MenuId:       record.MenuId,
		ParentId:     record.ParentId,
		Label:        record.Label,
		IndexLabel:   record.IndexLabel,
		Route:        record.Route,
		Icon:         record.Icon,
		DisplayOrder: record.DisplayOrder,
		Level:        record.Level,
		IsVisible:    boolToFlag(record.IsVisible),
		IsDynamic:    boolToFlag(record.IsDynamic),
		AllowedRoles: roles,
	}
	if err := cs.menuRepo.CreateNode(node); err != nil {
		return errors.Wrap(err, "insert node")
	}
	report.Imported++
	return nil
}

func boolToFlag(b bool) int {
	if b {
		return 1
	}
	return 0
}
