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
	"testing"

	"github.com/go-compass/compass/internal/engine/model"
	"github.com/go-compass/compass/pkg/datatype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCodec(repo *memoryMenuRepo) *CodecService {
	return NewCodecService(repo, NewHierarchyService(repo))
}

func TestExportOrdering(t *testing.T) {
	repo := newMemoryMenuRepo()
	seedNode(repo, "child", "root-a", "Child", 1, 0)
	seedNode(repo, "root-b", "", "Root B", 0, 1)
	seedNode(repo, "root-a", "", "Root A", 0, 0)
	roles := seedNode(repo, "secured", "root-b", "Secured", 1, 0)
	roles.AllowedRoles = datatype.JSON(`["ADMIN","AUDITOR"]`)

	records, err := newCodec(repo).Export()
	require.NoError(t, err)
	require.Len(t, records, 4)

	// 层级优先，根节点在前
	assert.Equal(t, "root-a", records[0].MenuId)
	assert.Equal(t, "root-b", records[1].MenuId)
	assert.Equal(t, 0, records[0].Level)
	assert.Equal(t, 1, records[2].Level)

	var secured *model.ExportRecord
	for i := range records {
		if records[i].MenuId == "secured" {
			secured = &records[i]
		}
	}
	require.NotNil(t, secured)
	assert.Equal(t, []string{"ADMIN", "AUDITOR"}, secured.AllowedRoles)
}

func TestImportReplaceWipesExistingTree(t *testing.T) {
	repo := newMemoryMenuRepo()
	seedNode(repo, "stale", "", "Stale", 0, 0)

	report, err := newCodec(repo).Import([]model.ExportRecord{
		{MenuId: "fresh", Label: "Fresh"},
	}, model.ImportModeReplace)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Imported)
	assert.Empty(t, report.Errors)

	_, err = repo.GetNode("stale")
	assert.Error(t, err)
	_, err = repo.GetNode("fresh")
	assert.NoError(t, err)
}

// Declared levels in the records are untrusted input: the post-import
// recalculation must rebuild them from the parent references.
func TestImportRecomputesLevels(t *testing.T) {
	repo := newMemoryMenuRepo()

	report, err := newCodec(repo).Import([]model.ExportRecord{
		{MenuId: "root", Label: "Root", Level: 9},
		{MenuId: "child", ParentId: "root", Label: "Child", Level: 0},
		{MenuId: "leaf", ParentId: "child", Label: "Leaf", Level: 7},
	}, model.ImportModeReplace)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Imported)

	for id, want := range map[string]int{"root": 0, "child": 1, "leaf": 2} {
		node, err := repo.GetNode(id)
		require.NoError(t, err)
		assert.Equal(t, want, node.Level, "node %s", id)
	}
}

func TestImportMergeUpserts(t *testing.T) {
	repo := newMemoryMenuRepo()
	seedNode(repo, "x", "", "Old X", 0, 0)
	seedNode(repo, "keep", "", "Keep", 0, 1)

	report, err := newCodec(repo).Import([]model.ExportRecord{
		{MenuId: "x", Label: "New X", Icon: "gear"},
		{MenuId: "y", ParentId: "x", Label: "Y"},
	}, model.ImportModeMerge)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Updated)
	assert.Equal(t, 1, report.Imported)

	x, err := repo.GetNode("x")
	require.NoError(t, err)
	assert.Equal(t, "New X", x.Label)
	assert.Equal(t, "gear", x.Icon)

	y, err := repo.GetNode("y")
	require.NoError(t, err)
	assert.Equal(t, 1, y.Level)

	// merge 不触及未出现在记录里的节点
	_, err = repo.GetNode("keep")
	assert.NoError(t, err)
}

func TestImportCollectsValidationErrors(t *testing.T) {
	repo := newMemoryMenuRepo()

	report, err := newCodec(repo).Import([]model.ExportRecord{
		{Label: "No Id"},
		{MenuId: "unnamed"},
		{MenuId: "good", Label: "Good"},
	}, model.ImportModeMerge)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Imported)
	require.Len(t, report.Errors, 2)
	assert.Contains(t, report.Errors[0], "menuId")
	assert.Contains(t, report.Errors[1], "unnamed")

	_, err = repo.GetNode("good")
	assert.NoError(t, err)
}

func TestImportUnknownMode(t *testing.T) {
	_, err := newCodec(newMemoryMenuRepo()).Import(nil, model.ImportMode("sideways"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sideways")
}

func TestImportDanglingParentGetsRootLevel(t *testing.T) {
	repo := newMemoryMenuRepo()

	report, err := newCodec(repo).Import([]model.ExportRecord{
		{MenuId: "lost", ParentId: "nowhere", Label: "Lost", Level: 3},
	}, model.ImportModeReplace)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Imported)

	lost, err := repo.GetNode("lost")
	require.NoError(t, err)
	// parent 引用保留，重算时悬空链按根处理
	assert.Equal(t, "nowhere", lost.ParentId)
	assert.Equal(t, 0, lost.Level)
}

func TestExportImportRoundTrip(t *testing.T) {
	repo := newMemoryMenuRepo()
	seedNode(repo, "a", "", "A", 0, 0)
	seedNode(repo, "b", "a", "B", 1, 0)
	seedNode(repo, "c", "b", "C", 2, 0)
	codec := newCodec(repo)

	records, err := codec.Export()
	require.NoError(t, err)

	other := newMemoryMenuRepo()
	report, err := newCodec(other).Import(records, model.ImportModeReplace)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Imported)

	restored, err := newCodec(other).Export()
	require.NoError(t, err)
	assert.Equal(t, records, restored)
}
