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
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlattenMenuDefs(t *testing.T) {
	hidden := false
	defs := []model.MenuDef{
		{
			MenuId: "system",
			Label:  "System",
			Children: []model.MenuDef{
				{MenuId: "audit", Label: "Audit", DisplayOrder: 3},
				{Label: "Backup", Route: "/admin/backup/list"},
			},
		},
		{MenuId: "hidden", Label: "Hidden", IsVisible: &hidden},
	}

	records := FlattenMenuDefs(defs)
	require.Len(t, records, 4)

	byId := map[string]model.ExportRecord{}
	for _, r := range records {
		byId[r.MenuId] = r
	}

	system := byId["system"]
	assert.Equal(t, "", system.ParentId)
	assert.Equal(t, 0, system.Level)
	assert.True(t, system.IsVisible)

	audit := byId["audit"]
	assert.Equal(t, "system", audit.ParentId)
	assert.Equal(t, 1, audit.Level)
	assert.Equal(t, 3, audit.DisplayOrder)

	// 无 id 的节点从路由推导分组 id
	backup, ok := byId["backup"]
	require.True(t, ok)
	assert.Equal(t, "system", backup.ParentId)
	assert.Equal(t, 1, backup.Level)
	// 未声明排序时退回兄弟序号
	assert.Equal(t, 1, backup.DisplayOrder)

	assert.False(t, byId["hidden"].IsVisible)
}

func TestFlattenMenuDefsGeneratesIds(t *testing.T) {
	records := FlattenMenuDefs([]model.MenuDef{
		{Label: "No Route"},
	})
	require.Len(t, records, 1)
	assert.NotEmpty(t, records[0].MenuId)
}

func TestGroupIdFromRoute(t *testing.T) {
	tests := []struct {
		route string
		want  string
	}{
		{"/admin/users/list", "users"},
		{"/admin/groups", "groups"},
		{"/admin/", ""},
		{"/other/users/list", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := GroupIdFromRoute(tt.route); got != tt.want {
			t.Errorf("GroupIdFromRoute(%q) = %q, want %q", tt.route, got, tt.want)
		}
	}
}

func TestLoadWritesThroughCodec(t *testing.T) {
	repo := newMemoryMenuRepo()
	ls := NewLoaderService(newCodec(repo))

	report, err := ls.Load([]model.MenuDef{
		{
			MenuId: "ops",
			Label:  "Operations",
			Children: []model.MenuDef{
				{MenuId: "deploys", Label: "Deploys"},
			},
		},
	}, model.ImportModeReplace)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Imported)

	deploys, err := repo.GetNode("deploys")
	require.NoError(t, err)
	assert.Equal(t, "ops", deploys.ParentId)
	assert.Equal(t, 1, deploys.Level)
}
