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

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Menu 树操作指标。operation 取值: create / update / delete / import / export /
// recalculate / search。
var (
	MenuOperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "compass_menu_operations_total",
			Help: "Total number of menu tree operations by operation and result",
		},
		[]string{"operation", "result"},
	)

	MenuCascadeSize = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "compass_menu_cascade_nodes",
			Help:    "Number of nodes touched by a cascading operation (reparent, delete, recalculate)",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250},
		},
		[]string{"operation"},
	)

	MenuImportRecords = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "compass_menu_import_records_total",
			Help: "Imported menu records by outcome (inserted, updated, failed)",
		},
		[]string{"outcome"},
	)
)

// NewRegistry builds a registry with runtime collectors and menu metrics registered.
func NewRegistry() *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	registry.MustRegister(MenuOperationsTotal, MenuCascadeSize, MenuImportRecords)
	return registry
}
