package service

import "github.com/google/wire"

// ProviderSet 提供菜单树相关服务
var ProviderSet = wire.NewSet(
	NewHierarchyService,
	NewTreeService,
	NewSearchService,
	NewCodecService,
	NewLoaderService,
)
