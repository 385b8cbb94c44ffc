package database

import "github.com/google/wire"

// ProviderSet 提供数据库相关的依赖
var ProviderSet = wire.NewSet(NewDatabase, NewGormDB)
