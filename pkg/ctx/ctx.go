package ctx

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Context 全局上下文，持有数据库连接与日志实例
type Context struct {
	MySQLIns *gorm.DB
	Ctx      context.Context
	Log      *zap.SugaredLogger
}

func NewContext(ctx context.Context, mysql *gorm.DB, log *zap.SugaredLogger) *Context {
	return &Context{
		MySQLIns: mysql,
		Ctx:      ctx,
		Log:      log,
	}
}

func (c *Context) GetCtx() context.Context {
	return c.Ctx
}

func (c *Context) SetMySQLIns(db *gorm.DB) {
	c.MySQLIns = db
}

func (c *Context) GetMySQLIns() *gorm.DB {
	return c.MySQLIns
}
