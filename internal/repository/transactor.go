package repository

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

// Transactor 工作单元：fn 内的所有写操作一起提交或一起回滚
type Transactor interface {
	WithinTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type gormTransactor struct {
	db      *gorm.DB
	opts    *sql.TxOptions
	timeout time.Duration
}

// NewTransactor opts 为 nil 时使用驱动默认隔离级别；timeout<=0 表示不额外限时
func NewTransactor(db *gorm.DB, opts *sql.TxOptions, timeout time.Duration) Transactor {
	return &gormTransactor{db: db, opts: opts, timeout: timeout}
}

func (t *gormTransactor) WithinTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}
	if t.opts != nil {
		return t.db.WithContext(ctx).Transaction(fn, t.opts)
	}
	return t.db.WithContext(ctx).Transaction(fn)
}
