package xcontext

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

type transaction struct {
	db     *gorm.DB
	done   bool
	nested bool
}

// DB returns the transaction of ctx while it is still open, otherwise the
// root database. So the same context can be used before and after a commit.
func DB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*transaction); ok && !tx.done {
		return tx.db
	}

	db, ok := ctx.Value(dbKey{}).(*gorm.DB)
	if !ok {
		panic("database has not been set")
	}

	return db
}

// WithDBTransaction begins a transaction which is used by every following DB
// call of the returned context. The transaction is detached from the
// cancellation of ctx, it only ends by commit or rollback.
//
// If ctx is already in a transaction, the returned context joins it and its
// commit and rollback become no-op.
func WithDBTransaction(ctx context.Context) context.Context {
	if tx, ok := ctx.Value(txKey{}).(*transaction); ok && !tx.done {
		return context.WithValue(ctx, txKey{}, &transaction{db: tx.db, nested: true})
	}

	var opts []*sql.TxOptions
	if Configs(ctx).Database.SerializableTx {
		opts = append(opts, &sql.TxOptions{Isolation: sql.LevelSerializable})
	}

	tx := DB(ctx).WithContext(context.WithoutCancel(ctx)).Begin(opts...)
	return context.WithValue(ctx, txKey{}, &transaction{db: tx})
}

func WithCommitDBTransaction(ctx context.Context) error {
	tx, ok := ctx.Value(txKey{}).(*transaction)
	if !ok || tx.done {
		return nil
	}

	tx.done = true
	if tx.nested {
		return nil
	}

	return tx.db.Commit().Error
}

// WithRollbackDBTransaction is designed to be deferred right after
// WithDBTransaction. It does nothing if the transaction was committed.
func WithRollbackDBTransaction(ctx context.Context) {
	tx, ok := ctx.Value(txKey{}).(*transaction)
	if !ok || tx.done {
		return
	}

	tx.done = true
	if tx.nested {
		return
	}

	if err := tx.db.Rollback().Error; err != nil {
		Logger(ctx).Errorf("Cannot rollback transaction: %v", err)
	}
}
