package mysql

import (
	"context"
	"errors"
	"strings"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/Guyuepp/likeboard/domain"
)

const (
	mysqlErrDupEntry = 1062
	mysqlErrDeadlock = 1213

	// maxTxAttempts bounds how often a transaction chosen as deadlock victim is re-run
	maxTxAttempts = 3
)

type txKey struct{}

type txManager struct {
	DB *gorm.DB
}

var _ domain.Transactor = (*txManager)(nil)

// NewTransactor 返回基于 gorm 事务的 Transactor
func NewTransactor(db *gorm.DB) *txManager {
	return &txManager{db}
}

// WithinTransaction runs fn in a transaction. Nested calls join the outer one.
// A transaction rolled back as deadlock victim is run again from the start,
// so fn must not keep state across attempts.
func (t *txManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}

	var err error
	for attempt := 1; attempt <= maxTxAttempts; attempt++ {
		err = t.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return fn(context.WithValue(ctx, txKey{}, tx))
		})
		if !isDeadlock(err) || ctx.Err() != nil {
			return err
		}
		logrus.Warnf("transaction deadlocked (attempt %d/%d)", attempt, maxTxAttempts)
	}
	return err
}

// conn returns the transaction carried by ctx, or db when there is none
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}

func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var mysqlErr *mysqldriver.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == mysqlErrDupEntry
	}
	// sqlite without TranslateError
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func isDeadlock(err error) bool {
	var mysqlErr *mysqldriver.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlErrDeadlock
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
