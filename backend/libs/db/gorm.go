package db

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const defaultSlowQuery = 200 * time.Millisecond

// NewGorm wraps an existing pgx pool with gorm's postgres dialector.
func NewGorm(sqlDB *sql.DB, logger *zap.Logger) (*gorm.DB, error) {
	if sqlDB == nil {
		return nil, errors.New("db: nil sql pool")
	}
	return gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), GormConfig(logger))
}

// GormConfig is the gorm configuration shared by production and test dialectors.
func GormConfig(logger *zap.Logger) *gorm.Config {
	return &gorm.Config{
		Logger:         NewQueryLogger(logger, gormlogger.Warn),
		NowFunc:        func() time.Time { return time.Now().UTC() },
		TranslateError: true,
	}
}

// QueryLogger routes gorm diagnostics to zap. Bound parameters are never logged.
type QueryLogger struct {
	log   *zap.Logger
	level gormlogger.LogLevel
}

// NewQueryLogger returns a gorm logger writing through log.
func NewQueryLogger(log *zap.Logger, level gormlogger.LogLevel) *QueryLogger {
	if log == nil {
		log = zap.NewNop()
	}
	return &QueryLogger{log: log.With(zap.String("component", "gorm")), level: level}
}

func (l *QueryLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

func (l *QueryLogger) Info(_ context.Context, msg string, data ...interface{}) {
	if l.level >= gormlogger.Info {
		l.log.Info(msg, zap.Any("data", data))
	}
}

func (l *QueryLogger) Warn(_ context.Context, msg string, data ...interface{}) {
	if l.level >= gormlogger.Warn {
		l.log.Warn(msg, zap.Any("data", data))
	}
}

func (l *QueryLogger) Error(_ context.Context, msg string, data ...interface{}) {
	if l.level >= gormlogger.Error {
		l.log.Error(msg, zap.Any("data", data))
	}
}

func (l *QueryLogger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	switch {
	case err != nil && l.level >= gormlogger.Error && !errors.Is(err, gorm.ErrRecordNotFound) && !IsDuplicateKey(err):
		query, rows := fc()
		l.log.Error("query failed", zap.String("sql", strings.TrimSpace(query)), zap.Int64("rows", rows), zap.Duration("elapsed", elapsed), zap.Error(err))
	case elapsed > defaultSlowQuery && l.level >= gormlogger.Warn:
		query, rows := fc()
		l.log.Warn("slow query", zap.String("sql", strings.TrimSpace(query)), zap.Int64("rows", rows), zap.Duration("elapsed", elapsed))
	case l.level >= gormlogger.Info:
		query, rows := fc()
		l.log.Debug("query", zap.String("sql", strings.TrimSpace(query)), zap.Int64("rows", rows), zap.Duration("elapsed", elapsed))
	}
}

func (l *QueryLogger) ParamsFilter(_ context.Context, sql string, _ ...interface{}) (string, []interface{}) {
	return sql, nil
}

var _ gormlogger.Interface = (*QueryLogger)(nil)
