package gorm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/narwhalmedia/catalog/pkg/config"
	"github.com/narwhalmedia/catalog/pkg/database"
)

const defaultSlowThreshold = 200 * time.Millisecond

// NewDB creates a new database connection with proper configuration
func NewDB(cfg *config.Config, logger *zap.Logger) (*gorm.DB, func(), error) {
	dialector, err := database.Dialector(cfg.Database)
	if err != nil {
		return nil, nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: newGormLogger(logger, cfg.Database.LogQueries, cfg.Database.SlowThreshold),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
		PrepareStmt: cfg.Database.Driver != database.DriverSQLite,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := database.ConfigurePool(db, cfg.Database); err != nil {
		return nil, nil, err
	}

	if cfg.Database.AutoMigrate {
		if err := database.NewMigrator(db, Migrations(), logger).Migrate(); err != nil {
			return nil, nil, err
		}
	}

	cleanup := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return db, cleanup, nil
}

// Ping checks the connection, for readiness probes.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// gormLogger wraps zap logger for GORM
type gormLogger struct {
	logger        *zap.Logger
	debug         bool
	slowThreshold time.Duration
}

func newGormLogger(logger *zap.Logger, debug bool, slowThreshold time.Duration) gormlogger.Interface {
	if slowThreshold <= 0 {
		slowThreshold = defaultSlowThreshold
	}
	return &gormLogger{
		logger:        logger.Named("gorm"),
		debug:         debug,
		slowThreshold: slowThreshold,
	}
}

func (l *gormLogger) LogMode(gormlogger.LogLevel) gormlogger.Interface {
	return l
}

func (l *gormLogger) Info(_ context.Context, msg string, data ...any) {
	l.logger.Sugar().Infof(msg, data...)
}

func (l *gormLogger) Warn(_ context.Context, msg string, data ...any) {
	l.logger.Sugar().Warnf(msg, data...)
}

func (l *gormLogger) Error(_ context.Context, msg string, data ...any) {
	l.logger.Sugar().Errorf(msg, data...)
}

func (l *gormLogger) Trace(_ context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	elapsed := time.Since(begin)
	sql, rows := fc()

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		l.logger.Error("sql error",
			zap.Error(err),
			zap.String("sql", sql),
			zap.Int64("rows", rows),
			zap.Duration("elapsed", elapsed),
		)
		return
	}

	if l.debug {
		l.logger.Debug("sql trace",
			zap.String("sql", sql),
			zap.Int64("rows", rows),
			zap.Duration("elapsed", elapsed),
		)
	} else if elapsed > l.slowThreshold {
		l.logger.Warn("slow sql query",
			zap.String("sql", sql),
			zap.Int64("rows", rows),
			zap.Duration("elapsed", elapsed),
		)
	}
}
