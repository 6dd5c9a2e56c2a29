// Package dao 实现数据访问层
package dao

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pulse-beyond/pulse-beyond/internal/model"
	"github.com/pulse-beyond/pulse-beyond/pkg/util"
	"github.com/pulse-beyond/pulse-beyond/pkg/writequeue"

	"github.com/glebarez/sqlite"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Type            string
	Path            string
	UserName        string
	Password        string
	Host            string
	Port            int
	Name            string
	TablePrefix     string
	AutoMigrate     bool
	Charset         string
	ParseTime       bool
	SSLMode         string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime string
	ConnMaxIdleTime string
	RunMode         string
}

// Dao 数据访问对象，持有数据库连接与写队列
type Dao struct {
	db         *gorm.DB
	config     *DatabaseConfig
	logger     *zap.Logger
	writeQueue *writequeue.Manager
}

// Option Dao 可选配置
type Option func(*Dao)

func WithConfig(c *DatabaseConfig) Option {
	return func(d *Dao) { d.config = c }
}

func WithLogger(l *zap.Logger) Option {
	return func(d *Dao) { d.logger = l }
}

// WithWriteQueueManager serializes writes per issue; without it writes run inline
// WithWriteQueueManager 按期刊串行化写操作，未设置时直接执行
func WithWriteQueueManager(m *writequeue.Manager) Option {
	return func(d *Dao) { d.writeQueue = m }
}

// New 创建 Dao，配置开启时执行自动迁移
func New(db *gorm.DB, opts ...Option) (*Dao, error) {
	d := &Dao{db: db, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(d)
	}

	if d.config == nil || d.config.AutoMigrate {
		if err := model.AutoMigrate(db); err != nil {
			return nil, errors.Wrap(err, "auto migrate")
		}
	}
	return d, nil
}

// DB 返回带 context 的会话
func (d *Dao) DB(ctx context.Context) *gorm.DB {
	return d.db.WithContext(ctx)
}

// ExecuteWrite runs fn inside a transaction, queued behind earlier writes for the same issue
// ExecuteWrite 在事务中执行写操作，同一期刊的写操作排队串行
func (d *Dao) ExecuteWrite(ctx context.Context, issueID int64, fn func(tx *gorm.DB) error) error {
	run := func() error {
		return d.db.WithContext(ctx).Transaction(fn)
	}
	if d.writeQueue == nil {
		return run()
	}
	return d.writeQueue.Execute(ctx, issueID, run)
}

// NewDBEngineWithConfig 按配置打开数据库连接
func NewDBEngineWithConfig(c DatabaseConfig, lg *zap.Logger) (*gorm.DB, error) {
	dialector, err := dialectorFor(c)
	if err != nil {
		return nil, err
	}

	logMode := logger.Silent
	if c.RunMode == "debug" {
		logMode = logger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logMode),
		NamingStrategy: schema.NamingStrategy{
			TablePrefix:   c.TablePrefix,
			SingularTable: true,
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "open database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "get sql.DB")
	}

	if c.Type == "sqlite" || c.Type == "" {
		// single writer; WAL lets readers proceed while a write is in flight
		sqlDB.SetMaxOpenConns(1)
		db.Exec("PRAGMA journal_mode=WAL")
		db.Exec("PRAGMA foreign_keys=ON")
	} else {
		if c.MaxIdleConns > 0 {
			sqlDB.SetMaxIdleConns(c.MaxIdleConns)
		}
		if c.MaxOpenConns > 0 {
			sqlDB.SetMaxOpenConns(c.MaxOpenConns)
		}
	}
	if d, err := util.ParseDuration(c.ConnMaxLifetime); err == nil && d > 0 {
		sqlDB.SetConnMaxLifetime(d)
	} else {
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}
	if d, err := util.ParseDuration(c.ConnMaxIdleTime); err == nil && d > 0 {
		sqlDB.SetConnMaxIdleTime(d)
	}

	if lg != nil {
		lg.Info("database connected", zap.String("type", c.Type), zap.String("name", firstNonEmpty(c.Name, c.Path)))
	}
	return db, nil
}

func dialectorFor(c DatabaseConfig) (gorm.Dialector, error) {
	switch c.Type {
	case "mysql":
		charset := firstNonEmpty(c.Charset, "utf8mb4")
		return mysql.Open(fmt.Sprintf("%s:%s@tcp(%s)/%s?charset=%s&parseTime=%t&loc=Local&clientFoundRows=true",
			c.UserName, c.Password, c.Host, c.Name, charset, c.ParseTime)), nil
	case "postgres":
		port := c.Port
		if port == 0 {
			port = 5432
		}
		return postgres.Open(fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s TimeZone=UTC",
			c.Host, c.UserName, c.Password, c.Name, port, firstNonEmpty(c.SSLMode, "disable"))), nil
	case "sqlite", "":
		if c.Path != ":memory:" && c.Path != "" {
			if err := os.MkdirAll(filepath.Dir(c.Path), 0o755); err != nil {
				return nil, errors.Wrap(err, "create database directory")
			}
		}
		return sqlite.Open(firstNonEmpty(c.Path, ":memory:")), nil
	}
	return nil, fmt.Errorf("unsupported database type %q", c.Type)
}

// nullable 空串写入 NULL
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
