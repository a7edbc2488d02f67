package database

import (
	"context"
	"fmt"
	"time"

	"github.com/paradeops/leave-gin/internal/config"
	"github.com/paradeops/leave-gin/internal/model"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// PoolConfig 连接池配置
type PoolConfig struct {
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime int // 秒
	ConnMaxIdleTime int // 秒
}

// BuildDSN 构建 PostgreSQL DSN
func BuildDSN(cfg config.DatabaseConfig) string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)
}

// GetPoolConfig 获取连接池配置
func GetPoolConfig() *PoolConfig {
	return &PoolConfig{
		MaxIdleConns:    10,
		MaxOpenConns:    100,
		ConnMaxLifetime: 3600, // 1 小时
		ConnMaxIdleTime: 600,  // 10 分钟
	}
}

// Connect 连接数据库
func Connect(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := BuildDSN(cfg)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	// 配置连接池
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	// 从配置中读取连接池参数,未设置的项使用默认值
	poolConfig := GetPoolConfig()
	if cfg.MaxIdleConns > 0 {
		poolConfig.MaxIdleConns = cfg.MaxIdleConns
	}
	if cfg.MaxOpenConns > 0 {
		poolConfig.MaxOpenConns = cfg.MaxOpenConns
	}
	if cfg.ConnMaxLifetime > 0 {
		poolConfig.ConnMaxLifetime = cfg.ConnMaxLifetime
	}
	if cfg.ConnMaxIdleTime > 0 {
		poolConfig.ConnMaxIdleTime = cfg.ConnMaxIdleTime
	}

	sqlDB.SetMaxIdleConns(poolConfig.MaxIdleConns)
	sqlDB.SetMaxOpenConns(poolConfig.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Duration(poolConfig.ConnMaxLifetime) * time.Second)
	sqlDB.SetConnMaxIdleTime(time.Duration(poolConfig.ConnMaxIdleTime) * time.Second)

	return db, nil
}

// ConnectWithRetry 带重试的数据库连接
func ConnectWithRetry(cfg config.DatabaseConfig, maxRetries int, retryInterval time.Duration) (*gorm.DB, error) {
	var db *gorm.DB
	var err error

	for i := 0; i < maxRetries; i++ {
		db, err = Connect(cfg)
		if err == nil {
			return db, nil
		}

		// 如果不是最后一次重试,等待后重试
		if i < maxRetries-1 {
			time.Sleep(retryInterval)
			retryInterval *= 2 // 指数退避
		}
	}

	return nil, fmt.Errorf("failed to connect database after %d retries: %w", maxRetries, err)
}

// Migrate 执行数据库迁移
func Migrate(db *gorm.DB) error {
	// 检测数据库类型
	dialector := db.Dialector.Name()

	// SQLite 下 AutoMigrate 对带大量可空列的表支持不佳,手动建表
	// GORM SQLite dialector 的名称可能是 "sqlite" 或 "sqlite3"
	if dialector == "sqlite" || dialector == "sqlite3" {
		if err := createSQLiteTables(db); err != nil {
			return fmt.Errorf("failed to create SQLite tables: %w", err)
		}
	} else {
		// PostgreSQL 等其他数据库使用 AutoMigrate
		if err := db.AutoMigrate(
			&model.UserModel{},
			&model.LeaveTypeModel{},
			&model.LeaveRequestModel{},
			&model.AuditLogModel{},
		); err != nil {
			return fmt.Errorf("failed to auto migrate: %w", err)
		}
	}

	// 创建索引
	if err := CreateIndexes(db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	return nil
}

// createSQLiteTables 为 SQLite 手动创建表
func createSQLiteTables(db *gorm.DB) error {
	// 创建 users 表
	if err := db.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			service_number VARCHAR(32) NOT NULL UNIQUE,
			name VARCHAR(128) NOT NULL,
			rank VARCHAR(32),
			role VARCHAR(32) NOT NULL,
			unit VARCHAR(64),
			email VARCHAR(128),
			phone VARCHAR(32),
			password_hash VARCHAR(128) NOT NULL,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)
	`).Error; err != nil {
		return fmt.Errorf("failed to create users table: %w", err)
	}

	// 创建 leave_types 表
	if err := db.Exec(`
		CREATE TABLE IF NOT EXISTS leave_types (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			type_name VARCHAR(64) NOT NULL UNIQUE,
			max_days INTEGER NOT NULL
		)
	`).Error; err != nil {
		return fmt.Errorf("failed to create leave_types table: %w", err)
	}

	// 创建 leave_requests 表
	if err := db.Exec(`
		CREATE TABLE IF NOT EXISTS leave_requests (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			leave_type_id INTEGER NOT NULL,
			start_date DATE NOT NULL,
			end_date DATE NOT NULL,
			days INTEGER NOT NULL,
			reason TEXT NOT NULL,
			address_on_leave TEXT,
			contact_number VARCHAR(32),
			status VARCHAR(32) NOT NULL DEFAULT 'pending',
			coy_comd_approved_by INTEGER,
			coy_comd_approved_at DATETIME,
			coy_comd_remarks TEXT,
			adjutant_approved_by INTEGER,
			adjutant_approved_at DATETIME,
			adjutant_remarks TEXT,
			bsm_approved_by INTEGER,
			bsm_approved_at DATETIME,
			bsm_remarks TEXT,
			co_approved_by INTEGER,
			co_approved_at DATETIME,
			co_remarks TEXT,
			rejected_by INTEGER,
			rejected_at DATETIME,
			rejection_reason TEXT,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)
	`).Error; err != nil {
		return fmt.Errorf("failed to create leave_requests table: %w", err)
	}

	// 创建 audit_logs 表
	if err := db.Exec(`
		CREATE TABLE IF NOT EXISTS audit_logs (
			id VARCHAR(64) PRIMARY KEY,
			user_id INTEGER NOT NULL,
			action VARCHAR(64) NOT NULL,
			table_name VARCHAR(64) NOT NULL,
			record_id INTEGER,
			request_id VARCHAR(64),
			ip VARCHAR(45),
			created_at DATETIME NOT NULL
		)
	`).Error; err != nil {
		return fmt.Errorf("failed to create audit_logs table: %w", err)
	}

	return nil
}

// CreateIndexes 创建数据库索引
func CreateIndexes(db *gorm.DB) error {
	// users 表索引
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_users_role ON users(role)").Error; err != nil {
		return fmt.Errorf("failed to create idx_users_role: %w", err)
	}
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_users_unit ON users(unit)").Error; err != nil {
		return fmt.Errorf("failed to create idx_users_unit: %w", err)
	}

	// leave_requests 表索引
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_leaves_user_id ON leave_requests(user_id)").Error; err != nil {
		return fmt.Errorf("failed to create idx_leaves_user_id: %w", err)
	}
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_leaves_status ON leave_requests(status)").Error; err != nil {
		return fmt.Errorf("failed to create idx_leaves_status: %w", err)
	}
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_leaves_type_status ON leave_requests(leave_type_id, status)").Error; err != nil {
		return fmt.Errorf("failed to create idx_leaves_type_status: %w", err)
	}
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_leaves_created_at ON leave_requests(created_at)").Error; err != nil {
		return fmt.Errorf("failed to create idx_leaves_created_at: %w", err)
	}

	// audit_logs 表索引
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_audit_record ON audit_logs(table_name, record_id)").Error; err != nil {
		return fmt.Errorf("failed to create idx_audit_record: %w", err)
	}
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_audit_user_id ON audit_logs(user_id)").Error; err != nil {
		return fmt.Errorf("failed to create idx_audit_user_id: %w", err)
	}
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_audit_created_at ON audit_logs(created_at)").Error; err != nil {
		return fmt.Errorf("failed to create idx_audit_created_at: %w", err)
	}

	return nil
}

// CheckHealth 检查数据库连接健康状态
func CheckHealth(db *gorm.DB) bool {
	if db == nil {
		return false
	}

	sqlDB, err := db.DB()
	if err != nil {
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return false
	}

	return true
}
