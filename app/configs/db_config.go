package configs

import (
	"fmt"
	"log"
	"net"
	"time"

	gomysql "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	maxConnectRetries = 10
	connectRetryDelay = 5 * time.Second
)

// DSN builds the MySQL connection string. ClientFoundRows makes UPDATE report matched rows,
// which the ownership-scoped updates rely on.
func (e ENV) DSN() string {
	cfg := gomysql.NewConfig()
	cfg.User = e.DBUser
	cfg.Passwd = e.DBPassword
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(e.DBHost, e.DBPort)
	cfg.DBName = e.DBName
	cfg.ParseTime = true
	cfg.Loc = time.Local
	cfg.ClientFoundRows = true
	cfg.Params = map[string]string{"charset": "utf8mb4"}
	return cfg.FormatDSN()
}

func OpenConnection(env ENV) (*gorm.DB, error) {
	gormConfig := &gorm.Config{}
	if env.IsProduction() {
		gormConfig.Logger = logger.Default.LogMode(logger.Warn)
	}

	var lastErr error
	for i := 0; i < maxConnectRetries; i++ {
		log.Printf("Attempting to connect to database %s@%s:%s/%s (Attempt %d/%d)", env.DBUser, env.DBHost, env.DBPort, env.DBName, i+1, maxConnectRetries)
		db, err := gorm.Open(mysql.Open(env.DSN()), gormConfig)
		if err == nil {
			sqlDB, pingErr := db.DB()
			if pingErr == nil {
				pingErr = sqlDB.Ping()
				if pingErr == nil {
					sqlDB.SetMaxOpenConns(25)
					sqlDB.SetMaxIdleConns(10)
					sqlDB.SetConnMaxLifetime(30 * time.Minute)
					log.Println("✅ Database connection successful!")
					return db, nil
				}
			}
			lastErr = pingErr
			log.Printf("❌ Failed to ping database: %v. Retrying in %v...", pingErr, connectRetryDelay)
		} else {
			lastErr = err
			log.Printf("❌ Failed to open GORM connection: %v. Retrying in %v...", err, connectRetryDelay)
		}

		time.Sleep(connectRetryDelay)
	}

	return nil, fmt.Errorf("failed to connect to the database after %d retries: %w", maxConnectRetries, lastErr)
}
