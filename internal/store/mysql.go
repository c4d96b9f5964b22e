// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
)

// MySQL pool settings. Callers wait for a free connection with no queue cap.
const (
	MySQLPoolSize        = 10
	MySQLConnMaxLifetime = 3 * time.Minute
	defaultMySQLPort     = 3306
)

// mysqlDB is the client-server engine backed by a fixed-size pool.
type mysqlDB struct {
	sqlDB
}

// NewMySQL builds the connection pool for cfg and verifies connectivity.
func NewMySQL(ctx context.Context, cfg Config) (DB, error) {
	mc, err := mysqlConfig(cfg)
	if err != nil {
		return nil, err
	}

	connector, err := mysql.NewConnector(mc)
	if err != nil {
		return nil, fmt.Errorf("creating mysql connector: %w", err)
	}
	db := sql.OpenDB(connector)

	db.SetMaxOpenConns(MySQLPoolSize)
	db.SetMaxIdleConns(MySQLPoolSize)
	db.SetConnMaxLifetime(MySQLConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &mysqlDB{sqlDB: sqlDB{db: db}}, nil
}

func (m *mysqlDB) Engine() Engine {
	return EngineMySQL
}

// mysqlConfig turns the adapter configuration into a driver configuration.
// A connection string takes precedence over the discrete fields and always
// gets TLS without certificate verification; discrete fields use TLS when
// the server offers it.
func mysqlConfig(cfg Config) (*mysql.Config, error) {
	var mc *mysql.Config

	if cfg.ConnectionURL != "" {
		parsed, err := parseConnectionString(cfg.ConnectionURL)
		if err != nil {
			return nil, err
		}
		mc = parsed
		mc.TLSConfig = "skip-verify"
	} else {
		mc = mysql.NewConfig()
		host := cfg.Host
		if host == "" {
			host = "localhost"
		}
		port := cfg.Port
		if port == 0 {
			port = defaultMySQLPort
		}
		user := cfg.User
		if user == "" {
			user = "root"
		}
		dbName := cfg.Database
		if dbName == "" {
			dbName = "blog_db"
		}
		mc.Net = "tcp"
		mc.Addr = net.JoinHostPort(host, strconv.Itoa(port))
		mc.User = user
		mc.Passwd = cfg.Password
		mc.DBName = dbName
		mc.TLSConfig = "preferred"
	}

	mc.ParseTime = true
	// Report matched rows on UPDATE so an unchanged row is not mistaken for a missing one
	mc.ClientFoundRows = true
	return mc, nil
}

// parseConnectionString accepts either a mysql:// URL or a native driver DSN.
func parseConnectionString(s string) (*mysql.Config, error) {
	if !strings.HasPrefix(s, "mysql://") {
		mc, err := mysql.ParseDSN(s)
		if err != nil {
			return nil, fmt.Errorf("parsing database DSN: %w", err)
		}
		return mc, nil
	}

	u, err := url.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("parsing database URL: %w", err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("database URL has no host")
	}

	addr := u.Host
	if u.Port() == "" {
		addr = net.JoinHostPort(u.Hostname(), strconv.Itoa(defaultMySQLPort))
	}

	// The adapter sets TLS itself; an "ssl" JSON blob meant for other clients is dropped
	query := u.Query()
	query.Del("ssl")

	// Only the options go through the DSN parser; credentials and the
	// database name may hold characters that are DSN separators.
	dsn := "/"
	if encoded := query.Encode(); encoded != "" {
		dsn += "?" + encoded
	}
	mc, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing database URL: %w", err)
	}

	mc.Net = "tcp"
	mc.Addr = addr
	mc.DBName = strings.TrimPrefix(u.Path, "/")
	if u.User != nil {
		mc.User = u.User.Username()
		mc.Passwd, _ = u.User.Password()
	}
	return mc, nil
}
