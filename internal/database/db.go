package database

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"database/sql"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/go-sql-driver/mysql"
)

// tlsProfile is the name the CA-backed TLS config is registered under.
const tlsProfile = "restaurant-ca"

// Options describes how to reach the MySQL server.
type Options struct {
	User   string
	Pass   string
	Host   string
	Port   string
	Name   string
	TLSCA  string // optional CA bundle; when set the connection requires TLS
	Params map[string]string
}

// DSN builds the driver data source name.  parseTime=true turns DATE and
// DATETIME columns into time.Time, loc=UTC keeps them consistent, and
// clientFoundRows makes RowsAffected count matched rather than changed rows.
func (o Options) DSN() (string, error) {
	cfg := mysql.NewConfig()
	cfg.User = o.User
	cfg.Passwd = o.Pass
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(o.Host, o.Port)
	cfg.DBName = o.Name
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	cfg.ClientFoundRows = true
	cfg.Params = map[string]string{"charset": "utf8mb4"}
	for k, v := range o.Params {
		cfg.Params[k] = v
	}
	if o.TLSCA != "" {
		if err := registerCA(o.TLSCA, o.Host); err != nil {
			return "", err
		}
		cfg.TLSConfig = tlsProfile
	}
	return cfg.FormatDSN(), nil
}

func registerCA(path, serverName string) error {
	pem, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read CA bundle: %w", err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pem) {
		return fmt.Errorf("no certificates found in %s", path)
	}
	return mysql.RegisterTLSConfig(tlsProfile, &tls.Config{
		RootCAs:    pool,
		ServerName: serverName,
		MinVersion: tls.VersionTLS12,
	})
}

// Open connects to MySQL and verifies the connection.
func Open(o Options) (*sql.DB, error) {
	dsn, err := o.DSN()
	if err != nil {
		return nil, err
	}
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	// Pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)

	// Ping with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
