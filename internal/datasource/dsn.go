package datasource

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
)

const jdbcPrefix = "jdbc:mysql://"

// DSN converts the descriptor into a go-sql-driver/mysql data source name.
// Credentials set on the descriptor win over those embedded in the URL.
func (d Descriptor) DSN() (string, error) {
	cfg, err := d.MySQLConfig()
	if err != nil {
		return "", err
	}
	return cfg.FormatDSN(), nil
}

// MySQLConfig builds a driver config. Descriptors resolved from fields use their
// host and database directly; only literal URLs are parsed.
func (d Descriptor) MySQLConfig() (*mysql.Config, error) {
	if d.Strategy == StrategyFields {
		return d.fieldsConfig()
	}
	if !strings.HasPrefix(d.URL, jdbcPrefix) {
		return nil, &ConfigurationError{
			Strategy: d.Strategy,
			Msg:      fmt.Sprintf("unsupported connection URL scheme in %q", d.URL),
		}
	}

	u, err := url.Parse(strings.TrimPrefix(d.URL, "jdbc:"))
	if err != nil {
		return nil, &ConfigurationError{Strategy: d.Strategy, Msg: fmt.Sprintf("malformed connection URL: %v", err)}
	}
	if u.Hostname() == "" {
		return nil, &ConfigurationError{Strategy: d.Strategy, Msg: "connection URL has no host"}
	}

	port := DefaultPort
	if p := u.Port(); p != "" {
		port, err = strconv.Atoi(p)
		if err != nil {
			return nil, &ConfigurationError{Strategy: d.Strategy, Msg: fmt.Sprintf("invalid port %q", p)}
		}
	}

	cfg := mysql.NewConfig()
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(u.Hostname(), strconv.Itoa(port))
	cfg.DBName = strings.TrimPrefix(u.Path, "/")
	cfg.ParseTime = true

	if u.User != nil {
		cfg.User = u.User.Username()
		cfg.Passwd, _ = u.User.Password()
	}

	q := u.Query()
	if v := q.Get("user"); v != "" {
		cfg.User = v
	}
	if v, ok := q["password"]; ok && len(v) > 0 {
		cfg.Passwd = v[0]
	}
	switch strings.ToLower(q.Get("useSSL")) {
	case "false":
		cfg.TLSConfig = "false"
	case "true":
		cfg.TLSConfig = "true"
	}

	if d.Username != "" {
		cfg.User = d.Username
	}
	if d.Password != "" {
		cfg.Passwd = d.Password
	}
	return cfg, nil
}

// fieldsConfig mirrors the fixed URL template without re-parsing it, so names
// containing URL delimiters such as '#' or '?' survive intact.
func (d Descriptor) fieldsConfig() (*mysql.Config, error) {
	if d.Host == "" {
		return nil, &ConfigurationError{Strategy: d.Strategy, Msg: "connection host is empty"}
	}
	port := d.Port
	if port == 0 {
		port = DefaultPort
	}

	cfg := mysql.NewConfig()
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(d.Host, strconv.Itoa(port))
	cfg.DBName = d.Database
	cfg.User = d.Username
	cfg.Passwd = d.Password
	cfg.TLSConfig = "false"
	cfg.ParseTime = true
	return cfg, nil
}
