package datasource

import (
	"fmt"
	"strings"
)

// DriverClass names the MySQL wire-protocol driver the descriptor is built for
const DriverClass = "com.mysql.jdbc.Driver"

// DefaultPort is the fixed MySQL port used when the URL is composed from fields
const DefaultPort = 3306

const urlTemplate = "jdbc:mysql://%s:%d/%s?useSSL=false&autoReconnect=true"

// Strategy selects how the descriptor is resolved from the environment
type Strategy string

const (
	StrategyAuto   Strategy = "auto"
	StrategyURL    Strategy = "url"
	StrategyFields Strategy = "fields"
)

// ParseStrategy maps a config value onto a Strategy. Empty means auto.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case "", StrategyAuto:
		return StrategyAuto, nil
	case StrategyURL:
		return StrategyURL, nil
	case StrategyFields:
		return StrategyFields, nil
	default:
		return "", fmt.Errorf("unknown datasource strategy %q", s)
	}
}

// Descriptor is the resolved set of parameters needed to open a database connection.
// Host, Port and Database are only populated by the fields strategy.
type Descriptor struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string
	URL      string
	Driver   string
	Strategy Strategy
}

// ComposeURL renders the connection URL for host and database
func ComposeURL(host, database string) string {
	return fmt.Sprintf(urlTemplate, host, DefaultPort, database)
}

// Redacted returns a copy with the password masked. The URL is left as is.
func (d Descriptor) Redacted() Descriptor {
	if d.Password != "" {
		d.Password = "****"
	}
	return d
}
