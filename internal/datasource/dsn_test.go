package datasource

import (
	"errors"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDSNFromFields(t *testing.T) {
	d := Descriptor{
		Host:     "db.internal",
		Port:     DefaultPort,
		Database: "cities",
		URL:      ComposeURL("db.internal", "cities"),
		Username: "shipping",
		Password: "secret",
		Strategy: StrategyFields,
	}

	dsn, err := d.DSN()
	require.NoError(t, err)

	cfg, err := mysql.ParseDSN(dsn)
	require.NoError(t, err)
	assert.Equal(t, "tcp", cfg.Net)
	assert.Equal(t, "db.internal:3306", cfg.Addr)
	assert.Equal(t, "cities", cfg.DBName)
	assert.Equal(t, "shipping", cfg.User)
	assert.Equal(t, "secret", cfg.Passwd)
	assert.Equal(t, "false", cfg.TLSConfig)
	assert.True(t, cfg.ParseTime)
	assert.NotContains(t, dsn, "autoReconnect")
}

func TestDSNCredentialsFromURL(t *testing.T) {
	d := Descriptor{URL: "jdbc:mysql://mysql:3307/cities?user=root&password=pw&useSSL=true"}

	cfg, err := d.MySQLConfig()
	require.NoError(t, err)
	assert.Equal(t, "mysql:3307", cfg.Addr)
	assert.Equal(t, "root", cfg.User)
	assert.Equal(t, "pw", cfg.Passwd)
	assert.Equal(t, "true", cfg.TLSConfig)
}

func TestDSNDescriptorCredentialsWin(t *testing.T) {
	d := Descriptor{URL: "jdbc:mysql://mysql/cities?user=root&password=pw", Username: "app", Password: "apppw"}

	cfg, err := d.MySQLConfig()
	require.NoError(t, err)
	assert.Equal(t, "mysql:3306", cfg.Addr)
	assert.Equal(t, "app", cfg.User)
	assert.Equal(t, "apppw", cfg.Passwd)
}

func TestDSNRejectsOtherSchemes(t *testing.T) {
	for _, u := range []string{"jdbc:postgresql://h/d", "mysql://h/d", "", "jdbc:mysql:///d"} {
		_, err := Descriptor{URL: u}.DSN()
		require.Error(t, err, u)
		assert.True(t, errors.Is(err, ErrConfiguration), u)
	}
}

func TestMySQLConfigFromFieldsKeepsURLDelimitersInNames(t *testing.T) {
	for _, name := range []string{"ship#1", "ship?2", "a/b"} {
		t.Run(name, func(t *testing.T) {
			d := Descriptor{
				Host:     "h",
				Port:     DefaultPort,
				Database: name,
				Username: "u",
				Password: "p#?",
				URL:      ComposeURL("h", name),
				Strategy: StrategyFields,
			}

			cfg, err := d.MySQLConfig()
			require.NoError(t, err)
			assert.Equal(t, name, cfg.DBName)
			assert.Equal(t, "h:3306", cfg.Addr)
			assert.Equal(t, "p#?", cfg.Passwd)
			assert.Equal(t, "false", cfg.TLSConfig)
		})
	}
}

func TestDSNFromFieldsWithHashInName(t *testing.T) {
	d := Descriptor{Host: "h", Port: DefaultPort, Database: "ship#1", URL: ComposeURL("h", "ship#1"), Strategy: StrategyFields}

	dsn, err := d.DSN()
	require.NoError(t, err)

	cfg, err := mysql.ParseDSN(dsn)
	require.NoError(t, err)
	assert.Equal(t, "ship#1", cfg.DBName)
	assert.Equal(t, "false", cfg.TLSConfig)
}

func TestDSNFromFieldsRequiresHost(t *testing.T) {
	_, err := Descriptor{Database: "d", Strategy: StrategyFields}.DSN()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfiguration))
}

func TestDSNFromResolvedFields(t *testing.T) {
	vars := fieldsEnv()
	vars[EnvDatabase] = "ship#1"

	d, err := NewProvider(envconfig.MapLookuper(vars), nil, WithStrategy(StrategyFields)).Resolve()
	require.NoError(t, err)

	cfg, err := d.MySQLConfig()
	require.NoError(t, err)
	assert.Equal(t, "ship#1", cfg.DBName)
	assert.Equal(t, "u", cfg.User)
}
