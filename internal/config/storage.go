package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
)

// PostgresConnectionString returns the key=value DSN the pgx driver
// consumes. The password is the one field that may carry spaces or
// punctuation, so it alone is quoted.
func (c *Config) PostgresConnectionString() string {
	fields := []struct {
		key   string
		value string
	}{
		{"host", c.PostgresHost},
		{"port", strconv.Itoa(c.PostgresPort)},
		{"user", c.PostgresUser},
		{"password", quoteDSNValue(c.PostgresPassword)},
		{"dbname", c.PostgresDBName},
		{"sslmode", c.PostgresSSLMode},
	}

	var b strings.Builder
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(f.key)
		b.WriteByte('=')
		b.WriteString(f.value)
	}
	return b.String()
}

// quoteDSNValue single-quotes a DSN value, escaping backslashes and
// embedded quotes so passwords with spaces or punctuation survive the
// key=value parser.
func quoteDSNValue(s string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	return "'" + replacer.Replace(s) + "'"
}

// PostgresURL returns the same connection settings in postgres:// URL
// form, which is what golang-migrate expects.
func (c *Config) PostgresURL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.PostgresUser, c.PostgresPassword),
		Host:     c.PostgresHost + ":" + strconv.Itoa(c.PostgresPort),
		Path:     c.PostgresDBName,
		RawQuery: "sslmode=" + c.PostgresSSLMode,
	}
	return u.String()
}

// parseDatabaseURL applies the DATABASE_URL environment variable, the
// single-URL configuration shape cloud platforms export, on top of the
// individual postgres_* settings. Unset means no override; components
// missing from the URL keep their configured values.
func (c *Config) parseDatabaseURL() error {
	raw := os.Getenv("DATABASE_URL")
	if raw == "" {
		return nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid DATABASE_URL format: %w", err)
	}
	if u.Scheme != "postgres" && u.Scheme != "postgresql" {
		return fmt.Errorf("DATABASE_URL must start with postgres:// or postgresql://, got %q", u.Scheme)
	}

	overrideString(&c.PostgresHost, u.Hostname())
	if err := overridePort(&c.PostgresPort, u.Port()); err != nil {
		return err
	}
	if u.User != nil {
		overrideString(&c.PostgresUser, u.User.Username())
		if password, ok := u.User.Password(); ok {
			c.PostgresPassword = password
		}
	}
	overrideString(&c.PostgresDBName, strings.TrimPrefix(u.Path, "/"))
	overrideString(&c.PostgresSSLMode, u.Query().Get("sslmode"))

	return nil
}

// overrideString replaces *dst with value unless value is empty.
func overrideString(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}

// overridePort replaces *dst with the parsed port unless the URL carried
// none. Range checking stays in Validate with the other port rules.
func overridePort(dst *int, value string) error {
	if value == "" {
		return nil
	}
	port, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid port in DATABASE_URL: %w", err)
	}
	*dst = port
	return nil
}
