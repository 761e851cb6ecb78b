package config_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-birthday-web/internal/config"
)

// TestConstants_Integrity ensures critical constants are not empty or malformed.
func TestConstants_Integrity(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"AppName", config.AppName},
		{"AppID", config.AppID},
		{"Version", config.Version},
		{"UserAgent", config.UserAgent},
		{"ICalVersion", config.ICalVersion},
		{"ICalProdid", config.ICalProdid},
		{"KeyringService", config.KeyringService},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotEmpty(t, tt.value, "Critical constant %s should not be empty", tt.name)
		})
	}
}

// TestDateLayouts renders a known date with every display layout.
func TestDateLayouts(t *testing.T) {
	d := time.Date(1998, time.March, 5, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "1998-03-05", d.Format(config.DateFormatInput))
	assert.Equal(t, "05 Mar 1998", d.Format(config.DateFormatLong))
	assert.Equal(t, "05 Mar", d.Format(config.DateFormatShort))
}

// TestUserAgent_Format ensures the UA string follows the standard format.
func TestUserAgent_Format(t *testing.T) {
	assert.True(t, strings.HasPrefix(config.UserAgent, "Go-Birthday/"), "UserAgent must start with AppName/")
}

// TestTimeoutsAndLimits ensures that operational constraints are reasonable.
func TestTimeoutsAndLimits(t *testing.T) {
	t.Parallel()

	assert.Greater(t, config.HTTPTimeout, 0*time.Second, "HTTPTimeout must be positive")
	assert.LessOrEqual(t, config.HTTPTimeout, 2*time.Minute, "HTTPTimeout should not be excessively long")
	assert.Greater(t, config.ShutdownTimeout, 0*time.Second, "ShutdownTimeout must be positive")

	assert.Greater(t, config.MaxHTTPResponseSize, 0)
	assert.Greater(t, config.MaxUploadSize, 0)
	assert.LessOrEqual(t, config.MaxUploadSize, config.MaxHTTPResponseSize)

	assert.Less(t, config.UsernameMinLen, config.UsernameMaxLen)
	assert.Less(t, config.PasswordMinLen, config.PasswordMaxLen)
}

func TestLoad_Defaults(t *testing.T) {
	s, _, err := config.Load(nil)
	require.NoError(t, err)

	assert.Equal(t, config.DefaultListenAddr, s.ListenAddr)
	assert.Equal(t, config.DriverSQLite, s.DBDriver)
	assert.Equal(t, config.DefaultDSN, s.DBDSN)
	assert.Equal(t, config.DefaultSessionTTL, s.SessionTTL)
	assert.Equal(t, config.DefaultSummaryTTL, s.SummaryTTL)
	assert.Equal(t, config.DefaultReminder, s.Reminder)
	assert.Equal(t, config.HTTPTimeout, s.ImportTimeout)
	assert.False(t, s.ImportAllowPrivate)
	assert.True(t, s.LogToFile)
	assert.Empty(t, s.SessionSecret)
}

func TestLoad_FlagsAndEnv(t *testing.T) {
	t.Setenv("GO_BIRTHDAY_SESSION_SECRET", "from-env")
	t.Setenv("GO_BIRTHDAY_DB_DRIVER", "postgres")

	s, _, err := config.Load([]string{"--listen-addr", ":9000", "--session-ttl", "2h", "--no-log-to-file"})
	require.NoError(t, err)

	assert.Equal(t, ":9000", s.ListenAddr)
	assert.Equal(t, 2*time.Hour, s.SessionTTL)
	assert.Equal(t, "from-env", s.SessionSecret)
	assert.Equal(t, config.DriverPostgres, s.DBDriver)
	assert.False(t, s.LogToFile)
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	_, _, err := config.Load([]string{"--db-driver", "mysql"})
	assert.Error(t, err)
}
