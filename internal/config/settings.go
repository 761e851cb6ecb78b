package config

import (
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
)

// Settings holds the runtime configuration of the web service.
// Every field can be set by flag or by environment variable (prefixed with EnvPrefix).
type Settings struct {
	Version kong.VersionFlag `help:"Show application version and exit" short:"v" env:"-"`
	Debug   bool             `help:"Enable debug logging (adds source locations)"`

	ListenAddr string `help:"HTTP listen address." default:"${listen_addr}"`
	Language   string `help:"Fallback language for messages." enum:"en,fr" default:"${language}"`

	DBDriver string `help:"Database driver." enum:"sqlite,postgres" default:"${db_driver}"`
	DBDSN    string `help:"Database DSN (file path for sqlite)." default:"${db_dsn}"`

	SessionSecret string        `help:"Session signing secret. Falls back to the OS keyring when empty."`
	SessionTTL    time.Duration `help:"Lifetime of a login session." default:"${session_ttl}"`
	SummaryTTL    time.Duration `help:"Lifetime of cached birthdate summaries." default:"${summary_ttl}"`
	Reminder      string        `help:"ISO8601 alarm trigger added to calendar events (empty disables)." default:"${reminder}"`
	ImportTimeout time.Duration `help:"Timeout of remote vCard imports." default:"${import_timeout}"`

	ImportAllowPrivate bool `help:"Allow remote imports from loopback, private and link-local addresses."`

	LogToFile bool `help:"Also write logs to the user cache directory." default:"true" negatable:""`
}

// Load reads the optional .env file and parses args (without the program name)
// into Settings. Environment variables are consulted for every unset flag.
func Load(args []string) (*Settings, *kong.Context, error) {
	if err := godotenv.Load(EnvFile); err != nil {
		slog.Debug(MsgDotenvMissing,
			LogKeyComponent, CompConfig,
			LogKeyError, err,
		)
	}

	s := &Settings{}
	parser, err := kong.New(s,
		kong.Name("go-birthday"),
		kong.Description(AppName+": keep track of birthdays, ages and countdowns."),
		kong.DefaultEnvars(trimEnvPrefix()),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
		kong.Vars{
			"version":     VersionString(),
			"listen_addr": DefaultListenAddr,
			"language":    DefaultLanguage,
			"db_driver":   DefaultDBDriver,
			"db_dsn":      DefaultDSN,
			"session_ttl": DefaultSessionTTL.String(),
			"summary_ttl": DefaultSummaryTTL.String(),
			"reminder":    DefaultReminder,

			"import_timeout": HTTPTimeout.String(),
		},
	)
	if err != nil {
		return nil, nil, err
	}

	ctx, err := parser.Parse(args)
	if err != nil {
		return nil, nil, err
	}
	return s, ctx, nil
}

// VersionString formats the build information printed by --version.
func VersionString() string {
	return fmt.Sprintf(MsgVersionOutput, AppName, Version, runtime.GOOS, runtime.GOARCH)
}

// kong appends its own underscore separator to the prefix.
func trimEnvPrefix() string {
	return EnvPrefix[:len(EnvPrefix)-1]
}
