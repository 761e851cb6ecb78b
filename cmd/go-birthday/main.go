package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/tartampluch/go-birthday-web/internal/auth"
	"github.com/tartampluch/go-birthday-web/internal/birthdate"
	"github.com/tartampluch/go-birthday-web/internal/birthdays"
	"github.com/tartampluch/go-birthday-web/internal/config"
	"github.com/tartampluch/go-birthday-web/internal/engine"
	"github.com/tartampluch/go-birthday-web/internal/i18n"
	"github.com/tartampluch/go-birthday-web/internal/server"
	"github.com/tartampluch/go-birthday-web/internal/store"
)

// main delegates to runMain so deferred closes run before os.Exit.
func main() {
	os.Exit(runMain(os.Args[1:]))
}

// runMain parses the configuration, sets up logging and runs the service
// until SIGINT or SIGTERM.
func runMain(args []string) int {
	settings, _, err := config.Load(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return config.ExitCodeError
	}

	logCloser := setupLogging(settings.Debug, settings.LogToFile)
	if logCloser != nil {
		defer func() { _ = logCloser.Close() }()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logStartupInfo()

	if err := run(ctx, settings); err != nil {
		slog.Error(config.ErrAppFailed,
			config.LogKeyComponent, config.CompMain,
			config.LogKeyError, err,
		)
		return config.ExitCodeError
	}

	slog.Info(config.MsgAppStop, config.LogKeyComponent, config.CompMain)
	return config.ExitCodeSuccess
}

// run wires the dependencies and blocks serving HTTP until ctx is cancelled.
func run(ctx context.Context, s *config.Settings) error {
	st, err := store.Open(ctx, s.DBDriver, s.DBDSN)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	key, err := auth.SigningKey(s.SessionSecret, auth.OSKeyring{})
	if err != nil {
		return err
	}

	srv := server.New(s.ListenAddr, server.Deps{
		Auth:      auth.NewService(st.Users(), auth.NewTokens(key, s.SessionTTL)),
		Birthdays: birthdays.NewService(st.Birthdays(), birthdate.RealClock{}, s.SummaryTTL),
		Importer:  &engine.Importer{Fetcher: engine.NewHTTPFetcher(s.ImportTimeout, s.ImportAllowPrivate)},
		Calendar:  &engine.Generator{ReminderTrigger: s.Reminder},
		Catalog:   i18n.NewCatalog(s.Language),
		Health:    st,
		Metrics:   server.NewMetrics(),
	})
	return srv.Start(ctx)
}

// logStartupInfo logs environment details useful for debugging.
func logStartupInfo() {
	slog.Info(config.MsgAppStarting,
		config.LogKeyComponent, config.CompMain,
		slog.Group(config.LogKeyBuild,
			slog.String(config.LogKeyApp, config.AppName),
			slog.String(config.LogKeyVersion, config.Version),
			slog.String(config.LogKeyCommit, config.Commit),
			slog.String(config.LogKeyBuilt, config.Date),
			slog.String(config.LogKeyGoVer, runtime.Version()),
		),
		slog.Group(config.LogKeyEnv,
			slog.String(config.LogKeyOS, runtime.GOOS),
			slog.String(config.LogKeyArch, runtime.GOARCH),
			slog.Int(config.LogKeyPID, os.Getpid()),
		),
	)
}

// setupLogging installs a JSON slog handler on stdout and, when toFile is set,
// on a log file in the user cache directory. The returned closer may be nil.
func setupLogging(debugMode, toFile bool) io.Closer {
	writers := []io.Writer{os.Stdout}
	var logFile *os.File

	if toFile {
		if logPath, err := getLogFilePath(); err == nil {
			// O_TRUNC resets logs on restart to prevent indefinite growth.
			f, err := os.OpenFile(logPath, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, config.FilePermUserRW)
			if err == nil {
				writers = append(writers, f)
				logFile = f
			} else {
				fmt.Fprintf(os.Stderr, config.MsgLogWarning, config.ErrLogFile, logPath, err)
			}
		}
	}

	level := slog.LevelInfo
	if debugMode {
		level = slog.LevelDebug
	}

	logger := slog.New(slog.NewJSONHandler(io.MultiWriter(writers...), &slog.HandlerOptions{
		Level:     level,
		AddSource: debugMode,
	}))
	slog.SetDefault(logger)

	if logFile == nil {
		return nil
	}
	return logFile
}

// getLogFilePath returns the log file location, creating its directory (0700).
func getLogFilePath() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCacheDir, err)
	}

	appDir := filepath.Join(cacheDir, config.AppID)
	if err := os.MkdirAll(appDir, config.DirPermUserRWX); err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCreateDir, err)
	}
	return filepath.Join(appDir, config.LogFileName), nil
}
