package config

import (
	"io/fs"
	"time"
)

// -----------------------------------------------------------------------------
// Build Information
// -----------------------------------------------------------------------------

// Build variables are injected via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// UserAgent identifies the HTTP client used for remote vCard imports.
var UserAgent = "Go-Birthday/" + Version

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName        = "Go Birthday"
	AppID          = "com.github.tartampluch.go-birthday-web"
	KeyringService = "com.github.tartampluch.go-birthday-web"
	KeyringUser    = "session-signing-key"
	LogFileName    = "app.log"
	EnvFile        = ".env"
	EnvPrefix      = "GO_BIRTHDAY_"
)

// -----------------------------------------------------------------------------
// Exit Codes
// -----------------------------------------------------------------------------

const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
)

// -----------------------------------------------------------------------------
// System & File Permissions
// -----------------------------------------------------------------------------

const (
	// FilePermUserRW represents -rw------- (Read/Write for owner only).
	// Used for sensitive files like logs.
	FilePermUserRW fs.FileMode = 0600

	// DirPermUserRWX represents drwx------ (Read/Write/Exec for owner only).
	DirPermUserRWX fs.FileMode = 0700

	// ChannelBufferSize defines the standard buffer size for internal signaling channels.
	ChannelBufferSize = 1
)

// -----------------------------------------------------------------------------
// Default Values & Business Logic
// -----------------------------------------------------------------------------

const (
	DefaultListenAddr   = "127.0.0.1:18080"
	DefaultDBDriver     = DriverSQLite
	DefaultDSN          = "site.db"
	DefaultLanguage     = "en"
	DefaultSessionTTL   = 24 * time.Hour
	DefaultSummaryTTL   = 24 * time.Hour
	DefaultUpcomingDays = 30
	UIDSalt             = "go-birthday-v1-" // Salt for deterministic UID generation

	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	// Field limits inherited from the original sign-up and record forms.
	UsernameMinLen = 2
	UsernameMaxLen = 20
	PasswordMinLen = 2
	PasswordMaxLen = 20
	NameMaxLen     = 200

	// SigningKeyBytes is the entropy of a generated session signing key.
	SigningKeyBytes = 32
)

// SupportedLanguages defines the list of available message languages (ISO 639-1).
var SupportedLanguages = []string{"en", "fr"}

// -----------------------------------------------------------------------------
// Date Layouts
// -----------------------------------------------------------------------------

const (
	// DateFormatInput is the sole wire format accepted for birthdates.
	DateFormatInput = time.DateOnly
	// DateFormatLong renders "05 Mar 1998".
	DateFormatLong = "02 Jan 2006"
	// DateFormatShort renders "05 Mar".
	DateFormatShort = "02 Jan"

	// Layouts accepted for the vCard BDAY property.
	DateFormatFullDash  = "2006-01-02"
	DateFormatFullBasic = "20060102"
	DateFormatRFC3339   = time.RFC3339
	DateFormatFullT     = "2006-01-02T15:04:05Z"

	// MinYear mirrors the smallest year a calendar date may carry.
	MinYear = 1

	// DaysPerYear is the divisor of the day-count age approximation.
	DaysPerYear = 365
)

// -----------------------------------------------------------------------------
// Translation Keys (I18n)
// -----------------------------------------------------------------------------

const (
	TKeyErrInvalidDate   = "err_invalid_date"
	TKeyErrNameTaken     = "err_name_taken"
	TKeyErrNameRequired  = "err_name_required"
	TKeyErrNameTooLong   = "err_name_too_long"
	TKeyErrNotFound      = "err_not_found"
	TKeyErrUnauthorized  = "err_unauthorized"
	TKeyErrBadRequest    = "err_bad_request"
	TKeyErrInternal      = "err_internal"
	TKeyErrUserTaken     = "err_username_taken"
	TKeyErrUserLength    = "err_username_length"
	TKeyErrPassLength    = "err_password_length"
	TKeyErrPassMismatch  = "err_password_mismatch"
	TKeyErrCredentials   = "err_invalid_credentials"
	TKeyErrImportSource  = "err_import_source"
	TKeyErrImportFetch   = "err_import_fetch"
	TKeyErrImportTarget  = "err_import_target"
	TKeyMsgAdded         = "msg_added"
	TKeyMsgUpdated       = "msg_updated"
	TKeyMsgDeleted       = "msg_deleted" // Requires Name
	TKeyMsgRegistered    = "msg_registered"
	TKeyMsgLoggedOut     = "msg_logged_out"
	TKeyMsgImported      = "msg_imported" // Requires Count
	TKeyEvtSummary       = "event_summary"       // Requires Name
	TKeyEvtSummaryAge    = "event_summary_age"   // Requires Name, Age
	TKeyEvtSummaryBirth  = "event_summary_birth" // Requires Name (For age 0)
	TKeyCalendarName     = "calendar_name"
	TKeyReminderDesc     = "reminder_description" // Requires Name
)

// -----------------------------------------------------------------------------
// Standards: iCalendar & vCard
// -----------------------------------------------------------------------------

const (
	// iCal Properties
	ICalVersion   = "2.0"
	ICalProdid    = "-//Go Birthday//Web//EN"
	ICalMethod    = "PUBLISH"
	ICalScale     = "GREGORIAN"
	ICalComponent = "VALARM"
	ICalAction    = "DISPLAY"
	ICalDomain    = "gobirthday"

	// iCal/vCard Fields
	PropUID         = "UID"
	PropSummary     = "SUMMARY"
	PropDTStart     = "DTSTART"
	PropDTStamp     = "DTSTAMP"
	PropRefresh     = "REFRESH-INTERVAL"
	PropAction      = "ACTION"
	PropDescription = "DESCRIPTION"
	PropTrigger     = "TRIGGER"
	PropVersion     = "VERSION"
	PropProdid      = "PRODID"
	PropXWRCalName  = "X-WR-CALNAME"
	PropCalScale    = "CALSCALE"
	PropMethod      = "METHOD"

	VCardBDAY = "BDAY"
	VCardFN   = "FN"

	DefaultICalRefresh = 12 * time.Hour
	DefaultReminder    = "-P1D"

	// UID Generation
	UIDHashLength   = 16
	FormatHashInput = "%s|%s|%s"
	FormatUID       = "%s-%d@%s"

	// MaxCardErrors aborts decoding after this many malformed cards in a row.
	MaxCardErrors = 50

	FallbackName = "Unknown"

	// StubVCalendar is the minimal valid iCalendar object used when no events are found.
	StubVCalendar = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + ICalProdid + "\r\nEND:VCALENDAR\r\n"
)

// -----------------------------------------------------------------------------
// Network & Timeouts
// -----------------------------------------------------------------------------

const (
	HTTPTimeout         = 30 * time.Second
	DialTimeout         = 10 * time.Second
	ShutdownTimeout     = 5 * time.Second
	ServerReadTimeout   = 10 * time.Second
	ServerWriteTimeout  = 30 * time.Second
	ServerIdleTimeout   = 60 * time.Second
	MaxHTTPResponseSize = 32 * 1024 * 1024 // 32MB
	MaxUploadSize       = 8 * 1024 * 1024  // 8MB
	MaxJSONBody         = 1 << 20
	SchemeHTTP          = "http"
	SchemeHTTPS         = "https"

	DBConnectTimeout = 3 * time.Second
	DBMaxOpenConns   = 10
	DBMaxIdleConns   = 5
	DBConnMaxIdle    = 5 * time.Minute
	DBConnMaxLife    = 30 * time.Minute
	DBSlowThreshold  = 1 * time.Second
)

// -----------------------------------------------------------------------------
// HTTP Routes, Headers & MIME Types
// -----------------------------------------------------------------------------

const (
	RouteHealth    = "/healthz"
	RouteMetrics   = "/metrics"
	RouteCalendar  = "/calendar.ics"
	RouteAPI       = "/api"
	RouteRegister  = "/register"
	RouteLogin     = "/login"
	RouteLogout    = "/logout"
	RouteBirthdays = "/birthdays"
	RouteUpcoming  = "/upcoming"
	RouteImport    = "/import"
	RouteByID      = "/{id}"
	URLParamID     = "id"

	QueryToken = "token"
	QueryDays  = "days"
	FormFile   = "file"

	SessionCookie = "session"
	BearerScheme  = "Bearer"

	HeaderContentType     = "Content-Type"
	HeaderContentLength   = "Content-Length"
	HeaderCacheControl    = "Cache-Control"
	HeaderETag            = "ETag"
	HeaderXContentType    = "X-Content-Type-Options"
	HeaderUserAgent       = "User-Agent"
	HeaderIfNoneMatch     = "If-None-Match"
	HeaderAuthorization   = "Authorization"
	HeaderAcceptLanguage  = "Accept-Language"
	HeaderContentLanguage = "Content-Language"

	MimeTextCalendar    = "text/calendar; charset=utf-8"
	MimeJSON            = "application/json; charset=utf-8"
	MimeMultipart       = "multipart/form-data"
	MimeNoSniff         = "nosniff"
	CacheControlPrivate = "private, no-cache"

	HealthOK          = "ok"
	HealthUnavailable = "unavailable"

	// FormatETag expects a string argument.
	FormatETag = `"%s"`
)

// -----------------------------------------------------------------------------
// API Error Codes (machine readable)
// -----------------------------------------------------------------------------

const (
	CodeInvalidDate   = "invalid_date"
	CodeInvalidInput  = "invalid_input"
	CodeNameTaken     = "name_taken"
	CodeUserTaken     = "username_taken"
	CodeNotFound      = "not_found"
	CodeUnauthorized  = "unauthorized"
	CodeInternal      = "internal_error"
	CodeImportFailed  = "import_failed"
	CodeImportBlocked = "import_blocked"
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrInvalidDate      = "invalid calendar date"
	ErrDateFormat       = "date must be in YYYY-MM-DD format"
	ErrDateYearRange    = "year is out of range"
	ErrDateParse        = "unable to parse date"
	ErrServerStartup    = "server startup failed"
	ErrServerShutdown   = "server shutdown failed"
	ErrAddrRequired     = "listen address is required"
	ErrInvalidURL       = "invalid URL structure"
	ErrProtocol         = "unsupported protocol scheme (http/https only)"
	ErrICalEncode       = "failed to encode iCalendar data"
	ErrLogFile          = "failed to open log file"
	ErrCacheDir         = "could not determine user cache dir"
	ErrCreateDir        = "could not create app cache dir"
	ErrAppFailed        = "application failed unexpectedly"
	ErrWriteResp        = "failed to write response body"
	ErrLocalesAccess    = "failed to access embedded locales"
	ErrLocaleLoad       = "failed to load locale file"
	ErrDBOpen           = "failed to open database"
	ErrDBMigrate        = "failed to migrate database schema"
	ErrDBDriver         = "unsupported database driver"
	ErrDBQuery          = "database query failed"
	ErrKeyring          = "keyring access failed"
	ErrSigningKey       = "session signing key unavailable"
	ErrHashPassword     = "could not hash password"
	ErrTokenSign        = "could not sign session token"
	ErrTokenInvalid     = "invalid session token"
	ErrFetcherMissing   = "internal error: network fetcher is not initialized"
	ErrFetchRequest     = "failed to create request"
	ErrFetchNetwork     = "network error during fetch"
	ErrFetchStatus      = "server returned unexpected status"
	ErrVCardRead        = "too many consecutive malformed vCards"
	ErrImportSource     = "import requires either an uploaded file or a URL"
	ErrImportFetch      = "failed to fetch remote vCards"
	ErrSummaryCompute   = "failed to compute birthdate summary"
	ErrRequestDecode    = "failed to decode request body"
	ErrRecordNotFound   = "birthday not found"
	ErrRowNotFound      = "record not found"
	ErrRowConflict      = "record already exists"
	ErrAddrBlocked      = "address is not allowed for remote import"
	ErrNameTaken        = "name already exists"
	ErrNameRequired     = "name is required"
	ErrNameTooLong      = "name is too long"
	ErrUsernameTaken    = "username already exists"
	ErrUsernameLength   = "username length out of range"
	ErrPasswordLength   = "password length out of range"
	ErrPasswordMismatch = "passwords must match"
	ErrCredentials      = "invalid username or password"
)

// -----------------------------------------------------------------------------
// Log Messages
// -----------------------------------------------------------------------------

const (
	MsgAppStarting   = "Starting application"
	MsgAppStop       = "Application stopped gracefully"
	MsgServerListen  = "HTTP server listening"
	MsgServerStop    = "Shutting down HTTP server..."
	MsgRequest       = "HTTP request"
	MsgDotenvMissing = "No .env file loaded"
	MsgDBOpened      = "Database opened"
	MsgKeyGenerated  = "Generated new session signing key"
	MsgKeyFromRing   = "Session signing key loaded from keyring"
	MsgKeyringFail   = "Keyring unavailable, signing key will not persist"
	MsgUserCreated   = "User registered"
	MsgLoginFailed   = "Login failed"
	MsgBdayCreated   = "Birthday created"
	MsgBdayUpdated   = "Birthday updated"
	MsgBdayDeleted   = "Birthday deleted"
	MsgBdayToday     = "Birthday found today"
	MsgParseRejected = "Birthdate rejected"
	MsgSkippedCard   = "Skipping malformed vCard"
	MsgSkippedDate   = "Skipping invalid date format"
	MsgImportDone    = "vCard import finished"
	MsgImportFailed  = "vCard import failed"
	MsgRequestFailed = "Request failed"
	MsgGenSuccess    = "Calendar generation successful"
	MsgFetchStart    = "Initiating vCard download"
	MsgFetchStatus   = "Server returned error status"
	MsgFetchOK       = "vCards downloading"
	MsgLocaleSkip    = "Skipping non-locale file"
	MsgLocaleBadName = "Skipping malformed locale filename"
	MsgLocaleLoaded  = "Locale loaded successfully"
	MsgTransMissing  = "Missing translation key"
	MsgLogWarning    = "Warning: %s at %s: %v\n"
	MsgVersionOutput = "%s version %s (%s/%s)\n"
)

// -----------------------------------------------------------------------------
// Structured Logging Keys (slog)
// -----------------------------------------------------------------------------

const (
	LogKeyComponent = "component"
	LogKeyError     = "error"
	LogKeyURL       = "url"
	LogKeyStatus    = "status_code"
	LogKeyFile      = "file"
	LogKeyLang      = "lang"
	LogKeyKey       = "key"
	LogKeyAddr      = "addr"
	LogKeyDriver    = "driver"
	LogKeyUser      = "user"
	LogKeyUserID    = "user_id"
	LogKeyRecordID  = "record_id"
	LogKeyMethod    = "method"
	LogKeyPath      = "path"
	LogKeyRoute     = "route"
	LogKeyRequestID = "request_id"
	LogKeyValue     = "value"
	LogKeyStats     = "stats"
	LogKeyTotal     = "total_cards"
	LogKeyFound     = "birthdays_found"
	LogKeySkipped   = "skipped"
	LogKeyToday     = "birthdays_today"
	LogKeyCount     = "count"
	LogKeyName      = "name"
	LogKeyDOB       = "date_of_birth"
	LogKeyDuration  = "duration_ms"
	LogKeyLength    = "content_length"

	// Startup Info Keys
	LogKeyBuild   = "build"
	LogKeyApp     = "app"
	LogKeyVersion = "version"
	LogKeyCommit  = "commit"
	LogKeyBuilt   = "built"
	LogKeyGoVer   = "go_version"
	LogKeyEnv     = "env"
	LogKeyOS      = "os"
	LogKeyArch    = "arch"
	LogKeyPID     = "pid"
)

// -----------------------------------------------------------------------------
// Log Components
// -----------------------------------------------------------------------------

const (
	CompMain      = "main"
	CompConfig    = "config"
	CompServer    = "server"
	CompStore     = "store"
	CompAuth      = "auth"
	CompBirthdays = "birthdays"
	CompEngine    = "engine"
	CompFetcher   = "fetcher"
	CompI18n      = "i18n"
)

// -----------------------------------------------------------------------------
// Metrics
// -----------------------------------------------------------------------------

const (
	MetricsNamespace     = "gobirthday"
	MetricLabelRoute     = "route"
	MetricRouteUnmatched = "unmatched"

	MetricUsersRegistered  = "users_registered_total"
	MetricLoginFailures    = "login_failures_total"
	MetricBirthdaysCreated = "birthdays_created_total"
	MetricBirthdaysUpdated = "birthdays_updated_total"
	MetricBirthdaysDeleted = "birthdays_deleted_total"
	MetricParseFailures    = "birthdate_parse_failures_total"
	MetricVCardsImported   = "vcards_imported_total"
	MetricRequestDuration  = "http_request_duration_seconds"

	HelpUsersRegistered  = "Total number of registered users"
	HelpLoginFailures    = "Total number of rejected logins"
	HelpBirthdaysCreated = "Total number of birthday records created"
	HelpBirthdaysUpdated = "Total number of birthday records updated"
	HelpBirthdaysDeleted = "Total number of birthday records deleted"
	HelpParseFailures    = "Total number of submitted birthdates that were not valid calendar dates"
	HelpVCardsImported   = "Total number of birthday records created from vCards"
	HelpRequestDuration  = "Duration of HTTP requests by route pattern"
)
