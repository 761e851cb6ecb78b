package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/tartampluch/go-birthday-web/internal/auth"
	"github.com/tartampluch/go-birthday-web/internal/birthdate"
	"github.com/tartampluch/go-birthday-web/internal/birthdays"
	"github.com/tartampluch/go-birthday-web/internal/config"
	"github.com/tartampluch/go-birthday-web/internal/engine"
	"github.com/tartampluch/go-birthday-web/internal/i18n"
)

var (
	errBadRequest    = errors.New(config.ErrRequestDecode)
	errImportSource  = errors.New(config.ErrImportSource)
	errUnauthorized  = errors.New(config.ErrTokenInvalid)
	errImportFailure = errors.New(config.ErrImportFetch)
)

// apiError is the body of every failed API call.
type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorEnvelope struct {
	Error apiError `json:"error"`
}

type messageEnvelope struct {
	Message string `json:"message"`
}

// errorMapping ties a domain error to its HTTP status, machine code and translation key.
type errorMapping struct {
	target error
	status int
	code   string
	key    string
}

// errorMappings is checked in order with errors.Is; the first match wins.
// Blocked import targets wrap errImportFailure too and must stay above it.
var errorMappings = []errorMapping{
	{birthdate.ErrInvalidDate, http.StatusBadRequest, config.CodeInvalidDate, config.TKeyErrInvalidDate},
	{birthdays.ErrNameTaken, http.StatusConflict, config.CodeNameTaken, config.TKeyErrNameTaken},
	{birthdays.ErrNameRequired, http.StatusBadRequest, config.CodeInvalidInput, config.TKeyErrNameRequired},
	{birthdays.ErrNameTooLong, http.StatusBadRequest, config.CodeInvalidInput, config.TKeyErrNameTooLong},
	{birthdays.ErrNotFound, http.StatusNotFound, config.CodeNotFound, config.TKeyErrNotFound},
	{auth.ErrUsernameTaken, http.StatusConflict, config.CodeUserTaken, config.TKeyErrUserTaken},
	{auth.ErrUsernameLength, http.StatusBadRequest, config.CodeInvalidInput, config.TKeyErrUserLength},
	{auth.ErrPasswordLength, http.StatusBadRequest, config.CodeInvalidInput, config.TKeyErrPassLength},
	{auth.ErrPasswordMismatch, http.StatusBadRequest, config.CodeInvalidInput, config.TKeyErrPassMismatch},
	{auth.ErrInvalidCredentials, http.StatusUnauthorized, config.CodeUnauthorized, config.TKeyErrCredentials},
	{errUnauthorized, http.StatusUnauthorized, config.CodeUnauthorized, config.TKeyErrUnauthorized},
	{errImportSource, http.StatusBadRequest, config.CodeInvalidInput, config.TKeyErrImportSource},
	{engine.ErrAddressBlocked, http.StatusBadRequest, config.CodeImportBlocked, config.TKeyErrImportTarget},
	{errImportFailure, http.StatusBadGateway, config.CodeImportFailed, config.TKeyErrImportFetch},
	{errBadRequest, http.StatusBadRequest, config.CodeInvalidInput, config.TKeyErrBadRequest},
}

// writeJSON renders v with status. Encoding errors are only logged:
// the header is already on the wire by then.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set(config.HeaderContentType, config.MimeJSON)
	w.Header().Set(config.HeaderXContentType, config.MimeNoSniff)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error(config.ErrWriteResp,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyError, err,
		)
	}
}

// writeError maps err to a localized API error. Unmapped errors are logged and
// reported as 500 without leaking their text.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	tr := s.translator(r)

	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			if m.code == config.CodeInvalidDate {
				s.metrics.ParseFailures.Inc()
			}
			writeJSON(w, m.status, errorEnvelope{Error: apiError{Code: m.code, Message: tr.T(m.key, nil)}})
			return
		}
	}

	slog.ErrorContext(r.Context(), config.MsgRequestFailed,
		config.LogKeyComponent, config.CompServer,
		config.LogKeyMethod, r.Method,
		config.LogKeyPath, r.URL.Path,
		config.LogKeyError, err,
	)
	writeJSON(w, http.StatusInternalServerError, errorEnvelope{
		Error: apiError{Code: config.CodeInternal, Message: tr.T(config.TKeyErrInternal, nil)},
	})
}

// translator picks the catalog language from Accept-Language.
func (s *Server) translator(r *http.Request) *i18n.Translator {
	return s.catalog.For(r.Header.Get(config.HeaderAcceptLanguage))
}

// decodeJSON reads a size-capped JSON body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, config.MaxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: %w", errBadRequest, err)
	}
	return nil
}
