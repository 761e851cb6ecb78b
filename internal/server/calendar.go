package server

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/tartampluch/go-birthday-web/internal/config"
)

// handleCalendar renders the caller's birthdays as an iCalendar feed.
// The feed is rebuilt on every request; its DTSTAMP is pinned to the day, so the
// ETag only changes with the data or the date and clients get 304 in between.
func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	entries, err := s.birthdays.List(r.Context(), identity(r).UserID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	data, today, err := s.calendar.Calendar(r.Context(), entries, s.birthdays.Today(), s.translator(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if today > 0 {
		slog.DebugContext(r.Context(), config.MsgBdayToday,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyUserID, identity(r).UserID,
			config.LogKeyCount, today,
		)
	}

	hash := sha256.Sum256(data)
	etag := fmt.Sprintf(config.FormatETag, hex.EncodeToString(hash[:]))

	w.Header().Set(config.HeaderContentType, config.MimeTextCalendar)
	w.Header().Set(config.HeaderXContentType, config.MimeNoSniff)
	w.Header().Set(config.HeaderCacheControl, config.CacheControlPrivate)
	w.Header().Set(config.HeaderETag, etag)

	if etagMatches(r.Header.Get(config.HeaderIfNoneMatch), etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set(config.HeaderContentLength, strconv.Itoa(len(data)))

	if r.Method == http.MethodHead {
		w.WriteHeader(http.StatusOK)
		return
	}
	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		slog.ErrorContext(r.Context(), config.ErrWriteResp,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyError, err,
		)
	}
}

// etagMatches implements the weak comparison of If-None-Match, list and "*" included.
func etagMatches(header, etag string) bool {
	if header == "" {
		return false
	}
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" || strings.TrimPrefix(candidate, "W/") == etag {
			return true
		}
	}
	return false
}
