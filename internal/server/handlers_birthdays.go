package server

import (
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/tartampluch/go-birthday-web/internal/birthdays"
	"github.com/tartampluch/go-birthday-web/internal/config"
	"github.com/tartampluch/go-birthday-web/internal/engine"
)

type birthdayRequest struct {
	Name      string `json:"name"`
	Birthdate string `json:"birthdate"`
}

type birthdayResponse struct {
	Message  string          `json:"message,omitempty"`
	Birthday birthdays.Entry `json:"birthday"`
}

type listResponse struct {
	Birthdays []birthdays.Entry `json:"birthdays"`
}

type importRequest struct {
	URL  string `json:"url"`
	User string `json:"user"`
	Pass string `json:"pass"`
}

type importResponse struct {
	Message string                 `json:"message"`
	Report  engine.ImportReport    `json:"report"`
	Result  birthdays.ImportResult `json:"result"`
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	list, err := s.birthdays.List(r.Context(), identity(r).UserID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Birthdays: list})
}

// handleUpcoming lists the birthdays at most ?days=N away, config.DefaultUpcomingDays by default.
func (s *Server) handleUpcoming(w http.ResponseWriter, r *http.Request) {
	days := config.DefaultUpcomingDays
	if raw := r.URL.Query().Get(config.QueryDays); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			s.writeError(w, r, fmt.Errorf("%w: %s=%q", errBadRequest, config.QueryDays, raw))
			return
		}
		days = n
	}

	list, err := s.birthdays.Upcoming(r.Context(), identity(r).UserID, days)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Birthdays: list})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var in birthdayRequest
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	e, err := s.birthdays.Create(r.Context(), identity(r).UserID, in.Name, in.Birthdate)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.metrics.BirthdaysCreated.Inc()

	writeJSON(w, http.StatusCreated, birthdayResponse{
		Message:  s.translator(r).T(config.TKeyMsgAdded, nil),
		Birthday: e,
	})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	e, err := s.birthdays.Get(r.Context(), identity(r).UserID, chi.URLParam(r, config.URLParamID))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, birthdayResponse{Birthday: e})
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var in birthdayRequest
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	e, err := s.birthdays.Update(r.Context(), identity(r).UserID, chi.URLParam(r, config.URLParamID), in.Name, in.Birthdate)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.metrics.BirthdaysUpdated.Inc()

	writeJSON(w, http.StatusOK, birthdayResponse{
		Message:  s.translator(r).T(config.TKeyMsgUpdated, nil),
		Birthday: e,
	})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	e, err := s.birthdays.Delete(r.Context(), identity(r).UserID, chi.URLParam(r, config.URLParamID))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.metrics.BirthdaysDeleted.Inc()

	writeJSON(w, http.StatusOK, birthdayResponse{
		Message:  s.translator(r).T(config.TKeyMsgDeleted, map[string]any{"Name": e.Name}),
		Birthday: e,
	})
}

// handleImport accepts either a multipart upload in the "file" field or a JSON
// body naming a remote vCard export.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	var (
		drafts []birthdays.Draft
		report engine.ImportReport
		err    error
	)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get(config.HeaderContentType))
	if strings.EqualFold(mediaType, config.MimeMultipart) {
		drafts, report, err = s.importUpload(w, r)
	} else {
		drafts, report, err = s.importRemote(w, r)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	userID := identity(r).UserID
	res, err := s.birthdays.Import(r.Context(), userID, drafts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.metrics.VCardsImported.Add(float64(res.Created))
	s.metrics.BirthdaysCreated.Add(float64(res.Created))

	writeJSON(w, http.StatusOK, importResponse{
		Message: s.translator(r).Plural(config.TKeyMsgImported, res.Created),
		Report:  report,
		Result:  res,
	})
}

func (s *Server) importUpload(w http.ResponseWriter, r *http.Request) ([]birthdays.Draft, engine.ImportReport, error) {
	r.Body = http.MaxBytesReader(w, r.Body, config.MaxUploadSize)
	file, _, err := r.FormFile(config.FormFile)
	if err != nil {
		return nil, engine.ImportReport{}, fmt.Errorf("%w: %w", errImportSource, err)
	}
	defer func() { _ = file.Close() }()

	drafts, report, err := engine.ParseVCards(r.Context(), file)
	if err != nil {
		return nil, report, fmt.Errorf("%w: %w", errBadRequest, err)
	}
	return drafts, report, nil
}

func (s *Server) importRemote(w http.ResponseWriter, r *http.Request) ([]birthdays.Draft, engine.ImportReport, error) {
	var in importRequest
	if err := decodeJSON(w, r, &in); err != nil {
		return nil, engine.ImportReport{}, err
	}
	if strings.TrimSpace(in.URL) == "" {
		return nil, engine.ImportReport{}, errImportSource
	}

	drafts, report, err := s.importer.FromURL(r.Context(), in.URL, in.User, in.Pass)
	if err != nil {
		slog.WarnContext(r.Context(), config.MsgImportFailed,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyUserID, identity(r).UserID,
			config.LogKeyError, err,
		)
		return nil, report, fmt.Errorf("%w: %w", errImportFailure, err)
	}
	return drafts, report, nil
}
