package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"foodlog/internal/app"
	"foodlog/internal/util"
	"foodlog/pkg/auth"
	"foodlog/pkg/domain"
)

const maxBodyBytes = 1 << 20

// Config wires required dependencies for the HTTP server.
type Config struct {
	App *app.App
}

// Server exposes the HTTP/JSON API.
type Server struct {
	app *app.App
	mux *http.ServeMux
}

// New constructs the server with routes configured.
func New(cfg Config) *Server {
	s := &Server{
		app: cfg.App,
		mux: http.NewServeMux(),
	}
	s.routes()
	return s
}

// Router returns the configured handler wrapped in the ambient middleware.
func (s *Server) Router() http.Handler {
	return util.WithRequestID(
		util.WithRequestLog(
			util.WithSecurityHeaders(
				util.WithCORS(s.mux))))
}

func (s *Server) routes() {
	s.mux.HandleFunc("/healthz", s.handleHealth)

	// auth
	s.mux.HandleFunc("/api/auth/register", s.handleRegister)
	s.mux.HandleFunc("/api/auth/login", s.handleLogin)

	// records (auth required)
	s.mux.Handle("/api/records", s.authenticated(s.handleRecords))
	s.mux.Handle("/api/records/", s.authenticated(s.handleRecordByID))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// authHandler receives the verified caller identity explicitly; nothing is
// smuggled through shared request state.
type authHandler func(http.ResponseWriter, *http.Request, domain.Identity)

func (s *Server) authenticated(next authHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "authentication token required")
			return
		}
		identity, ok := s.app.IdentityFromToken(token)
		if !ok {
			writeError(w, http.StatusUnauthorized, "invalid authentication token")
			return
		}
		next(w, r, identity)
	})
}

// auth handlers

type authRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	Message string      `json:"message"`
	Token   string      `json:"token"`
	User    domain.User `json:"user"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var req authRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	user, token, err := s.app.Register(req.Username, req.Password)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, authResponse{Message: "registration successful", Token: token, User: user})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var req authRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	user, token, err := s.app.Login(req.Username, req.Password)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, authResponse{Message: "login successful", Token: token, User: user})
}

// record handlers

func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request, caller domain.Identity) {
	switch r.Method {
	case http.MethodGet:
		records, err := s.app.ListRecords(caller)
		if err != nil {
			s.writeAppError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, records)
	case http.MethodPost:
		fields, ok := decodeRecordFields(w, r)
		if !ok {
			return
		}
		record, err := s.app.CreateRecord(caller, fields)
		if err != nil {
			s.writeAppError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, record)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleRecordByID(w http.ResponseWriter, r *http.Request, caller domain.Identity) {
	id, ok := recordID(r)
	if !ok {
		writeError(w, http.StatusNotFound, app.ErrRecordNotFound.Error())
		return
	}
	switch r.Method {
	case http.MethodGet:
		record, err := s.app.GetRecord(caller, id)
		if err != nil {
			s.writeAppError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, record)
	case http.MethodPut:
		fields, ok := decodeRecordFields(w, r)
		if !ok {
			return
		}
		record, err := s.app.UpdateRecord(caller, id, fields)
		if err != nil {
			s.writeAppError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, record)
	case http.MethodDelete:
		if err := s.app.DeleteRecord(caller, id); err != nil {
			s.writeAppError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "record deleted"})
	default:
		methodNotAllowed(w)
	}
}

// recordID extracts the numeric id from /api/records/{id}. A non-numeric or
// nested path is treated the same as an id that does not exist.
func recordID(r *http.Request) (int64, bool) {
	raw := strings.TrimPrefix(r.URL.Path, "/api/records/")
	if raw == "" || strings.Contains(raw, "/") {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func decodeRecordFields(w http.ResponseWriter, r *http.Request) (domain.RecordFields, bool) {
	var fields domain.RecordFields
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&fields); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return domain.RecordFields{}, false
	}
	return fields, true
}

// writeAppError maps the domain error taxonomy onto HTTP statuses. Anything
// unrecognized is a storage or internal failure: logged server-side,
// reported to the client as a generic 500.
func (s *Server) writeAppError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, app.ErrUsernameAndPasswordRequired),
		errors.Is(err, auth.ErrPasswordTooShort),
		errors.Is(err, app.ErrUsernameTaken),
		errors.Is(err, app.ErrMissingRecordFields):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, app.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, app.ErrRecordNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		util.LoggerFromContext(r.Context()).Error("request failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func methodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

func bearerToken(r *http.Request) (string, bool) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, prefix))
	if token == "" {
		return "", false
	}
	return token, true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
