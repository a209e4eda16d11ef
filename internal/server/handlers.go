package server

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"github.com/authgate/authgate/internal/auditlog"
	"github.com/authgate/authgate/internal/auth"
	"github.com/authgate/authgate/internal/logger"
)

var resultInvalid = auditlog.Result{Success: false, Error: "invalid_credentials"}

type authRequest struct {
	User string `json:"user"`
	Pass string `json:"pass"`
}

// handleAuth verifies a credential pair and records the outcome on both
// audit channels. Every failure mode maps to the same response body.
func (a *App) handleAuth(w http.ResponseWriter, r *http.Request) {
	var req authRequest
	// A malformed body behaves like missing fields.
	_ = json.NewDecoder(r.Body).Decode(&req)

	res := a.authenticate(req.User, req.Pass)

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(res)

	// Best-effort telemetry: a failed append never affects the response.
	if err := a.audit.Record(req.User, res); err != nil {
		logger.Warn("audit append for user %q: %v", req.User, err)
	}
}

func (a *App) authenticate(user, pass string) auditlog.Result {
	if user == "" || pass == "" {
		return resultInvalid
	}
	ok, err := a.creds.Verify(user, pass)
	if err != nil {
		// Store trouble is indistinguishable from bad credentials to the
		// caller; the operator sees it in the log.
		logger.Error("credential lookup for %q: %v", user, err)
		return resultInvalid
	}
	if !ok {
		return resultInvalid
	}
	return auditlog.Result{Success: true}
}

func (a *App) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if isAdminFrom(r) {
		http.Redirect(w, r, defaultLogPath, http.StatusSeeOther)
		return
	}
	a.renderPage(w, "login", &ViewData{HideNav: true, Notice: a.notice})
}

func (a *App) handleLoginSubmit(w http.ResponseWriter, r *http.Request) {
	if isAdminFrom(r) {
		http.Redirect(w, r, defaultLogPath, http.StatusSeeOther)
		return
	}
	_ = r.ParseForm()
	user := r.Form.Get("user")
	pass := r.Form.Get("pass")

	userOK := subtle.ConstantTimeCompare([]byte(user), []byte(a.cfg.Admin.User))
	passOK := subtle.ConstantTimeCompare([]byte(pass), []byte(a.cfg.Admin.Pass))
	if userOK&passOK != 1 {
		logger.Info("failed admin login for user %q from %s", user, remoteIP(r))
		a.renderPage(w, "login", &ViewData{HideNav: true, Failed: true, Notice: a.notice})
		return
	}

	tok, err := auth.SignSession(a.secret, sessionTTL)
	if err != nil {
		logger.Error("sign session: %v", err)
		a.renderPage(w, "login", &ViewData{HideNav: true, Failed: true, Notice: a.notice})
		return
	}
	logger.Info("admin logged in from %s", remoteIP(r))
	a.issueCookie(w, tok)
	http.Redirect(w, r, defaultLogPath, http.StatusSeeOther)
}

func (a *App) handleLogout(w http.ResponseWriter, r *http.Request) {
	a.clearCookie(w)
	http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
}

func (a *App) handleUsers(w http.ResponseWriter, r *http.Request) {
	users, err := a.creds.List()
	if err != nil {
		logger.Error("list users: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	a.renderPage(w, "users", &ViewData{Users: users})
}

func (a *App) handleUserCreate(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	user := r.Form.Get("user")
	pass := r.Form.Get("pass")
	// Incomplete submissions bounce back without touching the store.
	if user == "" || pass == "" {
		http.Redirect(w, r, "/user", http.StatusSeeOther)
		return
	}
	if err := a.creds.SetPassword(user, pass); err != nil {
		logger.Error("set password for %q: %v", user, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/user", http.StatusSeeOther)
}

// handleUserUpdate overwrites the password when one is submitted and
// deletes the user otherwise. Delete failures are logged and swallowed so
// the console stays usable.
func (a *App) handleUserUpdate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	_ = r.ParseForm()
	pass := r.Form.Get("pass")

	if pass == "" {
		if err := a.creds.Delete(id); err != nil {
			logger.Error("delete user %q: %v", id, err)
		}
		http.Redirect(w, r, "/user", http.StatusSeeOther)
		return
	}
	if err := a.creds.SetPassword(id, pass); err != nil {
		logger.Error("set password for %q: %v", id, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/user", http.StatusSeeOther)
}

func (a *App) handleLog(w http.ResponseWriter, r *http.Request) {
	channel := r.PathValue("user")
	sinceRaw := r.PathValue("since")
	tillRaw := r.PathValue("till")

	since, err := auditlog.ParseBound(sinceRaw)
	if err != nil {
		http.Error(w, "bad time bound", http.StatusBadRequest)
		return
	}
	till, err := auditlog.ParseBound(tillRaw)
	if err != nil {
		http.Error(w, "bad time bound", http.StatusBadRequest)
		return
	}

	entries, hasNext, err := a.audit.QueryRange(channel, since, till, a.cfg.LogPageSize)
	if err != nil {
		logger.Error("query log channel %q: %v", channel, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	rows := make([]LogRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, LogRow{Entry: e, FormattedTime: auditlog.DisplayTime(e.Time)})
	}

	data := &ViewData{
		Channel: channel,
		Since:   sinceRaw,
		Till:    tillRaw,
		Entries: rows,
		HasNext: hasNext,
	}
	if hasNext && len(rows) > 0 {
		// Oldest displayed timestamp doubles as the bound for the next
		// (older) page; the boundary entry repeats there.
		data.OlderTill = rows[len(rows)-1].Time
	}
	a.renderPage(w, "log", data)
}
