package server

import (
	"embed"
	"html/template"
	"net/http"
	"time"

	"github.com/authgate/authgate/internal/auditlog"
	"github.com/authgate/authgate/internal/auth"
	"github.com/authgate/authgate/internal/config"
	"github.com/authgate/authgate/internal/credstore"
	"github.com/authgate/authgate/internal/logger"
)

//go:embed templates/*.html
var templatesFS embed.FS

const (
	sessionTTL     = 24 * time.Hour
	defaultLogPath = "/log/" + auditlog.EveryoneChannel + "/" + auditlog.BoundBegin + "/" + auditlog.BoundNow
)

type App struct {
	cfg        config.Config
	secret     []byte
	cookieName string
	pages      map[string]*template.Template
	creds      *credstore.Store
	audit      *auditlog.Store
	notice     template.HTML
}

type ViewData struct {
	HideNav bool

	// login
	Failed bool
	Notice template.HTML

	// user list
	Users []string

	// log viewer
	Channel   string
	Since     string
	Till      string
	Entries   []LogRow
	HasNext   bool
	OlderTill string
}

// LogRow is an audit entry plus its locally-formatted display time.
type LogRow struct {
	auditlog.Entry
	FormattedTime string
}

func newApp(cfg config.Config, creds *credstore.Store, audit *auditlog.Store) (*App, error) {
	pages := map[string]*template.Template{}
	// Each page file overrides the title/content blocks of the layout.
	for _, page := range []string{"login", "users", "log"} {
		t, err := template.New("layout.html").ParseFS(templatesFS,
			"templates/layout.html", "templates/"+page+".html")
		if err != nil {
			return nil, err
		}
		pages[page] = t
	}

	return &App{
		cfg:        cfg,
		secret:     []byte(cfg.Secret),
		cookieName: auth.DefaultCookieName,
		pages:      pages,
		creds:      creds,
		audit:      audit,
		notice:     RenderMarkdown(cfg.Notice),
	}, nil
}

func (a *App) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /auth", a.handleAuth)

	mux.HandleFunc("GET /admin/login", a.handleLoginPage)
	mux.HandleFunc("POST /admin/login", a.handleLoginSubmit)
	mux.HandleFunc("GET /admin/logout", a.handleLogout)

	mux.HandleFunc("GET /user", a.requireAdmin(a.handleUsers))
	mux.HandleFunc("POST /user/new", a.requireAdmin(a.handleUserCreate))
	mux.HandleFunc("POST /user/{id}", a.requireAdmin(a.handleUserUpdate))
	mux.HandleFunc("GET /log/{user}/{since}/{till}", a.requireAdmin(a.handleLog))

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, defaultLogPath, http.StatusSeeOther)
	})

	mux.HandleFunc("GET /api/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("{\"ok\":true}\n"))
	})

	return a.withSession(mux)
}

func (a *App) issueCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     a.cookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(sessionTTL.Seconds()),
	})
}

func (a *App) clearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     a.cookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

func (a *App) renderPage(w http.ResponseWriter, page string, data *ViewData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	t := a.pages[page]
	if t == nil {
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}
	if err := t.ExecuteTemplate(w, "layout", data); err != nil {
		logger.Error("render %s page: %v", page, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
