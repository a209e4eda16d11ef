package server

import (
	"errors"
	"net/http"
	"path/filepath"
	"time"

	"github.com/authgate/authgate/internal/auditlog"
	"github.com/authgate/authgate/internal/auth"
	"github.com/authgate/authgate/internal/config"
	"github.com/authgate/authgate/internal/credstore"
)

type Server struct {
	cfg   config.Config
	creds *credstore.Store
	audit *auditlog.Store
	h     http.Handler
}

// New opens both stores under cfg.DataDir (creating them on first run) and
// wires up the HTTP app.
func New(cfg config.Config) (*Server, error) {
	hasher := auth.NewHasher([]byte(cfg.Secret))

	creds, err := credstore.Open(filepath.Join(cfg.DataDir, "user"), hasher)
	if err != nil {
		return nil, err
	}
	audit, err := auditlog.Open(filepath.Join(cfg.DataDir, "log"))
	if err != nil {
		_ = creds.Close()
		return nil, err
	}

	app, err := newApp(cfg, creds, audit)
	if err != nil {
		_ = creds.Close()
		_ = audit.Close()
		return nil, err
	}

	return &Server{cfg: cfg, creds: creds, audit: audit, h: app.routes()}, nil
}

func (s *Server) ListenAndServe() error {
	httpSrv := &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s.h,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return httpSrv.ListenAndServe()
}

func (s *Server) Close() error {
	return errors.Join(s.creds.Close(), s.audit.Close())
}
