package main

import (
	"log"
	"os"
	"path/filepath"

	"github.com/authgate/authgate/internal/config"
	"github.com/authgate/authgate/internal/logger"
	"github.com/authgate/authgate/internal/server"
)

func main() {
	cfgPath := os.Getenv("AUTHGATE_CONFIG")
	if cfgPath == "" {
		cfgPath = "authgate.yaml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatal(err)
	}

	if err := logger.Init(filepath.Join(cfg.DataDir, "logs")); err != nil {
		log.Fatal(err)
	}
	defer logger.Close()

	srv, err := server.New(cfg)
	if err != nil {
		logger.Error("startup: %v", err)
		os.Exit(1)
	}
	defer srv.Close()

	logger.Info("authgate listening on %s", cfg.Listen)
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("server: %v", err)
		os.Exit(1)
	}
}
