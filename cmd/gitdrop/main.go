package main

import (
	"net/http"
	"os"

	"github.com/gitdrop/gitdrop/internal/api"
	"github.com/gitdrop/gitdrop/internal/batch"
	"github.com/gitdrop/gitdrop/internal/config"
	"github.com/gitdrop/gitdrop/internal/github"
	"github.com/gitdrop/gitdrop/internal/logging"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load(".env")
	log := logging.New()

	cfg, err := config.Load()
	if err != nil {
		log.Error("configuration error", "error", err)
		os.Exit(1)
	}

	gh := github.New(github.Options{
		Token:     cfg.Token,
		Owner:     cfg.RepoOwner,
		Repo:      cfg.RepoName,
		UserAgent: cfg.UserAgent,
	})
	writer := batch.NewWriter(gh, batch.Options{
		Branch:      cfg.Branch,
		Concurrency: cfg.WriteConcurrency,
		Logger:      log,
	})
	router := api.NewRouter(api.NewHandler(writer), cfg.AllowedOrigins, log)

	log.Info("gitdrop listening", "addr", cfg.Addr(), "repo", cfg.RepoOwner+"/"+cfg.RepoName, "branch", cfg.Branch)
	if err := http.ListenAndServe(cfg.Addr(), router); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
