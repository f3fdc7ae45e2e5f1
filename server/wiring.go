package server

import (
	"worker-recsync/config"
	"worker-recsync/pkg/gworkspace"
	"worker-recsync/pkg/mirror"
	"worker-recsync/pkg/revai"
	"worker-recsync/pkg/storage"
	"worker-recsync/pkg/zoom"
	"worker-recsync/repository"
	"worker-recsync/service"
)

// NewSyncService wires the full pipeline from config. Shared by the
// queue-driven server and the one-shot sync command.
func NewSyncService(cfg *config.Config) service.SyncService {
	repo := repository.NewRepo(cfg.DB)

	store := storage.NewMinioStore(cfg.Storage, cfg.MinIOBucket)
	relay := service.NewRelay(store)
	readMirror := mirror.NewRedisMirror(cfg.Mirror)

	conference := zoom.NewClient(zoom.Config{
		AccountID:    cfg.Conference.AccountID,
		ClientID:     cfg.Conference.ClientID,
		ClientSecret: cfg.Conference.ClientSecret,
	})

	workspace := gworkspace.NewClient()
	auth := gworkspace.NewAuthenticator(
		cfg.Workspace.ServiceAccountJSON,
		cfg.Workspace.ClientID,
		cfg.Workspace.ClientSecret,
		cfg.Workspace.RefreshToken,
	)
	resolver := service.NewCredentialResolver(auth, workspace, repo)

	transcriber := revai.NewClient(cfg.Transcription.APIKey, "")
	jobs := service.NewTranscriptionManager(transcriber, repo, revai.MaxMediaBytes)

	zoomSync := service.NewZoomSync(conference, store, relay, repo)
	calendarSync := service.NewCalendarSync(workspace, resolver, store, relay, repo, readMirror, jobs)

	return service.NewSyncService(repo, zoomSync, calendarSync, jobs)
}
