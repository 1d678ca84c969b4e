package downloader

import (
	"context"
	"time"

	"backend/internal/models"
	"backend/internal/repository"

	"go.uber.org/zap"
)

// Agent starts a download and reports the torrent's info hash.
type Agent interface {
	StartDownload(ctx context.Context, url string) (string, error)
}

// Notifier receives a human-readable note when a download finishes.
type Notifier interface {
	Notify(text string)
}

// Job is a single queued download.
type Job struct {
	TorrentID int64
	URL       string
}

// Dispatcher runs downloads outside the request path. Creation handlers
// enqueue and return immediately; failures here never affect a response.
type Dispatcher struct {
	agent       Agent
	torrentRepo repository.TorrentRepository
	notifier    Notifier
	logger      *zap.Logger
	jobs        chan Job
	timeout     time.Duration
}

func NewDispatcher(agent Agent, torrentRepo repository.TorrentRepository, notifier Notifier, queueSize int, timeout time.Duration, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		agent:       agent,
		torrentRepo: torrentRepo,
		notifier:    notifier,
		logger:      logger,
		jobs:        make(chan Job, queueSize),
		timeout:     timeout,
	}
}

// Enqueue hands a job to the background worker without blocking. It reports
// whether the job was accepted; a full queue rejects the job.
func (d *Dispatcher) Enqueue(job Job) bool {
	select {
	case d.jobs <- job:
		return true
	default:
		d.logger.Warn("Download queue full, rejecting job",
			zap.Int64("torrent_id", job.TorrentID), zap.String("url", job.URL))
		return false
	}
}

// Run consumes the job queue until the context is cancelled. Each job gets
// its own timeout and its own error handling; one failed download never
// stops the loop.
func (d *Dispatcher) Run(ctx context.Context) {
	d.logger.Info("Download dispatcher started.")

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("Download dispatcher stopped.")
			return
		case job := <-d.jobs:
			d.process(ctx, job)
		}
	}
}

func (d *Dispatcher) process(ctx context.Context, job Job) {
	logger := d.logger.With(zap.Int64("torrent_id", job.TorrentID), zap.String("url", job.URL))

	if err := d.torrentRepo.UpdateTorrentStatus(ctx, job.TorrentID, models.TorrentStatusDownloading, ""); err != nil {
		logger.Error("Failed to mark torrent downloading", zap.Error(err))
		return
	}

	agentCtx, cancel := context.WithTimeout(ctx, d.timeout)
	infoHash, err := d.agent.StartDownload(agentCtx, job.URL)
	cancel()

	if err != nil {
		logger.Error("Download failed", zap.Error(err))
		if repoErr := d.torrentRepo.UpdateTorrentStatus(ctx, job.TorrentID, models.TorrentStatusFailed, ""); repoErr != nil {
			logger.Error("Failed to mark torrent failed", zap.Error(repoErr))
		}
		d.notify("Torrent download failed: " + job.URL)
		return
	}

	if err := d.torrentRepo.UpdateTorrentStatus(ctx, job.TorrentID, models.TorrentStatusCompleted, infoHash); err != nil {
		logger.Error("Failed to mark torrent completed", zap.Error(err))
		return
	}

	logger.Info("Download completed", zap.String("info_hash", infoHash))
	d.notify("Torrent download completed: " + job.URL)
}

func (d *Dispatcher) notify(text string) {
	if d.notifier == nil {
		return
	}
	d.notifier.Notify(text)
}
