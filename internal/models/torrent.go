package models

import "time"

// Torrent download lifecycle statuses.
const (
	TorrentStatusQueued      = "queued"
	TorrentStatusDownloading = "downloading"
	TorrentStatusCompleted   = "completed"
	TorrentStatusFailed      = "failed"
)

type Torrent struct {
	ID        int64     `db:"id" json:"id"`
	URL       string    `db:"url" json:"url"`
	IsActive  bool      `db:"is_active" json:"isActive"`
	Status    string    `db:"status" json:"status"`
	InfoHash  string    `db:"info_hash" json:"infoHash,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
