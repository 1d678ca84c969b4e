package repository

import (
	"context"
	"time"

	"backend/internal/models"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type TorrentRepository interface {
	CreateTorrent(ctx context.Context, torrent *models.Torrent) error
	GetTorrentByID(ctx context.Context, id int64) (*models.Torrent, error)
	ListTorrents(ctx context.Context, limit, skip int) ([]*models.Torrent, error)
	UpdateTorrentStatus(ctx context.Context, id int64, status, infoHash string) error
}

type torrentRepository struct {
	db      *sqlx.DB
	logger  *zap.Logger
	timeout time.Duration
}

func NewTorrentRepository(db *sqlx.DB, logger *zap.Logger, timeout time.Duration) TorrentRepository {
	return &torrentRepository{db: db, logger: logger, timeout: timeout}
}

func (r *torrentRepository) CreateTorrent(ctx context.Context, torrent *models.Torrent) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	query := `INSERT INTO torrents (url, status)
	          VALUES ($1, $2) RETURNING id, is_active, created_at`
	err := r.db.QueryRowxContext(ctx, query, torrent.URL, torrent.Status).
		Scan(&torrent.ID, &torrent.IsActive, &torrent.CreatedAt)
	return mapError(err)
}

func (r *torrentRepository) GetTorrentByID(ctx context.Context, id int64) (*models.Torrent, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var torrent models.Torrent
	query := `SELECT id, url, is_active, status, info_hash, created_at FROM torrents WHERE id = $1`
	if err := r.db.GetContext(ctx, &torrent, query, id); err != nil {
		return nil, mapError(err)
	}
	return &torrent, nil
}

func (r *torrentRepository) ListTorrents(ctx context.Context, limit, skip int) ([]*models.Torrent, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	torrents := []*models.Torrent{}
	query := `SELECT id, url, is_active, status, info_hash, created_at FROM torrents
	          ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`
	if err := r.db.SelectContext(ctx, &torrents, query, limit, skip); err != nil {
		return nil, mapError(err)
	}
	return torrents, nil
}

func (r *torrentRepository) UpdateTorrentStatus(ctx context.Context, id int64, status, infoHash string) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	query := `UPDATE torrents SET status = $1, info_hash = COALESCE(NULLIF($2, ''), info_hash) WHERE id = $3`
	res, err := r.db.ExecContext(ctx, query, status, infoHash, id)
	if err != nil {
		return mapError(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
