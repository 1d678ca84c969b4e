package handler

import (
	"errors"
	"net/http"

	"backend/internal/downloader"
	"backend/internal/models"
	"backend/internal/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DownloadDispatcher accepts background download jobs. Enqueue must not
// block the request path.
type DownloadDispatcher interface {
	Enqueue(job downloader.Job) bool
}

type TorrentHandler interface {
	List(c *gin.Context)
	Get(c *gin.Context)
	Create(c *gin.Context)
}

type torrentHandler struct {
	torrentRepo repository.TorrentRepository
	dispatcher  DownloadDispatcher
	logger      *zap.Logger
}

func NewTorrentHandler(torrentRepo repository.TorrentRepository, dispatcher DownloadDispatcher, logger *zap.Logger) TorrentHandler {
	return &torrentHandler{torrentRepo: torrentRepo, dispatcher: dispatcher, logger: logger}
}

type CreateTorrentRequest struct {
	URL string `json:"url" binding:"required"`
}

// List handles GET /api/torrents/
func (h *torrentHandler) List(c *gin.Context) {
	limit, skip, err := parsePagination(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	torrents, err := h.torrentRepo.ListTorrents(c.Request.Context(), limit, skip)
	if err != nil {
		h.logger.Error("Failed to list torrents", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve torrents"})
		return
	}

	c.JSON(http.StatusOK, torrents)
}

// Get handles GET /api/torrents/:torrentId
func (h *torrentHandler) Get(c *gin.Context) {
	id, err := parseID(c, "torrentId")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	torrent, err := h.torrentRepo.GetTorrentByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No such torrent exists!"})
			return
		}
		h.logger.Error("Failed to get torrent", zap.Int64("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve torrent"})
		return
	}

	c.JSON(http.StatusOK, torrent)
}

// Create handles POST /api/torrents/. The record is persisted and returned
// immediately; the download itself runs on the dispatcher and never holds
// up the response.
func (h *torrentHandler) Create(c *gin.Context) {
	var req CreateTorrentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	torrent := &models.Torrent{
		URL:    req.URL,
		Status: models.TorrentStatusQueued,
	}

	if err := h.torrentRepo.CreateTorrent(c.Request.Context(), torrent); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			c.JSON(http.StatusConflict, gin.H{"error": "Torrent URL must be unique"})
			return
		}
		h.logger.Error("Failed to create torrent", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create torrent"})
		return
	}

	if h.dispatcher != nil {
		if !h.dispatcher.Enqueue(downloader.Job{TorrentID: torrent.ID, URL: torrent.URL}) {
			h.logger.Warn("Torrent left queued, dispatcher rejected job", zap.Int64("id", torrent.ID))
		}
	}

	c.JSON(http.StatusOK, torrent)
}
