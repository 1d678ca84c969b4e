package downloader

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"backend/internal/models"
	"backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeAgent struct {
	infoHash string
	err      error
}

func (f *fakeAgent) StartDownload(ctx context.Context, url string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.infoHash, nil
}

type fakeTorrentRepo struct {
	mu       sync.Mutex
	statuses map[int64]string
	hashes   map[int64]string
}

func newFakeTorrentRepo() *fakeTorrentRepo {
	return &fakeTorrentRepo{statuses: make(map[int64]string), hashes: make(map[int64]string)}
}

func (f *fakeTorrentRepo) CreateTorrent(_ context.Context, torrent *models.Torrent) error {
	return nil
}

func (f *fakeTorrentRepo) GetTorrentByID(_ context.Context, id int64) (*models.Torrent, error) {
	return nil, repository.ErrNotFound
}

func (f *fakeTorrentRepo) ListTorrents(_ context.Context, limit, skip int) ([]*models.Torrent, error) {
	return nil, nil
}

func (f *fakeTorrentRepo) UpdateTorrentStatus(_ context.Context, id int64, status, infoHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses[id] = status
	if infoHash != "" {
		f.hashes[id] = infoHash
	}
	return nil
}

func (f *fakeTorrentRepo) status(id int64) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.statuses[id]
}

func (f *fakeTorrentRepo) hash(id int64) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hashes[id]
}

type fakeNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (f *fakeNotifier) Notify(text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, text)
}

func (f *fakeNotifier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.messages)
}

func TestDispatcherCompletesJob(t *testing.T) {
	repo := newFakeTorrentRepo()
	notify := &fakeNotifier{}
	d := NewDispatcher(&fakeAgent{infoHash: "abc123"}, repo, notify, 4, time.Second, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.Run(ctx)

	require.True(t, d.Enqueue(Job{TorrentID: 1, URL: "magnet:?xt=urn:btih:abc"}))

	require.Eventually(t, func() bool {
		return repo.status(1) == models.TorrentStatusCompleted
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, "abc123", repo.hash(1))
	assert.Eventually(t, func() bool { return notify.count() == 1 }, time.Second, 5*time.Millisecond)
}

func TestDispatcherMarksFailure(t *testing.T) {
	repo := newFakeTorrentRepo()
	notify := &fakeNotifier{}
	d := NewDispatcher(&fakeAgent{err: errors.New("agent unreachable")}, repo, notify, 4, time.Second, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.Run(ctx)

	require.True(t, d.Enqueue(Job{TorrentID: 2, URL: "magnet:?xt=urn:btih:def"}))

	require.Eventually(t, func() bool {
		return repo.status(2) == models.TorrentStatusFailed
	}, time.Second, 5*time.Millisecond)
	assert.Empty(t, repo.hash(2))
}

func TestDispatcherSurvivesFailedJobs(t *testing.T) {
	repo := newFakeTorrentRepo()
	agent := &fakeAgent{err: errors.New("boom")}
	d := NewDispatcher(agent, repo, nil, 4, time.Second, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.Run(ctx)

	require.True(t, d.Enqueue(Job{TorrentID: 1, URL: "u1"}))
	require.Eventually(t, func() bool {
		return repo.status(1) == models.TorrentStatusFailed
	}, time.Second, 5*time.Millisecond)

	// The loop keeps consuming after a failure.
	agent.err = nil
	agent.infoHash = "ok"
	require.True(t, d.Enqueue(Job{TorrentID: 2, URL: "u2"}))
	require.Eventually(t, func() bool {
		return repo.status(2) == models.TorrentStatusCompleted
	}, time.Second, 5*time.Millisecond)
}

func TestEnqueueRejectsWhenFull(t *testing.T) {
	repo := newFakeTorrentRepo()
	// No consumer running; a single slot fills immediately.
	d := NewDispatcher(&fakeAgent{}, repo, nil, 1, time.Second, zap.NewNop())

	assert.True(t, d.Enqueue(Job{TorrentID: 1, URL: "u1"}))
	assert.False(t, d.Enqueue(Job{TorrentID: 2, URL: "u2"}))
}
