package handler

import (
	"context"
	"sync"
	"time"

	"backend/internal/downloader"
	"backend/internal/models"
	"backend/internal/repository"
)

// In-memory repositories used across the handler tests. Lists return newest
// first, ties broken by insertion order, matching the store contract.

type fakeUserRepo struct {
	mu     sync.Mutex
	users  []*models.User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{nextID: 1}
}

func (f *fakeUserRepo) CreateUser(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	user.ID = f.nextID
	f.nextID++
	user.IsActive = true
	user.CreatedAt = time.Now()
	f.users = append(f.users, user)
	return nil
}

func (f *fakeUserRepo) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) UpdateUser(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, u := range f.users {
		if u.ID == user.ID {
			f.users[i] = user
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeUserRepo) DeleteUser(_ context.Context, id int64) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, u := range f.users {
		if u.ID == id {
			f.users = append(f.users[:i], f.users[i+1:]...)
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) ListUsers(_ context.Context, limit, skip int) ([]*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return paginate(f.users, limit, skip), nil
}

type fakeBookRepo struct {
	mu     sync.Mutex
	books  []*models.Book
	nextID int64
}

func newFakeBookRepo() *fakeBookRepo {
	return &fakeBookRepo{nextID: 1}
}

func (f *fakeBookRepo) CreateBook(_ context.Context, book *models.Book) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.books {
		if b.ISBN == book.ISBN {
			return repository.ErrDuplicate
		}
	}
	book.ID = f.nextID
	f.nextID++
	book.CreatedAt = time.Now()
	f.books = append(f.books, book)
	return nil
}

func (f *fakeBookRepo) GetBookByID(_ context.Context, id int64) (*models.Book, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.books {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeBookRepo) UpdateBook(_ context.Context, book *models.Book) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, b := range f.books {
		if b.ID == book.ID {
			f.books[i] = book
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeBookRepo) DeleteBook(_ context.Context, id int64) (*models.Book, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, b := range f.books {
		if b.ID == id {
			f.books = append(f.books[:i], f.books[i+1:]...)
			return b, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeBookRepo) ListBooks(_ context.Context, limit, skip int) ([]*models.Book, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return paginate(f.books, limit, skip), nil
}

type fakeTorrentRepo struct {
	mu       sync.Mutex
	torrents []*models.Torrent
	nextID   int64
}

func newFakeTorrentRepo() *fakeTorrentRepo {
	return &fakeTorrentRepo{nextID: 1}
}

func (f *fakeTorrentRepo) CreateTorrent(_ context.Context, torrent *models.Torrent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, tr := range f.torrents {
		if tr.URL == torrent.URL {
			return repository.ErrDuplicate
		}
	}
	torrent.ID = f.nextID
	f.nextID++
	torrent.IsActive = true
	torrent.CreatedAt = time.Now()
	f.torrents = append(f.torrents, torrent)
	return nil
}

func (f *fakeTorrentRepo) GetTorrentByID(_ context.Context, id int64) (*models.Torrent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, tr := range f.torrents {
		if tr.ID == id {
			return tr, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeTorrentRepo) ListTorrents(_ context.Context, limit, skip int) ([]*models.Torrent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return paginate(f.torrents, limit, skip), nil
}

func (f *fakeTorrentRepo) UpdateTorrentStatus(_ context.Context, id int64, status, infoHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, tr := range f.torrents {
		if tr.ID == id {
			tr.Status = status
			if infoHash != "" {
				tr.InfoHash = infoHash
			}
			return nil
		}
	}
	return repository.ErrNotFound
}

// paginate returns a newest-first window over records stored in insertion
// order.
func paginate[T any](items []*T, limit, skip int) []*T {
	out := []*T{}
	for i := len(items) - 1; i >= 0; i-- {
		if skip > 0 {
			skip--
			continue
		}
		if len(out) >= limit {
			break
		}
		out = append(out, items[i])
	}
	return out
}

type fakeDispatcher struct {
	mu   sync.Mutex
	jobs []downloader.Job
	full bool
}

func (f *fakeDispatcher) Enqueue(job downloader.Job) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.full {
		return false
	}
	f.jobs = append(f.jobs, job)
	return true
}
