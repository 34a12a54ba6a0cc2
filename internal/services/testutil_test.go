package services

import (
	"bytes"
	"context"
	"io"
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/sharebox/backend/internal/models"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed opening in-memory sqlite database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed getting sql.DB from gorm: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	err = db.AutoMigrate(
		&models.User{},
		&models.File{},
		&models.ShareGrant{},
	)
	if err != nil {
		t.Fatalf("failed automigrating models: %v", err)
	}

	return db
}

func createUser(t *testing.T, db *gorm.DB, username, email string, isAdmin bool) *models.User {
	t.Helper()

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: "hash",
		IsAdmin:      isAdmin,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed creating user %s: %v", username, err)
	}
	return user
}

func createFile(t *testing.T, db *gorm.DB, owner *models.User, name string, visibility models.Visibility) *models.File {
	t.Helper()

	file := &models.File{
		OwnerID:    owner.ID,
		Name:       name,
		StorageKey: owner.ID.String() + "/" + name,
		MimeType:   "text/plain",
		Size:       42,
		Visibility: visibility,
	}
	if err := db.Create(file).Error; err != nil {
		t.Fatalf("failed creating file %s: %v", name, err)
	}
	return file
}

func createGrant(t *testing.T, db *gorm.DB, file *models.File, sharedBy, recipient *models.User) *models.ShareGrant {
	t.Helper()

	grant := &models.ShareGrant{
		FileID:      file.ID,
		SharedByID:  sharedBy.ID,
		RecipientID: recipient.ID,
	}
	if err := db.Create(grant).Error; err != nil {
		t.Fatalf("failed creating grant: %v", err)
	}
	return grant
}

func assertKind(t *testing.T, err error, expected ErrorKind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", expected)
	}
	if got := KindOf(err); got != expected {
		t.Fatalf("expected %s error, got %s (%v)", expected, got, err)
	}
}

// fakeObjectStore is an in-memory ObjectStore with injectable failures.
type fakeObjectStore struct {
	mu        sync.Mutex
	objects   map[string][]byte
	putErr    error
	deleteErr error
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{objects: map[string][]byte{}}
}

func (f *fakeObjectStore) Put(_ context.Context, key string, reader io.Reader, _ int64, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.putErr != nil {
		return f.putErr
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	f.objects[key] = data
	return nil
}

func (f *fakeObjectStore) Get(_ context.Context, key string) (io.ReadCloser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[key]
	if !ok {
		return nil, io.ErrUnexpectedEOF
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeObjectStore) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.objects, key)
	return nil
}

func (f *fakeObjectStore) Exists(_ context.Context, key string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.objects[key]
	return ok, nil
}

func (f *fakeObjectStore) has(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.objects[key]
	return ok
}

func (f *fakeObjectStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.objects)
}
