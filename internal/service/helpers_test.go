package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/ecommerce_api/internal/models"
	"github.com/Skotchmaster/ecommerce_api/internal/repo"
	pkgdb "github.com/Skotchmaster/ecommerce_api/pkg/db"
)

func newTestRepo(t *testing.T) *repo.GormRepo {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := pkgdb.Open(context.Background(), pkgdb.DriverSQLite, dsn)
	require.NoError(t, err)
	require.NoError(t, repo.Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return &repo.GormRepo{DB: db}
}

type sentEvent struct {
	Topic string
	Key   string
	Event Event
}

type fakePublisher struct {
	mu     sync.Mutex
	events []sentEvent
	err    error
}

func (f *fakePublisher) PublishEvent(_ context.Context, topic, key string, event any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, sentEvent{Topic: topic, Key: key, Event: event.(Event)})
	return nil
}

func (f *fakePublisher) types() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.events))
	for _, e := range f.events {
		out = append(out, e.Event.Type)
	}
	return out
}

type fakeIndex struct {
	mu      sync.Mutex
	indexed map[uuid.UUID]string
	deleted []uuid.UUID
	hits    []uuid.UUID
	err     error
}

func newFakeIndex() *fakeIndex {
	return &fakeIndex{indexed: map[uuid.UUID]string{}}
}

func (f *fakeIndex) IndexProduct(_ context.Context, p *models.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.indexed[p.ID] = p.Name
	return nil
}

func (f *fakeIndex) DeleteProduct(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeIndex) Search(_ context.Context, _ string, _, _ int) ([]uuid.UUID, int64, error) {
	if f.err != nil {
		return nil, 0, f.err
	}
	return f.hits, int64(len(f.hits)), nil
}

func mustCategory(t *testing.T, r *repo.GormRepo, name string) *models.Category {
	t.Helper()
	ctx := context.Background()
	_, err := r.CreateCategoryIfMissing(ctx, name)
	require.NoError(t, err)
	cat, err := r.GetCategoryByName(ctx, name)
	require.NoError(t, err)
	return cat
}

func mustProduct(t *testing.T, r *repo.GormRepo, name, price string, stock int) models.Product {
	t.Helper()
	cat := mustCategory(t, r, "general")
	p := models.Product{
		Name:        name,
		Description: "desc",
		Price:       decimal.RequireFromString(price),
		Stock:       stock,
		CategoryID:  cat.ID,
	}
	require.NoError(t, r.CreateProduct(context.Background(), &p))
	return p
}

func mustUser(t *testing.T, r *repo.GormRepo, email string) models.User {
	t.Helper()
	u := models.User{Name: "Test User", Email: email, Password: "hash"}
	require.NoError(t, r.CreateUser(context.Background(), &u))
	return u
}
