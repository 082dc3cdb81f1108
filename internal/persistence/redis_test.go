package persistence

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/supportops/ticketsync/internal/config"
)

func TestNewRunLockFallsBackToLocal(t *testing.T) {
	r := NewRedis(config.RedisConfig{}, zap.NewNop())
	if r != nil {
		t.Fatalf("expected nil redis without an address")
	}
	if _, ok := NewRunLock(r, config.RedisConfig{}).(*LocalLock); !ok {
		t.Fatal("expected LocalLock")
	}
}

func TestLocalLockExcludesSecondHolder(t *testing.T) {
	ctx := context.Background()
	lock := &LocalLock{}

	release, ok, err := lock.TryAcquire(ctx)
	if err != nil || !ok {
		t.Fatalf("first acquire ok=%v err=%v", ok, err)
	}
	if _, ok, _ := lock.TryAcquire(ctx); ok {
		t.Fatal("second acquire succeeded while held")
	}
	if err := release(ctx); err != nil {
		t.Fatalf("release: %v", err)
	}
	_ = release(ctx)

	release2, ok, _ := lock.TryAcquire(ctx)
	if !ok {
		t.Fatal("acquire after release failed")
	}
	_ = release2(ctx)
}

func TestMigrationsAreEmbedded(t *testing.T) {
	data, err := migrationFiles.ReadFile("migrations/0001_sync_runs.sql")
	if err != nil {
		t.Fatalf("read embedded migration: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("empty migration")
	}
}
