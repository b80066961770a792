package lock

import (
	"context"
	"testing"
	"time"
)

func TestLocalExclusive(t *testing.T) {
	l := NewLocal()
	ctx := context.Background()

	release, ok, err := l.Acquire(ctx, "sync:shopify", time.Minute)
	if err != nil || !ok {
		t.Fatalf("first acquire: ok=%v err=%v", ok, err)
	}

	if _, ok, err := l.Acquire(ctx, "sync:shopify", time.Minute); err != nil || ok {
		t.Fatalf("second acquire should be refused: ok=%v err=%v", ok, err)
	}

	release()
	release2, ok, err := l.Acquire(ctx, "sync:shopify", time.Minute)
	if err != nil || !ok {
		t.Fatalf("acquire after release: ok=%v err=%v", ok, err)
	}
	release2()
}

func TestLocalKeysIndependent(t *testing.T) {
	l := NewLocal()
	ctx := context.Background()

	r1, ok, err := l.Acquire(ctx, "sync:shopify", time.Minute)
	if err != nil || !ok {
		t.Fatalf("shopify acquire: ok=%v err=%v", ok, err)
	}
	defer r1()

	r2, ok, err := l.Acquire(ctx, "sync:quickbooks", time.Minute)
	if err != nil || !ok {
		t.Fatalf("quickbooks acquire should not be blocked: ok=%v err=%v", ok, err)
	}
	defer r2()
}

func TestLocalReleaseIdempotentPerHolder(t *testing.T) {
	l := NewLocal()
	ctx := context.Background()

	release, ok, _ := l.Acquire(ctx, "k", time.Minute)
	if !ok {
		t.Fatal("acquire failed")
	}
	release()
	release()

	if _, ok, _ := l.Acquire(ctx, "k", time.Minute); !ok {
		t.Fatal("key should be free after release")
	}
}
