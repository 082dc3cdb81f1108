package service

import (
	"context"
	"errors"
	"testing"
)

func int64Ptr(v int64) *int64 { return &v }

func TestAgentCacheLooksUpEachIDOnce(t *testing.T) {
	helpdesk := newFakeHelpdesk()
	helpdesk.agents[7] = "Dana"
	cache := NewAgentCache(helpdesk, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if got := cache.Resolve(ctx, int64Ptr(7)); got != "Dana" {
			t.Fatalf("Resolve = %q", got)
		}
	}
	if helpdesk.agentCalls[7] != 1 {
		t.Fatalf("lookups = %d, want 1", helpdesk.agentCalls[7])
	}
}

func TestAgentCacheMissingIDSkipsLookup(t *testing.T) {
	helpdesk := newFakeHelpdesk()
	cache := NewAgentCache(helpdesk, nil)

	if got := cache.Resolve(context.Background(), nil); got != "" {
		t.Fatalf("nil id = %q", got)
	}
	if got := cache.Resolve(context.Background(), int64Ptr(0)); got != "" {
		t.Fatalf("zero id = %q", got)
	}
	if len(helpdesk.agentCalls) != 0 {
		t.Fatalf("unexpected lookups %v", helpdesk.agentCalls)
	}
}

func TestAgentCacheDoesNotCacheFailures(t *testing.T) {
	helpdesk := newFakeHelpdesk()
	helpdesk.agentErrs[9] = errors.New("connection reset")
	cache := NewAgentCache(helpdesk, nil)
	ctx := context.Background()

	if got := cache.Resolve(ctx, int64Ptr(9)); got != "Unknown" {
		t.Fatalf("failed lookup = %q", got)
	}
	delete(helpdesk.agentErrs, 9)
	helpdesk.agents[9] = "Lee"
	if got := cache.Resolve(ctx, int64Ptr(9)); got != "Lee" {
		t.Fatalf("retried lookup = %q", got)
	}
	if helpdesk.agentCalls[9] != 2 {
		t.Fatalf("lookups = %d, want 2", helpdesk.agentCalls[9])
	}
}

func TestAgentCacheCachesMissingName(t *testing.T) {
	helpdesk := newFakeHelpdesk()
	helpdesk.agents[3] = ""
	cache := NewAgentCache(helpdesk, nil)
	ctx := context.Background()

	if got := cache.Resolve(ctx, int64Ptr(3)); got != "Unknown" {
		t.Fatalf("Resolve = %q", got)
	}
	cache.Resolve(ctx, int64Ptr(3))
	if helpdesk.agentCalls[3] != 1 || cache.Len() != 1 {
		t.Fatalf("calls=%d cached=%d", helpdesk.agentCalls[3], cache.Len())
	}
}
