package services

import (
	"context"
	"errors"
	"testing"

	"github.com/mkrasov/salon-chat-sync/internal/provider"
	"github.com/mkrasov/salon-chat-sync/internal/repo"
)

func TestResolve_CreatesOnceAndReuses(t *testing.T) {
	db := newServicesDB(t)
	r := &ChatMappingResolver{DB: db}
	ctx := context.Background()

	first, err := r.Resolve(ctx, 10, "+111", 20, "+222")
	if err != nil {
		t.Fatalf("first Resolve: %v", err)
	}
	second, err := r.Resolve(ctx, 10, "+111", 20, "+222")
	if err != nil {
		t.Fatalf("second Resolve: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected one canonical mapping, got %s and %s", first.ID, second.ID)
	}

	mappings, err := repo.ListChatMappings(ctx, db)
	if err != nil || len(mappings) != 1 {
		t.Fatalf("expected exactly one mapping, got %d (%v)", len(mappings), err)
	}
}

func TestResolve_PhoneConvergesReRegisteredClient(t *testing.T) {
	db := newServicesDB(t)
	r := &ChatMappingResolver{DB: db}
	ctx := context.Background()

	first, err := r.Resolve(ctx, 10, "", 20, "+222")
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	// The client re-registered under a new provider id but kept the phone.
	again, err := r.Resolve(ctx, 10, "", 99, "+222")
	if err != nil {
		t.Fatalf("Resolve with new client id: %v", err)
	}
	if again.ID != first.ID {
		t.Fatalf("phone should converge on the prior mapping")
	}
	// The mapping's identity fields remain as captured at creation.
	if again.ClientID != 20 {
		t.Fatalf("identity fields must be immutable, got client_id=%d", again.ClientID)
	}
}

func TestResolve_DifferentStaffMakesDifferentMapping(t *testing.T) {
	db := newServicesDB(t)
	r := &ChatMappingResolver{DB: db}
	ctx := context.Background()

	a, _ := r.Resolve(ctx, 10, "", 20, "+222")
	b, err := r.Resolve(ctx, 11, "", 20, "+222")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if a.ID == b.ID {
		t.Fatalf("same client under different staff must be a distinct mapping")
	}
}

func TestResolveRecord_NilClientSkipped(t *testing.T) {
	db := newServicesDB(t)
	r := &ChatMappingResolver{DB: db}

	rec := provider.Record{ID: 1, StaffID: 10, Client: nil, Datetime: "2026-03-01 12:00:00"}
	_, err := r.ResolveRecord(context.Background(), rec, "")
	if !errors.Is(err, ErrRecordWithoutClient) {
		t.Fatalf("expected ErrRecordWithoutClient, got %v", err)
	}
}
