package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/mkrasov/salon-chat-sync/internal/provider"
)

func TestFetchAllByStaff_PaginatesUntilTotalCovered(t *testing.T) {
	// 250 records at page size 100 must take exactly 3 requests.
	all := make([]provider.Record, 0, 250)
	for i := 0; i < 250; i++ {
		all = append(all, makeRecord(int64(i+1), "2026-03-01 12:00:00"))
	}
	fp := &fakeProvider{records: map[int64][]provider.Record{10: all}}

	f := &RecordFetcher{Provider: fp, PageSize: 100}
	got, err := f.FetchAllByStaff(context.Background(), 10)
	if err != nil {
		t.Fatalf("FetchAllByStaff: %v", err)
	}
	if len(got) != 250 {
		t.Fatalf("expected 250 records, got %d", len(got))
	}
	if len(fp.fetchCalls) != 3 {
		t.Fatalf("expected 3 page requests, got %d", len(fp.fetchCalls))
	}
	for i, call := range fp.fetchCalls {
		if call.Page != i+1 || call.PageSize != 100 || !call.IncludeDeleted || call.StaffID != 10 {
			t.Fatalf("unexpected filter on request %d: %+v", i, call)
		}
	}
	// Upstream order preserved across page boundaries.
	if got[0].ID != 1 || got[249].ID != 250 {
		t.Fatalf("order not preserved: first=%d last=%d", got[0].ID, got[249].ID)
	}
}

func TestFetchAll_ExactMultipleStopsWithoutExtraRequest(t *testing.T) {
	all := make([]provider.Record, 200)
	for i := range all {
		all[i] = makeRecord(int64(i+1), "2026-03-01 12:00:00")
	}
	fp := &fakeProvider{records: map[int64][]provider.Record{10: all}}

	f := &RecordFetcher{Provider: fp, PageSize: 100}
	got, err := f.FetchAllByStaff(context.Background(), 10)
	if err != nil {
		t.Fatalf("FetchAllByStaff: %v", err)
	}
	if len(got) != 200 || len(fp.fetchCalls) != 2 {
		t.Fatalf("expected 200 records in 2 requests, got %d in %d", len(got), len(fp.fetchCalls))
	}
}

func TestFetchAllByClient_UsesClientScope(t *testing.T) {
	fp := &fakeProvider{byClient: map[int64][]provider.Record{20: {makeRecord(1, "2026-03-01 12:00:00")}}}

	f := &RecordFetcher{Provider: fp}
	got, err := f.FetchAllByClient(context.Background(), 20)
	if err != nil {
		t.Fatalf("FetchAllByClient: %v", err)
	}
	if len(got) != 1 || fp.fetchCalls[0].ClientID != 20 || fp.fetchCalls[0].StaffID != 0 {
		t.Fatalf("unexpected scope: %+v", fp.fetchCalls[0])
	}
}

func TestFetchAll_PageErrorAbortsWholeFetch(t *testing.T) {
	wantErr := errors.New("boom")
	fp := &fakeProvider{fetchErr: wantErr}

	f := &RecordFetcher{Provider: fp, PageSize: 10}
	_, err := f.FetchAllByStaff(context.Background(), 10)
	if err == nil || !errors.Is(err, wantErr) {
		t.Fatalf("expected wrapped page error, got %v", err)
	}
	if !strings.Contains(fmt.Sprint(err), "page 1") {
		t.Fatalf("error should name the failing page: %v", err)
	}
}
