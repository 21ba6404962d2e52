// Package services – RecordFetcher
//
// Paginated retrieval of booking records from the provider. Pages are
// requested at a fixed size starting at page 1 and concatenated in upstream
// order; a failure on any page aborts the whole fetch and surfaces an error
// rather than partial results. The caller isolates that error per staff
// member, not globally.
package services

import (
	"context"
	"fmt"

	"github.com/mkrasov/salon-chat-sync/internal/provider"
)

// DefaultPageSize is the fixed page size used against the provider.
const DefaultPageSize = 100

// RecordFetcher retrieves the complete record set for one staff member or
// one client, soft-deleted records included.
type RecordFetcher struct {
	// Provider is the booking-provider client.
	Provider provider.Client
	// PageSize overrides DefaultPageSize when > 0 (used by tests).
	PageSize int
}

// FetchAllByStaff returns every booking record of the given staff member
// across all pages.
func (f *RecordFetcher) FetchAllByStaff(ctx context.Context, staffID int64) ([]provider.Record, error) {
	return f.fetchAll(ctx, provider.RecordsFilter{StaffID: staffID, IncludeDeleted: true})
}

// FetchAllByClient returns every booking record of the given client across
// all pages.
func (f *RecordFetcher) FetchAllByClient(ctx context.Context, clientID int64) ([]provider.Record, error) {
	return f.fetchAll(ctx, provider.RecordsFilter{ClientID: clientID, IncludeDeleted: true})
}

func (f *RecordFetcher) fetchAll(ctx context.Context, filter provider.RecordsFilter) ([]provider.Record, error) {
	size := f.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}

	var all []provider.Record
	for page := 1; ; page++ {
		filter.Page = page
		filter.PageSize = size

		pg, err := f.Provider.FetchRecords(ctx, filter)
		if err != nil {
			return nil, fmt.Errorf("fetch records page %d: %w", page, err)
		}
		all = append(all, pg.Records...)

		if page*size >= pg.TotalCount {
			break
		}
	}
	return all, nil
}
