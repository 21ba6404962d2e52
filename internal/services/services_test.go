package services

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mkrasov/salon-chat-sync/internal/domain"
	"github.com/mkrasov/salon-chat-sync/internal/provider"
)

func newServicesDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("services_test_%d.db", time.Now().UnixNano()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	if err := db.AutoMigrate(
		&domain.User{},
		&domain.IdentityMapping{},
		&domain.ChatMapping{},
		&domain.BookingRecord{},
		&domain.Chat{},
		&domain.Message{},
		&domain.PendingNotification{},
		&domain.NotificationHistory{},
	); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

// fakeProvider is an in-memory provider.Client. Records are served in pages
// of the requested size; every call is recorded so tests can assert request
// counts and shapes.
type fakeProvider struct {
	records map[int64][]provider.Record // keyed by staff id
	byClient map[int64][]provider.Record
	staff   []provider.Staff
	session *provider.Session

	fetchCalls []provider.RecordsFilter
	fetchErr   error
	staffErr   error
	authErr    error
}

func (f *fakeProvider) FetchRecords(_ context.Context, fl provider.RecordsFilter) (*provider.RecordsPage, error) {
	f.fetchCalls = append(f.fetchCalls, fl)
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}

	var all []provider.Record
	if fl.StaffID != 0 {
		all = f.records[fl.StaffID]
	} else {
		all = f.byClient[fl.ClientID]
	}

	start := (fl.Page - 1) * fl.PageSize
	end := start + fl.PageSize
	if start > len(all) {
		start = len(all)
	}
	if end > len(all) {
		end = len(all)
	}
	return &provider.RecordsPage{Records: all[start:end], TotalCount: len(all)}, nil
}

func (f *fakeProvider) FetchStaff(context.Context) ([]provider.Staff, error) {
	if f.staffErr != nil {
		return nil, f.staffErr
	}
	return f.staff, nil
}

func (f *fakeProvider) AuthenticateByCode(context.Context, string, string) (*provider.Session, error) {
	if f.authErr != nil {
		return nil, f.authErr
	}
	return f.session, nil
}

func (f *fakeProvider) AuthenticateByPassword(context.Context, string, string) (*provider.Session, error) {
	if f.authErr != nil {
		return nil, f.authErr
	}
	return f.session, nil
}

// makeRecord builds a minimal valid provider record for staff 10 / client 20.
func makeRecord(id int64, datetime string) provider.Record {
	return provider.Record{
		ID:       id,
		StaffID:  10,
		Client:   &provider.RecordClient{ID: 20, Phone: "+7000"},
		Services: []provider.RecordService{{ID: 1, Title: "Haircut"}},
		Datetime: datetime,
		Length:   3600,
	}
}
