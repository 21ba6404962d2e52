package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFetchRecords_QueryAndEnvelopeDecoding(t *testing.T) {
	var gotPath, gotAuth string
	var gotQuery map[string][]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.Query()
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": []map[string]any{
				{
					"id": 500, "staff_id": 10,
					"client":   map[string]any{"id": 20, "phone": "+7000"},
					"services": []map[string]any{{"id": 1, "title": "Haircut"}},
					"datetime": "2026-03-01 12:00:00",
					"length":   3600,
				},
			},
			"meta": map[string]any{"total_count": 250},
		})
	}))
	defer srv.Close()

	c := NewHTTPClient(HTTPClientOptions{
		BaseURL:      srv.URL,
		PartnerToken: "partner-t",
		UserToken:    "user-t",
		CompanyID:    77,
	})

	page, err := c.FetchRecords(context.Background(), RecordsFilter{
		StaffID: 10, Page: 2, PageSize: 100, IncludeDeleted: true,
	})
	if err != nil {
		t.Fatalf("FetchRecords: %v", err)
	}
	if gotPath != "/records/77" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotAuth != "Bearer partner-t, User user-t" {
		t.Fatalf("auth header = %q", gotAuth)
	}
	for k, want := range map[string]string{
		"staff_id": "10", "page": "2", "count": "100", "with_deleted": "1",
	} {
		if len(gotQuery[k]) != 1 || gotQuery[k][0] != want {
			t.Fatalf("query %s = %v, want %s", k, gotQuery[k], want)
		}
	}
	if page.TotalCount != 250 || len(page.Records) != 1 {
		t.Fatalf("page decode: total=%d records=%d", page.TotalCount, len(page.Records))
	}
	rec := page.Records[0]
	if rec.ID != 500 || rec.Client == nil || rec.Client.Phone != "+7000" ||
		len(rec.Services) != 1 || rec.Services[0].Title != "Haircut" {
		t.Fatalf("record decode mismatch: %+v", rec)
	}
}

func TestFetchRecords_EnvelopeFailureSurfacesError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"success": false}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(HTTPClientOptions{BaseURL: srv.URL, PartnerToken: "p"})
	if _, err := c.FetchRecords(context.Background(), RecordsFilter{StaffID: 10}); err == nil {
		t.Fatalf("rejected envelope must surface an error")
	}
}

func TestFetchStaff_DecodesList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/staff/77" {
			t.Errorf("path = %q", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": []map[string]any{
				{"id": 10, "name": "Anna", "user": map[string]any{"phone": "+7010"}},
				{"id": 11, "fired": true},
			},
		})
	}))
	defer srv.Close()

	c := NewHTTPClient(HTTPClientOptions{BaseURL: srv.URL, PartnerToken: "p", CompanyID: 77})
	staff, err := c.FetchStaff(context.Background())
	if err != nil {
		t.Fatalf("FetchStaff: %v", err)
	}
	if len(staff) != 2 || staff[0].User == nil || staff[0].User.Phone != "+7010" || !staff[1].IsFired {
		t.Fatalf("staff decode mismatch: %+v", staff)
	}
}

func TestAuthenticateByCode_PostsCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/user/auth" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var creds map[string]string
		_ = json.NewDecoder(r.Body).Decode(&creds)
		if creds["phone"] != "+7111" || creds["code"] != "4829" {
			t.Errorf("credentials not forwarded: %v", creds)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data":    map[string]any{"id": 1001, "user_token": "tok-a"},
		})
	}))
	defer srv.Close()

	c := NewHTTPClient(HTTPClientOptions{BaseURL: srv.URL, PartnerToken: "p"})
	s, err := c.AuthenticateByCode(context.Background(), "+7111", "4829")
	if err != nil {
		t.Fatalf("AuthenticateByCode: %v", err)
	}
	if s.ID != 1001 || s.Token != "tok-a" {
		t.Fatalf("session decode mismatch: %+v", s)
	}
}

func TestAuthenticateByPassword_RejectedCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"success": false}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(HTTPClientOptions{BaseURL: srv.URL, PartnerToken: "p"})
	if _, err := c.AuthenticateByPassword(context.Background(), "login", "nope"); err == nil {
		t.Fatalf("rejected credentials must surface an error")
	}
}
