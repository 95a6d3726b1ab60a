package journal

import (
	"context"
	"testing"
	"time"

	"lectern/internal/config"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	cfg := config.Default()
	dir := t.TempDir()
	cfg.Paths.OutputDir = dir + "/output"
	cfg.Paths.LogDir = dir + "/logs"
	cfg.Paths.JournalDir = dir + "/journal"

	store, err := Open(&cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRecordAndRecent(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	first := Entry{
		TicketID: 100,
		GUID:     "guid-100",
		Title:    "Opening",
		Outcomes: []Outcome{
			{Target: "voctoweb", State: "succeeded", URL: "https://media.example.org/v/opening"},
			{Target: "youtube", State: "skipped", Detail: "already published, ignoring"},
		},
		Duration: 42 * time.Second,
	}
	if _, err := store.Record(ctx, first); err != nil {
		t.Fatalf("Record: %v", err)
	}
	second := Entry{
		TicketID: 101,
		GUID:     "guid-101",
		Title:    "Keynote",
		Failed:   true,
		Failure:  "youtube: upload: unexpected status 500",
		Outcomes: []Outcome{{Target: "youtube", State: "failed", Detail: "unexpected status 500"}},
	}
	if _, err := store.Record(ctx, second); err != nil {
		t.Fatalf("Record: %v", err)
	}

	entries, err := store.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d", len(entries))
	}
	if entries[0].TicketID != 101 || !entries[0].Failed {
		t.Fatalf("newest entry = %+v", entries[0])
	}
	if entries[1].Duration != 42*time.Second {
		t.Fatalf("duration = %v", entries[1].Duration)
	}
	if len(entries[1].Outcomes) != 2 || entries[1].Outcomes[0].Target != "voctoweb" {
		t.Fatalf("outcomes = %+v", entries[1].Outcomes)
	}
	if entries[1].Failure != "" {
		t.Fatalf("failure on successful run = %q", entries[1].Failure)
	}
}

func TestByTicket(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		entry := Entry{TicketID: 200, GUID: "guid-200", Title: "Retried"}
		if _, err := store.Record(ctx, entry); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}
	if _, err := store.Record(ctx, Entry{TicketID: 201, GUID: "guid-201", Title: "Other"}); err != nil {
		t.Fatalf("Record: %v", err)
	}

	entries, err := store.ByTicket(ctx, 200)
	if err != nil {
		t.Fatalf("ByTicket: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("entries = %d", len(entries))
	}
	for _, entry := range entries {
		if entry.TicketID != 200 {
			t.Fatalf("wrong ticket in result: %+v", entry)
		}
	}
}
