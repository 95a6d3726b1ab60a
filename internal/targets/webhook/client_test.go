package webhook

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"lectern/internal/config"
	"lectern/internal/ticket"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Webhook.UserAgent = "lectern/1.0"
	cfg.Webhook.TimeoutSecs = 5
	cfg.Voctoweb.FrontendURL = "https://media.example.org"
	return &cfg
}

func enabled() ticket.TargetFlags {
	yes := true
	return ticket.TargetFlags{Profile: &yes, Project: &yes}
}

func sampleTicket(url string) *ticket.Ticket {
	return &ticket.Ticket{
		ID:         4711,
		FahrplanID: "1234",
		GUID:       "11111111-2222-3333-4444-555555555555",
		Slug:       "conf2026-1234-opening",
		Conference: "conf2026",
		IsMaster:   true,
		Title:      "Opening",
		MimeType:   "video/mp4",
		Languages:  map[int]string{0: "eng", 1: "deu"},
		Voctoweb: ticket.VoctowebPlan{
			Flags: enabled(),
			Slug:  "conf2026-1234-opening",
		},
		YouTube: ticket.YouTubePlan{
			Flags:   enabled(),
			Privacy: "public",
			URLs: map[int]string{
				1: "https://www.youtube.com/watch?v=def",
				0: "https://www.youtube.com/watch?v=abc",
			},
		},
		Rclone: ticket.RclonePlan{
			Flags:       enabled(),
			Destination: "upload:cdn.example.org/conf2026",
		},
		Webhook: ticket.WebhookPlan{Flags: enabled(), URL: url},
		Announce: ticket.AnnouncePlan{
			Flags:   enabled(),
			Message: "Opening has been released",
		},
	}
}

func TestSendSerializesPayload(t *testing.T) {
	var body []byte
	var userAgent, contentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ = io.ReadAll(r.Body)
		userAgent = r.Header.Get("User-Agent")
		contentType = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(testConfig())
	if err := c.Send(context.Background(), sampleTicket(srv.URL)); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if userAgent != "lectern/1.0" {
		t.Fatalf("user agent = %q", userAgent)
	}
	if contentType != "application/json" {
		t.Fatalf("content type = %q", contentType)
	}

	want := `{"announcement":"Opening has been released","is_master":true,` +
		`"fahrplan":{"conference":"conf2026","guid":"11111111-2222-3333-4444-555555555555",` +
		`"id":"1234","language":"eng","slug":"conf2026-1234-opening","title":"Opening"},` +
		`"voctoweb":{"enabled":true,"url":"https://media.example.org/v/conf2026-1234-opening","format":"video/mp4"},` +
		`"youtube":{"enabled":true,"urls":["https://www.youtube.com/watch?v=abc","https://www.youtube.com/watch?v=def"],"privacy":"public"},` +
		`"rclone":{"enabled":true,"destination":"upload:cdn.example.org/conf2026"}}`
	if string(body) != want {
		t.Fatalf("payload mismatch\n got: %s\nwant: %s", body, want)
	}
}

func TestSendDisabledTargetsCarryOnlyEnabledFlag(t *testing.T) {
	var body []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	tk := sampleTicket(srv.URL)
	tk.Voctoweb.Flags = ticket.TargetFlags{}
	tk.YouTube.Flags = ticket.TargetFlags{}
	tk.Rclone.Flags = ticket.TargetFlags{}

	c := NewClient(testConfig())
	if err := c.Send(context.Background(), tk); err != nil {
		t.Fatalf("Send: %v", err)
	}
	want := `{"announcement":"Opening has been released","is_master":true,` +
		`"fahrplan":{"conference":"conf2026","guid":"11111111-2222-3333-4444-555555555555",` +
		`"id":"1234","language":"eng","slug":"conf2026-1234-opening","title":"Opening"},` +
		`"voctoweb":{"enabled":false},"youtube":{"enabled":false},"rclone":{"enabled":false}}`
	if string(body) != want {
		t.Fatalf("payload mismatch\n got: %s\nwant: %s", body, want)
	}
}

func TestSendRejectsNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(testConfig())
	if err := c.Send(context.Background(), sampleTicket(srv.URL)); err == nil {
		t.Fatal("expected error for 502 response")
	}
}

func TestSendRequiresURL(t *testing.T) {
	c := NewClient(testConfig())
	tk := sampleTicket("")
	if err := c.Send(context.Background(), tk); err == nil {
		t.Fatal("expected error for missing url")
	}
}
