package youtube

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"lectern/internal/config"
	"lectern/internal/targets"
	"lectern/internal/ticket"
)

func testTicket() *ticket.Ticket {
	t := &ticket.Ticket{
		Title:     "Talk A",
		Languages: map[int]string{0: "deu", 1: "eng"},
	}
	t.YouTube.Privacy = "private"
	t.YouTube.Tags = []string{"conf26"}
	return t
}

func TestVideoTitleAppendsLanguageForMultiTrack(t *testing.T) {
	tkt := testTicket()
	got := videoTitle(tkt, targets.Request{Language: "eng"})
	if got != "Talk A (English)" {
		t.Fatalf("title = %q", got)
	}

	tkt.Languages = map[int]string{0: "deu"}
	if got := videoTitle(tkt, targets.Request{Language: "deu"}); got != "Talk A" {
		t.Fatalf("single-language title = %q", got)
	}
}

func TestPublishVideoFullFlow(t *testing.T) {
	source := filepath.Join(t.TempDir(), "talk.mp4")
	if err := os.WriteFile(source, []byte("video-bytes"), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}

	var tokenCalls, sessionCalls int
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		tokenCalls++
		w.Write([]byte(`{"access_token": "at-1", "expires_in": 3600}`))
	})
	mux.HandleFunc("/upload", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			sessionCalls++
			var payload struct {
				Snippet struct {
					Title string `json:"title"`
				} `json:"snippet"`
				Status struct {
					PrivacyStatus string `json:"privacyStatus"`
				} `json:"status"`
			}
			if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
				t.Fatalf("decode metadata: %v", err)
			}
			if payload.Status.PrivacyStatus != "private" {
				t.Fatalf("privacy = %q", payload.Status.PrivacyStatus)
			}
			w.Header().Set("Location", server.URL+"/upload/session-1")
			w.WriteHeader(http.StatusOK)
		default:
			t.Fatalf("unexpected method %s", r.Method)
		}
	})
	mux.HandleFunc("/upload/session-1", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if string(body) != "video-bytes" {
			t.Fatalf("uploaded body = %q", body)
		}
		w.Write([]byte(`{"id": "vid123"}`))
	})

	cfg := config.Default()
	cfg.YouTube.ClientID = "cid"
	cfg.YouTube.ClientSecret = "cs"
	cfg.YouTube.RefreshToken = "rt"
	client := NewClientWithEndpoints(&cfg, server.URL+"/token", server.URL+"/upload", http.DefaultClient)

	result, err := client.PublishVideo(context.Background(), testTicket(), targets.Request{
		LocalPath: source,
		Language:  "eng",
	})
	if err != nil {
		t.Fatalf("PublishVideo: %v", err)
	}
	if result.ID != "vid123" || result.URL != "https://www.youtube.com/watch?v=vid123" {
		t.Fatalf("result = %+v", result)
	}
	if tokenCalls != 1 || sessionCalls != 1 {
		t.Fatalf("token calls = %d, session calls = %d", tokenCalls, sessionCalls)
	}

	// A second publish reuses the cached access token.
	if _, err := client.PublishVideo(context.Background(), testTicket(), targets.Request{
		LocalPath: source,
		Language:  "deu",
	}); err != nil {
		t.Fatalf("second PublishVideo: %v", err)
	}
	if tokenCalls != 1 {
		t.Fatalf("expected cached token, got %d refreshes", tokenCalls)
	}
}

func TestTicketTokenOverridesWorkerCredentials(t *testing.T) {
	cfg := config.Default()
	client := NewClient(&cfg)
	tkt := testTicket()
	tkt.YouTube.Token = "ticket-token"

	token, err := client.token(context.Background(), tkt)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	if token != "ticket-token" {
		t.Fatalf("token = %q", token)
	}
}
