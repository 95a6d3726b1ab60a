package targets

import (
	"context"

	"lectern/internal/ticket"
)

// Request describes one publish unit: a single file carrying a single audio
// language destined for one target.
type Request struct {
	LocalPath      string
	RemoteFilename string
	Folder         string
	// Language is the canonical 3-letter code of the file's audio track.
	Language string
	// LanguageIndex is the track's position in the ticket's language map.
	LanguageIndex int
	HighQuality   bool
	HTML5         bool
}

// Result reports a completed publish unit.
type Result struct {
	// ID is the target-assigned identifier (recording id, video id).
	ID string
	// URL is the public address of the published unit, when the target
	// has one.
	URL string
	// AlreadyExists is set when the target signalled that the unit was
	// published before (e.g. HTTP 422). Treated as success with a
	// warning; the remote and the tracker may be temporarily out of sync.
	AlreadyExists bool
}

// EventResult reports event creation on targets that model talk-level
// containers above individual recordings.
type EventResult struct {
	ID            string
	AlreadyExists bool
}

// Media is the CDN-style media platform: a talk-level event plus one
// recording per language file.
type Media interface {
	CreateOrUpdateEvent(ctx context.Context, t *ticket.Ticket) (EventResult, error)
	PublishRecording(ctx context.Context, t *ticket.Ticket, req Request) (Result, error)
}

// Video is the video-sharing platform: one video per language file.
type Video interface {
	PublishVideo(ctx context.Context, t *ticket.Ticket, req Request) (Result, error)
}

// Sync is the generic file-sync destination. It returns the remote filename
// it produced.
type Sync interface {
	Sync(ctx context.Context, t *ticket.Ticket, localPath string) (string, error)
}

// Webhook notifies downstream consumers that a release happened.
type Webhook interface {
	Send(ctx context.Context, t *ticket.Ticket) error
}

// Announcer posts the release on social channels. Implementations must never
// fail orchestration; errors are logged by the caller and swallowed.
type Announcer interface {
	Announce(ctx context.Context, t *ticket.Ticket, message string) error
}
