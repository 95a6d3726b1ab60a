package ticket

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// TargetFlags holds the two independent enable booleans every target gates
// on: the profile flag comes from the encoding recipe, the project flag from
// the event. Both must be explicitly true for the target to run.
type TargetFlags struct {
	Profile *bool
	Project *bool
}

// Enabled reports whether both flags are present and true.
func (f TargetFlags) Enabled() bool {
	return f.Profile != nil && *f.Profile && f.Project != nil && *f.Project
}

// VoctowebPlan carries the media-CDN target settings resolved from a ticket.
type VoctowebPlan struct {
	Flags        TargetFlags
	Update       UpdatePolicy
	Slug         string
	Path         string
	ThumbPath    string
	EventID      string            // idempotency marker: remote event exists
	RecordingIDs map[string]string // idempotency markers keyed by language code
}

// YouTubePlan carries the video platform settings resolved from a ticket.
type YouTubePlan struct {
	Flags     TargetFlags
	Update    UpdatePolicy
	Privacy   string
	PublishAt string
	Tags      []string
	Playlists []string
	Token     string
	URLs      map[int]string // idempotency markers keyed by language index
}

// RclonePlan carries the file-sync target settings resolved from a ticket.
type RclonePlan struct {
	Flags           TargetFlags
	Destination     string
	DestinationFile string // idempotency marker
}

// WebhookPlan carries the outbound webhook settings resolved from a ticket.
type WebhookPlan struct {
	Flags TargetFlags
	URL   string
}

// AnnouncePlan carries the social announcement settings resolved from a ticket.
type AnnouncePlan struct {
	Flags   TargetFlags
	Message string
}

// Ticket is the validated, strongly-typed view of one release ticket. Source
// fields are read-only after Resolve; derived fields accumulate through
// AddOverride and are persisted back to the tracker, never mutated in place
// on a shared store.
type Ticket struct {
	ID         int64
	FahrplanID string
	GUID       string
	Slug       string
	Conference string

	IsMaster bool

	Title       string
	Subtitle    string
	Abstract    string
	Description string
	People      []string
	Tags        []string
	Room        string
	Track       string
	Day         string
	Date        string

	// Languages maps audio track index to the canonical 3-letter code.
	// Index 0 is the original language. More than one entry means a
	// multi-track master that must be demultiplexed for single-track
	// targets.
	Languages map[int]string
	// LanguageIndex, when set, marks this encoding as carrying only the
	// single audio track at that index of a multi-language master.
	LanguageIndex *int

	LocalFilename    string
	PublishingPath   string
	Folder           string
	MimeType         string
	ProfileSlug      string
	ProfileExtension string

	Voctoweb VoctowebPlan
	YouTube  YouTubePlan
	Rclone   RclonePlan
	Webhook  WebhookPlan
	Announce AnnouncePlan

	overrides map[string]string
}

// AddOverride records a derived property to be written back to the tracker.
func (t *Ticket) AddOverride(key, value string) {
	if t.overrides == nil {
		t.overrides = make(map[string]string)
	}
	t.overrides[key] = value
}

// ToRawOverrides returns the derived properties accumulated so far. Only
// derived and idempotency keys ever appear here; required source keys are
// never redefined.
func (t *Ticket) ToRawOverrides() map[string]string {
	if len(t.overrides) == 0 {
		return nil
	}
	cp := make(map[string]string, len(t.overrides))
	for k, v := range t.overrides {
		cp[k] = v
	}
	return cp
}

// SourcePath returns the absolute path of the rendered file this ticket
// publishes.
func (t *Ticket) SourcePath() string {
	return filepath.Join(t.PublishingPath, t.LocalFilename)
}

// SingleLanguage reports whether the ticket carries exactly one audio
// language.
func (t *Ticket) SingleLanguage() bool {
	return len(t.Languages) == 1
}

// LanguageIndexes returns the language map keys in ascending order.
func (t *Ticket) LanguageIndexes() []int {
	indexes := make([]int, 0, len(t.Languages))
	for idx := range t.Languages {
		indexes = append(indexes, idx)
	}
	sort.Ints(indexes)
	return indexes
}

// PublishLanguages returns the language units this encoding publishes: the
// single entry selected by LanguageIndex when present, otherwise all entries
// in index order.
func (t *Ticket) PublishLanguages() map[int]string {
	if t.LanguageIndex != nil {
		idx := *t.LanguageIndex
		if code, ok := t.Languages[idx]; ok {
			return map[int]string{idx: code}
		}
		return nil
	}
	return t.Languages
}

// LanguageFilename derives the per-language output filename using the
// target's naming template (base name and language code placeholders).
func (t *Ticket) LanguageFilename(template, code string) string {
	base := strings.TrimSuffix(t.LocalFilename, filepath.Ext(t.LocalFilename))
	name := fmt.Sprintf(template, base, code)
	return name + filepath.Ext(t.LocalFilename)
}

// VoctowebRecordingKey returns the derived property key holding the
// recording id for a language. The master marker key is used for the
// original language of single-language tickets.
func VoctowebRecordingKey(code string, master bool) string {
	if master {
		return keyVoctowebRecordingPfx + "Master"
	}
	return keyVoctowebRecordingPfx + code
}

// YouTubeURLKey returns the derived property key holding the published
// video URL for a language index.
func YouTubeURLKey(index int) string {
	return fmt.Sprintf("%s%d", keyYouTubeURLPrefix, index)
}

// RcloneDestinationKey is the derived property key recording the synced
// remote filename.
func RcloneDestinationKey() string { return keyRcloneDestFileName }

// VoctowebEventKey is the derived property key recording the remote event id.
func VoctowebEventKey() string { return keyVoctowebEventID }
