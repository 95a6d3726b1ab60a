package ticket

import (
	"log/slog"
	"strconv"
	"strings"

	"lectern/internal/config"
	"lectern/internal/logging"
	"lectern/internal/tracker"
)

// Resolve validates the raw property bag and produces the typed ticket view.
// It never touches a collaborator: any failure here happens before the first
// external side effect.
func Resolve(raw tracker.RawProperties, ticketID int64, cfg *config.Config, logger *slog.Logger) (*Ticket, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	if len(raw) == 0 {
		return nil, validationErrorf(ticketID, "ticket has no properties")
	}

	b := &bag{ticketID: ticketID, raw: raw, cfg: cfg, logger: logger}

	required := make(map[string]string, len(requiredKeys))
	for _, key := range requiredKeys {
		value, err := b.required(key)
		if err != nil {
			return nil, err
		}
		required[key] = value
	}

	t := &Ticket{
		ID:         ticketID,
		FahrplanID: required[keyFahrplanID],
		GUID:       required[keyFahrplanGUID],
		Title:      required[keyTitle],
		Room:       required[keyRoom],
		Date:       required[keyDate],
		IsMaster:   isTrue(required[keyIsMaster]),

		Subtitle:    b.optional(keySubtitle),
		Abstract:    b.optional(keyAbstract),
		Description: b.optional(keyDescription),
		Track:       b.optional(keyTrack),
		Day:         b.optional(keyDay),
		Conference:  b.optionalWithDefault(keyConference),
		People:      b.list(keyPersons, ","),
		Tags:        b.list(keyPublishingTags, ","),

		ProfileSlug:      required[keyProfileSlug],
		ProfileExtension: required[keyProfileExtension],
		MimeType:         required[keyProfileMimeType],
		PublishingPath:   required[keyPublishingPath],
		Folder:           b.optionalWithDefault(keyFolder),
	}
	t.LocalFilename = required[keyProfileBasename] + "." + t.ProfileExtension

	// Abstract and description are deduplicated; when equal the abstract
	// carries no extra information and is dropped.
	if t.Abstract != "" && t.Abstract == t.Description {
		t.Abstract = ""
	}

	languages, err := b.resolveLanguages(required[keyLanguage])
	if err != nil {
		return nil, err
	}
	t.Languages = languages

	if t.LanguageIndex, err = b.integer(keyLanguageIndex); err != nil {
		return nil, err
	}
	if t.LanguageIndex != nil {
		if _, ok := t.Languages[*t.LanguageIndex]; !ok {
			return nil, validationErrorf(ticketID, "language index %d not present in language map", *t.LanguageIndex)
		}
	}

	t.Slug = b.optional(keyFahrplanSlug)
	if t.Slug == "" {
		t.Slug = DeriveSlug(t.Conference, t.FahrplanID, t.Title)
	}

	if err := b.resolveVoctoweb(t); err != nil {
		return nil, err
	}
	if err := b.resolveYouTube(t); err != nil {
		return nil, err
	}
	b.resolveRclone(t)
	b.resolveWebhook(t)
	b.resolveAnnounce(t)

	return t, nil
}

func (b *bag) resolveVoctoweb(t *Ticket) error {
	plan := VoctowebPlan{
		Flags: TargetFlags{
			Profile: b.boolean(keyVoctowebEnableProfile),
			Project: b.boolean(keyVoctowebEnable),
		},
		Slug:      b.optionalWithDefault(keyVoctowebSlug),
		Path:      b.optional(keyVoctowebPath),
		ThumbPath: b.optional(keyVoctowebThumbPath),
		EventID:   b.optional(keyVoctowebEventID),
	}
	var err error
	if plan.Update, err = b.policy(keyVoctowebUpdate); err != nil {
		return err
	}

	// Existing per-language recording markers: presence means "do not
	// recreate, optionally still upload".
	for _, key := range b.raw.Keys() {
		rest, ok := cutPrefixFold(key, keyVoctowebRecordingPfx)
		if !ok || rest == "" {
			continue
		}
		value, _ := b.raw.Get(key)
		if strings.TrimSpace(value) == "" {
			continue
		}
		if plan.RecordingIDs == nil {
			plan.RecordingIDs = make(map[string]string)
		}
		plan.RecordingIDs[rest] = strings.TrimSpace(value)
	}

	t.Voctoweb = plan
	return nil
}

func (b *bag) resolveYouTube(t *Ticket) error {
	plan := YouTubePlan{
		Flags: TargetFlags{
			Profile: b.boolean(keyYouTubeEnableProfile),
			Project: b.boolean(keyYouTubeEnable),
		},
		Privacy:   strings.ToLower(b.optionalWithDefault(keyYouTubePrivacy)),
		PublishAt: b.optional(keyYouTubePublishAt),
		Tags:      b.list(keyYouTubeTags, ","),
		Playlists: b.list(keyYouTubePlaylists, " "),
		Token:     b.optionalWithDefault(keyYouTubeToken),
	}
	var err error
	if plan.Update, err = b.policy(keyYouTubeUpdate); err != nil {
		return err
	}

	// A scheduled publish time only makes sense for a video that starts
	// out private. This is a policy invariant, not a formatting check.
	if plan.PublishAt != "" && plan.Privacy != "private" {
		return validationErrorf(b.ticketID, "%s is set but %s is %q, not private",
			keyYouTubePublishAt, keyYouTubePrivacy, plan.Privacy)
	}

	for _, key := range b.raw.Keys() {
		rest, ok := cutPrefixFold(key, keyYouTubeURLPrefix)
		if !ok || rest == "" {
			continue
		}
		index, err := strconv.Atoi(rest)
		if err != nil || index < 0 {
			continue
		}
		value, _ := b.raw.Get(key)
		if strings.TrimSpace(value) == "" {
			continue
		}
		if plan.URLs == nil {
			plan.URLs = make(map[int]string)
		}
		plan.URLs[index] = strings.TrimSpace(value)
	}

	t.YouTube = plan
	return nil
}

func (b *bag) resolveRclone(t *Ticket) {
	t.Rclone = RclonePlan{
		Flags: TargetFlags{
			Profile: b.boolean(keyRcloneEnableProfile),
			Project: b.boolean(keyRcloneEnable),
		},
		Destination:     b.optionalWithDefault(keyRcloneDestination),
		DestinationFile: b.optional(keyRcloneDestFileName),
	}
}

func (b *bag) resolveWebhook(t *Ticket) {
	t.Webhook = WebhookPlan{
		Flags: TargetFlags{
			Profile: b.boolean(keyWebhookEnableProfile),
			Project: b.boolean(keyWebhookEnable),
		},
		URL: b.optionalWithDefault(keyWebhookURL),
	}
}

func (b *bag) resolveAnnounce(t *Ticket) {
	t.Announce = AnnouncePlan{
		Flags: TargetFlags{
			Profile: b.boolean(keyAnnounceEnableProfile),
			Project: b.boolean(keyAnnounceEnable),
		},
		Message: b.optional(keyAnnounceMessage),
	}
}
