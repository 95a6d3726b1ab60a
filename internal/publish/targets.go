package publish

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"lectern/internal/announce"
	"lectern/internal/logging"
	"lectern/internal/services"
	"lectern/internal/targets"
	"lectern/internal/ticket"
)

// run carries the mutable state of one ticket's publish pass.
type run struct {
	o       *Orchestrator
	t       *ticket.Ticket
	logger  *slog.Logger
	units   []Unit
	demuxed map[int]string
	// aborted is set when the tracker stops accepting derived property
	// writes; remaining targets are not attempted.
	aborted bool
}

// publishAll walks the targets in their fixed order. The announcer runs
// strictly last and only for master encodings; its failures are logged and
// swallowed.
func (r *run) publishAll(ctx context.Context) {
	steps := []struct {
		name       string
		enabled    bool
		masterOnly bool
		fn         func(context.Context)
	}{
		{"voctoweb", r.o.media != nil && r.t.Voctoweb.Flags.Enabled(), false, r.publishVoctoweb},
		{"youtube", r.o.video != nil && r.t.YouTube.Flags.Enabled(), false, r.publishYouTube},
		{"rclone", r.o.sync != nil && r.t.Rclone.Flags.Enabled(), false, r.publishRclone},
		{"webhook", r.o.webhook != nil && r.t.Webhook.Flags.Enabled(), false, r.publishWebhook},
		{"announce", r.o.announcer != nil && r.t.Announce.Flags.Enabled(), true, r.publishAnnounce},
	}
	for _, step := range steps {
		if r.aborted {
			return
		}
		if !step.enabled {
			continue
		}
		if step.masterOnly && !r.t.IsMaster {
			continue
		}
		step.fn(services.WithTarget(ctx, step.name))
	}
}

func (r *run) succeed(target, language, url string) {
	r.units = append(r.units, Unit{Target: target, Language: language, State: StateSucceeded, URL: url})
}

func (r *run) skip(target, language, reason string) {
	r.units = append(r.units, Unit{Target: target, Language: language, State: StateSkipped, Detail: reason})
	r.logger.Info("unit skipped",
		logging.String("target", target),
		logging.String("language", language),
		logging.String("reason", reason))
}

func (r *run) fail(target, language string, err error) {
	detail := fmt.Sprintf("%s: %s", target, err.Error())
	if language != "" {
		detail = fmt.Sprintf("%s (%s): %s", target, language, err.Error())
	}
	r.units = append(r.units, Unit{Target: target, Language: language, State: StateFailed, Detail: detail})
	r.logger.Error("unit failed",
		logging.String("target", target),
		logging.String("language", language),
		logging.Error(err))
}

// persist writes one derived property to the tracker and records it on the
// ticket. A tracker write failure is fatal for the rest of the run.
func (r *run) persist(ctx context.Context, key, value string) bool {
	r.t.AddOverride(key, value)
	if err := r.o.tracker.SetProperties(ctx, r.t.ID, map[string]string{key: value}); err != nil {
		r.logger.Error("derived property write failed",
			logging.String("key", key),
			logging.Error(err))
		r.units = append(r.units, Unit{Target: "tracker", State: StateFailed, Detail: err.Error()})
		r.aborted = true
		return false
	}
	return true
}

// shouldSkip applies the shared idempotency decision for targets carrying a
// publish marker.
func shouldSkip(markerExists bool, policy ticket.UpdatePolicy, singleLanguage bool) (bool, string) {
	if !markerExists {
		return false, ""
	}
	switch policy {
	case ticket.UpdateIgnore:
		return true, "already published, ignoring"
	case ticket.UpdateForce:
		return false, ""
	default:
		if singleLanguage {
			return true, "already published"
		}
		return false, ""
	}
}

// unitFile returns the single-track file for one language unit, remuxing the
// master on first use when it carries multiple tracks.
func (r *run) unitFile(ctx context.Context, index int, code string) (string, error) {
	if len(r.t.PublishLanguages()) <= 1 {
		return r.t.SourcePath(), nil
	}
	if path, ok := r.demuxed[index]; ok {
		return path, nil
	}
	if r.o.remuxer == nil {
		return "", services.Wrap(services.ErrTarget, "remux", fmt.Sprintf("track %d", index), "no remuxer configured", nil)
	}
	name := r.t.LanguageFilename(r.o.cfg.Voctoweb.LanguageTemplate, code)
	outputPath := filepath.Join(r.o.cfg.Paths.OutputDir, name)
	if err := r.o.remuxer.Remux(ctx, r.t.SourcePath(), index, outputPath); err != nil {
		return "", services.Wrap(services.ErrTarget, "remux", fmt.Sprintf("track %d (%s)", index, code), "", err)
	}
	r.demuxed[index] = outputPath
	return outputPath, nil
}

func (r *run) publishVoctoweb(ctx context.Context) {
	t := r.t
	plan := t.Voctoweb

	// Master encodings own the talk-level event; non-masters only attach
	// recordings to an event created earlier.
	if t.IsMaster {
		if skip, _ := shouldSkip(plan.EventID != "", plan.Update, true); !skip {
			res, err := r.o.media.CreateOrUpdateEvent(ctx, t)
			if err != nil {
				r.fail("voctoweb", "", err)
				return
			}
			if res.AlreadyExists {
				r.logger.Warn("event already existed upstream", logging.String("slug", plan.Slug))
			}
			if res.ID != "" && !r.persist(ctx, ticket.VoctowebEventKey(), res.ID) {
				return
			}
		}
	}

	single := t.SingleLanguage()
	languages := t.PublishLanguages()
	for _, index := range t.LanguageIndexes() {
		code, ok := languages[index]
		if !ok {
			continue
		}
		markerName := code
		if single {
			markerName = "Master"
		}
		_, markerExists := plan.RecordingIDs[markerName]
		if skip, reason := shouldSkip(markerExists, plan.Update, single); skip {
			r.skip("voctoweb", code, reason)
			continue
		}

		localPath, err := r.unitFile(ctx, index, code)
		if err != nil {
			r.fail("voctoweb", code, err)
			continue
		}
		req := targets.Request{
			LocalPath:      localPath,
			RemoteFilename: filepath.Base(localPath),
			Folder:         t.Folder,
			Language:       code,
			LanguageIndex:  index,
			HighQuality:    true,
			HTML5:          true,
		}
		res, err := r.o.media.PublishRecording(ctx, t, req)
		if err != nil {
			r.fail("voctoweb", code, err)
			continue
		}
		if res.AlreadyExists {
			r.logger.Warn("recording already existed upstream", logging.String("language", code))
		}
		if res.ID != "" && !r.persist(ctx, ticket.VoctowebRecordingKey(code, single), res.ID) {
			return
		}
		r.succeed("voctoweb", code, res.URL)
	}
}

func (r *run) publishYouTube(ctx context.Context) {
	t := r.t
	plan := t.YouTube
	single := t.SingleLanguage()
	languages := t.PublishLanguages()

	for _, index := range t.LanguageIndexes() {
		code, ok := languages[index]
		if !ok {
			continue
		}
		_, markerExists := plan.URLs[index]
		if skip, reason := shouldSkip(markerExists, plan.Update, single); skip {
			r.skip("youtube", code, reason)
			continue
		}

		localPath, err := r.unitFile(ctx, index, code)
		if err != nil {
			r.fail("youtube", code, err)
			continue
		}
		req := targets.Request{
			LocalPath:      localPath,
			RemoteFilename: filepath.Base(localPath),
			Language:       code,
			LanguageIndex:  index,
		}
		res, err := r.o.video.PublishVideo(ctx, t, req)
		if err != nil {
			r.fail("youtube", code, err)
			continue
		}
		if res.URL != "" {
			// The webhook and announcer read published URLs off the
			// ticket later in the same run.
			t.YouTube.URLs = setURL(t.YouTube.URLs, index, res.URL)
			if !r.persist(ctx, ticket.YouTubeURLKey(index), res.URL) {
				return
			}
		}
		r.succeed("youtube", code, res.URL)
	}
}

func setURL(urls map[int]string, index int, url string) map[int]string {
	if urls == nil {
		urls = make(map[int]string)
	}
	urls[index] = url
	return urls
}

func (r *run) publishRclone(ctx context.Context) {
	t := r.t
	if t.Rclone.DestinationFile != "" {
		r.skip("rclone", "", "already synced")
		return
	}
	remoteName, err := r.o.sync.Sync(ctx, t, t.SourcePath())
	if err != nil {
		r.fail("rclone", "", err)
		return
	}
	if !r.persist(ctx, ticket.RcloneDestinationKey(), remoteName) {
		return
	}
	r.succeed("rclone", "", "")
}

func (r *run) publishWebhook(ctx context.Context) {
	if err := r.o.webhook.Send(ctx, r.t); err != nil {
		r.fail("webhook", "", err)
		return
	}
	r.succeed("webhook", "", "")
}

// publishAnnounce never records a failure: a missed announcement must not
// fail a release.
func (r *run) publishAnnounce(ctx context.Context) {
	message := strings.TrimSpace(r.t.Announce.Message)
	if message == "" {
		message = announce.Compose(r.t, r.publicURL())
	}
	if err := r.o.announcer.Announce(ctx, r.t, message); err != nil {
		r.logger.Warn("announcement failed", logging.Error(err))
		return
	}
	r.succeed("announce", "", "")
}

// publicURL picks the address the announcement points at: the media platform
// page when that target ran, otherwise the first published video URL.
func (r *run) publicURL() string {
	t := r.t
	if t.Voctoweb.Flags.Enabled() && t.Voctoweb.Slug != "" {
		frontend := strings.TrimRight(r.o.cfg.Voctoweb.FrontendURL, "/")
		if frontend != "" {
			return frontend + "/v/" + t.Voctoweb.Slug
		}
	}
	for _, index := range t.LanguageIndexes() {
		if url, ok := t.YouTube.URLs[index]; ok {
			return url
		}
	}
	return ""
}
