package publish

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"lectern/internal/config"
	"lectern/internal/journal"
	"lectern/internal/logging"
	"lectern/internal/media"
	"lectern/internal/services"
	"lectern/internal/targets"
	"lectern/internal/ticket"
	"lectern/internal/tracker"
)

// Remuxer produces a single-audio-track derivative of a multi-track master.
type Remuxer interface {
	Remux(ctx context.Context, path string, trackIndex int, outputPath string) error
}

// Prober inspects a media file. Used before demuxing to confirm the source
// really carries the audio tracks the ticket's language map names.
type Prober interface {
	Probe(ctx context.Context, path string) (media.Info, error)
}

// Orchestrator owns one ticket at a time: claim, resolve, publish, report.
type Orchestrator struct {
	cfg       *config.Config
	tracker   tracker.Client
	media     targets.Media
	video     targets.Video
	sync      targets.Sync
	webhook   targets.Webhook
	announcer targets.Announcer
	remuxer   Remuxer
	prober    Prober
	journal   *journal.Store
	logger    *slog.Logger
}

// Option configures the orchestrator.
type Option func(*Orchestrator)

// WithMedia sets the media platform adapter.
func WithMedia(m targets.Media) Option { return func(o *Orchestrator) { o.media = m } }

// WithVideo sets the video platform adapter.
func WithVideo(v targets.Video) Option { return func(o *Orchestrator) { o.video = v } }

// WithSync sets the file-sync adapter.
func WithSync(s targets.Sync) Option { return func(o *Orchestrator) { o.sync = s } }

// WithWebhook sets the webhook adapter.
func WithWebhook(w targets.Webhook) Option { return func(o *Orchestrator) { o.webhook = w } }

// WithAnnouncer sets the social announcer.
func WithAnnouncer(a targets.Announcer) Option { return func(o *Orchestrator) { o.announcer = a } }

// WithRemuxer sets the media remux collaborator.
func WithRemuxer(r Remuxer) Option { return func(o *Orchestrator) { o.remuxer = r } }

// WithProber sets the media probe collaborator.
func WithProber(p Prober) Option { return func(o *Orchestrator) { o.prober = p } }

// WithJournal sets the local publish journal. Optional; runs are still
// reported to the tracker without one.
func WithJournal(j *journal.Store) Option { return func(o *Orchestrator) { o.journal = j } }

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option { return func(o *Orchestrator) { o.logger = l } }

// New constructs an orchestrator. The tracker client is mandatory; target
// adapters left unset are simply never invoked.
func New(cfg *config.Config, trackerClient tracker.Client, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		cfg:     cfg,
		tracker: trackerClient,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// ProcessNext claims the next publishable ticket and runs it to its terminal
// report. It returns false when the tracker had no ticket to hand out.
func (o *Orchestrator) ProcessNext(ctx context.Context) (bool, error) {
	ticketID, ok, err := o.tracker.ClaimNext(ctx, nil)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	return true, o.Process(ctx, ticketID)
}

// Process drives one claimed ticket to exactly one terminal tracker call.
// Validation and precondition failures report Failed without touching any
// target; target failures are folded into the report and never abort the
// run.
func (o *Orchestrator) Process(ctx context.Context, ticketID int64) error {
	ctx = services.WithTicketID(ctx, ticketID)
	logger := logging.WithContext(ctx, o.logger)
	start := time.Now()

	raw, err := o.tracker.GetProperties(ctx, ticketID)
	if err != nil {
		return err
	}

	t, err := ticket.Resolve(raw, ticketID, o.cfg, logger)
	if err != nil {
		logger.Error("ticket rejected", logging.Error(err))
		return o.reportFatal(ctx, ticketID, start, nil, err)
	}
	if err := o.preflight(ctx, t); err != nil {
		logger.Error("preflight failed", logging.Error(err))
		return o.reportFatal(ctx, ticketID, start, t, err)
	}

	logger.Info("publishing ticket",
		logging.String("title", t.Title),
		logging.Bool("master", t.IsMaster),
		logging.Int("languages", len(t.PublishLanguages())))

	r := &run{o: o, t: t, logger: logger, demuxed: make(map[int]string)}
	r.publishAll(ctx)

	report := &Report{TicketID: ticketID, Units: r.units, Duration: time.Since(start)}
	return o.report(ctx, t, report)
}

// reportFatal handles validation and precondition failures: one SetFailed,
// no targets attempted.
func (o *Orchestrator) reportFatal(ctx context.Context, ticketID int64, start time.Time, t *ticket.Ticket, cause error) error {
	if err := o.tracker.SetFailed(ctx, ticketID, cause.Error()); err != nil {
		return errors.Join(cause, err)
	}
	entry := journal.Entry{TicketID: ticketID, Failed: true, Failure: cause.Error(), Duration: time.Since(start)}
	if t != nil {
		entry.GUID = t.GUID
		entry.Title = t.Title
	}
	o.record(ctx, entry)
	if services.IsFatal(cause) {
		return nil
	}
	return cause
}

func (o *Orchestrator) report(ctx context.Context, t *ticket.Ticket, report *Report) error {
	entry := journal.Entry{
		TicketID: report.TicketID,
		GUID:     t.GUID,
		Title:    t.Title,
		Duration: report.Duration,
	}
	for _, unit := range report.Units {
		name := unit.Target
		if unit.Language != "" {
			name = fmt.Sprintf("%s (%s)", unit.Target, unit.Language)
		}
		entry.Outcomes = append(entry.Outcomes, journal.Outcome{
			Target: name,
			State:  unit.State.String(),
			Detail: unit.Detail,
			URL:    unit.URL,
		})
	}

	var err error
	if report.Failed() {
		entry.Failed = true
		entry.Failure = report.FailureMessage()
		err = o.tracker.SetFailed(ctx, report.TicketID, entry.Failure)
	} else {
		err = o.tracker.SetDone(ctx, report.TicketID, doneMessage(report))
	}
	o.record(ctx, entry)
	return err
}

func (o *Orchestrator) record(ctx context.Context, entry journal.Entry) {
	if o.journal == nil {
		return
	}
	if _, err := o.journal.Record(ctx, entry); err != nil {
		o.logger.Warn("journal write failed", logging.Error(err))
	}
}

func doneMessage(report *Report) string {
	succeeded, skipped := 0, 0
	for _, unit := range report.Units {
		switch unit.State {
		case StateSucceeded:
			succeeded++
		case StateSkipped:
			skipped++
		}
	}
	return fmt.Sprintf("published: %d succeeded, %d skipped", succeeded, skipped)
}
