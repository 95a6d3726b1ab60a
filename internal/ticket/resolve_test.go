package ticket_test

import (
	"errors"
	"strings"
	"testing"

	"lectern/internal/config"
	"lectern/internal/services"
	"lectern/internal/ticket"
	"lectern/internal/tracker"
)

func baseProperties() tracker.RawProperties {
	return tracker.RawProperties{
		"Fahrplan.ID":               "7001",
		"Fahrplan.GUID":             "11111111-2222-3333-4444-555555555555",
		"Fahrplan.Title":            "Talk A",
		"Fahrplan.Room":             "Saal 1",
		"Fahrplan.Date":             "2026-12-27",
		"Record.Language":           "en",
		"EncodingProfile.IsMaster":  "yes",
		"EncodingProfile.Slug":      "hd",
		"EncodingProfile.Extension": "mp4",
		"EncodingProfile.MimeType":  "video/mp4",
		"EncodingProfile.Basename":  "talk-a-hd",
		"Publishing.Path":           "/video/encoded/conf",
	}
}

func resolve(t *testing.T, raw tracker.RawProperties) *ticket.Ticket {
	t.Helper()
	cfg := config.Default()
	tkt, err := ticket.Resolve(raw, 42, &cfg, nil)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	return tkt
}

func TestResolveRequiredKeyMissing(t *testing.T) {
	for _, key := range []string{"Fahrplan.Title", "Fahrplan.GUID", "Record.Language", "Publishing.Path"} {
		t.Run(key, func(t *testing.T) {
			raw := baseProperties()
			delete(raw, key)
			cfg := config.Default()
			_, err := ticket.Resolve(raw, 42, &cfg, nil)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !errors.Is(err, services.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
			var verr *ticket.ValidationError
			if !errors.As(err, &verr) || verr.TicketID != 42 {
				t.Fatalf("expected ValidationError for ticket 42, got %v", err)
			}
		})
	}
}

func TestResolveEmptyRequiredValueFails(t *testing.T) {
	raw := baseProperties()
	raw["Fahrplan.Title"] = "  "
	cfg := config.Default()
	if _, err := ticket.Resolve(raw, 42, &cfg, nil); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestResolveEmptyBagFails(t *testing.T) {
	cfg := config.Default()
	if _, err := ticket.Resolve(nil, 42, &cfg, nil); !errors.Is(err, services.ErrValidation) {
		t.Fatal("expected validation error for empty bag")
	}
}

func TestResolveSingleLanguageSynthesized(t *testing.T) {
	tkt := resolve(t, baseProperties())
	if len(tkt.Languages) != 1 || tkt.Languages[0] != "eng" {
		t.Fatalf("Languages = %v, want {0: eng}", tkt.Languages)
	}
	if !tkt.SingleLanguage() {
		t.Fatal("expected single language")
	}
}

func TestResolveLanguageTracks(t *testing.T) {
	raw := baseProperties()
	raw["Record.Language.0"] = "de"
	raw["Record.Language.1"] = "en"
	raw["Record.Language.2"] = "fr"

	tkt := resolve(t, raw)
	want := map[int]string{0: "deu", 1: "eng", 2: "fra"}
	if len(tkt.Languages) != len(want) {
		t.Fatalf("Languages = %v, want %v", tkt.Languages, want)
	}
	for idx, code := range want {
		if tkt.Languages[idx] != code {
			t.Fatalf("Languages[%d] = %q, want %q", idx, tkt.Languages[idx], code)
		}
	}
	if got := tkt.LanguageIndexes(); got[0] != 0 || got[1] != 1 || got[2] != 2 {
		t.Fatalf("LanguageIndexes = %v", got)
	}
}

func TestResolveLanguageOverrideReplacesMap(t *testing.T) {
	raw := baseProperties()
	raw["Record.Language.0"] = "de"
	raw["Record.Languages"] = "en-de"

	tkt := resolve(t, raw)
	if tkt.Languages[0] != "eng" || tkt.Languages[1] != "deu" || len(tkt.Languages) != 2 {
		t.Fatalf("Languages = %v, want positional override {0: eng, 1: deu}", tkt.Languages)
	}
}

func TestResolveUnknownLanguageFailsClosed(t *testing.T) {
	raw := baseProperties()
	raw["Record.Language"] = "qq"
	cfg := config.Default()
	if _, err := ticket.Resolve(raw, 42, &cfg, nil); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for unknown language, got %v", err)
	}
}

func TestResolveLanguageIndexSelectsUnit(t *testing.T) {
	raw := baseProperties()
	raw["Record.Language.0"] = "de"
	raw["Record.Language.1"] = "en"
	raw["Encoding.LanguageIndex"] = "1"

	tkt := resolve(t, raw)
	units := tkt.PublishLanguages()
	if len(units) != 1 || units[1] != "eng" {
		t.Fatalf("PublishLanguages = %v, want {1: eng}", units)
	}
}

func TestResolveLanguageIndexOutOfRange(t *testing.T) {
	raw := baseProperties()
	raw["Encoding.LanguageIndex"] = "3"
	cfg := config.Default()
	if _, err := ticket.Resolve(raw, 42, &cfg, nil); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestResolveBooleansAreTriState(t *testing.T) {
	raw := baseProperties()
	raw["Publishing.Voctoweb.EnableProfile"] = "yes"
	raw["Publishing.Voctoweb.Enable"] = "no"
	// YouTube flags absent entirely.

	tkt := resolve(t, raw)
	if tkt.Voctoweb.Flags.Profile == nil || !*tkt.Voctoweb.Flags.Profile {
		t.Fatal("profile flag should be explicit true")
	}
	if tkt.Voctoweb.Flags.Project == nil || *tkt.Voctoweb.Flags.Project {
		t.Fatal("project flag should be explicit false")
	}
	if tkt.Voctoweb.Flags.Enabled() {
		t.Fatal("target must not be enabled with project flag false")
	}
	if tkt.YouTube.Flags.Profile != nil || tkt.YouTube.Flags.Project != nil {
		t.Fatal("absent flags must be nil, not false")
	}
}

func TestResolveBooleanLiterals(t *testing.T) {
	for value, want := range map[string]bool{"yes": true, "YES": true, "1": true, "no": false, "true": false, "0": false} {
		raw := baseProperties()
		raw["EncodingProfile.IsMaster"] = value
		tkt := resolve(t, raw)
		if tkt.IsMaster != want {
			t.Errorf("IsMaster(%q) = %v, want %v", value, tkt.IsMaster, want)
		}
	}
}

func TestResolveAbstractDescriptionDedup(t *testing.T) {
	raw := baseProperties()
	raw["Fahrplan.Abstract"] = "Same text"
	raw["Fahrplan.Description"] = "Same text"
	tkt := resolve(t, raw)
	if tkt.Abstract != "" {
		t.Fatalf("expected abstract dropped when equal to description, got %q", tkt.Abstract)
	}

	raw["Fahrplan.Abstract"] = "Short"
	raw["Fahrplan.Description"] = "Long text"
	tkt = resolve(t, raw)
	if tkt.Abstract != "Short" {
		t.Fatalf("expected abstract kept, got %q", tkt.Abstract)
	}
}

func TestResolvePeopleOrderAndDuplicatesKept(t *testing.T) {
	raw := baseProperties()
	raw["Fahrplan.Person_list"] = " Alice ,Bob,, Alice "
	tkt := resolve(t, raw)
	want := []string{"Alice", "Bob", "Alice"}
	if len(tkt.People) != len(want) {
		t.Fatalf("People = %v, want %v", tkt.People, want)
	}
	for i := range want {
		if tkt.People[i] != want[i] {
			t.Fatalf("People = %v, want %v", tkt.People, want)
		}
	}
}

func TestResolveScheduledPublishRequiresPrivate(t *testing.T) {
	raw := baseProperties()
	raw["Publishing.YouTube.PublishAt"] = "2027-01-01T10:00:00Z"
	raw["Publishing.YouTube.Privacy"] = "public"
	cfg := config.Default()
	_, err := ticket.Resolve(raw, 42, &cfg, nil)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected policy invariant violation, got %v", err)
	}

	raw["Publishing.YouTube.Privacy"] = "private"
	if _, err := ticket.Resolve(raw, 42, &cfg, nil); err != nil {
		t.Fatalf("private scheduled publish should resolve: %v", err)
	}
}

func TestResolveUnknownUpdatePolicyFails(t *testing.T) {
	raw := baseProperties()
	raw["Publishing.Voctoweb.Update"] = "maybe"
	cfg := config.Default()
	if _, err := ticket.Resolve(raw, 42, &cfg, nil); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestResolveUpdatePolicies(t *testing.T) {
	raw := baseProperties()
	raw["Publishing.Voctoweb.Update"] = "force"
	raw["Publishing.YouTube.Update"] = "ignore"
	tkt := resolve(t, raw)
	if tkt.Voctoweb.Update != ticket.UpdateForce {
		t.Fatalf("voctoweb policy = %v", tkt.Voctoweb.Update)
	}
	if tkt.YouTube.Update != ticket.UpdateIgnore {
		t.Fatalf("youtube policy = %v", tkt.YouTube.Update)
	}
}

func TestResolveIdempotencyMarkers(t *testing.T) {
	raw := baseProperties()
	raw["Voctoweb.EventId"] = "ev-9"
	raw["Voctoweb.RecordingId.Master"] = "42"
	raw["Voctoweb.RecordingId.deu"] = "43"
	raw["YouTube.Url0"] = "https://youtu.be/abc"

	tkt := resolve(t, raw)
	if tkt.Voctoweb.EventID != "ev-9" {
		t.Fatalf("EventID = %q", tkt.Voctoweb.EventID)
	}
	if tkt.Voctoweb.RecordingIDs["Master"] != "42" || tkt.Voctoweb.RecordingIDs["deu"] != "43" {
		t.Fatalf("RecordingIDs = %v", tkt.Voctoweb.RecordingIDs)
	}
	if tkt.YouTube.URLs[0] != "https://youtu.be/abc" {
		t.Fatalf("URLs = %v", tkt.YouTube.URLs)
	}
}

func TestResolvePropertyDefaultFallback(t *testing.T) {
	raw := baseProperties()
	cfg := config.Default()
	cfg.PropertyDefaults = map[string]string{"Publishing.Voctoweb.Slug": "conf26"}
	tkt, err := ticket.Resolve(raw, 42, &cfg, nil)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if tkt.Voctoweb.Slug != "conf26" {
		t.Fatalf("expected config default slug, got %q", tkt.Voctoweb.Slug)
	}

	raw["Publishing.Voctoweb.Slug"] = "ticket-slug"
	tkt, err = ticket.Resolve(raw, 42, &cfg, nil)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if tkt.Voctoweb.Slug != "ticket-slug" {
		t.Fatalf("ticket value must win over config default, got %q", tkt.Voctoweb.Slug)
	}
}

func TestToRawOverridesNeverRedefinesSourceKeys(t *testing.T) {
	tkt := resolve(t, baseProperties())
	tkt.AddOverride("Voctoweb.RecordingId.Master", "42")
	tkt.AddOverride("YouTube.Url0", "https://youtu.be/abc")

	overrides := tkt.ToRawOverrides()
	for key := range overrides {
		for source := range baseProperties() {
			if strings.EqualFold(key, source) {
				t.Fatalf("override %q redefines a source key", key)
			}
		}
	}
	if overrides["Voctoweb.RecordingId.Master"] != "42" {
		t.Fatalf("overrides = %v", overrides)
	}
}

func TestSourcePathAndLanguageFilename(t *testing.T) {
	tkt := resolve(t, baseProperties())
	if tkt.SourcePath() != "/video/encoded/conf/talk-a-hd.mp4" {
		t.Fatalf("SourcePath = %q", tkt.SourcePath())
	}
	if got := tkt.LanguageFilename("%s-%s", "deu"); got != "talk-a-hd-deu.mp4" {
		t.Fatalf("LanguageFilename = %q", got)
	}
}
