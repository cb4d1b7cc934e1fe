// Package feedback renders learner-facing text in the learner's language.
package feedback

import (
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"

	"github.com/abhisek/mathpace/internal/adaptive"
	"github.com/abhisek/mathpace/internal/difficulty"
)

//go:embed locales/*.json
var localeFS embed.FS

// PraiseCount is the number of distinct praise lines.
const PraiseCount = 5

// Pace thresholds.
const (
	FastPace = 5 * time.Second
	GoodPace = 15 * time.Second
)

// DefaultLanguage is used when a requested language has no locale file.
const DefaultLanguage = "en"

var bundle = mustLoadBundle()

func mustLoadBundle() *i18n.Bundle {
	b := i18n.NewBundle(language.English)
	b.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		panic(fmt.Sprintf("feedback: read locales: %v", err))
	}
	for _, e := range entries {
		data, err := localeFS.ReadFile("locales/" + e.Name())
		if err != nil {
			panic(fmt.Sprintf("feedback: read %s: %v", e.Name(), err))
		}
		b.MustParseMessageFileBytes(data, e.Name())
	}
	return b
}

// Languages returns the tags with a locale file, English first.
func Languages() []string {
	tags := bundle.LanguageTags()
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		out = append(out, t.String())
	}
	return out
}

// Translator renders messages for one language.
type Translator struct {
	lang string
	loc  *i18n.Localizer
}

// New returns a Translator for lang. Unknown or unparsable languages fall
// back to English.
func New(lang string) *Translator {
	tag, err := language.Parse(lang)
	if err != nil {
		slog.Debug("unknown language, using English", "lang", lang)
		tag = language.English
	}
	matcher := language.NewMatcher(bundle.LanguageTags())
	_, idx, conf := matcher.Match(tag)
	resolved := bundle.LanguageTags()[idx]
	if conf == language.No {
		resolved = language.English
	}
	base, _ := resolved.Base()
	return &Translator{
		lang: base.String(),
		loc:  i18n.NewLocalizer(bundle, resolved.String(), DefaultLanguage),
	}
}

// Lang returns the base language the translator resolved to.
func (t *Translator) Lang() string {
	return t.lang
}

// Praise returns praise line i modulo PraiseCount.
func (t *Translator) Praise(i int) string {
	if i < 0 {
		i = -i
	}
	return t.msg(fmt.Sprintf("praise_%d", i%PraiseCount), nil)
}

// Encouragement is shown after a wrong answer.
func (t *Translator) Encouragement(correctAnswer int) string {
	return t.msg("encouragement", map[string]any{"Answer": correctAnswer})
}

// Pace comments on the answer time. Slow answers get no comment.
func (t *Translator) Pace(elapsed time.Duration) string {
	switch {
	case elapsed <= 0:
		return ""
	case elapsed < FastPace:
		return t.msg("pace_fast", nil)
	case elapsed < GoodPace:
		return t.msg("pace_good", nil)
	default:
		return ""
	}
}

// Transition is the banner for a level change. Maintain and clamped
// decisions have none.
func (t *Translator) Transition(d adaptive.Decision) string {
	if d.Clamped || !d.Changed() {
		return ""
	}
	data := map[string]any{"From": t.LevelName(d.From), "To": t.LevelName(d.To)}
	switch d.Kind {
	case adaptive.Increase:
		return t.msg("transition_up", data)
	case adaptive.Decrease:
		return t.msg("transition_down", data)
	default:
		return ""
	}
}

// Recommendation renders an end-of-session band. level is the suggested
// starting level of the next session.
func (t *Translator) Recommendation(rec adaptive.Recommendation, level difficulty.Level) string {
	return t.msg("rec_"+string(rec), map[string]any{"Level": t.LevelName(level)})
}

// Headline is a short title for a recommendation band.
func (t *Translator) Headline(rec adaptive.Recommendation) string {
	return t.msg("headline_"+string(rec), nil)
}

// StreakMilestone celebrates n correct answers in a row.
func (t *Translator) StreakMilestone(n int) string {
	s, err := t.loc.Localize(&i18n.LocalizeConfig{
		MessageID:    "streak_milestone",
		PluralCount:  n,
		TemplateData: map[string]any{"Count": n},
	})
	if err != nil {
		slog.Warn("missing translation", "id", "streak_milestone", "error", err)
		return fmt.Sprintf("%d in a row!", n)
	}
	return s
}

// LevelName is the localized display name of l.
func (t *Translator) LevelName(l difficulty.Level) string {
	if !l.Valid() {
		return l.String()
	}
	return t.msg("level_"+l.Key(), nil)
}

func (t *Translator) msg(id string, data map[string]any) string {
	s, err := t.loc.Localize(&i18n.LocalizeConfig{MessageID: id, TemplateData: data})
	if err != nil {
		slog.Warn("missing translation", "id", id, "error", err)
		return id
	}
	return s
}
