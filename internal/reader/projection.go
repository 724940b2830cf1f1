package reader

import (
	"strings"

	"github.com/goliatone/go-shelf/internal/catalog"
	"github.com/goliatone/go-shelf/reader"
)

// textField tracks one projected field across the fallback-chain walk. A field
// settles on the first chain locale whose overlay carries non-blank text;
// unsettled fields fall back to the base record at projection time.
type textField struct {
	value  string
	locale string
	set    bool
}

func (f *textField) fill(value *string, locale string) {
	if f.set {
		return
	}
	if value == nil {
		return
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return
	}
	f.value = trimmed
	f.locale = locale
	f.set = true
}

type workState struct {
	base        *catalog.Work
	baseLocale  string
	title       textField
	description textField
	body        textField
}

func newWorkState(base *catalog.Work, baseLocale string) *workState {
	return &workState{base: base, baseLocale: baseLocale}
}

func (s *workState) apply(overlay *catalog.WorkTranslation, locale string) {
	s.title.fill(overlay.Title, locale)
	s.description.fill(overlay.Description, locale)
	s.body.fill(overlay.Body, locale)
}

// applyBase settles still-open fields from the base record. Called when the
// chain walk reaches the locale the base record is authored in, so base text
// outranks translations further down the chain.
func (s *workState) applyBase() {
	s.title.fill(&s.base.Title, s.baseLocale)
	s.description.fill(s.base.Description, s.baseLocale)
}

func (s *workState) settled() bool {
	return s.title.set && s.description.set && s.body.set
}

func (s *workState) reset() {
	s.title = textField{}
	s.description = textField{}
	s.body = textField{}
}

func (s *workState) projection(requested string) reader.Projection {
	projection := reader.Projection{
		Title:        s.base.Title,
		Description:  s.base.Description,
		SourceLocale: s.baseLocale,
	}
	if s.title.set {
		projection.Title = s.title.value
		projection.SourceLocale = s.title.locale
	}
	if s.description.set {
		value := s.description.value
		projection.Description = &value
	}
	if s.body.set {
		value := s.body.value
		projection.Body = &value
	}
	projection.UsedFallback = usedFallback(projection.SourceLocale, requested)
	return projection
}

type chapterState struct {
	base       *catalog.Chapter
	baseLocale string
	title      textField
	body       textField
}

func newChapterState(base *catalog.Chapter, baseLocale string) *chapterState {
	return &chapterState{base: base, baseLocale: baseLocale}
}

func (s *chapterState) apply(overlay *catalog.ChapterTranslation, locale string) {
	s.title.fill(overlay.Title, locale)
	s.body.fill(overlay.Body, locale)
}

// applyBase settles still-open fields from the base chapter record, mirroring
// workState.applyBase.
func (s *chapterState) applyBase() {
	s.title.fill(s.base.Title, s.baseLocale)
	s.body.fill(s.base.Body, s.baseLocale)
}

func (s *chapterState) settled() bool {
	return s.title.set && s.body.set
}

func (s *chapterState) reset() {
	s.title = textField{}
	s.body = textField{}
}

func (s *chapterState) projection(requested string) reader.Projection {
	projection := reader.Projection{
		SourceLocale: s.baseLocale,
		Body:         s.base.Body,
	}
	if s.base.Title != nil {
		projection.Title = strings.TrimSpace(*s.base.Title)
	}
	if s.title.set {
		projection.Title = s.title.value
		projection.SourceLocale = s.title.locale
	}
	if s.body.set {
		value := s.body.value
		projection.Body = &value
	}
	projection.UsedFallback = usedFallback(projection.SourceLocale, requested)
	return projection
}

// usedFallback reports whether the reader got a different language than the
// one they asked for. Unsupported or blank requests always count as fallback.
func usedFallback(sourceLocale, requested string) bool {
	if requested == "" {
		return true
	}
	return sourceLocale != requested
}

func chaptersSettled(states []*chapterState) bool {
	for _, state := range states {
		if !state.settled() {
			return false
		}
	}
	return true
}

func resetChapters(states []*chapterState) {
	for _, state := range states {
		state.reset()
	}
}

func workStatesSettled(states []*workState) bool {
	for _, state := range states {
		if !state.settled() {
			return false
		}
	}
	return true
}

func applyChapterOverlays(states []*chapterState, overlays []*catalog.ChapterTranslation, locale string) {
	byID := make(map[string]*catalog.ChapterTranslation, len(overlays))
	for _, overlay := range overlays {
		if overlay == nil {
			continue
		}
		byID[overlay.ChapterID.String()] = overlay
	}
	for _, state := range states {
		if overlay, ok := byID[state.base.ID.String()]; ok {
			state.apply(overlay, locale)
		}
	}
}
