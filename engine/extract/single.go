package extract

import (
	"strings"

	"github.com/SeezeAI/seeze-engine/engine/catalog"
	"github.com/SeezeAI/seeze-engine/engine/domain"
	"github.com/SeezeAI/seeze-engine/engine/match"
	"github.com/SeezeAI/seeze-engine/engine/tagger"
)

// relaxedThreshold is used by ResolveTrimForMake when the strict pass finds
// nothing. The caller has already pinned the make, so a looser match within
// that make's trims is safe enough.
const relaxedThreshold = 0.4

// ResolveMake returns just the canonical make of a listing, or the sentinel.
func (e *Engine) ResolveMake(listing string) string {
	text := strings.ToLower(listing)
	if strings.TrimSpace(text) == "" {
		return domain.Sentinel
	}
	if span, ok := tagger.First(text, e.cat.MatchableMakes()); ok {
		return catalog.CanonicalMake(span.Text)
	}
	if m, ok := match.ClosestMatch(text, e.cat.MatchableMakes(), e.threshold); ok {
		return catalog.CanonicalMake(m.Option)
	}
	if m, ok := match.ClosestMatch(text, e.cat.AllModels(), e.threshold); ok {
		if mk, ok := e.cat.MakeOfModel(m.Option); ok {
			return mk
		}
	}
	return domain.Sentinel
}

// ResolveModel returns just the model of a listing, or the sentinel.
func (e *Engine) ResolveModel(listing string) string {
	return e.Extract(listing).Model
}

// ResolveTrim returns just the trim of a listing, or the sentinel.
func (e *Engine) ResolveTrim(listing string) string {
	return e.Extract(listing).Trim
}

// ResolveTrimForMake resolves a trim against a single make's trim set,
// retrying at relaxedThreshold when the strict pass finds nothing.
func (e *Engine) ResolveTrimForMake(mk, listing string) string {
	mk = catalog.CanonicalMake(mk)
	trims := e.cat.TrimsOfMake(mk)
	text := strings.ToLower(listing)
	if len(trims) == 0 || strings.TrimSpace(text) == "" {
		return domain.Sentinel
	}

	trim := ""
	if opt, _, ok := e.resolveOption(text, trims); ok {
		trim = opt
	} else if m, ok := match.ClosestMatch(text, trims, relaxedThreshold); ok {
		trim = m.Option
	}
	if trim == "" {
		return domain.Sentinel
	}
	trim = strings.ToLower(trim)
	if a, ok := e.cat.TrimAlias(mk, trim); ok {
		trim = a
	}
	return trim
}
