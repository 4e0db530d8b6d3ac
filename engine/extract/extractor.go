// Package extract runs hierarchical make/model/trim extraction over raw
// listing text. Resolution narrows top-down: a resolved make restricts the
// model search to that make's models, and a resolved model restricts the
// trim search to that model's trims. Each level tries an exact phrase tag
// before falling back to fuzzy matching.
package extract

import (
	"log/slog"
	"strings"

	"github.com/SeezeAI/seeze-engine/engine/catalog"
	"github.com/SeezeAI/seeze-engine/engine/domain"
	"github.com/SeezeAI/seeze-engine/engine/match"
	"github.com/SeezeAI/seeze-engine/engine/tagger"
	"github.com/SeezeAI/seeze-engine/pkg/fn"
)

// Engine extracts vehicle identity from listing text against a catalog.
type Engine struct {
	cat       *catalog.Catalog
	threshold float64
	logger    *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithThreshold overrides the fuzzy match threshold.
func WithThreshold(t float64) Option {
	return func(e *Engine) { e.threshold = t }
}

// WithLogger sets the engine logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// New creates an Engine over cat.
func New(cat *catalog.Catalog, opts ...Option) *Engine {
	e := &Engine{
		cat:       cat,
		threshold: match.DefaultThreshold,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract resolves the make, model, and trim of a listing. Fields that
// cannot be determined hold domain.Sentinel. Extraction never fails: the
// worst outcome is an all-sentinel result.
func (e *Engine) Extract(listing string) domain.Result {
	text := strings.ToLower(listing)
	var mk, model, trim string

	// "g wagon" never appears in the catalog under that name
	if strings.Contains(text, " g wagon") {
		mk, model = "mercedes-benz", "g-class"
		trim, _, _ = e.resolveOption(text, e.cat.TrimsOf(mk, model))
	} else {
		mk, model, trim, text = e.resolveHierarchy(text)
	}

	// global fallbacks when the hierarchy walk came up empty; these run the
	// same tag, fuzzy, squashed ladder as the in-make passes
	if model == "" {
		if m, _, ok := e.resolveOption(text, e.cat.AllModels()); ok {
			model = m
		}
	}
	if model == "" && trim == "" {
		if t, _, ok := e.resolveOption(text, e.cat.AllTrims()); ok {
			trim = t
		}
	}

	mk, model = e.crossInfer(mk, model, trim)
	model, trim = e.consistencyCheck(text, mk, model, trim)

	res := e.normalize(mk, model, trim)
	e.logger.Debug("extracted listing",
		"make", res.Make, "model", res.Model, "trim", res.Trim)
	return res
}

// resolveHierarchy walks make, then model, then trim, removing each matched
// phrase from the text before descending so it cannot match again at a
// lower level. It returns the remaining text for the fallback passes.
func (e *Engine) resolveHierarchy(text string) (mk, model, trim, rest string) {
	if span, ok := tagger.First(text, e.cat.MatchableMakes()); ok {
		mk = span.Text
		text = trimFirst(text, span.Text)
	} else if m, ok := match.ClosestMatch(text, e.cat.MatchableMakes(), e.threshold); ok {
		mk = m.Option
		text = trimFirst(text, m.Fragment)
	} else if m, ok := match.ClosestMatch(text, e.cat.AllModels(), e.threshold); ok {
		// no make anywhere in the text; derive it from the model
		model = m.Option
		mk, _ = e.cat.MakeOfModel(model)
	}
	mk = catalog.CanonicalMake(mk)

	if !e.cat.IsMake(mk) {
		return mk, model, trim, text
	}

	if opt, frag, ok := e.resolveOption(text, e.cat.ModelsOf(mk)); ok {
		model = opt
		// mercedes model names bleed into trim names ("e-class" vs "e 300"),
		// so the model text stays in place for the trim pass
		if mk != "mercedes-benz" {
			text = trimFirst(text, frag)
		}
		if t, _, ok := e.resolveOption(text, e.cat.TrimsOf(mk, model)); ok {
			trim = t
		}
	} else if model == "" {
		// no model matched; a trim of this make may still pin one down
		if t, _, ok := e.resolveOption(text, e.cat.TrimsOfMake(mk)); ok {
			trim = t
			if m, ok := e.cat.ModelOwningTrim(mk, trim); ok {
				model = m
			}
		}
	}
	return mk, model, trim, text
}

// resolveOption matches text against options: exact tag first, then fuzzy,
// then fuzzy against the options with spacing squashed out.
func (e *Engine) resolveOption(text string, options []string) (option, fragment string, ok bool) {
	if len(options) == 0 {
		return "", "", false
	}
	if span, ok := tagger.First(text, options); ok {
		return span.Text, strings.ToLower(span.Text), true
	}
	if m, ok := match.ClosestMatch(text, options, e.threshold); ok {
		return m.Option, m.Fragment, true
	}
	squash := func(o string) string { return strings.ReplaceAll(o, " ", "") }
	if m, ok := match.ClosestMatch(text, fn.Map(options, squash), e.threshold); ok {
		originals := fn.FilterMap(options, func(o string) (string, bool) {
			return o, squash(o) == m.Option
		})
		if len(originals) > 0 {
			return originals[0], m.Fragment, true
		}
	}
	return "", "", false
}

// crossInfer fills a missing make or model from what was found lower down
// the hierarchy.
func (e *Engine) crossInfer(mk, model, trim string) (string, string) {
	if mk == "" && model != "" {
		mk, _ = e.cat.MakeOfModel(model)
	}
	if trim != "" && mk == "" {
		if owner, om, ok := e.cat.OwnerOfTrim(trim); ok {
			mk, model = owner, om
		}
	}
	if trim != "" && mk != "" && model == "" {
		if om, ok := e.cat.ModelOwningTrim(mk, trim); ok {
			model = om
		}
	}
	return mk, model
}

// consistencyCheck nulls fields that contradict the hierarchy: a model the
// make does not carry takes the trim down with it, and a trim foreign to a
// resolved make+model pair is dropped. A trim found without a model is left
// alone. When make and model hold but no trim was found, one last fuzzy
// pass runs over the model's trims.
func (e *Engine) consistencyCheck(text, mk, model, trim string) (string, string) {
	if mk == "" {
		return model, trim
	}
	if model != "" && !e.cat.HasModel(mk, model) {
		model, trim = "", ""
	}
	if model != "" && trim != "" && !e.cat.ModelHasTrim(mk, model, trim) {
		trim = ""
	}
	if model != "" && trim == "" {
		if m, ok := match.ClosestMatch(text, e.cat.TrimsOf(mk, model), e.threshold); ok {
			trim = m.Option
		}
	}
	return model, trim
}

// normalize lower-cases the resolved fields, applies the per-make alias
// tables, and fills undetermined fields with the sentinel.
func (e *Engine) normalize(mk, model, trim string) domain.Result {
	res := domain.Empty()
	if mk != "" {
		res.Make = strings.ToLower(mk)
	}
	if model != "" {
		model = strings.ToLower(model)
		if a, ok := e.cat.ModelAlias(res.Make, model); ok {
			model = a
		}
		res.Model = model
	}
	if trim != "" {
		trim = strings.ToLower(trim)
		if a, ok := e.cat.TrimAlias(res.Make, trim); ok {
			trim = a
		}
		res.Trim = trim
	}
	return res
}

// trimFirst removes the first occurrence of phrase from text so a token
// matched at one level cannot match again at the next.
func trimFirst(text, phrase string) string {
	if phrase == "" {
		return text
	}
	return strings.TrimSpace(strings.Replace(text, phrase, "", 1))
}
