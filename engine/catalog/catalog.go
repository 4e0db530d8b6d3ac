// Package catalog holds the make/model/trim hierarchy and the alias tables
// the extraction engine resolves against. A Catalog is immutable once
// built; derived views are precomputed so the hot extraction path never
// rebuilds option lists.
package catalog

import (
	"sort"
	"strings"

	"github.com/SeezeAI/seeze-engine/pkg/fn"
)

// Catalog is the in-memory vehicle hierarchy plus alias tables.
type Catalog struct {
	// make -> model -> trims, all make keys lower-cased
	hierarchy map[string]map[string][]string
	// make -> lower(model) -> model as stored
	modelIndex map[string]map[string]string

	makeNames      []string
	matchableMakes []string
	allModels      []string
	allTrims       []string

	modelAliases map[string]map[string]string
	trimAliases  map[string]map[string]string
}

// build derives the lookup views from a raw hierarchy and alias tables.
func build(hierarchy map[string]map[string][]string, modelAliases, trimAliases map[string]map[string]string) *Catalog {
	c := &Catalog{
		hierarchy:    make(map[string]map[string][]string, len(hierarchy)),
		modelIndex:   make(map[string]map[string]string, len(hierarchy)),
		modelAliases: modelAliases,
		trimAliases:  trimAliases,
	}
	for mk, models := range hierarchy {
		mk = strings.ToLower(mk)
		c.hierarchy[mk] = make(map[string][]string, len(models))
		c.modelIndex[mk] = make(map[string]string, len(models))
		for model, trims := range models {
			sorted := make([]string, len(trims))
			copy(sorted, trims)
			sort.Strings(sorted)
			c.hierarchy[mk][model] = sorted
			c.modelIndex[mk][strings.ToLower(model)] = model
		}
		c.makeNames = append(c.makeNames, mk)
	}
	sort.Strings(c.makeNames)

	matchable := append([]string{}, c.makeNames...)
	for alias := range makeAliases {
		matchable = append(matchable, alias)
	}
	matchable = append(matchable, extraMakes...)
	c.matchableMakes = fn.Unique(matchable)
	sort.Strings(c.matchableMakes)

	for _, mk := range c.makeNames {
		models := make([]string, 0, len(c.hierarchy[mk]))
		for model := range c.hierarchy[mk] {
			models = append(models, model)
		}
		sort.Strings(models)
		c.allModels = append(c.allModels, models...)
		for _, model := range models {
			c.allTrims = append(c.allTrims, c.hierarchy[mk][model]...)
		}
	}
	return c
}

// Makes returns the catalog make names, sorted.
func (c *Catalog) Makes() []string { return c.makeNames }

// MatchableMakes returns catalog makes plus recognized aliases, sorted.
// Aliases resolve to canonical names through CanonicalMake after matching.
func (c *Catalog) MatchableMakes() []string { return c.matchableMakes }

// IsMake reports whether name is a catalog make, case-insensitive.
func (c *Catalog) IsMake(name string) bool {
	_, ok := c.hierarchy[strings.ToLower(name)]
	return ok
}

// ModelsOf returns the models of a make, sorted, or nil for unknown makes.
func (c *Catalog) ModelsOf(mk string) []string {
	models, ok := c.hierarchy[strings.ToLower(mk)]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(models))
	for model := range models {
		out = append(out, model)
	}
	sort.Strings(out)
	return out
}

// TrimsOf returns the trims of a model under a make, case-insensitive on
// both, or nil when either is unknown.
func (c *Catalog) TrimsOf(mk, model string) []string {
	lmk := strings.ToLower(mk)
	canonical, ok := c.modelIndex[lmk][strings.ToLower(model)]
	if !ok {
		return nil
	}
	return c.hierarchy[lmk][canonical]
}

// TrimsOfMake returns every trim under any model of a make, in sorted
// model order.
func (c *Catalog) TrimsOfMake(mk string) []string {
	models := c.ModelsOf(mk)
	if models == nil {
		return nil
	}
	var out []string
	for _, model := range models {
		out = append(out, c.TrimsOf(mk, model)...)
	}
	return out
}

// AllModels returns every model in the catalog, in sorted make order.
func (c *Catalog) AllModels() []string { return c.allModels }

// AllTrims returns every trim in the catalog, in sorted make and model order.
func (c *Catalog) AllTrims() []string { return c.allTrims }

// HasModel reports whether a make has the given model, case-insensitive.
func (c *Catalog) HasModel(mk, model string) bool {
	_, ok := c.modelIndex[strings.ToLower(mk)][strings.ToLower(model)]
	return ok
}

// ModelHasTrim reports whether trim is listed under the given make and
// model, case-insensitive.
func (c *Catalog) ModelHasTrim(mk, model, trim string) bool {
	for _, t := range c.TrimsOf(mk, model) {
		if strings.EqualFold(t, trim) {
			return true
		}
	}
	return false
}

// MakeOfModel returns the first make (in sorted order) owning the model,
// case-insensitive.
func (c *Catalog) MakeOfModel(model string) (string, bool) {
	lm := strings.ToLower(model)
	for _, mk := range c.makeNames {
		if _, ok := c.modelIndex[mk][lm]; ok {
			return mk, true
		}
	}
	return "", false
}

// OwnerOfTrim returns the first make and model (in sorted order) owning the
// trim, case-insensitive.
func (c *Catalog) OwnerOfTrim(trim string) (string, string, bool) {
	for _, mk := range c.makeNames {
		if model, ok := c.ModelOwningTrim(mk, trim); ok {
			return mk, model, true
		}
	}
	return "", "", false
}

// ModelOwningTrim returns the model under a make that carries the trim.
// Comparison ignores case and spacing, so "blackbadge" matches the stored
// "black badge".
func (c *Catalog) ModelOwningTrim(mk, trim string) (string, bool) {
	want := squash(trim)
	for _, model := range c.ModelsOf(mk) {
		for _, t := range c.TrimsOf(mk, model) {
			if squash(t) == want {
				return model, true
			}
		}
	}
	return "", false
}

// ModelAlias maps an extracted model to its canonical form for a make, if
// the make has a model alias table.
func (c *Catalog) ModelAlias(mk, model string) (string, bool) {
	canonical, ok := c.modelAliases[strings.ToLower(mk)][strings.ToLower(model)]
	return canonical, ok
}

// TrimAlias maps an extracted trim to its canonical form for a make, if the
// make has a trim alias table.
func (c *Catalog) TrimAlias(mk, trim string) (string, bool) {
	canonical, ok := c.trimAliases[strings.ToLower(mk)][strings.ToLower(trim)]
	return canonical, ok
}

func squash(s string) string {
	return strings.ReplaceAll(strings.ToLower(s), " ", "")
}
