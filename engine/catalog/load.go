package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/SeezeAI/seeze-engine/engine/domain"
)

var utf8BOM = []byte("\xef\xbb\xbf")

// Load builds a Catalog from JSON sources. The hierarchy document nests
// make -> model -> trims, where trims are the keys of the innermost object
// (their values carry listing metadata this engine ignores). Alias readers
// hold make -> raw -> canonical tables and may be nil.
func Load(hierarchy, modelAliases, trimAliases io.Reader) (*Catalog, error) {
	raw, err := decodeHierarchy(hierarchy)
	if err != nil {
		return nil, err
	}

	ma, err := decodeAliases("model aliases", modelAliases)
	if err != nil {
		return nil, err
	}
	ta, err := decodeAliases("trim aliases", trimAliases)
	if err != nil {
		return nil, err
	}
	return build(raw, ma, ta), nil
}

// LoadFiles is Load over file paths. Alias paths may be empty.
func LoadFiles(hierarchyPath, modelAliasPath, trimAliasPath string) (*Catalog, error) {
	open := func(path string) (io.Reader, func(), error) {
		if path == "" {
			return nil, func() {}, nil
		}
		f, err := os.Open(path)
		if err != nil {
			return nil, nil, domain.NewLoadError(path, "", fmt.Errorf("%w: %w", domain.ErrCatalogSource, err))
		}
		return f, func() { f.Close() }, nil
	}

	h, closeH, err := open(hierarchyPath)
	if err != nil {
		return nil, err
	}
	defer closeH()
	m, closeM, err := open(modelAliasPath)
	if err != nil {
		return nil, err
	}
	defer closeM()
	t, closeT, err := open(trimAliasPath)
	if err != nil {
		return nil, err
	}
	defer closeT()

	return Load(h, m, t)
}

func decodeHierarchy(r io.Reader) (map[string]map[string][]string, error) {
	if r == nil {
		return nil, domain.NewLoadError("hierarchy", "", domain.ErrCatalogSource)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, domain.NewLoadError("hierarchy", "", fmt.Errorf("%w: %w", domain.ErrCatalogSource, err))
	}
	// catalog exports arrive BOM-prefixed from some upstream tooling
	data = bytes.TrimPrefix(data, utf8BOM)

	var doc map[string]map[string]map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, domain.NewLoadError("hierarchy", "", fmt.Errorf("%w: %w", domain.ErrMalformedCatalog, err))
	}

	out := make(map[string]map[string][]string, len(doc))
	for mk, models := range doc {
		if strings.TrimSpace(mk) == "" {
			return nil, domain.NewLoadError("hierarchy", mk, domain.ErrMalformedCatalog)
		}
		out[mk] = make(map[string][]string, len(models))
		for model, trims := range models {
			if strings.TrimSpace(model) == "" {
				return nil, domain.NewLoadError("hierarchy", mk, domain.ErrMalformedCatalog)
			}
			names := make([]string, 0, len(trims))
			for trim := range trims {
				if strings.TrimSpace(trim) == "" {
					return nil, domain.NewLoadError("hierarchy", mk+"/"+model, domain.ErrMalformedCatalog)
				}
				names = append(names, trim)
			}
			out[mk][model] = names
		}
	}
	return out, nil
}

func decodeAliases(source string, r io.Reader) (map[string]map[string]string, error) {
	if r == nil {
		return nil, nil
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, domain.NewLoadError(source, "", fmt.Errorf("%w: %w", domain.ErrCatalogSource, err))
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	var doc map[string]map[string]string
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, domain.NewLoadError(source, "", fmt.Errorf("%w: %w", domain.ErrMalformedAlias, err))
	}

	out := make(map[string]map[string]string, len(doc))
	for mk, table := range doc {
		lmk := strings.ToLower(mk)
		out[lmk] = make(map[string]string, len(table))
		for raw, canonical := range table {
			if strings.TrimSpace(raw) == "" || strings.TrimSpace(canonical) == "" {
				return nil, domain.NewLoadError(source, mk, domain.ErrMalformedAlias)
			}
			out[lmk][strings.ToLower(raw)] = strings.ToLower(canonical)
		}
	}
	return out, nil
}
