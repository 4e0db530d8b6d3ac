package catalog

import (
	"context"
	"fmt"
	"io"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/SeezeAI/seeze-engine/engine/domain"
)

const hierarchyQuery = `MATCH (mk:Make)-[:HAS_MODEL]->(m:Model)
OPTIONAL MATCH (m)-[:HAS_TRIM]->(t:Trim)
RETURN mk.name AS make, m.name AS model, collect(t.name) AS trims`

// graphResult is the minimal interface needed from a neo4j result.
type graphResult interface {
	Next(ctx context.Context) bool
	Record() *neo4j.Record
	Err() error
}

// LoadGraph builds a Catalog from a Neo4j vehicle graph instead of a JSON
// export. The graph models the same hierarchy as the file source:
// (:Make)-[:HAS_MODEL]->(:Model)-[:HAS_TRIM]->(:Trim). Alias tables stay
// file-backed; they are hand-curated and never lived in the graph.
func LoadGraph(ctx context.Context, driver neo4j.DriverWithContext, modelAliases, trimAliases io.Reader) (*Catalog, error) {
	sess := driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer sess.Close(ctx)

	result, err := sess.Run(ctx, hierarchyQuery, nil)
	if err != nil {
		return nil, domain.NewLoadError("neo4j", "", fmt.Errorf("%w: %w", domain.ErrCatalogSource, err))
	}

	hierarchy, err := hierarchyFromResult(ctx, result)
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
	return build(hierarchy, ma, ta), nil
}

// hierarchyFromResult folds make/model/trims rows into the raw hierarchy map.
func hierarchyFromResult(ctx context.Context, result graphResult) (map[string]map[string][]string, error) {
	hierarchy := make(map[string]map[string][]string)
	for result.Next(ctx) {
		rec := result.Record()
		mk, err := recordString(rec, "make")
		if err != nil {
			return nil, err
		}
		model, err := recordString(rec, "model")
		if err != nil {
			return nil, err
		}
		raw, _, err := neo4j.GetRecordValue[[]any](rec, "trims")
		if err != nil {
			return nil, domain.NewLoadError("neo4j", mk+"/"+model, fmt.Errorf("%w: %w", domain.ErrMalformedCatalog, err))
		}
		trims := make([]string, 0, len(raw))
		for _, v := range raw {
			s, ok := v.(string)
			if !ok || s == "" {
				return nil, domain.NewLoadError("neo4j", mk+"/"+model, domain.ErrMalformedCatalog)
			}
			trims = append(trims, s)
		}
		if hierarchy[mk] == nil {
			hierarchy[mk] = make(map[string][]string)
		}
		hierarchy[mk][model] = append(hierarchy[mk][model], trims...)
	}
	if err := result.Err(); err != nil {
		return nil, domain.NewLoadError("neo4j", "", fmt.Errorf("%w: %w", domain.ErrCatalogSource, err))
	}
	return hierarchy, nil
}

func recordString(rec *neo4j.Record, key string) (string, error) {
	s, _, err := neo4j.GetRecordValue[string](rec, key)
	if err != nil || s == "" {
		return "", domain.NewLoadError("neo4j", key, domain.ErrMalformedCatalog)
	}
	return s, nil
}
