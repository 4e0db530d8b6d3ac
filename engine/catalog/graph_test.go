package catalog

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/SeezeAI/seeze-engine/engine/domain"
)

type fakeDriver struct {
	neo4j.DriverWithContext
	result *fakeResult
	runErr error
}

func (d *fakeDriver) NewSession(_ context.Context, _ neo4j.SessionConfig) neo4j.SessionWithContext {
	return &fakeSession{result: d.result, runErr: d.runErr}
}

type fakeSession struct {
	neo4j.SessionWithContext
	result *fakeResult
	runErr error
}

func (s *fakeSession) Run(_ context.Context, _ string, _ map[string]any, _ ...func(*neo4j.TransactionConfig)) (neo4j.ResultWithContext, error) {
	if s.runErr != nil {
		return nil, s.runErr
	}
	return s.result, nil
}

func (s *fakeSession) Close(context.Context) error { return nil }

type fakeResult struct {
	neo4j.ResultWithContext
	records []*neo4j.Record
	pos     int
}

func (r *fakeResult) Next(context.Context) bool {
	r.pos++
	return r.pos <= len(r.records)
}

func (r *fakeResult) Record() *neo4j.Record { return r.records[r.pos-1] }

func (r *fakeResult) Err() error { return nil }

func graphRecord(mk, model string, trims ...string) *neo4j.Record {
	vals := make([]any, len(trims))
	for i, tr := range trims {
		vals[i] = tr
	}
	return &neo4j.Record{
		Keys:   []string{"make", "model", "trims"},
		Values: []any{mk, model, vals},
	}
}

// Rows carrying the same hierarchy as the JSON fixture in catalog_test.go.
func graphFixture() []*neo4j.Record {
	return []*neo4j.Record{
		graphRecord("BMW", "x3", "m40i", "m50"),
		graphRecord("BMW", "x5", "xdrive40i"),
		graphRecord("mercedes-benz", "e-class", "e 300", "e 450"),
		graphRecord("mercedes-benz", "g-class", "amg", "g 550"),
		graphRecord("rolls-royce", "cullinan", "black badge"),
		graphRecord("volkswagen", "taos", "s", "se"),
		graphRecord("toyota", "camry", "le", "xse"),
	}
}

func TestLoadGraphMatchesFileSource(t *testing.T) {
	ctx := context.Background()
	driver := &fakeDriver{result: &fakeResult{records: graphFixture()}}

	fromGraph, err := LoadGraph(ctx, driver,
		strings.NewReader(testModelAliases), strings.NewReader(testTrimAliases))
	if err != nil {
		t.Fatalf("LoadGraph: %v", err)
	}
	fromFile := testCatalog(t)

	if !slices.Equal(fromGraph.Makes(), fromFile.Makes()) {
		t.Errorf("Makes: graph %v, file %v", fromGraph.Makes(), fromFile.Makes())
	}
	if !slices.Equal(fromGraph.MatchableMakes(), fromFile.MatchableMakes()) {
		t.Error("MatchableMakes diverge across sources")
	}
	if !slices.Equal(fromGraph.AllModels(), fromFile.AllModels()) {
		t.Errorf("AllModels: graph %v, file %v", fromGraph.AllModels(), fromFile.AllModels())
	}
	if !slices.Equal(fromGraph.AllTrims(), fromFile.AllTrims()) {
		t.Errorf("AllTrims: graph %v, file %v", fromGraph.AllTrims(), fromFile.AllTrims())
	}
	for _, mk := range fromFile.Makes() {
		if !slices.Equal(fromGraph.ModelsOf(mk), fromFile.ModelsOf(mk)) {
			t.Errorf("ModelsOf(%q) diverge", mk)
		}
		for _, model := range fromFile.ModelsOf(mk) {
			if !slices.Equal(fromGraph.TrimsOf(mk, model), fromFile.TrimsOf(mk, model)) {
				t.Errorf("TrimsOf(%q, %q) diverge", mk, model)
			}
		}
	}
	if got, ok := fromGraph.TrimAlias("mercedes-benz", "e 300"); !ok || got != "e300" {
		t.Errorf("TrimAlias = %q, %v", got, ok)
	}
}

func TestLoadGraphModelSpreadAcrossRows(t *testing.T) {
	// OPTIONAL MATCH can yield a model more than once; trims accumulate.
	records := []*neo4j.Record{
		graphRecord("bmw", "x3", "m40i"),
		graphRecord("bmw", "x3", "m50"),
	}
	driver := &fakeDriver{result: &fakeResult{records: records}}
	c, err := LoadGraph(context.Background(), driver, nil, nil)
	if err != nil {
		t.Fatalf("LoadGraph: %v", err)
	}
	if got := c.TrimsOf("bmw", "x3"); !slices.Equal(got, []string{"m40i", "m50"}) {
		t.Errorf("TrimsOf = %v", got)
	}
}

func TestLoadGraphMalformedRecords(t *testing.T) {
	tests := []struct {
		name string
		rec  *neo4j.Record
	}{
		{"empty make", graphRecord("", "x3", "m40i")},
		{"empty model", graphRecord("bmw", "", "m40i")},
		{"empty trim", graphRecord("bmw", "x3", "")},
		{"non-string trim", &neo4j.Record{
			Keys:   []string{"make", "model", "trims"},
			Values: []any{"bmw", "x3", []any{42}},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			driver := &fakeDriver{result: &fakeResult{records: []*neo4j.Record{tt.rec}}}
			_, err := LoadGraph(context.Background(), driver, nil, nil)
			if !errors.Is(err, domain.ErrMalformedCatalog) {
				t.Fatalf("err = %v, want ErrMalformedCatalog", err)
			}
		})
	}
}

func TestLoadGraphRunError(t *testing.T) {
	driver := &fakeDriver{runErr: errors.New("connection refused")}
	_, err := LoadGraph(context.Background(), driver, nil, nil)
	if !errors.Is(err, domain.ErrCatalogSource) {
		t.Fatalf("err = %v, want ErrCatalogSource", err)
	}
	var le *domain.LoadError
	if !errors.As(err, &le) || le.Source != "neo4j" {
		t.Fatalf("err = %v, want neo4j LoadError", err)
	}
}
