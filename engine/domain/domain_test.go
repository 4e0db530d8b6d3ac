package domain

import (
	"encoding/json"
	"testing"
)

func TestEmpty(t *testing.T) {
	r := Empty()
	if r.Make != Sentinel || r.Model != Sentinel || r.Trim != Sentinel {
		t.Fatalf("Empty() = %+v", r)
	}
	if r.HasMake() || r.HasModel() || r.HasTrim() {
		t.Error("sentinel fields must not count as determined")
	}
}

func TestHasFields(t *testing.T) {
	r := Result{Make: "bmw", Model: Sentinel, Trim: ""}
	if !r.HasMake() {
		t.Error("HasMake")
	}
	if r.HasModel() || r.HasTrim() {
		t.Error("sentinel and empty must both read as missing")
	}
}

func TestResultJSONFieldNames(t *testing.T) {
	data, err := json.Marshal(Result{Make: "bmw", Model: "x3", Trim: " "})
	if err != nil {
		t.Fatal(err)
	}
	want := `{"extracted_make":"bmw","extracted_model":"x3","extracted_trim":" "}`
	if string(data) != want {
		t.Fatalf("json = %s, want %s", data, want)
	}
}
