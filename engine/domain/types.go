// Package domain defines the shared types, sentinel convention, and error
// taxonomy for the Seeze extraction engine.
package domain

// Sentinel is the value a Result field holds when it could not be determined.
// Downstream consumers match on this exact string, not on emptiness.
const Sentinel = " "

// Result is the three-field outcome of an extraction run. The JSON field
// names match the listing documents the filter compiler queries against.
type Result struct {
	Make  string `json:"extracted_make"`
	Model string `json:"extracted_model"`
	Trim  string `json:"extracted_trim"`
}

// Empty returns a Result with every field set to the sentinel.
func Empty() Result {
	return Result{Make: Sentinel, Model: Sentinel, Trim: Sentinel}
}

// HasMake reports whether the make field holds a determined value.
func (r Result) HasMake() bool { return r.Make != Sentinel && r.Make != "" }

// HasModel reports whether the model field holds a determined value.
func (r Result) HasModel() bool { return r.Model != Sentinel && r.Model != "" }

// HasTrim reports whether the trim field holds a determined value.
func (r Result) HasTrim() bool { return r.Trim != Sentinel && r.Trim != "" }
