package catalog

import "strings"

// makeAliases maps common listing shorthand to the catalog make name.
var makeAliases = map[string]string{
	"mercedes": "mercedes-benz",
	"chevy":    "chevrolet",
	"vw":       "volkswagen",
	"rr":       "rolls-royce",
}

// extraMakes are matchable even when absent from the hierarchy source.
var extraMakes = []string{"am general"}

// CanonicalMake lower-cases a matched make and resolves shorthand aliases.
func CanonicalMake(s string) string {
	s = strings.ToLower(s)
	if canonical, ok := makeAliases[s]; ok {
		return canonical
	}
	return s
}
