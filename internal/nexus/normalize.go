package nexus

import "strings"

// domainAliases maps known game-name variants, as they appear in
// Wabbajack manifests and user input, to the slug the Nexus Mods API
// expects.
var domainAliases = map[string]string{
	"skyrimse":               "skyrimspecialedition",
	"skyrimspecialedition":   "skyrimspecialedition",
	"skyrim":                 "skyrim",
	"skyrimlegendaryedition": "skyrim",
	"fallout4":               "fallout4",
	"falloutnewvegas":        "falloutnv",
	"falloutnv":              "falloutnv",
}

// NormalizeDomain maps a manifest-supplied or user-supplied game name to
// the canonical Nexus Mods game domain slug. Matching is
// case-insensitive. Unknown names pass through lower-cased, on the
// assumption they already are valid slugs; the function never fails.
func NormalizeDomain(name string) string {
	lower := strings.ToLower(name)
	if canonical, ok := domainAliases[lower]; ok {
		return canonical
	}
	return lower
}
