package dto

// JSONLink is one download-location candidate as returned by the Nexus
// Mods download_link.json endpoint.
//
// The API returns a JSON array of these objects. ShortName is absent on
// some mirrors, so it stays optional.
type JSONLink struct {
	URI       string `json:"URI"`
	Name      string `json:"name"`
	ShortName string `json:"short_name"`
}

// Valid reports whether the candidate carries the fields selection
// requires. Malformed candidates are skipped with a warning, not fatal.
func (l JSONLink) Valid() bool {
	return l.URI != "" && l.Name != ""
}
