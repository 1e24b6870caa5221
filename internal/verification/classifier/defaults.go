package classifier

// DefaultKeywords covers the government-issued IDs accepted at the barangay
// desk. Deployments override it with a YAML file; see LoadTable.
var DefaultKeywords = map[string][]string{
	"philid":            {"philippine", "identification", "philid"},
	"national_id":       {"philippine", "identification", "card"},
	"drivers_license":   {"land transportation office", "driver", "license"},
	"umid":              {"unified multi purpose", "umid", "crn"},
	"passport":          {"pasaporte", "passport", "republic of the philippines"},
	"postal_id":         {"philpost", "postal", "identity card"},
	"voters_id":         {"commission on elections", "voter", "precinct"},
	"prc_id":            {"professional regulation commission", "registration", "professional"},
	"sss_id":            {"social security system", "sss"},
	"tin_id":            {"bureau of internal revenue", "tin"},
	"barangay_id":       {"barangay", "resident"},
	"senior_citizen_id": {"senior citizen", "osca"},
}

// DefaultTable returns a StaticTable built from DefaultKeywords.
func DefaultTable() *StaticTable {
	return NewStaticTable(DefaultKeywords)
}
