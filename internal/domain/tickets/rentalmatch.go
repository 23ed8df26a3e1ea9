package tickets

import (
	"strings"

	"fieldops/internal/domain/assets"
)

// MatchesRentalAsset reports whether any detail line refers to one of
// the given rental assets. Matching is tolerant of free-text entry:
// brand/model comparison is case-insensitive substring containment in
// either direction. A serial on the detail line tightens the match to
// an exact, case-insensitive serial comparison.
func MatchesRentalAsset(details []DetailLine, fleet []assets.RentalAsset) bool {
	for _, d := range details {
		if matchesAny(d, fleet) {
			return true
		}
	}
	return false
}

func matchesAny(d DetailLine, fleet []assets.RentalAsset) bool {
	brandModel := normalize(d.BrandModel)
	if brandModel == "" {
		return false
	}
	serial := normalize(d.Serial)

	for _, a := range fleet {
		assetName := normalize(a.Brand + " " + a.Model)
		if assetName == "" {
			continue
		}
		if !strings.Contains(assetName, brandModel) && !strings.Contains(brandModel, assetName) {
			continue
		}
		if serial != "" {
			if normalize(a.Serial) != serial {
				continue
			}
		}
		return true
	}
	return false
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
