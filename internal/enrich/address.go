package enrich

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/sells-group/player-enrich/internal/model"
)

// SchoolAddress returns the query used to geocode a player's school.
func SchoolAddress(p model.Player) string {
	return joinAddress(p.SchoolCity)
}

// BirthplaceAddress returns "city, state, country" when the state is known and
// "city, country" otherwise. Empty segments are dropped.
func BirthplaceAddress(p model.Player) string {
	state := ""
	if p.BirthplaceState != nil {
		state = *p.BirthplaceState
	}
	return joinAddress(p.BirthplaceCity, state, p.CountryName)
}

func joinAddress(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(norm.NFC.String(part))
		if part != "" {
			kept = append(kept, part)
		}
	}
	return strings.Join(kept, ", ")
}
