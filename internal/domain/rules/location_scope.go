package rules

import (
	"strings"

	"github.com/kashodiya/milan/internal/domain/enums"
)

// LocationScopeFromText maps a free-text location preference to its structured
// scope. Only the word "country" anywhere in the text, case-insensitive,
// narrows discovery to the requester's own country. Everything else, including
// city or state wishes, maps to no location filtering.
func LocationScopeFromText(text string) enums.LocationScope {
	if strings.Contains(strings.ToLower(text), "country") {
		return enums.LocationScopeSameCountry
	}
	return enums.LocationScopeNone
}
