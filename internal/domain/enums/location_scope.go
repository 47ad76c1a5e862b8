package enums

// LocationScope is the structured form of a free-text location preference.
type LocationScope string

const (
	LocationScopeNone        LocationScope = "none"
	LocationScopeSameCountry LocationScope = "same_country"
)
