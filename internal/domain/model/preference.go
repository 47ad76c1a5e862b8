package model

import "github.com/kashodiya/milan/internal/domain/enums"

// MatchPreference holds one user's discovery filters. LocationScope is the
// structured reading of LocationPreferenceText, recomputed on every write.
type MatchPreference struct {
	UserID                 int64               `json:"user_id"`
	MinAge                 *int                `json:"min_age"`
	MaxAge                 *int                `json:"max_age"`
	HeightMin              *float64            `json:"height_min"`
	HeightMax              *float64            `json:"height_max"`
	Religion               *string             `json:"religion"`
	LocationPreferenceText *string             `json:"location_preference_text"`
	LocationScope          enums.LocationScope `json:"location_scope"`
}
