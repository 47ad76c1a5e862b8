package enums

type MembershipTier string

const (
	TierFree    MembershipTier = "free"
	TierPremium MembershipTier = "premium"
	TierGold    MembershipTier = "gold"
)

func (t MembershipTier) Valid() bool {
	switch t {
	case TierFree, TierPremium, TierGold:
		return true
	}
	return false
}

// Paid reports whether the tier unlocks unsolicited messaging.
func (t MembershipTier) Paid() bool {
	return t == TierPremium || t == TierGold
}
