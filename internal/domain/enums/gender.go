package enums

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

// OppositeGender returns the gender whose profiles a seeker is shown.
// Every non-male seeker, including other, is paired with male profiles.
func OppositeGender(g Gender) Gender {
	if g == GenderMale {
		return GenderFemale
	}
	return GenderMale
}
