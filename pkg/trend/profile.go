package trend

import "slices"

// Profile is the capability set of one chart: which metric it shows, how it is
// labelled and which ranges the user may pick.
type Profile struct {
	Id           string      `json:"id"`
	Metric       string      `json:"metric"`
	Unit         string      `json:"unit"`
	Ranges       []RangeName `json:"ranges"`
	DefaultRange RangeName   `json:"default_range"`
}

const (
	PROFILE_GENERATION = "generation"
	PROFILE_POWERCUT   = "powercut"
)

func GenerationProfile() Profile {
	return Profile{
		Id:           PROFILE_GENERATION,
		Metric:       "Generation",
		Unit:         "kWh",
		Ranges:       AllRanges(),
		DefaultRange: RANGE_WEEK,
	}
}

func PowercutProfile() Profile {
	return Profile{
		Id:           PROFILE_POWERCUT,
		Metric:       "Powercut",
		Unit:         "h",
		Ranges:       []RangeName{RANGE_MONTH, RANGE_CUSTOM},
		DefaultRange: RANGE_MONTH,
	}
}

func Profiles() []Profile {
	return []Profile{GenerationProfile(), PowercutProfile()}
}

func ProfileById(id string) (Profile, bool) {
	for _, p := range Profiles() {
		if p.Id == id {
			return p, true
		}
	}
	return Profile{}, false
}

func (p Profile) Allows(r RangeName) bool {
	return slices.Contains(p.Ranges, r)
}
