package matching

import (
	"math"
	"strings"
	"time"
)

type Tier int

const (
	TierUnknown Tier = iota
	TierEntryLevel
	TierMidLevel
	TierSenior
	TierDirector
	TierExecutive
)

var tierNames = map[Tier]string{
	TierUnknown:    "Unknown",
	TierEntryLevel: "Entry Level",
	TierMidLevel:   "Mid Level",
	TierSenior:     "Senior",
	TierDirector:   "Director",
	TierExecutive:  "Executive",
}

func (t Tier) String() string {
	if n, ok := tierNames[t]; ok {
		return n
	}
	return tierNames[TierUnknown]
}

// ParseTier accepts the stored job labels ("Mid Level") as well as
// "mid_level", "mid-level" and "MidLevel". Unrecognized values map to
// TierUnknown, which scores on the generic curve.
func ParseTier(s string) Tier {
	key := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '_', '-':
			return -1
		}
		return r
	}, strings.ToLower(strings.TrimSpace(s)))

	switch key {
	case "entrylevel", "entry":
		return TierEntryLevel
	case "midlevel", "mid":
		return TierMidLevel
	case "senior":
		return TierSenior
	case "director":
		return TierDirector
	case "executive":
		return TierExecutive
	default:
		return TierUnknown
	}
}

type ExperienceEntry struct {
	Start     *time.Time
	End       *time.Time
	IsCurrent bool
}

const (
	daysPerYear = 365.0

	// experienceCurveBase is the ceiling the tier curves are expressed in.
	experienceCurveBase = 35.0
)

// TotalYears sums the duration of every entry in 365-day years. Current
// entries end at now. Entries with a missing start, a missing end while not
// current, or an end before the start contribute nothing.
func TotalYears(entries []ExperienceEntry, now time.Time) float64 {
	var total float64
	for _, e := range entries {
		total += e.years(now)
	}
	return total
}

func (e ExperienceEntry) years(now time.Time) float64 {
	if e.Start == nil || e.Start.IsZero() {
		return 0
	}

	var end time.Time
	switch {
	case e.IsCurrent:
		end = now
	case e.End != nil && !e.End.IsZero():
		end = *e.End
	default:
		return 0
	}

	d := end.Sub(*e.Start)
	if d <= 0 {
		return 0
	}
	return d.Hours() / 24 / daysPerYear
}

// ScoreForTier maps years of experience to points in [0, 35] on the curve
// selected by tier.
func ScoreForTier(years float64, tier Tier) float64 {
	if years < 0 || math.IsNaN(years) {
		years = 0
	}

	switch tier {
	case TierEntryLevel:
		return math.Min(years*10, experienceCurveBase)
	case TierMidLevel:
		if years >= 2 {
			return math.Min((years-2)*8+20, experienceCurveBase)
		}
		return years * 10
	case TierSenior:
		if years >= 5 {
			return math.Min((years-5)*5+30, experienceCurveBase)
		}
		return years * 6
	default:
		return math.Min(years*7, experienceCurveBase)
	}
}
