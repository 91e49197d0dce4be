package domain

// Hazard identifies one entry in the fixed hazard taxonomy.
type Hazard string

const (
	HazardTornado        Hazard = "tornado"
	HazardBlizzard       Hazard = "blizzard"
	HazardFloodWatch     Hazard = "flood_watch"
	HazardIceStorm       Hazard = "ice_storm"
	HazardExtremeHeat    Hazard = "extreme_heat"
	HazardExtremeCold    Hazard = "extreme_cold"
	HazardDenseFog       Hazard = "dense_fog"
	HazardHighWinds      Hazard = "high_winds"
	HazardHighUV         Hazard = "high_uv"
	HazardModeratePrecip Hazard = "moderate_precipitation"
)

// Tier is the severity bucket a hazard belongs to. Tier 3 disclosures are
// enforced by response substitution; tier 2 and 1 are monitored only.
type Tier int

const (
	TierAdvisory Tier = 1
	TierElevated Tier = 2
	TierSevere   Tier = 3
)

// Evaluation order within each tier is fixed. The guardrail depends on it:
// the first tier-3 violation is terminal, so reordering changes behavior.
var (
	SevereHazards   = []Hazard{HazardTornado, HazardBlizzard}
	ElevatedHazards = []Hazard{HazardFloodWatch, HazardIceStorm, HazardExtremeHeat, HazardExtremeCold, HazardDenseFog}
	AdvisoryHazards = []Hazard{HazardHighWinds, HazardHighUV, HazardModeratePrecip}
)

// Classification thresholds. Wind values are km/h, temperatures are degrees
// Celsius, precipitation sums are millimeters, probabilities are percent.
const (
	TornadoGustKmh        = 80.0
	BlizzardWindKmh       = 56.0
	BlizzardTempMaxC      = 0.0
	FloodPrecipSumMm      = 25.0
	ExtremeHeatApparentC  = 35.0
	ExtremeColdApparentC  = 0.0
	HighWindKmh           = 40.0
	HighUVIndex           = 6.0
	ModeratePrecipProbPct = 60.0
)

// WMO weather interpretation codes the classifier matches against.
const (
	codeFog                   = 45
	codeDepositingRimeFog     = 48
	codeFreezingRainLight     = 66
	codeFreezingRainHeavy     = 67
	codeHeavySnow             = 75
	codeThunderstorm          = 95
	codeThunderstormHailSome  = 96
	codeThunderstormHailHeavy = 99
)

// Sentinels substituted when a backing sequence is absent or empty. A missing
// maximum reduces to a value below every threshold and a missing minimum to a
// value above every threshold, so absent data can never trigger a hazard.
// The flip side is accepted: absent data never distinguishes itself from a
// genuinely calm forecast.
const (
	absentMaxSentinel = 0.0
	absentMinSentinel = 100.0
)

// HazardFinding is the classification result for a single hazard.
type HazardFinding struct {
	Hazard    Hazard `json:"hazard"`
	Tier      Tier   `json:"tier"`
	Triggered bool   `json:"triggered"`
}

// TierOf returns the severity tier a hazard belongs to.
func TierOf(h Hazard) Tier {
	switch h {
	case HazardTornado, HazardBlizzard:
		return TierSevere
	case HazardFloodWatch, HazardIceStorm, HazardExtremeHeat, HazardExtremeCold, HazardDenseFog:
		return TierElevated
	default:
		return TierAdvisory
	}
}

// Evaluate reports whether the given hazard is triggered by the forecast.
// Each rule reduces its backing sequences independently (max or min as the
// rule demands) before thresholding, so record length never matters.
func Evaluate(h Hazard, f ForecastRecord) bool {
	switch h {
	case HazardTornado:
		return anyCode(f.WeatherCodes, codeThunderstorm, codeThunderstormHailSome, codeThunderstormHailHeavy) &&
			maxOrSentinel(f.WindGustMaxKmh) > TornadoGustKmh
	case HazardBlizzard:
		return anyCode(f.WeatherCodes, codeHeavySnow) &&
			maxOrSentinel(f.WindSpeedMaxKmh) > BlizzardWindKmh &&
			maxBelowSentinel(f.TemperatureMaxC) < BlizzardTempMaxC
	case HazardFloodWatch:
		return maxOrSentinel(f.PrecipitationSumMm) > FloodPrecipSumMm
	case HazardIceStorm:
		return anyCode(f.WeatherCodes, codeFreezingRainLight, codeFreezingRainHeavy)
	case HazardExtremeHeat:
		return maxOrSentinel(f.ApparentTempMaxC) > ExtremeHeatApparentC
	case HazardExtremeCold:
		return minOrSentinel(f.ApparentTempMinC) < ExtremeColdApparentC
	case HazardDenseFog:
		return anyCode(f.WeatherCodes, codeFog, codeDepositingRimeFog)
	case HazardHighWinds:
		return maxOrSentinel(f.WindSpeedMaxKmh) > HighWindKmh
	case HazardHighUV:
		return maxOrSentinel(f.UVIndexMax) >= HighUVIndex
	case HazardModeratePrecip:
		return maxOrSentinel(f.PrecipProbabilityMaxPct) > ModeratePrecipProbPct
	default:
		return false
	}
}

// Classify evaluates every hazard in the taxonomy against the forecast and
// returns the findings in severity order (tier 3 first). Findings are derived
// fresh on every call; nothing is cached between invocations.
func Classify(f ForecastRecord) []HazardFinding {
	findings := make([]HazardFinding, 0, len(SevereHazards)+len(ElevatedHazards)+len(AdvisoryHazards))
	for _, group := range [][]Hazard{SevereHazards, ElevatedHazards, AdvisoryHazards} {
		for _, h := range group {
			findings = append(findings, HazardFinding{
				Hazard:    h,
				Tier:      TierOf(h),
				Triggered: Evaluate(h, f),
			})
		}
	}
	return findings
}

// anyCode reports whether any element of codes matches one of wanted.
func anyCode(codes []int, wanted ...int) bool {
	for _, c := range codes {
		for _, w := range wanted {
			if c == w {
				return true
			}
		}
	}
	return false
}

// maxOrSentinel reduces a sequence to its maximum, or the low sentinel when
// the sequence is absent. Used by rules that trigger above a threshold.
func maxOrSentinel(seq []float64) float64 {
	if len(seq) == 0 {
		return absentMaxSentinel
	}
	m := seq[0]
	for _, v := range seq[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

// maxBelowSentinel reduces a sequence to its maximum, or the high sentinel
// when the sequence is absent. Used by rules that trigger when a maximum
// stays below a threshold (blizzard's temperature ceiling): an absent
// sequence must not look like a cold day.
func maxBelowSentinel(seq []float64) float64 {
	if len(seq) == 0 {
		return absentMinSentinel
	}
	m := seq[0]
	for _, v := range seq[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

// minOrSentinel reduces a sequence to its minimum, or the high sentinel when
// the sequence is absent. Used by rules that trigger below a threshold.
func minOrSentinel(seq []float64) float64 {
	if len(seq) == 0 {
		return absentMinSentinel
	}
	m := seq[0]
	for _, v := range seq[1:] {
		if v < m {
			m = v
		}
	}
	return m
}
