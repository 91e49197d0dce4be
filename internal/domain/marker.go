package domain

// Disclosure markers: the literal substring a generated report must contain
// to count as having disclosed a hazard. These are a deliberate, documented
// coupling with the generation prompt — the prompt mandates these exact
// phrases, and the guardrail checks for nothing else. Changing one side
// without the other silently breaks detection, so both sides read from here.
const (
	MarkerTornado        = "SEVERE WEATHER ALERT: TORNADO POTENTIAL"
	MarkerBlizzard       = "SEVERE WEATHER ALERT: BLIZZARD CONDITIONS"
	MarkerFloodWatch     = "Flood Watch"
	MarkerIceStorm       = "Ice Storm Advisory"
	MarkerExtremeHeat    = "Heat Advisory"
	MarkerExtremeCold    = "Cold Advisory"
	MarkerDenseFog       = "Dense Fog Advisory"
	MarkerHighWinds      = "High Winds"
	MarkerHighUV         = "High UV Index"
	MarkerModeratePrecip = "prepare for wet or slick conditions"
)

// FallbackAlert replaces the entire response when a triggered tier-3 hazard
// is missing its marker. Deferring to a local authority is the safe floor
// when the generated alert cannot be trusted.
const FallbackAlert = "I have detected a potentially severe weather event, " +
	"but I am unable to generate the specific safety alert. " +
	"Please consult your local weather authority immediately."

// Marker returns the mandated disclosure substring for a hazard.
func Marker(h Hazard) string {
	switch h {
	case HazardTornado:
		return MarkerTornado
	case HazardBlizzard:
		return MarkerBlizzard
	case HazardFloodWatch:
		return MarkerFloodWatch
	case HazardIceStorm:
		return MarkerIceStorm
	case HazardExtremeHeat:
		return MarkerExtremeHeat
	case HazardExtremeCold:
		return MarkerExtremeCold
	case HazardDenseFog:
		return MarkerDenseFog
	case HazardHighWinds:
		return MarkerHighWinds
	case HazardHighUV:
		return MarkerHighUV
	case HazardModeratePrecip:
		return MarkerModeratePrecip
	default:
		return ""
	}
}
