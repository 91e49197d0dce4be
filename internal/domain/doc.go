// Package domain models daily weather forecasts and the hazard taxonomy the
// guardrail enforces against them.
//
// # Data Source
//
// Forecast records come from the Open-Meteo forecast API's "daily" block.
// Field names in [ForecastRecord] match the API's daily parameter names
// (weather_code, temperature_2m_max, wind_gusts_10m_max, ...) so the record
// decodes straight out of the response. All sequences are day-aligned: index
// i of every field refers to the same calendar day.
//
// # WMO Weather Codes
//
// The weather_code sequence uses WMO interpretation codes. The classifier
// cares about a small subset:
//
//	45, 48      fog / depositing rime fog
//	66, 67      light / heavy freezing rain
//	75          heavy snow
//	95, 96, 99  thunderstorm / thunderstorm with hail
//
// # Hazard Tiers
//
// Hazards are bucketed by severity:
//
//	Tier 3 (severe):   tornado, blizzard — disclosure is mandatory; the
//	                   guardrail replaces a non-compliant response outright.
//	Tier 2 (elevated): flood watch, ice storm, extreme heat, extreme cold,
//	                   dense fog — missing disclosures are logged, not fixed.
//	Tier 1 (advisory): high winds, high UV, moderate precipitation — same
//	                   monitoring-only policy as tier 2.
//
// Evaluation order within a tier is fixed (see [SevereHazards]); the first
// tier-3 violation terminates evaluation.
//
// # Missing Data
//
// Absent sequences reduce to sentinels chosen so they sit on the safe side of
// every threshold: maximum-type reductions default to 0, minimum-type
// reductions to 100. Missing data therefore never manufactures an alarm — and
// is deliberately indistinguishable from a genuinely below-threshold value.
// The mandatory-alert guarantee holds only for data actually present in the
// record.
package domain
