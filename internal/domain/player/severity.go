package player

// Severity grades how far a finding is from the role mean.
type Severity string

// Strength severities.
const (
	SeverityExceptional Severity = "exceptional"
	SeverityExcellent   Severity = "excellent"
	SeverityVeryGood    Severity = "very_good"
	SeverityGood        Severity = "good"
)

// Weakness severities.
const (
	SeverityCritical     Severity = "critical"
	SeverityVeryWeak     Severity = "very_weak"
	SeverityWeak         Severity = "weak"
	SeverityBelowAverage Severity = "below_average"
)

// StrengthSeverity grades a positive z-score.
func StrengthSeverity(z float64) Severity {
	switch {
	case z >= 2:
		return SeverityExceptional
	case z >= 1.5:
		return SeverityExcellent
	case z >= 1:
		return SeverityVeryGood
	default:
		return SeverityGood
	}
}

// WeaknessSeverity grades a negative z-score.
func WeaknessSeverity(z float64) Severity {
	switch {
	case z <= -2:
		return SeverityCritical
	case z <= -1.5:
		return SeverityVeryWeak
	case z <= -1:
		return SeverityWeak
	default:
		return SeverityBelowAverage
	}
}
