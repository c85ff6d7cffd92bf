// Package grade derives the categorical efficiency grade from cost per lead
package grade

// Thresholds are the inclusive CPL upper bounds per grade, in the
// deployment's ad-market currency. Anything above D is an F
type Thresholds struct {
	S, A, B, C, D float64
}

// Defaults are the stock thresholds for the deployment's ad market
func Defaults() Thresholds {
	return Thresholds{S: 5000, A: 10000, B: 20000, C: 35000, D: 50000}
}

// FromCPL grades a cost-per-lead value
func (t Thresholds) FromCPL(cpl float64) string {
	switch {
	case cpl <= t.S:
		return "S"
	case cpl <= t.A:
		return "A"
	case cpl <= t.B:
		return "B"
	case cpl <= t.C:
		return "C"
	case cpl <= t.D:
		return "D"
	default:
		return "F"
	}
}

// Grade computes the grade for a spend/leads pair.
// ok=false (no grade) when leads or spend is zero: a period with no leads
// or no spend has no meaningful cost per lead
func (t Thresholds) Grade(spend float64, leads int64) (g string, ok bool) {
	if leads == 0 || spend == 0 {
		return "", false
	}
	return t.FromCPL(spend / float64(leads)), true
}
