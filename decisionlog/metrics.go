// CLAUDE:SUMMARY The scoring formula: Return, Pressure, Stability and the D-NAV composite.
package decisionlog

import "fmt"

// Composite weights. Return dominates; Stability and Pressure adjust it.
const (
	weightReturn    = 2
	weightStability = 1
	weightPressure  = 1
)

// Compute derives the metrics from score variables:
//
//	Return    = Impact − Cost
//	Pressure  = Urgency + Risk − Confidence
//	Stability = Confidence − Risk
//	D-NAV     = 2·Return + Stability − Pressure
//
// Pure integer arithmetic; same vars always yield the same metrics.
func Compute(v ScoreVars) Metrics {
	m := Metrics{
		Return:    v.Impact - v.Cost,
		Pressure:  v.Urgency + v.Risk - v.Confidence,
		Stability: v.Confidence - v.Risk,
	}
	m.DNAV = weightReturn*m.Return + weightStability*m.Stability - weightPressure*m.Pressure
	return m
}

// Validate checks that every variable is on the 1..10 scale.
func (v ScoreVars) Validate() error {
	for _, f := range []struct {
		name string
		val  int
	}{
		{"impact", v.Impact},
		{"cost", v.Cost},
		{"risk", v.Risk},
		{"urgency", v.Urgency},
		{"confidence", v.Confidence},
	} {
		if f.val < 1 || f.val > 10 {
			return fmt.Errorf("%w: %s = %d, want 1..10", ErrInvalidVars, f.name, f.val)
		}
	}
	return nil
}
