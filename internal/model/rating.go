package model

import "fmt"

// Rating maps criterion ID to a score. Zero means unrated.
type Rating map[string]int

// Overall returns the score for the mandatory overall criterion.
func (r Rating) Overall() int {
	return r["overall"]
}

// Validate checks a rating against a domain's criteria: required criteria must
// be set, and every set score must be within [1, ScaleMax].
func (r Rating) Validate(d *Domain) error {
	for _, c := range d.Criteria {
		score, ok := r[c.ID]
		if c.Required && (!ok || score == 0) {
			return fmt.Errorf("criterion %q is required", c.ID)
		}
		if score < 0 || score > d.ScaleMax {
			return fmt.Errorf("criterion %q score %d out of range 1-%d", c.ID, score, d.ScaleMax)
		}
	}
	return nil
}
