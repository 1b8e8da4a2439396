package walker

// Totals accumulates counters for a subtree.
type Totals struct {
	Errors   int `yaml:"errors"`
	Warnings int `yaml:"warnings"`
	Renames  int `yaml:"renamed"`
}

// Merge returns the element-wise sum of both totals.
func (totals Totals) Merge(other Totals) Totals {
	return Totals{
		Errors:   totals.Errors + other.Errors,
		Warnings: totals.Warnings + other.Warnings,
		Renames:  totals.Renames + other.Renames,
	}
}

// HasErrors reports whether at least one error was counted.
func (totals Totals) HasErrors() bool {
	return totals.Errors > 0
}
