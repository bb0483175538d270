/*
Package models defines the JSON shapes fibmod exchanges with the outside
world: the machine-readable result printed by the CLI in -json mode and the
golden test cases produced by cmd/generate-golden.
*/
package models

// ComputationResult is the JSON record printed for one strategy run.
// N is carried as a decimal string since it routinely exceeds 64 bits.
type ComputationResult struct {
	Algorithm string `json:"algorithm"`         // Strategy display name.
	N         string `json:"n"`                 // Exponent, decimal.
	M         uint64 `json:"m"`                 // Modulus.
	Residue   uint64 `json:"residue"`           // F(n) mod m.
	Period    uint64 `json:"period,omitempty"`  // π(m) when a table was used.
	Reduced   uint64 `json:"reduced,omitempty"` // n mod π(m).
	Duration  string `json:"duration"`          // Wall-clock duration.
	Error     string `json:"error,omitempty"`   // Failure message, if any.
}

// GoldenCase is one entry of the golden file used by the strategy tests.
type GoldenCase struct {
	N      string `json:"n"`
	M      uint64 `json:"m"`
	Result uint64 `json:"result"`
}
