package config

import (
	"fmt"
	"strings"
)

type Ledger struct {
	DuplicatePolicy DuplicatePolicy `env:"LEDGER_DUPLICATE_POLICY" envDefault:"ALLOW"`
	// RecomputeFullPrice keeps FullPrice equal to Quantity * PerUnitPrice after a stock decrement.
	RecomputeFullPrice bool `env:"LEDGER_RECOMPUTE_FULL_PRICE" envDefault:"true"`
}

// DuplicatePolicy decides what adding an already used product id does.
type DuplicatePolicy uint8

const (
	// DuplicatePolicyAllow appends another row with the same id.
	DuplicatePolicyAllow DuplicatePolicy = iota
	// DuplicatePolicyReject fails with a duplicate product error.
	DuplicatePolicyReject
	// DuplicatePolicyReplace overwrites the existing row in place.
	DuplicatePolicyReplace
)

func (p DuplicatePolicy) String() string {
	return []string{"ALLOW", "REJECT", "REPLACE"}[p]
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (p *DuplicatePolicy) UnmarshalText(text []byte) error {
	switch strings.ToUpper(string(text)) {
	case "ALLOW":
		*p = DuplicatePolicyAllow
	case "REJECT":
		*p = DuplicatePolicyReject
	case "REPLACE":
		*p = DuplicatePolicyReplace
	default:
		return fmt.Errorf("unknown duplicate policy: %s", text)
	}
	return nil
}

func (p DuplicatePolicy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}
