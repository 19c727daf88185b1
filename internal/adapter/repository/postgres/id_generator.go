package postgres

import (
	"github.com/oklog/ulid/v2"
)

// ULIDGenerator generates the 26-character ids stored for accounts, lots
// and transactions. Ids from one process sort in generation order.
type ULIDGenerator struct{}

// NewULIDGenerator creates a new ULIDGenerator.
func NewULIDGenerator() *ULIDGenerator {
	return &ULIDGenerator{}
}

// Generate generates a new ULID.
func (g *ULIDGenerator) Generate() string {
	return ulid.Make().String()
}
