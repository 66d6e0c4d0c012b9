package config

import (
	"fmt"
	"strings"
)

type Storage struct {
	Backend      StorageBackend `env:"STORAGE_BACKEND" envDefault:"CSV"`
	Dir          string         `env:"STORAGE_DIR" envDefault:"."`
	ProductsFile string         `env:"STORAGE_PRODUCTS_FILE" envDefault:"record.csv"`
	SalesFile    string         `env:"STORAGE_SALES_FILE" envDefault:"Sales.csv"`
}

// StorageBackend selects where the ledger tables are persisted.
type StorageBackend uint8

const (
	StorageBackendCSV StorageBackend = iota
	StorageBackendPostgres
	StorageBackendMemory
)

func (b StorageBackend) String() string {
	return []string{"CSV", "POSTGRES", "MEMORY"}[b]
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (b *StorageBackend) UnmarshalText(text []byte) error {
	switch strings.ToUpper(string(text)) {
	case "CSV":
		*b = StorageBackendCSV
	case "POSTGRES":
		*b = StorageBackendPostgres
	case "MEMORY":
		*b = StorageBackendMemory
	default:
		return fmt.Errorf("unknown storage backend: %s", text)
	}
	return nil
}

func (b StorageBackend) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}
