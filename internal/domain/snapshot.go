package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrSnapshotNotFound indicates that a backend holds no snapshot for the key.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// Snapshot is the serialized form of the ledger state written to the storage
// backends. Balance is a pointer so a missing or null field in a stored blob
// can be told apart from zero and left at its default on restore.
type Snapshot struct {
	Balance      *decimal.Decimal `json:"balance"`
	Transactions []Transaction    `json:"transactions"`
	LastUpdate   string           `json:"lastUpdate"`
}
