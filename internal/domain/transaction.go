// Package domain provides defenitions of all entities.
package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidAmount indicates that the amount is not a positive finite number.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrMissingRecipientName indicates that the recipient name is blank.
	ErrMissingRecipientName = errors.New("missing recipient name")
	// ErrMissingRecipientAccount indicates that the recipient account is blank.
	ErrMissingRecipientAccount = errors.New("missing recipient account")
	// ErrInsufficientBalance indicates that the requested amount exceeds the balance.
	ErrInsufficientBalance = errors.New("insufficient balance")
)

func init() {
	// Snapshots store balance and amounts as plain JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// NoDescription is recorded when a transfer carries no description.
const NoDescription = "No description"

// Transaction is one outgoing transfer record. It is immutable once created;
// RemainingBalance is the ledger balance right after the debit and is never
// recomputed later.
type Transaction struct {
	ID               int64           `json:"id"`
	Date             string          `json:"date"`
	Time             string          `json:"time"`
	Amount           decimal.Decimal `json:"amount"`
	RecipientName    string          `json:"recipientName"`
	RecipientAccount string          `json:"recipientAccount"`
	Description      string          `json:"description"`
	RemainingBalance decimal.Decimal `json:"remainingBalance"`
	Timestamp        string          `json:"timestamp"`
}

// TransferParams is the input data for processing a transfer.
// Amount is kept as the raw form string; the service parses and validates it.
type TransferParams struct {
	Amount           string `json:"amount"`
	RecipientName    string `json:"recipientName"`
	RecipientAccount string `json:"recipientAccount"`
	Description      string `json:"description"`
}

// DayGroup holds one calendar date worth of transactions for rendering,
// newest date first, insertion order within the date.
type DayGroup struct {
	Date         string        `json:"date"`
	Transactions []Transaction `json:"transactions"`
}
