// Package ledgerservice manages business logic layer of the wallet ledger.
//
// The Service owns the authoritative in-memory state: the current balance
// and the transaction log, newest first. Every mutation runs the full
// validate-debit-record-persist sequence under one lock, so no two transfers
// can ever pass the sufficient-funds check against the same stale balance.
package ledgerservice

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/munkhbat-e/pocket-ledger/internal/domain"
	"github.com/munkhbat-e/pocket-ledger/pkg/currencypkg"
	"github.com/munkhbat-e/pocket-ledger/pkg/timepkg"
)

// Gateway provides the persistence layer interface needed by the ledger
// service layer. Both operations are best-effort and never raise.
//
//go:generate mockgen -source service.go -destination service_mock.go -package ledgerservice
type Gateway interface {
	Save(ctx context.Context, snap domain.Snapshot) bool
	Load(ctx context.Context) (domain.Snapshot, bool)
}

// Service facilitates ledger service layer logic.
type Service struct {
	gateway Gateway
	clock   timepkg.Clock

	mu           sync.Mutex
	balance      decimal.Decimal
	transactions []domain.Transaction
	lastID       int64
	lastUpdate   string
}

// New restores the ledger from a persisted snapshot, or seeds it with the
// given initial balance and an empty history on a first run. The seeded
// defaults are persisted right away so a crash before the first transfer
// still leaves a snapshot behind.
func New(ctx context.Context, gateway Gateway, seed decimal.Decimal, clock timepkg.Clock) *Service {
	l := zerolog.Ctx(ctx)

	s := &Service{
		gateway: gateway,
		clock:   clock,
		balance: seed,
	}

	snap, found := gateway.Load(ctx)
	if !found {
		l.Info().Str("balance", currencypkg.WithSymbol(seed)).Msg("seeding new ledger")
		s.save(ctx)

		return s
	}

	if snap.Balance != nil {
		s.balance = *snap.Balance
	}

	if snap.Transactions != nil {
		s.transactions = snap.Transactions
	}

	s.lastUpdate = snap.LastUpdate

	for _, tx := range s.transactions {
		if tx.ID > s.lastID {
			s.lastID = tx.ID
		}
	}

	l.Info().
		Str("balance", currencypkg.WithSymbol(s.balance)).
		Int("transactions", len(s.transactions)).
		Msg("ledger restored")

	return s
}

func parseAmount(raw string) (decimal.Decimal, error) {
	// The amount form field may carry grouping commas from the input mask.
	cleaned := strings.TrimSpace(strings.ReplaceAll(raw, ",", ""))

	return decimal.NewFromString(cleaned)
}

// ProcessTransfer validates the transfer, debits the balance, records the
// transaction and persists the new state. Validation failure leaves the
// ledger untouched. A persistence failure is logged but does not roll back
// the debit; the transfer has already committed in memory.
func (s *Service) ProcessTransfer(ctx context.Context, arg domain.TransferParams) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	amount, err := parseAmount(arg.Amount)
	if err != nil {
		l.Info().Err(err).Str("amount", arg.Amount).Send()
		return domain.Transaction{}, domain.ErrInvalidAmount
	}

	if amount.LessThanOrEqual(decimal.Zero) {
		l.Info().Str("amount", arg.Amount).Msg("non-positive amount")
		return domain.Transaction{}, domain.ErrInvalidAmount
	}

	name := strings.TrimSpace(arg.RecipientName)
	if name == "" {
		return domain.Transaction{}, domain.ErrMissingRecipientName
	}

	account := strings.TrimSpace(arg.RecipientAccount)
	if account == "" {
		return domain.Transaction{}, domain.ErrMissingRecipientAccount
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if amount.GreaterThan(s.balance) {
		return domain.Transaction{}, fmt.Errorf("%w: requested %s, available %s",
			domain.ErrInsufficientBalance,
			currencypkg.WithSymbol(amount),
			currencypkg.WithSymbol(s.balance))
	}

	s.balance = s.balance.Sub(amount)

	now := s.clock.Now()
	stamp := timepkg.StampOf(now)

	id := now.UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id

	description := strings.TrimSpace(arg.Description)
	if description == "" {
		description = domain.NoDescription
	}

	tx := domain.Transaction{
		ID:               id,
		Date:             stamp.Date,
		Time:             stamp.Time,
		Amount:           amount,
		RecipientName:    strings.ToUpper(name),
		RecipientAccount: account,
		Description:      description,
		RemainingBalance: s.balance,
		Timestamp:        stamp.Full,
	}

	s.transactions = append([]domain.Transaction{tx}, s.transactions...)

	s.save(ctx)

	l.Info().
		Int64("id", tx.ID).
		Str("amount", currencypkg.WithSymbol(amount)).
		Str("balance", currencypkg.WithSymbol(s.balance)).
		Msg("transfer processed")

	return tx, nil
}

// save persists the current state. Callers either hold the lock already or
// own the only reference to the service. Failure is logged, never returned:
// the in-memory mutation stands regardless of durability.
func (s *Service) save(ctx context.Context) {
	balance := s.balance
	transactions := make([]domain.Transaction, len(s.transactions))
	copy(transactions, s.transactions)

	ok := s.gateway.Save(ctx, domain.Snapshot{
		Balance:      &balance,
		Transactions: transactions,
	})
	if !ok {
		zerolog.Ctx(ctx).Warn().Msg("ledger state not persisted, continuing in memory")
		return
	}

	s.lastUpdate = s.clock.Now().Format(time.RFC3339)
}

// Balance returns the current balance.
func (s *Service) Balance() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.balance
}

// LastUpdate returns the stamp of the last successful persistence, or an
// empty string when nothing was ever persisted.
func (s *Service) LastUpdate() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.lastUpdate
}

// Transactions returns a copy of the transaction log, newest first.
func (s *Service) Transactions() []domain.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()

	transactions := make([]domain.Transaction, len(s.transactions))
	copy(transactions, s.transactions)

	return transactions
}

// History returns the transaction log grouped by calendar date, most recent
// date first, insertion order within a date.
func (s *Service) History() []domain.DayGroup {
	s.mu.Lock()
	defer s.mu.Unlock()

	var groups []domain.DayGroup
	byDate := make(map[string]int)

	for _, tx := range s.transactions {
		i, ok := byDate[tx.Date]
		if !ok {
			i = len(groups)
			byDate[tx.Date] = i
			groups = append(groups, domain.DayGroup{Date: tx.Date})
		}

		groups[i].Transactions = append(groups[i].Transactions, tx)
	}

	return groups
}
