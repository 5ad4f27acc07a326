package ledgerservice

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/munkhbat-e/pocket-ledger/internal/domain"
	"github.com/munkhbat-e/pocket-ledger/pkg/randompkg"
)

var testInstant = time.Date(2025, 1, 5, 6, 30, 0, 0, time.UTC) // 14:30 in Ulaanbaatar

type fixedClock struct {
	t time.Time
}

func (c fixedClock) Now() time.Time {
	return c.t
}

func seedBalance() decimal.Decimal {
	return decimal.RequireFromString("400000000.00")
}

// newTestService seeds a fresh ledger backed by the given mock gateway.
// The first-run load and the seed persist are expected here.
func newTestService(gateway *MockGateway) *Service {
	gateway.EXPECT().Load(gomock.Any()).Times(1).Return(domain.Snapshot{}, false)
	gateway.EXPECT().Save(gomock.Any(), gomock.Any()).Times(1).Return(true)

	return New(context.Background(), gateway, seedBalance(), fixedClock{testInstant})
}

func TestProcessTransfer(t *testing.T) {
	testCases := []struct {
		name          string
		arg           domain.TransferParams
		buildStubs    func(gateway *MockGateway)
		checkResponse func(t *testing.T, s *Service, tx domain.Transaction, err error)
	}{
		{
			name: "Lunch transfer",
			arg: domain.TransferParams{
				Amount:           "1000.00",
				RecipientName:    "John Doe",
				RecipientAccount: "ACC123",
				Description:      "Lunch",
			},
			buildStubs: func(gateway *MockGateway) {
				gateway.EXPECT().Save(gomock.Any(), gomock.Any()).Times(1).Return(true)
			},
			checkResponse: func(t *testing.T, s *Service, tx domain.Transaction, err error) {
				require.NoError(t, err)

				require.True(t, s.Balance().Equal(decimal.RequireFromString("399999000.00")))
				require.Len(t, s.Transactions(), 1)

				require.Equal(t, "JOHN DOE", tx.RecipientName)
				require.Equal(t, "ACC123", tx.RecipientAccount)
				require.Equal(t, "Lunch", tx.Description)
				require.True(t, tx.Amount.Equal(decimal.RequireFromString("1000.00")))
				require.True(t, tx.RemainingBalance.Equal(decimal.RequireFromString("399999000.00")))
				require.Equal(t, "2025.01.05", tx.Date)
				require.Equal(t, "14:30", tx.Time)
				require.Equal(t, "2025/01/05 14:30", tx.Timestamp)
				require.Equal(t, testInstant.UnixMilli(), tx.ID)
			},
		},
		{
			name: "Amount with grouping commas",
			arg: domain.TransferParams{
				Amount:           "1,000.00",
				RecipientName:    "John Doe",
				RecipientAccount: "ACC123",
			},
			buildStubs: func(gateway *MockGateway) {
				gateway.EXPECT().Save(gomock.Any(), gomock.Any()).Times(1).Return(true)
			},
			checkResponse: func(t *testing.T, s *Service, tx domain.Transaction, err error) {
				require.NoError(t, err)
				require.True(t, tx.Amount.Equal(decimal.RequireFromString("1000.00")))
			},
		},
		{
			name: "Blank description defaults",
			arg: domain.TransferParams{
				Amount:           "1000.00",
				RecipientName:    "John Doe",
				RecipientAccount: "ACC123",
				Description:      "   ",
			},
			buildStubs: func(gateway *MockGateway) {
				gateway.EXPECT().Save(gomock.Any(), gomock.Any()).Times(1).Return(true)
			},
			checkResponse: func(t *testing.T, s *Service, tx domain.Transaction, err error) {
				require.NoError(t, err)
				require.Equal(t, domain.NoDescription, tx.Description)
			},
		},
		{
			name: "Exact balance drains to zero",
			arg: domain.TransferParams{
				Amount:           "400000000.00",
				RecipientName:    "Pay All",
				RecipientAccount: "ACC1",
			},
			buildStubs: func(gateway *MockGateway) {
				gateway.EXPECT().Save(gomock.Any(), gomock.Any()).Times(1).Return(true)
			},
			checkResponse: func(t *testing.T, s *Service, tx domain.Transaction, err error) {
				require.NoError(t, err)
				require.True(t, s.Balance().IsZero())
				require.True(t, tx.RemainingBalance.IsZero())
			},
		},
		{
			name: "Unparsable amount",
			arg: domain.TransferParams{
				Amount:           "!@#$",
				RecipientName:    "X",
				RecipientAccount: "Y",
			},
			buildStubs: func(gateway *MockGateway) {},
			checkResponse: func(t *testing.T, s *Service, tx domain.Transaction, err error) {
				require.ErrorIs(t, err, domain.ErrInvalidAmount)
				require.Empty(t, tx)
			},
		},
		{
			name: "Negative amount",
			arg: domain.TransferParams{
				Amount:           "-5",
				RecipientName:    "X",
				RecipientAccount: "Y",
				Description:      "Z",
			},
			buildStubs: func(gateway *MockGateway) {},
			checkResponse: func(t *testing.T, s *Service, tx domain.Transaction, err error) {
				require.ErrorIs(t, err, domain.ErrInvalidAmount)
				require.Empty(t, tx)
			},
		},
		{
			name: "Zero amount",
			arg: domain.TransferParams{
				Amount:           "0",
				RecipientName:    "X",
				RecipientAccount: "Y",
			},
			buildStubs: func(gateway *MockGateway) {},
			checkResponse: func(t *testing.T, s *Service, tx domain.Transaction, err error) {
				require.ErrorIs(t, err, domain.ErrInvalidAmount)
			},
		},
		{
			name: "Blank recipient name",
			arg: domain.TransferParams{
				Amount:           "1000.00",
				RecipientName:    "   ",
				RecipientAccount: "ACC123",
			},
			buildStubs: func(gateway *MockGateway) {},
			checkResponse: func(t *testing.T, s *Service, tx domain.Transaction, err error) {
				require.ErrorIs(t, err, domain.ErrMissingRecipientName)
			},
		},
		{
			name: "Blank recipient account",
			arg: domain.TransferParams{
				Amount:           "1000.00",
				RecipientName:    "John Doe",
				RecipientAccount: "",
			},
			buildStubs: func(gateway *MockGateway) {},
			checkResponse: func(t *testing.T, s *Service, tx domain.Transaction, err error) {
				require.ErrorIs(t, err, domain.ErrMissingRecipientAccount)
			},
		},
		{
			name: "Insufficient balance",
			arg: domain.TransferParams{
				Amount:           "500000000.00",
				RecipientName:    "Jane",
				RecipientAccount: "ACC999",
			},
			buildStubs: func(gateway *MockGateway) {},
			checkResponse: func(t *testing.T, s *Service, tx domain.Transaction, err error) {
				require.ErrorIs(t, err, domain.ErrInsufficientBalance)
				// The rejection reports both amounts.
				require.Contains(t, err.Error(), "500,000,000.00 MNT")
				require.Contains(t, err.Error(), "400,000,000.00 MNT")
			},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			gateway := NewMockGateway(ctrl)
			s := newTestService(gateway)
			tc.buildStubs(gateway)

			before := s.Balance()
			beforeCount := len(s.Transactions())

			tx, err := s.ProcessTransfer(context.Background(), tc.arg)

			tc.checkResponse(t, s, tx, err)

			if err != nil {
				// Rejections leave the ledger untouched.
				require.True(t, s.Balance().Equal(before))
				require.Len(t, s.Transactions(), beforeCount)
			}
		})
	}
}

func TestProcessTransferDebitsExactly(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	gateway := NewMockGateway(ctrl)
	s := newTestService(gateway)

	gateway.EXPECT().Save(gomock.Any(), gomock.Any()).Times(1).Return(true)

	amount := randompkg.MoneyAmountBetween(1, 1_000_000)

	tx, err := s.ProcessTransfer(context.Background(), domain.TransferParams{
		Amount:           amount,
		RecipientName:    randompkg.RecipientName(),
		RecipientAccount: randompkg.AccountNumber(),
	})
	require.NoError(t, err)

	want := seedBalance().Sub(decimal.RequireFromString(amount))
	require.True(t, s.Balance().Equal(want))
	require.True(t, tx.RemainingBalance.Equal(want))
	require.False(t, s.Balance().IsNegative())
}

func TestProcessTransferSequence(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	gateway := NewMockGateway(ctrl)
	s := newTestService(gateway)
	ctx := context.Background()

	gateway.EXPECT().Save(gomock.Any(), gomock.Any()).Times(2).Return(true)

	_, err := s.ProcessTransfer(ctx, domain.TransferParams{
		Amount:           "1000.00",
		RecipientName:    "John Doe",
		RecipientAccount: "ACC123",
		Description:      "Lunch",
	})
	require.NoError(t, err)
	require.True(t, s.Balance().Equal(decimal.RequireFromString("399999000.00")))

	_, err = s.ProcessTransfer(ctx, domain.TransferParams{
		Amount:           "500000000.00",
		RecipientName:    "Jane",
		RecipientAccount: "ACC999",
	})
	require.ErrorIs(t, err, domain.ErrInsufficientBalance)
	require.True(t, s.Balance().Equal(decimal.RequireFromString("399999000.00")))
	require.Len(t, s.Transactions(), 1)

	_, err = s.ProcessTransfer(ctx, domain.TransferParams{
		Amount:           "399999000.00",
		RecipientName:    "Pay All",
		RecipientAccount: "ACC1",
	})
	require.NoError(t, err)
	require.True(t, s.Balance().IsZero())
}

func TestProcessTransferOrdering(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	gateway := NewMockGateway(ctrl)
	s := newTestService(gateway)
	ctx := context.Background()

	gateway.EXPECT().Save(gomock.Any(), gomock.Any()).Times(2).Return(true)

	first, err := s.ProcessTransfer(ctx, domain.TransferParams{
		Amount: "100", RecipientName: "First", RecipientAccount: "A1",
	})
	require.NoError(t, err)

	second, err := s.ProcessTransfer(ctx, domain.TransferParams{
		Amount: "200", RecipientName: "Second", RecipientAccount: "A2",
	})
	require.NoError(t, err)

	transactions := s.Transactions()
	require.Len(t, transactions, 2)
	require.Equal(t, second.ID, transactions[0].ID)
	require.Equal(t, first.ID, transactions[1].ID)
	require.Greater(t, second.ID, first.ID)

	// Each record freezes the balance right after its own debit.
	require.True(t, transactions[1].RemainingBalance.Equal(decimal.RequireFromString("399999900")))
	require.True(t, transactions[0].RemainingBalance.Equal(decimal.RequireFromString("399999700")))
}

func TestProcessTransferPersistenceFailureCommits(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	gateway := NewMockGateway(ctrl)
	s := newTestService(gateway)

	// Both backends down: save reports false, the transfer still stands.
	gateway.EXPECT().Save(gomock.Any(), gomock.Any()).Times(1).Return(false)

	tx, err := s.ProcessTransfer(context.Background(), domain.TransferParams{
		Amount:           "1000.00",
		RecipientName:    "John Doe",
		RecipientAccount: "ACC123",
	})
	require.NoError(t, err)
	require.True(t, s.Balance().Equal(decimal.RequireFromString("399999000.00")))
	require.True(t, tx.RemainingBalance.Equal(s.Balance()))
}

func TestProcessTransferSnapshotContents(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	gateway := NewMockGateway(ctrl)
	s := newTestService(gateway)

	var saved domain.Snapshot
	gateway.EXPECT().Save(gomock.Any(), gomock.Any()).
		Times(1).
		DoAndReturn(func(_ context.Context, snap domain.Snapshot) bool {
			saved = snap
			return true
		})

	_, err := s.ProcessTransfer(context.Background(), domain.TransferParams{
		Amount:           "1000.00",
		RecipientName:    "John Doe",
		RecipientAccount: "ACC123",
	})
	require.NoError(t, err)

	require.NotNil(t, saved.Balance)
	require.True(t, saved.Balance.Equal(decimal.RequireFromString("399999000.00")))
	require.Len(t, saved.Transactions, 1)
	require.Equal(t, "JOHN DOE", saved.Transactions[0].RecipientName)
}

func TestNewRestoresSnapshot(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	gateway := NewMockGateway(ctrl)

	balance := decimal.RequireFromString("399999000.00")
	restored := domain.Snapshot{
		Balance: &balance,
		Transactions: []domain.Transaction{
			{
				ID:               testInstant.UnixMilli(),
				Date:             "2025.01.05",
				Time:             "14:30",
				Amount:           decimal.RequireFromString("1000.00"),
				RecipientName:    "JOHN DOE",
				RecipientAccount: "ACC123",
				Description:      "Lunch",
				RemainingBalance: balance,
				Timestamp:        "2025/01/05 14:30",
			},
		},
		LastUpdate: "2025-01-05T06:30:00Z",
	}

	gateway.EXPECT().Load(gomock.Any()).Times(1).Return(restored, true)

	s := New(context.Background(), gateway, seedBalance(), fixedClock{testInstant})

	require.True(t, s.Balance().Equal(balance))
	require.Len(t, s.Transactions(), 1)
	require.Equal(t, "2025-01-05T06:30:00Z", s.LastUpdate())

	// IDs keep increasing past the restored history even within the same
	// clock millisecond.
	gateway.EXPECT().Save(gomock.Any(), gomock.Any()).Times(1).Return(true)

	tx, err := s.ProcessTransfer(context.Background(), domain.TransferParams{
		Amount: "100", RecipientName: "Next", RecipientAccount: "A1",
	})
	require.NoError(t, err)
	require.Greater(t, tx.ID, restored.Transactions[0].ID)
}

func TestNewPartialSnapshotKeepsDefaults(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	gateway := NewMockGateway(ctrl)
	gateway.EXPECT().Load(gomock.Any()).Times(1).Return(domain.Snapshot{}, true)

	s := New(context.Background(), gateway, seedBalance(), fixedClock{testInstant})

	require.True(t, s.Balance().Equal(seedBalance()))
	require.Empty(t, s.Transactions())
}

func TestHistoryGroupsByDate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	gateway := NewMockGateway(ctrl)

	balance := decimal.RequireFromString("100.00")
	restored := domain.Snapshot{
		Balance: &balance,
		Transactions: []domain.Transaction{
			{ID: 4, Date: "2025.01.06", Time: "10:00", RecipientName: "D"},
			{ID: 3, Date: "2025.01.06", Time: "09:00", RecipientName: "C"},
			{ID: 2, Date: "2025.01.05", Time: "16:00", RecipientName: "B"},
			{ID: 1, Date: "2025.01.05", Time: "14:30", RecipientName: "A"},
		},
	}

	gateway.EXPECT().Load(gomock.Any()).Times(1).Return(restored, true)

	s := New(context.Background(), gateway, seedBalance(), fixedClock{testInstant})

	groups := s.History()
	require.Len(t, groups, 2)

	require.Equal(t, "2025.01.06", groups[0].Date)
	require.Len(t, groups[0].Transactions, 2)
	require.Equal(t, "D", groups[0].Transactions[0].RecipientName)
	require.Equal(t, "C", groups[0].Transactions[1].RecipientName)

	require.Equal(t, "2025.01.05", groups[1].Date)
	require.Equal(t, "B", groups[1].Transactions[0].RecipientName)
	require.Equal(t, "A", groups[1].Transactions[1].RecipientName)
}

func TestConcurrentTransfersNeverOverdraw(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	gateway := NewMockGateway(ctrl)
	gateway.EXPECT().Load(gomock.Any()).Times(1).Return(domain.Snapshot{}, false)
	gateway.EXPECT().Save(gomock.Any(), gomock.Any()).AnyTimes().Return(true)

	s := New(context.Background(), gateway, decimal.RequireFromString("500.00"), fixedClock{testInstant})

	// Two 300.00 transfers against a 500.00 balance: exactly one may pass.
	var wg sync.WaitGroup
	errs := make([]error, 2)

	for i := 0; i < 2; i++ {
		wg.Add(1)

		go func(i int) {
			defer wg.Done()

			_, errs[i] = s.ProcessTransfer(context.Background(), domain.TransferParams{
				Amount:           "300.00",
				RecipientName:    "Racer",
				RecipientAccount: "ACC",
			})
		}(i)
	}

	wg.Wait()

	var failed int
	for _, err := range errs {
		if err != nil {
			require.ErrorIs(t, err, domain.ErrInsufficientBalance)
			failed++
		}
	}

	require.Equal(t, 1, failed)
	require.True(t, s.Balance().Equal(decimal.RequireFromString("200.00")))
	require.Len(t, s.Transactions(), 1)
}
