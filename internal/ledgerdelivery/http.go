// Package ledgerdelivery manages delivery layer of the wallet ledger.
package ledgerdelivery

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/munkhbat-e/pocket-ledger/internal/domain"
	"github.com/munkhbat-e/pocket-ledger/pkg/currencypkg"
	"github.com/munkhbat-e/pocket-ledger/pkg/errorspkg"
	"github.com/munkhbat-e/pocket-ledger/pkg/jsonresponse"
)

// Service provides service layer interface needed by ledger delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package ledgerdelivery
type Service interface {
	ProcessTransfer(ctx context.Context, arg domain.TransferParams) (domain.Transaction, error)
	Balance() decimal.Decimal
	History() []domain.DayGroup
	LastUpdate() string
}

// Handler facilitates ledger delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns ledger handler.
func NewHandler(ls Service) *Handler {
	return &Handler{
		service: ls,
	}
}

type balanceData struct {
	Balance    decimal.Decimal `json:"balance"`
	Formatted  string          `json:"formatted"`
	LastUpdate string          `json:"lastUpdate,omitempty"`
}

type balanceResponse struct {
	Data balanceData `json:"data"`
}

// GetBalance handles http request to read the current balance.
func (h *Handler) GetBalance(gctx *gin.Context) {
	balance := h.service.Balance()

	res := balanceResponse{
		Data: balanceData{
			Balance:    balance,
			Formatted:  currencypkg.Format(balance),
			LastUpdate: h.service.LastUpdate(),
		},
	}

	gctx.JSON(http.StatusOK, res)
}

type historyData struct {
	Days []domain.DayGroup `json:"days"`
}

type historyResponse struct {
	Data historyData `json:"data"`
}

// ListTransactions handles http request to read the transaction history
// grouped by date, the way the home screen renders it.
func (h *Handler) ListTransactions(gctx *gin.Context) {
	days := h.service.History()
	if days == nil {
		days = []domain.DayGroup{}
	}

	res := historyResponse{
		Data: historyData{Days: days},
	}

	gctx.JSON(http.StatusOK, res)
}

type transferRequest struct {
	Amount           string `json:"amount" binding:"required,amount"`
	RecipientName    string `json:"recipientName"`
	RecipientAccount string `json:"recipientAccount"`
	Description      string `json:"description"`
}

type transferData struct {
	Transaction     domain.Transaction `json:"transaction"`
	Amount          string             `json:"amount"`
	RecipientName   string             `json:"recipientName"`
	Balance         decimal.Decimal    `json:"balance"`
	BalanceMasked   string             `json:"balanceMasked"`
	RemainingAmount string             `json:"remainingFormatted"`
	ProcessedAt     string             `json:"processedAt"`
}

type transferResponse struct {
	Data transferData `json:"data"`
}

// CreateTransfer handles http request to process an outgoing transfer.
// The response carries everything the confirmation screen displays.
func (h *Handler) CreateTransfer(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req transferRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, jsonresponse.Error(err))

		return
	}

	arg := domain.TransferParams{
		Amount:           req.Amount,
		RecipientName:    req.RecipientName,
		RecipientAccount: req.RecipientAccount,
		Description:      req.Description,
	}

	tx, err := h.service.ProcessTransfer(ctx, arg)
	if err != nil {
		l.Info().Err(err).Send()

		switch {
		case
			errors.Is(err, domain.ErrInvalidAmount),
			errors.Is(err, domain.ErrMissingRecipientName),
			errors.Is(err, domain.ErrMissingRecipientAccount),
			errors.Is(err, domain.ErrInsufficientBalance):
			gctx.JSON(http.StatusBadRequest, jsonresponse.Error(err))

			return
		}

		gctx.JSON(http.StatusInternalServerError, jsonresponse.Error(errorspkg.ErrInternal))

		return
	}

	res := transferResponse{
		Data: transferData{
			Transaction:     tx,
			Amount:          currencypkg.WithSymbol(tx.Amount),
			RecipientName:   tx.RecipientName,
			Balance:         tx.RemainingBalance,
			BalanceMasked:   "*****",
			RemainingAmount: currencypkg.WithSymbol(tx.RemainingBalance),
			ProcessedAt:     tx.Timestamp,
		},
	}

	gctx.JSON(http.StatusOK, res)
}
