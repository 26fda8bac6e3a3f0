package balance

import (
	"context"
	"errors"
	"time"

	"hushhly/config"
	"hushhly/model"
	"hushhly/store"
	"hushhly/utils"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	MsgInsufficientFunds = "Insufficient balance"
	MsgCancelled         = "Transaction cancelled before settlement"
	MsgAdded             = "Balance added successfully"
	MsgDeducted          = "Payment completed successfully"
)

// Service is a per-user balance ledger. Every mutation creates a pending
// transaction, waits for the settlement delay and then completes it.
// Mutations of one user are serialized from the funds check through
// settlement, so concurrent debits cannot overdraw.
type Service struct {
	docs     *store.DocumentStore
	initial  float64
	currency string
	delay    time.Duration
	now      func() time.Time
	locks    *keyedMutex
}

func NewService(docs *store.DocumentStore, cfg config.BalanceConfig, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	currency := cfg.Currency
	if currency == "" {
		currency = "USD"
	}
	return &Service{
		docs:     docs,
		initial:  cfg.InitialBalance,
		currency: currency,
		delay:    cfg.SettlementDelay(),
		now:      now,
		locks:    newKeyedMutex(),
	}
}

func (s *Service) newBalance(userID string) func() model.UserBalance {
	return func() model.UserBalance {
		return model.UserBalance{
			UserID:       userID,
			Balance:      s.initial,
			Currency:     s.currency,
			Transactions: []model.Transaction{},
			UpdatedAt:    s.now(),
		}
	}
}

// GetUserBalance reads the balance document without writing it
func (s *Service) GetUserBalance(ctx context.Context, userID string) (model.UserBalance, error) {
	if userID == "" {
		return model.UserBalance{}, utils.ErrEmptyUserID
	}
	return store.Load(ctx, s.docs, store.NamespaceUserBalances, userID, s.newBalance(userID))
}

// GetTransactions returns up to limit transactions, newest first. limit <= 0
// returns all of them.
func (s *Service) GetTransactions(ctx context.Context, userID string, limit int) ([]model.Transaction, error) {
	b, err := s.GetUserBalance(ctx, userID)
	if err != nil {
		return nil, err
	}
	if limit > 0 && limit < len(b.Transactions) {
		return b.Transactions[:limit], nil
	}
	return b.Transactions, nil
}

// AddBalance credits amount after settlement
func (s *Service) AddBalance(ctx context.Context, userID string, amount float64, description, paymentMethod string) (model.BalanceResult, error) {
	return s.apply(ctx, userID, model.TransactionCredit, amount, description, paymentMethod)
}

// DeductBalance debits amount after settlement. Insufficient funds is a
// failed result, not an error, and writes nothing.
func (s *Service) DeductBalance(ctx context.Context, userID string, amount float64, description string) (model.BalanceResult, error) {
	return s.apply(ctx, userID, model.TransactionDebit, amount, description, model.PaymentMethodBalance)
}

func (s *Service) apply(ctx context.Context, userID string, txType model.TransactionType, amount float64, description, paymentMethod string) (model.BalanceResult, error) {
	if userID == "" {
		return model.BalanceResult{}, utils.ErrEmptyUserID
	}
	if err := utils.ValidateAmount(amount); err != nil {
		return model.BalanceResult{}, err
	}
	amount = utils.RoundCents(amount)
	if description == "" {
		description = defaultDescription(txType)
	}

	unlock := s.locks.Lock(userID)
	defer unlock()

	current, err := s.GetUserBalance(ctx, userID)
	if err != nil {
		return model.BalanceResult{}, err
	}
	if txType == model.TransactionDebit && amount > current.Balance {
		log.Info().
			Str("user_id", userID).
			Float64("amount", amount).
			Float64("balance", current.Balance).
			Msg("Debit rejected, insufficient balance")
		return model.BalanceResult{Success: false, Message: MsgInsufficientFunds, Balance: current.Balance}, nil
	}

	tx := model.Transaction{
		ID:            uuid.NewString(),
		Amount:        amount,
		Type:          txType,
		Description:   description,
		Timestamp:     s.now(),
		Status:        model.TransactionPending,
		PaymentMethod: paymentMethod,
	}

	// Phase one: record the pending transaction
	if _, err := s.mutate(ctx, userID, func(b *model.UserBalance) error {
		b.Transactions = append([]model.Transaction{tx}, b.Transactions...)
		b.UpdatedAt = s.now()
		return nil
	}); err != nil {
		return model.BalanceResult{}, err
	}

	if err := s.wait(ctx); err != nil {
		b, ferr := s.settle(context.WithoutCancel(ctx), userID, tx.ID, model.TransactionFailed, 0)
		if ferr != nil {
			log.Error().Err(ferr).Str("transaction_id", tx.ID).Msg("Failed to mark cancelled transaction")
		}
		tx.Status = model.TransactionFailed
		return model.BalanceResult{Success: false, Message: MsgCancelled, Balance: b.Balance, Transaction: &tx}, err
	}

	// Phase two: re-read, re-check and apply the delta
	delta := amount
	if txType == model.TransactionDebit {
		delta = -amount
	}
	status := model.TransactionCompleted
	message := MsgAdded
	if txType == model.TransactionDebit {
		message = MsgDeducted
	}

	b, err := s.settleChecked(ctx, userID, tx.ID, delta)
	if errors.Is(err, errSettlementFunds) {
		status = model.TransactionFailed
		message = MsgInsufficientFunds
		err = nil
	}
	if err != nil {
		return model.BalanceResult{}, err
	}

	tx.Status = status
	log.Info().
		Str("user_id", userID).
		Str("transaction_id", tx.ID).
		Str("type", string(txType)).
		Float64("amount", amount).
		Str("status", string(status)).
		Float64("balance", b.Balance).
		Msg("Transaction settled")

	return model.BalanceResult{
		Success:     status == model.TransactionCompleted,
		Message:     message,
		Balance:     b.Balance,
		Transaction: &tx,
	}, nil
}

var errSettlementFunds = errors.New("insufficient funds at settlement")

// settleChecked completes the transaction, or fails it when a debit no
// longer fits the balance
func (s *Service) settleChecked(ctx context.Context, userID, txID string, delta float64) (model.UserBalance, error) {
	var short bool
	b, err := s.mutate(ctx, userID, func(b *model.UserBalance) error {
		status := model.TransactionCompleted
		if b.Balance+delta < 0 {
			short = true
			status = model.TransactionFailed
			delta = 0
		}
		setStatus(b, txID, status)
		b.Balance = utils.RoundCents(b.Balance + delta)
		b.UpdatedAt = s.now()
		return nil
	})
	if err == nil && short {
		return b, errSettlementFunds
	}
	return b, err
}

func (s *Service) settle(ctx context.Context, userID, txID string, status model.TransactionStatus, delta float64) (model.UserBalance, error) {
	return s.mutate(ctx, userID, func(b *model.UserBalance) error {
		setStatus(b, txID, status)
		b.Balance = utils.RoundCents(b.Balance + delta)
		b.UpdatedAt = s.now()
		return nil
	})
}

func (s *Service) mutate(ctx context.Context, userID string, fn func(*model.UserBalance) error) (model.UserBalance, error) {
	return store.Mutate(ctx, s.docs, store.NamespaceUserBalances, userID, s.newBalance(userID), fn)
}

func (s *Service) wait(ctx context.Context) error {
	if s.delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(s.delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func setStatus(b *model.UserBalance, txID string, status model.TransactionStatus) {
	for i := range b.Transactions {
		if b.Transactions[i].ID == txID {
			b.Transactions[i].Status = status
			return
		}
	}
}

func defaultDescription(t model.TransactionType) string {
	if t == model.TransactionCredit {
		return "Balance top-up"
	}
	return "Payment"
}
