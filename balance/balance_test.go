package balance

import (
	"context"
	"sync"
	"testing"
	"time"

	"hushhly/config"
	"hushhly/model"
	"hushhly/store"
	"hushhly/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, initial float64, delay time.Duration) *Service {
	t.Helper()
	docs := store.NewDocumentStore(store.NewMemoryKV(), nil)
	cfg := config.BalanceConfig{
		InitialBalance:    initial,
		Currency:          "USD",
		SettlementDelayMS: int(delay / time.Millisecond),
	}
	return NewService(docs, cfg, nil)
}

func TestGetUserBalance_IdempotentRead(t *testing.T) {
	svc := newTestService(t, 20, 0)
	ctx := context.Background()

	first, err := svc.GetUserBalance(ctx, "u1")
	require.NoError(t, err)
	second, err := svc.GetUserBalance(ctx, "u1")
	require.NoError(t, err)

	assert.Equal(t, 20.0, first.Balance)
	assert.Equal(t, first.Balance, second.Balance)
	assert.Equal(t, first.Transactions, second.Transactions)

	_, err = svc.GetUserBalance(ctx, "")
	assert.ErrorIs(t, err, utils.ErrEmptyUserID)
}

func TestAddAndDeduct(t *testing.T) {
	svc := newTestService(t, 0, 0)
	ctx := context.Background()

	res, err := svc.AddBalance(ctx, "u1", 25.5, "Top-up", model.PaymentMethodCard)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, 25.5, res.Balance)
	require.NotNil(t, res.Transaction)
	assert.Equal(t, model.TransactionCompleted, res.Transaction.Status)
	assert.Equal(t, model.PaymentMethodCard, res.Transaction.PaymentMethod)

	res, err = svc.DeductBalance(ctx, "u1", 10.25, "Monthly plan")
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, 15.25, res.Balance)

	txs, err := svc.GetTransactions(ctx, "u1", 0)
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, model.TransactionDebit, txs[0].Type, "newest first")
	assert.Equal(t, model.TransactionCompleted, txs[0].Status)

	limited, err := svc.GetTransactions(ctx, "u1", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestDeduct_InsufficientFundsLeavesStateUnchanged(t *testing.T) {
	svc := newTestService(t, 0, 0)
	ctx := context.Background()

	_, err := svc.AddBalance(ctx, "u1", 5, "", "")
	require.NoError(t, err)
	before, err := svc.GetUserBalance(ctx, "u1")
	require.NoError(t, err)

	res, err := svc.DeductBalance(ctx, "u1", 5.01, "Too much")
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, MsgInsufficientFunds, res.Message)
	assert.Nil(t, res.Transaction)

	after, err := svc.GetUserBalance(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, before.Balance, after.Balance)
	assert.Equal(t, before.Transactions, after.Transactions)
}

func TestInvalidAmount(t *testing.T) {
	svc := newTestService(t, 0, 0)

	for _, amount := range []float64{0, -3} {
		_, err := svc.AddBalance(context.Background(), "u1", amount, "", "")
		assert.ErrorIs(t, err, utils.ErrInvalidAmount)
	}
}

func TestPendingBeforeSettlement(t *testing.T) {
	svc := newTestService(t, 0, 200*time.Millisecond)
	ctx := context.Background()

	done := make(chan model.BalanceResult, 1)
	go func() {
		res, _ := svc.AddBalance(ctx, "u1", 10, "", "")
		done <- res
	}()

	require.Eventually(t, func() bool {
		b, err := svc.GetUserBalance(ctx, "u1")
		return err == nil && len(b.Transactions) == 1
	}, time.Second, 5*time.Millisecond)

	b, err := svc.GetUserBalance(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, model.TransactionPending, b.Transactions[0].Status)
	assert.Zero(t, b.Balance, "delta applies only at settlement")

	res := <-done
	assert.True(t, res.Success)
	assert.Equal(t, 10.0, res.Balance)
}

func TestConcurrentDeductsCannotOverdraw(t *testing.T) {
	svc := newTestService(t, 10, 5*time.Millisecond)
	ctx := context.Background()

	const callers = 6
	var wg sync.WaitGroup
	results := make(chan model.BalanceResult, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := svc.DeductBalance(ctx, "u1", 3, "")
			if err != nil {
				t.Errorf("DeductBalance() error = %v", err)
				return
			}
			results <- res
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for res := range results {
		if res.Success {
			succeeded++
		}
	}
	assert.Equal(t, 3, succeeded)

	b, err := svc.GetUserBalance(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1.0, b.Balance)
	assert.Len(t, b.Transactions, 3)
}

func TestCancelledSettlementFailsTransaction(t *testing.T) {
	svc := newTestService(t, 10, time.Hour)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	res, err := svc.DeductBalance(ctx, "u1", 4, "")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, res.Success)
	require.NotNil(t, res.Transaction)
	assert.Equal(t, model.TransactionFailed, res.Transaction.Status)

	b, err := svc.GetUserBalance(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 10.0, b.Balance)
	require.Len(t, b.Transactions, 1)
	assert.Equal(t, model.TransactionFailed, b.Transactions[0].Status)
}

func TestKeyedMutexReleasesKeys(t *testing.T) {
	k := newKeyedMutex()
	unlock := k.Lock("a")
	unlock()

	k.mu.Lock()
	defer k.mu.Unlock()
	assert.Empty(t, k.locks)
}
