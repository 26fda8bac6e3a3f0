package model

import "time"

type TransactionType string

const (
	TransactionDebit  TransactionType = "debit"
	TransactionCredit TransactionType = "credit"
)

type TransactionStatus string

const (
	TransactionPending   TransactionStatus = "pending"
	TransactionCompleted TransactionStatus = "completed"
	TransactionFailed    TransactionStatus = "failed"
)

// Transaction is one balance movement; created pending, settled later
type Transaction struct {
	ID            string            `json:"id"`
	Amount        float64           `json:"amount"`
	Type          TransactionType   `json:"type"`
	Description   string            `json:"description"`
	Timestamp     time.Time         `json:"timestamp"`
	Status        TransactionStatus `json:"status"`
	PaymentMethod string            `json:"paymentMethod,omitempty"`
}

// UserBalance is the balance document; Transactions are newest first
type UserBalance struct {
	UserID       string        `json:"userId"`
	Balance      float64       `json:"balance"`
	Currency     string        `json:"currency"`
	Transactions []Transaction `json:"transactions"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

// BalanceResult is returned by balance mutations instead of an error for
// business failures such as insufficient funds
type BalanceResult struct {
	Success     bool         `json:"success"`
	Message     string       `json:"message"`
	Balance     float64      `json:"balance"`
	Transaction *Transaction `json:"transaction,omitempty"`
}

// BalanceRequest is the body of add / deduct requests
type BalanceRequest struct {
	Amount        float64 `json:"amount"`
	Description   string  `json:"description"`
	PaymentMethod string  `json:"paymentMethod"`
}
