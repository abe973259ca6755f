package dto

import "github.com/shopspring/decimal"

// SyncRequest is the request body for user state lookup.
type SyncRequest struct {
	ID int64 `json:"id" binding:"required"`
}

// SyncResponse is the user state returned to the mobile client.
type SyncResponse struct {
	ID      int64           `json:"id"`
	Name    string          `json:"name"`
	Balance decimal.Decimal `json:"balance"`
}

// AddBalanceRequest is the request body for a manual balance credit.
type AddBalanceRequest struct {
	UserID int64           `json:"user_id" binding:"required"`
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// AddBalanceResponse echoes the cumulative balance after the credit.
type AddBalanceResponse struct {
	Status     string          `json:"status"`
	UserID     int64           `json:"user_id"`
	NewBalance decimal.Decimal `json:"new_balance"`
}

// SignupRequest is the request body for account creation.
type SignupRequest struct {
	Email       string `json:"email" binding:"required,email,max=255"`
	Password    string `json:"password" binding:"required,min=8,max=128"`
	Name        string `json:"name" binding:"required,min=1,max=100"`
	PhoneNumber string `json:"phoneNumber" binding:"required,phone"`
}

// LoginRequest is the request body for the bare login check.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse is returned by both signup and login.
type AuthResponse struct {
	Message string `json:"message"`
	UserID  int64  `json:"user_id"`
}

// SMSResponse is returned by the webhook for a completed transfer.
type SMSResponse struct {
	Status            string `json:"status"`
	Message           string `json:"message"`
	TransactionStatus string `json:"transaction_status"`
}

// TransactionResponse is one entry of a user's transfer history.
type TransactionResponse struct {
	ID         int64           `json:"id"`
	SenderID   int64           `json:"sender_id"`
	ReceiverID int64           `json:"receiver_id"`
	Amount     decimal.Decimal `json:"amount"`
	Status     string          `json:"status"`
	CreatedAt  string          `json:"created_at"`
}

// TransactionListResponse wraps a user's transfer history.
type TransactionListResponse struct {
	UserID int64                 `json:"user_id"`
	Items  []TransactionResponse `json:"items"`
}
