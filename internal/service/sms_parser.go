package service

import (
	"strconv"
	"strings"

	"sms-payment-service/internal/core/domain"

	"github.com/shopspring/decimal"
)

// ParseSMS decodes an inbound text of the form
// "sender id | receiver id | amount" into a transfer request.
// It is pure and side-effect free: any deviation from the grammar —
// wrong field count, non-integer ids, empty ids, non-numeric or
// non-positive amount — yields nil rather than an error.
func ParseSMS(raw string) *domain.TransferRequest {
	parts := strings.Split(raw, "|")
	if len(parts) != 3 {
		return nil
	}

	senderStr := strings.TrimSpace(parts[0])
	receiverStr := strings.TrimSpace(parts[1])
	amountStr := strings.TrimSpace(parts[2])

	if senderStr == "" || receiverStr == "" {
		return nil
	}

	senderID, err := strconv.ParseInt(senderStr, 10, 64)
	if err != nil {
		return nil
	}
	receiverID, err := strconv.ParseInt(receiverStr, 10, 64)
	if err != nil {
		return nil
	}

	amount, err := decimal.NewFromString(amountStr)
	if err != nil || !amount.IsPositive() {
		return nil
	}

	return &domain.TransferRequest{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Amount:     amount,
	}
}
