package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"sms-payment-service/internal/core/ports"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// HTTPClient interface for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// gatewayPayload is the JSON body sent to the SMS gateway.
type gatewayPayload struct {
	PhoneNumber string `json:"phoneNumber"`
	Message     string `json:"message"`
}

// notificationService implements ports.NotificationSink. Dispatch is
// fire-and-forget: the transfer's outcome is final before any
// notification is attempted, so every failure here is swallowed.
type notificationService struct {
	userRepo   ports.UserRepository
	gatewayURL string
	httpClient HTTPClient
	log        zerolog.Logger
}

// NewNotificationService creates an SMS notification sink targeting
// the given gateway URL. An empty URL disables dispatch entirely.
func NewNotificationService(userRepo ports.UserRepository, gatewayURL string, httpClient HTTPClient, log zerolog.Logger) ports.NotificationSink {
	return &notificationService{
		userRepo:   userRepo,
		gatewayURL: gatewayURL,
		httpClient: httpClient,
		log:        log,
	}
}

// Notify looks up the user's phone number and dispatches a status
// message. Lookup failures suppress the notification.
func (s *notificationService) Notify(ctx context.Context, userID int64, amount decimal.Decimal, status string, direction ports.NotificationDirection) {
	if s.gatewayURL == "" {
		return
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		s.log.Warn().Err(err).Int64("user_id", userID).Msg("notification: user lookup failed, suppressing")
		return
	}
	if user == nil || user.PhoneNumber == "" {
		s.log.Debug().Int64("user_id", userID).Msg("notification: no phone number on record, skipping")
		return
	}

	// The gateway message truncates the amount to whole units.
	message := fmt.Sprintf("%d|%s|%s", amount.IntPart(), status, direction)
	payload := gatewayPayload{
		PhoneNumber: user.PhoneNumber,
		Message:     message,
	}

	go s.dispatch(user.PhoneNumber, payload)
}

// dispatch performs a single delivery attempt. There is no retry
// queue; a lost notification downgrades nothing but user certainty.
func (s *notificationService) dispatch(phone string, payload gatewayPayload) {
	body, err := json.Marshal(payload)
	if err != nil {
		s.log.Error().Err(err).Msg("notification: marshal payload failed")
		return
	}

	req, err := http.NewRequest(http.MethodPost, s.gatewayURL, bytes.NewReader(body))
	if err != nil {
		s.log.Error().Err(err).Msg("notification: build request failed")
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.log.Warn().Err(err).Str("phone", phone).Msg("notification: gateway dispatch failed")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		s.log.Warn().Int("status", resp.StatusCode).Str("phone", phone).Msg("notification: gateway returned non-2xx")
		return
	}

	s.log.Debug().Str("phone", phone).Msg("notification: delivered")
}
