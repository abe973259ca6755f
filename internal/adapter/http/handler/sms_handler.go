package handler

import (
	"sms-payment-service/internal/adapter/http/dto"
	"sms-payment-service/internal/core/ports"
	"sms-payment-service/internal/service"
	"sms-payment-service/pkg/apperror"
	"sms-payment-service/pkg/response"

	"github.com/gin-gonic/gin"
)

// SMSHandler handles the inbound SMS webhook.
type SMSHandler struct {
	transferSvc ports.TransferService
}

// NewSMSHandler creates a new SMSHandler.
func NewSMSHandler(transferSvc ports.TransferService) *SMSHandler {
	return &SMSHandler{transferSvc: transferSvc}
}

// Webhook handles POST /sms-webhook. The SMS gateway posts the raw
// text as the form field "Body"; it is parsed into a transfer request
// and handed to the engine. A malformed body is rejected before any
// transaction record is written.
func (h *SMSHandler) Webhook(c *gin.Context) {
	body := c.PostForm("Body")

	req := service.ParseSMS(body)
	if req == nil {
		response.Error(c, apperror.InvalidRequest("Invalid SMS format"))
		return
	}

	result, err := h.transferSvc.Transfer(c.Request.Context(), *req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.SMSResponse{
		Status:            "success",
		Message:           result.Message,
		TransactionStatus: string(result.Outcome),
	})
}
