package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"coursecart/metrics"
	"coursecart/models"
	"coursecart/services"
)

const SignatureHeader = "X-Webhook-Signature"

type PaymentHandler struct {
	Gateway       services.Gateway
	Mailer        services.Mailer
	Pending       *services.PendingStore
	WebhookSecret []byte
	Metrics       *metrics.Metrics
}

type createOrderInput struct {
	CourseID string  `json:"courseId"`
	Amount   float64 `json:"amount"`
	Email    string  `json:"email"`
	Coupon   string  `json:"coupon"`
	Title    string  `json:"title"`
}

type webhookInput struct {
	OrderID     string `json:"orderId"`
	OrderStatus string `json:"orderStatus"`
}

func (h *PaymentHandler) CreateOrder(c *gin.Context) {
	var input createOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	if input.CourseID == "" || input.Email == "" || input.Coupon == "" || input.Title == "" || input.Amount <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "All fields are required"})
		return
	}

	orderID := services.NewOrderID()
	h.Pending.Put(models.PendingPayment{
		OrderID:  orderID,
		Email:    input.Email,
		Coupon:   input.Coupon,
		CourseID: input.CourseID,
		Title:    input.Title,
	})

	sessionID, err := h.Gateway.CreateOrder(c.Request.Context(), orderID, input.Amount, input.Email)
	if err != nil {
		h.Pending.Delete(orderID)
		h.Metrics.OrderFailures.Inc()
		log.Printf("Error creating gateway order %s: %v", orderID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to initiate payment"})
		return
	}

	h.Metrics.OrdersCreated.Inc()
	c.JSON(http.StatusOK, gin.H{"paymentSessionId": sessionID, "orderId": orderID})
}

// Webhook handles the gateway's asynchronous status callback. The gateway is
// always answered with 200 once the signature checks out; fulfillment runs in
// the background and its outcome is not reported back.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.Status(http.StatusOK)
		return
	}

	if len(h.WebhookSecret) > 0 {
		if !VerifySignature(body, c.GetHeader(SignatureHeader), h.WebhookSecret) {
			h.Metrics.WebhooksRejected.Inc()
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid webhook signature"})
			return
		}
	}

	var input webhookInput
	if err := json.Unmarshal(body, &input); err != nil {
		c.Status(http.StatusOK)
		return
	}

	if !strings.EqualFold(input.OrderStatus, "PAID") {
		h.Metrics.WebhooksIgnored.Inc()
		c.Status(http.StatusOK)
		return
	}

	pending, ok := h.Pending.Claim(input.OrderID)
	if !ok {
		// Unknown order, or a duplicate delivery that lost the claim race.
		h.Metrics.WebhooksIgnored.Inc()
		c.Status(http.StatusOK)
		return
	}

	go h.fulfill(pending)

	c.Status(http.StatusOK)
}

func (h *PaymentHandler) fulfill(p models.PendingPayment) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Fulfillment panic recovered: %v", r)
		}
	}()

	if err := h.Mailer.SendCoupon(p.Email, p.Title, p.Coupon); err != nil {
		h.Metrics.CouponSendFail.Inc()
		log.Printf("Error sending coupon email for %s: %v", p.OrderID, err)
		return
	}
	h.Metrics.CouponsSent.Inc()
}

// VerifySignature checks a hex-encoded HMAC-SHA256 of the raw body.
func VerifySignature(body []byte, signature string, secret []byte) bool {
	if signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	want := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(want), []byte(strings.ToLower(signature)))
}
