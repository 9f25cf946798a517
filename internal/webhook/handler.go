// Package webhook acknowledges store events posted by the commerce platform.
package webhook

import (
	"encoding/json"
	"net/http"

	"github.com/op/go-logging"

	"github.com/filedrop/service/internal/response"
)

var log = logging.MustGetLogger("filedrop")

const maxEventBytes = 1 << 20

// events maps every known event type to its acknowledgement message.
var events = map[string]string{
	"order_created":                  "Order created",
	"order_updated":                  "Order updated",
	"order_deleted":                  "Order deleted",
	"order_status_updated":           "Order status updated",
	"order_refunded":                 "Order refunded",
	"order_canceled":                 "Order canceled",
	"order_customer_updated":         "Order customer updated",
	"order_products_updated":         "Order products updated",
	"order_payment_updated":          "Order payment updated",
	"order_coupon_updated":           "Order coupon updated",
	"order_total_price_updated":      "Order total price updated",
	"order_shipment_creating":        "Order shipment creating",
	"order_shipment_created":         "Order shipment created",
	"order_shipment_canceled":        "Order shipment canceled",
	"order_shipment_return_creating": "Order shipment return creating",
	"order_shipment_return_created":  "Order shipment return created",
	"order_shipment_return_canceled": "Order shipment return canceled",
	"order_shipping_address_updated": "Order shipping address updated",

	"product_created":          "Product created",
	"product_updated":          "Product updated",
	"product_deleted":          "Product deleted",
	"product_available":        "Product available",
	"product_quantity_low":     "Product quantity low",
	"product_channels_changed": "Product channels changed",

	"customer_login":       "Customer login",
	"customer_created":     "Customer created",
	"customer_updated":     "Customer updated",
	"customer_otp_request": "Customer OTP request",

	"category_created": "Category created",
	"category_updated": "Category updated",

	"brand_created": "Brand created",
	"brand_updated": "Brand updated",
	"brand_deleted": "Brand deleted",

	"store_branch_created":    "Store branch created",
	"store_branch_updated":    "Store branch updated",
	"store_branch_setdefault": "Store branch set as default",
	"store_branch_activated":  "Store branch activated",
	"store_branch_deleted":    "Store branch deleted",
	"store_tax_created":       "Store tax created",
	"store_tax_updated":       "Store tax updated",
	"store_tax_deleted":       "Store tax deleted",
	"store_currency_created":  "Store currency created",
	"store_currency_updated":  "Store currency updated",
	"store_currency_deleted":  "Store currency deleted",
	"store_attribute_created": "Store attribute created",
	"store_attribute_updated": "Store attribute updated",
	"store_attribute_deleted": "Store attribute deleted",
}

// Event is the body of a webhook request.
type Event struct {
	Type string          `json:"type" example:"order_created"`
	Data json.RawMessage `json:"data,omitempty" swaggertype:"object"`
}

// Ack is returned for a recognised event.
type Ack struct {
	Status  string          `json:"status" example:"success"`
	Message string          `json:"message" example:"Order created"`
	Data    json.RawMessage `json:"data,omitempty" swaggertype:"object"`
}

// Rejection is returned for an event type the service does not know.
type Rejection struct {
	Status    string `json:"status" example:"error"`
	Message   string `json:"message" example:"Unhandled event type"`
	EventType string `json:"eventType,omitempty" example:"order_exploded"`
}

// Message returns the acknowledgement for eventType and whether it is known.
func Message(eventType string) (string, bool) {
	msg, ok := events[eventType]
	return msg, ok
}

// Handle godoc
//
//	@Summary		Receive a store event
//	@Description	Acknowledges a known event and echoes its data.
//	@Tags			webhook
//	@Accept			json
//	@Produce		json
//	@Param			body	body		Event	true	"Event"
//	@Success		200		{object}	Ack
//	@Failure		400		{object}	Rejection
//	@Router			/webhook [post]
func Handle(w http.ResponseWriter, r *http.Request) {
	var ev Event
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxEventBytes)).Decode(&ev); err != nil {
		log.Debugf("webhook: decode: %v", err)
		response.BadRequest(w, "invalid request body")
		return
	}

	msg, ok := Message(ev.Type)
	if !ok {
		log.Warningf("webhook: unhandled event type %q", ev.Type)
		response.JSON(w, http.StatusBadRequest, Rejection{
			Status:    "error",
			Message:   "Unhandled event type",
			EventType: ev.Type,
		})
		return
	}

	log.Infof("webhook: %s: %s", msg, ev.Data)
	response.OK(w, Ack{Status: "success", Message: msg, Data: ev.Data})
}
