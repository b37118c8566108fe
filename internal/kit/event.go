package kit

import "strconv"

// EventType classifies events handed to the kit.
type EventType string

const (
	EventTypeCustom   EventType = "custom"
	EventTypeScreen   EventType = "screen"
	EventTypeCommerce EventType = "commerce"
)

// Commerce actions
const (
	ActionPurchase = "purchase"
)

// Well-known event names sent to the engagement platform.
const (
	EventPageLoad      = "pageload"
	EventIdentify      = "identify"
	EventPushDelivered = "push_delivered"

	AttrScreenViewed = "screen_viewed"
	AttrMessageUUID  = "bsft_message_uuid"
)

// User attribute keys understood by OnSetUserAttribute.
const (
	UserAttrFirstName = "$FirstName"
	UserAttrLastName  = "$LastName"
	UserAttrGender    = "$Gender"
)

// Event is a custom or screen event.
type Event struct {
	Name       string            `json:"name" binding:"required"`
	Type       EventType         `json:"type"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// Product is a line item of a commerce event.
type Product struct {
	Name     string  `json:"name"`
	SKU      string  `json:"sku"`
	Price    float64 `json:"price"`
	Quantity float64 `json:"quantity"`
}

// TransactionAttributes summarize a commerce transaction.
type TransactionAttributes struct {
	ID      string  `json:"id"`
	Revenue float64 `json:"revenue"`
	Tax     float64 `json:"tax"`
}

// CommerceEvent is a product action such as a purchase.
type CommerceEvent struct {
	Name        string                `json:"name"`
	Action      string                `json:"action"`
	Products    []Product             `json:"products"`
	Transaction TransactionAttributes `json:"transaction"`
	Attributes  map[string]string     `json:"attributes,omitempty"`
}

// NewPurchase builds a purchase event for products.
func NewPurchase(transaction TransactionAttributes, products ...Product) CommerceEvent {
	return CommerceEvent{
		Name:        ActionPurchase,
		Action:      ActionPurchase,
		Products:    products,
		Transaction: transaction,
	}
}

// FlatAttributes returns the event's custom attributes merged with its
// transaction and product summary.
func (e CommerceEvent) FlatAttributes() map[string]string {
	attrs := make(map[string]string, len(e.Attributes)+6)
	for k, v := range e.Attributes {
		attrs[k] = v
	}
	if e.Action != "" {
		attrs["action"] = e.Action
	}
	if e.Transaction.ID != "" {
		attrs["transaction_id"] = e.Transaction.ID
		attrs["revenue"] = formatAmount(e.Transaction.Revenue)
		attrs["tax"] = formatAmount(e.Transaction.Tax)
	}
	for i, p := range e.Products {
		prefix := "product_" + strconv.Itoa(i) + "_"
		attrs[prefix+"name"] = p.Name
		attrs[prefix+"sku"] = p.SKU
		attrs[prefix+"price"] = formatAmount(p.Price)
		attrs[prefix+"quantity"] = formatAmount(p.Quantity)
	}
	return attrs
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
