package types

type PaymentStatus string

const (
	PAYMENT_PENDING   PaymentStatus = "pending"
	PAYMENT_SUCCEEDED PaymentStatus = "succeeded"
	PAYMENT_FAILED    PaymentStatus = "failed"
	PAYMENT_CANCELED  PaymentStatus = "canceled"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PAYMENT_PENDING, PAYMENT_SUCCEEDED, PAYMENT_FAILED, PAYMENT_CANCELED:
		return true
	}
	return false
}

type Environment string

const (
	Local      Environment = "local"
	Test       Environment = "test"
	Production Environment = "production"
)

type CreatePaymentIntentRequestBody struct {
	Amount   int64  `json:"amount" binding:"required,gt=0"`
	Currency string `json:"currency,omitempty"`
}

type CheckoutRequestBody struct {
	Tier        string `json:"tier"`
	Quantity    int    `json:"quantity" binding:"required,ticketqty"`
	CheckoutKey string `json:"checkout_key,omitempty"`
}

// CustomerInfoRequestBody is validated by the workflow rather than binding tags
// so that missing fields produce the same message on every route.
type CustomerInfoRequestBody struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

type ConfirmPaymentRequestBody struct {
	CustomerInfoRequestBody
	PaymentMethod string `json:"payment_method,omitempty"`
}

type PurchaseURIParams struct {
	ID string `uri:"id" binding:"required"`
}
