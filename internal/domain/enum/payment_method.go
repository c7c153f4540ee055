package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// PaymentMethod represents how a sale was paid for
type PaymentMethod int

const (
	PaymentMethodCash  PaymentMethod = 0
	PaymentMethodCard  PaymentMethod = 1
	PaymentMethodUPI   PaymentMethod = 2
	PaymentMethodSplit PaymentMethod = 3
)

func (p PaymentMethod) String() string {
	switch p {
	case PaymentMethodCash:
		return "cash"
	case PaymentMethodCard:
		return "card"
	case PaymentMethodUPI:
		return "upi"
	case PaymentMethodSplit:
		return "split"
	}
	return "unknown"
}

// ParsePaymentMethod converts a wire string into a PaymentMethod
func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	switch s {
	case "cash":
		return PaymentMethodCash, true
	case "card":
		return PaymentMethodCard, true
	case "upi":
		return PaymentMethodUPI, true
	case "split":
		return PaymentMethodSplit, true
	}
	return PaymentMethodCash, false
}

func (p PaymentMethod) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

func (p *PaymentMethod) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*p = PaymentMethod(i)
		return nil
	}
	if parsed, ok := ParsePaymentMethod(str); ok {
		*p = parsed
	}
	return nil
}

func (p PaymentMethod) Value() (driver.Value, error) {
	return int64(p), nil
}

func (p *PaymentMethod) Scan(value interface{}) error {
	if value == nil {
		*p = PaymentMethodCash
		return nil
	}
	switch v := value.(type) {
	case int64:
		*p = PaymentMethod(v)
	case int:
		*p = PaymentMethod(v)
	}
	return nil
}
