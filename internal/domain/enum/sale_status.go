package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// SaleStatus represents the lifecycle status of a sale
type SaleStatus int

const (
	SaleStatusCompleted SaleStatus = 0
	SaleStatusReturned  SaleStatus = 1
	SaleStatusVoid      SaleStatus = 2
)

func (s SaleStatus) String() string {
	switch s {
	case SaleStatusCompleted:
		return "completed"
	case SaleStatusReturned:
		return "returned"
	case SaleStatusVoid:
		return "void"
	}
	return "unknown"
}

// ParseSaleStatus converts a wire string into a SaleStatus
func ParseSaleStatus(str string) (SaleStatus, bool) {
	switch str {
	case "completed":
		return SaleStatusCompleted, true
	case "returned":
		return SaleStatusReturned, true
	case "void":
		return SaleStatusVoid, true
	}
	return SaleStatusCompleted, false
}

func (s SaleStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *SaleStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = SaleStatus(i)
		return nil
	}
	switch str {
	case "completed":
		*s = SaleStatusCompleted
	case "returned":
		*s = SaleStatusReturned
	case "void":
		*s = SaleStatusVoid
	}
	return nil
}

func (s SaleStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *SaleStatus) Scan(value interface{}) error {
	if value == nil {
		*s = SaleStatusCompleted
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = SaleStatus(v)
	case int:
		*s = SaleStatus(v)
	}
	return nil
}
