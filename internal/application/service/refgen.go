package service

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ReferenceGenerator produces the human-readable reference codes
// printed on invoices and job cards. It is injected into the sale and
// repair services so tests can supply deterministic values.
type ReferenceGenerator interface {
	InvoiceNumber() string
	JobCardNumber() string
}

type referenceGenerator struct{}

// NewReferenceGenerator creates the production reference generator.
// Invoice numbers embed a nanosecond timestamp, so collisions are not a
// practical concern for single-process issuance. Job card numbers carry
// 48 bits of randomness; the unique constraint on job_card_number plus
// the retry loop in RepairService close the residual collision window.
func NewReferenceGenerator() ReferenceGenerator {
	return &referenceGenerator{}
}

func (g *referenceGenerator) InvoiceNumber() string {
	return "INV-" + strconv.FormatInt(time.Now().UnixNano(), 10)
}

func (g *referenceGenerator) JobCardNumber() string {
	raw := strings.ReplaceAll(uuid.New().String(), "-", "")
	return "JC-" + strings.ToUpper(raw[:12])
}
