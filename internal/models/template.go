package models

import (
	"fmt"
	"time"
)

type TemplateType int

const (
	TemplateOrderCompletion      TemplateType = 1
	TemplateOrderCancelled       TemplateType = 2
	TemplateOrderPending         TemplateType = 3
	TemplatePaymentSuccess       TemplateType = 4
	TemplatePaymentFailure       TemplateType = 5
	TemplatePaymentPending       TemplateType = 6
	TemplateCustomerRegistration TemplateType = 7
)

var templateTypeNames = map[TemplateType]string{
	TemplateOrderCompletion:      "OrderCompletion",
	TemplateOrderCancelled:       "OrderCancelled",
	TemplateOrderPending:         "OrderPending",
	TemplatePaymentSuccess:       "PaymentSuccess",
	TemplatePaymentFailure:       "PaymentFailure",
	TemplatePaymentPending:       "PaymentPending",
	TemplateCustomerRegistration: "CustomerRegistration",
}

func (t TemplateType) Valid() bool {
	_, ok := templateTypeNames[t]
	return ok
}

func (t TemplateType) String() string {
	if name, ok := templateTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TemplateType(%d)", int(t))
}

// TemplateTypes retourne les 7 types dans l'ordre de l'énumération
func TemplateTypes() []TemplateType {
	return []TemplateType{
		TemplateOrderCompletion,
		TemplateOrderCancelled,
		TemplateOrderPending,
		TemplatePaymentSuccess,
		TemplatePaymentFailure,
		TemplatePaymentPending,
		TemplateCustomerRegistration,
	}
}

type Template struct {
	ID           int64        `json:"id"`
	Name         string       `json:"name"`
	HTMLContent  string       `json:"htmlContent"`
	TemplateType TemplateType `json:"templateType"`
	CreatedDate  time.Time    `json:"createdDate"`
	CreatedBy    string       `json:"createdBy"`
	UpdateDate   *time.Time   `json:"updateDate,omitempty"`
	UpdateBy     *string      `json:"updateBy,omitempty"`
}
