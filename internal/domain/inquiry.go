package domain

import (
	"strings"
	"time"
)

// Inquiry status values.
const (
	InquiryStatusNew       = "New"
	InquiryStatusContacted = "Contacted"
)

// productSeparator joins selected product names in the stored record.
const productSeparator = ", "

// Inquiry is a customer request submitted through the contact form.
type Inquiry struct {
	ID               int64     `json:"id"`
	CustomerName     string    `json:"customer_name"`
	CustomerEmail    string    `json:"customer_email"`
	CustomerPhone    string    `json:"customer_phone,omitempty"`
	Message          string    `json:"message"`
	SelectedProducts string    `json:"selected_products"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"created_at,omitempty"`
}

// JoinProducts renders product names the way they are stored.
func JoinProducts(names []string) string {
	return strings.Join(names, productSeparator)
}

// Products splits SelectedProducts back into names.
func (i Inquiry) Products() []string {
	if strings.TrimSpace(i.SelectedProducts) == "" {
		return nil
	}
	parts := strings.Split(i.SelectedProducts, productSeparator)
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			names = append(names, p)
		}
	}
	return names
}

// CanMarkContacted reports whether the inquiry may move to Contacted.
func (i Inquiry) CanMarkContacted() bool {
	return i.Status == InquiryStatusNew
}
