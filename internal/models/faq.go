package models

import "time"

type FAQCategory string

const (
	FAQCategoryBilling         FAQCategory = "billing"
	FAQCategoryConnections     FAQCategory = "connections"
	FAQCategoryOutages         FAQCategory = "outages"
	FAQCategoryStreetlights    FAQCategory = "streetlights"
	FAQCategorySafety          FAQCategory = "safety"
	FAQCategoryCustomerService FAQCategory = "customer_service"
	FAQCategoryTechnical       FAQCategory = "technical"
	FAQCategoryAccount         FAQCategory = "account"
	FAQCategoryEmergency       FAQCategory = "emergency"
)

var faqCategories = []FAQCategory{
	FAQCategoryBilling,
	FAQCategoryConnections,
	FAQCategoryOutages,
	FAQCategoryStreetlights,
	FAQCategorySafety,
	FAQCategoryCustomerService,
	FAQCategoryTechnical,
	FAQCategoryAccount,
	FAQCategoryEmergency,
}

func (c FAQCategory) IsValid() bool {
	for _, known := range faqCategories {
		if c == known {
			return true
		}
	}
	return false
}

type FAQ struct {
	ID          string      `json:"id" db:"id"`
	Question    string      `json:"question" db:"question"`
	Answer      string      `json:"answer" db:"answer"`
	Category    FAQCategory `json:"category" db:"category"`
	Order       int         `json:"order" db:"order"`
	IsPublished bool        `json:"isPublished" db:"is_published"`
	CreatedAt   time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time   `json:"updatedAt" db:"updated_at"`
}

// FAQFilter narrows the public FAQ listing. Empty fields match everything.
type FAQFilter struct {
	Category FAQCategory
	Search   string
	Limit    int
}
