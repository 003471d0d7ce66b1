package catalog

import (
	"github.com/cuckooquote/quote-management/internal"
)

const (
	CustomerIndividual = "individual"
	CustomerFamily     = "family"
	CustomerBusiness   = "business"
)

type CalculatePriceDTO struct {
	CategoryID     string `json:"categoryId"`
	ModelID        string `json:"modelId"`
	Quantity       int    `json:"quantity"`
	ContractPeriod int    `json:"contractPeriod"`
}

func (d *CalculatePriceDTO) Validate() error {
	if d.CategoryID == "" {
		return internal.NewValidationError("categoryId is required")
	}
	if d.ModelID == "" {
		return internal.NewValidationError("modelId is required")
	}
	if d.Quantity == 0 {
		d.Quantity = 1
	}
	if d.Quantity < 1 || d.Quantity > 10 {
		return internal.NewValidationError("quantity must be between 1 and 10")
	}
	if d.ContractPeriod == 0 {
		d.ContractPeriod = 24
	}
	if d.ContractPeriod < 12 || d.ContractPeriod > 60 {
		return internal.NewValidationError("contractPeriod must be between 12 and 60 months")
	}
	return nil
}

type RecommendationDTO struct {
	CustomerType string   `json:"customerType"`
	Budget       int64    `json:"budget"`
	Preferences  []string `json:"preferences"`
}

func (d *RecommendationDTO) Validate() error {
	switch d.CustomerType {
	case CustomerIndividual, CustomerFamily, CustomerBusiness:
	default:
		return internal.NewValidationError("customerType must be one of individual, family, business")
	}
	if d.Budget != 0 && (d.Budget < 20000 || d.Budget > 200000) {
		return internal.NewValidationError("budget must be between 20000 and 200000")
	}
	return nil
}

type ComparePairDTO struct {
	CategoryID string `json:"categoryId"`
	ModelID    string `json:"modelId"`
}

type CompareDTO struct {
	Products []ComparePairDTO `json:"products"`
}

func (d *CompareDTO) Validate() error {
	if len(d.Products) < 2 || len(d.Products) > 4 {
		return internal.NewValidationError("between 2 and 4 products are required")
	}
	for _, p := range d.Products {
		if p.CategoryID == "" || p.ModelID == "" {
			return internal.NewValidationError("categoryId and modelId are required for every product")
		}
	}
	return nil
}

// CategorySummary is the list-endpoint projection of a category.
type CategorySummary struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	ModelCount int    `json:"modelCount"`
}

type SearchResult struct {
	CategoryID   string `json:"categoryId"`
	CategoryName string `json:"categoryName"`
	ModelID      string `json:"modelId"`
	ModelName    string `json:"modelName"`
	BasePrice    int64  `json:"basePrice"`
}

type ProductRef struct {
	CategoryID   string `json:"categoryId"`
	CategoryName string `json:"categoryName"`
	ModelID      string `json:"modelId"`
	ModelName    string `json:"modelName"`
	BasePrice    int64  `json:"basePrice"`
}

type PriceCalculation struct {
	Product     ProductRef `json:"product"`
	Calculation struct {
		Quantity        int   `json:"quantity"`
		ContractPeriod  int   `json:"contractPeriod"`
		DiscountRate    int   `json:"discountRate"`
		DiscountedPrice int64 `json:"discountedPrice"`
		TotalPrice      int64 `json:"totalPrice"`
	} `json:"calculation"`
	Breakdown struct {
		OriginalTotal  int64 `json:"originalTotal"`
		DiscountAmount int64 `json:"discountAmount"`
		FinalTotal     int64 `json:"finalTotal"`
	} `json:"breakdown"`
}

type Recommendation struct {
	CategoryID   string `json:"categoryId"`
	ModelID      string `json:"modelId"`
	Reason       string `json:"reason"`
	Priority     int    `json:"priority"`
	CategoryName string `json:"categoryName"`
	ModelName    string `json:"modelName"`
	BasePrice    int64  `json:"basePrice"`
}

type RecommendationResponse struct {
	CustomerType    string           `json:"customerType"`
	Budget          int64            `json:"budget,omitempty"`
	Preferences     []string         `json:"preferences,omitempty"`
	Recommendations []Recommendation `json:"recommendations"`
}

type ComparedProduct struct {
	CategoryID   string   `json:"categoryId"`
	CategoryName string   `json:"categoryName"`
	ModelID      string   `json:"modelId"`
	ModelName    string   `json:"modelName"`
	BasePrice    int64    `json:"basePrice"`
	Features     []string `json:"features"`
}

type ComparisonResponse struct {
	Comparison []ComparedProduct `json:"comparison"`
	Summary    struct {
		PriceRange struct {
			Min int64 `json:"min"`
			Max int64 `json:"max"`
		} `json:"priceRange"`
		Categories []string `json:"categories"`
	} `json:"summary"`
}
