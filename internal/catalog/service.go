package catalog

import (
	"log/slog"
	"math"
	"strings"

	"github.com/cuckooquote/quote-management/internal"
)

type ServiceAPI interface {
	ListCategories() []CategorySummary
	CategoryModels(categoryID string) (*Category, error)
	Search(query, categoryID string) []SearchResult
	CalculatePrice(dto CalculatePriceDTO) (*PriceCalculation, error)
	Recommend(dto RecommendationDTO) (*RecommendationResponse, error)
	Compare(dto CompareDTO) (*ComparisonResponse, error)
}

type Service struct {
	catalog *Catalog
	logger  *slog.Logger
}

func NewService(catalog *Catalog, logger *slog.Logger) *Service {
	return &Service{
		catalog: catalog,
		logger:  logger,
	}
}

func (s *Service) ListCategories() []CategorySummary {
	categories := s.catalog.Categories()
	summaries := make([]CategorySummary, 0, len(categories))
	for _, cat := range categories {
		summaries = append(summaries, CategorySummary{
			ID:         cat.ID,
			Name:       cat.Name,
			ModelCount: len(cat.Models),
		})
	}
	return summaries
}

func (s *Service) CategoryModels(categoryID string) (*Category, error) {
	cat, ok := s.catalog.Category(categoryID)
	if !ok {
		return nil, internal.ErrCategoryNotFound
	}
	return cat, nil
}

func (s *Service) Search(query, categoryID string) []SearchResult {
	results := make([]SearchResult, 0)
	needle := strings.ToLower(query)

	for _, cat := range s.catalog.Categories() {
		if categoryID != "" && cat.ID != categoryID {
			continue
		}
		for _, m := range cat.Models {
			if needle != "" &&
				!strings.Contains(strings.ToLower(cat.Name), needle) &&
				!strings.Contains(strings.ToLower(m.Name), needle) {
				continue
			}
			results = append(results, SearchResult{
				CategoryID:   cat.ID,
				CategoryName: cat.Name,
				ModelID:      m.ID,
				ModelName:    m.Name,
				BasePrice:    m.BasePrice,
			})
		}
	}
	return results
}

// CalculatePrice applies the contract-length and quantity discount tiers.
// The two discounts stack; rounding happens once, on the per-unit price.
func (s *Service) CalculatePrice(dto CalculatePriceDTO) (*PriceCalculation, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	cat, ok := s.catalog.Category(dto.CategoryID)
	if !ok {
		return nil, internal.ErrCategoryNotFound
	}
	model, ok := s.catalog.Model(dto.CategoryID, dto.ModelID)
	if !ok {
		return nil, internal.ErrModelNotFound
	}

	var discountRate float64
	switch {
	case dto.ContractPeriod >= 36:
		discountRate = 0.15
	case dto.ContractPeriod >= 24:
		discountRate = 0.10
	case dto.ContractPeriod >= 18:
		discountRate = 0.05
	}
	switch {
	case dto.Quantity >= 3:
		discountRate += 0.05
	case dto.Quantity >= 2:
		discountRate += 0.03
	}

	discountedPrice := int64(math.Round(float64(model.BasePrice) * (1 - discountRate)))
	totalPrice := discountedPrice * int64(dto.Quantity)
	originalTotal := model.BasePrice * int64(dto.Quantity)

	calc := &PriceCalculation{
		Product: ProductRef{
			CategoryID:   cat.ID,
			CategoryName: cat.Name,
			ModelID:      model.ID,
			ModelName:    model.Name,
			BasePrice:    model.BasePrice,
		},
	}
	calc.Calculation.Quantity = dto.Quantity
	calc.Calculation.ContractPeriod = dto.ContractPeriod
	calc.Calculation.DiscountRate = int(math.Round(discountRate * 100))
	calc.Calculation.DiscountedPrice = discountedPrice
	calc.Calculation.TotalPrice = totalPrice
	calc.Breakdown.OriginalTotal = originalTotal
	calc.Breakdown.DiscountAmount = originalTotal - totalPrice
	calc.Breakdown.FinalTotal = totalPrice

	return calc, nil
}

// Recommend returns the segment's product picks from the catalog's
// recommendation table, narrowed by budget and category preferences.
func (s *Service) Recommend(dto RecommendationDTO) (*RecommendationResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	picks := s.catalog.RecommendationsFor(dto.CustomerType)
	recommendations := make([]Recommendation, 0, len(picks))
	for _, pick := range picks {
		cat, ok := s.catalog.Category(pick.CategoryID)
		if !ok {
			continue
		}
		model, ok := s.catalog.Model(pick.CategoryID, pick.ModelID)
		if !ok {
			continue
		}
		if dto.Budget != 0 && model.BasePrice > dto.Budget {
			continue
		}
		if len(dto.Preferences) > 0 && !contains(dto.Preferences, pick.CategoryID) {
			continue
		}

		pick.CategoryName = cat.Name
		pick.ModelName = model.Name
		pick.BasePrice = model.BasePrice
		recommendations = append(recommendations, pick)
	}

	return &RecommendationResponse{
		CustomerType:    dto.CustomerType,
		Budget:          dto.Budget,
		Preferences:     dto.Preferences,
		Recommendations: recommendations,
	}, nil
}

// Compare resolves every requested pair or fails entirely: a response never
// contains a partial comparison.
func (s *Service) Compare(dto CompareDTO) (*ComparisonResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	resp := &ComparisonResponse{
		Comparison: make([]ComparedProduct, 0, len(dto.Products)),
	}
	seen := make(map[string]bool)

	for _, pair := range dto.Products {
		cat, ok := s.catalog.Category(pair.CategoryID)
		if !ok {
			return nil, internal.NewValidationError("some products could not be found")
		}
		model, ok := s.catalog.Model(pair.CategoryID, pair.ModelID)
		if !ok {
			return nil, internal.NewValidationError("some products could not be found")
		}

		features := model.Features
		if features == nil {
			features = []string{}
		}
		resp.Comparison = append(resp.Comparison, ComparedProduct{
			CategoryID:   cat.ID,
			CategoryName: cat.Name,
			ModelID:      model.ID,
			ModelName:    model.Name,
			BasePrice:    model.BasePrice,
			Features:     features,
		})
		if !seen[cat.Name] {
			seen[cat.Name] = true
			resp.Summary.Categories = append(resp.Summary.Categories, cat.Name)
		}
	}

	resp.Summary.PriceRange.Min = resp.Comparison[0].BasePrice
	resp.Summary.PriceRange.Max = resp.Comparison[0].BasePrice
	for _, p := range resp.Comparison[1:] {
		if p.BasePrice < resp.Summary.PriceRange.Min {
			resp.Summary.PriceRange.Min = p.BasePrice
		}
		if p.BasePrice > resp.Summary.PriceRange.Max {
			resp.Summary.PriceRange.Max = p.BasePrice
		}
	}

	return resp, nil
}

func contains(values []string, v string) bool {
	for _, value := range values {
		if value == v {
			return true
		}
	}
	return false
}
