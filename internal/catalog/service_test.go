package catalog_test

import (
	"log/slog"
	"os"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/cuckooquote/quote-management/internal"
	"github.com/cuckooquote/quote-management/internal/catalog"
)

func TestCatalogService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Catalog Service Suite")
}

var _ = Describe("CatalogService", func() {
	var service *catalog.Service
	var logger *slog.Logger

	BeforeEach(func() {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
		service = catalog.NewService(catalog.Default(), logger)
	})

	Describe("ListCategories", func() {
		It("summarizes every category with its model count", func() {
			categories := service.ListCategories()
			Expect(categories).To(HaveLen(4))
			Expect(categories[0].ID).To(Equal("water-purifier"))
			Expect(categories[0].ModelCount).To(Equal(3))
		})
	})

	Describe("CategoryModels", func() {
		It("returns the models of a known category", func() {
			cat, err := service.CategoryModels("air-purifier")
			Expect(err).NotTo(HaveOccurred())
			Expect(cat.Models).To(HaveLen(3))
		})

		It("returns not found for an unknown category", func() {
			_, err := service.CategoryModels("dishwasher")
			Expect(err).To(Equal(internal.ErrCategoryNotFound))
		})
	})

	Describe("Search", func() {
		It("matches model names case-insensitively", func() {
			results := service.Search("chp-242", "")
			Expect(results).To(HaveLen(3))
		})

		It("filters by category", func() {
			results := service.Search("", "steamer")
			Expect(results).To(HaveLen(3))
			for _, r := range results {
				Expect(r.CategoryID).To(Equal("steamer"))
			}
		})

		It("returns the full flattened catalog without filters", func() {
			results := service.Search("", "")
			Expect(results).To(HaveLen(12))
		})
	})

	Describe("CalculatePrice", func() {
		It("stacks the longest contract tier with the bulk tier", func() {
			calc, err := service.CalculatePrice(catalog.CalculatePriceDTO{
				CategoryID:     "water-purifier",
				ModelID:        "chp-242r",
				Quantity:       3,
				ContractPeriod: 36,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(calc.Calculation.DiscountRate).To(Equal(20))
			Expect(calc.Calculation.DiscountedPrice).To(Equal(int64(40000)))
			Expect(calc.Calculation.TotalPrice).To(Equal(int64(120000)))
			Expect(calc.Breakdown.OriginalTotal).To(Equal(int64(150000)))
			Expect(calc.Breakdown.DiscountAmount).To(Equal(int64(30000)))
		})

		It("applies no discount below every tier", func() {
			calc, err := service.CalculatePrice(catalog.CalculatePriceDTO{
				CategoryID:     "rice-cooker",
				ModelID:        "crp-htr0609f",
				Quantity:       1,
				ContractPeriod: 12,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(calc.Calculation.DiscountRate).To(BeZero())
			Expect(calc.Calculation.TotalPrice).To(Equal(int64(25000)))
		})

		It("defaults quantity to 1 and contract period to 24 months", func() {
			calc, err := service.CalculatePrice(catalog.CalculatePriceDTO{
				CategoryID: "air-purifier",
				ModelID:    "ap-1220l",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(calc.Calculation.Quantity).To(Equal(1))
			Expect(calc.Calculation.ContractPeriod).To(Equal(24))
			Expect(calc.Calculation.DiscountRate).To(Equal(10))
		})

		It("applies the pair discount tier", func() {
			calc, err := service.CalculatePrice(catalog.CalculatePriceDTO{
				CategoryID:     "air-purifier",
				ModelID:        "ap-1220r",
				Quantity:       2,
				ContractPeriod: 18,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(calc.Calculation.DiscountRate).To(Equal(8))
		})

		It("rejects out-of-range quantities and contract periods", func() {
			_, err := service.CalculatePrice(catalog.CalculatePriceDTO{
				CategoryID: "steamer", ModelID: "cs-1001f", Quantity: 11,
			})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Kind).To(Equal(internal.KindValidation))

			_, err = service.CalculatePrice(catalog.CalculatePriceDTO{
				CategoryID: "steamer", ModelID: "cs-1001f", ContractPeriod: 61,
			})
			appErr, ok = internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Kind).To(Equal(internal.KindValidation))
		})

		It("returns not found for an unknown model", func() {
			_, err := service.CalculatePrice(catalog.CalculatePriceDTO{
				CategoryID: "steamer", ModelID: "cs-9999x",
			})
			Expect(err).To(Equal(internal.ErrModelNotFound))
		})
	})

	Describe("Recommend", func() {
		It("returns the family lineup in priority order", func() {
			resp, err := service.Recommend(catalog.RecommendationDTO{CustomerType: catalog.CustomerFamily})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Recommendations).To(HaveLen(3))
			Expect(resp.Recommendations[0].ModelID).To(Equal("chp-242r"))
			Expect(resp.Recommendations[0].Priority).To(Equal(1))
			Expect(resp.Recommendations[0].BasePrice).To(Equal(int64(50000)))
		})

		It("drops picks above the budget", func() {
			resp, err := service.Recommend(catalog.RecommendationDTO{
				CustomerType: catalog.CustomerFamily,
				Budget:       30000,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Recommendations).To(HaveLen(1))
			Expect(resp.Recommendations[0].CategoryID).To(Equal("rice-cooker"))
		})

		It("honors category preferences", func() {
			resp, err := service.Recommend(catalog.RecommendationDTO{
				CustomerType: catalog.CustomerBusiness,
				Preferences:  []string{"steamer"},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Recommendations).To(HaveLen(1))
			Expect(resp.Recommendations[0].ModelID).To(Equal("cs-1002f"))
		})

		It("reads the recommendation table from the injected catalog", func() {
			custom := catalog.New([]catalog.Category{
				{ID: "steamer", Name: "스팀오븐", Models: []catalog.Model{
					{ID: "cs-1001f", Name: "CS-1001F", BasePrice: 40000},
				}},
			}, map[string][]catalog.Recommendation{
				catalog.CustomerIndividual: {
					{CategoryID: "steamer", ModelID: "cs-1001f", Reason: "소형 주방용", Priority: 1},
				},
			})
			customService := catalog.NewService(custom, logger)

			resp, err := customService.Recommend(catalog.RecommendationDTO{CustomerType: catalog.CustomerIndividual})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Recommendations).To(HaveLen(1))
			Expect(resp.Recommendations[0].ModelID).To(Equal("cs-1001f"))

			resp, err = customService.Recommend(catalog.RecommendationDTO{CustomerType: catalog.CustomerFamily})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Recommendations).To(BeEmpty())
		})

		It("rejects an unknown customer type", func() {
			_, err := service.Recommend(catalog.RecommendationDTO{CustomerType: "enterprise"})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Kind).To(Equal(internal.KindValidation))
		})
	})

	Describe("Compare", func() {
		It("compares resolved products and summarizes the price range", func() {
			resp, err := service.Compare(catalog.CompareDTO{
				Products: []catalog.ComparePairDTO{
					{CategoryID: "water-purifier", ModelID: "chp-242r"},
					{CategoryID: "air-purifier", ModelID: "ap-1220l"},
				},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Comparison).To(HaveLen(2))
			Expect(resp.Comparison[0].Features).To(ContainElement("UV 살균"))
			Expect(resp.Summary.PriceRange.Min).To(Equal(int64(32000)))
			Expect(resp.Summary.PriceRange.Max).To(Equal(int64(50000)))
			Expect(resp.Summary.Categories).To(HaveLen(2))
		})

		It("fails entirely when any product is unknown", func() {
			_, err := service.Compare(catalog.CompareDTO{
				Products: []catalog.ComparePairDTO{
					{CategoryID: "water-purifier", ModelID: "chp-242r"},
					{CategoryID: "water-purifier", ModelID: "missing"},
				},
			})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Kind).To(Equal(internal.KindValidation))
		})

		It("rejects fewer than two or more than four products", func() {
			_, err := service.Compare(catalog.CompareDTO{
				Products: []catalog.ComparePairDTO{{CategoryID: "steamer", ModelID: "cs-1001f"}},
			})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Kind).To(Equal(internal.KindValidation))
		})
	})
})
