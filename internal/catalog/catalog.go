package catalog

// Model is one rentable product model within a category.
type Model struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	BasePrice int64    `json:"basePrice"`
	Features  []string `json:"features,omitempty"`
}

// Category groups models of the same product family.
type Category struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Models []Model `json:"models"`
}

// Catalog is the static product catalog together with the per-segment
// recommendation table. It is built once at startup and read-only
// afterwards, so lookups need no locking.
type Catalog struct {
	categories      []Category
	byCategory      map[string]*Category
	models          map[string]map[string]*Model
	recommendations map[string][]Recommendation
}

func New(categories []Category, recommendations map[string][]Recommendation) *Catalog {
	c := &Catalog{
		categories:      categories,
		byCategory:      make(map[string]*Category, len(categories)),
		models:          make(map[string]map[string]*Model, len(categories)),
		recommendations: recommendations,
	}
	for i := range c.categories {
		cat := &c.categories[i]
		c.byCategory[cat.ID] = cat
		byModel := make(map[string]*Model, len(cat.Models))
		for j := range cat.Models {
			byModel[cat.Models[j].ID] = &cat.Models[j]
		}
		c.models[cat.ID] = byModel
	}
	return c
}

func (c *Catalog) Categories() []Category {
	return c.categories
}

func (c *Catalog) Category(id string) (*Category, bool) {
	cat, ok := c.byCategory[id]
	return cat, ok
}

func (c *Catalog) Model(categoryID, modelID string) (*Model, bool) {
	byModel, ok := c.models[categoryID]
	if !ok {
		return nil, false
	}
	m, ok := byModel[modelID]
	return m, ok
}

// RecommendationsFor returns the configured picks for a customer segment.
func (c *Catalog) RecommendationsFor(customerType string) []Recommendation {
	return c.recommendations[customerType]
}

// Default returns the rental product lineup currently offered, with the
// standard per-segment recommendations.
func Default() *Catalog {
	return New([]Category{
		{
			ID:   "water-purifier",
			Name: "정수기",
			Models: []Model{
				{ID: "chp-242r", Name: "CHP-242R", BasePrice: 50000, Features: []string{"대용량", "UV 살균", "스마트 필터 교체 알림"}},
				{ID: "chp-242l", Name: "CHP-242L", BasePrice: 45000, Features: []string{"컴팩트", "절전 모드", "간편한 필터 교체"}},
				{ID: "chp-242n", Name: "CHP-242N", BasePrice: 48000, Features: []string{"사무실용", "고성능 필터", "자동 세척"}},
			},
		},
		{
			ID:   "air-purifier",
			Name: "공기청정기",
			Models: []Model{
				{ID: "ap-1220r", Name: "AP-1220R", BasePrice: 35000, Features: []string{"대용량", "HEPA 필터", "스마트 센서"}},
				{ID: "ap-1220l", Name: "AP-1220L", BasePrice: 32000, Features: []string{"컴팩트", "초음파 가습", "야간 모드"}},
				{ID: "ap-1220n", Name: "AP-1220N", BasePrice: 33000, Features: []string{"사무실용", "정전기 필터", "조용한 운전"}},
			},
		},
		{
			ID:   "rice-cooker",
			Name: "압력밥솥",
			Models: []Model{
				{ID: "crp-htr0609f", Name: "CRP-HTR0609F", BasePrice: 25000, Features: []string{"기본형", "압력 조리", "보온 기능"}},
				{ID: "crp-htr0610f", Name: "CRP-HTR0610F", BasePrice: 28000, Features: []string{"다기능", "스팀 조리", "타이머"}},
				{ID: "crp-htr0611f", Name: "CRP-HTR0611F", BasePrice: 30000, Features: []string{"프리미엄", "IH 가열", "스마트 조리"}},
			},
		},
		{
			ID:   "steamer",
			Name: "스팀오븐",
			Models: []Model{
				{ID: "cs-1001f", Name: "CS-1001F", BasePrice: 40000, Features: []string{"기본형", "스팀 조리", "타이머"}},
				{ID: "cs-1002f", Name: "CS-1002F", BasePrice: 45000, Features: []string{"다기능", "오븐 기능", "디지털 제어"}},
				{ID: "cs-1003f", Name: "CS-1003F", BasePrice: 50000, Features: []string{"프리미엄", "스마트 조리", "WiFi 연결"}},
			},
		},
	}, map[string][]Recommendation{
		CustomerIndividual: {
			{CategoryID: "water-purifier", ModelID: "chp-242l", Reason: "개인 사용자에게 적합한 컴팩트한 정수기", Priority: 1},
			{CategoryID: "air-purifier", ModelID: "ap-1220l", Reason: "개인 공간에 최적화된 공기청정기", Priority: 2},
		},
		CustomerFamily: {
			{CategoryID: "water-purifier", ModelID: "chp-242r", Reason: "가족 사용에 적합한 대용량 정수기", Priority: 1},
			{CategoryID: "rice-cooker", ModelID: "crp-htr0610f", Reason: "가족을 위한 다기능 압력밥솥", Priority: 2},
			{CategoryID: "air-purifier", ModelID: "ap-1220r", Reason: "가족 공간에 적합한 대용량 공기청정기", Priority: 3},
		},
		CustomerBusiness: {
			{CategoryID: "water-purifier", ModelID: "chp-242n", Reason: "사무실 환경에 적합한 정수기", Priority: 1},
			{CategoryID: "steamer", ModelID: "cs-1002f", Reason: "업무용 다기능 스팀오븐", Priority: 2},
		},
	})
}
