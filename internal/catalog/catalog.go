// Package catalog lists the built-in statistic categories and their defaults.
package catalog

import "github.com/verte-zerg/shomar/internal/model"

// Category describes one statistic and where it lives in the statistics
// document.
type Category struct {
	ID        string
	Title     string
	TitleFa   string
	StatPath  []string
	DetailKey string
	Defaults  model.Rates
	// Comparable categories carry series for other jurisdictions.
	Comparable bool
}

// Jurisdictions is the fixed set of comparison series, in display order.
var Jurisdictions = []string{"Turkey", "US", "EU", "Germany"}

var jurisdictionNamesFa = map[string]string{
	"Turkey":  "ترکیه",
	"US":      "آمریکا",
	"EU":      "اتحادیه اروپا",
	"Germany": "آلمان",
}

// JurisdictionNameFa returns the Persian display name, falling back to the key.
func JurisdictionNameFa(key string) string {
	if name, ok := jurisdictionNamesFa[key]; ok {
		return name
	}
	return key
}

var categories = []Category{
	{
		ID:         "traffic-deaths",
		Title:      "Traffic accident deaths",
		TitleFa:    "مرگ در تصادفات رانندگی",
		StatPath:   []string{"traffic_accidents_deaths", "deaths"},
		DetailKey:  "traffic_accidents_deaths",
		Defaults:   model.Rates{Daily: 60, Monthly: 1800, Yearly: 21900},
		Comparable: true,
	},
	{
		ID:        "education-dropouts",
		Title:     "School dropouts",
		TitleFa:   "ترک تحصیل",
		StatPath:  []string{"education", "dropouts"},
		DetailKey: "education_dropouts",
		Defaults:  model.Rates{Daily: 450, Monthly: 13500, Yearly: 164250},
	},
	{
		ID:         "pollution-deaths",
		Title:      "Air pollution deaths",
		TitleFa:    "مرگ ناشی از آلودگی هوا",
		StatPath:   []string{"air_pollution", "deaths"},
		DetailKey:  "air_pollution_deaths",
		Defaults:   model.Rates{Daily: 85, Monthly: 2550, Yearly: 31025},
		Comparable: true,
	},
	{
		ID:         "workers-deaths",
		Title:      "Workplace deaths",
		TitleFa:    "مرگ کارگران",
		StatPath:   []string{"workers", "deaths"},
		DetailKey:  "workers_deaths",
		Defaults:   model.Rates{Daily: 5, Monthly: 166, Yearly: 1986},
		Comparable: true,
	},
	{
		ID:        "unemployment-claims",
		Title:     "Unemployment claims",
		TitleFa:   "درخواست بیمه بیکاری",
		StatPath:  []string{"employment", "unemployment_claims"},
		DetailKey: "unemployment_claims",
		Defaults:  model.Rates{Daily: 1200, Monthly: 36000, Yearly: 438000},
	},
	{
		ID:        "new-births",
		Title:     "Births",
		TitleFa:   "تولد",
		StatPath:  []string{"demographics", "births"},
		DetailKey: "births",
		Defaults:  model.Rates{Daily: 3500, Monthly: 105000, Yearly: 1277500},
	},
	{
		ID:        "violence-against-women",
		Title:     "Femicides",
		TitleFa:   "قتل زنان",
		StatPath:  []string{"social", "violence_against_women_deaths"},
		DetailKey: "violence_against_women_deaths",
		Defaults:  model.Rates{Daily: 0.5, Monthly: 15, Yearly: 180},
	},
	{
		ID:        "soil-erosion",
		Title:     "Soil erosion",
		TitleFa:   "فرسایش خاک",
		StatPath:  []string{"environment", "soil_erosion"},
		DetailKey: "soil_erosion",
		Defaults:  model.Rates{Daily: 42.2, Monthly: 1283, Yearly: 15400},
	},
	{
		ID:        "death-penalty",
		Title:     "Executions",
		TitleFa:   "اعدام",
		StatPath:  []string{"death_penalty"},
		DetailKey: "death_penalty",
		Defaults:  model.Rates{Daily: 0.1, Monthly: 3, Yearly: 36},
	},
}

// All returns the built-in categories in display order.
func All() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// Lookup finds a category by id.
func Lookup(id string) (Category, bool) {
	for _, c := range categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

// IDs returns the category ids in display order.
func IDs() []string {
	ids := make([]string, len(categories))
	for i, c := range categories {
		ids[i] = c.ID
	}
	return ids
}

// DefaultStatistics builds the statistics table seeded with default rates.
func DefaultStatistics() []model.Statistic {
	out := make([]model.Statistic, len(categories))
	for i, c := range categories {
		out[i] = model.Statistic{
			ID:      c.ID,
			Daily:   c.Defaults.Daily,
			Monthly: c.Defaults.Monthly,
			Yearly:  c.Defaults.Yearly,
		}
	}
	return out
}
