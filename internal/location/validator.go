package location

import "strings"

// Validator answers whether a city value is one the application recognizes.
type Validator interface {
	IsValid(city string) bool
}

// StaticValidator keeps the recognized city set in memory. The set is fixed
// at construction; lookups are case-insensitive.
type StaticValidator struct {
	cities map[string]struct{}
}

func NewStaticValidator(cities []string) *StaticValidator {
	set := make(map[string]struct{}, len(cities))
	for _, c := range cities {
		set[normalize(c)] = struct{}{}
	}
	return &StaticValidator{cities: set}
}

func (v *StaticValidator) IsValid(city string) bool {
	_, ok := v.cities[normalize(city)]
	return ok
}

func normalize(city string) string {
	return strings.ToLower(strings.TrimSpace(city))
}

// DefaultCities is the seed set used when no external list is wired in.
func DefaultCities() []string {
	return []string{
		"beijing", "shanghai", "guangzhou", "shenzhen", "chengdu",
		"hangzhou", "wuhan", "xian", "nanjing", "chongqing",
		"tianjin", "suzhou", "qingdao", "dalian", "xiamen",
		"changsha", "harbin", "kunming", "shenyang", "fuzhou",
	}
}
