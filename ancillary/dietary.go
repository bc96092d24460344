package ancillary

import "strings"

const (
	TagVegetarian    = "vegetarian"
	TagVegan         = "vegan"
	TagHalal         = "halal"
	TagKosher        = "kosher"
	TagGlutenFree    = "gluten-free"
	TagDairyFree     = "dairy-free"
	TagNutFree       = "nut-free"
	TagNonVegetarian = "non-vegetarian"
)

var nonVegKeywords = []string{"non-veg", "non veg", "nonveg", "chicken", "lamb", "beef", "fish", "mutton", "seafood"}

var dietaryKeywords = []struct {
	tag      string
	keywords []string
}{
	{TagVegan, []string{"vegan"}},
	{TagHalal, []string{"halal", "muslim"}},
	{TagKosher, []string{"kosher"}},
	{TagGlutenFree, []string{"gluten free", "gluten-free", "gluten intolerant"}},
	{TagDairyFree, []string{"dairy free", "dairy-free", "lactose free", "lactose-free"}},
	{TagNutFree, []string{"nut free", "nut-free"}},
}

// DietaryTags scans text for dietary keywords. Several tags may apply.
// Non-vegetarian markers are checked first so "non-vegetarian" is never
// tagged vegetarian.
func DietaryTags(text string) []string {
	lower := strings.ToLower(text)
	tags := []string{}

	nonVeg := containsAny(lower, nonVegKeywords)
	if nonVeg {
		tags = append(tags, TagNonVegetarian)
	} else if containsAny(lower, []string{"vegetarian", "veg "}) || strings.HasSuffix(lower, "veg") {
		tags = append(tags, TagVegetarian)
	}

	for _, d := range dietaryKeywords {
		if containsAny(lower, d.keywords) {
			tags = append(tags, d.tag)
		}
	}
	return tags
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
