package entity

// CategoryAll is the sentinel meaning "no category filter".
const CategoryAll = "All"

// Categories is the fixed scent category enumeration, in display order.
var Categories = []string{
	"Kwiatowe",
	"Drzewne",
	"Świeże",
	"Cytrusowe",
	"Korzenne",
	"Słodkie",
	"Orientalne",
	"Owocowe",
	"Zielone",
	"Wodne",
	"Pudrowe",
	"Skórzane",
	"Gourmand",
	"Aromatyczne",
}

var categorySet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(Categories))
	for _, c := range Categories {
		m[c] = struct{}{}
	}
	return m
}()

func IsValidCategory(category string) bool {
	_, ok := categorySet[category]
	return ok
}
