package domain

const (
	// OtherCategory labels products stored without a category.
	OtherCategory = "Other"
	// DefaultCategory is preselected when an admin creates a product.
	DefaultCategory = "Tablet"
)

// KnownCategories lists the dosage forms offered in the admin form, in
// form order.
var KnownCategories = []string{"Tablet", "Capsule", "Syrup", "Injection", "Ointment", "Powder", "Oil", "Dry Syrup"}

// IsKnownCategory reports whether c is one of KnownCategories.
func IsKnownCategory(c string) bool {
	for _, k := range KnownCategories {
		if k == c {
			return true
		}
	}
	return false
}
