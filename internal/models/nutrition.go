package models

// NutritionRecord is one estimated food entry as returned by the inference
// endpoint. Numeric fields are nil when the reply omitted them.
type NutritionRecord struct {
	Name     string   `json:"name" mapstructure:"name"`
	Calories *float64 `json:"calories,omitempty" mapstructure:"calories"`
	Protein  *float64 `json:"protein,omitempty" mapstructure:"protein"`
	Fat      *float64 `json:"fat,omitempty" mapstructure:"fat"`
	Carbs    *float64 `json:"carbs,omitempty" mapstructure:"carbs"`
}

// Amount returns the value of a possibly-absent nutrient, with absent read as zero.
func Amount(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// Float returns a pointer to v. Handy for building records in code and tests.
func Float(v float64) *float64 {
	return &v
}
