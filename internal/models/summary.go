package models

// Totals is the element-wise sum of nutrients across a set of records.
// It is always derived, never stored.
type Totals struct {
	Entries  int     `json:"entries"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Fat      float64 `json:"fat"`
	Carbs    float64 `json:"carbs"`
}

// Add folds one record into the totals. Absent fields count as zero.
func (t Totals) Add(r NutritionRecord) Totals {
	t.Entries++
	t.Calories += Amount(r.Calories)
	t.Protein += Amount(r.Protein)
	t.Fat += Amount(r.Fat)
	t.Carbs += Amount(r.Carbs)
	return t
}

// Sum folds all records, in order, starting from zero.
func Sum(records []NutritionRecord) Totals {
	var t Totals
	for _, r := range records {
		t = t.Add(r)
	}
	return t
}
