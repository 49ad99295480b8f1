package types

// Macros holds macronutrient amounts in grams. Macros are additive.
type Macros struct {
	Protein float64 `json:"protein"`
	Carbs   float64 `json:"carbs"`
	Fat     float64 `json:"fat"`
}

// Add returns the component-wise sum of m and o.
func (m Macros) Add(o Macros) Macros {
	return Macros{
		Protein: m.Protein + o.Protein,
		Carbs:   m.Carbs + o.Carbs,
		Fat:     m.Fat + o.Fat,
	}
}

// Scale returns m with every component multiplied by f.
func (m Macros) Scale(f float64) Macros {
	return Macros{
		Protein: m.Protein * f,
		Carbs:   m.Carbs * f,
		Fat:     m.Fat * f,
	}
}

// NonNegative reports whether every component is >= 0.
func (m Macros) NonNegative() bool {
	return m.Protein >= 0 && m.Carbs >= 0 && m.Fat >= 0
}

// SumMacros returns the total macros of the given dishes.
func SumMacros(dishes []Dish) Macros {
	var total Macros
	for _, d := range dishes {
		total = total.Add(d.Macros())
	}
	return total
}
