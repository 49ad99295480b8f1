package types

// SampleDishes returns the starter catalog seeded for new installations.
func SampleDishes() []Dish {
	return []Dish{
		{ID: "d1", Name: "Grilled Chicken Breast Salad", Restaurant: "Healthy Eats", Price: 12.5, Protein: 40, Carbs: 10, Fat: 15, Rating: 9, Category: CategoryVegetable},
		{ID: "d2", Name: "Brown Rice", Restaurant: "Healthy Eats", Price: 3, Protein: 5, Carbs: 45, Fat: 2, Rating: 8, Category: CategoryStaple},
		{ID: "d3", Name: "Spicy Beef Noodles", Restaurant: "Noodle House", Price: 15, Protein: 30, Carbs: 60, Fat: 20, Rating: 8, Category: CategoryStaple},
		{ID: "d4", Name: "Steamed Fish with Ginger", Restaurant: "Seafood Palace", Price: 22, Protein: 45, Carbs: 5, Fat: 18, Rating: 10, Category: CategoryProtein},
		{ID: "d5", Name: "Stir-fried Broccoli", Restaurant: "Seafood Palace", Price: 8, Protein: 4, Carbs: 12, Fat: 5, Rating: 6, Category: CategoryVegetable},
		{ID: "d6", Name: "Avocado Toast", Restaurant: "Cafe Brunch", Price: 10, Protein: 10, Carbs: 30, Fat: 15, Rating: 7, Category: CategoryStaple},
		{ID: "d7", Name: "Lentil Soup", Restaurant: "Cafe Brunch", Price: 7, Protein: 15, Carbs: 35, Fat: 4, Rating: 7, Category: CategorySoup},
		{ID: "d8", Name: "Quinoa Bowl with Veggies", Restaurant: "Healthy Eats", Price: 14, Protein: 18, Carbs: 55, Fat: 12, Rating: 9, Category: CategoryStaple},
	}
}

// SampleUsers returns the starter profiles seeded for new installations.
func SampleUsers() []UserProfile {
	return []UserProfile{
		{ID: "u1", Name: "Alex", WeightKg: 75, DietGoal: GoalMuscleGain, Preferences: "Loves spicy food, enjoys chicken and beef.", Budget: 40},
		{ID: "u2", Name: "Brenda", WeightKg: 60, DietGoal: GoalFatLoss, Preferences: "Vegetarian, avoids greasy food, dislikes cilantro.", Budget: 30},
		{ID: "u3", Name: "Charlie", WeightKg: 80, DietGoal: GoalMaintenance, Preferences: "Eats anything but dislikes very spicy food. Prefers fish over red meat.", Budget: 50},
	}
}
