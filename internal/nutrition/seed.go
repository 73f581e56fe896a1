package nutrition

// BaseFoods make up a new catalog.
var BaseFoods = []Food{
	{Name: "Chicken breast", Kcal100: 165, Protein100: 31, Carb100: 0, Fat100: 3.6},
	{Name: "Cooked white rice", Kcal100: 130, Protein100: 2.7, Carb100: 28, Fat100: 0.3},
	{Name: "Oats", Kcal100: 389, Protein100: 16.9, Carb100: 66.3, Fat100: 6.9},
	{Name: "Egg (whole)", Kcal100: 155, Protein100: 13, Carb100: 1.1, Fat100: 11},
	{Name: "Whole milk", Kcal100: 61, Protein100: 3.2, Carb100: 4.8, Fat100: 3.3},
	{Name: "White bread", Kcal100: 265, Protein100: 9, Carb100: 49, Fat100: 3.2},
	{Name: "Cooked pasta", Kcal100: 157, Protein100: 5.8, Carb100: 30.9, Fat100: 0.9},
	{Name: "Olive oil", Kcal100: 884, Protein100: 0, Carb100: 0, Fat100: 100},
	{Name: "Apple", Kcal100: 52, Protein100: 0.3, Carb100: 14, Fat100: 0.2},
	{Name: "Banana", Kcal100: 89, Protein100: 1.1, Carb100: 23, Fat100: 0.3},
	{Name: "Plain yogurt", Kcal100: 61, Protein100: 3.5, Carb100: 4.7, Fat100: 3.3},
}

// ExtraFoods are added to every catalog that does not have them yet, also to existing ones.
var ExtraFoods = []Food{
	{Name: "Greek yogurt (nonfat)", Kcal100: 59, Protein100: 10, Carb100: 3.6, Fat100: 0.4},
	{Name: "Cooked sweet potato", Kcal100: 90, Protein100: 2, Carb100: 21, Fat100: 0.1},
	{Name: "Salmon", Kcal100: 208, Protein100: 20, Carb100: 0, Fat100: 13},
	{Name: "Canned tuna (in water)", Kcal100: 132, Protein100: 29, Carb100: 0, Fat100: 1},
	{Name: "Cooked lentils", Kcal100: 116, Protein100: 9, Carb100: 20, Fat100: 0.4},
	{Name: "Cooked chickpeas", Kcal100: 164, Protein100: 8.9, Carb100: 27.4, Fat100: 2.6},
	{Name: "Peanut butter", Kcal100: 588, Protein100: 25, Carb100: 20, Fat100: 50},
	{Name: "Whey protein", Kcal100: 370, Protein100: 90, Carb100: 5, Fat100: 2},
	{Name: "Broccoli", Kcal100: 34, Protein100: 2.8, Carb100: 7, Fat100: 0.4},
	{Name: "Spinach", Kcal100: 23, Protein100: 2.9, Carb100: 3.6, Fat100: 0.4},
	{Name: "Cooked quinoa", Kcal100: 120, Protein100: 4.4, Carb100: 21.3, Fat100: 1.9},
	{Name: "Cottage cheese 2%", Kcal100: 82, Protein100: 11, Carb100: 3.4, Fat100: 2.3},
	{Name: "Almonds", Kcal100: 579, Protein100: 21, Carb100: 22, Fat100: 50},
	{Name: "Cooked brown rice", Kcal100: 111, Protein100: 2.6, Carb100: 23, Fat100: 0.9},
	{Name: "Avocado", Kcal100: 160, Protein100: 2, Carb100: 9, Fat100: 15},
}
