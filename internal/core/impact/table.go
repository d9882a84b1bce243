package impact

// animalProduct is one direct-detection keyword and the estimated number of
// animals per year spared by leaving it out.
type animalProduct struct {
	keyword string
	animal  string
	count   float64
}

// animalProducts is scanned in order; the order also fixes the order of
// findings and of categories in the generated comment.
var animalProducts = []animalProduct{
	// dairy, as a fraction of a cow's life per year
	{"milk", "cow", 0.1},
	{"butter", "cow", 0.05},
	{"cheese", "cow", 0.15},
	{"cream", "cow", 0.05},
	{"yogurt", "cow", 0.05},
	{"whey", "cow", 0.02},

	// eggs, by laying frequency
	{"egg", "chicken", 0.07},
	{"eggs", "chicken", 0.07},

	// meat, assuming regular consumption
	{"chicken", "chicken", 1},
	{"beef", "cow", 0.5},
	{"pork", "pig", 0.5},
	{"fish", "fish", 12},
	{"shrimp", "shrimp", 50},
	{"anchovy", "fish", 20},
	{"meat", "various", 0.5},
	{"bacon", "pig", 0.2},

	{"honey", "bee colony", 0.1},
	{"gelatin", "various", 0.1},
	{"lard", "pig", 0.1},
}

var (
	proteinSubstitutes = []string{
		"tofu", "seitan", "tempeh", "plant-based", "meat alternative", "vegan meat",
		"vegan chicken", "vegan beef", "vegan fish", "plant-based meat", "plant-based minced meat",
	}
	dairySubstitutes = []string{
		"plant milk", "almond milk", "soy milk", "oat milk", "vegan cheese", "nutritional yeast", "plant-based cream",
	}
	eggSubstitutes = []string{
		"flax egg", "chia egg", "just egg", "vegan egg", "egg replacer",
	}
)

// dishContext ties a set of dish keywords to the animal a substitute replaces.
type dishContext struct {
	terms      []string
	ingredient string
	animal     string
	impact     float64
}

var (
	proteinDishes = []dishContext{
		{[]string{"chicken", "poultry", "wings", "nugget", "drumstick"}, "chicken alternative", "chicken", 1.0},
		{[]string{"beef", "steak", "burger", "meatball"}, "beef alternative", "cow", 0.5},
		{[]string{"fish", "seafood", "tuna", "salmon", "fillet"}, "fish alternative", "fish", 12.0},
		{[]string{"pork", "ham", "bacon"}, "pork alternative", "pig", 0.5},
	}
	dairyDish   = dishContext{[]string{"cream", "cheese", "milk", "butter", "dairy"}, "dairy alternative", "cow", 0.25}
	eggDish     = dishContext{[]string{"egg", "omelette", "quiche", "frittata"}, "egg alternative", "chicken", 0.2}
	genericMeat = dishContext{nil, "meat alternative", "chicken", 0.5}
)
