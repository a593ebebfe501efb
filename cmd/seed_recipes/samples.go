package main

import (
	"github.com/pageza/recipe-share/backend/internal/model"
)

const sampleAvatar = "https://placehold.co/100x100.png"

var sampleProfiles = []model.Profile{
	{ID: "user-1", Username: "ChefAnna", AvatarURL: sampleAvatar},
	{ID: "user-2", Username: "GourmetGary", AvatarURL: sampleAvatar},
}

type sample struct {
	recipe model.Recipe
	steps  []string
}

var sampleRecipes = []sample{
	{
		recipe: model.Recipe{
			UserID:      "user-1",
			Title:       "Classic Spaghetti Carbonara",
			Description: "A traditional Italian pasta dish from Rome made with egg, hard cheese, cured pork, and black pepper.",
			CuisineType: "Italian",
			Servings:    4,
			ImageHint:   "pasta carbonara",
			Ingredients: model.Ingredients{
				{Name: "Spaghetti", Quantity: 400, Unit: "grams"},
				{Name: "Guanciale (cured pork cheek)", Quantity: 150, Unit: "grams"},
				{Name: "Large egg yolks", Quantity: 4, Unit: "count"},
				{Name: "Pecorino Romano cheese, grated", Quantity: 50, Unit: "grams"},
				{Name: "Black pepper, freshly ground", Quantity: 1, Unit: "tsp"},
			},
		},
		steps: []string{
			"Bring a large pot of salted water to a boil.",
			"Cut the guanciale into small strips. Fry in a pan over medium heat until crisp. Remove from heat.",
			"In a bowl, whisk the egg yolks and Pecorino Romano. Season with a generous amount of black pepper.",
			"Cook the spaghetti until al dente. Reserve a cup of pasta water, then drain the pasta.",
			"Add the drained pasta to the pan with the guanciale. Add a splash of pasta water and toss. Remove from heat and quickly pour in the egg and cheese mixture, stirring vigorously. Serve immediately.",
		},
	},
	{
		recipe: model.Recipe{
			UserID:      "user-2",
			Title:       "Spicy Thai Green Curry",
			Description: "A fragrant and flavorful Thai curry with chicken, coconut milk, and a homemade green curry paste.",
			CuisineType: "Thai",
			Servings:    4,
			ImageHint:   "thai curry",
			Ingredients: model.Ingredients{
				{Name: "Chicken breast, sliced", Quantity: 500, Unit: "grams"},
				{Name: "Coconut milk", Quantity: 400, Unit: "ml"},
				{Name: "Green curry paste", Quantity: 3, Unit: "tbsp"},
				{Name: "Bamboo shoots, sliced", Quantity: 225, Unit: "grams"},
				{Name: "Thai basil leaves", Quantity: 1, Unit: "cup"},
				{Name: "Fish sauce", Quantity: 2, Unit: "tbsp"},
				{Name: "Palm sugar", Quantity: 1, Unit: "tbsp"},
			},
		},
		steps: []string{
			"In a large wok or pot, heat half of the coconut milk over medium heat until the oil separates.",
			"Add the green curry paste and cook for 2 minutes until fragrant.",
			"Add the chicken and cook until no longer pink.",
			"Pour in the remaining coconut milk, fish sauce, and palm sugar. Bring to a simmer.",
			"Add the bamboo shoots and cook for 5-7 minutes. Stir in the Thai basil leaves just before serving.",
		},
	},
	{
		recipe: model.Recipe{
			UserID:      "user-1",
			Title:       "Hearty Lentil Soup",
			Description: "A nutritious and comforting soup made with brown lentils, vegetables, and savory herbs.",
			CuisineType: "Vegetarian",
			Servings:    6,
			ImageHint:   "lentil soup",
			Ingredients: model.Ingredients{
				{Name: "Brown lentils, rinsed", Quantity: 1, Unit: "cup"},
				{Name: "Vegetable broth", Quantity: 6, Unit: "cups"},
				{Name: "Diced onion", Quantity: 1, Unit: "count"},
				{Name: "Carrots, chopped", Quantity: 2, Unit: "count"},
				{Name: "Celery stalks, chopped", Quantity: 2, Unit: "count"},
				{Name: "Canned diced tomatoes", Quantity: 400, Unit: "grams"},
				{Name: "Cumin", Quantity: 1, Unit: "tsp"},
			},
		},
		steps: []string{
			"In a large pot, sauté the onion, carrots, and celery until softened.",
			"Add the vegetable broth, lentils, diced tomatoes, and cumin. Bring to a boil.",
			"Reduce heat, cover, and simmer for 45-50 minutes, or until lentils are tender.",
			"Season with salt and pepper to taste before serving.",
		},
	},
	{
		recipe: model.Recipe{
			UserID:      "user-2",
			Title:       "Chocolate Avocado Mousse",
			Description: "A surprisingly delicious and healthy dessert that uses avocado for a creamy texture.",
			CuisineType: "Dessert",
			Servings:    4,
			ImageHint:   "chocolate mousse",
			Ingredients: model.Ingredients{
				{Name: "Ripe avocados", Quantity: 2, Unit: "count"},
				{Name: "Unsweetened cocoa powder", Quantity: 0.5, Unit: "cup"},
				{Name: "Maple syrup", Quantity: 0.5, Unit: "cup"},
				{Name: "Non-dairy milk", Quantity: 0.25, Unit: "cup"},
				{Name: "Vanilla extract", Quantity: 1, Unit: "tsp"},
			},
		},
		steps: []string{
			"Combine all ingredients in a high-speed blender.",
			"Blend until completely smooth, scraping down the sides as needed.",
			"Divide the mousse into serving dishes and chill for at least 30 minutes before serving.",
		},
	},
}
