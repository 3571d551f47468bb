// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// Recipe difficulty levels accepted by payload validation.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// Recipe is the payload document stored in Record.Payload. The sync engine
// never interprets it beyond validation.
type Recipe struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	MainDish    string `json:"main_dish,omitempty"`
	SideDish    string `json:"side_dish,omitempty"`

	// Times are in minutes.
	TotalTime int `json:"total_time,omitempty"`
	PrepTime  int `json:"prep_time,omitempty"`
	CookTime  int `json:"cook_time,omitempty"`

	Servings   int    `json:"servings,omitempty"`
	Difficulty string `json:"difficulty,omitempty"`

	IngredientsUsed []RecipeIngredient `json:"ingredients_used,omitempty"`
	Instructions    []string           `json:"instructions,omitempty"`
	Nutrition       *Nutrition         `json:"nutrition,omitempty"`

	Tips         string   `json:"tips,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	ShareCaption string   `json:"share_caption,omitempty"`
}

// RecipeIngredient is an ingredient line of a recipe.
type RecipeIngredient struct {
	Name   string `json:"name"`
	Amount string `json:"amount,omitempty"`
}

// Nutrition holds per-serving nutrition facts.
type Nutrition struct {
	Calories int `json:"calories,omitempty"`
	Protein  int `json:"protein,omitempty"`
	Carbs    int `json:"carbs,omitempty"`
	Fat      int `json:"fat,omitempty"`
}
