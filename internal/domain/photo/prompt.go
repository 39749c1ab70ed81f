package photo

import (
	"strings"

	"github.com/MarvinNotRobot/aichef/internal/domain/recipe"
)

// cookingMethods maps instruction verbs to their past-tense form for the
// prompt. Ordered so extraction is deterministic.
var cookingMethods = []struct {
	keyword   string
	pastTense string
}{
	{"grill", "grilled"},
	{"bake", "baked"},
	{"roast", "roasted"},
	{"fry", "fried"},
	{"sauté", "sautéed"},
	{"steam", "steamed"},
	{"boil", "boiled"},
	{"broil", "broiled"},
	{"sear", "seared"},
	{"smoke", "smoked"},
	{"braise", "braised"},
	{"poach", "poached"},
	{"simmer", "simmered"},
}

const fallbackPromptSuffix = " dish, food photography style"

// EnhancePrompt derives an image-generation prompt from the recipe name, its
// top cost-weighted ingredients, and cooking verbs detected in the
// instructions.
func EnhancePrompt(recipeName string, ingredients []recipe.Ingredient, instructions []string) string {
	name := strings.TrimSpace(recipeName)
	if name == "" {
		return "A professional, appetizing photo of food" + fallbackPromptSuffix
	}

	// Ingredients arrive ordered by cost share; emphasize the top three.
	var names []string
	for _, ing := range ingredients {
		if trimmed := strings.TrimSpace(ing.Name); trimmed != "" {
			names = append(names, trimmed)
		}
		if len(names) == 3 {
			break
		}
	}

	parts := []string{"A professional, appetizing photo of " + name}
	if len(names) > 0 {
		parts = append(parts, "featuring "+strings.Join(names, ", "))
	}
	if methods := extractCookingMethods(instructions); methods != "" {
		parts = append(parts, methods)
	}
	parts = append(parts,
		"styled as a high-end restaurant presentation",
		"shot from a 45-degree angle with soft natural lighting",
		"shallow depth of field",
		"on a clean modern white plate with elegant plating",
		"garnished appropriately",
		"vibrant colors",
		"food photography style",
		"high resolution",
		"4k",
		"detailed",
		"professional lighting",
	)

	return strings.Join(parts, ", ")
}

// extractCookingMethods returns up to the two most prominent preparation
// verbs found in the instructions, phrased for the prompt.
func extractCookingMethods(instructions []string) string {
	if len(instructions) == 0 {
		return ""
	}

	text := strings.ToLower(strings.Join(instructions, " "))

	var found []string
	for _, m := range cookingMethods {
		if strings.Contains(text, m.keyword) {
			found = append(found, m.pastTense)
		}
		if len(found) == 2 {
			break
		}
	}

	switch len(found) {
	case 0:
		return ""
	case 1:
		return found[0] + " to perfection"
	default:
		return strings.Join(found, " and ") + " to perfection"
	}
}
