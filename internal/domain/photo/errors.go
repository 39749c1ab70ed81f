package photo

import "errors"

var (
	ErrPhotoNotFound    = errors.New("photo not found")
	ErrRecipeNotFound   = errors.New("recipe not found")
	ErrPhotoNotInRecipe = errors.New("photo does not belong to this recipe")
)
