package domain

import "time"

// Comment is an append-only remark on a shared recipe.
type Comment struct {
	ID        string    `json:"id"        bson:"id"`
	Username  string    `json:"username"  bson:"username"`
	Text      string    `json:"text"      bson:"text"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// SharedRecipe is a recipe posted to the community feed. AnimalsSaved is a
// snapshot of whatever the author's client sent along and is stored verbatim.
type SharedRecipe struct {
	ID           string         `json:"id"           bson:"_id"`
	Username     string         `json:"username"     bson:"username"`
	RecipeName   string         `json:"recipeName"   bson:"recipeName"`
	RecipeText   string         `json:"recipeText"   bson:"recipeText"`
	Description  string         `json:"description"  bson:"description"`
	AnimalsSaved map[string]any `json:"animalsSaved" bson:"animalsSaved"`
	SharedAt     time.Time      `json:"sharedAt"     bson:"sharedAt"`
	Likes        int            `json:"likes"        bson:"likes"`
	Comments     []Comment      `json:"comments"     bson:"comments"`
}

// Clone copies the comment list and the top level of AnimalsSaved.
func (r *SharedRecipe) Clone() *SharedRecipe {
	c := *r
	if r.AnimalsSaved != nil {
		c.AnimalsSaved = make(map[string]any, len(r.AnimalsSaved))
		for k, v := range r.AnimalsSaved {
			c.AnimalsSaved[k] = v
		}
	}
	if r.Comments != nil {
		c.Comments = append([]Comment{}, r.Comments...)
	}
	return &c
}
