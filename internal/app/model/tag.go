package model

// Tag is reference data attached to recipes through RecipeTag.
type Tag struct {
	ID    uint   `gorm:"primarykey" json:"id"`
	Name  string `gorm:"type:varchar(200);uniqueIndex;not null" json:"name"`
	Color string `gorm:"type:varchar(7);uniqueIndex;not null" json:"color"` // #RRGGBB
	Slug  string `gorm:"type:varchar(200);uniqueIndex;not null" json:"slug"`
}

func (Tag) TableName() string {
	return "tags"
}

// RecipeTag links a recipe to a tag; the composite key forbids duplicates.
type RecipeTag struct {
	RecipeID uint `gorm:"primaryKey;index" json:"recipe_id"`
	TagID    uint `gorm:"primaryKey;index" json:"tag_id"`
	Tag      Tag  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"tag,omitempty"`
}

func (RecipeTag) TableName() string {
	return "recipe_tags"
}
