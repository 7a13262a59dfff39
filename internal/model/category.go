package model

type Category struct {
	BaseModel
	Name        string `gorm:"type:varchar(100);uniqueIndex;not null" json:"name" validate:"required,max=100"`
	Description string `gorm:"type:varchar(500)" json:"description" validate:"max=500"`
	Active      bool   `gorm:"default:true" json:"active"`

	Products []Product `json:"products,omitempty"`
}

// DefaultCategories seeds the catalog of a fresh install.
var DefaultCategories = []Category{
	{Name: "Dolls & Accessories", Description: "Dolls, doll houses and related accessories", Active: true},
	{Name: "Vehicles & Tracks", Description: "Cars, bikes, planes, trains and race tracks", Active: true},
	{Name: "Action Figures", Description: "Superheroes and characters from movies and animated series", Active: true},
	{Name: "Board Games", Description: "Educational, strategy and family games", Active: true},
	{Name: "Plush Toys", Description: "Stuffed animals and soft characters", Active: true},
	{Name: "Building Blocks", Description: "Construction sets and stackable blocks", Active: true},
	{Name: "Educational Toys", Description: "Toys for cognitive development and learning", Active: true},
	{Name: "Sports & Outdoor", Description: "Balls, bikes, skates and outdoor games", Active: true},
	{Name: "Electronic Toys", Description: "Kids tablets, robots and tech toys", Active: true},
	{Name: "Costumes & Role Play", Description: "Character costumes and role play accessories", Active: true},
}
