package models

import "time"

type CategoryLevel string

const (
	CategoryLevelProduct CategoryLevel = "product"
	CategoryLevelItem    CategoryLevel = "item"
	CategoryLevelSub     CategoryLevel = "sub"
)

// ParentLevel returns the level a category of this level must hang under.
// Product categories are roots.
func (l CategoryLevel) ParentLevel() (CategoryLevel, bool) {
	switch l {
	case CategoryLevelItem:
		return CategoryLevelProduct, true
	case CategoryLevelSub:
		return CategoryLevelItem, true
	}
	return "", false
}

func (l CategoryLevel) Valid() bool {
	return l == CategoryLevelProduct || l == CategoryLevelItem || l == CategoryLevelSub
}

// Category: product -> item -> sub hierarchy, one table
type Category struct {
	ID        uint          `gorm:"primaryKey" json:"id"`
	CompanyID string        `gorm:"size:6;index:idx_category_scope;not null" json:"companyId"`
	Level     CategoryLevel `gorm:"size:10;index:idx_category_scope;not null" json:"level"`
	ParentID  *uint         `gorm:"index" json:"parentId"`
	Name      string        `gorm:"size:150;not null" json:"name"`
	IsActive  bool          `gorm:"not null;default:true" json:"isActive"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}
