package models

import (
	"encoding/json"
	"strings"

	"gorm.io/gorm"
)

// Shop is owned by exactly one seller and observed by any number of
// customers.
type Shop struct {
	gorm.Model
	SellerID  uint       `gorm:"uniqueIndex;not null" json:"sellerId"`
	Name      string     `gorm:"size:255;not null" json:"name"`
	Books     []Book     `json:"books"`
	Followers []Customer `gorm:"many2many:shop_followers;" json:"followers"`
}

// Book is published into a shop. Genre is stored comma-joined; the JSON shape
// exposes it as a list.
type Book struct {
	gorm.Model
	ShopID      uint    `gorm:"not null;index" json:"shopId"`
	Abstraction string  `gorm:"size:512;not null" json:"abstraction"`
	Genre       string  `gorm:"size:255" json:"-"`
	Price       float64 `gorm:"not null;default:0" json:"price"`
	ImageURL    string  `gorm:"size:512" json:"imageUrl"`
	FileURL     string  `gorm:"size:512" json:"fileUrl"`
}

// MarshalJSON exposes the stored genre string as a list, matching the shape
// the frontend consumes.
func (b Book) MarshalJSON() ([]byte, error) {
	type alias Book
	return json.Marshal(struct {
		alias
		Genres []string `json:"genre"`
	}{alias(b), b.Genres()})
}

// UnmarshalJSON reads the list shape back into the stored string, so a Book
// survives a cache round-trip.
func (b *Book) UnmarshalJSON(data []byte) error {
	type alias Book
	aux := struct {
		*alias
		Genres []string `json:"genre"`
	}{alias: (*alias)(b)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	b.Genre = JoinGenres(aux.Genres)
	return nil
}

// Genres splits the stored genre string.
func (b Book) Genres() []string {
	if b.Genre == "" {
		return nil
	}
	parts := strings.Split(b.Genre, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// JoinGenres is the inverse of Genres, used when persisting client input.
func JoinGenres(genres []string) string {
	return strings.Join(genres, ",")
}
