package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Country is a persisted country record. Name is the natural key used by sync;
// ID and UUID are assigned once at creation and never change afterwards.
type Country struct {
	ID          uint      `gorm:"column:id;primaryKey" json:"id"`
	UUID        string    `gorm:"column:uuid;type:varchar(36);uniqueIndex;not null" json:"uuid"`
	Name        string    `gorm:"column:name;size:255;index;not null" json:"name"`
	Region      *string   `gorm:"column:region;size:255" json:"region"`
	SubRegion   *string   `gorm:"column:sub_region;size:255" json:"subRegion"`
	Demonym     *string   `gorm:"column:demonym;size:255" json:"demonym"`
	Population  *int64    `gorm:"column:population" json:"population"`
	Independent *bool     `gorm:"column:independant" json:"independant"` // spelling kept from the public API
	Flag        *string   `gorm:"column:flag;size:255" json:"flag"`
	CurrencyID  *uint     `gorm:"column:currency_id;index" json:"-"`
	Currency    *Currency `gorm:"foreignKey:CurrencyID" json:"currency"`
}

// TableName overrides the table name.
func (Country) TableName() string {
	return "country"
}

// BeforeCreate assigns the public identifier of a new country.
func (c *Country) BeforeCreate(tx *gorm.DB) error {
	if c.UUID == "" {
		c.UUID = uuid.NewString()
	}
	return nil
}

// Currency is a persisted currency, keyed by its ISO 4217 code.
// Currencies are shared by countries and are never deleted by sync.
type Currency struct {
	ID     uint   `gorm:"column:id;primaryKey" json:"-"`
	Name   string `gorm:"column:name;size:255;not null" json:"name"`
	Symbol string `gorm:"column:symbol;size:10;uniqueIndex;not null" json:"symbol"`
}

// TableName overrides the table name.
func (Currency) TableName() string {
	return "currency"
}

// CountryColumns lists the columns the country table must provide.
var CountryColumns = []string{
	"id", "uuid", "name", "region", "sub_region", "demonym",
	"population", "independant", "flag", "currency_id",
}

// CurrencyColumns lists the columns the currency table must provide.
var CurrencyColumns = []string{"id", "name", "symbol"}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string { return &s }

// Int64Ptr returns a pointer to n.
func Int64Ptr(n int64) *int64 { return &n }

// BoolPtr returns a pointer to b.
func BoolPtr(b bool) *bool { return &b }
