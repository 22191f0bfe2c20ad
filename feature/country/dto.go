package country

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"country-registry/core/apperrors"
	"country-registry/feature/country/models"

	"github.com/go-playground/validator/v10"
)

// CurrencyRequest references a currency by symbol in a create or update.
type CurrencyRequest struct {
	Name   string `json:"name" validate:"required,max=255"`
	Symbol string `json:"symbol" validate:"required,max=10"`
}

// CreateCountryRequest is the body of POST /countries.
type CreateCountryRequest struct {
	Name        string           `json:"name" validate:"required,max=255"`
	Region      string           `json:"region" validate:"required,max=255"`
	SubRegion   string           `json:"subRegion" validate:"required,max=255"`
	Demonym     string           `json:"demonym" validate:"required,max=255"`
	Population  *int64           `json:"population" validate:"required,gte=0"`
	Independant *bool            `json:"independant" validate:"required"`
	Flag        string           `json:"flag" validate:"required,url,max=255"`
	Currency    *CurrencyRequest `json:"currency" validate:"omitempty"`
}

// UpdateCountryRequest is the body of PATCH /countries/:id.
// Only the fields present in the body are changed.
type UpdateCountryRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=1,max=255"`
	Region      *string          `json:"region" validate:"omitempty,min=1,max=255"`
	SubRegion   *string          `json:"subRegion" validate:"omitempty,min=1,max=255"`
	Demonym     *string          `json:"demonym" validate:"omitempty,min=1,max=255"`
	Population  *int64           `json:"population" validate:"omitempty,gte=0"`
	Independant *bool            `json:"independant"`
	Flag        *string          `json:"flag" validate:"omitempty,url,max=255"`
	Currency    *CurrencyRequest `json:"currency" validate:"omitempty"`
}

// ToModel builds a new country from the request.
func (r CreateCountryRequest) ToModel() *models.Country {
	country := &models.Country{
		Name:        r.Name,
		Region:      models.StringPtr(r.Region),
		SubRegion:   models.StringPtr(r.SubRegion),
		Demonym:     models.StringPtr(r.Demonym),
		Population:  r.Population,
		Independent: r.Independant,
		Flag:        models.StringPtr(r.Flag),
	}
	if r.Currency != nil {
		country.Currency = r.Currency.toModel()
	}
	return country
}

// Apply copies the supplied fields onto country.
func (r UpdateCountryRequest) Apply(country *models.Country) {
	if r.Name != nil {
		country.Name = *r.Name
	}
	if r.Region != nil {
		country.Region = r.Region
	}
	if r.SubRegion != nil {
		country.SubRegion = r.SubRegion
	}
	if r.Demonym != nil {
		country.Demonym = r.Demonym
	}
	if r.Population != nil {
		country.Population = r.Population
	}
	if r.Independant != nil {
		country.Independent = r.Independant
	}
	if r.Flag != nil {
		country.Flag = r.Flag
	}
	if r.Currency != nil {
		country.Currency = r.Currency.toModel()
	}
}

func (r CurrencyRequest) toModel() *models.Currency {
	return &models.Currency{Name: r.Name, Symbol: r.Symbol}
}

// ValidationError lists the fields of a request that failed validation.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Fields, "; ")
}

func (e *ValidationError) Unwrap() error {
	return apperrors.ErrValidation
}

// newValidator reports fields by their JSON name.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func validate(v *validator.Validate, req any) error {
	err := v.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	fields := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields = append(fields, describe(fe))
	}
	return &ValidationError{Fields: fields}
}

func describe(fe validator.FieldError) string {
	field := strings.SplitN(fe.Namespace(), ".", 2)
	name := fe.Field()
	if len(field) == 2 {
		name = field[1]
	}

	switch fe.Tag() {
	case "required":
		return name + ": This value should not be blank."
	case "max":
		return fmt.Sprintf("%s: This value is too long. It should have %s characters or less.", name, fe.Param())
	case "min":
		return name + ": This value is too short."
	case "gte":
		return name + ": This value should be either positive or zero."
	case "url":
		return name + ": This value is not a valid URL."
	default:
		return fmt.Sprintf("%s: failed on %s", name, fe.Tag())
	}
}
