//-------------------------------------------------------------------------
//
// Storefront Warehouse ETL
//
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package datagen generates coherent sample extract sets for smoke-testing
// the pipeline without real source data.
package datagen

import (
	"time"

	"github.com/brianvoe/gofakeit/v7"
)

// Faker provides fake data generation using gofakeit.
type Faker struct {
	faker *gofakeit.Faker
}

// NewFaker creates a new Faker with a random seed.
func NewFaker() *Faker {
	return &Faker{
		faker: gofakeit.New(uint64(time.Now().UnixNano())),
	}
}

// NewFakerWithSeed creates a new Faker with a specific seed for reproducibility.
func NewFakerWithSeed(seed uint64) *Faker {
	return &Faker{
		faker: gofakeit.New(seed),
	}
}

// UUID generates a random identifier.
func (f *Faker) UUID() string {
	return f.faker.UUID()
}

// City generates a random city name.
func (f *Faker) City() string {
	return f.faker.City()
}

// State generates a random state abbreviation.
func (f *Faker) State() string {
	return f.faker.StateAbr()
}

// Zip generates a random ZIP code.
func (f *Faker) Zip() string {
	return f.faker.Zip()
}

// Latitude generates a random latitude.
func (f *Faker) Latitude() float64 {
	return f.faker.Latitude()
}

// Longitude generates a random longitude.
func (f *Faker) Longitude() float64 {
	return f.faker.Longitude()
}

// Price generates a random price between min and max.
func (f *Faker) Price(min, max float64) float64 {
	return f.faker.Price(min, max)
}

// ProductCategory generates a random product category.
func (f *Faker) ProductCategory() string {
	return f.faker.ProductCategory()
}

// Number generates a random integer in [min, max].
func (f *Faker) Number(min, max int) int {
	return f.faker.Number(min, max)
}

// Pick returns one of the given values.
func (f *Faker) Pick(values []string) string {
	return f.faker.RandomString(values)
}

// DateBetween generates a random timestamp in [start, end].
func (f *Faker) DateBetween(start, end time.Time) time.Time {
	return f.faker.DateRange(start, end)
}
