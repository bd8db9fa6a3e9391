// Package catalog stores the product list as a whole-catalog document and
// exposes the CRUD operations used by the REST and GraphQL layers.
package catalog

// Product is a single catalog entry.
type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
}

// Fields are the mutable product attributes accepted by Create and Update.
// All four are required.
type Fields struct {
	Name        string  `json:"name" validate:"required"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Category    string  `json:"category" validate:"required"`
	Description string  `json:"description" validate:"required"`
}

func (f Fields) apply(p *Product) {
	p.Name = f.Name
	p.Price = f.Price
	p.Category = f.Category
	p.Description = f.Description
}
