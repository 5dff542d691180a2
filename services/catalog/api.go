package catalog

import "context"

type Product struct {
	UID      string
	Title    string
	ImageURL string
	Price    int64
	Rating   int
}

type Customer struct {
	UID       string
	FirstName string
	LastName  string
	Phone     string
	Email     string
}

func (c Customer) FullName() string {
	return c.FirstName + " " + c.LastName
}

//go:generate mockgen -source=api.go -package catalog -destination catalog_mock.go ProductLookup,CustomerLookup
type ProductLookup interface {
	GetProduct(c context.Context, productUID string) (Product, bool, error)
}

type CustomerLookup interface {
	GetCustomer(c context.Context, customerUID string) (Customer, bool, error)
}
