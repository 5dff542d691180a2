package catalog

import (
	"context"
	"fmt"
	"sort"

	"github.com/MarcGrol/cartcheckout/lib/myerrors"
	"github.com/MarcGrol/cartcheckout/lib/mylog"
	"github.com/MarcGrol/cartcheckout/lib/mystore"
)

type service struct {
	productStore  mystore.Store[Product]
	customerStore mystore.Store[Customer]
	logger        mylog.Logger
}

// Use dependency injection to isolate the infrastructure and easy testing
func newService(productStore mystore.Store[Product], customerStore mystore.Store[Customer], logger mylog.Logger) *service {
	return &service{
		productStore:  productStore,
		customerStore: customerStore,
		logger:        logger,
	}
}

func (s *service) GetProduct(c context.Context, productUID string) (Product, bool, error) {
	product, found, err := s.productStore.Get(c, productUID)
	if err != nil {
		return Product{}, false, myerrors.NewInternalError(fmt.Errorf("error fetching product %s: %s", productUID, err))
	}
	return product, found, nil
}

func (s *service) GetCustomer(c context.Context, customerUID string) (Customer, bool, error) {
	customer, found, err := s.customerStore.Get(c, customerUID)
	if err != nil {
		return Customer{}, false, myerrors.NewInternalError(fmt.Errorf("error fetching customer %s: %s", customerUID, err))
	}
	return customer, found, nil
}

func (s *service) listProducts(c context.Context) ([]Product, error) {
	products, err := s.productStore.List(c)
	if err != nil {
		return nil, myerrors.NewInternalError(fmt.Errorf("error listing products: %s", err))
	}
	sort.Slice(products, func(i, j int) bool {
		return products[i].UID < products[j].UID
	})
	return products, nil
}

// seed fills empty stores with demo data
func (s *service) seed(c context.Context) error {
	for _, p := range demoProducts {
		_, found, err := s.productStore.Get(c, p.UID)
		if err != nil {
			return err
		}
		if !found {
			err = s.productStore.Put(c, p.UID, p)
			if err != nil {
				return err
			}
		}
	}
	for _, cust := range demoCustomers {
		_, found, err := s.customerStore.Get(c, cust.UID)
		if err != nil {
			return err
		}
		if !found {
			err = s.customerStore.Put(c, cust.UID, cust)
			if err != nil {
				return err
			}
		}
	}
	s.logger.Log(c, "", mylog.SeverityInfo, "Seeded %d products and %d customers", len(demoProducts), len(demoCustomers))
	return nil
}

var demoProducts = []Product{
	{UID: "1", Title: "Dac Nhan Tam", ImageURL: "/images/dac-nhan-tam.jpg", Price: 100000, Rating: 5},
	{UID: "2", Title: "Nha Gia Kim", ImageURL: "/images/nha-gia-kim.jpg", Price: 79000, Rating: 4},
	{UID: "3", Title: "Tuoi Tre Dang Gia Bao Nhieu", ImageURL: "/images/tuoi-tre.jpg", Price: 90000, Rating: 4},
	{UID: "4", Title: "Cay Cam Ngot Cua Toi", ImageURL: "/images/cay-cam-ngot.jpg", Price: 108000, Rating: 5},
	{UID: "5", Title: "Muon Kiep Nhan Sinh", ImageURL: "/images/muon-kiep.jpg", Price: 168000, Rating: 3},
}

var demoCustomers = []Customer{
	{UID: "customer_1", FirstName: "Nguyen", LastName: "An", Phone: "0901234567", Email: "an.nguyen@example.com"},
	{UID: "customer_2", FirstName: "Tran", LastName: "Binh", Phone: "0912345678", Email: "binh.tran@example.com"},
}
