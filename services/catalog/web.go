package catalog

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/MarcGrol/cartcheckout/lib/mycontext"
	"github.com/MarcGrol/cartcheckout/lib/myerrors"
	"github.com/MarcGrol/cartcheckout/lib/myhttp"
	"github.com/MarcGrol/cartcheckout/lib/mylog"
	"github.com/MarcGrol/cartcheckout/lib/mystore"
)

type WebService struct {
	logger  mylog.Logger
	service *service
}

// Use dependency injection to isolate the infrastructure and easy testing
func NewWebService(productStore mystore.Store[Product], customerStore mystore.Store[Customer]) *WebService {
	logger := mylog.New("catalog")
	return &WebService{
		logger:  logger,
		service: newService(productStore, customerStore, logger),
	}
}

// Lookups exposes the catalog to the cart and checkout services.
func (s *WebService) Lookups() (ProductLookup, CustomerLookup) {
	return s.service, s.service
}

func (s *WebService) RegisterEndpoints(c context.Context, router *mux.Router) error {
	err := s.service.seed(c)
	if err != nil {
		return fmt.Errorf("error seeding catalog: %s", err)
	}

	router.HandleFunc("/products", s.listProductsPage()).Methods("GET")
	router.HandleFunc("/products/{productUID}", s.getProductPage()).Methods("GET")

	return nil
}

func (s *WebService) listProductsPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		products, err := s.service.listProducts(c)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, products)
	}
}

func (s *WebService) getProductPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		productUID := mux.Vars(r)["productUID"]

		product, found, err := s.service.GetProduct(c, productUID)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}
		if !found {
			errorWriter.WriteError(c, w, 2, myerrors.NewNotFoundError(fmt.Errorf("product %s not found", productUID)))
			return
		}

		errorWriter.Write(c, w, http.StatusOK, product)
	}
}
