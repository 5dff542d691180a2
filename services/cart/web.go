package cart

import (
	"context"
	"fmt"
	"net/http"

	formcodec "github.com/go-playground/form/v4"
	"github.com/gorilla/mux"

	"github.com/MarcGrol/cartcheckout/lib/mycontext"
	"github.com/MarcGrol/cartcheckout/lib/myerrors"
	"github.com/MarcGrol/cartcheckout/lib/myhttp"
	"github.com/MarcGrol/cartcheckout/lib/mylog"
	"github.com/MarcGrol/cartcheckout/lib/mystore"
	"github.com/MarcGrol/cartcheckout/lib/mytime"
	"github.com/MarcGrol/cartcheckout/lib/myuuid"
	"github.com/MarcGrol/cartcheckout/services/catalog"
)

type WebService struct {
	logger  mylog.Logger
	uuider  myuuid.UUIDer
	service *Service
}

// Use dependency injection to isolate the infrastructure and easy testing
func NewWebService(cartStore mystore.Store[Cart], products catalog.ProductLookup, nower mytime.Nower, uuider myuuid.UUIDer) *WebService {
	logger := mylog.New("cart")
	return &WebService{
		logger:  logger,
		uuider:  uuider,
		service: NewService(cartStore, products, nower, logger),
	}
}

// Service exposes the cart operations to the checkout.
func (s *WebService) Service() *Service {
	return s.service
}

func (s *WebService) RegisterEndpoints(c context.Context, router *mux.Router) error {
	router.HandleFunc("/cart", s.getCartPage()).Methods("GET")
	router.HandleFunc("/cart/total", s.getTotalPage()).Methods("GET")
	router.HandleFunc("/cart/summary", s.getSummaryPage()).Methods("GET")
	router.HandleFunc("/cart/items/{productUID}/total", s.getLineTotalPage()).Methods("GET")

	router.HandleFunc("/cart/items/{productUID}", s.addItemPage()).Methods("POST")
	router.HandleFunc("/cart/items/{productUID}/quantity", s.changeQuantityPage()).Methods("POST")
	router.HandleFunc("/cart/items/{productUID}/remove", s.removeItemPage()).Methods("POST")
	router.HandleFunc("/cart/items/{productUID}", s.deleteItemPage()).Methods("DELETE")

	return nil
}

type itemForm struct {
	Quantity  int  `form:"quantity"`
	Increment bool `form:"increment"`
}

func parseItemForm(r *http.Request) (itemForm, error) {
	err := r.ParseForm()
	if err != nil {
		return itemForm{}, myerrors.NewInvalidInputError(err)
	}
	form := itemForm{Quantity: 1}
	err = formcodec.NewDecoder().Decode(&form, r.Form)
	if err != nil {
		return itemForm{}, myerrors.NewInvalidInputError(fmt.Errorf("error decoding form: %s", err))
	}
	return form, nil
}

type totalResponse struct {
	Total int64
}

func (s *WebService) getCartPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)
		session := SessionFromRequest(w, r, s.uuider)

		cart, err := s.service.GetCart(c, session)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, cart)
	}
}

func (s *WebService) getTotalPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)
		session := SessionFromRequest(w, r, s.uuider)

		total, err := s.service.GetTotal(c, session)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, totalResponse{Total: total})
	}
}

func (s *WebService) getSummaryPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)
		session := SessionFromRequest(w, r, s.uuider)

		summary, err := s.service.GetSummary(c, session)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, summary)
	}
}

func (s *WebService) getLineTotalPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)
		session := SessionFromRequest(w, r, s.uuider)

		total, err := s.service.GetLineTotal(c, session, mux.Vars(r)["productUID"])
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, totalResponse{Total: total})
	}
}

func (s *WebService) addItemPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)
		session := SessionFromRequest(w, r, s.uuider)

		form, err := parseItemForm(r)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		_, err = s.service.AddItem(c, session, mux.Vars(r)["productUID"], form.Quantity)
		if err != nil {
			errorWriter.WriteError(c, w, 2, err)
			return
		}

		http.Redirect(w, r, "/cart", http.StatusSeeOther)
	}
}

func (s *WebService) changeQuantityPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)
		session := SessionFromRequest(w, r, s.uuider)

		form, err := parseItemForm(r)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		_, err = s.service.ChangeQuantity(c, session, mux.Vars(r)["productUID"], form.Increment, form.Quantity)
		if err != nil {
			errorWriter.WriteError(c, w, 2, err)
			return
		}

		http.Redirect(w, r, "/cart", http.StatusSeeOther)
	}
}

func (s *WebService) removeItemPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)
		session := SessionFromRequest(w, r, s.uuider)

		_, err := s.service.RemoveItem(c, session, mux.Vars(r)["productUID"])
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		http.Redirect(w, r, "/cart", http.StatusSeeOther)
	}
}

func (s *WebService) deleteItemPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)
		session := SessionFromRequest(w, r, s.uuider)

		cart, err := s.service.RemoveItem(c, session, mux.Vars(r)["productUID"])
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, cart)
	}
}
