package warmup

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/MarcGrol/cartcheckout/lib/mycontext"
	"github.com/MarcGrol/cartcheckout/lib/myerrors"
	"github.com/MarcGrol/cartcheckout/lib/myhttp"
	"github.com/MarcGrol/cartcheckout/lib/mylog"
	"github.com/MarcGrol/cartcheckout/services/catalog"
)

// probeProductUID is part of the seeded catalog
const probeProductUID = "1"

type WebService struct {
	logger   mylog.Logger
	products catalog.ProductLookup
}

// Use dependency injection to isolate the infrastructure and ease testing
func NewWebService(products catalog.ProductLookup) *WebService {
	return &WebService{
		logger:   mylog.New("warmup"),
		products: products,
	}
}

func (s *WebService) RegisterEndpoints(c context.Context, router *mux.Router) error {
	router.HandleFunc("/_ah/warmup", s.warmupPage()).Methods("GET")

	return nil
}

// warmupPage opens the datastore connection before the first shopper arrives
func (s *WebService) warmupPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		_, found, err := s.products.GetProduct(c, probeProductUID)
		if err != nil {
			errorWriter.WriteError(c, w, 1, myerrors.NewUnavailableError(fmt.Errorf("catalog not reachable: %s", err)))
			return
		}
		if !found {
			s.logger.Log(c, "", mylog.SeverityWarn, "Catalog is not seeded")
		}

		errorWriter.Write(c, w, http.StatusOK, myhttp.SuccessResponse{
			Message: "Successfully processed warmup request",
		})
	}
}
