package cart

import (
	"context"
	"fmt"

	"github.com/MarcGrol/cartcheckout/lib/myerrors"
	"github.com/MarcGrol/cartcheckout/lib/mylog"
	"github.com/MarcGrol/cartcheckout/lib/mystore"
	"github.com/MarcGrol/cartcheckout/lib/mytime"
	"github.com/MarcGrol/cartcheckout/services/catalog"
)

type Service struct {
	cartStore mystore.Store[Cart]
	products  catalog.ProductLookup
	nower     mytime.Nower
	logger    mylog.Logger
}

// Use dependency injection to isolate the infrastructure and easy testing
func NewService(cartStore mystore.Store[Cart], products catalog.ProductLookup, nower mytime.Nower, logger mylog.Logger) *Service {
	return &Service{
		cartStore: cartStore,
		products:  products,
		nower:     nower,
		logger:    logger,
	}
}

func (s *Service) GetCart(c context.Context, session Session) (Cart, error) {
	cart, _, err := s.getCart(c, session)
	if err != nil {
		return Cart{}, err
	}
	return cart.Copy(), nil
}

func (s *Service) getCart(c context.Context, session Session) (Cart, bool, error) {
	cart, found, err := s.cartStore.Get(c, session.UID)
	if err != nil {
		return Cart{}, false, myerrors.NewInternalError(fmt.Errorf("error fetching cart of session %s: %s", session.UID, err))
	}
	if !found {
		cart = Cart{SessionUID: session.UID, Items: []CartItem{}}
	}
	return cart, found, nil
}

func (s *Service) AddItem(c context.Context, session Session, productUID string, quantity int) (Cart, error) {
	if quantity <= 0 {
		return Cart{}, myerrors.NewInvalidInputErrorf("quantity must be positive, got %d", quantity)
	}

	s.logger.Log(c, session.UID, mylog.SeverityInfo, "Add %d of product %s", quantity, productUID)

	return s.mutate(c, session, func(c context.Context, cart *Cart) error {
		idx := cart.indexOf(productUID)
		if idx >= 0 {
			cart.Items[idx].Quantity += quantity
			return nil
		}

		product, found, err := s.products.GetProduct(c, productUID)
		if err != nil {
			return myerrors.NewInternalError(fmt.Errorf("error fetching product %s: %s", productUID, err))
		}
		if !found {
			return myerrors.NewNotFoundError(fmt.Errorf("product %s not found", productUID))
		}

		cart.Items = append(cart.Items, CartItem{
			ProductUID: product.UID,
			Name:       product.Title,
			ImageURL:   product.ImageURL,
			UnitPrice:  product.Price,
			Rating:     product.Rating,
			Quantity:   quantity,
		})
		return nil
	})
}

func (s *Service) ChangeQuantity(c context.Context, session Session, productUID string, increment bool, quantity int) (Cart, error) {
	if quantity <= 0 {
		return Cart{}, myerrors.NewInvalidInputErrorf("quantity must be positive, got %d", quantity)
	}

	s.logger.Log(c, session.UID, mylog.SeverityInfo, "Change quantity of product %s (increment:%v, quantity:%d)", productUID, increment, quantity)

	return s.mutate(c, session, func(c context.Context, cart *Cart) error {
		idx := cart.indexOf(productUID)
		if idx < 0 {
			return myerrors.NewNotFoundError(fmt.Errorf("product %s not in cart", productUID))
		}

		if increment {
			cart.Items[idx].Quantity += quantity
			return nil
		}

		cart.Items[idx].Quantity -= quantity
		if cart.Items[idx].Quantity <= 0 {
			cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)
		}
		return nil
	})
}

func (s *Service) RemoveItem(c context.Context, session Session, productUID string) (Cart, error) {
	s.logger.Log(c, session.UID, mylog.SeverityInfo, "Remove product %s", productUID)

	return s.mutate(c, session, func(c context.Context, cart *Cart) error {
		idx := cart.indexOf(productUID)
		if idx >= 0 {
			cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)
		}
		return nil
	})
}

func (s *Service) ClearCart(c context.Context, session Session) error {
	s.logger.Log(c, session.UID, mylog.SeverityInfo, "Clear cart")

	_, err := s.mutate(c, session, func(c context.Context, cart *Cart) error {
		cart.Items = []CartItem{}
		return nil
	})
	return err
}

func (s *Service) GetTotal(c context.Context, session Session) (int64, error) {
	cart, err := s.GetCart(c, session)
	if err != nil {
		return 0, err
	}
	return cart.Total(), nil
}

// GetLineTotal returns 0 for a product that is not in the cart.
func (s *Service) GetLineTotal(c context.Context, session Session, productUID string) (int64, error) {
	cart, err := s.GetCart(c, session)
	if err != nil {
		return 0, err
	}
	return cart.lineTotal(productUID), nil
}

func (s *Service) GetSummary(c context.Context, session Session) (Summary, error) {
	cart, err := s.GetCart(c, session)
	if err != nil {
		return Summary{}, err
	}
	return cart.Summary(), nil
}

// mutate reads the whole cart and rewrites it within a single transaction.
func (s *Service) mutate(c context.Context, session Session, modify func(c context.Context, cart *Cart) error) (Cart, error) {
	var result Cart
	err := s.cartStore.RunInTransaction(c, func(c context.Context) error {
		// must be idempotent
		current, _, err := s.getCart(c, session)
		if err != nil {
			return err
		}

		cart := current.Copy()
		err = modify(c, &cart)
		if err != nil {
			return err
		}
		cart.LastModified = s.nower.Now()

		err = s.cartStore.Put(c, session.UID, cart)
		if err != nil {
			return myerrors.NewInternalError(fmt.Errorf("error storing cart of session %s: %s", session.UID, err))
		}

		result = cart.Copy()
		return nil
	})
	if err != nil {
		return Cart{}, err
	}
	return result, nil
}
