package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"sorveteria-service/models"
	"sorveteria-service/pricing"
	"sorveteria-service/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CheckoutService turns a client cart into order totals plus the messaging
// deep link the storefront opens to hand the order off.
type CheckoutService interface {
	Checkout(ctx context.Context, req *models.CheckoutRequest) (*models.CheckoutResponse, *ServiceError)
}

type checkoutServiceImpl struct {
	productRepo repository.ProductRepository
	storePhone  string
	deliveryFee float64
	logger      *zap.Logger
}

func NewCheckoutService(productRepo repository.ProductRepository, storePhone string, deliveryFee float64, logger *zap.Logger) CheckoutService {
	return &checkoutServiceImpl{
		productRepo: productRepo,
		storePhone:  storePhone,
		deliveryFee: deliveryFee,
		logger:      logger,
	}
}

func (s *checkoutServiceImpl) Checkout(ctx context.Context, req *models.CheckoutRequest) (*models.CheckoutResponse, *ServiceError) {
	type line struct {
		productID uuid.UUID
		name      string
		unitPrice float64
		quantity  int
		notes     string
	}

	// Resolve every line before touching stock, so a bad line anywhere in
	// the cart rejects the whole request without any mutation.
	var lines []line
	subtotal := 0.0
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			continue
		}
		id, err := uuid.Parse(item.ProductID)
		if err != nil {
			return nil, &ServiceError{StatusCode: 400, Message: fmt.Sprintf("Invalid product id %q", item.ProductID)}
		}

		product, err := s.productRepo.FindByID(ctx, id)
		if err != nil {
			return nil, &ServiceError{StatusCode: 400, Message: fmt.Sprintf("Product %q is no longer available", item.Name)}
		}

		// Server-side price wins over whatever the client cart carried.
		unit := pricing.Round2(product.Price)
		subtotal += unit * float64(item.Quantity)
		lines = append(lines, line{productID: id, name: product.Name, unitPrice: unit, quantity: item.Quantity, notes: item.Notes})
	}

	if len(lines) == 0 {
		return nil, &ServiceError{StatusCode: 400, Message: "Cart is empty"}
	}

	// Stock decrement is best-effort: the order still goes out if it fails.
	for _, l := range lines {
		if err := s.productRepo.DecrementStock(ctx, l.productID, l.quantity); err != nil {
			s.logger.Warn("Stock decrement failed during checkout",
				zap.String("product_id", l.productID.String()),
				zap.Int("quantity", l.quantity),
				zap.Error(err))
		}
	}

	deliveryFee := 0.0
	if req.Delivery {
		deliveryFee = s.deliveryFee
	}
	subtotal = pricing.Round2(subtotal)
	total := pricing.Round2(subtotal + req.Extras + deliveryFee)

	var b strings.Builder
	b.WriteString("*Novo Pedido*\n")
	fmt.Fprintf(&b, "Cliente: %s\n", req.CustomerName)
	if req.Address != "" {
		fmt.Fprintf(&b, "Endereço: %s\n", req.Address)
	}
	b.WriteString("\n*Itens:*\n")
	for _, l := range lines {
		fmt.Fprintf(&b, "%dx %s - R$ %.2f\n", l.quantity, l.name, l.unitPrice*float64(l.quantity))
		if l.notes != "" {
			fmt.Fprintf(&b, "  Obs: %s\n", l.notes)
		}
	}
	fmt.Fprintf(&b, "\nSubtotal: R$ %.2f\n", subtotal)
	if req.Extras > 0 {
		fmt.Fprintf(&b, "Adicionais: R$ %.2f\n", req.Extras)
	}
	if deliveryFee > 0 {
		fmt.Fprintf(&b, "Entrega: R$ %.2f\n", deliveryFee)
	}
	fmt.Fprintf(&b, "*Total: R$ %.2f*", total)

	link := fmt.Sprintf("https://wa.me/%s?text=%s", s.storePhone, url.QueryEscape(b.String()))

	return &models.CheckoutResponse{
		Subtotal:    subtotal,
		Extras:      req.Extras,
		DeliveryFee: deliveryFee,
		Total:       total,
		MessageLink: link,
	}, nil
}
