package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/moonpos/moonpos-backend/pkg/db/models"
	"github.com/moonpos/moonpos-backend/pkg/money"
	"github.com/moonpos/moonpos-backend/pkg/pagination"
)

// OrderSummary is the list projection of an order header.
type OrderSummary struct {
	ID            uuid.UUID `json:"id"`
	OrderNumber   string    `json:"order_number"`
	PaymentMethod string    `json:"payment_method"`
	Subtotal      string    `json:"subtotal"`
	Discount      string    `json:"discount"`
	Tax           string    `json:"tax"`
	Total         string    `json:"total"`
	CreatedAt     time.Time `json:"created_at"`
}

// OrderItemDTO is a sold line with its price and cost snapshot.
type OrderItemDTO struct {
	ID            uuid.UUID `json:"id"`
	ProductID     uuid.UUID `json:"product_id"`
	SKU           string    `json:"sku,omitempty"`
	ProductName   string    `json:"product_name,omitempty"`
	Quantity      int       `json:"quantity"`
	UnitPrice     string    `json:"unit_price"`
	CostPrice     string    `json:"cost_price"`
	LineTotal     string    `json:"line_total"`
	LineCostTotal string    `json:"line_cost_total"`
}

// OrderDetail is an order header plus its items.
type OrderDetail struct {
	OrderSummary
	Items []OrderItemDTO `json:"items"`
}

func NewOrderSummary(o *models.Order) OrderSummary {
	return OrderSummary{
		ID:            o.ID,
		OrderNumber:   o.OrderNumber,
		PaymentMethod: o.PaymentMethod,
		Subtotal:      money.Format(o.Subtotal),
		Discount:      money.Format(o.Discount),
		Tax:           money.Format(o.Tax),
		Total:         money.Format(o.Total),
		CreatedAt:     o.CreatedAt.UTC(),
	}
}

func NewOrderDetail(o *models.Order) *OrderDetail {
	if o == nil {
		return nil
	}
	items := make([]OrderItemDTO, 0, len(o.Items))
	for _, item := range o.Items {
		dto := OrderItemDTO{
			ID:            item.ID,
			ProductID:     item.ProductID,
			Quantity:      item.Quantity,
			UnitPrice:     money.Format(item.UnitPrice),
			CostPrice:     money.Format(item.CostPrice),
			LineTotal:     money.Format(item.LineTotal),
			LineCostTotal: money.Format(item.LineCostTotal),
		}
		if item.Product != nil {
			dto.SKU = item.Product.SKU
			dto.ProductName = item.Product.Name
		}
		items = append(items, dto)
	}
	return &OrderDetail{OrderSummary: NewOrderSummary(o), Items: items}
}

func newOrderPage(page pagination.Page[models.Order]) pagination.Page[OrderSummary] {
	items := make([]OrderSummary, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, NewOrderSummary(&page.Items[i]))
	}
	return pagination.Page[OrderSummary]{Items: items, NextCursor: page.NextCursor}
}
