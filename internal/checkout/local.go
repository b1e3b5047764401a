package checkout

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/codetroon/bobbin-storefront/pkg/db"
	pkgerrors "github.com/codetroon/bobbin-storefront/pkg/errors"
	"github.com/codetroon/bobbin-storefront/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const receivedStatus = "received"

// Order is the locally persisted aggregate order row.
type Order struct {
	ID           string          `gorm:"primaryKey;column:id" json:"id"`
	CustomerName string          `gorm:"column:customer_name" json:"customer_name"`
	Address      string          `gorm:"column:address" json:"address"`
	Contact      string          `gorm:"column:contact" json:"contact"`
	Total        decimal.Decimal `gorm:"column:total;type:numeric(12,2)" json:"total"`
	Status       string          `gorm:"column:status" json:"status"`
	Items        []OrderItem     `gorm:"foreignKey:OrderID" json:"items"`
	CreatedAt    time.Time       `gorm:"column:created_at" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"column:updated_at" json:"updated_at"`
}

func (Order) TableName() string { return "orders" }

// OrderItem is one line of a local order.
type OrderItem struct {
	ID        string          `gorm:"primaryKey;column:id" json:"id"`
	OrderID   string          `gorm:"column:order_id" json:"order_id"`
	ProductID string          `gorm:"column:product_id" json:"product_id"`
	Size      string          `gorm:"column:size" json:"size"`
	Qty       int             `gorm:"column:qty" json:"qty"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2)" json:"unit_price"`
	LineTotal decimal.Decimal `gorm:"column:line_total;type:numeric(12,2)" json:"line_total"`
	CreatedAt time.Time       `gorm:"column:created_at" json:"created_at"`
}

func (OrderItem) TableName() string { return "order_items" }

// LocalItemInput is one requested line on the local order endpoint.
type LocalItemInput struct {
	ProductID string          `json:"product_id" validate:"required"`
	Size      string          `json:"size" validate:"required"`
	Qty       int             `json:"qty" validate:"required,min=1"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// LocalOrderInput is the body of the local order endpoint.
type LocalOrderInput struct {
	CustomerName string           `json:"customer_name" validate:"required"`
	Address      string           `json:"address" validate:"required"`
	Contact      string           `json:"contact" validate:"required"`
	Items        []LocalItemInput `json:"items" validate:"required,min=1,dive"`
}

// LocalService persists aggregate orders in the service-owned database. It is
// only wired when a DSN is configured; deployments without one run purely
// against the upstream API.
type LocalService interface {
	Create(ctx context.Context, input LocalOrderInput) (*Order, error)
	Get(ctx context.Context, id string) (*Order, error)
}

type localService struct {
	client *db.Client
	logg   *logger.Logger
}

func NewLocalService(client *db.Client, logg *logger.Logger) LocalService {
	return &localService{client: client, logg: logg}
}

// Create writes the order row and all of its item rows in one transaction, so
// a half-written order can never be observed.
func (s *localService) Create(ctx context.Context, input LocalOrderInput) (*Order, error) {
	if err := validateLocalInput(input); err != nil {
		return nil, err
	}

	order := &Order{
		ID:           uuid.NewString(),
		CustomerName: input.CustomerName,
		Address:      input.Address,
		Contact:      input.Contact,
		Status:       receivedStatus,
		Total:        decimal.Zero,
	}
	for _, item := range input.Items {
		lineTotal := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Qty)))
		order.Total = order.Total.Add(lineTotal)
		order.Items = append(order.Items, OrderItem{
			ID:        uuid.NewString(),
			OrderID:   order.ID,
			ProductID: item.ProductID,
			Size:      item.Size,
			Qty:       item.Qty,
			UnitPrice: item.UnitPrice,
			LineTotal: lineTotal,
		})
	}

	err := s.client.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(order).Error
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persisting order")
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"order_id": order.ID,
		"lines":    len(order.Items),
		"total":    order.Total.String(),
	}), "orders.local_created")
	return order, nil
}

// Get loads an order with its items, for the order-success page.
func (s *localService) Get(ctx context.Context, id string) (*Order, error) {
	var order Order
	err := s.client.DB().WithContext(ctx).Preload("Items").First(&order, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading order")
	}
	return &order, nil
}

func validateLocalInput(input LocalOrderInput) error {
	missing := []string{}
	if strings.TrimSpace(input.CustomerName) == "" {
		missing = append(missing, "customer_name")
	}
	if strings.TrimSpace(input.Address) == "" {
		missing = append(missing, "address")
	}
	if strings.TrimSpace(input.Contact) == "" {
		missing = append(missing, "contact")
	}
	if len(input.Items) == 0 {
		missing = append(missing, "items")
	}
	for _, item := range input.Items {
		if strings.TrimSpace(item.ProductID) == "" || strings.TrimSpace(item.Size) == "" || item.Qty < 1 {
			return pkgerrors.New(pkgerrors.CodeValidation, "order items must carry product_id, size and a positive qty")
		}
		if item.UnitPrice.IsNegative() {
			return pkgerrors.New(pkgerrors.CodeValidation, "unit_price cannot be negative")
		}
	}
	if len(missing) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "missing required fields").
			WithDetails(map[string]any{"fields": missing})
	}
	return nil
}
