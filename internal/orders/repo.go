package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/haletrung/vietmarket-backend/pkg/db/models"
	"github.com/haletrung/vietmarket-backend/pkg/enums"
	"github.com/haletrung/vietmarket-backend/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *repository) FindOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("SubOrders", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("SubOrders.Items").
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) FindSubOrder(ctx context.Context, id uuid.UUID) (*models.SubOrder, error) {
	var sub models.SubOrder
	err := r.db.WithContext(ctx).
		Preload("Order").
		Preload("Items").
		Where("id = ?", id).
		First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *repository) FindSubOrdersByOrder(ctx context.Context, orderID uuid.UUID) ([]models.SubOrder, error) {
	var subs []models.SubOrder
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("position ASC").
		Find(&subs).Error
	if err != nil {
		return nil, err
	}
	return subs, nil
}

func (r *repository) ListCustomerOrders(ctx context.Context, customerID uuid.UUID, params pagination.Params) ([]models.Order, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}

	query := r.db.WithContext(ctx).
		Preload("SubOrders", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("SubOrders.Items").
		Where("customer_id = ?", customerID).
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit))

	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repository) ListVendorSubOrders(ctx context.Context, vendorID uuid.UUID, params pagination.Params) ([]models.SubOrder, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}

	query := r.db.WithContext(ctx).
		Preload("Order").
		Preload("Items").
		Where("vendor_id = ?", vendorID).
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit))

	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var subs []models.SubOrder
	if err := query.Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}

func (r *repository) UpdateSubOrderStatus(ctx context.Context, id uuid.UUID, status enums.SubOrderStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.SubOrder{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *repository) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *repository) VendorNames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	names := make(map[uuid.UUID]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	var vendors []models.Vendor
	err := r.db.WithContext(ctx).
		Select("id", "store_name").
		Where("id IN ?", ids).
		Find(&vendors).Error
	if err != nil {
		return nil, err
	}
	for _, vendor := range vendors {
		names[vendor.ID] = vendor.StoreName
	}
	return names, nil
}
