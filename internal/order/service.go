package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/wichananm65/elite-shop-backend/internal/apperr"
	"github.com/wichananm65/elite-shop-backend/internal/auth"
)

const (
	MsgEmptyCart            = "Giỏ hàng trống"
	MsgMissingShipping      = "Thiếu thông tin giao hàng"
	MsgMissingFieldsPrefix  = "Thiếu thông tin bắt buộc: "
	MsgInvalidPayment       = "Phương thức thanh toán không hợp lệ. Chọn: cod, bank, card, hoặc momo"
	MsgMissingPrices        = "Thiếu thông tin giá"
	MsgNotFound             = "Không tìm thấy đơn hàng"
	MsgForbidden            = "Không có quyền truy cập đơn hàng này"
	MsgCancelForbidden      = "Không có quyền hủy đơn hàng này"
	MsgInvalidOrderStatus   = "Trạng thái đơn hàng không hợp lệ"
	MsgInvalidPaymentStatus = "Trạng thái thanh toán không hợp lệ"
	msgCannotCancelFormat   = "Không thể hủy đơn hàng đang ở trạng thái \"%s\""
)

type Service struct {
	repo Repository
	log  *zap.Logger
	now  func() time.Time
}

func NewService(repo Repository, log *zap.Logger) *Service {
	return &Service{repo: repo, log: log, now: time.Now}
}

// Create validates the submission and stores it as a pending order owned by
// userID. Client-supplied prices are stored as given.
func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (Order, error) {
	if len(in.OrderItems) == 0 {
		return Order{}, apperr.Validation(MsgEmptyCart)
	}
	if in.ShippingInfo == nil {
		return Order{}, apperr.Validation(MsgMissingShipping)
	}
	if missing := missingShippingFields(*in.ShippingInfo); len(missing) > 0 {
		return Order{}, apperr.Validation(MsgMissingFieldsPrefix + strings.Join(missing, ", "))
	}
	if !contains(paymentMethods, in.PaymentMethod) {
		return Order{}, apperr.Validation(MsgInvalidPayment)
	}
	if in.ItemsPrice == nil || in.ShippingPrice == nil || in.TotalPrice == nil {
		return Order{}, apperr.Validation(MsgMissingPrices)
	}

	items, problems := snapshotItems(in.OrderItems)
	now := s.now().UTC()
	o := Order{
		User:          userID,
		OrderItems:    items,
		ShippingInfo:  *in.ShippingInfo,
		PaymentMethod: in.PaymentMethod,
		PaymentStatus: PaymentPending,
		OrderStatus:   StatusPending,
		ItemsPrice:    *in.ItemsPrice,
		ShippingPrice: *in.ShippingPrice,
		TotalPrice:    *in.TotalPrice,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := apperr.Validate(o); err != nil {
		var appErr *apperr.Error
		if !errors.As(err, &appErr) {
			return Order{}, err
		}
		problems = append(problems, appErr.Fields...)
	}
	if len(problems) > 0 {
		return Order{}, apperr.Validation(apperr.MsgInvalidData, problems...)
	}

	created, err := s.repo.Create(ctx, o)
	if err != nil {
		return Order{}, apperr.Internal(err)
	}
	s.log.Info("order created",
		zap.String("order_id", created.ID),
		zap.String("user_id", userID),
		zap.Int("items", len(created.OrderItems)),
		zap.Float64("total_price", created.TotalPrice),
	)
	return created, nil
}

func missingShippingFields(info ShippingInfo) []string {
	required := []struct {
		name  string
		value string
	}{
		{"fullName", info.FullName},
		{"email", info.Email},
		{"phone", info.Phone},
		{"address", info.Address},
		{"city", info.City},
		{"district", info.District},
	}
	var missing []string
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// snapshotItems freezes the submitted line items. Items without a price are
// reported since zero is a legitimate price.
func snapshotItems(in []ItemInput) ([]LineItem, []string) {
	items := make([]LineItem, 0, len(in))
	var problems []string
	for i, it := range in {
		item := LineItem{Product: it.productRef(), Name: it.Name, Quantity: it.Quantity}
		if it.Price == nil {
			problems = append(problems, fmt.Sprintf("orderItems[%d].price là bắt buộc", i))
		} else {
			item.Price = *it.Price
		}
		items = append(items, item)
	}
	return items, problems
}

func (s *Service) Get(ctx context.Context, id string, requester auth.Identity) (Order, error) {
	o, err := s.find(ctx, id)
	if err != nil {
		return Order{}, err
	}
	if !o.OwnedBy(requester.ID) && !requester.IsAdmin() {
		return Order{}, apperr.Forbidden(MsgForbidden)
	}
	return o, nil
}

func (s *Service) find(ctx context.Context, id string) (Order, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Order{}, apperr.NotFound(MsgNotFound)
		}
		return Order{}, apperr.Internal(err)
	}
	return o, nil
}

func (s *Service) ListMine(ctx context.Context, userID string) ([]Order, error) {
	orders, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return orders, nil
}

func (s *Service) ListAll(ctx context.Context, requester auth.Identity) ([]Order, error) {
	if !requester.IsAdmin() {
		return nil, apperr.Forbidden(auth.MsgAdminOnly)
	}
	orders, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return orders, nil
}

// UpdateStatus lets an admin move an order to any status. The order must
// exist, then both values are checked before anything changes; setting
// delivered stamps DeliveredAt.
func (s *Service) UpdateStatus(ctx context.Context, id string, in StatusInput, requester auth.Identity) (Order, error) {
	if !requester.IsAdmin() {
		return Order{}, apperr.Forbidden(auth.MsgAdminOnly)
	}
	o, err := s.find(ctx, id)
	if err != nil {
		return Order{}, err
	}
	if in.OrderStatus != "" && !contains(orderStatuses, in.OrderStatus) {
		return Order{}, apperr.Validation(MsgInvalidOrderStatus)
	}
	if in.PaymentStatus != "" && !contains(paymentStatuses, in.PaymentStatus) {
		return Order{}, apperr.Validation(MsgInvalidPaymentStatus)
	}

	now := s.now().UTC()
	from := o.OrderStatus
	if in.OrderStatus != "" {
		o.OrderStatus = in.OrderStatus
		if in.OrderStatus == StatusDelivered {
			o.DeliveredAt = &now
		}
	}
	if in.PaymentStatus != "" {
		o.PaymentStatus = in.PaymentStatus
	}
	o.UpdatedAt = now

	updated, err := s.save(ctx, o)
	if err != nil {
		return Order{}, err
	}
	s.log.Info("order status updated",
		zap.String("order_id", id),
		zap.String("from", from),
		zap.String("to", updated.OrderStatus),
		zap.String("payment_status", updated.PaymentStatus),
		zap.String("admin_id", requester.ID),
	)
	return updated, nil
}

// Cancel is open to the owner and to admins while the order is still
// pending or processing.
func (s *Service) Cancel(ctx context.Context, id string, requester auth.Identity) (Order, error) {
	o, err := s.find(ctx, id)
	if err != nil {
		return Order{}, err
	}
	if !o.OwnedBy(requester.ID) && !requester.IsAdmin() {
		return Order{}, apperr.Forbidden(MsgCancelForbidden)
	}
	if !o.CanCancel() {
		return Order{}, apperr.Conflict(fmt.Sprintf(msgCannotCancelFormat, o.OrderStatus))
	}

	o.OrderStatus = StatusCancelled
	o.UpdatedAt = s.now().UTC()
	updated, err := s.save(ctx, o)
	if err != nil {
		return Order{}, err
	}
	s.log.Info("order cancelled", zap.String("order_id", id), zap.String("by", requester.ID))
	return updated, nil
}

func (s *Service) save(ctx context.Context, o Order) (Order, error) {
	updated, err := s.repo.Update(ctx, o)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Order{}, apperr.NotFound(MsgNotFound)
		}
		return Order{}, apperr.Internal(err)
	}
	return updated, nil
}
