package product

import (
	"context"
	"errors"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/wichananm65/elite-shop-backend/internal/apperr"
)

const (
	MsgNotFound      = "Không tìm thấy sản phẩm"
	MsgPriceRequired = "price là bắt buộc"
	MsgInvalidPrice  = "Giá không hợp lệ"
)

type Service struct {
	repo Repository
	log  *zap.Logger
	now  func() time.Time
}

func NewService(repo Repository, log *zap.Logger) *Service {
	return &Service{repo: repo, log: log, now: time.Now}
}

func (s *Service) List(ctx context.Context, f Filter) (Page, error) {
	f = f.normalize()
	items, total, err := s.repo.List(ctx, f)
	if err != nil {
		return Page{}, apperr.Internal(err)
	}
	return Page{
		Items: items,
		Total: total,
		Page:  f.Page,
		Pages: int(math.Ceil(float64(total) / float64(f.Limit))),
	}, nil
}

// Get hides inactive products from the public catalog.
func (s *Service) Get(ctx context.Context, id string) (Product, error) {
	p, err := s.find(ctx, id)
	if err != nil {
		return Product{}, err
	}
	if !p.IsActive {
		return Product{}, apperr.NotFound(MsgNotFound)
	}
	return p, nil
}

func (s *Service) find(ctx context.Context, id string) (Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Product{}, apperr.NotFound(MsgNotFound)
		}
		return Product{}, apperr.Internal(err)
	}
	return p, nil
}

func (s *Service) Create(ctx context.Context, in Input) (Product, error) {
	if in.Price == nil {
		return Product{}, apperr.Validation(apperr.MsgInvalidData, MsgPriceRequired)
	}

	now := s.now().UTC()
	p := Product{IsActive: true, CreatedAt: now, UpdatedAt: now}
	in.applyTo(&p)
	if err := apperr.Validate(p); err != nil {
		return Product{}, err
	}

	created, err := s.repo.Create(ctx, p)
	if err != nil {
		return Product{}, apperr.Internal(err)
	}
	s.log.Info("product created", zap.String("product_id", created.ID), zap.String("name", created.Name))
	return created, nil
}

func (s *Service) Update(ctx context.Context, id string, in Input) (Product, error) {
	p, err := s.find(ctx, id)
	if err != nil {
		return Product{}, err
	}

	in.applyTo(&p)
	p.UpdatedAt = s.now().UTC()
	if err := apperr.Validate(p); err != nil {
		return Product{}, err
	}

	updated, err := s.repo.Update(ctx, p)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Product{}, apperr.NotFound(MsgNotFound)
		}
		return Product{}, apperr.Internal(err)
	}
	s.log.Info("product updated", zap.String("product_id", id))
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return apperr.NotFound(MsgNotFound)
		}
		return apperr.Internal(err)
	}
	s.log.Info("product deleted", zap.String("product_id", id))
	return nil
}

// Reset replaces the catalog. Products without timestamps are stamped now;
// an empty list clears the catalog.
func (s *Service) Reset(ctx context.Context, products []Product) ([]Product, error) {
	now := s.now().UTC()
	for i := range products {
		if products[i].CreatedAt.IsZero() {
			products[i].CreatedAt = now
		}
		if products[i].UpdatedAt.IsZero() {
			products[i].UpdatedAt = products[i].CreatedAt
		}
		if err := apperr.Validate(products[i]); err != nil {
			return nil, err
		}
	}

	out, err := s.repo.Reset(ctx, products)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	s.log.Info("catalog reset", zap.Int("count", len(out)))
	return out, nil
}
