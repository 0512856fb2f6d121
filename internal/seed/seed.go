// Package seed holds the demo accounts and catalog loaded into a fresh store.
package seed

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/wichananm65/elite-shop-backend/internal/auth"
	"github.com/wichananm65/elite-shop-backend/internal/product"
	"github.com/wichananm65/elite-shop-backend/internal/user"
)

const DefaultPassword = "123456"

type Account struct {
	Name     string
	Email    string
	Password string
	Role     string
}

func Accounts() []Account {
	return []Account{
		{Name: "Admin User", Email: "admin@elite.com", Password: DefaultPassword, Role: auth.RoleAdmin},
		{Name: "Test User", Email: "user@elite.com", Password: DefaultPassword, Role: auth.RoleUser},
	}
}

func price(v float64) *float64 { return &v }

// Products returns a fresh copy of the demo catalog on every call.
func Products() []product.Product {
	return []product.Product{
		{
			Name:        "Áo Sơ Mi Premium",
			Description: "Áo sơ mi cao cấp từ vải cotton Ai Cập, thiết kế sang trọng, phù hợp công sở và dự tiệc",
			Price:       1200000,
			Category:    product.CategoryMen,
			Badge:       product.BadgeNew,
			Image:       "https://images.unsplash.com/photo-1602810318383-e386cc2a3ccf?w=500&h=500&fit=crop",
			Stock:       50, Sold: 5, Rating: 4.8, IsActive: true,
		},
		{
			Name:        "Quần Tây Lịch Lãm",
			Description: "Quần tây form chuẩn, vải co giãn nhẹ, thoải mái cho cả ngày dài làm việc",
			Price:       1500000,
			Category:    product.CategoryMen,
			Image:       "https://images.unsplash.com/photo-1594938291221-94f18cbb5660?w=500&h=500&fit=crop",
			Stock:       40, Sold: 8, Rating: 4.5, IsActive: true,
		},
		{
			Name:          "Blazer Sang Trọng",
			Description:   "Blazer cao cấp, thiết kế tối giản, dễ phối đồ, phù hợp mọi dịp",
			Price:         2500000,
			OriginalPrice: price(3500000),
			Category:      product.CategoryMen,
			Badge:         product.BadgeSale,
			Image:         "https://images.unsplash.com/photo-1507679799987-c73779587ccf?w=500&h=500&fit=crop",
			Stock:         30, Sold: 12, Rating: 5.0, IsActive: true,
		},
		{
			Name:        "Váy Dạ Hội",
			Description: "Váy dạ hội lụa cao cấp, thiết kế thanh lịch, hoàn hảo cho các buổi tiệc",
			Price:       3200000,
			Category:    product.CategoryWomen,
			Badge:       product.BadgeNew,
			Image:       "https://images.unsplash.com/photo-1595777457583-95e059d581b8?w=500&h=500&fit=crop",
			Stock:       25, Sold: 3, Rating: 4.9, IsActive: true,
		},
		{
			Name:        "Áo Kiểu Nữ",
			Description: "Áo kiểu nữ thanh lịch, vải mềm mại, thoáng mát, phù hợp công sở",
			Price:       980000,
			Category:    product.CategoryWomen,
			Image:       "https://images.unsplash.com/photo-1485462537746-965f33f7f6a7?w=500&h=500&fit=crop",
			Stock:       60, Sold: 15, Rating: 4.6, IsActive: true,
		},
		{
			Name:          "Chân Váy A",
			Description:   "Chân váy form A thời trang, dễ phối đồ, phù hợp mọi vóc dáng",
			Price:         850000,
			OriginalPrice: price(1200000),
			Category:      product.CategoryWomen,
			Badge:         product.BadgeSale,
			Image:         "https://images.unsplash.com/photo-1583496661160-fb5886a0aaaa?w=500&h=500&fit=crop",
			Stock:         45, Sold: 20, Rating: 4.7, IsActive: true,
		},
		{
			Name:        "Túi Xách Da Thật",
			Description: "Túi xách da bò thật 100%, thủ công tinh xảo, bền đẹp theo năm tháng",
			Price:       2800000,
			Category:    product.CategoryAccessories,
			Badge:       product.BadgeNew,
			Image:       "https://images.unsplash.com/photo-1590874103328-eac38a683ce7?w=500&h=500&fit=crop",
			Stock:       20, Sold: 7, Rating: 5.0, IsActive: true,
		},
		{
			Name:        "Giày Tây Nam",
			Description: "Giày tây da cao cấp, đế cao su êm ái, phù hợp công sở và dự tiệc",
			Price:       1600000,
			Category:    product.CategoryAccessories,
			Image:       "https://images.unsplash.com/photo-1614252235316-8c857d38b5f4?w=500&h=500&fit=crop",
			Stock:       35, Sold: 10, Rating: 4.4, IsActive: true,
		},
		{
			Name:          "Thắt Lưng Da",
			Description:   "Thắt lưng da bò thật, khóa kim loại cao cấp, thiết kế cổ điển",
			Price:         650000,
			OriginalPrice: price(900000),
			Category:      product.CategoryAccessories,
			Badge:         product.BadgeSale,
			Image:         "https://images.unsplash.com/photo-1624222247344-550fb60583dc?w=500&h=500&fit=crop",
			Stock:         70, Sold: 25, Rating: 4.3, IsActive: true,
		},
		{
			Name:        "Áo Khoác Dạ",
			Description: "Áo khoác dạ cao cấp mùa đông, giữ ấm tốt, thiết kế hiện đại",
			Price:       3500000,
			Category:    product.CategoryMen,
			Badge:       product.BadgeNew,
			Image:       "https://images.unsplash.com/photo-1539533018447-63fcce2678e3?w=500&h=500&fit=crop",
			Stock:       15, Sold: 4, Rating: 4.9, IsActive: true,
		},
		{
			Name:        "Đầm Công Sở",
			Description: "Đầm công sở thanh lịch, vải cotton cao cấp, form dáng chuẩn",
			Price:       1200000,
			Category:    product.CategoryWomen,
			Image:       "https://images.unsplash.com/photo-1572804013309-59a88b7e92f1?w=500&h=500&fit=crop",
			Stock:       40, Sold: 18, Rating: 4.6, IsActive: true,
		},
		{
			Name:          "Ví Da Nam",
			Description:   "Ví da cao cấp nhiều ngăn, thiết kế nhỏ gọn, tiện lợi",
			Price:         450000,
			OriginalPrice: price(650000),
			Category:      product.CategoryAccessories,
			Badge:         product.BadgeSale,
			Image:         "https://images.unsplash.com/photo-1627123424574-724758594e93?w=500&h=500&fit=crop",
			Stock:         80, Sold: 30, Rating: 4.5, IsActive: true,
		},
	}
}

// Run wipes users and products and loads the demo data. Orders are left alone.
func Run(ctx context.Context, users *user.Service, products *product.Service, log *zap.Logger) error {
	if err := users.DeleteAll(ctx); err != nil {
		return fmt.Errorf("clear users: %w", err)
	}
	for _, a := range Accounts() {
		if _, err := users.Create(ctx, a.Name, a.Email, a.Password, a.Role); err != nil {
			return fmt.Errorf("create %s: %w", a.Email, err)
		}
	}

	loaded, err := products.Reset(ctx, Products())
	if err != nil {
		return fmt.Errorf("load products: %w", err)
	}
	log.Info("seed complete", zap.Int("users", len(Accounts())), zap.Int("products", len(loaded)))
	return nil
}
