// Command shop is a terminal storefront for the Elite API: browse the
// catalog, keep a cart between runs and place orders.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/wichananm65/elite-shop-backend/internal/order"
	"github.com/wichananm65/elite-shop-backend/internal/product"
	"github.com/wichananm65/elite-shop-backend/internal/storage"
	"github.com/wichananm65/elite-shop-backend/internal/storefront"
)

const usage = `usage: shop [flags] <command> [args]

commands:
  register NAME EMAIL PASSWORD
  login EMAIL PASSWORD
  logout
  me
  products [--category c] [--badge b] [--search s] [--sort k] [--min p] [--max p] [--page n] [--limit n]
  product ID
  cart [show | add ID [QTY] | remove ID | set ID QTY | clear]
  checkout --name N --email E --phone P --address A --city C --district D [--note T] [--payment cod|bank|card|momo]
  orders
  order ID
  cancel ID

flags:
`

func main() {
	global := flag.NewFlagSet("shop", flag.ContinueOnError)
	global.SetInterspersed(false)
	global.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		global.PrintDefaults()
	}

	home, _ := os.UserHomeDir()
	apiURL := global.String("api", envOr("ELITE_API_URL", storefront.DefaultBaseURL), "API base URL")
	file := global.String("store", filepath.Join(home, ".elite-shop.json"), "local storage file")
	redisAddr := global.String("redis", os.Getenv("REDIS_ADDR"), "keep cart and session in Redis instead of the local file")
	redisPassword := global.String("redis-password", os.Getenv("REDIS_PASSWORD"), "Redis password")
	redisDB := global.Int("redis-db", 0, "Redis database")
	profile := global.String("profile", "default", "session name used to namespace Redis keys")
	timeout := global.Duration("timeout", 30*time.Second, "request timeout")

	if err := global.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}
	if global.NArg() == 0 {
		global.Usage()
		os.Exit(2)
	}

	var store storefront.Storage = storefront.NewFileStorage(*file)
	if *redisAddr != "" {
		client, err := storage.NewRedis(*redisAddr, *redisPassword, *redisDB)
		if err != nil {
			fail(err)
		}
		defer client.Close()
		store = storefront.NewRedisStorage(client, "elite-shop:"+*profile)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	shop := storefront.NewShop(*apiURL, store)
	if err := dispatch(ctx, shop, global.Args()); err != nil {
		fail(err)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}

var errUsage = errors.New("invalid arguments, run shop --help")

func dispatch(ctx context.Context, shop *storefront.Shop, args []string) error {
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "register":
		if len(rest) != 3 {
			return errUsage
		}
		a, err := shop.Client.Register(ctx, rest[0], rest[1], rest[2])
		if err != nil {
			return err
		}
		fmt.Printf("Đăng ký thành công. Xin chào %s!\n", a.Name)
	case "login":
		if len(rest) != 2 {
			return errUsage
		}
		a, err := shop.Client.Login(ctx, rest[0], rest[1])
		if err != nil {
			return err
		}
		fmt.Printf("Đăng nhập thành công. Xin chào %s (%s)\n", a.Name, a.Role)
	case "logout":
		return shop.Client.Logout(ctx)
	case "me":
		u, err := shop.Client.Me(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("%s <%s> role=%s id=%s\n", u.Name, u.Email, u.Role, u.ID)
	case "products":
		return listProducts(ctx, shop, rest)
	case "product":
		if len(rest) != 1 {
			return errUsage
		}
		p, err := shop.Client.Product(ctx, rest[0])
		if err != nil {
			return err
		}
		printProduct(p)
	case "cart":
		return cart(ctx, shop, rest)
	case "checkout":
		return checkout(ctx, shop, rest)
	case "orders":
		orders, err := shop.Client.MyOrders(ctx)
		if err != nil {
			return err
		}
		printOrders(orders)
	case "order":
		if len(rest) != 1 {
			return errUsage
		}
		o, err := shop.Client.Order(ctx, rest[0])
		if err != nil {
			return err
		}
		printOrder(o)
	case "cancel":
		if len(rest) != 1 {
			return errUsage
		}
		o, err := shop.Client.CancelOrder(ctx, rest[0])
		if err != nil {
			return err
		}
		fmt.Printf("Đã hủy đơn hàng %s\n", o.ID)
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
	return nil
}

func listProducts(ctx context.Context, shop *storefront.Shop, args []string) error {
	fs := flag.NewFlagSet("products", flag.ContinueOnError)
	var f product.Filter
	var minPrice, maxPrice float64
	fs.StringVar(&f.Category, "category", "", "men, women or accessories")
	fs.StringVar(&f.Badge, "badge", "", "new or sale")
	fs.StringVar(&f.Search, "search", "", "text in name or description")
	fs.StringVar(&f.Sort, "sort", "", "price-asc, price-desc or name (default newest)")
	fs.Float64Var(&minPrice, "min", 0, "minimum price")
	fs.Float64Var(&maxPrice, "max", 0, "maximum price")
	fs.IntVar(&f.Page, "page", 1, "page number")
	fs.IntVar(&f.Limit, "limit", product.DefaultLimit, "items per page")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.Changed("min") {
		f.PriceMin = &minPrice
	}
	if fs.Changed("max") {
		f.PriceMax = &maxPrice
	}

	list, err := shop.Client.Products(ctx, f)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTÊN\tDANH MỤC\tGIÁ\tNHÃN")
	for _, p := range list.Items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", p.ID, p.Name, p.Category, formatPrice(p.Price), p.Badge)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("Trang %d/%d, %d sản phẩm\n", list.Page, list.Pages, list.Total)
	return nil
}

func cart(ctx context.Context, shop *storefront.Shop, args []string) error {
	sub := "show"
	if len(args) > 0 {
		sub, args = args[0], args[1:]
	}

	switch sub {
	case "show":
	case "add":
		if len(args) < 1 || len(args) > 2 {
			return errUsage
		}
		qty := 1
		if len(args) == 2 {
			n, err := strconv.Atoi(args[1])
			if err != nil {
				return errUsage
			}
			qty = n
		}
		p, err := shop.Client.Product(ctx, args[0])
		if err != nil {
			return err
		}
		if _, err := shop.Cart.Add(ctx, storefront.Item{ProductID: p.ID, Name: p.Name, Price: p.Price, Image: p.Image, Quantity: qty}); err != nil {
			return err
		}
		fmt.Println("Đã thêm sản phẩm vào giỏ hàng!")
	case "remove":
		if len(args) != 1 {
			return errUsage
		}
		if err := shop.Cart.Remove(ctx, args[0]); err != nil {
			return err
		}
	case "set":
		if len(args) != 2 {
			return errUsage
		}
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return errUsage
		}
		if err := shop.Cart.UpdateQuantity(ctx, args[0], n); err != nil {
			return err
		}
	case "clear":
		return shop.Cart.Clear(ctx)
	default:
		return fmt.Errorf("unknown cart command %q", sub)
	}
	return showCart(ctx, shop)
}

func showCart(ctx context.Context, shop *storefront.Shop) error {
	items, err := shop.Cart.Items(ctx)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Println("Giỏ hàng trống")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTÊN\tSL\tĐƠN GIÁ\tTHÀNH TIỀN")
	var itemsPrice float64
	for _, it := range items {
		line := it.Price * float64(it.Quantity)
		itemsPrice += line
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n", it.ProductID, it.Name, it.Quantity, formatPrice(it.Price), formatPrice(line))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	shipping := storefront.ShippingFee(itemsPrice)
	fmt.Printf("Tạm tính: %s  Phí vận chuyển: %s  Tổng: %s\n",
		formatPrice(itemsPrice), formatPrice(shipping), formatPrice(itemsPrice+shipping))
	return nil
}

func checkout(ctx context.Context, shop *storefront.Shop, args []string) error {
	fs := flag.NewFlagSet("checkout", flag.ContinueOnError)
	var d storefront.CheckoutDetails
	fs.StringVar(&d.ShippingInfo.FullName, "name", "", "recipient name")
	fs.StringVar(&d.ShippingInfo.Email, "email", "", "contact email")
	fs.StringVar(&d.ShippingInfo.Phone, "phone", "", "contact phone")
	fs.StringVar(&d.ShippingInfo.Address, "address", "", "street address")
	fs.StringVar(&d.ShippingInfo.City, "city", "", "city")
	fs.StringVar(&d.ShippingInfo.District, "district", "", "district")
	fs.StringVar(&d.ShippingInfo.Note, "note", "", "delivery note")
	fs.StringVar(&d.PaymentMethod, "payment", order.MethodCOD, "cod, bank, card or momo")
	if err := fs.Parse(args); err != nil {
		return err
	}

	o, err := shop.Checkout(ctx, d)
	if err != nil {
		return err
	}
	fmt.Println("Đặt hàng thành công!")
	printOrder(o)
	return nil
}

func printProduct(p product.Product) {
	fmt.Printf("%s\n  %s\n  Giá: %s", p.Name, p.Description, formatPrice(p.Price))
	if p.OriginalPrice != nil {
		fmt.Printf(" (gốc %s)", formatPrice(*p.OriginalPrice))
	}
	fmt.Printf("\n  Danh mục: %s  Còn: %d  Đã bán: %d  Đánh giá: %.1f\n", p.Category, p.Stock, p.Sold, p.Rating)
}

func printOrders(orders []order.Order) {
	if len(orders) == 0 {
		fmt.Println("Chưa có đơn hàng")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNGÀY\tTRẠNG THÁI\tTHANH TOÁN\tTỔNG")
	for _, o := range orders {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", o.ID, o.CreatedAt.Local().Format("02/01/2006 15:04"),
			o.OrderStatus, o.PaymentStatus, formatPrice(o.TotalPrice))
	}
	_ = w.Flush()
}

func printOrder(o order.Order) {
	fmt.Printf("Đơn hàng %s (%s, thanh toán %s qua %s)\n", o.ID, o.OrderStatus, o.PaymentStatus, o.PaymentMethod)
	for _, it := range o.OrderItems {
		fmt.Printf("  %d x %s  %s\n", it.Quantity, it.Name, formatPrice(it.Price))
	}
	fmt.Printf("  Giao đến: %s, %s, %s, %s\n", o.ShippingInfo.FullName, o.ShippingInfo.Address, o.ShippingInfo.District, o.ShippingInfo.City)
	fmt.Printf("  Tạm tính %s + vận chuyển %s = %s\n", formatPrice(o.ItemsPrice), formatPrice(o.ShippingPrice), formatPrice(o.TotalPrice))
}

// formatPrice renders whole dong with dot thousands separators, e.g. 1.200.000 ₫.
func formatPrice(v float64) string {
	digits := strconv.FormatInt(int64(v+0.5), 10)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	return b.String() + " ₫"
}
