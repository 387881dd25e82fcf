// Command cli 初始化管理员、商家、分类与商品等基础数据。
//
//	cli admin    --name root --password secret --phone 13800000000
//	cli merchant --name shop --password secret --phone 13900000000 --shop "Noodle Bar"
//	cli category --name Noodles
//	cli product  --merchant-id 1 --name "Beef Noodles" --price 18.50
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"github.com/spf13/pflag"

	"github.com/d60-Lab/waimai/config"
	"github.com/d60-Lab/waimai/internal/model"
	"github.com/d60-Lab/waimai/internal/repository"
	"github.com/d60-Lab/waimai/internal/service"
	"github.com/d60-Lab/waimai/pkg/auth"
	"github.com/d60-Lab/waimai/pkg/database"
	"github.com/d60-Lab/waimai/pkg/logger"
)

type app struct {
	auth       service.AuthService
	merchants  service.MerchantService
	products   service.ProductService
	categories service.CategoryService
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fail(err)
	}
	if err := logger.Init(cfg.Log); err != nil {
		fail(err)
	}
	db, err := database.InitDB(cfg)
	if err != nil {
		fail(err)
	}
	defer func() { _ = database.Close(db) }()
	if err := database.AutoMigrate(db); err != nil {
		fail(err)
	}

	repos := repository.NewRepositories(db)
	tokens := auth.NewManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Audience, cfg.JWT.Expire)
	a := &app{
		auth:       service.NewAuthService(repos.Users, tokens, nil),
		merchants:  service.NewMerchantService(repos.Users, repos.Merchants, nil),
		products:   service.NewProductService(repos.Merchants, repos.Products),
		categories: service.NewCategoryService(repos.Categories),
	}

	ctx := context.Background()
	cmd, args := os.Args[1], os.Args[2:]
	switch cmd {
	case "admin":
		err = a.createUser(ctx, args, model.UserTypeAdmin)
	case "merchant":
		err = a.createMerchant(ctx, args)
	case "category":
		err = a.createCategory(ctx, args)
	case "product":
		err = a.createProduct(ctx, args)
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fail(err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: cli <admin|merchant|category|product> [flags]")
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}

func userFlags(fs *pflag.FlagSet) (name, password, phone, address *string) {
	name = fs.String("name", "", "login name")
	password = fs.String("password", "", "login password")
	phone = fs.String("phone", "", "phone number")
	address = fs.String("address", "", "contact address")
	return
}

func (a *app) createUser(ctx context.Context, args []string, typ model.UserType) error {
	fs := pflag.NewFlagSet("admin", pflag.ExitOnError)
	name, password, phone, address := userFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	u, err := a.auth.CreateUser(ctx, service.RegisterInput{Name: *name, Password: *password, Phone: *phone, Address: *address, Type: typ})
	if err != nil {
		return err
	}
	fmt.Printf("created user id=%d name=%s\n", u.ID, u.Name)
	return nil
}

func (a *app) createMerchant(ctx context.Context, args []string) error {
	fs := pflag.NewFlagSet("merchant", pflag.ExitOnError)
	name, password, phone, address := userFlags(fs)
	shop := fs.String("shop", "", "shop name")
	shopAddr := fs.String("shop-address", "", "shop address")
	intro := fs.String("intro", "", "shop introduction")
	if err := fs.Parse(args); err != nil {
		return err
	}

	u, err := a.auth.CreateUser(ctx, service.RegisterInput{Name: *name, Password: *password, Phone: *phone, Address: *address, Type: model.UserTypeMerchant})
	if err != nil {
		return err
	}
	m := &model.Merchant{UserID: u.ID, ShopName: *shop, ShopAddress: *shopAddr, ContactPhone: *phone, ShopIntro: *intro}
	if err := a.merchants.Create(ctx, m); err != nil {
		return err
	}
	fmt.Printf("created merchant id=%d user_id=%d shop=%s\n", m.ID, u.ID, m.ShopName)
	return nil
}

func (a *app) createCategory(ctx context.Context, args []string) error {
	fs := pflag.NewFlagSet("category", pflag.ExitOnError)
	name := fs.String("name", "", "category name")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *name == "" {
		return fmt.Errorf("--name is required")
	}
	if err := a.categories.Create(ctx, *name); err != nil {
		return err
	}
	fmt.Printf("category %s ready\n", *name)
	return nil
}

func (a *app) createProduct(ctx context.Context, args []string) error {
	fs := pflag.NewFlagSet("product", pflag.ExitOnError)
	merchantID := fs.Int64("merchant-id", 0, "owning merchant id")
	categoryID := fs.Int64("category-id", 0, "category id (optional)")
	name := fs.String("name", "", "product name")
	price := fs.String("price", "0", "unit price, e.g. 12.50")
	desc := fs.String("description", "", "description")
	if err := fs.Parse(args); err != nil {
		return err
	}

	amount, err := decimal.NewFromString(*price)
	if err != nil {
		return fmt.Errorf("invalid --price: %w", err)
	}
	p := &model.Product{MerchantID: *merchantID, Name: *name, Price: amount, Description: *desc, IsAvailable: true}
	if *categoryID > 0 {
		p.CategoryID = categoryID
	}
	if err := a.products.Create(ctx, p); err != nil {
		return err
	}
	fmt.Printf("created product id=%d merchant_id=%d price=%s\n", p.ID, p.MerchantID, p.Price.StringFixed(2))
	return nil
}
