package main

import (
	"fmt"
	"time"

	"github.com/vitrine-next/internal/config"
	"github.com/vitrine-next/internal/constants"
	"github.com/vitrine-next/internal/logger"
	"github.com/vitrine-next/internal/models"
	"github.com/vitrine-next/internal/service"

	"github.com/shopspring/decimal"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// Pricing configuration (single active row)
	pricing := models.PricingConfig{
		Label:                         "default-brl",
		MaxInstallments:               12,
		InterestFreeInstallments:      3,
		SaleInterestFreeInstallments:  1,
		PixDiscountPct:                models.NewMoneyFromDecimal(decimal.NewFromInt(5)),
		CashDiscountPct:               models.NewMoneyFromDecimal(decimal.NewFromInt(3)),
		PixDiscountAppliesToSaleItems: false,
		InterestMode:                  constants.InterestModeByInstallment,
		MonthlyRateFixed:              models.NewMoneyFromDecimal(decimal.NewFromFloat(1.99)),
		MonthlyRatesJSON:              `{"4":"1.49","5":"1.69","6":"1.99","7":"2.09","8":"2.19","9":"2.29","10":"2.39","11":"2.49","12":"2.59"}`,
		MinInstallmentValue:           models.NewMoneyFromDecimal(decimal.NewFromInt(5)),
		RoundingMode:                  constants.RoundingModeAdjustLast,
		IsActive:                      true,
	}
	var existingPricing models.PricingConfig
	if err := models.DB.Where("label = ?", pricing.Label).First(&existingPricing).Error; err != nil {
		if err := models.DB.Create(&pricing).Error; err != nil {
			stdLog.Printf("Failed to create pricing config %s: %v", pricing.Label, err)
		} else {
			stdLog.Printf("Created pricing config: %s", pricing.Label)
		}
	} else {
		stdLog.Printf("Pricing config already exists: %s", existingPricing.Label)
	}

	// Products with variants
	fullPrice := func(v float64) models.Money { return models.NewMoneyFromDecimal(decimal.NewFromFloat(v)) }
	salePrice := func(v float64) *models.Money {
		m := models.NewMoneyFromDecimal(decimal.NewFromFloat(v))
		return &m
	}

	products := []struct {
		Product  models.Product
		Variants []models.ProductVariant
	}{
		{
			Product: models.Product{
				Slug:        "camiseta-basica",
				Name:        "Camiseta Básica",
				PriceAmount: fullPrice(79.90),
				IsActive:    true,
				SortOrder:   300,
			},
			Variants: []models.ProductVariant{
				{Name: "P", Stock: 25, IsActive: true, SortOrder: 30},
				{Name: "M", Stock: 40, IsActive: true, SortOrder: 20},
				{Name: "GG", Stock: 10, IsActive: true, SortOrder: 10,
					PriceModifierAmount: fullPrice(5.00)},
			},
		},
		{
			Product: models.Product{
				Slug:            "tenis-corrida",
				Name:            "Tênis de Corrida",
				PriceAmount:     fullPrice(399.90),
				SalePriceAmount: salePrice(329.90),
				IsActive:        true,
				SortOrder:       200,
			},
			Variants: []models.ProductVariant{
				{Name: "38", Stock: 8, IsActive: true, SortOrder: 30},
				{Name: "40", Stock: 12, IsActive: true, SortOrder: 20},
				{Name: "42", Stock: 5, IsActive: true, SortOrder: 10},
			},
		},
		{
			Product: models.Product{
				Slug:        "mochila-urbana",
				Name:        "Mochila Urbana",
				PriceAmount: fullPrice(249.90),
				IsActive:    true,
				SortOrder:   100,
			},
			Variants: []models.ProductVariant{
				{Name: "20L", Stock: 15, IsActive: true, SortOrder: 20,
					BasePriceAmount: salePrice(249.90)},
				{Name: "30L", Stock: 3, IsActive: true, SortOrder: 10,
					BasePriceAmount: salePrice(289.90),
					SalePriceAmount: salePrice(259.90)},
			},
		},
	}

	for _, entry := range products {
		prod := entry.Product
		var existing models.Product
		if err := models.DB.Where("slug = ?", prod.Slug).First(&existing).Error; err != nil {
			if err := models.DB.Create(&prod).Error; err != nil {
				stdLog.Printf("Failed to create product %s: %v", prod.Slug, err)
				continue
			}
			stdLog.Printf("Created product: %s", prod.Slug)
		} else {
			existing.Name = prod.Name
			existing.PriceAmount = prod.PriceAmount
			existing.SalePriceAmount = prod.SalePriceAmount
			existing.IsActive = prod.IsActive
			existing.SortOrder = prod.SortOrder
			if err := models.DB.Save(&existing).Error; err != nil {
				stdLog.Printf("Failed to update product %s: %v", prod.Slug, err)
				continue
			}
			prod = existing
			stdLog.Printf("Updated product: %s", prod.Slug)
		}

		for _, variant := range entry.Variants {
			variant.ProductID = prod.ID
			var existingVariant models.ProductVariant
			if err := models.DB.Where("product_id = ? AND name = ?", prod.ID, variant.Name).First(&existingVariant).Error; err != nil {
				if err := models.DB.Create(&variant).Error; err != nil {
					stdLog.Printf("Failed to create variant %s/%s: %v", prod.Slug, variant.Name, err)
				} else {
					stdLog.Printf("Created variant: %s/%s (stock=%d)", prod.Slug, variant.Name, variant.Stock)
				}
			} else {
				existingVariant.BasePriceAmount = variant.BasePriceAmount
				existingVariant.SalePriceAmount = variant.SalePriceAmount
				existingVariant.PriceModifierAmount = variant.PriceModifierAmount
				existingVariant.Stock = variant.Stock
				existingVariant.IsActive = variant.IsActive
				existingVariant.SortOrder = variant.SortOrder
				if err := models.DB.Save(&existingVariant).Error; err != nil {
					stdLog.Printf("Failed to update variant %s/%s: %v", prod.Slug, variant.Name, err)
				} else {
					stdLog.Printf("Updated variant: %s/%s (stock=%d)", prod.Slug, variant.Name, existingVariant.Stock)
				}
			}
		}
	}

	// Coupons (codes stored upper-case)
	couponExpiry := time.Now().AddDate(0, 3, 0)
	coupons := []models.Coupon{
		{
			Code:          "BEMVINDO10",
			DiscountType:  constants.CouponTypePercentage,
			DiscountValue: fullPrice(10),
			ExpiresAt:     &couponExpiry,
			IsActive:      true,
		},
		{
			Code:          "FRETE20",
			DiscountType:  constants.CouponTypeFixed,
			DiscountValue: fullPrice(20),
			IsActive:      true,
		},
	}
	for _, coupon := range coupons {
		var existing models.Coupon
		if err := models.DB.Where("code = ?", coupon.Code).First(&existing).Error; err != nil {
			if err := models.DB.Create(&coupon).Error; err != nil {
				stdLog.Printf("Failed to create coupon %s: %v", coupon.Code, err)
			} else {
				stdLog.Printf("Created coupon: %s", coupon.Code)
			}
		} else {
			stdLog.Printf("Coupon already exists: %s", coupon.Code)
		}
	}

	// Demo user
	user := models.User{
		Email:  "demo@vitrine.local",
		Name:   "Demo User",
		Status: constants.UserStatusActive,
	}
	var existingUser models.User
	if err := models.DB.Where("email = ?", user.Email).First(&existingUser).Error; err != nil {
		if err := models.DB.Create(&user).Error; err != nil {
			stdLog.Printf("Failed to create user %s: %v", user.Email, err)
		} else {
			stdLog.Printf("Created user: %s", user.Email)
		}
	} else {
		user = existingUser
		stdLog.Printf("User already exists: %s", user.Email)
	}

	// Demo guest order awaiting payment. The plain access token is printed
	// once here; only the bcrypt hash is stored.
	guestOrderNo := "VN-DEMO-0001"
	var existingOrder models.Order
	if err := models.DB.Where("order_no = ?", guestOrderNo).First(&existingOrder).Error; err != nil {
		token, hash, err := service.GenerateOrderAccessToken()
		if err != nil {
			stdLog.Fatalf("Failed to generate order access token: %v", err)
		}

		var demoProduct models.Product
		var variant models.ProductVariant
		if err := models.DB.Where("slug = ?", "tenis-corrida").First(&demoProduct).Error; err != nil {
			stdLog.Printf("Skip demo order: seed product not found: %v", err)
		} else if err := models.DB.Where("product_id = ? AND name = ?", demoProduct.ID, "40").First(&variant).Error; err != nil {
			stdLog.Printf("Skip demo order: seed variant not found: %v", err)
		} else {
			order := models.Order{
				OrderNo:         guestOrderNo,
				UserID:          0,
				CustomerEmail:   "guest@vitrine.local",
				CustomerName:    "Guest Buyer",
				AccessTokenHash: hash,
				Status:          constants.OrderStatusPendingPayment,
				Currency:        constants.SiteCurrencyDefault,
				Subtotal:        fullPrice(329.90),
				ShippingCost:    fullPrice(24.90),
				TotalAmount:     fullPrice(354.80),
				Items: []models.OrderItem{
					{
						VariantID:       variant.ID,
						Name:            "Tênis de Corrida / 40",
						Quantity:        1,
						UnitPriceAmount: fullPrice(329.90),
						TotalPrice:      fullPrice(329.90),
						IsOnSale:        true,
					},
				},
			}
			if err := models.DB.Create(&order).Error; err != nil {
				stdLog.Printf("Failed to create demo order: %v", err)
			} else {
				stdLog.Printf("Created demo guest order: %s", order.OrderNo)
				fmt.Printf("\nGuest order access token (save it, shown only once): %s\n", token)
			}
		}
	} else {
		stdLog.Printf("Demo order already exists: %s", existingOrder.OrderNo)
	}

	fmt.Println("\n✅ Seed data created successfully!")
	fmt.Println("Summary:")
	fmt.Println("- 1 Pricing config (active)")
	fmt.Println("- 3 Products with variants and stock")
	fmt.Println("- 2 Coupons (BEMVINDO10, FRETE20)")
	fmt.Println("- 1 Demo user (demo@vitrine.local)")
	fmt.Println("- 1 Guest order pending payment (VN-DEMO-0001)")
}
