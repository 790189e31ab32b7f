package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"setoran/internal/config"
	"setoran/internal/database"
	"setoran/internal/logger"
	"setoran/internal/model"
	"setoran/internal/repository"
	"setoran/pkg/timezone"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	// CLI flags
	adminUsername := flag.String("admin", "", "Admin username")
	username := flag.String("user", "", "Depositing user username")
	goodName := flag.String("good", "", "Good name")
	qty := flag.Int("qty", 0, "Quantity on the seeded deposit item")
	price := flag.String("price", "", "Unit price")
	flag.Parse()

	// Fall back to environment variables, then defaults
	*adminUsername = fallback(*adminUsername, os.Getenv("SEED_ADMIN"), "admin")
	*username = fallback(*username, os.Getenv("SEED_USER"), "budi")
	*goodName = fallback(*goodName, os.Getenv("SEED_GOOD"), "Roti Coklat")
	*price = fallback(*price, os.Getenv("SEED_PRICE"), "2500")
	if *qty == 0 {
		if n, err := strconv.Atoi(os.Getenv("SEED_QTY")); err == nil && n > 0 {
			*qty = n
		} else {
			*qty = 10
		}
	}

	unitPrice, err := decimal.NewFromString(*price)
	if err != nil || !unitPrice.IsPositive() {
		log.Fatalf("Invalid price %q", *price)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}
	zl, err := logger.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Logger init failed: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	db, err := database.NewConnection(cfg.DatabaseURL, database.Options{}, zl)
	if err != nil {
		zl.Fatal("Unable to connect to database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		zl.Fatal("Migration failed", zap.Error(err))
	}

	ctx := context.Background()
	users := repository.NewUserRepository(db)
	tm := repository.NewTransactionManager(db, cfg.DBLockTimeout)

	// Seed in one transaction
	err = tm.RunInTx(ctx, func(txCtx context.Context) error {
		admin, err := ensureUser(txCtx, users, *adminUsername, "Admin", model.RoleAdmin)
		if err != nil {
			return err
		}
		user, err := ensureUser(txCtx, users, *username, "User "+*username, model.RoleUser)
		if err != nil {
			return err
		}

		item, err := seedDepositItem(repository.GetDB(txCtx, db), user.ID, *goodName, *qty, unitPrice)
		if err != nil {
			return err
		}

		if err := repository.NewLedgerRepository(db).InitBalance(txCtx); err != nil {
			return fmt.Errorf("init balance: %w", err)
		}

		zl.Info("Seed complete",
			zap.String("admin_id", admin.ID.String()),
			zap.String("user_id", user.ID.String()),
			zap.String("deposit_item_id", item.ID.String()),
			zap.Int("qty", item.Qty),
			zap.String("unit_price", item.UnitPrice.String()),
		)
		return nil
	})
	if err != nil {
		zl.Fatal("Seed failed", zap.Error(err))
	}
}

func fallback(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// ensureUser returns the existing user with that username or creates it
func ensureUser(ctx context.Context, users repository.UserRepository, username, fullName string, role model.UserRole) (*model.User, error) {
	existing, err := users.GetByUsername(ctx, username)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("lookup %s: %w", username, err)
	}

	u := &model.User{FullName: fullName, Username: username, Role: role}
	if err := users.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("create %s: %w", username, err)
	}
	return u, nil
}

// seedDepositItem hands the user one pickup of today's stock of the good
func seedDepositItem(tx *gorm.DB, userID uuid.UUID, goodName string, qty int, unitPrice decimal.Decimal) (*model.DepositItem, error) {
	var good model.Good
	err := tx.Where(model.Good{Name: goodName}).Attrs(model.Good{Price: unitPrice}).FirstOrCreate(&good).Error
	if err != nil {
		return nil, fmt.Errorf("seed good: %w", err)
	}

	now := time.Now()
	stock := model.DailyStock{GoodID: good.ID, DistributedOn: timezone.DayRange(now).Start.In(timezone.WIB), Qty: qty}
	if err := tx.Create(&stock).Error; err != nil {
		return nil, fmt.Errorf("seed daily stock: %w", err)
	}

	pickup := model.Pickup{UserID: userID, Status: model.PickupTaken, TakenAt: now}
	if err := tx.Create(&pickup).Error; err != nil {
		return nil, fmt.Errorf("seed pickup: %w", err)
	}

	item := model.DepositItem{
		PickupID:     pickup.ID,
		DailyStockID: stock.ID,
		Qty:          qty,
		UnitPrice:    unitPrice,
		TotalPrice:   unitPrice.Mul(decimal.NewFromInt(int64(qty))),
	}
	if err := tx.Create(&item).Error; err != nil {
		return nil, fmt.Errorf("seed deposit item: %w", err)
	}
	return &item, nil
}
