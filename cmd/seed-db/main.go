package main

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/StpaPSBB/storefront/internal/domain/auth"
	"github.com/StpaPSBB/storefront/internal/domain/item"
	"github.com/StpaPSBB/storefront/internal/domain/money"
	"github.com/StpaPSBB/storefront/internal/domain/promo"
	"github.com/StpaPSBB/storefront/internal/storage/postgres"
)

// itemJSON is the seed file entry format. Prices are integer minor units.
type itemJSON struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	Currency    string `json:"currency"`
}

func main() {
	var (
		databaseURL  string
		itemsFile    string
		apiKey       string
		apiKeyPepper string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&itemsFile, "items-file", "db/seed/items.json", "path to catalog items JSON file")
	flag.StringVar(&apiKey, "api-key", "", "management API key to seed (or STORE_SEED_API_KEY env)")
	flag.StringVar(&apiKeyPepper, "api-key-pepper", "", "HMAC pepper for API key hashing (or STORE_SECURITY_API_KEY_PEPPER env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}
	if apiKey == "" {
		apiKey = os.Getenv("STORE_SEED_API_KEY")
	}
	if apiKey == "" {
		slog.Error("API key is required: set --api-key or STORE_SEED_API_KEY")
		os.Exit(1)
	}
	if apiKeyPepper == "" {
		apiKeyPepper = os.Getenv("STORE_SECURITY_API_KEY_PEPPER")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, itemsFile, apiKey, apiKeyPepper); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, itemsFile, apiKey, pepper string) error {
	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	if err := seedItems(ctx, postgres.NewItemRepository(pool), itemsFile); err != nil {
		return errors.Wrap(err, "seed items")
	}

	if err := seedPromos(ctx, postgres.NewPromoRepository(pool)); err != nil {
		return errors.Wrap(err, "seed promotions")
	}

	if err := seedAPIKey(ctx, postgres.NewAPIKeyRepository(pool), apiKey, pepper); err != nil {
		return errors.Wrap(err, "seed api key")
	}

	return nil
}

func seedItems(ctx context.Context, items *postgres.ItemRepository, itemsFile string) error {
	slog.Info("reading items file", slog.String("path", itemsFile))

	data, err := os.ReadFile(itemsFile)
	if err != nil {
		return errors.Wrap(err, "read items file")
	}

	var entries []itemJSON
	if err := json.Unmarshal(data, &entries); err != nil {
		return errors.Wrap(err, "parse items JSON")
	}

	slog.Info("upserting items", slog.Int("count", len(entries)))

	for _, e := range entries {
		currency, err := money.ParseCurrency(e.Currency)
		if err != nil {
			return errors.Wrapf(err, "item %s", e.ID)
		}

		it := item.Item{
			ID:          e.ID,
			Name:        e.Name,
			Description: e.Description,
			Price:       e.Price,
			Currency:    currency,
		}
		if err := it.Validate(); err != nil {
			return errors.Wrapf(err, "item %s", e.ID)
		}
		if err := items.Upsert(ctx, &it); err != nil {
			return errors.Wrapf(err, "upsert item %s", e.ID)
		}

		slog.Info("upserted item", slog.String("id", e.ID), slog.String("name", e.Name))
	}

	return nil
}

// seedPromos creates a starter discount and tax. The seeder runs without
// gateway credentials, so they are stored unregistered and checkout refuses
// them until an operator registers each one via the management API
// (POST /admin/discounts/{id}/register and /admin/taxes/{id}/register).
func seedPromos(ctx context.Context, promos *postgres.PromoRepository) error {
	slog.Info("seeding starter promotions")

	discounts := []promo.Discount{
		{
			ID:         uuid.New().String(),
			Name:       "WELCOME10",
			PercentOff: 10,
			Duration:   promo.DurationOnce,
			Currency:   money.USD,
		},
	}
	for i := range discounts {
		d := &discounts[i]
		if existing, err := promos.FindDiscountByName(ctx, d.Name); err == nil {
			slog.Info("discount already present", slog.String("name", existing.Name))
			continue
		} else if !errors.Is(err, promo.ErrNotFound) {
			return errors.Wrapf(err, "lookup discount %s", d.Name)
		}
		if err := promos.CreateDiscount(ctx, d); err != nil {
			return errors.Wrapf(err, "create discount %s", d.Name)
		}
		slog.Info("created discount", slog.String("name", d.Name), slog.Int("percent_off", d.PercentOff))
	}

	taxes := []promo.Tax{
		{
			ID:         uuid.New().String(),
			Name:       "VAT",
			Percentage: 10,
			Currency:   money.USD,
		},
	}
	for i := range taxes {
		t := &taxes[i]
		if existing, err := promos.FindTaxByName(ctx, t.Name); err == nil {
			slog.Info("tax already present", slog.String("name", existing.Name))
			continue
		} else if !errors.Is(err, promo.ErrNotFound) {
			return errors.Wrapf(err, "lookup tax %s", t.Name)
		}
		if err := promos.CreateTax(ctx, t); err != nil {
			return errors.Wrapf(err, "create tax %s", t.Name)
		}
		slog.Info("created tax", slog.String("name", t.Name), slog.Int("percentage", t.Percentage))
	}

	return nil
}

func seedAPIKey(ctx context.Context, apikeys *postgres.APIKeyRepository, apiKey, pepper string) error {
	slog.Info("seeding default management API key")

	mac := hmac.New(sha256.New, []byte(pepper))
	mac.Write([]byte(apiKey))
	keyHash := hex.EncodeToString(mac.Sum(nil))

	info := auth.APIKeyInfo{
		ID:      "default",
		KeyHash: keyHash,
		Name:    "Default management key",
		Scopes:  []string{"manage_store"},
	}
	if err := apikeys.Upsert(ctx, &info, true); err != nil {
		return errors.Wrap(err, "upsert default API key")
	}

	slog.Info("upserted API key", slog.String("id", info.ID), slog.String("name", info.Name))

	return nil
}
