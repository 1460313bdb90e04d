package main

import (
	"log/slog"
	"time"

	accountapp "github.com/dwikikusuma/credpos/internal/account/app"
	accounthttp "github.com/dwikikusuma/credpos/internal/account/httpapi"
	accountkv "github.com/dwikikusuma/credpos/internal/account/infra/kv"

	catalogapp "github.com/dwikikusuma/credpos/internal/catalog/app"
	cataloghttp "github.com/dwikikusuma/credpos/internal/catalog/httpapi"
	catalogkv "github.com/dwikikusuma/credpos/internal/catalog/infra/kv"

	cartapp "github.com/dwikikusuma/credpos/internal/cart/app"
	carthttp "github.com/dwikikusuma/credpos/internal/cart/httpapi"
	cartadapter "github.com/dwikikusuma/credpos/internal/cart/infra/adapter"
	cartmemory "github.com/dwikikusuma/credpos/internal/cart/infra/memory"

	checkoutapp "github.com/dwikikusuma/credpos/internal/checkout/app"
	checkouthttp "github.com/dwikikusuma/credpos/internal/checkout/httpapi"
	checkoutadapter "github.com/dwikikusuma/credpos/internal/checkout/infra/adapter"
	checkoutkv "github.com/dwikikusuma/credpos/internal/checkout/infra/kv"

	salesapp "github.com/dwikikusuma/credpos/internal/sales/app"
	saleshttp "github.com/dwikikusuma/credpos/internal/sales/httpapi"
	saleskv "github.com/dwikikusuma/credpos/internal/sales/infra/kv"

	"github.com/dwikikusuma/credpos/internal/seed"
	"github.com/dwikikusuma/credpos/internal/storage"
)

// application holds every service and handler built over one store.
type application struct {
	store storage.Store
	log   *slog.Logger

	accounts *accountkv.AccountRepo
	seeder   *seed.Seeder

	accountSvc  *accountapp.Service
	catalogSvc  *catalogapp.Service
	cartSvc     *cartapp.Service
	checkoutSvc *checkoutapp.Service
	salesSvc    *salesapp.Service

	accountHTTP  *accounthttp.Handler
	catalogHTTP  *cataloghttp.Handler
	cartHTTP     *carthttp.Handler
	checkoutHTTP *checkouthttp.Handler
	salesHTTP    *saleshttp.Handler
}

func wire(store storage.Store, loc *time.Location, log *slog.Logger) (*application, error) {
	seeder, err := seed.New(store, log)
	if err != nil {
		return nil, err
	}

	// Account
	accounts := accountkv.NewAccountRepo(store)
	accountSvc := accountapp.NewService(accounts, accountkv.NewSessionRepo(store), seeder, log)

	// Catalog
	catalogSvc := catalogapp.NewService(catalogkv.NewProductRepo(store))

	// Cart
	cartSvc := cartapp.NewService(cartmemory.NewCartRepo(), cartadapter.NewCatalogServiceReader(catalogSvc), log)

	// Checkout (adapters)
	cartReader := checkoutadapter.NewCartServiceReader(cartSvc)
	checkoutSvc := checkoutapp.NewService(checkoutkv.NewLedger(store), cartReader, log)

	// Sales
	salesSvc := salesapp.NewService(saleskv.NewTransactionRepo(store), loc)

	return &application{
		store:        store,
		log:          log,
		accounts:     accounts,
		seeder:       seeder,
		accountSvc:   accountSvc,
		catalogSvc:   catalogSvc,
		cartSvc:      cartSvc,
		checkoutSvc:  checkoutSvc,
		salesSvc:     salesSvc,
		accountHTTP:  accounthttp.NewHandler(accountSvc),
		catalogHTTP:  cataloghttp.NewHandler(catalogSvc),
		cartHTTP:     carthttp.NewHandler(cartSvc),
		checkoutHTTP: checkouthttp.NewHandler(checkoutSvc),
		salesHTTP:    saleshttp.NewHandler(salesSvc),
	}, nil
}
