// cmd/devsync/main.go
//
// devsync is a development tool that drives the cart/wishlist sync engines
// against a real Firestore project, the same way a storefront device would:
//
//	go run ./cmd/devsync -uid <uid> -add <productId> -size M -color red
//	go run ./cmd/devsync -uid <uid> -wish <productId>
//	go run ./cmd/devsync -uid <uid> -watch 30s
//
// Local state lives in LOCAL_STORE_PATH and survives between runs, so
// guest-then-login merge behavior can be exercised end to end.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"boutique/internal/adapters/out/firestore"
	"boutique/internal/adapters/out/localstore"
	cartdom "boutique/internal/domain/cart"
	appcfg "boutique/internal/infra/config"
	firestoreinfra "boutique/internal/infra/firestore"
	"boutique/internal/syncengine"
)

func main() {
	var (
		uid   = flag.String("uid", "", "sign in as this uid (empty = stay guest)")
		add   = flag.String("add", "", "add this productId to the cart")
		size  = flag.String("size", "", "size for -add")
		color = flag.String("color", "", "color for -add")
		qty   = flag.Int("qty", 1, "quantity for -add")
		price = flag.Float64("price", 0, "unit price for -add")
		wish  = flag.String("wish", "", "toggle this productId on the wishlist")
		watch = flag.Duration("watch", 2*time.Second, "how long to stay online after mutations")
	)
	flag.Parse()

	cfg := appcfg.Load()
	ctx := context.Background()

	cw, err := firestoreinfra.NewClient(ctx, cfg.FirestoreProjectID, cfg.FirestoreCredentialsFile)
	if err != nil {
		log.Fatalf("[devsync] firestore init failed: %v", err)
	}
	defer cw.Close()
	if err := cw.Ping(ctx); err != nil {
		log.Fatalf("[devsync] firestore ping failed: %v", err)
	}

	store, err := localstore.NewFileStore(cfg.LocalStorePath)
	if err != nil {
		log.Fatalf("[devsync] local store init failed (%s): %v", cfg.LocalStorePath, err)
	}

	cartEngine, err := syncengine.NewCartEngine(store,
		firestore.NewCartRepositoryFS(cw.Client),
		syncengine.WithDebounce(cfg.SyncDebounce))
	if err != nil {
		log.Fatalf("[devsync] cart engine init failed: %v", err)
	}
	defer cartEngine.Close()

	wishEngine, err := syncengine.NewWishlistEngine(store,
		firestore.NewWishlistRepositoryFS(cw.Client),
		syncengine.WithDebounce(cfg.SyncDebounce))
	if err != nil {
		log.Fatalf("[devsync] wishlist engine init failed: %v", err)
	}
	defer wishEngine.Close()

	if *uid != "" {
		if err := cartEngine.OnLogin(ctx, *uid); err != nil {
			log.Fatalf("[devsync] cart login failed: %v", err)
		}
		if err := wishEngine.OnLogin(ctx, *uid); err != nil {
			log.Fatalf("[devsync] wishlist login failed: %v", err)
		}
		log.Printf("[devsync] signed in uid=%s", *uid)
	}

	if *add != "" {
		err := cartEngine.Apply(func(c *cartdom.Cart) error {
			return c.Add(cartdom.Item{
				ProductID: *add,
				Size:      *size,
				Color:     *color,
				Qty:       *qty,
				UnitPrice: *price,
			}, time.Now().UTC())
		})
		if err != nil {
			log.Fatalf("[devsync] cart add failed: %v", err)
		}
		log.Printf("[devsync] cart add queued product=%s", *add)
	}

	if *wish != "" {
		on, err := wishEngine.Toggle(*wish)
		if err != nil {
			log.Fatalf("[devsync] wishlist toggle failed: %v", err)
		}
		log.Printf("[devsync] wishlist toggle product=%s now=%v", *wish, on)
	}

	// stay online so the debounced push (and any remote callbacks) drain
	time.Sleep(*watch)

	c := cartEngine.Cart()
	log.Printf("[devsync] cart items=%d total=%.2f coupon=%q", len(c.Items), c.Total(), c.CouponCode)
	log.Printf("[devsync] wishlist items=%v", wishEngine.Wishlist().Items)
}
