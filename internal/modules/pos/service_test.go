package pos

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/tmwale/pos-backend/internal/db"
	"github.com/tmwale/pos-backend/internal/modules/inventory"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	// SQLite allows one writer; a single pooled connection serializes the
	// concurrent checkout test the same way row locks would in Postgres.
	conn.SetMaxOpenConns(1)
	if err := db.Migrate(context.Background(), conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func setupService(t *testing.T) (Service, *sql.DB) {
	t.Helper()
	conn := setupTestDB(t)
	return NewService(NewPostgresRepository(conn), zap.NewNop()), conn
}

func seedProduct(t *testing.T, conn *sql.DB, name, barcode string, price float64, stock int) uuid.UUID {
	t.Helper()
	id := uuid.New()
	now := time.Now().UTC()
	_, err := conn.Exec(`
		INSERT INTO products (id, name, category, price, barcode, stock, image, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		id, name, "", price, barcode, stock, "", now, now)
	if err != nil {
		t.Fatalf("seed product %s: %v", barcode, err)
	}
	return id
}

func stockOf(t *testing.T, conn *sql.DB, id uuid.UUID) int {
	t.Helper()
	var stock int
	if err := conn.QueryRow(`SELECT stock FROM products WHERE id=$1`, id).Scan(&stock); err != nil {
		t.Fatalf("read stock: %v", err)
	}
	return stock
}

func countSales(t *testing.T, conn *sql.DB) int {
	t.Helper()
	var n int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM sales`).Scan(&n); err != nil {
		t.Fatalf("count sales: %v", err)
	}
	return n
}

// Walks the worked example: sell 3 of 5, fail to sell 3 more, refund the
// receipt as resellable and get the stock back.
func TestCheckoutThenRefundRoundTrip(t *testing.T) {
	svc, conn := setupService(t)
	ctx := context.Background()
	productID := seedProduct(t, conn, "Product A", "1111", 50.00, 5)

	receiptID, err := svc.Checkout(ctx, CheckoutRequest{Items: []CartItem{{Barcode: "1111", Quantity: 3}}})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if stockOf(t, conn, productID) != 2 {
		t.Fatalf("expected stock 2 got %d", stockOf(t, conn, productID))
	}
	sales, err := svc.ListSales(ctx)
	if err != nil {
		t.Fatalf("list sales: %v", err)
	}
	if len(sales) != 1 {
		t.Fatalf("expected 1 ledger line got %d", len(sales))
	}
	line := sales[0]
	if line.ReceiptID != receiptID || line.Quantity != 3 || line.Total != 150.00 || line.Refunded {
		t.Fatalf("unexpected ledger line: %+v", line)
	}
	if line.ProductName != "Product A" || line.Price != 50.00 {
		t.Fatalf("snapshot fields wrong: %+v", line)
	}

	// Second checkout must fail: only 2 left.
	var insufficient *inventory.InsufficientStockError
	_, err = svc.Checkout(ctx, CheckoutRequest{Items: []CartItem{{Barcode: "1111", Quantity: 3}}})
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected InsufficientStockError got %v", err)
	}
	if insufficient.Available != 2 || insufficient.Requested != 3 {
		t.Fatalf("unexpected detail: %+v", insufficient)
	}
	if stockOf(t, conn, productID) != 2 {
		t.Fatalf("failed checkout changed stock: %d", stockOf(t, conn, productID))
	}

	// Resellable refund restores stock and flags the line.
	refundType, lines, err := svc.Refund(ctx, receiptID, true)
	if err != nil {
		t.Fatalf("refund: %v", err)
	}
	if refundType != RefundResellable || lines != 1 {
		t.Fatalf("unexpected refund result: %s %d", refundType, lines)
	}
	if stockOf(t, conn, productID) != 5 {
		t.Fatalf("expected stock restored to 5 got %d", stockOf(t, conn, productID))
	}
	sales, _ = svc.ListSales(ctx)
	if !sales[0].Refunded || sales[0].RefundType != RefundResellable {
		t.Fatalf("ledger line not flagged: %+v", sales[0])
	}
}

func TestRefundDefectiveKeepsStock(t *testing.T) {
	svc, conn := setupService(t)
	ctx := context.Background()
	productID := seedProduct(t, conn, "Product A", "1111", 50.00, 5)

	receiptID, err := svc.Checkout(ctx, CheckoutRequest{Items: []CartItem{{Barcode: "1111", Quantity: 2}}})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	refundType, _, err := svc.Refund(ctx, receiptID, false)
	if err != nil {
		t.Fatalf("refund: %v", err)
	}
	if refundType != RefundDefective {
		t.Fatalf("expected defective got %s", refundType)
	}
	if stockOf(t, conn, productID) != 3 {
		t.Fatalf("defective refund changed stock: %d", stockOf(t, conn, productID))
	}
	sales, _ := svc.ListSales(ctx)
	if !sales[0].Refunded || sales[0].RefundType != RefundDefective {
		t.Fatalf("ledger line not flagged: %+v", sales[0])
	}
}

func TestRefundTwiceFails(t *testing.T) {
	svc, conn := setupService(t)
	ctx := context.Background()
	productID := seedProduct(t, conn, "Product A", "1111", 50.00, 5)

	receiptID, err := svc.Checkout(ctx, CheckoutRequest{Items: []CartItem{{Barcode: "1111"}}})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if _, _, err := svc.Refund(ctx, receiptID, true); err != nil {
		t.Fatalf("first refund: %v", err)
	}
	stockBefore := stockOf(t, conn, productID)

	if _, _, err := svc.Refund(ctx, receiptID, true); !errors.Is(err, ErrAlreadyRefundedOrNotFound) {
		t.Fatalf("expected ErrAlreadyRefundedOrNotFound got %v", err)
	}
	if stockOf(t, conn, productID) != stockBefore {
		t.Fatal("double refund changed stock")
	}

	if _, _, err := svc.Refund(ctx, "no-such-receipt", true); !errors.Is(err, ErrAlreadyRefundedOrNotFound) {
		t.Fatalf("unknown receipt: expected ErrAlreadyRefundedOrNotFound got %v", err)
	}
}

// Two refunds racing on one receipt must restock exactly once: the loser
// has to fail without touching stock, never silently re-increment.
func TestConcurrentRefundsRestockOnce(t *testing.T) {
	svc, conn := setupService(t)
	ctx := context.Background()
	productID := seedProduct(t, conn, "Product A", "1111", 50.00, 5)

	receiptID, err := svc.Checkout(ctx, CheckoutRequest{Items: []CartItem{{Barcode: "1111", Quantity: 3}}})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	var wg sync.WaitGroup
	results := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := svc.Refund(context.Background(), receiptID, true)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var ok, rejected int
	for err := range results {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrAlreadyRefundedOrNotFound):
			rejected++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 1 || rejected != 1 {
		t.Fatalf("expected 1 refund and 1 rejection, got %d/%d", ok, rejected)
	}
	if got := stockOf(t, conn, productID); got != 5 {
		t.Fatalf("expected stock restored once to 5, got %d", got)
	}
}

func TestCheckoutUnknownBarcodeRollsBackBatch(t *testing.T) {
	svc, conn := setupService(t)
	ctx := context.Background()
	productID := seedProduct(t, conn, "Product A", "1111", 50.00, 5)

	var notFound *ProductNotFoundError
	_, err := svc.Checkout(ctx, CheckoutRequest{Items: []CartItem{
		{Barcode: "1111", Quantity: 2},
		{Barcode: "9999", Quantity: 1},
	}})
	if !errors.As(err, &notFound) {
		t.Fatalf("expected ProductNotFoundError got %v", err)
	}
	if notFound.Barcode != "9999" {
		t.Fatalf("wrong barcode in error: %s", notFound.Barcode)
	}
	// The first line's decrement must have been rolled back.
	if stockOf(t, conn, productID) != 5 {
		t.Fatalf("partial checkout visible: stock %d", stockOf(t, conn, productID))
	}
	if countSales(t, conn) != 0 {
		t.Fatal("ledger rows leaked from rolled-back checkout")
	}
}

func TestCheckoutInsufficientStockRollsBackBatch(t *testing.T) {
	svc, conn := setupService(t)
	ctx := context.Background()
	aID := seedProduct(t, conn, "Product A", "1111", 50.00, 5)
	bID := seedProduct(t, conn, "Product B", "2222", 20.00, 2)

	var insufficient *inventory.InsufficientStockError
	_, err := svc.Checkout(ctx, CheckoutRequest{Items: []CartItem{
		{Barcode: "1111", Quantity: 1},
		{Barcode: "2222", Quantity: 10},
	}})
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected InsufficientStockError got %v", err)
	}
	if stockOf(t, conn, aID) != 5 || stockOf(t, conn, bID) != 2 {
		t.Fatalf("partial checkout visible: a=%d b=%d", stockOf(t, conn, aID), stockOf(t, conn, bID))
	}
	if countSales(t, conn) != 0 {
		t.Fatal("ledger rows leaked from rolled-back checkout")
	}
}

func TestCheckoutInputValidation(t *testing.T) {
	svc, conn := setupService(t)
	ctx := context.Background()
	seedProduct(t, conn, "Product A", "1111", 50.00, 5)

	if _, err := svc.Checkout(ctx, CheckoutRequest{}); !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart got %v", err)
	}
	if _, err := svc.Checkout(ctx, CheckoutRequest{Items: []CartItem{{Barcode: "1111", Quantity: -1}}}); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity got %v", err)
	}
	if _, err := svc.Checkout(ctx, CheckoutRequest{Items: []CartItem{{Quantity: 1}}}); !errors.Is(err, ErrBarcodeRequired) {
		t.Fatalf("expected ErrBarcodeRequired got %v", err)
	}
	if countSales(t, conn) != 0 {
		t.Fatal("validation failures must not write ledger rows")
	}
}

func TestCheckoutOmittedQuantityDefaultsToOne(t *testing.T) {
	svc, conn := setupService(t)
	ctx := context.Background()
	productID := seedProduct(t, conn, "Product A", "1111", 50.00, 5)

	if _, err := svc.Checkout(ctx, CheckoutRequest{Items: []CartItem{{Barcode: "1111"}}}); err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if stockOf(t, conn, productID) != 4 {
		t.Fatalf("expected stock 4 got %d", stockOf(t, conn, productID))
	}
	sales, _ := svc.ListSales(ctx)
	if sales[0].Quantity != 1 || sales[0].Total != 50.00 {
		t.Fatalf("unexpected line: %+v", sales[0])
	}
}

// With stock S and N concurrent single-unit checkouts, exactly S succeed
// and the rest fail with InsufficientStock; stock never goes negative.
func TestConcurrentCheckoutsNeverOversell(t *testing.T) {
	svc, conn := setupService(t)
	const stock, buyers = 5, 8
	productID := seedProduct(t, conn, "Product A", "1111", 50.00, stock)

	var wg sync.WaitGroup
	results := make(chan error, buyers)
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Checkout(context.Background(), CheckoutRequest{
				Items: []CartItem{{Barcode: "1111", Quantity: 1}},
			})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var ok, rejected int
	for err := range results {
		switch {
		case err == nil:
			ok++
		default:
			var insufficient *inventory.InsufficientStockError
			if !errors.As(err, &insufficient) {
				t.Fatalf("unexpected error: %v", err)
			}
			rejected++
		}
	}
	if ok != stock || rejected != buyers-stock {
		t.Fatalf("expected %d sales and %d rejections, got %d/%d", stock, buyers-stock, ok, rejected)
	}
	if got := stockOf(t, conn, productID); got != 0 {
		t.Fatalf("expected stock 0 got %d", got)
	}
	if countSales(t, conn) != stock {
		t.Fatalf("expected %d ledger lines got %d", stock, countSales(t, conn))
	}
}

func TestDistinctReceiptIDsPerCheckout(t *testing.T) {
	svc, conn := setupService(t)
	ctx := context.Background()
	seedProduct(t, conn, "Product A", "1111", 50.00, 10)

	first, err := svc.Checkout(ctx, CheckoutRequest{Items: []CartItem{{Barcode: "1111"}}})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	second, err := svc.Checkout(ctx, CheckoutRequest{Items: []CartItem{{Barcode: "1111"}}})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if first == second {
		t.Fatal("two checkouts shared a receipt id")
	}
}
