package models_test

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/sahilgholap007/Inventory-Management/config"
	"github.com/sahilgholap007/Inventory-Management/models"
	"github.com/sahilgholap007/Inventory-Management/utils"
	"github.com/shopspring/decimal"
)

func setupStore(t *testing.T) context.Context {
	t.Helper()
	if strings.TrimSpace(os.Getenv("INTEGRATION_TESTS")) == "" {
		t.Skip("set INTEGRATION_TESTS=1 to run integration tests (requires docker)")
	}

	mysqlName, mysqlPort := startMySQLContainer(t)
	t.Cleanup(func() { _ = dockerRmForce(mysqlName) })

	t.Setenv("DB_USER", "root")
	t.Setenv("DB_PASSWORD", "testpw")
	t.Setenv("DB_HOST", "127.0.0.1")
	t.Setenv("DB_PORT", mysqlPort)
	t.Setenv("DB_NAME", "ordertrack_test")

	config.ConnectDatabaseWithRetry()
	models.MigrateTable()

	return context.Background()
}

func mustImport(t *testing.T, ctx context.Context, records []*models.Order, today time.Time) int {
	t.Helper()
	count, err := models.ImportOrders(ctx, records, today)
	if err != nil {
		t.Fatalf("ImportOrders: %v", err)
	}
	return count
}

func fetchOrder(t *testing.T, ctx context.Context, orderId, awb string) *models.Order {
	t.Helper()
	var o models.Order
	db := config.GetDB()
	if err := db.WithContext(ctx).Where("order_id = ? AND awb = ?", orderId, awb).Take(&o).Error; err != nil {
		t.Fatalf("fetch order (%s,%s): %v", orderId, awb, err)
	}
	return &o
}

func TestUpsert_ReuploadSetsMarkedDateAndNeverDuplicates(t *testing.T) {
	ctx := setupStore(t)
	db := config.GetDB()

	today := utils.DateOnly(time.Now())
	product := "Smartphone"
	price := decimal.NewFromInt(499)
	first := &models.Order{
		OrderId:      "1",
		Awb:          "A1",
		Status:       models.StatusShipped,
		ProductName:  &product,
		SellingPrice: &price,
	}
	if n := mustImport(t, ctx, []*models.Order{first}, today); n != 1 {
		t.Fatalf("first import count = %d", n)
	}

	stored := fetchOrder(t, ctx, "1", "A1")
	if stored.MarkedDate != nil {
		t.Fatalf("marked_date must be null on first insert, got %v", stored.MarkedDate)
	}

	// Re-upload the same pair with a different product name: marked_date
	// becomes today, product_name keeps its originally inserted value.
	otherProduct := "Tablet"
	reupload := &models.Order{
		OrderId:     "1",
		Awb:         "A1",
		Status:      models.StatusShipped,
		ProductName: &otherProduct,
	}
	mustImport(t, ctx, []*models.Order{reupload}, today)

	var rows int64
	if err := db.WithContext(ctx).Model(&models.Order{}).Where("order_id = ?", "1").Count(&rows).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if rows != 1 {
		t.Fatalf("re-upload duplicated the row: count = %d", rows)
	}

	stored = fetchOrder(t, ctx, "1", "A1")
	if stored.MarkedDate == nil || !stored.MarkedDate.Equal(today) {
		t.Fatalf("marked_date = %v, want %v", stored.MarkedDate, today)
	}
	if stored.ProductName == nil || *stored.ProductName != product {
		t.Fatalf("product_name must keep first-write value %q, got %v", product, stored.ProductName)
	}
}

func TestUpsert_StaleShippedBecomesLost(t *testing.T) {
	ctx := setupStore(t)

	shipDate := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	record := &models.Order{
		OrderId:      "2",
		Awb:          "A2",
		Status:       models.StatusShipped,
		ShippingDate: &shipDate,
	}
	mustImport(t, ctx, []*models.Order{record}, time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC))

	stored := fetchOrder(t, ctx, "2", "A2")
	if stored.Status != models.StatusLost {
		t.Fatalf("status = %q, want %q", stored.Status, models.StatusLost)
	}
}

func TestOverrideStatus_AbsentPairsAreSilentNoOps(t *testing.T) {
	ctx := setupStore(t)

	mustImport(t, ctx, []*models.Order{
		{OrderId: "3", Awb: "A3", Status: models.StatusShipped},
	}, time.Now())

	keys := []models.OrderKey{
		{OrderId: "3", Awb: "A3"},
		{OrderId: "missing", Awb: "nope"},
	}
	count, err := models.OverrideStatus(ctx, keys, models.StatusDelivered)
	if err != nil {
		t.Fatalf("OverrideStatus: %v", err)
	}
	// Count reflects pairs attempted, not pairs matched.
	if count != 2 {
		t.Fatalf("count = %d, want 2", count)
	}

	stored := fetchOrder(t, ctx, "3", "A3")
	if stored.Status != models.StatusDelivered {
		t.Fatalf("status = %q, want %q", stored.Status, models.StatusDelivered)
	}

	var rows int64
	db := config.GetDB()
	if err := db.WithContext(ctx).Model(&models.Order{}).Count(&rows).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if rows != 1 {
		t.Fatalf("override must never insert, got %d rows", rows)
	}
}

func TestOverrideStatus_RejectsDisallowedTargetBeforeStoreAccess(t *testing.T) {
	// No store setup on purpose: the allow-list check runs first, so a
	// bad target must fail even with no database at hand.
	_, err := models.OverrideStatus(context.Background(), []models.OrderKey{{OrderId: "1", Awb: "A1"}}, "shipped")
	if err == nil {
		t.Fatal("expected error for disallowed target status")
	}
	if !models.IsValidationError(err) {
		t.Fatalf("expected validation error, got %T: %v", err, err)
	}
}

func TestMarkStatusMismatches_ForceOverwritesStoredStatus(t *testing.T) {
	ctx := setupStore(t)

	mustImport(t, ctx, []*models.Order{
		{OrderId: "5", Awb: "B5", Status: models.StatusRTO},
	}, time.Now())

	count, err := models.MarkStatusMismatches(ctx, []models.OrderKey{{OrderId: "5", Awb: "B5"}})
	if err != nil {
		t.Fatalf("MarkStatusMismatches: %v", err)
	}
	if count != 1 {
		t.Fatalf("count = %d, want 1", count)
	}
	stored := fetchOrder(t, ctx, "5", "B5")
	if stored.Status != models.StatusMismatch {
		t.Fatalf("status = %q, want %q", stored.Status, models.StatusMismatch)
	}
}

func TestGetOrders_Filters(t *testing.T) {
	ctx := setupStore(t)

	amazon := "Amazon"
	flipkart := "Flipkart"
	jan10 := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	mar1 := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	mustImport(t, ctx, []*models.Order{
		{OrderId: "10", Awb: "C1", Status: models.StatusShipped, MarketplaceName: &amazon, OrderDate: &jan10},
		{OrderId: "11", Awb: "C2", Status: models.StatusDelivered, MarketplaceName: &flipkart, OrderDate: &mar1},
	}, time.Now())

	all, err := models.GetOrders(ctx, models.OrderFilter{})
	if err != nil {
		t.Fatalf("GetOrders: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("no filters must return every row, got %d", len(all))
	}

	byMarketplace, err := models.GetOrders(ctx, models.OrderFilter{Marketplace: &amazon})
	if err != nil {
		t.Fatalf("GetOrders: %v", err)
	}
	if len(byMarketplace) != 1 || byMarketplace[0].OrderId != "10" {
		t.Fatalf("marketplace filter wrong: %v", byMarketplace)
	}

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	byDate, err := models.GetOrders(ctx, models.OrderFilter{StartDate: &start, EndDate: &end})
	if err != nil {
		t.Fatalf("GetOrders: %v", err)
	}
	if len(byDate) != 1 || byDate[0].OrderId != "10" {
		t.Fatalf("date filter wrong: %v", byDate)
	}

	// A lone bound is not applied.
	loneStart, err := models.GetOrders(ctx, models.OrderFilter{StartDate: &start})
	if err != nil {
		t.Fatalf("GetOrders: %v", err)
	}
	if len(loneStart) != 2 {
		t.Fatalf("lone start_date must not filter, got %d rows", len(loneStart))
	}
}

func startMySQLContainer(t *testing.T) (containerName, hostPort string) {
	t.Helper()
	name := fmt.Sprintf("ordertrack-test-mysql-%d", time.Now().UnixNano())
	out, err := dockerRun(
		"run", "-d", "--name", name,
		"-e", "MYSQL_ROOT_PASSWORD=testpw",
		"-e", "MYSQL_DATABASE=ordertrack_test",
		"-p", "127.0.0.1:0:3306",
		"mysql:8.0",
		"--default-authentication-plugin=mysql_native_password",
	)
	if err != nil {
		t.Fatalf("start mysql container: %v\n%s", err, out)
	}
	port, err := dockerHostPort(name, "3306/tcp")
	if err != nil {
		t.Fatalf("mysql docker port: %v", err)
	}
	// wait until ready
	deadline := time.Now().Add(120 * time.Second)
	for time.Now().Before(deadline) {
		_, err := dockerRun("exec", name, "mysqladmin", "ping", "-h", "127.0.0.1", "-ptestpw", "--silent")
		if err == nil {
			return name, port
		}
		time.Sleep(500 * time.Millisecond)
	}
	t.Fatalf("mysql did not become ready")
	return "", ""
}

func dockerHostPort(container, portProto string) (string, error) {
	out, err := dockerRun("port", container, portProto)
	if err != nil {
		return "", fmt.Errorf("docker port: %w: %s", err, out)
	}
	// Example: "127.0.0.1:49154\n"
	re := regexp.MustCompile(`:(\d+)`)
	m := re.FindStringSubmatch(out)
	if len(m) != 2 {
		return "", fmt.Errorf("unexpected docker port output: %q", out)
	}
	return m[1], nil
}

func dockerRmForce(container string) error {
	if strings.TrimSpace(container) == "" {
		return nil
	}
	_, err := dockerRun("rm", "-f", container)
	return err
}

func dockerRun(args ...string) (string, error) {
	cmd := exec.Command("docker", args...)
	b, err := cmd.CombinedOutput()
	return string(b), err
}
