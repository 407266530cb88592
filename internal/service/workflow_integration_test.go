package service_test

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/Ashutoshverma77/store-app-be/internal/apperr"
	"github.com/Ashutoshverma77/store-app-be/internal/database"
	"github.com/Ashutoshverma77/store-app-be/internal/model"
	"github.com/Ashutoshverma77/store-app-be/internal/repository"
	"github.com/Ashutoshverma77/store-app-be/internal/service"
	"github.com/Ashutoshverma77/store-app-be/internal/websocket"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// End to end workflow tests against a real Postgres. They exercise the full
// counter transitions: receiving deliveries feed available stock, issue
// reservations hold it, distributions complete it and close/reject release it.

type testEnv struct {
	db           *gorm.DB
	items        service.ItemService
	places       service.PlaceService
	receivings   service.ReceivingService
	issues       service.IssueService
	movements    service.MovementService
	operator     string
	operatorName string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	if strings.TrimSpace(os.Getenv("INTEGRATION_TESTS")) == "" {
		t.Skip("set INTEGRATION_TESTS=1 to run integration tests (requires postgres)")
	}

	host := envOr("DB_HOST", "localhost")
	port := envOr("DB_PORT", "5432")
	user := envOr("DB_USER", "postgres")
	pass := envOr("DB_PASSWORD", "postgres")
	name := envOr("DB_NAME", "store_test")

	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
	db, err := database.NewConnection(dsn)
	if err != nil {
		t.Fatalf("connect to test database: %v", err)
	}

	hub := websocket.NewHub()
	go hub.Run()

	txManager := repository.NewTransactionManager(db)
	userRepo := repository.NewUserRepository(db)
	refreshRepo := repository.NewRefreshTokenRepository(db)
	itemRepo := repository.NewItemRepository(db)
	placeRepo := repository.NewPlaceRepository(db)
	piqRepo := repository.NewPlaceQuantityRepository(db)
	recRepo := repository.NewReceivingRepository(db)
	issRepo := repository.NewIssueRepository(db)
	movRepo := repository.NewMovementRepository(db)

	users := service.NewUserService(userRepo, refreshRepo)
	env := &testEnv{
		db:         db,
		items:      service.NewItemService(itemRepo, piqRepo, placeRepo, movRepo, userRepo, txManager, hub),
		places:     service.NewPlaceService(placeRepo, piqRepo, userRepo, hub),
		receivings: service.NewReceivingService(recRepo, itemRepo, placeRepo, piqRepo, movRepo, userRepo, txManager, hub),
		issues:     service.NewIssueService(issRepo, itemRepo, placeRepo, piqRepo, movRepo, userRepo, txManager, hub),
		movements:  service.NewMovementService(movRepo),
	}

	suffix := uuid.NewString()[:8]
	op, err := users.CreateUser(context.Background(), service.CreateUserRequest{
		Username: "op-" + suffix,
		Email:    "op-" + suffix + "@test.local",
		Phone:    "0000000000",
		Password: "secret123",
		Role:     "manager",
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	env.operator = op.ID.String()
	env.operatorName = op.Username
	return env
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func (e *testEnv) newItem(t *testing.T, name string) *model.StoreItem {
	t.Helper()
	item, err := e.items.Create(context.Background(), e.operator, service.CreateItemRequest{
		Name:  name + "-" + uuid.NewString()[:8],
		Unit:  "pcs",
		Price: 2.50,
	})
	if err != nil {
		t.Fatalf("create item: %v", err)
	}
	return item
}

func (e *testEnv) newPlace(t *testing.T, name string) *model.StorePlace {
	t.Helper()
	place, err := e.places.Create(context.Background(), e.operator, service.CreatePlaceRequest{
		Name: name + "-" + uuid.NewString()[:8],
	})
	if err != nil {
		t.Fatalf("create place: %v", err)
	}
	return place
}

func (e *testEnv) reloadItem(t *testing.T, id uuid.UUID) model.StoreItem {
	t.Helper()
	var item model.StoreItem
	if err := e.db.First(&item, "id = ?", id).Error; err != nil {
		t.Fatalf("reload item: %v", err)
	}
	return item
}

func (e *testEnv) reloadPIQ(t *testing.T, itemID, placeID uuid.UUID) model.PlaceItemQuantity {
	t.Helper()
	var piq model.PlaceItemQuantity
	if err := e.db.First(&piq, "item_id = ? AND place_id = ?", itemID, placeID).Error; err != nil {
		t.Fatalf("reload place quantity: %v", err)
	}
	return piq
}

func assertConserved(t *testing.T, item model.StoreItem) {
	t.Helper()
	if item.Total != item.Available+item.ReservedForIssue+item.Completed+item.Scrapped {
		t.Fatalf("counters not conserved: total=%d available=%d reserved=%d completed=%d scrapped=%d",
			item.Total, item.Available, item.ReservedForIssue, item.Completed, item.Scrapped)
	}
}

// seedStock runs a full receiving so the item ends up with qty available at place.
func (e *testEnv) seedStock(t *testing.T, item *model.StoreItem, place *model.StorePlace, qty int) {
	t.Helper()
	ctx := context.Background()
	rec, err := e.receivings.Create(ctx, e.operator, service.CreateReceivingRequest{
		Source: "seed",
		Lines:  []service.LineRequest{{ItemID: item.ID.String(), Qty: qty}},
	})
	if err != nil {
		t.Fatalf("seed receiving create: %v", err)
	}
	if err := e.receivings.Approve(ctx, e.operator, rec.ID.String(), service.ApproveReceivingRequest{
		Lines: []service.ApproveLineRequest{{ItemID: item.ID.String(), ApprovedQty: qty}},
	}); err != nil {
		t.Fatalf("seed receiving approve: %v", err)
	}
	if err := e.receivings.DeliverToPlace(ctx, e.operator, rec.ID.String(), service.DeliverRequest{
		ItemID:     item.ID.String(),
		PlaceID:    place.ID.String(),
		ReceiveQty: qty,
	}); err != nil {
		t.Fatalf("seed receiving deliver: %v", err)
	}
}

func TestReceivingLifecycle_DeliveriesAndAutoClose(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	item := env.newItem(t, "bolt")
	place := env.newPlace(t, "rack")

	rec, err := env.receivings.Create(ctx, env.operator, service.CreateReceivingRequest{
		Source: "Plant A",
		Lines:  []service.LineRequest{{ItemID: item.ID.String(), Qty: 10}},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rec.Status != model.StatusDraft {
		t.Fatalf("new receiving status = %s, want DRAFT", rec.Status)
	}

	// Approve 8 of the requested 10.
	if err := env.receivings.Approve(ctx, env.operator, rec.ID.String(), service.ApproveReceivingRequest{
		Lines: []service.ApproveLineRequest{{ItemID: item.ID.String(), ApprovedQty: 8}},
	}); err != nil {
		t.Fatalf("Approve: %v", err)
	}

	// First delivery: 5 into the place, 1 scrapped on the dock.
	if err := env.receivings.DeliverToPlace(ctx, env.operator, rec.ID.String(), service.DeliverRequest{
		ItemID:     item.ID.String(),
		PlaceID:    place.ID.String(),
		ReceiveQty: 5,
		ScrapQty:   1,
	}); err != nil {
		t.Fatalf("DeliverToPlace: %v", err)
	}

	got := env.reloadItem(t, item.ID)
	assertConserved(t, got)
	if got.Available != 5 || got.Scrapped != 1 || got.Total != 6 {
		t.Fatalf("after partial delivery: available=%d scrapped=%d total=%d, want 5/1/6",
			got.Available, got.Scrapped, got.Total)
	}
	piq := env.reloadPIQ(t, item.ID, place.ID)
	if piq.Total != 5 {
		t.Fatalf("place total = %d, want 5 (scrap never reaches the place)", piq.Total)
	}

	// Delivering more than the approved remainder must fail.
	err = env.receivings.DeliverToPlace(ctx, env.operator, rec.ID.String(), service.DeliverRequest{
		ItemID:     item.ID.String(),
		PlaceID:    place.ID.String(),
		ReceiveQty: 3,
	})
	if !errors.Is(err, apperr.ErrOverDelivery) {
		t.Fatalf("over-delivery: expected ErrOverDelivery, got %v", err)
	}

	// Deliver the remaining 2; the document should auto-close.
	if err := env.receivings.DeliverToPlace(ctx, env.operator, rec.ID.String(), service.DeliverRequest{
		ItemID:     item.ID.String(),
		PlaceID:    place.ID.String(),
		ReceiveQty: 2,
	}); err != nil {
		t.Fatalf("final delivery: %v", err)
	}

	closed, err := env.receivings.Get(ctx, rec.ID.String())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if closed.Status != model.StatusClosed {
		t.Fatalf("status after full delivery = %s, want CLOSED", closed.Status)
	}
	got = env.reloadItem(t, item.ID)
	assertConserved(t, got)
	if got.Available != 7 || got.Scrapped != 1 || got.Total != 8 {
		t.Fatalf("final counters: available=%d scrapped=%d total=%d, want 7/1/8",
			got.Available, got.Scrapped, got.Total)
	}
}

func TestReceivingReject_OnlyBeforeStockMoves(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	item := env.newItem(t, "washer")
	place := env.newPlace(t, "bin")

	rec, err := env.receivings.Create(ctx, env.operator, service.CreateReceivingRequest{
		Lines: []service.LineRequest{{ItemID: item.ID.String(), Qty: 4}},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := env.receivings.Reject(ctx, env.operator, rec.ID.String()); err != nil {
		t.Fatalf("Reject draft: %v", err)
	}
	cancelled, _ := env.receivings.Get(ctx, rec.ID.String())
	if cancelled.Status != model.StatusCancelled {
		t.Fatalf("status = %s, want CANCELLED", cancelled.Status)
	}

	// After a delivery the reject is refused.
	rec2, err := env.receivings.Create(ctx, env.operator, service.CreateReceivingRequest{
		Lines: []service.LineRequest{{ItemID: item.ID.String(), Qty: 4}},
	})
	if err != nil {
		t.Fatalf("Create second: %v", err)
	}
	if err := env.receivings.Approve(ctx, env.operator, rec2.ID.String(), service.ApproveReceivingRequest{
		Lines: []service.ApproveLineRequest{{ItemID: item.ID.String(), ApprovedQty: 4}},
	}); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if err := env.receivings.DeliverToPlace(ctx, env.operator, rec2.ID.String(), service.DeliverRequest{
		ItemID:     item.ID.String(),
		PlaceID:    place.ID.String(),
		ReceiveQty: 1,
	}); err != nil {
		t.Fatalf("DeliverToPlace: %v", err)
	}
	if err := env.receivings.Reject(ctx, env.operator, rec2.ID.String()); !errors.Is(err, apperr.ErrInvalidState) {
		t.Fatalf("reject after delivery: expected ErrInvalidState, got %v", err)
	}
}

func TestIssueLifecycle_ReserveDistributeAutoCloseRelease(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	item := env.newItem(t, "cable")
	place := env.newPlace(t, "shelf")
	env.seedStock(t, item, place, 10)

	// Create reserves the full requested quantity.
	iss, err := env.issues.Create(ctx, env.operator, service.CreateIssueRequest{
		Reason: "line 3",
		Lines:  []service.LineRequest{{ItemID: item.ID.String(), Qty: 6}},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	got := env.reloadItem(t, item.ID)
	assertConserved(t, got)
	if got.Available != 4 || got.ReservedForIssue != 6 {
		t.Fatalf("after create: available=%d reserved=%d, want 4/6", got.Available, got.ReservedForIssue)
	}

	// Approval caps distribution at 5 but does not move counters.
	if err := env.issues.Approve(ctx, env.operator, iss.ID.String(), service.ApproveIssueRequest{
		Lines: []service.ApproveLineRequest{{ItemID: item.ID.String(), ApprovedQty: 5}},
	}); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	got = env.reloadItem(t, item.ID)
	if got.Available != 4 || got.ReservedForIssue != 6 {
		t.Fatalf("approve must not touch counters: available=%d reserved=%d", got.Available, got.ReservedForIssue)
	}

	// Distributing more than approved is refused.
	err = env.issues.IssueFromPlace(ctx, env.operator, iss.ID.String(), service.IssueFromPlaceRequest{
		ItemID:  item.ID.String(),
		PlaceID: place.ID.String(),
		Qty:     6,
	})
	if !errors.Is(err, apperr.ErrOverIssue) {
		t.Fatalf("over-issue: expected ErrOverIssue, got %v", err)
	}

	// Distribute all 5. The document auto-closes and releases the one
	// reserved unit that was never approved.
	if err := env.issues.IssueFromPlace(ctx, env.operator, iss.ID.String(), service.IssueFromPlaceRequest{
		ItemID:  item.ID.String(),
		PlaceID: place.ID.String(),
		Qty:     5,
	}); err != nil {
		t.Fatalf("IssueFromPlace: %v", err)
	}

	closed, err := env.issues.Get(ctx, iss.ID.String())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if closed.Status != model.StatusClosed {
		t.Fatalf("status = %s, want CLOSED", closed.Status)
	}
	got = env.reloadItem(t, item.ID)
	assertConserved(t, got)
	if got.Available != 5 || got.ReservedForIssue != 0 || got.Completed != 5 {
		t.Fatalf("final counters: available=%d reserved=%d completed=%d, want 5/0/5",
			got.Available, got.ReservedForIssue, got.Completed)
	}
	piq := env.reloadPIQ(t, item.ID, place.ID)
	if piq.Issued != 5 || piq.AvailableAtPlace() != 5 {
		t.Fatalf("place counters: issued=%d available=%d, want 5/5", piq.Issued, piq.AvailableAtPlace())
	}
}

func TestIssueReturn_AfterClose(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	item := env.newItem(t, "sensor")
	place := env.newPlace(t, "cage")
	env.seedStock(t, item, place, 8)

	iss, err := env.issues.Create(ctx, env.operator, service.CreateIssueRequest{
		Lines: []service.LineRequest{{ItemID: item.ID.String(), Qty: 5}},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := env.issues.Approve(ctx, env.operator, iss.ID.String(), service.ApproveIssueRequest{
		Lines: []service.ApproveLineRequest{{ItemID: item.ID.String(), ApprovedQty: 5}},
	}); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if err := env.issues.IssueFromPlace(ctx, env.operator, iss.ID.String(), service.IssueFromPlaceRequest{
		ItemID:  item.ID.String(),
		PlaceID: place.ID.String(),
		Qty:     5,
	}); err != nil {
		t.Fatalf("IssueFromPlace: %v", err)
	}

	// Document is CLOSED now; a return is still legal.
	if err := env.issues.Return(ctx, env.operator, iss.ID.String(), service.ReturnRequest{
		ItemID:  item.ID.String(),
		PlaceID: place.ID.String(),
		Qty:     2,
	}); err != nil {
		t.Fatalf("Return: %v", err)
	}
	got := env.reloadItem(t, item.ID)
	assertConserved(t, got)
	if got.Completed != 3 || got.Available != 5 {
		t.Fatalf("after return: completed=%d available=%d, want 3/5", got.Completed, got.Available)
	}

	// Returning more than was issued is refused.
	err = env.issues.Return(ctx, env.operator, iss.ID.String(), service.ReturnRequest{
		ItemID:  item.ID.String(),
		PlaceID: place.ID.String(),
		Qty:     4,
	})
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("over-return: expected ErrValidation, got %v", err)
	}
}

func TestIssueCreate_InsufficientStockRollsBack(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	item := env.newItem(t, "fuse")
	place := env.newPlace(t, "drawer")
	env.seedStock(t, item, place, 3)

	_, err := env.issues.Create(ctx, env.operator, service.CreateIssueRequest{
		Lines: []service.LineRequest{{ItemID: item.ID.String(), Qty: 5}},
	})
	if !errors.Is(err, apperr.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	// Nothing persisted from the failed create.
	got := env.reloadItem(t, item.ID)
	assertConserved(t, got)
	if got.Available != 3 || got.ReservedForIssue != 0 {
		t.Fatalf("counters changed by failed create: available=%d reserved=%d", got.Available, got.ReservedForIssue)
	}
	var count int64
	if err := env.db.Model(&model.Issue{}).
		Joins("JOIN issue_lines ON issue_lines.issue_id = issues.id").
		Where("issue_lines.item_id = ?", item.ID).
		Count(&count).Error; err != nil {
		t.Fatalf("count issues: %v", err)
	}
	if count != 0 {
		t.Fatalf("failed create left %d issue documents behind", count)
	}
}

func TestIssueReject_ReleasesReservation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	item := env.newItem(t, "relay")
	place := env.newPlace(t, "slot")
	env.seedStock(t, item, place, 6)

	iss, err := env.issues.Create(ctx, env.operator, service.CreateIssueRequest{
		Lines: []service.LineRequest{{ItemID: item.ID.String(), Qty: 4}},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := env.issues.Reject(ctx, env.operator, iss.ID.String()); err != nil {
		t.Fatalf("Reject: %v", err)
	}

	got := env.reloadItem(t, item.ID)
	assertConserved(t, got)
	if got.Available != 6 || got.ReservedForIssue != 0 {
		t.Fatalf("reject must release the reservation: available=%d reserved=%d", got.Available, got.ReservedForIssue)
	}
	cancelled, _ := env.issues.Get(ctx, iss.ID.String())
	if cancelled.Status != model.StatusCancelled {
		t.Fatalf("status = %s, want CANCELLED", cancelled.Status)
	}
}

func TestIssueClose_ReleasesUndistributedRemainder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	item := env.newItem(t, "gasket")
	place := env.newPlace(t, "pallet")
	env.seedStock(t, item, place, 10)

	iss, err := env.issues.Create(ctx, env.operator, service.CreateIssueRequest{
		Lines: []service.LineRequest{{ItemID: item.ID.String(), Qty: 7}},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := env.issues.Approve(ctx, env.operator, iss.ID.String(), service.ApproveIssueRequest{
		Lines: []service.ApproveLineRequest{{ItemID: item.ID.String(), ApprovedQty: 7}},
	}); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if err := env.issues.IssueFromPlace(ctx, env.operator, iss.ID.String(), service.IssueFromPlaceRequest{
		ItemID:  item.ID.String(),
		PlaceID: place.ID.String(),
		Qty:     3,
	}); err != nil {
		t.Fatalf("IssueFromPlace: %v", err)
	}

	if err := env.issues.Close(ctx, env.operator, iss.ID.String()); err != nil {
		t.Fatalf("Close: %v", err)
	}
	got := env.reloadItem(t, item.ID)
	assertConserved(t, got)
	if got.Available != 7 || got.ReservedForIssue != 0 || got.Completed != 3 {
		t.Fatalf("after close: available=%d reserved=%d completed=%d, want 7/0/3",
			got.Available, got.ReservedForIssue, got.Completed)
	}
}

func TestStockAndMovementViews_ResolveNames(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	item := env.newItem(t, "bearing")
	place := env.newPlace(t, "aisle")
	env.seedStock(t, item, place, 4)

	atPlace, err := env.places.StockAtPlace(ctx, place.ID.String())
	if err != nil {
		t.Fatalf("StockAtPlace: %v", err)
	}
	if len(atPlace) != 1 {
		t.Fatalf("expected 1 stock row at place, got %d", len(atPlace))
	}
	if atPlace[0].ItemName != item.Name || atPlace[0].PlaceName != place.Name {
		t.Fatalf("StockAtPlace names = %q/%q, want %q/%q",
			atPlace[0].ItemName, atPlace[0].PlaceName, item.Name, place.Name)
	}
	if atPlace[0].Unit != item.Unit {
		t.Fatalf("StockAtPlace unit = %q, want %q", atPlace[0].Unit, item.Unit)
	}

	ofItem, err := env.places.StockOfItem(ctx, item.ID.String())
	if err != nil {
		t.Fatalf("StockOfItem: %v", err)
	}
	if len(ofItem) != 1 {
		t.Fatalf("expected 1 stock row for item, got %d", len(ofItem))
	}
	if ofItem[0].ItemName != item.Name || ofItem[0].PlaceName != place.Name {
		t.Fatalf("StockOfItem names = %q/%q, want %q/%q",
			ofItem[0].ItemName, ofItem[0].PlaceName, item.Name, place.Name)
	}

	history, err := env.movements.HistoryByItem(ctx, item.ID.String(), 10)
	if err != nil {
		t.Fatalf("HistoryByItem: %v", err)
	}
	if len(history) == 0 {
		t.Fatal("seeded item has no movement history")
	}
	for _, mv := range history {
		if mv.ItemName != item.Name {
			t.Fatalf("history row %s has item name %q, want %q", mv.Type, mv.ItemName, item.Name)
		}
		if mv.OperatorName != env.operatorName {
			t.Fatalf("history row %s has operator %q, want %q", mv.Type, mv.OperatorName, env.operatorName)
		}
	}

	recent, err := env.movements.Recent(ctx, 5)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recent) == 0 {
		t.Fatal("recent activity feed is empty")
	}
	if recent[0].ItemName == "" || recent[0].OperatorName == "" {
		t.Fatalf("recent row has unresolved names: item=%q operator=%q",
			recent[0].ItemName, recent[0].OperatorName)
	}
}

func TestReceivingManualClose_ZeroQtyMovements(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	item := env.newItem(t, "hinge")
	place := env.newPlace(t, "dock")

	rec, err := env.receivings.Create(ctx, env.operator, service.CreateReceivingRequest{
		Lines: []service.LineRequest{{ItemID: item.ID.String(), Qty: 6}},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := env.receivings.Approve(ctx, env.operator, rec.ID.String(), service.ApproveReceivingRequest{
		Lines: []service.ApproveLineRequest{{ItemID: item.ID.String(), ApprovedQty: 6}},
	}); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if err := env.receivings.DeliverToPlace(ctx, env.operator, rec.ID.String(), service.DeliverRequest{
		ItemID:     item.ID.String(),
		PlaceID:    place.ID.String(),
		ReceiveQty: 2,
	}); err != nil {
		t.Fatalf("DeliverToPlace: %v", err)
	}
	if err := env.receivings.Close(ctx, env.operator, rec.ID.String()); err != nil {
		t.Fatalf("Close: %v", err)
	}

	var closedMoves []model.StockMovement
	if err := env.db.Where("receiving_id = ? AND type = ?", rec.ID, model.MovementClosed).
		Find(&closedMoves).Error; err != nil {
		t.Fatalf("fetch CLOSED movements: %v", err)
	}
	if len(closedMoves) != 1 {
		t.Fatalf("expected 1 CLOSED movement, got %d", len(closedMoves))
	}
	if closedMoves[0].Qty != 0 {
		t.Fatalf("CLOSED movement qty = %d, want 0", closedMoves[0].Qty)
	}

	// The abandoned remainder did not move any stock.
	got := env.reloadItem(t, item.ID)
	assertConserved(t, got)
	if got.Available != 2 || got.Total != 2 {
		t.Fatalf("after close: available=%d total=%d, want 2/2", got.Available, got.Total)
	}
}

func TestTransitionStatus_RejectsIllegalMoves(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	item := env.newItem(t, "clamp")
	place := env.newPlace(t, "bay")
	env.seedStock(t, item, place, 3)

	rec, err := env.receivings.Create(ctx, env.operator, service.CreateReceivingRequest{
		Lines: []service.LineRequest{{ItemID: item.ID.String(), Qty: 2}},
	})
	if err != nil {
		t.Fatalf("create receiving: %v", err)
	}
	recRepo := repository.NewReceivingRepository(env.db)
	err = recRepo.TransitionStatus(ctx, rec.ID, model.StatusDraft, model.StatusClosed, nil)
	if !errors.Is(err, apperr.ErrInvalidState) {
		t.Fatalf("DRAFT -> CLOSED: expected ErrInvalidState, got %v", err)
	}
	fresh, err := env.receivings.Get(ctx, rec.ID.String())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if fresh.Status != model.StatusDraft {
		t.Fatalf("illegal transition changed status to %s", fresh.Status)
	}

	iss, err := env.issues.Create(ctx, env.operator, service.CreateIssueRequest{
		Lines: []service.LineRequest{{ItemID: item.ID.String(), Qty: 1}},
	})
	if err != nil {
		t.Fatalf("create issue: %v", err)
	}
	issRepo := repository.NewIssueRepository(env.db)
	err = issRepo.TransitionStatus(ctx, iss.ID, model.StatusCancelled, model.StatusDraft, nil)
	if !errors.Is(err, apperr.ErrInvalidState) {
		t.Fatalf("CANCELLED -> DRAFT: expected ErrInvalidState, got %v", err)
	}
}
