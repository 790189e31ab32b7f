package service

import (
	"bytes"
	"context"
	"sort"
	"sync"
	"time"

	"setoran/internal/model"
	"setoran/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// memStore is an in-memory stand-in for PostgreSQL. Transactions are
// serialized by txMu, which plays the role of the row locks; a failed
// transaction restores the snapshot taken when it began.
type memStore struct {
	txMu sync.Mutex
	mu   sync.Mutex

	users    map[uuid.UUID]model.User
	goods    map[uuid.UUID]model.Good
	stocks   map[uuid.UUID]model.DailyStock
	pickups  map[uuid.UUID]model.Pickup
	items    map[uuid.UUID]model.DepositItem
	requests map[uuid.UUID]model.DepositRequest
	entries  []model.LedgerEntry
	balance  *model.LedgerBalance
	audits   []model.AuditLog

	failUpdateStatus error
	failAdjust       error
	forceNoRows      bool
}

type memSnapshot struct {
	items    map[uuid.UUID]model.DepositItem
	pickups  map[uuid.UUID]model.Pickup
	requests map[uuid.UUID]model.DepositRequest
	entries  []model.LedgerEntry
	balance  *model.LedgerBalance
	audits   []model.AuditLog
}

func newMemStore() *memStore {
	return &memStore{
		users:    map[uuid.UUID]model.User{},
		goods:    map[uuid.UUID]model.Good{},
		stocks:   map[uuid.UUID]model.DailyStock{},
		pickups:  map[uuid.UUID]model.Pickup{},
		items:    map[uuid.UUID]model.DepositItem{},
		requests: map[uuid.UUID]model.DepositRequest{},
	}
}

func (s *memStore) snapshot() memSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := memSnapshot{
		items:    make(map[uuid.UUID]model.DepositItem, len(s.items)),
		pickups:  make(map[uuid.UUID]model.Pickup, len(s.pickups)),
		requests: make(map[uuid.UUID]model.DepositRequest, len(s.requests)),
		entries:  append([]model.LedgerEntry(nil), s.entries...),
		audits:   append([]model.AuditLog(nil), s.audits...),
	}
	for k, v := range s.items {
		snap.items[k] = v
	}
	for k, v := range s.pickups {
		snap.pickups[k] = v
	}
	for k, v := range s.requests {
		v.Lines = append([]model.RequestLine(nil), v.Lines...)
		snap.requests[k] = v
	}
	if s.balance != nil {
		b := *s.balance
		snap.balance = &b
	}
	return snap
}

func (s *memStore) restore(snap memSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = snap.items
	s.pickups = snap.pickups
	s.requests = snap.requests
	s.entries = snap.entries
	s.balance = snap.balance
	s.audits = snap.audits
}

// --- fixtures ---

type fixture struct {
	admin  model.User
	user   model.User
	good   model.Good
	stock  model.DailyStock
	pickup model.Pickup
}

func (s *memStore) seed() fixture {
	s.mu.Lock()
	defer s.mu.Unlock()

	f := fixture{
		admin: model.User{ID: uuid.New(), FullName: "Admin Satu", Username: "admin", Role: model.RoleAdmin},
		user:  model.User{ID: uuid.New(), FullName: "Budi", Username: "budi", Role: model.RoleUser},
		good:  model.Good{ID: uuid.New(), Name: "Roti Coklat", Price: decimal.NewFromInt(2500)},
	}
	f.stock = model.DailyStock{ID: uuid.New(), GoodID: f.good.ID, DistributedOn: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), Qty: 100}
	f.pickup = model.Pickup{ID: uuid.New(), UserID: f.user.ID, Status: model.PickupTaken, TakenAt: time.Now()}

	s.users[f.admin.ID] = f.admin
	s.users[f.user.ID] = f.user
	s.goods[f.good.ID] = f.good
	s.stocks[f.stock.ID] = f.stock
	s.pickups[f.pickup.ID] = f.pickup
	return f
}

func (s *memStore) addItem(f fixture, qty int, unitPrice int64) model.DepositItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	price := decimal.NewFromInt(unitPrice)
	item := model.DepositItem{
		ID:           uuid.New(),
		PickupID:     f.pickup.ID,
		DailyStockID: f.stock.ID,
		Qty:          qty,
		UnitPrice:    price,
		TotalPrice:   price.Mul(decimal.NewFromInt(int64(qty))),
	}
	s.items[item.ID] = item
	return item
}

func (s *memStore) item(id uuid.UUID) model.DepositItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items[id]
}

func (s *memStore) pickup(id uuid.UUID) model.Pickup {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pickups[id]
}

func (s *memStore) balanceTotal() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.balance == nil {
		return decimal.Zero
	}
	return s.balance.Total
}

func (s *memStore) entryCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *memStore) auditCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.audits)
}

func (s *memStore) pendingFor(itemID uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pendingLocked(itemID)
}

func (s *memStore) pendingLocked(itemID uuid.UUID) int {
	total := 0
	for _, r := range s.requests {
		if r.Status != model.RequestPending {
			continue
		}
		for _, l := range r.Lines {
			if l.DepositItemID == itemID {
				total += l.Qty
			}
		}
	}
	return total
}

// --- transaction manager ---

type memTx struct{ s *memStore }

func (t memTx) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	if repository.InTx(ctx) {
		return fn(ctx)
	}
	t.s.txMu.Lock()
	defer t.s.txMu.Unlock()

	snap := t.s.snapshot()
	if err := fn(repository.WithTx(ctx, &gorm.DB{})); err != nil {
		t.s.restore(snap)
		return err
	}
	return nil
}

// --- users ---

type memUsers struct{ s *memStore }

func (r memUsers) Create(_ context.Context, u *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.s.users[u.ID] = *u
	return nil
}

func (r memUsers) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &u, nil
}

func (r memUsers) GetByUsername(_ context.Context, username string) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// --- deposit items ---

type memItems struct{ s *memStore }

func (r memItems) LockOwnedByIDs(_ context.Context, userID uuid.UUID, ids []uuid.UUID) ([]model.DepositItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []model.DepositItem
	for _, id := range ids {
		item, ok := r.s.items[id]
		if !ok {
			continue
		}
		if p, ok := r.s.pickups[item.PickupID]; !ok || p.UserID != userID {
			continue
		}
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return bytes.Compare(out[i].ID[:], out[j].ID[:]) < 0 })
	return out, nil
}

func (r memItems) PendingQuantities(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := make(map[uuid.UUID]int, len(ids))
	for _, id := range ids {
		if n := r.s.pendingLocked(id); n > 0 {
			out[id] = n
		}
	}
	return out, nil
}

func (r memItems) LockByID(_ context.Context, id uuid.UUID) (*model.DepositItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	item, ok := r.s.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	stock := r.s.stocks[item.DailyStockID]
	good := r.s.goods[stock.GoodID]
	stock.Good = &good
	item.DailyStock = &stock
	return &item, nil
}

func (r memItems) AddDeposited(_ context.Context, id uuid.UUID, qty int, fullyDepositedAt *time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	item := r.s.items[id]
	item.DepositedQty += qty
	if fullyDepositedAt != nil {
		at := *fullyDepositedAt
		item.DepositedAt = &at
	}
	r.s.items[id] = item
	return nil
}

func (r memItems) CountUndeposited(_ context.Context, pickupID uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for _, item := range r.s.items {
		if item.PickupID == pickupID && item.DepositedAt == nil {
			n++
		}
	}
	return n, nil
}

func (r memItems) SettlePickup(_ context.Context, pickupID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p := r.s.pickups[pickupID]
	p.Status = model.PickupSettled
	r.s.pickups[pickupID] = p
	return nil
}

// --- deposit requests ---

type memRequests struct{ s *memStore }

func (r memRequests) Create(_ context.Context, req *model.DepositRequest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	req.ID = uuid.New()
	req.CreatedAt = time.Now()
	req.UpdatedAt = req.CreatedAt
	for i := range req.Lines {
		req.Lines[i].ID = uuid.New()
		req.Lines[i].RequestID = req.ID
	}
	stored := *req
	stored.Lines = append([]model.RequestLine(nil), req.Lines...)
	r.s.requests[req.ID] = stored
	return nil
}

func (r memRequests) FindByIDForUpdate(_ context.Context, id uuid.UUID) (*model.DepositRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	req, ok := r.s.requests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	req.Lines = append([]model.RequestLine(nil), req.Lines...)
	return &req, nil
}

func (r memRequests) FindByIDWithRelations(_ context.Context, id uuid.UUID) (*model.DepositRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	req, ok := r.s.requests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := r.withRelationsLocked(req)
	return &out, nil
}

func (r memRequests) List(_ context.Context, filter repository.RequestFilter) ([]model.DepositRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []model.DepositRequest
	for _, req := range r.s.requests {
		if filter.UserID != nil && req.UserID != *filter.UserID {
			continue
		}
		if filter.AdminID != nil && req.AdminID != *filter.AdminID {
			continue
		}
		if filter.Status != "" && req.Status != filter.Status {
			continue
		}
		out = append(out, r.withRelationsLocked(req))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r memRequests) UpdateStatus(_ context.Context, id uuid.UUID, from, to model.RequestStatus, decidedAt time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.s.failUpdateStatus != nil {
		return 0, r.s.failUpdateStatus
	}
	if r.s.forceNoRows {
		return 0, nil
	}
	req, ok := r.s.requests[id]
	if !ok || req.Status != from {
		return 0, nil
	}
	req.Status = to
	req.DecidedAt = &decidedAt
	req.UpdatedAt = decidedAt
	r.s.requests[id] = req
	return 1, nil
}

func (r memRequests) withRelationsLocked(req model.DepositRequest) model.DepositRequest {
	if u, ok := r.s.users[req.UserID]; ok {
		req.User = &u
	}
	if a, ok := r.s.users[req.AdminID]; ok {
		req.Admin = &a
	}
	lines := make([]model.RequestLine, len(req.Lines))
	for i, l := range req.Lines {
		item := r.s.items[l.DepositItemID]
		stock := r.s.stocks[item.DailyStockID]
		good := r.s.goods[stock.GoodID]
		stock.Good = &good
		item.DailyStock = &stock
		l.DepositItem = &item
		lines[i] = l
	}
	req.Lines = lines
	return req
}

// --- ledger ---

type memLedger struct{ s *memStore }

func (r memLedger) InitBalance(_ context.Context) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.balance == nil {
		r.s.balance = &model.LedgerBalance{ID: model.LedgerBalanceID, Total: decimal.Zero, UpdatedAt: time.Now()}
	}
	return nil
}

func (r memLedger) GetBalance(_ context.Context) (*model.LedgerBalance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.balance == nil {
		return nil, gorm.ErrRecordNotFound
	}
	b := *r.s.balance
	return &b, nil
}

func (r memLedger) CreateEntry(_ context.Context, entry *model.LedgerEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	entry.ID = uuid.New()
	r.s.entries = append(r.s.entries, *entry)
	return nil
}

func (r memLedger) AdjustBalance(_ context.Context, delta decimal.Decimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failAdjust != nil {
		return r.s.failAdjust
	}
	if r.s.balance == nil {
		r.s.balance = &model.LedgerBalance{ID: model.LedgerBalanceID, Total: decimal.Zero}
	}
	r.s.balance.Total = r.s.balance.Total.Add(delta)
	r.s.balance.UpdatedAt = time.Now()
	return nil
}

func (r memLedger) ListEntries(_ context.Context, offset, limit int) ([]model.LedgerEntry, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	sorted := append([]model.LedgerEntry(nil), r.s.entries...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].CreatedAt.After(sorted[j].CreatedAt) })
	total := int64(len(sorted))
	if offset >= len(sorted) {
		return []model.LedgerEntry{}, total, nil
	}
	end := offset + limit
	if end > len(sorted) {
		end = len(sorted)
	}
	return sorted[offset:end], total, nil
}

func (r memLedger) FindEntryByID(_ context.Context, id uuid.UUID) (*model.LedgerEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, e := range r.s.entries {
		if e.ID == id {
			e = r.withSourceLocked(e)
			return &e, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r memLedger) ListEntriesBetween(_ context.Context, start, end time.Time) ([]model.LedgerEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []model.LedgerEntry
	for _, e := range r.s.entries {
		if !e.CreatedAt.Before(start) && e.CreatedAt.Before(end) {
			out = append(out, r.withSourceLocked(e))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r memLedger) withSourceLocked(e model.LedgerEntry) model.LedgerEntry {
	if e.SourceDepositItemID == nil {
		return e
	}
	item := r.s.items[*e.SourceDepositItemID]
	pickup := r.s.pickups[item.PickupID]
	user := r.s.users[pickup.UserID]
	pickup.User = &user
	stock := r.s.stocks[item.DailyStockID]
	good := r.s.goods[stock.GoodID]
	stock.Good = &good
	item.Pickup = &pickup
	item.DailyStock = &stock
	e.SourceDepositItem = &item
	return e
}

// --- statistics ---

type memStats struct{ s *memStore }

func (r memStats) inRange(start, end time.Time) []model.LedgerEntry {
	var out []model.LedgerEntry
	for _, e := range r.s.entries {
		if !e.CreatedAt.Before(start) && e.CreatedAt.Before(end) {
			out = append(out, e)
		}
	}
	return out
}

func (r memStats) TotalsByKind(_ context.Context, start, end time.Time) ([]model.KindTotal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	byKind := map[model.LedgerKind]*model.KindTotal{}
	for _, e := range r.inRange(start, end) {
		t, ok := byKind[e.Kind]
		if !ok {
			t = &model.KindTotal{Kind: e.Kind, Total: decimal.Zero}
			byKind[e.Kind] = t
		}
		t.Total = t.Total.Add(e.Amount)
		t.Count++
	}
	var out []model.KindTotal
	for _, t := range byKind {
		out = append(out, *t)
	}
	return out, nil
}

func (r memStats) EntriesBetween(_ context.Context, start, end time.Time) ([]model.LedgerEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := r.inRange(start, end)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r memStats) ActiveDays(_ context.Context, start, end time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	days := map[string]bool{}
	wib := time.FixedZone("WIB", 7*3600)
	for _, e := range r.inRange(start, end) {
		days[e.CreatedAt.In(wib).Format("2006-01-02")] = true
	}
	return int64(len(days)), nil
}

// --- audit ---

type memAudit struct{ s *memStore }

func (r memAudit) Log(_ context.Context, entry *model.AuditLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	entry.ID = uuid.New()
	entry.CreatedAt = time.Now()
	r.s.audits = append(r.s.audits, *entry)
	return nil
}

func (r memAudit) ListByEntity(_ context.Context, entityID string) ([]model.AuditLog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.AuditLog
	for _, a := range r.s.audits {
		if a.EntityID == entityID {
			out = append(out, a)
		}
	}
	return out, nil
}

// --- publisher ---

type recordingPublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *recordingPublisher) Publish(event string, _ interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) Events() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.events...)
}

// --- wiring ---

type harness struct {
	store  *memStore
	fx     fixture
	ledger LedgerService
	poster DepositPoster
	svc    DepositRequestService
	events *recordingPublisher
}

func newHarness() *harness {
	store := newMemStore()
	fx := store.seed()
	log := zap.NewNop()

	ledger := NewLedgerService(memLedger{store}, memStats{store}, log)
	poster := NewDepositPoster(memItems{store}, ledger, log)
	events := &recordingPublisher{}
	svc := NewDepositRequestService(
		memTx{store},
		memRequests{store},
		memUsers{store},
		NewAvailabilityChecker(memItems{store}),
		poster,
		NewAuditService(memAudit{store}),
		events,
		log,
	)
	return &harness{store: store, fx: fx, ledger: ledger, poster: poster, svc: svc, events: events}
}
