package app_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"order-desk/internal/app"
	"order-desk/internal/core"
	"order-desk/internal/session"

	"github.com/shopspring/decimal"
)

// fakeCatalog serves fixed lists and counts calls. err, when set, fails every call.
type fakeCatalog struct {
	mu            sync.Mutex
	err           error
	clients       []core.Client
	products      []core.Product
	warehouses    []core.Warehouse
	cashAccounts  []core.CashAccount
	organizations []core.Organization
	priceLists    []core.PriceList

	listClientCalls   int
	searchClientCalls []string
	searchProductCall []string
	created           []core.NewClient
}

func newFakeCatalog() *fakeCatalog {
	card := 9
	return &fakeCatalog{
		clients: []core.Client{
			{ID: 1, Name: "Acme", Phone: "79001112233", LoyaltyCardID: &card},
			{ID: 2, Name: "Globex"},
		},
		products: []core.Product{
			{ID: 10, Name: "Widget", Price: decimal.NewFromInt(100), Unit: 116},
			{ID: 11, Name: "Gadget", Price: decimal.RequireFromString("49.90"), Unit: 116},
		},
		warehouses:    []core.Warehouse{{ID: 20, Name: "Main"}, {ID: 21, Name: "Spare"}},
		cashAccounts:  []core.CashAccount{{ID: 30, Name: "Till"}},
		organizations: []core.Organization{{ID: 40, Name: "Org"}},
		priceLists:    []core.PriceList{{ID: 50, Name: "Retail"}, {ID: 51, Name: "Wholesale", IsDefault: true}},
	}
}

func (f *fakeCatalog) fail() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

func (f *fakeCatalog) ListClients(ctx context.Context, limit int) ([]core.Client, error) {
	f.mu.Lock()
	f.listClientCalls++
	f.mu.Unlock()
	if err := f.fail(); err != nil {
		return nil, err
	}
	return f.clients, nil
}

func (f *fakeCatalog) SearchClients(ctx context.Context, query string) ([]core.Client, error) {
	f.mu.Lock()
	f.searchClientCalls = append(f.searchClientCalls, query)
	f.mu.Unlock()
	if err := f.fail(); err != nil {
		return nil, err
	}
	return f.clients[:1], nil
}

func (f *fakeCatalog) CreateClient(ctx context.Context, in core.NewClient) (*core.Client, error) {
	if err := f.fail(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, in)
	return &core.Client{ID: 99, Name: in.Name, Phone: in.Phone}, nil
}

func (f *fakeCatalog) ListWarehouses(ctx context.Context) ([]core.Warehouse, error) {
	if err := f.fail(); err != nil {
		return nil, err
	}
	return f.warehouses, nil
}

func (f *fakeCatalog) ListCashAccounts(ctx context.Context) ([]core.CashAccount, error) {
	if err := f.fail(); err != nil {
		return nil, err
	}
	return f.cashAccounts, nil
}

func (f *fakeCatalog) ListOrganizations(ctx context.Context) ([]core.Organization, error) {
	if err := f.fail(); err != nil {
		return nil, err
	}
	return f.organizations, nil
}

func (f *fakeCatalog) ListPriceLists(ctx context.Context) ([]core.PriceList, error) {
	if err := f.fail(); err != nil {
		return nil, err
	}
	return f.priceLists, nil
}

func (f *fakeCatalog) ListProducts(ctx context.Context, limit int) ([]core.Product, error) {
	if err := f.fail(); err != nil {
		return nil, err
	}
	return f.products, nil
}

func (f *fakeCatalog) SearchProducts(ctx context.Context, name string) ([]core.Product, error) {
	f.mu.Lock()
	f.searchProductCall = append(f.searchProductCall, name)
	f.mu.Unlock()
	if err := f.fail(); err != nil {
		return nil, err
	}
	return f.products[1:], nil
}

// fakeOrders records submissions. When block is set, CreateOrder waits on it.
type fakeOrders struct {
	mu      sync.Mutex
	calls   int
	subs    []core.OrderSubmission
	err     error
	block   chan struct{}
	entered chan struct{}
}

func (f *fakeOrders) CreateOrder(ctx context.Context, sub core.OrderSubmission) error {
	f.mu.Lock()
	f.calls++
	f.subs = append(f.subs, sub)
	block, entered, err := f.block, f.entered, f.err
	f.mu.Unlock()
	if entered != nil {
		entered <- struct{}{}
	}
	if block != nil {
		<-block
	}
	return err
}

func (f *fakeOrders) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fixture struct {
	svc     app.ApplicationService
	catalog *fakeCatalog
	orders  *fakeOrders
}

func newFixture(t *testing.T, opts app.Options) fixture {
	t.Helper()
	holder := session.NewHolder(session.NewMemoryStore())
	if err := holder.Set(context.Background(), "tok"); err != nil {
		t.Fatal(err)
	}
	if opts.Now == nil {
		opts.Now = func() time.Time { return time.Unix(1700000000, 0) }
	}
	f := fixture{catalog: newFakeCatalog(), orders: &fakeOrders{}}
	f.svc = app.NewAppService(f.catalog, f.orders, holder, nil, opts)
	return f
}

// complete fills every slot through the catalog and adds one Widget line.
func (f fixture) complete(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	f.svc.ListClients(ctx)
	if _, err := f.svc.Attach(core.RefClient, 1); err != nil {
		t.Fatal(err)
	}
	f.svc.LoadDefaults(ctx)
	f.svc.ListProducts(ctx)
	if _, _, err := f.svc.AddProduct(10, decimal.NewFromInt(2)); err != nil {
		t.Fatal(err)
	}
	if !f.svc.Draft().Complete {
		t.Fatalf("draft not complete: missing %v", f.svc.Draft().Missing)
	}
}

func TestCatalogReads_DegradeToWarning(t *testing.T) {
	f := newFixture(t, app.Options{})
	f.catalog.err = core.ErrNetwork
	ctx := context.Background()

	clients := f.svc.SearchClients(ctx, "Acme")
	if clients.Warning == "" || clients.Clients == nil || len(clients.Clients) != 0 {
		t.Errorf("clients = %+v", clients)
	}
	products := f.svc.ListProducts(ctx)
	if products.Warning == "" || len(products.Products) != 0 {
		t.Errorf("products = %+v", products)
	}
	refs, err := f.svc.ListReferences(ctx, core.RefWarehouse)
	if err != nil {
		t.Fatalf("ListReferences returned error: %v", err)
	}
	if refs.Warning == "" || len(refs.References) != 0 {
		t.Errorf("refs = %+v", refs)
	}
}

func TestSearch_ShortQueryListsInitial(t *testing.T) {
	tests := []struct {
		query      string
		wantSearch bool
	}{
		{"", false},
		{" a ", false},
		{"Я", false},
		{"ab", true},
		{"Ян", true},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			f := newFixture(t, app.Options{})
			f.svc.SearchClients(context.Background(), tt.query)
			if got := len(f.catalog.searchClientCalls) == 1; got != tt.wantSearch {
				t.Errorf("search called = %v, want %v", got, tt.wantSearch)
			}
			if got := f.catalog.listClientCalls == 1; got == tt.wantSearch {
				t.Errorf("list called = %v", got)
			}
		})
	}
}

func TestDebouncedSearch_OnlyLastReachesGateway(t *testing.T) {
	f := newFixture(t, app.Options{SearchDebounce: 80 * time.Millisecond})
	ctx := context.Background()

	queries := []string{"wi", "wid", "widg"}
	errs := make([]error, len(queries))
	var wg sync.WaitGroup
	for i, q := range queries {
		i, q := i, q
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = f.svc.DebouncedSearchProducts(ctx, q)
		}()
		time.Sleep(10 * time.Millisecond)
	}
	wg.Wait()

	superseded := 0
	for _, err := range errs {
		if errors.Is(err, app.ErrSuperseded) {
			superseded++
		} else if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	}
	if superseded != 2 {
		t.Errorf("superseded = %d, want 2", superseded)
	}
	if got := f.catalog.searchProductCall; len(got) != 1 || got[0] != "widg" {
		t.Errorf("gateway searches = %v, want [widg]", got)
	}
}

func TestAttach_RequiresListedEntity(t *testing.T) {
	f := newFixture(t, app.Options{})
	if _, err := f.svc.Attach(core.RefClient, 1); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("Attach before listing = %v, want ErrNotFound", err)
	}
	f.svc.SearchClients(context.Background(), "Acme")
	ref, err := f.svc.Attach(core.RefClient, 1)
	if err != nil {
		t.Fatal(err)
	}
	if ref.Name != "Acme" || ref.LoyaltyCardID == nil || *ref.LoyaltyCardID != 9 {
		t.Errorf("ref = %+v", ref)
	}
	if _, err := f.svc.Attach(core.RefWarehouse, 1); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("client ID attached as warehouse: %v", err)
	}
	if err := f.svc.Detach(core.RefClient); err != nil {
		t.Fatal(err)
	}
	if f.svc.Draft().Reference(core.RefClient) != nil {
		t.Error("client still attached after Detach")
	}
}

func TestLoadDefaults(t *testing.T) {
	f := newFixture(t, app.Options{})
	ctx := context.Background()
	if _, err := f.svc.ListReferences(ctx, core.RefWarehouse); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.Attach(core.RefWarehouse, 21); err != nil {
		t.Fatal(err)
	}

	res := f.svc.LoadDefaults(ctx)
	if len(res.Warnings) != 0 {
		t.Errorf("warnings = %v", res.Warnings)
	}
	v := f.svc.Draft()
	want := map[core.RefKind]int{core.RefWarehouse: 21, core.RefCashAccount: 30, core.RefOrganization: 40, core.RefPriceList: 51}
	for kind, id := range want {
		ref := v.Reference(kind)
		if ref == nil || ref.ID != id {
			t.Errorf("%s = %+v, want id %d", kind, ref, id)
		}
	}
	if v.Reference(core.RefClient) != nil {
		t.Error("LoadDefaults attached a client")
	}
	if len(res.Attached) != 3 {
		t.Errorf("attached %d, want 3", len(res.Attached))
	}
}

func TestLoadDefaults_FirstPriceListWithoutDefault(t *testing.T) {
	f := newFixture(t, app.Options{})
	f.catalog.priceLists = []core.PriceList{{ID: 60, Name: "A"}, {ID: 61, Name: "B"}}
	f.svc.LoadDefaults(context.Background())
	if ref := f.svc.Draft().Reference(core.RefPriceList); ref == nil || ref.ID != 60 {
		t.Errorf("price list = %+v, want 60", ref)
	}
}

func TestAddProduct(t *testing.T) {
	f := newFixture(t, app.Options{})
	if _, _, err := f.svc.AddProduct(10, decimal.NewFromInt(1)); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("unlisted product: %v", err)
	}
	f.svc.ListProducts(context.Background())
	i, line, err := f.svc.AddProduct(11, decimal.Zero)
	if err != nil {
		t.Fatal(err)
	}
	if i != 0 || !line.Quantity.Equal(decimal.NewFromInt(1)) || line.UnitID != 116 || line.DisplayName != "Gadget" {
		t.Errorf("line = %+v", line)
	}
	if !line.LineTotal.Equal(decimal.RequireFromString("49.9")) {
		t.Errorf("total = %s", line.LineTotal)
	}
}

func TestEditLine_SplitsMixedEdit(t *testing.T) {
	f := newFixture(t, app.Options{})
	f.svc.ListProducts(context.Background())
	_, _, _ = f.svc.AddProduct(10, decimal.NewFromInt(2))

	total := decimal.NewFromInt(150)
	pct := decimal.NewFromInt(10)
	mixed := core.LineEdit{LineTotal: &total, DiscountPercent: &pct}

	if _, err := f.svc.UpdateLine(0, mixed); !errors.Is(err, core.ErrMixedEdit) {
		t.Fatalf("UpdateLine(mixed) = %v, want ErrMixedEdit", err)
	}
	line, err := f.svc.EditLine(0, mixed)
	if err != nil {
		t.Fatal(err)
	}
	// override: price 75, then forward with 10%: 150 - 15 = 135
	if !line.UnitPrice.Equal(decimal.NewFromInt(75)) || !line.LineTotal.Equal(decimal.NewFromInt(135)) {
		t.Errorf("line = price %s total %s", line.UnitPrice, line.LineTotal)
	}
}

func TestLineOps_IndexErrors(t *testing.T) {
	f := newFixture(t, app.Options{})
	if _, err := f.svc.StepQuantity(0, 1); !errors.Is(err, core.ErrIndexOutOfRange) {
		t.Errorf("StepQuantity = %v", err)
	}
	if err := f.svc.RemoveLine(3); !errors.Is(err, core.ErrIndexOutOfRange) {
		t.Errorf("RemoveLine = %v", err)
	}
}

func TestSubmitOrder_IncompleteNeverCallsGateway(t *testing.T) {
	f := newFixture(t, app.Options{})
	if _, err := f.svc.SubmitOrder(context.Background(), false); !errors.Is(err, core.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
	if f.orders.count() != 0 {
		t.Error("gateway called for incomplete draft")
	}
	if f.svc.SubmissionState() != app.SubmissionIdle {
		t.Error("state changed")
	}
}

func TestSubmitOrder_RejectsDoubleSubmit(t *testing.T) {
	f := newFixture(t, app.Options{})
	f.complete(t)
	f.orders.block = make(chan struct{})
	f.orders.entered = make(chan struct{}, 1)

	done := make(chan error, 1)
	go func() {
		_, err := f.svc.SubmitOrder(context.Background(), true)
		done <- err
	}()
	<-f.orders.entered

	if f.svc.SubmissionState() != app.SubmissionInFlight {
		t.Errorf("state = %v, want in_flight", f.svc.SubmissionState())
	}
	if _, err := f.svc.SubmitOrder(context.Background(), true); !errors.Is(err, app.ErrSubmissionPending) {
		t.Errorf("second submit = %v, want ErrSubmissionPending", err)
	}
	close(f.orders.block)
	if err := <-done; err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if f.orders.count() != 1 {
		t.Errorf("gateway calls = %d, want 1", f.orders.count())
	}
}

func TestSubmitOrder_FailureKeepsDraft(t *testing.T) {
	f := newFixture(t, app.Options{})
	f.complete(t)
	f.orders.err = core.ErrNetwork
	before := f.svc.Draft()

	if _, err := f.svc.SubmitOrder(context.Background(), false); !errors.Is(err, core.ErrNetwork) {
		t.Fatalf("err = %v, want ErrNetwork", err)
	}
	after := f.svc.Draft()
	if len(after.Lines) != len(before.Lines) || !after.TotalNet.Equal(before.TotalNet) || !after.Complete {
		t.Errorf("draft changed after failure: %+v", after)
	}
	if after.Submission != app.SubmissionIdle {
		t.Errorf("state = %v, want idle", after.Submission)
	}

	f.orders.err = nil
	if _, err := f.svc.SubmitOrder(context.Background(), false); err != nil {
		t.Fatalf("retry: %v", err)
	}
}

func TestSubmitOrder_SuccessResetsImmediatelyWithoutDelay(t *testing.T) {
	f := newFixture(t, app.Options{})
	f.complete(t)
	f.svc.SetComment("  deliver before noon ")

	res, err := f.svc.SubmitOrder(context.Background(), true)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Posted || res.Lines != 1 || !res.TotalNet.Equal(decimal.NewFromInt(200)) {
		t.Errorf("result = %+v", res)
	}
	sub := f.orders.subs[0]
	if sub.Client.ID != 1 || sub.Warehouse.ID != 20 || sub.PriceList.ID != 51 || sub.Comment != "deliver before noon" {
		t.Errorf("submission = %+v", sub)
	}
	if sub.Dated.Unix() != 1700000000 {
		t.Errorf("dated = %v", sub.Dated)
	}
	v := f.svc.Draft()
	if len(v.Lines) != 0 || v.Reference(core.RefClient) != nil || v.Submission != app.SubmissionIdle {
		t.Errorf("draft not reset: %+v", v)
	}
}

func TestSubmitOrder_ConfirmationDelay(t *testing.T) {
	f := newFixture(t, app.Options{ConfirmDelay: 50 * time.Millisecond})
	f.complete(t)

	if _, err := f.svc.SubmitOrder(context.Background(), false); err != nil {
		t.Fatal(err)
	}
	if f.svc.SubmissionState() != app.SubmissionConfirmed {
		t.Fatalf("state = %v, want confirmed", f.svc.SubmissionState())
	}
	if len(f.svc.Draft().Lines) != 1 {
		t.Error("draft reset before the confirmation delay")
	}
	if _, err := f.svc.SubmitOrder(context.Background(), false); !errors.Is(err, app.ErrSubmissionPending) {
		t.Errorf("submit while confirming = %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for f.svc.SubmissionState() != app.SubmissionIdle && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	v := f.svc.Draft()
	if v.Submission != app.SubmissionIdle || len(v.Lines) != 0 {
		t.Errorf("draft after delay: %+v", v)
	}
}

func TestLogout_ResetsDraftAndCache(t *testing.T) {
	f := newFixture(t, app.Options{ConfirmDelay: time.Hour})
	f.complete(t)
	if _, err := f.svc.SubmitOrder(context.Background(), false); err != nil {
		t.Fatal(err)
	}

	if err := f.svc.Logout(context.Background()); err != nil {
		t.Fatal(err)
	}
	if f.svc.Authenticated() {
		t.Error("still authenticated")
	}
	v := f.svc.Draft()
	if len(v.Lines) != 0 || v.Submission != app.SubmissionIdle {
		t.Errorf("draft after logout: %+v", v)
	}
	if _, err := f.svc.Attach(core.RefClient, 1); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("cache survived logout: %v", err)
	}
}

func TestCreateClient(t *testing.T) {
	f := newFixture(t, app.Options{})
	if _, err := f.svc.CreateClient(context.Background(), core.NewClient{Name: "  "}); !errors.Is(err, core.ErrValidation) {
		t.Errorf("blank name = %v", err)
	}
	c, err := f.svc.CreateClient(context.Background(), core.NewClient{Name: " Petr ", Phone: "7900"})
	if err != nil {
		t.Fatal(err)
	}
	if f.catalog.created[0].Name != "Petr" {
		t.Errorf("sent name %q", f.catalog.created[0].Name)
	}
	if _, err := f.svc.Attach(core.RefClient, c.ID); err != nil {
		t.Errorf("created client not selectable: %v", err)
	}
}

func TestCreateClient_PropagatesGatewayError(t *testing.T) {
	f := newFixture(t, app.Options{})
	f.catalog.err = core.ErrUnauthorized
	if _, err := f.svc.CreateClient(context.Background(), core.NewClient{Name: "X"}); !errors.Is(err, core.ErrUnauthorized) {
		t.Errorf("err = %v", err)
	}
}
