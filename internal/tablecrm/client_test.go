package tablecrm_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"order-desk/internal/core"
	"order-desk/internal/tablecrm"

	"github.com/shopspring/decimal"
)

type staticToken string

func (s staticToken) Token() (string, bool) {
	return string(s), s != ""
}

type recorded struct {
	method string
	path   string
	query  map[string]string
	body   []byte
}

// fakeAPI records every request and answers with the response registered for its path.
type fakeAPI struct {
	mu        sync.Mutex
	requests  []recorded
	responses map[string]string
	status    int
}

func newFakeAPI(t *testing.T) (*fakeAPI, *httptest.Server) {
	t.Helper()
	f := &fakeAPI{responses: map[string]string{}, status: http.StatusOK}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		q := map[string]string{}
		for k := range r.URL.Query() {
			q[k] = r.URL.Query().Get(k)
		}
		f.mu.Lock()
		f.requests = append(f.requests, recorded{method: r.Method, path: r.URL.Path, query: q, body: body})
		status, resp := f.status, f.responses[r.URL.Path]
		f.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, resp)
	}))
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakeAPI) last(t *testing.T) recorded {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		t.Fatal("no request recorded")
	}
	return f.requests[len(f.requests)-1]
}

func (f *fakeAPI) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func TestClient_TokenAttachedAsQueryParam(t *testing.T) {
	f, srv := newFakeAPI(t)
	f.responses["/warehouses/"] = `{"result":[{"id":1,"name":"Main"}]}`
	c := tablecrm.NewClient(srv.URL, staticToken("secret-token"), time.Second)

	list, err := c.ListWarehouses(context.Background())
	if err != nil {
		t.Fatalf("ListWarehouses: %v", err)
	}
	if len(list) != 1 || list[0].Name != "Main" {
		t.Errorf("list = %+v", list)
	}
	req := f.last(t)
	if req.method != http.MethodGet || req.path != "/warehouses/" {
		t.Errorf("request = %s %s", req.method, req.path)
	}
	if req.query["token"] != "secret-token" {
		t.Errorf("token param = %q", req.query["token"])
	}
}

func TestClient_NoTokenMakesNoRequest(t *testing.T) {
	f, srv := newFakeAPI(t)
	c := tablecrm.NewClient(srv.URL, staticToken(""), time.Second)

	_, err := c.ListProducts(context.Background(), 20)
	if !errors.Is(err, core.ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
	if f.count() != 0 {
		t.Errorf("%d requests sent without a token", f.count())
	}
}

func TestClient_StatusMapping(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, core.ErrUnauthorized},
		{http.StatusForbidden, core.ErrUnauthorized},
		{http.StatusInternalServerError, core.ErrNetwork},
		{http.StatusUnprocessableEntity, core.ErrNetwork},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			f, srv := newFakeAPI(t)
			f.status = tt.status
			f.responses["/payboxes/"] = `{"detail":"nope"}`
			c := tablecrm.NewClient(srv.URL, staticToken("t"), time.Second)

			_, err := c.ListCashAccounts(context.Background())
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			var apiErr *tablecrm.APIError
			if !errors.As(err, &apiErr) || apiErr.Status != tt.status {
				t.Errorf("APIError = %+v", apiErr)
			}
		})
	}
}

func TestClient_TransportFailureIsNetworkError(t *testing.T) {
	_, srv := newFakeAPI(t)
	url := srv.URL
	srv.Close()
	c := tablecrm.NewClient(url, staticToken("t"), time.Second)

	_, err := c.ListOrganizations(context.Background())
	if !errors.Is(err, core.ErrNetwork) {
		t.Fatalf("err = %v, want ErrNetwork", err)
	}
}

func TestClient_SearchClientsRouting(t *testing.T) {
	tests := []struct {
		query     string
		wantKey   string
		wantValue string
	}{
		{"Ivan", "name", "Ivan"},
		{"Иван", "name", "Иван"},
		{"+7 (900) 123-45-67", "phone", "79001234567"},
		{"8900", "phone", "8900"},
		{"ООО 123", "name", "ООО 123"},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			f, srv := newFakeAPI(t)
			f.responses["/contragents/"] = `[]`
			c := tablecrm.NewClient(srv.URL, staticToken("t"), time.Second)

			list, err := c.SearchClients(context.Background(), tt.query)
			if err != nil {
				t.Fatalf("SearchClients: %v", err)
			}
			if list == nil || len(list) != 0 {
				t.Errorf("list = %#v, want empty", list)
			}
			req := f.last(t)
			if got := req.query[tt.wantKey]; got != tt.wantValue {
				t.Errorf("%s = %q, want %q (query %v)", tt.wantKey, got, tt.wantValue, req.query)
			}
		})
	}
}

func TestClient_SearchProductsLimit(t *testing.T) {
	f, srv := newFakeAPI(t)
	f.responses["/nomenclature/"] = `{"result":[{"id":4,"name":"Tea","price":"12.50","unit":116}],"count":1}`
	c := tablecrm.NewClient(srv.URL, staticToken("t"), time.Second)

	list, err := c.SearchProducts(context.Background(), "tea")
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || !list[0].Price.Equal(decimal.RequireFromString("12.5")) {
		t.Errorf("list = %+v", list)
	}
	req := f.last(t)
	if req.query["name"] != "tea" || req.query["limit"] != "50" {
		t.Errorf("query = %v", req.query)
	}
}

func TestClient_CreateClient(t *testing.T) {
	f, srv := newFakeAPI(t)
	f.responses["/contragents/"] = `{"data":{"id":31,"name":"Petr","phone":"79000000000"}}`
	c := tablecrm.NewClient(srv.URL, staticToken("t"), time.Second)

	created, err := c.CreateClient(context.Background(), core.NewClient{Name: "Petr", Phone: "79000000000"})
	if err != nil {
		t.Fatal(err)
	}
	if created.ID != 31 {
		t.Errorf("created = %+v", created)
	}
	req := f.last(t)
	var sent map[string]any
	if err := json.Unmarshal(req.body, &sent); err != nil {
		t.Fatal(err)
	}
	if req.method != http.MethodPost || sent["name"] != "Petr" {
		t.Errorf("sent %s %v", req.method, sent)
	}
}

func submission(post bool, priceList bool) core.OrderSubmission {
	d := core.NewDraft()
	card := 555
	_ = d.Attach(core.RefClient, &core.Reference{ID: 1, Name: "Acme", LoyaltyCardID: &card})
	_ = d.Attach(core.RefWarehouse, &core.Reference{ID: 2})
	_ = d.Attach(core.RefCashAccount, &core.Reference{ID: 3})
	_ = d.Attach(core.RefOrganization, &core.Reference{ID: 4})
	_ = d.Attach(core.RefPriceList, &core.Reference{ID: 5})
	d.AddLine(100, 116, decimal.NewFromInt(100), decimal.NewFromInt(2), "Widget")
	pct := decimal.NewFromInt(10)
	_, _ = d.UpdateLine(0, core.LineEdit{DiscountPercent: &pct})
	sub, err := d.Submission(time.Unix(1700000000, 0), post)
	if err != nil {
		panic(err)
	}
	if !priceList {
		sub.PriceList = nil
	}
	return sub
}

func TestClient_CreateOrderPayload(t *testing.T) {
	tests := []struct {
		name      string
		post      bool
		priceList bool
	}{
		{"draft", false, true},
		{"posted", true, true},
		{"without price list", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, srv := newFakeAPI(t)
			f.responses["/docs_sales/"] = `[{"id":1}]`
			c := tablecrm.NewClient(srv.URL, staticToken("t"), time.Second)

			if err := c.CreateOrder(context.Background(), submission(tt.post, tt.priceList)); err != nil {
				t.Fatalf("CreateOrder: %v", err)
			}
			req := f.last(t)
			if req.method != http.MethodPost || req.path != "/docs_sales/" {
				t.Fatalf("request = %s %s", req.method, req.path)
			}
			var sent []map[string]any
			if err := json.Unmarshal(req.body, &sent); err != nil {
				t.Fatalf("body is not an array: %v", err)
			}
			if len(sent) != 1 {
				t.Fatalf("array has %d elements", len(sent))
			}
			o := sent[0]
			fixed := map[string]any{
				"priority": 0.0, "dated": 1700000000.0, "operation": "Заказ",
				"tax_included": true, "tax_active": true, "contragent": 1.0, "warehouse": 2.0,
				"paybox": 3.0, "organization": 4.0, "loyality_card_id": 555.0, "status": tt.post,
				"paid_rubles": 180.0, "paid_lt": 0.0,
			}
			for k, want := range fixed {
				if o[k] != want {
					t.Errorf("%s = %v, want %v", k, o[k], want)
				}
			}
			if _, ok := o["post"]; ok != tt.post {
				t.Errorf("post present = %v, want %v", ok, tt.post)
			}
			if _, ok := o["price_type"]; ok != tt.priceList {
				t.Errorf("price_type present = %v, want %v", ok, tt.priceList)
			}
			goods, _ := o["goods"].([]any)
			if len(goods) != 1 {
				t.Fatalf("goods = %v", o["goods"])
			}
			g := goods[0].(map[string]any)
			for k, want := range map[string]float64{"nomenclature": 100, "unit": 116, "quantity": 2, "price": 100, "discount": 10, "sum_discounted": 20} {
				if g[k] != want {
					t.Errorf("goods[0].%s = %v, want %v", k, g[k], want)
				}
			}
		})
	}
}
