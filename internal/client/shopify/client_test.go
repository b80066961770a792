package shopify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"stockroom/internal/credentials"
	"stockroom/internal/httpx"
	"stockroom/internal/paging"
)

func newTestClient(srv *httptest.Server, token string) *Client {
	auth := &httpx.AuthClient{
		Exec:  &httpx.Executor{Client: srv.Client()},
		Creds: credentials.NewStatic(token),
	}
	return NewClient(Config{Host: srv.URL, ShopDomain: "demo"}, auth)
}

func TestProductsPageDecodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/admin/api/products" {
			t.Errorf("path=%s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer shop-token" {
			t.Errorf("authorization=%q", got)
		}
		if got := r.URL.Query().Get("limit"); got != "50" {
			t.Errorf("limit=%q", got)
		}
		if got := r.URL.Query().Get("after"); got != "cur-1" {
			t.Errorf("after=%q", got)
		}
		_, _ = w.Write([]byte(`{
			"products": [
				{"id": "1001", "title": "Widget", "status": "active",
				 "variants": [{"id": "v1", "sku": "W-1", "price": "19.90", "inventoryQuantity": 7}]},
				{"id": "1002", "title": "Gadget", "status": "draft", "variants": []}
			],
			"pageInfo": {"hasNextPage": true, "endCursor": "cur-2"}
		}`))
	}))
	defer srv.Close()

	products, info, err := newTestClient(srv, "shop-token").ProductsPage(context.Background(), "cur-1", 50)
	if err != nil {
		t.Fatalf("products page: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("products=%d want 2", len(products))
	}
	if products[0].ID != "1001" || products[0].Title != "Widget" {
		t.Errorf("first product=%+v", products[0])
	}
	v := products[0].PrimaryVariant()
	if v == nil || v.SKU != "W-1" || v.InventoryQuantity != 7 {
		t.Fatalf("variant=%+v", v)
	}
	if !v.Price.Equal(decimal.RequireFromString("19.90")) {
		t.Errorf("price=%s", v.Price)
	}
	if products[1].PrimaryVariant() != nil {
		t.Errorf("expected no variant on second product")
	}
	if !info.HasNextPage || info.EndCursor != "cur-2" {
		t.Errorf("pageInfo=%+v", info)
	}
}

func TestOrdersPageDecodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/admin/api/orders" {
			t.Errorf("path=%s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{
			"orders": [
				{"id": "5001", "name": "#1001", "currency": "USD", "financialStatus": "paid",
				 "totalPrice": "52.50",
				 "customer": {"id": "9001", "displayName": "Acme Co", "email": "ops@acme.test"},
				 "lineItems": [
					{"productId": "1001", "title": "Widget", "sku": "W-1", "quantity": 2, "unitPrice": "19.90"},
					{"productId": "1002", "title": "Gadget", "quantity": 1, "unitPrice": "12.70"}
				 ]}
			],
			"pageInfo": {"hasNextPage": false, "endCursor": ""}
		}`))
	}))
	defer srv.Close()

	orders, info, err := newTestClient(srv, "shop-token").OrdersPage(context.Background(), "", 50)
	if err != nil {
		t.Fatalf("orders page: %v", err)
	}
	if len(orders) != 1 {
		t.Fatalf("orders=%d want 1", len(orders))
	}
	o := orders[0]
	if o.ID != "5001" || o.FinancialStatus != "paid" {
		t.Errorf("order=%+v", o)
	}
	if !o.TotalPrice.Equal(decimal.RequireFromString("52.50")) {
		t.Errorf("total=%s", o.TotalPrice)
	}
	if o.Customer == nil || o.Customer.ID != "9001" {
		t.Fatalf("customer=%+v", o.Customer)
	}
	if len(o.LineItems) != 2 || o.LineItems[0].Quantity != 2 {
		t.Errorf("lineItems=%+v", o.LineItems)
	}
	if info.HasNextPage {
		t.Errorf("expected last page")
	}
}

func TestProductsCollectAcrossPages(t *testing.T) {
	pages := map[string]string{
		"": `{"products": [{"id": "1"}, {"id": "2"}],
		     "pageInfo": {"hasNextPage": true, "endCursor": "c1"}}`,
		"c1": `{"products": [{"id": "3"}],
		       "pageInfo": {"hasNextPage": false, "endCursor": ""}}`,
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := pages[r.URL.Query().Get("after")]
		if !ok {
			t.Errorf("unexpected cursor %q", r.URL.Query().Get("after"))
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	got, err := paging.CollectCursor(context.Background(), paging.Options{PageSize: 2}, newTestClient(srv, "t").ProductsPage)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if got.Pages != 2 || len(got.Records) != 3 {
		t.Fatalf("pages=%d records=%d", got.Pages, len(got.Records))
	}
	var ids []string
	for _, p := range got.Records {
		ids = append(ids, p.ID)
	}
	if ids[0] != "1" || ids[1] != "2" || ids[2] != "3" {
		t.Errorf("ids=%v", ids)
	}
}

func TestCreateProduct(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/admin/api/products" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		var in struct {
			Product ProductInput `json:"product"`
		}
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if in.Product.Title != "Widget" || in.Product.SKU != "W-1" {
			t.Errorf("input=%+v", in.Product)
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"product": {"id": "7001", "title": "Widget", "status": "active"}}`))
	}))
	defer srv.Close()

	created, err := newTestClient(srv, "t").CreateProduct(context.Background(), ProductInput{
		Title: "Widget",
		SKU:   "W-1",
		Price: decimal.RequireFromString("19.90"),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID != "7001" {
		t.Errorf("id=%q", created.ID)
	}
}

func TestUpdateProductRequiresID(t *testing.T) {
	c := NewClient(Config{Host: "http://unused"}, &httpx.AuthClient{Exec: &httpx.Executor{}})
	if _, err := c.UpdateProduct(context.Background(), "  ", ProductInput{}); err == nil {
		t.Fatal("expected error for blank id")
	}
}

func TestCheckCredentials(t *testing.T) {
	auth := &httpx.AuthClient{Exec: &httpx.Executor{}, Creds: credentials.NewStatic("")}
	c := NewClient(Config{ShopDomain: "demo"}, auth)
	if err := c.CheckCredentials(); !errors.Is(err, httpx.ErrMissingCredentials) {
		t.Fatalf("err=%v want missing credentials", err)
	}

	auth.Creds = credentials.NewStatic("tok")
	if err := c.CheckCredentials(); err != nil {
		t.Fatalf("unexpected: %v", err)
	}

	blank := NewClient(Config{}, auth)
	if err := blank.CheckCredentials(); !errors.Is(err, httpx.ErrMissingCredentials) {
		t.Fatalf("err=%v want missing shop domain", err)
	}
}
