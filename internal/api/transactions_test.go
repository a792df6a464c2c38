package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestTransactionDirection(t *testing.T) {
	cases := []struct {
		txType string
		want   Direction
	}{
		{"deposit", DirectionIn},
		{"dividend", DirectionIn},
		{"interest", DirectionIn},
		{"refund", DirectionIn},
		{"withdrawal", DirectionOut},
		{"investment", DirectionOut},
		{"fee", DirectionOut},
		{"promo-credit", DirectionUnknown},
		{"", DirectionUnknown},
	}
	for _, tc := range cases {
		tx := Transaction{Type: tc.txType}
		if got := tx.Direction(); got != tc.want {
			t.Errorf("Direction(%q) = %q, want %q", tc.txType, got, tc.want)
		}
	}
}

func TestTransactionsQueryParams(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		if query.Get("page") != "2" || query.Get("per_page") != "25" || query.Get("type") != "deposit" {
			t.Errorf("unexpected query: %v", query)
		}
		writeEnvelope(t, w, http.StatusOK, map[string]any{
			"success": true, "code": 200, "message": "ok",
			"data": map[string]any{
				"data":         []map[string]any{{"id": 10, "type": "deposit", "amount": 250.0}},
				"current_page": 2,
				"per_page":     25,
				"total":        51,
				"last_page":    3,
			},
		})
	}))
	defer ts.Close()

	client, _ := newTestClient(t, ts.URL)
	page, err := client.Transactions(context.Background(), TransactionQuery{Page: 2, PerPage: 25, Type: "deposit"})
	if err != nil {
		t.Fatalf("transactions: %v", err)
	}
	if page.CurrentPage != 2 || page.Total != 51 || len(page.Items) != 1 {
		t.Fatalf("unexpected page: %+v", page)
	}
	if page.Items[0].Amount != 250.0 {
		t.Fatalf("unexpected amount: %v", page.Items[0].Amount)
	}
}
