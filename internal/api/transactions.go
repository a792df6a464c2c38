package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

const pathTransactions = "/investor/transactions"

// Direction classifies a transaction as money in or out of the investor's
// account.
type Direction string

const (
	DirectionIn      Direction = "in"
	DirectionOut     Direction = "out"
	DirectionUnknown Direction = "unknown"
)

// transactionDirections is the authoritative classification table. A type
// the server introduces without a row here reads as unknown; that is
// deliberate, so new types surface instead of being guessed at.
var transactionDirections = map[string]Direction{
	"deposit":    DirectionIn,
	"dividend":   DirectionIn,
	"interest":   DirectionIn,
	"refund":     DirectionIn,
	"withdrawal": DirectionOut,
	"investment": DirectionOut,
	"fee":        DirectionOut,
}

// Direction reports whether the transaction moved money in or out.
func (t Transaction) Direction() Direction {
	if direction, ok := transactionDirections[t.Type]; ok {
		return direction
	}
	return DirectionUnknown
}

// TransactionQuery filters and paginates the transaction list. Zero values
// are omitted and the server defaults apply.
type TransactionQuery struct {
	Page    int
	PerPage int
	Type    string
}

// Transactions lists the investor's transactions, newest first.
func (c *Client) Transactions(ctx context.Context, q TransactionQuery) (TransactionPage, error) {
	query := url.Values{}
	if q.Page > 0 {
		query.Set("page", strconv.Itoa(q.Page))
	}
	if q.PerPage > 0 {
		query.Set("per_page", strconv.Itoa(q.PerPage))
	}
	if q.Type != "" {
		query.Set("type", q.Type)
	}
	return call[TransactionPage](ctx, c, http.MethodGet, pathTransactions, query, nil)
}

// Transaction fetches a single transaction by id.
func (c *Client) Transaction(ctx context.Context, id int64) (Transaction, error) {
	return call[Transaction](ctx, c, http.MethodGet, fmt.Sprintf("%s/%d", pathTransactions, id), nil, nil)
}
