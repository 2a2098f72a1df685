// Package store implements Firestore-backed persistence for endpoints,
// items and users, including the shared execution path for filter queries:
// native constraints are pushed down, deferred clauses are re-evaluated
// against the retrieved documents, and the limit is applied wherever it is
// still correct to do so.
package store

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/marco0antonio0/back-makeapi/internal/apierrors"
	"github.com/marco0antonio0/back-makeapi/internal/metrics"
	"github.com/marco0antonio0/back-makeapi/internal/query"
)

const (
	endpointCollection = "endpoint"
	itemCollection     = "itens"
	userCollection     = "users"
)

// isoLayout matches the wire format for timestamps (UTC, millisecond
// precision, trailing Z).
const isoLayout = "2006-01-02T15:04:05.000Z"

// Store wraps the Firestore client shared by all repositories.
type Store struct {
	client *firestore.Client
}

// New creates a Store around an initialized Firestore client.
func New(client *firestore.Client) *Store {
	return &Store{client: client}
}

// document is a raw store row: generated id plus opaque payload.
type document struct {
	id   string
	data map[string]any
}

// runFilterQuery executes a compiled filter request against a collection.
// When any clause was deferred, no native limit is applied — the candidate
// set must be complete before local filtering — and the limit is enforced
// by truncation afterwards, preserving store order.
func (s *Store) runFilterQuery(ctx context.Context, col string, req query.Request) ([]document, error) {
	plan := query.Compile(req)
	metrics.ObserveQuery(len(plan.Post) > 0)

	q := s.client.Collection(col).Query
	for _, c := range plan.Native {
		q = q.WherePath(firestore.FieldPath(c.Path), string(c.Op), c.Value)
	}
	if plan.NativeLimit > 0 {
		q = q.Limit(plan.NativeLimit)
	}

	snaps, err := q.Documents(ctx).GetAll()
	if err != nil {
		return nil, mapQueryError(err)
	}

	rows := make([]document, 0, len(snaps))
	for _, snap := range snaps {
		rows = append(rows, document{id: snap.Ref.ID, data: snap.Data()})
	}

	if len(plan.Post) > 0 {
		filtered := make([]document, 0, len(rows))
		for _, d := range rows {
			if query.MatchesAll(d.data, plan.Post) {
				filtered = append(filtered, d)
			}
		}
		rows = filtered
		if req.Limit > 0 && len(rows) > req.Limit {
			rows = rows[:req.Limit]
		}
	}

	return rows, nil
}

var indexLinkRE = regexp.MustCompile(`https://\S+`)

// mapQueryError surfaces a missing-composite-index rejection as a client
// error carrying the store's provisioning link verbatim. Index problems are
// deterministic and need operator action, so they are never retried.
func mapQueryError(err error) error {
	st, ok := status.FromError(err)
	if !ok || st.Code() != codes.FailedPrecondition {
		return err
	}
	msg := "query requires a composite index"
	if link := indexLinkRE.FindString(st.Message()); link != "" {
		msg = fmt.Sprintf("%s, create it at %s", msg, link)
	}
	return apierrors.New(http.StatusBadRequest, msg, err)
}

// getExisting fetches a document snapshot, converting the store's own
// not-found semantics into a clean NotFound with the caller's message.
func (s *Store) getExisting(ctx context.Context, col, id, notFoundMsg string) (*firestore.DocumentSnapshot, error) {
	snap, err := s.client.Collection(col).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, apierrors.NotFound(notFoundMsg)
		}
		return nil, err
	}
	return snap, nil
}

// isoTime renders a store timestamp as an ISO-8601 string, or "" when the
// value is absent or not a timestamp. Empty string, not null, keeps the
// wire shape stable.
func isoTime(v any) string {
	t, ok := v.(time.Time)
	if !ok {
		return ""
	}
	return t.UTC().Format(isoLayout)
}

func stringField(data map[string]any, key string) string {
	s, _ := data[key].(string)
	return s
}
