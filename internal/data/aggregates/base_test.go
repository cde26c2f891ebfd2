package aggregates

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	domainagg "github.com/yungbote/profileforms-backend/internal/domain/aggregates"
	"github.com/yungbote/profileforms-backend/internal/observability"
	"github.com/yungbote/profileforms-backend/internal/platform/dbctx"
)

func TestExecuteWriteOutcomes(t *testing.T) {
	cases := []struct {
		name       string
		op         string
		body       error
		wantCode   domainagg.ErrorCode
		wantStatus string
		conflicts  int
		retries    int
	}{
		{name: "success", op: "schema.mutate", wantStatus: "success"},
		{name: "stale document", op: "schema.mutate", body: ConflictError("schema document version moved"),
			wantCode: domainagg.CodeConflict, wantStatus: "conflict", conflicts: 1},
		{name: "lock timeout", op: "schema.migrate", body: RetryableError("lock timeout"),
			wantCode: domainagg.CodeRetryable, wantStatus: "retryable", retries: 1},
		{name: "corrupt document", op: "schema.migrate", body: InvariantError("profile type key does not match id"),
			wantCode: domainagg.CodeInvariantViolation, wantStatus: "invariant_violation"},
		{name: "bad question pattern", op: "schema.questions", body: ValidationError("pattern does not compile"),
			wantCode: domainagg.CodeValidation, wantStatus: "validation"},
		{name: "store failure", op: "schema.seed", body: errors.New("disk full"),
			wantCode: domainagg.CodePersistence, wantStatus: "persistence"},
		{name: "blank op name", op: "  ", wantStatus: "success"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			hooks := &spyHooks{}
			err := executeWrite(context.Background(), BaseDeps{Runner: spyTxRunner{}, Hooks: hooks}, tc.op,
				func(_ dbctx.Context) error { return tc.body })

			if tc.wantCode == "" && err != nil {
				t.Fatalf("executeWrite: %v", err)
			}
			if tc.wantCode != "" && !domainagg.IsCode(err, tc.wantCode) {
				t.Fatalf("code: want=%s got=%v", tc.wantCode, err)
			}
			if len(hooks.Operations) != 1 || hooks.Operations[0].Status != tc.wantStatus {
				t.Fatalf("operations: want one with status=%s got=%+v", tc.wantStatus, hooks.Operations)
			}
			wantName := strings.TrimSpace(tc.op)
			if wantName == "" {
				wantName = "aggregate.write"
			}
			if hooks.Operations[0].Name != wantName {
				t.Fatalf("op name: want=%s got=%s", wantName, hooks.Operations[0].Name)
			}
			if len(hooks.Conflicts) != tc.conflicts || len(hooks.Retries) != tc.retries {
				t.Fatalf("counters: want conflicts=%d retries=%d got=%v/%v", tc.conflicts, tc.retries, hooks.Conflicts, hooks.Retries)
			}
		})
	}
}

func TestAggregateErrorStatus(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{nil, "success"},
		{context.DeadlineExceeded, string(domainagg.CodeRetryable)},
		{MapError("schema.load", errors.New("connection reset")), string(domainagg.CodePersistence)},
		{errors.New("disk full"), string(domainagg.CodePersistence)},
		{&pgconn.PgError{Code: "23505"}, string(domainagg.CodeConflict)},
		{&pgconn.PgError{Code: "40P01"}, string(domainagg.CodeRetryable)},
	}
	for _, tc := range cases {
		if got := aggregateErrorStatus(tc.err); got != tc.want {
			t.Fatalf("status(%v): want=%s got=%s", tc.err, tc.want, got)
		}
	}
}

func TestObservabilityHooksFeedMetrics(t *testing.T) {
	m := observability.NewMetrics()
	hooks := NewObservabilityHooks(m)
	_ = executeWrite(context.Background(), BaseDeps{Runner: spyTxRunner{}, Hooks: hooks}, "schema.mutate",
		func(_ dbctx.Context) error { return ConflictError("stale") })

	var buf bytes.Buffer
	if err := m.WritePrometheus(&buf); err != nil {
		t.Fatalf("WritePrometheus: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`pf_aggregate_operations_total{operation="schema.mutate",status="conflict"} 1.000000`,
		`pf_aggregate_conflicts_total{operation="schema.mutate"} 1.000000`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("metrics output missing %q:\n%s", want, out)
		}
	}

	if _, ok := NewObservabilityHooks(nil).(noopHooks); !ok {
		t.Fatalf("nil metrics should yield noop hooks")
	}
}

type spyTxRunner struct{}

func (spyTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(dbctx.Context{Ctx: ctx})
}

type spyHooks struct {
	Operations []spyOperation
	Conflicts  []string
	Retries    []string
}

type spyOperation struct {
	Name   string
	Status string
}

func (h *spyHooks) ObserveOperation(name, status string, _ time.Duration) {
	h.Operations = append(h.Operations, spyOperation{Name: name, Status: status})
}

func (h *spyHooks) IncConflict(name string) {
	h.Conflicts = append(h.Conflicts, name)
}

func (h *spyHooks) IncRetry(name string) {
	h.Retries = append(h.Retries, name)
}
