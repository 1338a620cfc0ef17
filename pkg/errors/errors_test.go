package errors

import (
	stdErrors "errors"
	"fmt"
	"net"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

func TestMetadataForKnownCodes(t *testing.T) {
	tests := []struct {
		code      Code
		status    int
		publicMsg string
		retryable bool
		detailsOK bool
	}{
		{code: CodeValidation, status: http.StatusBadRequest, publicMsg: "validation failed", detailsOK: true},
		{code: CodeNotFound, status: http.StatusNotFound, publicMsg: "resource not found"},
		{code: CodeConflict, status: http.StatusConflict, publicMsg: "conflict detected", detailsOK: true},
		{code: CodeStateConflict, status: http.StatusUnprocessableEntity, publicMsg: "state transition disallowed", detailsOK: true},
		{code: CodeRejected, status: http.StatusUnprocessableEntity, publicMsg: "rejected by store", detailsOK: true},
		{code: CodeNotConfigured, status: http.StatusServiceUnavailable, publicMsg: "database is not configured", detailsOK: true},
		{code: CodeInternal, status: http.StatusInternalServerError, publicMsg: "internal server error", retryable: true, detailsOK: true},
		{code: CodeDependency, status: http.StatusServiceUnavailable, publicMsg: "dependency unavailable", retryable: true, detailsOK: true},
	}

	for _, tt := range tests {
		meta := MetadataFor(tt.code)
		if meta.HTTPStatus != tt.status {
			t.Fatalf("code %s expected status %d got %d", tt.code, tt.status, meta.HTTPStatus)
		}
		if meta.PublicMessage != tt.publicMsg {
			t.Fatalf("code %s expected public message %q got %q", tt.code, tt.publicMsg, meta.PublicMessage)
		}
		if meta.Retryable != tt.retryable {
			t.Fatalf("code %s expected retryable %v got %v", tt.code, tt.retryable, meta.Retryable)
		}
		if meta.DetailsAllowed != tt.detailsOK {
			t.Fatalf("code %s expected details allowed %v got %v", tt.code, tt.detailsOK, meta.DetailsAllowed)
		}
	}
}

func TestMetadataForUnknownCodeDefaultsToInternal(t *testing.T) {
	meta := MetadataFor("SOMETHING_UNKNOWN")
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal status, got %d", meta.HTTPStatus)
	}
}

func TestErrorConstructors(t *testing.T) {
	base := New(CodeValidation, "missing item_name")
	if base.Code() != CodeValidation {
		t.Fatalf("expected validation code, got %s", base.Code())
	}
	if base.Message() != "missing item_name" {
		t.Fatalf("unexpected message %q", base.Message())
	}
	if base.Details() != nil {
		t.Fatalf("details should be nil by default")
	}

	base.WithDetails(map[string]any{"field": "item_name"})
	if base.Details() == nil {
		t.Fatalf("details should be preserved")
	}

	cause := stdErrors.New("boom")
	wrapped := Wrap(CodeConflict, cause, "ctx")
	if !stdErrors.Is(wrapped, cause) {
		t.Fatalf("Wrap did not preserve cause")
	}
	if wrapped.Code() != CodeConflict {
		t.Fatalf("unexpected code %s", wrapped.Code())
	}
}

func TestAsAndIsCode(t *testing.T) {
	err := fmt.Errorf("sell: %w", New(CodeRejected, "stock guard"))
	if got := As(err); got == nil || got.Code() != CodeRejected {
		t.Fatalf("As failed to return typed error")
	}
	if !IsCode(err, CodeRejected) {
		t.Fatalf("expected IsCode to match through wrapping")
	}
	if IsCode(err, CodeConflict) {
		t.Fatalf("IsCode matched the wrong code")
	}
	if As(nil) != nil {
		t.Fatalf("As(nil) should return nil")
	}
}

func TestDumpCapturesPostgresFields(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "items_sku_key", TableName: "items", Message: "duplicate key value"}
	dump := Dump(Wrap(CodeConflict, pgErr, "insert item"))
	if dump.Code != CodeConflict {
		t.Fatalf("expected typed code in dump, got %s", dump.Code)
	}
	if dump.PGCode != "23505" || dump.PGConstraint != "items_sku_key" || dump.PGTable != "items" {
		t.Fatalf("unexpected pg fields %+v", dump)
	}
	if len(dump.Chain) != 2 {
		t.Fatalf("expected two chain entries, got %v", dump.Chain)
	}

	pqErr := &pq.Error{Code: "P0001", Message: "cashier is suspended"}
	dump = Dump(pqErr)
	if dump.PGCode != "P0001" || dump.PGMessage != "cashier is suspended" {
		t.Fatalf("unexpected pq dump %+v", dump)
	}

	trigger := &pq.Error{Code: "P0001", Message: "stock guard tripped", Hint: "restock first", Where: "PL/pgSQL function sales_guard() line 4 at RAISE"}
	dump = Dump(fmt.Errorf("sell: %w", trigger))
	if dump.PGHint != "restock first" || dump.PGWhere == "" {
		t.Fatalf("expected hint and where in dump, got %+v", dump)
	}

	if got := Dump(nil); got.TopMessage != "" {
		t.Fatalf("expected empty dump for nil error")
	}
}

func TestFromStoreClassifiesConnectivity(t *testing.T) {
	dial := &net.OpError{Op: "dial", Net: "tcp", Err: stdErrors.New("connection refused")}
	typed := FromStore(fmt.Errorf("query: %w", dial), "load items")
	if typed.Code() != CodeDependency {
		t.Fatalf("expected dependency code, got %s", typed.Code())
	}
	if _, ok := typed.Details().(ErrorDump); !ok {
		t.Fatalf("expected dump details, got %T", typed.Details())
	}

	typed = FromStore(stdErrors.New("syntax error"), "load items")
	if typed.Code() != CodeInternal {
		t.Fatalf("expected internal code, got %s", typed.Code())
	}
	if IsConnectivity(nil) {
		t.Fatalf("nil must not be a connectivity error")
	}
}
