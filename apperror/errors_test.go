package apperror

import (
	"errors"
	"fmt"
	"testing"
)

func TestAs_ExtractsUnderlyingAppError(t *testing.T) {
	ve := NewValidationError([]string{"field x is required"})

	ae, ok := As(ve)
	if !ok {
		t.Fatal("As() = false, want true")
	}
	if ae.Status != 400 || ae.Code != CodeValidation {
		t.Errorf("AppError = %+v, want Status=400 Code=VALIDATION_ERROR", ae)
	}
}

func TestAs_WorksThroughWrapping(t *testing.T) {
	se := NewSourceError("confluence", errors.New("dial timeout"))
	wrapped := fmt.Errorf("dispatch failed: %w", se)

	ae, ok := As(wrapped)
	if !ok {
		t.Fatal("As() through fmt.Errorf wrapping = false, want true")
	}
	if ae.Status != 502 {
		t.Errorf("Status = %d, want 502", ae.Status)
	}
}

func TestAs_UnclassifiedErrorReturnsFalse(t *testing.T) {
	if _, ok := As(errors.New("plain error")); ok {
		t.Error("As() on a plain error = true, want false")
	}
}

func TestTimeoutError_CarriesRetryAfter(t *testing.T) {
	te := NewTimeoutError(2000, errors.New("deadline exceeded"))
	if te.RetryAfterMS != 2000 {
		t.Errorf("RetryAfterMS = %d, want 2000", te.RetryAfterMS)
	}
	if te.Status != 503 {
		t.Errorf("Status = %d, want 503", te.Status)
	}
}

func TestCacheError_IsNonFatal(t *testing.T) {
	ce := NewCacheError(errors.New("redis down"))
	if ce.Status != 200 {
		t.Errorf("Status = %d, want 200 (cache errors never fail the request)", ce.Status)
	}
}

func TestUnhandledError_CarriesCorrelationID(t *testing.T) {
	ue := NewUnhandledError("req_123", errors.New("nil pointer"))
	if ue.CorrelationID != "req_123" {
		t.Errorf("CorrelationID = %q, want req_123", ue.CorrelationID)
	}
	if ue.Status != 500 {
		t.Errorf("Status = %d, want 500", ue.Status)
	}
}
