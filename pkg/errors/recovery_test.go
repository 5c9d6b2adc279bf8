package errors

import (
	"fmt"
	"strings"
	"testing"
)

func TestRecover(t *testing.T) {
	tests := []struct {
		name       string
		panicValue interface{}
		wantInMsg  []string
	}{
		{
			name:       "string panic",
			panicValue: "matrix dimensions do not match",
			wantInMsg:  []string{"panic in Logit.Fit", "matrix dimensions do not match"},
		},
		{
			name:       "error panic",
			panicValue: fmt.Errorf("mat: row index out of range"),
			wantInMsg:  []string{"panic in Logit.Fit", "row index out of range"},
		},
		{
			name:       "arbitrary value panic",
			panicValue: 42,
			wantInMsg:  []string{"panic in Logit.Fit", "42"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fn := func() (err error) {
				defer Recover(&err, "Logit.Fit")
				panic(tt.panicValue)
			}

			err := fn()
			if err == nil {
				t.Fatal("Recover should convert the panic into an error")
			}
			for _, want := range tt.wantInMsg {
				if !strings.Contains(err.Error(), want) {
					t.Errorf("Error() = %q, want substring %q", err.Error(), want)
				}
			}

			// PanicError型として取り出せること
			var panicErr *PanicError
			if !As(err, &panicErr) {
				t.Fatal("error should be castable to *PanicError")
			}
			if panicErr.Operation != "Logit.Fit" {
				t.Errorf("Operation = %q, want %q", panicErr.Operation, "Logit.Fit")
			}
			if panicErr.StackTrace == "" {
				t.Error("StackTrace should be captured")
			}
		})
	}
}

func TestRecover_NoPanic(t *testing.T) {
	fn := func() (err error) {
		defer Recover(&err, "survey.Generate")
		return nil
	}

	if err := fn(); err != nil {
		t.Errorf("Recover without a panic should leave err nil, got %v", err)
	}
}

func TestRecover_PreservesExistingError(t *testing.T) {
	original := fmt.Errorf("cholesky factorization failed")

	fn := func() (err error) {
		defer Recover(&err, "Logit.Fit")
		err = original
		panic("index out of range")
	}

	err := fn()
	if err == nil {
		t.Fatal("expected an error")
	}
	// パニック情報と元のエラーの両方が含まれること
	if !strings.Contains(err.Error(), "index out of range") {
		t.Errorf("Error() = %q, want panic message included", err.Error())
	}
	if !Is(err, original) {
		t.Error("original error should remain reachable via Is")
	}
}

func TestPanicError_String(t *testing.T) {
	panicErr := NewPanicError("Logit.Margins", "grid column count mismatch")

	s := panicErr.String()
	if !strings.Contains(s, "panic in Logit.Margins") {
		t.Errorf("String() = %q, want operation included", s)
	}
	if !strings.Contains(s, "Stack trace:") {
		t.Error("String() should include the stack trace section")
	}
	if !strings.Contains(s, "recovery_test.go") {
		t.Error("stack trace should name the call site")
	}

	if panicErr.Unwrap() != nil {
		t.Error("PanicError should not wrap another error")
	}
}

func TestSafeExecute(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		called := false
		err := SafeExecute("metrics.AUC", func() error {
			called = true
			return nil
		})
		if err != nil {
			t.Errorf("SafeExecute() = %v, want nil", err)
		}
		if !called {
			t.Error("function should have been executed")
		}
	})

	t.Run("function error passes through", func(t *testing.T) {
		original := fmt.Errorf("empty data")
		err := SafeExecute("metrics.AUC", func() error {
			return original
		})
		if err != original {
			t.Errorf("SafeExecute() = %v, want the original error", err)
		}
	})

	t.Run("panic becomes error", func(t *testing.T) {
		err := SafeExecute("chart.Bar", func() error {
			panic("vg: zero-size canvas")
		})
		if err == nil {
			t.Fatal("panic should surface as an error")
		}
		var panicErr *PanicError
		if !As(err, &panicErr) {
			t.Fatal("error should be castable to *PanicError")
		}
		if panicErr.Operation != "chart.Bar" {
			t.Errorf("Operation = %q, want %q", panicErr.Operation, "chart.Bar")
		}
	})
}
