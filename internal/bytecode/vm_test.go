package bytecode

import (
	"strings"
	"testing"

	"github.com/slanglang/slang/internal/errors"
)

func TestVMArithmeticAndPrint(t *testing.T) {
	out, err := runSource(t, `
		fn add(a: i32, b: i32) -> i32 { a + b }
		print_value(add(2, 3));
	`)
	if err != nil {
		t.Fatalf("run error: %v", err)
	}
	if strings.TrimSpace(out) != "5" {
		t.Errorf("output = %q, want %q", out, "5\n")
	}
}

func TestVMGlobalsPersistAcrossStatements(t *testing.T) {
	out, err := runSource(t, `
		let mut counter: i32 = 0;
		counter = counter + 1;
		counter = counter + 1;
		print_value(counter);
	`)
	if err != nil {
		t.Fatalf("run error: %v", err)
	}
	if strings.TrimSpace(out) != "2" {
		t.Errorf("output = %q, want %q", out, "2")
	}
}

func TestVMIfExpressionValue(t *testing.T) {
	out, err := runSource(t, `
		fn classify(x: i32) -> i32 {
			if x > 0 { 1 } else { -1 }
		}
		print_value(classify(5));
		print_value(classify(-5));
	`)
	if err != nil {
		t.Fatalf("run error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 || lines[0] != "1" || lines[1] != "-1" {
		t.Errorf("output = %q, want [\"1\" \"-1\"]", out)
	}
}

func TestVMDivisionByZeroRaisesRuntimeError(t *testing.T) {
	_, err := runSource(t, `
		let x: i32 = 1;
		let y: i32 = 0;
		print_value(x / y);
	`)
	rerr, ok := err.(*RuntimeError)
	if !ok {
		t.Fatalf("err = %v (%T), want *RuntimeError", err, err)
	}
	if rerr.Code != errors.DivisionByZero {
		t.Errorf("Code = %v, want %v", rerr.Code, errors.DivisionByZero)
	}
}

func TestVMI32OverflowRaisesRuntimeError(t *testing.T) {
	_, err := runSource(t, `
		let x: i32 = 2147483647;
		let y: i32 = 1;
		print_value(x + y);
	`)
	rerr, ok := err.(*RuntimeError)
	if !ok {
		t.Fatalf("err = %v (%T), want *RuntimeError", err, err)
	}
	if rerr.Code != errors.IntegerOverflow {
		t.Errorf("Code = %v, want %v", rerr.Code, errors.IntegerOverflow)
	}
}

func TestVMRecursiveCall(t *testing.T) {
	out, err := runSource(t, `
		fn fact(n: i32) -> i32 {
			if n <= 1 { 1 } else { n * fact(n - 1) }
		}
		print_value(fact(5));
	`)
	if err != nil {
		t.Fatalf("run error: %v", err)
	}
	if strings.TrimSpace(out) != "120" {
		t.Errorf("output = %q, want %q", out, "120")
	}
}

func TestVMBoolAndStringDisplay(t *testing.T) {
	out, err := runSource(t, `
		print_value(true);
		print_value("hello");
	`)
	if err != nil {
		t.Fatalf("run error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 || lines[0] != "true" || lines[1] != "hello" {
		t.Errorf("output = %q, want [\"true\" \"hello\"]", out)
	}
}

func TestVMNestedBlockLocalsDoNotLeak(t *testing.T) {
	out, err := runSource(t, `
		let mut total: i32 = 0;
		if true {
			let extra: i32 = 10;
			total = total + extra;
		}
		print_value(total);
	`)
	if err != nil {
		t.Fatalf("run error: %v", err)
	}
	if strings.TrimSpace(out) != "10" {
		t.Errorf("output = %q, want %q", out, "10")
	}
}
