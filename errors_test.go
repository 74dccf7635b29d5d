package main

import "testing"

func TestAssertMessageVerbatim(t *testing.T) {

	defer func() {
		info, ok := recover().(*internalErrorInfo)
		if !ok {
			t.Fatalf("expected an internal error")
		}

		// A '%' in the message must come through untouched

		if info.msg != "50% done" {
			t.Fatalf("got %q", info.msg)
		}
	}()

	basicAssert(false, "50% done")
}

func TestFaultCodesRoundTrip(t *testing.T) {

	no := getErrorNo(EDIVZERO)
	if no <= 0 {
		t.Fatalf("no code assigned")
	}

	if got := getErrorMsg(no); got != EDIVZERO {
		t.Fatalf("got %q, want %q", got, EDIVZERO)
	}
}
