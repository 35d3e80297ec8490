package service

import (
	"context"
	"fmt"
	"net/url"
	"testing"
)

func TestPermanent(t *testing.T) {
	err := fmt.Errorf("Permanent error")
	if Temporary(err) {
		t.Fail()
	}
	err = &url.Error{Err: err}
	if Temporary(err) {
		t.Fail()
	}
}

func TestTemporary(t *testing.T) {
	err := MakeTemporary(fmt.Errorf("Temporary error"))
	if !Temporary(err) {
		t.Fail()
	}
	err = fmt.Errorf("Warp: %w", err)
	if !Temporary(err) {
		t.Fail()
	}
	if !Temporary(context.Canceled) {
		t.Fail()
	}
	if !Temporary(context.DeadlineExceeded) {
		t.Fail()
	}
	err = fmt.Errorf("Warp: %w", &url.Error{Err: err})
	if !Temporary(err) {
		t.Fail()
	}
}

func TestFatal(t *testing.T) {
	err := fmt.Errorf("some error")
	if Fatal(err) {
		t.Fail()
	}
	err = MakeFatal(err)
	if !Fatal(err) {
		t.Fail()
	}
	err = fmt.Errorf("Warp: %w", err)
	if !Fatal(err) {
		t.Fail()
	}
}

func TestMergeErrors(t *testing.T) {
	tmp := MakeTemporary(fmt.Errorf("temporary"))
	fatal := fmt.Errorf("fatal")

	if err := MergeErrors(true, nil, nil); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
	if err := MergeErrors(false, tmp, nil); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
	if err := MergeErrors(false, fatal, tmp); !Temporary(err) {
		t.Errorf("expected priority to the temporary error, got %v", err)
	}
	if err := MergeErrors(true, tmp, fatal); Temporary(err) {
		t.Errorf("expected priority to the fatal error, got %v", err)
	}
}
