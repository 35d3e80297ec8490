package service

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestRetriable(t *testing.T) {
	i := 0
	ctx := context.Background()
	tim := time.Now()
	err := Retriable(ctx, func() error {
		i++
		return fmt.Errorf("%d", i)
	}, time.Microsecond, 3)

	if time.Since(tim) < 3*time.Microsecond {
		t.Errorf("err: excepted at least 30µs got %v", time.Since(tim))
	}

	if err == nil {
		t.Error("err: excepted 3 got nil")
	}
	if err.Error() != "3" {
		t.Error("err: excepted 3 got " + err.Error())
	}
}

func TestRetriableFatal(t *testing.T) {
	i := 0
	err := Retriable(context.Background(), func() error {
		i++
		return MakeFatal(fmt.Errorf("fatal"))
	}, time.Microsecond, 3)

	if err == nil {
		t.Error("err: expected fatal got nil")
	}
	if i != 1 {
		t.Errorf("expected a single attempt on a fatal error, got %d", i)
	}
}

func TestGetBodyRetry(t *testing.T) {
	var calls int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt64(&calls, 1) == 1 {
			w.WriteHeader(500)
			return
		}
		w.Write([]byte("payload"))
	}))
	defer server.Close()

	body, err := GetBodyRetry(server.URL, 2)
	if err != nil {
		t.Fatal(err)
	}
	if string(body) != "payload" {
		t.Errorf("unexpected body: %q", body)
	}
	if n := atomic.LoadInt64(&calls); n != 2 {
		t.Errorf("expected a retry after the 500, got %d calls", n)
	}
}

func TestGetBodyRetryClientError(t *testing.T) {
	var calls int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		w.WriteHeader(404)
	}))
	defer server.Close()

	if _, err := GetBodyRetry(server.URL, 3); err == nil {
		t.Error("expected an error on 404")
	}
	if n := atomic.LoadInt64(&calls); n != 1 {
		t.Errorf("a client error is not worth a retry, got %d calls", n)
	}
}

func TestStringSet(t *testing.T) {
	ss := StringSet{}
	ss.Push("a")
	ss.Push("b")
	ss.Push("a")
	if len(ss) != 2 || !ss.Exists("a") || !ss.Exists("b") {
		t.Errorf("unexpected set: %v", ss.Slice())
	}
	ss.Pop("a")
	if ss.Exists("a") {
		t.Error("a should have been removed")
	}
}
