package rangehttp

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
)

func TestFetchRangeWritesScratchFile(t *testing.T) {
	data := testPayload(100)
	server := newRangeServer(t, data)
	job := newTestJob(t, server.URL, WithChunkSize(7))

	var reported int64
	path, err := FetchRange(context.Background(), job, ByteRange{Index: 2, Start: 10, End: 45}, func(n int64) {
		reported += n
	})
	if err != nil {
		t.Fatalf("FetchRange: %v", err)
	}
	if path != job.ScratchPath(2) {
		t.Errorf("path = %s, want %s", path, job.ScratchPath(2))
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !bytes.Equal(got, data[10:45]) {
		t.Errorf("scratch file content mismatch")
	}
	if reported != 35 {
		t.Errorf("reported %d bytes, want 35", reported)
	}
}

func TestFetchRangeEmptyRangeSendsNoRequest(t *testing.T) {
	server := newRangeServer(t, testPayload(10))
	job := newTestJob(t, server.URL)

	path, err := FetchRange(context.Background(), job, ByteRange{Index: 1, Start: 3, End: 3}, nil)
	if err != nil {
		t.Fatalf("FetchRange: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if info.Size() != 0 {
		t.Errorf("scratch file has %d bytes, want 0", info.Size())
	}
	if n := server.rangeRequests.Load(); n != 0 {
		t.Errorf("sent %d range requests, want 0", n)
	}
}

func TestFetchRangeFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		wantErr error
	}{
		{
			name: "range ignored",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write(testPayload(50))
			},
			wantErr: ErrRangeNotSupported,
		},
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			name: "missing content range",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusPartialContent)
				w.Write(testPayload(10))
			},
		},
		{
			name: "short body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Range", "bytes 0-9/50")
				w.Header().Set("Content-Length", "4")
				w.WriteHeader(http.StatusPartialContent)
				w.Write(testPayload(4))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()
			job := newTestJob(t, server.URL)

			_, err := FetchRange(context.Background(), job, ByteRange{Index: 3, Start: 0, End: 10}, nil)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !errors.Is(err, ErrFetch) {
				t.Errorf("error %v does not match ErrFetch", err)
			}
			var fetchErr *FetchError
			if !errors.As(err, &fetchErr) || fetchErr.Index != 3 {
				t.Errorf("expected a FetchError for range 3, got %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("error %v does not match %v", err, tt.wantErr)
			}
		})
	}
}

func TestFetchRangeSendsRangeHeader(t *testing.T) {
	var gotRange, gotEncoding string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRange = r.Header.Get("Range")
		gotEncoding = r.Header.Get("Accept-Encoding")
		w.Header().Set("Content-Range", "bytes 5-9/20")
		w.WriteHeader(http.StatusPartialContent)
		w.Write(testPayload(5))
	}))
	defer server.Close()
	job := newTestJob(t, server.URL)

	if _, err := FetchRange(context.Background(), job, ByteRange{Index: 2, Start: 5, End: 10}, nil); err != nil {
		t.Fatalf("FetchRange: %v", err)
	}
	if gotRange != "bytes=5-9" {
		t.Errorf("Range = %q, want %q", gotRange, "bytes=5-9")
	}
	if gotEncoding != "identity" {
		t.Errorf("Accept-Encoding = %q, want identity", gotEncoding)
	}
}
