package executor

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/kbukum/authclient/httpclient"
)

type profile struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type meRequest struct {
	httpclient.Defaults
}

func (meRequest) Path() string { return "/auth/me" }

type publicRequest struct {
	httpclient.Defaults
}

func (publicRequest) Path() string                { return "/products" }
func (publicRequest) AuthorizationRequired() bool { return false }

// spyAdapter signs requests with a token per call.
type spyAdapter struct {
	mu         sync.Mutex
	adapts     int
	readapts   int
	adaptErr   error
	readaptErr error
}

func (a *spyAdapter) Adapt(_ context.Context, req *httpclient.Request, _ httpclient.Descriptor) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.adapts++
	if a.adaptErr != nil {
		return a.adaptErr
	}
	req.SetHeader(httpclient.Authorization("first"))
	return nil
}

func (a *spyAdapter) Readapt(_ context.Context, req *httpclient.Request, _ httpclient.Descriptor) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.readapts++
	if a.readaptErr != nil {
		return a.readaptErr
	}
	req.SetHeader(httpclient.Authorization("second"))
	return nil
}

// scriptedTransport answers each send with the next scripted result.
type scriptedTransport struct {
	mu     sync.Mutex
	script []func() (*httpclient.Response, error)
	tokens []string
	sends  int
}

func (s *scriptedTransport) Send(_ context.Context, req *httpclient.Request) (*httpclient.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = append(s.tokens, httpclient.BearerToken(req.Header))
	i := s.sends
	s.sends++
	if i >= len(s.script) {
		return nil, errors.New("unexpected send")
	}
	return s.script[i]()
}

func ok(body string) func() (*httpclient.Response, error) {
	return func() (*httpclient.Response, error) {
		return &httpclient.Response{StatusCode: 200, Body: []byte(body)}, nil
	}
}

func fail(err error) func() (*httpclient.Response, error) {
	return func() (*httpclient.Response, error) { return nil, err }
}

func newExecutor(transport httpclient.Transport, adapter Adapter) *Executor {
	return New(httpclient.NewURLBuilder("https://api.test"), transport, adapter)
}

func TestExecute_DecodesValue(t *testing.T) {
	transport := &scriptedTransport{script: []func() (*httpclient.Response, error){ok(`{"id":1,"name":"Emily"}`)}}
	adapter := &spyAdapter{}

	got, err := Execute[profile](context.Background(), newExecutor(transport, adapter), meRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != (profile{ID: 1, Name: "Emily"}) {
		t.Errorf("unexpected value: %+v", got)
	}
	if adapter.adapts != 1 || adapter.readapts != 0 || transport.sends != 1 {
		t.Errorf("expected adapt=1 readapt=0 sends=1, got %d %d %d", adapter.adapts, adapter.readapts, transport.sends)
	}
	if transport.tokens[0] != "first" {
		t.Errorf("expected signed request, got %q", transport.tokens[0])
	}
}

func TestExecute_UnauthenticatedDescriptor(t *testing.T) {
	wantErr := httpclient.NewUnacceptableStatusCode(503, nil)
	transport := &scriptedTransport{script: []func() (*httpclient.Response, error){fail(wantErr)}}
	adapter := &spyAdapter{}

	_, err := newExecutor(transport, adapter).Do(context.Background(), publicRequest{})
	if err != wantErr {
		t.Fatalf("expected the transport error unchanged, got %v", err)
	}
	if adapter.adapts != 0 || transport.sends != 1 {
		t.Errorf("expected no adaptation and one send, got %d and %d", adapter.adapts, transport.sends)
	}
	if transport.tokens[0] != "" {
		t.Error("public request must not be signed")
	}
}

func TestExecute_UnauthenticatedDescriptorNoRetryOn401(t *testing.T) {
	transport := &scriptedTransport{script: []func() (*httpclient.Response, error){fail(httpclient.ErrUnauthorized)}}
	adapter := &spyAdapter{}

	_, err := newExecutor(transport, adapter).Do(context.Background(), publicRequest{})
	if !errors.Is(err, httpclient.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if transport.sends != 1 || adapter.readapts != 0 {
		t.Errorf("expected one send and no re-adaptation, got %d and %d", transport.sends, adapter.readapts)
	}
}

func TestExecute_RetriesOnceOnUnauthorized(t *testing.T) {
	tests := []struct {
		name      string
		second    func() (*httpclient.Response, error)
		wantErr   error
		wantValue profile
	}{
		{"retry succeeds", ok(`{"id":2,"name":"Retry"}`), nil, profile{ID: 2, Name: "Retry"}},
		{"retry unauthorized again", fail(httpclient.ErrUnauthorized), httpclient.ErrUnauthorized, profile{}},
		{"retry server error", fail(httpclient.NewUnacceptableStatusCode(500, nil)), httpclient.NewUnacceptableStatusCode(500, nil), profile{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			transport := &scriptedTransport{script: []func() (*httpclient.Response, error){
				fail(httpclient.ErrUnauthorized),
				tc.second,
			}}
			adapter := &spyAdapter{}

			got, err := Execute[profile](context.Background(), newExecutor(transport, adapter), meRequest{})
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.wantValue {
				t.Errorf("unexpected value: %+v", got)
			}
			if transport.sends != 2 {
				t.Errorf("expected exactly 2 sends, got %d", transport.sends)
			}
			if adapter.adapts != 1 || adapter.readapts != 1 {
				t.Errorf("expected adapt=1 readapt=1, got %d %d", adapter.adapts, adapter.readapts)
			}
			if transport.tokens[1] != "second" {
				t.Errorf("retry must carry the re-adapted token, got %q", transport.tokens[1])
			}
		})
	}
}

func TestExecute_NonUnauthorizedErrorsAreNotRetried(t *testing.T) {
	errs := []error{
		httpclient.NewUnacceptableStatusCode(400, nil),
		httpclient.NewUnacceptableStatusCode(404, nil),
		httpclient.NewRequestError(errors.New("connection reset")),
		httpclient.ErrInvalidResponse,
	}
	for _, want := range errs {
		t.Run(want.Error(), func(t *testing.T) {
			transport := &scriptedTransport{script: []func() (*httpclient.Response, error){fail(want)}}
			adapter := &spyAdapter{}

			_, err := newExecutor(transport, adapter).Do(context.Background(), meRequest{})
			if err != want {
				t.Fatalf("expected %v, got %v", want, err)
			}
			if transport.sends != 1 || adapter.readapts != 0 {
				t.Errorf("expected no retry, got sends=%d readapts=%d", transport.sends, adapter.readapts)
			}
		})
	}
}

func TestExecute_AdaptationErrors(t *testing.T) {
	t.Run("adapt fails", func(t *testing.T) {
		transport := &scriptedTransport{}
		adapter := &spyAdapter{adaptErr: httpclient.ErrUnauthorized}

		_, err := newExecutor(transport, adapter).Do(context.Background(), meRequest{})
		if err != httpclient.ErrUnauthorized {
			t.Fatalf("expected the adaptation error unchanged, got %v", err)
		}
		if transport.sends != 0 {
			t.Errorf("expected no sends, got %d", transport.sends)
		}
	})

	t.Run("readapt fails", func(t *testing.T) {
		refreshErr := httpclient.NewUnacceptableStatusCode(403, nil)
		transport := &scriptedTransport{script: []func() (*httpclient.Response, error){fail(httpclient.ErrUnauthorized)}}
		adapter := &spyAdapter{readaptErr: refreshErr}

		_, err := newExecutor(transport, adapter).Do(context.Background(), meRequest{})
		if err != refreshErr {
			t.Fatalf("expected the refresh error unchanged, got %v", err)
		}
		if transport.sends != 1 {
			t.Errorf("expected one send, got %d", transport.sends)
		}
	})
}

func TestExecute_BuildFailure(t *testing.T) {
	transport := &scriptedTransport{}
	adapter := &spyAdapter{}
	e := New(httpclient.NewURLBuilder(""), transport, adapter)

	_, err := e.Do(context.Background(), meRequest{})
	if !errors.Is(err, httpclient.ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
	if transport.sends != 0 || adapter.adapts != 0 {
		t.Error("nothing should be adapted or sent")
	}
}

func TestExecute_DecodeFailureIsNotRetried(t *testing.T) {
	transport := &scriptedTransport{script: []func() (*httpclient.Response, error){ok(`{"id":"one"}`)}}
	adapter := &spyAdapter{}

	_, err := Execute[profile](context.Background(), newExecutor(transport, adapter), meRequest{})
	if !errors.Is(err, httpclient.ErrDecodingFailed) {
		t.Fatalf("expected ErrDecodingFailed, got %v", err)
	}
	if transport.sends != 1 {
		t.Errorf("expected one send, got %d", transport.sends)
	}
}

func TestExecute_EmptyResponse(t *testing.T) {
	transport := &scriptedTransport{script: []func() (*httpclient.Response, error){ok(""), ok("")}}
	e := newExecutor(transport, &spyAdapter{})

	if _, err := Execute[profile](context.Background(), e, meRequest{}); !errors.Is(err, httpclient.ErrEmptyResponse) {
		t.Fatalf("expected ErrEmptyResponse, got %v", err)
	}
	if _, err := Execute[httpclient.Empty](context.Background(), e, meRequest{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
