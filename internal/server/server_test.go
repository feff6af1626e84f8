package server

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/suite"

	"github.com/tensorplex-labs/topsis/internal/config"
	"github.com/tensorplex-labs/topsis/internal/evaluator"
	"github.com/tensorplex-labs/topsis/internal/metrics"
	"github.com/tensorplex-labs/topsis/internal/topsis"
)

type memoryCache struct {
	mu   sync.Mutex
	data map[string]string
	sets int
}

func (m *memoryCache) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[key], nil
}

func (m *memoryCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	m.sets++
	return nil
}

func (m *memoryCache) Close() {}

type ServerTestSuite struct {
	suite.Suite
	server  *Server
	cache   *memoryCache
	metrics *metrics.Registry
}

func (s *ServerTestSuite) SetupTest() {
	s.cache = &memoryCache{data: map[string]string{}}
	s.metrics = metrics.NewRegistry()
	ev := evaluator.New(topsis.NewScorer(), evaluator.WithMetrics(s.metrics))
	s.server = NewServer(nil, ev, WithCache(s.cache, time.Minute), WithMetrics(s.metrics))
}

func validRequest() EvaluateRequest {
	return EvaluateRequest{
		Header:  []string{"Model", "Price", "Storage"},
		Rows:    [][]string{{"A", "250", "16"}, {"B", "200", "32"}, {"C", "300", "32"}},
		Weights: []float64{1, 1},
		Impacts: []string{"-", "+"},
	}
}

func (s *ServerTestSuite) post(body []byte, headers map[string]string) *http.Response {
	req := httptest.NewRequest(http.MethodPost, EvaluatePath, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := s.server.App.Test(req, -1)
	s.Require().NoError(err)
	return resp
}

func (s *ServerTestSuite) decode(resp *http.Response, out any) {
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	if resp.Header.Get("Content-Encoding") == "zstd" {
		decoder, err := zstd.NewReader(nil)
		s.Require().NoError(err)
		defer decoder.Close()
		data, err = decoder.DecodeAll(data, nil)
		s.Require().NoError(err)
	}
	s.Require().NoError(sonic.Unmarshal(data, out))
}

func (s *ServerTestSuite) TestHealth() {
	req := httptest.NewRequest(http.MethodGet, HealthPath, nil)
	resp, err := s.server.App.Test(req, -1)
	s.Require().NoError(err)
	s.Equal(http.StatusOK, resp.StatusCode)

	var body HealthResponse
	s.decode(resp, &body)
	s.Equal("ok", body.Status)
}

func (s *ServerTestSuite) TestEvaluate() {
	body, err := sonic.Marshal(validRequest())
	s.Require().NoError(err)

	resp := s.post(body, nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.NotEmpty(resp.Header.Get(RequestIDHeader))
	s.Equal("MISS", resp.Header.Get(CacheHeader))

	var out StdResponse[EvaluateResponse]
	s.decode(resp, &out)
	s.Nil(out.Error)
	s.Equal([]string{"Model", "Price", "Storage", topsis.ScoreColumn, topsis.RankColumn}, out.Body.Header)
	s.Len(out.Body.Scores, 3)
	s.Equal("A", out.Body.Rows[0][0])
	s.Equal([]int{3, 1, 2}, out.Body.Ranks)
}

func (s *ServerTestSuite) TestEvaluateUsesCache() {
	body, err := sonic.Marshal(validRequest())
	s.Require().NoError(err)

	first := s.post(body, nil)
	s.Equal("MISS", first.Header.Get(CacheHeader))
	second := s.post(body, nil)
	s.Equal("HIT", second.Header.Get(CacheHeader))
	s.Equal(1, s.cache.sets)

	var out StdResponse[EvaluateResponse]
	s.decode(second, &out)
	s.Len(out.Body.Ranks, 3)
}

func (s *ServerTestSuite) TestEvaluateValidationErrors() {
	tests := []struct {
		name   string
		mutate func(*EvaluateRequest)
		kind   string
	}{
		{"too few columns", func(r *EvaluateRequest) {
			r.Header = r.Header[:2]
			for i := range r.Rows {
				r.Rows[i] = r.Rows[i][:2]
			}
		}, "ShapeError"},
		{"weights mismatch", func(r *EvaluateRequest) { r.Weights = []float64{1} }, "ShapeError"},
		{"bad impact", func(r *EvaluateRequest) { r.Impacts = []string{"up", "sideways"} }, "ValueError"},
		{"non-numeric", func(r *EvaluateRequest) { r.Rows[1][2] = "N/A" }, "TypeError"},
		{"no rows", func(r *EvaluateRequest) { r.Rows = nil }, "EmptyInputError"},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			req := validRequest()
			tt.mutate(&req)
			body, err := sonic.Marshal(req)
			s.Require().NoError(err)

			resp := s.post(body, nil)
			s.Equal(http.StatusUnprocessableEntity, resp.StatusCode)

			var out StdResponse[map[string]any]
			s.decode(resp, &out)
			s.Require().NotNil(out.Kind)
			s.Equal(tt.kind, *out.Kind)
			s.Require().NotNil(out.Error)
		})
	}
}

func (s *ServerTestSuite) TestEvaluateInvalidJSON() {
	resp := s.post([]byte("{not json"), nil)
	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *ServerTestSuite) TestEvaluateZstd() {
	body, err := sonic.Marshal(validRequest())
	s.Require().NoError(err)

	encoder, err := zstd.NewWriter(nil)
	s.Require().NoError(err)
	compressed := encoder.EncodeAll(body, nil)
	encoder.Close()

	resp := s.post(compressed, map[string]string{
		"Content-Encoding": "zstd",
		"Accept-Encoding":  "zstd",
	})
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal("zstd", resp.Header.Get("Content-Encoding"))

	var out StdResponse[EvaluateResponse]
	s.decode(resp, &out)
	s.Len(out.Body.Scores, 3)
}

func (s *ServerTestSuite) TestMetricsEndpoint() {
	body, err := sonic.Marshal(validRequest())
	s.Require().NoError(err)
	s.post(body, nil)

	req := httptest.NewRequest(http.MethodGet, MetricsPath, nil)
	resp, err := s.server.App.Test(req, -1)
	s.Require().NoError(err)
	s.Equal(http.StatusOK, resp.StatusCode)

	data, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	s.Contains(string(data), "topsis_evaluations_total")
	s.Contains(string(data), "topsis_cache_misses_total")
}

func TestServerTestSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}

func TestStatusFor(t *testing.T) {
	cases := map[topsis.Kind]int{
		topsis.KindShape:    http.StatusUnprocessableEntity,
		topsis.KindFormat:   http.StatusUnsupportedMediaType,
		topsis.KindNotFound: http.StatusNotFound,
		topsis.KindInternal: http.StatusInternalServerError,
	}
	for kind, want := range cases {
		if got := statusFor(kind); got != want {
			t.Errorf("statusFor(%s) = %d, want %d", kind, got, want)
		}
	}
}

func TestCacheKeyIncludesScorerParams(t *testing.T) {
	shared := &memoryCache{data: map[string]string{}}
	newServer := func(degenerate float64) *Server {
		ev := evaluator.New(topsis.NewScorer(topsis.WithDegenerateScore(degenerate)))
		return NewServer(nil, ev, WithCache(shared, time.Minute))
	}

	// every row sits on both ideal points, so scores equal the degenerate score
	body, err := sonic.Marshal(EvaluateRequest{
		Header:  []string{"id", "a", "b"},
		Rows:    [][]string{{"x", "1", "1"}, {"y", "1", "1"}},
		Weights: []float64{1, 1},
		Impacts: []string{"+", "+"},
	})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	evaluate := func(srv *Server) (StdResponse[EvaluateResponse], string) {
		req := httptest.NewRequest(http.MethodPost, EvaluatePath, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := srv.App.Test(req, -1)
		if err != nil {
			t.Fatalf("request: %v", err)
		}
		defer resp.Body.Close()
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		var out StdResponse[EvaluateResponse]
		if err := sonic.Unmarshal(data, &out); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		return out, resp.Header.Get(CacheHeader)
	}

	half, status := evaluate(newServer(0.5))
	if status != "MISS" || half.Body.Scores[0] != 0.5 {
		t.Fatalf("expected fresh 0.5 scores, got %s %v", status, half.Body.Scores)
	}

	zero, status := evaluate(newServer(0))
	if status != "MISS" {
		t.Errorf("expected a cache miss for different scorer params, got %s", status)
	}
	if zero.Body.Scores[0] != 0 || zero.Body.Scores[1] != 0 {
		t.Errorf("expected scores of 0, got %v", zero.Body.Scores)
	}
	if shared.sets != 2 {
		t.Errorf("expected 2 cache entries, got %d", shared.sets)
	}
}

func TestZstdBodyLimitAppliesAfterDecompression(t *testing.T) {
	srv := NewServer(&config.ServerEnvConfig{Address: "127.0.0.1", Port: 8888, BodySizeLimit: 1024}, nil)

	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		t.Fatalf("encoder: %v", err)
	}
	compressed := encoder.EncodeAll(bytes.Repeat([]byte("a"), 100*1024), nil)
	encoder.Close()
	if len(compressed) >= 1024 {
		t.Fatalf("compressed body should fit the limit, got %d bytes", len(compressed))
	}

	req := httptest.NewRequest(http.MethodPost, EvaluatePath, bytes.NewReader(compressed))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Content-Encoding", "zstd")
	resp, err := srv.App.Test(req, -1)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusRequestEntityTooLarge {
		t.Errorf("expected status %d, got %d", http.StatusRequestEntityTooLarge, resp.StatusCode)
	}
}
