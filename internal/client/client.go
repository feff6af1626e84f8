// Package client calls a running TOPSIS server.
package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"
	"github.com/klauspost/compress/zstd"
	"github.com/rs/zerolog/log"

	"github.com/tensorplex-labs/topsis/internal/config"
	"github.com/tensorplex-labs/topsis/internal/server"
	"github.com/tensorplex-labs/topsis/internal/topsis"
)

type Client struct {
	httpClient *resty.Client
	cfg        *config.ClientEnvConfig
}

func NewClient(cfg *config.ClientEnvConfig) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	cli := resty.New().
		SetBaseURL(strings.TrimRight(cfg.ServerURL, "/")).
		SetJSONMarshaler(sonic.Marshal).
		SetJSONUnmarshaler(sonic.Unmarshal).
		SetTimeout(cfg.ClientTimeout).
		SetRetryCount(cfg.RetryMax).
		SetRetryWaitTime(cfg.RetryWait).
		SetRetryMaxWaitTime(cfg.RetryWait*2).
		SetHeader("Accept-Encoding", "zstd")

	return &Client{httpClient: cli, cfg: cfg}, nil
}

// Evaluate sends table and parameters to the server. Server-side validation
// failures come back as *topsis.Error with the server's kind.
func (c *Client) Evaluate(ctx context.Context, table *topsis.Table, weights []float64, impacts []string) (*topsis.Result, error) {
	body, err := sonic.Marshal(server.EvaluateRequest{
		Header:  table.Header,
		Rows:    table.Rows,
		Weights: weights,
		Impacts: impacts,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	restyResp, err := c.httpClient.R().SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post(server.EvaluatePath)
	if err != nil {
		log.Error().Err(err).Str("url", c.cfg.ServerURL).Msg("evaluate request failed")
		return nil, fmt.Errorf("post %s: %w", server.EvaluatePath, err)
	}

	data, err := decodeBody(restyResp)
	if err != nil {
		return nil, err
	}

	var resp server.StdResponse[server.EvaluateResponse]
	if err := sonic.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal response (status %d): %w", restyResp.StatusCode(), err)
	}

	if resp.Error != nil {
		return nil, remoteError(resp.Kind, *resp.Error)
	}
	if restyResp.IsError() {
		return nil, fmt.Errorf("bad status %d: %s", restyResp.StatusCode(), string(data))
	}

	if len(resp.Body.Scores) != len(table.Rows) || len(resp.Body.Ranks) != len(table.Rows) {
		return nil, fmt.Errorf("server returned %d scores for %d rows", len(resp.Body.Scores), len(table.Rows))
	}

	return &topsis.Result{
		Table:  table,
		Scores: resp.Body.Scores,
		Ranks:  resp.Body.Ranks,
	}, nil
}

func decodeBody(resp *resty.Response) ([]byte, error) {
	data := resp.Body()
	if !strings.Contains(strings.ToLower(resp.Header().Get("Content-Encoding")), "zstd") {
		return data, nil
	}

	r, err := zstd.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("zstd: failed to create reader: %w", err)
	}
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("zstd: failed to decompress response: %w", err)
	}
	return out, nil
}

// remoteError rebuilds a typed error from the server's kind name.
func remoteError(kind *string, msg string) error {
	k := topsis.KindInternal
	if kind != nil {
		for candidate := topsis.KindInternal; candidate <= topsis.KindDegenerateColumn; candidate++ {
			if candidate.String() == *kind {
				k = candidate
				break
			}
		}
	}
	return &topsis.Error{Kind: k, Msg: msg}
}
