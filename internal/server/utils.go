package server

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"

	"github.com/tensorplex-labs/topsis/internal/topsis"
)

// createResponse creates a StdResponse with the given body and error
func createResponse[T any](body T, err error) StdResponse[T] {
	if err == nil {
		return StdResponse[T]{Body: body}
	}

	errMsg := err.Error()
	kind := topsis.KindOf(err).String()
	return StdResponse[T]{
		Body:  body,
		Error: &errMsg,
		Kind:  &kind,
	}
}

// statusFor maps error kinds to HTTP status codes.
func statusFor(kind topsis.Kind) int {
	switch kind {
	case topsis.KindFormat:
		return fiber.StatusUnsupportedMediaType
	case topsis.KindNotFound:
		return fiber.StatusNotFound
	case topsis.KindEmptyInput, topsis.KindShape, topsis.KindValue, topsis.KindType, topsis.KindDegenerateColumn:
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}

// cacheKeyMaterial is everything a cached response depends on.
type cacheKeyMaterial struct {
	Request EvaluateRequest     `json:"request"`
	Params  topsis.ScorerParams `json:"params"`
}

// requestDigest hashes the canonical encoding of req and the scorer params
// for cache keys.
func requestDigest(req EvaluateRequest, params topsis.ScorerParams) (string, error) {
	data, err := sonic.ConfigStd.Marshal(cacheKeyMaterial{Request: req, Params: params})
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

func newEvaluateResponse(result *topsis.Result) EvaluateResponse {
	return EvaluateResponse{
		Header: result.Header(),
		Rows:   result.Records()[1:],
		Scores: result.Scores,
		Ranks:  result.Ranks,
	}
}
