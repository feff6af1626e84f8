package server

import (
	"bytes"
	"io"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/klauspost/compress/zstd"
	"github.com/rs/zerolog/log"

	"github.com/tensorplex-labs/topsis/internal/topsis"
)

// ZstdMiddleware decompresses zstd request bodies and compresses responses
// for clients that accept zstd. Whitelisted routes pass through untouched.
// Decompressed bodies larger than maxSize are rejected.
func ZstdMiddleware(whitelistedRoutes []string, maxSize int) fiber.Handler {
	return func(c *fiber.Ctx) error {
		path := c.Path()

		for _, route := range whitelistedRoutes {
			if path == route {
				return c.Next()
			}
		}

		if strings.EqualFold(c.Get(fiber.HeaderContentEncoding), "zstd") {
			body := c.Request().Body()
			if len(body) > 0 {
				decoder, err := zstd.NewReader(bytes.NewReader(body), zstd.WithDecoderMaxMemory(uint64(maxSize)))
				if err != nil {
					log.Err(err).Msg("Failed to create zstd decoder")
					return c.Status(fiber.StatusBadRequest).JSON(
						createResponse(map[string]interface{}{}, topsis.FormatErrorf("failed to decompress zstd data: %v", err)))
				}
				defer decoder.Close()

				decompressed, err := io.ReadAll(io.LimitReader(decoder, int64(maxSize)+1))
				if err != nil {
					log.Err(err).Msg("Failed to decompress request")
					return c.Status(fiber.StatusBadRequest).JSON(
						createResponse(map[string]interface{}{}, topsis.FormatErrorf("failed to decompress zstd data: %v", err)))
				}
				if len(decompressed) > maxSize {
					log.Warn().Int("limit", maxSize).Msg("Decompressed request body too large")
					return c.Status(fiber.StatusRequestEntityTooLarge).JSON(
						createResponse(map[string]interface{}{}, topsis.FormatErrorf("decompressed body exceeds %d bytes", maxSize)))
				}

				c.Request().SetBody(decompressed)
				c.Request().Header.Del(fiber.HeaderContentEncoding)
				log.Debug().Int("compressed_size", len(body)).Int("size", len(decompressed)).Msg("Request body decompressed")
			}
		}

		if err := c.Next(); err != nil {
			return err
		}

		if strings.Contains(strings.ToLower(c.Get(fiber.HeaderAcceptEncoding)), "zstd") {
			responseBody := c.Response().Body()
			if len(responseBody) > 0 && len(c.Response().Header.Peek(fiber.HeaderContentEncoding)) == 0 {
				encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
				if err != nil {
					log.Err(err).Msg("Failed to create zstd encoder")
					return nil
				}
				defer encoder.Close()

				compressed := encoder.EncodeAll(responseBody, nil)
				c.Response().SetBody(compressed)
				c.Set(fiber.HeaderContentEncoding, "zstd")
				c.Set(fiber.HeaderContentLength, strconv.Itoa(len(compressed)))
				c.Vary(fiber.HeaderAcceptEncoding)

				log.Debug().
					Int("original_size", len(responseBody)).
					Int("compressed_size", len(compressed)).
					Str("path", path).
					Msg("Response body compressed")
			}
		}

		return nil
	}
}
