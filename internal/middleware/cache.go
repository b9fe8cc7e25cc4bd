package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iliyamo/marketplace-backend/internal/config"
)

// captureWriter tees the response body while forwarding it to the client.
// Once more than limit bytes are written it stops buffering and marks the
// response as too large to cache.
type captureWriter struct {
	http.ResponseWriter
	status   int
	buf      bytes.Buffer
	limit    int64
	overflow bool
}

func (cw *captureWriter) WriteHeader(code int) {
	cw.status = code
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
	if !cw.overflow {
		if cw.limit > 0 && int64(cw.buf.Len()+len(b)) > cw.limit {
			cw.overflow = true
			cw.buf.Reset()
		} else {
			cw.buf.Write(b)
		}
	}
	return cw.ResponseWriter.Write(b)
}

func namespacePrefix(cfg config.CacheConfig, namespace string) string {
	return cfg.Prefix + ":" + namespace
}

// cacheKeyFrom builds "<prefix>:<namespace>:<sha1>" where the hash covers
// the parts selected by the key strategy.
func cacheKeyFrom(cfg config.CacheConfig, namespace string, c echo.Context) string {
	r := c.Request()
	route := c.Path()
	query := r.URL.RawQuery

	var parts []string
	switch strings.ToLower(cfg.KeyStrategy) {
	case "route":
		parts = []string{"route", route}
	case "method_route":
		parts = []string{"method", r.Method, "route", route}
	case "method_route_query":
		parts = []string{"method", r.Method, "route", route, "q", query}
	case "path_query":
		parts = []string{"path", r.URL.Path, "q", query}
	default: // route_query
		parts = []string{"route", route, "path", r.URL.Path, "q", query}
	}
	sum := sha1.Sum([]byte(strings.Join(parts, ":")))
	return fmt.Sprintf("%s:%x", namespacePrefix(cfg, namespace), sum[:])
}

// encodePayload packs [4 bytes status][4 bytes header len][header JSON][body].
func encodePayload(status int, header http.Header, body []byte) ([]byte, error) {
	hdrJSON, err := json.Marshal(header)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 8+len(hdrJSON)+len(body))
	binary.BigEndian.PutUint32(out[0:4], uint32(status))
	binary.BigEndian.PutUint32(out[4:8], uint32(len(hdrJSON)))
	copy(out[8:], hdrJSON)
	copy(out[8+len(hdrJSON):], body)
	return out, nil
}

func decodePayload(bs []byte) (status int, header http.Header, body []byte, ok bool) {
	if len(bs) < 8 {
		return 0, nil, nil, false
	}
	status = int(binary.BigEndian.Uint32(bs[0:4]))
	hlen := int(binary.BigEndian.Uint32(bs[4:8]))
	if hlen < 0 || 8+hlen > len(bs) {
		return 0, nil, nil, false
	}
	header = make(http.Header)
	if hlen > 0 {
		if err := json.Unmarshal(bs[8:8+hlen], &header); err != nil {
			return 0, nil, nil, false
		}
	}
	return status, header, bs[8+hlen:], true
}

// NewRedisCache caches successful responses under namespace.  Requests that
// carry an Authorization header bypass the cache.  Writes that change the
// namespace's data must call CacheInvalidator.Invalidate.
func NewRedisCache(cfg config.CacheConfig, rdb *redis.Client, namespace string, log *zap.Logger) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return passThrough
	}
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("cache").With(zap.String("namespace", namespace))
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	maxBody := int64(cfg.MaxBodyBytes)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if !cfg.Methods[strings.ToUpper(req.Method)] || req.Header.Get(echo.HeaderAuthorization) != "" {
				return next(c)
			}

			ctx := req.Context()
			key := cacheKeyFrom(cfg, namespace, c)

			if bs, err := rdb.Get(ctx, key).Bytes(); err == nil {
				if status, hdr, body, ok := decodePayload(bs); ok {
					for k, vals := range hdr {
						if strings.EqualFold(k, echo.HeaderContentLength) {
							continue
						}
						for _, v := range vals {
							c.Response().Header().Add(k, v)
						}
					}
					c.Response().Header().Set("X-Cache", "HIT")
					c.Response().WriteHeader(status)
					_, err := c.Response().Write(body)
					return err
				}
			} else if err != redis.Nil {
				log.Warn("cache read failed", zap.String("key", key), zap.Error(err))
			}

			cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: maxBody}
			c.Response().Writer = cw
			c.Response().Header().Set("X-Cache", "MISS")

			if err := next(c); err != nil {
				return err
			}
			if cw.status != http.StatusOK || cw.overflow {
				return nil
			}

			hdr := c.Response().Header().Clone()
			hdr.Del("X-Cache")
			payload, err := encodePayload(cw.status, hdr, cw.buf.Bytes())
			if err != nil {
				return nil
			}
			if err := rdb.Set(context.WithoutCancel(ctx), key, payload, ttl).Err(); err != nil {
				log.Warn("cache write failed", zap.String("key", key), zap.Error(err))
			}
			return nil
		}
	}
}

// CacheInvalidator drops every cached response under a namespace.  A nil
// *CacheInvalidator is valid and does nothing.
type CacheInvalidator struct {
	cfg config.CacheConfig
	rdb *redis.Client
}

func NewCacheInvalidator(cfg config.CacheConfig, rdb *redis.Client) *CacheInvalidator {
	if !cfg.Enabled || rdb == nil {
		return nil
	}
	return &CacheInvalidator{cfg: cfg, rdb: rdb}
}

// Invalidate deletes the keys of each namespace.
func (ci *CacheInvalidator) Invalidate(ctx context.Context, namespaces ...string) error {
	if ci == nil {
		return nil
	}
	for _, ns := range namespaces {
		iter := ci.rdb.Scan(ctx, 0, namespacePrefix(ci.cfg, ns)+":*", 200).Iterator()
		var batch []string
		for iter.Next(ctx) {
			batch = append(batch, iter.Val())
			if len(batch) == 200 {
				if err := ci.rdb.Del(ctx, batch...).Err(); err != nil {
					return err
				}
				batch = batch[:0]
			}
		}
		if err := iter.Err(); err != nil {
			return err
		}
		if len(batch) > 0 {
			if err := ci.rdb.Del(ctx, batch...).Err(); err != nil {
				return err
			}
		}
	}
	return nil
}
