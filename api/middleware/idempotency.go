package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/moonpos/moonpos-backend/api/responses"
	pkgerrors "github.com/moonpos/moonpos-backend/pkg/errors"
	"github.com/moonpos/moonpos-backend/pkg/logger"
	pkgredis "github.com/moonpos/moonpos-backend/pkg/redis"
)

const (
	idempotencyKeyHeader   = "Idempotency-Key"
	idempotentReplayHeader = "Idempotent-Replayed"
	transactionTTL         = 24 * time.Hour
	reservationTTL         = 2 * time.Minute

	statePending = "pending"
	stateDone    = "done"
)

type routeMatcher func(string) bool

type idempotencyRule struct {
	method  string
	matcher routeMatcher
	ttl     time.Duration
}

var idempotencyRules = []idempotencyRule{
	{method: http.MethodPost, matcher: matchExact("/api/v1/checkout"), ttl: transactionTTL},
	{method: http.MethodPost, matcher: matchExact("/api/v1/inventory/adjust"), ttl: transactionTTL},
}

type idempotencyRecord struct {
	State       string            `json:"state"`
	Status      int               `json:"status"`
	Body        string            `json:"body"`
	Headers     map[string]string `json:"headers,omitempty"`
	RequestHash string            `json:"request_hash"`
}

// Idempotency replays the stored response of a transaction endpoint when the
// same Idempotency-Key is sent again with the same body. The key is reserved
// before the handler runs so concurrent duplicates never execute twice.
// Requests without the header, or with no store configured, pass straight
// through.
func Idempotency(store pkgredis.IdempotencyStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			pattern := routePattern(r)
			ttl, ok := routeTTL(r.Method, pattern)
			if !ok || store == nil {
				next.ServeHTTP(w, r)
				return
			}

			idempotencyKey := strings.TrimSpace(r.Header.Get(idempotencyKeyHeader))
			if idempotencyKey == "" {
				next.ServeHTTP(w, r)
				return
			}

			body, err := io.ReadAll(r.Body)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read request"))
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			requestHash := hashBody(body)
			scope := buildScope(r)
			key := store.IdempotencyKey(scope, idempotencyKey)

			reservation, err := json.Marshal(idempotencyRecord{State: statePending, RequestHash: requestHash})
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode idempotency reservation"))
				return
			}
			acquired, err := store.SetNX(r.Context(), key, string(reservation), reservationTTL)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reserve idempotency key"))
				return
			}
			if !acquired {
				replayStored(w, r, store, logg, key, idempotencyKey, requestHash)
				return
			}

			// writes after the handler must survive a client disconnect
			storeCtx := context.WithoutCancel(r.Context())
			settled := false
			defer func() {
				if settled {
					return
				}
				if delErr := store.Del(storeCtx, key); delErr != nil {
					logError(storeCtx, logg, "release idempotency key", delErr)
				}
			}()

			rec := &responseCapture{ResponseWriter: w}
			next.ServeHTTP(rec, r)

			// server failures stay retryable
			if defaultStatus(rec.status) >= http.StatusInternalServerError {
				return
			}

			record := idempotencyRecord{
				State:       stateDone,
				Status:      defaultStatus(rec.status),
				Body:        base64.StdEncoding.EncodeToString(rec.body.Bytes()),
				RequestHash: requestHash,
			}
			if ct := rec.Header().Get("Content-Type"); ct != "" {
				record.Headers = map[string]string{"Content-Type": ct}
			}

			payload, marshalErr := json.Marshal(record)
			if marshalErr != nil {
				logError(storeCtx, logg, "marshal idempotency record", marshalErr)
				return
			}

			// a failed write leaves the reservation to expire on its own
			settled = true
			if setErr := store.Set(storeCtx, key, string(payload), ttl); setErr != nil {
				logError(storeCtx, logg, "persist idempotency record", setErr)
			}
		})
	}
}

// replayStored answers a request whose key is already reserved: a finished
// record is replayed, a pending one is still running elsewhere.
func replayStored(w http.ResponseWriter, r *http.Request, store pkgredis.IdempotencyStore, logg *logger.Logger, key, idempotencyKey, requestHash string) {
	stored, err := store.Get(r.Context(), key)
	if errors.Is(err, redis.Nil) {
		// released between SetNX and Get
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeConflict, "request with this idempotency key is still in progress"))
		return
	}
	if err != nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check idempotency"))
		return
	}
	record, err := decodeRecord(stored)
	if err != nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode idempotency record"))
		return
	}
	if record.RequestHash != requestHash {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeIdempotency, "idempotency key reused with different request body"))
		return
	}
	if record.State == statePending {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeConflict, "request with this idempotency key is still in progress"))
		return
	}
	if logg != nil {
		logg.Info(logg.WithField(r.Context(), "idempotency_key", idempotencyKey), "idempotency.replayed")
	}
	writeStoredResponse(w, record)
}

func buildScope(r *http.Request) string {
	return strings.Join([]string{r.Method, r.URL.Path}, "|")
}

func decodeRecord(payload string) (*idempotencyRecord, error) {
	var record idempotencyRecord
	if err := json.Unmarshal([]byte(payload), &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func writeStoredResponse(w http.ResponseWriter, record *idempotencyRecord) {
	if record == nil {
		return
	}
	if ct, ok := record.Headers["Content-Type"]; ok && ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	w.Header().Set(idempotentReplayHeader, "true")
	w.WriteHeader(record.Status)
	if decoded, err := base64.StdEncoding.DecodeString(record.Body); err == nil {
		_, _ = w.Write(decoded)
	}
}

func hashBody(payload []byte) string {
	sum := sha256.Sum256(payload)
	return base64.StdEncoding.EncodeToString(sum[:])
}

func defaultStatus(value int) int {
	if value == 0 {
		return http.StatusOK
	}
	return value
}

func routePattern(r *http.Request) string {
	if r == nil {
		return ""
	}
	if ctx := chi.RouteContext(r.Context()); ctx != nil {
		// a group-level middleware only sees the partial "/api/v1/*" pattern
		if pattern := ctx.RoutePattern(); pattern != "" && !strings.HasSuffix(pattern, "*") {
			return pattern
		}
	}
	return r.URL.Path
}

func routeTTL(method, pattern string) (time.Duration, bool) {
	if pattern == "" {
		return 0, false
	}
	for _, rule := range idempotencyRules {
		if rule.method != method {
			continue
		}
		if rule.matcher(pattern) {
			return rule.ttl, true
		}
	}
	return 0, false
}

func matchExact(path string) routeMatcher {
	return func(pattern string) bool {
		return pattern == path
	}
}

type responseCapture struct {
	http.ResponseWriter
	body   bytes.Buffer
	status int
}

func (r *responseCapture) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *responseCapture) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

func logError(ctx context.Context, logg *logger.Logger, msg string, err error) {
	if logg == nil || err == nil {
		return
	}
	logg.Error(ctx, msg, err)
}
