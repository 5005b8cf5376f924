package internal_test

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mailrelay/internal"
)

// routes adapts a func to the Handler interface.
type routes func(r internal.Router)

func (f routes) Routes(r internal.Router) { f(r) }

type ctxKey string

func serve(t *testing.T, app *internal.App, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	app.ServeHTTP(w, req)
	return w
}

func TestApp_Routes(t *testing.T) {
	t.Parallel()

	app := internal.New(internal.WithHandlers(routes(func(r internal.Router) {
		r.GET("/", func(c internal.Context) error {
			return c.String(http.StatusOK, "index")
		})
		r.POST("/items/{id}", func(c internal.Context) error {
			return c.JSON(http.StatusCreated, map[string]string{"id": c.Param("id"), "q": c.Query("q")})
		})
		r.Route("/api", func(r internal.Router) {
			r.GET("/ping", func(c internal.Context) error {
				return c.NoContent(http.StatusNoContent)
			})
		})
		r.Mount("/raw", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("raw"))
		}))
	})))

	w := serve(t, app, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "index", w.Body.String())
	assert.Equal(t, "text/plain; charset=utf-8", w.Header().Get("Content-Type"))

	w = serve(t, app, httptest.NewRequest(http.MethodPost, "/items/42?q=x", nil))
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"id":"42","q":"x"}`, w.Body.String())

	w = serve(t, app, httptest.NewRequest(http.MethodGet, "/api/ping", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = serve(t, app, httptest.NewRequest(http.MethodGet, "/raw", nil))
	assert.Equal(t, "raw", w.Body.String())
}

func TestApp_MiddlewareOrder(t *testing.T) {
	t.Parallel()

	var (
		mu    sync.Mutex
		trace []string
	)
	record := func(name string) internal.Middleware {
		return func(next internal.HandlerFunc) internal.HandlerFunc {
			return func(c internal.Context) error {
				mu.Lock()
				trace = append(trace, name)
				mu.Unlock()
				return next(c)
			}
		}
	}

	app := internal.New(
		internal.WithMiddleware(record("global-1"), record("global-2")),
		internal.WithHandlers(routes(func(r internal.Router) {
			r.Group(func(r internal.Router) {
				r.Use(record("group"))
				r.GET("/", func(c internal.Context) error {
					return c.NoContent(http.StatusOK)
				}, record("route-1"), record("route-2"))
			})
		})),
	)

	serve(t, app, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, []string{"global-1", "global-2", "group", "route-1", "route-2"}, trace)
}

func TestApp_MiddlewareContextPropagation(t *testing.T) {
	t.Parallel()

	app := internal.New(
		internal.WithMiddleware(func(next internal.HandlerFunc) internal.HandlerFunc {
			return func(c internal.Context) error {
				c.Set(ctxKey("tenant"), "acme")
				ctx, cancel := context.WithTimeout(c.Context(), time.Minute)
				defer cancel()
				c.SetContext(ctx)
				return next(c)
			}
		}),
		internal.WithHandlers(routes(func(r internal.Router) {
			r.GET("/", func(c internal.Context) error {
				_, hasDeadline := c.Deadline()
				return c.JSON(http.StatusOK, map[string]any{
					"tenant":   c.Get(ctxKey("tenant")),
					"value":    c.Value(ctxKey("tenant")),
					"deadline": hasDeadline,
				})
			})
		})),
	)

	w := serve(t, app, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.JSONEq(t, `{"tenant":"acme","value":"acme","deadline":true}`, w.Body.String())
}

func TestApp_ErrorHandling(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	handlers := routes(func(r internal.Router) {
		r.GET("/fail", func(internal.Context) error { return boom })
		r.GET("/http", func(internal.Context) error {
			return internal.ErrBadRequest("Invalid request body", internal.WithError(boom))
		})
		r.GET("/late", func(c internal.Context) error {
			_ = c.String(http.StatusAccepted, "partial")
			return boom
		})
	})

	t.Run("default handler", func(t *testing.T) {
		t.Parallel()

		app := internal.New(internal.WithHandlers(handlers))
		w := serve(t, app, httptest.NewRequest(http.MethodGet, "/fail", nil))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("custom handler", func(t *testing.T) {
		t.Parallel()

		app := internal.New(
			internal.WithHandlers(handlers),
			internal.WithErrorHandler(func(c internal.Context, err error) error {
				code := http.StatusInternalServerError
				if httpErr := internal.AsHTTPError(err); httpErr != nil {
					code = httpErr.Code
				}
				return c.JSON(code, map[string]string{"error": err.Error()})
			}),
		)

		w := serve(t, app, httptest.NewRequest(http.MethodGet, "/http", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"Invalid request body: boom"}`, w.Body.String())
	})

	t.Run("response already written", func(t *testing.T) {
		t.Parallel()

		called := false
		app := internal.New(
			internal.WithHandlers(handlers),
			internal.WithErrorHandler(func(c internal.Context, err error) error {
				called = true
				return nil
			}),
		)

		w := serve(t, app, httptest.NewRequest(http.MethodGet, "/late", nil))
		assert.Equal(t, http.StatusAccepted, w.Code)
		assert.Equal(t, "partial", w.Body.String())
		assert.False(t, called)
	})
}

func TestApp_NotFoundAndMethodNotAllowed(t *testing.T) {
	t.Parallel()

	app := internal.New(
		internal.WithHandlers(routes(func(r internal.Router) {
			r.POST("/send", func(c internal.Context) error { return c.NoContent(http.StatusOK) })
		})),
		internal.WithNotFoundHandler(func(c internal.Context) error {
			return c.JSON(http.StatusNotFound, map[string]string{"status": "Not found"})
		}),
		internal.WithMethodNotAllowedHandler(func(c internal.Context) error {
			return c.JSON(http.StatusMethodNotAllowed, map[string]string{"status": "Method not allowed"})
		}),
	)

	w := serve(t, app, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"status":"Not found"}`, w.Body.String())

	w = serve(t, app, httptest.NewRequest(http.MethodGet, "/send", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestApp_HealthChecks(t *testing.T) {
	t.Parallel()

	app := internal.New(internal.WithHealthChecks(
		internal.WithReadinessCheck("ok", func(context.Context) error { return nil }),
		internal.WithReadinessCheck("smtp", func(context.Context) error { return errors.New("connection refused") }),
		internal.WithReadinessCheck("nil", nil),
	))

	w := serve(t, app, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	req.Header.Set("Accept", "application/json")
	w = serve(t, app, req)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"smtp"`)
	assert.Contains(t, w.Body.String(), "connection refused")
	assert.NotContains(t, w.Body.String(), `"nil"`)
}

func TestContext_BindJSON(t *testing.T) {
	t.Parallel()

	type payload struct {
		Name string `json:"name"`
	}

	newApp := func(limit int64) *internal.App {
		return internal.New(
			internal.WithMaxBodyBytes(limit),
			internal.WithHandlers(routes(func(r internal.Router) {
				r.POST("/", func(c internal.Context) error {
					var p payload
					if err := c.BindJSON(&p); err != nil {
						if !errors.Is(err, internal.ErrInvalidJSON) {
							return c.String(http.StatusInternalServerError, "unexpected error type")
						}
						return c.String(http.StatusBadRequest, err.Error())
					}
					return c.String(http.StatusOK, p.Name)
				})
			})),
		)
	}

	tests := []struct {
		name     string
		limit    int64
		body     io.Reader
		wantCode int
		wantBody string
	}{
		{"valid", 0, strings.NewReader(`{"name":"alice","extra":true}`), http.StatusOK, "alice"},
		{"malformed", 0, strings.NewReader(`{"name":`), http.StatusBadRequest, "invalid JSON body"},
		{"empty", 0, nil, http.StatusBadRequest, "invalid JSON body: empty body"},
		{"too large", 8, strings.NewReader(`{"name":"a very long name"}`), http.StatusBadRequest, "request body too large"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w := serve(t, newApp(tt.limit), httptest.NewRequest(http.MethodPost, "/", tt.body))
			assert.Equal(t, tt.wantCode, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
		})
	}
}

func TestExtractor(t *testing.T) {
	t.Parallel()

	ext := internal.NewExtractor(
		internal.FromHeader("X-Request-ID"),
		internal.FromQuery("request_id"),
	)

	var got []string
	app := internal.New(internal.WithHandlers(routes(func(r internal.Router) {
		r.GET("/", func(c internal.Context) error {
			v, ok := ext.Extract(c)
			if !ok {
				v = "<none>"
			}
			got = append(got, v)
			return c.NoContent(http.StatusOK)
		})
	})))

	req := httptest.NewRequest(http.MethodGet, "/?request_id=from-query", nil)
	req.Header.Set("X-Request-ID", "from-header")
	serve(t, app, req)
	serve(t, app, httptest.NewRequest(http.MethodGet, "/?request_id=from-query", nil))
	serve(t, app, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, []string{"from-header", "from-query", "<none>"}, got)
}

func TestApp_Run(t *testing.T) {
	t.Parallel()

	app := internal.New(internal.WithHandlers(routes(func(r internal.Router) {
		r.GET("/", func(c internal.Context) error { return c.String(http.StatusOK, "up") })
	})))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	addrCh := make(chan net.Addr, 1)
	var (
		mu    sync.Mutex
		hooks []string
	)
	hook := func(name string, err error) func(context.Context) error {
		return func(context.Context) error {
			mu.Lock()
			defer mu.Unlock()
			hooks = append(hooks, name)
			return err
		}
	}
	hookErr := errors.New("close failed")

	done := make(chan error, 1)
	go func() {
		done <- app.Run(
			internal.Address("127.0.0.1:0"),
			internal.WithContext(ctx),
			internal.OnListen(func(addr net.Addr) { addrCh <- addr }),
			internal.ShutdownTimeout(5*time.Second),
			internal.ShutdownHook(hook("redis", nil)),
			internal.ShutdownHook(hook("logger", hookErr)),
		)
	}()

	addr := <-addrCh
	resp, err := http.Get("http://" + addr.String() + "/")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, "up", string(body))

	cancel()

	select {
	case err := <-done:
		require.ErrorIs(t, err, hookErr)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down")
	}
	assert.Equal(t, []string{"redis", "logger"}, hooks)
}

func TestApp_RunListenError(t *testing.T) {
	t.Parallel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	err = internal.New().Run(internal.Address(ln.Addr().String()))
	require.Error(t, err)
}

func TestContextValue(t *testing.T) {
	t.Parallel()

	app := internal.New(
		internal.WithMiddleware(func(next internal.HandlerFunc) internal.HandlerFunc {
			return func(c internal.Context) error {
				c.Set(ctxKey("attempts"), 3)
				return next(c)
			}
		}),
		internal.WithHandlers(routes(func(r internal.Router) {
			r.GET("/", func(c internal.Context) error {
				return c.JSON(http.StatusOK, map[string]any{
					"attempts": internal.ContextValue[int](c, ctxKey("attempts")),
					"wrong":    internal.ContextValue[string](c, ctxKey("attempts")),
					"missing":  internal.ContextValue[string](c, ctxKey("missing")),
				})
			})
		})),
	)

	w := serve(t, app, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.JSONEq(t, `{"attempts":3,"wrong":"","missing":""}`, w.Body.String())
}
