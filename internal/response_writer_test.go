package internal

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponseWriter(t *testing.T) {
	t.Parallel()

	t.Run("write header", func(t *testing.T) {
		t.Parallel()

		w := httptest.NewRecorder()
		rw := NewResponseWriter(w)

		rw.WriteHeader(http.StatusBadGateway)

		assert.Equal(t, http.StatusBadGateway, rw.Status())
		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.True(t, rw.Written())
	})

	t.Run("write header only once", func(t *testing.T) {
		t.Parallel()

		w := httptest.NewRecorder()
		rw := NewResponseWriter(w)

		rw.WriteHeader(http.StatusBadRequest)
		rw.WriteHeader(http.StatusInternalServerError)

		assert.Equal(t, http.StatusBadRequest, rw.Status())
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("implicit 200 on write", func(t *testing.T) {
		t.Parallel()

		w := httptest.NewRecorder()
		rw := NewResponseWriter(w)
		require.False(t, rw.Written())

		n, err := rw.Write([]byte("hello"))
		require.NoError(t, err)

		assert.Equal(t, 5, n)
		assert.Equal(t, http.StatusOK, rw.Status())
		assert.Equal(t, int64(5), rw.Size())
		assert.True(t, rw.Written())
		assert.Equal(t, "hello", w.Body.String())
	})

	t.Run("size accumulates", func(t *testing.T) {
		t.Parallel()

		rw := NewResponseWriter(httptest.NewRecorder())
		_, _ = rw.Write([]byte("abc"))
		_, _ = rw.Write([]byte("defg"))

		assert.Equal(t, int64(7), rw.Size())
	})

	t.Run("unwrap", func(t *testing.T) {
		t.Parallel()

		w := httptest.NewRecorder()
		rw := NewResponseWriter(w)

		assert.Same(t, w, rw.Unwrap())
	})
}
