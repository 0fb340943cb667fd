package http

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daanvos/macroflow-engine/internal/core/domain"
)

func decodeChecked(t *testing.T, body []byte) domain.CheckedState {
	t.Helper()
	var resp struct {
		Checked domain.CheckedState `json:"checked"`
	}
	require.NoError(t, json.Unmarshal(body, &resp))
	return resp.Checked
}

func TestCheckedHandler(t *testing.T) {
	t.Run("Fresh client has empty state", func(t *testing.T) {
		f := newHandlerFixture()

		w := f.do(t, http.MethodGet, "/api/v1/clients/client-1/checked")

		require.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, decodeChecked(t, w.Body.Bytes()))
	})

	t.Run("Toggle flips and persists", func(t *testing.T) {
		f := newHandlerFixture()

		w := f.do(t, http.MethodPost, "/api/v1/clients/client-1/checked/2/1/toggle")
		require.Equal(t, http.StatusOK, w.Code)
		assert.True(t, decodeChecked(t, w.Body.Bytes())["2_1"])

		w = f.do(t, http.MethodGet, "/api/v1/clients/client-1/checked")
		require.Equal(t, http.StatusOK, w.Code)
		assert.True(t, decodeChecked(t, w.Body.Bytes())["2_1"])
	})

	t.Run("Double toggle keeps the entry as false", func(t *testing.T) {
		f := newHandlerFixture()

		f.do(t, http.MethodPost, "/api/v1/clients/client-1/checked/0/0/toggle")
		w := f.do(t, http.MethodPost, "/api/v1/clients/client-1/checked/0/0/toggle")

		require.Equal(t, http.StatusOK, w.Code)
		state := decodeChecked(t, w.Body.Bytes())
		value, exists := state["0_0"]
		assert.True(t, exists)
		assert.False(t, value)
	})

	t.Run("Rejects invalid day and slot", func(t *testing.T) {
		f := newHandlerFixture()

		paths := []string{
			"/api/v1/clients/client-1/checked/28/0/toggle",
			"/api/v1/clients/client-1/checked/-1/0/toggle",
			"/api/v1/clients/client-1/checked/abc/0/toggle",
			"/api/v1/clients/client-1/checked/0/-1/toggle",
			"/api/v1/clients/client-1/checked/0/xyz/toggle",
		}
		for _, path := range paths {
			w := f.do(t, http.MethodPost, path)
			assert.Equal(t, http.StatusBadRequest, w.Code, path)
		}
	})

	t.Run("Clients do not share state", func(t *testing.T) {
		f := newHandlerFixture()

		f.do(t, http.MethodPost, "/api/v1/clients/client-1/checked/0/0/toggle")

		w := f.do(t, http.MethodGet, "/api/v1/clients/client-2/checked")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, decodeChecked(t, w.Body.Bytes()))
	})
}
