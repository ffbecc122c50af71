package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		A int `json:"a"`
	}

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"a":1,"b":2}`))
	require.NoError(t, DecodeJSON(r, &dst, 0))
	assert.Equal(t, 1, dst.A)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(``))
	assert.ErrorIs(t, DecodeJSON(r, &dst, 0), ErrBadRequest)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"a":"x"}`))
	assert.ErrorIs(t, DecodeJSON(r, &dst, 0), ErrBadRequest)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"a":12345}`))
	assert.ErrorIs(t, DecodeJSON(r, &dst, 4), ErrBadRequest)
}

func TestPathIDAndQuery(t *testing.T) {
	id, err := PathID(map[string]string{"id": "42"}, "id")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, raw := range []string{"0", "-1", "abc"} {
		_, err := PathID(map[string]string{"id": raw}, "id")
		assert.ErrorIs(t, err, ErrBadRequest, raw)
	}
	_, err = PathID(nil, "id")
	assert.ErrorIs(t, err, ErrBadRequest)

	r := httptest.NewRequest(http.MethodGet, "/?limit=5", nil)
	n, err := QueryInt(r, "limit", 50)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	n, err = QueryInt(httptest.NewRequest(http.MethodGet, "/", nil), "limit", 50)
	require.NoError(t, err)
	assert.Equal(t, 50, n)
}

func TestRegisterAndWrite(t *testing.T) {
	mux := runtime.NewServeMux()
	require.NoError(t, Register(mux, Route{
		Method:  http.MethodGet,
		Pattern: "/v1/things/{id}",
		Handler: func(w http.ResponseWriter, _ *http.Request, p map[string]string) {
			WriteJSON(w, http.StatusOK, map[string]string{"id": p["id"]})
		},
	}))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/things/7", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":"7"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	WriteError(rec, http.StatusNotFound, "missing")
	var body ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "missing", body.Message)
	assert.Nil(t, body.Errors)
}
