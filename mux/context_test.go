package mux

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParams(t *testing.T) {
	t.Run("returns nil for request without state", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		assert.Nil(t, Params(r))

		_, ok := Param(r, "id")
		assert.False(t, ok)
	})

	t.Run("returns params from request context", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r = withState(r, &requestState{params: map[string]string{"id": "42", "name": "test"}})

		result := Params(r)
		require.NotNil(t, result)
		assert.Equal(t, "42", result["id"])

		v, ok := Param(r, "name")
		assert.True(t, ok)
		assert.Equal(t, "test", v)

		_, ok = Param(r, "missing")
		assert.False(t, ok)
	})
}

func TestSetParams(t *testing.T) {
	t.Run("sets params on request", func(t *testing.T) {
		r := SetParams(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"key": "value"})
		assert.Equal(t, map[string]string{"key": "value"}, Params(r))
	})

	t.Run("overwrites existing params", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r = SetParams(r, map[string]string{"a": "1"})
		r = SetParams(r, map[string]string{"b": "2"})
		assert.Equal(t, map[string]string{"b": "2"}, Params(r))
	})

	t.Run("preserves current route", func(t *testing.T) {
		route := &Route{}
		r := withState(httptest.NewRequest(http.MethodGet, "/", nil), &requestState{route: route})
		r = SetParams(r, map[string]string{"a": "1"})
		assert.Equal(t, route, CurrentRoute(r))
	})
}

func TestCurrentRouteAndMount(t *testing.T) {
	t.Run("nil without state", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		assert.Nil(t, CurrentRoute(r))
		assert.Nil(t, CurrentMount(r))
	})

	t.Run("returns stored values", func(t *testing.T) {
		route := &Route{}
		mount := &Mount{root: "/api"}
		r := withState(httptest.NewRequest(http.MethodGet, "/", nil), &requestState{route: route, mount: mount})
		assert.Equal(t, route, CurrentRoute(r))
		assert.Equal(t, mount, CurrentMount(r))
	})
}

func TestBodyAccessors(t *testing.T) {
	t.Run("zero values without state", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", nil)
		assert.Nil(t, Body(r))
		assert.Nil(t, RawBody(r))
		assert.False(t, BodyParsed(r))

		setBody(r, []byte("x"), "x")
		assert.Nil(t, Body(r))
	})

	t.Run("setBody publishes to all holders", func(t *testing.T) {
		r := withState(httptest.NewRequest(http.MethodPost, "/", nil), &requestState{})
		setBody(r, []byte("raw"), "decoded")

		assert.Equal(t, "decoded", Body(r))
		assert.Equal(t, []byte("raw"), RawBody(r))
		assert.True(t, BodyParsed(r))
	})
}

func TestRequestValues(t *testing.T) {
	type key struct{}

	t.Run("no state", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		assert.False(t, SetValue(r, key{}, "v"))
		assert.Nil(t, Value(r, key{}))
	})

	t.Run("visible to later handlers", func(t *testing.T) {
		var got any
		c := Chain{
			func(_ http.ResponseWriter, r *http.Request, next Next) error {
				SetValue(r, key{}, "v")
				return next()
			},
			func(_ http.ResponseWriter, r *http.Request, _ Next) error {
				got = Value(r, key{})
				return nil
			},
		}

		require.NoError(t, c.Run(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil)))
		assert.Equal(t, "v", got)
	})
}
