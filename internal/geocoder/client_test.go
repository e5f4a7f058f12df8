package geocoder

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func geocodeBody(pos string) string {
	return `{"response":{"GeoObjectCollection":{"featureMember":[` +
		`{"GeoObject":{"Point":{"pos":"` + pos + `"}}}]}}}`
}

const emptyGeocodeBody = `{"response":{"GeoObjectCollection":{"featureMember":[]}}}`

func TestResolveSwapsLonLat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/1.x", r.URL.Path)
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "secret", r.URL.Query().Get("apikey"))
		assert.Equal(t, "Moscow, Tverskaya 1", r.URL.Query().Get("geocode"))
		w.Write([]byte(geocodeBody("37.6 55.7")))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "secret", 5*time.Second)
	coords, err := client.Resolve(context.Background(), "Moscow, Tverskaya 1")
	require.NoError(t, err)

	// pos is "<lon> <lat>": 37.6 is the longitude, 55.7 the latitude.
	assert.Equal(t, 55.7, coords.Latitude)
	assert.Equal(t, 37.6, coords.Longitude)
}

func TestResolveEmptyResultIsUnresolved(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(emptyGeocodeBody))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "secret", 5*time.Second)
	_, err := client.Resolve(context.Background(), "nowhere at all")
	assert.ErrorIs(t, err, ErrUnresolved)
}

func TestResolveNon2xxIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "bad-key", 5*time.Second)
	_, err := client.Resolve(context.Background(), "Moscow")

	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, http.StatusForbidden, te.Status)
}

func TestResolveUnreachableProviderIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	client := NewClient(srv.URL, "secret", time.Second)
	_, err := client.Resolve(context.Background(), "Moscow")

	var te *TransportError
	assert.ErrorAs(t, err, &te)
}

func TestResolveMalformedPayload(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"not json", `<html>maintenance</html>`},
		{"bad pos", geocodeBody("37.6")},
		{"non numeric pos", geocodeBody("east north")},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			client := NewClient(srv.URL, "secret", 5*time.Second)
			_, err := client.Resolve(context.Background(), "Moscow")

			var me *MalformedResponseError
			assert.ErrorAs(t, err, &me)
			assert.False(t, errors.Is(err, ErrUnresolved))
		})
	}
}
