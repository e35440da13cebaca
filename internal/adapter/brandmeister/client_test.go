package brandmeister

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAPIKey = "test-api-key"

func testClient(baseURL string) *Client {
	return &Client{
		apiKey:     testAPIKey,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		baseURL:    baseURL,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestClient_StaticTalkgroups_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/device/262999/talkgroup", r.URL.Path)
		assert.Equal(t, "Bearer "+testAPIKey, r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"slot":1,"talkgroup":262},{"timeslot":2,"tg":26223}]`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	records, err := c.StaticTalkgroups(context.Background(), "262999")

	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, float64(262), records[0]["talkgroup"])
}

func TestClient_StaticTalkgroups_Unauthorized(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(status)
		}))

		c := testClient(srv.URL)
		_, err := c.StaticTalkgroups(context.Background(), "262999")

		require.ErrorIs(t, err, ErrUnauthorized)
		srv.Close()
	}
}

func TestClient_StaticTalkgroups_OtherErrorStatusIsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	records, err := c.StaticTalkgroups(context.Background(), "262999")

	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestClient_StaticTalkgroups_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"not":"an array"}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.StaticTalkgroups(context.Background(), "262999")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode talkgroup response")
}

func TestClient_DynamicTalkgroups_DegradesToEmpty(t *testing.T) {
	t.Run("server error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		assert.Empty(t, testClient(srv.URL).DynamicTalkgroups(context.Background(), "262999"))
	})

	t.Run("unreachable registry", func(t *testing.T) {
		c := testClient("http://127.0.0.1:1")
		assert.Empty(t, c.DynamicTalkgroups(context.Background(), "262999"))
	})
}

func TestClient_DeviceInfo(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v2/device/262999", r.URL.Path)
			_, _ = w.Write([]byte(`{"name":"DB0XYZ","type":"repeater"}`))
		}))
		defer srv.Close()

		dev := testClient(srv.URL).DeviceInfo(context.Background(), "262999")

		require.NotNil(t, dev.Name)
		assert.Equal(t, "DB0XYZ", *dev.Name)
		require.NotNil(t, dev.Type)
		assert.Equal(t, "repeater", *dev.Type)
	})

	t.Run("failure degrades to empty", func(t *testing.T) {
		dev := testClient("http://127.0.0.1:1").DeviceInfo(context.Background(), "262999")
		assert.Nil(t, dev.Name)
		assert.Nil(t, dev.Type)
	})
}
