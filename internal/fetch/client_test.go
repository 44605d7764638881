package fetch

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gopkg.in/h2non/gock.v1"

	"github.com/idilsaglam/feedpager/internal/model"
)

const testEndpoint = "https://records.test/posts"

func newTestClient(t *testing.T, cfg Config) *Client {
	t.Helper()
	hc := &http.Client{}
	gock.InterceptClient(hc)
	t.Cleanup(func() {
		gock.RestoreClient(hc)
		gock.Off()
	})
	if cfg.Endpoint == "" {
		cfg.Endpoint = testEndpoint
	}
	return New(cfg, WithHTTPClient(hc))
}

func TestFetch(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func()
		expected  []model.Record
		wantErr   string
		status    int
	}{
		{
			name: "json array",
			setupMock: func() {
				gock.New("https://records.test").
					Get("/posts").
					Reply(200).
					JSON([]map[string]any{
						{"id": 1, "title": "first", "body": "one", "userId": 9},
						{"id": 2, "title": "second", "body": "two"},
					})
			},
			expected: []model.Record{
				{ID: 1, Title: "first", Body: "one"},
				{ID: 2, Title: "second", Body: "two"},
			},
		},
		{
			name: "empty array",
			setupMock: func() {
				gock.New("https://records.test").Get("/posts").Reply(200).BodyString("[]")
			},
			expected: []model.Record{},
		},
		{
			name: "content type is not trusted",
			setupMock: func() {
				gock.New("https://records.test").
					Get("/posts").
					Reply(200).
					AddHeader("Content-Type", "text/plain").
					BodyString(`[{"id":3,"title":"t","body":"b"}]`)
			},
			expected: []model.Record{{ID: 3, Title: "t", Body: "b"}},
		},
		{
			name: "server error",
			setupMock: func() {
				gock.New("https://records.test").Get("/posts").Reply(500).BodyString("oops")
			},
			wantErr: "unexpected status",
			status:  500,
		},
		{
			name: "not found",
			setupMock: func() {
				gock.New("https://records.test").Get("/posts").Reply(404).JSON(map[string]any{})
			},
			wantErr: "unexpected status",
			status:  404,
		},
		{
			name: "object instead of array",
			setupMock: func() {
				gock.New("https://records.test").Get("/posts").Reply(200).JSON(map[string]any{"id": 1})
			},
			wantErr: "not a JSON array",
			status:  200,
		},
		{
			name: "malformed body",
			setupMock: func() {
				gock.New("https://records.test").Get("/posts").Reply(200).BodyString(`[{"id": "x"`)
			},
			wantErr: "decode records",
			status:  200,
		},
		{
			name: "trailing garbage",
			setupMock: func() {
				gock.New("https://records.test").Get("/posts").Reply(200).BodyString(`[] []`)
			},
			wantErr: "trailing data",
			status:  200,
		},
		{
			name: "transport error",
			setupMock: func() {
				gock.New("https://records.test").Get("/posts").ReplyError(errors.New("connection refused"))
			},
			wantErr: "connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, Config{})
			tt.setupMock()

			recs, err := c.Fetch(context.Background())
			if tt.wantErr != "" {
				require.Error(t, err)
				require.ErrorIs(t, err, ErrFetchFailed)
				require.ErrorContains(t, err, tt.wantErr)

				var fe *FetchError
				require.ErrorAs(t, err, &fe)
				require.Equal(t, tt.status, fe.StatusCode)
				require.Equal(t, testEndpoint, fe.Endpoint)
				require.Nil(t, recs)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.expected, recs)
			require.True(t, gock.IsDone())
		})
	}
}

func TestFetch_SendsHeaders(t *testing.T) {
	c := newTestClient(t, Config{Token: func() string { return "s3cret" }})

	gock.New("https://records.test").
		Get("/posts").
		MatchHeader("Authorization", "^Bearer s3cret$").
		MatchHeader("Accept", "application/json").
		HeaderPresent("X-Request-Id").
		Reply(200).
		BodyString("[]")

	_, err := c.Fetch(context.Background())
	require.NoError(t, err)
	require.True(t, gock.IsDone())
}

func TestFetch_NoTokenNoAuthorization(t *testing.T) {
	c := newTestClient(t, Config{Token: func() string { return "" }})

	gock.New("https://records.test").
		Get("/posts").
		AddMatcher(func(r *http.Request, _ *gock.Request) (bool, error) {
			return r.Header.Get("Authorization") == "", nil
		}).
		Reply(200).
		BodyString("[]")

	_, err := c.Fetch(context.Background())
	require.NoError(t, err)
}

func TestFetchError_Error(t *testing.T) {
	e := &FetchError{Endpoint: "http://x", StatusCode: 502, Err: errors.New("bad gateway")}
	require.Equal(t, "fetch http://x (status 502): bad gateway", e.Error())

	e = &FetchError{Endpoint: "http://x", Err: errors.New("dial")}
	require.Equal(t, "fetch http://x: dial", e.Error())
}

func TestFetch_FailureLeftToCaller(t *testing.T) {
	hc := &http.Client{}
	gock.InterceptClient(hc)
	t.Cleanup(func() {
		gock.RestoreClient(hc)
		gock.Off()
	})

	var info, debug bytes.Buffer
	c := New(Config{Endpoint: testEndpoint}, WithHTTPClient(hc),
		WithLogger(zerolog.New(&info).Level(zerolog.InfoLevel)))
	traced := New(Config{Endpoint: testEndpoint}, WithHTTPClient(hc),
		WithLogger(zerolog.New(&debug).Level(zerolog.DebugLevel)))

	gock.New("https://records.test").Get("/posts").Times(2).Reply(503).BodyString("down")

	_, err := c.Fetch(context.Background())
	require.ErrorIs(t, err, ErrFetchFailed)
	require.Empty(t, info.String(), "failures are not logged above debug")

	_, err = traced.Fetch(context.Background())
	require.Error(t, err)
	require.Contains(t, debug.String(), `"level":"debug"`)
	require.Contains(t, debug.String(), `"status_code":503`)
}
