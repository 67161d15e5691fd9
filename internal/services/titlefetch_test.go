package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHTTPTitleFetcher_FetchTitle(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			_, _ = w.Write([]byte("<html><head><title>  Example Page </title></head><body></body></html>"))
		case "/no-title":
			_, _ = w.Write([]byte("<html><head></head><body>nothing here</body></html>"))
		case "/missing":
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	fetcher := NewHTTPTitleFetcher(server.Client())
	ctx := context.Background()

	title, err := fetcher.FetchTitle(ctx, server.URL+"/ok")
	require.NoError(t, err)
	require.Equal(t, "Example Page", title)

	_, noTitleErr := fetcher.FetchTitle(ctx, server.URL+"/no-title")
	require.Error(t, noTitleErr)

	_, statusErr := fetcher.FetchTitle(ctx, server.URL+"/missing")
	require.Error(t, statusErr)
}

func Test_parseTitle(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    string
		wantErr bool
	}{
		{
			name: "simple",
			body: "<html><head><title>Hello</title></head></html>",
			want: "Hello",
		},
		{
			name: "title not first tag",
			body: "<html><head><meta charset=\"utf-8\"><title>Later</title></head></html>",
			want: "Later",
		},
		{name: "no title", body: "<html><body></body></html>", wantErr: true},
		{name: "empty title", body: "<title></title>", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseTitle(strings.NewReader(tt.body))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}
