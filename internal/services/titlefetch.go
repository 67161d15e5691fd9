package services

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/net/html"
)

// maxTitleBodyBytes сколько байт страницы читаем в поисках <title>.
const maxTitleBodyBytes = 256 * 1024

// maxTitleLength предел длины сохраняемого заголовка.
const maxTitleLength = 512

// HTTPTitleFetcher достает <title> целевой страницы. Любая проблема
// (сеть, таймаут, не-HTML ответ, страница без заголовка) — ошибка,
// которую вызывающая сторона деградирует до пустой строки.
type HTTPTitleFetcher struct {
	client *http.Client
}

func NewHTTPTitleFetcher(client *http.Client) *HTTPTitleFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPTitleFetcher{client: client}
}

func (f *HTTPTitleFetcher) FetchTitle(ctx context.Context, rawURL string) (string, error) {
	req, reqErr := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if reqErr != nil {
		return "", errors.Wrapf(reqErr, "build request for %s", rawURL)
	}

	resp, respErr := f.client.Do(req)
	if respErr != nil {
		return "", errors.Wrapf(respErr, "fetch %s", rawURL)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", errors.Errorf("fetch %s: unexpected status %d", rawURL, resp.StatusCode)
	}

	title, parseErr := parseTitle(http.MaxBytesReader(nil, resp.Body, maxTitleBodyBytes))
	if parseErr != nil {
		return "", errors.Wrapf(parseErr, "parse title of %s", rawURL)
	}
	return title, nil
}

// parseTitle токенизирует HTML до первого <title>. Читать документ
// целиком незачем: заголовок почти всегда в начале.
func parseTitle(body io.Reader) (string, error) {
	tokenizer := html.NewTokenizer(body)
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return "", errors.New("no title tag found")
		case html.StartTagToken:
			name, _ := tokenizer.TagName()
			if string(name) != "title" {
				continue
			}
			if tokenizer.Next() != html.TextToken {
				return "", errors.New("title tag is empty")
			}
			title := strings.TrimSpace(tokenizer.Token().Data)
			if len(title) > maxTitleLength {
				title = title[:maxTitleLength]
			}
			return title, nil
		default:
			continue
		}
	}
}
