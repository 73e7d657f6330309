package yahoo

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// 未指定の場合は一般的なブラウザに見せかける
const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

var htmlHeaders = map[string]string{
	"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
	"Accept-Language": "ja,en-US;q=0.9,en;q=0.8",
}

var digitsPattern = regexp.MustCompile(`[0-9]+`)

// fetchHTML は url のHTMLを取得して goquery.Document を返します
// 200以外のステータスはエラーです
func fetchHTML(ctx context.Context, client *http.Client, url, userAgent string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", url, err)
	}
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	req.Header.Set("User-Agent", userAgent)
	for k, v := range htmlHeaders {
		req.Header.Set(k, v)
	}

	res, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", url, err)
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			log.Printf("yahoo: close body of %s: %v", url, err)
		}
	}()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("get %s: unexpected status %d", url, res.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return nil, fmt.Errorf("parse html from %s: %w", url, err)
	}
	return doc, nil
}

// parseDigits は "1,000円" や "12件" のような表示から数字だけを拾って数値にします
// 数字が1つも含まれない場合は ok が false になります
func parseDigits(s string) (v int64, ok bool) {
	matches := digitsPattern.FindAllString(s, -1)
	if len(matches) == 0 {
		return 0, false
	}
	v, err := strconv.ParseInt(strings.Join(matches, ""), 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
