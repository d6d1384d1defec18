package rakuten

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	maxFormattedItems = 10
	notAvailable      = "N/A"

	noResultsMessage = "検索結果が見つかりませんでした。"
)

var yen = message.NewPrinter(language.Japanese)

// Format renders search results as plain text, listing at most the first
// ten items.
func Format(resp *SearchResponse) string {
	if resp == nil || len(resp.Items) == 0 {
		return noResultsMessage
	}

	lines := []string{fmt.Sprintf("検索結果: %d件見つかりました\n", resp.Count)}

	items := resp.Items
	if len(items) > maxFormattedItems {
		items = items[:maxFormattedItems]
	}

	for i, w := range items {
		item := w.Item

		lines = append(lines, fmt.Sprintf("%d. %s", i+1, orNA(item.ItemName)))
		lines = append(lines, "   価格: ¥"+yen.Sprintf("%d", item.ItemPrice))
		lines = append(lines, "   ショップ: "+orNA(item.ShopName))
		if item.ReviewCount > 0 {
			lines = append(lines, fmt.Sprintf("   レビュー: %.1f/5.0 (%d件)", item.ReviewAverage, item.ReviewCount))
		}
		lines = append(lines, "   URL: "+item.ItemURL)
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}

func orNA(s *string) string {
	if s == nil {
		return notAvailable
	}
	return *s
}
