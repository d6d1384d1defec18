package tools

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/johncarpenter/rakuten-mcp/internal/mcp"
	"github.com/johncarpenter/rakuten-mcp/internal/rakuten"
)

var errKeywordRequired = errors.New("検索キーワードが必要です")

var rakutenSearchTool = mcp.Tool{
	Name:        "rakuten_search",
	Description: "楽天市場で商品を検索します",
	InputSchema: mcp.InputSchema{
		Type: "object",
		Properties: map[string]mcp.Property{
			"keyword": {
				Type:        "string",
				Description: "検索キーワード",
			},
			"genre_id": {
				Type:        "string",
				Description: "ジャンルID(オプション)",
			},
			"price_min": {
				Type:        "integer",
				Description: "最低価格(オプション)",
			},
			"price_max": {
				Type:        "integer",
				Description: "最高価格(オプション)",
			},
			"sort": {
				Type:        "string",
				Description: "ソート順(オプション): +itemPrice(価格昇順), -itemPrice(価格降順), +reviewCount(レビュー数昇順), -reviewCount(レビュー数降順), +reviewAverage(レビュー平均昇順), -reviewAverage(レビュー平均降順)",
				Default:     rakuten.DefaultSort,
			},
		},
		Required: []string{"keyword"},
	},
}

func newRakutenSearch(s Searcher) mcp.Handler {
	return func(ctx context.Context, args mcp.Arguments) mcp.Outcome {
		p, err := searchParams(args)
		if err != nil {
			return mcp.Failure(err)
		}

		resp, err := s.Search(ctx, p)
		if err != nil {
			return mcp.Failure(err)
		}
		return mcp.Success(rakuten.Format(resp))
	}
}

func searchParams(args mcp.Arguments) (rakuten.SearchParams, error) {
	var p rakuten.SearchParams

	keyword, _, err := args.String("keyword")
	if err != nil {
		return p, err
	}
	if keyword == "" {
		return p, errKeywordRequired
	}
	p.Keyword = keyword

	if p.GenreID, _, err = args.String("genre_id"); err != nil {
		return p, err
	}
	if p.MinPrice, _, err = args.Int("price_min"); err != nil {
		return p, err
	}
	if p.MaxPrice, _, err = args.Int("price_max"); err != nil {
		return p, err
	}

	sort, ok, err := args.String("sort")
	if err != nil {
		return p, err
	}
	if !ok || sort == "" {
		sort = rakuten.DefaultSort
	}
	p.Sort = sort

	return p, nil
}
