package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/baalimago/go_away_boilerplate/pkg/testboil"

	"github.com/johncarpenter/rakuten-mcp/internal/config"
	"github.com/johncarpenter/rakuten-mcp/internal/mcp"
	"github.com/johncarpenter/rakuten-mcp/internal/rakuten"
)

type fakeSearcher struct {
	got  rakuten.SearchParams
	resp *rakuten.SearchResponse
	err  error
}

func (f *fakeSearcher) Search(_ context.Context, p rakuten.SearchParams) (*rakuten.SearchResponse, error) {
	f.got = p
	return f.resp, f.err
}

type rpcResponse struct {
	ID     json.RawMessage `json:"id"`
	Result *struct {
		Tools   []mcp.Tool `json:"tools"`
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"result"`
	Error *mcp.RPCError `json:"error"`
}

func serve(t *testing.T, cfg *config.Config, opts []Option, lines ...string) []rpcResponse {
	t.Helper()

	reg := mcp.NewRegistry()
	if err := Register(reg, cfg, opts...); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	srv := mcp.NewServer(reg, mcp.Options{Logger: log.New(io.Discard, "", 0)})
	var out bytes.Buffer
	srv.SetIO(strings.NewReader(strings.Join(lines, "\n")+"\n"), &out)
	if err := srv.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	var resps []rpcResponse
	dec := json.NewDecoder(&out)
	for dec.More() {
		var r rpcResponse
		if err := dec.Decode(&r); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		resps = append(resps, r)
	}
	return resps
}

func callLine(name string, args string) string {
	return `{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"` + name + `","arguments":` + args + `}}`
}

func TestToolsListed(t *testing.T) {
	resps := serve(t, nil, []Option{WithSearcher(&fakeSearcher{})},
		`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`)

	if len(resps) != 1 || resps[0].Result == nil {
		t.Fatalf("unexpected responses: %+v", resps)
	}
	tools := resps[0].Result.Tools
	testboil.FailTestIfDiff(t, len(tools), 2)
	testboil.FailTestIfDiff(t, tools[0].Name, "hello_world")
	testboil.FailTestIfDiff(t, tools[1].Name, "rakuten_search")
	testboil.FailTestIfDiff(t, tools[1].InputSchema.Required[0], "keyword")
	testboil.FailTestIfDiff(t, tools[1].InputSchema.Properties["price_min"].Type, "integer")
	testboil.FailTestIfDiff(t, tools[1].InputSchema.Properties["sort"].Default, interface{}("+itemPrice"))
}

func TestHelloWorld(t *testing.T) {
	resps := serve(t, nil, []Option{WithSearcher(&fakeSearcher{})},
		callLine("hello_world", `{"name":"Ada"}`),
		callLine("hello_world", `{}`),
	)

	testboil.FailTestIfDiff(t, len(resps), 2)
	testboil.FailTestIfDiff(t, string(resps[0].ID), "2")
	testboil.FailTestIfDiff(t, resps[0].Result.Content[0].Text, "Hello, Ada! Your MCP server is working perfectly.")
	testboil.FailTestIfDiff(t, resps[1].Result.Content[0].Text, "Hello, World! Your MCP server is working perfectly.")
}

func TestHelloWorldNonStringName(t *testing.T) {
	resps := serve(t, nil, []Option{WithSearcher(&fakeSearcher{})},
		callLine("hello_world", `{"name":true}`),
		callLine("hello_world", `{"name":5}`),
		callLine("hello_world", `{"name":{"first":"Ada"}}`),
	)

	testboil.FailTestIfDiff(t, len(resps), 3)
	testboil.FailTestIfDiff(t, resps[0].Result.Content[0].Text, "Hello, true! Your MCP server is working perfectly.")
	testboil.FailTestIfDiff(t, resps[1].Result.Content[0].Text, "Hello, 5! Your MCP server is working perfectly.")
	testboil.FailTestIfDiff(t, resps[2].Result.Content[0].Text, `Hello, {"first":"Ada"}! Your MCP server is working perfectly.`)
}

func TestRakutenSearchParams(t *testing.T) {
	name := "テスト商品"
	fake := &fakeSearcher{resp: &rakuten.SearchResponse{
		Count: 1,
		Items: []rakuten.ItemWrapper{{Item: rakuten.Item{ItemName: &name, ItemPrice: 2500}}},
	}}

	resps := serve(t, nil, []Option{WithSearcher(fake)},
		callLine("rakuten_search", `{"keyword":"コーヒー","genre_id":"100227","price_min":1000,"price_max":"3000","sort":"-reviewAverage"}`))

	testboil.FailTestIfDiff(t, fake.got, rakuten.SearchParams{
		Keyword:  "コーヒー",
		GenreID:  "100227",
		MinPrice: 1000,
		MaxPrice: 3000,
		Sort:     "-reviewAverage",
	})

	if resps[0].Error != nil {
		t.Fatalf("unexpected error: %+v", resps[0].Error)
	}
	text := resps[0].Result.Content[0].Text
	testboil.AssertStringContains(t, text, "検索結果: 1件見つかりました")
	testboil.AssertStringContains(t, text, "1. テスト商品")
	testboil.AssertStringContains(t, text, "¥2,500")
}

func TestRakutenSearchDefaultSort(t *testing.T) {
	fake := &fakeSearcher{resp: &rakuten.SearchResponse{}}
	resps := serve(t, nil, []Option{WithSearcher(fake)},
		callLine("rakuten_search", `{"keyword":"本"}`))

	testboil.FailTestIfDiff(t, fake.got.Sort, "+itemPrice")
	testboil.FailTestIfDiff(t, resps[0].Result.Content[0].Text, "検索結果が見つかりませんでした。")
}

func TestRakutenSearchKeywordRequired(t *testing.T) {
	fake := &fakeSearcher{}
	for _, args := range []string{`{}`, `{"keyword":""}`, `{"keyword":null}`} {
		resps := serve(t, nil, []Option{WithSearcher(fake)}, callLine("rakuten_search", args))
		if resps[0].Error == nil {
			t.Fatalf("args %s: expected error", args)
		}
		testboil.FailTestIfDiff(t, resps[0].Error.Code, mcp.InternalError)
		testboil.FailTestIfDiff(t, resps[0].Error.Message, "検索キーワードが必要です")
	}
	testboil.FailTestIfDiff(t, fake.got, rakuten.SearchParams{})
}

func TestRakutenSearchBadPrice(t *testing.T) {
	resps := serve(t, nil, []Option{WithSearcher(&fakeSearcher{})},
		callLine("rakuten_search", `{"keyword":"x","price_min":"cheap"}`))

	if resps[0].Error == nil {
		t.Fatal("expected error")
	}
	testboil.AssertStringContains(t, resps[0].Error.Message, "price_min")
}

func TestRakutenSearchFailure(t *testing.T) {
	fake := &fakeSearcher{err: errors.New("APIリクエストエラー: boom")}
	resps := serve(t, nil, []Option{WithSearcher(fake)},
		callLine("rakuten_search", `{"keyword":"x"}`))

	testboil.FailTestIfDiff(t, resps[0].Error.Code, mcp.InternalError)
	testboil.FailTestIfDiff(t, resps[0].Error.Message, "APIリクエストエラー: boom")
}

func TestRakutenSearchNotConfigured(t *testing.T) {
	cfg := &config.Config{RakutenAppID: "your_app_id"}
	resps := serve(t, cfg, nil, callLine("rakuten_search", `{"keyword":"x"}`))

	testboil.FailTestIfDiff(t, resps[0].Error.Code, mcp.InternalError)
	testboil.FailTestIfDiff(t, resps[0].Error.Message, rakuten.ErrNotConfigured.Error())
}

func TestRakutenSearchUsesConfiguredEndpoint(t *testing.T) {
	var appID string
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		appID = r.URL.Query().Get("applicationId")
		w.Write([]byte(`{"count":0,"Items":[]}`))
	}))
	defer api.Close()

	cfg := &config.Config{RakutenAppID: "real-id", RakutenEndpoint: api.URL}
	resps := serve(t, cfg, nil, callLine("rakuten_search", `{"keyword":"x"}`))

	testboil.FailTestIfDiff(t, appID, "real-id")
	testboil.FailTestIfDiff(t, resps[0].Result.Content[0].Text, "検索結果が見つかりませんでした。")
}
