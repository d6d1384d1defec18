package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/johncarpenter/rakuten-mcp/internal/mcp"
)

const defaultGreetingName = "World"

var helloWorldTool = mcp.Tool{
	Name:        "hello_world",
	Description: "簡単なデモンストレーションツール",
	InputSchema: mcp.InputSchema{
		Type: "object",
		Properties: map[string]mcp.Property{
			"name": {
				Type:        "string",
				Description: "挨拶する名前",
			},
		},
		Required: []string{"name"},
	},
}

func helloWorld(_ context.Context, args mcp.Arguments) mcp.Outcome {
	name := defaultGreetingName
	if v, ok := args.Lookup("name"); ok {
		name = greetingName(v)
	}
	return mcp.Success(fmt.Sprintf("Hello, %s! Your MCP server is working perfectly.", name))
}

// greetingName renders any argument value; non-strings use their JSON form.
func greetingName(v interface{}) string {
	switch n := v.(type) {
	case string:
		return n
	case json.Number:
		return n.String()
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}
