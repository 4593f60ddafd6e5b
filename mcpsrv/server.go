package mcpsrv

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/qyinm/gemtui/api"
	"github.com/qyinm/gemtui/mcpsrv/dto"
	"github.com/qyinm/gemtui/types"
	"go.uber.org/zap"
)

type productsListArgs struct {
	MinPrice *int   `json:"min_price,omitempty" jsonschema:"Optional lower price bound"`
	MaxPrice *int   `json:"max_price,omitempty" jsonschema:"Optional upper price bound"`
	Category string `json:"category,omitempty" jsonschema:"Optional jewelry type: all, ring, pendant, earring, bracelet"`
	Limit    int    `json:"limit,omitempty" jsonschema:"Optional maximum number of items"`
}

type productIDArgs struct {
	ID string `json:"id" jsonschema:"Product id"`
}

type productsListOutput struct {
	Query        dto.Query     `json:"query"`
	Total        int           `json:"total"`
	FireflyCount int           `json:"firefly_count"`
	Items        []dto.Product `json:"items"`
}

type productOutput struct {
	Item dto.Product `json:"item"`
}

type categoryListOutput struct {
	Total int            `json:"total"`
	Items []dto.Category `json:"items"`
}

type ServerOptions struct {
	EnableAdmin bool
	APIKey      string
	Logger      *zap.Logger

	// Local marks a transport only the launching process can reach, such as
	// stdio. Admin tools then need no key.
	Local bool
}

func (o *ServerOptions) adminEnabled() bool {
	return o.EnableAdmin && (o.Local || strings.TrimSpace(o.APIKey) != "")
}

// NewServer exposes source as MCP tools. product_refresh is registered only
// when admin tools are enabled and an API key guards the endpoint, or the
// transport is local.
func NewServer(source types.ProductSource, version string, opts *ServerOptions) *mcp.Server {
	if strings.TrimSpace(version) == "" {
		version = "dev"
	}
	if opts == nil {
		opts = &ServerOptions{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	server := mcp.NewServer(&mcp.Implementation{Name: "gemtui", Version: version}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "products_list",
		Description: "List jewelry listings in a price range, optionally filtered by type.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args productsListArgs) (*mcp.CallToolResult, productsListOutput, error) {
		return productsListHandler(ctx, req, args, source, logger)
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "product_get",
		Description: "Get one listing by id.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args productIDArgs) (*mcp.CallToolResult, productOutput, error) {
		return productGetHandler(ctx, req, args, source, logger)
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "category_list",
		Description: "List the jewelry types accepted by products_list.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, categoryListOutput, error) {
		return categoryListHandler(ctx, req)
	})

	if opts.adminEnabled() {
		mcp.AddTool(server, &mcp.Tool{
			Name:        "product_refresh",
			Description: "Re-scrape the price of one listing (admin).",
		}, func(ctx context.Context, req *mcp.CallToolRequest, args productIDArgs) (*mcp.CallToolResult, productOutput, error) {
			return productRefreshHandler(ctx, req, args, source, logger)
		})
	}

	return server
}

func productsListHandler(ctx context.Context, _ *mcp.CallToolRequest, args productsListArgs, source types.ProductSource, logger *zap.Logger) (*mcp.CallToolResult, productsListOutput, error) {
	if err := validateBounds(args.MinPrice, args.MaxPrice); err != nil {
		return errorToolResult(err.Error()), productsListOutput{}, nil
	}
	category, err := types.ParseCategory(args.Category)
	if err != nil {
		return errorToolResult(err.Error()), productsListOutput{}, nil
	}

	q := types.ProductQuery{MinPrice: args.MinPrice, MaxPrice: args.MaxPrice}
	if category != types.CategoryAll {
		q.Category = category.String()
	}

	products, err := source.ListProducts(ctx, q)
	if err != nil {
		logger.Warn("products_list failed", zap.Error(err))
		return errorToolResult(upstreamMessage("fetch products failed", err)), productsListOutput{}, nil
	}

	products = applyLimit(products, args.Limit)
	firefly := 0
	for _, p := range products {
		if p.IsFirefly() {
			firefly++
		}
	}

	return nil, productsListOutput{
		Query:        dto.FromQuery(q),
		Total:        len(products),
		FireflyCount: firefly,
		Items:        dto.FromProducts(products),
	}, nil
}

func productGetHandler(ctx context.Context, _ *mcp.CallToolRequest, args productIDArgs, source types.ProductSource, logger *zap.Logger) (*mcp.CallToolResult, productOutput, error) {
	id := strings.TrimSpace(args.ID)
	if id == "" {
		return errorToolResult("id is required"), productOutput{}, nil
	}

	p, err := source.GetProduct(ctx, id)
	if err != nil {
		logger.Warn("product_get failed", zap.String("id", id), zap.Error(err))
		return errorToolResult(upstreamMessage("fetch product failed", err)), productOutput{}, nil
	}
	return nil, productOutput{Item: dto.FromProduct(p)}, nil
}

func categoryListHandler(_ context.Context, _ *mcp.CallToolRequest) (*mcp.CallToolResult, categoryListOutput, error) {
	return nil, categoryListOutput{
		Total: len(types.AllCategories),
		Items: dto.FromCategories(types.AllCategories),
	}, nil
}

func productRefreshHandler(ctx context.Context, _ *mcp.CallToolRequest, args productIDArgs, source types.ProductSource, logger *zap.Logger) (*mcp.CallToolResult, productOutput, error) {
	id := strings.TrimSpace(args.ID)
	if id == "" {
		return errorToolResult("id is required"), productOutput{}, nil
	}

	p, err := source.RefreshProduct(ctx, id)
	if err != nil {
		logger.Warn("product_refresh failed", zap.String("id", id), zap.Error(err))
		return errorToolResult(upstreamMessage("refresh product failed", err)), productOutput{}, nil
	}
	logger.Info("product refreshed", zap.String("id", id), zap.Float64("price", p.Price()))
	return nil, productOutput{Item: dto.FromProduct(p)}, nil
}

// validateBounds applies the range selector rules to optional bounds.
func validateBounds(minPrice, maxPrice *int) error {
	if minPrice != nil && (*minPrice < types.PriceFloor || *minPrice > types.PriceCeiling) {
		return fmt.Errorf("min_price must be between %d and %d", types.PriceFloor, types.PriceCeiling)
	}
	if maxPrice != nil && (*maxPrice < types.PriceFloor || *maxPrice > types.PriceCeiling) {
		return fmt.Errorf("max_price must be between %d and %d", types.PriceFloor, types.PriceCeiling)
	}
	if minPrice != nil && maxPrice != nil && *minPrice >= *maxPrice {
		return errors.New("min_price must be less than max_price")
	}
	return nil
}

// upstreamMessage keeps backend status codes visible to the caller.
func upstreamMessage(prefix string, err error) string {
	if code := api.StatusCode(err); code != 0 {
		return fmt.Sprintf("%s (status %d)", prefix, code)
	}
	return prefix
}

func errorToolResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: msg}},
	}
}

func applyLimit(items []types.Product, limit int) []types.Product {
	if limit <= 0 || limit >= len(items) {
		return items
	}
	return items[:limit]
}
