package milvus

import (
	"context"
	"fmt"

	"hestia/internal/config"

	"github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/milvus-io/milvus-sdk-go/v2/entity"
)

// Field names of the fact collection. The knowledge layer reads and writes
// these columns; keep them in sync with EnsureFactCollection.
const (
	FieldID             = "id"
	FieldContent        = "content"
	FieldAttribute      = "attribute"
	FieldTimestamp      = "timestamp"
	FieldOwnerID        = "owner_id"
	FieldConversationID = "conversation_id"
	FieldEmbedding      = "embedding"
)

// Client wraps the Milvus SDK client together with its configuration.
// It is constructed once at process start and passed to consumers explicitly.
type Client struct {
	Client client.Client
	Config *config.MilvusConfig
}

// NewClient connects to Milvus at the configured address.
func NewClient(ctx context.Context, cfg *config.MilvusConfig) (*Client, error) {
	c, err := client.NewClient(ctx, client.Config{Address: cfg.Address})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Milvus: %w", err)
	}
	return &Client{Client: c, Config: cfg}, nil
}

// Close shuts down the connection to Milvus.
func (c *Client) Close() {
	if c.Client != nil {
		c.Client.Close()
	}
}

// HealthCheck verifies the Milvus connection is usable.
func (c *Client) HealthCheck(ctx context.Context) error {
	if c.Client == nil {
		return fmt.Errorf("milvus client is nil")
	}
	if _, err := c.Client.ListCollections(ctx); err != nil {
		return fmt.Errorf("milvus health check failed: %w", err)
	}
	return nil
}

// EnsureFactCollection creates the fact collection and its vector index if
// they do not exist yet, then loads the collection into memory.
func (c *Client) EnsureFactCollection(ctx context.Context) error {
	collName := c.Config.CollectionName
	exists, err := c.Client.HasCollection(ctx, collName)
	if err != nil {
		return fmt.Errorf("failed to check collection '%s': %w", collName, err)
	}

	if !exists {
		maxLength := int64(c.Config.MaxLength)
		if maxLength <= 0 {
			maxLength = 4096
		}

		schema := entity.NewSchema().
			WithName(collName).
			WithDescription("attribute-scoped property facts").
			WithField(entity.NewField().WithName(FieldID).
				WithDataType(entity.FieldTypeVarChar).WithMaxLength(128).WithIsPrimaryKey(true)).
			WithField(entity.NewField().WithName(FieldContent).
				WithDataType(entity.FieldTypeVarChar).WithMaxLength(maxLength)).
			WithField(entity.NewField().WithName(FieldAttribute).
				WithDataType(entity.FieldTypeVarChar).WithMaxLength(64)).
			WithField(entity.NewField().WithName(FieldTimestamp).
				WithDataType(entity.FieldTypeVarChar).WithMaxLength(64)).
			WithField(entity.NewField().WithName(FieldOwnerID).
				WithDataType(entity.FieldTypeVarChar).WithMaxLength(128)).
			WithField(entity.NewField().WithName(FieldConversationID).
				WithDataType(entity.FieldTypeVarChar).WithMaxLength(128)).
			WithField(entity.NewField().WithName(FieldEmbedding).
				WithDataType(entity.FieldTypeFloatVector).WithDim(int64(c.Config.Dim)))

		if err := c.Client.CreateCollection(ctx, schema, entity.DefaultShardNumber); err != nil {
			return fmt.Errorf("failed to create collection '%s': %w", collName, err)
		}

		nlist := c.Config.NList
		if nlist <= 0 {
			nlist = 128
		}
		idx, err := entity.NewIndexIvfFlat(entity.L2, nlist)
		if err != nil {
			return fmt.Errorf("failed to build index definition: %w", err)
		}
		if err := c.Client.CreateIndex(ctx, collName, FieldEmbedding, idx, false); err != nil {
			return fmt.Errorf("failed to create index on '%s': %w", FieldEmbedding, err)
		}
	}

	if err := c.Client.LoadCollection(ctx, collName, false); err != nil {
		return fmt.Errorf("failed to load collection '%s': %w", collName, err)
	}
	return nil
}
