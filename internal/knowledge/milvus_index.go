package knowledge

import (
	"context"
	"fmt"

	"hestia/internal/database/milvus"
	"hestia/internal/embedding"
	"hestia/internal/models"
	"hestia/pkg/logger"

	"github.com/milvus-io/milvus-sdk-go/v2/entity"
)

// MilvusIndex implements VectorIndex on a Milvus collection. Query embeds the
// text with the configured embedding model and runs an L2 similarity search;
// Upsert replaces the full record at the fact's id.
type MilvusIndex struct {
	client   *milvus.Client
	embedder embedding.Embedding
	log      *logger.Logger
}

// NewMilvusIndex creates a new MilvusIndex.
func NewMilvusIndex(client *milvus.Client, embedder embedding.Embedding, log *logger.Logger) (*MilvusIndex, error) {
	if client == nil || client.Client == nil {
		return nil, fmt.Errorf("milvus client is not initialized")
	}
	return &MilvusIndex{client: client, embedder: embedder, log: log}, nil
}

var outputFields = []string{
	milvus.FieldContent,
	milvus.FieldAttribute,
	milvus.FieldTimestamp,
	milvus.FieldOwnerID,
	milvus.FieldConversationID,
}

// Query returns up to limit candidates nearest to text, with distances and
// stored metadata. Hits with an empty id are inconsistent index records and
// are skipped with a warning.
func (idx *MilvusIndex) Query(ctx context.Context, text string, limit int, scope Scope) ([]Candidate, error) {
	vector, err := idx.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query text: %w", err)
	}

	expr := ""
	if !scope.IsGlobal() {
		expr = fmt.Sprintf("%s == %q", milvus.FieldOwnerID, scope.OwnerID)
	}

	sp, _ := entity.NewIndexIvfFlatSearchParam(10)
	results, err := idx.client.Client.Search(
		ctx,
		idx.client.Config.CollectionName,
		nil,
		expr,
		outputFields,
		[]entity.Vector{entity.FloatVector(vector)},
		milvus.FieldEmbedding,
		entity.L2,
		limit,
		sp,
	)
	if err != nil {
		return nil, fmt.Errorf("milvus search failed: %w", err)
	}

	var candidates []Candidate
	for _, result := range results {
		for i := 0; i < result.ResultCount; i++ {
			id, err := result.IDs.GetAsString(i)
			if err != nil || id == "" {
				idx.log.Warn("candidate record is missing its id, skipping")
				continue
			}

			fact := models.Fact{ID: id}
			if col := result.Fields.GetColumn(milvus.FieldContent); col != nil {
				fact.Content, _ = col.GetAsString(i)
			}
			if col := result.Fields.GetColumn(milvus.FieldAttribute); col != nil {
				raw, _ := col.GetAsString(i)
				fact.Attribute = models.ParseAttribute(raw)
			}
			if col := result.Fields.GetColumn(milvus.FieldTimestamp); col != nil {
				fact.Timestamp, _ = col.GetAsString(i)
			}
			if col := result.Fields.GetColumn(milvus.FieldOwnerID); col != nil {
				fact.OwnerID, _ = col.GetAsString(i)
			}
			if col := result.Fields.GetColumn(milvus.FieldConversationID); col != nil {
				fact.ConversationID, _ = col.GetAsString(i)
			}

			candidates = append(candidates, Candidate{
				Fact:     fact,
				Distance: float64(result.Scores[i]),
			})
		}
	}
	return candidates, nil
}

// Upsert creates or fully replaces the record at the fact's id.
func (idx *MilvusIndex) Upsert(ctx context.Context, fact *models.Fact) error {
	vector, err := idx.embedder.Embed(ctx, fact.Content)
	if err != nil {
		return fmt.Errorf("failed to embed fact content: %w", err)
	}

	cols := []entity.Column{
		entity.NewColumnVarChar(milvus.FieldID, []string{fact.ID}),
		entity.NewColumnVarChar(milvus.FieldContent, []string{fact.Content}),
		entity.NewColumnVarChar(milvus.FieldAttribute, []string{string(fact.Attribute)}),
		entity.NewColumnVarChar(milvus.FieldTimestamp, []string{fact.Timestamp}),
		entity.NewColumnVarChar(milvus.FieldOwnerID, []string{fact.OwnerID}),
		entity.NewColumnVarChar(milvus.FieldConversationID, []string{fact.ConversationID}),
		entity.NewColumnFloatVector(milvus.FieldEmbedding, len(vector), [][]float32{vector}),
	}

	if _, err := idx.client.Client.Upsert(ctx, idx.client.Config.CollectionName, "", cols...); err != nil {
		return fmt.Errorf("milvus upsert failed: %w", err)
	}
	return nil
}
