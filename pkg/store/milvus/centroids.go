package milvus

import (
	"context"
	"fmt"
	"time"

	"github.com/milvus-io/milvus-sdk-go/v2/entity"
)

// DefaultCollectionName is the collection holding regime centroids.
const DefaultCollectionName = "regime_centroids"

// CollectionConfig holds configuration for the centroid collection.
type CollectionConfig struct {
	Name      string
	Dimension int // feature-space dimension of the centroid vectors
	Shards    int
}

// DefaultCollectionConfig returns the default centroid collection
// configuration for the 11-feature schema.
func DefaultCollectionConfig() CollectionConfig {
	return CollectionConfig{
		Name:      DefaultCollectionName,
		Dimension: 11,
		Shards:    1,
	}
}

// CreateCollection creates the regime_centroids collection if it does
// not already exist.
func (c *Client) CreateCollection(ctx context.Context, cfg CollectionConfig) error {
	exists, err := c.HasCollection(ctx, cfg.Name)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}
	if exists {
		return nil
	}

	schema := &entity.Schema{
		CollectionName: cfg.Name,
		Description:    "Regime cluster centroids in standardized feature space",
		Fields: []*entity.Field{
			{
				Name:       "cluster_id",
				DataType:   entity.FieldTypeInt64,
				PrimaryKey: true,
				AutoID:     false,
			},
			{
				Name:     "centroid",
				DataType: entity.FieldTypeFloatVector,
				TypeParams: map[string]string{
					"dim": fmt.Sprintf("%d", cfg.Dimension),
				},
			},
			{
				Name:     "pattern_id",
				DataType: entity.FieldTypeVarChar,
				TypeParams: map[string]string{
					"max_length": "8",
				},
			},
			{
				Name:     "pattern_name",
				DataType: entity.FieldTypeVarChar,
				TypeParams: map[string]string{
					"max_length": "64",
				},
			},
			{
				Name:     "sample_count",
				DataType: entity.FieldTypeInt64,
			},
			{
				Name:     "percentage",
				DataType: entity.FieldTypeDouble,
			},
			{
				Name:     "trained_at",
				DataType: entity.FieldTypeInt64,
			},
		},
	}

	if err := c.conn.CreateCollection(ctx, schema, int32(cfg.Shards)); err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}
	return nil
}

// CentroidRecord is one cluster's centroid with its assigned pattern
// metadata. Unmapped clusters carry empty pattern fields.
type CentroidRecord struct {
	ClusterID   int64
	Centroid    []float32
	PatternID   string
	PatternName string
	SampleCount int64
	Percentage  float64
	TrainedAt   time.Time
}

// InsertCentroids publishes the centroid records.
func (c *Client) InsertCentroids(ctx context.Context, collectionName string, records []CentroidRecord) error {
	if len(records) == 0 {
		return nil
	}

	clusterIDs := make([]int64, len(records))
	centroids := make([][]float32, len(records))
	patternIDs := make([]string, len(records))
	patternNames := make([]string, len(records))
	sampleCounts := make([]int64, len(records))
	percentages := make([]float64, len(records))
	trainedAts := make([]int64, len(records))

	for i, r := range records {
		clusterIDs[i] = r.ClusterID
		centroids[i] = r.Centroid
		patternIDs[i] = r.PatternID
		patternNames[i] = r.PatternName
		sampleCounts[i] = r.SampleCount
		percentages[i] = r.Percentage
		trainedAts[i] = r.TrainedAt.Unix()
	}

	columns := []entity.Column{
		entity.NewColumnInt64("cluster_id", clusterIDs),
		entity.NewColumnFloatVector("centroid", len(centroids[0]), centroids),
		entity.NewColumnVarChar("pattern_id", patternIDs),
		entity.NewColumnVarChar("pattern_name", patternNames),
		entity.NewColumnInt64("sample_count", sampleCounts),
		entity.NewColumnDouble("percentage", percentages),
		entity.NewColumnInt64("trained_at", trainedAts),
	}

	if _, err := c.conn.Insert(ctx, collectionName, "", columns...); err != nil {
		return fmt.Errorf("failed to insert centroids: %w", err)
	}
	return nil
}
