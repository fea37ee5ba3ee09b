// Package milvus publishes learned regime centroids to a Milvus
// collection so a runtime matcher can do nearest-centroid lookups
// server-side with the same vectors the training job produced.
package milvus

import (
	"context"
	"fmt"

	"github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/milvus-io/milvus-sdk-go/v2/entity"
)

// Config holds Milvus connection configuration.
type Config struct {
	Address  string // Milvus server address (e.g., "localhost:19530")
	Username string // optional
	Password string // optional
}

// Client manages the Milvus connection.
type Client struct {
	conn client.Client
	addr string
}

// NewClient connects to Milvus.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	conn, err := client.NewClient(ctx, client.Config{
		Address:  cfg.Address,
		Username: cfg.Username,
		Password: cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to milvus: %w", err)
	}
	return &Client{conn: conn, addr: cfg.Address}, nil
}

// Close closes the Milvus connection.
func (c *Client) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// HasCollection checks if a collection exists.
func (c *Client) HasCollection(ctx context.Context, name string) (bool, error) {
	return c.conn.HasCollection(ctx, name)
}

// CreateIndex creates a flat index on the centroid vector field using
// L2 distance, matching the Euclidean metric clustering was trained
// with. A mismatched metric here would silently skew runtime matching.
func (c *Client) CreateIndex(ctx context.Context, collectionName, fieldName string) error {
	idx, err := entity.NewIndexIvfFlat(entity.L2, 128)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	return c.conn.CreateIndex(ctx, collectionName, fieldName, idx, false)
}

// LoadCollection loads a collection into memory for search.
func (c *Client) LoadCollection(ctx context.Context, collectionName string) error {
	return c.conn.LoadCollection(ctx, collectionName, false)
}

// DropCollection drops a collection.
func (c *Client) DropCollection(ctx context.Context, collectionName string) error {
	return c.conn.DropCollection(ctx, collectionName)
}

// Flush flushes the collection to ensure data persistence.
func (c *Client) Flush(ctx context.Context, collectionName string) error {
	return c.conn.Flush(ctx, collectionName, false)
}
