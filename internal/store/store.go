package store

import (
	"context"
	"fmt"
)

// Document is one stored record. Persisted artifact shapes are
// {content_hash, data} for analyses and {content_hash, embedding} for
// vectors; base entities store their own fields.
type Document = map[string]any

// Filter is a single-key exact match. Only the identity keys used by the
// pipeline are accepted; a zero Filter matches every document in a
// collection.
type Filter struct {
	Key   string
	Value string
}

var allowedFilterKeys = map[string]bool{
	"content_hash": true,
	"name":         true,
	"id":           true,
}

func (f Filter) validate() error {
	if f.Key == "" {
		return nil
	}
	if !allowedFilterKeys[f.Key] {
		return fmt.Errorf("unsupported filter key: %s", f.Key)
	}
	return nil
}

// ByHash, ByName and ByID build the three filters the pipeline uses.
func ByHash(hash string) Filter { return Filter{Key: "content_hash", Value: hash} }
func ByName(name string) Filter { return Filter{Key: "name", Value: name} }
func ByID(id string) Filter     { return Filter{Key: "id", Value: id} }

// All matches every document in a collection.
func All() Filter { return Filter{} }

// Store is the document storage contract the pipeline runs against.
// Upserts are idempotent last-write-wins on the filter key; FindOne returns
// (nil, nil) when no document matches.
type Store interface {
	FindOne(ctx context.Context, collection string, filter Filter) (Document, error)
	FindAll(ctx context.Context, collection string) ([]Document, error)
	UpsertOne(ctx context.Context, collection string, filter Filter, doc Document) error
	DeleteOne(ctx context.Context, collection string, filter Filter) (int64, error)
	DeleteMany(ctx context.Context, collection string, filter Filter) (int64, error)
	Count(ctx context.Context, collection string, filter Filter) (int64, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
