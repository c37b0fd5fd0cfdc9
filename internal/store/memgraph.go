package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"
)

// MemgraphStore keeps each record as a :Document node carrying the
// collection name, the filter key as an indexed property, an updated_at
// timestamp and the record JSON in a payload property. MERGE gives the
// last-write-wins upsert the cache layer relies on.
type MemgraphStore struct {
	driver neo4j.DriverWithContext
	log    *zap.Logger
}

func NewMemgraphStore(ctx context.Context, uri, username, password string, log *zap.Logger) (*MemgraphStore, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, err
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		return nil, err
	}

	s := &MemgraphStore{driver: driver, log: log}
	s.buildIndices(ctx)
	return s, nil
}

func (s *MemgraphStore) buildIndices(ctx context.Context) {
	queries := []string{
		"CREATE INDEX ON :Document(collection);",
		"CREATE INDEX ON :Document(content_hash);",
		"CREATE INDEX ON :Document(name);",
		"CREATE INDEX ON :Document(id);",
	}

	for _, q := range queries {
		if _, err := s.execute(ctx, q, nil); err != nil {
			// Index may already exist.
			s.log.Debug("index creation skipped", zap.String("query", q), zap.Error(err))
		}
	}
}

func (s *MemgraphStore) execute(ctx context.Context, query string, params map[string]any) (neo4j.EagerResult, error) {
	result, err := neo4j.ExecuteQuery(ctx, s.driver, query, params, neo4j.EagerResultTransformer)
	if err != nil {
		return neo4j.EagerResult{}, fmt.Errorf("failed to execute query: %w", err)
	}
	return *result, nil
}

// matchClause builds the node pattern for a collection and filter. Property
// names cannot be parameterized in Cypher, so filter keys are whitelisted.
func matchClause(filter Filter) (string, error) {
	if err := filter.validate(); err != nil {
		return "", err
	}
	if filter.Key == "" {
		return "(d:Document {collection: $collection})", nil
	}
	return fmt.Sprintf("(d:Document {collection: $collection, %s: $value})", filter.Key), nil
}

func queryParams(collection string, filter Filter) map[string]any {
	params := map[string]any{"collection": collection}
	if filter.Key != "" {
		params["value"] = filter.Value
	}
	return params
}

func (s *MemgraphStore) FindOne(ctx context.Context, collection string, filter Filter) (Document, error) {
	pattern, err := matchClause(filter)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("MATCH %s RETURN d.payload AS payload ORDER BY d.updated_at DESC LIMIT 1", pattern)
	result, err := s.execute(ctx, query, queryParams(collection, filter))
	if err != nil {
		return nil, err
	}
	if len(result.Records) == 0 {
		return nil, nil
	}

	return decodePayload(result.Records[0])
}

func (s *MemgraphStore) FindAll(ctx context.Context, collection string) ([]Document, error) {
	query := "MATCH (d:Document {collection: $collection}) RETURN d.payload AS payload ORDER BY d.updated_at DESC"
	result, err := s.execute(ctx, query, map[string]any{"collection": collection})
	if err != nil {
		return nil, err
	}

	docs := make([]Document, 0, len(result.Records))
	for _, record := range result.Records {
		doc, err := decodePayload(record)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (s *MemgraphStore) UpsertOne(ctx context.Context, collection string, filter Filter, doc Document) error {
	if filter.Key == "" {
		return fmt.Errorf("upsert requires a filter key")
	}
	pattern, err := matchClause(filter)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	query := fmt.Sprintf("MERGE %s SET d.payload = $payload, d.updated_at = timestamp()", pattern)
	params := queryParams(collection, filter)
	params["payload"] = string(payload)

	_, err = s.execute(ctx, query, params)
	return err
}

func (s *MemgraphStore) DeleteOne(ctx context.Context, collection string, filter Filter) (int64, error) {
	pattern, err := matchClause(filter)
	if err != nil {
		return 0, err
	}

	query := fmt.Sprintf("MATCH %s WITH d LIMIT 1 DETACH DELETE d RETURN count(*) AS deleted", pattern)
	return s.executeCount(ctx, query, queryParams(collection, filter), "deleted")
}

func (s *MemgraphStore) DeleteMany(ctx context.Context, collection string, filter Filter) (int64, error) {
	pattern, err := matchClause(filter)
	if err != nil {
		return 0, err
	}

	query := fmt.Sprintf("MATCH %s WITH d DETACH DELETE d RETURN count(*) AS deleted", pattern)
	return s.executeCount(ctx, query, queryParams(collection, filter), "deleted")
}

func (s *MemgraphStore) Count(ctx context.Context, collection string, filter Filter) (int64, error) {
	pattern, err := matchClause(filter)
	if err != nil {
		return 0, err
	}

	query := fmt.Sprintf("MATCH %s RETURN count(d) AS total", pattern)
	return s.executeCount(ctx, query, queryParams(collection, filter), "total")
}

func (s *MemgraphStore) executeCount(ctx context.Context, query string, params map[string]any, field string) (int64, error) {
	result, err := s.execute(ctx, query, params)
	if err != nil {
		return 0, err
	}
	if len(result.Records) == 0 {
		return 0, nil
	}

	value, ok := result.Records[0].Get(field)
	if !ok {
		return 0, nil
	}
	count, ok := value.(int64)
	if !ok {
		return 0, fmt.Errorf("unexpected count type %T", value)
	}
	return count, nil
}

func (s *MemgraphStore) Ping(ctx context.Context) error {
	return s.driver.VerifyConnectivity(ctx)
}

func (s *MemgraphStore) Close(ctx context.Context) error {
	return s.driver.Close(ctx)
}

func decodePayload(record *neo4j.Record) (Document, error) {
	value, ok := record.Get("payload")
	if !ok {
		return nil, fmt.Errorf("record has no payload")
	}
	payload, ok := value.(string)
	if !ok {
		return nil, fmt.Errorf("unexpected payload type %T", value)
	}

	var doc Document
	if err := json.Unmarshal([]byte(payload), &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal payload: %w", err)
	}
	return doc, nil
}
