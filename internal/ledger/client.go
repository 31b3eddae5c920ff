package ledger

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	// Entities are kept alive for roughly two years; the chain produces a
	// block about every two seconds.
	blocksPerDay = 24 * 60 * 60 / 2
	entityTTL    = 730 * blocksPerDay

	annotationType      = "type"
	annotationProjectID = "project_id"
	annotationUpdatedAt = "updated_at"
	typeProjectData     = "project_data"

	defaultTimeout = 15 * time.Second
)

// Client talks JSON-RPC to the ledger's RPC endpoint. Reads only need the
// owner address; writes additionally need a write key, without which the
// client runs in read-only mode.
type Client struct {
	rpcURL       string
	ownerAddress string
	writeKey     string

	httpClient *http.Client
	reqID      atomic.Int64
}

func NewClient(rpcURL, ownerAddress, writeKey string) *Client {
	return &Client{
		rpcURL:       rpcURL,
		ownerAddress: ownerAddress,
		writeKey:     writeKey,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

// CanWrite reports whether a write key is configured.
func (c *Client) CanWrite() bool {
	return c.writeKey != ""
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int64  `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

func (c *Client) call(ctx context.Context, method string, params []any, out any) error {
	if c.rpcURL == "" {
		return fmt.Errorf("ledger rpc url not configured")
	}

	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      c.reqID.Add(1),
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return fmt.Errorf("marshal rpc request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.rpcURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.writeKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.writeKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ledger request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("ledger returned status %d", resp.StatusCode)
	}

	var rpcResp rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		return fmt.Errorf("decode rpc response: %w", err)
	}
	if rpcResp.Error != nil {
		return fmt.Errorf("rpc error %d: %s", rpcResp.Error.Code, rpcResp.Error.Message)
	}

	if out != nil {
		if err := json.Unmarshal(rpcResp.Result, out); err != nil {
			return fmt.Errorf("decode rpc result: %w", err)
		}
	}
	return nil
}

type annotation struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type entityMetaData struct {
	StringAnnotations []annotation `json:"stringAnnotations"`
}

func (m entityMetaData) annotation(key string) string {
	for _, ann := range m.StringAnnotations {
		if ann.Key == key {
			return ann.Value
		}
	}
	return ""
}

func (c *Client) getEntitiesOfOwner(ctx context.Context) ([]string, error) {
	if c.ownerAddress == "" {
		return nil, fmt.Errorf("ledger owner address not configured")
	}
	var keys []string
	if err := c.call(ctx, "golembase_getEntitiesOfOwner", []any{c.ownerAddress}, &keys); err != nil {
		return nil, err
	}
	return keys, nil
}

func (c *Client) getEntityMetaData(ctx context.Context, entityKey string) (*entityMetaData, error) {
	var meta entityMetaData
	if err := c.call(ctx, "golembase_getEntityMetaData", []any{entityKey}, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (c *Client) getStorageValue(ctx context.Context, entityKey string) ([]byte, error) {
	var encoded string
	if err := c.call(ctx, "golembase_getStorageValue", []any{entityKey}, &encoded); err != nil {
		return nil, err
	}
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("decode storage value: %w", err)
	}
	return raw, nil
}

type createEntityRequest struct {
	BTL               int64        `json:"btl"`
	Data              string       `json:"data"`
	StringAnnotations []annotation `json:"stringAnnotations"`
	IdempotencyKey    string       `json:"idempotencyKey"`
}

type createEntityResult struct {
	EntityKey string `json:"entityKey"`
}

func (c *Client) StoreProject(ctx context.Context, projectID string, data json.RawMessage) (string, error) {
	if !c.CanWrite() {
		logrus.Warn("ledger write not available, no write key configured")
		return "", nil
	}

	updatedAt := time.Now().UTC().Format(time.RFC3339)
	envelope, err := json.Marshal(ProjectRecord{
		ProjectID: projectID,
		Data:      data,
		UpdatedAt: updatedAt,
	})
	if err != nil {
		return "", fmt.Errorf("marshal project envelope: %w", err)
	}

	req := createEntityRequest{
		BTL:  entityTTL,
		Data: base64.StdEncoding.EncodeToString(envelope),
		StringAnnotations: []annotation{
			{Key: annotationType, Value: typeProjectData},
			{Key: annotationProjectID, Value: projectID},
			{Key: annotationUpdatedAt, Value: updatedAt},
		},
		IdempotencyKey: uuid.NewString(),
	}

	var results []createEntityResult
	if err := c.call(ctx, "golembase_createEntities", []any{[]createEntityRequest{req}}, &results); err != nil {
		return "", err
	}
	if len(results) == 0 {
		return "", fmt.Errorf("ledger returned no entity key")
	}

	logrus.WithFields(logrus.Fields{
		"project_id": projectID,
		"entity_key": results[0].EntityKey,
	}).Info("project stored on ledger")
	return results[0].EntityKey, nil
}

func (c *Client) GetProject(ctx context.Context, projectID string) (*ProjectRecord, error) {
	latest, err := c.latestEntities(ctx, projectID)
	if err != nil {
		return nil, err
	}

	entityKey, ok := latest[projectID]
	if !ok {
		return nil, ErrNotFound
	}

	return c.fetchRecord(ctx, entityKey)
}

func (c *Client) GetAllProjects(ctx context.Context) ([]ProjectRecord, error) {
	latest, err := c.latestEntities(ctx, "")
	if err != nil {
		return nil, err
	}

	records := make([]ProjectRecord, 0, len(latest))
	for _, entityKey := range latest {
		record, err := c.fetchRecord(ctx, entityKey)
		if err != nil {
			// Skip entities that cannot be read.
			logrus.WithError(err).WithField("entity_key", entityKey).Warn("skipping unreadable ledger entity")
			continue
		}
		records = append(records, *record)
	}
	return records, nil
}

// latestEntities maps project ID to the entity key of its newest version,
// resolved by the updated_at annotation. A non-empty onlyID restricts the scan
// to a single project.
func (c *Client) latestEntities(ctx context.Context, onlyID string) (map[string]string, error) {
	entityKeys, err := c.getEntitiesOfOwner(ctx)
	if err != nil {
		return nil, err
	}

	type version struct {
		entityKey string
		updatedAt time.Time
	}
	latest := make(map[string]version)

	for _, entityKey := range entityKeys {
		meta, err := c.getEntityMetaData(ctx, entityKey)
		if err != nil {
			continue
		}
		if meta.annotation(annotationType) != typeProjectData {
			continue
		}

		projectID := meta.annotation(annotationProjectID)
		if projectID == "" || (onlyID != "" && projectID != onlyID) {
			continue
		}

		updatedAt, err := time.Parse(time.RFC3339, meta.annotation(annotationUpdatedAt))
		if err != nil {
			continue
		}

		if existing, ok := latest[projectID]; !ok || updatedAt.After(existing.updatedAt) {
			latest[projectID] = version{entityKey: entityKey, updatedAt: updatedAt}
		}
	}

	out := make(map[string]string, len(latest))
	for projectID, v := range latest {
		out[projectID] = v.entityKey
	}
	return out, nil
}

func (c *Client) fetchRecord(ctx context.Context, entityKey string) (*ProjectRecord, error) {
	raw, err := c.getStorageValue(ctx, entityKey)
	if err != nil {
		return nil, err
	}

	var record ProjectRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, fmt.Errorf("decode project record: %w", err)
	}
	return &record, nil
}
