package ledger

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/shieldwallet/walletd/cryptonote"
)

// HTTPClient is a Store that talks to an external Ledger Store service
// over JSON/HTTP, the transport spec.md §2.1 leaves unspecified (the
// Ledger Store is explicitly out of this repo's scope). Modeled on the
// teacher's HTTPGet/HTTPPost helpers in pkg/api/http.go, generalized
// into a small typed client since no HTTP client library appears
// anywhere in the example corpus - see DESIGN.md.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

// NewHTTPClient returns a Store backed by the ledger service at baseURL.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{baseURL: baseURL, client: &http.Client{Timeout: 30 * time.Second}}
}

var _ Store = (*HTTPClient)(nil)

type blockJSON struct {
	Index     uint64       `json:"index"`
	TxOuts    []txOutJSON  `json:"tx_outs"`
	KeyImages []string     `json:"key_images"`
}

type txOutJSON struct {
	PublicKey    string `json:"public_key"`
	TargetKey    string `json:"target_key"`
	MaskedAmount string `json:"masked_amount"`
	EFogHint     string `json:"e_fog_hint"`
}

func (c *HTTPClient) NumBlocks(ctx context.Context) (uint64, error) {
	var out struct {
		NumBlocks uint64 `json:"num_blocks"`
	}
	if err := c.getJSON(ctx, "/v1/num-blocks", &out); err != nil {
		return 0, err
	}
	return out.NumBlocks, nil
}

func (c *HTTPClient) GetBlockContents(ctx context.Context, blockIndex uint64) (Block, error) {
	var out blockJSON
	if err := c.getJSON(ctx, fmt.Sprintf("/v1/blocks/%d", blockIndex), &out); err != nil {
		return Block{}, err
	}
	return out.toBlock()
}

func (c *HTTPClient) GetTxOutByIndex(ctx context.Context, globalIndex uint64) (cryptonote.TxOut, error) {
	var out txOutJSON
	if err := c.getJSON(ctx, fmt.Sprintf("/v1/tx-outs/%d", globalIndex), &out); err != nil {
		return cryptonote.TxOut{}, err
	}
	return out.toTxOut()
}

func (c *HTTPClient) GetTxOutIndexByPublicKey(ctx context.Context, publicKey cryptonote.PublicKey) (uint64, error) {
	var out struct {
		GlobalIndex uint64 `json:"global_index"`
	}
	path := "/v1/tx-out-index?public_key=" + url.QueryEscape(base64.StdEncoding.EncodeToString(publicKey.Bytes()))
	if err := c.getJSON(ctx, path, &out); err != nil {
		return 0, err
	}
	return out.GlobalIndex, nil
}

func (c *HTTPClient) ContainsKeyImage(ctx context.Context, keyImage cryptonote.KeyImage) (bool, error) {
	var out struct {
		Contains bool `json:"contains"`
	}
	path := "/v1/key-images/" + base64.URLEncoding.EncodeToString(keyImage.Bytes())
	if err := c.getJSON(ctx, path, &out); err != nil {
		return false, err
	}
	return out.Contains, nil
}

func (c *HTTPClient) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("ledger: %s returned status %d", path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (b blockJSON) toBlock() (Block, error) {
	block := Block{Index: b.Index}
	for _, t := range b.TxOuts {
		txOut, err := t.toTxOut()
		if err != nil {
			return Block{}, err
		}
		block.TxOuts = append(block.TxOuts, txOut)
	}
	for _, s := range b.KeyImages {
		raw, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return Block{}, err
		}
		var ki cryptonote.KeyImage
		if len(raw) != cryptonote.KeySize {
			return Block{}, fmt.Errorf("ledger: malformed key image %q", s)
		}
		copy(ki[:], raw)
		block.KeyImages = append(block.KeyImages, ki)
	}
	return block, nil
}

func (t txOutJSON) toTxOut() (cryptonote.TxOut, error) {
	pub, err := decodeKey(t.PublicKey)
	if err != nil {
		return cryptonote.TxOut{}, err
	}
	target, err := decodeKey(t.TargetKey)
	if err != nil {
		return cryptonote.TxOut{}, err
	}
	masked, err := base64.StdEncoding.DecodeString(t.MaskedAmount)
	if err != nil {
		return cryptonote.TxOut{}, err
	}
	hint, err := base64.StdEncoding.DecodeString(t.EFogHint)
	if err != nil {
		return cryptonote.TxOut{}, err
	}
	return cryptonote.TxOut{
		PublicKey:    pub,
		TargetKey:    target,
		MaskedAmount: masked,
		EFogHint:     hint,
	}, nil
}

func decodeKey(s string) (cryptonote.PublicKey, error) {
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return cryptonote.PublicKey{}, err
	}
	pk, ok := cryptonote.BytesToPublicKey(raw)
	if !ok {
		return cryptonote.PublicKey{}, fmt.Errorf("ledger: malformed public key %q", s)
	}
	return pk, nil
}
