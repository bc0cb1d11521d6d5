package adapters

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/attestantio/go-eth2-client/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Marketen/block-packing-forensics/internal/application/domain"
)

// startup responses go-eth2-client requests before it reports the client ready.
var nodeResponses = map[string]string{
	"/eth/v1/beacon/genesis":          `{"data":{"genesis_time":"1606824023","genesis_validators_root":"0x4b363db94e286120d76eb905340fdd4e54bfe9f06bf33ff6cf5ad27f511bfe95","genesis_fork_version":"0x00000000"}}`,
	"/eth/v1/config/spec":             `{"data":{"CONFIG_NAME":"mainnet","SECONDS_PER_SLOT":"12","SLOTS_PER_EPOCH":"32"}}`,
	"/eth/v1/config/deposit_contract": `{"data":{"chain_id":"1","address":"0x00000000219ab540356cbb839cbe05303d7705fa"}}`,
	"/eth/v1/config/fork_schedule":    `{"data":[{"previous_version":"0x00000000","current_version":"0x00000000","epoch":"0"}]}`,
	"/eth/v1/node/version":            `{"data":{"version":"Lighthouse/v4.5.0/x86_64-linux"}}`,
	"/eth/v1/node/syncing":            `{"data":{"head_slot":"100","sync_distance":"0","is_syncing":false,"is_optimistic":false,"el_offline":false}}`,
}

// newTestBeaconNode serves the startup endpoints and a block endpoint where
// slot 10 is missed, slot 11 fails and slot 12 holds a phase0 block.
func newTestBeaconNode(t *testing.T) *httptest.Server {
	t.Helper()

	block := testPhase0Block(12, "lodestar", testAttestation(11, 0, 1))
	blockSSZ, err := block.MarshalSSZ()
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if body, ok := nodeResponses[r.URL.Path]; ok {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(body))
			return
		}
		switch r.URL.Path {
		case "/eth/v1/node/health":
			w.WriteHeader(http.StatusOK)
		case "/eth/v2/beacon/blocks/10":
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"code":404,"message":"NOT_FOUND: beacon block at slot 10"}`))
		case "/eth/v2/beacon/blocks/11":
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"code":500,"message":"internal error"}`))
		case "/eth/v2/beacon/blocks/12":
			w.Header().Set("Content-Type", "application/octet-stream")
			w.Header().Set("Eth-Consensus-Version", "phase0")
			_, _ = w.Write(blockSSZ)
		default:
			if strings.HasPrefix(r.URL.Path, "/eth/") {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestBeaconSource(t *testing.T) *beaconHTTPSource {
	t.Helper()
	srv := newTestBeaconNode(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	src, err := NewBeaconHTTPSource(ctx, srv.URL)
	require.NoError(t, err)
	return src.(*beaconHTTPSource)
}

func TestBeaconSourceMissedSlot(t *testing.T) {
	src := newTestBeaconSource(t)

	block, err := src.GetBlock(context.Background(), 10)
	require.NoError(t, err)
	assert.Nil(t, block)
}

func TestBeaconSourceServerError(t *testing.T) {
	src := newTestBeaconSource(t)

	block, err := src.GetBlock(context.Background(), 11)
	require.Error(t, err)
	assert.Nil(t, block)
	assert.Contains(t, err.Error(), "slot 11")

	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
}

func TestBeaconSourceBlock(t *testing.T) {
	src := newTestBeaconSource(t)

	block, err := src.GetBlock(context.Background(), 12)
	require.NoError(t, err)
	require.NotNil(t, block)
	assert.Equal(t, domain.Slot(12), block.Slot)
	assert.Equal(t, "lodestar", block.Graffiti)
	require.Len(t, block.Attestations, 1)
	assert.Equal(t, []uint64{1}, block.Attestations[0].SetBits())
}
