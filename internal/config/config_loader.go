package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Marketen/block-packing-forensics/internal/application/domain"
)

// SourceKind selects where blocks are read from.
type SourceKind string

const (
	SourceFile   SourceKind = "file"
	SourceBeacon SourceKind = "beacon"
)

// Encoding is the SSZ container family stored in block files.
type Encoding string

const (
	EncodingBlinded Encoding = "blinded"
	EncodingFull    Encoding = "full"
)

// Diagnostics controls the optional per-block trace output.
type Diagnostics int

const (
	DiagnosticsOff Diagnostics = iota
	// DiagnosticsBlocks logs slot, graffiti and both predicate flags per block.
	DiagnosticsBlocks
	// DiagnosticsScores also prints the raw scores of proxy-positive blocks.
	DiagnosticsScores
)

const (
	defaultFromSlot      = 6064198
	defaultToSlot        = 7165798
	defaultBlocksDir     = "./blocks"
	defaultGraffitiToken = "lodestar"
)

// Config holds runtime configuration for the analyzer.
type Config struct {
	Source        SourceKind
	BlocksDir     string
	Encoding      Encoding
	BeaconNodeURL string
	FromSlot      domain.Slot
	ToSlot        domain.Slot
	GraffitiToken string
	Diagnostics   Diagnostics
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	source := SourceKind(strings.ToLower(envOr("BLOCK_SOURCE", string(SourceFile))))
	if source != SourceFile && source != SourceBeacon {
		return nil, fmt.Errorf("invalid BLOCK_SOURCE: %q (want \"file\" or \"beacon\")", source)
	}

	encoding := Encoding(strings.ToLower(envOr("BLOCK_ENCODING", string(EncodingBlinded))))
	if encoding != EncodingBlinded && encoding != EncodingFull {
		return nil, fmt.Errorf("invalid BLOCK_ENCODING: %q (want \"blinded\" or \"full\")", encoding)
	}

	beaconURL := strings.TrimSpace(os.Getenv("BEACON_NODE_URL"))
	if source == SourceBeacon && beaconURL == "" {
		return nil, fmt.Errorf("BEACON_NODE_URL is required when BLOCK_SOURCE=beacon")
	}

	from, err := parseSlot("FROM_SLOT", defaultFromSlot)
	if err != nil {
		return nil, err
	}
	to, err := parseSlot("TO_SLOT", defaultToSlot)
	if err != nil {
		return nil, err
	}
	if to <= from {
		return nil, fmt.Errorf("empty slot range [%d, %d): TO_SLOT must be greater than FROM_SLOT", from, to)
	}

	diagnostics, err := parseDiagnostics(os.Getenv("DIAGNOSTICS"))
	if err != nil {
		return nil, err
	}

	return &Config{
		Source:        source,
		BlocksDir:     envOr("BLOCKS_DIR", defaultBlocksDir),
		Encoding:      encoding,
		BeaconNodeURL: beaconURL,
		FromSlot:      from,
		ToSlot:        to,
		GraffitiToken: envOr("GRAFFITI_TOKEN", defaultGraffitiToken),
		Diagnostics:   diagnostics,
	}, nil
}

func envOr(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func parseSlot(key string, fallback uint64) (domain.Slot, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return domain.Slot(fallback), nil
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q: %w", key, raw, err)
	}
	return domain.Slot(n), nil
}

func parseDiagnostics(raw string) (Diagnostics, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "off":
		return DiagnosticsOff, nil
	case "blocks":
		return DiagnosticsBlocks, nil
	case "scores":
		return DiagnosticsScores, nil
	default:
		return DiagnosticsOff, fmt.Errorf("invalid DIAGNOSTICS: %q (want \"off\", \"blocks\" or \"scores\")", raw)
	}
}
