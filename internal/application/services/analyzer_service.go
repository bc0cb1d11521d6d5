package services

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Marketen/block-packing-forensics/internal/application/domain"
	"github.com/Marketen/block-packing-forensics/internal/application/ports"
	"github.com/Marketen/block-packing-forensics/internal/config"
	"github.com/Marketen/block-packing-forensics/internal/graffiti"
	"github.com/Marketen/block-packing-forensics/internal/logger"
)

// Analyzer walks a slot range and checks, block by block, whether the
// attestation packing matches the Lodestar algorithm.
type Analyzer struct {
	Source        ports.BlockSource
	Chain         domain.ChainSpec
	GraffitiToken string
	Diagnostics   config.Diagnostics

	// Out receives the per-block rate lines and score traces.
	Out io.Writer

	participation *Participation
	accuracy      Accuracy
	processed     int
	skipped       int
}

// NewAnalyzer constructs an Analyzer with dependencies injected. A nil
// participation starts from empty sets.
func NewAnalyzer(
	source ports.BlockSource,
	chain domain.ChainSpec,
	participation *Participation,
	graffitiToken string,
	diagnostics config.Diagnostics,
	out io.Writer,
) *Analyzer {
	if participation == nil {
		participation = NewParticipation()
	}
	return &Analyzer{
		Source:        source,
		Chain:         chain,
		GraffitiToken: graffitiToken,
		Diagnostics:   diagnostics,
		Out:           out,
		participation: participation,
	}
}

// Run processes every slot in [from, to) in order. Slots without a block are
// skipped. The first fetch or decode error stops the run. Cancellation is
// only observed between slots.
func (a *Analyzer) Run(ctx context.Context, from, to domain.Slot) error {
	logger.Info("Analyzing slots [%d, %d)", from, to)
	for slot := from; slot < to; slot++ {
		if err := ctx.Err(); err != nil {
			a.logSummary()
			return err
		}

		block, err := a.Source.GetBlock(ctx, slot)
		if err != nil {
			a.logSummary()
			return fmt.Errorf("slot %d: %w", slot, err)
		}
		if block == nil {
			a.skipped++
			logger.Debug("No block at slot %d, skipping", slot)
			continue
		}

		if _, err := a.ProcessBlock(block); err != nil {
			a.logSummary()
			return fmt.Errorf("slot %d: %w", slot, err)
		}
	}
	a.logSummary()
	return nil
}

// ProcessBlock runs one block through roll, score, classify, commit and
// report. Scoring sees participation as it was before this block.
func (a *Analyzer) ProcessBlock(block *domain.Block) (Verdict, error) {
	a.participation.Roll(a.Chain.EpochAt(block.Slot))

	scores := ScoreBlock(block, a.participation, a.Chain)
	verdict := Classify(scores, block.Graffiti, a.GraffitiToken)

	added := a.participation.Commit(block, a.Chain)
	logger.Debug("Slot %d: %d attestations, %d new participants credited", block.Slot, len(block.Attestations), added)

	a.accuracy.Record(verdict)
	a.processed++

	if err := a.accuracy.WriteRates(a.Out); err != nil {
		return verdict, fmt.Errorf("write rates: %w", err)
	}
	if err := a.writeDiagnostics(block, scores, verdict); err != nil {
		return verdict, err
	}
	return verdict, nil
}

func (a *Analyzer) writeDiagnostics(block *domain.Block, scores Scores, v Verdict) error {
	if a.Diagnostics >= config.DiagnosticsBlocks {
		logger.Info("slot %-8d graffiti '%-32s' within_group_limit %t scores_descending %t",
			block.Slot, graffiti.StripEmoji(block.Graffiti), v.WithinGroupLimit, v.ScoresDescending)
	}
	if a.Diagnostics >= config.DiagnosticsScores && v.GraffitiProxy {
		if _, err := fmt.Fprintln(a.Out, formatScores(scores.Values)); err != nil {
			return fmt.Errorf("write scores: %w", err)
		}
	}

	// Proxy says Lodestar but the ordering disagrees: always worth a look.
	if v.GraffitiProxy && !v.ScoresDescending {
		if _, err := fmt.Fprintln(a.Out, formatScores(scores.Values)); err != nil {
			return fmt.Errorf("write scores: %w", err)
		}
	}
	return nil
}

// Accuracy returns a copy of the running counters.
func (a *Analyzer) Accuracy() Accuracy {
	return a.accuracy
}

// Processed returns the number of blocks analyzed so far.
func (a *Analyzer) Processed() int {
	return a.processed
}

// Skipped returns the number of slots without a block so far.
func (a *Analyzer) Skipped() int {
	return a.skipped
}

func (a *Analyzer) logSummary() {
	logger.Info("Processed %d blocks, skipped %d empty slots", a.processed, a.skipped)
	logger.Info("proxy/match %.0f proxy/miss %.0f non-proxy/match %.0f non-proxy/miss %.0f",
		a.accuracy.ProxyMatch, a.accuracy.ProxyMiss, a.accuracy.NonProxyMatch, a.accuracy.NonProxyMiss)
	if epoch, ok := a.participation.Epoch(); ok {
		previous, current := a.participation.Len()
		logger.Info("Participation at epoch %d: %d previous, %d current keys", epoch, previous, current)
	}
}

func formatScores(values []float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
