package adapters

import (
	"errors"
	"fmt"

	"github.com/attestantio/go-eth2-client/spec"
	"github.com/attestantio/go-eth2-client/spec/phase0"

	"github.com/Marketen/block-packing-forensics/internal/application/domain"
	"github.com/Marketen/block-packing-forensics/internal/graffiti"
)

// ErrUnsupportedFork is returned for blocks whose attestations cannot be keyed
// by (slot, committee, bit). From Electra on, one attestation aggregates
// several committees and the bit offsets need committee sizes we do not have.
var ErrUnsupportedFork = errors.New("unsupported fork")

var errIncompleteBlock = errors.New("incomplete block: missing message or body")

// toDomainBlock maps the fork-independent parts of a block to the domain model.
func toDomainBlock(slot phase0.Slot, rawGraffiti [32]byte, atts []*phase0.Attestation) (*domain.Block, error) {
	out := &domain.Block{
		Slot:         domain.Slot(slot),
		Graffiti:     graffiti.Decode(rawGraffiti),
		Attestations: make([]domain.Attestation, 0, len(atts)),
	}
	for i, att := range atts {
		if att == nil || att.Data == nil || att.Data.Source == nil || att.Data.Target == nil {
			return nil, fmt.Errorf("attestation %d in block at slot %d has no data", i, slot)
		}
		out.Attestations = append(out.Attestations, domain.Attestation{
			Data:            toDomainData(att.Data),
			AggregationBits: att.AggregationBits,
		})
	}
	return out, nil
}

func toDomainData(d *phase0.AttestationData) domain.AttestationData {
	return domain.AttestationData{
		Slot:            domain.Slot(d.Slot),
		Index:           domain.CommitteeIndex(d.Index),
		BeaconBlockRoot: domain.Root(d.BeaconBlockRoot),
		Source: domain.Checkpoint{
			Epoch: domain.Epoch(d.Source.Epoch),
			Root:  domain.Root(d.Source.Root),
		},
		Target: domain.Checkpoint{
			Epoch: domain.Epoch(d.Target.Epoch),
			Root:  domain.Root(d.Target.Root),
		},
	}
}

// fromVersioned converts a block returned by the beacon node API.
func fromVersioned(block *spec.VersionedSignedBeaconBlock) (*domain.Block, error) {
	switch block.Version {
	case spec.DataVersionPhase0:
		if block.Phase0 == nil || block.Phase0.Message == nil || block.Phase0.Message.Body == nil {
			return nil, errIncompleteBlock
		}
		m := block.Phase0.Message
		return toDomainBlock(m.Slot, m.Body.Graffiti, m.Body.Attestations)
	case spec.DataVersionAltair:
		if block.Altair == nil || block.Altair.Message == nil || block.Altair.Message.Body == nil {
			return nil, errIncompleteBlock
		}
		m := block.Altair.Message
		return toDomainBlock(m.Slot, m.Body.Graffiti, m.Body.Attestations)
	case spec.DataVersionBellatrix:
		if block.Bellatrix == nil || block.Bellatrix.Message == nil || block.Bellatrix.Message.Body == nil {
			return nil, errIncompleteBlock
		}
		m := block.Bellatrix.Message
		return toDomainBlock(m.Slot, m.Body.Graffiti, m.Body.Attestations)
	case spec.DataVersionCapella:
		if block.Capella == nil || block.Capella.Message == nil || block.Capella.Message.Body == nil {
			return nil, errIncompleteBlock
		}
		m := block.Capella.Message
		return toDomainBlock(m.Slot, m.Body.Graffiti, m.Body.Attestations)
	case spec.DataVersionDeneb:
		if block.Deneb == nil || block.Deneb.Message == nil || block.Deneb.Message.Body == nil {
			return nil, errIncompleteBlock
		}
		m := block.Deneb.Message
		return toDomainBlock(m.Slot, m.Body.Graffiti, m.Body.Attestations)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFork, block.Version)
	}
}
