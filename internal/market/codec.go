package market

import (
	"encoding/binary"
	"fmt"

	flatbuffers "github.com/google/flatbuffers/go"

	"Babel/internal/types"
)

// minTableSize is the smallest buffer that can hold a FlatBuffers root offset.
const minTableSize = 8

// EncodeProject serializes a project as a FlatBuffers table.
func EncodeProject(p Project) []byte {
	builder := flatbuffers.NewBuilder(256)

	ownerOff := builder.CreateString(string(p.Owner))
	srcOff := builder.CreateString(p.SourceLanguage)
	tgtOff := builder.CreateString(p.TargetLanguage)
	hashOff := builder.CreateByteVector(p.ContentHash[:])
	acceptedOff := builder.CreateString(string(p.AcceptedTranslator))

	types.ProjectStart(builder)
	types.ProjectAddId(builder, p.ID)
	types.ProjectAddOwner(builder, ownerOff)
	types.ProjectAddSourceLanguage(builder, srcOff)
	types.ProjectAddTargetLanguage(builder, tgtOff)
	types.ProjectAddContentHash(builder, hashOff)
	types.ProjectAddReward(builder, p.Reward)
	types.ProjectAddDeadline(builder, p.Deadline)
	types.ProjectAddStatus(builder, p.Status)
	types.ProjectAddCreatedAt(builder, p.CreatedAt)
	types.ProjectAddAcceptedTranslator(builder, acceptedOff)
	builder.Finish(types.ProjectEnd(builder))

	return builder.FinishedBytes()
}

// DecodeProject parses a project table.
func DecodeProject(data []byte) (Project, error) {
	if len(data) < minTableSize {
		return Project{}, fmt.Errorf("project record too short: %d bytes", len(data))
	}

	t := types.GetRootAsProject(data, 0)

	p := Project{
		ID:                 t.Id(),
		Owner:              Account(t.Owner()),
		SourceLanguage:     string(t.SourceLanguage()),
		TargetLanguage:     string(t.TargetLanguage()),
		Reward:             t.Reward(),
		Deadline:           t.Deadline(),
		Status:             t.Status(),
		CreatedAt:          t.CreatedAt(),
		AcceptedTranslator: Account(t.AcceptedTranslator()),
	}

	if hash := t.ContentHashBytes(); len(hash) == len(p.ContentHash) {
		copy(p.ContentHash[:], hash)
	}

	return p, nil
}

// EncodeTranslation serializes the stored part of a translation.
// Votes and the key fields are kept outside the record.
func EncodeTranslation(tr Translation) []byte {
	builder := flatbuffers.NewBuilder(96)

	hashOff := builder.CreateByteVector(tr.Hash[:])

	types.TranslationStart(builder)
	types.TranslationAddTranslationHash(builder, hashOff)
	types.TranslationAddStatus(builder, tr.Status)
	types.TranslationAddSubmittedAt(builder, tr.SubmittedAt)
	types.TranslationAddRevision(builder, tr.Revision)
	builder.Finish(types.TranslationEnd(builder))

	return builder.FinishedBytes()
}

// DecodeTranslation parses a translation table for the given key.
func DecodeTranslation(projectID uint64, translator Account, data []byte) (Translation, error) {
	if len(data) < minTableSize {
		return Translation{}, fmt.Errorf("translation record too short: %d bytes", len(data))
	}

	t := types.GetRootAsTranslation(data, 0)

	tr := Translation{
		ProjectID:   projectID,
		Translator:  translator,
		Status:      t.Status(),
		SubmittedAt: t.SubmittedAt(),
		Revision:    t.Revision(),
	}

	if hash := t.TranslationHashBytes(); len(hash) == len(tr.Hash) {
		copy(tr.Hash[:], hash)
	}

	return tr, nil
}

// EncodeMilestone serializes a milestone.
func EncodeMilestone(m Milestone) []byte {
	builder := flatbuffers.NewBuilder(96)

	translatorOff := builder.CreateString(string(m.Translator))

	types.MilestoneStart(builder)
	types.MilestoneAddProjectId(builder, m.ProjectID)
	types.MilestoneAddId(builder, m.ID)
	types.MilestoneAddTranslator(builder, translatorOff)
	types.MilestoneAddOpenedAt(builder, m.OpenedAt)
	types.MilestoneAddClosesAt(builder, m.ClosesAt)
	builder.Finish(types.MilestoneEnd(builder))

	return builder.FinishedBytes()
}

// DecodeMilestone parses a milestone table.
func DecodeMilestone(data []byte) (Milestone, error) {
	if len(data) < minTableSize {
		return Milestone{}, fmt.Errorf("milestone record too short: %d bytes", len(data))
	}

	t := types.GetRootAsMilestone(data, 0)

	return Milestone{
		ProjectID:  t.ProjectId(),
		ID:         t.Id(),
		Translator: Account(t.Translator()),
		OpenedAt:   t.OpenedAt(),
		ClosesAt:   t.ClosesAt(),
	}, nil
}

// EncodeResolution serializes a milestone resolution.
func EncodeResolution(r Resolution) []byte {
	builder := flatbuffers.NewBuilder(128)

	translatorOff := builder.CreateString(string(r.Translator))

	types.ResolutionStart(builder)
	types.ResolutionAddProjectId(builder, r.ProjectID)
	types.ResolutionAddMilestoneId(builder, r.MilestoneID)
	types.ResolutionAddTranslator(builder, translatorOff)
	types.ResolutionAddOutcome(builder, r.Outcome)
	types.ResolutionAddYesVotes(builder, r.Result.Yes)
	types.ResolutionAddNoVotes(builder, r.Result.No)
	types.ResolutionAddResolvedAt(builder, r.ResolvedAt)
	types.ResolutionAddReputationDelta(builder, r.ReputationDelta)
	builder.Finish(types.ResolutionEnd(builder))

	return builder.FinishedBytes()
}

// DecodeResolution parses a resolution table.
func DecodeResolution(data []byte) (Resolution, error) {
	if len(data) < minTableSize {
		return Resolution{}, fmt.Errorf("resolution record too short: %d bytes", len(data))
	}

	t := types.GetRootAsResolution(data, 0)

	return Resolution{
		ProjectID:       t.ProjectId(),
		MilestoneID:     t.MilestoneId(),
		Translator:      Account(t.Translator()),
		Outcome:         t.Outcome(),
		Result:          VoteResult{Yes: t.YesVotes(), No: t.NoVotes()},
		ResolvedAt:      t.ResolvedAt(),
		ReputationDelta: t.ReputationDelta(),
	}, nil
}

// EncodeVoteResult packs a tally as two big-endian uint64 values.
func EncodeVoteResult(r VoteResult) []byte {
	buf := make([]byte, 16)
	binary.BigEndian.PutUint64(buf[0:8], r.Yes)
	binary.BigEndian.PutUint64(buf[8:16], r.No)

	return buf
}

// DecodeVoteResult unpacks a tally. Missing or short data is an empty tally.
func DecodeVoteResult(data []byte) VoteResult {
	if len(data) < 16 {
		return VoteResult{}
	}

	return VoteResult{
		Yes: binary.BigEndian.Uint64(data[0:8]),
		No:  binary.BigEndian.Uint64(data[8:16]),
	}
}

// EncodeUint64 packs a big-endian counter.
func EncodeUint64(v uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, v)

	return buf
}

// DecodeUint64 unpacks a big-endian counter; missing data is zero.
func DecodeUint64(data []byte) uint64 {
	if len(data) < 8 {
		return 0
	}

	return binary.BigEndian.Uint64(data)
}

// AppendUint64 appends v in big-endian order so keys sort numerically.
func AppendUint64(key []byte, v uint64) []byte {
	return binary.BigEndian.AppendUint64(key, v)
}
