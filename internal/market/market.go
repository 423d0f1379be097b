package market

import (
	"encoding/hex"
	"fmt"
	"strings"
	"unicode"

	"github.com/zeebo/blake3"

	"Babel/internal/types"
)

const (
	// maxAccountLen bounds account identifiers.
	maxAccountLen = 128

	// maxLanguageLen bounds language tags such as "en" or "pt-BR".
	maxLanguageLen = 16
)

// Account identifies a project owner, translator or backer.
type Account string

// Validate checks that the account identifier is well-formed.
func (a Account) Validate() error {
	if a == "" {
		return fmt.Errorf("%w: empty account", ErrInvalidArgument)
	}

	if len(a) > maxAccountLen {
		return fmt.Errorf("%w: account longer than %d bytes", ErrInvalidArgument, maxAccountLen)
	}

	for _, r := range a {
		if unicode.IsSpace(r) || !unicode.IsPrint(r) {
			return fmt.Errorf("%w: account %q contains invalid characters", ErrInvalidArgument, string(a))
		}
	}

	return nil
}

// Hash is a 32-byte content digest.
type Hash [32]byte

// HashContent computes the blake3 digest of raw content.
func HashContent(data []byte) Hash {
	return blake3.Sum256(data)
}

// ParseHash decodes a hex-encoded 32-byte digest.
func ParseHash(s string) (Hash, error) {
	var h Hash

	raw, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return h, fmt.Errorf("%w: hash is not hex", ErrInvalidArgument)
	}

	if len(raw) != len(h) {
		return h, fmt.Errorf("%w: hash must be %d bytes, got %d", ErrInvalidArgument, len(h), len(raw))
	}

	copy(h[:], raw)

	return h, nil
}

// String returns the hex form of the digest.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// ValidateLanguage checks a short language tag (letters, digits and '-').
func ValidateLanguage(tag string) error {
	if len(tag) < 2 || len(tag) > maxLanguageLen {
		return fmt.Errorf("%w: language tag %q", ErrInvalidArgument, tag)
	}

	for _, r := range tag {
		if r != '-' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return fmt.Errorf("%w: language tag %q", ErrInvalidArgument, tag)
		}
	}

	return nil
}

// Lifecycle enums are the persisted FlatBuffers enums.
type (
	ProjectStatus     = types.ProjectStatus
	TranslationStatus = types.TranslationStatus
	Outcome           = types.Outcome
)

const (
	ProjectOpen      = types.ProjectStatusOpen
	ProjectCompleted = types.ProjectStatusCompleted
	ProjectExpired   = types.ProjectStatusExpired

	TranslationPending  = types.TranslationStatusPending
	TranslationAccepted = types.TranslationStatusAccepted
	TranslationRejected = types.TranslationStatusRejected

	OutcomeRejected = types.OutcomeRejected
	OutcomeApproved = types.OutcomeApproved
)

// StatusName returns the lowercase wire name of a project or translation status.
func StatusName(s fmt.Stringer) string {
	return strings.ToLower(s.String())
}

// Project is a unit of translation work with an escrowed reward.
type Project struct {
	ID                 uint64        // ID is assigned monotonically at creation
	Owner              Account       // Owner created the project and funded the reward
	SourceLanguage     string        // SourceLanguage is the tag of the source material
	TargetLanguage     string        // TargetLanguage is the requested tag
	ContentHash        Hash          // ContentHash is the digest of the source material
	Reward             uint64        // Reward is the escrowed amount
	Deadline           uint64        // Deadline is the first height at which work is refused
	Status             ProjectStatus // Status is the lifecycle state
	CreatedAt          uint64        // CreatedAt is the height at creation
	AcceptedTranslator Account       // AcceptedTranslator is set once Completed
}

// IsExpired reports whether the project is expired at the given height.
// A stored Open project at or past its deadline is implicitly expired.
func IsExpired(p Project, height uint64) bool {
	if p.Status == ProjectExpired {
		return true
	}

	return p.Status == ProjectOpen && height >= p.Deadline
}

// Reconciled returns the project as observed at height: a stale Open
// project past its deadline is reported Expired.
func (p Project) Reconciled(height uint64) Project {
	if p.Status == ProjectOpen && IsExpired(p, height) {
		p.Status = ProjectExpired
	}

	return p
}

// Translation is a translator's candidate deliverable for a project.
type Translation struct {
	ProjectID   uint64            // ProjectID is the project translated
	Translator  Account           // Translator submitted the work
	Hash        Hash              // Hash is the digest of the submitted content
	Status      TranslationStatus // Status is the lifecycle state
	Votes       uint64            // Votes mirrors approving milestone votes
	SubmittedAt uint64            // SubmittedAt is the height of the latest submission
	Revision    uint32            // Revision counts re-submissions
}

// VoteResult is the tally for one milestone.
type VoteResult struct {
	Yes uint64 // Yes is the number of approving votes
	No  uint64 // No is the number of rejecting votes
}

// Total returns the number of votes cast.
func (r VoteResult) Total() uint64 {
	return r.Yes + r.No
}

// Milestone is a checkpoint gating fund release, voted on by backers.
type Milestone struct {
	ProjectID  uint64  // ProjectID is the project the milestone belongs to
	ID         uint64  // ID is assigned per project starting at 0
	Translator Account // Translator is the deliverable's author, empty if none
	OpenedAt   uint64  // OpenedAt is the height voting opened
	ClosesAt   uint64  // ClosesAt is the first height at which voting is closed
}

// Resolution is the stored outcome of a resolved milestone.
type Resolution struct {
	ProjectID       uint64     // ProjectID is the project resolved
	MilestoneID     uint64     // MilestoneID is the milestone resolved
	Translator      Account    // Translator received the reputation delta
	Outcome         Outcome    // Outcome is approved or rejected
	Result          VoteResult // Result is the tally at resolution
	ResolvedAt      uint64     // ResolvedAt is the height of resolution
	ReputationDelta int64      // ReputationDelta is the signed delta applied
}

// Reputation is a translator's running score.
type Reputation struct {
	Account Account // Account is the translator
	Score   int64   // Score is zero for accounts without history
}
