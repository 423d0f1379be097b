package voting

import (
	"Babel/internal/market"
)

// Key prefixes for engine-owned records.
var (
	prefixVote       = []byte("v:")   // v:<project><milestone><voter> -> choice byte
	prefixResult     = []byte("r:")   // r:<project><milestone> -> VoteResult (16 bytes)
	prefixResolution = []byte("res:") // res:<project><milestone> -> Resolution flatbuffer
)

func makeMilestoneKey(prefix []byte, projectID, milestoneID uint64) []byte {
	key := make([]byte, 0, len(prefix)+16)
	key = append(key, prefix...)
	key = market.AppendUint64(key, projectID)

	return market.AppendUint64(key, milestoneID)
}

// makeVoteKey creates a key for a vote: "v:" + project + milestone + voter.
func makeVoteKey(projectID, milestoneID uint64, voter market.Account) []byte {
	return append(makeMilestoneKey(prefixVote, projectID, milestoneID), voter...)
}

func makeResultKey(projectID, milestoneID uint64) []byte {
	return makeMilestoneKey(prefixResult, projectID, milestoneID)
}

func makeResolutionKey(projectID, milestoneID uint64) []byte {
	return makeMilestoneKey(prefixResolution, projectID, milestoneID)
}

func encodeChoice(choice bool) []byte {
	if choice {
		return []byte{1}
	}
	return []byte{0}
}

func decodeChoice(data []byte) bool {
	return len(data) > 0 && data[0] == 1
}
