package api

import (
	"Babel/internal/market"
)

// CreateProjectRequest is the body of POST /projects.
type CreateProjectRequest struct {
	Owner          string `json:"owner"`
	SourceLanguage string `json:"source_language"`
	TargetLanguage string `json:"target_language"`
	ContentHash    string `json:"content_hash"` // hex blake3 digest
	Reward         uint64 `json:"reward"`
	Deadline       uint64 `json:"deadline"`
}

// CreateProjectResponse is returned by POST /projects.
type CreateProjectResponse struct {
	ID uint64 `json:"id"`
}

// ProjectResponse describes a project as observed at the current height.
type ProjectResponse struct {
	ID                 uint64 `json:"id"`
	Owner              string `json:"owner"`
	SourceLanguage     string `json:"source_language"`
	TargetLanguage     string `json:"target_language"`
	ContentHash        string `json:"content_hash"`
	Reward             uint64 `json:"reward"`
	Deadline           uint64 `json:"deadline"`
	Status             string `json:"status"`
	CreatedAt          uint64 `json:"created_at"`
	AcceptedTranslator string `json:"accepted_translator,omitempty"`
}

// SubmitTranslationRequest is the body of POST /projects/{id}/translations.
type SubmitTranslationRequest struct {
	Translator      string `json:"translator"`
	TranslationHash string `json:"translation_hash"`
}

// TranslationResponse describes a translation.
type TranslationResponse struct {
	ProjectID       uint64 `json:"project_id"`
	Translator      string `json:"translator"`
	TranslationHash string `json:"translation_hash"`
	Status          string `json:"status"`
	Votes           uint64 `json:"votes"`
	SubmittedAt     uint64 `json:"submitted_at"`
	Revision        uint32 `json:"revision"`
}

// VotesResponse is the mirrored yes-vote count of a translation.
type VotesResponse struct {
	Votes uint64 `json:"votes"`
}

// ContributionRequest is the body of POST /projects/{id}/contributions.
type ContributionRequest struct {
	Account string `json:"account"`
	Amount  uint64 `json:"amount"`
}

// ContributionResponse carries the account's new total.
type ContributionResponse struct {
	Total uint64 `json:"total"`
}

// OpenMilestoneRequest is the body of POST /projects/{id}/milestones.
type OpenMilestoneRequest struct {
	Caller     string `json:"caller"`
	Translator string `json:"translator,omitempty"`
	ClosesAt   uint64 `json:"closes_at"`
}

// MilestoneResponse describes a milestone.
type MilestoneResponse struct {
	ProjectID  uint64 `json:"project_id"`
	ID         uint64 `json:"id"`
	Translator string `json:"translator,omitempty"`
	OpenedAt   uint64 `json:"opened_at"`
	ClosesAt   uint64 `json:"closes_at"`
	Closed     bool   `json:"closed"`
}

// VoteRequest is the body of POST /projects/{id}/milestones/{mid}/votes.
type VoteRequest struct {
	Voter  string `json:"voter"`
	Choice bool   `json:"choice"`
}

// VoteResultResponse is a milestone tally.
type VoteResultResponse struct {
	YesVotes uint64 `json:"yes_votes"`
	NoVotes  uint64 `json:"no_votes"`
}

// UserVoteResponse carries a voter's choice; Vote is null when absent.
type UserVoteResponse struct {
	Vote *bool `json:"vote"`
}

// ResolutionResponse describes a resolved milestone.
type ResolutionResponse struct {
	ProjectID       uint64 `json:"project_id"`
	MilestoneID     uint64 `json:"milestone_id"`
	Translator      string `json:"translator,omitempty"`
	Outcome         string `json:"outcome"`
	YesVotes        uint64 `json:"yes_votes"`
	NoVotes         uint64 `json:"no_votes"`
	ResolvedAt      uint64 `json:"resolved_at"`
	ReputationDelta int64  `json:"reputation_delta"`
}

// ReputationResponse is a translator's score.
type ReputationResponse struct {
	Account string `json:"account"`
	Score   int64  `json:"score"`
}

// HeightRequest is the body of POST /height.
type HeightRequest struct {
	Height uint64 `json:"height"`
}

// HeightResponse carries the current height.
type HeightResponse struct {
	Height uint64 `json:"height"`
}

// ErrorBody is the body of every failed request.
type ErrorBody struct {
	RequestID string      `json:"request_id"`
	Error     ErrorDetail `json:"error"`
}

// ErrorDetail carries the stable numeric code of a failure.
type ErrorDetail struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func projectResponse(p market.Project) ProjectResponse {
	return ProjectResponse{
		ID:                 p.ID,
		Owner:              string(p.Owner),
		SourceLanguage:     p.SourceLanguage,
		TargetLanguage:     p.TargetLanguage,
		ContentHash:        p.ContentHash.String(),
		Reward:             p.Reward,
		Deadline:           p.Deadline,
		Status:             market.StatusName(p.Status),
		CreatedAt:          p.CreatedAt,
		AcceptedTranslator: string(p.AcceptedTranslator),
	}
}

func translationResponse(tr market.Translation) TranslationResponse {
	return TranslationResponse{
		ProjectID:       tr.ProjectID,
		Translator:      string(tr.Translator),
		TranslationHash: tr.Hash.String(),
		Status:          market.StatusName(tr.Status),
		Votes:           tr.Votes,
		SubmittedAt:     tr.SubmittedAt,
		Revision:        tr.Revision,
	}
}

func milestoneResponse(m market.Milestone, closed bool) MilestoneResponse {
	return MilestoneResponse{
		ProjectID:  m.ProjectID,
		ID:         m.ID,
		Translator: string(m.Translator),
		OpenedAt:   m.OpenedAt,
		ClosesAt:   m.ClosesAt,
		Closed:     closed,
	}
}

func voteResultResponse(r market.VoteResult) VoteResultResponse {
	return VoteResultResponse{YesVotes: r.Yes, NoVotes: r.No}
}

func resolutionResponse(r market.Resolution) ResolutionResponse {
	return ResolutionResponse{
		ProjectID:       r.ProjectID,
		MilestoneID:     r.MilestoneID,
		Translator:      string(r.Translator),
		Outcome:         market.StatusName(r.Outcome),
		YesVotes:        r.Result.Yes,
		NoVotes:         r.Result.No,
		ResolvedAt:      r.ResolvedAt,
		ReputationDelta: r.ReputationDelta,
	}
}
