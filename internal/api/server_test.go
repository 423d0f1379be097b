package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"Babel/internal/contribution"
	"Babel/internal/escrow"
	"Babel/internal/height"
	"Babel/internal/market"
	"Babel/internal/milestone"
	"Babel/internal/registry"
	"Babel/internal/reputation"
	"Babel/internal/snapshot"
	"Babel/internal/storage"
	"Babel/internal/voting"
)

var contentHash = market.HashContent([]byte("Hello, world")).String()

// newTestServer wires every component over temporary stores.
func newTestServer(t *testing.T) *Server {
	t.Helper()

	return newTestServerEscrow(t, nil)
}

// newTestServerEscrow is newTestServer with the vault optionally wrapped.
func newTestServerEscrow(t *testing.T, wrap func(registry.Escrow) registry.Escrow) *Server {
	t.Helper()

	open := func(name string) *storage.Storage {
		db, err := storage.New(filepath.Join(t.TempDir(), name))
		if err != nil {
			t.Fatalf("failed to create storage: %v", err)
		}
		t.Cleanup(func() { db.Close() })
		return db
	}

	db := open("market")
	var vault registry.Escrow = escrow.NewVault(open("vault"))
	if wrap != nil {
		vault = wrap(vault)
	}

	counter, err := height.NewCounter(db)
	if err != nil {
		t.Fatalf("NewCounter failed: %v", err)
	}

	reg := registry.New(db, vault, counter)
	ms := milestone.NewStore(db, reg, counter)
	contribs := contribution.NewStore(db)
	rep := reputation.New(db)

	engine := voting.New(voting.Config{
		DB:            db,
		Projects:      reg,
		Milestones:    ms,
		Contributions: contribs,
		Reputation:    rep,
		Height:        counter,
		Params:        voting.DefaultParams(),
	})

	return New(":0", Deps{
		Projects:      reg,
		Milestones:    ms,
		Voting:        engine,
		Reputation:    rep,
		Contributions: contribs,
		Height:        counter,
		Snapshot: func() ([]byte, error) {
			raw, err := snapshot.Create(counter.Current(), snapshot.Store{Name: "market", DB: db})
			if err != nil {
				return nil, err
			}
			return snapshot.Compress(raw)
		},
		Replay: NewReplay(0, 0),
	})
}

// do sends a request through the router and decodes the JSON response into out.
func do(t *testing.T, s *Server, method, path string, body any, out any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	if out != nil {
		if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
			t.Fatalf("%s %s: failed to parse response %q: %v", method, path, w.Body.String(), err)
		}
	}

	return w
}

func createProject(t *testing.T, s *Server, deadline uint64) uint64 {
	t.Helper()

	var resp CreateProjectResponse
	w := do(t, s, "POST", "/projects", CreateProjectRequest{
		Owner:          "owner",
		SourceLanguage: "en",
		TargetLanguage: "es",
		ContentHash:    contentHash,
		Reward:         100,
		Deadline:       deadline,
	}, &resp)

	if w.Code != http.StatusCreated {
		t.Fatalf("create project: status %d: %s", w.Code, w.Body.String())
	}

	return resp.ID
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t)

	var resp map[string]any
	w := do(t, s, "GET", "/health", nil, &resp)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	if resp["status"] != "ok" {
		t.Errorf("expected status ok, got %v", resp["status"])
	}
}

// TestCreateProject_RoundTrip verifies a created project reads back Open.
func TestCreateProject_RoundTrip(t *testing.T) {
	s := newTestServer(t)
	id := createProject(t, s, 13000)

	var p ProjectResponse
	w := do(t, s, "GET", fmt.Sprintf("/projects/%d", id), nil, &p)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	if p.Status != "open" || p.SourceLanguage != "en" || p.TargetLanguage != "es" {
		t.Errorf("unexpected project: %+v", p)
	}
	if p.ContentHash != contentHash || p.Reward != 100 || p.Deadline != 13000 {
		t.Errorf("unexpected project: %+v", p)
	}
}

// TestErrors_CodesAndBody verifies failures carry the stable code and a request id.
func TestErrors_CodesAndBody(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		method, path string
		body         any
		code         int
	}{
		{"GET", "/projects/7", nil, market.CodeNotFound},
		{"GET", "/projects/abc", nil, market.CodeInvalidArgument},
		{"POST", "/projects", map[string]any{"unknown": 1}, market.CodeInvalidArgument},
		{"POST", "/projects", CreateProjectRequest{Owner: "o", SourceLanguage: "en", TargetLanguage: "es", ContentHash: "zz", Deadline: 5}, market.CodeInvalidArgument},
	}

	for _, tt := range tests {
		var body ErrorBody
		w := do(t, s, tt.method, tt.path, tt.body, &body)

		if w.Code != tt.code || body.Error.Code != tt.code {
			t.Errorf("%s %s: status %d code %d, want %d", tt.method, tt.path, w.Code, body.Error.Code, tt.code)
		}

		if body.RequestID == "" || w.Header().Get(headerRequestID) == "" {
			t.Errorf("%s %s: missing request id", tt.method, tt.path)
		}
	}
}

// failingDeposit refuses every deposit.
type failingDeposit struct {
	registry.Escrow
}

func (failingDeposit) Deposit(context.Context, uint64, market.Account, uint64) error {
	return errors.New("escrow unavailable")
}

// TestCreateProject_EscrowDown verifies a refused deposit answers 502 and stores no project.
func TestCreateProject_EscrowDown(t *testing.T) {
	s := newTestServerEscrow(t, func(e registry.Escrow) registry.Escrow {
		return failingDeposit{Escrow: e}
	})

	var body ErrorBody
	w := do(t, s, "POST", "/projects", CreateProjectRequest{
		Owner:          "owner",
		SourceLanguage: "en",
		TargetLanguage: "es",
		ContentHash:    contentHash,
		Reward:         100,
		Deadline:       10,
	}, &body)

	if w.Code != market.CodeEscrowFailure || body.Error.Code != market.CodeEscrowFailure {
		t.Fatalf("expected %d, got status %d code %d", market.CodeEscrowFailure, w.Code, body.Error.Code)
	}

	for _, id := range []string{"0", "1"} {
		if w := do(t, s, "GET", "/projects/"+id, nil, nil); w.Code != http.StatusNotFound {
			t.Errorf("project %s: expected 404 after failed deposit, got %d", id, w.Code)
		}
	}
}

// TestVote_Unauthorized verifies a non-contributor receives code 401.
func TestVote_Unauthorized(t *testing.T) {
	s := newTestServer(t)
	id := createProject(t, s, 100)

	do(t, s, "POST", fmt.Sprintf("/projects/%d/translations", id), SubmitTranslationRequest{Translator: "tr", TranslationHash: contentHash}, nil)
	do(t, s, "POST", fmt.Sprintf("/projects/%d/milestones", id), OpenMilestoneRequest{Caller: "owner", Translator: "tr", ClosesAt: 50}, nil)

	var body ErrorBody
	w := do(t, s, "POST", fmt.Sprintf("/projects/%d/milestones/0/votes", id), VoteRequest{Voter: "stranger", Choice: true}, &body)

	if w.Code != http.StatusUnauthorized || body.Error.Code != 401 {
		t.Errorf("expected 401, got status %d code %d", w.Code, body.Error.Code)
	}
}

// TestFullLifecycle drives a project from creation to an approved milestone.
func TestFullLifecycle(t *testing.T) {
	s := newTestServer(t)
	id := createProject(t, s, 100)
	base := fmt.Sprintf("/projects/%d", id)

	if w := do(t, s, "POST", base+"/translations", SubmitTranslationRequest{Translator: "tr", TranslationHash: contentHash}, nil); w.Code != http.StatusOK {
		t.Fatalf("submit: %d %s", w.Code, w.Body.String())
	}

	var m MilestoneResponse
	if w := do(t, s, "POST", base+"/milestones", OpenMilestoneRequest{Caller: "owner", Translator: "tr", ClosesAt: 50}, &m); w.Code != http.StatusCreated {
		t.Fatalf("open milestone: %d", w.Code)
	}

	for _, backer := range []string{"alice", "bob"} {
		if w := do(t, s, "POST", base+"/contributions", ContributionRequest{Account: backer, Amount: 5}, nil); w.Code != http.StatusOK {
			t.Fatalf("contribute: %d %s", w.Code, w.Body.String())
		}
	}

	mbase := fmt.Sprintf("%s/milestones/%d", base, m.ID)

	var tally VoteResultResponse
	do(t, s, "POST", mbase+"/votes", VoteRequest{Voter: "alice", Choice: true}, &tally)
	do(t, s, "POST", mbase+"/votes", VoteRequest{Voter: "bob", Choice: true}, &tally)

	if tally.YesVotes != 2 || tally.NoVotes != 0 {
		t.Errorf("unexpected tally: %+v", tally)
	}

	var again ErrorBody
	if w := do(t, s, "POST", mbase+"/votes", VoteRequest{Voter: "alice", Choice: false}, &again); w.Code != market.CodeAlreadyVoted {
		t.Errorf("repeat vote: expected %d, got %d", market.CodeAlreadyVoted, w.Code)
	}

	var uv UserVoteResponse
	do(t, s, "GET", mbase+"/votes/alice", nil, &uv)
	if uv.Vote == nil || !*uv.Vote {
		t.Errorf("expected alice's yes vote, got %+v", uv)
	}

	do(t, s, "GET", mbase+"/votes/carol", nil, &uv)
	if uv.Vote != nil {
		t.Errorf("carol has not voted, got %v", *uv.Vote)
	}

	var early ErrorBody
	if w := do(t, s, "POST", mbase+"/resolve", nil, &early); w.Code != market.CodeWindowOpen {
		t.Errorf("early resolve: expected %d, got %d", market.CodeWindowOpen, w.Code)
	}

	if w := do(t, s, "POST", "/height", HeightRequest{Height: 50}, nil); w.Code != http.StatusOK {
		t.Fatalf("advance height: %d", w.Code)
	}

	var res ResolutionResponse
	if w := do(t, s, "POST", mbase+"/resolve", nil, &res); w.Code != http.StatusOK {
		t.Fatalf("resolve: %d %s", w.Code, w.Body.String())
	}
	if res.Outcome != "approved" || res.ReputationDelta != 10 {
		t.Errorf("unexpected resolution: %+v", res)
	}

	var rep ReputationResponse
	do(t, s, "GET", "/reputation/tr", nil, &rep)
	if rep.Score != 10 {
		t.Errorf("expected score 10, got %d", rep.Score)
	}

	var p ProjectResponse
	do(t, s, "GET", base, nil, &p)
	if p.Status != "completed" || p.AcceptedTranslator != "tr" {
		t.Errorf("unexpected project: %+v", p)
	}

	var votes VotesResponse
	do(t, s, "GET", base+"/translations/tr/votes", nil, &votes)
	if votes.Votes != 2 {
		t.Errorf("expected 2 mirrored votes, got %d", votes.Votes)
	}
}

// TestIdempotencyKey verifies a retried create returns the first response.
func TestIdempotencyKey(t *testing.T) {
	s := newTestServer(t)

	req := CreateProjectRequest{
		Owner: "owner", SourceLanguage: "en", TargetLanguage: "fr", ContentHash: contentHash, Reward: 1, Deadline: 10,
	}

	var first, second CreateProjectResponse
	do(t, s, "POST", "/projects", req, &first, headerIdempotencyKey, "abc")
	w := do(t, s, "POST", "/projects", req, &second, headerIdempotencyKey, "abc")

	if first.ID != second.ID {
		t.Errorf("replayed id %d, want %d", second.ID, first.ID)
	}

	if w.Header().Get(headerReplayed) != "true" {
		t.Error("expected replay header")
	}

	var third CreateProjectResponse
	do(t, s, "POST", "/projects", req, &third, headerIdempotencyKey, "def")
	if third.ID == first.ID {
		t.Error("a new key must create a new project")
	}
}

// TestSnapshotEndpoint verifies the export decompresses into a valid snapshot.
func TestSnapshotEndpoint(t *testing.T) {
	s := newTestServer(t)
	createProject(t, s, 10)

	w := do(t, s, "GET", "/snapshot", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	raw, err := snapshot.Decompress(w.Body.Bytes())
	if err != nil {
		t.Fatalf("Decompress failed: %v", err)
	}

	db, err := storage.New(filepath.Join(t.TempDir(), "restore"))
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	defer db.Close()

	info, err := snapshot.Apply(raw, snapshot.Store{Name: "market", DB: db})
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	if info.Entries == 0 {
		t.Error("snapshot has no entries")
	}
}

// TestMetricsEndpoint verifies marketplace counters are exported.
func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	createProject(t, s, 10)

	w := do(t, s, "GET", "/metrics", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	if !strings.Contains(w.Body.String(), "babel_projects_created_total") {
		t.Error("missing projects counter")
	}
}
