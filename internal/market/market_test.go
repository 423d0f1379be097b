package market

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

// TestIsExpired covers the lazy expiry predicate at and around the deadline.
func TestIsExpired(t *testing.T) {
	p := Project{Deadline: 100, Status: ProjectOpen}

	if IsExpired(p, 99) {
		t.Error("project should be open before the deadline")
	}

	if !IsExpired(p, 100) {
		t.Error("project should be expired at the deadline")
	}

	p.Status = ProjectCompleted
	if IsExpired(p, 1000) {
		t.Error("completed project must never read as expired")
	}

	p.Status = ProjectExpired
	if !IsExpired(p, 0) {
		t.Error("stored expired project is always expired")
	}
}

// TestReconciled verifies the read view flips stale Open projects only.
func TestReconciled(t *testing.T) {
	open := Project{Deadline: 100, Status: ProjectOpen}

	if got := open.Reconciled(100).Status; got != ProjectExpired {
		t.Errorf("expected Expired, got %v", got)
	}

	if open.Status != ProjectOpen {
		t.Error("Reconciled must not mutate the receiver")
	}

	done := Project{Deadline: 100, Status: ProjectCompleted}
	if got := done.Reconciled(500).Status; got != ProjectCompleted {
		t.Errorf("expected Completed, got %v", got)
	}
}

// TestCode verifies wrapped domain errors map to their codes.
func TestCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, CodeOK},
		{ErrUnauthorized, 401},
		{fmt.Errorf("vote:\n%w", ErrUnauthorized), 401},
		{fmt.Errorf("project 3:\n%w", ErrNotFound), CodeNotFound},
		{fmt.Errorf("%w: release:\n%w", ErrEscrowFailure, errors.New("custody down")), CodeEscrowFailure},
		{ErrAlreadyVoted, CodeAlreadyVoted},
		{errors.New("disk on fire"), CodeInternal},
	}

	for _, tt := range tests {
		if got := Code(tt.err); got != tt.want {
			t.Errorf("Code(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

// TestFromCode verifies codes map back to the sentinel errors.
func TestFromCode(t *testing.T) {
	if !errors.Is(FromCode(401), ErrUnauthorized) {
		t.Error("401 should map to ErrUnauthorized")
	}

	if FromCode(CodeInternal) != nil {
		t.Error("internal code should not map to a domain error")
	}
}

func TestAccountValidate(t *testing.T) {
	valid := []Account{"ST2CY5V39NHDPWSXMW9QDT3HC3GD6Q6XX4CFRK9AG", "alice"}
	for _, a := range valid {
		if err := a.Validate(); err != nil {
			t.Errorf("Validate(%q) = %v, want nil", a, err)
		}
	}

	invalid := []Account{"", "has space", Account(strings.Repeat("x", 129)), "tab\tbed"}
	for _, a := range invalid {
		if err := a.Validate(); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("Validate(%q) = %v, want ErrInvalidArgument", a, err)
		}
	}
}

func TestValidateLanguage(t *testing.T) {
	for _, tag := range []string{"en", "es", "pt-BR", "zh-Hant"} {
		if err := ValidateLanguage(tag); err != nil {
			t.Errorf("ValidateLanguage(%q) = %v", tag, err)
		}
	}

	for _, tag := range []string{"", "e", "en_US", "this-is-way-too-long"} {
		if err := ValidateLanguage(tag); err == nil {
			t.Errorf("ValidateLanguage(%q) should fail", tag)
		}
	}
}

// TestParseHash verifies hex digests round-trip and bad input is rejected.
func TestParseHash(t *testing.T) {
	h := HashContent([]byte("content"))

	got, err := ParseHash(h.String())
	if err != nil {
		t.Fatalf("ParseHash failed: %v", err)
	}

	if got != h {
		t.Errorf("expected %s, got %s", h, got)
	}

	if _, err := ParseHash("0x" + h.String()); err != nil {
		t.Errorf("0x prefix should be accepted: %v", err)
	}

	if _, err := ParseHash("abcd"); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("short hash should be invalid, got %v", err)
	}

	if _, err := ParseHash("zz"); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("non-hex hash should be invalid, got %v", err)
	}
}

// TestProjectCodec verifies every project field survives encoding.
func TestProjectCodec(t *testing.T) {
	p := Project{
		ID:                 42,
		Owner:              "ST2CY5V39NHDPWSXMW9QDT3HC3GD6Q6XX4CFRK9AG",
		SourceLanguage:     "en",
		TargetLanguage:     "es",
		ContentHash:        HashContent([]byte("content")),
		Reward:             100,
		Deadline:           13000,
		Status:             ProjectCompleted,
		CreatedAt:          12345,
		AcceptedTranslator: "ST2JHG361ZXG51QTKY2NQCVBPPRRE2KZB1HR05NNC",
	}

	got, err := DecodeProject(EncodeProject(p))
	if err != nil {
		t.Fatalf("DecodeProject failed: %v", err)
	}

	if got != p {
		t.Errorf("decoded project mismatch:\n got %+v\nwant %+v", got, p)
	}
}

// TestResolutionCodec verifies the signed reputation delta survives encoding.
func TestResolutionCodec(t *testing.T) {
	r := Resolution{
		ProjectID:       1,
		MilestoneID:     2,
		Translator:      "translator",
		Outcome:         OutcomeRejected,
		Result:          VoteResult{Yes: 1, No: 3},
		ResolvedAt:      77,
		ReputationDelta: -5,
	}

	got, err := DecodeResolution(EncodeResolution(r))
	if err != nil {
		t.Fatalf("DecodeResolution failed: %v", err)
	}

	if got != r {
		t.Errorf("decoded resolution mismatch:\n got %+v\nwant %+v", got, r)
	}
}

func TestDecodeShortRecord(t *testing.T) {
	if _, err := DecodeProject([]byte{1, 2}); err == nil {
		t.Error("expected error for truncated project")
	}

	if r := DecodeVoteResult(nil); r != (VoteResult{}) {
		t.Errorf("missing tally should be empty, got %+v", r)
	}
}
