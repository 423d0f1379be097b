package escrow

import (
	"fmt"

	flatbuffers "github.com/google/flatbuffers/go"
	"github.com/zeebo/blake3"

	"Babel/internal/market"
	"Babel/internal/types"
)

// Kind is the escrow operation recorded in a receipt.
type Kind = types.EscrowKind

const (
	KindDeposit = types.EscrowKindDeposit
	KindRelease = types.EscrowKindRelease
	KindRefund  = types.EscrowKindRefund
)

// Receipt proves that one escrow operation was applied.
type Receipt struct {
	Reference [32]byte       // Reference is the idempotency reference of the operation
	Kind      Kind           // Kind is deposit, release or refund
	ProjectID uint64         // ProjectID is the project whose reward moved
	Amount    uint64         // Amount is the value moved
	Account   market.Account // Account paid in or received the funds
}

// Reference derives the idempotency reference of an operation.
// The same arguments always yield the same reference.
func Reference(kind Kind, projectID uint64, account market.Account, amount uint64) [32]byte {
	h := blake3.New()

	buf := make([]byte, 0, 17)
	buf = append(buf, byte(kind))
	buf = market.AppendUint64(buf, projectID)
	buf = market.AppendUint64(buf, amount)

	h.Write(buf)
	h.Write([]byte(account))

	var ref [32]byte
	copy(ref[:], h.Sum(nil))

	return ref
}

// newReceipt builds the receipt for an operation.
func newReceipt(kind Kind, projectID uint64, account market.Account, amount uint64) Receipt {
	return Receipt{
		Reference: Reference(kind, projectID, account, amount),
		Kind:      kind,
		ProjectID: projectID,
		Amount:    amount,
		Account:   account,
	}
}

func encodeReceipt(r Receipt) []byte {
	builder := flatbuffers.NewBuilder(128)

	refOff := builder.CreateByteVector(r.Reference[:])
	accountOff := builder.CreateString(string(r.Account))

	types.EscrowReceiptStart(builder)
	types.EscrowReceiptAddReference(builder, refOff)
	types.EscrowReceiptAddKind(builder, r.Kind)
	types.EscrowReceiptAddProjectId(builder, r.ProjectID)
	types.EscrowReceiptAddAmount(builder, r.Amount)
	types.EscrowReceiptAddAccount(builder, accountOff)
	builder.Finish(types.EscrowReceiptEnd(builder))

	return builder.FinishedBytes()
}

func decodeReceipt(data []byte) (Receipt, error) {
	if len(data) < 8 {
		return Receipt{}, fmt.Errorf("receipt too short: %d bytes", len(data))
	}

	t := types.GetRootAsEscrowReceipt(data, 0)

	r := Receipt{
		Kind:      t.Kind(),
		ProjectID: t.ProjectId(),
		Amount:    t.Amount(),
		Account:   market.Account(t.Account()),
	}

	ref := t.ReferenceBytes()
	if len(ref) != len(r.Reference) {
		return Receipt{}, fmt.Errorf("invalid receipt reference length: %d", len(ref))
	}
	copy(r.Reference[:], ref)

	return r, nil
}
