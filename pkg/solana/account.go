package solana

import "fmt"

// Account is an account's on-chain metadata and data, as provided to a program
// invocation.
type Account struct {
	PublicKey  PublicKey
	IsSigner   bool
	IsWritable bool
	Lamports   uint64
	Data       []byte
	Owner      PublicKey
	Executable bool
	RentEpoch  uint64
}

// NewAccount creates a writable, non-signer account with no data.
func NewAccount(publicKey, owner PublicKey, lamports uint64) *Account {
	return &Account{
		PublicKey:  publicKey,
		IsWritable: true,
		Lamports:   lamports,
		Owner:      owner,
	}
}

func (a *Account) String() string {
	return fmt.Sprintf(
		"Account{key=%s,owner=%s,signer=%t,writable=%t,executable=%t,lamports=%d,data_len=%d,rent_epoch=%d}",
		a.PublicKey.ToBase58(),
		a.Owner.ToBase58(),
		a.IsSigner,
		a.IsWritable,
		a.Executable,
		a.Lamports,
		len(a.Data),
		a.RentEpoch,
	)
}
