package serializer

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/andyjsbell/zksol/pkg/sbpf"
	"github.com/andyjsbell/zksol/pkg/sbpf/memory"
	"github.com/andyjsbell/zksol/pkg/solana"
	"github.com/andyjsbell/zksol/pkg/solana/binary"
)

const (
	// NonDupMarker prefixes every account that is not a duplicate of an earlier one
	NonDupMarker = 0xff

	// MaxPermittedDataIncrease is the room reserved after each account's data for
	// the program to grow it during the invocation
	MaxPermittedDataIncrease = 10 * 1024

	// BPFAlignOfU128 is the alignment guaranteed for the start of each rent epoch
	BPFAlignOfU128 = 8
)

// Size of the fixed account header up to and including the data length
const accountHeaderSize = 1 + // dup marker
	1 + // is_signer
	1 + // is_writable
	1 + // executable
	4 + // reserved
	solana.PublicKeySize + // key
	solana.PublicKeySize + // owner
	8 + // lamports
	8 // data length

// SerializedAccount records where an account's fields landed in the input region
type SerializedAccount struct {
	PublicKeyAddr   uint64
	OwnerAddr       uint64
	LamportsAddr    uint64
	DataAddr        uint64
	OriginalDataLen int
}

// SerializeParameters lays out the accounts, instruction data and program id
// in the format programs expect at sbpf.MMInputStart. The returned buffer backs
// a single writable region.
func SerializeParameters(
	accounts []*solana.Account,
	instructionData []byte,
	programID solana.PublicKey,
) ([]byte, []*memory.Region, []SerializedAccount) {
	size := SerializedSize(accounts, instructionData)
	buffer := make([]byte, size)
	metadata := make([]SerializedAccount, 0, len(accounts))

	var offset int
	binary.PutUint64(buffer, uint64(len(accounts)), &offset)

	for _, account := range accounts {
		binary.PutUint8(buffer, NonDupMarker, &offset)
		binary.PutBool(buffer, account.IsSigner, &offset)
		binary.PutBool(buffer, account.IsWritable, &offset)
		binary.PutBool(buffer, account.Executable, &offset)
		binary.PutZeros(buffer, 4, &offset)

		var serialized SerializedAccount

		serialized.PublicKeyAddr = vmAddr(offset)
		binary.PutKey32(buffer, account.PublicKey, &offset)

		serialized.OwnerAddr = vmAddr(offset)
		binary.PutKey32(buffer, account.Owner, &offset)

		serialized.LamportsAddr = vmAddr(offset)
		binary.PutUint64(buffer, account.Lamports, &offset)

		binary.PutUint64(buffer, uint64(len(account.Data)), &offset)

		serialized.DataAddr = vmAddr(offset)
		serialized.OriginalDataLen = len(account.Data)
		binary.PutBytes(buffer, account.Data, &offset)
		binary.PutZeros(buffer, MaxPermittedDataIncrease+alignPad(len(account.Data)), &offset)

		binary.PutUint64(buffer, account.RentEpoch, &offset)

		metadata = append(metadata, serialized)
	}

	binary.PutUint64(buffer, uint64(len(instructionData)), &offset)
	binary.PutBytes(buffer, instructionData, &offset)
	binary.PutKey32(buffer, programID, &offset)

	if offset != size {
		panic(fmt.Sprintf("serialized %d bytes into a buffer sized for %d", offset, size))
	}

	logrus.StandardLogger().WithFields(logrus.Fields{
		"type":     "sbpf/serializer",
		"accounts": len(accounts),
		"size":     size,
	}).Debug("serialized input parameters")

	regions := []*memory.Region{
		memory.NewWritableRegion(buffer, sbpf.MMInputStart),
	}
	return buffer, regions, metadata
}

// SerializedSize returns the exact number of bytes SerializeParameters writes
func SerializedSize(accounts []*solana.Account, instructionData []byte) int {
	size := 8 // account count
	for _, account := range accounts {
		size += SerializedAccountSize(len(account.Data))
	}
	size += 8 // instruction data length
	size += len(instructionData)
	size += solana.PublicKeySize // program id
	return size
}

// SerializedAccountSize returns the bytes occupied by an account holding
// dataLen bytes of data, including its growth room and rent epoch.
func SerializedAccountSize(dataLen int) int {
	return accountHeaderSize +
		dataLen +
		MaxPermittedDataIncrease +
		alignPad(dataLen) +
		8 // rent epoch
}

// alignPad is the padding that brings dataLen up to BPFAlignOfU128
func alignPad(dataLen int) int {
	return (BPFAlignOfU128 - dataLen%BPFAlignOfU128) % BPFAlignOfU128
}

func vmAddr(offset int) uint64 {
	return sbpf.MMInputStart + uint64(offset)
}
