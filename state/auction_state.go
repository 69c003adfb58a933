// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"encoding/binary"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/meterio/meter-auction/fees"
	"github.com/pkg/errors"
)

const (
	// VersionV1 is the version byte of AuctionV1 records.
	VersionV1 = uint8(1)

	// V1Len is the size of the v1 payload. Bytes past the canceled flag are
	// reserved and always written as zero.
	V1Len = 289

	// LatestLen is the size of a record of the latest version, version byte included.
	LatestLen = 1 + V1Len
)

// v1 payload offsets
const (
	offIsInitialized  = 0
	offTokenProgramID = 1
	offToken          = 33
	offPool           = 65
	offFeeAccount     = 97
	offFees           = 129
	offNonce          = 145
	offStartTimestamp = 146
	offEndTimestamp   = 154
	offCanceled       = 162
	v1UsedLen         = 163
)

var (
	ErrInvalidAccountData  = errors.New("invalid account data")
	ErrAccountDataTooSmall = errors.New("account data too small for auction record")
)

// AuctionState is the accessor surface shared by every record version.
type AuctionState interface {
	Initialized() bool
	GetTokenProgramID() solana.PublicKey
	GetTokenAccount() solana.PublicKey
	GetPool() solana.PublicKey
	GetFeeAccount() solana.PublicKey
	GetFees() fees.FeeSchedule
	GetNonce() uint8
	GetStartTimestamp() int64
	GetEndTimestamp() int64
	GetCanceled() uint8
}

// AuctionVersion is a record tagged by its version byte. New versions are
// added by implementing this interface and extending Unpack.
type AuctionVersion interface {
	AuctionState
	Version() uint8
	pack(dst []byte)
	clone() AuctionVersion
}

// AuctionV1 is the first, and latest, auction record layout.
type AuctionV1 struct {
	IsInitialized  bool
	TokenProgramID solana.PublicKey
	Token          solana.PublicKey // auctioneer token account
	Pool           solana.PublicKey // escrow for bids
	FeeAccount     solana.PublicKey // receives withdrawal fees
	Fees           fees.FeeSchedule
	Nonce          uint8
	StartTimestamp int64
	EndTimestamp   int64
	Canceled       uint8
}

func (a *AuctionV1) Initialized() bool                   { return a.IsInitialized }
func (a *AuctionV1) GetTokenProgramID() solana.PublicKey { return a.TokenProgramID }
func (a *AuctionV1) GetTokenAccount() solana.PublicKey   { return a.Token }
func (a *AuctionV1) GetPool() solana.PublicKey           { return a.Pool }
func (a *AuctionV1) GetFeeAccount() solana.PublicKey     { return a.FeeAccount }
func (a *AuctionV1) GetFees() fees.FeeSchedule           { return a.Fees }
func (a *AuctionV1) GetNonce() uint8                     { return a.Nonce }
func (a *AuctionV1) GetStartTimestamp() int64            { return a.StartTimestamp }
func (a *AuctionV1) GetEndTimestamp() int64              { return a.EndTimestamp }
func (a *AuctionV1) GetCanceled() uint8                  { return a.Canceled }
func (a *AuctionV1) Version() uint8                      { return VersionV1 }

func (a *AuctionV1) clone() AuctionVersion {
	cp := *a
	return &cp
}

func (a *AuctionV1) String() string {
	return fmt.Sprintf("AuctionV1(initialized=%v, tokenProgram=%v, token=%v, pool=%v, feeAccount=%v, fees=%v, nonce=%v, start=%v, end=%v, canceled=%v)",
		a.IsInitialized, a.TokenProgramID, a.Token, a.Pool, a.FeeAccount, a.Fees, a.Nonce, a.StartTimestamp, a.EndTimestamp, a.Canceled)
}

// pack writes the payload into dst, which holds at least V1Len bytes.
func (a *AuctionV1) pack(dst []byte) {
	dst = dst[:V1Len]
	if a.IsInitialized {
		dst[offIsInitialized] = 1
	} else {
		dst[offIsInitialized] = 0
	}
	copy(dst[offTokenProgramID:offToken], a.TokenProgramID[:])
	copy(dst[offToken:offPool], a.Token[:])
	copy(dst[offPool:offFeeAccount], a.Pool[:])
	copy(dst[offFeeAccount:offFees], a.FeeAccount[:])
	_ = a.Fees.Pack(dst[offFees:offNonce])
	dst[offNonce] = a.Nonce
	binary.LittleEndian.PutUint64(dst[offStartTimestamp:offEndTimestamp], uint64(a.StartTimestamp))
	binary.LittleEndian.PutUint64(dst[offEndTimestamp:offCanceled], uint64(a.EndTimestamp))
	dst[offCanceled] = a.Canceled
	for i := v1UsedLen; i < V1Len; i++ {
		dst[i] = 0
	}
}

func unpackV1(src []byte) (*AuctionV1, error) {
	if len(src) < V1Len {
		return nil, errors.WithMessage(ErrInvalidAccountData, fmt.Sprintf("v1 payload needs %d bytes, got %d", V1Len, len(src)))
	}
	a := &AuctionV1{}
	switch src[offIsInitialized] {
	case 0:
		a.IsInitialized = false
	case 1:
		a.IsInitialized = true
	default:
		return nil, errors.WithMessage(ErrInvalidAccountData, fmt.Sprintf("is_initialized byte %d", src[offIsInitialized]))
	}
	copy(a.TokenProgramID[:], src[offTokenProgramID:offToken])
	copy(a.Token[:], src[offToken:offPool])
	copy(a.Pool[:], src[offPool:offFeeAccount])
	copy(a.FeeAccount[:], src[offFeeAccount:offFees])
	fs, err := fees.Unpack(src[offFees:offNonce])
	if err != nil {
		return nil, errors.WithMessage(ErrInvalidAccountData, err.Error())
	}
	a.Fees = fs
	a.Nonce = src[offNonce]
	a.StartTimestamp = int64(binary.LittleEndian.Uint64(src[offStartTimestamp:offEndTimestamp]))
	a.EndTimestamp = int64(binary.LittleEndian.Uint64(src[offEndTimestamp:offCanceled]))
	a.Canceled = src[offCanceled]
	return a, nil
}

// Pack writes the version byte followed by the version payload into dst.
func Pack(v AuctionVersion, dst []byte) error {
	if len(dst) < LatestLen {
		return errors.WithMessage(ErrAccountDataTooSmall, fmt.Sprintf("need %d bytes, got %d", LatestLen, len(dst)))
	}
	dst[0] = v.Version()
	v.pack(dst[1:])
	return nil
}

// Unpack decodes a record according to its version byte.
func Unpack(src []byte) (AuctionVersion, error) {
	if len(src) == 0 {
		return nil, errors.WithMessage(ErrInvalidAccountData, "empty account data")
	}
	switch version := src[0]; version {
	case VersionV1:
		a, err := unpackV1(src[1:])
		if err != nil {
			return nil, err
		}
		return a, nil
	default:
		return nil, errors.WithMessage(ErrInvalidAccountData, fmt.Sprintf("unknown auction version %d", version))
	}
}

// IsInitialized probes src for an initialized record. Data that fails to
// decode counts as not initialized.
func IsInitialized(src []byte) bool {
	a, err := Unpack(src)
	if err != nil {
		return false
	}
	return a.Initialized()
}
