package staking

import (
	"fmt"
	"math/big"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
)

const (
	disclaimerDomainName    = "BlockBet"
	disclaimerDomainVersion = "1"
)

const DisclaimerTerms = `By signing this message, I acknowledge and agree to the following terms:

1. RISK ACKNOWLEDGMENT: I understand that participating in BlockBet betting rooms involves financial risk, and I may lose my entire stake.

2. NO GUARANTEES: I acknowledge that winning is based on chance and there are no guaranteed returns on my stake.

3. VOLUNTARY PARTICIPATION: I am participating voluntarily and am not under any coercion or undue influence.

4. FUNDS OWNERSHIP: I confirm that the funds I am staking belong to me and are not proceeds of illegal activities.

5. AGE & JURISDICTION: I confirm that I am of legal age and betting is legal in my jurisdiction.

6. IRREVERSIBLE: I understand that once I join the room, my stake cannot be withdrawn until room settlement.

7. SMART CONTRACT RISK: I understand the risks associated with blockchain technology and smart contracts.`

// Disclaimer is the attestation a participant signs before staking. The
// signature is only ever handed back to the caller.
type Disclaimer struct {
	Participant common.Address
	RoomID      uint64
	StakeAmount string
	Timestamp   int64
	Terms       string
}

func NewDisclaimer(participant common.Address, roomID uint64, stakeAmount string, now time.Time) Disclaimer {
	return Disclaimer{
		Participant: participant,
		RoomID:      roomID,
		StakeAmount: stakeAmount,
		Timestamp:   now.Unix(),
		Terms:       DisclaimerTerms,
	}
}

// TypedData renders d as EIP-712 data bound to the room contract on chainID.
func (d Disclaimer) TypedData(chainID int64, verifyingContract common.Address) apitypes.TypedData {
	return apitypes.TypedData{
		Types: apitypes.Types{
			"EIP712Domain": {
				{Name: "name", Type: "string"},
				{Name: "version", Type: "string"},
				{Name: "chainId", Type: "uint256"},
				{Name: "verifyingContract", Type: "address"},
			},
			"Disclaimer": {
				{Name: "participant", Type: "address"},
				{Name: "roomId", Type: "uint256"},
				{Name: "stakeAmount", Type: "string"},
				{Name: "timestamp", Type: "uint256"},
				{Name: "terms", Type: "string"},
			},
		},
		PrimaryType: "Disclaimer",
		Domain: apitypes.TypedDataDomain{
			Name:              disclaimerDomainName,
			Version:           disclaimerDomainVersion,
			ChainId:           (*math.HexOrDecimal256)(big.NewInt(chainID)),
			VerifyingContract: verifyingContract.Hex(),
		},
		Message: apitypes.TypedDataMessage{
			"participant": d.Participant.Hex(),
			"roomId":      strconv.FormatUint(d.RoomID, 10),
			"stakeAmount": d.StakeAmount,
			"timestamp":   strconv.FormatInt(d.Timestamp, 10),
			"terms":       d.Terms,
		},
	}
}

// RecoverSigner returns the address that produced sig over typedData.
// sig may carry a recovery id of 0/1 or 27/28.
func RecoverSigner(typedData apitypes.TypedData, sig []byte) (common.Address, error) {
	if len(sig) != crypto.SignatureLength {
		return common.Address{}, fmt.Errorf("signature length %d", len(sig))
	}
	hash, _, err := apitypes.TypedDataAndHash(typedData)
	if err != nil {
		return common.Address{}, fmt.Errorf("hash typed data: %w", err)
	}
	normalized := make([]byte, len(sig))
	copy(normalized, sig)
	if normalized[crypto.RecoveryIDOffset] >= 27 {
		normalized[crypto.RecoveryIDOffset] -= 27
	}
	pub, err := crypto.SigToPub(hash, normalized)
	if err != nil {
		return common.Address{}, fmt.Errorf("recover signer: %w", err)
	}
	return crypto.PubkeyToAddress(*pub), nil
}
