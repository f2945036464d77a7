// Package wallet provides a key-backed signer that behaves like a browser
// wallet: every signature and transaction goes through a confirmation prompt
// first, and a declined prompt surfaces as domain.ErrUserRejected.
package wallet

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"betting-service/domain"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
)

type KeyWallet struct {
	key       *ecdsa.PrivateKey
	address   common.Address
	chainID   *big.Int
	confirmer Confirmer
	session   *Session
}

// NewKeyWallet loads a hex private key and connects the session on chainID.
func NewKeyWallet(hexKey string, chainID int64, confirmer Confirmer, session *Session) (*KeyWallet, error) {
	hexKey = strings.TrimPrefix(strings.TrimSpace(hexKey), "0x")
	if hexKey == "" {
		return nil, domain.ErrNotConnected
	}
	key, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid private key", domain.ErrInvalidInput)
	}
	return NewWallet(key, chainID, confirmer, session), nil
}

func NewWallet(key *ecdsa.PrivateKey, chainID int64, confirmer Confirmer, session *Session) *KeyWallet {
	if session == nil {
		session = NewSession()
	}
	if confirmer == nil {
		confirmer = AutoConfirm
	}
	w := &KeyWallet{
		key:       key,
		address:   crypto.PubkeyToAddress(key.PublicKey),
		chainID:   big.NewInt(chainID),
		confirmer: confirmer,
		session:   session,
	}
	session.Connect(w.address, chainID)
	return w
}

func (w *KeyWallet) Address() common.Address { return w.address }

func (w *KeyWallet) Session() *Session { return w.session }

func (w *KeyWallet) State() State { return w.session.State() }

func (w *KeyWallet) confirm(ctx context.Context, p Prompt) error {
	ok, err := w.confirmer.Confirm(ctx, p)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%s: %w", p.Title, domain.ErrUserRejected)
	}
	return nil
}

// SignTypedData signs EIP-712 data after the user approves it. The returned
// signature uses a 27/28 recovery id, as wallets do.
func (w *KeyWallet) SignTypedData(ctx context.Context, title string, td apitypes.TypedData) ([]byte, error) {
	if err := w.confirm(ctx, Prompt{Kind: PromptSignature, Title: title, Detail: describeTypedData(td)}); err != nil {
		return nil, err
	}
	hash, _, err := apitypes.TypedDataAndHash(td)
	if err != nil {
		return nil, fmt.Errorf("hash typed data: %w", err)
	}
	sig, err := crypto.Sign(hash, w.key)
	if err != nil {
		return nil, fmt.Errorf("sign typed data: %w", err)
	}
	sig[crypto.RecoveryIDOffset] += 27
	return sig, nil
}

// TransactOpts returns signing options for one transaction after the user
// approves it.
func (w *KeyWallet) TransactOpts(ctx context.Context, p Prompt) (*bind.TransactOpts, error) {
	p.Kind = PromptTransaction
	if err := w.confirm(ctx, p); err != nil {
		return nil, err
	}
	opts, err := bind.NewKeyedTransactorWithChainID(w.key, w.chainID)
	if err != nil {
		return nil, err
	}
	opts.Context = ctx
	return opts, nil
}

func describeTypedData(td apitypes.TypedData) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s v%s)\n", td.PrimaryType, td.Domain.Name, td.Domain.Version)
	for _, field := range td.Types[td.PrimaryType] {
		fmt.Fprintf(&b, "  %s: %v\n", field.Name, td.Message[field.Name])
	}
	return b.String()
}
