// Copyright 2026 Zenith Network
// This file is part of the gzen library.
//
// The gzen library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The gzen library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the gzen library. If not, see <http://www.gnu.org/licenses/>.

package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/zen-network/gzen/crypto"
	"github.com/zen-network/gzen/params"
)

// Package-level sentinel errors for transaction construction and validation.
var (
	ErrInsufficientBalance = errors.New("amount exceeds balance")
	ErrInvalidSignature    = errors.New("invalid signature")
	ErrInvalidOutput       = errors.New("invalid transaction output values")
	ErrInvalidReward       = errors.New("invalid mining reward")
)

// TxSigner is the wallet surface transactions need: identity plus the ability
// to sign an output map. Implemented by wallet.Wallet.
type TxSigner interface {
	Address() string
	Balance() uint64
	PublicKeyHex() string
	Sign(data interface{}) (*crypto.Signature, error)
}

// Input identifies the author of a transaction. It is either a SignedInput
// carrying the sender's key material or the RewardInput sentinel marking a
// mining reward.
type Input interface {
	inputMarker()
}

// SignedInput authorizes a transfer. Amount is the sender's balance at
// signing time; the signature covers the canonical serialization of the
// transaction's output map.
type SignedInput struct {
	Timestamp int64             `json:"timestamp"`
	Amount    uint64            `json:"amount"`
	Address   string            `json:"address"`
	PublicKey string            `json:"public_key"`
	Signature *crypto.Signature `json:"signature"`
}

func (*SignedInput) inputMarker() {}

// RewardInput is the well-known sentinel input of mining reward transactions.
type RewardInput struct{}

func (RewardInput) inputMarker() {}

func (RewardInput) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{"address": params.MiningRewardInputAddress})
}

// Transaction documents an exchange of currency from one sender to one or
// more recipients. The output map always carries the sender's remaining
// balance as a self-entry, so outputs conserve the input amount.
type Transaction struct {
	ID     string
	Output map[string]uint64
	Input  Input
}

type txJSON struct {
	ID     string            `json:"id"`
	Output map[string]uint64 `json:"output"`
	Input  json.RawMessage   `json:"input"`
}

// NewID returns a fresh 8-character identifier, as used for transaction ids
// and wallet addresses.
func NewID() string {
	return uuid.NewString()[:8]
}

// NewTransaction creates a signed transfer of amount from the sender to the
// recipient. Fails with ErrInsufficientBalance if the sender's current
// balance does not cover the amount.
func NewTransaction(sender TxSigner, recipient string, amount uint64) (*Transaction, error) {
	balance := sender.Balance()
	if amount > balance {
		return nil, fmt.Errorf("%w: have %d, want to send %d", ErrInsufficientBalance, balance, amount)
	}
	output := map[string]uint64{
		recipient:        amount,
		sender.Address(): balance - amount,
	}
	input, err := newSignedInput(sender, output)
	if err != nil {
		return nil, err
	}
	return &Transaction{ID: NewID(), Output: output, Input: input}, nil
}

// NewRewardTransaction creates the transaction paying the block reward to the
// given miner.
func NewRewardTransaction(miner TxSigner) *Transaction {
	return &Transaction{
		ID:     NewID(),
		Output: map[string]uint64{miner.Address(): params.MiningReward},
		Input:  RewardInput{},
	}
}

// newSignedInput signs output on behalf of the sender, stamping the sender's
// current balance and the signing time.
func newSignedInput(sender TxSigner, output map[string]uint64) (*SignedInput, error) {
	sig, err := sender.Sign(output)
	if err != nil {
		return nil, err
	}
	return &SignedInput{
		Timestamp: time.Now().UnixNano(),
		Amount:    sender.Balance(),
		Address:   sender.Address(),
		PublicKey: sender.PublicKeyHex(),
		Signature: sig,
	}, nil
}

// Update folds another transfer into a pending transaction. Only the original
// sender may update, and only up to the remaining change entry; the output is
// re-signed with a fresh input afterwards.
func (tx *Transaction) Update(sender TxSigner, recipient string, amount uint64) error {
	change := tx.Output[sender.Address()]
	if amount > change {
		return fmt.Errorf("%w: %d remaining, want to send %d", ErrInsufficientBalance, change, amount)
	}
	tx.Output[recipient] += amount
	// Read the change entry again: a self-addressed update must not shrink
	// the output total.
	tx.Output[sender.Address()] -= amount

	input, err := newSignedInput(sender, tx.Output)
	if err != nil {
		return err
	}
	tx.Input = input
	return nil
}

// IsReward reports whether tx is a mining reward transaction.
func (tx *Transaction) IsReward() bool {
	_, ok := tx.Input.(RewardInput)
	return ok
}

// SenderAddress returns the authoring address; the reward sentinel address
// for reward transactions.
func (tx *Transaction) SenderAddress() string {
	if in, ok := tx.Input.(*SignedInput); ok {
		return in.Address
	}
	return params.MiningRewardInputAddress
}

// ValidateTransaction checks a single transaction in isolation: reward shape
// for reward transactions, conservation and signature for signed ones.
func ValidateTransaction(tx *Transaction) error {
	switch in := tx.Input.(type) {
	case RewardInput:
		if len(tx.Output) != 1 {
			return fmt.Errorf("%w: reward must pay exactly one recipient", ErrInvalidReward)
		}
		for _, amount := range tx.Output {
			if amount != params.MiningReward {
				return fmt.Errorf("%w: pays %d, expected %d", ErrInvalidReward, amount, params.MiningReward)
			}
		}
		return nil

	case *SignedInput:
		var total uint64
		for _, amount := range tx.Output {
			total += amount
		}
		if total != in.Amount {
			return fmt.Errorf("%w: outputs total %d, input amount %d", ErrInvalidOutput, total, in.Amount)
		}
		if !crypto.VerifySignature(in.PublicKey, tx.Output, in.Signature) {
			return fmt.Errorf("%w: transaction %s", ErrInvalidSignature, tx.ID)
		}
		return nil

	default:
		return fmt.Errorf("unknown transaction input type %T", tx.Input)
	}
}

// MarshalJSON renders the wire form, dispatching on the input variant.
func (tx *Transaction) MarshalJSON() ([]byte, error) {
	input, err := json.Marshal(tx.Input)
	if err != nil {
		return nil, err
	}
	return json.Marshal(&txJSON{ID: tx.ID, Output: tx.Output, Input: input})
}

// UnmarshalJSON parses the wire form. An input whose address is the reward
// sentinel and which carries no signature decodes as a RewardInput.
func (tx *Transaction) UnmarshalJSON(input []byte) error {
	var dec txJSON
	if err := json.Unmarshal(input, &dec); err != nil {
		return err
	}
	in, err := unmarshalInput(dec.Input)
	if err != nil {
		return err
	}
	tx.ID, tx.Output, tx.Input = dec.ID, dec.Output, in
	return nil
}

func unmarshalInput(raw json.RawMessage) (Input, error) {
	if len(raw) == 0 {
		return nil, errors.New("transaction input is missing")
	}
	var probe SignedInput
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, err
	}
	if probe.Address == params.MiningRewardInputAddress && probe.Signature == nil {
		return RewardInput{}, nil
	}
	return &probe, nil
}
