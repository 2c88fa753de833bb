// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cli

import (
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/utils/hashing"

	"github.com/ava-labs/kittyvm/auth"
	"github.com/ava-labs/kittyvm/codec"
	"github.com/ava-labs/kittyvm/utils"
)

const (
	defaultPrefix  = 0x0
	keyPrefix      = 0x1
	endpointPrefix = 0x2

	defaultKeyKey      = "key"
	defaultEndpointKey = "endpoint"
)

func (h *Handler) StoreDefault(key string, value []byte) error {
	k := make([]byte, 1+len(key))
	k[0] = defaultPrefix
	copy(k[1:], []byte(key))
	return h.db.Put(k, value)
}

func (h *Handler) GetDefault(key string) ([]byte, error) {
	k := make([]byte, 1+len(key))
	k[0] = defaultPrefix
	copy(k[1:], []byte(key))
	v, err := h.db.Get(k)
	if errors.Is(err, database.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

func keyKey(addr codec.Address) []byte {
	k := make([]byte, 1+codec.AddressLen)
	k[0] = keyPrefix
	copy(k[1:], addr[:])
	return k
}

func loadKey(addr codec.Address, b []byte) (*auth.PrivateKey, error) {
	switch addr[0] {
	case auth.ED25519ID:
		return auth.LoadPrivateKey(auth.ED25519Key, b)
	default:
		return nil, auth.ErrInvalidKeyType
	}
}

func (h *Handler) StoreKey(priv *auth.PrivateKey) error {
	k := keyKey(priv.Address)
	has, err := h.db.Has(k)
	if err != nil {
		return err
	}
	if has {
		return ErrDuplicate
	}
	return h.db.Put(k, priv.Bytes)
}

// GetKey returns nil if no key is stored for [addr].
func (h *Handler) GetKey(addr codec.Address) (*auth.PrivateKey, error) {
	v, err := h.db.Get(keyKey(addr))
	if errors.Is(err, database.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return loadKey(addr, v)
}

func (h *Handler) GetKeys() ([]*auth.PrivateKey, error) {
	iter := h.db.NewIteratorWithPrefix([]byte{keyPrefix})
	defer iter.Release()

	privateKeys := []*auth.PrivateKey{}
	for iter.Next() {
		// It is safe to use these bytes directly because the database copies the
		// iterator value for us.
		addr := codec.Address(iter.Key()[1:])
		priv, err := loadKey(addr, iter.Value())
		if err != nil {
			return nil, err
		}
		privateKeys = append(privateKeys, priv)
	}
	return privateKeys, iter.Error()
}

func (h *Handler) StoreDefaultKey(addr codec.Address) error {
	return h.StoreDefault(defaultKeyKey, addr[:])
}

func (h *Handler) GetDefaultKey(log bool) (*auth.PrivateKey, error) {
	v, err := h.GetDefault(defaultKeyKey)
	if err != nil {
		return nil, err
	}
	if len(v) != codec.AddressLen {
		return nil, ErrNoKeys
	}
	priv, err := h.GetKey(codec.Address(v))
	if err != nil {
		return nil, err
	}
	if priv == nil {
		return nil, ErrNoKeys
	}
	if log {
		utils.Outf("{{yellow}}address:{{/}} %s\n", h.Address(priv.Address))
	}
	return priv, nil
}

func endpointKey(uri string) []byte {
	k := make([]byte, 1+hashing.HashLen)
	k[0] = endpointPrefix
	copy(k[1:], hashing.ComputeHash256([]byte(uri)))
	return k
}

func (h *Handler) StoreEndpoint(uri string) error {
	k := endpointKey(uri)
	has, err := h.db.Has(k)
	if err != nil {
		return err
	}
	if has {
		return ErrDuplicate
	}
	return h.db.Put(k, []byte(uri))
}

func (h *Handler) GetEndpoints() ([]string, error) {
	iter := h.db.NewIteratorWithPrefix([]byte{endpointPrefix})
	defer iter.Release()

	uris := []string{}
	for iter.Next() {
		uris = append(uris, string(iter.Value()))
	}
	return uris, iter.Error()
}

// DeleteEndpoints forgets every stored endpoint and the default one.
func (h *Handler) DeleteEndpoints() ([]string, error) {
	uris, err := h.GetEndpoints()
	if err != nil {
		return nil, err
	}
	batch := h.db.NewBatch()
	for _, uri := range uris {
		if err := batch.Delete(endpointKey(uri)); err != nil {
			return nil, err
		}
	}
	if err := batch.Write(); err != nil {
		return nil, err
	}
	return uris, h.StoreDefault(defaultEndpointKey, nil)
}

func (h *Handler) StoreDefaultEndpoint(uri string) error {
	return h.StoreDefault(defaultEndpointKey, []byte(uri))
}

func (h *Handler) GetDefaultEndpoint(log bool) (string, error) {
	v, err := h.GetDefault(defaultEndpointKey)
	if err != nil {
		return "", err
	}
	if len(v) == 0 {
		return "", ErrNoEndpoints
	}
	uri := string(v)
	if log {
		utils.Outf("{{yellow}}uri:{{/}} %s\n", uri)
	}
	return uri, nil
}

// Address renders [addr] with the wallet's HRP.
func (h *Handler) Address(addr codec.Address) string {
	return codec.MustAddressBech32(h.hrp, addr)
}

func (h *Handler) CloseDatabase() error {
	if h.db == nil {
		return nil
	}
	if err := h.db.Close(); err != nil {
		return fmt.Errorf("unable to close database: %w", err)
	}
	// Allow DB to be closed multiple times
	h.db = nil
	return nil
}
