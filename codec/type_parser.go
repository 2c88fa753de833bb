// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import "fmt"

// Typed is implemented by every value that travels on the wire behind a one
// byte type tag.
type Typed interface {
	GetTypeID() uint8
}

// Decoder unmarshals the body that follows a type tag.
type Decoder[T Typed] func(*Packer) (T, error)

// TypeParser maps type IDs to decoders.
type TypeParser[T Typed] struct {
	decoders map[uint8]Decoder[T]
}

func NewTypeParser[T Typed]() *TypeParser[T] {
	return &TypeParser[T]{decoders: map[uint8]Decoder[T]{}}
}

// Register associates [instance]'s type ID with [f]. Registering the same ID
// twice is an error.
func (p *TypeParser[T]) Register(instance T, f Decoder[T]) error {
	typeID := instance.GetTypeID()
	if _, ok := p.decoders[typeID]; ok {
		return fmt.Errorf("%w: type id %d", ErrDuplicateItem, typeID)
	}
	p.decoders[typeID] = f
	return nil
}

func (p *TypeParser[T]) LookupIndex(typeID uint8) (Decoder[T], bool) {
	f, ok := p.decoders[typeID]
	return f, ok
}

// Unmarshal reads a type tag followed by the matching body.
func (p *TypeParser[T]) Unmarshal(r *Packer) (T, error) {
	var empty T
	typeID := r.UnpackByte()
	if err := r.Err(); err != nil {
		return empty, err
	}
	f, ok := p.decoders[typeID]
	if !ok {
		return empty, fmt.Errorf("%w: type id %d", ErrUnknownType, typeID)
	}
	v, err := f(r)
	if err != nil {
		return empty, err
	}
	return v, r.Err()
}
