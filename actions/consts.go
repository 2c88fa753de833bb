// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

// Note: Registry will error during initialization if a duplicate ID is assigned. We explicitly assign IDs to avoid accidental remapping.
const (
	CreateKittyID   uint8 = 0
	TransferKittyID uint8 = 1
	BreedKittyID    uint8 = 2
	BuyKittyID      uint8 = 3
	SellKittyID     uint8 = 4
)

// Outputs share the ID of the action that emits them. Breeding emits
// [KittyCreated].
const (
	KittyCreatedID     = CreateKittyID
	KittyTransferredID = TransferKittyID
	KittyBoughtID      = BuyKittyID
	KittySoldID        = SellKittyID
)
