// Package store provides the durable record types and the storage collaborator
// boundary for simulation instances. The record types are pure data with no
// dependency on game/ or game/room/ so any backend can persist them.
package store

import "context"

// LedgerRecord is one role's durable state inside an instance record.
type LedgerRecord struct {
	Role           string  `json:"role"`
	Inventory      int     `json:"inventory"`
	Backorder      int     `json:"backorder"`
	CumulativeCost float64 `json:"cumulative_cost"`
	OrderSlots     []int   `json:"order_slots"`
	ShipmentSlots  []int   `json:"shipment_slots"`
}

// InstanceRecord is the one durable row per SimulationInstance.
type InstanceRecord struct {
	ID      string
	RoomID  string
	Week    int
	Status  string
	Ledgers []LedgerRecord
}

// TurnRecord is one durable turn-history entry, kept for audit and replay.
type TurnRecord struct {
	InstanceID       string
	Role             string
	Week             int
	OrderReceived    int
	ShipmentReceived int
	ShipmentSent     int
	OrderPlaced      int
	Inventory        int
	Backorder        int
	WeekCost         float64
	CumulativeCost   float64
}

// Store is the storage collaborator consumed by the room synchronizer: upsert
// and read instances by ID, append turn-history entries. Nothing more exotic
// is required; no transaction spans multiple instances.
type Store interface {
	UpsertInstance(ctx context.Context, rec InstanceRecord) error
	GetInstance(ctx context.Context, id string) (InstanceRecord, error)
	AppendTurns(ctx context.Context, turns []TurnRecord) error
	TurnsForInstance(ctx context.Context, instanceID string) ([]TurnRecord, error)
	Close() error
}
