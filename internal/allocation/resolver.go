// Package allocation picks or validates the address an approval will act on.
// It reads through the caller's transaction and writes nothing.
package allocation

import (
	"context"
	"fmt"

	addressdomain "ipam-control-plane/internal/address/domain"
	requestdomain "ipam-control-plane/internal/iprequest/domain"
	"ipam-control-plane/internal/platform/apperr"
)

// AddressReader is the subset of the address repository the resolver needs.
type AddressReader interface {
	GetByIDForUpdate(ctx context.Context, id string) (*addressdomain.Address, error)
	FindAvailableInRoom(ctx context.Context, roomID string) (*addressdomain.Address, error)
}

// Input describes the approval being resolved.
type Input struct {
	Type RequestType
	// RoomID is the requesting company's room.
	RoomID string
	// AddressID is the explicit target, or nil to pick any free address in the room.
	AddressID *string
}

// RequestType aliases the request type so callers need not import the request domain.
type RequestType = requestdomain.Type

// ErrNoAddressAvailable is the NotFound error raised when a room has no free address.
var ErrNoAddressAvailable = apperr.NotFound("no address available")

// Resolver holds no state; the zero value is ready to use.
type Resolver struct{}

// NewResolver returns a Resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// Resolve returns the address the approval should act on.
//
// Without an explicit address the first available address in the room is chosen. With one, the
// address must exist (NotFound), must be available for new requests (Conflict) and must sit in
// the requesting company's room (BadRequest).
func (r *Resolver) Resolve(ctx context.Context, addrs AddressReader, in Input) (*addressdomain.Address, error) {
	if in.RoomID == "" {
		return nil, apperr.BadRequest("company has no room assigned")
	}
	if in.AddressID == nil || *in.AddressID == "" {
		a, err := addrs.FindAvailableInRoom(ctx, in.RoomID)
		if err != nil {
			return nil, fmt.Errorf("find available address in room %s: %w", in.RoomID, err)
		}
		if a == nil {
			return nil, ErrNoAddressAvailable
		}
		return a, nil
	}

	id := *in.AddressID
	a, err := addrs.GetByIDForUpdate(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get address %s: %w", id, err)
	}
	if a == nil {
		return nil, apperr.NotFound("address %s not found", id)
	}
	if in.Type == requestdomain.TypeNew && !a.IsAvailable() {
		return nil, apperr.Conflict("address %s is already in use", a.IP)
	}
	if a.RoomID != in.RoomID {
		return nil, apperr.BadRequest("address %s does not belong to the company's room", a.IP)
	}
	return a, nil
}
