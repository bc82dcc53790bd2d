package workflow

import (
	"context"
	"fmt"
	"time"

	addressdomain "ipam-control-plane/internal/address/domain"
	"ipam-control-plane/internal/allocation"
	directorydomain "ipam-control-plane/internal/directory/domain"
	historydomain "ipam-control-plane/internal/history/domain"
	requestdomain "ipam-control-plane/internal/iprequest/domain"
	"ipam-control-plane/internal/notify"
	"ipam-control-plane/internal/platform/apperr"
)

// Approve applies a pending request's effect on the inventory and marks it approved, all in one
// transaction. It writes two entries: the inventory effect (assigned, renewed or cancelled) and
// approved with the request snapshot. Any failure leaves the request, the address and the trail
// unchanged.
func (s *Service) Approve(ctx context.Context, requestID string, actor Actor) (view *RequestView, err error) {
	ctx, end := s.track(ctx, "approve", requestAttrs(requestID)...)
	defer func() { end(&err) }()

	now := s.clock()
	err = s.store.RunInTx(ctx, func(tx Tx) error {
		req, err := s.pendingRequest(ctx, tx, requestID)
		if err != nil {
			return err
		}
		cwr, err := tx.Directory().FindCompanyWithRoom(ctx, req.CompanyID)
		if err != nil {
			return fmt.Errorf("find company %s: %w", req.CompanyID, err)
		}
		if cwr == nil {
			return apperr.NotFound("company %s not found", req.CompanyID)
		}
		if cwr.Room == nil {
			return apperr.BadRequest("company %s has no room assigned", cwr.Company.Name)
		}

		var addr *addressdomain.Address
		switch req.Type {
		case requestdomain.TypeNew:
			addr, err = s.approveNew(ctx, tx, req, cwr, actor, now)
		case requestdomain.TypeRenewal:
			addr, err = s.approveRenewal(ctx, tx, req, actor, now)
		case requestdomain.TypeCancellation:
			addr, err = s.approveCancellation(ctx, tx, req, actor, now)
		default:
			err = apperr.BadRequest("unknown request type %q", req.Type)
		}
		if err != nil {
			return classify(err, req)
		}

		if err := req.Approve(actor.UserID, now); err != nil {
			return classify(err, req)
		}
		if err := tx.Requests().UpdateDecision(ctx, req); err != nil {
			return classify(err, req)
		}
		if err := s.appendEntry(ctx, tx, historydomain.ActionApproved, addr.ID, req, actor.UserID, now, notesFor(req)); err != nil {
			return err
		}
		view = &RequestView{Request: req, Company: cwr.Company, Room: cwr.Room, Address: addr}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publish(notify.RequestApproved, view, actor.UserID, now)
	return view, nil
}

// approveNew resolves an address in the company's room and lends it to the company.
func (s *Service) approveNew(ctx context.Context, tx Tx, req *requestdomain.Request,
	cwr *directorydomain.CompanyWithRoom, actor Actor, now time.Time) (*addressdomain.Address, error) {
	candidate, err := s.resolver.Resolve(ctx, tx.Addresses(), allocation.Input{
		Type:      req.Type,
		RoomID:    cwr.RoomID(),
		AddressID: req.AddressID,
	})
	if err != nil {
		return nil, err
	}
	assigned, err := tx.Addresses().Assign(ctx, candidate, addressdomain.Assignment{
		CompanyID:  req.CompanyID,
		MACAddress: req.MACAddress,
		HolderName: req.HolderName,
		Temporary:  req.Temporary,
		ExpiresAt:  req.RequestedExpiry,
	}, now)
	if err != nil {
		return nil, err
	}
	id := assigned.ID
	req.AddressID = &id
	return assigned, s.appendAddressEntry(ctx, tx, historydomain.ActionAssigned, assigned, actor, now, nil)
}

// approveRenewal moves the expiry of an address the company still holds.
func (s *Service) approveRenewal(ctx context.Context, tx Tx, req *requestdomain.Request,
	actor Actor, now time.Time) (*addressdomain.Address, error) {
	current, err := s.heldAddress(ctx, tx, req)
	if err != nil {
		return nil, err
	}
	renewed, err := tx.Addresses().Renew(ctx, current, req.RequestedExpiry, now)
	if err != nil {
		return nil, err
	}
	return renewed, s.appendAddressEntry(ctx, tx, historydomain.ActionRenewed, renewed, actor, now, nil)
}

// approveCancellation returns an address the company holds to the pool. The entry snapshots the
// assignment as it was before release.
func (s *Service) approveCancellation(ctx context.Context, tx Tx, req *requestdomain.Request,
	actor Actor, now time.Time) (*addressdomain.Address, error) {
	current, err := s.heldAddress(ctx, tx, req)
	if err != nil {
		return nil, err
	}
	if current.Status != addressdomain.StatusInUse {
		return nil, apperr.Conflict("address %s is already available", current.IP)
	}
	released, err := tx.Addresses().Release(ctx, current, now)
	if err != nil {
		return nil, err
	}
	return released, s.appendAddressEntry(ctx, tx, historydomain.ActionCancelled, current, actor, now, nil)
}

// heldAddress loads and locks the request's address, which must still belong to the requester.
func (s *Service) heldAddress(ctx context.Context, tx Tx, req *requestdomain.Request) (*addressdomain.Address, error) {
	if req.AddressID == nil {
		return nil, apperr.BadRequest("%s request %s has no address", req.Type, req.ID)
	}
	addr, err := tx.Addresses().GetByIDForUpdate(ctx, *req.AddressID)
	if err != nil {
		return nil, fmt.Errorf("get address %s: %w", *req.AddressID, err)
	}
	if addr == nil {
		return nil, apperr.NotFound("address %s not found", *req.AddressID)
	}
	if !addr.BelongsTo(req.CompanyID) {
		return nil, apperr.Unauthorized("address %s no longer belongs to the requesting company", addr.IP)
	}
	return addr, nil
}

// appendAddressEntry records an inventory effect with the address fields as snapshot.
func (s *Service) appendAddressEntry(ctx context.Context, tx Tx, action historydomain.Action,
	a *addressdomain.Address, actor Actor, at time.Time, notes *string) error {
	return tx.History().Append(ctx, &historydomain.Entry{
		ID:          s.newID(),
		AddressID:   a.ID,
		CompanyID:   a.CompanyID,
		Action:      action,
		PerformedBy: performer(actor),
		MACAddress:  a.MACAddress,
		HolderName:  a.HolderName,
		Notes:       notes,
		ExpiresAt:   a.ExpiresAt,
		CreatedAt:   at,
	})
}

func performer(actor Actor) string {
	if actor.UserID == "" {
		return SystemActor
	}
	return actor.UserID
}
