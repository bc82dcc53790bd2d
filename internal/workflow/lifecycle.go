package workflow

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	addressdomain "ipam-control-plane/internal/address/domain"
	historydomain "ipam-control-plane/internal/history/domain"
	requestdomain "ipam-control-plane/internal/iprequest/domain"
	"ipam-control-plane/internal/notify"
	"ipam-control-plane/internal/platform/apperr"
)

// CreateInput is what a company submits.
type CreateInput struct {
	Type requestdomain.Type
	// AddressID is required for renewal and cancellation. For new requests it names a preferred
	// address in the company's room; its availability is checked at approval time.
	AddressID       *string
	Justification   string
	MACAddress      *string
	HolderName      *string
	Temporary       bool
	RequestedExpiry *time.Time
}

// normalize validates in and returns a copy with trimmed text, a canonical MAC and UTC expiry.
func (in CreateInput) normalize(now time.Time) (CreateInput, error) {
	out := in
	if !in.Type.Valid() {
		return out, apperr.BadRequest("unknown request type %q", in.Type)
	}
	out.AddressID = trimmed(in.AddressID)
	if in.Type.NeedsAddress() && out.AddressID == nil {
		return out, apperr.BadRequest("address_id is required for %s requests", in.Type)
	}
	out.Justification = strings.TrimSpace(in.Justification)
	out.HolderName = trimmed(in.HolderName)
	if mac := trimmed(in.MACAddress); mac != nil {
		hw, err := net.ParseMAC(*mac)
		if err != nil {
			return out, apperr.BadRequest("invalid mac address %q", *mac)
		}
		canonical := hw.String()
		out.MACAddress = &canonical
	} else {
		out.MACAddress = nil
	}
	if in.RequestedExpiry != nil {
		exp := in.RequestedExpiry.UTC().Truncate(time.Microsecond)
		if !exp.After(now) {
			return out, apperr.BadRequest("requested expiry must be in the future")
		}
		out.RequestedExpiry = &exp
	}
	if in.Temporary && out.RequestedExpiry == nil {
		return out, apperr.BadRequest("temporary requests need a requested expiry")
	}
	if in.Type == requestdomain.TypeRenewal && out.RequestedExpiry == nil {
		return out, apperr.BadRequest("renewal requests need a requested expiry")
	}
	return out, nil
}

// Create files a pending request for the actor's company.
// The company must have a room. Renewal and cancellation must name an address the company holds.
func (s *Service) Create(ctx context.Context, in CreateInput, actor Actor) (view *RequestView, err error) {
	ctx, end := s.track(ctx, "create", attribute.String("request.type", string(in.Type)))
	defer func() { end(&err) }()

	if err := actor.requireCompany(); err != nil {
		return nil, err
	}
	now := s.clock()
	in, err = in.normalize(now)
	if err != nil {
		return nil, err
	}

	err = s.store.RunInTx(ctx, func(tx Tx) error {
		cwr, err := tx.Directory().FindCompanyWithRoom(ctx, actor.CompanyID)
		if err != nil {
			return fmt.Errorf("find company %s: %w", actor.CompanyID, err)
		}
		if cwr == nil {
			return apperr.NotFound("company %s not found", actor.CompanyID)
		}
		if cwr.Room == nil {
			return apperr.BadRequest("company %s has no room assigned", cwr.Company.Name)
		}

		var addr *addressdomain.Address
		if in.AddressID != nil {
			addr, err = tx.Addresses().GetByID(ctx, *in.AddressID)
			if err != nil {
				return fmt.Errorf("get address %s: %w", *in.AddressID, err)
			}
			if addr == nil {
				return apperr.NotFound("address %s not found", *in.AddressID)
			}
			if in.Type.NeedsAddress() && !addr.BelongsTo(actor.CompanyID) {
				return apperr.Unauthorized("address %s does not belong to your company", addr.IP)
			}
			if addr.RoomID != cwr.Room.ID {
				return apperr.BadRequest("address %s is not in your company's room", addr.IP)
			}
		}

		req := &requestdomain.Request{
			ID:              s.newID(),
			Type:            in.Type,
			Status:          requestdomain.StatusPending,
			CompanyID:       actor.CompanyID,
			AddressID:       in.AddressID,
			RequestedBy:     actor.UserID,
			Justification:   in.Justification,
			MACAddress:      in.MACAddress,
			HolderName:      in.HolderName,
			Temporary:       in.Temporary,
			RequestedExpiry: in.RequestedExpiry,
			CreatedAt:       now,
		}
		if err := tx.Requests().Create(ctx, req); err != nil {
			return err
		}
		if addr != nil {
			if err := s.appendEntry(ctx, tx, historydomain.ActionRequested, addr.ID, req, actor.UserID, now, notesFor(req)); err != nil {
				return err
			}
		}
		view = &RequestView{Request: req, Company: cwr.Company, Room: cwr.Room, Address: addr}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publish(notify.RequestCreated, view, actor.UserID, now)
	return view, nil
}

// Reject declines a pending request. reason must be non-blank and is stored verbatim; a decided
// request fails with AlreadyProcessed whatever the reason.
func (s *Service) Reject(ctx context.Context, requestID, reason string, actor Actor) (view *RequestView, err error) {
	ctx, end := s.track(ctx, "reject", requestAttrs(requestID)...)
	defer func() { end(&err) }()

	now := s.clock()
	err = s.store.RunInTx(ctx, func(tx Tx) error {
		req, err := s.pendingRequest(ctx, tx, requestID)
		if err != nil {
			return err
		}
		if strings.TrimSpace(reason) == "" {
			return apperr.BadRequest("rejection reason is required")
		}
		if err := req.Reject(actor.UserID, reason, now); err != nil {
			return classify(err, req)
		}
		if err := tx.Requests().UpdateDecision(ctx, req); err != nil {
			return classify(err, req)
		}
		view, err = s.resolveView(ctx, tx, req)
		if err != nil {
			return err
		}
		if req.AddressID != nil {
			return s.appendEntry(ctx, tx, historydomain.ActionRejected, *req.AddressID, req, actor.UserID, now, &reason)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publish(notify.RequestRejected, view, actor.UserID, now)
	return view, nil
}

// Cancel withdraws a pending request. Only the requesting company may cancel, and ownership is
// checked before status so a foreign caller learns nothing about the request's state.
func (s *Service) Cancel(ctx context.Context, requestID string, actor Actor) (view *RequestView, err error) {
	ctx, end := s.track(ctx, "cancel", requestAttrs(requestID)...)
	defer func() { end(&err) }()

	now := s.clock()
	err = s.store.RunInTx(ctx, func(tx Tx) error {
		req, err := tx.Requests().GetByIDForUpdate(ctx, requestID)
		if err != nil {
			return fmt.Errorf("get request %s: %w", requestID, err)
		}
		if req == nil {
			return apperr.NotFound("request %s not found", requestID)
		}
		if req.CompanyID != actor.CompanyID {
			return apperr.Unauthorized("request %s does not belong to your company", requestID)
		}
		if err := req.Cancel(now); err != nil {
			return classify(err, req)
		}
		if err := tx.Requests().UpdateDecision(ctx, req); err != nil {
			return classify(err, req)
		}
		view, err = s.resolveView(ctx, tx, req)
		if err != nil {
			return err
		}
		if req.AddressID != nil {
			note := "request withdrawn by requester"
			return s.appendEntry(ctx, tx, historydomain.ActionCancelled, *req.AddressID, req, actor.UserID, now, &note)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publish(notify.RequestCancelled, view, actor.UserID, now)
	return view, nil
}

// pendingRequest loads and locks requestID, failing with NotFound or AlreadyProcessed.
func (s *Service) pendingRequest(ctx context.Context, tx Tx, requestID string) (*requestdomain.Request, error) {
	req, err := tx.Requests().GetByIDForUpdate(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("get request %s: %w", requestID, err)
	}
	if req == nil {
		return nil, apperr.NotFound("request %s not found", requestID)
	}
	if !req.IsPending() {
		return nil, apperr.AlreadyProcessed(req.ID, string(req.Status))
	}
	return req, nil
}

// resolveView loads the company, room and address the request refers to.
func (s *Service) resolveView(ctx context.Context, tx Tx, req *requestdomain.Request) (*RequestView, error) {
	view := &RequestView{Request: req}
	cwr, err := tx.Directory().FindCompanyWithRoom(ctx, req.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("find company %s: %w", req.CompanyID, err)
	}
	if cwr != nil {
		view.Company, view.Room = cwr.Company, cwr.Room
	}
	if req.AddressID != nil {
		addr, err := tx.Addresses().GetByID(ctx, *req.AddressID)
		if err != nil {
			return nil, fmt.Errorf("get address %s: %w", *req.AddressID, err)
		}
		view.Address = addr
	}
	return view, nil
}

// appendEntry records action on addressID with the request's device, holder and expiry as snapshot.
func (s *Service) appendEntry(ctx context.Context, tx Tx, action historydomain.Action, addressID string,
	req *requestdomain.Request, performedBy string, at time.Time, notes *string) error {
	company := req.CompanyID
	return tx.History().Append(ctx, &historydomain.Entry{
		ID:          s.newID(),
		AddressID:   addressID,
		CompanyID:   &company,
		Action:      action,
		PerformedBy: performedBy,
		MACAddress:  req.MACAddress,
		HolderName:  req.HolderName,
		Notes:       notes,
		ExpiresAt:   req.RequestedExpiry,
		CreatedAt:   at,
	})
}

func notesFor(req *requestdomain.Request) *string {
	if req.Justification == "" {
		return nil
	}
	j := req.Justification
	return &j
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
