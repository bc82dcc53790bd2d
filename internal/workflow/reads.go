package workflow

import (
	"context"
	"fmt"

	addressdomain "ipam-control-plane/internal/address/domain"
	directorydomain "ipam-control-plane/internal/directory/domain"
	historydomain "ipam-control-plane/internal/history/domain"
	historyrepo "ipam-control-plane/internal/history/repository"
	requestrepo "ipam-control-plane/internal/iprequest/repository"
	"ipam-control-plane/internal/platform/apperr"
)

// GetRequest returns one request with its relations. Company actors only see their own requests.
func (s *Service) GetRequest(ctx context.Context, requestID string, actor Actor) (*RequestView, error) {
	r := s.store.Reader()
	req, err := r.Requests().GetByID(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("get request %s: %w", requestID, err)
	}
	if req == nil {
		return nil, apperr.NotFound("request %s not found", requestID)
	}
	if !actor.IsApprover() && req.CompanyID != actor.CompanyID {
		return nil, apperr.Unauthorized("request %s does not belong to your company", requestID)
	}
	return s.resolveView(ctx, r, req)
}

// ListRequests returns requests newest first. A company actor's filter is pinned to its company.
func (s *Service) ListRequests(ctx context.Context, f requestrepo.Filter, actor Actor) ([]*RequestView, error) {
	if !actor.IsApprover() {
		if err := actor.requireCompany(); err != nil {
			return nil, err
		}
		f.CompanyID = actor.CompanyID
	}
	r := s.store.Reader()
	reqs, err := r.Requests().List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	companies := map[string]*directorydomain.CompanyWithRoom{}
	addresses := map[string]*addressdomain.Address{}
	out := make([]*RequestView, 0, len(reqs))
	for _, req := range reqs {
		view := &RequestView{Request: req}
		cwr, ok := companies[req.CompanyID]
		if !ok {
			if cwr, err = r.Directory().FindCompanyWithRoom(ctx, req.CompanyID); err != nil {
				return nil, fmt.Errorf("find company %s: %w", req.CompanyID, err)
			}
			companies[req.CompanyID] = cwr
		}
		if cwr != nil {
			view.Company, view.Room = cwr.Company, cwr.Room
		}
		if req.AddressID != nil {
			id := *req.AddressID
			a, ok := addresses[id]
			if !ok {
				if a, err = r.Addresses().GetByID(ctx, id); err != nil {
					return nil, fmt.Errorf("get address %s: %w", id, err)
				}
				addresses[id] = a
			}
			view.Address = a
		}
		out = append(out, view)
	}
	return out, nil
}

// ListHistory returns audit entries newest first. A company actor only sees entries stamped with
// its company.
func (s *Service) ListHistory(ctx context.Context, f historyrepo.Filter, actor Actor) ([]*historydomain.Entry, error) {
	if !actor.IsApprover() {
		if err := actor.requireCompany(); err != nil {
			return nil, err
		}
		f.CompanyID = actor.CompanyID
	}
	if f.Action != "" && !f.Action.Valid() {
		return nil, apperr.BadRequest("unknown action %q", f.Action)
	}
	if f.From != nil && f.To != nil && f.From.After(*f.To) {
		return nil, apperr.BadRequest("from must not be after to")
	}
	entries, err := s.store.Reader().History().List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return entries, nil
}

// AddressHistory returns the full trail of one address newest first. Company actors only see the
// entries stamped with their company.
func (s *Service) AddressHistory(ctx context.Context, addressID string, actor Actor) ([]*historydomain.Entry, error) {
	entries, err := s.store.Reader().History().ListByAddress(ctx, addressID)
	if err != nil {
		return nil, fmt.Errorf("list history for address %s: %w", addressID, err)
	}
	if actor.IsApprover() {
		return entries, nil
	}
	out := entries[:0]
	for _, e := range entries {
		if e.CompanyID != nil && *e.CompanyID == actor.CompanyID {
			out = append(out, e)
		}
	}
	return out, nil
}
