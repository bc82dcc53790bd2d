package workflow_test

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	historydomain "ipam-control-plane/internal/history/domain"
	requestdomain "ipam-control-plane/internal/iprequest/domain"
	"ipam-control-plane/internal/notify"
	"ipam-control-plane/internal/platform/apperr"
	"ipam-control-plane/internal/workflow"
)

func TestCreate_Validation(t *testing.T) {
	f := newFixture(t)
	room := f.room("r1")
	acme := f.company("acme", room)
	globex := f.company("globex", room)
	roomless := f.company("roomless", "")
	f.address("a1", "10.0.0.1", room)
	f.address("a2", "10.0.0.2", room)
	f.lease(globex, "a2", workflow.CreateInput{})

	future := timePtr(f.now.Add(72 * time.Hour))
	tests := []struct {
		name  string
		actor workflow.Actor
		in    workflow.CreateInput
		want  error
	}{
		{"unknown type", acme, workflow.CreateInput{Type: "transfer"}, workflow.ErrBadRequest},
		{"company without room", roomless, workflow.CreateInput{Type: requestdomain.TypeNew}, workflow.ErrBadRequest},
		{"unknown company", workflow.Actor{UserID: "u", CompanyID: "ghost"}, workflow.CreateInput{Type: requestdomain.TypeNew}, workflow.ErrNotFound},
		{"no company on actor", approver, workflow.CreateInput{Type: requestdomain.TypeNew}, workflow.ErrUnauthorized},
		{"renewal without address", acme, workflow.CreateInput{Type: requestdomain.TypeRenewal, RequestedExpiry: future}, workflow.ErrBadRequest},
		{"cancellation without address", acme, workflow.CreateInput{Type: requestdomain.TypeCancellation, AddressID: strPtr("  ")}, workflow.ErrBadRequest},
		{"cancellation of foreign address", acme, workflow.CreateInput{Type: requestdomain.TypeCancellation, AddressID: strPtr("a2")}, workflow.ErrUnauthorized},
		{"renewal of free address", acme, workflow.CreateInput{Type: requestdomain.TypeRenewal, AddressID: strPtr("a1"), RequestedExpiry: future}, workflow.ErrUnauthorized},
		{"missing address", acme, workflow.CreateInput{Type: requestdomain.TypeCancellation, AddressID: strPtr("nope")}, workflow.ErrNotFound},
		{"bad mac", acme, workflow.CreateInput{Type: requestdomain.TypeNew, MACAddress: strPtr("not-a-mac")}, workflow.ErrBadRequest},
		{"expiry in the past", acme, workflow.CreateInput{Type: requestdomain.TypeNew, RequestedExpiry: timePtr(f.now.Add(-time.Hour))}, workflow.ErrBadRequest},
		{"temporary without expiry", acme, workflow.CreateInput{Type: requestdomain.TypeNew, Temporary: true}, workflow.ErrBadRequest},
		{"renewal without expiry", globex, workflow.CreateInput{Type: requestdomain.TypeRenewal, AddressID: strPtr("a2")}, workflow.ErrBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Create(f.ctx, tt.in, tt.actor)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
	list, err := f.svc.ListRequests(f.ctx, requestrepoFilter(), approver)
	if err != nil {
		t.Fatalf("ListRequests: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("requests = %d, want only the lease request", len(list))
	}
}

func TestCreate_NewRequest(t *testing.T) {
	f := newFixture(t)
	room := f.room("r1")
	acme := f.company("acme", room)

	view, err := f.svc.Create(f.ctx, workflow.CreateInput{
		Type:          requestdomain.TypeNew,
		Justification: "  build server  ",
		MACAddress:    strPtr("AA-BB-CC-DD-EE-FF"),
		HolderName:    strPtr("Ada"),
	}, acme)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	req := view.Request
	if req.Status != requestdomain.StatusPending {
		t.Errorf("status = %q, want pending", req.Status)
	}
	if req.CompanyID != "acme" || req.RequestedBy != "user-acme" {
		t.Errorf("company/requester = %q/%q", req.CompanyID, req.RequestedBy)
	}
	if req.Justification != "build server" {
		t.Errorf("justification = %q, want trimmed", req.Justification)
	}
	if req.MACAddress == nil || *req.MACAddress != "aa:bb:cc:dd:ee:ff" {
		t.Errorf("mac = %v, want canonical form", req.MACAddress)
	}
	if view.Company == nil || view.Room == nil || view.Room.ID != room {
		t.Errorf("view not resolved: %+v", view)
	}
	if view.Address != nil {
		t.Errorf("new request without address should resolve no address")
	}
	stored := f.getRequest(req.ID)
	if !reflect.DeepEqual(stored, req) {
		t.Errorf("stored = %+v, want %+v", stored, req)
	}

	select {
	case ev := <-f.pub.ch:
		if ev.Type != notify.RequestCreated || ev.RequestID != req.ID {
			t.Errorf("event = %+v, want request.created for %s", ev, req.ID)
		}
	case <-time.After(2 * time.Second):
		t.Error("no request.created event published")
	}
}

func TestCreate_RenewalWritesRequestedEntry(t *testing.T) {
	f := newFixture(t)
	room := f.room("r1")
	acme := f.company("acme", room)
	f.address("a1", "10.0.0.1", room)
	f.lease(acme, "a1", workflow.CreateInput{})
	before := len(f.history("a1"))

	req := f.create(acme, workflow.CreateInput{
		Type:            requestdomain.TypeRenewal,
		AddressID:       strPtr("a1"),
		RequestedExpiry: timePtr(f.now.Add(30 * 24 * time.Hour)),
	})
	entries := f.history("a1")
	if len(entries) != before+1 {
		t.Fatalf("entries = %d, want %d", len(entries), before+1)
	}
	if entries[0].Action != historydomain.ActionRequested || entries[0].PerformedBy != "user-acme" {
		t.Errorf("newest entry = %s by %s, want requested by user-acme", entries[0].Action, entries[0].PerformedBy)
	}
	if f.getAddress("a1").Status != "in_use" {
		t.Error("creating a request must not change the address")
	}
	if req.AddressID == nil || *req.AddressID != "a1" {
		t.Errorf("address_id = %v, want a1", req.AddressID)
	}
}

func TestReject(t *testing.T) {
	f := newFixture(t)
	room := f.room("r1")
	acme := f.company("acme", room)
	f.address("a1", "10.0.0.1", room)
	f.lease(acme, "a1", workflow.CreateInput{})

	noAddress := f.create(acme, workflow.CreateInput{Type: requestdomain.TypeNew})
	renewal := f.create(acme, workflow.CreateInput{
		Type: requestdomain.TypeRenewal, AddressID: strPtr("a1"), RequestedExpiry: timePtr(f.now.Add(24 * time.Hour)),
	})

	t.Run("blank reason", func(t *testing.T) {
		for _, reason := range []string{"", "   "} {
			if _, err := f.svc.Reject(f.ctx, noAddress.ID, reason, approver); !errors.Is(err, workflow.ErrBadRequest) {
				t.Errorf("Reject(%q) err = %v, want BadRequest", reason, err)
			}
		}
		if got := f.getRequest(noAddress.ID); got.Status != requestdomain.StatusPending {
			t.Errorf("status = %q, want pending", got.Status)
		}
	})

	t.Run("without address writes no entry", func(t *testing.T) {
		before := len(f.history("a1"))
		view, err := f.svc.Reject(f.ctx, noAddress.ID, "no free budget", approver)
		if err != nil {
			t.Fatalf("Reject: %v", err)
		}
		if view.Request.Status != requestdomain.StatusRejected {
			t.Errorf("status = %q, want rejected", view.Request.Status)
		}
		if len(f.history("a1")) != before {
			t.Error("rejecting a request without address must not write history")
		}
	})

	t.Run("with address writes one rejected entry", func(t *testing.T) {
		before := f.history("a1")
		reason := " Renewal window closed;\nre-apply next quarter "
		view, err := f.svc.Reject(f.ctx, renewal.ID, reason, approver)
		if err != nil {
			t.Fatalf("Reject: %v", err)
		}
		stored := f.getRequest(renewal.ID)
		if stored.Status != requestdomain.StatusRejected {
			t.Errorf("status = %q, want rejected", stored.Status)
		}
		if stored.RejectionReason == nil || *stored.RejectionReason != reason {
			t.Errorf("reason = %v, want %q verbatim", stored.RejectionReason, reason)
		}
		if stored.ApprovedBy == nil || *stored.ApprovedBy != approver.UserID || stored.RespondedAt == nil {
			t.Errorf("responder not recorded: %+v", stored)
		}
		after := f.history("a1")
		if len(after) != len(before)+1 || after[0].Action != historydomain.ActionRejected {
			t.Fatalf("history = %v, want one new rejected entry", actions(after))
		}
		if after[0].Notes == nil || *after[0].Notes != reason {
			t.Errorf("entry notes = %v, want the reason", after[0].Notes)
		}
		if view.Address == nil || view.Address.ID != "a1" {
			t.Errorf("view address = %+v, want a1", view.Address)
		}
		if f.getAddress("a1").Status != "in_use" {
			t.Error("reject must not touch the address")
		}
	})

	t.Run("decided request with blank reason", func(t *testing.T) {
		f.address("a2", "10.0.0.2", room)
		decided := f.create(acme, workflow.CreateInput{Type: requestdomain.TypeNew})
		f.approve(decided.ID)
		for _, reason := range []string{"", "late"} {
			if _, err := f.svc.Reject(f.ctx, decided.ID, reason, approver); !errors.Is(err, workflow.ErrAlreadyProcessed) {
				t.Errorf("Reject(%q) err = %v, want AlreadyProcessed", reason, err)
			}
		}
		if got := f.getRequest(decided.ID); got.Status != requestdomain.StatusApproved {
			t.Errorf("status = %q, want approved", got.Status)
		}
	})

	t.Run("missing request", func(t *testing.T) {
		if _, err := f.svc.Reject(f.ctx, "nope", "reason", approver); !errors.Is(err, workflow.ErrNotFound) {
			t.Errorf("err = %v, want NotFound", err)
		}
	})
}

func TestCancel_ForeignCompanyAlwaysUnauthorized(t *testing.T) {
	f := newFixture(t)
	room := f.room("r1")
	acme := f.company("acme", room)
	globex := f.company("globex", room)
	f.address("a1", "10.0.0.1", room)

	pending := f.create(acme, workflow.CreateInput{Type: requestdomain.TypeNew})
	approved := f.create(acme, workflow.CreateInput{Type: requestdomain.TypeNew})
	f.approve(approved.ID)
	rejected := f.create(acme, workflow.CreateInput{Type: requestdomain.TypeNew})
	if _, err := f.svc.Reject(f.ctx, rejected.ID, "duplicate", approver); err != nil {
		t.Fatalf("Reject: %v", err)
	}

	for _, id := range []string{pending.ID, approved.ID, rejected.ID} {
		before := f.getRequest(id)
		_, err := f.svc.Cancel(f.ctx, id, globex)
		if !errors.Is(err, workflow.ErrUnauthorized) {
			t.Errorf("Cancel(%s status %s) err = %v, want Unauthorized", id, before.Status, err)
		}
		if after := f.getRequest(id); !reflect.DeepEqual(after, before) {
			t.Errorf("request %s changed after refused cancel", id)
		}
	}
}

func TestCancel(t *testing.T) {
	f := newFixture(t)
	room := f.room("r1")
	acme := f.company("acme", room)
	f.address("a1", "10.0.0.1", room)
	f.lease(acme, "a1", workflow.CreateInput{})

	req := f.create(acme, workflow.CreateInput{Type: requestdomain.TypeCancellation, AddressID: strPtr("a1")})
	before := len(f.history("a1"))
	view, err := f.svc.Cancel(f.ctx, req.ID, acme)
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if view.Request.Status != requestdomain.StatusCancelled || view.Request.RespondedAt == nil {
		t.Errorf("request = %+v, want cancelled with responded_at", view.Request)
	}
	entries := f.history("a1")
	if len(entries) != before+1 || entries[0].Action != historydomain.ActionCancelled {
		t.Errorf("history = %v, want one new cancelled entry", actions(entries))
	}
	if a := f.getAddress("a1"); a.Status != "in_use" || !a.BelongsTo("acme") {
		t.Error("withdrawing a cancellation request must keep the lease")
	}

	if _, err := f.svc.Cancel(f.ctx, req.ID, acme); !errors.Is(err, workflow.ErrAlreadyProcessed) {
		t.Errorf("second Cancel err = %v, want AlreadyProcessed", err)
	}
	if _, err := f.svc.Cancel(f.ctx, "nope", acme); !errors.Is(err, workflow.ErrNotFound) {
		t.Errorf("Cancel(missing) err = %v, want NotFound", err)
	}
}

func TestCreate_CancelledContextLeavesNoRequest(t *testing.T) {
	f := newFixture(t)
	room := f.room("r1")
	acme := f.company("acme", room)
	ctx, cancel := context.WithCancel(f.ctx)
	cancel()
	if _, err := f.svc.Create(ctx, workflow.CreateInput{Type: requestdomain.TypeNew}, acme); err == nil {
		t.Fatal("Create with cancelled context should fail")
	} else if apperr.KindOf(err) != 0 {
		t.Errorf("err kind = %v, want none", apperr.KindOf(err))
	}
	list, err := f.svc.ListRequests(f.ctx, requestrepoFilter(), acme)
	if err != nil {
		t.Fatalf("ListRequests: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("requests = %d, want 0", len(list))
	}
}
