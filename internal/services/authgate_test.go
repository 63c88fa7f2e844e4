package services

import (
	"context"
	"errors"
	"testing"

	"eventplanner/internal/domain"
)

func TestAuthorize(t *testing.T) {
	gate := newTestGate(map[string][]string{
		"admin":     {domain.RoleAdmin},
		"organizer": {domain.RoleOrganizer},
	})

	tests := []struct {
		name     string
		op       domain.Operation
		actingID string
		ownerID  string
		wantErr  error
	}{
		{name: "owner may edit own rsvp", op: domain.OpRSVPEdit, actingID: "u1", ownerID: "u1"},
		{name: "admin may edit any rsvp", op: domain.OpRSVPEdit, actingID: "admin", ownerID: "u1"},
		{name: "stranger may not edit rsvp", op: domain.OpRSVPEdit, actingID: "u2", ownerID: "u1", wantErr: domain.ErrForbidden},
		{name: "organizer may not edit someone's rsvp", op: domain.OpRSVPEdit, actingID: "organizer", ownerID: "u1", wantErr: domain.ErrForbidden},
		{name: "organizer may create events", op: domain.OpEventCreate, actingID: "organizer"},
		{name: "attendee may not create events", op: domain.OpEventCreate, actingID: "u1", wantErr: domain.ErrForbidden},
		{name: "owner match never applies to role-only ops", op: domain.OpRoleAssign, actingID: "u1", ownerID: "u1", wantErr: domain.ErrForbidden},
		{name: "anonymous caller rejected", op: domain.OpRSVPEdit, actingID: "", ownerID: "u1", wantErr: domain.ErrForbidden},
		{name: "unknown operation rejected", op: domain.Operation("event.archive"), actingID: "admin", wantErr: domain.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := gate.Authorize(context.Background(), tt.op, tt.actingID, tt.ownerID)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Authorize(%s) = %v, want %v", tt.op, err, tt.wantErr)
			}
		})
	}
}
