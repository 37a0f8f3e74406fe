package store

import (
	"context"
	"time"

	"github.com/teamplane/teamplane/internal/ident"
)

// ListTickets returns every ticket in the domain, ordered by creation time.
func (s *Store) ListTickets(ctx context.Context, domain string) ([]Ticket, error) {
	recs, err := listRecords[Ticket](ctx, s, domain, EntityTicket)
	if err != nil {
		return nil, err
	}
	tickets := make([]Ticket, 0, len(recs))
	for _, rec := range recs {
		tickets = append(tickets, normalizeTicket(rec.Data))
	}
	return tickets, nil
}

// GetTicket returns the ticket, or (nil, nil) when it does not exist.
func (s *Store) GetTicket(ctx context.Context, domain, id string) (*Ticket, error) {
	rec, err := getRecord[Ticket](ctx, s, domain, EntityTicket, id)
	if err != nil || rec == nil {
		return nil, err
	}
	ticket := normalizeTicket(rec.Data)
	return &ticket, nil
}

// CreateTicket creates a ticket with a generated id. Status defaults to
// "new" and type to "feature".
func (s *Store) CreateTicket(ctx context.Context, domain string, in CreateTicketInput, actor string) (*Ticket, error) {
	now := time.Now()
	ts := stamp(now)

	status := in.Status
	if status == "" {
		status = TicketStatusNew
	}
	typ := in.Type
	if typ == "" {
		typ = TicketTypeFeature
	}

	ticket := Ticket{
		ID:          ident.NewAt("ticket", now),
		Title:       in.Title,
		Description: in.Description,
		Status:      status,
		Type:        typ,
		AssignedTo:  in.AssignedTo,
		Domain:      domain,
		CreatedAt:   ts,
		UpdatedAt:   ts,
		CreatedBy:   actor,
	}

	rec := entityRecord(domain, EntityTicket, ticket.ID, ts, ts, ticket)
	if err := putNew(ctx, s, rec); err != nil {
		return nil, err
	}
	return &ticket, nil
}

// UpdateTicket shallow-merges patch over the stored ticket. id and domain
// are re-pinned; createdAt is preserved.
func (s *Store) UpdateTicket(ctx context.Context, domain, id string, patch TicketPatch, actor string) (*Ticket, error) {
	rec, err := getRecord[Ticket](ctx, s, domain, EntityTicket, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrNotFound
	}

	prev := normalizeTicket(rec.Data)
	next := prev

	if patch.Title != nil {
		next.Title = *patch.Title
	}
	if patch.Description != nil {
		next.Description = *patch.Description
	}
	if patch.Status != nil {
		next.Status = *patch.Status
	}
	if patch.Type != nil {
		next.Type = *patch.Type
	}
	if patch.AssignedTo != nil {
		next.AssignedTo = *patch.AssignedTo
	}

	next.ID = prev.ID
	next.Domain = prev.Domain
	next.CreatedAt = prev.CreatedAt
	next.CreatedBy = prev.CreatedBy
	next.UpdatedAt = stamp(time.Now())

	newRec := entityRecord(domain, EntityTicket, id, rec.CreatedAt, next.UpdatedAt, next)
	if err := putVersioned(ctx, s, newRec, rec.Version); err != nil {
		return nil, err
	}
	return &next, nil
}

// DeleteTicket removes the ticket. Missing tickets are a no-op.
func (s *Store) DeleteTicket(ctx context.Context, domain, id string) error {
	return deleteRecord(ctx, s, domain, EntityTicket, id)
}

// normalizeTicket defaults type to "feature" for records written before the
// field existed.
func normalizeTicket(t Ticket) Ticket {
	if t.Type == "" {
		t.Type = TicketTypeFeature
	}
	return t
}
