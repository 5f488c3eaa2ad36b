package store

import (
	"context"
	"fmt"

	"orderdesk/internal/core"
)

// ListPhoneContacts returns every order and lead that has a resolved phone
// number, for the duplicate-contact detector. Trashed entities are included;
// whether they count as duplicates is the detector's configuration choice.
func (s *Store) ListPhoneContacts(ctx context.Context) ([]core.ContactRef, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT 'order', id, number, phone, status FROM orders WHERE phone <> ''
		UNION ALL
		SELECT 'lead', id, number, phone, status FROM leads WHERE phone <> ''
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query phone contacts: %w", err)
	}
	defer rows.Close()

	var contacts []core.ContactRef
	for rows.Next() {
		var c core.ContactRef
		if err := rows.Scan(&c.Kind, &c.ID, &c.DisplayID, &c.Phone, &c.Status); err != nil {
			return nil, fmt.Errorf("failed to scan phone contact: %w", err)
		}
		contacts = append(contacts, c)
	}
	return contacts, nil
}
