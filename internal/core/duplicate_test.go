package core_test

import (
	"testing"

	"orderdesk/internal/core"
)

func TestNormalizePhone(t *testing.T) {
	det := core.NewDuplicateDetector("MA", false)

	tests := []struct {
		name string
		a, b string
		same bool
	}{
		{"international vs national", "+212600000001", "0600000001", true},
		{"spaces and dashes ignored", "+212 600-000-001", "0600000001", true},
		{"double-zero prefix", "00212600000001", "0600000001", true},
		{"different subscribers", "+212600000001", "+212600000002", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			na, nb := det.NormalizePhone(tt.a), det.NormalizePhone(tt.b)
			if (na == nb) != tt.same {
				t.Errorf("NormalizePhone(%q)=%q vs NormalizePhone(%q)=%q, same=%v want %v",
					tt.a, na, tt.b, nb, na == nb, tt.same)
			}
		})
	}

	if det.NormalizePhone("   ") != "" {
		t.Error("blank input should normalize to empty")
	}
}

func TestFindMatches(t *testing.T) {
	det := core.NewDuplicateDetector("MA", false)

	contacts := []core.ContactRef{
		{Kind: core.KindOrder, ID: 1, DisplayID: "ORD-00001", Phone: "+212600000001", Status: core.OrderPending},
		{Kind: core.KindLead, ID: 2, DisplayID: "LED-00002", Phone: "0600000001", Status: core.LeadInterested},
		{Kind: core.KindOrder, ID: 3, DisplayID: "ORD-00003", Phone: "0600999999", Status: core.OrderPending},
	}

	// Queried from order 1: exactly one match, identifying lead 2.
	matches := det.FindMatches("+212600000001", core.KindOrder, 1, contacts)
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if matches[0].Kind != core.KindLead || matches[0].ID != 2 || matches[0].DisplayID != "LED-00002" {
		t.Errorf("wrong match: %+v", matches[0])
	}

	// Queried from lead 2 against itself and order 1: only order 1 matches.
	matches = det.FindMatches("0600000001", core.KindLead, 2, contacts)
	if len(matches) != 1 || matches[0].ID != 1 {
		t.Fatalf("self must be excluded; got %+v", matches)
	}

	// Same-kind same-id entity with a matching phone is the self exclusion,
	// not a different entity that happens to share the id.
	matches = det.FindMatches("0600000001", core.KindLead, 99, contacts)
	if len(matches) != 2 {
		t.Errorf("expected both entities to match from an unrelated context, got %d", len(matches))
	}
}

func TestFindMatches_TrashedConfig(t *testing.T) {
	contacts := []core.ContactRef{
		{Kind: core.KindOrder, ID: 5, DisplayID: "ORD-00005", Phone: "0600000001", Status: core.OrderTrashed},
	}

	skip := core.NewDuplicateDetector("MA", false)
	if got := skip.FindMatches("0600000001", core.KindLead, 1, contacts); len(got) != 0 {
		t.Errorf("trashed entity matched with includeTrashed=false: %+v", got)
	}

	include := core.NewDuplicateDetector("MA", true)
	if got := include.FindMatches("0600000001", core.KindLead, 1, contacts); len(got) != 1 {
		t.Errorf("trashed entity not matched with includeTrashed=true: %+v", got)
	}
}

func TestFindMatches_EmptyPhone(t *testing.T) {
	det := core.NewDuplicateDetector("MA", false)
	contacts := []core.ContactRef{
		{Kind: core.KindOrder, ID: 1, DisplayID: "ORD-00001", Phone: ""},
	}
	if got := det.FindMatches("", core.KindLead, 2, contacts); got != nil {
		t.Errorf("empty phone must never match, got %+v", got)
	}
}
