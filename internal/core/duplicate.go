package core

import (
	"strconv"
	"strings"

	"github.com/ttacon/libphonenumber"
)

// ContactRef is one phone-bearing entity known to the system, fed to the
// duplicate detector by the ContactDirectory collaborator.
type ContactRef struct {
	Kind      EntityKind `json:"entity_kind"`
	ID        int        `json:"entity_id"`
	DisplayID string     `json:"display_id"`
	Phone     string     `json:"phone"`
	Status    Status     `json:"status"`
}

// DuplicateMatch is one advisory warning: another entity shares the
// normalized phone number of the one being edited. It never blocks a save.
type DuplicateMatch struct {
	Kind      EntityKind `json:"entity_kind"`
	ID        int        `json:"entity_id"`
	DisplayID string     `json:"display_id"`
}

// DuplicateDetector finds other orders and leads sharing a normalized phone
// number. Region is the default dialing region for numbers entered without a
// country code. IncludeTrashed controls whether soft-deleted entities are
// considered; the product default is to skip them.
type DuplicateDetector struct {
	region         string
	includeTrashed bool
}

func NewDuplicateDetector(region string, includeTrashed bool) *DuplicateDetector {
	if region == "" {
		region = "MA"
	}
	return &DuplicateDetector{region: region, includeTrashed: includeTrashed}
}

// NormalizePhone reduces a raw phone number to a comparable key: the national
// significant number when libphonenumber can parse it, otherwise the trailing
// digits with country-code and leading-zero variance stripped. An empty or
// digit-free input normalizes to "".
func (d *DuplicateDetector) NormalizePhone(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if num, err := libphonenumber.Parse(raw, d.region); err == nil {
		return strconv.FormatUint(num.GetNationalNumber(), 10)
	}
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := strings.TrimLeft(b.String(), "0")
	// Compare on the last 9 digits so "+212600000001" and "0600000001" match.
	if len(digits) > 9 {
		digits = digits[len(digits)-9:]
	}
	return digits
}

// FindMatches reports every other entity whose normalized phone equals the
// given one, excluding the entity being edited itself.
func (d *DuplicateDetector) FindMatches(phone string, selfKind EntityKind, selfID int, contacts []ContactRef) []DuplicateMatch {
	key := d.NormalizePhone(phone)
	if key == "" {
		return nil
	}
	var matches []DuplicateMatch
	for _, c := range contacts {
		if c.Kind == selfKind && c.ID == selfID {
			continue
		}
		if !d.includeTrashed && c.Status == OrderTrashed {
			continue
		}
		if d.NormalizePhone(c.Phone) != key {
			continue
		}
		matches = append(matches, DuplicateMatch{Kind: c.Kind, ID: c.ID, DisplayID: c.DisplayID})
	}
	return matches
}
