package domain

import (
	"testing"
)

func TestProgress(t *testing.T) {
	tests := []struct {
		name         string
		goal, raised float64
		want         int
	}{
		{"half", 5000, 2500, 50},
		{"zero goal", 0, 100, 0},
		{"negative goal", -10, 5, 0},
		{"nothing raised", 1000, 0, 0},
		{"over goal capped", 1000, 1500, 100},
		{"rounds", 3000, 1000, 33},
		{"rounds up", 3000, 2000, 67},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &Event{Goal: tt.goal, Raised: tt.raised}
			if got := e.Progress(); got != tt.want {
				t.Errorf("Progress() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestParseRole(t *testing.T) {
	tests := []struct {
		in      string
		want    Role
		wantErr bool
	}{
		{"donor", RoleDonor, false},
		{" Promoter ", RolePromoter, false},
		{"", RoleNone, false},
		{"admin", RoleNone, true},
		{"organizer", RoleNone, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRole(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseRole(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseRole(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseEventStatus(t *testing.T) {
	for _, s := range []string{"draft", "published", "ARCHIVED"} {
		if _, err := ParseEventStatus(s); err != nil {
			t.Errorf("ParseEventStatus(%q) unexpected error %v", s, err)
		}
	}
	if _, err := ParseEventStatus("deleted"); err != ErrInvalidStatus {
		t.Errorf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory("Gastronomia")
	if err != nil || c != CategoryGastronomia {
		t.Fatalf("ParseCategory() = %q, %v", c, err)
	}
	if c.Label() != "Gastronomía" {
		t.Errorf("Label() = %q", c.Label())
	}
	if _, err := ParseCategory("deportes"); err != ErrInvalidCategory {
		t.Errorf("expected ErrInvalidCategory, got %v", err)
	}
}

func TestEventLifecycle(t *testing.T) {
	e := &Event{Status: EventStatusDraft, CreatedBy: "u-1"}

	if e.IsPublic() {
		t.Error("draft must not be public")
	}
	if err := e.Publish(); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if !e.IsPublic() {
		t.Error("published event must be public")
	}
	if err := e.Publish(); err == nil {
		t.Error("publishing twice should fail")
	}
	if err := e.Archive(); err != nil {
		t.Fatalf("Archive() error = %v", err)
	}
	if e.IsPublic() {
		t.Error("archived event must not be public")
	}
	if !e.IsOwnedBy("u-1") || e.IsOwnedBy("u-2") || e.IsOwnedBy("") {
		t.Error("IsOwnedBy mismatch")
	}
}

func TestDonationTransitions(t *testing.T) {
	if _, err := NewDonation("e", "d", 0, "PEN", PaymentMethodYape); err == nil {
		t.Error("zero amount should fail")
	}
	if _, err := NewDonation("e", "d", 10, "PEN", "paypal"); err == nil {
		t.Error("unknown method should fail")
	}

	d, err := NewDonation("e", "d", 50, "", PaymentMethodPlin)
	if err != nil {
		t.Fatalf("NewDonation() error = %v", err)
	}
	if d.Currency != "PEN" || d.Status != DonationStatusPending {
		t.Errorf("unexpected donation %+v", d)
	}
	if err := d.Succeed("txn_1"); err != nil {
		t.Fatalf("Succeed() error = %v", err)
	}
	if err := d.Fail("late"); err == nil {
		t.Error("cannot fail a succeeded donation")
	}
}
