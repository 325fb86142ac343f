package domain

import (
	"errors"
	"slices"
	"testing"
)

func validPackage() *Package {
	return &Package{Title: "Alps", Description: "Hiking", Destination: "Zermatt", Duration: 4, Price: 1200}
}

func TestPackage_Validate(t *testing.T) {
	if err := validPackage().Validate(); err != nil {
		t.Fatalf("expected valid package, got %v", err)
	}

	p := validPackage()
	p.Title = " "
	p.Duration = 0
	err := p.Validate()
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestPackage_Apply_OnlyTouchesSetFields(t *testing.T) {
	p := validPackage()
	p.AgencyID = "agency-1"
	p.IsActive = true

	price := 999.0
	features := []string{" Guide ", "", "Meals"}
	p.Apply(PackageChanges{Price: &price, Features: &features})

	if p.Price != 999 {
		t.Errorf("price not applied")
	}
	if p.Title != "Alps" || p.Duration != 4 {
		t.Errorf("untouched fields changed: %+v", p)
	}
	if !slices.Equal(p.Features, []string{"Guide", "Meals"}) {
		t.Errorf("unexpected features %v", p.Features)
	}
	if p.AgencyID != "agency-1" || !p.IsActive {
		t.Errorf("server-controlled fields changed")
	}
}

func TestActor_Permissions(t *testing.T) {
	pkg := &Package{AgencyID: "a1"}
	booking := &Booking{ClientID: "c1", AgencyID: "a1"}

	owner := Actor{UserID: "a1", Role: RoleAgency}
	other := Actor{UserID: "a2", Role: RoleAgency}
	client := Actor{UserID: "c1", Role: RoleClient}
	admin := Actor{UserID: "x", Role: RoleAdmin}

	if !owner.CanManagePackage(pkg) || other.CanManagePackage(pkg) || client.CanManagePackage(pkg) || !admin.CanManagePackage(pkg) {
		t.Errorf("CanManagePackage mismatch")
	}
	if !owner.CanViewBooking(booking) || other.CanViewBooking(booking) || !client.CanViewBooking(booking) || !admin.CanViewBooking(booking) {
		t.Errorf("CanViewBooking mismatch")
	}
	if !owner.CanManageBooking(booking) || other.CanManageBooking(booking) || client.CanManageBooking(booking) || !admin.CanManageBooking(booking) {
		t.Errorf("CanManageBooking mismatch")
	}
}
