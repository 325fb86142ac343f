package redis

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/travelagency/booking-api/internal/core/domain"
)

func TestPackageCodec_PreservesListing(t *testing.T) {
	now := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	in := []*domain.Package{
		{ID: "p2", Title: "Newer", Destination: "Lima", Duration: 3, Price: 10.5, Features: []string{"Guide"}, IsActive: true, AgencyID: "a1", Version: 2, CreatedAt: now, UpdatedAt: now},
		{ID: "p1", Title: "Older", Destination: "Cusco", Duration: 5, Price: 99, IsActive: true, AgencyID: "a2", CreatedAt: now.Add(-time.Hour), UpdatedAt: now},
	}

	data, err := encodePackages(in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	out, err := decodePackages(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out) != 2 || out[0].ID != "p2" || out[1].ID != "p1" {
		t.Fatalf("order or length lost: %+v", out)
	}
	if !reflect.DeepEqual(out[0], in[0]) {
		t.Fatalf("package changed:\n got %+v\nwant %+v", out[0], in[0])
	}
}

func TestDecodePackages_RejectsGarbage(t *testing.T) {
	if _, err := decodePackages([]byte("{not json")); err == nil {
		t.Fatalf("expected error")
	}
}

func TestNewPackageCache_DefaultTTL(t *testing.T) {
	if c := NewPackageCache(nil, 0); c.ttl != defaultPackageTTL {
		t.Fatalf("expected default TTL, got %v", c.ttl)
	}
}

func TestParseGeneration(t *testing.T) {
	cases := []struct {
		name    string
		raw     string
		err     error
		want    int64
		wantErr bool
	}{
		{name: "missing key starts at zero", err: redis.Nil, want: 0},
		{name: "stored counter", raw: "7", want: 7},
		{name: "connection error", err: errors.New("dial tcp: refused"), wantErr: true},
		{name: "corrupt counter", raw: "seven", wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseGeneration(tc.raw, tc.err)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, got)
			}
		})
	}
}
