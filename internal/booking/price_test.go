package booking

import (
	"testing"
	"time"

	"github.com/coworkhub/space-reservation/internal/model"
)

func spaceWithRate(cents int64) *model.Space {
	return &model.Space{ID: 1, Name: "Sala A", Active: true, HourlyRateCents: &cents}
}

func TestPrice(t *testing.T) {
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	cases := []struct {
		name      string
		rateCents int64
		duration  time.Duration
		want      int64
	}{
		{"exact hour", 1000, time.Hour, 1000},
		{"ninety minutes bills two hours", 1000, 90 * time.Minute, 2000},
		{"forty-five minutes bills one hour", 1000, 45 * time.Minute, 1000},
		{"two exact hours", 1500, 2 * time.Hour, 3000},
		{"two hours one second bills three", 1500, 2*time.Hour + time.Second, 4500},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := Price(spaceWithRate(c.rateCents), base, base.Add(c.duration))
			if err != nil {
				t.Fatalf("Price returned error: %v", err)
			}
			if got != c.want {
				t.Errorf("Price = %d cents, want %d", got, c.want)
			}
		})
	}
}

func TestPriceMissingRate(t *testing.T) {
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	noRate := &model.Space{ID: 1, Active: true}
	if _, err := Price(noRate, base, base.Add(time.Hour)); !IsKind(err, KindValidation) {
		t.Errorf("Price without rate: got %v, want validation error", err)
	}

	zero := int64(0)
	zeroRate := &model.Space{ID: 1, Active: true, HourlyRateCents: &zero}
	if _, err := Price(zeroRate, base, base.Add(time.Hour)); !IsKind(err, KindValidation) {
		t.Errorf("Price with zero rate: got %v, want validation error", err)
	}
}
