package aggregator

import (
	"testing"

	"github.com/craftingshard/tour-website-sub000/models"
)

func review(tour string, rating float64) models.Review {
	return models.Review{TourID: tour, Rating: rating}
}

func TestRound1(t *testing.T) {
	cases := []struct{ in, want float64 }{
		{7.0, 7.0},
		{7.25, 7.3},
		{7.24, 7.2},
		{7.45, 7.5},
		{0, 0},
		{9.999, 10},
	}
	for _, tc := range cases {
		if got := Round1(tc.in); got != tc.want {
			t.Errorf("Round1(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestAverages(t *testing.T) {
	reviews := []models.Review{
		review("t1", 8),
		review("t1", 9),
		review("t1", 7.5),
		review("t2", 4),
	}

	avgs := Averages(reviews)
	if got := avgs["t1"]; got != 8.2 {
		t.Errorf("t1 average = %v, want 8.2", got)
	}
	if got := avgs["t2"]; got != 4.0 {
		t.Errorf("t2 average = %v, want 4.0", got)
	}
	if _, ok := avgs["t3"]; ok {
		t.Error("tour without reviews must not appear")
	}
}

func TestAveragesOrderIndependent(t *testing.T) {
	a := []models.Review{review("t", 1), review("t", 9.5), review("t", 6)}
	b := []models.Review{review("t", 6), review("t", 1), review("t", 9.5)}

	if Averages(a)["t"] != Averages(b)["t"] {
		t.Fatalf("average depends on insertion order: %v vs %v", Averages(a)["t"], Averages(b)["t"])
	}
}

func TestAveragesIdempotent(t *testing.T) {
	reviews := []models.Review{review("t", 3.5), review("t", 8)}
	first := Averages(reviews)["t"]
	second := Averages(reviews)["t"]
	if first != second {
		t.Fatalf("recomputation changed the result: %v vs %v", first, second)
	}
	if first != 5.8 {
		t.Fatalf("mean(3.5, 8) rounded = %v, want 5.8", first)
	}
}

func TestAveragesEmpty(t *testing.T) {
	if got := Averages(nil); len(got) != 0 {
		t.Fatalf("expected empty map, got %v", got)
	}
}
