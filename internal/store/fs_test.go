package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/quantfold/histvol/internal/model"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func tickAt(y int, m time.Month, d, hh, mm int, price float64) model.CleanedTick {
	ts := time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
	return model.CleanedTick{Timestamp: ts, Price: price, Date: model.DateOf(ts)}
}

func newTestFS(t *testing.T) *FS {
	t.Helper()
	s, err := NewFS(t.TempDir())
	if err != nil {
		t.Fatalf("NewFS failed: %v", err)
	}
	return s
}

func TestFS_WriteReadDay(t *testing.T) {
	s := newTestFS(t)
	ctx := context.Background()
	d := day(2024, 1, 2)
	ticks := model.CleanedSeries{
		tickAt(2024, 1, 2, 9, 30, 100.5),
		tickAt(2024, 1, 2, 9, 31, 101.25),
	}

	if err := s.WriteDay(ctx, "aapl", d, ticks); err != nil {
		t.Fatalf("WriteDay failed: %v", err)
	}

	got, err := s.ReadDay(ctx, "aapl", d)
	if err != nil {
		t.Fatalf("ReadDay failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d ticks, want 2", len(got))
	}
	if !got[0].Timestamp.Equal(ticks[0].Timestamp) || got[0].Price != 100.5 {
		t.Errorf("got[0] = %+v, want %+v", got[0], ticks[0])
	}
	if !got[1].Date.Equal(d) {
		t.Errorf("got[1].Date = %v, want %v", got[1].Date, d)
	}
}

func TestFS_WriteDayOverwrites(t *testing.T) {
	s := newTestFS(t)
	ctx := context.Background()
	d := day(2024, 1, 2)

	first := model.CleanedSeries{tickAt(2024, 1, 2, 9, 30, 100)}
	second := model.CleanedSeries{tickAt(2024, 1, 2, 9, 30, 50), tickAt(2024, 1, 2, 9, 31, 51)}

	if err := s.WriteDay(ctx, "aapl", d, first); err != nil {
		t.Fatal(err)
	}
	if err := s.WriteDay(ctx, "aapl", d, second); err != nil {
		t.Fatal(err)
	}

	got, err := s.ReadDay(ctx, "aapl", d)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].Price != 50 {
		t.Errorf("partition not replaced: got %+v", got)
	}
}

func TestFS_ReadDayMissing(t *testing.T) {
	s := newTestFS(t)

	_, err := s.ReadDay(context.Background(), "aapl", day(2024, 1, 2))
	if !errors.Is(err, ErrPartitionMissing) {
		t.Errorf("err = %v, want ErrPartitionMissing", err)
	}
}

func TestFS_ReadDaysMissingFailsWhole(t *testing.T) {
	s := newTestFS(t)
	ctx := context.Background()

	if err := s.WriteDay(ctx, "aapl", day(2024, 1, 2), model.CleanedSeries{tickAt(2024, 1, 2, 10, 0, 100)}); err != nil {
		t.Fatal(err)
	}

	_, err := s.ReadDays(ctx, "aapl", []time.Time{day(2024, 1, 2), day(2024, 1, 3)})
	if !errors.Is(err, ErrPartitionMissing) {
		t.Errorf("err = %v, want ErrPartitionMissing", err)
	}
}

func TestFS_ListDaysSorted(t *testing.T) {
	s := newTestFS(t)
	ctx := context.Background()

	for _, d := range []time.Time{day(2024, 1, 5), day(2024, 1, 2), day(2024, 1, 3)} {
		if err := s.WriteDay(ctx, "aapl", d, model.CleanedSeries{tickAt(d.Year(), d.Month(), d.Day(), 10, 0, 100)}); err != nil {
			t.Fatal(err)
		}
	}

	dates, err := s.ListDays(ctx, "aapl")
	if err != nil {
		t.Fatalf("ListDays failed: %v", err)
	}
	if len(dates) != 3 {
		t.Fatalf("got %d dates, want 3", len(dates))
	}
	for i := 1; i < len(dates); i++ {
		if !dates[i-1].Before(dates[i]) {
			t.Errorf("dates not ascending: %v", dates)
		}
	}
}

func TestFS_ListDaysUnknownInstrument(t *testing.T) {
	s := newTestFS(t)

	dates, err := s.ListDays(context.Background(), "nope")
	if err != nil {
		t.Fatalf("ListDays failed: %v", err)
	}
	if dates != nil {
		t.Errorf("got %v, want nil", dates)
	}
}

func TestFS_ReadAll(t *testing.T) {
	s := newTestFS(t)
	ctx := context.Background()

	if err := s.WriteDay(ctx, "aapl", day(2024, 1, 3), model.CleanedSeries{tickAt(2024, 1, 3, 10, 0, 102)}); err != nil {
		t.Fatal(err)
	}
	if err := s.WriteDay(ctx, "aapl", day(2024, 1, 2), model.CleanedSeries{tickAt(2024, 1, 2, 10, 0, 101)}); err != nil {
		t.Fatal(err)
	}

	all, err := s.ReadAll(ctx, "aapl")
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("got %d ticks, want 2", len(all))
	}
	if !all[0].Timestamp.Before(all[1].Timestamp) {
		t.Error("ticks not ascending by timestamp")
	}
}

func TestFS_VolatilityRoundTrip(t *testing.T) {
	s := newTestFS(t)
	ctx := context.Background()

	series := model.VolatilitySeries{
		{Date: day(2024, 1, 2), Volatility: 0.2},
		{Date: day(2024, 1, 3), Volatility: 0.25},
	}
	if err := s.Write(ctx, "aapl", "close_to_close_std_deviation", 30, series); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	got, err := s.Read(ctx, "aapl", "close_to_close_std_deviation", 30)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d records, want 2", len(got))
	}
	if !got[1].Date.Equal(series[1].Date) || got[1].Volatility != 0.25 {
		t.Errorf("got[1] = %+v, want %+v", got[1], series[1])
	}
}

func TestFS_ReadVolatilityAbsentKey(t *testing.T) {
	s := newTestFS(t)

	got, err := s.Read(context.Background(), "aapl", "yang_zhang", 30)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d records for absent key, want 0", len(got))
	}
}
