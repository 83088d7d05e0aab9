package event

import "testing"

func TestParseTimestamp(t *testing.T) {
	ts, err := ParseTimestamp("4/3", "21:14:06.553", 2009)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := Timestamp{Year: 2009, Month: 4, Day: 3, Hour: 21, Minute: 14, Second: 6, Millis: 553}
	if ts != want {
		t.Errorf("timestamp = %+v, want %+v", ts, want)
	}
}

func TestParseTimestamp_MissingMillis(t *testing.T) {
	if _, err := ParseTimestamp("4/3", "21:14:06", 2009); err == nil {
		t.Fatal("expected error for time without milliseconds")
	}
}

func TestCompare_InvertedOrientation(t *testing.T) {
	earlier := Timestamp{Year: 2009, Month: 4, Day: 3, Hour: 21, Minute: 14, Second: 6, Millis: 100}
	later := Timestamp{Year: 2009, Month: 4, Day: 3, Hour: 21, Minute: 14, Second: 6, Millis: 200}

	// The later instant compares as less-than.
	if got := later.Compare(earlier); got != OrderLess {
		t.Errorf("later.Compare(earlier) = %v, want OrderLess", got)
	}
	if got := earlier.Compare(later); got != OrderGreater {
		t.Errorf("earlier.Compare(later) = %v, want OrderGreater", got)
	}
	if got := earlier.Compare(earlier); got != OrderEqual {
		t.Errorf("Compare with self = %v, want OrderEqual", got)
	}
}

func TestCompare_CascadesThroughFields(t *testing.T) {
	base := Timestamp{Year: 2009, Month: 4, Day: 3, Hour: 21, Minute: 14, Second: 6, Millis: 553}

	cases := []struct {
		name  string
		other Timestamp
		want  Order
	}{
		{"laterYear", Timestamp{Year: 2010, Month: 1, Day: 1}, OrderGreater},
		{"earlierMonth", Timestamp{Year: 2009, Month: 3, Day: 28, Hour: 23}, OrderLess},
		{"laterDay", Timestamp{Year: 2009, Month: 4, Day: 4}, OrderGreater},
		{"earlierSecond", Timestamp{Year: 2009, Month: 4, Day: 3, Hour: 21, Minute: 14, Second: 5, Millis: 999}, OrderLess},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := base.Compare(tc.other); got != tc.want {
				t.Errorf("Compare = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestElapsedSeconds(t *testing.T) {
	start := Timestamp{Year: 2009, Month: 4, Day: 3, Hour: 21, Minute: 14, Second: 6, Millis: 553}
	end := Timestamp{Year: 2009, Month: 4, Day: 3, Hour: 21, Minute: 16, Second: 36, Millis: 100}

	if got := end.ElapsedSeconds(start); got != 150 {
		t.Errorf("ElapsedSeconds = %d, want 150", got)
	}
	if got := start.ElapsedSeconds(end); got != -150 {
		t.Errorf("reversed ElapsedSeconds = %d, want -150", got)
	}
}

func TestElapsedSeconds_IgnoresMillis(t *testing.T) {
	a := Timestamp{Year: 2009, Month: 4, Day: 3, Hour: 21, Minute: 14, Second: 6, Millis: 1}
	b := Timestamp{Year: 2009, Month: 4, Day: 3, Hour: 21, Minute: 14, Second: 6, Millis: 999}

	if got := b.ElapsedSeconds(a); got != 0 {
		t.Errorf("ElapsedSeconds = %d, want 0", got)
	}
}

func TestTimestampString(t *testing.T) {
	ts := Timestamp{Year: 2009, Month: 4, Day: 3, Hour: 21, Minute: 14, Second: 6, Millis: 553}

	if got := ts.String(); got != "2009-04-03 21:14:06" {
		t.Errorf("String = %q", got)
	}
}
