package calc

import "testing"

func TestGroup(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"0", "0"},
		{"123", "123"},
		{"1234", "1,234"},
		{"123456", "123,456"},
		{"1234567", "1,234,567"},
		{"1234.5678", "1,234.5678"},
		{"12.345678", "12.345678"},
	}
	for _, c := range cases {
		if got := group(c.in); got != c.want {
			t.Errorf("group(%s): want %s, got %s", c.in, c.want, got)
		}
	}
}

func TestTimestamp(t *testing.T) {
	cases := []struct {
		sign, digits string
		want         string
		err          bool
	}{
		{"", "0", "1970-01-01T00:00:00.000Z", false},
		{"", "86400", "1970-01-02T00:00:00.000Z", false},
		{"", "1704067200.25", "2024-01-01T00:00:00.25Z", false},
		{"-", "1", "1969-12-31T23:59:59.000Z", false},
		{"", "100000000000000000000", "", true},
	}
	for _, c := range cases {
		got, err := timestamp(c.sign, c.digits)
		if c.err {
			if err == nil {
				t.Errorf("timestamp(%s%s): want error, got %s", c.sign, c.digits, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("timestamp(%s%s): %v", c.sign, c.digits, err)
			continue
		}
		if got != c.want {
			t.Errorf("timestamp(%s%s): want %s, got %s", c.sign, c.digits, c.want, got)
		}
	}
}

func TestFormat(t *testing.T) {
	dec := newDecimal(DefaultPrecision)
	cases := []struct {
		val  string
		s    Settings
		want string
	}{
		{"-255", Settings{Base: 16}, "-0xff"},
		{"8", Settings{Base: 8}, "0o10"},
		{"5", Settings{Base: 2, CommaSeparated: true}, "0b101"},
		{"-1234567", Settings{Base: 10, CommaSeparated: true}, "-1,234,567"},
		{"60", Settings{Base: 10, CommaSeparated: true, Timestamp: true}, "1970-01-01T00:01:00.000Z"},
		{"65536", Settings{Base: 16, Timestamp: true}, "0x10000"},
	}
	for _, c := range cases {
		v, err := dec.ParseNumber(c.val, 10)
		if err != nil {
			t.Fatal(err)
		}
		got, err := format(dec, v, c.s)
		if err != nil {
			t.Errorf("formatting %s with %v: %v", c.val, c.s, err)
			continue
		}
		if got != c.want {
			t.Errorf("formatting %s with %v: want %s, got %s", c.val, c.s, c.want, got)
		}
	}
}
