package pluginversion

import "testing"

func TestParseRoundTrip(t *testing.T) {
	cases := []string{"1.2.3", "0.0.0", "255.255.65535", "2.0"}
	for _, c := range cases {
		v, err := Parse(c)
		if err != nil {
			t.Fatalf("Parse(%q): %v", c, err)
		}
		got := v.String()
		want := c
		if c == "2.0" {
			want = "2.0.0"
		}
		if got != want {
			t.Errorf("Parse(%q).String() = %q, want %q", c, got, want)
		}
	}
}

func TestParseOverflow(t *testing.T) {
	for _, c := range []string{"256.0.0", "1.256.0", "1.0.65536", "bad"} {
		if _, err := Parse(c); err == nil {
			t.Errorf("Parse(%q): expected error", c)
		}
	}
}

func TestCompare(t *testing.T) {
	lesser := MustParse("1.2.3")
	greater := MustParse("1.2.4")
	if lesser.Compare(greater) >= 0 {
		t.Errorf("expected %s < %s", lesser, greater)
	}
	if greater.Compare(lesser) <= 0 {
		t.Errorf("expected %s > %s", greater, lesser)
	}
	if lesser.Compare(lesser) != 0 {
		t.Errorf("expected %s == %s", lesser, lesser)
	}
}

func TestConstraintBoundary(t *testing.T) {
	c, err := ParseConstraint(">>1.2.3")
	if err != nil {
		t.Fatal(err)
	}
	if c.Satisfies(MustParse("1.2.3")) {
		t.Errorf(">>1.2.3 should not be satisfied by 1.2.3")
	}
	if !c.Satisfies(MustParse("1.2.4")) {
		t.Errorf(">>1.2.3 should be satisfied by 1.2.4")
	}
}

func TestConstraintRange(t *testing.T) {
	c, err := ParseConstraint("1.0..2.0")
	if err != nil {
		t.Fatal(err)
	}
	for _, v := range []string{"1.0.0", "1.5.0", "2.0.0"} {
		if !c.Satisfies(MustParse(v)) {
			t.Errorf("range should be satisfied by %s", v)
		}
	}
	if c.Satisfies(MustParse("2.0.1")) {
		t.Errorf("range should not be satisfied by 2.0.1")
	}
}

func TestParseRequirement(t *testing.T) {
	req, err := ParseRequirement("routing (>=1.0.0)")
	if err != nil {
		t.Fatal(err)
	}
	if req.Name != "routing" {
		t.Errorf("Name = %q, want routing", req.Name)
	}
	if !req.Constraint.Satisfies(MustParse("1.0.0")) {
		t.Errorf("expected >=1.0.0 to be satisfied by 1.0.0")
	}

	bare, err := ParseRequirement("logger")
	if err != nil {
		t.Fatal(err)
	}
	if !bare.Constraint.Satisfies(MustParse("0.0.1")) {
		t.Errorf("bare requirement should match any version")
	}
}

func TestParseConstraintBadSyntax(t *testing.T) {
	for _, c := range []string{"", "~1.2.3", "1.0...2.0"} {
		if _, err := ParseConstraint(c); err == nil {
			t.Errorf("ParseConstraint(%q): expected error", c)
		}
	}
}
