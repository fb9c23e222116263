package classify

import "testing"

func TestClassify_Precedence(t *testing.T) {
	tests := []struct {
		sentence string
		want     Kind
	}{
		// Negation beats the trailing question mark.
		{"I don't want that?", Negation},
		{"Please close the door.", Request},
		{"Is this the market?", Question},
		{"This is the market.", Statement},
		{"She cannot swim, but she is not afraid of water.", Negation},
		{"He doesn't eat meat.", Negation},
		{"I won't be late tomorrow.", Negation},
		// "please" mid-sentence is not a request.
		{"Say please when you ask for something.", Statement},
		{"Please, could you repeat that?", Request},
		{"What time does the bus leave?", Question},
		{"", Statement},
	}

	for _, tt := range tests {
		if got := Classify(tt.sentence); got != tt.want {
			t.Errorf("Classify(%q) = %q, want %q", tt.sentence, got, tt.want)
		}
	}
}

func TestCounter_Caps(t *testing.T) {
	c := NewCounter(DefaultCaps())

	for i := 0; i < 4; i++ {
		if c.WouldExceed(Statement) {
			t.Fatalf("statement %d rejected below the cap", i+1)
		}
		c.Record(Statement)
	}
	if !c.WouldExceed(Statement) {
		t.Errorf("fifth statement should exceed the cap")
	}

	if c.WouldExceed(Negation) {
		t.Errorf("first negation should be allowed")
	}
	c.Record(Negation)
	if !c.WouldExceed(Negation) {
		t.Errorf("second negation should exceed the cap")
	}
}

func TestCounter_UnknownKindUncapped(t *testing.T) {
	c := NewCounter(Caps{Statement: 1})
	c.Record(Question)
	c.Record(Question)
	if c.WouldExceed(Question) {
		t.Errorf("kinds without a cap entry must never be capped")
	}
}
