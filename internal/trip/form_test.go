package trip

import (
	"errors"
	"math/rand"
	"testing"
)

func TestForm_UpdateFieldLeavesOthersUntouched(t *testing.T) {
	form := NewForm()

	if err := form.UpdateField(FieldUserName, "Alex"); err != nil {
		t.Fatalf("UpdateField() error = %v", err)
	}
	if err := form.UpdateField(FieldStartKM, "12345"); err != nil {
		t.Fatalf("UpdateField() error = %v", err)
	}
	if err := form.UpdateField(FieldEndKM, "12399"); err != nil {
		t.Fatalf("UpdateField() error = %v", err)
	}
	if err := form.UpdateField(FieldStartKM, "12340"); err != nil {
		t.Fatalf("UpdateField() error = %v", err)
	}

	want := Draft{UserName: "Alex", StartKM: "12340", EndKM: "12399"}
	if got := form.Draft(); got != want {
		t.Errorf("Draft() = %+v, want %+v", got, want)
	}
}

func TestForm_LastWriteWinsPerField(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	values := []string{"", "A", "12.", "-", "abc", "99.5", " Alex ", "1e3"}

	form := NewForm()
	want := map[Field]string{}

	for i := 0; i < 500; i++ {
		field := Fields[rng.Intn(len(Fields))]
		value := values[rng.Intn(len(values))]

		if err := form.UpdateField(field, value); err != nil {
			t.Fatalf("UpdateField(%s, %q) error = %v", field, value, err)
		}
		want[field] = value

		draft := form.Draft()
		for _, f := range Fields {
			if draft.Get(f) != want[f] {
				t.Fatalf("step %d: field %s = %q, want %q", i, f, draft.Get(f), want[f])
			}
		}
	}
}

func TestForm_UnknownFieldRejected(t *testing.T) {
	form := NewFormWith(Draft{UserName: "Alex"})

	err := form.UpdateField(Field("odometer"), "1")
	if !errors.Is(err, ErrUnknownField) {
		t.Fatalf("UpdateField() error = %v, want ErrUnknownField", err)
	}

	if got := form.Draft(); got != (Draft{UserName: "Alex"}) {
		t.Errorf("draft changed after rejected edit: %+v", got)
	}
}

func TestForm_Reset(t *testing.T) {
	tests := []struct {
		name  string
		draft Draft
	}{
		{"empty", Draft{}},
		{"full", Draft{UserName: "Alex", StartKM: "1", EndKM: "2"}},
		{"partial", Draft{StartKM: "12."}},
		{"garbage", Draft{UserName: "   ", StartKM: "abc", EndKM: "-"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := NewFormWith(tt.draft)
			form.Reset()

			got := form.Draft()
			if !got.IsEmpty() {
				t.Errorf("Draft() after Reset = %+v, want empty", got)
			}
		})
	}
}

func TestDraft_WithIsImmutable(t *testing.T) {
	before := Draft{UserName: "Alex", StartKM: "10"}

	after, err := before.With(FieldStartKM, "20")
	if err != nil {
		t.Fatalf("With() error = %v", err)
	}

	if before.StartKM != "10" {
		t.Errorf("original draft mutated: %+v", before)
	}
	if after.StartKM != "20" || after.UserName != "Alex" {
		t.Errorf("With() = %+v", after)
	}
}
