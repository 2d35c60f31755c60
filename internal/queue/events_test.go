package queue

import "testing"

func TestCleanupEvent_RoundTrip(t *testing.T) {
	event := NewMediaCleanupEvent(42, "posts/image-1-abc.png")

	values, err := event.ToMap()
	if err != nil {
		t.Fatalf("ToMap: %v", err)
	}
	if values["type"] != EventMediaCleanup {
		t.Errorf("type field = %v, want %q", values["type"], EventMediaCleanup)
	}

	parsed, err := ParseCleanupEvent(values)
	if err != nil {
		t.Fatalf("ParseCleanupEvent: %v", err)
	}
	if parsed != event {
		t.Errorf("parsed = %+v, want %+v", parsed, event)
	}
}

func TestParseCleanupEvent_Malformed(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]interface{}
	}{
		{name: "missing data field", values: map[string]interface{}{"type": EventMediaCleanup}},
		{name: "data not a string", values: map[string]interface{}{"data": 12}},
		{name: "data not json", values: map[string]interface{}{"data": "{broken"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseCleanupEvent(tt.values); err == nil {
				t.Error("expected parse error")
			}
		})
	}
}
