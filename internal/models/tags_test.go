package models

import (
	"encoding/json"
	"testing"
)

// TestTagListRoundTrip tests the database Value/Scan pair
func TestTagListRoundTrip(t *testing.T) {
	tags := TagList{"music", "rock"}

	value, err := tags.Value()
	if err != nil {
		t.Fatalf("Unexpected error from Value: %v", err)
	}

	var scanned TagList
	if err := scanned.Scan(value); err != nil {
		t.Fatalf("Unexpected error from Scan: %v", err)
	}
	if len(scanned) != 2 || scanned[0] != "music" || scanned[1] != "rock" {
		t.Errorf("Expected [music rock], got %v", scanned)
	}

	// Drivers hand back strings as well as bytes
	if err := scanned.Scan(`["jazz"]`); err != nil {
		t.Fatalf("Unexpected error scanning a string: %v", err)
	}
	if len(scanned) != 1 || scanned[0] != "jazz" {
		t.Errorf("Expected [jazz], got %v", scanned)
	}

	if err := scanned.Scan(nil); err != nil {
		t.Fatalf("Unexpected error scanning nil: %v", err)
	}
	if scanned != nil {
		t.Errorf("Expected nil after scanning NULL, got %v", scanned)
	}
}

// TestTagListMarshalNil tests that a nil list serializes as []
func TestTagListMarshalNil(t *testing.T) {
	var tags TagList
	data, err := json.Marshal(tags)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if string(data) != "[]" {
		t.Errorf("Expected [], got %s", data)
	}

	value, err := tags.Value()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if string(value.([]byte)) != "[]" {
		t.Errorf("Expected [] from Value, got %s", value)
	}
}
