package telemetry

import "testing"

func TestDecodeGSMLocation(t *testing.T) {
	loc := DecodeGSMLocation("+CIPGSMLOC: 0,121.4737,31.2304,20230101,120000")
	if loc == nil {
		t.Fatal("DecodeGSMLocation returned nil")
	}
	want := GSMLocation{Longitude: "121.4737", Latitude: "31.2304", Date: "20230101", Time: "120000"}
	if *loc != want {
		t.Errorf("DecodeGSMLocation = %+v; want %+v", *loc, want)
	}
	if loc.Quality() != QualityGSM {
		t.Errorf("Quality = %q; want %q", loc.Quality(), QualityGSM)
	}
}

func TestDecodeGSMLocation_KeepsRawTokens(t *testing.T) {
	loc := DecodeGSMLocation("+CIPGSMLOC: 0,121.354832,31.221345,2011/01/26,02:41:06")
	if loc == nil {
		t.Fatal("DecodeGSMLocation returned nil")
	}
	if loc.Date != "2011/01/26" || loc.Time != "02:41:06" {
		t.Errorf("Date, Time = %q, %q; want 2011/01/26, 02:41:06", loc.Date, loc.Time)
	}
	if loc.Longitude != "121.354832" || loc.Latitude != "31.221345" {
		t.Errorf("Longitude, Latitude = %q, %q", loc.Longitude, loc.Latitude)
	}
}

func TestDecodeGSMLocation_NoLocation(t *testing.T) {
	tests := []struct {
		name     string
		sentence string
	}{
		{name: "empty", sentence: ""},
		{name: "marker not at start", sentence: " +CIPGSMLOC: 0,121.4737,31.2304,20230101,120000"},
		{name: "marker without space", sentence: "+CIPGSMLOC:0,121.4737,31.2304,20230101,120000"},
		{name: "lower case marker", sentence: "+cipgsmloc: 0,121.4737,31.2304,20230101,120000"},
		{name: "error response has two fields", sentence: "+CIPGSMLOC: 601,0"},
		{name: "too many fields", sentence: "+CIPGSMLOC: 0,121.4737,31.2304,20230101,120000,extra"},
		{name: "marker only", sentence: "+CIPGSMLOC: "},
		{name: "other response", sentence: "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if loc := DecodeGSMLocation(tt.sentence); loc != nil {
				t.Errorf("DecodeGSMLocation(%q) = %+v; want nil", tt.sentence, loc)
			}
		})
	}
}
